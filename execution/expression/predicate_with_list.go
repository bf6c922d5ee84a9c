package expression

import (
	"github.com/ryogrid/SamehadaExpr/common"
)

/**
 * predicateWithList is common part of conjunction and disjunction.
 * operands are partitioned to ones which have static result and the others,
 * and static result of the whole list is folded each time an operand is added.
 */
type predicateWithList struct {
	staticOperandList  []Predicate
	dynamicOperandList []Predicate
	hasStatic          bool
	staticResult       bool
}

func (p *predicateWithList) HasStaticResult() bool {
	return p.hasStatic
}

func (p *predicateWithList) GetStaticResult() bool {
	if !p.hasStatic {
		common.FatalError("GetStaticResult is called on predicate list without static result!")
	}
	return p.staticResult
}

func (p *predicateWithList) GetOperandCount() int {
	return len(p.staticOperandList) + len(p.dynamicOperandList)
}

func (p *predicateWithList) GetStaticOperands() []Predicate {
	return p.staticOperandList
}

func (p *predicateWithList) GetDynamicOperands() []Predicate {
	return p.dynamicOperandList
}

// GetOperands returns static operands followed by dynamic operands
func (p *predicateWithList) GetOperands() []Predicate {
	ret := make([]Predicate, 0, p.GetOperandCount())
	ret = append(ret, p.staticOperandList...)
	return append(ret, p.dynamicOperandList...)
}

// addOperand appends operand to the list. nested list of same kind is
// flattened. processStatic is called for each static operand added and
// processDynamic once if any dynamic operand is added.
func (p *predicateWithList) addOperand(operand Predicate, same_kind *predicateWithList,
	processStatic func(Predicate), processDynamic func()) {
	if same_kind != nil {
		start := len(p.staticOperandList)
		p.staticOperandList = append(p.staticOperandList, same_kind.staticOperandList...)
		for _, op := range p.staticOperandList[start:] {
			processStatic(op)
		}
		if len(same_kind.dynamicOperandList) > 0 {
			p.dynamicOperandList = append(p.dynamicOperandList, same_kind.dynamicOperandList...)
			processDynamic()
		}
		return
	}

	if operand.HasStaticResult() {
		p.staticOperandList = append(p.staticOperandList, operand)
		processStatic(operand)
	} else {
		p.dynamicOperandList = append(p.dynamicOperandList, operand)
		processDynamic()
	}
}
