package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// ConjunctionPredicate is logical AND of its operands. empty conjunction is true.
type ConjunctionPredicate struct {
	predicateWithList
}

func NewConjunctionPredicate() *ConjunctionPredicate {
	return &ConjunctionPredicate{predicateWithList{hasStatic: true, staticResult: true}}
}

func (p *ConjunctionPredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_CONJUNCTION
}

// AddPredicate adds operand. operands of a nested conjunction are taken over
// and the nested one must not be used after that.
func (p *ConjunctionPredicate) AddPredicate(operand Predicate) {
	var same_kind *predicateWithList
	if conjunction, ok := operand.(*ConjunctionPredicate); ok {
		same_kind = &conjunction.predicateWithList
	}
	p.addOperand(operand, same_kind, p.processStaticOperand, p.processDynamicOperand)
}

func (p *ConjunctionPredicate) processStaticOperand(operand Predicate) {
	if !operand.GetStaticResult() {
		p.hasStatic = true
		p.staticResult = false
	}
}

func (p *ConjunctionPredicate) processDynamicOperand() {
	if p.staticResult {
		p.hasStatic = false
	}
}

func (p *ConjunctionPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	for _, op := range p.dynamicOperandList {
		if !op.MatchesForSingleTuple(accessor, tuple_id) {
			return false
		}
	}
	return true
}

func (p *ConjunctionPredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	for _, op := range p.dynamicOperandList {
		if !op.MatchesForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id) {
			return false
		}
	}
	return true
}

func (p *ConjunctionPredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if p.hasStatic {
		return GenerateSequenceForStaticResult(accessor, filter, existence_map, p.staticResult)
	}

	// each operand is evaluated only on tuples which passed preceding operands
	current := initialCandidates(accessor, filter, existence_map)
	for _, op := range p.dynamicOperandList {
		op_result := op.GetAllMatches(accessor, sub_blocks_ref, current, existence_map)
		current.IntersectWith(op_result)
		if current.Empty() {
			break
		}
	}
	return current
}

func (p *ConjunctionPredicate) Clone() Predicate {
	ret := NewConjunctionPredicate()
	for _, op := range p.GetOperands() {
		ret.AddPredicate(op.Clone())
	}
	return ret
}

// ConjunctionBuilder accumulates operands and builds a ConjunctionPredicate
type ConjunctionBuilder struct {
	predicate *ConjunctionPredicate
}

func NewConjunctionBuilder() *ConjunctionBuilder {
	return &ConjunctionBuilder{NewConjunctionPredicate()}
}

func (b *ConjunctionBuilder) Add(operand Predicate) *ConjunctionBuilder {
	b.predicate.AddPredicate(operand)
	return b
}

// Build returns the predicate. the builder must not be used after Build.
func (b *ConjunctionBuilder) Build() *ConjunctionPredicate {
	ret := b.predicate
	b.predicate = nil
	return ret
}
