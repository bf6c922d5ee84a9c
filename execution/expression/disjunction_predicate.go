package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// DisjunctionPredicate is logical OR of its operands. empty disjunction is false.
type DisjunctionPredicate struct {
	predicateWithList
	// no operand has been added yet
	fresh bool
}

func NewDisjunctionPredicate() *DisjunctionPredicate {
	return &DisjunctionPredicate{predicateWithList{hasStatic: true, staticResult: false}, true}
}

func (p *DisjunctionPredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_DISJUNCTION
}

// AddPredicate adds operand. operands of a nested disjunction are taken over
// and the nested one must not be used after that.
func (p *DisjunctionPredicate) AddPredicate(operand Predicate) {
	var same_kind *predicateWithList
	if disjunction, ok := operand.(*DisjunctionPredicate); ok {
		same_kind = &disjunction.predicateWithList
	}
	p.addOperand(operand, same_kind, p.processStaticOperand, p.processDynamicOperand)
}

func (p *DisjunctionPredicate) processStaticOperand(operand Predicate) {
	if operand.GetStaticResult() {
		p.hasStatic = true
		p.staticResult = true
	} else if p.fresh {
		p.hasStatic = true
		p.staticResult = false
	}
	p.fresh = false
}

func (p *DisjunctionPredicate) processDynamicOperand() {
	if p.hasStatic && !p.staticResult {
		p.hasStatic = false
	} else if p.fresh {
		p.hasStatic = false
	}
	p.fresh = false
}

func (p *DisjunctionPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	for _, op := range p.dynamicOperandList {
		if op.MatchesForSingleTuple(accessor, tuple_id) {
			return true
		}
	}
	return false
}

func (p *DisjunctionPredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	for _, op := range p.dynamicOperandList {
		if op.MatchesForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id) {
			return true
		}
	}
	return false
}

func (p *DisjunctionPredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if p.hasStatic {
		return GenerateSequenceForStaticResult(accessor, filter, existence_map, p.staticResult)
	}

	union_result := bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	short_circuit := common.EnableVectorPredicateShortCircuit

	// tuples which are not matched by preceding operands yet
	var current_filter *bitmap.TupleIdSequence
	if short_circuit {
		current_filter = initialCandidates(accessor, filter, existence_map)
	}

	for _, op := range p.dynamicOperandList {
		var op_result *bitmap.TupleIdSequence
		if short_circuit {
			op_result = op.GetAllMatches(accessor, sub_blocks_ref, current_filter, existence_map)
		} else {
			op_result = op.GetAllMatches(accessor, sub_blocks_ref, filter, existence_map)
		}
		union_result.UnionWith(op_result)

		if short_circuit {
			op_result.Invert()
			current_filter.IntersectWith(op_result)
			if current_filter.Empty() {
				break
			}
		}
	}
	return union_result
}

func (p *DisjunctionPredicate) Clone() Predicate {
	ret := NewDisjunctionPredicate()
	for _, op := range p.GetOperands() {
		ret.AddPredicate(op.Clone())
	}
	return ret
}

// DisjunctionBuilder accumulates operands and builds a DisjunctionPredicate
type DisjunctionBuilder struct {
	predicate *DisjunctionPredicate
}

func NewDisjunctionBuilder() *DisjunctionBuilder {
	return &DisjunctionBuilder{NewDisjunctionPredicate()}
}

func (b *DisjunctionBuilder) Add(operand Predicate) *DisjunctionBuilder {
	b.predicate.AddPredicate(operand)
	return b
}

// Build returns the predicate. the builder must not be used after Build.
func (b *DisjunctionBuilder) Build() *DisjunctionPredicate {
	ret := b.predicate
	b.predicate = nil
	return ret
}
