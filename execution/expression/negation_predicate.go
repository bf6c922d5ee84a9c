package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// NegationPredicate is logical NOT of its operand
type NegationPredicate struct {
	operand      Predicate
	hasStatic    bool
	staticResult bool
}

// NegatePredicate returns negation of operand.
// negation of a NegationPredicate is its inner operand.
func NegatePredicate(operand Predicate) Predicate {
	if negation, ok := operand.(*NegationPredicate); ok {
		return negation.operand
	}
	ret := &NegationPredicate{operand: operand}
	if operand.HasStaticResult() {
		ret.hasStatic = true
		ret.staticResult = !operand.GetStaticResult()
	}
	return ret
}

func (p *NegationPredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_NEGATION
}

func (p *NegationPredicate) GetOperand() Predicate {
	return p.operand
}

func (p *NegationPredicate) HasStaticResult() bool {
	return p.hasStatic
}

func (p *NegationPredicate) GetStaticResult() bool {
	if !p.hasStatic {
		common.FatalError("GetStaticResult is called on NegationPredicate without static result!")
	}
	return p.staticResult
}

func (p *NegationPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	return !p.operand.MatchesForSingleTuple(accessor, tuple_id)
}

func (p *NegationPredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	return !p.operand.MatchesForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
}

func (p *NegationPredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if p.hasStatic {
		return GenerateSequenceForStaticResult(accessor, filter, existence_map, p.staticResult)
	}
	result := p.operand.GetAllMatches(accessor, sub_blocks_ref, filter, existence_map)
	result.Invert()
	if filter != nil {
		result.IntersectWith(filter)
	}
	if existence_map != nil {
		result.IntersectWith(existence_map)
	}
	return result
}

func (p *NegationPredicate) Clone() Predicate {
	return &NegationPredicate{p.operand.Clone(), p.hasStatic, p.staticResult}
}
