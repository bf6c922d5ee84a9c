package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// TruePredicate matches every tuple
type TruePredicate struct{}

func NewTruePredicate() *TruePredicate {
	return &TruePredicate{}
}

func (p *TruePredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_TRUE
}

func (p *TruePredicate) HasStaticResult() bool {
	return true
}

func (p *TruePredicate) GetStaticResult() bool {
	return true
}

func (p *TruePredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	return true
}

func (p *TruePredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	return true
}

func (p *TruePredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	return GenerateSequenceForStaticResult(accessor, filter, existence_map, true)
}

func (p *TruePredicate) Clone() Predicate {
	return NewTruePredicate()
}

// FalsePredicate matches no tuple
type FalsePredicate struct{}

func NewFalsePredicate() *FalsePredicate {
	return &FalsePredicate{}
}

func (p *FalsePredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_FALSE
}

func (p *FalsePredicate) HasStaticResult() bool {
	return true
}

func (p *FalsePredicate) GetStaticResult() bool {
	return false
}

func (p *FalsePredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	return false
}

func (p *FalsePredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	return false
}

func (p *FalsePredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	return GenerateSequenceForStaticResult(accessor, filter, existence_map, false)
}

func (p *FalsePredicate) Clone() Predicate {
	return NewFalsePredicate()
}
