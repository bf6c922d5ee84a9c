package block

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

/**
 * ComparisonPredicate is what sub-blocks need to know about a comparison
 * to estimate and evaluate it on their own.
 */
type ComparisonPredicate interface {
	GetComparisonID() operations.ComparisonID
	// true when one operand is an attribute and the other has a static value
	IsAttributeLiteralComparisonPredicate() bool
	// GetAttributeLiteralComparison returns the comparison normalized to
	// "attribute <comparison> literal". valid only for attribute-literal comparisons.
	GetAttributeLiteralComparison() (attr_id int, comparison operations.ComparisonID, literal types.Value)
	MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool
}

// TupleStorageSubBlock holds tuples of a block
type TupleStorageSubBlock interface {
	GetRelation() *catalog.CatalogRelation
	// false when some tuple ids in [0, end) have been deleted
	IsPacked() bool
	// one past max tuple id
	GetEndPosition() types.TupleID
	NumTuples() int
	HasTupleWithID(tid types.TupleID) bool
	// nil when packed
	GetExistenceMap() *bitmap.TupleIdSequence
	GetAttributeValue(tid types.TupleID, attr_id int) types.Value
	// CreateValueAccessor returns accessor over tuples in seq. all tuples when seq is nil.
	CreateValueAccessor(seq *bitmap.TupleIdSequence) access.ValueAccessor
	EstimatePredicateEvaluationCost(predicate ComparisonPredicate) PredicateCost
	GetMatchesForPredicate(predicate ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
}

type IndexKind int32

const (
	INDEX_KIND_INVALID IndexKind = iota
	INDEX_KIND_SMA
	INDEX_KIND_BLOOM_FILTER
	INDEX_KIND_SORTED_COLUMN
)

func (k IndexKind) String() string {
	switch k {
	case INDEX_KIND_SMA:
		return "SMA"
	case INDEX_KIND_BLOOM_FILTER:
		return "BloomFilter"
	case INDEX_KIND_SORTED_COLUMN:
		return "SortedColumn"
	default:
		return "Invalid"
	}
}

// IndexSubBlock is an auxiliary structure over tuples of a TupleStorageSubBlock
type IndexSubBlock interface {
	GetIndexKind() IndexKind
	EstimatePredicateEvaluationCost(predicate ComparisonPredicate) PredicateCost
	GetMatchesForPredicate(predicate ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	// AddEntry returns false when the index can no longer represent the tuples correctly
	AddEntry(tid types.TupleID) bool
	// RemoveEntry returns false when the index can no longer represent the tuples correctly
	RemoveEntry(tid types.TupleID) bool
	// Rebuild reconstructs the index from the tuple store
	Rebuild() bool
}

/**
 * SubBlocksReference bundles the sub-blocks of a block for evaluation of
 * predicates. indices whose flag in IndicesConsistent is false must not be used.
 */
type SubBlocksReference struct {
	TupleStore        TupleStorageSubBlock
	Indices           []IndexSubBlock
	IndicesConsistent []bool
}

func NewSubBlocksReference(tupleStore TupleStorageSubBlock, indices []IndexSubBlock, indicesConsistent []bool) *SubBlocksReference {
	return &SubBlocksReference{tupleStore, indices, indicesConsistent}
}
