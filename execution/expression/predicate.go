package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

type PredicateType int32

const (
	PREDICATE_TYPE_TRUE PredicateType = iota
	PREDICATE_TYPE_FALSE
	PREDICATE_TYPE_COMPARISON
	PREDICATE_TYPE_NEGATION
	PREDICATE_TYPE_CONJUNCTION
	PREDICATE_TYPE_DISJUNCTION
	PREDICATE_TYPE_BLOOM_FILTER
)

func (t PredicateType) String() string {
	switch t {
	case PREDICATE_TYPE_TRUE:
		return "True"
	case PREDICATE_TYPE_FALSE:
		return "False"
	case PREDICATE_TYPE_COMPARISON:
		return "Comparison"
	case PREDICATE_TYPE_NEGATION:
		return "Negation"
	case PREDICATE_TYPE_CONJUNCTION:
		return "Conjunction"
	case PREDICATE_TYPE_DISJUNCTION:
		return "Disjunction"
	case PREDICATE_TYPE_BLOOM_FILTER:
		return "BloomFilter"
	default:
		return "Unknown"
	}
}

/**
 * Predicate is a boolean expression evaluated on tuples.
 * a predicate tree is immutable once evaluation starts and can be shared by
 * goroutines which evaluate different blocks.
 */
type Predicate interface {
	GetPredicateType() PredicateType

	// HasStaticResult is true when the result is same for every tuple
	HasStaticResult() bool
	// GetStaticResult must be called only when HasStaticResult is true
	GetStaticResult() bool

	MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool
	MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
		right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool

	// GetAllMatches returns tuples of accessor which satisfy the predicate.
	// sub_blocks_ref, filter and existence_map can be nil. the result is a
	// subset of filter and existence_map when they are passed.
	GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
		filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence

	Clone() Predicate
}

// GenerateSequenceForStaticResult returns all candidate tuples when result
// is true and no tuple otherwise. candidates are filter, else existence_map,
// else all of [0, end).
func GenerateSequenceForStaticResult(accessor access.ValueAccessor, filter *bitmap.TupleIdSequence,
	existence_map *bitmap.TupleIdSequence, result bool) *bitmap.TupleIdSequence {
	matches := bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	if result {
		if filter != nil {
			matches.AssignFrom(filter)
		} else if existence_map != nil {
			matches.AssignFrom(existence_map)
		} else {
			matches.SetRange(0, matches.Length(), true)
		}
	}
	return matches
}

// initialCandidates is filter, else existence_map, else all of [0, end) as a new sequence
func initialCandidates(accessor access.ValueAccessor, filter *bitmap.TupleIdSequence,
	existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	return GenerateSequenceForStaticResult(accessor, filter, existence_map, true)
}
