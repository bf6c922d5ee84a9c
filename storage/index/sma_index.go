package index

import (
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

type Selectivity int

const (
	SELECTIVITY_UNKNOWN Selectivity = iota
	SELECTIVITY_ALL
	SELECTIVITY_NONE
)

type smaEntry struct {
	min       *types.Value
	max       *types.Value
	nullCount int
	count     int
}

/**
 * SMAIndexSubBlock keeps small materialized aggregates (min, max, null count)
 * of attributes. it answers comparisons whose result is all or none of the
 * tuples in constant time.
 */
type SMAIndexSubBlock struct {
	store   block.TupleStorageSubBlock
	entries map[int]*smaEntry
}

func NewSMAIndexSubBlock(store block.TupleStorageSubBlock, attr_ids []int) *SMAIndexSubBlock {
	ret := &SMAIndexSubBlock{store, make(map[int]*smaEntry)}
	for _, attr_id := range attr_ids {
		ret.entries[attr_id] = &smaEntry{}
	}
	return ret
}

func (idx *SMAIndexSubBlock) GetIndexKind() block.IndexKind {
	return block.INDEX_KIND_SMA
}

// GetMinMax returns nil when attribute has no non NULL value
func (idx *SMAIndexSubBlock) GetMinMax(attr_id int) (*types.Value, *types.Value) {
	entry, ok := idx.entries[attr_id]
	if !ok {
		return nil, nil
	}
	return entry.min, entry.max
}

func (idx *SMAIndexSubBlock) isIndexed(attr_id int) bool {
	_, ok := idx.entries[attr_id]
	return ok
}

func (idx *SMAIndexSubBlock) GetSelectivityForPredicate(predicate block.ComparisonPredicate) Selectivity {
	attr_id, ok := indexedAttributeLiteral(predicate, idx.isIndexed)
	if !ok {
		return SELECTIVITY_UNKNOWN
	}
	_, comparison, literal := predicate.GetAttributeLiteralComparison()
	entry := idx.entries[attr_id]
	if literal.IsNull() || entry.count == entry.nullCount {
		return SELECTIVITY_NONE
	}

	min, max := *entry.min, *entry.max
	hasNull := entry.nullCount > 0
	all := func(cond bool) bool {
		return cond && !hasNull
	}
	switch comparison {
	case operations.Equal:
		if literal.CompareLessThan(min) || literal.CompareGreaterThan(max) {
			return SELECTIVITY_NONE
		} else if all(min.CompareEquals(literal) && max.CompareEquals(literal)) {
			return SELECTIVITY_ALL
		}
	case operations.NotEqual:
		if min.CompareEquals(literal) && max.CompareEquals(literal) {
			return SELECTIVITY_NONE
		} else if all(literal.CompareLessThan(min) || literal.CompareGreaterThan(max)) {
			return SELECTIVITY_ALL
		}
	case operations.Less:
		if all(max.CompareLessThan(literal)) {
			return SELECTIVITY_ALL
		} else if min.CompareGreaterThanOrEqual(literal) {
			return SELECTIVITY_NONE
		}
	case operations.LessOrEqual:
		if all(max.CompareLessThanOrEqual(literal)) {
			return SELECTIVITY_ALL
		} else if min.CompareGreaterThan(literal) {
			return SELECTIVITY_NONE
		}
	case operations.Greater:
		if all(min.CompareGreaterThan(literal)) {
			return SELECTIVITY_ALL
		} else if max.CompareLessThanOrEqual(literal) {
			return SELECTIVITY_NONE
		}
	case operations.GreaterOrEqual:
		if all(min.CompareGreaterThanOrEqual(literal)) {
			return SELECTIVITY_ALL
		} else if max.CompareLessThan(literal) {
			return SELECTIVITY_NONE
		}
	}
	return SELECTIVITY_UNKNOWN
}

func (idx *SMAIndexSubBlock) EstimatePredicateEvaluationCost(predicate block.ComparisonPredicate) block.PredicateCost {
	if idx.GetSelectivityForPredicate(predicate) == SELECTIVITY_UNKNOWN {
		return block.PREDICATE_COST_INFINITE
	}
	return block.PREDICATE_COST_CONSTANT_TIME
}

func (idx *SMAIndexSubBlock) GetMatchesForPredicate(predicate block.ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	switch idx.GetSelectivityForPredicate(predicate) {
	case SELECTIVITY_ALL:
		return allMatches(idx.store, filter)
	case SELECTIVITY_NONE:
		return noMatches(idx.store)
	default:
		common.FatalError("SMAIndexSubBlock can not evaluate predicate whose selectivity is unknown")
		return nil
	}
}

func (idx *SMAIndexSubBlock) AddEntry(tid types.TupleID) bool {
	for attr_id, entry := range idx.entries {
		entry.add(idx.store.GetAttributeValue(tid, attr_id))
	}
	return true
}

// RemoveEntry keeps aggregates valid unless removed value was a bound
func (idx *SMAIndexSubBlock) RemoveEntry(tid types.TupleID) bool {
	ret := true
	for attr_id, entry := range idx.entries {
		val := idx.store.GetAttributeValue(tid, attr_id)
		entry.count--
		if val.IsNull() {
			entry.nullCount--
			continue
		}
		if val.CompareEquals(*entry.min) || val.CompareEquals(*entry.max) {
			ret = false
		}
	}
	return ret
}

func (idx *SMAIndexSubBlock) Rebuild() bool {
	for attr_id := range idx.entries {
		idx.entries[attr_id] = &smaEntry{}
	}
	for tid := types.TupleID(0); tid < idx.store.GetEndPosition(); tid++ {
		if idx.store.HasTupleWithID(tid) {
			idx.AddEntry(tid)
		}
	}
	return true
}

func (e *smaEntry) add(val types.Value) {
	e.count++
	if val.IsNull() {
		e.nullCount++
		return
	}
	if e.min == nil {
		min, max := val, val
		e.min, e.max = &min, &max
		return
	}
	e.min = e.min.Min(&val)
	e.max = e.max.Max(&val)
}
