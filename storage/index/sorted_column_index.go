package index

import (
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
	"golang.org/x/exp/slices"
)

type sortedEntry struct {
	key types.Value
	tid types.TupleID
}

/**
 * SortedColumnIndexSubBlock keeps (value, tuple id) pairs of an attribute
 * ordered by value. NULLs are not indexed as no comparison matches them.
 */
type SortedColumnIndexSubBlock struct {
	store   block.TupleStorageSubBlock
	attrId  int
	entries []sortedEntry
}

func NewSortedColumnIndexSubBlock(store block.TupleStorageSubBlock, attr_id int) *SortedColumnIndexSubBlock {
	return &SortedColumnIndexSubBlock{store, attr_id, make([]sortedEntry, 0)}
}

func (idx *SortedColumnIndexSubBlock) GetIndexKind() block.IndexKind {
	return block.INDEX_KIND_SORTED_COLUMN
}

func (idx *SortedColumnIndexSubBlock) GetAttributeId() int {
	return idx.attrId
}

func compareEntries(l sortedEntry, r sortedEntry) int {
	if l.key.CompareLessThan(r.key) {
		return -1
	} else if l.key.CompareGreaterThan(r.key) {
		return 1
	}
	if l.tid < r.tid {
		return -1
	} else if l.tid > r.tid {
		return 1
	}
	return 0
}

func (idx *SortedColumnIndexSubBlock) EstimatePredicateEvaluationCost(predicate block.ComparisonPredicate) block.PredicateCost {
	if _, ok := indexedAttributeLiteral(predicate, func(attr_id int) bool { return attr_id == idx.attrId }); !ok {
		return block.PREDICATE_COST_INFINITE
	}
	if predicate.GetComparisonID() == operations.NotEqual {
		return block.PREDICATE_COST_INFINITE
	}
	return block.PREDICATE_COST_BINARY_SEARCH
}

// bounds returns [first entry >= literal, first entry > literal)
func (idx *SortedColumnIndexSubBlock) bounds(literal types.Value) (int, int) {
	lower, _ := slices.BinarySearchFunc(idx.entries, literal, func(e sortedEntry, target types.Value) int {
		if e.key.CompareLessThan(target) {
			return -1
		}
		return 1
	})
	upper, _ := slices.BinarySearchFunc(idx.entries, literal, func(e sortedEntry, target types.Value) int {
		if e.key.CompareLessThanOrEqual(target) {
			return -1
		}
		return 1
	})
	return lower, upper
}

func (idx *SortedColumnIndexSubBlock) GetMatchesForPredicate(predicate block.ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	ret := noMatches(idx.store)
	_, comparison, literal := predicate.GetAttributeLiteralComparison()
	if literal.IsNull() {
		return ret
	}

	lower, upper := idx.bounds(literal)
	setRange := func(begin int, end int) {
		for _, entry := range idx.entries[begin:end] {
			if filter == nil || filter.Get(entry.tid) {
				ret.Set(entry.tid, true)
			}
		}
	}
	switch comparison {
	case operations.Equal:
		setRange(lower, upper)
	case operations.NotEqual:
		setRange(0, lower)
		setRange(upper, len(idx.entries))
	case operations.Less:
		setRange(0, lower)
	case operations.LessOrEqual:
		setRange(0, upper)
	case operations.Greater:
		setRange(upper, len(idx.entries))
	case operations.GreaterOrEqual:
		setRange(lower, len(idx.entries))
	default:
		panic("illegal comparisonID!")
	}
	return ret
}

func (idx *SortedColumnIndexSubBlock) AddEntry(tid types.TupleID) bool {
	val := idx.store.GetAttributeValue(tid, idx.attrId)
	if val.IsNull() {
		return true
	}
	entry := sortedEntry{val, tid}
	pos, _ := slices.BinarySearchFunc(idx.entries, entry, compareEntries)
	idx.entries = slices.Insert(idx.entries, pos, entry)
	return true
}

func (idx *SortedColumnIndexSubBlock) RemoveEntry(tid types.TupleID) bool {
	val := idx.store.GetAttributeValue(tid, idx.attrId)
	if val.IsNull() {
		return true
	}
	pos, found := slices.BinarySearchFunc(idx.entries, sortedEntry{val, tid}, compareEntries)
	if !found {
		return false
	}
	idx.entries = slices.Delete(idx.entries, pos, pos+1)
	return true
}

func (idx *SortedColumnIndexSubBlock) Rebuild() bool {
	idx.entries = idx.entries[:0]
	for tid := types.TupleID(0); tid < idx.store.GetEndPosition(); tid++ {
		if !idx.store.HasTupleWithID(tid) {
			continue
		}
		val := idx.store.GetAttributeValue(tid, idx.attrId)
		if !val.IsNull() {
			idx.entries = append(idx.entries, sortedEntry{val, tid})
		}
	}
	slices.SortFunc(idx.entries, compareEntries)
	return true
}
