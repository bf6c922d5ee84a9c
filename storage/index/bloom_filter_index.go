package index

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ryogrid/SamehadaExpr/container/hash"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

/**
 * BloomFilterIndexSubBlock holds a bloom filter over values of an attribute.
 * an equality comparison with a literal which is not in the filter matches
 * no tuple, and this is answered in constant time. otherwise the index can
 * not help and the cost is infinite.
 */
type BloomFilterIndexSubBlock struct {
	store         block.TupleStorageSubBlock
	attrId        int
	expectedNum   uint
	falsePositive float64
	filter        *bloom.BloomFilter
}

func NewBloomFilterIndexSubBlock(store block.TupleStorageSubBlock, attr_id int, expectedNum uint, falsePositive float64) *BloomFilterIndexSubBlock {
	if expectedNum == 0 {
		expectedNum = 1
	}
	return &BloomFilterIndexSubBlock{store, attr_id, expectedNum, falsePositive, bloom.NewWithEstimates(expectedNum, falsePositive)}
}

func (idx *BloomFilterIndexSubBlock) GetIndexKind() block.IndexKind {
	return block.INDEX_KIND_BLOOM_FILTER
}

func (idx *BloomFilterIndexSubBlock) GetAttributeId() int {
	return idx.attrId
}

// MayContain reports whether val may be a value of the attribute
func (idx *BloomFilterIndexSubBlock) MayContain(val types.Value) bool {
	return idx.filter.Test(hash.Fingerprint(val))
}

// isMiss is true when predicate is an equality with a literal which is surely absent
func (idx *BloomFilterIndexSubBlock) isMiss(predicate block.ComparisonPredicate) (applicable bool, miss bool) {
	_, ok := indexedAttributeLiteral(predicate, func(attr_id int) bool { return attr_id == idx.attrId })
	if !ok {
		return false, false
	}
	_, comparison, literal := predicate.GetAttributeLiteralComparison()
	if comparison != operations.Equal {
		return false, false
	}
	if literal.IsNull() {
		return true, true
	}
	return true, !idx.MayContain(literal)
}

func (idx *BloomFilterIndexSubBlock) EstimatePredicateEvaluationCost(predicate block.ComparisonPredicate) block.PredicateCost {
	if applicable, miss := idx.isMiss(predicate); applicable && miss {
		return block.PREDICATE_COST_CONSTANT_TIME
	}
	return block.PREDICATE_COST_INFINITE
}

// GetMatchesForPredicate returns no tuple on a miss. on a hit all tuples are candidates.
func (idx *BloomFilterIndexSubBlock) GetMatchesForPredicate(predicate block.ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if applicable, miss := idx.isMiss(predicate); applicable && miss {
		return noMatches(idx.store)
	}
	return allMatches(idx.store, filter)
}

func (idx *BloomFilterIndexSubBlock) AddEntry(tid types.TupleID) bool {
	val := idx.store.GetAttributeValue(tid, idx.attrId)
	if !val.IsNull() {
		idx.filter.Add(hash.Fingerprint(val))
	}
	return true
}

// RemoveEntry can not be applied to bloom filter
func (idx *BloomFilterIndexSubBlock) RemoveEntry(tid types.TupleID) bool {
	return false
}

func (idx *BloomFilterIndexSubBlock) Rebuild() bool {
	expectedNum := idx.expectedNum
	if n := uint(idx.store.NumTuples()); n > expectedNum {
		expectedNum = n
	}
	idx.filter = bloom.NewWithEstimates(expectedNum, idx.falsePositive)
	for tid := types.TupleID(0); tid < idx.store.GetEndPosition(); tid++ {
		if idx.store.HasTupleWithID(tid) {
			idx.AddEntry(tid)
		}
	}
	return true
}
