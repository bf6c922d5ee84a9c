package expression

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/hash"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * BloomFilterPredicate is probe side of a join filtered with bloom filters
 * built from build side. a tuple matches when the key made from its attributes
 * may be contained in every attached filter. a key which contains NULL never
 * matches. without attached filter the predicate is true.
 * filters are attached through BloomFilterPredicateBuilder only, so static
 * result never changes after construction.
 */
type BloomFilterPredicate struct {
	relationId       catalog.RelationID
	filters          []*bloom.BloomFilter
	attributeIdLists [][]int
}

// BloomFilterPredicateBuilder accumulates filters and builds a BloomFilterPredicate
type BloomFilterPredicateBuilder struct {
	relationId       catalog.RelationID
	filters          []*bloom.BloomFilter
	attributeIdLists [][]int
}

func NewBloomFilterPredicateBuilder(relation_id catalog.RelationID) *BloomFilterPredicateBuilder {
	return &BloomFilterPredicateBuilder{relationId: relation_id}
}

// AddBloomFilter attaches filter whose keys are made from attributes of attr_ids
func (b *BloomFilterPredicateBuilder) AddBloomFilter(filter *bloom.BloomFilter, attr_ids []int) error {
	if filter == nil || len(attr_ids) == 0 {
		return ErrBloomFilterNotAttached
	}
	b.filters = append(b.filters, filter)
	b.attributeIdLists = append(b.attributeIdLists, append([]int(nil), attr_ids...))
	return nil
}

// Build returns predicate over filters added so far. the builder may be reused.
func (b *BloomFilterPredicateBuilder) Build() *BloomFilterPredicate {
	return &BloomFilterPredicate{
		relationId:       b.relationId,
		filters:          append([]*bloom.BloomFilter(nil), b.filters...),
		attributeIdLists: append([][]int(nil), b.attributeIdLists...),
	}
}

func (p *BloomFilterPredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_BLOOM_FILTER
}

func (p *BloomFilterPredicate) GetRelationId() catalog.RelationID {
	return p.relationId
}

func (p *BloomFilterPredicate) GetNumFilters() int {
	return len(p.filters)
}

func (p *BloomFilterPredicate) GetAttributeIdLists() [][]int {
	return p.attributeIdLists
}

func (p *BloomFilterPredicate) HasStaticResult() bool {
	return len(p.filters) == 0
}

func (p *BloomFilterPredicate) GetStaticResult() bool {
	if len(p.filters) != 0 {
		common.FatalError("GetStaticResult is called on BloomFilterPredicate with attached filters!")
	}
	return true
}

func (p *BloomFilterPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	values := make([]types.Value, 0)
	for ii, filter := range p.filters {
		values = values[:0]
		for _, attr_id := range p.attributeIdLists[ii] {
			val := accessor.GetValueAt(attr_id, tuple_id)
			if val.IsNull() {
				return false
			}
			values = append(values, val)
		}
		if !filter.Test(hash.Fingerprint(values...)) {
			return false
		}
	}
	return true
}

func (p *BloomFilterPredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	accessor, tuple_id := pickJoinSide(p.relationId,
		left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
	return p.MatchesForSingleTuple(accessor, tuple_id)
}

func (p *BloomFilterPredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if len(p.filters) == 0 {
		return GenerateSequenceForStaticResult(accessor, filter, existence_map, true)
	}

	result := bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	accessor.ForEachTuple(func(tid types.TupleID) {
		if filter != nil && !filter.Get(tid) {
			return
		}
		if existence_map != nil && !existence_map.Get(tid) {
			return
		}
		if p.MatchesForSingleTuple(accessor, tid) {
			result.Set(tid, true)
		}
	})
	return result
}

func (p *BloomFilterPredicate) Clone() Predicate {
	ret := &BloomFilterPredicate{relationId: p.relationId}
	for ii, filter := range p.filters {
		ret.filters = append(ret.filters, filter.Copy())
		ret.attributeIdLists = append(ret.attributeIdLists, append([]int(nil), p.attributeIdLists[ii]...))
	}
	return ret
}
