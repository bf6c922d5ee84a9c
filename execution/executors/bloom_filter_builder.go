package executors

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ryogrid/SamehadaExpr/container/hash"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * BloomFilterBuilder inserts keys of tuples selected on build side into a
 * bloom filter and attaches it to a BloomFilterPredicate of probe relation.
 * tuples whose key contains NULL are not inserted because such key never
 * joins.
 */
type BloomFilterBuilder struct {
	context *ExecutorContext
	plan    *plans.BloomFilterBuildPlanNode
}

func NewBloomFilterBuilder(context *ExecutorContext, plan *plans.BloomFilterBuildPlanNode) *BloomFilterBuilder {
	return &BloomFilterBuilder{context, plan}
}

// Build makes the filter from batches of build side emitted by child of the plan
func (b *BloomFilterBuilder) Build(batches []*Batch) (*expression.BloomFilterPredicate, error) {
	expected := 0
	for _, batch := range batches {
		expected += batch.Matches.NumTuples()
	}
	if expected == 0 {
		expected = 1
	}
	filter := bloom.NewWithEstimates(uint(expected), b.context.GetConfig().BloomFalsePositive)

	attr_ids := b.plan.GetBuildAttrIds()
	values := make([]types.Value, len(attr_ids))
	for _, batch := range batches {
		if err := b.context.GetContext().Err(); err != nil {
			return nil, err
		}
		batch.Block.RLock()
		batch.Matches.ForEach(func(tid types.TupleID) {
			for ii, attr_id := range attr_ids {
				values[ii] = batch.Accessor.GetValueAt(attr_id, tid)
				if values[ii].IsNull() {
					return
				}
			}
			filter.Add(hash.Fingerprint(values...))
		})
		batch.Block.RUnlock()
	}

	builder := expression.NewBloomFilterPredicateBuilder(b.plan.GetProbeRelation().GetID())
	if err := builder.AddBloomFilter(filter, b.plan.GetProbeAttrIds()); err != nil {
		return nil, err
	}
	return builder.Build(), nil
}
