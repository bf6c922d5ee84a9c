// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
)

/**
 * SelectionExecutor evaluates predicate of the plan over blocks one by one.
 * sub-blocks of each block are passed so that indices and sorted tuple
 * stores can answer comparisons.
 */
type SelectionExecutor struct {
	context *ExecutorContext
	plan    *plans.SelectionPlanNode
	nextIdx int
}

func NewSelectionExecutor(context *ExecutorContext, plan *plans.SelectionPlanNode) Executor {
	return &SelectionExecutor{context, plan, 0}
}

func (e *SelectionExecutor) Init() {
	e.nextIdx = 0
}

// Next emits matches of the next block. a block without matched tuple is
// also emitted.
func (e *SelectionExecutor) Next() (*Batch, Done, error) {
	blocks := e.plan.GetBlocks()
	if e.nextIdx >= len(blocks) {
		return nil, true, nil
	}
	if err := e.context.GetContext().Err(); err != nil {
		return nil, true, err
	}

	block_ := blocks[e.nextIdx]
	e.nextIdx++

	block_.RLock()
	defer block_.RUnlock()

	accessor := block_.CreateValueAccessor()
	existence_map := block_.GetExistenceMap()
	predicate := e.plan.GetPredicate()

	batch := &Batch{Block: block_, Relation: e.plan.GetRelation(), Accessor: accessor}
	if predicate == nil {
		batch.Matches = expression.GenerateSequenceForStaticResult(accessor, nil, existence_map, true)
	} else {
		batch.Matches = predicate.GetAllMatches(accessor, block_.GetSubBlocksReference(), nil, existence_map)
	}
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "SelectionExecutor: block %d of %s: %d matches\n",
		block_.GetID(), e.plan.GetRelation().GetName(), batch.Matches.NumTuples())
	return batch, false, nil
}
