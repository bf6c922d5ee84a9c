package executors

import (
	"errors"

	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * NestedLoopJoinExecutor materializes batches of right child at Init and
 * emits one batch for each pair of (left batch, right batch).
 * a self join is not supported because scalars pick join side by relation id.
 */
type NestedLoopJoinExecutor struct {
	context      *ExecutorContext
	plan         *plans.NestedLoopJoinPlanNode
	left         Executor
	right        Executor
	rightBatches []*Batch
	curLeft      *Batch
	rightIdx     int
	initErr      error
}

func NewNestedLoopJoinExecutor(exec_ctx *ExecutorContext, plan *plans.NestedLoopJoinPlanNode, left Executor,
	right Executor) *NestedLoopJoinExecutor {
	ret := new(NestedLoopJoinExecutor)
	ret.plan = plan
	ret.left = left
	ret.right = right
	ret.context = exec_ctx
	ret.rightBatches = make([]*Batch, 0)
	return ret
}

func (e *NestedLoopJoinExecutor) Init() {
	e.left.Init()
	e.right.Init()

	e.rightBatches = e.rightBatches[:0]
	e.curLeft = nil
	e.rightIdx = 0
	e.initErr = nil
	for {
		rightBatch, doneRight, errRight := e.right.Next()
		if errRight != nil {
			e.initErr = errRight
			return
		}
		if doneRight {
			return
		}
		if rightBatch.Matches.Empty() {
			continue
		}
		e.rightBatches = append(e.rightBatches, rightBatch)
	}
}

func (e *NestedLoopJoinExecutor) Next() (*Batch, Done, error) {
	if e.initErr != nil {
		return nil, true, e.initErr
	}
	for e.curLeft == nil || e.rightIdx >= len(e.rightBatches) {
		if len(e.rightBatches) == 0 {
			return nil, true, nil
		}
		leftBatch, doneLeft, errLeft := e.left.Next()
		if errLeft != nil {
			return nil, true, errLeft
		}
		if doneLeft {
			return nil, true, nil
		}
		if leftBatch == nil || leftBatch.Matches == nil {
			return nil, true, errors.New("left child of nested loop join returned a batch without matches.")
		}
		e.curLeft = leftBatch
		e.rightIdx = 0
	}
	if err := e.context.GetContext().Err(); err != nil {
		return nil, true, err
	}

	rightBatch := e.rightBatches[e.rightIdx]
	e.rightIdx++
	return e.join(e.curLeft, rightBatch), false, nil
}

func (e *NestedLoopJoinExecutor) join(left *Batch, right *Batch) *Batch {
	left.Block.RLock()
	defer left.Block.RUnlock()
	if right.Block != left.Block {
		right.Block.RLock()
		defer right.Block.RUnlock()
	}

	left_rel_id := left.Relation.GetID()
	right_rel_id := right.Relation.GetID()
	predicate := e.plan.OnPredicate()

	joined := make([]expression.JoinedTupleIDs, 0)
	left.Matches.ForEach(func(left_tid types.TupleID) {
		right.Matches.ForEach(func(right_tid types.TupleID) {
			if predicate == nil || predicate.MatchesForJoinedTuples(left.Accessor, left_rel_id, left_tid,
				right.Accessor, right_rel_id, right_tid) {
				joined = append(joined, expression.JoinedTupleIDs{First: left_tid, Second: right_tid})
			}
		})
	})

	cv_cache := expression.NewColumnVectorCache()
	columns := make([]vector.ColumnVector, 0, len(e.plan.GetScalars()))
	for _, scalar := range e.plan.GetScalars() {
		columns = append(columns, scalar.GetAllValuesForJoin(left_rel_id, left.Accessor, right_rel_id, right.Accessor, joined, cv_cache))
	}
	return &Batch{JoinedTupleIDs: joined, Columns: columns}
}
