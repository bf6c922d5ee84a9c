package executors

import (
	"errors"

	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
)

// ProjectionExecutor computes scalars of the plan over tuples matched by child
type ProjectionExecutor struct {
	context *ExecutorContext
	plan    *plans.ProjectionPlanNode
	child   Executor
}

func NewProjectionExecutor(context *ExecutorContext, plan *plans.ProjectionPlanNode, child Executor) Executor {
	return &ProjectionExecutor{context, plan, child}
}

func (e *ProjectionExecutor) Init() {
	e.child.Init()
}

func (e *ProjectionExecutor) Next() (*Batch, Done, error) {
	batch, done, err := e.child.Next()
	if err != nil || done {
		return nil, true, err
	}
	if batch == nil || batch.Matches == nil {
		return nil, true, errors.New("child of projection returned a batch without matches.")
	}

	batch.Block.RLock()
	defer batch.Block.RUnlock()

	matched := batch.Accessor.CreateSharedTupleIdSequenceAdapter(batch.Matches)
	sub_blocks_ref := batch.Block.GetSubBlocksReference()
	// shared sub-expressions are computed once per batch
	cv_cache := expression.NewColumnVectorCache()
	batch.Columns = make([]vector.ColumnVector, 0, len(e.plan.GetScalars()))
	for _, scalar := range e.plan.GetScalars() {
		batch.Columns = append(batch.Columns, scalar.GetAllValues(matched, sub_blocks_ref, cv_cache))
	}
	return batch, false, nil
}
