package executors

import (
	"errors"

	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// EngineStats is counters of an ExecutionEngine. they can be read while queries run.
type EngineStats struct {
	WorkOrders atomic.Int64
	Batches    atomic.Int64
	Rows       atomic.Int64
}

/**
 * ExecutionEngine runs a plan. selections and projections over selections
 * are split into one work order per block and the work orders are evaluated
 * by at most Config.WorkerNum goroutines. the first failure cancels the rest.
 */
type ExecutionEngine struct {
	stats EngineStats
}

func NewExecutionEngine() *ExecutionEngine {
	return &ExecutionEngine{}
}

func (e *ExecutionEngine) GetStats() *EngineStats {
	return &e.stats
}

// Execute returns batches emitted by plan. batches of split plans are ordered by block id.
func (e *ExecutionEngine) Execute(plan plans.Plan, context *ExecutorContext) ([]*Batch, error) {
	work_orders := plans.SplitByBlock(plan)
	if len(work_orders) == 1 {
		return e.executeWorkOrder(work_orders[0], context)
	}

	worker_num := context.GetConfig().WorkerNum
	if worker_num < 1 {
		worker_num = 1
	}
	g, gctx := errgroup.WithContext(context.GetContext())
	g.SetLimit(worker_num)
	wo_context := context.WithContext(gctx)

	var mutex deadlock.Mutex
	ret := make([]*Batch, 0, len(work_orders))
	for _, work_order := range work_orders {
		if gctx.Err() != nil {
			break
		}
		work_order := work_order
		g.Go(func() error {
			batches, err := e.executeWorkOrder(work_order, wo_context)
			if err != nil {
				return err
			}
			mutex.Lock()
			ret = append(ret, batches...)
			mutex.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the parent may be canceled after every work order finished
	if err := context.GetContext().Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(ret, func(a *Batch, b *Batch) int {
		return int(a.GetBlockID()) - int(b.GetBlockID())
	})
	return ret, nil
}

func (e *ExecutionEngine) executeWorkOrder(plan plans.Plan, context *ExecutorContext) ([]*Batch, error) {
	e.stats.WorkOrders.Inc()

	executor, err := e.createExecutor(plan, context)
	if err != nil {
		return nil, err
	}
	executor.Init()

	batches := make([]*Batch, 0)
	for {
		// Next reports failure with done set
		batch, done, err := executor.Next()
		if err != nil {
			return nil, err
		}
		if done {
			return batches, nil
		}
		batches = append(batches, batch)
		e.stats.Batches.Inc()
		e.stats.Rows.Add(int64(batch.NumRows()))
	}
}

// BuildBloomFilter executes build side of plan and returns the probe side predicate
func (e *ExecutionEngine) BuildBloomFilter(plan *plans.BloomFilterBuildPlanNode, context *ExecutorContext) (*expression.BloomFilterPredicate, error) {
	batches, err := e.Execute(plan.GetChildAt(0), context)
	if err != nil {
		return nil, err
	}
	common.ShPrintf(common.DEBUG_INFO, "BuildBloomFilter: %s\n", plan.GetDebugStr())
	return NewBloomFilterBuilder(context, plan).Build(batches)
}

func (e *ExecutionEngine) createExecutor(plan plans.Plan, context *ExecutorContext) (Executor, error) {
	switch p := plan.(type) {
	case *plans.SelectionPlanNode:
		return NewSelectionExecutor(context, p), nil
	case *plans.ProjectionPlanNode:
		child, err := e.createExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewProjectionExecutor(context, p, child), nil
	case *plans.NestedLoopJoinPlanNode:
		left, err := e.createExecutor(p.GetLeftPlan(), context)
		if err != nil {
			return nil, err
		}
		right, err := e.createExecutor(p.GetRightPlan(), context)
		if err != nil {
			return nil, err
		}
		return NewNestedLoopJoinExecutor(context, p, left, right), nil
	}
	return nil, errors.New("plan " + plan.GetType().String() + " can not be executed by an executor.")
}
