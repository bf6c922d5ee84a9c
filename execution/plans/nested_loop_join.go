package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
)

/**
 * NestedLoopJoinPlanNode joins every tuple emitted by left child with every
 * tuple emitted by right child and keeps pairs which satisfy onPredicate.
 * scalars are computed over the kept pairs.
 */
type NestedLoopJoinPlanNode struct {
	*AbstractPlanNode
	onPredicate expression.Predicate
	scalars     []expression.Scalar
}

func NewNestedLoopJoinPlanNode(left_child Plan, right_child Plan, onPredicate expression.Predicate,
	scalars []expression.Scalar) *NestedLoopJoinPlanNode {
	common.SH_Assert(left_child.GetRelation() != nil && right_child.GetRelation() != nil,
		"children of nested loop join must emit tuples of a relation.")
	common.SH_Assert(left_child.GetRelation().GetID() != right_child.GetRelation().GetID(),
		"self join is not supported.")
	return &NestedLoopJoinPlanNode{&AbstractPlanNode{[]Plan{left_child, right_child}}, onPredicate, scalars}
}

func (p *NestedLoopJoinPlanNode) GetType() PlanType { return NestedLoopJoin }

func (p *NestedLoopJoinPlanNode) GetRelation() *catalog.CatalogRelation { return nil }

/** @return the onPredicate to be used in the join. nil means cross join */
func (p *NestedLoopJoinPlanNode) OnPredicate() expression.Predicate { return p.onPredicate }

func (p *NestedLoopJoinPlanNode) GetScalars() []expression.Scalar { return p.scalars }

/** @return the left plan node of the join, by convention this is iterated in outer loop */
func (p *NestedLoopJoinPlanNode) GetLeftPlan() Plan {
	common.SH_Assert(len(p.GetChildren()) == 2, "nested loop joins should have exactly two children plans.")
	return p.GetChildAt(0)
}

/** @return the right plan node of the join */
func (p *NestedLoopJoinPlanNode) GetRightPlan() Plan {
	common.SH_Assert(len(p.GetChildren()) == 2, "nested loop joins should have exactly two children plans.")
	return p.GetChildAt(1)
}

func (p *NestedLoopJoinPlanNode) GetDebugStr() string {
	pred := "TRUE"
	if p.onPredicate != nil {
		pred = strings.TrimSpace(expression.GetExpTreeStr(p.onPredicate))
	}
	return fmt.Sprintf("NestedLoopJoinPlanNode [ left: %s, right: %s, on: %s, scalars: %d ]",
		p.GetLeftPlan().GetRelation().GetName(), p.GetRightPlan().GetRelation().GetName(), pred, len(p.scalars))
}
