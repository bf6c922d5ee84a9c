package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
)

// ProjectionPlanNode computes scalars over tuples selected by its child
type ProjectionPlanNode struct {
	*AbstractPlanNode
	scalars []expression.Scalar
}

func NewProjectionPlanNode(child Plan, scalars []expression.Scalar) *ProjectionPlanNode {
	return &ProjectionPlanNode{&AbstractPlanNode{[]Plan{child}}, scalars}
}

func (p *ProjectionPlanNode) GetType() PlanType {
	return Projection
}

func (p *ProjectionPlanNode) GetRelation() *catalog.CatalogRelation {
	return p.children[0].GetRelation()
}

func (p *ProjectionPlanNode) GetScalars() []expression.Scalar {
	return p.scalars
}

// WithChild returns a node which projects the same scalars from child
func (p *ProjectionPlanNode) WithChild(child Plan) *ProjectionPlanNode {
	return NewProjectionPlanNode(child, p.scalars)
}

func (p *ProjectionPlanNode) GetDebugStr() string {
	strs := make([]string, 0, len(p.scalars))
	for _, scalar := range p.scalars {
		strs = append(strs, strings.TrimSpace(expression.GetExpTreeStr(scalar)))
	}
	return fmt.Sprintf("ProjectionPlanNode [ scalars: {%s} ]", strings.Join(strs, ", "))
}
