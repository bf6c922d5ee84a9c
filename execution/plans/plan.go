package plans

import "github.com/ryogrid/SamehadaExpr/catalog"

type PlanType int

const (
	Selection PlanType = iota
	Projection
	NestedLoopJoin
	BloomFilterBuild
)

func (t PlanType) String() string {
	switch t {
	case Selection:
		return "Selection"
	case Projection:
		return "Projection"
	case NestedLoopJoin:
		return "NestedLoopJoin"
	case BloomFilterBuild:
		return "BloomFilterBuild"
	default:
		return "Unknown"
	}
}

type Plan interface {
	GetChildAt(childIndex uint32) Plan
	GetChildren() []Plan
	GetType() PlanType
	// GetRelation returns relation whose tuples the plan emits. nil for joins.
	GetRelation() *catalog.CatalogRelation
	GetDebugStr() string
}

type AbstractPlanNode struct {
	children []Plan
}

func (p *AbstractPlanNode) GetChildAt(childIndex uint32) Plan {
	return p.children[childIndex]
}

func (p *AbstractPlanNode) GetChildren() []Plan {
	return p.children
}
