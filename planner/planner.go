package planner

import (
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/parser"
)

type Planner interface {
	MakePlan(*parser.QueryInfo) (plans.Plan, error)
}
