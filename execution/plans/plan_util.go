package plans

import (
	"fmt"
	"io"

	"github.com/ryogrid/SamehadaExpr/storage/block"
)

func PrintPlanTree(w io.Writer, plan Plan, indent int) {
	for ii := 0; ii < indent; ii++ {
		fmt.Fprint(w, " ")
	}
	fmt.Fprint(w, plan.GetDebugStr())
	fmt.Fprintln(w, "")

	for _, child := range plan.GetChildren() {
		PrintPlanTree(w, child, indent+2)
	}
}

// SplitByBlock returns one plan per block for a selection and a projection
// over a selection. each returned plan can be executed independently.
// other plans are returned as is.
func SplitByBlock(plan Plan) []Plan {
	switch p := plan.(type) {
	case *SelectionPlanNode:
		ret := make([]Plan, 0, len(p.GetBlocks()))
		for _, block_ := range p.GetBlocks() {
			ret = append(ret, p.WithBlocks([]*block.StorageBlock{block_}))
		}
		return ret
	case *ProjectionPlanNode:
		children := SplitByBlock(p.GetChildAt(0))
		if _, ok := p.GetChildAt(0).(*SelectionPlanNode); !ok {
			return []Plan{plan}
		}
		ret := make([]Plan, 0, len(children))
		for _, child := range children {
			ret = append(ret, p.WithChild(child))
		}
		return ret
	default:
		return []Plan{plan}
	}
}
