package parser

import (
	"github.com/pingcap/parser/ast"
)

// ChildDataVisitor collects names of tables under a node (FROM clause)
type ChildDataVisitor struct {
	ChildDatas_ []*string
	err_        error
}

func (v *ChildDataVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.TableName:
		tblname := node.Name.L
		v.ChildDatas_ = append(v.ChildDatas_, &tblname)
		return in, true
	case *ast.Join:
		if node.On != nil {
			v.err_ = ErrUnsupportedSyntax
			return in, true
		}
	case *ast.SelectStmt, *ast.UnionStmt:
		// subquery
		v.err_ = ErrUnsupportedSyntax
		return in, true
	default:
	}
	return in, false
}

func (v *ChildDataVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
