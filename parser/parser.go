package parser

import (
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	_ "github.com/pingcap/tidb/types/parser_driver"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/errors"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
)

const (
	ErrUnsupportedSyntax = errors.Error("unsupported syntax")
	ErrUnknownColumn     = errors.Error("unknown column")
	ErrAmbiguousColumn   = errors.Error("ambiguous column")
	ErrUnknownTable      = errors.Error("unknown table")
)

// QueryInfo is a SELECT statement translated to expression trees
type QueryInfo struct {
	Relations_ []*catalog.CatalogRelation
	// nil when SELECT *
	SelectFields_ []expression.Scalar
	// nil when WHERE clause is not specified
	WhereExpression_ expression.Predicate
}

func parse(sql string) (ast.StmtNode, error) {
	p := parser.New()

	stmtNode, err := p.ParseOneStmt(sql, "", "")
	if err != nil {
		return nil, pkgerrors.Wrap(ErrUnsupportedSyntax, err.Error())
	}
	return stmtNode, nil
}

// ProcessSQLStr translates "SELECT fields FROM tables [WHERE predicate]" using relations of c
func ProcessSQLStr(sqlStr *string, c *catalog.Catalog) (*QueryInfo, error) {
	stmtNode, err := parse(*sqlStr)
	if err != nil {
		return nil, err
	}

	v := NewRootSQLVisitor(c)
	stmtNode.Accept(v)
	if v.err_ != nil {
		return nil, v.err_
	}
	return v.QueryInfo_, nil
}

// parseExpression parses text as a single select field
func parseExpression(text string) (ast.ExprNode, error) {
	stmtNode, err := parse("SELECT " + text)
	if err != nil {
		return nil, err
	}
	stmt, ok := stmtNode.(*ast.SelectStmt)
	if !ok || stmt.From != nil || stmt.Fields == nil || len(stmt.Fields.Fields) != 1 || stmt.Fields.Fields[0].WildCard != nil {
		return nil, pkgerrors.Wrapf(ErrUnsupportedSyntax, "not a single expression: %s", text)
	}
	return stmt.Fields.Fields[0].Expr, nil
}

// BuildPredicate translates WHERE clause text. column names are resolved on relations.
func BuildPredicate(text string, relations ...*catalog.CatalogRelation) (expression.Predicate, error) {
	exprNode, err := parseExpression(text)
	if err != nil {
		return nil, err
	}
	return buildPredicate(exprNode, newNameResolver(relations))
}

// BuildScalar translates a select expression text. column names are resolved on relations.
func BuildScalar(text string, relations ...*catalog.CatalogRelation) (expression.Scalar, error) {
	exprNode, err := parseExpression(text)
	if err != nil {
		return nil, err
	}
	return buildScalar(exprNode, newNameResolver(relations))
}

func buildPredicate(node ast.ExprNode, resolver *nameResolver) (expression.Predicate, error) {
	v := &PredicateVisitor{resolver: resolver}
	node.Accept(v)
	if v.err_ != nil {
		return nil, v.err_
	}
	if v.Predicate_ == nil {
		return nil, pkgerrors.Wrapf(ErrUnsupportedSyntax, "%T can not be a predicate", node)
	}
	return v.Predicate_, nil
}

func buildScalar(node ast.ExprNode, resolver *nameResolver) (expression.Scalar, error) {
	v := &ScalarVisitor{resolver: resolver}
	node.Accept(v)
	if v.err_ != nil {
		return nil, v.err_
	}
	if v.Scalar_ == nil {
		return nil, pkgerrors.Wrapf(ErrUnsupportedSyntax, "%T can not be a scalar", node)
	}
	return v.Scalar_, nil
}
