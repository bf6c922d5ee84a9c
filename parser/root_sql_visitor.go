package parser

import (
	"github.com/pingcap/parser/ast"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
)

// RootSQLVisitor translates a SELECT statement. relations in FROM are resolved
// before select fields and WHERE clause.
type RootSQLVisitor struct {
	catalog_   *catalog.Catalog
	QueryInfo_ *QueryInfo
	err_       error
}

func NewRootSQLVisitor(c *catalog.Catalog) *RootSQLVisitor {
	ret := new(RootSQLVisitor)
	ret.catalog_ = c
	qinfo := new(QueryInfo)
	qinfo.Relations_ = make([]*catalog.CatalogRelation, 0)
	ret.QueryInfo_ = qinfo

	return ret
}

func (v *RootSQLVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.SelectStmt:
		v.err_ = v.processSelect(node)
	default:
		v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "statement %T", in)
	}
	return in, true
}

func (v *RootSQLVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *RootSQLVisitor) processSelect(node *ast.SelectStmt) error {
	if node.GroupBy != nil || node.Having != nil || node.OrderBy != nil || node.Limit != nil || node.Distinct {
		return pkgerrors.Wrap(ErrUnsupportedSyntax, "only SELECT ... FROM ... WHERE ... is supported")
	}
	if node.From == nil {
		return pkgerrors.Wrap(ErrUnsupportedSyntax, "FROM clause is missing")
	}

	cdv := &ChildDataVisitor{make([]*string, 0), nil}
	node.From.Accept(cdv)
	if cdv.err_ != nil {
		return pkgerrors.Wrap(cdv.err_, "FROM clause accepts only table names")
	}
	for _, tblname := range cdv.ChildDatas_ {
		relation := v.catalog_.GetRelationByName(*tblname)
		if relation == nil {
			return pkgerrors.Wrapf(ErrUnknownTable, "%s", *tblname)
		}
		v.QueryInfo_.Relations_ = append(v.QueryInfo_.Relations_, relation)
	}

	resolver := newNameResolver(v.QueryInfo_.Relations_)
	for _, field := range node.Fields.Fields {
		if field.WildCard != nil {
			if len(node.Fields.Fields) != 1 {
				return pkgerrors.Wrap(ErrUnsupportedSyntax, "wildcard with other fields")
			}
			break
		}
		scalar, err := buildScalar(field.Expr, resolver)
		if err != nil {
			return err
		}
		v.QueryInfo_.SelectFields_ = append(v.QueryInfo_.SelectFields_, scalar)
	}

	if node.Where != nil {
		predicate, err := buildPredicate(node.Where, resolver)
		if err != nil {
			return err
		}
		v.QueryInfo_.WhereExpression_ = predicate
	}
	return nil
}

// SelectFieldsOrAll returns select fields. every attribute of relations is returned for SELECT *
func (info *QueryInfo) SelectFieldsOrAll() []expression.Scalar {
	if info.SelectFields_ != nil {
		return info.SelectFields_
	}
	ret := make([]expression.Scalar, 0)
	for _, relation := range info.Relations_ {
		for _, attr := range relation.GetAttributes() {
			ret = append(ret, expression.NewScalarAttribute(attr))
		}
	}
	return ret
}
