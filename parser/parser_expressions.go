package parser

import (
	"strings"

	"github.com/pingcap/parser/ast"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/types"
)

// nameResolver finds attributes referenced by column names in FROM relations
type nameResolver struct {
	relations []*catalog.CatalogRelation
}

func newNameResolver(relations []*catalog.CatalogRelation) *nameResolver {
	return &nameResolver{relations}
}

func (r *nameResolver) resolve(name *ast.ColumnName) (*expression.ScalarAttribute, error) {
	colName := name.Name.L
	tblName := name.Table.L
	var found *catalog.CatalogAttribute
	for _, relation := range r.relations {
		if tblName != "" && !strings.EqualFold(relation.GetName(), tblName) {
			continue
		}
		attr := relation.GetAttributeByName(colName)
		if attr == nil {
			continue
		}
		if found != nil {
			return nil, pkgerrors.Wrapf(ErrAmbiguousColumn, "%s", name.String())
		}
		found = attr
	}
	if found == nil {
		return nil, pkgerrors.Wrapf(ErrUnknownColumn, "%s", name.String())
	}
	return expression.NewScalarAttribute(found), nil
}

// unifyResultTypes returns a type which every type of results is coercible to
func unifyResultTypes(results []expression.Scalar) (types.Type, bool) {
	nullable := false
	for _, result := range results {
		if result.GetType().IsNullable() {
			nullable = true
		}
	}
	for _, candidate := range results {
		ret := candidate.GetType()
		if nullable {
			ret = ret.GetNullableVersion()
		}
		ok := true
		for _, result := range results {
			if !ret.Equals(result.GetType()) && !ret.IsSafelyCoercibleFrom(result.GetType()) {
				ok = false
				break
			}
		}
		if ok {
			return ret, true
		}
	}
	return types.Type{}, false
}
