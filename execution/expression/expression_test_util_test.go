package expression

import (
	"testing"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/testing/testing_util"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

// testRelation has attributes
//
//	0: a Integer NOT NULL
//	1: b Integer NULL
//	2: c Varchar NOT NULL
//	3: d Double NOT NULL
func makeTestRelation(t *testing.T) (*catalog.Catalog, *catalog.CatalogRelation) {
	cat := catalog.NewCatalog()
	relation, err := cat.CreateRelation("t", []catalog.AttributeDef{
		catalog.NewAttributeDef("a", types.Integer, false),
		catalog.NewAttributeDef("b", types.Integer, true),
		catalog.NewAttributeDef("c", types.Varchar, false),
		catalog.NewAttributeDef("d", types.Double, false),
	})
	testingpkg.Ok(t, err)
	return cat, relation
}

// makeTestAccessor returns 6 tuples
func makeTestAccessor(relation *catalog.CatalogRelation) *access.ColumnVectorsValueAccessor {
	return testing_util.MakeAccessor(
		testing_util.MakeColumnVector(relation.GetAttributeById(0).GetType(), 1, 2, 3, 4, 5, 6),
		testing_util.MakeColumnVector(relation.GetAttributeById(1).GetType(), 10, nil, 30, nil, 50, 60),
		testing_util.MakeColumnVector(relation.GetAttributeById(2).GetType(), "x", "y", "z", "x", "y", "z"),
		testing_util.MakeColumnVector(relation.GetAttributeById(3).GetType(), 0.5, 1.5, 2.5, 3.5, 4.5, 5.5),
	)
}

func attr(relation *catalog.CatalogRelation, name string) *ScalarAttribute {
	return NewScalarAttribute(relation.GetAttributeByName(name))
}

func intLiteral(v int32) *ScalarLiteral {
	return NewScalarLiteral(types.NewInteger(v), types.NewType(types.Integer, false))
}

func varcharLiteral(v string) *ScalarLiteral {
	return NewScalarLiteral(types.NewVarchar(v), types.NewType(types.Varchar, false))
}

func compare(t *testing.T, id operations.ComparisonID, left Scalar, right Scalar) *ComparisonPredicate {
	ret, err := NewComparisonPredicate(operations.GetComparison(id), left, right)
	testingpkg.Ok(t, err)
	return ret
}

// withFlags runs fn for every combination of short-circuit and copy-elision settings
func withFlags(t *testing.T, fn func(t *testing.T)) {
	orgShortCircuit := getShortCircuit()
	orgCopyElision := getCopyElision()
	defer setFlags(orgShortCircuit, orgCopyElision)

	for _, shortCircuit := range []bool{true, false} {
		for _, copyElision := range []bool{true, false} {
			setFlags(shortCircuit, copyElision)
			fn(t)
		}
	}
}

func getShortCircuit() bool {
	return common.EnableVectorPredicateShortCircuit
}

func getCopyElision() bool {
	return common.EnableVectorCopyElisionSelection
}

func setFlags(shortCircuit bool, copyElision bool) {
	common.EnableVectorPredicateShortCircuit = shortCircuit
	common.EnableVectorCopyElisionSelection = copyElision
}
