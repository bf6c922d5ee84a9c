package planner

import (
	"errors"
	"testing"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/parser"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/testing/testing_tbl_gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*catalog.Catalog, *SimplePlanner) {
	c := catalog.NewCatalog()
	relation1, blocks1, relation2, blocks2 := testing_tbl_gen.GenerateTestTabls(c, 256, 1)
	return c, NewSimplePlanner(c, map[catalog.RelationID][]*block.StorageBlock{
		relation1.GetID(): blocks1,
		relation2.GetID(): blocks2,
	})
}

func makeQueryInfo(t *testing.T, c *catalog.Catalog, sqlStr string) *parser.QueryInfo {
	qi, err := parser.ProcessSQLStr(&sqlStr, c)
	require.NoError(t, err)
	return qi
}

func TestMakeSelectPlanWithoutJoin(t *testing.T) {
	c, pner := setup(t)

	plan, err := pner.MakePlan(makeQueryInfo(t, c, "SELECT colA, colB FROM test_1 WHERE colA < 10"))
	require.NoError(t, err)
	testingpkg.Equals(t, plans.Projection, plan.GetType())
	testingpkg.Equals(t, 2, len(plan.(*plans.ProjectionPlanNode).GetScalars()))

	selection := plan.GetChildAt(0).(*plans.SelectionPlanNode)
	testingpkg.Equals(t, "test_1", selection.GetRelation().GetName())
	// 1000 tuples in blocks of 256
	testingpkg.Equals(t, 4, len(selection.GetBlocks()))
	testingpkg.Assert(t, selection.GetPredicate() != nil, "WHERE clause must be the selection predicate")
}

func TestMakeSelectPlanWithJoin(t *testing.T) {
	c, pner := setup(t)

	plan, err := pner.MakePlan(makeQueryInfo(t, c, "SELECT * FROM test_1, test_2 WHERE colA = col1"))
	require.NoError(t, err)
	testingpkg.Equals(t, plans.NestedLoopJoin, plan.GetType())

	join := plan.(*plans.NestedLoopJoinPlanNode)
	testingpkg.Equals(t, 7, len(join.GetScalars()))
	testingpkg.Assert(t, join.OnPredicate() != nil, "WHERE clause must be the join predicate")
	testingpkg.Assert(t, join.GetLeftPlan().(*plans.SelectionPlanNode).GetPredicate() == nil, "join inputs select all tuples")
}

func TestMakePlanErrors(t *testing.T) {
	c, pner := setup(t)

	_, err := pner.MakePlan(&parser.QueryInfo{})
	assert.True(t, errors.Is(err, ErrTooManyRelations))

	other, err := c.CreateRelation("test_3", []catalog.AttributeDef{})
	require.NoError(t, err)
	_, err = pner.MakePlan(&parser.QueryInfo{Relations_: []*catalog.CatalogRelation{other}})
	assert.True(t, errors.Is(err, ErrNoBlocks))

	relation := c.GetRelationByName("test_2")
	_, err = pner.MakePlan(&parser.QueryInfo{Relations_: []*catalog.CatalogRelation{relation, relation}})
	assert.True(t, errors.Is(err, parser.ErrUnsupportedSyntax))
}
