package parser

import (
	"errors"
	"testing"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/testing/testing_util"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relation t(a Integer, b Integer NULL, c Varchar, d Double) with 5 tuples
func makeTestRelation(t *testing.T) (*catalog.Catalog, *catalog.CatalogRelation) {
	c := catalog.NewCatalog()
	relation, err := c.CreateRelation("t", []catalog.AttributeDef{
		catalog.NewAttributeDef("a", types.Integer, false),
		catalog.NewAttributeDef("b", types.Integer, true),
		catalog.NewAttributeDef("c", types.Varchar, false),
		catalog.NewAttributeDef("d", types.Double, false),
	})
	require.NoError(t, err)
	return c, relation
}

func matchesOf(t *testing.T, text string, relation *catalog.CatalogRelation) []int {
	predicate, err := BuildPredicate(text, relation)
	require.NoError(t, err, text)
	accessor := testing_util.MakeAccessor(
		testing_util.MakeColumnVector(types.NewType(types.Integer, false), 1, 2, 3, 4, 5),
		testing_util.MakeColumnVector(types.NewType(types.Integer, true), 10, nil, 30, nil, 50),
		testing_util.MakeColumnVector(types.NewType(types.Varchar, false), "x", "y", "z", "x", "y"),
		testing_util.MakeColumnVector(types.NewType(types.Double, false), 0.5, 1.5, 2.5, 3.5, 4.5),
	)
	return testing_util.SequenceIds(predicate.GetAllMatches(accessor, nil, nil, nil))
}

func TestBuildPredicate(t *testing.T) {
	_, relation := makeTestRelation(t)

	cases := []struct {
		text     string
		expected []int
	}{
		{"a = 3", []int{2}},
		{"a <> 3", []int{0, 1, 3, 4}},
		{"a != 3", []int{0, 1, 3, 4}},
		{"b > 20", []int{2, 4}},
		{"NOT b > 20", []int{0, 1, 3}},
		{"a >= 2 AND a <= 4", []int{1, 2, 3}},
		{"a < 2 OR c = 'z'", []int{0, 2}},
		{"(a < 2 OR a > 4) AND c = 'y'", []int{4}},
		{"a + 1 > 4", []int{3, 4}},
		{"-a < -3", []int{3, 4}},
		{"a * 2 = b / 5", []int{0, 2, 4}},
		{"d > 2", []int{2, 3, 4}},
		{"t.a BETWEEN 2 AND 3", []int{1, 2}},
		{"a NOT BETWEEN 2 AND 3", []int{0, 3, 4}},
		{"a IN (1, 5, 7)", []int{0, 4}},
		{"c NOT IN ('x', 'y')", []int{2}},
		{"TRUE", []int{0, 1, 2, 3, 4}},
		{"FALSE OR a = 1", []int{0}},
		{"a = 1 AND TRUE", []int{0}},
		{"CASE WHEN a < 3 THEN 'low' ELSE 'high' END = 'low'", []int{0, 1}},
		{"CONCAT(c, 'x') = 'xx'", []int{0, 3}},
		{"ABS(a - 3) = 1", []int{1, 3}},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			testingpkg.Equals(t, c.expected, matchesOf(t, c.text, relation))
		})
	}
}

func TestStaticPredicatesAreFolded(t *testing.T) {
	_, relation := makeTestRelation(t)

	predicate, err := BuildPredicate("1 < 2 AND a = 1", relation)
	require.NoError(t, err)
	assert.False(t, predicate.HasStaticResult())

	predicate, err = BuildPredicate("1 > 2 AND a = 1", relation)
	require.NoError(t, err)
	assert.True(t, predicate.HasStaticResult())
	assert.False(t, predicate.GetStaticResult())

	predicate, err = BuildPredicate("NULL", relation)
	require.NoError(t, err)
	assert.True(t, predicate.HasStaticResult())
	assert.False(t, predicate.GetStaticResult())
}

func TestBuildScalar(t *testing.T) {
	_, relation := makeTestRelation(t)
	accessor := testing_util.MakeAccessor(
		testing_util.MakeColumnVector(types.NewType(types.Integer, false), 1, 2, 3, 4, 5),
		testing_util.MakeColumnVector(types.NewType(types.Integer, true), 10, nil, 30, nil, 50),
		testing_util.MakeColumnVector(types.NewType(types.Varchar, false), "x", "y", "z", "x", "y"),
		testing_util.MakeColumnVector(types.NewType(types.Double, false), 0.5, 1.5, 2.5, 3.5, 4.5),
	)

	cases := []struct {
		text     string
		expected []interface{}
	}{
		{"a", []interface{}{int64(1), int64(2), int64(3), int64(4), int64(5)}},
		{"a + b", []interface{}{int64(11), nil, int64(33), nil, int64(55)}},
		{"CASE WHEN a < 2 THEN 'A' WHEN a < 4 THEN 'B' ELSE 'C' END", []interface{}{"A", "B", "B", "C", "C"}},
		{"CASE c WHEN 'x' THEN a END", []interface{}{int64(1), nil, nil, int64(4), nil}},
		{"CAST(a AS SIGNED) * 3000000000", []interface{}{int64(3000000000), int64(6000000000), int64(9000000000), int64(12000000000), int64(15000000000)}},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			scalar, err := BuildScalar(c.text, relation)
			require.NoError(t, err)
			testingpkg.Equals(t, c.expected, testing_util.VectorValues(scalar.GetAllValues(accessor, nil, nil)))
		})
	}
}

func TestCaseResultType(t *testing.T) {
	_, relation := makeTestRelation(t)

	scalar, err := BuildScalar("CASE WHEN a < 2 THEN a ELSE d END", relation)
	require.NoError(t, err)
	testingpkg.Equals(t, types.Double, scalar.GetType().GetTypeID())
	assert.False(t, scalar.GetType().IsNullable())

	scalar, err = BuildScalar("CASE WHEN a < 2 THEN a END", relation)
	require.NoError(t, err)
	testingpkg.Equals(t, types.Integer, scalar.GetType().GetTypeID())
	assert.True(t, scalar.GetType().IsNullable())

	_, err = BuildScalar("CASE WHEN a < 2 THEN a ELSE c END", relation)
	assert.True(t, errors.Is(err, expression.ErrInvalidCaseExpression))
}

func TestUnsupportedExpressions(t *testing.T) {
	_, relation := makeTestRelation(t)

	for _, text := range []string{"a IS NULL", "b IS NOT NULL", "a LIKE 'x%'", "c", "a", "'x'", "a <=> 1", "a IN (SELECT 1)", "NOW() > 1"} {
		_, err := BuildPredicate(text, relation)
		assert.True(t, errors.Is(err, ErrUnsupportedSyntax), "%s: %v", text, err)
	}
	for _, text := range []string{"a > 1", "NULL", "UPPER(c)", "a & 1"} {
		_, err := BuildScalar(text, relation)
		assert.True(t, errors.Is(err, ErrUnsupportedSyntax), "%s: %v", text, err)
	}

	_, err := BuildPredicate("e = 1", relation)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
	_, err = BuildPredicate("u.a = 1", relation)
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	var mismatch *expression.TypeMismatchError
	_, err = BuildPredicate("a = 'x'", relation)
	assert.True(t, errors.As(err, &mismatch))
}

func TestProcessSQLStr(t *testing.T) {
	c, relation := makeTestRelation(t)
	other, err := c.CreateRelation("u", []catalog.AttributeDef{
		catalog.NewAttributeDef("a", types.Integer, false),
		catalog.NewAttributeDef("e", types.Varchar, false),
	})
	require.NoError(t, err)

	sqlStr := "SELECT a, b + 1 FROM t WHERE a = 10 AND c != 'daylight';"
	queryInfo, err := ProcessSQLStr(&sqlStr, c)
	require.NoError(t, err)
	testingpkg.Equals(t, []*catalog.CatalogRelation{relation}, queryInfo.Relations_)
	testingpkg.Equals(t, 2, len(queryInfo.SelectFields_))
	testingpkg.Equals(t, "t.a ", expression.GetExpTreeStr(queryInfo.SelectFields_[0]))
	testingpkg.Equals(t, expression.PREDICATE_TYPE_CONJUNCTION, queryInfo.WhereExpression_.GetPredicateType())

	sqlStr = "SELECT * FROM t"
	queryInfo, err = ProcessSQLStr(&sqlStr, c)
	require.NoError(t, err)
	testingpkg.Assert(t, queryInfo.WhereExpression_ == nil, "WHERE clause must be absent")
	testingpkg.Equals(t, 4, len(queryInfo.SelectFieldsOrAll()))

	sqlStr = "SELECT t.a, e FROM t, u WHERE t.a = u.a"
	queryInfo, err = ProcessSQLStr(&sqlStr, c)
	require.NoError(t, err)
	testingpkg.Equals(t, []*catalog.CatalogRelation{relation, other}, queryInfo.Relations_)
	testingpkg.Equals(t, 2, len(queryInfo.SelectFieldsOrAll()))
	testingpkg.Equals(t, "u.e ", expression.GetExpTreeStr(queryInfo.SelectFields_[1]))

	for _, sql := range []string{
		"SELECT a FROM t, u",
		"SELECT a FROM v",
		"SELECT a FROM t ORDER BY a",
		"SELECT a FROM t LIMIT 1",
		"DELETE FROM t WHERE a = 1",
		"SELECT a FROM t JOIN u ON t.a = u.a",
		"SELEC a FROM t",
	} {
		sql := sql
		_, err := ProcessSQLStr(&sql, c)
		assert.Error(t, err, sql)
	}
	sqlStr = "SELECT a FROM t, u"
	_, err = ProcessSQLStr(&sqlStr, c)
	assert.True(t, errors.Is(err, ErrAmbiguousColumn))
}
