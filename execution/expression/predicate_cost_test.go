package expression

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/storage/index"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaExpr/testing/testing_util"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

func TestChooseEvaluationStrategy(t *testing.T) {
	cases := []struct {
		name        string
		tupleStore  block.PredicateCost
		indices     []IndexCost
		expected    StrategyChoice
	}{
		{"plain scan", block.PREDICATE_COST_COLUMN_SCAN, nil,
			StrategyChoice{STRATEGY_SCAN, -1, block.PREDICATE_COST_COLUMN_SCAN}},
		{"row scan", block.PREDICATE_COST_ROW_SCAN, nil,
			StrategyChoice{STRATEGY_SCAN, -1, block.PREDICATE_COST_ROW_SCAN}},
		{"sorted tuple store", block.PREDICATE_COST_BINARY_SEARCH, nil,
			StrategyChoice{STRATEGY_TUPLE_STORE, -1, block.PREDICATE_COST_BINARY_SEARCH}},
		{"compressed scan is evaluated by tuple store", block.PREDICATE_COST_COMPRESSED_COLUMN_SCAN, nil,
			StrategyChoice{STRATEGY_TUPLE_STORE, -1, block.PREDICATE_COST_COMPRESSED_COLUMN_SCAN}},
		{"cheaper index", block.PREDICATE_COST_COLUMN_SCAN,
			[]IndexCost{{0, block.PREDICATE_COST_INFINITE}, {1, block.PREDICATE_COST_CONSTANT_TIME}},
			StrategyChoice{STRATEGY_INDEX, 1, block.PREDICATE_COST_CONSTANT_TIME}},
		{"tie with tuple store goes to tuple store", block.PREDICATE_COST_BINARY_SEARCH,
			[]IndexCost{{0, block.PREDICATE_COST_BINARY_SEARCH}},
			StrategyChoice{STRATEGY_TUPLE_STORE, -1, block.PREDICATE_COST_BINARY_SEARCH}},
		{"tie between indices goes to the first", block.PREDICATE_COST_COLUMN_SCAN,
			[]IndexCost{{2, block.PREDICATE_COST_BINARY_SEARCH}, {3, block.PREDICATE_COST_BINARY_SEARCH}},
			StrategyChoice{STRATEGY_INDEX, 2, block.PREDICATE_COST_BINARY_SEARCH}},
		{"tie of scan costs goes to scan", block.PREDICATE_COST_COLUMN_SCAN,
			[]IndexCost{{0, block.PREDICATE_COST_COLUMN_SCAN}},
			StrategyChoice{STRATEGY_SCAN, -1, block.PREDICATE_COST_COLUMN_SCAN}},
		{"useless indices", block.PREDICATE_COST_COLUMN_SCAN,
			[]IndexCost{{0, block.PREDICATE_COST_INFINITE}, {1, block.PREDICATE_COST_INFINITE}},
			StrategyChoice{STRATEGY_SCAN, -1, block.PREDICATE_COST_COLUMN_SCAN}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			testingpkg.Equals(t, c.expected, ChooseEvaluationStrategy(c.tupleStore, c.indices))
		})
	}
}

func dispatchCount(kind StrategyKind) float64 {
	return testutil.ToFloat64(exprMetrics.comparisonDispatch.WithLabelValues(kind.String()))
}

// scanResult evaluates predicate without sub-blocks
func scanResult(predicate Predicate, block_ *block.StorageBlock) []int {
	return testing_util.SequenceIds(predicate.GetAllMatches(block_.CreateValueAccessor(), nil, nil, block_.GetExistenceMap()))
}

func blockResult(predicate Predicate, block_ *block.StorageBlock) []int {
	block_.RLock()
	defer block_.RUnlock()
	return testing_util.SequenceIds(predicate.GetAllMatches(block_.CreateValueAccessor(), block_.GetSubBlocksReference(), nil, block_.GetExistenceMap()))
}

func TestComparisonDispatchOverStorageBlock(t *testing.T) {
	c := catalog.NewCatalog()
	relation1, blocks1, relation2, blocks2 := testing_tbl_gen.GenerateTestTabls(c, 256, 42)
	testingpkg.Equals(t, 4, len(blocks1))

	colA := NewScalarAttribute(relation1.GetAttributeByName("colA"))
	colB := NewScalarAttribute(relation1.GetAttributeByName("colB"))
	colC := NewScalarAttribute(relation1.GetAttributeByName("colC"))
	col1 := NewScalarAttribute(relation2.GetAttributeByName("col1"))

	cases := []struct {
		name      string
		predicate Predicate
		blocks    []*block.StorageBlock
		strategy  StrategyKind
	}{
		// every block holds colA below 10000, SMA answers in constant time
		{"colA < 10000", compare(t, operations.Less, colA, intLiteral(10000)), blocks1[:1], STRATEGY_INDEX},
		// tuple store of test_1 is sorted on colA
		{"colA < 100", compare(t, operations.Less, colA, intLiteral(100)), blocks1[:1], STRATEGY_TUPLE_STORE},
		{"100 >= colA", compare(t, operations.GreaterOrEqual, intLiteral(100), colA), blocks1[:1], STRATEGY_TUPLE_STORE},
		{"colB = 3", compare(t, operations.Equal, colB, intLiteral(3)), blocks1[:1], STRATEGY_SCAN},
		{"colA = colB", compare(t, operations.Equal, colA, colB), blocks1[:1], STRATEGY_SCAN},
		// bloom filter surely misses the value out of the range
		{"colC = 20000", compare(t, operations.Equal, colC, intLiteral(20000)), blocks1[:1], STRATEGY_INDEX},
		{"col1 >= 50", compare(t, operations.GreaterOrEqual, col1, intLiteral(50)), blocks2, STRATEGY_INDEX},
		{"col1 <> 50", compare(t, operations.NotEqual, col1, intLiteral(50)), blocks2, STRATEGY_SCAN},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, block_ := range c.blocks {
				before := dispatchCount(c.strategy)
				got := blockResult(c.predicate, block_)
				testingpkg.Equals(t, before+1, dispatchCount(c.strategy))
				testingpkg.Equals(t, scanResult(c.predicate, block_), got)
			}
		})
	}
}

func TestCompoundPredicatesOverStorageBlocks(t *testing.T) {
	c := catalog.NewCatalog()
	relation1, blocks1, _, _ := testing_tbl_gen.GenerateTestTabls(c, 300, 7)

	colA := NewScalarAttribute(relation1.GetAttributeByName("colA"))
	colB := NewScalarAttribute(relation1.GetAttributeByName("colB"))
	colC := NewScalarAttribute(relation1.GetAttributeByName("colC"))
	colD := NewScalarAttribute(relation1.GetAttributeByName("colD"))

	predicates := []Predicate{
		NewConjunctionBuilder().
			Add(compare(t, operations.GreaterOrEqual, colA, intLiteral(250))).
			Add(compare(t, operations.Less, colA, intLiteral(700))).
			Add(compare(t, operations.NotEqual, colB, intLiteral(4))).
			Build(),
		NewDisjunctionBuilder().
			Add(compare(t, operations.Less, colA, intLiteral(20))).
			Add(compare(t, operations.Greater, colC, intLiteral(9000))).
			Add(compare(t, operations.Less, colD, NewScalarLiteral(types.NewDouble(100.0), types.NewType(types.Double, false)))).
			Build(),
		NegatePredicate(compare(t, operations.Greater, colC, colB)),
	}

	// delete some tuples so that existence maps are used
	for _, block_ := range blocks1 {
		for tid := types.TupleID(0); tid < 300; tid += 7 {
			block_.DeleteTuple(tid)
		}
	}

	withFlags(t, func(t *testing.T) {
		for ii, predicate := range predicates {
			for _, block_ := range blocks1 {
				got := blockResult(predicate, block_)
				testingpkg.Equals(t, scanResult(predicate, block_), got)

				existence_map := block_.GetExistenceMap()
				testingpkg.Assert(t, existence_map != nil, "block must have deleted tuples")
				for _, tid := range got {
					testingpkg.Assert(t, existence_map.Get(types.TupleID(tid)), "predicate %d: deleted tuple %d matched", ii, tid)
				}
			}
		}
	})
}

// makeTestBlock stores tuples of makeTestAccessor into a block sorted on sort_attr_id
func makeTestBlock(t *testing.T, relation *catalog.CatalogRelation, sort_attr_id int) *block.StorageBlock {
	ret := block.NewStorageBlock(0, relation, 16, sort_attr_id)
	b := []interface{}{10, nil, 30, nil, 50, 60}
	c := []string{"x", "y", "z", "x", "y", "z"}
	for ii := 0; ii < 6; ii++ {
		b_val := types.NewNullOf(types.Integer)
		if b[ii] != nil {
			b_val = types.NewInteger(int32(b[ii].(int)))
		}
		_, err := ret.InsertTuple([]types.Value{
			types.NewInteger(int32(ii + 1)), b_val, types.NewVarchar(c[ii]), types.NewDouble(float64(ii) + 0.5)})
		testingpkg.Ok(t, err)
	}
	return ret
}

func TestMatchesOverSubBlocksAreSubsetOfFilterAndExistenceMap(t *testing.T) {
	_, relation := makeTestRelation(t)

	indexed := makeTestBlock(t, relation, -1)
	indexed.AddIndex(index.NewSortedColumnIndexSubBlock(indexed.GetTupleStore(), 0))
	indexed.AddIndex(index.NewSMAIndexSubBlock(indexed.GetTupleStore(), []int{0, 1}))
	indexed.AddIndex(index.NewBloomFilterIndexSubBlock(indexed.GetTupleStore(), 2, 16, 0.001))
	sorted := makeTestBlock(t, relation, 0)

	a := attr(relation, "a")
	predicates := map[string]Predicate{
		"a = 1":      compare(t, operations.Equal, a, intLiteral(1)),
		"a >= 3":     compare(t, operations.GreaterOrEqual, a, intLiteral(3)),
		"4 > a":      compare(t, operations.Greater, intLiteral(4), a),
		"a <> 2":     compare(t, operations.NotEqual, a, intLiteral(2)),
		"a < 100":    compare(t, operations.Less, a, intLiteral(100)),
		"b > 100":    compare(t, operations.Greater, attr(relation, "b"), intLiteral(100)),
		"c = 'q'":    compare(t, operations.Equal, attr(relation, "c"), varcharLiteral("q")),
		"NOT a <= 2": NegatePredicate(compare(t, operations.LessOrEqual, a, intLiteral(2))),
		"a > 1 AND a < 100": NewConjunctionBuilder().
			Add(compare(t, operations.Greater, a, intLiteral(1))).
			Add(compare(t, operations.Less, a, intLiteral(100))).
			Build(),
		"a = 1 OR a = 6": NewDisjunctionBuilder().
			Add(compare(t, operations.Equal, a, intLiteral(1))).
			Add(compare(t, operations.Equal, a, intLiteral(6))).
			Build(),
	}

	index_before := dispatchCount(STRATEGY_INDEX)
	tuple_store_before := dispatchCount(STRATEGY_TUPLE_STORE)
	withFlags(t, func(t *testing.T) {
		for _, block_ := range []*block.StorageBlock{indexed, sorted} {
			block_.RLock()
			accessor := block_.CreateValueAccessor()
			for name, predicate := range predicates {
				for _, seqs := range sequences(int(accessor.GetEndPosition())) {
					filter, existence_map := seqs[0], seqs[1]
					result := predicate.GetAllMatches(accessor, block_.GetSubBlocksReference(), filter, existence_map)
					if filter != nil {
						testingpkg.Assert(t, result.IsSubsetOf(filter), "%s: %v is not subset of filter %v", name, result, filter)
					}
					if existence_map != nil {
						testingpkg.Assert(t, result.IsSubsetOf(existence_map), "%s: %v is not subset of existence %v", name, result, existence_map)
					}
					testingpkg.Equals(t,
						testing_util.SequenceIds(predicate.GetAllMatches(accessor, nil, filter, existence_map)),
						testing_util.SequenceIds(result))
				}
			}
			block_.RUnlock()
		}
	})
	testingpkg.Assert(t, dispatchCount(STRATEGY_INDEX) > index_before, "indices must be consulted")
	testingpkg.Assert(t, dispatchCount(STRATEGY_TUPLE_STORE) > tuple_store_before, "sorted tuple store must be consulted")
}

func TestIndexMatchesAreRestrictedToExistenceMap(t *testing.T) {
	_, relation := makeTestRelation(t)
	block_ := makeTestBlock(t, relation, -1)
	block_.AddIndex(index.NewSortedColumnIndexSubBlock(block_.GetTupleStore(), 0))

	block_.RLock()
	defer block_.RUnlock()
	predicate := compare(t, operations.Equal, attr(relation, "a"), intLiteral(2))
	existence_map := testing_util.MakeSequence(6, 0, 2)
	before := dispatchCount(STRATEGY_INDEX)
	result := predicate.GetAllMatches(block_.CreateValueAccessor(), block_.GetSubBlocksReference(), nil, existence_map)
	testingpkg.Equals(t, before+1, dispatchCount(STRATEGY_INDEX))
	testingpkg.Equals(t, []int{}, testing_util.SequenceIds(result))

	existence_map = testing_util.MakeSequence(6, 1, 2)
	result = predicate.GetAllMatches(block_.CreateValueAccessor(), block_.GetSubBlocksReference(), nil, existence_map)
	testingpkg.Equals(t, []int{1}, testing_util.SequenceIds(result))
}
