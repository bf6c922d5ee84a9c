package block

import (
	"testing"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attribute <comparison> literal
type attrLiteralPredicate struct {
	attr_id    int
	comparison operations.ComparisonID
	literal    types.Value
}

func (p *attrLiteralPredicate) GetComparisonID() operations.ComparisonID {
	return p.comparison
}

func (p *attrLiteralPredicate) IsAttributeLiteralComparisonPredicate() bool {
	return true
}

func (p *attrLiteralPredicate) GetAttributeLiteralComparison() (int, operations.ComparisonID, types.Value) {
	return p.attr_id, p.comparison, p.literal
}

func (p *attrLiteralPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	attrType := accessor.GetAttributeType(p.attr_id)
	literalType := types.NewType(p.literal.ValueType(), p.literal.IsNull())
	return operations.GetComparison(p.comparison).MakeUncheckedComparatorForTypes(attrType, literalType).
		CompareValues(accessor.GetValueAt(p.attr_id, tuple_id), p.literal)
}

// index which can not follow modifications
type rigidIndex struct {
	rebuilt int
}

func (i *rigidIndex) GetIndexKind() IndexKind { return INDEX_KIND_SMA }
func (i *rigidIndex) EstimatePredicateEvaluationCost(ComparisonPredicate) PredicateCost {
	return PREDICATE_COST_INFINITE
}
func (i *rigidIndex) GetMatchesForPredicate(ComparisonPredicate, *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	panic("not evaluable")
}
func (i *rigidIndex) AddEntry(types.TupleID) bool    { return false }
func (i *rigidIndex) RemoveEntry(types.TupleID) bool { return false }
func (i *rigidIndex) Rebuild() bool {
	i.rebuilt++
	return true
}

func makeRelation(t *testing.T) *catalog.CatalogRelation {
	relation, err := catalog.NewCatalog().CreateRelation("t", []catalog.AttributeDef{
		catalog.NewAttributeDef("a", types.Integer, true),
		catalog.NewAttributeDef("b", types.Varchar, false),
	})
	require.NoError(t, err)
	return relation
}

func insertAll(t *testing.T, b *StorageBlock, vals ...interface{}) {
	for _, v := range vals {
		a := types.NewNullOf(types.Integer)
		if v != nil {
			a = types.NewInteger(int32(v.(int)))
		}
		_, err := b.InsertTuple([]types.Value{a, types.NewVarchar("x")})
		require.NoError(t, err)
	}
}

func matchIds(seq *bitmap.TupleIdSequence) []int {
	ret := make([]int, 0)
	seq.ForEach(func(tid types.TupleID) {
		ret = append(ret, int(tid))
	})
	return ret
}

func TestInsertTupleValidation(t *testing.T) {
	b := NewStorageBlock(0, makeRelation(t), 2, -1)

	_, err := b.InsertTuple([]types.Value{types.NewInteger(1)})
	assert.ErrorIs(t, err, ErrTupleArity)
	_, err = b.InsertTuple([]types.Value{types.NewVarchar("1"), types.NewVarchar("x")})
	assert.ErrorIs(t, err, ErrTupleType)
	_, err = b.InsertTuple([]types.Value{types.NewInteger(1), types.NewNullOf(types.Varchar)})
	assert.ErrorIs(t, err, ErrTupleType)

	insertAll(t, b, 1, nil)
	testingpkg.SimpleAssert(t, b.IsFull())
	_, err = b.InsertTuple([]types.Value{types.NewInteger(3), types.NewVarchar("x")})
	assert.ErrorIs(t, err, ErrBlockFull)
	testingpkg.Equals(t, 2, b.NumTuples())
}

func TestDeleteAndRebuild(t *testing.T) {
	b := NewStorageBlock(1, makeRelation(t), 16, 0)
	insertAll(t, b, 5, 3, nil, 9, 1)
	store := b.GetTupleStore()
	testingpkg.AssertFalse(t, store.IsSorted(), "out of order insertion breaks sortedness")
	testingpkg.Assert(t, b.GetExistenceMap() == nil, "packed store has no existence map")

	testingpkg.SimpleAssert(t, b.DeleteTuple(1))
	testingpkg.AssertFalse(t, b.DeleteTuple(1), "deleted tuple can not be deleted again")
	testingpkg.AssertFalse(t, b.DeleteTuple(7), "nonexistent tuple can not be deleted")
	testingpkg.Equals(t, []int{0, 2, 3, 4}, matchIds(b.GetExistenceMap()))
	testingpkg.Equals(t, 4, b.NumTuples())
	testingpkg.Equals(t, 4, b.CreateValueAccessor().GetNumTuples())

	b.Rebuild()
	testingpkg.SimpleAssert(t, store.IsSorted())
	testingpkg.SimpleAssert(t, store.IsPacked())
	testingpkg.Equals(t, types.TupleID(4), store.GetEndPosition())
	// NULLs first
	testingpkg.SimpleAssert(t, store.GetAttributeValue(0, 0).IsNull())
	testingpkg.Equals(t, int32(1), store.GetAttributeValue(1, 0).ToInteger())
	testingpkg.Equals(t, int32(9), store.GetAttributeValue(3, 0).ToInteger())
}

func TestSortedStoreUsesBinarySearch(t *testing.T) {
	b := NewStorageBlock(2, makeRelation(t), 16, 0)
	insertAll(t, b, nil, 1, 3, 3, 5, 8)
	store := b.GetTupleStore()
	testingpkg.SimpleAssert(t, store.IsSorted())

	cases := []struct {
		comparison operations.ComparisonID
		literal    int
		expected   []int
	}{
		{operations.Equal, 3, []int{2, 3}},
		{operations.NotEqual, 3, []int{1, 4, 5}},
		{operations.Less, 3, []int{1}},
		{operations.LessOrEqual, 3, []int{1, 2, 3}},
		{operations.Greater, 3, []int{4, 5}},
		{operations.GreaterOrEqual, 4, []int{4, 5}},
		{operations.Equal, 4, []int{}},
	}
	for _, c := range cases {
		predicate := &attrLiteralPredicate{0, c.comparison, types.NewInteger(int32(c.literal))}
		testingpkg.Equals(t, c.expected, matchIds(store.GetMatchesForPredicate(predicate, nil)))
	}

	lt := &attrLiteralPredicate{0, operations.Less, types.NewInteger(6)}
	testingpkg.Equals(t, PREDICATE_COST_BINARY_SEARCH, store.EstimatePredicateEvaluationCost(lt))
	testingpkg.Equals(t, []int{2, 4}, matchIds(store.GetMatchesForPredicate(lt, makeSeq(6, 0, 2, 4))))

	ne := &attrLiteralPredicate{0, operations.NotEqual, types.NewInteger(3)}
	testingpkg.Equals(t, PREDICATE_COST_COLUMN_SCAN, store.EstimatePredicateEvaluationCost(ne))

	// deletion makes the store unpacked and scans are used
	b.DeleteTuple(2)
	testingpkg.Equals(t, PREDICATE_COST_COLUMN_SCAN, store.EstimatePredicateEvaluationCost(lt))
	testingpkg.Equals(t, []int{1, 3, 4}, matchIds(store.GetMatchesForPredicate(lt, nil)))
}

func TestIndexBecomesInconsistent(t *testing.T) {
	b := NewStorageBlock(3, makeRelation(t), 16, -1)
	index := &rigidIndex{}
	b.AddIndex(index)
	testingpkg.SimpleAssert(t, b.IsIndexConsistent(0))

	insertAll(t, b, 1)
	testingpkg.AssertFalse(t, b.IsIndexConsistent(0), "index which refused an entry must be inconsistent")
	ref := b.GetSubBlocksReference()
	testingpkg.Equals(t, []bool{false}, ref.IndicesConsistent)

	b.Rebuild()
	testingpkg.SimpleAssert(t, b.IsIndexConsistent(0))
	testingpkg.Equals(t, 2, index.rebuilt)
	// snapshot taken before Rebuild is not affected
	testingpkg.Equals(t, []bool{false}, ref.IndicesConsistent)
}

func TestPredicateCost(t *testing.T) {
	testingpkg.SimpleAssert(t, PredicateCostIsSimpleScan(PREDICATE_COST_COLUMN_SCAN))
	testingpkg.SimpleAssert(t, PredicateCostIsSimpleScan(PREDICATE_COST_ROW_SCAN))
	testingpkg.AssertFalse(t, PredicateCostIsSimpleScan(PREDICATE_COST_BINARY_SEARCH), "binary search is not a scan")
	testingpkg.SimpleAssert(t, PREDICATE_COST_CONSTANT_TIME < PREDICATE_COST_TREE_SEARCH)
	testingpkg.Equals(t, "Infinite", PREDICATE_COST_INFINITE.String())
	testingpkg.Equals(t, "BloomFilter", INDEX_KIND_BLOOM_FILTER.String())
}

func makeSeq(length int, tids ...int) *bitmap.TupleIdSequence {
	ret := bitmap.NewTupleIdSequence(length)
	for _, tid := range tids {
		ret.Set(types.TupleID(tid), true)
	}
	return ret
}
