package testing_tbl_gen

import (
	"testing"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/types"
)

func TestGenerateTestTabls(t *testing.T) {
	c := catalog.NewCatalog()
	relation1, blocks1, relation2, blocks2 := GenerateTestTabls(c, 300, 7)

	testingpkg.Equals(t, relation1, c.GetRelationByName("test_1"))
	testingpkg.Equals(t, relation2, c.GetRelationByName("test_2"))
	testingpkg.Equals(t, 4, len(blocks1))
	testingpkg.Equals(t, 1, len(blocks2))

	total := 0
	serial := int32(0)
	nulls := 0
	for i, b := range blocks1 {
		testingpkg.Equals(t, block.BlockID(i), b.GetID())
		testingpkg.SimpleAssert(t, b.GetTupleStore().IsSorted())
		testingpkg.Equals(t, 2, len(b.GetIndices()))
		testingpkg.Equals(t, block.INDEX_KIND_SMA, b.GetIndices()[0].GetIndexKind())
		testingpkg.Equals(t, block.INDEX_KIND_BLOOM_FILTER, b.GetIndices()[1].GetIndexKind())
		for tid := 0; tid < b.NumTuples(); tid++ {
			store := b.GetTupleStore()
			testingpkg.Equals(t, serial, store.GetAttributeValue(types.TupleID(tid), 0).ToInteger())
			serial++
			colB := store.GetAttributeValue(types.TupleID(tid), 1).ToInteger()
			testingpkg.Assert(t, colB >= 0 && colB <= 9, "colB must be in [0, 9] but %d", colB)
			if store.GetAttributeValue(types.TupleID(tid), 2).IsNull() {
				nulls++
			}
		}
		total += b.NumTuples()
	}
	testingpkg.Equals(t, int(TEST1_SIZE), total)
	testingpkg.Assert(t, nulls > 0 && nulls < int(TEST1_SIZE)/4, "about 10%% of colC must be NULL but %d", nulls)

	testingpkg.Equals(t, int(TEST2_SIZE), blocks2[0].NumTuples())
	testingpkg.Equals(t, block.INDEX_KIND_SORTED_COLUMN, blocks2[0].GetIndices()[0].GetIndexKind())
	testingpkg.Equals(t, types.Varchar, relation2.GetAttributeByName("col3").GetType().GetTypeID())
}

func TestGeneratedDataIsDeterministic(t *testing.T) {
	_, blocksA, _, _ := GenerateTestTabls(catalog.NewCatalog(), 1024, 3)
	_, blocksB, _, _ := GenerateTestTabls(catalog.NewCatalog(), 1024, 3)
	storeA, storeB := blocksA[0].GetTupleStore(), blocksB[0].GetTupleStore()
	for tid := types.TupleID(0); tid < storeA.GetEndPosition(); tid++ {
		testingpkg.SimpleAssert(t, storeA.GetAttributeValue(tid, 3).Equals(storeB.GetAttributeValue(tid, 3)))
	}
}
