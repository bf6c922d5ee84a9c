package testing_tbl_gen

import (
	"fmt"
	"math/rand"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/storage/index"
	"github.com/ryogrid/SamehadaExpr/types"
)

type ColumnInsertMeta struct {
	/**
	 * Name of the column
	 */
	Name_ string
	/**
	 * Type of the column
	 */
	Type_ types.TypeID
	/**
	 * Whether the column is nullable
	 */
	Nullable_ bool
	/**
	 * Distribution of values
	 */
	Dist_ int32
	/**
	 * min value of the column
	 */
	Min_ int32
	/**
	 * max value of the column
	 */
	Max_ int32
	/**
	 * Counter to generate serial data
	 */
	Serial_counter_ int32
	/**
	 * Index sub-block built over the column in each block
	 */
	Index_ block.IndexKind
}

type TableInsertMeta struct {
	/**
	 * Name of the table
	 */
	Name_ string
	/**
	 * Number of rows
	 */
	Num_rows_ uint32
	/**
	 * Columns
	 */
	Col_meta_ []*ColumnInsertMeta
	/**
	 * attribute id which tuple store of each block is sorted on. -1 means none.
	 */
	Sort_attr_ int
}

const DistSerial int32 = 0
const DistUniform int32 = 1

// every 10th value is NULL on nullable columns
const DistUniformWithNull int32 = 2

const TEST1_SIZE uint32 = 1000
const TEST2_SIZE uint32 = 100
const TEST_VARLEN_SIZE uint32 = 10

func GenNumericValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	var values []types.Value
	if col_meta.Dist_ == DistSerial {
		for i := 0; i < int(count); i++ {
			values = append(values, types.NewInteger(col_meta.Serial_counter_))
			col_meta.Serial_counter_ += 1
		}
		return values
	}

	for i := 0; i < int(count); i++ {
		if col_meta.Dist_ == DistUniformWithNull && col_meta.Nullable_ && rnd.Intn(10) == 0 {
			values = append(values, types.NewNullOf(types.Integer))
			continue
		}
		values = append(values, types.NewInteger(col_meta.Min_+rnd.Int31n(col_meta.Max_-col_meta.Min_+1)))
	}
	return values
}

func GenNumericValuesDouble(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	var values []types.Value
	if col_meta.Dist_ == DistSerial {
		for i := 0; i < int(count); i++ {
			values = append(values, types.NewDouble(float64(col_meta.Serial_counter_)))
			col_meta.Serial_counter_ += 1
		}
		return values
	}

	for i := 0; i < int(count); i++ {
		if col_meta.Dist_ == DistUniformWithNull && col_meta.Nullable_ && rnd.Intn(10) == 0 {
			values = append(values, types.NewNullOf(types.Double))
			continue
		}
		values = append(values, types.NewDouble(float64(col_meta.Min_)+rnd.Float64()*float64(col_meta.Max_-col_meta.Min_)))
	}
	return values
}

func GenVarcharValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	var values []types.Value
	for i := 0; i < int(count); i++ {
		if col_meta.Dist_ == DistSerial {
			values = append(values, types.NewVarchar(fmt.Sprintf("val%08d", col_meta.Serial_counter_)))
			col_meta.Serial_counter_ += 1
			continue
		}
		values = append(values, types.NewVarchar(fmt.Sprintf("val%08d", col_meta.Min_+rnd.Int31n(col_meta.Max_-col_meta.Min_+1))))
	}
	return values
}

func MakeValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	switch col_meta.Type_ {
	case types.Integer:
		return GenNumericValues(col_meta, count, rnd)
	case types.Double:
		return GenNumericValuesDouble(col_meta, count, rnd)
	case types.Varchar:
		return GenVarcharValues(col_meta, count, rnd)
	default:
		panic("Not yet implemented")
	}
}

// CreateRelation registers relation described by table_meta to c
func CreateRelation(c *catalog.Catalog, table_meta *TableInsertMeta) *catalog.CatalogRelation {
	defs := make([]catalog.AttributeDef, 0, len(table_meta.Col_meta_))
	for _, col_meta := range table_meta.Col_meta_ {
		defs = append(defs, catalog.NewAttributeDef(col_meta.Name_, col_meta.Type_, col_meta.Nullable_))
	}
	relation, err := c.CreateRelation(table_meta.Name_, defs)
	if err != nil {
		panic(err.Error())
	}
	return relation
}

func newIndex(kind block.IndexKind, store block.TupleStorageSubBlock, attr_id int, capacity int) block.IndexSubBlock {
	switch kind {
	case block.INDEX_KIND_SMA:
		return index.NewSMAIndexSubBlock(store, []int{attr_id})
	case block.INDEX_KIND_BLOOM_FILTER:
		return index.NewBloomFilterIndexSubBlock(store, attr_id, uint(capacity), common.BloomFilterFalsePositiveRate)
	case block.INDEX_KIND_SORTED_COLUMN:
		return index.NewSortedColumnIndexSubBlock(store, attr_id)
	default:
		return nil
	}
}

// FillBlocks generates rows of table_meta into blocks of capacity tuples.
// indices requested by columns are attached to each block.
func FillBlocks(relation *catalog.CatalogRelation, table_meta *TableInsertMeta, capacity int, seed int64) []*block.StorageBlock {
	rnd := rand.New(rand.NewSource(seed))
	blocks := make([]*block.StorageBlock, 0)

	var num_inserted uint32 = 0
	for num_inserted < table_meta.Num_rows_ {
		num_values := uint32(capacity)
		if table_meta.Num_rows_-num_inserted < num_values {
			num_values = table_meta.Num_rows_ - num_inserted
		}
		var values [][]types.Value
		for _, col_meta := range table_meta.Col_meta_ {
			values = append(values, MakeValues(col_meta, num_values, rnd))
		}

		block_ := block.NewStorageBlock(block.BlockID(len(blocks)), relation, capacity, table_meta.Sort_attr_)
		for i := 0; i < int(num_values); i++ {
			var entry []types.Value
			for idx := range table_meta.Col_meta_ {
				entry = append(entry, values[idx][i])
			}
			if _, err := block_.InsertTuple(entry); err != nil {
				fmt.Printf("InsertTuple failed on FillBlocks err = %v", err)
				panic("InsertTuple failed on FillBlocks!")
			}
			num_inserted++
		}
		if table_meta.Sort_attr_ >= 0 {
			block_.Rebuild()
		}
		for idx, col_meta := range table_meta.Col_meta_ {
			if index_ := newIndex(col_meta.Index_, block_.GetTupleStore(), idx, capacity); index_ != nil {
				block_.AddIndex(index_)
			}
		}
		blocks = append(blocks, block_)
	}
	return blocks
}

// GenerateTestTabls creates test_1 and test_2 and returns them with their blocks
func GenerateTestTabls(c *catalog.Catalog, capacity int, seed int64) (*catalog.CatalogRelation, []*block.StorageBlock, *catalog.CatalogRelation, []*block.StorageBlock) {
	tableMeta1 := &TableInsertMeta{"test_1",
		TEST1_SIZE,
		[]*ColumnInsertMeta{
			{"colA", types.Integer, false, DistSerial, 0, 0, 0, block.INDEX_KIND_SMA},
			{"colB", types.Integer, false, DistUniform, 0, 9, 0, block.INDEX_KIND_INVALID},
			{"colC", types.Integer, true, DistUniformWithNull, 0, 9999, 0, block.INDEX_KIND_BLOOM_FILTER},
			{"colD", types.Double, false, DistUniform, 0, 99999, 0, block.INDEX_KIND_INVALID},
		}, 0}
	tableMeta2 := &TableInsertMeta{"test_2",
		TEST2_SIZE,
		[]*ColumnInsertMeta{
			{"col1", types.Integer, false, DistSerial, 0, 0, 0, block.INDEX_KIND_SORTED_COLUMN},
			{"col2", types.Integer, false, DistUniform, 0, 9, 0, block.INDEX_KIND_INVALID},
			{"col3", types.Varchar, false, DistUniform, 0, 1024, 0, block.INDEX_KIND_INVALID},
		}, -1}

	relation1 := CreateRelation(c, tableMeta1)
	relation2 := CreateRelation(c, tableMeta2)
	blocks1 := FillBlocks(relation1, tableMeta1, capacity, seed)
	blocks2 := FillBlocks(relation2, tableMeta2, capacity, seed+1)
	return relation1, blocks1, relation2, blocks2
}
