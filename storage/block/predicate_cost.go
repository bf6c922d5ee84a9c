package block

import "math"

// PredicateCost is a rough ordinal estimate of how expensive it is for a
// sub-block to evaluate a predicate. smaller is cheaper.
type PredicateCost int

const (
	PREDICATE_COST_CONSTANT_TIME PredicateCost = iota
	PREDICATE_COST_BINARY_SEARCH
	PREDICATE_COST_TREE_SEARCH
	PREDICATE_COST_COLUMN_SCAN
	PREDICATE_COST_COMPRESSED_COLUMN_SCAN
	PREDICATE_COST_ROW_SCAN
	PREDICATE_COST_INFINITE PredicateCost = math.MaxInt32
)

// PredicateCostIsSimpleScan is true when evaluation by the sub-block is no
// better than a plain scan of the tuples
func PredicateCostIsSimpleScan(cost PredicateCost) bool {
	return cost == PREDICATE_COST_COLUMN_SCAN || cost == PREDICATE_COST_ROW_SCAN
}

func (c PredicateCost) String() string {
	switch c {
	case PREDICATE_COST_CONSTANT_TIME:
		return "ConstantTime"
	case PREDICATE_COST_BINARY_SEARCH:
		return "BinarySearch"
	case PREDICATE_COST_TREE_SEARCH:
		return "TreeSearch"
	case PREDICATE_COST_COLUMN_SCAN:
		return "ColumnScan"
	case PREDICATE_COST_COMPRESSED_COLUMN_SCAN:
		return "CompressedColumnScan"
	case PREDICATE_COST_ROW_SCAN:
		return "RowScan"
	case PREDICATE_COST_INFINITE:
		return "Infinite"
	default:
		return "Unknown"
	}
}
