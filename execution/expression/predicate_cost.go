package expression

import (
	"github.com/ryogrid/SamehadaExpr/storage/block"
)

type StrategyKind int32

const (
	STRATEGY_SCAN StrategyKind = iota
	STRATEGY_TUPLE_STORE
	STRATEGY_INDEX
	STRATEGY_STATIC
)

func (k StrategyKind) String() string {
	switch k {
	case STRATEGY_SCAN:
		return "scan"
	case STRATEGY_TUPLE_STORE:
		return "tuple_store"
	case STRATEGY_INDEX:
		return "index"
	case STRATEGY_STATIC:
		return "static"
	default:
		return "unknown"
	}
}

// IndexCost is estimated cost of an index at Position of SubBlocksReference.Indices
type IndexCost struct {
	Position int
	Cost     block.PredicateCost
}

type StrategyChoice struct {
	Kind StrategyKind
	// valid when Kind is STRATEGY_INDEX
	IndexPosition int
	Cost          block.PredicateCost
}

/**
 * ChooseEvaluationStrategy picks the sub-block which evaluates a comparison.
 * an index wins only when its cost is strictly lower than tuple store's cost
 * and every preceding index. when no index wins, the tuple store evaluates
 * the predicate unless its cost is a simple scan, in which case the caller
 * scans with the vectorized comparator.
 */
func ChooseEvaluationStrategy(tuple_store_cost block.PredicateCost, index_costs []IndexCost) StrategyChoice {
	lowest := tuple_store_cost
	fastest := -1
	for _, ic := range index_costs {
		if ic.Cost < lowest {
			lowest = ic.Cost
			fastest = ic.Position
		}
	}
	if fastest >= 0 {
		return StrategyChoice{STRATEGY_INDEX, fastest, lowest}
	}
	if !block.PredicateCostIsSimpleScan(lowest) {
		return StrategyChoice{STRATEGY_TUPLE_STORE, -1, lowest}
	}
	return StrategyChoice{STRATEGY_SCAN, -1, lowest}
}
