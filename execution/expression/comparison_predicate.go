package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

/**
 * ComparisonPredicate compares values of two scalars.
 * when both operands have static value, the result is decided at construction
 * and no comparator is made.
 */
type ComparisonPredicate struct {
	comparison     operations.Comparison
	left           Scalar
	right          Scalar
	hasStatic      bool
	staticResult   bool
	fastComparator operations.UncheckedComparator
}

// NewComparisonPredicate returns *TypeMismatchError holding left and right
// when the types of operands can not be compared
func NewComparisonPredicate(comparison operations.Comparison, left Scalar, right Scalar) (*ComparisonPredicate, error) {
	if !comparison.CanCompareTypes(left.GetType(), right.GetType()) {
		return nil, &TypeMismatchError{
			Err:   types.NewOperationInapplicableToTypeError(comparison.GetName(), left.GetType(), right.GetType()),
			Left:  left,
			Right: right,
		}
	}

	ret := &ComparisonPredicate{comparison: comparison, left: left, right: right}
	if left.HasStaticValue() && right.HasStaticValue() {
		result, err := comparison.CompareValuesChecked(left.GetStaticValue(), left.GetType(), right.GetStaticValue(), right.GetType())
		if err != nil {
			return nil, &TypeMismatchError{Err: err, Left: left, Right: right}
		}
		ret.hasStatic = true
		ret.staticResult = result
	} else {
		ret.fastComparator = comparison.MakeUncheckedComparatorForTypes(left.GetType(), right.GetType())
	}
	return ret, nil
}

func (p *ComparisonPredicate) GetPredicateType() PredicateType {
	return PREDICATE_TYPE_COMPARISON
}

func (p *ComparisonPredicate) GetComparison() operations.Comparison {
	return p.comparison
}

func (p *ComparisonPredicate) GetComparisonID() operations.ComparisonID {
	return p.comparison.GetComparisonID()
}

func (p *ComparisonPredicate) GetLeftOperand() Scalar {
	return p.left
}

func (p *ComparisonPredicate) GetRightOperand() Scalar {
	return p.right
}

func (p *ComparisonPredicate) HasStaticResult() bool {
	return p.hasStatic
}

func (p *ComparisonPredicate) GetStaticResult() bool {
	if !p.hasStatic {
		common.FatalError("GetStaticResult is called on ComparisonPredicate without static result!")
	}
	return p.staticResult
}

// IsAttributeLiteralComparisonPredicate is true when one side is an attribute
// and the other side has static value
func (p *ComparisonPredicate) IsAttributeLiteralComparisonPredicate() bool {
	return (p.left.GetDataSource() == SCALAR_ATTRIBUTE && p.right.HasStaticValue()) ||
		(p.right.GetDataSource() == SCALAR_ATTRIBUTE && p.left.HasStaticValue())
}

// GetAttributeFromAttributeLiteralComparison returns which side the attribute is on and its id
func (p *ComparisonPredicate) GetAttributeFromAttributeLiteralComparison() (attr_on_left bool, attr_id int) {
	common.SH_Assert(p.IsAttributeLiteralComparisonPredicate(), "not an attribute-literal comparison")
	if p.left.GetDataSource() == SCALAR_ATTRIBUTE {
		return true, p.left.GetAttributeIdForValueAccessor()
	}
	return false, p.right.GetAttributeIdForValueAccessor()
}

func (p *ComparisonPredicate) GetAttributeLiteralComparison() (attr_id int, comparison operations.ComparisonID, literal types.Value) {
	attr_on_left, attr_id := p.GetAttributeFromAttributeLiteralComparison()
	if attr_on_left {
		return attr_id, p.comparison.GetComparisonID(), p.right.GetStaticValue()
	}
	return attr_id, p.comparison.GetComparisonID().Flip(), p.left.GetStaticValue()
}

func (p *ComparisonPredicate) MatchesForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	return p.fastComparator.CompareValues(
		p.left.GetValueForSingleTuple(accessor, tuple_id),
		p.right.GetValueForSingleTuple(accessor, tuple_id))
}

func (p *ComparisonPredicate) MatchesForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) bool {
	if p.hasStatic {
		return p.staticResult
	}
	return p.fastComparator.CompareValues(
		p.left.GetValueForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id),
		p.right.GetValueForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id))
}

// chooseStrategy asks tuple store and consistent indices for their costs
func (p *ComparisonPredicate) chooseStrategy(sub_blocks_ref *block.SubBlocksReference) StrategyChoice {
	index_costs := make([]IndexCost, 0, len(sub_blocks_ref.Indices))
	for ii, index := range sub_blocks_ref.Indices {
		if ii < len(sub_blocks_ref.IndicesConsistent) && sub_blocks_ref.IndicesConsistent[ii] {
			index_costs = append(index_costs, IndexCost{ii, index.EstimatePredicateEvaluationCost(p)})
		}
	}
	return ChooseEvaluationStrategy(sub_blocks_ref.TupleStore.EstimatePredicateEvaluationCost(p), index_costs)
}

func (p *ComparisonPredicate) GetAllMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence, existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if p.fastComparator == nil {
		exprMetrics.comparisonDispatch.WithLabelValues(STRATEGY_STATIC.String()).Inc()
		return GenerateSequenceForStaticResult(accessor, filter, existence_map, p.staticResult)
	}

	if sub_blocks_ref != nil && p.comparison.IsBasicComparison() {
		choice := p.chooseStrategy(sub_blocks_ref)
		if common.LogLevelSetting&common.EXPR_DISPATCH != 0 {
			common.ShPrintf(common.EXPR_DISPATCH, "ComparisonPredicate: %s strategy=%s cost=%s index=%d",
				GetExpTreeStr(p), choice.Kind, choice.Cost, choice.IndexPosition)
		}
		switch choice.Kind {
		case STRATEGY_INDEX:
			exprMetrics.comparisonDispatch.WithLabelValues(choice.Kind.String()).Inc()
			return restrictToExistenceMap(
				sub_blocks_ref.Indices[choice.IndexPosition].GetMatchesForPredicate(p, filter), accessor, existence_map)
		case STRATEGY_TUPLE_STORE:
			exprMetrics.comparisonDispatch.WithLabelValues(choice.Kind.String()).Inc()
			return restrictToExistenceMap(sub_blocks_ref.TupleStore.GetMatchesForPredicate(p, filter), accessor, existence_map)
		}
	}
	exprMetrics.comparisonDispatch.WithLabelValues(STRATEGY_SCAN.String()).Inc()

	return restrictToExistenceMap(p.scanMatches(accessor, sub_blocks_ref, filter), accessor, existence_map)
}

// restrictToExistenceMap drops tuples of result outside existence_map.
// nothing to do when existence_map is the sequence accessor iterates.
func restrictToExistenceMap(result *bitmap.TupleIdSequence, accessor access.ValueAccessor,
	existence_map *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if existence_map != nil && (accessor == nil || existence_map != accessor.GetTupleIdSequence()) {
		result.IntersectWith(existence_map)
	}
	return result
}

// scanMatches evaluates the comparison with vectorized comparator over tuples of accessor
func (p *ComparisonPredicate) scanMatches(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	// positions of materialized vectors correspond to this sequence. nil means tuple id itself.
	positions := accessor.GetTupleIdSequence()
	elide := common.EnableVectorCopyElisionSelection

	// operands are materialized only for tuples in filter
	var short_circuit_adapter access.ValueAccessor
	if common.EnableVectorPredicateShortCircuit && filter != nil {
		short_circuit_adapter = accessor.CreateSharedTupleIdSequenceAdapter(filter)
	}

	// materialize computes values of operand and returns sequences to be passed
	// to vector comparisons as (filter, existence)
	materialize := func(operand Scalar) (vector.ColumnVector, *bitmap.TupleIdSequence, *bitmap.TupleIdSequence) {
		if short_circuit_adapter != nil {
			return operand.GetAllValues(short_circuit_adapter, sub_blocks_ref, nil), nil, filter
		}
		return operand.GetAllValues(accessor, sub_blocks_ref, nil), filter, positions
	}

	left_attr_id := p.left.GetAttributeIdForValueAccessor()
	right_attr_id := p.right.GetAttributeIdForValueAccessor()

	if p.left.HasStaticValue() {
		left_value := p.left.GetStaticValue()
		if elide && right_attr_id != common.InvalidAttributeID {
			return p.fastComparator.CompareStaticValueAndValueAccessor(left_value, accessor, right_attr_id, filter)
		}
		right_cv, f, e := materialize(p.right)
		return p.fastComparator.CompareStaticValueAndColumnVector(left_value, right_cv, f, e)
	}

	if p.right.HasStaticValue() {
		right_value := p.right.GetStaticValue()
		if elide && left_attr_id != common.InvalidAttributeID {
			return p.fastComparator.CompareValueAccessorAndStaticValue(accessor, left_attr_id, right_value, filter)
		}
		left_cv, f, e := materialize(p.left)
		return p.fastComparator.CompareColumnVectorAndStaticValue(left_cv, right_value, f, e)
	}

	if elide {
		// accessor which iterates the same tuples as materialized vectors
		vector_accessor := accessor
		if short_circuit_adapter != nil {
			vector_accessor = short_circuit_adapter
		}
		switch {
		case left_attr_id != common.InvalidAttributeID && right_attr_id != common.InvalidAttributeID:
			return p.fastComparator.CompareSingleValueAccessor(accessor, left_attr_id, right_attr_id, filter)
		case left_attr_id != common.InvalidAttributeID:
			right_cv, _, _ := materialize(p.right)
			return p.fastComparator.CompareValueAccessorAndColumnVector(vector_accessor, left_attr_id, right_cv, filter)
		case right_attr_id != common.InvalidAttributeID:
			left_cv, _, _ := materialize(p.left)
			return p.fastComparator.CompareColumnVectorAndValueAccessor(left_cv, vector_accessor, right_attr_id, filter)
		}
	}

	left_cv, f, e := materialize(p.left)
	right_cv, _, _ := materialize(p.right)
	return p.fastComparator.CompareColumnVectors(left_cv, right_cv, f, e)
}

func (p *ComparisonPredicate) Clone() Predicate {
	ret, err := NewComparisonPredicate(p.comparison, p.left.Clone(), p.right.Clone())
	if err != nil {
		panic(err.Error())
	}
	return ret
}
