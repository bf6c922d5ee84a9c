package expression

import (
	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * ScalarCaseExpression is searched CASE expression.
 *   CASE WHEN when_predicates[0] THEN result_expressions[0] ... ELSE else_result_expression END
 * result of the first matching WHEN is the value. when the branch taken is
 * decided regardless of tuples, the branch is fixed at construction.
 */
type ScalarCaseExpression struct {
	staticValueHolder
	resultType           types.Type
	whenPredicates       []Predicate
	resultExpressions    []Scalar
	elseResultExpression Scalar
	// nil when branch depends on tuples
	fixedResultExpression Scalar
}

func NewScalarCaseExpression(result_type types.Type, when_predicates []Predicate, result_expressions []Scalar,
	else_result_expression Scalar) (*ScalarCaseExpression, error) {
	if len(when_predicates) != len(result_expressions) {
		return nil, errors.Wrapf(ErrInvalidCaseExpression, "%d WHEN predicates but %d result expressions",
			len(when_predicates), len(result_expressions))
	}
	if else_result_expression == nil {
		return nil, errors.Wrap(ErrInvalidCaseExpression, "ELSE result expression is missing")
	}
	for ii, result := range append(append([]Scalar(nil), result_expressions...), else_result_expression) {
		if !isSubsumedBy(result.GetType(), result_type) {
			return nil, errors.Wrapf(ErrInvalidCaseExpression, "type %s of branch %d is not coercible to %s",
				result.GetType(), ii, result_type)
		}
	}

	ret := &ScalarCaseExpression{
		resultType:           result_type,
		whenPredicates:       when_predicates,
		resultExpressions:    result_expressions,
		elseResultExpression: else_result_expression,
	}

	all_static_false := true
	for ii, when := range when_predicates {
		if !when.HasStaticResult() {
			all_static_false = false
			break
		}
		if when.GetStaticResult() {
			ret.fixedResultExpression = result_expressions[ii]
			all_static_false = false
			break
		}
	}
	if all_static_false {
		ret.fixedResultExpression = else_result_expression
	}

	if ret.fixedResultExpression != nil && ret.fixedResultExpression.HasStaticValue() {
		ret.hasStatic = true
		ret.staticValue = result_type.CoerceValue(ret.fixedResultExpression.GetStaticValue())
	}
	return ret, nil
}

// isSubsumedBy is true when values of t can be stored as values of result_type
func isSubsumedBy(t types.Type, result_type types.Type) bool {
	return t.Equals(result_type) || result_type.IsSafelyCoercibleFrom(t) ||
		(t.GetTypeID() == result_type.GetTypeID() && result_type.IsNullable())
}

func (s *ScalarCaseExpression) GetDataSource() ScalarDataSource {
	return SCALAR_CASE_EXPRESSION
}

func (s *ScalarCaseExpression) GetType() types.Type {
	return s.resultType
}

func (s *ScalarCaseExpression) GetWhenPredicates() []Predicate {
	return s.whenPredicates
}

func (s *ScalarCaseExpression) GetResultExpressions() []Scalar {
	return s.resultExpressions
}

func (s *ScalarCaseExpression) GetElseResultExpression() Scalar {
	return s.elseResultExpression
}

// GetFixedResultExpression returns the branch decided at construction or nil
func (s *ScalarCaseExpression) GetFixedResultExpression() Scalar {
	return s.fixedResultExpression
}

func (s *ScalarCaseExpression) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	if s.fixedResultExpression != nil {
		return s.resultType.CoerceValue(s.fixedResultExpression.GetValueForSingleTuple(accessor, tuple_id))
	}
	for ii, when := range s.whenPredicates {
		if when.MatchesForSingleTuple(accessor, tuple_id) {
			return s.resultType.CoerceValue(s.resultExpressions[ii].GetValueForSingleTuple(accessor, tuple_id))
		}
	}
	return s.resultType.CoerceValue(s.elseResultExpression.GetValueForSingleTuple(accessor, tuple_id))
}

func (s *ScalarCaseExpression) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	branch := s.fixedResultExpression
	if branch == nil {
		branch = s.elseResultExpression
		for ii, when := range s.whenPredicates {
			if when.MatchesForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id) {
				branch = s.resultExpressions[ii]
				break
			}
		}
	}
	return s.resultType.CoerceValue(branch.GetValueForJoinedTuples(
		left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id))
}

func (s *ScalarCaseExpression) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	num_tuples := accessor.GetNumTuples()
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, num_tuples)
	}
	if s.fixedResultExpression != nil {
		return s.coerceVector(s.fixedResultExpression.GetAllValues(accessor, sub_blocks_ref, cv_cache))
	}

	accessor_sequence := accessor.GetTupleIdSequence()
	var else_matches *bitmap.TupleIdSequence
	if accessor_sequence != nil {
		else_matches = accessor_sequence.Clone()
	} else {
		else_matches = bitmap.NewTupleIdSequenceAll(int(accessor.GetEndPosition()))
	}

	// tuples are partitioned to branches. a tuple goes to the first WHEN which it matches.
	case_matches := make([]*bitmap.TupleIdSequence, 0, len(s.whenPredicates))
	for _, when := range s.whenPredicates {
		if else_matches.Empty() {
			break
		}
		case_match := when.GetAllMatches(accessor, sub_blocks_ref, else_matches, accessor_sequence)
		else_matches.IntersectWithComplement(case_match)
		case_matches = append(case_matches, case_match)
	}

	// branches are evaluated only over their own tuples. values computed over a
	// subset of tuples are not cached.
	case_results := make([]vector.ColumnVector, len(case_matches))
	for ii, case_match := range case_matches {
		if case_match.Empty() {
			continue
		}
		adapter := accessor.CreateSharedTupleIdSequenceAdapter(case_match)
		case_results[ii] = s.resultExpressions[ii].GetAllValues(adapter, sub_blocks_ref, nil)
		exprMetrics.caseBranchesEvaluated.Inc()
	}
	var else_result vector.ColumnVector
	if !else_matches.Empty() {
		adapter := accessor.CreateSharedTupleIdSequenceAdapter(else_matches)
		else_result = s.elseResultExpression.GetAllValues(adapter, sub_blocks_ref, nil)
		exprMetrics.caseBranchesEvaluated.Inc()
	}

	return s.multiplexColumnVectors(num_tuples, accessor_sequence, case_matches, else_matches, case_results, else_result)
}

func (s *ScalarCaseExpression) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	num_pairs := len(joined_tuple_ids)
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, num_pairs)
	}
	if s.fixedResultExpression != nil {
		return s.coerceVector(s.fixedResultExpression.GetAllValuesForJoin(
			left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache))
	}

	// bitmaps here are over positions of joined_tuple_ids
	else_positions := bitmap.NewTupleIdSequenceAll(num_pairs)
	case_matches := make([]*bitmap.TupleIdSequence, 0, len(s.whenPredicates))
	case_pairs := make([][]JoinedTupleIDs, 0, len(s.whenPredicates))
	for _, when := range s.whenPredicates {
		if else_positions.Empty() {
			break
		}
		case_match := bitmap.NewTupleIdSequence(num_pairs)
		pairs := make([]JoinedTupleIDs, 0)
		else_positions.ForEach(func(pos types.TupleID) {
			ids := joined_tuple_ids[pos]
			if when.MatchesForJoinedTuples(left_accessor, left_relation_id, ids.First, right_accessor, right_relation_id, ids.Second) {
				case_match.Set(pos, true)
				pairs = append(pairs, ids)
			}
		})
		else_positions.IntersectWithComplement(case_match)
		case_matches = append(case_matches, case_match)
		case_pairs = append(case_pairs, pairs)
	}

	case_results := make([]vector.ColumnVector, len(case_matches))
	for ii, pairs := range case_pairs {
		if len(pairs) == 0 {
			continue
		}
		case_results[ii] = s.resultExpressions[ii].GetAllValuesForJoin(
			left_relation_id, left_accessor, right_relation_id, right_accessor, pairs, nil)
		exprMetrics.caseBranchesEvaluated.Inc()
	}
	var else_result vector.ColumnVector
	if !else_positions.Empty() {
		else_pairs := make([]JoinedTupleIDs, 0, else_positions.NumTuples())
		else_positions.ForEach(func(pos types.TupleID) {
			else_pairs = append(else_pairs, joined_tuple_ids[pos])
		})
		else_result = s.elseResultExpression.GetAllValuesForJoin(
			left_relation_id, left_accessor, right_relation_id, right_accessor, else_pairs, nil)
		exprMetrics.caseBranchesEvaluated.Inc()
	}

	return s.multiplexColumnVectors(num_pairs, nil, case_matches, else_positions, case_results, else_result)
}

/**
 * multiplexColumnVectors merges results of branches into a vector of output_size.
 * when source_sequence is nil, n-th position of output corresponds to tuple id n.
 * otherwise n-th position corresponds to n-th tuple id of source_sequence.
 * n-th value of a branch result corresponds to n-th tuple id of its matches.
 */
func (s *ScalarCaseExpression) multiplexColumnVectors(output_size int, source_sequence *bitmap.TupleIdSequence,
	case_matches []*bitmap.TupleIdSequence, else_matches *bitmap.TupleIdSequence,
	case_results []vector.ColumnVector, else_result vector.ColumnVector) vector.ColumnVector {
	output := vector.NewColumnVector(s.resultType, output_size)
	output.PrepareForPositionalWrites()

	for ii, case_match := range case_matches {
		if case_results[ii] != nil {
			multiplexInto(output, source_sequence, case_match, case_results[ii])
		}
	}
	if else_result != nil {
		multiplexInto(output, source_sequence, else_matches, else_result)
	}
	return output
}

func multiplexInto(output vector.ColumnVector, source_sequence *bitmap.TupleIdSequence,
	matches *bitmap.TupleIdSequence, input vector.ColumnVector) {
	input_pos := 0
	if source_sequence == nil {
		matches.ForEach(func(tid types.TupleID) {
			output.PositionalWriteValue(int(tid), input.GetValue(input_pos))
			input_pos++
		})
		return
	}

	output_pos := 0
	source_sequence.ForEach(func(tid types.TupleID) {
		if matches.Get(tid) {
			output.PositionalWriteValue(output_pos, input.GetValue(input_pos))
			input_pos++
		}
		output_pos++
	})
}

// coerceVector returns cv as a vector of result type
func (s *ScalarCaseExpression) coerceVector(cv vector.ColumnVector) vector.ColumnVector {
	if cv.GetType().Equals(s.resultType) {
		return cv
	}
	ret := vector.NewColumnVector(s.resultType, cv.Size())
	for pos := 0; pos < cv.Size(); pos++ {
		ret.AppendValue(s.resultType.CoerceValue(cv.GetValue(pos)))
	}
	return ret
}

func (s *ScalarCaseExpression) Clone() Scalar {
	whens := make([]Predicate, 0, len(s.whenPredicates))
	for _, when := range s.whenPredicates {
		whens = append(whens, when.Clone())
	}
	results := make([]Scalar, 0, len(s.resultExpressions))
	for _, result := range s.resultExpressions {
		results = append(results, result.Clone())
	}
	ret, err := NewScalarCaseExpression(s.resultType, whens, results, s.elseResultExpression.Clone())
	if err != nil {
		panic(err.Error())
	}
	return ret
}
