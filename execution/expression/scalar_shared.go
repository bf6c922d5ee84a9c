package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * ScalarSharedExpression wraps a common sub-expression which appears more
 * than once in a query. the vectorized result is memoized in ColumnVectorCache
 * under share_id, so the operand is evaluated once per batch.
 */
type ScalarSharedExpression struct {
	shareId int
	operand Scalar
}

func NewScalarSharedExpression(share_id int, operand Scalar) *ScalarSharedExpression {
	return &ScalarSharedExpression{share_id, operand}
}

func (s *ScalarSharedExpression) GetDataSource() ScalarDataSource {
	return SCALAR_SHARED_EXPRESSION
}

func (s *ScalarSharedExpression) GetShareId() int {
	return s.shareId
}

func (s *ScalarSharedExpression) GetOperand() Scalar {
	return s.operand
}

func (s *ScalarSharedExpression) GetType() types.Type {
	return s.operand.GetType()
}

func (s *ScalarSharedExpression) HasStaticValue() bool {
	return s.operand.HasStaticValue()
}

func (s *ScalarSharedExpression) GetStaticValue() types.Value {
	return s.operand.GetStaticValue()
}

func (s *ScalarSharedExpression) GetAttributeIdForValueAccessor() int {
	return s.operand.GetAttributeIdForValueAccessor()
}

func (s *ScalarSharedExpression) GetRelationIdForValueAccessor() catalog.RelationID {
	return s.operand.GetRelationIdForValueAccessor()
}

func (s *ScalarSharedExpression) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	return s.operand.GetValueForSingleTuple(accessor, tuple_id)
}

func (s *ScalarSharedExpression) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	return s.operand.GetValueForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
}

func (s *ScalarSharedExpression) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if cv_cache == nil {
		return s.operand.GetAllValues(accessor, sub_blocks_ref, nil)
	}
	if cv_cache.Contains(s.shareId) {
		return cv_cache.Get(s.shareId)
	}
	result := s.operand.GetAllValues(accessor, sub_blocks_ref, cv_cache)
	cv_cache.Set(s.shareId, result)
	return result
}

func (s *ScalarSharedExpression) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if cv_cache == nil {
		return s.operand.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, nil)
	}
	if cv_cache.Contains(s.shareId) {
		return cv_cache.Get(s.shareId)
	}
	result := s.operand.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache)
	cv_cache.Set(s.shareId, result)
	return result
}

func (s *ScalarSharedExpression) Clone() Scalar {
	return NewScalarSharedExpression(s.shareId, s.operand.Clone())
}
