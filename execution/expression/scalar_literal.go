package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// ScalarLiteral is a constant value. it always has static value.
type ScalarLiteral struct {
	staticValueHolder
	valueType types.Type
}

// NewScalarLiteral returns literal of value_type. value is coerced to value_type.
func NewScalarLiteral(value types.Value, value_type types.Type) *ScalarLiteral {
	if value.IsNull() && !value_type.IsNullable() {
		panic("illegal null literal of non-nullable type is passed!")
	}
	return &ScalarLiteral{staticValueHolder{true, value_type.CoerceValue(value)}, value_type}
}

func (s *ScalarLiteral) GetDataSource() ScalarDataSource {
	return SCALAR_LITERAL
}

func (s *ScalarLiteral) GetType() types.Type {
	return s.valueType
}

func (s *ScalarLiteral) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	return s.staticValue
}

func (s *ScalarLiteral) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	return s.staticValue
}

func (s *ScalarLiteral) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	return vector.MakeVectorOfValue(s.valueType, s.staticValue, accessor.GetNumTuples())
}

func (s *ScalarLiteral) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	return vector.MakeVectorOfValue(s.valueType, s.staticValue, len(joined_tuple_ids))
}

func (s *ScalarLiteral) Clone() Scalar {
	return &ScalarLiteral{s.staticValueHolder, s.valueType}
}
