package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

// ScalarBinaryExpression applies a BinaryOperation to two operands
type ScalarBinaryExpression struct {
	staticValueHolder
	operation  operations.BinaryOperation
	left       Scalar
	right      Scalar
	resultType types.Type
	fastOp     operations.UncheckedBinaryOperator
}

func NewScalarBinaryExpression(operation operations.BinaryOperation, left Scalar, right Scalar) (*ScalarBinaryExpression, error) {
	resultType, err := operation.ResultTypeForArgumentTypes(left.GetType(), right.GetType())
	if err != nil {
		return nil, &TypeMismatchError{Err: err, Left: left, Right: right}
	}

	ret := &ScalarBinaryExpression{operation: operation, left: left, right: right, resultType: resultType}
	ret.fastOp = operation.MakeUncheckedBinaryOperatorForTypes(left.GetType(), right.GetType())
	if left.HasStaticValue() && right.HasStaticValue() {
		ret.hasStatic = true
		ret.staticValue = ret.fastOp.ApplyToValues(left.GetStaticValue(), right.GetStaticValue())
	}
	return ret, nil
}

func (s *ScalarBinaryExpression) GetDataSource() ScalarDataSource {
	return SCALAR_BINARY_EXPRESSION
}

func (s *ScalarBinaryExpression) GetType() types.Type {
	return s.resultType
}

func (s *ScalarBinaryExpression) GetOperation() operations.BinaryOperation {
	return s.operation
}

func (s *ScalarBinaryExpression) GetLeftOperand() Scalar {
	return s.left
}

func (s *ScalarBinaryExpression) GetRightOperand() Scalar {
	return s.right
}

func (s *ScalarBinaryExpression) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	return s.fastOp.ApplyToValues(s.left.GetValueForSingleTuple(accessor, tuple_id), s.right.GetValueForSingleTuple(accessor, tuple_id))
}

func (s *ScalarBinaryExpression) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	l := s.left.GetValueForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
	r := s.right.GetValueForJoinedTuples(left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
	return s.fastOp.ApplyToValues(l, r)
}

func (s *ScalarBinaryExpression) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, accessor.GetNumTuples())
	}

	left_attr_id := s.left.GetAttributeIdForValueAccessor()
	right_attr_id := s.right.GetAttributeIdForValueAccessor()
	elide := common.EnableVectorCopyElisionSelection

	if s.left.HasStaticValue() {
		if elide && right_attr_id != common.InvalidAttributeID {
			return s.fastOp.ApplyToStaticValueAndValueAccessor(s.left.GetStaticValue(), accessor, right_attr_id)
		}
		return s.fastOp.ApplyToStaticValueAndColumnVector(s.left.GetStaticValue(), s.right.GetAllValues(accessor, sub_blocks_ref, cv_cache))
	}
	if s.right.HasStaticValue() {
		if elide && left_attr_id != common.InvalidAttributeID {
			return s.fastOp.ApplyToValueAccessorAndStaticValue(accessor, left_attr_id, s.right.GetStaticValue())
		}
		return s.fastOp.ApplyToColumnVectorAndStaticValue(s.left.GetAllValues(accessor, sub_blocks_ref, cv_cache), s.right.GetStaticValue())
	}

	if elide {
		switch {
		case left_attr_id != common.InvalidAttributeID && right_attr_id != common.InvalidAttributeID:
			return s.fastOp.ApplyToSingleValueAccessor(accessor, left_attr_id, right_attr_id)
		case left_attr_id != common.InvalidAttributeID:
			return s.fastOp.ApplyToValueAccessorAndColumnVector(accessor, left_attr_id, s.right.GetAllValues(accessor, sub_blocks_ref, cv_cache))
		case right_attr_id != common.InvalidAttributeID:
			return s.fastOp.ApplyToColumnVectorAndValueAccessor(s.left.GetAllValues(accessor, sub_blocks_ref, cv_cache), accessor, right_attr_id)
		}
	}
	return s.fastOp.ApplyToColumnVectors(
		s.left.GetAllValues(accessor, sub_blocks_ref, cv_cache),
		s.right.GetAllValues(accessor, sub_blocks_ref, cv_cache))
}

func (s *ScalarBinaryExpression) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, len(joined_tuple_ids))
	}
	if s.left.HasStaticValue() {
		return s.fastOp.ApplyToStaticValueAndColumnVector(s.left.GetStaticValue(),
			s.right.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache))
	}
	if s.right.HasStaticValue() {
		return s.fastOp.ApplyToColumnVectorAndStaticValue(
			s.left.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache),
			s.right.GetStaticValue())
	}
	return s.fastOp.ApplyToColumnVectors(
		s.left.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache),
		s.right.GetAllValuesForJoin(left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache))
}

func (s *ScalarBinaryExpression) Clone() Scalar {
	ret, err := NewScalarBinaryExpression(s.operation, s.left.Clone(), s.right.Clone())
	if err != nil {
		panic(err.Error())
	}
	return ret
}
