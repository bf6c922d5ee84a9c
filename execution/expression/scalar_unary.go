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

// ScalarUnaryExpression applies an UnaryOperation to its operand
type ScalarUnaryExpression struct {
	staticValueHolder
	operation  operations.UnaryOperation
	operand    Scalar
	resultType types.Type
	fastOp     operations.UncheckedUnaryOperator
}

// NewScalarUnaryExpression returns *TypeMismatchError which holds operand
// when operation can not be applied to type of operand
func NewScalarUnaryExpression(operation operations.UnaryOperation, operand Scalar) (*ScalarUnaryExpression, error) {
	resultType, err := operation.ResultTypeForArgumentType(operand.GetType())
	if err != nil {
		return nil, &TypeMismatchError{Err: err, Left: operand}
	}

	ret := &ScalarUnaryExpression{operation: operation, operand: operand, resultType: resultType}
	ret.fastOp = operation.MakeUncheckedUnaryOperatorForType(operand.GetType())
	if operand.HasStaticValue() {
		ret.hasStatic = true
		ret.staticValue = ret.fastOp.ApplyToValue(operand.GetStaticValue())
	}
	return ret, nil
}

func (s *ScalarUnaryExpression) GetDataSource() ScalarDataSource {
	return SCALAR_UNARY_EXPRESSION
}

func (s *ScalarUnaryExpression) GetType() types.Type {
	return s.resultType
}

func (s *ScalarUnaryExpression) GetOperation() operations.UnaryOperation {
	return s.operation
}

func (s *ScalarUnaryExpression) GetOperand() Scalar {
	return s.operand
}

func (s *ScalarUnaryExpression) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	return s.fastOp.ApplyToValue(s.operand.GetValueForSingleTuple(accessor, tuple_id))
}

func (s *ScalarUnaryExpression) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	if s.hasStatic {
		return s.staticValue
	}
	return s.fastOp.ApplyToValue(s.operand.GetValueForJoinedTuples(
		left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id))
}

func (s *ScalarUnaryExpression) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, accessor.GetNumTuples())
	}
	if common.EnableVectorCopyElisionSelection {
		if attr_id := s.operand.GetAttributeIdForValueAccessor(); attr_id != common.InvalidAttributeID {
			return s.fastOp.ApplyToValueAccessor(accessor, attr_id)
		}
	}
	return s.fastOp.ApplyToColumnVector(s.operand.GetAllValues(accessor, sub_blocks_ref, cv_cache))
}

func (s *ScalarUnaryExpression) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	if s.hasStatic {
		return vector.MakeVectorOfValue(s.resultType, s.staticValue, len(joined_tuple_ids))
	}
	return s.fastOp.ApplyToColumnVector(s.operand.GetAllValuesForJoin(
		left_relation_id, left_accessor, right_relation_id, right_accessor, joined_tuple_ids, cv_cache))
}

func (s *ScalarUnaryExpression) Clone() Scalar {
	ret, err := NewScalarUnaryExpression(s.operation, s.operand.Clone())
	if err != nil {
		panic(err.Error())
	}
	return ret
}
