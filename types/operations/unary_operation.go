package operations

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/types"
)

type UnaryOperationID int32

const (
	Negate UnaryOperationID = iota
	Abs
	CastToDouble
	CastToBigInt
)

func (id UnaryOperationID) IsValid() bool {
	return id >= Negate && id <= CastToBigInt
}

type UnaryOperation struct {
	id UnaryOperationID
}

func GetUnaryOperation(id UnaryOperationID) UnaryOperation {
	if !id.IsValid() {
		panic(fmt.Sprintf("illegal unary operation id %d is passed!", id))
	}
	return UnaryOperation{id}
}

func (o UnaryOperation) GetUnaryOperationID() UnaryOperationID {
	return o.id
}

func (o UnaryOperation) GetName() string {
	switch o.id {
	case Negate:
		return "Negate"
	case Abs:
		return "Abs"
	case CastToDouble:
		return "CastToDouble"
	default:
		return "CastToBigInt"
	}
}

func (o UnaryOperation) CanApplyToType(t types.Type) bool {
	return t.GetTypeID().IsNumeric() || t.GetTypeID() == types.Null
}

func (o UnaryOperation) ResultTypeForArgumentType(t types.Type) (types.Type, error) {
	if !o.CanApplyToType(t) {
		return types.Type{}, types.NewOperationInapplicableToTypeError(o.GetName(), t)
	}
	nullable := t.IsNullable() || t.GetTypeID() == types.Null
	switch o.id {
	case CastToDouble:
		return types.NewType(types.Double, nullable), nil
	case CastToBigInt:
		return types.NewType(types.BigInt, nullable), nil
	default:
		if t.GetTypeID() == types.Null {
			return types.NewType(types.Integer, true), nil
		}
		return t, nil
	}
}

/**
 * UncheckedUnaryOperator applies a unary operation to an argument of the type
 * it was made for. NULL argument produces NULL.
 */
type UncheckedUnaryOperator interface {
	GetResultType() types.Type
	ApplyToValue(argument types.Value) types.Value
	ApplyToColumnVector(argument vector.ColumnVector) vector.ColumnVector
	ApplyToValueAccessor(accessor access.ValueAccessor, attr_id int) vector.ColumnVector
}

func (o UnaryOperation) MakeUncheckedUnaryOperatorForType(t types.Type) UncheckedUnaryOperator {
	resultType, err := o.ResultTypeForArgumentType(t)
	if err != nil {
		panic(err.Error())
	}
	ret := &uncheckedUnaryOperator{resultType: resultType}
	switch o.id {
	case Negate:
		ret.kernel = func(v types.Value) types.Value {
			if resultType.GetTypeID().IsIntegral() {
				return resultType.CoerceValue(types.NewBigInt(-v.AsBigInt()))
			}
			return resultType.CoerceValue(types.NewDouble(-v.AsDouble()))
		}
	case Abs:
		ret.kernel = func(v types.Value) types.Value {
			if resultType.GetTypeID().IsIntegral() {
				x := v.AsBigInt()
				if x < 0 {
					x = -x
				}
				return resultType.CoerceValue(types.NewBigInt(x))
			}
			x := v.AsDouble()
			if x < 0 {
				x = -x
			}
			return resultType.CoerceValue(types.NewDouble(x))
		}
	case CastToDouble:
		ret.kernel = func(v types.Value) types.Value {
			return types.NewDouble(v.AsDouble())
		}
	case CastToBigInt:
		ret.kernel = func(v types.Value) types.Value {
			return types.NewBigInt(v.AsBigInt())
		}
	}
	return ret
}

type uncheckedUnaryOperator struct {
	resultType types.Type
	kernel     func(v types.Value) types.Value
}

func (op *uncheckedUnaryOperator) GetResultType() types.Type {
	return op.resultType
}

func (op *uncheckedUnaryOperator) ApplyToValue(argument types.Value) types.Value {
	if argument.IsNull() {
		return op.resultType.MakeNullValue()
	}
	return op.kernel(argument)
}

func (op *uncheckedUnaryOperator) ApplyToColumnVector(argument vector.ColumnVector) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, argument.Size())
	for pos := 0; pos < argument.Size(); pos++ {
		ret.AppendValue(op.ApplyToValue(argument.GetValue(pos)))
	}
	return ret
}

func (op *uncheckedUnaryOperator) ApplyToValueAccessor(accessor access.ValueAccessor, attr_id int) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValue(accessor.GetValueAt(attr_id, tid)))
	})
	return ret
}
