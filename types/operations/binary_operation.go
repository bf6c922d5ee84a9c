package operations

import (
	"fmt"
	"math"

	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/types"
)

type BinaryOperationID int32

const (
	Add BinaryOperationID = iota
	Subtract
	Multiply
	Divide
	Modulo
	Concat
)

func (id BinaryOperationID) IsValid() bool {
	return id >= Add && id <= Concat
}

type BinaryOperation struct {
	id BinaryOperationID
}

func GetBinaryOperation(id BinaryOperationID) BinaryOperation {
	if !id.IsValid() {
		panic(fmt.Sprintf("illegal binary operation id %d is passed!", id))
	}
	return BinaryOperation{id}
}

func (o BinaryOperation) GetBinaryOperationID() BinaryOperationID {
	return o.id
}

func (o BinaryOperation) GetName() string {
	switch o.id {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	case Modulo:
		return "Modulo"
	default:
		return "Concat"
	}
}

func (o BinaryOperation) ShortName() string {
	switch o.id {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	default:
		return "||"
	}
}

func (o BinaryOperation) CanApplyToTypes(left types.Type, right types.Type) bool {
	l, r := left.GetTypeID(), right.GetTypeID()
	if o.id == Concat {
		return (l == types.Varchar || l == types.Null) && (r == types.Varchar || r == types.Null)
	}
	return (l.IsNumeric() || l == types.Null) && (r.IsNumeric() || r == types.Null)
}

func (o BinaryOperation) ResultTypeForArgumentTypes(left types.Type, right types.Type) (types.Type, error) {
	if !o.CanApplyToTypes(left, right) {
		return types.Type{}, types.NewOperationInapplicableToTypeError(o.GetName(), left, right)
	}
	l, r := left.GetTypeID(), right.GetTypeID()
	nullable := left.IsNullable() || right.IsNullable() || l == types.Null || r == types.Null
	if o.id == Concat {
		return types.NewType(types.Varchar, nullable), nil
	}
	// division by zero produces NULL
	if o.id == Divide || o.id == Modulo {
		nullable = true
	}
	return types.NewType(numericResultTypeID(l, r), nullable), nil
}

func numericResultTypeID(l types.TypeID, r types.TypeID) types.TypeID {
	if l == types.Null && r == types.Null {
		return types.Integer
	} else if l == types.Null {
		return r
	} else if r == types.Null {
		return l
	}
	switch {
	case l == types.Double || r == types.Double:
		return types.Double
	case l == types.Float || r == types.Float:
		if l == types.BigInt || r == types.BigInt {
			return types.Double
		}
		return types.Float
	case l == types.BigInt || r == types.BigInt:
		return types.BigInt
	default:
		return types.Integer
	}
}

/**
 * UncheckedBinaryOperator applies a binary operation to arguments of the types
 * it was made for. NULL argument produces NULL.
 * results of vectorized methods are aligned to their inputs.
 */
type UncheckedBinaryOperator interface {
	GetResultType() types.Type
	ApplyToValues(left types.Value, right types.Value) types.Value
	ApplyToColumnVectors(left vector.ColumnVector, right vector.ColumnVector) vector.ColumnVector
	ApplyToColumnVectorAndStaticValue(left vector.ColumnVector, right types.Value) vector.ColumnVector
	ApplyToStaticValueAndColumnVector(left types.Value, right vector.ColumnVector) vector.ColumnVector
	ApplyToSingleValueAccessor(accessor access.ValueAccessor, left_attr_id int, right_attr_id int) vector.ColumnVector
	ApplyToValueAccessorAndStaticValue(accessor access.ValueAccessor, left_attr_id int, right types.Value) vector.ColumnVector
	ApplyToStaticValueAndValueAccessor(left types.Value, accessor access.ValueAccessor, right_attr_id int) vector.ColumnVector
	ApplyToColumnVectorAndValueAccessor(left vector.ColumnVector, accessor access.ValueAccessor, right_attr_id int) vector.ColumnVector
	ApplyToValueAccessorAndColumnVector(accessor access.ValueAccessor, left_attr_id int, right vector.ColumnVector) vector.ColumnVector
}

// MakeUncheckedBinaryOperatorForTypes builds operator specialized to argument types.
// caller must check CanApplyToTypes beforehand.
func (o BinaryOperation) MakeUncheckedBinaryOperatorForTypes(left types.Type, right types.Type) UncheckedBinaryOperator {
	resultType, err := o.ResultTypeForArgumentTypes(left, right)
	if err != nil {
		panic(err.Error())
	}
	ret := &uncheckedBinaryOperator{resultType: resultType}
	switch {
	case o.id == Concat:
		ret.kernel = func(l types.Value, r types.Value) types.Value {
			return types.NewVarchar(l.ToVarchar() + r.ToVarchar())
		}
	case resultType.GetTypeID().IsIntegral():
		ret.kernel = func(l types.Value, r types.Value) types.Value {
			x, ok := applyIntegral(o.id, l.AsBigInt(), r.AsBigInt())
			if !ok {
				return resultType.MakeNullValue()
			}
			return resultType.CoerceValue(types.NewBigInt(x))
		}
	default:
		ret.kernel = func(l types.Value, r types.Value) types.Value {
			x, ok := applyFloating(o.id, l.AsDouble(), r.AsDouble())
			if !ok {
				return resultType.MakeNullValue()
			}
			return resultType.CoerceValue(types.NewDouble(x))
		}
	}
	return ret
}

func applyIntegral(id BinaryOperationID, l int64, r int64) (int64, bool) {
	switch id {
	case Add:
		return l + r, true
	case Subtract:
		return l - r, true
	case Multiply:
		return l * r, true
	case Divide:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case Modulo:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	default:
		panic("illegal binary operation for integral types!")
	}
}

func applyFloating(id BinaryOperationID, l float64, r float64) (float64, bool) {
	switch id {
	case Add:
		return l + r, true
	case Subtract:
		return l - r, true
	case Multiply:
		return l * r, true
	case Divide:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case Modulo:
		if r == 0 {
			return 0, false
		}
		return math.Mod(l, r), true
	default:
		panic("illegal binary operation for floating point types!")
	}
}

type uncheckedBinaryOperator struct {
	resultType types.Type
	kernel     func(l types.Value, r types.Value) types.Value
}

func (op *uncheckedBinaryOperator) GetResultType() types.Type {
	return op.resultType
}

func (op *uncheckedBinaryOperator) ApplyToValues(left types.Value, right types.Value) types.Value {
	if left.IsNull() || right.IsNull() {
		return op.resultType.MakeNullValue()
	}
	return op.kernel(left, right)
}

func (op *uncheckedBinaryOperator) ApplyToColumnVectors(left vector.ColumnVector, right vector.ColumnVector) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, left.Size())
	for pos := 0; pos < left.Size(); pos++ {
		ret.AppendValue(op.ApplyToValues(left.GetValue(pos), right.GetValue(pos)))
	}
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToColumnVectorAndStaticValue(left vector.ColumnVector, right types.Value) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, left.Size())
	for pos := 0; pos < left.Size(); pos++ {
		ret.AppendValue(op.ApplyToValues(left.GetValue(pos), right))
	}
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToStaticValueAndColumnVector(left types.Value, right vector.ColumnVector) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, right.Size())
	for pos := 0; pos < right.Size(); pos++ {
		ret.AppendValue(op.ApplyToValues(left, right.GetValue(pos)))
	}
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToSingleValueAccessor(accessor access.ValueAccessor, left_attr_id int, right_attr_id int) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValues(accessor.GetValueAt(left_attr_id, tid), accessor.GetValueAt(right_attr_id, tid)))
	})
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToValueAccessorAndStaticValue(accessor access.ValueAccessor, left_attr_id int, right types.Value) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValues(accessor.GetValueAt(left_attr_id, tid), right))
	})
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToStaticValueAndValueAccessor(left types.Value, accessor access.ValueAccessor, right_attr_id int) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValues(left, accessor.GetValueAt(right_attr_id, tid)))
	})
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToColumnVectorAndValueAccessor(left vector.ColumnVector, accessor access.ValueAccessor, right_attr_id int) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	pos := 0
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValues(left.GetValue(pos), accessor.GetValueAt(right_attr_id, tid)))
		pos++
	})
	return ret
}

func (op *uncheckedBinaryOperator) ApplyToValueAccessorAndColumnVector(accessor access.ValueAccessor, left_attr_id int, right vector.ColumnVector) vector.ColumnVector {
	ret := vector.NewColumnVector(op.resultType, accessor.GetNumTuples())
	pos := 0
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(op.ApplyToValues(accessor.GetValueAt(left_attr_id, tid), right.GetValue(pos)))
		pos++
	})
	return ret
}
