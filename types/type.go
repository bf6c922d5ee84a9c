package types

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/errors"
)

const ErrOperationInapplicable = errors.Error("operation is inapplicable to argument types")

// Type is a TypeID together with nullability.
// all values produced by an expression belong to the Type the expression declares.
type Type struct {
	typeID   TypeID
	nullable bool
}

func NewType(typeID TypeID, nullable bool) Type {
	return Type{typeID, nullable}
}

func (t Type) GetTypeID() TypeID {
	return t.typeID
}

func (t Type) IsNullable() bool {
	return t.nullable
}

func (t Type) GetNullableVersion() Type {
	return Type{t.typeID, true}
}

func (t Type) GetNonNullableVersion() Type {
	return Type{t.typeID, false}
}

func (t Type) Equals(other Type) bool {
	return t.typeID == other.typeID && t.nullable == other.nullable
}

func (t Type) Name() string {
	if t.nullable {
		return t.typeID.Name() + " NULL"
	}
	return t.typeID.Name()
}

func (t Type) String() string {
	return t.Name()
}

// IsSafelyCoercibleFrom reports whether every value of other is representable in t
// without loss of nullability. integral types widen to wider numeric types.
func (t Type) IsSafelyCoercibleFrom(other Type) bool {
	if other.nullable && !t.nullable {
		return false
	}
	if other.typeID == Null {
		return t.nullable
	}
	if t.typeID == other.typeID {
		return true
	}
	switch other.typeID {
	case Integer:
		return t.typeID == BigInt || t.typeID == Float || t.typeID == Double
	case BigInt, Float:
		return t.typeID == Double
	}
	return false
}

func (t Type) MakeNullValue() Value {
	return NewNullOf(t.typeID)
}

// CoerceValue converts v to the representation of t.
// caller must check IsSafelyCoercibleFrom beforehand.
func (t Type) CoerceValue(v Value) Value {
	if v.valueType == t.typeID {
		return v
	}
	if v.IsNull() {
		return NewNullOf(t.typeID)
	}
	switch t.typeID {
	case BigInt:
		return NewBigInt(v.AsBigInt())
	case Float:
		return NewFloat(float32(v.AsDouble()))
	case Double:
		return NewDouble(v.AsDouble())
	case Integer:
		return NewInteger(int32(v.AsBigInt()))
	}
	panic(fmt.Sprintf("illegal coercion from %s to %s is requested!", v.valueType.Name(), t.Name()))
}

// OperationInapplicableToTypeError is returned when an operation or comparison
// can not be applied to types of its arguments
type OperationInapplicableToTypeError struct {
	Operation string
	Types     []Type
}

func NewOperationInapplicableToTypeError(operation string, types_ ...Type) *OperationInapplicableToTypeError {
	return &OperationInapplicableToTypeError{operation, types_}
}

func (e *OperationInapplicableToTypeError) Error() string {
	str := "operation " + e.Operation + " is inapplicable to argument types ("
	for i, t := range e.Types {
		if i > 0 {
			str += ", "
		}
		str += t.Name()
	}
	return str + ")"
}

func (e *OperationInapplicableToTypeError) Unwrap() error {
	return ErrOperationInapplicable
}
