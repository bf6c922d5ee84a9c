package vector

import (
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * ColumnVector is a materialized column of values of a single type.
 * position of a value corresponds to n-th tuple iterated by the ValueAccessor
 * which produced the vector.
 */
type ColumnVector interface {
	IsNative() bool
	GetType() types.Type
	Size() int
	GetValue(pos int) types.Value
	AppendValue(value types.Value)
	// PrepareForPositionalWrites makes all reserved positions writable.
	// values of positions which are not written are undefined.
	PrepareForPositionalWrites()
	PositionalWriteValue(pos int, value types.Value)
	PositionalWriteNull(pos int)
}

// UsableForType reports whether NativeColumnVector can hold values of t
func UsableForType(t types.Type) bool {
	return t.GetTypeID().IsFixedWidth()
}

// NewColumnVector creates native or indirect vector which can hold reserved values of t
func NewColumnVector(t types.Type, reserved int) ColumnVector {
	if UsableForType(t) {
		return NewNativeColumnVector(t, reserved)
	}
	return NewIndirectColumnVector(t, reserved)
}

// MakeVectorOfValue returns vector which holds num copies of value
func MakeVectorOfValue(t types.Type, value types.Value, num int) ColumnVector {
	ret := NewColumnVector(t, num)
	if value.IsNull() {
		for i := 0; i < num; i++ {
			ret.AppendValue(t.MakeNullValue())
		}
		return ret
	}
	value = t.CoerceValue(value)
	for i := 0; i < num; i++ {
		ret.AppendValue(value)
	}
	return ret
}
