package vector

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/types"
)

// NativeColumnVector stores fixed width values contiguously.
// Integer and BigInt are held as int64, Float and Double as float64.
type NativeColumnVector struct {
	typ      types.Type
	reserved int
	length   int
	ints     []int64
	floats   []float64
	bools    []bool
	nulls    *bitset.BitSet // nil when type is not nullable
}

func NewNativeColumnVector(t types.Type, reserved int) *NativeColumnVector {
	common.SH_Assert(UsableForType(t), "NativeColumnVector is created for variable length type "+t.Name())
	ret := &NativeColumnVector{typ: t, reserved: reserved}
	switch {
	case t.GetTypeID().IsIntegral():
		ret.ints = make([]int64, 0, reserved)
	case t.GetTypeID() == types.Boolean:
		ret.bools = make([]bool, 0, reserved)
	default:
		ret.floats = make([]float64, 0, reserved)
	}
	if t.IsNullable() {
		ret.nulls = bitset.New(uint(reserved))
	}
	return ret
}

func (v *NativeColumnVector) IsNative() bool {
	return true
}

func (v *NativeColumnVector) GetType() types.Type {
	return v.typ
}

func (v *NativeColumnVector) Size() int {
	return v.length
}

func (v *NativeColumnVector) IsIntegral() bool {
	return v.ints != nil
}

func (v *NativeColumnVector) IsFloating() bool {
	return v.floats != nil
}

func (v *NativeColumnVector) IsNullAt(pos int) bool {
	return v.nulls != nil && v.nulls.Test(uint(pos))
}

// Int64At returns raw integral value. NULL check is caller's duty.
func (v *NativeColumnVector) Int64At(pos int) int64 {
	return v.ints[pos]
}

// Float64At returns value widened to float64. integral values are converted.
func (v *NativeColumnVector) Float64At(pos int) float64 {
	if v.ints != nil {
		return float64(v.ints[pos])
	}
	return v.floats[pos]
}

func (v *NativeColumnVector) BoolAt(pos int) bool {
	return v.bools[pos]
}

func (v *NativeColumnVector) GetValue(pos int) types.Value {
	if v.IsNullAt(pos) {
		return types.NewNullOf(v.typ.GetTypeID())
	}
	switch v.typ.GetTypeID() {
	case types.Integer:
		return types.NewInteger(int32(v.ints[pos]))
	case types.BigInt:
		return types.NewBigInt(v.ints[pos])
	case types.Float:
		return types.NewFloat(float32(v.floats[pos]))
	case types.Double:
		return types.NewDouble(v.floats[pos])
	case types.Boolean:
		return types.NewBoolean(v.bools[pos])
	default:
		panic("illegal type of NativeColumnVector!")
	}
}

func (v *NativeColumnVector) AppendValue(value types.Value) {
	v.grow(v.length + 1)
	v.PositionalWriteValue(v.length-1, value)
}

func (v *NativeColumnVector) PrepareForPositionalWrites() {
	if v.length < v.reserved {
		v.grow(v.reserved)
	}
}

func (v *NativeColumnVector) PositionalWriteValue(pos int, value types.Value) {
	if value.IsNull() {
		v.PositionalWriteNull(pos)
		return
	}
	switch {
	case v.ints != nil:
		v.ints[pos] = value.AsBigInt()
	case v.floats != nil:
		v.floats[pos] = value.AsDouble()
	default:
		v.bools[pos] = value.ToBoolean()
	}
	if v.nulls != nil {
		v.nulls.Clear(uint(pos))
	}
}

func (v *NativeColumnVector) PositionalWriteNull(pos int) {
	common.SH_Assert(v.nulls != nil, "NULL is written to NativeColumnVector of non nullable type "+v.typ.Name())
	v.nulls.Set(uint(pos))
}

func (v *NativeColumnVector) grow(length int) {
	switch {
	case v.ints != nil:
		for len(v.ints) < length {
			v.ints = append(v.ints, 0)
		}
	case v.floats != nil:
		for len(v.floats) < length {
			v.floats = append(v.floats, 0)
		}
	default:
		for len(v.bools) < length {
			v.bools = append(v.bools, false)
		}
	}
	if length > v.reserved {
		v.reserved = length
	}
	v.length = length
}
