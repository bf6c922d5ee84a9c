package vector

import (
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/types"
)

// IndirectColumnVector holds values of variable length types as types.Value
type IndirectColumnVector struct {
	typ      types.Type
	reserved int
	values   []types.Value
}

func NewIndirectColumnVector(t types.Type, reserved int) *IndirectColumnVector {
	return &IndirectColumnVector{t, reserved, make([]types.Value, 0, reserved)}
}

func (v *IndirectColumnVector) IsNative() bool {
	return false
}

func (v *IndirectColumnVector) GetType() types.Type {
	return v.typ
}

func (v *IndirectColumnVector) Size() int {
	return len(v.values)
}

func (v *IndirectColumnVector) GetValue(pos int) types.Value {
	return v.values[pos]
}

func (v *IndirectColumnVector) AppendValue(value types.Value) {
	v.checkNull(value)
	v.values = append(v.values, v.coerce(value))
}

func (v *IndirectColumnVector) PrepareForPositionalWrites() {
	for len(v.values) < v.reserved {
		v.values = append(v.values, v.typ.MakeNullValue())
	}
}

func (v *IndirectColumnVector) PositionalWriteValue(pos int, value types.Value) {
	v.checkNull(value)
	v.values[pos] = v.coerce(value)
}

func (v *IndirectColumnVector) PositionalWriteNull(pos int) {
	v.checkNull(types.NewNull())
	v.values[pos] = v.typ.MakeNullValue()
}

func (v *IndirectColumnVector) coerce(value types.Value) types.Value {
	if value.IsNull() {
		return v.typ.MakeNullValue()
	}
	return value
}

func (v *IndirectColumnVector) checkNull(value types.Value) {
	if value.IsNull() {
		common.SH_Assert(v.typ.IsNullable(), "NULL is written to IndirectColumnVector of non nullable type "+v.typ.Name())
	}
}
