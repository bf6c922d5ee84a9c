// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package testing_util

import (
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
)

func GetValue(data interface{}) (value types.Value) {
	switch v := data.(type) {
	case int:
		value = types.NewInteger(int32(v))
	case int32:
		value = types.NewInteger(v)
	case int64:
		value = types.NewBigInt(v)
	case float32:
		value = types.NewFloat(float32(v))
	case float64:
		value = types.NewDouble(v)
	case string:
		value = types.NewVarchar(v)
	case bool:
		value = types.NewBoolean(v)
	case nil:
		value = types.NewNull()
	case types.Value:
		return v
	case *types.Value:
		val := data.(*types.Value)
		return *val
	}
	return
}

func GetValueType(data interface{}) (value types.TypeID) {
	switch data.(type) {
	case int, int32:
		return types.Integer
	case int64:
		return types.BigInt
	case float32:
		return types.Float
	case float64:
		return types.Double
	case string:
		return types.Varchar
	case bool:
		return types.Boolean
	case nil:
		return types.Null
	case types.Value:
		return data.(types.Value).ValueType()
	case *types.Value:
		val := data.(*types.Value)
		return val.ValueType()
	}
	panic("not implemented")
}

// MakeColumnVector returns vector of t filled with data. nil in data is NULL.
func MakeColumnVector(t types.Type, data ...interface{}) vector.ColumnVector {
	ret := vector.NewColumnVector(t, len(data))
	for _, d := range data {
		if d == nil {
			ret.AppendValue(t.MakeNullValue())
		} else {
			ret.AppendValue(GetValue(d))
		}
	}
	return ret
}

// MakeAccessor returns accessor over columns. n-th column is attribute n.
func MakeAccessor(columns ...vector.ColumnVector) *access.ColumnVectorsValueAccessor {
	ret := access.NewColumnVectorsValueAccessor()
	for _, column := range columns {
		ret.AddColumn(column)
	}
	return ret
}

// MakeSequence returns sequence of length which contains tids
func MakeSequence(length int, tids ...int) *bitmap.TupleIdSequence {
	ret := bitmap.NewTupleIdSequence(length)
	for _, tid := range tids {
		ret.Set(types.TupleID(tid), true)
	}
	return ret
}

// SequenceIds returns tuple ids in seq as ints
func SequenceIds(seq *bitmap.TupleIdSequence) []int {
	ret := make([]int, 0, seq.NumTuples())
	seq.ForEach(func(tid types.TupleID) {
		ret = append(ret, int(tid))
	})
	return ret
}

// VectorValues returns Go values held by cv. NULL is nil.
func VectorValues(cv vector.ColumnVector) []interface{} {
	ret := make([]interface{}, 0, cv.Size())
	for pos := 0; pos < cv.Size(); pos++ {
		val := cv.GetValue(pos)
		if val.IsNull() {
			ret = append(ret, nil)
			continue
		}
		switch val.ValueType() {
		case types.Integer, types.BigInt:
			ret = append(ret, val.AsBigInt())
		case types.Float, types.Double:
			ret = append(ret, val.AsDouble())
		case types.Boolean:
			ret = append(ret, val.ToBoolean())
		default:
			ret = append(ret, val.ToVarchar())
		}
	}
	return ret
}
