package vector

import (
	"testing"

	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/stretchr/testify/assert"
)

func TestNewColumnVectorPicksRepresentation(t *testing.T) {
	testingpkg.SimpleAssert(t, NewColumnVector(types.NewType(types.Integer, false), 4).IsNative())
	testingpkg.SimpleAssert(t, NewColumnVector(types.NewType(types.Double, true), 4).IsNative())
	testingpkg.AssertFalse(t, NewColumnVector(types.NewType(types.Varchar, false), 4).IsNative(), "Varchar vector must be indirect")
}

func TestNativeColumnVector(t *testing.T) {
	cv := NewNativeColumnVector(types.NewType(types.Integer, true), 4)
	cv.AppendValue(types.NewInteger(1))
	cv.AppendValue(types.NewNullOf(types.Integer))
	cv.AppendValue(types.NewBigInt(3))
	testingpkg.Equals(t, 3, cv.Size())
	testingpkg.SimpleAssert(t, cv.IsIntegral())
	testingpkg.SimpleAssert(t, cv.IsNullAt(1))
	testingpkg.Equals(t, int64(3), cv.Int64At(2))
	testingpkg.Equals(t, 3.0, cv.Float64At(2))

	// values are held in the representation of the vector type
	v := cv.GetValue(2)
	testingpkg.Equals(t, types.Integer, v.ValueType())
	testingpkg.SimpleAssert(t, cv.GetValue(1).IsNull())

	cv.PrepareForPositionalWrites()
	testingpkg.Equals(t, 4, cv.Size())
	cv.PositionalWriteValue(1, types.NewInteger(20))
	testingpkg.AssertFalse(t, cv.IsNullAt(1), "overwritten position must not be NULL")
	testingpkg.Equals(t, int32(20), cv.GetValue(1).ToInteger())
}

func TestNonNullableVectorRejectsNull(t *testing.T) {
	native := NewNativeColumnVector(types.NewType(types.Double, false), 2)
	assert.Panics(t, func() { native.AppendValue(types.NewNullOf(types.Double)) })

	indirect := NewIndirectColumnVector(types.NewType(types.Varchar, false), 2)
	assert.Panics(t, func() { indirect.AppendValue(types.NewNullOf(types.Varchar)) })
}

func TestIndirectColumnVector(t *testing.T) {
	cv := NewIndirectColumnVector(types.NewType(types.Varchar, true), 3)
	cv.PrepareForPositionalWrites()
	testingpkg.Equals(t, 3, cv.Size())
	cv.PositionalWriteValue(0, types.NewVarchar("a"))
	cv.PositionalWriteNull(1)
	cv.PositionalWriteValue(2, types.NewVarchar("c"))
	testingpkg.Equals(t, "a", cv.GetValue(0).ToVarchar())
	testingpkg.SimpleAssert(t, cv.GetValue(1).IsNull())
	testingpkg.Equals(t, types.Varchar, cv.GetValue(1).ValueType())
}

func TestMakeVectorOfValue(t *testing.T) {
	cv := MakeVectorOfValue(types.NewType(types.Double, false), types.NewInteger(2), 3)
	testingpkg.Equals(t, 3, cv.Size())
	for i := 0; i < cv.Size(); i++ {
		testingpkg.SimpleAssert(t, cv.GetValue(i).Equals(types.NewDouble(2)))
	}

	nulls := MakeVectorOfValue(types.NewType(types.Varchar, true), types.NewNull(), 2)
	testingpkg.SimpleAssert(t, nulls.GetValue(0).IsNull())
	testingpkg.SimpleAssert(t, nulls.GetValue(1).IsNull())
}
