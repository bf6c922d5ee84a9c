package access_test

import (
	"testing"

	"github.com/ryogrid/SamehadaExpr/storage/access"
	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/testing/testing_util"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/stretchr/testify/assert"
)

func TestColumnVectorsValueAccessor(t *testing.T) {
	accessor := testing_util.MakeAccessor(
		testing_util.MakeColumnVector(types.NewType(types.Integer, false), 1, 2, 3),
		testing_util.MakeColumnVector(types.NewType(types.Varchar, true), "a", nil, "c"),
	)
	testingpkg.Equals(t, 3, accessor.GetNumTuples())
	testingpkg.Equals(t, types.TupleID(3), accessor.GetEndPosition())
	testingpkg.Assert(t, accessor.GetTupleIdSequence() == nil, "plain accessor has no sequence")
	testingpkg.Equals(t, []types.TupleID{0, 1, 2}, access.GetTupleIds(accessor))
	testingpkg.SimpleAssert(t, accessor.GetValueAt(1, 1).IsNull())

	_, ok := access.GetNativeColumn(accessor, 0)
	testingpkg.SimpleAssert(t, ok)
	_, ok = access.GetNativeColumn(accessor, 1)
	testingpkg.AssertFalse(t, ok, "Varchar column is not native")

	assert.Panics(t, func() {
		accessor.AddColumn(testing_util.MakeColumnVector(types.NewType(types.Integer, false), 1))
	})
}

func TestTupleIdSequenceAdapter(t *testing.T) {
	accessor := testing_util.MakeAccessor(
		testing_util.MakeColumnVector(types.NewType(types.Integer, false), 10, 20, 30, 40),
		testing_util.MakeColumnVector(types.NewType(types.Varchar, false), "a", "b", "c", "d"),
	)
	adapter := accessor.CreateSharedTupleIdSequenceAdapter(testing_util.MakeSequence(4, 1, 3))
	testingpkg.Equals(t, 2, adapter.GetNumTuples())
	testingpkg.Equals(t, types.TupleID(4), adapter.GetEndPosition())
	testingpkg.Equals(t, []types.TupleID{1, 3}, access.GetTupleIds(adapter))

	testingpkg.Equals(t, []interface{}{int64(20), int64(40)},
		testing_util.VectorValues(access.GetColumnVectorForAttribute(adapter, 0)))
	testingpkg.Equals(t, []interface{}{"b", "d"},
		testing_util.VectorValues(access.GetColumnVectorForAttribute(adapter, 1)))

	// adapter of adapter narrows the base accessor directly
	narrowed := adapter.CreateSharedTupleIdSequenceAdapter(testing_util.MakeSequence(4, 3))
	testingpkg.Equals(t, []types.TupleID{3}, access.GetTupleIds(narrowed))
	_, ok := access.GetNativeColumn(narrowed, 0)
	testingpkg.SimpleAssert(t, ok)
}
