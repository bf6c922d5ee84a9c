package bitmap

import (
	"testing"

	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/stretchr/testify/assert"
)

func makeSeq(length int, tids ...int) *TupleIdSequence {
	ret := NewTupleIdSequence(length)
	for _, tid := range tids {
		ret.Set(types.TupleID(tid), true)
	}
	return ret
}

func TestSetAndGet(t *testing.T) {
	seq := makeSeq(10, 1, 3, 9)
	testingpkg.Equals(t, 3, seq.NumTuples())
	testingpkg.SimpleAssert(t, seq.Get(3))
	testingpkg.AssertFalse(t, seq.Get(2), "tid 2 must not be set")
	testingpkg.AssertFalse(t, seq.Get(10), "out of range tid must not be set")
	testingpkg.AssertFalse(t, seq.Get(-1), "negative tid must not be set")
	testingpkg.Equals(t, types.TupleID(1), seq.Front())
	testingpkg.Equals(t, "{1,3,9}/10", seq.String())

	seq.Set(3, false)
	testingpkg.Equals(t, []types.TupleID{1, 9}, seq.Ids())

	assert.Panics(t, func() { seq.Set(10, true) })
	assert.Panics(t, func() { NewTupleIdSequence(4).Front() })
}

func TestSetOperations(t *testing.T) {
	a := makeSeq(8, 0, 1, 2, 5)
	b := makeSeq(8, 1, 2, 6)

	and := a.Clone()
	and.IntersectWith(b)
	testingpkg.Equals(t, []types.TupleID{1, 2}, and.Ids())

	or := a.Clone()
	or.UnionWith(b)
	testingpkg.Equals(t, []types.TupleID{0, 1, 2, 5, 6}, or.Ids())

	diff := a.Clone()
	diff.IntersectWithComplement(b)
	testingpkg.Equals(t, []types.TupleID{0, 5}, diff.Ids())

	testingpkg.SimpleAssert(t, and.IsSubsetOf(a))
	testingpkg.AssertFalse(t, a.IsSubsetOf(b), "a is not a subset of b")

	// operands are untouched
	testingpkg.Equals(t, []types.TupleID{0, 1, 2, 5}, a.Ids())

	assert.Panics(t, func() { a.UnionWith(NewTupleIdSequence(9)) })
}

func TestInvertStaysInDomain(t *testing.T) {
	seq := makeSeq(5, 0, 3)
	seq.Invert()
	testingpkg.Equals(t, []types.TupleID{1, 2, 4}, seq.Ids())
	testingpkg.Equals(t, 3, seq.NumTuples())

	all := NewTupleIdSequenceAll(5)
	all.Invert()
	testingpkg.SimpleAssert(t, all.Empty())
}

func TestAssignFromAndRange(t *testing.T) {
	seq := NewTupleIdSequence(16)
	seq.SetRange(4, 4, true)
	testingpkg.Equals(t, []types.TupleID{4, 5, 6, 7}, seq.Ids())

	next, ok := seq.NextSet(6)
	testingpkg.SimpleAssert(t, ok)
	testingpkg.Equals(t, types.TupleID(6), next)
	_, ok = seq.NextSet(8)
	testingpkg.AssertFalse(t, ok, "no tid after 7")

	other := makeSeq(16, 15)
	seq.AssignFrom(other)
	testingpkg.SimpleAssert(t, seq.Equals(other))
	testingpkg.Equals(t, 16, seq.Length())
}
