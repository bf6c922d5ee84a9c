package bitmap

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * TupleIdSequence is a set of tuple ids in a block, represented as a bitmap
 * of fixed length. length is the tuple id domain (one past max tuple id).
 */
type TupleIdSequence struct {
	bits   *bitset.BitSet
	length int
}

func NewTupleIdSequence(length int) *TupleIdSequence {
	return &TupleIdSequence{bitset.New(uint(length)), length}
}

// NewTupleIdSequenceAll returns a sequence which contains all of [0, length)
func NewTupleIdSequenceAll(length int) *TupleIdSequence {
	ret := NewTupleIdSequence(length)
	ret.SetRange(0, length, true)
	return ret
}

func (s *TupleIdSequence) Length() int {
	return s.length
}

func (s *TupleIdSequence) Set(tid types.TupleID, on bool) {
	if int(tid) >= s.length || tid < 0 {
		panic("tuple id " + strconv.Itoa(int(tid)) + " is out of range of TupleIdSequence")
	}
	s.bits.SetTo(uint(tid), on)
}

func (s *TupleIdSequence) Get(tid types.TupleID) bool {
	if int(tid) >= s.length || tid < 0 {
		return false
	}
	return s.bits.Test(uint(tid))
}

// SetRange sets num tuple ids from first to on
func (s *TupleIdSequence) SetRange(first types.TupleID, num int, on bool) {
	for i := int(first); i < int(first)+num; i++ {
		s.bits.SetTo(uint(i), on)
	}
}

// AssignFrom overwrites contents with other. lengths must be same.
func (s *TupleIdSequence) AssignFrom(other *TupleIdSequence) {
	s.checkLength(other)
	other.bits.CopyFull(s.bits)
}

func (s *TupleIdSequence) IntersectWith(other *TupleIdSequence) {
	s.checkLength(other)
	s.bits.InPlaceIntersection(other.bits)
}

func (s *TupleIdSequence) UnionWith(other *TupleIdSequence) {
	s.checkLength(other)
	s.bits.InPlaceUnion(other.bits)
}

// IntersectWithComplement removes tuple ids contained in other
func (s *TupleIdSequence) IntersectWithComplement(other *TupleIdSequence) {
	s.checkLength(other)
	s.bits.InPlaceDifference(other.bits)
}

// Invert flips membership of every tuple id in [0, length)
func (s *TupleIdSequence) Invert() {
	s.bits = s.bits.Complement()
}

func (s *TupleIdSequence) NumTuples() int {
	return int(s.bits.Count())
}

func (s *TupleIdSequence) Empty() bool {
	return s.bits.None()
}

// Front returns the first tuple id. sequence must not be empty.
func (s *TupleIdSequence) Front() types.TupleID {
	i, ok := s.bits.NextSet(0)
	if !ok {
		panic("Front is called on empty TupleIdSequence")
	}
	return types.TupleID(i)
}

// NextSet returns the first tuple id which is equal to or larger than from
func (s *TupleIdSequence) NextSet(from types.TupleID) (types.TupleID, bool) {
	i, ok := s.bits.NextSet(uint(from))
	if !ok || int(i) >= s.length {
		return types.InvalidTupleID, false
	}
	return types.TupleID(i), true
}

// ForEach calls fn with each tuple id in ascending order
func (s *TupleIdSequence) ForEach(fn func(tid types.TupleID)) {
	for i, ok := s.bits.NextSet(0); ok && int(i) < s.length; i, ok = s.bits.NextSet(i + 1) {
		fn(types.TupleID(i))
	}
}

func (s *TupleIdSequence) Ids() []types.TupleID {
	ret := make([]types.TupleID, 0, s.NumTuples())
	s.ForEach(func(tid types.TupleID) {
		ret = append(ret, tid)
	})
	return ret
}

func (s *TupleIdSequence) Clone() *TupleIdSequence {
	return &TupleIdSequence{s.bits.Clone(), s.length}
}

func (s *TupleIdSequence) Equals(other *TupleIdSequence) bool {
	return s.length == other.length && s.bits.Equal(other.bits)
}

// IsSubsetOf reports whether all tuple ids of s are contained in other
func (s *TupleIdSequence) IsSubsetOf(other *TupleIdSequence) bool {
	return other.bits.IsSuperSet(s.bits)
}

func (s *TupleIdSequence) String() string {
	strs := make([]string, 0)
	s.ForEach(func(tid types.TupleID) {
		strs = append(strs, strconv.Itoa(int(tid)))
	})
	return "{" + strings.Join(strs, ",") + "}/" + strconv.Itoa(s.length)
}

func (s *TupleIdSequence) checkLength(other *TupleIdSequence) {
	if s.length != other.length {
		panic("length of TupleIdSequence is not matched: " + strconv.Itoa(s.length) + " != " + strconv.Itoa(other.length))
	}
}
