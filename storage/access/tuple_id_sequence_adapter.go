package access

import (
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
)

// TupleIdSequenceAdapter restricts iteration of base accessor to tuples in seq
type TupleIdSequenceAdapter struct {
	base ValueAccessor
	seq  *bitmap.TupleIdSequence
}

func NewTupleIdSequenceAdapter(base ValueAccessor, seq *bitmap.TupleIdSequence) *TupleIdSequenceAdapter {
	// adapter of adapter refers base directly
	if adapter, ok := base.(*TupleIdSequenceAdapter); ok {
		base = adapter.base
	}
	return &TupleIdSequenceAdapter{base, seq}
}

func (a *TupleIdSequenceAdapter) GetNumTuples() int {
	return a.seq.NumTuples()
}

func (a *TupleIdSequenceAdapter) GetEndPosition() types.TupleID {
	return a.base.GetEndPosition()
}

func (a *TupleIdSequenceAdapter) GetTupleIdSequence() *bitmap.TupleIdSequence {
	return a.seq
}

func (a *TupleIdSequenceAdapter) ForEachTuple(fn func(tid types.TupleID)) {
	a.seq.ForEach(fn)
}

func (a *TupleIdSequenceAdapter) GetValueAt(attr_id int, tid types.TupleID) types.Value {
	return a.base.GetValueAt(attr_id, tid)
}

func (a *TupleIdSequenceAdapter) GetAttributeType(attr_id int) types.Type {
	return a.base.GetAttributeType(attr_id)
}

func (a *TupleIdSequenceAdapter) CreateSharedTupleIdSequenceAdapter(seq *bitmap.TupleIdSequence) ValueAccessor {
	return NewTupleIdSequenceAdapter(a.base, seq)
}

func (a *TupleIdSequenceAdapter) GetNativeColumn(attr_id int) (*vector.NativeColumnVector, bool) {
	return GetNativeColumn(a.base, attr_id)
}
