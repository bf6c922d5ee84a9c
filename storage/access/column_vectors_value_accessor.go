package access

import (
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
)

// ColumnVectorsValueAccessor exposes a set of equally sized column vectors
// (e.g. a temporary result) as tuples. attribute id is index of column.
type ColumnVectorsValueAccessor struct {
	columns []vector.ColumnVector
	numRows int
}

func NewColumnVectorsValueAccessor() *ColumnVectorsValueAccessor {
	return &ColumnVectorsValueAccessor{make([]vector.ColumnVector, 0), -1}
}

func (a *ColumnVectorsValueAccessor) AddColumn(column vector.ColumnVector) {
	if a.numRows == -1 {
		a.numRows = column.Size()
	}
	common.SH_Assert(a.numRows == column.Size(), "size of column vectors are not matched")
	a.columns = append(a.columns, column)
}

func (a *ColumnVectorsValueAccessor) GetNumColumns() int {
	return len(a.columns)
}

func (a *ColumnVectorsValueAccessor) GetColumn(attr_id int) vector.ColumnVector {
	return a.columns[attr_id]
}

func (a *ColumnVectorsValueAccessor) GetNumTuples() int {
	if a.numRows < 0 {
		return 0
	}
	return a.numRows
}

func (a *ColumnVectorsValueAccessor) GetEndPosition() types.TupleID {
	return types.TupleID(a.GetNumTuples())
}

func (a *ColumnVectorsValueAccessor) GetTupleIdSequence() *bitmap.TupleIdSequence {
	return nil
}

func (a *ColumnVectorsValueAccessor) ForEachTuple(fn func(tid types.TupleID)) {
	for i := 0; i < a.GetNumTuples(); i++ {
		fn(types.TupleID(i))
	}
}

func (a *ColumnVectorsValueAccessor) GetValueAt(attr_id int, tid types.TupleID) types.Value {
	return a.columns[attr_id].GetValue(int(tid))
}

func (a *ColumnVectorsValueAccessor) GetAttributeType(attr_id int) types.Type {
	return a.columns[attr_id].GetType()
}

func (a *ColumnVectorsValueAccessor) CreateSharedTupleIdSequenceAdapter(seq *bitmap.TupleIdSequence) ValueAccessor {
	return NewTupleIdSequenceAdapter(a, seq)
}

func (a *ColumnVectorsValueAccessor) GetNativeColumn(attr_id int) (*vector.NativeColumnVector, bool) {
	ncv, ok := a.columns[attr_id].(*vector.NativeColumnVector)
	return ncv, ok
}
