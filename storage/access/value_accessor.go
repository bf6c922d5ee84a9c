package access

import (
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
)

/**
 * ValueAccessor gives uniform access to attribute values of tuples in a block
 * or in a temporary result. tuples are iterated in ascending tuple id order.
 */
type ValueAccessor interface {
	// number of tuples which ForEachTuple iterates
	GetNumTuples() int
	// one past the max tuple id. length of tuple id domain.
	GetEndPosition() types.TupleID
	// tuple id sequence which restricts iteration. nil when all of [0, end) are iterated.
	GetTupleIdSequence() *bitmap.TupleIdSequence
	ForEachTuple(fn func(tid types.TupleID))
	GetValueAt(attr_id int, tid types.TupleID) types.Value
	GetAttributeType(attr_id int) types.Type
	// CreateSharedTupleIdSequenceAdapter returns accessor which iterates only tuples in seq.
	// seq is shared, not copied.
	CreateSharedTupleIdSequenceAdapter(seq *bitmap.TupleIdSequence) ValueAccessor
}

// NativeColumnAccessor is implemented by accessors which can expose a column
// as a NativeColumnVector indexed by tuple id
type NativeColumnAccessor interface {
	GetNativeColumn(attr_id int) (*vector.NativeColumnVector, bool)
}

// GetNativeColumn returns native column of attr_id if accessor exposes it
func GetNativeColumn(accessor ValueAccessor, attr_id int) (*vector.NativeColumnVector, bool) {
	if nca, ok := accessor.(NativeColumnAccessor); ok {
		return nca.GetNativeColumn(attr_id)
	}
	return nil, false
}

// GetTupleIds returns tuple ids iterated by accessor
func GetTupleIds(accessor ValueAccessor) []types.TupleID {
	ret := make([]types.TupleID, 0, accessor.GetNumTuples())
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret = append(ret, tid)
	})
	return ret
}

// GetColumnVectorForAttribute materializes attribute values of iterated tuples
func GetColumnVectorForAttribute(accessor ValueAccessor, attr_id int) vector.ColumnVector {
	ret := vector.NewColumnVector(accessor.GetAttributeType(attr_id), accessor.GetNumTuples())
	if src, ok := GetNativeColumn(accessor, attr_id); ok {
		accessor.ForEachTuple(func(tid types.TupleID) {
			ret.AppendValue(src.GetValue(int(tid)))
		})
		return ret
	}
	accessor.ForEachTuple(func(tid types.TupleID) {
		ret.AppendValue(accessor.GetValueAt(attr_id, tid))
	})
	return ret
}
