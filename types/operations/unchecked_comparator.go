package operations

import (
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
	"golang.org/x/exp/constraints"
)

/**
 * UncheckedComparator compares values of the types it was made for without
 * type checks. any comparison with NULL is false.
 *
 * methods which take column vectors assume the vectors are aligned to
 * iteration order of tuples. when existence is passed, n-th position
 * corresponds to n-th tuple id in existence and the result has length of
 * existence. filter restricts tuple ids which can match.
 */
type UncheckedComparator interface {
	CompareValues(left types.Value, right types.Value) bool

	CompareColumnVectors(left vector.ColumnVector, right vector.ColumnVector,
		filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareColumnVectorAndStaticValue(left vector.ColumnVector, right types.Value,
		filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareStaticValueAndColumnVector(left types.Value, right vector.ColumnVector,
		filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence

	CompareSingleValueAccessor(accessor access.ValueAccessor, left_attr_id int, right_attr_id int,
		filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareValueAccessorAndStaticValue(accessor access.ValueAccessor, left_attr_id int, right types.Value,
		filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareStaticValueAndValueAccessor(left types.Value, accessor access.ValueAccessor, right_attr_id int,
		filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareColumnVectorAndValueAccessor(left vector.ColumnVector, accessor access.ValueAccessor, right_attr_id int,
		filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
	CompareValueAccessorAndColumnVector(accessor access.ValueAccessor, left_attr_id int, right vector.ColumnVector,
		filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence
}

type typedComparator[T constraints.Ordered] struct {
	id         ComparisonID
	fromValue  func(types.Value) T
	fromNative func(*vector.NativeColumnVector, int) T // nil when values are not held natively
}

func (c *typedComparator[T]) apply(l T, r T) bool {
	switch c.id {
	case Equal:
		return l == r
	case NotEqual:
		return l != r
	case Less:
		return l < r
	case LessOrEqual:
		return l <= r
	case Greater:
		return l > r
	case GreaterOrEqual:
		return l >= r
	default:
		panic("illegal comparisonID!")
	}
}

// getter returns (value, isNull)
type getter[T constraints.Ordered] func(pos int) (T, bool)

func (c *typedComparator[T]) vectorGetter(cv vector.ColumnVector) getter[T] {
	if ncv, ok := cv.(*vector.NativeColumnVector); ok && c.fromNative != nil {
		return c.nativeGetter(ncv)
	}
	return func(pos int) (T, bool) {
		v := cv.GetValue(pos)
		if v.IsNull() {
			var zero T
			return zero, true
		}
		return c.fromValue(v), false
	}
}

// accessorGetter returns getter which takes tuple id
func (c *typedComparator[T]) accessorGetter(accessor access.ValueAccessor, attr_id int) getter[T] {
	if ncv, ok := access.GetNativeColumn(accessor, attr_id); ok && c.fromNative != nil {
		return c.nativeGetter(ncv)
	}
	return func(tid int) (T, bool) {
		v := accessor.GetValueAt(attr_id, types.TupleID(tid))
		if v.IsNull() {
			var zero T
			return zero, true
		}
		return c.fromValue(v), false
	}
}

func (c *typedComparator[T]) nativeGetter(ncv *vector.NativeColumnVector) getter[T] {
	return func(pos int) (T, bool) {
		if ncv.IsNullAt(pos) {
			var zero T
			return zero, true
		}
		return c.fromNative(ncv, pos), false
	}
}

func (c *typedComparator[T]) CompareValues(left types.Value, right types.Value) bool {
	if left.IsNull() || right.IsNull() {
		return false
	}
	return c.apply(c.fromValue(left), c.fromValue(right))
}

func (c *typedComparator[T]) CompareColumnVectors(left vector.ColumnVector, right vector.ColumnVector,
	filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	lg, rg := c.vectorGetter(left), c.vectorGetter(right)
	return matchByPosition(left.Size(), filter, existence, func(pos int) bool {
		l, lnull := lg(pos)
		r, rnull := rg(pos)
		return !lnull && !rnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareColumnVectorAndStaticValue(left vector.ColumnVector, right types.Value,
	filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if right.IsNull() {
		return emptyResultByPosition(left.Size(), existence)
	}
	lg, r := c.vectorGetter(left), c.fromValue(right)
	return matchByPosition(left.Size(), filter, existence, func(pos int) bool {
		l, lnull := lg(pos)
		return !lnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareStaticValueAndColumnVector(left types.Value, right vector.ColumnVector,
	filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if left.IsNull() {
		return emptyResultByPosition(right.Size(), existence)
	}
	l, rg := c.fromValue(left), c.vectorGetter(right)
	return matchByPosition(right.Size(), filter, existence, func(pos int) bool {
		r, rnull := rg(pos)
		return !rnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareSingleValueAccessor(accessor access.ValueAccessor, left_attr_id int, right_attr_id int,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	lg, rg := c.accessorGetter(accessor, left_attr_id), c.accessorGetter(accessor, right_attr_id)
	return matchByAccessor(accessor, filter, func(_ int, tid types.TupleID) bool {
		l, lnull := lg(int(tid))
		r, rnull := rg(int(tid))
		return !lnull && !rnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareValueAccessorAndStaticValue(accessor access.ValueAccessor, left_attr_id int, right types.Value,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if right.IsNull() {
		return bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	}
	lg, r := c.accessorGetter(accessor, left_attr_id), c.fromValue(right)
	return matchByAccessor(accessor, filter, func(_ int, tid types.TupleID) bool {
		l, lnull := lg(int(tid))
		return !lnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareStaticValueAndValueAccessor(left types.Value, accessor access.ValueAccessor, right_attr_id int,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if left.IsNull() {
		return bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	}
	l, rg := c.fromValue(left), c.accessorGetter(accessor, right_attr_id)
	return matchByAccessor(accessor, filter, func(_ int, tid types.TupleID) bool {
		r, rnull := rg(int(tid))
		return !rnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareColumnVectorAndValueAccessor(left vector.ColumnVector, accessor access.ValueAccessor, right_attr_id int,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	lg, rg := c.vectorGetter(left), c.accessorGetter(accessor, right_attr_id)
	return matchByAccessor(accessor, filter, func(pos int, tid types.TupleID) bool {
		l, lnull := lg(pos)
		r, rnull := rg(int(tid))
		return !lnull && !rnull && c.apply(l, r)
	})
}

func (c *typedComparator[T]) CompareValueAccessorAndColumnVector(accessor access.ValueAccessor, left_attr_id int, right vector.ColumnVector,
	filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	lg, rg := c.accessorGetter(accessor, left_attr_id), c.vectorGetter(right)
	return matchByAccessor(accessor, filter, func(pos int, tid types.TupleID) bool {
		l, lnull := lg(int(tid))
		r, rnull := rg(pos)
		return !lnull && !rnull && c.apply(l, r)
	})
}

// matchByPosition builds result from per position decisions over column vectors
func matchByPosition(num int, filter *bitmap.TupleIdSequence, existence *bitmap.TupleIdSequence,
	matches func(pos int) bool) *bitmap.TupleIdSequence {
	if existence != nil {
		result := bitmap.NewTupleIdSequence(existence.Length())
		pos := 0
		existence.ForEach(func(tid types.TupleID) {
			if pos < num && (filter == nil || filter.Get(tid)) && matches(pos) {
				result.Set(tid, true)
			}
			pos++
		})
		return result
	}

	result := bitmap.NewTupleIdSequence(num)
	for pos := 0; pos < num; pos++ {
		tid := types.TupleID(pos)
		if (filter == nil || filter.Get(tid)) && matches(pos) {
			result.Set(tid, true)
		}
	}
	return result
}

func emptyResultByPosition(num int, existence *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	if existence != nil {
		return bitmap.NewTupleIdSequence(existence.Length())
	}
	return bitmap.NewTupleIdSequence(num)
}

// matchByAccessor builds result over tuples iterated by accessor.
// pos is position of tid in the iteration.
func matchByAccessor(accessor access.ValueAccessor, filter *bitmap.TupleIdSequence,
	matches func(pos int, tid types.TupleID) bool) *bitmap.TupleIdSequence {
	result := bitmap.NewTupleIdSequence(int(accessor.GetEndPosition()))
	pos := 0
	accessor.ForEachTuple(func(tid types.TupleID) {
		if (filter == nil || filter.Get(tid)) && matches(pos, tid) {
			result.Set(tid, true)
		}
		pos++
	})
	return result
}
