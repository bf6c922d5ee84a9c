package operations

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/types"
)

type ComparisonID int32

/** ComparisonID represents the type of comparison that we want to perform. */
const (
	Equal          ComparisonID = iota
	NotEqual                    // A != B
	Less                        // A < B
	LessOrEqual                 // A <= B
	Greater                     // A > B
	GreaterOrEqual              // A >= B
)

// Flip returns comparison which gives same result when operands are swapped
func (id ComparisonID) Flip() ComparisonID {
	switch id {
	case Less:
		return Greater
	case LessOrEqual:
		return GreaterOrEqual
	case Greater:
		return Less
	case GreaterOrEqual:
		return LessOrEqual
	default:
		return id
	}
}

func (id ComparisonID) SymbolString() string {
	switch id {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		panic("illegal comparisonID!")
	}
}

func (id ComparisonID) IsValid() bool {
	return id >= Equal && id <= GreaterOrEqual
}

/**
 * Comparison is a stateless catalog entry of a binary comparison.
 */
type Comparison struct {
	id ComparisonID
}

func GetComparison(id ComparisonID) Comparison {
	if !id.IsValid() {
		panic(fmt.Sprintf("illegal comparison id %d is passed!", id))
	}
	return Comparison{id}
}

func (c Comparison) GetComparisonID() ComparisonID {
	return c.id
}

func (c Comparison) GetName() string {
	switch c.id {
	case Equal:
		return "Equal"
	case NotEqual:
		return "NotEqual"
	case Less:
		return "Less"
	case LessOrEqual:
		return "LessOrEqual"
	case Greater:
		return "Greater"
	default:
		return "GreaterOrEqual"
	}
}

// IsBasicComparison is true for the six ordering comparisons which
// index and tuple store sub-blocks know how to evaluate
func (c Comparison) IsBasicComparison() bool {
	return c.id.IsValid()
}

func (c Comparison) CanCompareTypes(left types.Type, right types.Type) bool {
	l, r := left.GetTypeID(), right.GetTypeID()
	switch {
	case l == types.Null || r == types.Null:
		return true
	case l.IsNumeric() && r.IsNumeric():
		return true
	case l == types.Varchar && r == types.Varchar:
		return true
	case l == types.Boolean && r == types.Boolean:
		return c.id == Equal || c.id == NotEqual
	}
	return false
}

// CompareValuesChecked compares two values after checking that their types are comparable
func (c Comparison) CompareValuesChecked(left types.Value, left_type types.Type, right types.Value, right_type types.Type) (bool, error) {
	if !c.CanCompareTypes(left_type, right_type) {
		return false, types.NewOperationInapplicableToTypeError(c.GetName(), left_type, right_type)
	}
	return c.MakeUncheckedComparatorForTypes(left_type, right_type).CompareValues(left, right), nil
}

// MakeUncheckedComparatorForTypes builds comparator specialized to argument types.
// caller must check CanCompareTypes beforehand.
func (c Comparison) MakeUncheckedComparatorForTypes(left types.Type, right types.Type) UncheckedComparator {
	if !c.CanCompareTypes(left, right) {
		panic(fmt.Sprintf("illegal types %s and %s are passed to comparator of %s!", left.Name(), right.Name(), c.GetName()))
	}
	l, r := left.GetTypeID(), right.GetTypeID()
	switch {
	case l == types.Varchar || r == types.Varchar:
		return &typedComparator[string]{
			id:        c.id,
			fromValue: types.Value.ToVarchar,
		}
	case l == types.Boolean || r == types.Boolean:
		return &typedComparator[int64]{
			id:         c.id,
			fromValue:  boolToInt64,
			fromNative: func(cv *vector.NativeColumnVector, pos int) int64 { return boolToInt64(cv.GetValue(pos)) },
		}
	case (l.IsIntegral() || l == types.Null) && (r.IsIntegral() || r == types.Null):
		return &typedComparator[int64]{
			id:         c.id,
			fromValue:  types.Value.AsBigInt,
			fromNative: (*vector.NativeColumnVector).Int64At,
		}
	default:
		return &typedComparator[float64]{
			id:         c.id,
			fromValue:  types.Value.AsDouble,
			fromNative: (*vector.NativeColumnVector).Float64At,
		}
	}
}

func boolToInt64(v types.Value) int64 {
	if v.ToBoolean() {
		return 1
	}
	return 0
}
