package types

import (
	"errors"
	"strings"
	"testing"

	testingpkg "github.com/ryogrid/SamehadaExpr/testing/testing_assert"
	"github.com/stretchr/testify/assert"
)

func TestValueSerialization(t *testing.T) {
	for _, v := range []Value{
		NewInteger(-42),
		NewBigInt(1 << 40),
		NewFloat(1.5),
		NewDouble(-0.25),
		NewBoolean(true),
		NewVarchar("daylight"),
		NewNullOf(Integer),
		NewNullOf(Varchar),
	} {
		data := v.Serialize()
		testingpkg.Equals(t, int(v.Size()), len(data))
		restored, err := NewValueFromBytes(data, v.ValueType())
		testingpkg.Ok(t, err)
		testingpkg.Assert(t, v.Equals(*restored), "%s is restored as %s", v.ToString(), restored.ToString())
	}

	_, err := NewValueFromBytes([]byte{0, 10, 0, 0, 0, 'a'}, Varchar)
	assert.Error(t, err)
	_, err = NewValueFromBytes([]byte{0, 10, 0}, Varchar)
	assert.Error(t, err)
}

func TestLongVarcharSerialization(t *testing.T) {
	long := NewVarchar(strings.Repeat("ab", 40000))
	data := long.Serialize()
	testingpkg.Equals(t, int(long.Size()), len(data))
	restored, err := NewValueFromBytes(data, Varchar)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 80000, len(restored.ToVarchar()))
	testingpkg.Assert(t, long.Equals(*restored), "long varchar must be restored as it was")
}

func TestValueComparisonWithNull(t *testing.T) {
	one := NewInteger(1)
	null := NewNullOf(Integer)

	testingpkg.AssertFalse(t, one.CompareEquals(null), "comparison with NULL must be false")
	testingpkg.AssertFalse(t, one.CompareNotEquals(null), "comparison with NULL must be false")
	testingpkg.AssertFalse(t, null.CompareLessThanOrEqual(null), "comparison with NULL must be false")
	testingpkg.SimpleAssert(t, null.Equals(NewNullOf(Integer)))
}

func TestValueComparisonAcrossNumericTypes(t *testing.T) {
	testingpkg.SimpleAssert(t, NewInteger(3).CompareEquals(NewBigInt(3)))
	testingpkg.SimpleAssert(t, NewInteger(3).CompareLessThan(NewDouble(3.5)))
	testingpkg.SimpleAssert(t, NewDouble(2.0).CompareGreaterThanOrEqual(NewBigInt(2)))
	testingpkg.SimpleAssert(t, NewVarchar("abc").CompareLessThan(NewVarchar("abd")))
	// incomparable values never match
	testingpkg.AssertFalse(t, NewVarchar("1").CompareEquals(NewInteger(1)), "Varchar and Integer are incomparable")
	testingpkg.AssertFalse(t, NewVarchar("1").CompareNotEquals(NewInteger(1)), "Varchar and Integer are incomparable")

	// Equals is identity and distinguishes types
	testingpkg.AssertFalse(t, NewInteger(3).Equals(NewBigInt(3)), "Equals must distinguish types")
}

func TestTypeCoercibility(t *testing.T) {
	integer := NewType(Integer, false)
	bigint := NewType(BigInt, false)
	double := NewType(Double, true)

	testingpkg.SimpleAssert(t, bigint.IsSafelyCoercibleFrom(integer))
	testingpkg.SimpleAssert(t, double.IsSafelyCoercibleFrom(bigint))
	testingpkg.AssertFalse(t, integer.IsSafelyCoercibleFrom(bigint), "BigInt does not fit in Integer")
	testingpkg.AssertFalse(t, bigint.IsSafelyCoercibleFrom(double), "nullable must not be coerced to non nullable")
	testingpkg.SimpleAssert(t, double.IsSafelyCoercibleFrom(NewType(Null, true)))
	testingpkg.AssertFalse(t, NewType(Varchar, false).IsSafelyCoercibleFrom(integer), "Integer is not a Varchar")

	testingpkg.Equals(t, "Double NULL", double.Name())
	testingpkg.SimpleAssert(t, double.GetNonNullableVersion().Equals(NewType(Double, false)))

	coerced := bigint.CoerceValue(NewInteger(7))
	testingpkg.Equals(t, BigInt, coerced.ValueType())
	testingpkg.Equals(t, int64(7), coerced.ToBigInt())
	testingpkg.SimpleAssert(t, double.CoerceValue(NewNullOf(Integer)).IsNull())
}

func TestOperationInapplicableToTypeError(t *testing.T) {
	var err error = NewOperationInapplicableToTypeError("Add", NewType(Varchar, false), NewType(Integer, true))
	testingpkg.Equals(t, "operation Add is inapplicable to argument types (Varchar, Integer NULL)", err.Error())
	testingpkg.SimpleAssert(t, errors.Is(err, ErrOperationInapplicable))
}
