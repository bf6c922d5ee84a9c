// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

// A value is an class that represents a view over SQL data stored in
// some materialized state. All values have a type and comparison functions,
// and implement other type-specific functionality.
type Value struct {
	valueType TypeID
	isNull    bool
	integer   int64 // Integer and BigInt
	boolean   bool
	varchar   string
	float     float64 // Float and Double
}

func NewInteger(value int32) Value {
	return Value{valueType: Integer, integer: int64(value)}
}

func NewBigInt(value int64) Value {
	return Value{valueType: BigInt, integer: value}
}

func NewFloat(value float32) Value {
	return Value{valueType: Float, float: float64(value)}
}

func NewDouble(value float64) Value {
	return Value{valueType: Double, float: value}
}

func NewBoolean(value bool) Value {
	return Value{valueType: Boolean, boolean: value}
}

func NewVarchar(value string) Value {
	return Value{valueType: Varchar, varchar: value}
}

// NewNull returns untyped NULL literal
func NewNull() Value {
	return Value{valueType: Null, isNull: true}
}

func NewNullOf(valueType TypeID) Value {
	return Value{valueType: valueType, isNull: true}
}

func NewValue(data interface{}) Value {
	switch v := data.(type) {
	case int:
		return NewInteger(int32(v))
	case int32:
		return NewInteger(v)
	case int64:
		return NewBigInt(v)
	case float32:
		return NewFloat(v)
	case float64:
		return NewDouble(v)
	case string:
		return NewVarchar(v)
	case bool:
		return NewBoolean(v)
	case nil:
		return NewNull()
	case Value:
		return v
	case *Value:
		return *v
	default:
		panic(fmt.Sprintf("%T is not supported value type", data))
	}
}

// NewValueFromBytes is used for deserialization
func NewValueFromBytes(data []byte, valueType TypeID) (ret *Value, err error) {
	buf := bytes.NewBuffer(data)
	isNull := new(bool)
	if err = binary.Read(buf, binary.LittleEndian, isNull); err != nil {
		return nil, err
	}
	var v Value
	switch valueType {
	case Integer:
		i := new(int32)
		err = binary.Read(buf, binary.LittleEndian, i)
		v = NewInteger(*i)
	case BigInt:
		i := new(int64)
		err = binary.Read(buf, binary.LittleEndian, i)
		v = NewBigInt(*i)
	case Float:
		f := new(float32)
		err = binary.Read(buf, binary.LittleEndian, f)
		v = NewFloat(*f)
	case Double:
		f := new(float64)
		err = binary.Read(buf, binary.LittleEndian, f)
		v = NewDouble(*f)
	case Boolean:
		b := new(bool)
		err = binary.Read(buf, binary.LittleEndian, b)
		v = NewBoolean(*b)
	case Varchar:
		length := new(uint32)
		if err = binary.Read(buf, binary.LittleEndian, length); err != nil {
			return nil, err
		}
		if uint64(buf.Len()) < uint64(*length) {
			return nil, fmt.Errorf("varchar payload is truncated: %d < %d", buf.Len(), *length)
		}
		v = NewVarchar(string(buf.Next(int(*length))))
	case Null:
		v = NewNull()
	default:
		return nil, fmt.Errorf("%v is illegal value type", valueType)
	}
	if err != nil {
		return nil, err
	}
	if *isNull {
		v.SetNull()
	}
	return &v, nil
}

func (v Value) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, v.isNull)
	switch v.valueType {
	case Integer:
		binary.Write(buf, binary.LittleEndian, int32(v.integer))
	case BigInt:
		binary.Write(buf, binary.LittleEndian, v.integer)
	case Float:
		binary.Write(buf, binary.LittleEndian, float32(v.float))
	case Double:
		binary.Write(buf, binary.LittleEndian, v.float)
	case Boolean:
		binary.Write(buf, binary.LittleEndian, v.boolean)
	case Varchar:
		binary.Write(buf, binary.LittleEndian, uint32(len(v.varchar)))
		buf.WriteString(v.varchar)
	}
	return buf.Bytes()
}

// Size returns the size in bytes of serialized form
func (v Value) Size() uint32 {
	if v.valueType == Varchar {
		return uint32(len(v.varchar)) + 1 + 4 // varchar occupies the size of the string + 4 bytes for length storage
	}
	return 1 + v.valueType.Size()
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToBoolean() bool {
	return v.boolean
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToInteger() int32 {
	return int32(v.integer)
}

func (v Value) ToBigInt() int64 {
	return v.integer
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToFloat() float32 {
	return float32(v.float)
}

func (v Value) ToDouble() float64 {
	return v.float
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToVarchar() string {
	return v.varchar
}

// AsDouble widens numeric value to float64
func (v Value) AsDouble() float64 {
	if v.valueType.IsIntegral() {
		return float64(v.integer)
	}
	return v.float
}

// AsBigInt narrows or widens numeric value to int64
func (v Value) AsBigInt() int64 {
	if v.valueType.IsIntegral() {
		return v.integer
	}
	return int64(v.float)
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

// note: a value filed correspoding to value type is initialized to default value
func (v *Value) SetNull() {
	v.isNull = true
	v.integer = 0
	v.float = 0
	v.boolean = false
	v.varchar = ""
}

func (v Value) IsNull() bool {
	return v.isNull
}

// compare returns -1, 0, 1. ok is false when values are not comparable.
// both values must be non NULL.
func (v Value) compare(right Value) (ret int, ok bool) {
	switch {
	case v.valueType.IsIntegral() && right.valueType.IsIntegral():
		return cmpOrdered(v.integer, right.integer), true
	case v.valueType.IsNumeric() && right.valueType.IsNumeric():
		return cmpOrdered(v.AsDouble(), right.AsDouble()), true
	case v.valueType == Varchar && right.valueType == Varchar:
		return cmpOrdered(v.varchar, right.varchar), true
	case v.valueType == Boolean && right.valueType == Boolean:
		lb, rb := 0, 0
		if v.boolean {
			lb = 1
		}
		if right.boolean {
			rb = 1
		}
		return cmpOrdered(lb, rb), true
	}
	return 0, false
}

func cmpOrdered[T int | int64 | float64 | string](l, r T) int {
	if l < r {
		return -1
	} else if l > r {
		return 1
	}
	return 0
}

// comparisons follow SQL semantics. any comparison with NULL is false.

func (v Value) CompareEquals(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c == 0
}

func (v Value) CompareNotEquals(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c != 0
}

func (v Value) CompareGreaterThan(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c > 0
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c >= 0
}

func (v Value) CompareLessThan(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c < 0
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	if v.IsNull() || right.IsNull() {
		return false
	}
	c, ok := v.compare(right)
	return ok && c <= 0
}

// Equals is identity of value including NULL and type. used by tests and caches.
func (v Value) Equals(right Value) bool {
	if v.isNull || right.isNull {
		return v.isNull == right.isNull
	}
	if v.valueType != right.valueType {
		return false
	}
	c, ok := v.compare(right)
	return ok && c == 0
}

func (v Value) Max(other *Value) *Value {
	if other.IsNull() {
		return &v
	}
	if v.IsNull() || v.CompareLessThan(*other) {
		ret := *other
		return &ret
	}
	return &v
}

func (v Value) Min(other *Value) *Value {
	if other.IsNull() {
		return &v
	}
	if v.IsNull() || v.CompareGreaterThan(*other) {
		ret := *other
		return &ret
	}
	return &v
}

func (v Value) ToString() string {
	if v.isNull {
		return "NULL"
	}
	switch v.valueType {
	case Integer, BigInt:
		return strconv.FormatInt(v.integer, 10)
	case Float:
		return strconv.FormatFloat(v.float, 'f', -1, 32)
	case Double:
		return strconv.FormatFloat(v.float, 'f', -1, 64)
	case Varchar:
		return v.varchar
	case Boolean:
		return strconv.FormatBool(v.boolean)
	}
	return "<" + v.valueType.Name() + ">"
}

func (v Value) String() string {
	return v.ToString()
}
