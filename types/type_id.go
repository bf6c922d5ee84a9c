// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

type TypeID int

// Every possible SQL type GetPageId
const (
	Invalid TypeID = iota
	Boolean
	Tinyint
	Smallint
	Integer
	BigInt
	Decimal
	Float
	Double
	Varchar
	Timestamp
	Null
)

// Size returns byte width of native representation. 0 means variable length.
func (t TypeID) Size() uint32 {
	switch t {
	case Boolean:
		return 1
	case Integer, Float:
		return 4
	case BigInt, Double:
		return 8
	}
	return 0
}

func (t TypeID) IsFixedWidth() bool {
	return t.Size() != 0
}

func (t TypeID) IsNumeric() bool {
	switch t {
	case Integer, BigInt, Float, Double:
		return true
	}
	return false
}

func (t TypeID) IsIntegral() bool {
	return t == Integer || t == BigInt
}

func (t TypeID) Name() string {
	switch t {
	case Invalid:
		return "Invalid"
	case Boolean:
		return "Boolean"
	case Tinyint:
		return "Tinyint"
	case Smallint:
		return "Smallint"
	case Integer:
		return "Integer"
	case BigInt:
		return "BigInt"
	case Decimal:
		return "Decimal"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case Varchar:
		return "Varchar"
	case Timestamp:
		return "Timestamp"
	case Null:
		return "Null"
	default:
		return "Unknown"
	}
}

func (t TypeID) String() string {
	return t.Name()
}
