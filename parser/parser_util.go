package parser

import (
	"math"

	"github.com/pingcap/parser/opcode"
	tidbtypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

// ValueExprToValue converts a literal. integers which fit in 32 bit become Integer,
// decimals become Double. TRUE and FALSE arrive as integer 1 and 0.
func ValueExprToValue(expr *driver.ValueExpr) (types.Value, types.Type, error) {
	switch expr.Datum.Kind() {
	case tidbtypes.KindInt64:
		ival := expr.Datum.GetInt64()
		if ival >= math.MinInt32 && ival <= math.MaxInt32 {
			return types.NewInteger(int32(ival)), types.NewType(types.Integer, false), nil
		}
		return types.NewBigInt(ival), types.NewType(types.BigInt, false), nil
	case tidbtypes.KindUint64:
		uval := expr.Datum.GetUint64()
		if uval > math.MaxInt64 {
			return types.Value{}, types.Type{}, pkgerrors.Wrapf(ErrUnsupportedSyntax, "integer literal %d is too large", uval)
		}
		return types.NewBigInt(int64(uval)), types.NewType(types.BigInt, false), nil
	case tidbtypes.KindFloat32, tidbtypes.KindFloat64:
		return types.NewDouble(expr.Datum.GetFloat64()), types.NewType(types.Double, false), nil
	case tidbtypes.KindMysqlDecimal:
		fval, err := expr.Datum.GetMysqlDecimal().ToFloat64()
		if err != nil {
			return types.Value{}, types.Type{}, pkgerrors.Wrap(ErrUnsupportedSyntax, err.Error())
		}
		return types.NewDouble(fval), types.NewType(types.Double, false), nil
	case tidbtypes.KindString, tidbtypes.KindBytes:
		return types.NewVarchar(expr.Datum.GetString()), types.NewType(types.Varchar, false), nil
	default:
		return types.Value{}, types.Type{}, pkgerrors.Wrapf(ErrUnsupportedSyntax, "literal of kind %d", expr.Datum.Kind())
	}
}

func GetComparisonIDForOpcode(opcode_ opcode.Op) (operations.ComparisonID, bool) {
	switch opcode_ {
	case opcode.EQ:
		return operations.Equal, true
	case opcode.GT:
		return operations.Greater, true
	case opcode.GE:
		return operations.GreaterOrEqual, true
	case opcode.LT:
		return operations.Less, true
	case opcode.LE:
		return operations.LessOrEqual, true
	case opcode.NE:
		return operations.NotEqual, true
	default:
		return -1, false
	}
}

func GetBinaryOperationIDForOpcode(opcode_ opcode.Op) (operations.BinaryOperationID, bool) {
	switch opcode_ {
	case opcode.Plus:
		return operations.Add, true
	case opcode.Minus:
		return operations.Subtract, true
	case opcode.Mul:
		return operations.Multiply, true
	case opcode.Div:
		return operations.Divide, true
	case opcode.Mod:
		return operations.Modulo, true
	default:
		return -1, false
	}
}
