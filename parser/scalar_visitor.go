package parser

import (
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/mysql"
	"github.com/pingcap/parser/opcode"
	tidbtypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

// ScalarVisitor translates a value expression node to Scalar
type ScalarVisitor struct {
	resolver *nameResolver
	Scalar_  expression.Scalar
	err_     error
}

func (v *ScalarVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.ParenthesesExpr:
		v.Scalar_, v.err_ = buildScalar(node.Expr, v.resolver)
	case *ast.ColumnNameExpr:
		v.Scalar_, v.err_ = v.resolver.resolve(node.Name)
	case *driver.ValueExpr:
		if node.Datum.Kind() == tidbtypes.KindNull {
			v.err_ = pkgerrors.Wrap(ErrUnsupportedSyntax, "NULL literal without type")
			break
		}
		val, val_type, err := ValueExprToValue(node)
		if err != nil {
			v.err_ = err
			break
		}
		v.Scalar_ = expression.NewScalarLiteral(val, val_type)
	case *ast.BinaryOperationExpr:
		opID, ok := GetBinaryOperationIDForOpcode(node.Op)
		if !ok {
			v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "operator %s in value expression", node.Op.String())
			break
		}
		v.Scalar_, v.err_ = v.buildBinary(opID, node.L, node.R)
	case *ast.UnaryOperationExpr:
		switch node.Op {
		case opcode.Minus:
			v.Scalar_, v.err_ = v.buildUnary(operations.Negate, node.V)
		case opcode.Plus:
			v.Scalar_, v.err_ = buildScalar(node.V, v.resolver)
		default:
			v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "operator %s in value expression", node.Op.String())
		}
	case *ast.FuncCallExpr:
		v.Scalar_, v.err_ = v.buildFuncCall(node)
	case *ast.FuncCastExpr:
		switch node.Tp.Tp {
		case mysql.TypeLonglong:
			v.Scalar_, v.err_ = v.buildUnary(operations.CastToBigInt, node.Expr)
		case mysql.TypeDouble, mysql.TypeNewDecimal:
			v.Scalar_, v.err_ = v.buildUnary(operations.CastToDouble, node.Expr)
		default:
			v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "CAST to %s", node.Tp.String())
		}
	case *ast.CaseExpr:
		v.Scalar_, v.err_ = v.buildCase(node)
	default:
		v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "%T in value expression", in)
	}
	return in, true
}

func (v *ScalarVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *ScalarVisitor) buildUnary(opID operations.UnaryOperationID, operand ast.ExprNode) (expression.Scalar, error) {
	o, err := buildScalar(operand, v.resolver)
	if err != nil {
		return nil, err
	}
	ret, err := expression.NewScalarUnaryExpression(operations.GetUnaryOperation(opID), o)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (v *ScalarVisitor) buildBinary(opID operations.BinaryOperationID, left ast.ExprNode, right ast.ExprNode) (expression.Scalar, error) {
	l, err := buildScalar(left, v.resolver)
	if err != nil {
		return nil, err
	}
	r, err := buildScalar(right, v.resolver)
	if err != nil {
		return nil, err
	}
	return v.makeBinary(opID, l, r)
}

func (v *ScalarVisitor) makeBinary(opID operations.BinaryOperationID, l expression.Scalar, r expression.Scalar) (expression.Scalar, error) {
	ret, err := expression.NewScalarBinaryExpression(operations.GetBinaryOperation(opID), l, r)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// ABS(x), CONCAT(x, y, ...)
func (v *ScalarVisitor) buildFuncCall(node *ast.FuncCallExpr) (expression.Scalar, error) {
	switch node.FnName.L {
	case "abs":
		if len(node.Args) != 1 {
			return nil, pkgerrors.Wrap(ErrUnsupportedSyntax, "ABS takes one argument")
		}
		return v.buildUnary(operations.Abs, node.Args[0])
	case "concat":
		if len(node.Args) < 2 {
			return nil, pkgerrors.Wrap(ErrUnsupportedSyntax, "CONCAT takes two or more arguments")
		}
		ret, err := buildScalar(node.Args[0], v.resolver)
		if err != nil {
			return nil, err
		}
		for _, arg := range node.Args[1:] {
			r, err := buildScalar(arg, v.resolver)
			if err != nil {
				return nil, err
			}
			if ret, err = v.makeBinary(operations.Concat, ret, r); err != nil {
				return nil, err
			}
		}
		return ret, nil
	default:
		return nil, pkgerrors.Wrapf(ErrUnsupportedSyntax, "function %s", node.FnName.O)
	}
}

// searched CASE and simple CASE. simple CASE compares the value with each WHEN
// operand by equality. missing ELSE yields NULL.
func (v *ScalarVisitor) buildCase(node *ast.CaseExpr) (expression.Scalar, error) {
	var value expression.Scalar
	if node.Value != nil {
		var err error
		if value, err = buildScalar(node.Value, v.resolver); err != nil {
			return nil, err
		}
	}

	whens := make([]expression.Predicate, 0, len(node.WhenClauses))
	results := make([]expression.Scalar, 0, len(node.WhenClauses))
	for _, clause := range node.WhenClauses {
		var when expression.Predicate
		var err error
		if value == nil {
			when, err = buildPredicate(clause.Expr, v.resolver)
		} else {
			var operand expression.Scalar
			if operand, err = buildScalar(clause.Expr, v.resolver); err == nil {
				when, err = expression.NewComparisonPredicate(operations.GetComparison(operations.Equal), value.Clone(), operand)
			}
		}
		if err != nil {
			return nil, err
		}
		result, err := buildScalar(clause.Result, v.resolver)
		if err != nil {
			return nil, err
		}
		whens = append(whens, when)
		results = append(results, result)
	}

	var elseResult expression.Scalar
	if node.ElseClause != nil {
		var err error
		if elseResult, err = buildScalar(node.ElseClause, v.resolver); err != nil {
			return nil, err
		}
	}

	branches := results
	if elseResult != nil {
		branches = append(append([]expression.Scalar(nil), results...), elseResult)
	}
	resultType, ok := unifyResultTypes(branches)
	if !ok {
		return nil, pkgerrors.Wrap(expression.ErrInvalidCaseExpression, "results of branches have no common type")
	}
	if elseResult == nil {
		resultType = resultType.GetNullableVersion()
		elseResult = expression.NewScalarLiteral(resultType.MakeNullValue(), resultType)
	}

	ret, err := expression.NewScalarCaseExpression(resultType, whens, results, elseResult)
	if err != nil {
		return nil, err
	}
	return ret, nil
}
