package parser

import (
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/opcode"
	tidbtypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
)

// PredicateVisitor translates a boolean expression node to Predicate
type PredicateVisitor struct {
	resolver   *nameResolver
	Predicate_ expression.Predicate
	err_       error
}

func (v *PredicateVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.ParenthesesExpr:
		v.Predicate_, v.err_ = buildPredicate(node.Expr, v.resolver)
	case *ast.BinaryOperationExpr:
		switch node.Op {
		case opcode.LogicAnd:
			v.Predicate_, v.err_ = v.buildConjunction(node.L, node.R)
		case opcode.LogicOr:
			v.Predicate_, v.err_ = v.buildDisjunction(node.L, node.R)
		default:
			compID, ok := GetComparisonIDForOpcode(node.Op)
			if !ok {
				v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "operator %s in predicate", node.Op.String())
				break
			}
			v.Predicate_, v.err_ = v.buildComparison(compID, node.L, node.R)
		}
	case *ast.UnaryOperationExpr:
		if node.Op != opcode.Not {
			v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "operator %s in predicate", node.Op.String())
			break
		}
		operand, err := buildPredicate(node.V, v.resolver)
		if err != nil {
			v.err_ = err
			break
		}
		v.Predicate_ = expression.NegatePredicate(operand)
	case *ast.BetweenExpr:
		// expr BETWEEN left AND right is (expr >= left AND expr <= right)
		low, err := v.buildComparison(operations.GreaterOrEqual, node.Expr, node.Left)
		if err != nil {
			v.err_ = err
			break
		}
		high, err := v.buildComparison(operations.LessOrEqual, node.Expr, node.Right)
		if err != nil {
			v.err_ = err
			break
		}
		v.Predicate_ = v.negateIf(expression.NewConjunctionBuilder().Add(low).Add(high).Build(), node.Not)
	case *ast.PatternInExpr:
		if node.Sel != nil {
			v.err_ = pkgerrors.Wrap(ErrUnsupportedSyntax, "IN with subquery")
			break
		}
		builder := expression.NewDisjunctionBuilder()
		for _, item := range node.List {
			eq, err := v.buildComparison(operations.Equal, node.Expr, item)
			if err != nil {
				v.err_ = err
				return in, true
			}
			builder.Add(eq)
		}
		v.Predicate_ = v.negateIf(builder.Build(), node.Not)
	case *driver.ValueExpr:
		// non zero number is TRUE. NULL never matches
		if node.Datum.Kind() == tidbtypes.KindNull {
			v.Predicate_ = expression.NewFalsePredicate()
			break
		}
		val, _, err := ValueExprToValue(node)
		if err != nil {
			v.err_ = err
			break
		}
		if val.ValueType() == types.Varchar {
			v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "literal %s in predicate", val.ToString())
			break
		}
		if val.AsDouble() != 0 {
			v.Predicate_ = expression.NewTruePredicate()
		} else {
			v.Predicate_ = expression.NewFalsePredicate()
		}
	case *ast.IsNullExpr:
		v.err_ = pkgerrors.Wrap(ErrUnsupportedSyntax, "IS NULL")
	default:
		v.err_ = pkgerrors.Wrapf(ErrUnsupportedSyntax, "%T in predicate", in)
	}
	return in, true
}

func (v *PredicateVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *PredicateVisitor) negateIf(predicate expression.Predicate, not bool) expression.Predicate {
	if not {
		return expression.NegatePredicate(predicate)
	}
	return predicate
}

func (v *PredicateVisitor) buildComparison(compID operations.ComparisonID, left ast.ExprNode, right ast.ExprNode) (expression.Predicate, error) {
	l, err := buildScalar(left, v.resolver)
	if err != nil {
		return nil, err
	}
	r, err := buildScalar(right, v.resolver)
	if err != nil {
		return nil, err
	}
	ret, err := expression.NewComparisonPredicate(operations.GetComparison(compID), l, r)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (v *PredicateVisitor) buildConjunction(left ast.ExprNode, right ast.ExprNode) (expression.Predicate, error) {
	l, err := buildPredicate(left, v.resolver)
	if err != nil {
		return nil, err
	}
	r, err := buildPredicate(right, v.resolver)
	if err != nil {
		return nil, err
	}
	return expression.NewConjunctionBuilder().Add(l).Add(r).Build(), nil
}

func (v *PredicateVisitor) buildDisjunction(left ast.ExprNode, right ast.ExprNode) (expression.Predicate, error) {
	l, err := buildPredicate(left, v.resolver)
	if err != nil {
		return nil, err
	}
	r, err := buildPredicate(right, v.resolver)
	if err != nil {
		return nil, err
	}
	return expression.NewDisjunctionBuilder().Add(l).Add(r).Build(), nil
}
