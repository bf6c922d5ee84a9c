package expression

import (
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang-collections/collections/stack"
	"github.com/ryogrid/SamehadaExpr/catalog"
)

// getChildren returns child nodes of a predicate or scalar in evaluation order
func getChildren(node interface{}) []interface{} {
	ret := make([]interface{}, 0)
	switch typedNode := node.(type) {
	case *ComparisonPredicate:
		ret = append(ret, typedNode.left, typedNode.right)
	case *NegationPredicate:
		ret = append(ret, typedNode.operand)
	case *ConjunctionPredicate:
		for _, op := range typedNode.GetOperands() {
			ret = append(ret, op)
		}
	case *DisjunctionPredicate:
		for _, op := range typedNode.GetOperands() {
			ret = append(ret, op)
		}
	case *ScalarUnaryExpression:
		ret = append(ret, typedNode.operand)
	case *ScalarBinaryExpression:
		ret = append(ret, typedNode.left, typedNode.right)
	case *ScalarCaseExpression:
		for ii, when := range typedNode.whenPredicates {
			ret = append(ret, when, typedNode.resultExpressions[ii])
		}
		ret = append(ret, typedNode.elseResultExpression)
	case *ScalarSharedExpression:
		ret = append(ret, typedNode.operand)
	}
	return ret
}

// GetExpTreeStr returns reverse polish notation of the tree for debugging
func GetExpTreeStr(node interface{}) string {
	retStr := ""

	childTraverse := func(exp interface{}) string {
		var tmpStr = ""
		for _, child := range getChildren(exp) {
			tmpStr += GetExpTreeStr(child)
		}
		return tmpStr
	}

	switch typedNode := node.(type) {
	case *TruePredicate:
		return "TRUE "
	case *FalsePredicate:
		return "FALSE "
	case *ComparisonPredicate:
		retStr += childTraverse(typedNode)
		return retStr + typedNode.comparison.GetComparisonID().SymbolString() + " "
	case *NegationPredicate:
		retStr += childTraverse(typedNode)
		return retStr + "NOT "
	case *ConjunctionPredicate:
		retStr += childTraverse(typedNode)
		return retStr + "AND" + strconv.Itoa(typedNode.GetOperandCount()) + " "
	case *DisjunctionPredicate:
		retStr += childTraverse(typedNode)
		return retStr + "OR" + strconv.Itoa(typedNode.GetOperandCount()) + " "
	case *BloomFilterPredicate:
		return "BLOOM" + strconv.Itoa(typedNode.GetNumFilters()) + " "
	case *ScalarLiteral:
		return typedNode.staticValue.ToString() + " "
	case *ScalarAttribute:
		return typedNode.attribute.GetQualifiedName() + " "
	case *ScalarUnaryExpression:
		retStr += childTraverse(typedNode)
		return retStr + typedNode.operation.GetName() + " "
	case *ScalarBinaryExpression:
		retStr += childTraverse(typedNode)
		return retStr + typedNode.operation.ShortName() + " "
	case *ScalarCaseExpression:
		retStr += childTraverse(typedNode)
		return retStr + "CASE" + strconv.Itoa(len(typedNode.whenPredicates)) + " "
	case *ScalarSharedExpression:
		retStr += childTraverse(typedNode)
		return retStr + "SHARED" + strconv.Itoa(typedNode.shareId) + " "
	default:
		panic("illegal type expression object is passed!")
	}
}

// GetReferencedAttributes collects attributes which the tree refers
func GetReferencedAttributes(node interface{}) mapset.Set[*catalog.CatalogAttribute] {
	ret := mapset.NewSet[*catalog.CatalogAttribute]()
	nodes := stack.New()
	nodes.Push(node)
	for nodes.Len() > 0 {
		here := nodes.Pop()
		if attr, ok := here.(*ScalarAttribute); ok {
			ret.Add(attr.attribute)
			continue
		}
		for _, child := range getChildren(here) {
			nodes.Push(child)
		}
	}
	return ret
}

// ReferencesOnlyRelation is true when every attribute the tree refers belongs to relation_id
func ReferencesOnlyRelation(node interface{}, relation_id catalog.RelationID) bool {
	for _, attr := range GetReferencedAttributes(node).ToSlice() {
		if attr.GetRelationID() != relation_id {
			return false
		}
	}
	return true
}
