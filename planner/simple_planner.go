package planner

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/errors"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/parser"
	"github.com/ryogrid/SamehadaExpr/storage/block"
)

const ErrTooManyRelations = errors.Error("number of relations in FROM clause is not supported")
const ErrNoBlocks = errors.Error("relation has no blocks")

// SimplePlanner makes a plan of SELECT without any optimization.
// single relation query becomes Projection(Selection) and two relations
// query becomes NestedLoopJoin of full selections with WHERE as join predicate.
type SimplePlanner struct {
	catalog_ *catalog.Catalog
	blocks   map[catalog.RelationID][]*block.StorageBlock
}

func NewSimplePlanner(c *catalog.Catalog, blocks map[catalog.RelationID][]*block.StorageBlock) *SimplePlanner {
	return &SimplePlanner{c, blocks}
}

func (pner *SimplePlanner) MakePlan(qi *parser.QueryInfo) (plans.Plan, error) {
	switch len(qi.Relations_) {
	case 1:
		return pner.MakeSelectPlanWithoutJoin(qi)
	case 2:
		return pner.MakeSelectPlanWithJoin(qi)
	default:
		return nil, pkgerrors.Wrapf(ErrTooManyRelations, "%d relations", len(qi.Relations_))
	}
}

func (pner *SimplePlanner) MakeSelectPlanWithoutJoin(qi *parser.QueryInfo) (plans.Plan, error) {
	relation := qi.Relations_[0]
	selection, err := pner.makeSelection(relation, qi.WhereExpression_)
	if err != nil {
		return nil, err
	}
	return plans.NewProjectionPlanNode(selection, qi.SelectFieldsOrAll()), nil
}

func (pner *SimplePlanner) MakeSelectPlanWithJoin(qi *parser.QueryInfo) (plans.Plan, error) {
	left, right := qi.Relations_[0], qi.Relations_[1]
	if left.GetID() == right.GetID() {
		return nil, pkgerrors.Wrapf(parser.ErrUnsupportedSyntax, "self join of %s", left.GetName())
	}
	leftSelection, err := pner.makeSelection(left, nil)
	if err != nil {
		return nil, err
	}
	rightSelection, err := pner.makeSelection(right, nil)
	if err != nil {
		return nil, err
	}
	common.ShPrintf(common.DEBUG_INFO, "join of %s and %s is planned as nested loop\n", left.GetName(), right.GetName())
	return plans.NewNestedLoopJoinPlanNode(leftSelection, rightSelection, qi.WhereExpression_, qi.SelectFieldsOrAll()), nil
}

func (pner *SimplePlanner) makeSelection(relation *catalog.CatalogRelation, predicate expression.Predicate) (*plans.SelectionPlanNode, error) {
	if pner.catalog_.GetRelationById(relation.GetID()) == nil {
		return nil, pkgerrors.Wrap(parser.ErrUnknownTable, relation.GetName())
	}
	blocks, ok := pner.blocks[relation.GetID()]
	if !ok {
		return nil, pkgerrors.Wrap(ErrNoBlocks, relation.GetName())
	}
	return plans.NewSelectionPlanNode(relation, blocks, predicate), nil
}
