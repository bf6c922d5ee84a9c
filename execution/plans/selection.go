package plans

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/storage/block"
)

// do selection according to WHERE clause over blocks of a relation.
// nil predicate selects every existing tuple.

type SelectionPlanNode struct {
	*AbstractPlanNode
	relation  *catalog.CatalogRelation
	blocks    []*block.StorageBlock
	predicate expression.Predicate
}

func NewSelectionPlanNode(relation *catalog.CatalogRelation, blocks []*block.StorageBlock, predicate expression.Predicate) *SelectionPlanNode {
	return &SelectionPlanNode{&AbstractPlanNode{nil}, relation, blocks, predicate}
}

func (p *SelectionPlanNode) GetType() PlanType {
	return Selection
}

func (p *SelectionPlanNode) GetRelation() *catalog.CatalogRelation {
	return p.relation
}

func (p *SelectionPlanNode) GetBlocks() []*block.StorageBlock {
	return p.blocks
}

func (p *SelectionPlanNode) GetPredicate() expression.Predicate {
	return p.predicate
}

// WithBlocks returns a node which selects from blocks with the same predicate.
// the predicate tree is shared.
func (p *SelectionPlanNode) WithBlocks(blocks []*block.StorageBlock) *SelectionPlanNode {
	return NewSelectionPlanNode(p.relation, blocks, p.predicate)
}

func (p *SelectionPlanNode) GetDebugStr() string {
	pred := "TRUE"
	if p.predicate != nil {
		pred = expression.GetExpTreeStr(p.predicate)
	}
	return fmt.Sprintf("SelectionPlanNode [ relation: %s, blocks: %d, predicate: %s]", p.relation.GetName(), len(p.blocks), pred)
}
