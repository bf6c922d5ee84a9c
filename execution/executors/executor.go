// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
)

type Done bool

/**
 * Batch is the output of an executor for one block (or one pair of blocks for joins).
 * Selection fills Block, Accessor and Matches. Projection adds Columns.
 * NestedLoopJoin fills JoinedTupleIDs and Columns.
 */
type Batch struct {
	Block    *block.StorageBlock
	Relation *catalog.CatalogRelation
	// accessor over all tuples of Block. tuple ids in Matches are positions of it
	Accessor       access.ValueAccessor
	Matches        *bitmap.TupleIdSequence
	JoinedTupleIDs []expression.JoinedTupleIDs
	Columns        []vector.ColumnVector
}

func (b *Batch) GetBlockID() block.BlockID {
	if b.Block == nil {
		return -1
	}
	return b.Block.GetID()
}

// NumRows returns number of tuples (or joined pairs) in the batch
func (b *Batch) NumRows() int {
	switch {
	case len(b.Columns) > 0:
		return b.Columns[0].Size()
	case b.Matches != nil:
		return b.Matches.NumTuples()
	default:
		return len(b.JoinedTupleIDs)
	}
}

// Executor executes a plan
//
// Init initializes this executor.
// This function must be called before Next() is called!
//
// Next produces the next batch from this executor.
// Done is true when no more batch exists.
type Executor interface {
	Init()
	Next() (*Batch, Done, error)
}
