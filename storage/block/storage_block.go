package block

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
)

type BlockID int32

/**
 * StorageBlock is a unit of storage and of parallel evaluation.
 * it consists of one tuple storage sub-block and any number of index sub-blocks.
 * an index which failed to follow a modification is marked inconsistent
 * and is not used until Rebuild.
 */
type StorageBlock struct {
	id                BlockID
	tupleStore        *BasicColumnStoreSubBlock
	indices           []IndexSubBlock
	indicesConsistent []bool
	latch             common.ReaderWriterLatch
}

func NewStorageBlock(id BlockID, relation *catalog.CatalogRelation, capacity int, sortAttrId int) *StorageBlock {
	return &StorageBlock{
		id:                id,
		tupleStore:        NewBasicColumnStoreSubBlock(relation, capacity, sortAttrId),
		indices:           make([]IndexSubBlock, 0),
		indicesConsistent: make([]bool, 0),
		latch:             common.NewRWLatch(),
	}
}

func (b *StorageBlock) GetID() BlockID {
	return b.id
}

func (b *StorageBlock) GetTupleStore() *BasicColumnStoreSubBlock {
	return b.tupleStore
}

func (b *StorageBlock) GetRelation() *catalog.CatalogRelation {
	return b.tupleStore.GetRelation()
}

// AddIndex attaches an index built over the tuple store of this block
func (b *StorageBlock) AddIndex(index IndexSubBlock) {
	b.latch.WLock()
	defer b.latch.WUnlock()
	b.indices = append(b.indices, index)
	b.indicesConsistent = append(b.indicesConsistent, index.Rebuild())
}

func (b *StorageBlock) GetIndices() []IndexSubBlock {
	return b.indices
}

func (b *StorageBlock) IsIndexConsistent(idx int) bool {
	b.latch.RLock()
	defer b.latch.RUnlock()
	return b.indicesConsistent[idx]
}

func (b *StorageBlock) InsertTuple(values []types.Value) (types.TupleID, error) {
	b.latch.WLock()
	defer b.latch.WUnlock()

	tid, err := b.tupleStore.InsertTuple(values)
	if err != nil {
		return tid, err
	}
	for i, index := range b.indices {
		if b.indicesConsistent[i] && !index.AddEntry(tid) {
			common.ShPrintf(common.DEBUG_INFO, "block %d: index %s became inconsistent on insertion\n", b.id, index.GetIndexKind())
			b.indicesConsistent[i] = false
		}
	}
	return tid, nil
}

func (b *StorageBlock) DeleteTuple(tid types.TupleID) bool {
	b.latch.WLock()
	defer b.latch.WUnlock()

	if !b.tupleStore.DeleteTuple(tid) {
		return false
	}
	for i, index := range b.indices {
		if b.indicesConsistent[i] && !index.RemoveEntry(tid) {
			common.ShPrintf(common.DEBUG_INFO, "block %d: index %s became inconsistent on deletion\n", b.id, index.GetIndexKind())
			b.indicesConsistent[i] = false
		}
	}
	return true
}

// Rebuild compacts and sorts the tuple store and then rebuilds all indices
func (b *StorageBlock) Rebuild() {
	b.latch.WLock()
	defer b.latch.WUnlock()

	b.tupleStore.Rebuild()
	for i, index := range b.indices {
		b.indicesConsistent[i] = index.Rebuild()
	}
}

// GetSubBlocksReference returns snapshot of sub-blocks for predicate evaluation.
// caller must hold read latch while using it.
func (b *StorageBlock) GetSubBlocksReference() *SubBlocksReference {
	consistent := make([]bool, len(b.indicesConsistent))
	copy(consistent, b.indicesConsistent)
	return NewSubBlocksReference(b.tupleStore, b.indices, consistent)
}

// GetExistenceMap returns nil when no tuple is deleted
func (b *StorageBlock) GetExistenceMap() *bitmap.TupleIdSequence {
	return b.tupleStore.GetExistenceMap()
}

// CreateValueAccessor returns accessor over existing tuples
func (b *StorageBlock) CreateValueAccessor() access.ValueAccessor {
	return b.tupleStore.CreateValueAccessor(b.tupleStore.GetExistenceMap())
}

func (b *StorageBlock) NumTuples() int {
	b.latch.RLock()
	defer b.latch.RUnlock()
	return b.tupleStore.NumTuples()
}

func (b *StorageBlock) IsFull() bool {
	b.latch.RLock()
	defer b.latch.RUnlock()
	return b.tupleStore.IsFull()
}

func (b *StorageBlock) RLock() {
	b.latch.RLock()
}

func (b *StorageBlock) RUnlock() {
	b.latch.RUnlock()
}
