package expression

import (
	"github.com/ryogrid/SamehadaExpr/container/vector"
)

/**
 * ColumnVectorCache memoizes results of shared sub-expressions during one
 * evaluation call. it is owned by the caller and must not be shared by goroutines.
 */
type ColumnVectorCache struct {
	vectors map[int]vector.ColumnVector
}

func NewColumnVectorCache() *ColumnVectorCache {
	return &ColumnVectorCache{make(map[int]vector.ColumnVector)}
}

func (c *ColumnVectorCache) Contains(share_id int) bool {
	_, ok := c.vectors[share_id]
	return ok
}

func (c *ColumnVectorCache) Get(share_id int) vector.ColumnVector {
	return c.vectors[share_id]
}

func (c *ColumnVectorCache) Set(share_id int, cv vector.ColumnVector) {
	c.vectors[share_id] = cv
}

func (c *ColumnVectorCache) Size() int {
	return len(c.vectors)
}
