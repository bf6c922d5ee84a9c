// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog

import (
	"strings"

	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/errors"
)

const ErrRelationExists = errors.Error("relation already exists")

// Catalog is a non-persistent catalog that is designed for the executor to use.
// It handles relation creation and relation lookup
type Catalog struct {
	latch          common.ReaderWriterLatch
	relationIds    map[RelationID]*CatalogRelation
	relationNames  map[string]*CatalogRelation
	nextRelationId RelationID
}

func NewCatalog() *Catalog {
	return &Catalog{latch: common.NewRWLatch(), relationIds: make(map[RelationID]*CatalogRelation), relationNames: make(map[string]*CatalogRelation)}
}

// CreateRelation creates a new relation and return it
func (c *Catalog) CreateRelation(name string, defs []AttributeDef) (*CatalogRelation, error) {
	c.latch.WLock()
	defer c.latch.WUnlock()

	name = strings.ToLower(name)
	if _, ok := c.relationNames[name]; ok {
		return nil, ErrRelationExists
	}

	id := c.nextRelationId
	c.nextRelationId++
	relation := NewCatalogRelation(id, name, defs)
	c.relationIds[id] = relation
	c.relationNames[name] = relation
	return relation, nil
}

func (c *Catalog) GetRelationByName(name string) *CatalogRelation {
	c.latch.RLock()
	defer c.latch.RUnlock()
	if relation, ok := c.relationNames[strings.ToLower(name)]; ok {
		return relation
	}
	return nil
}

func (c *Catalog) GetRelationById(id RelationID) *CatalogRelation {
	c.latch.RLock()
	defer c.latch.RUnlock()
	if relation, ok := c.relationIds[id]; ok {
		return relation
	}
	return nil
}
