package catalog

import (
	"strings"

	"github.com/ryogrid/SamehadaExpr/types"
)

type RelationID int32

const InvalidRelationID = RelationID(-1)

// CatalogAttribute is a column of a relation.
// id is position of the attribute in its relation and is used as attribute id
// of ValueAccessor.
type CatalogAttribute struct {
	parent   *CatalogRelation
	id       int
	name     string
	attrType types.Type
}

func (a *CatalogAttribute) GetParent() *CatalogRelation {
	return a.parent
}

func (a *CatalogAttribute) GetID() int {
	return a.id
}

// note: name is stored in lowercase
func (a *CatalogAttribute) GetName() string {
	return a.name
}

// GetQualifiedName returns name prefixed with relation name like "table1.column1"
func (a *CatalogAttribute) GetQualifiedName() string {
	return a.parent.name + "." + a.name
}

func (a *CatalogAttribute) GetType() types.Type {
	return a.attrType
}

func (a *CatalogAttribute) GetRelationID() RelationID {
	return a.parent.id
}

// AttributeDef is used on creation of relation
type AttributeDef struct {
	Name string
	Type types.Type
}

func NewAttributeDef(name string, typeID types.TypeID, nullable bool) AttributeDef {
	return AttributeDef{strings.ToLower(name), types.NewType(typeID, nullable)}
}
