package catalog

import (
	"strings"
)

// CatalogRelation is schema of a table
type CatalogRelation struct {
	id         RelationID
	name       string
	attributes []*CatalogAttribute
	attrNames  map[string]*CatalogAttribute
}

func NewCatalogRelation(id RelationID, name string, defs []AttributeDef) *CatalogRelation {
	ret := &CatalogRelation{id, strings.ToLower(name), make([]*CatalogAttribute, 0, len(defs)), make(map[string]*CatalogAttribute)}
	for i, def := range defs {
		attr := &CatalogAttribute{ret, i, strings.ToLower(def.Name), def.Type}
		ret.attributes = append(ret.attributes, attr)
		ret.attrNames[attr.name] = attr
	}
	return ret
}

func (r *CatalogRelation) GetID() RelationID {
	return r.id
}

func (r *CatalogRelation) GetName() string {
	return r.name
}

func (r *CatalogRelation) Size() int {
	return len(r.attributes)
}

func (r *CatalogRelation) GetAttributeById(attr_id int) *CatalogAttribute {
	if attr_id < 0 || attr_id >= len(r.attributes) {
		return nil
	}
	return r.attributes[attr_id]
}

// GetAttributeByName accepts both "column1" and "table1.column1"
func (r *CatalogRelation) GetAttributeByName(name string) *CatalogAttribute {
	name = strings.ToLower(name)
	if strings.Contains(name, ".") {
		splited := strings.SplitN(name, ".", 2)
		if splited[0] != r.name {
			return nil
		}
		name = splited[1]
	}
	if attr, ok := r.attrNames[name]; ok {
		return attr
	}
	return nil
}

func (r *CatalogRelation) GetAttributes() []*CatalogAttribute {
	return r.attributes
}
