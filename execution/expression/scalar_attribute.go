package expression

import (
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

// ScalarAttribute refers an attribute of a relation
type ScalarAttribute struct {
	attribute *catalog.CatalogAttribute
}

func NewScalarAttribute(attribute *catalog.CatalogAttribute) *ScalarAttribute {
	if attribute == nil {
		panic("illegal nil attribute is passed!")
	}
	return &ScalarAttribute{attribute}
}

func (s *ScalarAttribute) GetDataSource() ScalarDataSource {
	return SCALAR_ATTRIBUTE
}

func (s *ScalarAttribute) GetAttribute() *catalog.CatalogAttribute {
	return s.attribute
}

func (s *ScalarAttribute) GetType() types.Type {
	return s.attribute.GetType()
}

func (s *ScalarAttribute) HasStaticValue() bool {
	return false
}

func (s *ScalarAttribute) GetStaticValue() types.Value {
	panic("ScalarAttribute does not have static value!")
}

func (s *ScalarAttribute) GetAttributeIdForValueAccessor() int {
	return s.attribute.GetID()
}

func (s *ScalarAttribute) GetRelationIdForValueAccessor() catalog.RelationID {
	return s.attribute.GetRelationID()
}

func (s *ScalarAttribute) GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value {
	return accessor.GetValueAt(s.attribute.GetID(), tuple_id)
}

func (s *ScalarAttribute) GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value {
	accessor, tuple_id := pickJoinSide(s.attribute.GetRelationID(),
		left_accessor, left_relation_id, left_tuple_id, right_accessor, right_relation_id, right_tuple_id)
	return accessor.GetValueAt(s.attribute.GetID(), tuple_id)
}

func (s *ScalarAttribute) GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector {
	return access.GetColumnVectorForAttribute(accessor, s.attribute.GetID())
}

func (s *ScalarAttribute) GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
	right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
	joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector {
	using_left := s.attribute.GetRelationID() == left_relation_id
	if !using_left && s.attribute.GetRelationID() != right_relation_id {
		panic("illegal relation id is passed!")
	}

	attr_id := s.attribute.GetID()
	ret := vector.NewColumnVector(s.GetType(), len(joined_tuple_ids))
	for _, ids := range joined_tuple_ids {
		if using_left {
			ret.AppendValue(left_accessor.GetValueAt(attr_id, ids.First))
		} else {
			ret.AppendValue(right_accessor.GetValueAt(attr_id, ids.Second))
		}
	}
	return ret
}

func (s *ScalarAttribute) Clone() Scalar {
	return NewScalarAttribute(s.attribute)
}
