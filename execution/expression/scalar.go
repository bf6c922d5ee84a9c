package expression

import (
	pair "github.com/notEpsilon/go-pair"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/types"
)

type ScalarDataSource int32

const (
	SCALAR_LITERAL ScalarDataSource = iota
	SCALAR_ATTRIBUTE
	SCALAR_UNARY_EXPRESSION
	SCALAR_BINARY_EXPRESSION
	SCALAR_CASE_EXPRESSION
	SCALAR_SHARED_EXPRESSION
)

func (s ScalarDataSource) String() string {
	switch s {
	case SCALAR_LITERAL:
		return "Literal"
	case SCALAR_ATTRIBUTE:
		return "Attribute"
	case SCALAR_UNARY_EXPRESSION:
		return "UnaryExpression"
	case SCALAR_BINARY_EXPRESSION:
		return "BinaryExpression"
	case SCALAR_CASE_EXPRESSION:
		return "CaseExpression"
	case SCALAR_SHARED_EXPRESSION:
		return "SharedExpression"
	default:
		return "Unknown"
	}
}

// JoinedTupleIDs is a (left tuple id, right tuple id) pair of joined tuples
type JoinedTupleIDs = pair.Pair[types.TupleID, types.TupleID]

/**
 * Scalar is an expression which produces a value of fixed type per tuple.
 * the type is decided at construction.
 */
type Scalar interface {
	GetDataSource() ScalarDataSource
	GetType() types.Type

	HasStaticValue() bool
	// GetStaticValue must be called only when HasStaticValue is true
	GetStaticValue() types.Value

	// InvalidAttributeID unless the scalar is a plain attribute reference
	GetAttributeIdForValueAccessor() int
	// InvalidRelationID unless the scalar is a plain attribute reference
	GetRelationIdForValueAccessor() catalog.RelationID

	GetValueForSingleTuple(accessor access.ValueAccessor, tuple_id types.TupleID) types.Value
	GetValueForJoinedTuples(left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
		right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) types.Value

	// GetAllValues returns values of tuples iterated by accessor in iteration order.
	// sub_blocks_ref and cv_cache can be nil.
	GetAllValues(accessor access.ValueAccessor, sub_blocks_ref *block.SubBlocksReference, cv_cache *ColumnVectorCache) vector.ColumnVector
	// GetAllValuesForJoin returns values for each pair of joined_tuple_ids in order
	GetAllValuesForJoin(left_relation_id catalog.RelationID, left_accessor access.ValueAccessor,
		right_relation_id catalog.RelationID, right_accessor access.ValueAccessor,
		joined_tuple_ids []JoinedTupleIDs, cv_cache *ColumnVectorCache) vector.ColumnVector

	Clone() Scalar
}

// staticValueHolder implements static value part of Scalar
type staticValueHolder struct {
	hasStatic   bool
	staticValue types.Value
}

func (h *staticValueHolder) HasStaticValue() bool {
	return h.hasStatic
}

func (h *staticValueHolder) GetStaticValue() types.Value {
	if !h.hasStatic {
		common.FatalError("GetStaticValue is called on scalar without static value!")
	}
	return h.staticValue
}

func (h *staticValueHolder) GetAttributeIdForValueAccessor() int {
	return common.InvalidAttributeID
}

func (h *staticValueHolder) GetRelationIdForValueAccessor() catalog.RelationID {
	return catalog.InvalidRelationID
}

// pickJoinSide returns accessor and tuple id of the side which relation_id belongs to
func pickJoinSide(relation_id catalog.RelationID,
	left_accessor access.ValueAccessor, left_relation_id catalog.RelationID, left_tuple_id types.TupleID,
	right_accessor access.ValueAccessor, right_relation_id catalog.RelationID, right_tuple_id types.TupleID) (access.ValueAccessor, types.TupleID) {
	if relation_id == left_relation_id {
		return left_accessor, left_tuple_id
	}
	if relation_id == right_relation_id {
		return right_accessor, right_tuple_id
	}
	panic("illegal relation id is passed!")
}
