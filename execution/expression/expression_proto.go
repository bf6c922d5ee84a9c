package expression

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/pkg/errors"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
	"google.golang.org/protobuf/encoding/protowire"
)

// field numbers of serialized messages.
// unknown fields are skipped on reconstruction.
const (
	// Type
	fieldTypeTypeID   protowire.Number = 1
	fieldTypeNullable protowire.Number = 2

	// Value
	fieldValueTypeID protowire.Number = 1
	fieldValueData   protowire.Number = 2

	// Predicate
	fieldPredicateType         protowire.Number = 1
	fieldPredicateComparison   protowire.Number = 2
	fieldPredicateLeft         protowire.Number = 3
	fieldPredicateRight        protowire.Number = 4
	fieldPredicateOperand      protowire.Number = 5
	fieldPredicateOperands     protowire.Number = 6
	fieldPredicateRelationID   protowire.Number = 7
	fieldPredicateBloomFilters protowire.Number = 8

	// bloom filter entry of BloomFilterPredicate
	fieldBloomFilterData    protowire.Number = 1
	fieldBloomFilterAttrIds protowire.Number = 2

	// Scalar
	fieldScalarDataSource  protowire.Number = 1
	fieldScalarLiteral     protowire.Number = 2
	fieldScalarType        protowire.Number = 3
	fieldScalarRelationID  protowire.Number = 4
	fieldScalarAttributeID protowire.Number = 5
	fieldScalarOperationID protowire.Number = 6
	fieldScalarOperand     protowire.Number = 7
	fieldScalarLeft        protowire.Number = 8
	fieldScalarRight       protowire.Number = 9
	fieldScalarWhen        protowire.Number = 10
	fieldScalarResult      protowire.Number = 11
	fieldScalarElse        protowire.Number = 12
	fieldScalarShareID     protowire.Number = 13
)

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// signed values are zigzag encoded
func appendSignedField(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, protowire.EncodeZigZag(v))
}

func serializeType(t types.Type) []byte {
	b := appendVarintField(nil, fieldTypeTypeID, uint64(t.GetTypeID()))
	return appendVarintField(b, fieldTypeNullable, protowire.EncodeBool(t.IsNullable()))
}

func serializeValue(v types.Value) []byte {
	b := appendVarintField(nil, fieldValueTypeID, uint64(v.ValueType()))
	return appendBytesField(b, fieldValueData, v.Serialize())
}

// SerializePredicate encodes predicate tree to bytes
func SerializePredicate(predicate Predicate) []byte {
	b := appendVarintField(nil, fieldPredicateType, uint64(predicate.GetPredicateType()))
	switch typed := predicate.(type) {
	case *TruePredicate, *FalsePredicate:
	case *ComparisonPredicate:
		b = appendVarintField(b, fieldPredicateComparison, uint64(typed.comparison.GetComparisonID()))
		b = appendBytesField(b, fieldPredicateLeft, SerializeScalar(typed.left))
		b = appendBytesField(b, fieldPredicateRight, SerializeScalar(typed.right))
	case *NegationPredicate:
		b = appendBytesField(b, fieldPredicateOperand, SerializePredicate(typed.operand))
	case *ConjunctionPredicate:
		for _, op := range typed.GetOperands() {
			b = appendBytesField(b, fieldPredicateOperands, SerializePredicate(op))
		}
	case *DisjunctionPredicate:
		for _, op := range typed.GetOperands() {
			b = appendBytesField(b, fieldPredicateOperands, SerializePredicate(op))
		}
	case *BloomFilterPredicate:
		b = appendSignedField(b, fieldPredicateRelationID, int64(typed.relationId))
		for ii, filter := range typed.filters {
			buf := new(bytes.Buffer)
			if _, err := filter.WriteTo(buf); err != nil {
				panic(err.Error())
			}
			entry := appendBytesField(nil, fieldBloomFilterData, buf.Bytes())
			packed := make([]byte, 0)
			for _, attr_id := range typed.attributeIdLists[ii] {
				packed = protowire.AppendVarint(packed, uint64(attr_id))
			}
			entry = appendBytesField(entry, fieldBloomFilterAttrIds, packed)
			b = appendBytesField(b, fieldPredicateBloomFilters, entry)
		}
	default:
		panic("illegal predicate is passed!")
	}
	return b
}

// SerializeScalar encodes scalar tree to bytes
func SerializeScalar(scalar Scalar) []byte {
	b := appendVarintField(nil, fieldScalarDataSource, uint64(scalar.GetDataSource()))
	switch typed := scalar.(type) {
	case *ScalarLiteral:
		b = appendBytesField(b, fieldScalarLiteral, serializeValue(typed.staticValue))
		b = appendBytesField(b, fieldScalarType, serializeType(typed.valueType))
	case *ScalarAttribute:
		b = appendSignedField(b, fieldScalarRelationID, int64(typed.attribute.GetRelationID()))
		b = appendSignedField(b, fieldScalarAttributeID, int64(typed.attribute.GetID()))
	case *ScalarUnaryExpression:
		b = appendVarintField(b, fieldScalarOperationID, uint64(typed.operation.GetUnaryOperationID()))
		b = appendBytesField(b, fieldScalarOperand, SerializeScalar(typed.operand))
	case *ScalarBinaryExpression:
		b = appendVarintField(b, fieldScalarOperationID, uint64(typed.operation.GetBinaryOperationID()))
		b = appendBytesField(b, fieldScalarLeft, SerializeScalar(typed.left))
		b = appendBytesField(b, fieldScalarRight, SerializeScalar(typed.right))
	case *ScalarCaseExpression:
		b = appendBytesField(b, fieldScalarType, serializeType(typed.resultType))
		for ii, when := range typed.whenPredicates {
			b = appendBytesField(b, fieldScalarWhen, SerializePredicate(when))
			b = appendBytesField(b, fieldScalarResult, SerializeScalar(typed.resultExpressions[ii]))
		}
		b = appendBytesField(b, fieldScalarElse, SerializeScalar(typed.elseResultExpression))
	case *ScalarSharedExpression:
		b = appendSignedField(b, fieldScalarShareID, int64(typed.shareId))
		b = appendBytesField(b, fieldScalarOperand, SerializeScalar(typed.operand))
	default:
		panic("illegal scalar is passed!")
	}
	return b
}

// protoMessage holds fields of a decoded message by field number
type protoMessage struct {
	varints map[protowire.Number][]uint64
	bytes   map[protowire.Number][][]byte
}

func parseMessage(data []byte) (*protoMessage, error) {
	msg := &protoMessage{make(map[protowire.Number][]uint64), make(map[protowire.Number][][]byte)}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(ErrMalformedExpression, protowire.ParseError(n).Error())
		}
		data = data[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrapf(ErrMalformedExpression, "field %d: %v", num, protowire.ParseError(n))
			}
			msg.varints[num] = append(msg.varints[num], v)
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrapf(ErrMalformedExpression, "field %d: %v", num, protowire.ParseError(n))
			}
			msg.bytes[num] = append(msg.bytes[num], v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrapf(ErrMalformedExpression, "field %d: %v", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return msg, nil
}

func (m *protoMessage) varint(num protowire.Number) (uint64, error) {
	vals := m.varints[num]
	if len(vals) == 0 {
		return 0, errors.Wrapf(ErrMalformedExpression, "required field %d is missing", num)
	}
	return vals[len(vals)-1], nil
}

func (m *protoMessage) signed(num protowire.Number) (int64, error) {
	v, err := m.varint(num)
	if err != nil {
		return 0, err
	}
	return protowire.DecodeZigZag(v), nil
}

func (m *protoMessage) message(num protowire.Number) ([]byte, error) {
	vals := m.bytes[num]
	if len(vals) == 0 {
		return nil, errors.Wrapf(ErrMalformedExpression, "required field %d is missing", num)
	}
	return vals[len(vals)-1], nil
}

func (m *protoMessage) repeated(num protowire.Number) [][]byte {
	return m.bytes[num]
}

func isSupportedTypeID(id types.TypeID) bool {
	switch id {
	case types.Boolean, types.Integer, types.BigInt, types.Float, types.Double, types.Varchar, types.Null:
		return true
	}
	return false
}

func reconstructType(data []byte) (types.Type, error) {
	msg, err := parseMessage(data)
	if err != nil {
		return types.Type{}, err
	}
	id, err := msg.varint(fieldTypeTypeID)
	if err != nil {
		return types.Type{}, err
	}
	if !isSupportedTypeID(types.TypeID(id)) {
		return types.Type{}, errors.Wrapf(ErrMalformedExpression, "unsupported type id %d", id)
	}
	nullable, err := msg.varint(fieldTypeNullable)
	if err != nil {
		return types.Type{}, err
	}
	return types.NewType(types.TypeID(id), protowire.DecodeBool(nullable)), nil
}

func reconstructValue(data []byte) (types.Value, error) {
	msg, err := parseMessage(data)
	if err != nil {
		return types.Value{}, err
	}
	id, err := msg.varint(fieldValueTypeID)
	if err != nil {
		return types.Value{}, err
	}
	if !isSupportedTypeID(types.TypeID(id)) {
		return types.Value{}, errors.Wrapf(ErrMalformedExpression, "unsupported value type id %d", id)
	}
	payload, err := msg.message(fieldValueData)
	if err != nil {
		return types.Value{}, err
	}
	val, err := types.NewValueFromBytes(payload, types.TypeID(id))
	if err != nil {
		return types.Value{}, errors.Wrap(ErrMalformedExpression, err.Error())
	}
	return *val, nil
}

// ReconstructPredicate decodes predicate serialized by SerializePredicate.
// attributes are resolved with cat. malformed input is reported as error
// which wraps ErrMalformedExpression.
func ReconstructPredicate(data []byte, cat *catalog.Catalog) (Predicate, error) {
	msg, err := parseMessage(data)
	if err != nil {
		return nil, err
	}
	predicate_type, err := msg.varint(fieldPredicateType)
	if err != nil {
		return nil, err
	}

	switch PredicateType(predicate_type) {
	case PREDICATE_TYPE_TRUE:
		return NewTruePredicate(), nil
	case PREDICATE_TYPE_FALSE:
		return NewFalsePredicate(), nil
	case PREDICATE_TYPE_COMPARISON:
		comparison_id, err := msg.varint(fieldPredicateComparison)
		if err != nil {
			return nil, err
		}
		if !operations.ComparisonID(comparison_id).IsValid() {
			return nil, errors.Wrapf(ErrMalformedExpression, "invalid comparison id %d", comparison_id)
		}
		left, err := reconstructScalarField(msg, fieldPredicateLeft, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "left operand of comparison")
		}
		right, err := reconstructScalarField(msg, fieldPredicateRight, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "right operand of comparison")
		}
		ret, err := NewComparisonPredicate(operations.GetComparison(operations.ComparisonID(comparison_id)), left, right)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedExpression, err.Error())
		}
		return ret, nil
	case PREDICATE_TYPE_NEGATION:
		operand_data, err := msg.message(fieldPredicateOperand)
		if err != nil {
			return nil, err
		}
		operand, err := ReconstructPredicate(operand_data, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "operand of negation")
		}
		return NegatePredicate(operand), nil
	case PREDICATE_TYPE_CONJUNCTION, PREDICATE_TYPE_DISJUNCTION:
		operands := make([]Predicate, 0)
		for _, operand_data := range msg.repeated(fieldPredicateOperands) {
			operand, err := ReconstructPredicate(operand_data, cat)
			if err != nil {
				return nil, errors.WithMessagef(err, "operand %d of %s", len(operands), PredicateType(predicate_type))
			}
			operands = append(operands, operand)
		}
		if PredicateType(predicate_type) == PREDICATE_TYPE_CONJUNCTION {
			ret := NewConjunctionPredicate()
			for _, operand := range operands {
				ret.AddPredicate(operand)
			}
			return ret, nil
		}
		ret := NewDisjunctionPredicate()
		for _, operand := range operands {
			ret.AddPredicate(operand)
		}
		return ret, nil
	case PREDICATE_TYPE_BLOOM_FILTER:
		return reconstructBloomFilterPredicate(msg, cat)
	default:
		return nil, errors.Wrapf(ErrMalformedExpression, "unknown predicate type %d", predicate_type)
	}
}

func reconstructBloomFilterPredicate(msg *protoMessage, cat *catalog.Catalog) (Predicate, error) {
	relation_id, err := msg.signed(fieldPredicateRelationID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errors.Wrap(ErrUnknownRelation, "catalog is not passed")
	}
	relation := cat.GetRelationById(catalog.RelationID(relation_id))
	if relation == nil {
		return nil, errors.Wrapf(ErrMalformedExpression, "bloom filter predicate on unknown relation id %d", relation_id)
	}
	builder := NewBloomFilterPredicateBuilder(relation.GetID())
	for _, entry_data := range msg.repeated(fieldPredicateBloomFilters) {
		entry, err := parseMessage(entry_data)
		if err != nil {
			return nil, err
		}
		filter_data, err := entry.message(fieldBloomFilterData)
		if err != nil {
			return nil, err
		}
		filter := &bloom.BloomFilter{}
		if _, err := filter.ReadFrom(bytes.NewReader(filter_data)); err != nil {
			return nil, errors.Wrap(ErrMalformedExpression, err.Error())
		}
		packed, err := entry.message(fieldBloomFilterAttrIds)
		if err != nil {
			return nil, err
		}
		attr_ids := make([]int, 0)
		for len(packed) > 0 {
			v, n := protowire.ConsumeVarint(packed)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformedExpression, protowire.ParseError(n).Error())
			}
			if v >= uint64(relation.Size()) {
				return nil, errors.Wrapf(ErrMalformedExpression, "attribute id %d of relation %s in bloom filter key", v, relation.GetName())
			}
			attr_ids = append(attr_ids, int(v))
			packed = packed[n:]
		}
		if err := builder.AddBloomFilter(filter, attr_ids); err != nil {
			return nil, errors.Wrap(ErrMalformedExpression, err.Error())
		}
	}
	return builder.Build(), nil
}

func reconstructScalarField(msg *protoMessage, num protowire.Number, cat *catalog.Catalog) (Scalar, error) {
	data, err := msg.message(num)
	if err != nil {
		return nil, err
	}
	return ReconstructScalar(data, cat)
}

// ReconstructScalar decodes scalar serialized by SerializeScalar
func ReconstructScalar(data []byte, cat *catalog.Catalog) (Scalar, error) {
	msg, err := parseMessage(data)
	if err != nil {
		return nil, err
	}
	data_source, err := msg.varint(fieldScalarDataSource)
	if err != nil {
		return nil, err
	}

	switch ScalarDataSource(data_source) {
	case SCALAR_LITERAL:
		value_data, err := msg.message(fieldScalarLiteral)
		if err != nil {
			return nil, err
		}
		value, err := reconstructValue(value_data)
		if err != nil {
			return nil, err
		}
		type_data, err := msg.message(fieldScalarType)
		if err != nil {
			return nil, err
		}
		value_type, err := reconstructType(type_data)
		if err != nil {
			return nil, err
		}
		if value.IsNull() && !value_type.IsNullable() {
			return nil, errors.Wrapf(ErrMalformedExpression, "NULL literal of non-nullable type %s", value_type)
		}
		if !value.IsNull() && value.ValueType() != value_type.GetTypeID() &&
			!value_type.IsSafelyCoercibleFrom(types.NewType(value.ValueType(), false)) {
			return nil, errors.Wrapf(ErrMalformedExpression, "literal of %s is not coercible to %s", value.ValueType(), value_type)
		}
		return NewScalarLiteral(value, value_type), nil
	case SCALAR_ATTRIBUTE:
		relation_id, err := msg.signed(fieldScalarRelationID)
		if err != nil {
			return nil, err
		}
		attr_id, err := msg.signed(fieldScalarAttributeID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, errors.Wrap(ErrUnknownRelation, "catalog is not passed")
		}
		relation := cat.GetRelationById(catalog.RelationID(relation_id))
		if relation == nil {
			return nil, errors.Wrapf(ErrUnknownRelation, "relation id %d", relation_id)
		}
		attribute := relation.GetAttributeById(int(attr_id))
		if attribute == nil {
			return nil, errors.Wrapf(ErrUnknownRelation, "attribute id %d of relation %s", attr_id, relation.GetName())
		}
		return NewScalarAttribute(attribute), nil
	case SCALAR_UNARY_EXPRESSION:
		op_id, err := msg.varint(fieldScalarOperationID)
		if err != nil {
			return nil, err
		}
		if !operations.UnaryOperationID(op_id).IsValid() {
			return nil, errors.Wrapf(ErrMalformedExpression, "invalid unary operation id %d", op_id)
		}
		operand, err := reconstructScalarField(msg, fieldScalarOperand, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "operand of unary expression")
		}
		ret, err := NewScalarUnaryExpression(operations.GetUnaryOperation(operations.UnaryOperationID(op_id)), operand)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedExpression, err.Error())
		}
		return ret, nil
	case SCALAR_BINARY_EXPRESSION:
		op_id, err := msg.varint(fieldScalarOperationID)
		if err != nil {
			return nil, err
		}
		if !operations.BinaryOperationID(op_id).IsValid() {
			return nil, errors.Wrapf(ErrMalformedExpression, "invalid binary operation id %d", op_id)
		}
		left, err := reconstructScalarField(msg, fieldScalarLeft, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "left operand of binary expression")
		}
		right, err := reconstructScalarField(msg, fieldScalarRight, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "right operand of binary expression")
		}
		ret, err := NewScalarBinaryExpression(operations.GetBinaryOperation(operations.BinaryOperationID(op_id)), left, right)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedExpression, err.Error())
		}
		return ret, nil
	case SCALAR_CASE_EXPRESSION:
		return reconstructCaseExpression(msg, cat)
	case SCALAR_SHARED_EXPRESSION:
		share_id, err := msg.signed(fieldScalarShareID)
		if err != nil {
			return nil, err
		}
		if share_id < 0 {
			return nil, errors.Wrapf(ErrMalformedExpression, "negative share id %d", share_id)
		}
		operand, err := reconstructScalarField(msg, fieldScalarOperand, cat)
		if err != nil {
			return nil, errors.WithMessage(err, "operand of shared expression")
		}
		return NewScalarSharedExpression(int(share_id), operand), nil
	default:
		return nil, errors.Wrapf(ErrMalformedExpression, "unknown scalar data source %d", data_source)
	}
}

func reconstructCaseExpression(msg *protoMessage, cat *catalog.Catalog) (Scalar, error) {
	type_data, err := msg.message(fieldScalarType)
	if err != nil {
		return nil, err
	}
	result_type, err := reconstructType(type_data)
	if err != nil {
		return nil, err
	}
	when_data := msg.repeated(fieldScalarWhen)
	result_data := msg.repeated(fieldScalarResult)
	if len(when_data) != len(result_data) {
		return nil, errors.Wrapf(ErrMalformedExpression, "%d WHEN predicates but %d results", len(when_data), len(result_data))
	}

	whens := make([]Predicate, 0, len(when_data))
	results := make([]Scalar, 0, len(result_data))
	for ii := range when_data {
		when, err := ReconstructPredicate(when_data[ii], cat)
		if err != nil {
			return nil, errors.WithMessagef(err, "WHEN %d of case expression", ii)
		}
		result, err := ReconstructScalar(result_data[ii], cat)
		if err != nil {
			return nil, errors.WithMessagef(err, "THEN %d of case expression", ii)
		}
		whens = append(whens, when)
		results = append(results, result)
	}
	else_result, err := reconstructScalarField(msg, fieldScalarElse, cat)
	if err != nil {
		return nil, errors.WithMessage(err, "ELSE of case expression")
	}
	ret, err := NewScalarCaseExpression(result_type, whens, results, else_result)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedExpression, err.Error())
	}
	return ret, nil
}

const maxFrameLength = 64 << 20

// WritePredicateTo writes serialized predicate framed with 4 byte length
func WritePredicateTo(w io.Writer, predicate Predicate) error {
	data := SerializePredicate(predicate)
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "write frame header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write frame body")
	}
	return nil
}

// ReadPredicateFrom reads a predicate written by WritePredicateTo.
// io.EOF is returned as is when no frame remains.
func ReadPredicateFrom(r io.Reader, cat *catalog.Catalog) (Predicate, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(ErrMalformedExpression, "truncated frame header")
	}
	length := binary.LittleEndian.Uint32(header[:])
	if length > maxFrameLength {
		return nil, errors.Wrapf(ErrMalformedExpression, "frame length %d exceeds limit", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(ErrMalformedExpression, "truncated frame body")
	}
	return ReconstructPredicate(data, cat)
}
