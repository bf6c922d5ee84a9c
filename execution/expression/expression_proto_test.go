package expression

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/dsnet/golib/memfile"
	"github.com/google/go-cmp/cmp"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/container/hash"
	"github.com/ryogrid/SamehadaExpr/testing/testing_util"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func roundTripPredicates(t *testing.T, relation *catalog.CatalogRelation) map[string]Predicate {
	ret := testPredicates(t, relation)
	ret["TRUE"] = NewTruePredicate()
	ret["FALSE"] = NewFalsePredicate()

	bloom_builder := NewBloomFilterPredicateBuilder(relation.GetID())
	filter := bloom.NewWithEstimates(100, 0.001)
	filter.Add(hash.Fingerprint(types.NewInteger(2), types.NewVarchar("y")))
	require.NoError(t, bloom_builder.AddBloomFilter(filter, []int{0, 2}))
	ret["BLOOM"] = bloom_builder.Build()
	ret["BLOOM without filter"] = NewBloomFilterPredicateBuilder(relation.GetID()).Build()

	grade := makeGradeCase(t, attr(relation, "a"))
	ret["CASE = 'B'"] = compare(t, operations.Equal, grade, varcharLiteral("B"))

	shared := NewScalarSharedExpression(3, mustBinary(t, operations.Multiply, attr(relation, "a"), attr(relation, "d")))
	ret["shared > shared / 2"] = compare(t, operations.Greater, shared, mustBinary(t, operations.Divide, shared.Clone(), intLiteral(2)))

	cast, err := NewScalarUnaryExpression(operations.GetUnaryOperation(operations.CastToDouble), attr(relation, "b"))
	require.NoError(t, err)
	ret["CAST(b) >= 30.5 OR NULL literal"] = NewDisjunctionBuilder().
		Add(compare(t, operations.GreaterOrEqual, cast, NewScalarLiteral(types.NewDouble(30.5), types.NewType(types.Double, false)))).
		Add(compare(t, operations.Equal, attr(relation, "b"), NewScalarLiteral(types.NewNullOf(types.Integer), types.NewType(types.Integer, true)))).
		Build()
	ret["BigInt literal"] = compare(t, operations.Less, attr(relation, "a"),
		NewScalarLiteral(types.NewInteger(-4), types.NewType(types.BigInt, false)))
	return ret
}

func TestPredicateRoundTrip(t *testing.T) {
	cat, relation := makeTestRelation(t)
	accessor := makeTestAccessor(relation)

	for name, predicate := range roundTripPredicates(t, relation) {
		t.Run(name, func(t *testing.T) {
			data := SerializePredicate(predicate)
			reconstructed, err := ReconstructPredicate(data, cat)
			require.NoError(t, err)

			assert.Equal(t, predicate.GetPredicateType(), reconstructed.GetPredicateType())
			assert.Equal(t, predicate.HasStaticResult(), reconstructed.HasStaticResult())
			if diff := cmp.Diff(GetExpTreeStr(predicate), GetExpTreeStr(reconstructed)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(data, SerializePredicate(reconstructed)); diff != "" {
				t.Errorf("serialized form mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(
				testing_util.SequenceIds(predicate.GetAllMatches(accessor, nil, nil, nil)),
				testing_util.SequenceIds(reconstructed.GetAllMatches(accessor, nil, nil, nil))); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScalarRoundTrip(t *testing.T) {
	cat, relation := makeTestRelation(t)
	accessor := makeTestAccessor(relation)

	scalars := []Scalar{
		intLiteral(42),
		NewScalarLiteral(types.NewNullOf(types.Varchar), types.NewType(types.Varchar, true)),
		attr(relation, "d"),
		mustBinary(t, operations.Modulo, attr(relation, "a"), intLiteral(4)),
		makeGradeCase(t, attr(relation, "b")),
	}
	for _, scalar := range scalars {
		data := SerializeScalar(scalar)
		reconstructed, err := ReconstructScalar(data, cat)
		require.NoError(t, err)
		assert.Equal(t, scalar.GetDataSource(), reconstructed.GetDataSource())
		assert.True(t, scalar.GetType().Equals(reconstructed.GetType()))
		if diff := cmp.Diff(testing_util.VectorValues(scalar.GetAllValues(accessor, nil, nil)),
			testing_util.VectorValues(reconstructed.GetAllValues(accessor, nil, nil))); diff != "" {
			t.Errorf("%s: values mismatch (-want +got):\n%s", GetExpTreeStr(scalar), diff)
		}
	}
}

func TestLongVarcharLiteralRoundTrip(t *testing.T) {
	cat, relation := makeTestRelation(t)

	long := strings.Repeat("x", 70000)
	literal := NewScalarLiteral(types.NewVarchar(long), types.NewType(types.Varchar, false))
	reconstructed, err := ReconstructScalar(SerializeScalar(literal), cat)
	require.NoError(t, err)
	require.True(t, reconstructed.HasStaticValue())
	assert.Equal(t, len(long), len(reconstructed.GetStaticValue().ToVarchar()))
	assert.Equal(t, long, reconstructed.GetStaticValue().ToVarchar())

	predicate := compare(t, operations.Equal, attr(relation, "c"), varcharLiteral(long+"y"))
	read, err := ReconstructPredicate(SerializePredicate(predicate), cat)
	require.NoError(t, err)
	assert.Equal(t, GetExpTreeStr(predicate), GetExpTreeStr(read))
}

func TestPredicateFramesThroughFile(t *testing.T) {
	cat, relation := makeTestRelation(t)
	accessor := makeTestAccessor(relation)

	predicates := []Predicate{
		compare(t, operations.Greater, attr(relation, "a"), intLiteral(3)),
		NewTruePredicate(),
		NegatePredicate(compare(t, operations.Equal, attr(relation, "c"), varcharLiteral("x"))),
	}

	file := memfile.New(make([]byte, 0))
	for _, predicate := range predicates {
		require.NoError(t, WritePredicateTo(file, predicate))
	}
	_, err := file.Seek(0, io.SeekStart)
	require.NoError(t, err)

	for _, predicate := range predicates {
		read, err := ReadPredicateFrom(file, cat)
		require.NoError(t, err)
		assert.Equal(t,
			testing_util.SequenceIds(predicate.GetAllMatches(accessor, nil, nil, nil)),
			testing_util.SequenceIds(read.GetAllMatches(accessor, nil, nil, nil)))
	}
	_, err = ReadPredicateFrom(file, cat)
	assert.Equal(t, io.EOF, err)
}

func TestMalformedFrames(t *testing.T) {
	cat, relation := makeTestRelation(t)

	buf := new(bytes.Buffer)
	require.NoError(t, WritePredicateTo(buf, compare(t, operations.Greater, attr(relation, "a"), intLiteral(3))))
	frame := buf.Bytes()

	// truncated body
	_, err := ReadPredicateFrom(bytes.NewReader(frame[:len(frame)-2]), cat)
	assert.True(t, errors.Is(err, ErrMalformedExpression), "%v", err)

	// truncated header
	_, err = ReadPredicateFrom(bytes.NewReader(frame[:2]), cat)
	assert.True(t, errors.Is(err, ErrMalformedExpression), "%v", err)

	// too long frame
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 1<<30)
	_, err = ReadPredicateFrom(bytes.NewReader(header[:]), cat)
	assert.True(t, errors.Is(err, ErrMalformedExpression), "%v", err)
}

func varintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func bytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func TestMalformedPredicates(t *testing.T) {
	cat, relation := makeTestRelation(t)
	valid_left := SerializeScalar(attr(relation, "a"))
	valid_right := SerializeScalar(intLiteral(3))

	comparison := func(id uint64, left []byte, right []byte) []byte {
		b := varintField(nil, fieldPredicateType, uint64(PREDICATE_TYPE_COMPARISON))
		b = varintField(b, fieldPredicateComparison, id)
		if left != nil {
			b = bytesField(b, fieldPredicateLeft, left)
		}
		if right != nil {
			b = bytesField(b, fieldPredicateRight, right)
		}
		return b
	}
	unknown_attr := varintField(nil, fieldScalarDataSource, uint64(SCALAR_ATTRIBUTE))
	unknown_attr = varintField(unknown_attr, fieldScalarRelationID, protowire.EncodeZigZag(int64(relation.GetID())))
	unknown_attr = varintField(unknown_attr, fieldScalarAttributeID, protowire.EncodeZigZag(100))

	cases := map[string][]byte{
		"garbage":                 {0xff, 0xff, 0xff},
		"empty":                   {},
		"unknown predicate type":  varintField(nil, fieldPredicateType, 99),
		"invalid comparison":      comparison(42, valid_left, valid_right),
		"missing right operand":   comparison(uint64(operations.Less), valid_left, nil),
		"incomparable operands":   comparison(uint64(operations.Less), valid_left, SerializeScalar(varcharLiteral("x"))),
		"truncated operand":       comparison(uint64(operations.Less), valid_left[:len(valid_left)-1], valid_right),
		"negation without operand": varintField(nil, fieldPredicateType, uint64(PREDICATE_TYPE_NEGATION)),
	}
	for name, data := range cases {
		_, err := ReconstructPredicate(data, cat)
		assert.True(t, errors.Is(err, ErrMalformedExpression), "%s: %v", name, err)
	}

	_, err := ReconstructPredicate(comparison(uint64(operations.Less), unknown_attr, valid_right), cat)
	assert.True(t, errors.Is(err, ErrUnknownRelation), "%v", err)

	_, err = ReconstructPredicate(comparison(uint64(operations.Less), valid_left, valid_right), catalog.NewCatalog())
	assert.True(t, errors.Is(err, ErrUnknownRelation), "%v", err)
}

func TestMalformedBloomFilterPredicates(t *testing.T) {
	cat, relation := makeTestRelation(t)
	accessor := makeTestAccessor(relation)

	serialize := func(relation_id catalog.RelationID, attr_ids ...int) []byte {
		builder := NewBloomFilterPredicateBuilder(relation_id)
		require.NoError(t, builder.AddBloomFilter(makeBloomFilter(types.NewInteger(1)), attr_ids))
		return SerializePredicate(builder.Build())
	}

	predicate, err := ReconstructPredicate(serialize(relation.GetID(), 0), cat)
	require.NoError(t, err)
	assert.True(t, predicate.GetAllMatches(accessor, nil, nil, nil).Get(0), "inserted key must pass")

	cases := map[string][]byte{
		"attribute id out of range":       serialize(relation.GetID(), 99),
		"last key attribute out of range": serialize(relation.GetID(), 0, relation.Size()),
		"unknown relation":                serialize(relation.GetID()+42, 0),
	}
	for name, data := range cases {
		_, err := ReconstructPredicate(data, cat)
		assert.True(t, errors.Is(err, ErrMalformedExpression), "%s: %v", name, err)
	}

	_, err = ReconstructPredicate(serialize(relation.GetID(), 0), nil)
	assert.True(t, errors.Is(err, ErrUnknownRelation), "%v", err)
}

func TestMalformedScalars(t *testing.T) {
	cat, _ := makeTestRelation(t)

	null_int := varintField(nil, fieldValueTypeID, uint64(types.Integer))
	null_int = bytesField(null_int, fieldValueData, types.NewNullOf(types.Integer).Serialize())
	non_nullable := varintField(nil, fieldTypeTypeID, uint64(types.Integer))
	non_nullable = varintField(non_nullable, fieldTypeNullable, protowire.EncodeBool(false))
	null_literal := varintField(nil, fieldScalarDataSource, uint64(SCALAR_LITERAL))
	null_literal = bytesField(null_literal, fieldScalarLiteral, null_int)
	null_literal = bytesField(null_literal, fieldScalarType, non_nullable)

	case_without_else := varintField(nil, fieldScalarDataSource, uint64(SCALAR_CASE_EXPRESSION))
	case_without_else = bytesField(case_without_else, fieldScalarType, non_nullable)
	case_without_else = bytesField(case_without_else, fieldScalarWhen, SerializePredicate(NewTruePredicate()))
	case_without_else = bytesField(case_without_else, fieldScalarResult, SerializeScalar(intLiteral(1)))

	cases := map[string][]byte{
		"unknown data source":    varintField(nil, fieldScalarDataSource, 77),
		"NULL of non-nullable":   null_literal,
		"invalid unary op":       bytesField(varintField(varintField(nil, fieldScalarDataSource, uint64(SCALAR_UNARY_EXPRESSION)), fieldScalarOperationID, 50), fieldScalarOperand, SerializeScalar(intLiteral(1))),
		"CASE without ELSE":      case_without_else,
		"negative share id":      bytesField(varintField(varintField(nil, fieldScalarDataSource, uint64(SCALAR_SHARED_EXPRESSION)), fieldScalarShareID, protowire.EncodeZigZag(-1)), fieldScalarOperand, SerializeScalar(intLiteral(1))),
	}
	for name, data := range cases {
		_, err := ReconstructScalar(data, cat)
		assert.True(t, errors.Is(err, ErrMalformedExpression), "%s: %v", name, err)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	cat, relation := makeTestRelation(t)
	data := SerializePredicate(compare(t, operations.Greater, attr(relation, "a"), intLiteral(3)))
	data = protowire.AppendTag(data, 100, protowire.Fixed64Type)
	data = protowire.AppendFixed64(data, 12345)
	data = bytesField(data, 101, []byte("unknown"))

	predicate, err := ReconstructPredicate(data, cat)
	require.NoError(t, err)
	assert.Equal(t, PREDICATE_TYPE_COMPARISON, predicate.GetPredicateType())
}
