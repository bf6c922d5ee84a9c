package hash

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/spaolacci/murmur3"
)

const (
	keyTagNull    byte = 'n'
	keyTagInteger byte = 'i'
	keyTagFloat   byte = 'f'
	keyTagVarchar byte = 's'
	keyTagBoolean byte = 'b'
)

// KeyBytes encodes values into bytes which are equal iff values compare equal.
// numeric values of different types which hold the same number share encoding.
func KeyBytes(values ...types.Value) []byte {
	buf := new(bytes.Buffer)
	for _, val := range values {
		writeKey(buf, val)
	}
	return buf.Bytes()
}

func writeKey(buf *bytes.Buffer, val types.Value) {
	if val.IsNull() {
		buf.WriteByte(keyTagNull)
		return
	}
	switch valType := val.ValueType(); {
	case valType.IsIntegral():
		buf.WriteByte(keyTagInteger)
		binary.Write(buf, binary.LittleEndian, val.ToBigInt())
	case valType == types.Float || valType == types.Double:
		f := val.ToDouble()
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			buf.WriteByte(keyTagInteger)
			binary.Write(buf, binary.LittleEndian, int64(f))
		} else {
			buf.WriteByte(keyTagFloat)
			binary.Write(buf, binary.LittleEndian, math.Float64bits(f))
		}
	case valType == types.Varchar:
		buf.WriteByte(keyTagVarchar)
		binary.Write(buf, binary.LittleEndian, uint32(len(val.ToVarchar())))
		buf.WriteString(val.ToVarchar())
	case valType == types.Boolean:
		buf.WriteByte(keyTagBoolean)
		binary.Write(buf, binary.LittleEndian, val.ToBoolean())
	default:
		panic("not supported type!")
	}
}

// Fingerprint returns 128bit murmur3 hash of the key made from values
func Fingerprint(values ...types.Value) []byte {
	return GenHashMurMur128(KeyBytes(values...))
}

func GenHashMurMur128(key []byte) []byte {
	h := murmur3.New128()
	h.Write(key)
	return h.Sum(nil)
}
