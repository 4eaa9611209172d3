package memscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBytesFromBytesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind ValueKind
		v    any
	}{
		{"i8", KindI8, int8(-12)},
		{"u8", KindU8, uint8(200)},
		{"i16", KindI16, int16(-4000)},
		{"u16", KindU16, uint16(4000)},
		{"i32", KindI32, int32(-70000)},
		{"u32", KindU32, uint32(70000)},
		{"i64", KindI64, int64(-1 << 40)},
		{"u64", KindU64, uint64(1 << 40)},
		{"f32", KindF32, float32(3.5)},
		{"f64", KindF64, float64(2.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := ToBytes(tt.kind, tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.kind.Width(), val.Width())

			back, err := FromBytes(tt.kind, val.Bytes())
			require.NoError(t, err)
			assert.Equal(t, val.Bytes(), back.Bytes())
		})
	}
}

func TestToBytesWrongGoType(t *testing.T) {
	_, err := ToBytes(KindI32, "not an int32")
	assert.Error(t, err)
}

func TestFromBytesWidthMismatch(t *testing.T) {
	_, err := FromBytes(KindI32, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrWidthMismatch)
}

func TestNewBytesValueEquality(t *testing.T) {
	a := NewBytesValue([]byte{0xAB, 0xCD})
	b := NewBytesValue([]byte{0xAB, 0xCD})
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, 2, a.Width())
}

func TestCompareOrderedScalars(t *testing.T) {
	lo, _ := ToBytes(KindI32, int32(4))
	hi, _ := ToBytes(KindI32, int32(5))

	ord, err := Compare(KindI32, hi.Bytes(), lo.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderGreater, ord)

	ord, err = Compare(KindI32, lo.Bytes(), hi.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderLess, ord)

	ord, err = Compare(KindI32, lo.Bytes(), lo.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderEqual, ord)
}

func TestCompareNaNIsIncomparable(t *testing.T) {
	nan, _ := ToBytes(KindF64, math.NaN())
	one, _ := ToBytes(KindF64, float64(1.0))

	ord, err := Compare(KindF64, nan.Bytes(), one.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderIncomparable, ord)

	ord, err = Compare(KindF64, one.Bytes(), nan.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderIncomparable, ord)

	ord, err = Compare(KindF64, nan.Bytes(), nan.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderIncomparable, ord, "NaN must never equal itself")
}

func TestCompareBytesLexicographic(t *testing.T) {
	a := NewBytesValue([]byte{0x01, 0x02})
	b := NewBytesValue([]byte{0x01, 0x03})
	ord, err := Compare(KindBytes, a.Bytes(), b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderLess, ord)

	shorter := NewBytesValue([]byte{0x01})
	ord, err = Compare(KindBytes, shorter.Bytes(), a.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OrderLess, ord)
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "i32", KindI32.String())
	assert.Equal(t, "bytes", KindBytes.String())
}
