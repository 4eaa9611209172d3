package memscan

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ValueKind is the tagged enumeration of scalar types the Scan Engine can
// track, per spec.md §4.6.
type ValueKind int

const (
	KindI8 ValueKind = iota
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
	KindBytes
)

func (k ValueKind) String() string {
	switch k {
	case KindI8:
		return "i8"
	case KindU8:
		return "u8"
	case KindI16:
		return "i16"
	case KindU16:
		return "u16"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Width returns the byte length of kind. For KindBytes this is the length
// carried by the Value itself, so Width is only meaningful via Value.Width().
func (k ValueKind) Width() int {
	switch k {
	case KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32:
		return 4
	case KindI64, KindU64, KindF64:
		return 8
	default:
		return -1
	}
}

// Value is a tagged scalar, little-endian encoded, with a declared width.
type Value struct {
	Kind  ValueKind
	bytes []byte
}

// Width returns the byte length of the value's encoding.
func (v Value) Width() int {
	if v.Kind == KindBytes {
		return len(v.bytes)
	}
	return v.Kind.Width()
}

// Bytes returns the value's immutable little-endian byte encoding.
func (v Value) Bytes() []byte {
	out := make([]byte, len(v.bytes))
	copy(out, v.bytes)
	return out
}

// NewBytesValue wraps a raw byte pattern as a KindBytes value; equality is
// octet-wise, per spec.md §4.6.
func NewBytesValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Kind: KindBytes, bytes: cp}
}

// ToBytes encodes a Go scalar into its little-endian Value form.
func ToBytes(kind ValueKind, v any) (Value, error) {
	var buf []byte
	if w := kind.Width(); w > 0 {
		buf = make([]byte, w)
	}
	switch kind {
	case KindI8:
		x, ok := v.(int8)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want int8, got %T", v)
		}
		buf[0] = byte(x)
	case KindU8:
		x, ok := v.(uint8)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want uint8, got %T", v)
		}
		buf[0] = x
	case KindI16:
		x, ok := v.(int16)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want int16, got %T", v)
		}
		binary.LittleEndian.PutUint16(buf, uint16(x))
	case KindU16:
		x, ok := v.(uint16)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want uint16, got %T", v)
		}
		binary.LittleEndian.PutUint16(buf, x)
	case KindI32:
		x, ok := v.(int32)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want int32, got %T", v)
		}
		binary.LittleEndian.PutUint32(buf, uint32(x))
	case KindU32:
		x, ok := v.(uint32)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want uint32, got %T", v)
		}
		binary.LittleEndian.PutUint32(buf, x)
	case KindI64:
		x, ok := v.(int64)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want int64, got %T", v)
		}
		binary.LittleEndian.PutUint64(buf, uint64(x))
	case KindU64:
		x, ok := v.(uint64)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want uint64, got %T", v)
		}
		binary.LittleEndian.PutUint64(buf, x)
	case KindF32:
		x, ok := v.(float32)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want float32, got %T", v)
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	case KindF64:
		x, ok := v.(float64)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want float64, got %T", v)
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(x))
	case KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return Value{}, fmt.Errorf("memscan: ToBytes: want []byte, got %T", v)
		}
		return NewBytesValue(b), nil
	default:
		return Value{}, fmt.Errorf("memscan: ToBytes: unknown kind %v", kind)
	}
	return Value{Kind: kind, bytes: buf}, nil
}

// FromBytes interprets b as kind. len(b) must equal kind.Width() for fixed
// width kinds; for KindBytes any length is accepted.
func FromBytes(kind ValueKind, b []byte) (Value, error) {
	if kind != KindBytes && len(b) != kind.Width() {
		return Value{}, fmt.Errorf("memscan: FromBytes: %w: kind %v wants %d bytes, got %d",
			ErrWidthMismatch, kind, kind.Width(), len(b))
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Kind: kind, bytes: cp}, nil
}

// Ordering mirrors a three-way comparison result.
type Ordering int

const (
	OrderLess Ordering = iota - 1
	OrderEqual
	OrderGreater
	// OrderIncomparable is returned when a or b is NaN: per spec.md §4.6,
	// NaNs compare as incomparable in both directions and are never equal.
	OrderIncomparable
)

// Compare implements spec.md §4.6's comparison semantics: numeric ordering
// for scalar kinds (bit-reinterpreted via encoding/binary + math.Float*frombits,
// never an aliasing pointer cast, per spec.md §9), lexicographic for
// KindBytes, and incomparable for NaN operands.
func Compare(kind ValueKind, a, b []byte) (Ordering, error) {
	width := kind.Width()
	if kind != KindBytes && (len(a) != width || len(b) != width) {
		return OrderEqual, fmt.Errorf("memscan: Compare: %w", ErrWidthMismatch)
	}
	switch kind {
	case KindI8:
		return compareOrdered(int8(a[0]), int8(b[0])), nil
	case KindU8:
		return compareOrdered(a[0], b[0]), nil
	case KindI16:
		return compareOrdered(int16(binary.LittleEndian.Uint16(a)), int16(binary.LittleEndian.Uint16(b))), nil
	case KindU16:
		return compareOrdered(binary.LittleEndian.Uint16(a), binary.LittleEndian.Uint16(b)), nil
	case KindI32:
		return compareOrdered(int32(binary.LittleEndian.Uint32(a)), int32(binary.LittleEndian.Uint32(b))), nil
	case KindU32:
		return compareOrdered(binary.LittleEndian.Uint32(a), binary.LittleEndian.Uint32(b)), nil
	case KindI64:
		return compareOrdered(int64(binary.LittleEndian.Uint64(a)), int64(binary.LittleEndian.Uint64(b))), nil
	case KindU64:
		return compareOrdered(binary.LittleEndian.Uint64(a), binary.LittleEndian.Uint64(b)), nil
	case KindF32:
		fa := math.Float32frombits(binary.LittleEndian.Uint32(a))
		fb := math.Float32frombits(binary.LittleEndian.Uint32(b))
		return compareFloat(float64(fa), float64(fb)), nil
	case KindF64:
		fa := math.Float64frombits(binary.LittleEndian.Uint64(a))
		fb := math.Float64frombits(binary.LittleEndian.Uint64(b))
		return compareFloat(fa, fb), nil
	case KindBytes:
		return compareLexicographic(a, b), nil
	default:
		return OrderEqual, fmt.Errorf("memscan: Compare: unknown kind %v", kind)
	}
}

func compareOrdered[T int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64](a, b T) Ordering {
	switch {
	case a < b:
		return OrderLess
	case a > b:
		return OrderGreater
	default:
		return OrderEqual
	}
}

func compareFloat(a, b float64) Ordering {
	if math.IsNaN(a) || math.IsNaN(b) {
		return OrderIncomparable
	}
	switch {
	case a < b:
		return OrderLess
	case a > b:
		return OrderGreater
	default:
		return OrderEqual
	}
}

func compareLexicographic(a, b []byte) Ordering {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return OrderLess
		}
		if a[i] > b[i] {
			return OrderGreater
		}
	}
	switch {
	case len(a) < len(b):
		return OrderLess
	case len(a) > len(b):
		return OrderGreater
	default:
		return OrderEqual
	}
}
