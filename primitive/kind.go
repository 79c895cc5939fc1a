package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // zero is the "not a primitive" kind

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer or string type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var predeclared = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

var basicByKind = map[reflect.Kind]reflect.Type{
	reflect.Int:    reflect.TypeFor[int](),
	reflect.Int8:   reflect.TypeFor[int8](),
	reflect.Int16:  reflect.TypeFor[int16](),
	reflect.Int32:  reflect.TypeFor[int32](),
	reflect.Int64:  reflect.TypeFor[int64](),
	reflect.Uint:   reflect.TypeFor[uint](),
	reflect.Uint8:  reflect.TypeFor[uint8](),
	reflect.Uint16: reflect.TypeFor[uint16](),
	reflect.Uint32: reflect.TypeFor[uint32](),
	reflect.Uint64: reflect.TypeFor[uint64](),
	reflect.String: reflect.TypeFor[string](),
}

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful bit size, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// FromReflectType classifies rtype. Predeclared types map to their own kind,
// named integer and string types map to KindPrimitiveEnum, everything else is zero.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if kind, ok := predeclared[rtype]; ok {
		return kind
	}

	if _, ok := basicByKind[rtype.Kind()]; ok && rtype.Name() != "" {
		return KindPrimitiveEnum
	}

	return 0
}

// Underlying returns the predeclared type sharing rtype's representation,
// or nil when rtype is not integer or string shaped.
func Underlying(rtype reflect.Type) reflect.Type {
	if rtype == nil {
		return nil
	}

	return basicByKind[rtype.Kind()]
}

// IsEnumPair reports whether one side is a named integer type and the other
// is the predeclared integer type it is declared over.
func IsEnumPair(src, dst reflect.Type) bool {
	if src == nil || dst == nil || src == dst || src.Kind() != dst.Kind() {
		return false
	}

	base := Underlying(src)
	if base == nil || base.Kind() == reflect.String {
		return false
	}

	srcEnum := FromReflectType(src) == KindPrimitiveEnum
	dstEnum := FromReflectType(dst) == KindPrimitiveEnum

	return (srcEnum && dst == base) || (dstEnum && src == base)
}
