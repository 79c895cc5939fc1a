package primitive

import "reflect"

type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss

	CategoryNone CategoryEnum = 0
)

var safeNumber = map[ConversionPair]struct{}{
	{KindInt, KindInt64}: {},

	{KindInt8, KindInt}:     {},
	{KindInt8, KindInt16}:   {},
	{KindInt8, KindInt32}:   {},
	{KindInt8, KindInt64}:   {},
	{KindInt8, KindFloat32}: {},
	{KindInt8, KindFloat64}: {},

	{KindInt16, KindInt}:     {},
	{KindInt16, KindInt32}:   {},
	{KindInt16, KindInt64}:   {},
	{KindInt16, KindFloat32}: {},
	{KindInt16, KindFloat64}: {},

	{KindInt32, KindInt}:     {},
	{KindInt32, KindInt64}:   {},
	{KindInt32, KindFloat64}: {}, // wider than the float32 mantissa

	{KindUint, KindUint64}: {},

	{KindUint8, KindUint}:    {},
	{KindUint8, KindUint16}:  {},
	{KindUint8, KindUint32}:  {},
	{KindUint8, KindUint64}:  {},
	{KindUint8, KindInt}:     {},
	{KindUint8, KindInt16}:   {},
	{KindUint8, KindInt32}:   {},
	{KindUint8, KindInt64}:   {},
	{KindUint8, KindFloat32}: {},
	{KindUint8, KindFloat64}: {},

	{KindUint16, KindUint}:    {},
	{KindUint16, KindUint32}:  {},
	{KindUint16, KindUint64}:  {},
	{KindUint16, KindInt}:     {},
	{KindUint16, KindInt32}:   {},
	{KindUint16, KindInt64}:   {},
	{KindUint16, KindFloat32}: {},
	{KindUint16, KindFloat64}: {},

	{KindUint32, KindUint64}:  {},
	{KindUint32, KindInt64}:   {},
	{KindUint32, KindFloat64}: {},

	{KindFloat32, KindFloat64}: {},
}

// Categorize reports which numeric category converting from src to dst falls into.
// Only predeclared numeric types are categorized; identical types yield CategoryNone.
func Categorize(src, dst reflect.Type) CategoryEnum {
	from, to := FromReflectType(src), FromReflectType(dst)
	if from == to || !from.IsNumber() || !to.IsNumber() {
		return CategoryNone
	}

	if _, ok := safeNumber[ConversionPair{from, to}]; ok {
		return CategorySafeNumber
	}

	return CategoryUnsafeNumber
}
