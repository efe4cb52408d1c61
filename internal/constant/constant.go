// Package constant models compile-time constant values attached to bound
// expressions, including the "bad" marker binding uses when a value could
// not be computed.
package constant

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind classifies a constant value.
type Kind uint8

const (
	KindBad Kind = iota
	KindNull
	KindBoolean
	KindChar
	KindSByte
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindSingle
	KindDouble
	KindDecimal
	KindString
)

var kindNames = [...]string{
	KindBad:     "bad",
	KindNull:    "null",
	KindBoolean: "bool",
	KindChar:    "char",
	KindSByte:   "sbyte",
	KindByte:    "byte",
	KindInt16:   "short",
	KindUInt16:  "ushort",
	KindInt32:   "int",
	KindUInt32:  "uint",
	KindInt64:   "long",
	KindUInt64:  "ulong",
	KindSingle:  "float",
	KindDouble:  "double",
	KindDecimal: "decimal",
	KindString:  "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsSigned reports whether k is a signed integral kind.
func (k Kind) IsSigned() bool {
	switch k {
	case KindSByte, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsUnsigned reports whether k is an unsigned integral kind (char included).
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindByte, KindUInt16, KindUInt32, KindUInt64, KindChar:
		return true
	}
	return false
}

// IsFloating reports whether k is single or double.
func (k Kind) IsFloating() bool {
	return k == KindSingle || k == KindDouble
}

// Value is an immutable constant. A nil *Value on a node means "not constant".
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	d    decimal.Decimal
	s    string
}

var (
	badValue   = &Value{kind: KindBad}
	nullValue  = &Value{kind: KindNull}
	trueValue  = &Value{kind: KindBoolean, i: 1}
	falseValue = &Value{kind: KindBoolean}
)

// Bad returns the marker for a constant binding could not produce.
func Bad() *Value { return badValue }

// Null returns the null constant.
func Null() *Value { return nullValue }

// Bool returns a boolean constant.
func Bool(b bool) *Value {
	if b {
		return trueValue
	}
	return falseValue
}

// Signed returns a signed integral constant of the given kind.
func Signed(kind Kind, v int64) *Value {
	if !kind.IsSigned() {
		panic(fmt.Sprintf("constant: %s is not a signed kind", kind))
	}
	return &Value{kind: kind, i: v}
}

// Unsigned returns an unsigned integral (or char) constant of the given kind.
func Unsigned(kind Kind, v uint64) *Value {
	if !kind.IsUnsigned() {
		panic(fmt.Sprintf("constant: %s is not an unsigned kind", kind))
	}
	return &Value{kind: kind, u: v}
}

func Int32(v int32) *Value   { return &Value{kind: KindInt32, i: int64(v)} }
func UInt32(v uint32) *Value { return &Value{kind: KindUInt32, u: uint64(v)} }
func Int64(v int64) *Value   { return &Value{kind: KindInt64, i: v} }
func UInt64(v uint64) *Value { return &Value{kind: KindUInt64, u: v} }
func Char(r uint16) *Value   { return &Value{kind: KindChar, u: uint64(r)} }

// Single returns a float constant; the value is rounded to float32 precision.
func Single(v float32) *Value { return &Value{kind: KindSingle, f: float64(v)} }

// Double returns a double constant.
func Double(v float64) *Value { return &Value{kind: KindDouble, f: v} }

// String returns a string constant.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Decimal returns a decimal constant. The scale of d is preserved, so 0.0 and
// 0 are distinct constants.
func Decimal(d decimal.Decimal) *Value { return &Value{kind: KindDecimal, d: d} }

// Kind returns the kind of the value.
func (v *Value) Kind() Kind { return v.kind }

// IsBad reports whether v is the bad marker.
func (v *Value) IsBad() bool { return v != nil && v.kind == KindBad }

// IsNull reports whether v is the null constant.
func (v *Value) IsNull() bool { return v != nil && v.kind == KindNull }

// IsBoolean reports whether v is a boolean constant.
func (v *Value) IsBoolean() bool { return v != nil && v.kind == KindBoolean }

// BooleanValue returns the boolean payload.
func (v *Value) BooleanValue() bool { return v.i != 0 }

// Int64Value returns the payload of a signed integral constant, or the
// unsigned payload reinterpreted.
func (v *Value) Int64Value() int64 {
	if v.kind.IsUnsigned() {
		return int64(v.u)
	}
	return v.i
}

// UInt64Value returns the payload of an unsigned integral constant, or the
// signed payload reinterpreted.
func (v *Value) UInt64Value() uint64 {
	if v.kind.IsSigned() {
		return uint64(v.i)
	}
	return v.u
}

// DoubleValue returns the floating payload.
func (v *Value) DoubleValue() float64 { return v.f }

// DecimalValue returns the decimal payload.
func (v *Value) DecimalValue() decimal.Decimal { return v.d }

// StringValue returns the string payload.
func (v *Value) StringValue() string { return v.s }

// Equal reports whether two constants have the same kind and payload.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindDecimal:
		return v.d.Equal(o.d) && v.d.Exponent() == o.d.Exponent()
	case KindString:
		return v.s == o.s
	case KindSingle, KindDouble:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	}
	return v.i == o.i && v.u == o.u
}

func (v *Value) String() string {
	if v == nil {
		return "<none>"
	}
	switch v.kind {
	case KindBad:
		return "<bad>"
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.BooleanValue())
	case KindChar:
		return strconv.QuoteRune(rune(v.u))
	case KindSByte, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindByte, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.u, 10)
	case KindSingle:
		return strconv.FormatFloat(v.f, 'g', -1, 32) + "f"
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		if exp := v.d.Exponent(); exp < 0 {
			return v.d.StringFixed(-exp) + "m"
		}
		return v.d.String() + "m"
	case KindString:
		return strconv.Quote(v.s)
	}
	return "<unknown>"
}
