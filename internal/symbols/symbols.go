// Package symbols defines the symbol model consumed by lowering: types,
// methods, properties, fields, parameters, locals and labels. Symbols are
// compared by identity; two distinct *LocalSymbol values with the same name
// are different variables.
package symbols

import (
	"strings"

	"github.com/orizon-lang/orizon-lower/internal/constant"
)

// TypeKind classifies a type symbol.
type TypeKind int

const (
	TypeKindClass TypeKind = iota
	TypeKindStruct
	TypeKindInterface
	TypeKindEnum
	TypeKindDelegate
	TypeKindArray
	TypeKindTypeParameter
	TypeKindPointer
	TypeKindDynamic
	TypeKindError
)

// RefKind is the by-reference passing mode of an argument, parameter or local.
type RefKind int

const (
	RefNone RefKind = iota
	RefRef
	RefOut
)

func (k RefKind) String() string {
	switch k {
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	}
	return ""
}

// TypeSymbol describes a type.
type TypeSymbol struct {
	Name    string
	Kind    TypeKind
	Special SpecialType

	BaseType   *TypeSymbol
	Interfaces []*TypeSymbol
	Sealed     bool

	// Arrays and pointers.
	ElementType *TypeSymbol
	Rank        int

	// Enums.
	EnumUnderlying *TypeSymbol

	// Constructed Nullable<T>.
	NullableUnderlying *TypeSymbol

	// Type parameters.
	ReferenceConstraint bool
	ValueConstraint     bool

	Fields     []*FieldSymbol
	Methods    []*MethodSymbol
	Properties []*PropertySymbol
}

// ArrayOf constructs an array type. Array types are structural: two results of
// ArrayOf with identical element types and rank are Identical.
func ArrayOf(elem *TypeSymbol, rank int) *TypeSymbol {
	if rank < 1 {
		rank = 1
	}
	return &TypeSymbol{
		Name:        elem.Name + "[" + strings.Repeat(",", rank-1) + "]",
		Kind:        TypeKindArray,
		ElementType: elem,
		Rank:        rank,
		Sealed:      true,
	}
}

// NullableOf constructs Nullable<T> over a value type.
func NullableOf(underlying *TypeSymbol) *TypeSymbol {
	return &TypeSymbol{
		Name:               underlying.Name + "?",
		Kind:               TypeKindStruct,
		NullableUnderlying: underlying,
		Sealed:             true,
	}
}

func (t *TypeSymbol) String() string {
	if t == nil {
		return "<null-type>"
	}
	return t.Name
}

// IsValueType reports whether values of t are copied by value.
func (t *TypeSymbol) IsValueType() bool {
	switch t.Kind {
	case TypeKindStruct, TypeKindEnum:
		return true
	case TypeKindTypeParameter:
		return t.ValueConstraint
	}
	return false
}

// IsReferenceType reports whether t is known to be a reference type.
func (t *TypeSymbol) IsReferenceType() bool {
	switch t.Kind {
	case TypeKindClass, TypeKindInterface, TypeKindDelegate, TypeKindArray, TypeKindDynamic:
		return true
	case TypeKindTypeParameter:
		return t.ReferenceConstraint
	}
	return false
}

// IsUnconstrainedTypeParameter reports whether t is a type parameter known to
// be neither a reference type nor a value type.
func (t *TypeSymbol) IsUnconstrainedTypeParameter() bool {
	return t.Kind == TypeKindTypeParameter && !t.ReferenceConstraint && !t.ValueConstraint
}

func (t *TypeSymbol) IsInterface() bool { return t.Kind == TypeKindInterface }
func (t *TypeSymbol) IsEnum() bool      { return t.Kind == TypeKindEnum }
func (t *TypeSymbol) IsDelegate() bool  { return t.Kind == TypeKindDelegate }
func (t *TypeSymbol) IsPointer() bool   { return t.Kind == TypeKindPointer }
func (t *TypeSymbol) IsArray() bool     { return t.Kind == TypeKindArray }
func (t *TypeSymbol) IsNullable() bool  { return t.NullableUnderlying != nil }

// IsSZArray reports whether t is a single-dimensional array.
func (t *TypeSymbol) IsSZArray() bool { return t.Kind == TypeKindArray && t.Rank == 1 }

// IsNonNullableValueType reports whether t is a value type other than Nullable<T>.
func (t *TypeSymbol) IsNonNullableValueType() bool {
	return t.IsValueType() && !t.IsNullable()
}

// Implements reports whether t, one of its base types, or one of the
// interfaces they inherit is iface.
func (t *TypeSymbol) Implements(iface *TypeSymbol) bool {
	seen := make(map[*TypeSymbol]bool)
	var walk func(*TypeSymbol) bool
	walk = func(cur *TypeSymbol) bool {
		if cur == nil || seen[cur] {
			return false
		}
		seen[cur] = true
		if cur == iface {
			return true
		}
		for _, i := range cur.Interfaces {
			if walk(i) {
				return true
			}
		}
		return walk(cur.BaseType)
	}
	return walk(t)
}

// FindMethod returns the first method named name with the given parameter
// count, or with any parameter count when arity is negative.
func (t *TypeSymbol) FindMethod(name string, arity int) *MethodSymbol {
	for _, m := range t.Methods {
		if m.Name == name && (arity < 0 || len(m.Parameters) == arity) {
			return m
		}
	}
	return nil
}

// FindField returns the field named name.
func (t *TypeSymbol) FindField(name string) *FieldSymbol {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindProperty returns the property named name.
func (t *TypeSymbol) FindProperty(name string) *PropertySymbol {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Identical reports whether a and b denote the same type.
func Identical(a, b *TypeSymbol) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch {
	case a.Kind == TypeKindArray && b.Kind == TypeKindArray:
		return a.Rank == b.Rank && Identical(a.ElementType, b.ElementType)
	case a.Kind == TypeKindPointer && b.Kind == TypeKindPointer:
		return Identical(a.ElementType, b.ElementType)
	case a.IsNullable() && b.IsNullable():
		return Identical(a.NullableUnderlying, b.NullableUnderlying)
	}
	return false
}

// MethodKind classifies a method symbol.
type MethodKind int

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
	MethodPropertyGet
	MethodPropertySet
	MethodDelegateInvoke
	MethodUserOperator
	MethodConversion
	MethodLambda
)

// MethodSymbol describes a method, constructor, accessor or lambda.
type MethodSymbol struct {
	Name           string
	Kind           MethodKind
	ContainingType *TypeSymbol
	Parameters     []*ParameterSymbol
	ReturnType     *TypeSymbol
	IsStatic       bool
}

func (m *MethodSymbol) String() string {
	if m == nil {
		return "<null-method>"
	}
	if m.ContainingType == nil {
		return m.Name
	}
	return m.ContainingType.Name + "." + m.Name
}

// HasParamsArray reports whether the last parameter is a params array.
func (m *MethodSymbol) HasParamsArray() bool {
	n := len(m.Parameters)
	return n > 0 && m.Parameters[n-1].IsParams
}

// ParameterSymbol describes a formal parameter.
type ParameterSymbol struct {
	Name       string
	Type       *TypeSymbol
	Ordinal    int
	RefKind    RefKind
	IsParams   bool
	IsOptional bool
}

func (p *ParameterSymbol) String() string { return p.Name }

// PropertySymbol describes a property or an indexer (an indexer has parameters).
type PropertySymbol struct {
	Name           string
	Type           *TypeSymbol
	ContainingType *TypeSymbol
	Getter         *MethodSymbol
	Setter         *MethodSymbol
	Parameters     []*ParameterSymbol
	IsStatic       bool
}

// IsIndexer reports whether the property takes arguments.
func (p *PropertySymbol) IsIndexer() bool { return len(p.Parameters) > 0 }

func (p *PropertySymbol) String() string {
	if p.ContainingType == nil {
		return p.Name
	}
	return p.ContainingType.Name + "." + p.Name
}

// FieldSymbol describes a field. Constant is non-nil for constant fields and
// may be the bad marker.
type FieldSymbol struct {
	Name           string
	Type           *TypeSymbol
	ContainingType *TypeSymbol
	IsStatic       bool
	Constant       *constant.Value
}

func (f *FieldSymbol) String() string {
	if f.ContainingType == nil {
		return f.Name
	}
	return f.ContainingType.Name + "." + f.Name
}

// LocalSymbol describes a user-declared local or a compiler temporary.
// Temporaries belong to the method whose lowering created them.
type LocalSymbol struct {
	Name             string
	Type             *TypeSymbol
	RefKind          RefKind
	IsConst          bool
	Synthesized      bool
	ContainingMethod *MethodSymbol
}

func (l *LocalSymbol) String() string { return l.Name }

// LabelSymbol is a jump target. Labels are compared by identity.
type LabelSymbol struct {
	Name string
}

func (l *LabelSymbol) String() string { return l.Name }
