// Package corlib provides an in-memory model of the runtime library that
// lowering references by stable key. Members carry the runtime version that
// introduced them; a Library built for an older runtime simply lacks them.
package corlib

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// LatestVersion is the newest runtime version the model describes.
const LatestVersion = "4.0.0"

// Library implements symbols.WellKnown.
type Library struct {
	version *semver.Version
	types   map[symbols.SpecialType]*symbols.TypeSymbol
	byName  map[string]*symbols.TypeSymbol
	members map[symbols.SpecialMember]*symbols.MethodSymbol
	missing []symbols.SpecialMember
}

// New builds the library model for the given runtime version.
func New(version string) (*Library, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid runtime version %q: %w", version, err)
	}

	lib := &Library{
		version: v,
		types:   make(map[symbols.SpecialType]*symbols.TypeSymbol),
		byName:  make(map[string]*symbols.TypeSymbol),
		members: make(map[symbols.SpecialMember]*symbols.MethodSymbol),
	}
	lib.buildTypes()

	for _, d := range memberTable {
		c, err := semver.NewConstraint(">= " + d.introduced)
		if err != nil {
			return nil, fmt.Errorf("member %s: bad version %q: %w", d.member, d.introduced, err)
		}
		if !c.Check(v) {
			lib.missing = append(lib.missing, d.member)
			continue
		}
		lib.members[d.member] = lib.declare(d)
	}

	return lib, nil
}

// Default returns the library model for LatestVersion.
func Default() *Library {
	lib, err := New(LatestVersion)
	if err != nil {
		panic(err)
	}
	return lib
}

// Version returns the runtime version the library was built for.
func (l *Library) Version() *semver.Version { return l.version }

// Missing lists the special members unavailable in this runtime version.
func (l *Library) Missing() []symbols.SpecialMember {
	return append([]symbols.SpecialMember(nil), l.missing...)
}

// SpecialType implements symbols.WellKnown.
func (l *Library) SpecialType(t symbols.SpecialType) *symbols.TypeSymbol {
	return l.types[t]
}

// SpecialMember implements symbols.WellKnown.
func (l *Library) SpecialMember(m symbols.SpecialMember) *symbols.MethodSymbol {
	return l.members[m]
}

// TypeByName resolves a language keyword or runtime type name ("int",
// "Int32", "string", "IDisposable", ...).
func (l *Library) TypeByName(name string) *symbols.TypeSymbol {
	return l.byName[strings.TrimPrefix(name, "System.")]
}

type typeDescriptor struct {
	special  symbols.SpecialType
	name     string
	keyword  string
	kind     symbols.TypeKind
	base     symbols.SpecialType
	sealed   bool
	ifaces   []symbols.SpecialType
	integral bool
}

var typeTable = []typeDescriptor{
	{special: symbols.SpecialObject, name: "Object", keyword: "object", kind: symbols.TypeKindClass},
	{special: symbols.SpecialValueType, name: "ValueType", kind: symbols.TypeKindClass, base: symbols.SpecialObject},
	{special: symbols.SpecialEnum, name: "Enum", kind: symbols.TypeKindClass, base: symbols.SpecialValueType},
	{special: symbols.SpecialVoid, name: "Void", keyword: "void", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialBoolean, name: "Boolean", keyword: "bool", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialChar, name: "Char", keyword: "char", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialSByte, name: "SByte", keyword: "sbyte", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialByte, name: "Byte", keyword: "byte", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialInt16, name: "Int16", keyword: "short", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialUInt16, name: "UInt16", keyword: "ushort", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialInt32, name: "Int32", keyword: "int", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialUInt32, name: "UInt32", keyword: "uint", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialInt64, name: "Int64", keyword: "long", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialUInt64, name: "UInt64", keyword: "ulong", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialSingle, name: "Single", keyword: "float", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialDouble, name: "Double", keyword: "double", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialDecimal, name: "Decimal", keyword: "decimal", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialIntPtr, name: "IntPtr", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialUIntPtr, name: "UIntPtr", kind: symbols.TypeKindStruct, base: symbols.SpecialValueType, sealed: true},
	{special: symbols.SpecialIEnumerable, name: "IEnumerable", kind: symbols.TypeKindInterface},
	{special: symbols.SpecialIEnumerator, name: "IEnumerator", kind: symbols.TypeKindInterface},
	{special: symbols.SpecialIDisposable, name: "IDisposable", kind: symbols.TypeKindInterface},
	{special: symbols.SpecialString, name: "String", keyword: "string", kind: symbols.TypeKindClass, base: symbols.SpecialObject, sealed: true, ifaces: []symbols.SpecialType{symbols.SpecialIEnumerable}},
	{special: symbols.SpecialArray, name: "Array", kind: symbols.TypeKindClass, base: symbols.SpecialObject, ifaces: []symbols.SpecialType{symbols.SpecialIEnumerable}},
	{special: symbols.SpecialDelegate, name: "Delegate", kind: symbols.TypeKindClass, base: symbols.SpecialObject},
	{special: symbols.SpecialMulticastDelegate, name: "MulticastDelegate", kind: symbols.TypeKindClass, base: symbols.SpecialDelegate},
}

func (l *Library) buildTypes() {
	for _, d := range typeTable {
		name := d.name
		if d.keyword != "" {
			name = d.keyword
		}
		t := &symbols.TypeSymbol{
			Name:    name,
			Kind:    d.kind,
			Special: d.special,
			Sealed:  d.sealed,
		}
		l.types[d.special] = t
		l.byName[d.name] = t
		if d.keyword != "" {
			l.byName[d.keyword] = t
		}
	}
	// Wire bases in a second pass; the table is not ordered by dependency.
	for _, d := range typeTable {
		t := l.types[d.special]
		if d.base != symbols.SpecialNone {
			t.BaseType = l.types[d.base]
		}
		for _, i := range d.ifaces {
			t.Interfaces = append(t.Interfaces, l.types[i])
		}
	}
}

type memberDescriptor struct {
	member     symbols.SpecialMember
	declaring  symbols.SpecialType
	name       string
	kind       symbols.MethodKind
	static     bool
	returns    symbols.SpecialType
	params     []symbols.SpecialType
	introduced string
}

func (l *Library) declare(d memberDescriptor) *symbols.MethodSymbol {
	owner := l.types[d.declaring]
	m := &symbols.MethodSymbol{
		Name:           d.name,
		Kind:           d.kind,
		ContainingType: owner,
		ReturnType:     l.types[d.returns],
		IsStatic:       d.static,
	}
	for i, p := range d.params {
		m.Parameters = append(m.Parameters, &symbols.ParameterSymbol{
			Name:    fmt.Sprintf("arg%d", i),
			Type:    l.types[p],
			Ordinal: i,
		})
	}
	owner.Methods = append(owner.Methods, m)
	return m
}
