// Package boundjson reads bound programs from their JSON interchange form.
//
// A document declares user types and a list of bodies. Types are referenced
// by name everywhere: language keywords ("int", "string", "decimal"), runtime
// names ("IDisposable"), declared names, and the suffixed forms "T[]", "T[,]",
// "T?" and "T*". Members are referenced as "Type.Name", with "/N" appended to
// pick the overload with N parameters. Constructors are named "ctor".
//
// Bodies hold a tree of nodes, each an object with a "kind" discriminator.
// Decoding errors name the JSON path of the offending node.
package boundjson

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Library resolves runtime types by name and special members by key.
// *corlib.Library implements it.
type Library interface {
	symbols.WellKnown
	TypeByName(name string) *symbols.TypeSymbol
}

// Program is a decoded document.
type Program struct {
	Types  []*symbols.TypeSymbol
	Bodies []Body
}

// Body is one unit of code to lower: a method body, or the field
// initializers shared by Constructors when Method is nil.
type Body struct {
	Name         string
	Method       *symbols.MethodSymbol
	Block        *bound.Block
	Constructors []*symbols.MethodSymbol
	Initializers []*bound.FieldInitializer
}

// Error is a decoding failure at a JSON path such as
// "bodies[0].body.statements[2].condition".
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

type document struct {
	Types  []typeDecl `json:"types"`
	Bodies []bodyDecl `json:"bodies"`
}

type typeDecl struct {
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Base       string         `json:"base"`
	Sealed     bool           `json:"sealed"`
	Interfaces []string       `json:"interfaces"`
	Underlying string         `json:"underlying"`
	Reference  bool           `json:"referenceConstraint"`
	Value      bool           `json:"valueConstraint"`
	Fields     []fieldDecl    `json:"fields"`
	Methods    []methodDecl   `json:"methods"`
	Properties []propertyDecl `json:"properties"`
}

type fieldDecl struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Static      bool            `json:"static"`
	Constant    json.RawMessage `json:"constant"`
	BadConstant bool            `json:"badConstant"`
}

type methodDecl struct {
	Name    string      `json:"name"`
	Static  bool        `json:"static"`
	Returns string      `json:"returns"`
	Params  []paramDecl `json:"params"`
}

type paramDecl struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Ref      string `json:"ref"`
	Optional bool   `json:"optional"`
	Params   bool   `json:"params"`
}

type propertyDecl struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Static bool        `json:"static"`
	Get    bool        `json:"get"`
	Set    bool        `json:"set"`
	Params []paramDecl `json:"params"`
}

type bodyDecl struct {
	Name         string      `json:"name"`
	Method       string      `json:"method"`
	File         string      `json:"file"`
	Locals       []localDecl `json:"locals"`
	Body         *rawNode    `json:"body"`
	Constructors []string    `json:"constructors"`
	Initializers []*rawNode  `json:"initializers"`
}

type localDecl struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Ref   string `json:"ref"`
	Const bool   `json:"const"`
}

// failure carries an Error out of the recursive builders.
type failure struct{ err *Error }

func fail(path, format string, args ...interface{}) {
	panic(failure{&Error{Path: path, Err: fmt.Errorf(format, args...)}})
}

// Decode reads one document from r.
func Decode(r io.Reader, lib Library) (prog *Program, err error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bound program: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(failure)
			if !ok {
				panic(r)
			}
			prog, err = nil, f.err
		}
	}()

	d := &decoder{lib: lib, types: make(map[string]*symbols.TypeSymbol)}
	prog = &Program{}
	prog.Types = d.declareTypes(doc.Types)
	for i := range doc.Bodies {
		prog.Bodies = append(prog.Bodies, d.body(fmt.Sprintf("bodies[%d]", i), &doc.Bodies[i]))
	}
	return prog, nil
}

type decoder struct {
	lib   Library
	types map[string]*symbols.TypeSymbol
}

var typeKinds = map[string]symbols.TypeKind{
	"class":     symbols.TypeKindClass,
	"struct":    symbols.TypeKindStruct,
	"interface": symbols.TypeKindInterface,
	"enum":      symbols.TypeKindEnum,
	"delegate":  symbols.TypeKindDelegate,
	"typeparam": symbols.TypeKindTypeParameter,
}

// declareTypes creates every type before resolving any member so that
// declarations may refer to each other in any order.
func (d *decoder) declareTypes(decls []typeDecl) []*symbols.TypeSymbol {
	out := make([]*symbols.TypeSymbol, len(decls))
	for i, td := range decls {
		path := fmt.Sprintf("types[%d]", i)
		if td.Name == "" {
			fail(path, "type without a name")
		}
		if _, dup := d.types[td.Name]; dup {
			fail(path, "type %s declared twice", td.Name)
		}
		kind := symbols.TypeKindClass
		if td.Kind != "" {
			k, ok := typeKinds[td.Kind]
			if !ok {
				fail(path+".kind", "unknown type kind %q", td.Kind)
			}
			kind = k
		}
		t := &symbols.TypeSymbol{
			Name:                td.Name,
			Kind:                kind,
			Sealed:              td.Sealed || kind == symbols.TypeKindStruct || kind == symbols.TypeKindEnum,
			ReferenceConstraint: td.Reference,
			ValueConstraint:     td.Value,
		}
		d.types[td.Name] = t
		out[i] = t
	}

	for i, td := range decls {
		path := fmt.Sprintf("types[%d]", i)
		t := out[i]
		switch {
		case td.Base != "":
			t.BaseType = d.resolveType(path+".base", td.Base)
		case t.Kind == symbols.TypeKindClass:
			t.BaseType = d.special(symbols.SpecialObject)
		case t.Kind == symbols.TypeKindStruct:
			t.BaseType = d.special(symbols.SpecialValueType)
		case t.Kind == symbols.TypeKindEnum:
			t.BaseType = d.special(symbols.SpecialEnum)
		case t.Kind == symbols.TypeKindDelegate:
			t.BaseType = d.special(symbols.SpecialMulticastDelegate)
		}
		for j, name := range td.Interfaces {
			t.Interfaces = append(t.Interfaces, d.resolveType(fmt.Sprintf("%s.interfaces[%d]", path, j), name))
		}
		if t.Kind == symbols.TypeKindEnum {
			underlying := td.Underlying
			if underlying == "" {
				underlying = "int"
			}
			t.EnumUnderlying = d.resolveType(path+".underlying", underlying)
		}

		for j, fd := range td.Fields {
			fpath := fmt.Sprintf("%s.fields[%d]", path, j)
			fs := &symbols.FieldSymbol{
				Name:           fd.Name,
				Type:           d.resolveType(fpath+".type", fd.Type),
				ContainingType: t,
				IsStatic:       fd.Static,
			}
			switch {
			case fd.BadConstant:
				fs.Constant = badConstant()
			case fd.Constant != nil:
				fs.Constant = d.constant(fpath+".constant", fd.Constant, fs.Type)
			}
			t.Fields = append(t.Fields, fs)
		}
		for j, md := range td.Methods {
			t.Methods = append(t.Methods, d.method(fmt.Sprintf("%s.methods[%d]", path, j), t, md))
		}
		for j, pd := range td.Properties {
			t.Properties = append(t.Properties, d.property(fmt.Sprintf("%s.properties[%d]", path, j), t, pd))
		}
	}
	return out
}

func (d *decoder) special(t symbols.SpecialType) *symbols.TypeSymbol {
	return d.lib.SpecialType(t)
}

func (d *decoder) method(path string, owner *symbols.TypeSymbol, md methodDecl) *symbols.MethodSymbol {
	m := &symbols.MethodSymbol{
		Name:           md.Name,
		ContainingType: owner,
		IsStatic:       md.Static,
	}
	switch {
	case md.Name == "ctor":
		m.Kind = symbols.MethodConstructor
		m.ReturnType = owner
	case owner.IsDelegate() && md.Name == "Invoke":
		m.Kind = symbols.MethodDelegateInvoke
	case strings.HasPrefix(md.Name, "op_"):
		m.Kind = symbols.MethodUserOperator
	}
	if m.ReturnType == nil {
		returns := md.Returns
		if returns == "" {
			returns = "void"
		}
		m.ReturnType = d.resolveType(path+".returns", returns)
	}
	m.Parameters = d.parameters(path+".params", md.Params)
	return m
}

func (d *decoder) parameters(path string, decls []paramDecl) []*symbols.ParameterSymbol {
	var out []*symbols.ParameterSymbol
	for i, pd := range decls {
		ppath := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, &symbols.ParameterSymbol{
			Name:       pd.Name,
			Type:       d.resolveType(ppath+".type", pd.Type),
			Ordinal:    i,
			RefKind:    refKind(ppath+".ref", pd.Ref),
			IsOptional: pd.Optional,
			IsParams:   pd.Params,
		})
	}
	return out
}

func (d *decoder) property(path string, owner *symbols.TypeSymbol, pd propertyDecl) *symbols.PropertySymbol {
	p := &symbols.PropertySymbol{
		Name:           pd.Name,
		Type:           d.resolveType(path+".type", pd.Type),
		ContainingType: owner,
		IsStatic:       pd.Static,
		Parameters:     d.parameters(path+".params", pd.Params),
	}
	if pd.Get {
		p.Getter = &symbols.MethodSymbol{
			Name:           "get_" + pd.Name,
			Kind:           symbols.MethodPropertyGet,
			ContainingType: owner,
			ReturnType:     p.Type,
			Parameters:     p.Parameters,
			IsStatic:       pd.Static,
		}
	}
	if pd.Set {
		params := append(append([]*symbols.ParameterSymbol(nil), p.Parameters...), &symbols.ParameterSymbol{
			Name:    "value",
			Type:    p.Type,
			Ordinal: len(p.Parameters),
		})
		p.Setter = &symbols.MethodSymbol{
			Name:           "set_" + pd.Name,
			Kind:           symbols.MethodPropertySet,
			ContainingType: owner,
			ReturnType:     d.special(symbols.SpecialVoid),
			Parameters:     params,
			IsStatic:       pd.Static,
		}
	}
	return p
}

func refKind(path, s string) symbols.RefKind {
	switch s {
	case "":
		return symbols.RefNone
	case "ref":
		return symbols.RefRef
	case "out":
		return symbols.RefOut
	}
	fail(path, "unknown ref kind %q", s)
	return symbols.RefNone
}

// resolveType resolves a type reference, including array, nullable and
// pointer suffixes.
func (d *decoder) resolveType(path, name string) *symbols.TypeSymbol {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		fail(path, "missing type")
	case strings.HasSuffix(name, "]"):
		open := strings.LastIndexByte(name, '[')
		if open <= 0 || strings.Trim(name[open+1:len(name)-1], ",") != "" {
			fail(path, "malformed array type %q", name)
		}
		rank := len(name) - open - 1
		return symbols.ArrayOf(d.resolveType(path, name[:open]), rank)
	case strings.HasSuffix(name, "?"):
		return symbols.NullableOf(d.resolveType(path, strings.TrimSuffix(name, "?")))
	case strings.HasSuffix(name, "*"):
		elem := d.resolveType(path, strings.TrimSuffix(name, "*"))
		return &symbols.TypeSymbol{Name: elem.Name + "*", Kind: symbols.TypeKindPointer, ElementType: elem}
	}
	if t, ok := d.types[name]; ok {
		return t
	}
	if t := d.lib.TypeByName(name); t != nil {
		return t
	}
	fail(path, "unknown type %q", name)
	return nil
}

// member splits "Type.Name/N" into its type, name and arity (-1 when absent).
func (d *decoder) member(path, ref string) (*symbols.TypeSymbol, string, int) {
	ref = strings.TrimPrefix(ref, "System.")
	typeName, name, ok := strings.Cut(ref, ".")
	if !ok || typeName == "" || name == "" {
		fail(path, "malformed member reference %q", ref)
	}
	arity := -1
	if base, n, ok := strings.Cut(name, "/"); ok {
		a, err := strconv.Atoi(n)
		if err != nil || a < 0 {
			fail(path, "malformed arity in %q", ref)
		}
		name, arity = base, a
	}
	return d.resolveType(path, typeName), name, arity
}

func (d *decoder) resolveMethod(path, ref string) *symbols.MethodSymbol {
	t, name, arity := d.member(path, ref)
	if m := t.FindMethod(name, arity); m != nil {
		return m
	}
	fail(path, "type %s has no method %s", t, name)
	return nil
}

func (d *decoder) resolveField(path, ref string) *symbols.FieldSymbol {
	t, name, _ := d.member(path, ref)
	if f := t.FindField(name); f != nil {
		return f
	}
	fail(path, "type %s has no field %s", t, name)
	return nil
}

func (d *decoder) resolveProperty(path, ref string) *symbols.PropertySymbol {
	t, name, _ := d.member(path, ref)
	if p := t.FindProperty(name); p != nil {
		return p
	}
	fail(path, "type %s has no property %s", t, name)
	return nil
}
