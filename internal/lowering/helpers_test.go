package lowering

import (
	"strings"
	"testing"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// testEnv holds the library, a fresh factory and a static method Program.Test
// whose body the tests lower.
type testEnv struct {
	lib  *corlib.Library
	f    *bound.Factory
	sc   bound.Scope
	prog *symbols.TypeSymbol
}

func newTestEnv() *testEnv {
	return newTestEnvFor(corlib.Default())
}

func newTestEnvFor(lib *corlib.Library) *testEnv {
	prog := &symbols.TypeSymbol{
		Name:     "Program",
		Kind:     symbols.TypeKindClass,
		BaseType: lib.SpecialType(symbols.SpecialObject),
	}
	m := &symbols.MethodSymbol{
		Name:           "Test",
		ContainingType: prog,
		ReturnType:     lib.SpecialType(symbols.SpecialVoid),
		IsStatic:       true,
	}
	prog.Methods = append(prog.Methods, m)

	return &testEnv{lib: lib, f: bound.NewFactory(lib), sc: bound.Scope{Method: m}, prog: prog}
}

func (e *testEnv) typ(s symbols.SpecialType) *symbols.TypeSymbol { return e.lib.SpecialType(s) }

func (e *testEnv) intType() *symbols.TypeSymbol  { return e.typ(symbols.SpecialInt32) }
func (e *testEnv) boolType() *symbols.TypeSymbol { return e.typ(symbols.SpecialBoolean) }
func (e *testEnv) strType() *symbols.TypeSymbol  { return e.typ(symbols.SpecialString) }
func (e *testEnv) objType() *symbols.TypeSymbol  { return e.typ(symbols.SpecialObject) }
func (e *testEnv) voidType() *symbols.TypeSymbol { return e.typ(symbols.SpecialVoid) }

// class declares a reference type deriving from object.
func (e *testEnv) class(name string) *symbols.TypeSymbol {
	return &symbols.TypeSymbol{Name: name, Kind: symbols.TypeKindClass, BaseType: e.objType()}
}

// structType declares a value type.
func (e *testEnv) structType(name string) *symbols.TypeSymbol {
	return &symbols.TypeSymbol{Name: name, Kind: symbols.TypeKindStruct, BaseType: e.typ(symbols.SpecialValueType)}
}

func (e *testEnv) local(name string, t *symbols.TypeSymbol) *bound.LocalRef {
	return e.f.Local(&symbols.LocalSymbol{Name: name, Type: t, ContainingMethod: e.sc.Method})
}

func (e *testEnv) param(name string, t *symbols.TypeSymbol) *symbols.ParameterSymbol {
	return &symbols.ParameterSymbol{Name: name, Type: t}
}

// method declares a static method on Program.
func (e *testEnv) method(name string, ret *symbols.TypeSymbol, params ...*symbols.ParameterSymbol) *symbols.MethodSymbol {
	for i, p := range params {
		p.Ordinal = i
	}
	m := &symbols.MethodSymbol{
		Name:           name,
		ContainingType: e.prog,
		Parameters:     params,
		ReturnType:     ret,
		IsStatic:       true,
	}
	e.prog.Methods = append(e.prog.Methods, m)
	return m
}

// call builds Program.name(), a side-effecting call returning int.
func (e *testEnv) call(name string) *bound.Call {
	m := e.prog.FindMethod(name, 0)
	if m == nil {
		m = e.method(name, e.intType())
	}
	return e.f.Call(nil, m)
}

// use builds the statement Program.Use(arg).
func (e *testEnv) use(arg bound.Expression) bound.Statement {
	m := e.prog.FindMethod("Use", 1)
	if m == nil {
		m = e.method("Use", e.voidType(), e.param("value", arg.GetType()))
	}
	return e.f.ExpressionStatement(e.f.Call(nil, m, arg))
}

func (e *testEnv) stmt(x bound.Expression) bound.Statement {
	return e.f.ExpressionStatement(x)
}

// trimmedLines splits printed output into lines without indentation.
func trimmedLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// expectLines checks that want appears in got, in order, ignoring
// indentation. Other lines may be interleaved.
func expectLines(t *testing.T, got string, want ...string) {
	t.Helper()

	lines := trimmedLines(got)
	i := 0
	for _, l := range lines {
		if i < len(want) && l == want[i] {
			i++
		}
	}
	if i < len(want) {
		t.Fatalf("missing line %q (in order) in:\n%s", want[i], got)
	}
}

// expectExactLines compares got, ignoring indentation, line for line.
func expectExactLines(t *testing.T, got string, want ...string) {
	t.Helper()

	lines := trimmedLines(got)
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

// expectFault runs fn and checks that it panics with a fault accepted by is.
func expectFault(t *testing.T, is func(interface{}) bool, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		if !is(r) {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	fn()
}

var (
	isNotImplemented = errors.IsNotImplemented
	isInternal       = errors.IsInternal
)
