package lowering

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

func lowerOperatorsExpr(e *testEnv, x bound.Expression) bound.Expression {
	out := LowerOperators(e.f, e.sc, e.stmt(x))
	return out.(*bound.ExpressionStatement).Expression
}

// compound builds left op= right for operands of a single type t.
func compound(op bound.BinaryOperatorKind, left, right bound.Expression, t *symbols.TypeSymbol) *bound.CompoundAssignment {
	return &bound.CompoundAssignment{
		ExprInfo: bound.ExprInfo{Type: left.GetType()},
		Operator: bound.BinaryOperatorSignature{Kind: op, LeftType: t, RightType: t, ReturnType: t},
		Left:     left,
		Right:    right,
	}
}

func (e *testEnv) delegateType(name string) *symbols.TypeSymbol {
	return &symbols.TypeSymbol{
		Name:     name,
		Kind:     symbols.TypeKindDelegate,
		BaseType: e.typ(symbols.SpecialMulticastDelegate),
		Sealed:   true,
	}
}

func TestLowerCompoundAssignment(t *testing.T) {
	e := newTestEnv()
	box := e.class("Box")
	field := &symbols.FieldSymbol{Name: "F", Type: e.intType(), ContainingType: box}
	indexer := &symbols.PropertySymbol{
		Name:           "Item",
		Type:           e.intType(),
		ContainingType: box,
		Parameters:     []*symbols.ParameterSymbol{e.param("i", e.intType())},
	}

	tests := []struct {
		name string
		expr func() bound.Expression
		want string
	}{
		{
			name: "local",
			expr: func() bound.Expression {
				return compound(bound.IntAddition, e.local("x", e.intType()), e.f.Int32(2), e.intType())
			},
			want: "x = (x + 2)",
		},
		{
			name: "field of a reference receiver",
			expr: func() bound.Expression {
				return compound(bound.IntAddition, e.f.Field(e.local("o", box), field), e.f.Int32(1), e.intType())
			},
			want: "sequence(locals=[t0], effects=[t0 = o], value=t0.F = (t0.F + 1))",
		},
		{
			name: "indexer",
			expr: func() bound.Expression {
				access := &bound.IndexerAccess{
					ExprInfo: bound.ExprInfo{Type: e.intType()},
					Receiver: e.local("o", box),
					Indexer:  indexer,
					Args:     bound.ArgumentList{Arguments: []bound.Expression{e.call("I")}},
				}
				return compound(bound.IntAddition, access, e.f.Int32(1), e.intType())
			},
			want: "sequence(locals=[t0, t1], effects=[t0 = o, t1 = Program.I()], value=t0[t1] = (t0[t1] + 1))",
		},
		{
			name: "decimal",
			expr: func() bound.Expression {
				dec := e.typ(symbols.SpecialDecimal)
				lit := e.f.Literal(constant.Decimal(decimal.RequireFromString("1.5")), dec)
				return compound(bound.DecimalAddition, e.local("d", dec), lit, dec)
			},
			want: "d = decimal.op_Addition(d, new decimal(15, 0, 0, false, 1))",
		},
		{
			name: "string",
			expr: func() bound.Expression {
				return compound(bound.StringConcatenation, e.local("s", e.strType()), e.local("u", e.strType()), e.strType())
			},
			want: "s = string.Concat(s, u)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.f = bound.NewFactory(e.lib)
			if got := bound.Print(lowerOperatorsExpr(e, tt.expr())); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLowerCompoundAssignmentOfStructField(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"element", "sequence(locals=[t0], effects=[t0 = ref arr[Program.F()]], value=t0.f = (t0.f + 1))"},
		{"local", "s.f = (s.f + 1)"},
		{"nested local", "s.inner.f = (s.inner.f + 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			e := newTestEnv()
			target := structFieldTargets(e)[tt.target]

			got := bound.Print(lowerOperatorsExpr(e, compound(bound.IntAddition, target, e.f.Int32(1), e.intType())))
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLowerCompoundAssignmentWithConversions(t *testing.T) {
	e := newTestEnv()
	b := e.local("b", e.typ(symbols.SpecialByte))
	n := &bound.CompoundAssignment{
		ExprInfo: bound.ExprInfo{Type: b.GetType()},
		Operator: bound.BinaryOperatorSignature{
			Kind: bound.IntAddition, LeftType: e.intType(), RightType: e.intType(), ReturnType: e.intType(),
		},
		Left:            b,
		Right:           e.f.Int32(3),
		LeftConversion:  bound.ConversionImplicitNumeric,
		FinalConversion: bound.ConversionExplicitNumeric,
	}

	got := bound.Print(lowerOperatorsExpr(e, n))
	want := "b = explicit-numeric!<byte>((implicit-numeric<int>(b) + 3))"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLowerStringOperators(t *testing.T) {
	e := newTestEnv()
	s, u := e.local("s", e.strType()), e.local("u", e.strType())
	i := e.local("i", e.intType())

	tests := []struct {
		name string
		expr bound.Expression
		want string
	}{
		{"concat", e.f.Binary(bound.StringConcatenation, s, u, e.strType()), "string.Concat(s, u)"},
		{"concat with object", e.f.Binary(bound.StringObjectConcat, s, i, e.strType()), "string.Concat(implicit-ref<object>(s), boxing<object>(i))"},
		{"object then string", e.f.Binary(bound.ObjectStringConcat, e.local("o", e.objType()), s, e.strType()), "string.Concat(o, implicit-ref<object>(s))"},
		{"equality", e.f.Binary(bound.StringEqual, s, u, e.boolType()), "string.op_Equality(s, u)"},
		{"inequality", e.f.Binary(bound.StringNotEqual, s, u, e.boolType()), "string.op_Inequality(s, u)"},
		{"compare with null", e.f.Binary(bound.StringNotEqual, s, e.f.Null(e.strType()), e.boolType()), "(s != null)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bound.Print(lowerOperatorsExpr(e, tt.expr)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}

	t.Run("null comparison is a reference comparison", func(t *testing.T) {
		got := lowerOperatorsExpr(e, e.f.Binary(bound.StringEqual, e.f.Null(e.strType()), s, e.boolType()))
		bin, ok := got.(*bound.BinaryOperator)
		if !ok || bin.Op != bound.ObjectEqual {
			t.Errorf("got %s", bound.Print(got))
		}
	})
}

func TestLowerDelegateOperators(t *testing.T) {
	e := newTestEnv()
	action := e.delegateType("Action")
	a, b := e.local("a", action), e.local("b", action)

	tests := []struct {
		name string
		expr bound.Expression
		want string
	}{
		{
			name: "combine",
			expr: e.f.Binary(bound.DelegateCombination, a, b, action),
			want: "explicit-ref!<Action>(Delegate.Combine(implicit-ref<Delegate>(a), implicit-ref<Delegate>(b)))",
		},
		{
			name: "remove",
			expr: e.f.Binary(bound.DelegateRemoval, a, b, action),
			want: "explicit-ref!<Action>(Delegate.Remove(implicit-ref<Delegate>(a), implicit-ref<Delegate>(b)))",
		},
		{
			name: "equality",
			expr: e.f.Binary(bound.DelegateEqual, a, b, e.boolType()),
			want: "Delegate.op_Equality(implicit-ref<Delegate>(a), implicit-ref<Delegate>(b))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bound.Print(lowerOperatorsExpr(e, tt.expr)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLowerDelegateEqualityNeedsRuntimeSupport(t *testing.T) {
	lib, err := corlib.New("1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEnvFor(lib)
	action := e.delegateType("Action")
	eq := e.f.Binary(bound.DelegateNotEqual, e.local("a", action), e.local("b", action), e.boolType())

	expectFault(t, isInternal, func() { LowerOperators(e.f, e.sc, e.stmt(eq)) })
}

func TestLowerUserDefinedOperatorUntouched(t *testing.T) {
	e := newTestEnv()
	money := e.class("Money")
	op := &symbols.MethodSymbol{Name: "op_Addition", Kind: symbols.MethodUserOperator, ContainingType: money, ReturnType: money, IsStatic: true}
	bin := e.f.Binary(bound.UserDefined|bound.Addition, e.local("m", money), e.local("n", money), money)
	bin.Method = op

	if got := lowerOperatorsExpr(e, bin); got != bound.Expression(bin) {
		t.Errorf("rewritten to %s", bound.Print(got))
	}
}

func TestLowerConditionalOperator(t *testing.T) {
	e := newTestEnv()
	x, y := e.local("x", e.intType()), e.local("y", e.intType())
	cond := func(c bound.Expression) *bound.ConditionalOperator {
		return &bound.ConditionalOperator{ExprInfo: bound.ExprInfo{Type: e.intType()}, Condition: c, Consequence: x, Alternative: y}
	}

	if got := bound.Print(lowerOperatorsExpr(e, cond(e.f.Bool(true)))); got != "x" {
		t.Errorf("true condition: got %s", got)
	}
	if got := bound.Print(lowerOperatorsExpr(e, cond(e.f.Bool(false)))); got != "y" {
		t.Errorf("false condition: got %s", got)
	}
	if got := bound.Print(lowerOperatorsExpr(e, cond(e.local("c", e.boolType())))); got != "(c ? x : y)" {
		t.Errorf("variable condition: got %s", got)
	}
}

func TestLowerConditionalOperatorToInterface(t *testing.T) {
	e := newTestEnv()
	enumerable := e.typ(symbols.SpecialIEnumerable)
	s := e.local("s", e.strType())
	arr := e.local("arr", symbols.ArrayOf(e.intType(), 1))

	n := &bound.ConditionalOperator{
		ExprInfo:    bound.ExprInfo{Type: enumerable},
		Condition:   e.local("c", e.boolType()),
		Consequence: e.f.Convert(s, enumerable, bound.ConversionImplicitReference, false),
		Alternative: e.f.Convert(arr, enumerable, bound.ConversionImplicitReference, false),
	}

	got := bound.Print(lowerOperatorsExpr(e, n))
	want := "(c ? explicit-ref!<IEnumerable>(s) : implicit-ref<IEnumerable>(arr))"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if n.Consequence.(*bound.Conversion).Kind != bound.ConversionImplicitReference {
		t.Error("the input conversion was mutated")
	}
}

func TestLowerNullCoalescing(t *testing.T) {
	e := newTestEnv()
	a, b := e.local("a", e.strType()), e.local("b", e.strType())
	coalesce := func(left bound.Expression) *bound.NullCoalescing {
		return &bound.NullCoalescing{ExprInfo: bound.ExprInfo{Type: e.strType()}, Left: left, Right: b}
	}

	tests := []struct {
		name string
		expr bound.Expression
		want string
	}{
		{"null left", coalesce(e.f.Null(e.strType())), "b"},
		{"constant left", coalesce(e.f.Literal(constant.String("x"), e.strType())), `"x"`},
		{"variable left", coalesce(a), "(a ?? b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bound.Print(lowerOperatorsExpr(e, tt.expr)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLowerNullCoalescingToInterface(t *testing.T) {
	e := newTestEnv()
	enumerable := e.typ(symbols.SpecialIEnumerable)
	n := &bound.NullCoalescing{
		ExprInfo:       bound.ExprInfo{Type: enumerable},
		Left:           e.local("s", e.strType()),
		Right:          e.f.Convert(e.local("arr", symbols.ArrayOf(e.intType(), 1)), enumerable, bound.ConversionImplicitReference, false),
		LeftConversion: bound.ConversionImplicitReference,
	}

	got, ok := lowerOperatorsExpr(e, n).(*bound.NullCoalescing)
	if !ok {
		t.Fatal("expected a null-coalescing node")
	}
	if got.LeftConversion != bound.ConversionExplicitReference || !got.LeftConversionExplicit {
		t.Errorf("left conversion = %s (explicit %v)", got.LeftConversion, got.LeftConversionExplicit)
	}
	if n.LeftConversion != bound.ConversionImplicitReference {
		t.Error("the input node was mutated")
	}
}

func TestLowerOperatorsFoldsConstants(t *testing.T) {
	e := newTestEnv()

	sum := e.f.Binary(bound.IntAddition, e.f.Int32(1), e.f.Int32(2), e.intType())
	sum.Constant = constant.Int32(3)
	got := lowerOperatorsExpr(e, sum)
	if _, ok := got.(*bound.Literal); !ok || bound.Print(got) != "3" {
		t.Errorf("binary: got %s", bound.Print(got))
	}

	conv := &bound.Conversion{
		ExprInfo: bound.ExprInfo{Type: e.typ(symbols.SpecialInt64), Constant: constant.Int64(7)},
		Operand:  e.f.Int32(7),
		Kind:     bound.ConversionImplicitNumeric,
	}
	if got := lowerOperatorsExpr(e, conv); got.GetType() != e.typ(symbols.SpecialInt64) || bound.Print(got) != "7" {
		t.Errorf("conversion: got %s", bound.Print(got))
	}

	bad := e.f.Binary(bound.IntAddition, e.local("x", e.intType()), e.f.Int32(1), e.intType())
	bad.Constant = constant.Bad()
	if got := lowerOperatorsExpr(e, bad); got != bound.Expression(bad) {
		t.Errorf("bad constant folded to %s", bound.Print(got))
	}
}
