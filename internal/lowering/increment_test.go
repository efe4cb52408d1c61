package lowering

import (
	"strings"
	"testing"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

func increment(op bound.UnaryOperatorKind, operand bound.Expression) *bound.IncrementOperator {
	return &bound.IncrementOperator{
		ExprInfo: bound.ExprInfo{Type: operand.GetType()},
		Op:       op,
		Operand:  operand,
	}
}

func lowerIncrement(e *testEnv, x bound.Expression) string {
	out := LowerIncrements(e.f, e.sc, e.stmt(x))
	return bound.Print(out)
}

func TestLowerIncrementForms(t *testing.T) {
	tests := []struct {
		name    string
		special symbols.SpecialType
		op      bound.UnaryOperatorKind
		want    string
	}{
		{
			name:    "postfix increment",
			special: symbols.SpecialInt32,
			op:      bound.UnaryWithType(bound.PostfixIncrement, bound.Int),
			want:    "sequence(locals=[t0], effects=[t0 = a, a = (t0 + 1)], value=t0);",
		},
		{
			name:    "prefix increment",
			special: symbols.SpecialInt32,
			op:      bound.UnaryWithType(bound.PrefixIncrement, bound.Int),
			want:    "sequence(locals=[t0], effects=[t0 = (a + 1), a = t0], value=t0);",
		},
		{
			name:    "prefix decrement of long",
			special: symbols.SpecialInt64,
			op:      bound.UnaryWithType(bound.PrefixDecrement, bound.Long),
			want:    "sequence(locals=[t0], effects=[t0 = (a - 1), a = t0], value=t0);",
		},
		{
			name:    "postfix decrement of double",
			special: symbols.SpecialDouble,
			op:      bound.UnaryWithType(bound.PostfixDecrement, bound.Double),
			want:    "sequence(locals=[t0], effects=[t0 = a, a = (t0 - 1)], value=t0);",
		},
		{
			name:    "postfix increment of byte widens and narrows",
			special: symbols.SpecialByte,
			op:      bound.UnaryWithType(bound.PostfixIncrement, bound.Int),
			want:    "sequence(locals=[t0], effects=[t0 = a, a = explicit-numeric!<byte>((implicit-numeric<int>(t0) + 1))], value=t0);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			a := e.local("a", e.typ(tt.special))
			if got := lowerIncrement(e, increment(tt.op, a)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLowerIncrementOfEnum(t *testing.T) {
	e := newTestEnv()
	color := &symbols.TypeSymbol{
		Name:           "Color",
		Kind:           symbols.TypeKindEnum,
		BaseType:       e.typ(symbols.SpecialEnum),
		EnumUnderlying: e.intType(),
	}
	c := e.local("c", color)

	got := lowerIncrement(e, increment(bound.UnaryWithType(bound.PostfixIncrement, bound.Enum), c))
	want := "sequence(locals=[t0], effects=[t0 = c, c = explicit-enum!<Color>((explicit-enum!<int>(t0) + 1))], value=t0);"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLowerIncrementOfPropertyCapturesReceiverOnce(t *testing.T) {
	tests := []struct {
		name     string
		receiver func(e *testEnv) *symbols.TypeSymbol
		want     string
	}{
		{
			name:     "class receiver",
			receiver: func(e *testEnv) *symbols.TypeSymbol { return e.class("Box") },
			want:     "sequence(locals=[t0, t1], effects=[t0 = o, t1 = t0.P, t0.P = (t1 + 1)], value=t1);",
		},
		{
			name:     "struct receiver by reference",
			receiver: func(e *testEnv) *symbols.TypeSymbol { return e.structType("Box") },
			want:     "sequence(locals=[t0, t1], effects=[t0 = ref o, t1 = t0.P, t0.P = (t1 + 1)], value=t1);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			box := tt.receiver(e)
			prop := &symbols.PropertySymbol{Name: "P", Type: e.intType(), ContainingType: box}
			access := &bound.PropertyAccess{
				ExprInfo: bound.ExprInfo{Type: e.intType()},
				Receiver: e.local("o", box),
				Property: prop,
			}

			got := lowerIncrement(e, increment(bound.UnaryWithType(bound.PostfixIncrement, bound.Int), access))
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// structFieldTargets builds arr[Program.F()].f, s.f and s.inner.f where the
// containing types are structs.
func structFieldTargets(e *testEnv) map[string]bound.Expression {
	inner := e.structType("Inner")
	f := &symbols.FieldSymbol{Name: "f", Type: e.intType(), ContainingType: inner}
	outer := e.structType("S")
	innerField := &symbols.FieldSymbol{Name: "inner", Type: inner, ContainingType: outer}
	outerF := &symbols.FieldSymbol{Name: "f", Type: e.intType(), ContainingType: outer}

	arr := e.local("arr", symbols.ArrayOf(outer, 1))
	s := e.local("s", outer)
	return map[string]bound.Expression{
		"element":      e.f.Field(e.f.ArrayAccess(arr, e.call("F")), outerF),
		"local":        e.f.Field(s, outerF),
		"nested local": e.f.Field(e.f.Field(s, innerField), f),
	}
}

func TestLowerIncrementOfStructFieldEvaluatesReceiverOnce(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"element", "sequence(locals=[t0, t1], effects=[t0 = ref arr[Program.F()], t1 = t0.f, t0.f = (t1 + 1)], value=t1);"},
		{"local", "sequence(locals=[t0], effects=[t0 = s.f, s.f = (t0 + 1)], value=t0);"},
		{"nested local", "sequence(locals=[t0], effects=[t0 = s.inner.f, s.inner.f = (t0 + 1)], value=t0);"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			e := newTestEnv()
			target := structFieldTargets(e)[tt.target]

			got := lowerIncrement(e, increment(bound.UnaryWithType(bound.PostfixIncrement, bound.Int), target))
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
			if n := strings.Count(got, "Program.F()"); tt.target == "element" && n != 1 {
				t.Errorf("index evaluated %d times", n)
			}
		})
	}
}

func TestLowerIncrementOfStaticFieldNeedsNoCapture(t *testing.T) {
	e := newTestEnv()
	field := &symbols.FieldSymbol{Name: "count", Type: e.intType(), ContainingType: e.prog, IsStatic: true}

	got := lowerIncrement(e, increment(bound.UnaryWithType(bound.PrefixIncrement, bound.Int), e.f.Field(nil, field)))
	want := "sequence(locals=[t0], effects=[t0 = (Program.count + 1), Program.count = t0], value=t0);"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLowerIncrementCheckedNarrowing(t *testing.T) {
	e := newTestEnv()
	s := e.local("s", e.typ(symbols.SpecialInt16))
	op := bound.UnaryWithType(bound.PostfixDecrement, bound.Int) | bound.UnaryOperatorKind(bound.Checked)

	out := LowerIncrements(e.f, e.sc, e.stmt(increment(op, s)))
	seq, ok := out.(*bound.ExpressionStatement).Expression.(*bound.Sequence)
	if !ok {
		t.Fatalf("expected a sequence, got %s", bound.Print(out))
	}

	store := seq.SideEffects[1].(*bound.Assignment)
	conv, ok := store.Right.(*bound.Conversion)
	if !ok || !conv.Checked || conv.Kind != bound.ConversionExplicitNumeric {
		t.Fatalf("expected a checked narrowing conversion, got %s", bound.Print(store.Right))
	}
	sum, ok := conv.Operand.(*bound.BinaryOperator)
	if !ok || !sum.Op.IsChecked() || sum.Op.Operator() != bound.Subtraction {
		t.Errorf("expected checked subtraction, got %s", bound.Print(conv.Operand))
	}
}

func TestLowerIncrementUnsupportedOperands(t *testing.T) {
	tests := []struct {
		name  string
		build func(e *testEnv) *bound.IncrementOperator
	}{
		{
			name: "pointer",
			build: func(e *testEnv) *bound.IncrementOperator {
				ptr := &symbols.TypeSymbol{Name: "int*", Kind: symbols.TypeKindPointer, ElementType: e.intType()}
				return increment(bound.UnaryWithType(bound.PostfixIncrement, bound.Pointer), e.local("p", ptr))
			},
		},
		{
			name: "user-defined",
			build: func(e *testEnv) *bound.IncrementOperator {
				counter := e.class("Counter")
				n := increment(bound.UnaryWithType(bound.PrefixIncrement, bound.UserDefined), e.local("c", counter))
				n.Method = &symbols.MethodSymbol{Name: "op_Increment", ContainingType: counter, ReturnType: counter, IsStatic: true}
				return n
			},
		},
		{
			name: "nullable",
			build: func(e *testEnv) *bound.IncrementOperator {
				return increment(bound.UnaryWithType(bound.PostfixIncrement, bound.Int),
					e.local("n", symbols.NullableOf(e.intType())))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			n := tt.build(e)
			expectFault(t, isNotImplemented, func() { LowerIncrements(e.f, e.sc, e.stmt(n)) })
		})
	}
}
