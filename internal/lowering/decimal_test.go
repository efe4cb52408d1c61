package lowering

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

func (e *testEnv) decimalLiteral(s string) *bound.Literal {
	return e.f.Literal(constant.Decimal(decimal.RequireFromString(s)), e.typ(symbols.SpecialDecimal))
}

func lowerDecimalExpr(e *testEnv, x bound.Expression) bound.Expression {
	out := LowerDecimals(e.f, e.sc, e.stmt(x))
	return out.(*bound.ExpressionStatement).Expression
}

func TestDecimalConstantConstructors(t *testing.T) {
	tests := []struct {
		value  string
		member symbols.SpecialMember
		want   string
	}{
		{"0", symbols.DecimalCtor, "new decimal()"},
		{"5", symbols.DecimalCtorInt32, "new decimal(5)"},
		{"-5", symbols.DecimalCtorInt32, "new decimal(-5)"},
		{"2147483647", symbols.DecimalCtorInt32, "new decimal(2147483647)"},
		{"4294967295", symbols.DecimalCtorUInt32, "new decimal(4294967295)"},
		{"10000000000", symbols.DecimalCtorInt64, "new decimal(10000000000)"},
		{"-10000000000", symbols.DecimalCtorInt64, "new decimal(-10000000000)"},
		{"18446744073709551615", symbols.DecimalCtorUInt64, "new decimal(18446744073709551615)"},
		{"5.5", symbols.DecimalCtorInt32Int32Int32BooleanByte, "new decimal(55, 0, 0, false, 1)"},
		{"-0.25", symbols.DecimalCtorInt32Int32Int32BooleanByte, "new decimal(25, 0, 0, true, 2)"},
		{"0.0", symbols.DecimalCtorInt32Int32Int32BooleanByte, "new decimal(0, 0, 0, false, 1)"},
		{"79228162514264337593543950335", symbols.DecimalCtorInt32Int32Int32BooleanByte, "new decimal(-1, -1, -1, false, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			e := newTestEnv()
			lit := e.decimalLiteral(tt.value)

			got := lowerDecimalExpr(e, lit)
			if s := bound.Print(got); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
			oc, ok := got.(*bound.ObjectCreation)
			if !ok {
				t.Fatalf("expected object creation, got %T", got)
			}
			if oc.Constructor != e.lib.SpecialMember(tt.member) {
				t.Errorf("constructor = %s, want %s", oc.Constructor, tt.member)
			}
			if !oc.Constant.Equal(lit.Constant) {
				t.Errorf("constant = %s, want %s", oc.Constant, lit.Constant)
			}
		})
	}
}

func TestDecimalConstantPartsRoundTrip(t *testing.T) {
	values := []string{
		"5.5",
		"-123456789.987654321",
		"79228162514264337593543950335",
		"-79228162514264337593543950335",
		"0.0000000000000000000000000001",
		"18446744073709551616",
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			e := newTestEnv()
			got := lowerDecimalExpr(e, e.decimalLiteral(v))
			oc := got.(*bound.ObjectCreation)
			args := oc.Args.Arguments
			if len(args) != 5 {
				t.Fatalf("expected the five-argument constructor, got %s", bound.Print(got))
			}

			lo := int32(args[0].GetConstant().Int64Value())
			mid := int32(args[1].GetConstant().Int64Value())
			hi := int32(args[2].GetConstant().Int64Value())
			neg := args[3].GetConstant().BooleanValue()
			scale := uint8(args[4].GetConstant().UInt64Value())

			rebuilt := decimalFromParts(lo, mid, hi, neg, scale)
			want := decimal.RequireFromString(v)
			if !rebuilt.Equal(want) {
				t.Errorf("round trip = %s, want %s", rebuilt, want)
			}
		})
	}
}

func TestDecimalConstantOutOfRange(t *testing.T) {
	e := newTestEnv()
	lit := e.f.Literal(constant.Decimal(decimal.New(1, 30)), e.typ(symbols.SpecialDecimal))
	expectFault(t, isInternal, func() { LowerDecimals(e.f, e.sc, e.stmt(lit)) })
}

func TestDecimalConstantReplacesConstantConversion(t *testing.T) {
	e := newTestEnv()
	conv := &bound.Conversion{
		ExprInfo: bound.ExprInfo{
			Type:     e.typ(symbols.SpecialDecimal),
			Constant: constant.Decimal(decimal.NewFromInt(7)),
		},
		Operand: e.f.Int32(7),
		Kind:    bound.ConversionImplicitConstant,
	}

	if got := bound.Print(lowerDecimalExpr(e, conv)); got != "new decimal(7)" {
		t.Errorf("got %s", got)
	}
}

func TestDecimalOperators(t *testing.T) {
	e := newTestEnv()
	dec := e.typ(symbols.SpecialDecimal)
	a, b := e.local("a", dec), e.local("b", dec)

	tests := []struct {
		name string
		expr bound.Expression
		want string
	}{
		{
			name: "addition",
			expr: e.f.Binary(bound.DecimalAddition, a, b, dec),
			want: "decimal.op_Addition(a, b)",
		},
		{
			name: "comparison",
			expr: e.f.Binary(bound.Decimal|bound.GreaterThanOrEqual, a, b, e.boolType()),
			want: "decimal.op_GreaterThanOrEqual(a, b)",
		},
		{
			name: "remainder",
			expr: e.f.Binary(bound.Decimal|bound.Remainder, a, b, dec),
			want: "decimal.op_Modulus(a, b)",
		},
		{
			name: "nested",
			expr: e.f.Binary(bound.Decimal|bound.Multiplication, e.f.Binary(bound.DecimalSubtraction, a, b, dec), e.decimalLiteral("2"), dec),
			want: "decimal.op_Multiply(decimal.op_Subtraction(a, b), new decimal(2))",
		},
		{
			name: "negation",
			expr: &bound.UnaryOperator{ExprInfo: bound.ExprInfo{Type: dec}, Op: bound.UnaryWithType(bound.UnaryMinus, bound.Decimal), Operand: a},
			want: "decimal.op_UnaryNegation(a)",
		},
		{
			name: "unary plus",
			expr: &bound.UnaryOperator{ExprInfo: bound.ExprInfo{Type: dec}, Op: bound.UnaryWithType(bound.UnaryPlus, bound.Decimal), Operand: a},
			want: "a",
		},
		{
			name: "int addition untouched",
			expr: e.f.Binary(bound.IntAddition, e.local("i", e.intType()), e.f.Int32(1), e.intType()),
			want: "(i + 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bound.Print(lowerDecimalExpr(e, tt.expr)); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDecimalConversions(t *testing.T) {
	e := newTestEnv()
	dec := e.typ(symbols.SpecialDecimal)
	color := &symbols.TypeSymbol{Name: "Color", Kind: symbols.TypeKindEnum, BaseType: e.typ(symbols.SpecialEnum), EnumUnderlying: e.intType()}
	d := e.local("d", dec)

	tests := []struct {
		name   string
		expr   bound.Expression
		want   string
		member symbols.SpecialMember
	}{
		{
			name:   "from int",
			expr:   e.f.Convert(e.local("i", e.intType()), dec, bound.ConversionImplicitNumeric, false),
			want:   "decimal.op_Implicit(i)",
			member: symbols.DecimalOpImplicitFromInt32,
		},
		{
			name:   "from double",
			expr:   e.f.Convert(e.local("x", e.typ(symbols.SpecialDouble)), dec, bound.ConversionExplicitNumeric, true),
			want:   "decimal.op_Explicit(x)",
			member: symbols.DecimalOpExplicitFromDouble,
		},
		{
			name:   "to long",
			expr:   e.f.Convert(d, e.typ(symbols.SpecialInt64), bound.ConversionExplicitNumeric, true),
			want:   "decimal.op_Explicit(d)",
			member: symbols.DecimalOpExplicitToInt64,
		},
		{
			name:   "from enum",
			expr:   e.f.Convert(e.local("c", color), dec, bound.ConversionExplicitEnumeration, true),
			want:   "decimal.op_Implicit(explicit-enum!<int>(c))",
			member: symbols.DecimalOpImplicitFromInt32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lowerDecimalExpr(e, tt.expr)
			if s := bound.Print(got); s != tt.want {
				t.Errorf("got  %s\nwant %s", s, tt.want)
			}
			call, ok := got.(*bound.Call)
			if !ok {
				t.Fatalf("expected a call, got %T", got)
			}
			if call.Method != e.lib.SpecialMember(tt.member) {
				t.Errorf("method = %s, want %s", call.Method, tt.member)
			}
		})
	}

	t.Run("to enum", func(t *testing.T) {
		got := lowerDecimalExpr(e, e.f.Convert(d, color, bound.ConversionExplicitEnumeration, true))
		if s := bound.Print(got); s != "explicit-enum!<Color>(decimal.op_Explicit(d))" {
			t.Errorf("got %s", s)
		}
	})

	t.Run("boxing untouched", func(t *testing.T) {
		box := e.f.Convert(d, e.objType(), bound.ConversionBoxing, false)
		if got := lowerDecimalExpr(e, box); got != box {
			t.Errorf("boxing was rewritten to %s", bound.Print(got))
		}
	})
}
