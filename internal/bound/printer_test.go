package bound

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

type fixture struct {
	lib  *corlib.Library
	f    *Factory
	prog *symbols.TypeSymbol
}

func newFixture() *fixture {
	lib := corlib.Default()
	prog := &symbols.TypeSymbol{Name: "Program", Kind: symbols.TypeKindClass, BaseType: lib.SpecialType(symbols.SpecialObject)}
	return &fixture{lib: lib, f: NewFactory(lib), prog: prog}
}

func (x *fixture) typ(s symbols.SpecialType) *symbols.TypeSymbol { return x.lib.SpecialType(s) }

func (x *fixture) local(name string, s symbols.SpecialType) *LocalRef {
	return x.f.Local(&symbols.LocalSymbol{Name: name, Type: x.typ(s)})
}

func (x *fixture) method(name string, ret symbols.SpecialType, params ...string) *symbols.MethodSymbol {
	m := &symbols.MethodSymbol{Name: name, ContainingType: x.prog, ReturnType: x.typ(ret), IsStatic: true}
	for i, p := range params {
		m.Parameters = append(m.Parameters, &symbols.ParameterSymbol{Name: p, Type: x.typ(symbols.SpecialInt32), Ordinal: i})
	}
	return m
}

func TestPrintStatements(t *testing.T) {
	x := newFixture()
	c := x.local("c", symbols.SpecialBoolean)
	top := &symbols.LabelSymbol{Name: "top"}
	i := &symbols.LocalSymbol{Name: "i", Type: x.typ(symbols.SpecialInt32)}
	iref := x.f.Local(i)
	exception := &symbols.TypeSymbol{Name: "Exception", Kind: symbols.TypeKindClass}

	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{
			name: "if else",
			stmt: &IfStatement{
				Condition:   c,
				Consequence: x.f.Block(&ReturnStatement{Expression: x.f.Int32(1)}),
				Alternative: &ReturnStatement{},
			},
			want: "if (c)\n  {\n    return 1;\n  }\nelse\n  return;",
		},
		{
			name: "locals",
			stmt: x.f.BlockWithLocals([]*symbols.LocalSymbol{i, {Name: "r", Type: x.typ(symbols.SpecialInt32), RefKind: symbols.RefRef}},
				&LocalDeclaration{Local: i, Initializer: x.f.Int32(5)},
				&LocalDeclaration{Local: &symbols.LocalSymbol{Name: "k", Type: x.typ(symbols.SpecialInt32), IsConst: true}, Initializer: x.f.Int32(1)},
				&LocalDeclaration{Local: &symbols.LocalSymbol{Name: "s", Type: x.typ(symbols.SpecialString)}},
			),
			want: "{\n  locals i int, r ref int\n  var i int = 5;\n  const k int = 1;\n  var s string;\n}",
		},
		{
			name: "while",
			stmt: &WhileStatement{Condition: c, Body: &BreakStatement{Label: top}},
			want: "while (c)\n  break;",
		},
		{
			name: "do",
			stmt: &DoStatement{Condition: c, Body: &ContinueStatement{Label: top}},
			want: "do\n  continue;\nwhile (c);",
		},
		{
			name: "for",
			stmt: &ForStatement{
				Locals:      []*symbols.LocalSymbol{i},
				Initializer: x.f.ExpressionStatement(x.f.Assign(iref, x.f.Int32(0))),
				Condition:   x.f.Binary(IntLessThan, iref, x.f.Int32(3), x.typ(symbols.SpecialBoolean)),
				Increment: x.f.ExpressionStatement(&IncrementOperator{
					ExprInfo: ExprInfo{Type: iref.Type},
					Op:       UnaryWithType(PostfixIncrement, Int),
					Operand:  iref,
				}),
				Body: x.f.Block(),
			},
			want: "for i int (i = 0; (i < 3); i++)\n  {\n  }",
		},
		{
			name: "foreach",
			stmt: &ForEachStatement{
				IterationVariable: i,
				Expression:        x.f.Local(&symbols.LocalSymbol{Name: "arr", Type: symbols.ArrayOf(x.typ(symbols.SpecialInt32), 1)}),
				Body:              x.f.Block(),
			},
			want: "foreach (i in arr)\n  {\n  }",
		},
		{
			name: "labeled",
			stmt: &LabeledStatement{Label: top, Body: x.f.Goto(top)},
			want: "top:\n  goto top;",
		},
		{
			name: "try",
			stmt: &TryStatement{
				TryBlock:     x.f.Block(&ThrowStatement{}),
				CatchBlocks:  []*CatchBlock{{ExceptionType: exception, Local: &symbols.LocalSymbol{Name: "e", Type: exception}, Body: x.f.Block()}},
				FinallyBlock: x.f.Block(&ThrowStatement{Expression: x.f.Null(exception)}),
			},
			want: "try\n  {\n    throw;\n  }\ncatch (Exception e)\n  {\n  }\nfinally\n  {\n    throw null;\n  }",
		},
		{
			name: "lowered jumps",
			stmt: x.f.Block(
				x.f.Hidden(x.f.Goto(top)),
				x.f.LabelStatement(top),
				x.f.ConditionalGoto(c, true, top),
				x.f.ConditionalGoto(c, false, top),
			),
			want: "{\n  #hidden\n  goto top;\n  top:;\n  gotoiftrue c top;\n  gotoiffalse c top;\n}",
		},
		{
			name: "field initializer",
			stmt: &FieldInitializer{
				Field: &symbols.FieldSymbol{Name: "count", Type: x.typ(symbols.SpecialInt32), ContainingType: x.prog},
				Value: x.f.Int32(3),
			},
			want: "init Program.count = 3;",
		},
		{
			name: "visible sequence point",
			stmt: &SequencePoint{Statement: &ReturnStatement{}},
			want: "return;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.stmt); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPrintExpressions(t *testing.T) {
	x := newFixture()
	intT := x.typ(symbols.SpecialInt32)
	strT := x.typ(symbols.SpecialString)
	a := x.local("a", symbols.SpecialInt32)
	b := x.local("b", symbols.SpecialBoolean)
	s := x.local("s", symbols.SpecialString)
	o := x.local("o", symbols.SpecialObject)

	named := x.f.Call(nil, x.method("M", symbols.SpecialVoid, "x", "y"), x.f.Int32(1), a)
	named.Args.Names = []string{"y", ""}
	named.Args.RefKinds = []symbols.RefKind{symbols.RefNone, symbols.RefOut}

	expanded := x.f.Call(nil, x.method("P", symbols.SpecialVoid, "rest"), x.f.Int32(1), x.f.Int32(2))
	expanded.Args.Expanded = true

	action := &symbols.TypeSymbol{Name: "Action", Kind: symbols.TypeKindDelegate}
	invoke := &symbols.MethodSymbol{Name: "Invoke", ContainingType: action, ReturnType: x.typ(symbols.SpecialVoid)}
	prop := &symbols.PropertySymbol{Name: "Count", Type: intT, ContainingType: x.prog, IsStatic: true}

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"string literal", x.f.Literal(constant.String("hi\n"), strT), `"hi\n"`},
		{"char literal", x.f.Literal(constant.Char('a'), x.typ(symbols.SpecialChar)), "'a'"},
		{"float literal", x.f.Literal(constant.Single(1.5), x.typ(symbols.SpecialSingle)), "1.5f"},
		{"decimal literal", x.f.Literal(constant.Decimal(decimal.RequireFromString("1.50")), x.typ(symbols.SpecialDecimal)), "1.50m"},
		{"null", x.f.Null(strT), "null"},
		{"bool", x.f.Bool(true), "true"},
		{"this", x.f.This(x.prog), "this"},
		{"parameter", &ParameterRef{Parameter: &symbols.ParameterSymbol{Name: "p", Type: intT}}, "p"},
		{"static property", &PropertyAccess{Property: prop}, "Program.Count"},
		{"negation", &UnaryOperator{Op: UnaryWithType(UnaryMinus, Int), Operand: a}, "(-a)"},
		{"logical not", &UnaryOperator{Op: UnaryWithType(LogicalNegation, Bool), Operand: b}, "(!b)"},
		{"prefix increment", &IncrementOperator{Op: UnaryWithType(PrefixIncrement, Int), Operand: a}, "++a"},
		{"postfix decrement", &IncrementOperator{Op: UnaryWithType(PostfixDecrement, Int), Operand: a}, "a--"},
		{"compound", &CompoundAssignment{Operator: BinaryOperatorSignature{Kind: IntAddition}, Left: a, Right: x.f.Int32(2)}, "a += 2"},
		{"conditional", &ConditionalOperator{Condition: b, Consequence: x.f.Int32(1), Alternative: x.f.Int32(2)}, "(b ? 1 : 2)"},
		{"coalesce", &NullCoalescing{Left: s, Right: x.f.Literal(constant.String(""), strT)}, `(s ?? "")`},
		{"is", &IsOperator{Operand: o, TargetType: strT}, "(o is string)"},
		{"as", x.f.As(o, strT, ConversionExplicitReference), "(o as string)"},
		{"explicit conversion", x.f.Convert(a, x.typ(symbols.SpecialInt64), ConversionExplicitNumeric, true), "explicit-numeric!<long>(a)"},
		{"named and out arguments", named, "Program.M(y: 1, out a)"},
		{"expanded arguments", expanded, "Program.P(1, 2 ...)"},
		{"delegate call", &DelegateCall{Receiver: x.f.Local(&symbols.LocalSymbol{Name: "cb", Type: action}), Method: invoke, Args: ArgumentList{Arguments: []Expression{a}}}, "cb(a)"},
		{"array without initializer", &ArrayCreation{ExprInfo: ExprInfo{Type: symbols.ArrayOf(intT, 1)}, Bounds: []Expression{x.f.Int32(3)}}, "new int[3]"},
		{"array length", x.f.ArrayLength(x.f.Local(&symbols.LocalSymbol{Name: "arr", Type: symbols.ArrayOf(intT, 1)})), "arr.Length"},
		{"bad", &BadExpression{}, "<bad>"},
		{
			"lambda",
			&Lambda{Symbol: &symbols.MethodSymbol{Name: "lambda0"}, Body: x.f.Block(&ReturnStatement{Expression: a})},
			"lambda lambda0 {\n  return a;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.expr); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestPrintStatementList(t *testing.T) {
	x := newFixture()
	got := PrintStatements([]Statement{&ReturnStatement{}, nil, x.f.Goto(&symbols.LabelSymbol{Name: "L"})})
	if want := "return;\n;\ngoto L;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
