package bound

import (
	"fmt"

	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/position"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Factory synthesizes nodes, temporaries and labels for the lowering of one
// method body. Its counters make synthesized names unique within that body;
// a Factory must not be shared between bodies lowered concurrently.
type Factory struct {
	wk     symbols.WellKnown
	temps  int
	labels int

	// Span is attached to every node the factory builds. Passes set it to
	// the span of the node being lowered.
	Span position.Span
}

// NewFactory returns a factory resolving special members through wk.
func NewFactory(wk symbols.WellKnown) *Factory {
	return &Factory{wk: wk}
}

// WellKnown returns the special type and member lookup.
func (f *Factory) WellKnown() symbols.WellKnown { return f.wk }

// SpecialType resolves t; a missing special type is an internal fault.
func (f *Factory) SpecialType(t symbols.SpecialType) *symbols.TypeSymbol {
	ts := f.wk.SpecialType(t)
	if ts == nil {
		panic(errors.MissingMember(t))
	}
	return ts
}

// SpecialMember resolves m; a missing special member is an internal fault.
func (f *Factory) SpecialMember(m symbols.SpecialMember) *symbols.MethodSymbol {
	ms := f.wk.SpecialMember(m)
	if ms == nil {
		panic(errors.MissingMember(m))
	}
	return ms
}

// Temp creates a compiler temporary owned by the scope's method.
func (f *Factory) Temp(sc Scope, t *symbols.TypeSymbol, refKind symbols.RefKind) *symbols.LocalSymbol {
	l := &symbols.LocalSymbol{
		Name:             fmt.Sprintf("t%d", f.temps),
		Type:             t,
		RefKind:          refKind,
		Synthesized:      true,
		ContainingMethod: sc.Method,
	}
	f.temps++
	return l
}

// Label creates a fresh label named after prefix.
func (f *Factory) Label(prefix string) *symbols.LabelSymbol {
	l := &symbols.LabelSymbol{Name: fmt.Sprintf("%s_%d", prefix, f.labels)}
	f.labels++
	return l
}

func (f *Factory) stmt() StmtInfo { return StmtInfo{Info{Span: f.Span}} }

func (f *Factory) expr(t *symbols.TypeSymbol) ExprInfo {
	return ExprInfo{Info: Info{Span: f.Span}, Type: t}
}

// Block builds a block, skipping nil statements.
func (f *Factory) Block(stmts ...Statement) *Block {
	return f.BlockWithLocals(nil, stmts...)
}

// BlockWithLocals builds a block declaring locals, skipping nil statements.
func (f *Factory) BlockWithLocals(locals []*symbols.LocalSymbol, stmts ...Statement) *Block {
	list := make([]Statement, 0, len(stmts))
	for _, s := range stmts {
		if s != nil {
			list = append(list, s)
		}
	}
	return &Block{StmtInfo: f.stmt(), Locals: locals, Statements: list}
}

func (f *Factory) ExpressionStatement(e Expression) *ExpressionStatement {
	return &ExpressionStatement{StmtInfo: f.stmt(), Expression: e}
}

func (f *Factory) Goto(l *symbols.LabelSymbol) *GotoStatement {
	return &GotoStatement{StmtInfo: f.stmt(), Label: l}
}

func (f *Factory) ConditionalGoto(cond Expression, jumpIfTrue bool, l *symbols.LabelSymbol) *ConditionalGoto {
	return &ConditionalGoto{StmtInfo: f.stmt(), Condition: cond, JumpIfTrue: jumpIfTrue, Label: l}
}

func (f *Factory) LabelStatement(l *symbols.LabelSymbol) *LabelStatement {
	return &LabelStatement{StmtInfo: f.stmt(), Label: l}
}

// Hidden marks s as not being a stepping boundary.
func (f *Factory) Hidden(s Statement) *SequencePoint {
	return &SequencePoint{StmtInfo: f.stmt(), Statement: s, Hidden: true}
}

func (f *Factory) If(cond Expression, cons Statement) *IfStatement {
	return &IfStatement{StmtInfo: f.stmt(), Condition: cond, Consequence: cons}
}

func (f *Factory) Try(try *Block, finally *Block) *TryStatement {
	return &TryStatement{StmtInfo: f.stmt(), TryBlock: try, FinallyBlock: finally}
}

func (f *Factory) Local(l *symbols.LocalSymbol) *LocalRef {
	return &LocalRef{ExprInfo: f.expr(l.Type), Local: l}
}

func (f *Factory) This(t *symbols.TypeSymbol) *ThisRef {
	return &ThisRef{ExprInfo: f.expr(t)}
}

// Field accesses fs on receiver; receiver is nil for static fields.
func (f *Factory) Field(receiver Expression, fs *symbols.FieldSymbol) *FieldAccess {
	return &FieldAccess{ExprInfo: f.expr(fs.Type), Receiver: receiver, Field: fs}
}

// As builds e as t.
func (f *Factory) As(e Expression, t *symbols.TypeSymbol, kind ConversionKind) *AsOperator {
	return &AsOperator{ExprInfo: f.expr(t), Operand: e, TargetType: t, Conversion: kind}
}

// Assign builds left = right typed as left.
func (f *Factory) Assign(left, right Expression) *Assignment {
	return &Assignment{ExprInfo: f.expr(left.GetType()), Left: left, Right: right}
}

// AssignRef binds a by-reference temporary to the location right designates.
func (f *Factory) AssignRef(left *LocalRef, right Expression) *Assignment {
	return &Assignment{ExprInfo: f.expr(left.GetType()), Left: left, Right: right, RefKind: left.Local.RefKind}
}

// Sequence builds a sequence typed as value.
func (f *Factory) Sequence(locals []*symbols.LocalSymbol, effects []Expression, value Expression) *Sequence {
	return &Sequence{ExprInfo: f.expr(value.GetType()), Locals: locals, SideEffects: effects, Value: value}
}

func (f *Factory) Literal(c *constant.Value, t *symbols.TypeSymbol) *Literal {
	e := f.expr(t)
	e.Constant = c
	return &Literal{ExprInfo: e}
}

func (f *Factory) Int32(v int32) *Literal {
	return f.Literal(constant.Int32(v), f.SpecialType(symbols.SpecialInt32))
}

func (f *Factory) Bool(v bool) *Literal {
	return f.Literal(constant.Bool(v), f.SpecialType(symbols.SpecialBoolean))
}

// Null builds a null literal of type t.
func (f *Factory) Null(t *symbols.TypeSymbol) *Literal {
	return f.Literal(constant.Null(), t)
}

// Call invokes m with positional arguments; receiver is nil for static methods.
func (f *Factory) Call(receiver Expression, m *symbols.MethodSymbol, args ...Expression) *Call {
	return &Call{ExprInfo: f.expr(m.ReturnType), Receiver: receiver, Method: m, Args: ArgumentList{Arguments: args}}
}

// StaticCall invokes a special static member.
func (f *Factory) StaticCall(m symbols.SpecialMember, args ...Expression) *Call {
	return f.Call(nil, f.SpecialMember(m), args...)
}

func (f *Factory) New(ctor *symbols.MethodSymbol, t *symbols.TypeSymbol, args ...Expression) *ObjectCreation {
	return &ObjectCreation{ExprInfo: f.expr(t), Constructor: ctor, Args: ArgumentList{Arguments: args}}
}

// Convert builds a conversion of e to t. An identity conversion to e's own
// type yields e.
func (f *Factory) Convert(e Expression, t *symbols.TypeSymbol, kind ConversionKind, explicit bool) Expression {
	if kind == ConversionIdentity && symbols.Identical(e.GetType(), t) {
		return e
	}
	return &Conversion{ExprInfo: f.expr(t), Operand: e, Kind: kind, Explicit: explicit}
}

func (f *Factory) Binary(op BinaryOperatorKind, left, right Expression, t *symbols.TypeSymbol) *BinaryOperator {
	return &BinaryOperator{ExprInfo: f.expr(t), Op: op, Left: left, Right: right}
}

// ObjectNotEqual builds e != null as a reference comparison.
func (f *Factory) ObjectNotEqual(e Expression) *BinaryOperator {
	return f.Binary(ObjectNotEqual, e, f.Null(f.SpecialType(symbols.SpecialObject)), f.SpecialType(symbols.SpecialBoolean))
}

func (f *Factory) ArrayLength(array Expression) *ArrayLength {
	return &ArrayLength{ExprInfo: f.expr(f.SpecialType(symbols.SpecialInt32)), Array: array}
}

func (f *Factory) ArrayAccess(array Expression, indices ...Expression) *ArrayAccess {
	return &ArrayAccess{ExprInfo: f.expr(array.GetType().ElementType), Array: array, Indices: indices}
}

// ArrayOf builds new T[] { elems... } for the element type of arrayType.
func (f *Factory) ArrayOf(arrayType *symbols.TypeSymbol, elems []Expression) *ArrayCreation {
	return &ArrayCreation{
		ExprInfo:    f.expr(arrayType),
		Bounds:      []Expression{f.Int32(int32(len(elems)))},
		Initializer: &ArrayInitializer{ExprInfo: f.expr(arrayType), Initializers: elems},
	}
}
