package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// controlFlowLowerer replaces structured statements with labels and
// (conditional) gotos.
type controlFlowLowerer struct {
	bound.Rewriter
	f *bound.Factory
}

// LowerControlFlow lowers if/while/do/for/foreach, labeled statements,
// break/continue, local declarations and field initializers in body.
func LowerControlFlow(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	p := &controlFlowLowerer{f: f}
	p.Self = p
	return p.VisitStatement(body, sc)
}

func at(f *bound.Factory, n bound.Node) *bound.Factory {
	f.Span = n.GetSpan()
	return f
}

// loopLabels returns the loop's break and continue labels, creating any the
// binder did not supply.
func (p *controlFlowLowerer) loopLabels(brk, cont *symbols.LabelSymbol) (*symbols.LabelSymbol, *symbols.LabelSymbol) {
	if brk == nil {
		brk = p.f.Label("L_break")
	}
	if cont == nil {
		cont = p.f.Label("L_continue")
	}
	return brk, cont
}

func (p *controlFlowLowerer) VisitIfStatement(n *bound.IfStatement, sc bound.Scope) bound.Node {
	cond := p.VisitExpression(n.Condition, sc)
	cons := p.VisitStatement(n.Consequence, sc)
	alt := p.VisitStatement(n.Alternative, sc)

	f := at(p.f, n)
	if n.Alternative == nil {
		after := f.Label("L_after")
		return f.Block(
			f.ConditionalGoto(cond, false, after),
			cons,
			f.LabelStatement(after))
	}

	altLabel := f.Label("L_alt")
	after := f.Label("L_after")
	return f.Block(
		f.ConditionalGoto(cond, false, altLabel),
		cons,
		f.Goto(after),
		f.LabelStatement(altLabel),
		alt,
		f.LabelStatement(after))
}

func (p *controlFlowLowerer) VisitWhileStatement(n *bound.WhileStatement, sc bound.Scope) bound.Node {
	cond := p.VisitExpression(n.Condition, sc)
	body := p.VisitStatement(n.Body, sc)

	f := at(p.f, n)
	brk, cont := p.loopLabels(n.BreakLabel, n.ContinueLabel)
	start := f.Label("L_start")
	return f.Block(
		f.Hidden(f.Goto(cont)),
		f.LabelStatement(start),
		body,
		f.LabelStatement(cont),
		f.ConditionalGoto(cond, true, start),
		f.LabelStatement(brk))
}

func (p *controlFlowLowerer) VisitDoStatement(n *bound.DoStatement, sc bound.Scope) bound.Node {
	cond := p.VisitExpression(n.Condition, sc)
	body := p.VisitStatement(n.Body, sc)

	f := at(p.f, n)
	brk, cont := p.loopLabels(n.BreakLabel, n.ContinueLabel)
	start := f.Label("L_start")
	return f.Block(
		f.LabelStatement(start),
		body,
		f.LabelStatement(cont),
		f.ConditionalGoto(cond, true, start),
		f.LabelStatement(brk))
}

func (p *controlFlowLowerer) VisitForStatement(n *bound.ForStatement, sc bound.Scope) bound.Node {
	init := p.VisitStatement(n.Initializer, sc)
	cond := p.VisitExpression(n.Condition, sc)
	incr := p.VisitStatement(n.Increment, sc)
	body := p.VisitStatement(n.Body, sc)

	f := at(p.f, n)
	brk, cont := p.loopLabels(n.BreakLabel, n.ContinueLabel)
	start := f.Label("L_start")
	end := f.Label("L_end")

	var test bound.Statement
	if cond != nil {
		test = f.ConditionalGoto(cond, true, start)
	} else {
		test = f.Goto(start)
	}

	return f.BlockWithLocals(n.Locals,
		init,
		f.Hidden(f.Goto(end)),
		f.LabelStatement(start),
		body,
		f.LabelStatement(cont),
		incr,
		f.LabelStatement(end),
		test,
		f.LabelStatement(brk))
}

func (p *controlFlowLowerer) VisitBreakStatement(n *bound.BreakStatement, sc bound.Scope) bound.Node {
	return at(p.f, n).Goto(n.Label)
}

func (p *controlFlowLowerer) VisitContinueStatement(n *bound.ContinueStatement, sc bound.Scope) bound.Node {
	return at(p.f, n).Goto(n.Label)
}

func (p *controlFlowLowerer) VisitLabeledStatement(n *bound.LabeledStatement, sc bound.Scope) bound.Node {
	body := p.VisitStatement(n.Body, sc)
	f := at(p.f, n)
	return f.Block(f.LabelStatement(n.Label), body)
}

func (p *controlFlowLowerer) VisitLocalDeclaration(n *bound.LocalDeclaration, sc bound.Scope) bound.Node {
	if n.Local.IsConst || n.Initializer == nil {
		return nil
	}
	init := p.VisitExpression(n.Initializer, sc)
	f := at(p.f, n)
	local := f.Local(n.Local)
	if n.Local.RefKind != symbols.RefNone {
		return f.ExpressionStatement(f.AssignRef(local, init))
	}
	return f.ExpressionStatement(f.Assign(local, init))
}

func (p *controlFlowLowerer) VisitMultipleLocalDeclarations(n *bound.MultipleLocalDeclarations, sc bound.Scope) bound.Node {
	stmts := make([]bound.Statement, 0, len(n.Declarations))
	for _, d := range n.Declarations {
		if s := p.VisitStatement(d, sc); s != nil {
			stmts = append(stmts, s)
		}
	}
	if len(stmts) == 0 {
		return nil
	}
	return at(p.f, n).Block(stmts...)
}

func (p *controlFlowLowerer) VisitFieldInitializer(n *bound.FieldInitializer, sc bound.Scope) bound.Node {
	value := p.VisitExpression(n.Value, sc)
	f := at(p.f, n)
	var receiver bound.Expression
	if !n.Field.IsStatic {
		receiver = f.This(n.Field.ContainingType)
	}
	return f.ExpressionStatement(f.Assign(f.Field(receiver, n.Field), value))
}

func (p *controlFlowLowerer) VisitForEachStatement(n *bound.ForEachStatement, sc bound.Scope) bound.Node {
	collection := unwrapCollection(n.Expression)
	ct := collection.GetType()

	var loop bound.Statement
	switch {
	case ct.IsSZArray():
		loop = p.indexedForEach(n, sc, collection,
			func(f *bound.Factory, c bound.Expression) bound.Expression { return f.ArrayLength(c) },
			func(f *bound.Factory, c, i bound.Expression) bound.Expression { return f.ArrayAccess(c, i) })
	case ct.IsArray():
		panic(errors.NotImplemented("foreach over a multi-dimensional array"))
	case ct.Special == symbols.SpecialString:
		loop = p.indexedForEach(n, sc, collection,
			func(f *bound.Factory, c bound.Expression) bound.Expression {
				return f.Call(c, f.SpecialMember(symbols.StringGetLength))
			},
			func(f *bound.Factory, c, i bound.Expression) bound.Expression {
				return f.Call(c, f.SpecialMember(symbols.StringGetChars), i)
			})
	default:
		loop = p.enumeratorForEach(n, sc)
	}

	// The synthesized loop still holds the unvisited collection and body.
	return p.Visit(loop, sc)
}

// unwrapCollection looks through an identity or implicit reference conversion
// applied to an array or string collection, so the loop indexes the
// collection's own type.
func unwrapCollection(e bound.Expression) bound.Expression {
	for {
		c, ok := e.(*bound.Conversion)
		if !ok || (c.Kind != bound.ConversionIdentity && c.Kind != bound.ConversionImplicitReference) {
			return e
		}
		ot := c.Operand.GetType()
		if !ot.IsArray() && ot.Special != symbols.SpecialString {
			return e
		}
		e = c.Operand
	}
}

// iterationBody builds { var x = (T)element; body } with x scoped to a
// single iteration.
func (p *controlFlowLowerer) iterationBody(n *bound.ForEachStatement, element bound.Expression) *bound.Block {
	f := p.f
	x := n.IterationVariable
	value := f.Convert(element, x.Type, n.ElementConversion, n.ElementConversion.IsExplicit())
	return f.BlockWithLocals([]*symbols.LocalSymbol{x},
		f.ExpressionStatement(f.Assign(f.Local(x), value)),
		n.Body)
}

// indexedForEach lowers foreach over a single-dimensional array or string to
//
//	for (a = collection, p = 0; p < length(a); p = p + 1) { x = element(a, p); body }
func (p *controlFlowLowerer) indexedForEach(
	n *bound.ForEachStatement,
	sc bound.Scope,
	collection bound.Expression,
	length func(*bound.Factory, bound.Expression) bound.Expression,
	element func(f *bound.Factory, c, i bound.Expression) bound.Expression,
) bound.Statement {
	f := at(p.f, n)
	intType := f.SpecialType(symbols.SpecialInt32)
	boolType := f.SpecialType(symbols.SpecialBoolean)

	a := f.Temp(sc, collection.GetType(), symbols.RefNone)
	idx := f.Temp(sc, intType, symbols.RefNone)

	init := f.Block(
		f.ExpressionStatement(f.Assign(f.Local(a), collection)),
		f.ExpressionStatement(f.Assign(f.Local(idx), f.Int32(0))))
	cond := f.Binary(bound.IntLessThan, f.Local(idx), length(f, f.Local(a)), boolType)
	incr := f.ExpressionStatement(f.Assign(f.Local(idx),
		f.Binary(bound.IntAddition, f.Local(idx), f.Int32(1), intType)))

	return &bound.ForStatement{
		StmtInfo:      n.StmtInfo,
		Locals:        []*symbols.LocalSymbol{a, idx},
		Initializer:   init,
		Condition:     cond,
		Increment:     incr,
		Body:          p.iterationBody(n, element(f, f.Local(a), f.Local(idx))),
		BreakLabel:    n.BreakLabel,
		ContinueLabel: n.ContinueLabel,
	}
}

// enumeratorForEach lowers foreach over the enumerator pattern to
//
//	e = collection.GetEnumerator();
//	try { while (e.MoveNext()) { x = (T)e.Current; body } }
//	finally { dispose e }
//
// The try is omitted when the enumerator cannot be disposable.
func (p *controlFlowLowerer) enumeratorForEach(n *bound.ForEachStatement, sc bound.Scope) bound.Statement {
	info := n.Enumerator
	if info == nil {
		panic(errors.Unreachable("foreach over %s without enumerator information", n.Expression.GetType()))
	}

	f := at(p.f, n)
	e := f.Temp(sc, info.EnumeratorType, symbols.RefNone)

	get := f.Call(n.Expression, info.GetEnumerator)
	if info.GetEnumerator.IsStatic {
		// An extension GetEnumerator takes the collection as its argument.
		if len(info.GetEnumerator.Parameters) != 1 {
			panic(errors.Unreachable("static %s does not take the collection", info.GetEnumerator))
		}
		get = f.Call(nil, info.GetEnumerator, n.Expression)
	}
	init := f.ExpressionStatement(f.Assign(f.Local(e), get))

	current := f.Call(f.Local(e), info.Current.Getter)
	loop := &bound.WhileStatement{
		StmtInfo:      n.StmtInfo,
		Condition:     f.Call(f.Local(e), info.MoveNext),
		Body:          p.iterationBody(n, current),
		BreakLabel:    n.BreakLabel,
		ContinueLabel: n.ContinueLabel,
	}

	disposal := p.enumeratorDisposal(sc, e)
	if disposal == nil {
		return f.BlockWithLocals([]*symbols.LocalSymbol{e}, init, loop)
	}
	return f.BlockWithLocals([]*symbols.LocalSymbol{e}, init, f.Try(f.Block(loop), disposal))
}

// enumeratorDisposal builds the finally block disposing e, or returns nil
// when e's type is sealed and not disposable.
func (p *controlFlowLowerer) enumeratorDisposal(sc bound.Scope, e *symbols.LocalSymbol) *bound.Block {
	f := p.f
	disposable := f.SpecialType(symbols.SpecialIDisposable)
	dispose := f.SpecialMember(symbols.IDisposableDispose)
	et := e.Type

	if et.Implements(disposable) {
		kind := bound.ConversionImplicitReference
		if symbols.Identical(et, disposable) {
			kind = bound.ConversionIdentity
		} else if !et.IsReferenceType() {
			kind = bound.ConversionBoxing
		}
		call := f.ExpressionStatement(f.Call(f.Convert(f.Local(e), disposable, kind, false), dispose))
		if et.IsNonNullableValueType() {
			return f.Block(call)
		}
		return f.Block(f.If(p.notNull(f.Local(e)), call))
	}

	if et.Sealed || et.IsValueType() {
		return nil
	}

	// The dynamic type may still be disposable.
	d := f.Temp(sc, disposable, symbols.RefNone)
	kind := bound.ConversionExplicitReference
	if !et.IsReferenceType() {
		kind = bound.ConversionBoxing
	}
	return f.BlockWithLocals([]*symbols.LocalSymbol{d},
		f.ExpressionStatement(f.Assign(f.Local(d), f.As(f.Local(e), disposable, kind))),
		f.If(p.notNull(f.Local(d)), f.ExpressionStatement(f.Call(f.Local(d), dispose))))
}

// notNull builds e != null, boxing e first when its type is an unconstrained
// type parameter.
func (p *controlFlowLowerer) notNull(e bound.Expression) bound.Expression {
	f := p.f
	if e.GetType().IsUnconstrainedTypeParameter() {
		e = f.Convert(e, f.SpecialType(symbols.SpecialObject), bound.ConversionBoxing, false)
	}
	return f.ObjectNotEqual(e)
}
