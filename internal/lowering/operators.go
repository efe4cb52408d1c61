package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

type operatorLowerer struct {
	bound.Rewriter
	f       *bound.Factory
	numeric *decimalLowerer
}

// LowerOperators lowers compound assignment, conditional and null-coalescing
// operators, and the string and delegate binary operators.
func LowerOperators(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	p := &operatorLowerer{f: f, numeric: newDecimalLowerer(f)}
	p.Self = p
	return p.VisitStatement(body, sc)
}

// HookExpression folds operator and conversion nodes that already carry a
// constant value. Decimal values stay as constructor calls.
func (p *operatorLowerer) HookExpression(e bound.Expression, sc bound.Scope) (bound.Expression, bool) {
	switch e.(type) {
	case *bound.BinaryOperator, *bound.Conversion:
	default:
		return nil, false
	}
	c := e.GetConstant()
	if c == nil || c.IsBad() || c.Kind() == constant.KindDecimal {
		return nil, false
	}
	return at(p.f, e).Literal(c, e.GetType()), true
}

func (p *operatorLowerer) VisitCompoundAssignment(n *bound.CompoundAssignment, sc bound.Scope) bound.Node {
	f := at(p.f, n)
	var s spill
	target := s.location(f, sc, n.Left)
	leftType := n.Left.GetType()
	op := n.Operator

	// target = (T)((L)target op right)
	operand := f.Convert(target, op.LeftType, n.LeftConversion, n.LeftConversion.IsExplicit())
	bin := f.Binary(op.Kind, operand, n.Right, op.ReturnType)
	bin.Method = op.Method
	value := f.Convert(bin, leftType, n.FinalConversion, n.FinalConversion.IsExplicit())
	lowered := s.wrap(f, nil, nil, f.Assign(target, value))

	// The manufactured operator and conversions may be decimal; the
	// decimal pass has already run over the rest of the body.
	lowered = p.numeric.VisitExpression(lowered, sc)
	return p.VisitExpression(lowered, sc)
}

func (p *operatorLowerer) VisitConditionalOperator(n *bound.ConditionalOperator, sc bound.Scope) bound.Node {
	cond := p.VisitExpression(n.Condition, sc)
	if c := cond.GetConstant(); c.IsBoolean() {
		if c.BooleanValue() {
			return p.VisitExpression(n.Consequence, sc)
		}
		return p.VisitExpression(n.Alternative, sc)
	}

	cons := p.VisitExpression(n.Consequence, sc)
	alt := p.VisitExpression(n.Alternative, sc)
	if n.Type.IsInterface() && isImplicitReference(cons) && isImplicitReference(alt) {
		// One explicit branch is enough for the verifier to merge the
		// two stack types.
		conv := *cons.(*bound.Conversion)
		conv.Kind = bound.ConversionExplicitReference
		conv.Explicit = true
		cons = &conv
	}
	return n.Update(cond, cons, alt)
}

func (p *operatorLowerer) VisitNullCoalescing(n *bound.NullCoalescing, sc bound.Scope) bound.Node {
	left := p.VisitExpression(n.Left, sc)
	if c := left.GetConstant(); c != nil && !c.IsBad() {
		if c.IsNull() {
			return p.VisitExpression(n.Right, sc)
		}
		return at(p.f, n).Convert(left, n.Type, n.LeftConversion, n.LeftConversionExplicit)
	}

	right := p.VisitExpression(n.Right, sc)
	out := n.Update(left, right)
	if n.Type.IsInterface() && n.LeftConversion == bound.ConversionImplicitReference && isImplicitReference(right) {
		if out == n {
			c := *n
			out = &c
		}
		out.LeftConversion = bound.ConversionExplicitReference
		out.LeftConversionExplicit = true
	}
	return out
}

func isImplicitReference(e bound.Expression) bool {
	c, ok := e.(*bound.Conversion)
	return ok && c.Kind == bound.ConversionImplicitReference
}

func (p *operatorLowerer) VisitBinaryOperator(n *bound.BinaryOperator, sc bound.Scope) bound.Node {
	left := p.VisitExpression(n.Left, sc)
	right := p.VisitExpression(n.Right, sc)
	if n.Method != nil {
		return n.Update(left, right)
	}

	f := at(p.f, n)
	switch n.Op.OperandTypes() {
	case bound.String, bound.StringAndObject, bound.ObjectAndString:
		switch n.Op.Operator() {
		case bound.Addition:
			return p.concat(f, n.Op, left, right)
		case bound.Equal, bound.NotEqual:
			return p.stringEquality(f, n, left, right)
		}

	case bound.Delegate:
		if m, ok := delegateMembers[n.Op.Operator()]; ok {
			del := f.SpecialType(symbols.SpecialDelegate)
			call := f.StaticCall(m, toReference(f, left, del), toReference(f, right, del))
			if !symbols.Identical(call.Type, n.Type) {
				return f.Convert(call, n.Type, bound.ConversionExplicitReference, true)
			}
			return call
		}
	}
	return n.Update(left, right)
}

var delegateMembers = map[bound.BinaryOperatorKind]symbols.SpecialMember{
	bound.Addition:    symbols.DelegateCombine,
	bound.Subtraction: symbols.DelegateRemove,
	bound.Equal:       symbols.DelegateOpEquality,
	bound.NotEqual:    symbols.DelegateOpInequality,
}

func (p *operatorLowerer) concat(f *bound.Factory, op bound.BinaryOperatorKind, left, right bound.Expression) bound.Expression {
	if op.OperandTypes() == bound.String {
		return f.StaticCall(symbols.StringConcatStringString, left, right)
	}
	obj := f.SpecialType(symbols.SpecialObject)
	return f.StaticCall(symbols.StringConcatObjectObject, toReference(f, left, obj), toReference(f, right, obj))
}

// stringEquality calls the library equality operator unless one side is the
// null constant, where a reference comparison gives the same answer.
func (p *operatorLowerer) stringEquality(f *bound.Factory, n *bound.BinaryOperator, left, right bound.Expression) bound.Expression {
	equal := n.Op.Operator() == bound.Equal
	if left.GetConstant().IsNull() || right.GetConstant().IsNull() {
		op := bound.ObjectNotEqual
		if equal {
			op = bound.ObjectEqual
		}
		return f.Binary(op, left, right, n.Type)
	}
	if equal {
		return f.StaticCall(symbols.StringOpEquality, left, right)
	}
	return f.StaticCall(symbols.StringOpInequality, left, right)
}

// toReference converts e to the reference type t, boxing value types.
func toReference(f *bound.Factory, e bound.Expression, t *symbols.TypeSymbol) bound.Expression {
	et := e.GetType()
	switch {
	case symbols.Identical(et, t):
		return e
	case et.IsValueType() || et.IsUnconstrainedTypeParameter():
		return f.Convert(e, t, bound.ConversionBoxing, false)
	}
	return f.Convert(e, t, bound.ConversionImplicitReference, false)
}
