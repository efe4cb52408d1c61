package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

type nullCheckOptimizer struct {
	bound.Rewriter
	f *bound.Factory
}

// OptimizeNullChecks replaces `x is T` by `x != null` and `x as T` by `x`
// when x's static type is the reference type T itself.
func OptimizeNullChecks(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	p := &nullCheckOptimizer{f: f}
	p.Self = p
	return p.VisitStatement(body, sc)
}

// reducibleToNullCheck reports whether a type test of operand against target
// can only fail when operand is null. Nullable value types are left alone.
func reducibleToNullCheck(operand bound.Expression, target *symbols.TypeSymbol) bool {
	t := operand.GetType()
	return !t.IsValueType() && !t.IsNullable() && symbols.Identical(t, target)
}

func (p *nullCheckOptimizer) VisitIsOperator(n *bound.IsOperator, sc bound.Scope) bound.Node {
	operand := p.VisitExpression(n.Operand, sc)
	if n.Constant != nil || !reducibleToNullCheck(operand, n.TargetType) {
		return n.Update(operand)
	}

	f := at(p.f, n)
	if operand.GetType().IsUnconstrainedTypeParameter() {
		operand = f.Convert(operand, f.SpecialType(symbols.SpecialObject), bound.ConversionBoxing, true)
	}
	cmp := f.ObjectNotEqual(operand)
	cmp.Type = n.Type
	return cmp
}

func (p *nullCheckOptimizer) VisitAsOperator(n *bound.AsOperator, sc bound.Scope) bound.Node {
	operand := p.VisitExpression(n.Operand, sc)
	if n.Constant != nil || !reducibleToNullCheck(operand, n.TargetType) {
		return n.Update(operand)
	}
	return operand
}
