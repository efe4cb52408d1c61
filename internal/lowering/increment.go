package lowering

import (
	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

type incrementLowerer struct {
	bound.Rewriter
	f *bound.Factory
}

// LowerIncrements rewrites ++ and -- into explicit temp-capture, arithmetic
// and assignment sequences.
func LowerIncrements(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	p := &incrementLowerer{f: f}
	p.Self = p
	return p.VisitStatement(body, sc)
}

// arithmetic describes how one is added to a value of some operand type.
type arithmetic struct {
	kind bound.BinaryOperatorKind // operand category
	typ  *symbols.TypeSymbol      // type the addition is performed in
	one  *constant.Value
}

func (p *incrementLowerer) arithmeticFor(t *symbols.TypeSymbol) arithmetic {
	f := p.f
	if t.IsEnum() {
		return p.arithmeticFor(t.EnumUnderlying)
	}
	switch t.Special {
	case symbols.SpecialSByte, symbols.SpecialByte, symbols.SpecialInt16, symbols.SpecialUInt16,
		symbols.SpecialChar, symbols.SpecialInt32:
		return arithmetic{bound.Int, f.SpecialType(symbols.SpecialInt32), constant.Int32(1)}
	case symbols.SpecialUInt32:
		return arithmetic{bound.UInt, t, constant.UInt32(1)}
	case symbols.SpecialInt64:
		return arithmetic{bound.Long, t, constant.Int64(1)}
	case symbols.SpecialUInt64:
		return arithmetic{bound.ULong, t, constant.UInt64(1)}
	case symbols.SpecialSingle:
		return arithmetic{bound.Float, t, constant.Single(1)}
	case symbols.SpecialDouble:
		return arithmetic{bound.Double, t, constant.Double(1)}
	case symbols.SpecialDecimal:
		return arithmetic{bound.Decimal, t, constant.Decimal(decimal.NewFromInt(1))}
	}
	panic(errors.Unreachable("no increment arithmetic for %s", t))
}

func (p *incrementLowerer) VisitIncrementOperator(n *bound.IncrementOperator, sc bound.Scope) bound.Node {
	t := n.Operand.GetType()
	switch {
	case n.Method != nil || n.Op.OperandTypes() == bound.UserDefined:
		panic(errors.NotImplemented("user-defined increment and decrement operators"))
	case t.IsPointer() || n.Op.OperandTypes() == bound.Pointer:
		panic(errors.NotImplemented("pointer increment and decrement"))
	case t.IsNullable():
		panic(errors.NotImplemented("increment and decrement of nullable values"))
	}

	f := at(p.f, n)
	var s spill
	target := s.location(f, sc, n.Operand)

	ar := p.arithmeticFor(t)
	op := bound.Addition
	if !n.Op.IsIncrement() {
		op = bound.Subtraction
	}
	op |= ar.kind
	checked := n.Op.IsChecked()
	if checked {
		op |= bound.Checked
	}

	// step computes (T)((A)v op 1) where A is the arithmetic type.
	step := func(v bound.Expression) bound.Expression {
		in := p.widen(v, ar.typ)
		sum := f.Binary(op, in, f.Literal(ar.one, ar.typ), ar.typ)
		return p.narrow(sum, t, checked)
	}

	tmp := f.Temp(sc, t, symbols.RefNone)
	var effects []bound.Expression
	if n.Op.IsPrefix() {
		effects = []bound.Expression{
			f.Assign(f.Local(tmp), step(target)),
			f.Assign(target, f.Local(tmp)),
		}
	} else {
		effects = []bound.Expression{
			f.Assign(f.Local(tmp), target),
			f.Assign(target, step(f.Local(tmp))),
		}
	}

	seq := s.wrap(f, []*symbols.LocalSymbol{tmp}, effects, f.Local(tmp))
	// Receivers and indices captured above have not been visited yet.
	return p.Visit(seq, sc)
}

// widen converts v to the arithmetic type a.
func (p *incrementLowerer) widen(v bound.Expression, a *symbols.TypeSymbol) bound.Expression {
	vt := v.GetType()
	switch {
	case symbols.Identical(vt, a):
		return v
	case vt.IsEnum():
		return p.widen(p.f.Convert(v, vt.EnumUnderlying, bound.ConversionExplicitEnumeration, true), a)
	}
	return p.f.Convert(v, a, bound.ConversionImplicitNumeric, false)
}

// narrow converts the arithmetic result back to the operand type t.
func (p *incrementLowerer) narrow(v bound.Expression, t *symbols.TypeSymbol, checked bool) bound.Expression {
	vt := v.GetType()
	var out bound.Expression
	switch {
	case symbols.Identical(vt, t):
		return v
	case t.IsEnum():
		out = p.f.Convert(p.narrow(v, t.EnumUnderlying, checked), t, bound.ConversionExplicitEnumeration, true)
	default:
		out = p.f.Convert(v, t, bound.ConversionExplicitNumeric, true)
	}
	if c, ok := out.(*bound.Conversion); ok && checked && c.Kind == bound.ConversionExplicitNumeric {
		c.Checked = true
	}
	return out
}
