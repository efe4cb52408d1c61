package lowering

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// decimalLowerer turns decimal constants, conversions and operators into
// runtime library calls.
type decimalLowerer struct {
	bound.Rewriter
	f *bound.Factory
}

func newDecimalLowerer(f *bound.Factory) *decimalLowerer {
	p := &decimalLowerer{f: f}
	p.Self = p
	return p
}

// LowerDecimals rewrites every use of the decimal type that has no machine
// representation into constructor and operator method calls.
func LowerDecimals(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	return newDecimalLowerer(f).VisitStatement(body, sc)
}

// HookExpression replaces any expression with a decimal constant value by a
// constructor call. The call keeps the constant so later consumers can still
// read the value.
func (p *decimalLowerer) HookExpression(e bound.Expression, sc bound.Scope) (bound.Expression, bool) {
	c := e.GetConstant()
	if c == nil || c.Kind() != constant.KindDecimal {
		return nil, false
	}
	if _, done := e.(*bound.ObjectCreation); done {
		return nil, false
	}
	return p.decimalConstant(at(p.f, e), c, e.GetType()), true
}

// decimalConstant picks the narrowest constructor that reproduces c exactly:
// parameterless, int32, uint32, int64, uint64, then (lo, mid, hi, negative, scale).
func (p *decimalLowerer) decimalConstant(f *bound.Factory, c *constant.Value, t *symbols.TypeSymbol) bound.Expression {
	d := c.DecimalValue()
	mag := new(big.Int).Set(d.Coefficient())
	negative := mag.Sign() < 0
	mag.Abs(mag)

	scale := int64(0)
	if exp := d.Exponent(); exp < 0 {
		scale = int64(-exp)
	} else if exp > 0 {
		mag.Mul(mag, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	}

	var out *bound.ObjectCreation
	if scale == 0 {
		signed := new(big.Int).Set(mag)
		if negative {
			signed.Neg(signed)
		}
		switch {
		case signed.Sign() == 0 && !negative:
			out = f.New(f.SpecialMember(symbols.DecimalCtor), t)
		case fitsSigned(signed, math.MinInt32, math.MaxInt32):
			out = f.New(f.SpecialMember(symbols.DecimalCtorInt32), t,
				f.Literal(constant.Int32(int32(signed.Int64())), f.SpecialType(symbols.SpecialInt32)))
		case !negative && signed.IsUint64() && signed.Uint64() <= math.MaxUint32:
			out = f.New(f.SpecialMember(symbols.DecimalCtorUInt32), t,
				f.Literal(constant.UInt32(uint32(signed.Uint64())), f.SpecialType(symbols.SpecialUInt32)))
		case signed.IsInt64():
			out = f.New(f.SpecialMember(symbols.DecimalCtorInt64), t,
				f.Literal(constant.Int64(signed.Int64()), f.SpecialType(symbols.SpecialInt64)))
		case !negative && signed.IsUint64():
			out = f.New(f.SpecialMember(symbols.DecimalCtorUInt64), t,
				f.Literal(constant.UInt64(signed.Uint64()), f.SpecialType(symbols.SpecialUInt64)))
		}
	}

	if out == nil {
		if mag.BitLen() > 96 || scale > 28 {
			panic(errors.Unreachable("decimal constant %s does not fit 96 bits with scale <= 28", c))
		}
		words := decimalWords(mag)
		int32Type := f.SpecialType(symbols.SpecialInt32)
		out = f.New(f.SpecialMember(symbols.DecimalCtorInt32Int32Int32BooleanByte), t,
			f.Literal(constant.Int32(int32(words[0])), int32Type),
			f.Literal(constant.Int32(int32(words[1])), int32Type),
			f.Literal(constant.Int32(int32(words[2])), int32Type),
			f.Bool(negative),
			f.Literal(constant.Unsigned(constant.KindByte, uint64(scale)), f.SpecialType(symbols.SpecialByte)))
	}

	out.Constant = c
	return out
}

func fitsSigned(v *big.Int, lo, hi int64) bool {
	return v.IsInt64() && v.Int64() >= lo && v.Int64() <= hi
}

// decimalWords splits a 96-bit magnitude into its low, middle and high
// 32-bit words.
func decimalWords(mag *big.Int) [3]uint32 {
	var words [3]uint32
	m := new(big.Int).Set(mag)
	mask := big.NewInt(0xFFFFFFFF)
	for i := range words {
		words[i] = uint32(new(big.Int).And(m, mask).Uint64())
		m.Rsh(m, 32)
	}
	return words
}

// decimalFromParts rebuilds the value a five-argument decimal constructor
// call denotes.
func decimalFromParts(lo, mid, hi int32, negative bool, scale uint8) decimal.Decimal {
	mag := new(big.Int).SetUint64(uint64(uint32(hi)))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(uint32(mid))))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(uint32(lo))))
	if negative {
		mag.Neg(mag)
	}
	return decimal.NewFromBigInt(mag, -int32(scale))
}

func (p *decimalLowerer) VisitConversion(n *bound.Conversion, sc bound.Scope) bound.Node {
	operand := p.VisitExpression(n.Operand, sc)
	from, to := operand.GetType(), n.Type

	switch n.Kind {
	case bound.ConversionImplicitNumeric, bound.ConversionExplicitNumeric, bound.ConversionImplicitConstant,
		bound.ConversionImplicitEnumeration, bound.ConversionExplicitEnumeration:
	default:
		return n.Update(operand)
	}

	f := at(p.f, n)
	switch {
	case to.Special == symbols.SpecialDecimal && from.Special != symbols.SpecialDecimal:
		if from.IsEnum() {
			operand = f.Convert(operand, from.EnumUnderlying, bound.ConversionExplicitEnumeration, true)
			from = from.EnumUnderlying
		}
		m, ok := corlib.DecimalConversionsFrom[from.Special]
		if !ok {
			panic(errors.Unreachable("no conversion from %s to decimal", from))
		}
		return f.StaticCall(m, operand)

	case from.Special == symbols.SpecialDecimal && to.Special != symbols.SpecialDecimal:
		target := to
		if to.IsEnum() {
			target = to.EnumUnderlying
		}
		m, ok := corlib.DecimalConversionsTo[target.Special]
		if !ok {
			panic(errors.Unreachable("no conversion from decimal to %s", to))
		}
		call := f.StaticCall(m, operand)
		if to.IsEnum() {
			return f.Convert(call, to, bound.ConversionExplicitEnumeration, true)
		}
		return call
	}
	return n.Update(operand)
}

var decimalBinaryMembers = map[bound.BinaryOperatorKind]symbols.SpecialMember{
	bound.Addition:           symbols.DecimalOpAddition,
	bound.Subtraction:        symbols.DecimalOpSubtraction,
	bound.Multiplication:     symbols.DecimalOpMultiply,
	bound.Division:           symbols.DecimalOpDivision,
	bound.Remainder:          symbols.DecimalOpModulus,
	bound.Equal:              symbols.DecimalOpEquality,
	bound.NotEqual:           symbols.DecimalOpInequality,
	bound.LessThan:           symbols.DecimalOpLessThan,
	bound.LessThanOrEqual:    symbols.DecimalOpLessThanOrEqual,
	bound.GreaterThan:        symbols.DecimalOpGreaterThan,
	bound.GreaterThanOrEqual: symbols.DecimalOpGreaterThanOrEqual,
}

func (p *decimalLowerer) VisitBinaryOperator(n *bound.BinaryOperator, sc bound.Scope) bound.Node {
	left := p.VisitExpression(n.Left, sc)
	right := p.VisitExpression(n.Right, sc)
	if n.Op.OperandTypes() != bound.Decimal {
		return n.Update(left, right)
	}
	m, ok := decimalBinaryMembers[n.Op.Operator()]
	if !ok {
		panic(errors.Unreachable("no decimal operator for %s", n.Op))
	}
	return at(p.f, n).StaticCall(m, left, right)
}

func (p *decimalLowerer) VisitUnaryOperator(n *bound.UnaryOperator, sc bound.Scope) bound.Node {
	operand := p.VisitExpression(n.Operand, sc)
	if n.Op.OperandTypes() != bound.Decimal {
		return n.Update(operand)
	}
	switch n.Op.Operator() {
	case bound.UnaryPlus:
		return operand
	case bound.UnaryMinus:
		return at(p.f, n).StaticCall(symbols.DecimalOpUnaryNegation, operand)
	}
	panic(errors.Unreachable("no decimal operator for %s", n.Op))
}
