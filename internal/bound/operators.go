package bound

import "strings"

// BinaryOperatorKind packs an operator, the operand category it was resolved
// for, and the checked-arithmetic flag.
type BinaryOperatorKind uint32

// Binary operators.
const (
	Addition BinaryOperatorKind = iota + 1
	Subtraction
	Multiplication
	Division
	Remainder
	LeftShift
	RightShift
	Equal
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	And
	Or
	Xor
	LogicalAnd
	LogicalOr

	binaryOpMask BinaryOperatorKind = 0xFF
)

// Operand categories of a binary operator.
const (
	Int BinaryOperatorKind = (iota + 1) << 8
	UInt
	Long
	ULong
	Float
	Double
	Decimal
	Bool
	String
	StringAndObject
	ObjectAndString
	Object
	Delegate
	Enum
	EnumAndUnderlying
	UnderlyingAndEnum
	Pointer
	UserDefined

	binaryTypeMask BinaryOperatorKind = 0xFF00
)

// Checked marks arithmetic that traps on overflow.
const Checked BinaryOperatorKind = 1 << 16

// Frequently used combinations.
const (
	IntAddition         = Int | Addition
	IntLessThan         = Int | LessThan
	ObjectEqual         = Object | Equal
	ObjectNotEqual      = Object | NotEqual
	StringConcatenation = String | Addition
	StringEqual         = String | Equal
	StringNotEqual      = String | NotEqual
	DelegateCombination = Delegate | Addition
	DelegateRemoval     = Delegate | Subtraction
	DelegateEqual       = Delegate | Equal
	DelegateNotEqual    = Delegate | NotEqual
	DecimalAddition     = Decimal | Addition
	DecimalSubtraction  = Decimal | Subtraction
	StringObjectConcat  = StringAndObject | Addition
	ObjectStringConcat  = ObjectAndString | Addition
)

// Operator returns the operator without its operand category.
func (k BinaryOperatorKind) Operator() BinaryOperatorKind { return k & binaryOpMask }

// OperandTypes returns the operand category.
func (k BinaryOperatorKind) OperandTypes() BinaryOperatorKind { return k & binaryTypeMask }

// IsChecked reports whether the operator traps on overflow.
func (k BinaryOperatorKind) IsChecked() bool { return k&Checked != 0 }

// WithType replaces the operand category.
func (k BinaryOperatorKind) WithType(t BinaryOperatorKind) BinaryOperatorKind {
	return k&^binaryTypeMask | t&binaryTypeMask
}

// IsComparison reports whether the operator yields bool from non-bool operands.
func (k BinaryOperatorKind) IsComparison() bool {
	switch k.Operator() {
	case Equal, NotEqual, LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// IsStringConcatenation reports whether k is one of the string + forms.
func (k BinaryOperatorKind) IsStringConcatenation() bool {
	if k.Operator() != Addition {
		return false
	}
	switch k.OperandTypes() {
	case String, StringAndObject, ObjectAndString:
		return true
	}
	return false
}

var binaryOpNames = map[BinaryOperatorKind]string{
	Addition: "+", Subtraction: "-", Multiplication: "*", Division: "/", Remainder: "%",
	LeftShift: "<<", RightShift: ">>", Equal: "==", NotEqual: "!=", LessThan: "<",
	LessThanOrEqual: "<=", GreaterThan: ">", GreaterThanOrEqual: ">=", And: "&", Or: "|",
	Xor: "^", LogicalAnd: "&&", LogicalOr: "||",
}

var binaryTypeNames = map[BinaryOperatorKind]string{
	Int: "int", UInt: "uint", Long: "long", ULong: "ulong", Float: "float", Double: "double",
	Decimal: "decimal", Bool: "bool", String: "string", StringAndObject: "string,object",
	ObjectAndString: "object,string", Object: "object", Delegate: "delegate", Enum: "enum",
	EnumAndUnderlying: "enum,underlying", UnderlyingAndEnum: "underlying,enum",
	Pointer: "pointer", UserDefined: "user",
}

// Symbol returns the source token of the operator.
func (k BinaryOperatorKind) Symbol() string { return binaryOpNames[k.Operator()] }

func (k BinaryOperatorKind) String() string {
	var b strings.Builder
	b.WriteString(binaryOpNames[k.Operator()])
	if t, ok := binaryTypeNames[k.OperandTypes()]; ok {
		b.WriteString("[" + t + "]")
	}
	if k.IsChecked() {
		b.WriteString("!")
	}
	return b.String()
}

// UnaryOperatorKind packs a unary operator, its operand category (shared with
// BinaryOperatorKind) and the checked flag.
type UnaryOperatorKind uint32

// Unary operators.
const (
	UnaryPlus UnaryOperatorKind = iota + 1
	UnaryMinus
	LogicalNegation
	BitwiseComplement
	PrefixIncrement
	PostfixIncrement
	PrefixDecrement
	PostfixDecrement

	unaryOpMask UnaryOperatorKind = 0xFF
)

// Operator returns the operator without its operand category.
func (k UnaryOperatorKind) Operator() UnaryOperatorKind { return k & unaryOpMask }

// OperandTypes returns the operand category using the binary category constants.
func (k UnaryOperatorKind) OperandTypes() BinaryOperatorKind {
	return BinaryOperatorKind(k) & binaryTypeMask
}

// IsChecked reports whether the operator traps on overflow.
func (k UnaryOperatorKind) IsChecked() bool { return BinaryOperatorKind(k)&Checked != 0 }

// IsPrefix reports whether k is ++x or --x.
func (k UnaryOperatorKind) IsPrefix() bool {
	op := k.Operator()
	return op == PrefixIncrement || op == PrefixDecrement
}

// IsIncrement reports whether k adds one.
func (k UnaryOperatorKind) IsIncrement() bool {
	op := k.Operator()
	return op == PrefixIncrement || op == PostfixIncrement
}

// IsIncrementOrDecrement reports whether k is one of the four mutating operators.
func (k UnaryOperatorKind) IsIncrementOrDecrement() bool {
	switch k.Operator() {
	case PrefixIncrement, PostfixIncrement, PrefixDecrement, PostfixDecrement:
		return true
	}
	return false
}

// UnaryWithType builds a unary kind from an operator and operand category.
func UnaryWithType(op UnaryOperatorKind, t BinaryOperatorKind) UnaryOperatorKind {
	return op | UnaryOperatorKind(t&binaryTypeMask)
}

var unaryOpNames = map[UnaryOperatorKind]string{
	UnaryPlus: "+", UnaryMinus: "-", LogicalNegation: "!", BitwiseComplement: "~",
	PrefixIncrement: "++pre", PostfixIncrement: "post++", PrefixDecrement: "--pre",
	PostfixDecrement: "post--",
}

func (k UnaryOperatorKind) String() string {
	s := unaryOpNames[k.Operator()]
	if t, ok := binaryTypeNames[k.OperandTypes()]; ok {
		s += "[" + t + "]"
	}
	if k.IsChecked() {
		s += "!"
	}
	return s
}

// ConversionKind classifies a conversion.
type ConversionKind int

const (
	ConversionIdentity ConversionKind = iota
	ConversionImplicitNumeric
	ConversionExplicitNumeric
	ConversionImplicitEnumeration
	ConversionExplicitEnumeration
	ConversionImplicitNullable
	ConversionExplicitNullable
	ConversionNullLiteral
	ConversionImplicitReference
	ConversionExplicitReference
	ConversionBoxing
	ConversionUnboxing
	ConversionImplicitUserDefined
	ConversionExplicitUserDefined
	ConversionImplicitDynamic
	ConversionExplicitDynamic
	ConversionMethodGroup
	ConversionAnonymousFunction
	ConversionImplicitConstant
)

var conversionNames = [...]string{
	ConversionIdentity:            "identity",
	ConversionImplicitNumeric:     "implicit-numeric",
	ConversionExplicitNumeric:     "explicit-numeric",
	ConversionImplicitEnumeration: "implicit-enum",
	ConversionExplicitEnumeration: "explicit-enum",
	ConversionImplicitNullable:    "implicit-nullable",
	ConversionExplicitNullable:    "explicit-nullable",
	ConversionNullLiteral:         "null-literal",
	ConversionImplicitReference:   "implicit-ref",
	ConversionExplicitReference:   "explicit-ref",
	ConversionBoxing:              "boxing",
	ConversionUnboxing:            "unboxing",
	ConversionImplicitUserDefined: "implicit-user",
	ConversionExplicitUserDefined: "explicit-user",
	ConversionImplicitDynamic:     "implicit-dynamic",
	ConversionExplicitDynamic:     "explicit-dynamic",
	ConversionMethodGroup:         "method-group",
	ConversionAnonymousFunction:   "lambda",
	ConversionImplicitConstant:    "implicit-const",
}

func (k ConversionKind) String() string {
	if k >= 0 && int(k) < len(conversionNames) {
		return conversionNames[k]
	}
	return "conversion?"
}

// IsNumeric reports whether k converts between numeric types.
func (k ConversionKind) IsNumeric() bool {
	return k == ConversionImplicitNumeric || k == ConversionExplicitNumeric || k == ConversionImplicitConstant
}

// IsExplicit reports whether k is only available as a cast.
func (k ConversionKind) IsExplicit() bool {
	switch k {
	case ConversionExplicitNumeric, ConversionExplicitEnumeration, ConversionExplicitNullable,
		ConversionExplicitReference, ConversionUnboxing, ConversionExplicitUserDefined, ConversionExplicitDynamic:
		return true
	}
	return false
}

// IsUserDefined reports whether k calls a user-defined operator.
func (k ConversionKind) IsUserDefined() bool {
	return k == ConversionImplicitUserDefined || k == ConversionExplicitUserDefined
}

func lookupName[K comparable](names map[K]string, s string) (K, bool) {
	for k, n := range names {
		if n == s {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// ParseBinaryOperator builds a binary kind from its printed operator token and
// operand category ("+" and "int", "==" and "string,object"). An empty
// category leaves it unset.
func ParseBinaryOperator(op, operands string, checked bool) (BinaryOperatorKind, bool) {
	k, ok := lookupName(binaryOpNames, op)
	if !ok {
		return 0, false
	}
	if operands != "" {
		t, ok := lookupName(binaryTypeNames, operands)
		if !ok {
			return 0, false
		}
		k |= t
	}
	if checked {
		k |= Checked
	}
	return k, true
}

// ParseUnaryOperator is the unary counterpart of ParseBinaryOperator; the
// increment forms are spelled "++pre", "post++", "--pre" and "post--".
func ParseUnaryOperator(op, operands string, checked bool) (UnaryOperatorKind, bool) {
	k, ok := lookupName(unaryOpNames, op)
	if !ok {
		return 0, false
	}
	if operands != "" {
		t, ok := lookupName(binaryTypeNames, operands)
		if !ok {
			return 0, false
		}
		k = UnaryWithType(k, t)
	}
	if checked {
		k |= UnaryOperatorKind(Checked)
	}
	return k, true
}

// ParseConversionKind returns the kind printed as s.
func ParseConversionKind(s string) (ConversionKind, bool) {
	for k, n := range conversionNames {
		if n == s {
			return ConversionKind(k), true
		}
	}
	return 0, false
}
