package bound

import (
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Literal is a constant value; Constant is always set.
type Literal struct {
	ExprInfo
}

func (n *Literal) Accept(v Visitor, sc Scope) Node { return v.VisitLiteral(n, sc) }

// LocalRef reads or designates a local variable.
type LocalRef struct {
	ExprInfo
	Local *symbols.LocalSymbol
}

func (n *LocalRef) Accept(v Visitor, sc Scope) Node { return v.VisitLocalRef(n, sc) }

// ParameterRef reads or designates a parameter.
type ParameterRef struct {
	ExprInfo
	Parameter *symbols.ParameterSymbol
}

func (n *ParameterRef) Accept(v Visitor, sc Scope) Node { return v.VisitParameterRef(n, sc) }

// ThisRef is the receiver of an instance method.
type ThisRef struct {
	ExprInfo
}

func (n *ThisRef) Accept(v Visitor, sc Scope) Node { return v.VisitThisRef(n, sc) }

// FieldAccess reads or designates a field. Receiver is nil for static fields.
type FieldAccess struct {
	ExprInfo
	Receiver Expression
	Field    *symbols.FieldSymbol
}

func (n *FieldAccess) Accept(v Visitor, sc Scope) Node { return v.VisitFieldAccess(n, sc) }

func (n *FieldAccess) Update(receiver Expression) *FieldAccess {
	if receiver == n.Receiver {
		return n
	}
	c := *n
	c.Receiver = receiver
	return &c
}

// PropertyAccess reads or designates a non-indexed property.
type PropertyAccess struct {
	ExprInfo
	Receiver Expression
	Property *symbols.PropertySymbol
}

func (n *PropertyAccess) Accept(v Visitor, sc Scope) Node { return v.VisitPropertyAccess(n, sc) }

func (n *PropertyAccess) Update(receiver Expression) *PropertyAccess {
	if receiver == n.Receiver {
		return n
	}
	c := *n
	c.Receiver = receiver
	return &c
}

// IndexerAccess reads or designates an indexed property.
type IndexerAccess struct {
	ExprInfo
	Receiver Expression
	Indexer  *symbols.PropertySymbol
	Args     ArgumentList
}

func (n *IndexerAccess) Accept(v Visitor, sc Scope) Node { return v.VisitIndexerAccess(n, sc) }

func (n *IndexerAccess) Update(receiver Expression, args []Expression) *IndexerAccess {
	if receiver == n.Receiver && sameExpressions(args, n.Args.Arguments) {
		return n
	}
	c := *n
	c.Receiver = receiver
	c.Args = n.Args.withArguments(args)
	return &c
}

// WithArgumentList replaces the whole argument list.
func (n *IndexerAccess) WithArgumentList(receiver Expression, args ArgumentList) *IndexerAccess {
	c := *n
	c.Receiver, c.Args = receiver, args
	return &c
}

// Call invokes Method. Receiver is nil for static methods.
type Call struct {
	ExprInfo
	Receiver Expression
	Method   *symbols.MethodSymbol
	Args     ArgumentList
}

func (n *Call) Accept(v Visitor, sc Scope) Node { return v.VisitCall(n, sc) }

func (n *Call) Update(receiver Expression, args []Expression) *Call {
	if receiver == n.Receiver && sameExpressions(args, n.Args.Arguments) {
		return n
	}
	c := *n
	c.Receiver = receiver
	c.Args = n.Args.withArguments(args)
	return &c
}

// WithArgumentList replaces the whole argument list.
func (n *Call) WithArgumentList(receiver Expression, args ArgumentList) *Call {
	c := *n
	c.Receiver, c.Args = receiver, args
	return &c
}

// DelegateCall invokes a delegate value through its Invoke method.
type DelegateCall struct {
	ExprInfo
	Receiver Expression
	Method   *symbols.MethodSymbol
	Args     ArgumentList
}

func (n *DelegateCall) Accept(v Visitor, sc Scope) Node { return v.VisitDelegateCall(n, sc) }

func (n *DelegateCall) Update(receiver Expression, args []Expression) *DelegateCall {
	if receiver == n.Receiver && sameExpressions(args, n.Args.Arguments) {
		return n
	}
	c := *n
	c.Receiver = receiver
	c.Args = n.Args.withArguments(args)
	return &c
}

// WithArgumentList replaces the whole argument list.
func (n *DelegateCall) WithArgumentList(receiver Expression, args ArgumentList) *DelegateCall {
	c := *n
	c.Receiver, c.Args = receiver, args
	return &c
}

// ObjectCreation invokes Constructor on a new instance of Type.
type ObjectCreation struct {
	ExprInfo
	Constructor *symbols.MethodSymbol
	Args        ArgumentList
}

func (n *ObjectCreation) Accept(v Visitor, sc Scope) Node { return v.VisitObjectCreation(n, sc) }

func (n *ObjectCreation) Update(args []Expression) *ObjectCreation {
	if sameExpressions(args, n.Args.Arguments) {
		return n
	}
	c := *n
	c.Args = n.Args.withArguments(args)
	return &c
}

// WithArgumentList replaces the whole argument list.
func (n *ObjectCreation) WithArgumentList(args ArgumentList) *ObjectCreation {
	c := *n
	c.Args = args
	return &c
}

// Conversion converts Operand to Type. Method is set for user-defined
// conversions and for the runtime-call forms decimal conversions lower to.
type Conversion struct {
	ExprInfo
	Operand  Expression
	Kind     ConversionKind
	Explicit bool
	Checked  bool
	Method   *symbols.MethodSymbol
}

func (n *Conversion) Accept(v Visitor, sc Scope) Node { return v.VisitConversion(n, sc) }

func (n *Conversion) Update(operand Expression) *Conversion {
	if operand == n.Operand {
		return n
	}
	c := *n
	c.Operand = operand
	return &c
}

// UnaryOperator is a non-mutating unary operator.
type UnaryOperator struct {
	ExprInfo
	Op      UnaryOperatorKind
	Operand Expression
	Method  *symbols.MethodSymbol
}

func (n *UnaryOperator) Accept(v Visitor, sc Scope) Node { return v.VisitUnaryOperator(n, sc) }

func (n *UnaryOperator) Update(operand Expression) *UnaryOperator {
	if operand == n.Operand {
		return n
	}
	c := *n
	c.Operand = operand
	return &c
}

// IncrementOperator is ++ or -- in prefix or postfix form.
type IncrementOperator struct {
	ExprInfo
	Op      UnaryOperatorKind
	Operand Expression
	Method  *symbols.MethodSymbol
}

func (n *IncrementOperator) Accept(v Visitor, sc Scope) Node {
	return v.VisitIncrementOperator(n, sc)
}

func (n *IncrementOperator) Update(operand Expression) *IncrementOperator {
	if operand == n.Operand {
		return n
	}
	c := *n
	c.Operand = operand
	return &c
}

// BinaryOperator applies Op to Left and Right. Method is set when Op is
// user-defined or after lowering to a runtime call.
type BinaryOperator struct {
	ExprInfo
	Op     BinaryOperatorKind
	Left   Expression
	Right  Expression
	Method *symbols.MethodSymbol
}

func (n *BinaryOperator) Accept(v Visitor, sc Scope) Node { return v.VisitBinaryOperator(n, sc) }

func (n *BinaryOperator) Update(left, right Expression) *BinaryOperator {
	if left == n.Left && right == n.Right {
		return n
	}
	c := *n
	c.Left, c.Right = left, right
	return &c
}

// ConditionalOperator is Condition ? Consequence : Alternative.
type ConditionalOperator struct {
	ExprInfo
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (n *ConditionalOperator) Accept(v Visitor, sc Scope) Node {
	return v.VisitConditionalOperator(n, sc)
}

func (n *ConditionalOperator) Update(cond, cons, alt Expression) *ConditionalOperator {
	if cond == n.Condition && cons == n.Consequence && alt == n.Alternative {
		return n
	}
	c := *n
	c.Condition, c.Consequence, c.Alternative = cond, cons, alt
	return &c
}

// NullCoalescing is Left ?? Right. LeftConversion converts a non-null Left
// to the result type.
type NullCoalescing struct {
	ExprInfo
	Left                   Expression
	Right                  Expression
	LeftConversion         ConversionKind
	LeftConversionExplicit bool
}

func (n *NullCoalescing) Accept(v Visitor, sc Scope) Node { return v.VisitNullCoalescing(n, sc) }

func (n *NullCoalescing) Update(left, right Expression) *NullCoalescing {
	if left == n.Left && right == n.Right {
		return n
	}
	c := *n
	c.Left, c.Right = left, right
	return &c
}

// Assignment stores Right into Left and yields the stored value. RefKind is
// set when Left is a by-reference local being bound to a location.
type Assignment struct {
	ExprInfo
	Left    Expression
	Right   Expression
	RefKind symbols.RefKind
}

func (n *Assignment) Accept(v Visitor, sc Scope) Node { return v.VisitAssignment(n, sc) }

func (n *Assignment) Update(left, right Expression) *Assignment {
	if left == n.Left && right == n.Right {
		return n
	}
	c := *n
	c.Left, c.Right = left, right
	return &c
}

// BinaryOperatorSignature is the resolved operator of a compound assignment.
type BinaryOperatorSignature struct {
	Kind       BinaryOperatorKind
	LeftType   *symbols.TypeSymbol
	RightType  *symbols.TypeSymbol
	ReturnType *symbols.TypeSymbol
	Method     *symbols.MethodSymbol
}

// CompoundAssignment is Left op= Right. LeftConversion converts the current
// value of Left to Operator.LeftType; FinalConversion converts the result
// back to Left's type.
type CompoundAssignment struct {
	ExprInfo
	Operator        BinaryOperatorSignature
	Left            Expression
	Right           Expression
	LeftConversion  ConversionKind
	FinalConversion ConversionKind
}

func (n *CompoundAssignment) Accept(v Visitor, sc Scope) Node {
	return v.VisitCompoundAssignment(n, sc)
}

func (n *CompoundAssignment) Update(left, right Expression) *CompoundAssignment {
	if left == n.Left && right == n.Right {
		return n
	}
	c := *n
	c.Left, c.Right = left, right
	return &c
}

// Sequence evaluates SideEffects in order, then Value, with Locals scoped to
// the expression. Its type and value are those of Value.
type Sequence struct {
	ExprInfo
	Locals      []*symbols.LocalSymbol
	SideEffects []Expression
	Value       Expression
}

func (n *Sequence) Accept(v Visitor, sc Scope) Node { return v.VisitSequence(n, sc) }

func (n *Sequence) Update(locals []*symbols.LocalSymbol, effects []Expression, value Expression) *Sequence {
	if sameLocals(locals, n.Locals) && sameExpressions(effects, n.SideEffects) && value == n.Value {
		return n
	}
	c := *n
	c.Locals, c.SideEffects, c.Value = locals, effects, value
	return &c
}

// ArrayInitializer lists the element values of an array creation.
type ArrayInitializer struct {
	ExprInfo
	Initializers []Expression
}

func (n *ArrayInitializer) Accept(v Visitor, sc Scope) Node {
	return v.VisitArrayInitializer(n, sc)
}

func (n *ArrayInitializer) Update(inits []Expression) *ArrayInitializer {
	if sameExpressions(inits, n.Initializers) {
		return n
	}
	c := *n
	c.Initializers = inits
	return &c
}

// ArrayCreation allocates an array of Type with the given bounds.
// Initializer may be nil.
type ArrayCreation struct {
	ExprInfo
	Bounds      []Expression
	Initializer *ArrayInitializer
}

func (n *ArrayCreation) Accept(v Visitor, sc Scope) Node { return v.VisitArrayCreation(n, sc) }

func (n *ArrayCreation) Update(bounds []Expression, init *ArrayInitializer) *ArrayCreation {
	if sameExpressions(bounds, n.Bounds) && init == n.Initializer {
		return n
	}
	c := *n
	c.Bounds, c.Initializer = bounds, init
	return &c
}

// ArrayAccess reads or designates an array element.
type ArrayAccess struct {
	ExprInfo
	Array   Expression
	Indices []Expression
}

func (n *ArrayAccess) Accept(v Visitor, sc Scope) Node { return v.VisitArrayAccess(n, sc) }

func (n *ArrayAccess) Update(array Expression, indices []Expression) *ArrayAccess {
	if array == n.Array && sameExpressions(indices, n.Indices) {
		return n
	}
	c := *n
	c.Array, c.Indices = array, indices
	return &c
}

// ArrayLength yields the element count of a single-dimensional array.
type ArrayLength struct {
	ExprInfo
	Array Expression
}

func (n *ArrayLength) Accept(v Visitor, sc Scope) Node { return v.VisitArrayLength(n, sc) }

func (n *ArrayLength) Update(array Expression) *ArrayLength {
	if array == n.Array {
		return n
	}
	c := *n
	c.Array = array
	return &c
}

// IsOperator is Operand is TargetType.
type IsOperator struct {
	ExprInfo
	Operand    Expression
	TargetType *symbols.TypeSymbol
	Conversion ConversionKind
}

func (n *IsOperator) Accept(v Visitor, sc Scope) Node { return v.VisitIsOperator(n, sc) }

func (n *IsOperator) Update(operand Expression) *IsOperator {
	if operand == n.Operand {
		return n
	}
	c := *n
	c.Operand = operand
	return &c
}

// AsOperator is Operand as TargetType; the result type is Type.
type AsOperator struct {
	ExprInfo
	Operand    Expression
	TargetType *symbols.TypeSymbol
	Conversion ConversionKind
}

func (n *AsOperator) Accept(v Visitor, sc Scope) Node { return v.VisitAsOperator(n, sc) }

func (n *AsOperator) Update(operand Expression) *AsOperator {
	if operand == n.Operand {
		return n
	}
	c := *n
	c.Operand = operand
	return &c
}

// Lambda is an anonymous function. Its body is lowered in the lambda's own scope.
type Lambda struct {
	ExprInfo
	Symbol *symbols.MethodSymbol
	Body   *Block
}

func (n *Lambda) Accept(v Visitor, sc Scope) Node { return v.VisitLambda(n, sc) }

func (n *Lambda) Update(body *Block) *Lambda {
	if body == n.Body {
		return n
	}
	c := *n
	c.Body = body
	return &c
}

// BadExpression stands for an expression binding could not make sense of.
// It always has errors.
type BadExpression struct {
	ExprInfo
	Children []Expression
}

func (n *BadExpression) Accept(v Visitor, sc Scope) Node { return v.VisitBadExpression(n, sc) }
