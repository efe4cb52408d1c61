package bound

import (
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Block is a statement list with the locals scoped to it.
type Block struct {
	StmtInfo
	Locals     []*symbols.LocalSymbol
	Statements []Statement
}

func (n *Block) Accept(v Visitor, sc Scope) Node { return v.VisitBlock(n, sc) }

func (n *Block) Update(locals []*symbols.LocalSymbol, stmts []Statement) *Block {
	if sameLocals(locals, n.Locals) && sameStatements(stmts, n.Statements) {
		return n
	}
	c := *n
	c.Locals, c.Statements = locals, stmts
	return &c
}

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	StmtInfo
	Expression Expression
}

func (n *ExpressionStatement) Accept(v Visitor, sc Scope) Node {
	return v.VisitExpressionStatement(n, sc)
}

func (n *ExpressionStatement) Update(e Expression) *ExpressionStatement {
	if e == n.Expression {
		return n
	}
	c := *n
	c.Expression = e
	return &c
}

// LocalDeclaration declares a local with an optional initializer.
type LocalDeclaration struct {
	StmtInfo
	Local       *symbols.LocalSymbol
	Initializer Expression
}

func (n *LocalDeclaration) Accept(v Visitor, sc Scope) Node {
	return v.VisitLocalDeclaration(n, sc)
}

func (n *LocalDeclaration) Update(init Expression) *LocalDeclaration {
	if init == n.Initializer {
		return n
	}
	c := *n
	c.Initializer = init
	return &c
}

// MultipleLocalDeclarations is a declaration statement declaring several locals.
type MultipleLocalDeclarations struct {
	StmtInfo
	Declarations []*LocalDeclaration
}

func (n *MultipleLocalDeclarations) Accept(v Visitor, sc Scope) Node {
	return v.VisitMultipleLocalDeclarations(n, sc)
}

func (n *MultipleLocalDeclarations) Update(decls []*LocalDeclaration) *MultipleLocalDeclarations {
	same := len(decls) == len(n.Declarations)
	for i := 0; same && i < len(decls); i++ {
		same = decls[i] == n.Declarations[i]
	}
	if same {
		return n
	}
	c := *n
	c.Declarations = decls
	return &c
}

// IfStatement is if (Condition) Consequence else Alternative; Alternative may be nil.
type IfStatement struct {
	StmtInfo
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (n *IfStatement) Accept(v Visitor, sc Scope) Node { return v.VisitIfStatement(n, sc) }

func (n *IfStatement) Update(cond Expression, cons, alt Statement) *IfStatement {
	if cond == n.Condition && cons == n.Consequence && alt == n.Alternative {
		return n
	}
	c := *n
	c.Condition, c.Consequence, c.Alternative = cond, cons, alt
	return &c
}

// WhileStatement is while (Condition) Body.
type WhileStatement struct {
	StmtInfo
	Condition     Expression
	Body          Statement
	BreakLabel    *symbols.LabelSymbol
	ContinueLabel *symbols.LabelSymbol
}

func (n *WhileStatement) Accept(v Visitor, sc Scope) Node { return v.VisitWhileStatement(n, sc) }

func (n *WhileStatement) Update(cond Expression, body Statement) *WhileStatement {
	if cond == n.Condition && body == n.Body {
		return n
	}
	c := *n
	c.Condition, c.Body = cond, body
	return &c
}

// DoStatement is do Body while (Condition).
type DoStatement struct {
	StmtInfo
	Condition     Expression
	Body          Statement
	BreakLabel    *symbols.LabelSymbol
	ContinueLabel *symbols.LabelSymbol
}

func (n *DoStatement) Accept(v Visitor, sc Scope) Node { return v.VisitDoStatement(n, sc) }

func (n *DoStatement) Update(cond Expression, body Statement) *DoStatement {
	if cond == n.Condition && body == n.Body {
		return n
	}
	c := *n
	c.Condition, c.Body = cond, body
	return &c
}

// ForStatement is for (Initializer; Condition; Increment) Body. Initializer,
// Condition and Increment may each be nil; a nil Condition means true.
type ForStatement struct {
	StmtInfo
	Locals        []*symbols.LocalSymbol
	Initializer   Statement
	Condition     Expression
	Increment     Statement
	Body          Statement
	BreakLabel    *symbols.LabelSymbol
	ContinueLabel *symbols.LabelSymbol
}

func (n *ForStatement) Accept(v Visitor, sc Scope) Node { return v.VisitForStatement(n, sc) }

func (n *ForStatement) Update(init Statement, cond Expression, incr, body Statement) *ForStatement {
	if init == n.Initializer && cond == n.Condition && incr == n.Increment && body == n.Body {
		return n
	}
	c := *n
	c.Initializer, c.Condition, c.Increment, c.Body = init, cond, incr, body
	return &c
}

// ForEachEnumeratorInfo is the enumerator pattern binding resolved for a
// foreach over a collection that is neither an array nor a string.
type ForEachEnumeratorInfo struct {
	CollectionType *symbols.TypeSymbol
	ElementType    *symbols.TypeSymbol
	EnumeratorType *symbols.TypeSymbol
	GetEnumerator  *symbols.MethodSymbol
	MoveNext       *symbols.MethodSymbol
	Current        *symbols.PropertySymbol
}

// ForEachStatement is foreach (IterationVariable in Expression) Body.
// Expression is the collection converted to the collection type;
// ElementConversion converts each element to the iteration variable's type.
type ForEachStatement struct {
	StmtInfo
	IterationVariable *symbols.LocalSymbol
	Expression        Expression
	ElementConversion ConversionKind
	Enumerator        *ForEachEnumeratorInfo
	Body              Statement
	BreakLabel        *symbols.LabelSymbol
	ContinueLabel     *symbols.LabelSymbol
}

func (n *ForEachStatement) Accept(v Visitor, sc Scope) Node { return v.VisitForEachStatement(n, sc) }

func (n *ForEachStatement) Update(expr Expression, body Statement) *ForEachStatement {
	if expr == n.Expression && body == n.Body {
		return n
	}
	c := *n
	c.Expression, c.Body = expr, body
	return &c
}

// BreakStatement jumps to the break label of the enclosing loop.
type BreakStatement struct {
	StmtInfo
	Label *symbols.LabelSymbol
}

func (n *BreakStatement) Accept(v Visitor, sc Scope) Node { return v.VisitBreakStatement(n, sc) }

// ContinueStatement jumps to the continue label of the enclosing loop.
type ContinueStatement struct {
	StmtInfo
	Label *symbols.LabelSymbol
}

func (n *ContinueStatement) Accept(v Visitor, sc Scope) Node {
	return v.VisitContinueStatement(n, sc)
}

// LabeledStatement is Label: Body.
type LabeledStatement struct {
	StmtInfo
	Label *symbols.LabelSymbol
	Body  Statement
}

func (n *LabeledStatement) Accept(v Visitor, sc Scope) Node {
	return v.VisitLabeledStatement(n, sc)
}

func (n *LabeledStatement) Update(body Statement) *LabeledStatement {
	if body == n.Body {
		return n
	}
	c := *n
	c.Body = body
	return &c
}

// LabelStatement defines a jump target.
type LabelStatement struct {
	StmtInfo
	Label *symbols.LabelSymbol
}

func (n *LabelStatement) Accept(v Visitor, sc Scope) Node { return v.VisitLabelStatement(n, sc) }

// GotoStatement jumps unconditionally.
type GotoStatement struct {
	StmtInfo
	Label *symbols.LabelSymbol
}

func (n *GotoStatement) Accept(v Visitor, sc Scope) Node { return v.VisitGotoStatement(n, sc) }

// ConditionalGoto jumps when Condition evaluates to JumpIfTrue.
type ConditionalGoto struct {
	StmtInfo
	Condition  Expression
	JumpIfTrue bool
	Label      *symbols.LabelSymbol
}

func (n *ConditionalGoto) Accept(v Visitor, sc Scope) Node { return v.VisitConditionalGoto(n, sc) }

func (n *ConditionalGoto) Update(cond Expression) *ConditionalGoto {
	if cond == n.Condition {
		return n
	}
	c := *n
	c.Condition = cond
	return &c
}

// ReturnStatement returns from the method; Expression is nil for void methods.
type ReturnStatement struct {
	StmtInfo
	Expression Expression
}

func (n *ReturnStatement) Accept(v Visitor, sc Scope) Node { return v.VisitReturnStatement(n, sc) }

func (n *ReturnStatement) Update(e Expression) *ReturnStatement {
	if e == n.Expression {
		return n
	}
	c := *n
	c.Expression = e
	return &c
}

// ThrowStatement throws Expression, or rethrows when Expression is nil.
type ThrowStatement struct {
	StmtInfo
	Expression Expression
}

func (n *ThrowStatement) Accept(v Visitor, sc Scope) Node { return v.VisitThrowStatement(n, sc) }

func (n *ThrowStatement) Update(e Expression) *ThrowStatement {
	if e == n.Expression {
		return n
	}
	c := *n
	c.Expression = e
	return &c
}

// CatchBlock is one catch clause of a try statement. Local may be nil.
type CatchBlock struct {
	Info
	Local         *symbols.LocalSymbol
	ExceptionType *symbols.TypeSymbol
	Body          *Block
}

func (n *CatchBlock) Accept(v Visitor, sc Scope) Node { return v.VisitCatchBlock(n, sc) }

func (n *CatchBlock) Update(body *Block) *CatchBlock {
	if body == n.Body {
		return n
	}
	c := *n
	c.Body = body
	return &c
}

// TryStatement is try/catch/finally; FinallyBlock may be nil.
type TryStatement struct {
	StmtInfo
	TryBlock     *Block
	CatchBlocks  []*CatchBlock
	FinallyBlock *Block
}

func (n *TryStatement) Accept(v Visitor, sc Scope) Node { return v.VisitTryStatement(n, sc) }

func (n *TryStatement) Update(try *Block, catches []*CatchBlock, finally *Block) *TryStatement {
	same := try == n.TryBlock && finally == n.FinallyBlock && len(catches) == len(n.CatchBlocks)
	for i := 0; same && i < len(catches); i++ {
		same = catches[i] == n.CatchBlocks[i]
	}
	if same {
		return n
	}
	c := *n
	c.TryBlock, c.CatchBlocks, c.FinallyBlock = try, catches, finally
	return &c
}

// SequencePoint annotates Statement with debug information. A hidden
// sequence point marks a statement that must not be a stepping boundary.
// Lowering preserves these annotations without interpreting them.
type SequencePoint struct {
	StmtInfo
	Statement Statement
	Hidden    bool
}

func (n *SequencePoint) Accept(v Visitor, sc Scope) Node { return v.VisitSequencePoint(n, sc) }

func (n *SequencePoint) Update(s Statement) *SequencePoint {
	if s == n.Statement {
		return n
	}
	c := *n
	c.Statement = s
	return &c
}

// FieldInitializer initializes Field with Value at construction time.
type FieldInitializer struct {
	StmtInfo
	Field *symbols.FieldSymbol
	Value Expression
}

func (n *FieldInitializer) Accept(v Visitor, sc Scope) Node {
	return v.VisitFieldInitializer(n, sc)
}

func (n *FieldInitializer) Update(value Expression) *FieldInitializer {
	if value == n.Value {
		return n
	}
	c := *n
	c.Value = value
	return &c
}
