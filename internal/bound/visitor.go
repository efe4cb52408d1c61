package bound

import (
	"github.com/orizon-lang/orizon-lower/internal/errors"
)

// Visitor has one method per node kind. Each method returns the node that
// replaces n; statement visits may return nil to drop the statement.
type Visitor interface {
	// Statements
	VisitBlock(n *Block, sc Scope) Node
	VisitExpressionStatement(n *ExpressionStatement, sc Scope) Node
	VisitLocalDeclaration(n *LocalDeclaration, sc Scope) Node
	VisitMultipleLocalDeclarations(n *MultipleLocalDeclarations, sc Scope) Node
	VisitIfStatement(n *IfStatement, sc Scope) Node
	VisitWhileStatement(n *WhileStatement, sc Scope) Node
	VisitDoStatement(n *DoStatement, sc Scope) Node
	VisitForStatement(n *ForStatement, sc Scope) Node
	VisitForEachStatement(n *ForEachStatement, sc Scope) Node
	VisitBreakStatement(n *BreakStatement, sc Scope) Node
	VisitContinueStatement(n *ContinueStatement, sc Scope) Node
	VisitLabeledStatement(n *LabeledStatement, sc Scope) Node
	VisitLabelStatement(n *LabelStatement, sc Scope) Node
	VisitGotoStatement(n *GotoStatement, sc Scope) Node
	VisitConditionalGoto(n *ConditionalGoto, sc Scope) Node
	VisitReturnStatement(n *ReturnStatement, sc Scope) Node
	VisitThrowStatement(n *ThrowStatement, sc Scope) Node
	VisitTryStatement(n *TryStatement, sc Scope) Node
	VisitCatchBlock(n *CatchBlock, sc Scope) Node
	VisitSequencePoint(n *SequencePoint, sc Scope) Node
	VisitFieldInitializer(n *FieldInitializer, sc Scope) Node

	// Expressions
	VisitLiteral(n *Literal, sc Scope) Node
	VisitLocalRef(n *LocalRef, sc Scope) Node
	VisitParameterRef(n *ParameterRef, sc Scope) Node
	VisitThisRef(n *ThisRef, sc Scope) Node
	VisitFieldAccess(n *FieldAccess, sc Scope) Node
	VisitPropertyAccess(n *PropertyAccess, sc Scope) Node
	VisitIndexerAccess(n *IndexerAccess, sc Scope) Node
	VisitCall(n *Call, sc Scope) Node
	VisitDelegateCall(n *DelegateCall, sc Scope) Node
	VisitObjectCreation(n *ObjectCreation, sc Scope) Node
	VisitConversion(n *Conversion, sc Scope) Node
	VisitUnaryOperator(n *UnaryOperator, sc Scope) Node
	VisitIncrementOperator(n *IncrementOperator, sc Scope) Node
	VisitBinaryOperator(n *BinaryOperator, sc Scope) Node
	VisitConditionalOperator(n *ConditionalOperator, sc Scope) Node
	VisitNullCoalescing(n *NullCoalescing, sc Scope) Node
	VisitAssignment(n *Assignment, sc Scope) Node
	VisitCompoundAssignment(n *CompoundAssignment, sc Scope) Node
	VisitSequence(n *Sequence, sc Scope) Node
	VisitArrayInitializer(n *ArrayInitializer, sc Scope) Node
	VisitArrayCreation(n *ArrayCreation, sc Scope) Node
	VisitArrayAccess(n *ArrayAccess, sc Scope) Node
	VisitArrayLength(n *ArrayLength, sc Scope) Node
	VisitIsOperator(n *IsOperator, sc Scope) Node
	VisitAsOperator(n *AsOperator, sc Scope) Node
	VisitLambda(n *Lambda, sc Scope) Node
	VisitBadExpression(n *BadExpression, sc Scope) Node
}

// Rewriter implements Visitor with default structural recursion: every
// method visits the node's children and rebuilds the node only if one of
// them changed. A pass embeds Rewriter, overrides the kinds it transforms and
// sets Self to itself so recursion dispatches back into the pass.
//
//	type myPass struct{ bound.Rewriter }
//
//	p := &myPass{}
//	p.Self = p
type Rewriter struct {
	Self Visitor
}

var _ Visitor = (*Rewriter)(nil)

// ExpressionHook is implemented by passes that inspect every expression
// before kind dispatch. When ok is true, out replaces e and e's children are
// not visited.
type ExpressionHook interface {
	HookExpression(e Expression, sc Scope) (out Expression, ok bool)
}

func (r *Rewriter) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// Visit dispatches n to the pass. Nodes with errors are returned unchanged.
func (r *Rewriter) Visit(n Node, sc Scope) Node {
	if n == nil {
		return nil
	}
	if n.HasErrors() {
		return n
	}
	return n.Accept(r.self(), sc)
}

// VisitExpression visits e; a nil e yields nil.
func (r *Rewriter) VisitExpression(e Expression, sc Scope) Expression {
	if e == nil {
		return nil
	}
	if e.HasErrors() {
		return e
	}
	if h, ok := r.self().(ExpressionHook); ok {
		if out, ok := h.HookExpression(e, sc); ok {
			return out
		}
	}
	res := r.Visit(e, sc)
	if res == nil {
		panic(errors.Unreachable("expression %T rewritten to nothing", e))
	}
	out, ok := res.(Expression)
	if !ok {
		panic(errors.Unreachable("expression %T rewritten to %T", e, res))
	}
	return out
}

// VisitStatement visits s; the result is nil when the pass dropped it.
func (r *Rewriter) VisitStatement(s Statement, sc Scope) Statement {
	if s == nil {
		return nil
	}
	res := r.Visit(s, sc)
	if res == nil {
		return nil
	}
	out, ok := res.(Statement)
	if !ok {
		panic(errors.Unreachable("statement %T rewritten to %T", s, res))
	}
	return out
}

// VisitExpressions visits each element, returning list itself when nothing changed.
func (r *Rewriter) VisitExpressions(list []Expression, sc Scope) []Expression {
	var out []Expression
	for i, e := range list {
		v := r.VisitExpression(e, sc)
		if out == nil && v != e {
			out = make([]Expression, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out[i] = v
		}
	}
	if out == nil {
		return list
	}
	return out
}

// VisitStatements visits each element and drops statements rewritten to nil.
func (r *Rewriter) VisitStatements(list []Statement, sc Scope) []Statement {
	var out []Statement
	for i, s := range list {
		v := r.VisitStatement(s, sc)
		if out == nil && v != s {
			out = make([]Statement, 0, len(list))
			out = append(out, list[:i]...)
		}
		if out != nil && v != nil {
			out = append(out, v)
		}
	}
	if out == nil {
		return list
	}
	return out
}

// VisitBlockChild visits a block-typed child. A block rewritten into another
// statement is wrapped in a new block so the parent keeps its shape.
func (r *Rewriter) VisitBlockChild(b *Block, sc Scope) *Block {
	if b == nil {
		return nil
	}
	res := r.VisitStatement(b, sc)
	switch v := res.(type) {
	case *Block:
		return v
	case nil:
		return &Block{StmtInfo: b.StmtInfo}
	default:
		return &Block{StmtInfo: b.StmtInfo, Statements: []Statement{v}}
	}
}

func (r *Rewriter) VisitBlock(n *Block, sc Scope) Node {
	return n.Update(n.Locals, r.VisitStatements(n.Statements, sc))
}

func (r *Rewriter) VisitExpressionStatement(n *ExpressionStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Expression, sc))
}

func (r *Rewriter) VisitLocalDeclaration(n *LocalDeclaration, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Initializer, sc))
}

func (r *Rewriter) VisitMultipleLocalDeclarations(n *MultipleLocalDeclarations, sc Scope) Node {
	decls := make([]*LocalDeclaration, 0, len(n.Declarations))
	var other []Statement
	for _, d := range n.Declarations {
		res := r.VisitStatement(d, sc)
		if ld, ok := res.(*LocalDeclaration); ok && other == nil {
			decls = append(decls, ld)
			continue
		}
		if other == nil {
			other = make([]Statement, 0, len(n.Declarations))
			for _, ld := range decls {
				other = append(other, ld)
			}
		}
		if res != nil {
			other = append(other, res)
		}
	}
	if other != nil {
		return &Block{StmtInfo: n.StmtInfo, Statements: other}
	}
	return n.Update(decls)
}

func (r *Rewriter) VisitIfStatement(n *IfStatement, sc Scope) Node {
	return n.Update(
		r.VisitExpression(n.Condition, sc),
		r.VisitStatement(n.Consequence, sc),
		r.VisitStatement(n.Alternative, sc))
}

func (r *Rewriter) VisitWhileStatement(n *WhileStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Condition, sc), r.VisitStatement(n.Body, sc))
}

func (r *Rewriter) VisitDoStatement(n *DoStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Condition, sc), r.VisitStatement(n.Body, sc))
}

func (r *Rewriter) VisitForStatement(n *ForStatement, sc Scope) Node {
	return n.Update(
		r.VisitStatement(n.Initializer, sc),
		r.VisitExpression(n.Condition, sc),
		r.VisitStatement(n.Increment, sc),
		r.VisitStatement(n.Body, sc))
}

func (r *Rewriter) VisitForEachStatement(n *ForEachStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Expression, sc), r.VisitStatement(n.Body, sc))
}

func (r *Rewriter) VisitBreakStatement(n *BreakStatement, sc Scope) Node       { return n }
func (r *Rewriter) VisitContinueStatement(n *ContinueStatement, sc Scope) Node { return n }

func (r *Rewriter) VisitLabeledStatement(n *LabeledStatement, sc Scope) Node {
	return n.Update(r.VisitStatement(n.Body, sc))
}

func (r *Rewriter) VisitLabelStatement(n *LabelStatement, sc Scope) Node { return n }
func (r *Rewriter) VisitGotoStatement(n *GotoStatement, sc Scope) Node   { return n }

func (r *Rewriter) VisitConditionalGoto(n *ConditionalGoto, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Condition, sc))
}

func (r *Rewriter) VisitReturnStatement(n *ReturnStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Expression, sc))
}

func (r *Rewriter) VisitThrowStatement(n *ThrowStatement, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Expression, sc))
}

func (r *Rewriter) VisitTryStatement(n *TryStatement, sc Scope) Node {
	try := r.VisitBlockChild(n.TryBlock, sc)
	catches := n.CatchBlocks
	copied := false
	for i, c := range n.CatchBlocks {
		res := r.Visit(c, sc)
		cb, ok := res.(*CatchBlock)
		if !ok {
			panic(errors.Unreachable("catch block rewritten to %T", res))
		}
		if cb != c {
			if !copied {
				catches = append([]*CatchBlock(nil), n.CatchBlocks...)
				copied = true
			}
			catches[i] = cb
		}
	}
	return n.Update(try, catches, r.VisitBlockChild(n.FinallyBlock, sc))
}

func (r *Rewriter) VisitCatchBlock(n *CatchBlock, sc Scope) Node {
	return n.Update(r.VisitBlockChild(n.Body, sc))
}

func (r *Rewriter) VisitSequencePoint(n *SequencePoint, sc Scope) Node {
	s := r.VisitStatement(n.Statement, sc)
	if s == nil {
		return nil
	}
	return n.Update(s)
}

func (r *Rewriter) VisitFieldInitializer(n *FieldInitializer, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Value, sc))
}

func (r *Rewriter) VisitLiteral(n *Literal, sc Scope) Node           { return n }
func (r *Rewriter) VisitLocalRef(n *LocalRef, sc Scope) Node         { return n }
func (r *Rewriter) VisitParameterRef(n *ParameterRef, sc Scope) Node { return n }
func (r *Rewriter) VisitThisRef(n *ThisRef, sc Scope) Node           { return n }

func (r *Rewriter) VisitFieldAccess(n *FieldAccess, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Receiver, sc))
}

func (r *Rewriter) VisitPropertyAccess(n *PropertyAccess, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Receiver, sc))
}

func (r *Rewriter) VisitIndexerAccess(n *IndexerAccess, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Receiver, sc), r.VisitExpressions(n.Args.Arguments, sc))
}

func (r *Rewriter) VisitCall(n *Call, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Receiver, sc), r.VisitExpressions(n.Args.Arguments, sc))
}

func (r *Rewriter) VisitDelegateCall(n *DelegateCall, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Receiver, sc), r.VisitExpressions(n.Args.Arguments, sc))
}

func (r *Rewriter) VisitObjectCreation(n *ObjectCreation, sc Scope) Node {
	return n.Update(r.VisitExpressions(n.Args.Arguments, sc))
}

func (r *Rewriter) VisitConversion(n *Conversion, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Operand, sc))
}

func (r *Rewriter) VisitUnaryOperator(n *UnaryOperator, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Operand, sc))
}

func (r *Rewriter) VisitIncrementOperator(n *IncrementOperator, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Operand, sc))
}

func (r *Rewriter) VisitBinaryOperator(n *BinaryOperator, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Left, sc), r.VisitExpression(n.Right, sc))
}

func (r *Rewriter) VisitConditionalOperator(n *ConditionalOperator, sc Scope) Node {
	return n.Update(
		r.VisitExpression(n.Condition, sc),
		r.VisitExpression(n.Consequence, sc),
		r.VisitExpression(n.Alternative, sc))
}

func (r *Rewriter) VisitNullCoalescing(n *NullCoalescing, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Left, sc), r.VisitExpression(n.Right, sc))
}

func (r *Rewriter) VisitAssignment(n *Assignment, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Left, sc), r.VisitExpression(n.Right, sc))
}

func (r *Rewriter) VisitCompoundAssignment(n *CompoundAssignment, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Left, sc), r.VisitExpression(n.Right, sc))
}

func (r *Rewriter) VisitSequence(n *Sequence, sc Scope) Node {
	return n.Update(n.Locals, r.VisitExpressions(n.SideEffects, sc), r.VisitExpression(n.Value, sc))
}

func (r *Rewriter) VisitArrayInitializer(n *ArrayInitializer, sc Scope) Node {
	return n.Update(r.VisitExpressions(n.Initializers, sc))
}

func (r *Rewriter) VisitArrayCreation(n *ArrayCreation, sc Scope) Node {
	init := n.Initializer
	if init != nil {
		res, ok := r.Visit(init, sc).(*ArrayInitializer)
		if !ok {
			panic(errors.Unreachable("array initializer rewritten to a different kind"))
		}
		init = res
	}
	return n.Update(r.VisitExpressions(n.Bounds, sc), init)
}

func (r *Rewriter) VisitArrayAccess(n *ArrayAccess, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Array, sc), r.VisitExpressions(n.Indices, sc))
}

func (r *Rewriter) VisitArrayLength(n *ArrayLength, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Array, sc))
}

func (r *Rewriter) VisitIsOperator(n *IsOperator, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Operand, sc))
}

func (r *Rewriter) VisitAsOperator(n *AsOperator, sc Scope) Node {
	return n.Update(r.VisitExpression(n.Operand, sc))
}

// VisitLambda lowers the body in the lambda's own scope.
func (r *Rewriter) VisitLambda(n *Lambda, sc Scope) Node {
	return n.Update(r.VisitBlockChild(n.Body, sc.Enter(n.Symbol)))
}

func (r *Rewriter) VisitBadExpression(n *BadExpression, sc Scope) Node { return n }
