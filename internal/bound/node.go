// Package bound defines the bound tree: the typed, symbol-resolved program
// representation produced by binding and consumed and replaced by each
// lowering pass.
//
// Bound nodes are immutable once built. Rewriting produces new nodes through
// the Update methods, which return the receiver itself when no child changed,
// so unchanged subtrees are shared and a no-op rewrite is identity-stable.
package bound

import (
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/position"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Node is implemented by every bound node.
type Node interface {
	GetSpan() position.Span
	HasErrors() bool
	Accept(v Visitor, sc Scope) Node
}

// Statement is a bound statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a bound expression with a resolved type and an optional
// constant value.
type Expression interface {
	Node
	GetType() *symbols.TypeSymbol
	GetConstant() *constant.Value
	expressionNode()
}

// Info holds the fields shared by all nodes.
type Info struct {
	Span   position.Span
	Errors bool
}

func (i *Info) GetSpan() position.Span { return i.Span }
func (i *Info) HasErrors() bool        { return i.Errors }

// StmtInfo is embedded by statements.
type StmtInfo struct {
	Info
}

func (*StmtInfo) statementNode() {}

// ExprInfo is embedded by expressions.
type ExprInfo struct {
	Info
	Type     *symbols.TypeSymbol
	Constant *constant.Value
}

func (e *ExprInfo) GetType() *symbols.TypeSymbol { return e.Type }
func (e *ExprInfo) GetConstant() *constant.Value { return e.Constant }
func (*ExprInfo) expressionNode()                {}

// Scope identifies the method whose body is being lowered. Entering a lambda
// body produces a new Scope; temporaries created under it belong to the lambda.
type Scope struct {
	Method *symbols.MethodSymbol
}

// Enter returns the scope of a nested method body.
func (s Scope) Enter(m *symbols.MethodSymbol) Scope {
	return Scope{Method: m}
}

// ArgumentList carries the arguments of a call-like node together with the
// binding metadata the argument rewriter removes.
type ArgumentList struct {
	Arguments []Expression
	// Names holds the source name of each argument; nil when none was named.
	Names []string
	// RefKinds holds the passing mode of each argument; nil when all are by value.
	RefKinds []symbols.RefKind
	// ArgsToParams maps argument i to its parameter ordinal; nil means identity.
	ArgsToParams []int
	// Expanded is set when trailing arguments fill a params array.
	Expanded bool
}

// RefKind returns the passing mode of argument i.
func (a *ArgumentList) RefKind(i int) symbols.RefKind {
	if a.RefKinds == nil {
		return symbols.RefNone
	}
	return a.RefKinds[i]
}

// ParameterOf returns the parameter ordinal argument i binds.
func (a *ArgumentList) ParameterOf(i int) int {
	if a.ArgsToParams == nil {
		return i
	}
	return a.ArgsToParams[i]
}

// IsPositional reports whether the list already binds parameters in
// declaration order with no named-argument metadata and no expansion.
func (a *ArgumentList) IsPositional(paramCount int) bool {
	if a.Expanded || a.Names != nil || len(a.Arguments) != paramCount {
		return false
	}
	for i := range a.Arguments {
		if a.ParameterOf(i) != i {
			return false
		}
	}
	return true
}

func (a ArgumentList) withArguments(args []Expression) ArgumentList {
	a.Arguments = args
	return a
}

// Positional builds a positional argument list.
func Positional(args []Expression, refKinds []symbols.RefKind) ArgumentList {
	for _, k := range refKinds {
		if k != symbols.RefNone {
			return ArgumentList{Arguments: args, RefKinds: refKinds}
		}
	}
	return ArgumentList{Arguments: args}
}

func sameExpressions(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameStatements(a, b []Statement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameLocals(a, b []*symbols.LocalSymbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
