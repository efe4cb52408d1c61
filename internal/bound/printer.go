package bound

import (
	"strings"

	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Print renders n in a compact, deterministic text form: one statement per
// line, nested statements indented by two spaces. Equal trees print equally,
// which is what tests compare against.
func Print(n Node) string {
	p := &printer{}
	switch v := n.(type) {
	case Statement:
		p.stmt(v)
	case Expression:
		p.expr(v)
	case *CatchBlock:
		p.catch(v)
	}
	return strings.TrimSuffix(p.b.String(), "\n")
}

// PrintStatements renders a statement list as Print renders a block's body.
func PrintStatements(list []Statement) string {
	p := &printer{}
	for _, s := range list {
		p.stmt(s)
	}
	return strings.TrimSuffix(p.b.String(), "\n")
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(s string) {
	p.b.WriteString(strings.Repeat("  ", p.indent))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) nested(s Statement) {
	p.indent++
	p.stmt(s)
	p.indent--
}

func (p *printer) stmt(s Statement) {
	if s == nil {
		p.line(";")
		return
	}
	switch n := s.(type) {
	case *Block:
		p.block(n)
	case *MultipleLocalDeclarations:
		for _, d := range n.Declarations {
			p.stmt(d)
		}
	case *IfStatement:
		p.line("if (" + p.inline(n.Condition) + ")")
		p.nested(n.Consequence)
		if n.Alternative != nil {
			p.line("else")
			p.nested(n.Alternative)
		}
	case *WhileStatement:
		p.line("while (" + p.inline(n.Condition) + ")")
		p.nested(n.Body)
	case *DoStatement:
		p.line("do")
		p.nested(n.Body)
		p.line("while (" + p.inline(n.Condition) + ");")
	case *ForStatement:
		var head []string
		head = append(head, p.header(n.Initializer), p.inline(n.Condition), p.header(n.Increment))
		if len(n.Locals) > 0 {
			p.line("for " + localList(n.Locals) + " (" + strings.Join(head, "; ") + ")")
		} else {
			p.line("for (" + strings.Join(head, "; ") + ")")
		}
		p.nested(n.Body)
	case *ForEachStatement:
		p.line("foreach (" + n.IterationVariable.Name + " in " + p.inline(n.Expression) + ")")
		p.nested(n.Body)
	case *LabeledStatement:
		p.line(n.Label.Name + ":")
		p.nested(n.Body)
	case *TryStatement:
		p.line("try")
		p.nested(n.TryBlock)
		for _, c := range n.CatchBlocks {
			p.catch(c)
		}
		if n.FinallyBlock != nil {
			p.line("finally")
			p.nested(n.FinallyBlock)
		}
	case *SequencePoint:
		if !n.Hidden {
			p.stmt(n.Statement)
			return
		}
		p.line("#hidden")
		p.stmt(n.Statement)
	default:
		p.line(p.simple(s) + ";")
	}
}

func (p *printer) block(n *Block) {
	p.line("{")
	p.indent++
	if len(n.Locals) > 0 {
		p.line("locals " + localList(n.Locals))
	}
	for _, s := range n.Statements {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *printer) catch(c *CatchBlock) {
	head := "catch"
	if c.ExceptionType != nil {
		head += " (" + c.ExceptionType.Name
		if c.Local != nil {
			head += " " + c.Local.Name
		}
		head += ")"
	}
	p.line(head)
	p.nested(c.Body)
}

// header renders a for-loop initializer or increment on one line.
func (p *printer) header(s Statement) string {
	if s == nil {
		return ""
	}
	if b, ok := s.(*Block); ok {
		parts := make([]string, 0, len(b.Statements))
		for _, st := range b.Statements {
			parts = append(parts, p.header(st))
		}
		return strings.Join(parts, ", ")
	}
	return p.simple(s)
}

// simple renders a statement that fits on one line, without the semicolon.
func (p *printer) simple(s Statement) string {
	switch n := s.(type) {
	case *ExpressionStatement:
		return p.inline(n.Expression)
	case *LocalDeclaration:
		prefix := "var "
		if n.Local.IsConst {
			prefix = "const "
		}
		out := prefix + n.Local.Name + " " + typeName(n.Local.Type)
		if n.Initializer != nil {
			out += " = " + p.inline(n.Initializer)
		}
		return out
	case *BreakStatement:
		return "break"
	case *ContinueStatement:
		return "continue"
	case *LabelStatement:
		return n.Label.Name + ":"
	case *GotoStatement:
		return "goto " + n.Label.Name
	case *ConditionalGoto:
		op := "gotoiffalse "
		if n.JumpIfTrue {
			op = "gotoiftrue "
		}
		return op + p.inline(n.Condition) + " " + n.Label.Name
	case *ReturnStatement:
		if n.Expression == nil {
			return "return"
		}
		return "return " + p.inline(n.Expression)
	case *ThrowStatement:
		if n.Expression == nil {
			return "throw"
		}
		return "throw " + p.inline(n.Expression)
	case *FieldInitializer:
		return "init " + n.Field.String() + " = " + p.inline(n.Value)
	case *SequencePoint:
		if n.Hidden {
			return "#hidden " + p.simple(n.Statement)
		}
		return p.simple(n.Statement)
	}
	sub := &printer{}
	sub.stmt(s)
	return strings.Join(strings.Fields(sub.b.String()), " ")
}

// inline renders an expression using p's indentation for nested lambda bodies.
func (p *printer) inline(e Expression) string {
	sub := &printer{indent: p.indent}
	sub.expr(e)
	return sub.b.String()
}

func (p *printer) expr(e Expression) {
	w := &p.b
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *Literal:
		w.WriteString(n.Constant.String())
	case *LocalRef:
		w.WriteString(n.Local.Name)
	case *ParameterRef:
		w.WriteString(n.Parameter.Name)
	case *ThisRef:
		w.WriteString("this")
	case *FieldAccess:
		p.receiver(n.Receiver, n.Field.ContainingType)
		w.WriteString(n.Field.Name)
	case *PropertyAccess:
		p.receiver(n.Receiver, n.Property.ContainingType)
		w.WriteString(n.Property.Name)
	case *IndexerAccess:
		p.expr(n.Receiver)
		w.WriteString("[")
		p.args(&n.Args)
		w.WriteString("]")
	case *Call:
		p.receiver(n.Receiver, n.Method.ContainingType)
		w.WriteString(n.Method.Name + "(")
		p.args(&n.Args)
		w.WriteString(")")
	case *DelegateCall:
		p.expr(n.Receiver)
		w.WriteString("(")
		p.args(&n.Args)
		w.WriteString(")")
	case *ObjectCreation:
		w.WriteString("new " + typeName(n.Type) + "(")
		p.args(&n.Args)
		w.WriteString(")")
	case *Conversion:
		w.WriteString(n.Kind.String())
		if n.Explicit {
			w.WriteString("!")
		}
		w.WriteString("<" + typeName(n.Type) + ">(")
		p.expr(n.Operand)
		w.WriteString(")")
	case *UnaryOperator:
		w.WriteString("(" + unaryOpNames[n.Op.Operator()])
		p.expr(n.Operand)
		w.WriteString(")")
	case *IncrementOperator:
		op := "--"
		if n.Op.IsIncrement() {
			op = "++"
		}
		if n.Op.IsPrefix() {
			w.WriteString(op)
			p.expr(n.Operand)
		} else {
			p.expr(n.Operand)
			w.WriteString(op)
		}
	case *BinaryOperator:
		w.WriteString("(")
		p.expr(n.Left)
		w.WriteString(" " + n.Op.Symbol() + " ")
		p.expr(n.Right)
		w.WriteString(")")
	case *ConditionalOperator:
		w.WriteString("(")
		p.expr(n.Condition)
		w.WriteString(" ? ")
		p.expr(n.Consequence)
		w.WriteString(" : ")
		p.expr(n.Alternative)
		w.WriteString(")")
	case *NullCoalescing:
		w.WriteString("(")
		p.expr(n.Left)
		w.WriteString(" ?? ")
		p.expr(n.Right)
		w.WriteString(")")
	case *Assignment:
		p.expr(n.Left)
		if n.RefKind != symbols.RefNone {
			w.WriteString(" = ref ")
		} else {
			w.WriteString(" = ")
		}
		p.expr(n.Right)
	case *CompoundAssignment:
		p.expr(n.Left)
		w.WriteString(" " + n.Operator.Kind.Symbol() + "= ")
		p.expr(n.Right)
	case *Sequence:
		w.WriteString("sequence(locals=[" + localNames(n.Locals) + "], effects=[")
		for i, se := range n.SideEffects {
			if i > 0 {
				w.WriteString(", ")
			}
			p.expr(se)
		}
		w.WriteString("], value=")
		p.expr(n.Value)
		w.WriteString(")")
	case *ArrayInitializer:
		w.WriteString("{")
		p.list(n.Initializers)
		w.WriteString("}")
	case *ArrayCreation:
		elem := n.Type.ElementType
		w.WriteString("new " + typeName(elem) + "[")
		p.list(n.Bounds)
		w.WriteString("]")
		if n.Initializer != nil {
			w.WriteString(" ")
			p.expr(n.Initializer)
		}
	case *ArrayAccess:
		p.expr(n.Array)
		w.WriteString("[")
		p.list(n.Indices)
		w.WriteString("]")
	case *ArrayLength:
		p.expr(n.Array)
		w.WriteString(".Length")
	case *IsOperator:
		w.WriteString("(")
		p.expr(n.Operand)
		w.WriteString(" is " + typeName(n.TargetType) + ")")
	case *AsOperator:
		w.WriteString("(")
		p.expr(n.Operand)
		w.WriteString(" as " + typeName(n.TargetType) + ")")
	case *Lambda:
		w.WriteString("lambda " + n.Symbol.Name + " ")
		sub := &printer{indent: p.indent}
		sub.block(n.Body)
		w.WriteString(strings.TrimSpace(sub.b.String()))
	case *BadExpression:
		w.WriteString("<bad>")
	default:
		w.WriteString("<?>")
	}
}

func (p *printer) receiver(recv Expression, owner *symbols.TypeSymbol) {
	if recv != nil {
		p.expr(recv)
	} else {
		p.b.WriteString(typeName(owner))
	}
	p.b.WriteString(".")
}

func (p *printer) list(es []Expression) {
	for i, e := range es {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.expr(e)
	}
}

func (p *printer) args(a *ArgumentList) {
	for i, e := range a.Arguments {
		if i > 0 {
			p.b.WriteString(", ")
		}
		if a.Names != nil && a.Names[i] != "" {
			p.b.WriteString(a.Names[i] + ": ")
		}
		if k := a.RefKind(i); k != symbols.RefNone {
			p.b.WriteString(k.String() + " ")
		}
		p.expr(e)
	}
	if a.Expanded {
		p.b.WriteString(" ...")
	}
}

func typeName(t *symbols.TypeSymbol) string {
	if t == nil {
		return "?"
	}
	return t.Name
}

func localList(locals []*symbols.LocalSymbol) string {
	parts := make([]string, len(locals))
	for i, l := range locals {
		parts[i] = l.Name + " " + typeName(l.Type)
		if l.RefKind != symbols.RefNone {
			parts[i] = l.Name + " " + l.RefKind.String() + " " + typeName(l.Type)
		}
	}
	return strings.Join(parts, ", ")
}

func localNames(locals []*symbols.LocalSymbol) string {
	parts := make([]string, len(locals))
	for i, l := range locals {
		parts[i] = l.Name
	}
	return strings.Join(parts, ", ")
}
