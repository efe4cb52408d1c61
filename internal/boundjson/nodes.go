package boundjson

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/constant"
	"github.com/orizon-lang/orizon-lower/internal/position"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// rawNode is the union of every node's fields; which are meaningful depends
// on Kind.
type rawNode struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Type   string `json:"type"`
	Errors bool   `json:"errors"`

	Constant    json.RawMessage `json:"constant"`
	BadConstant bool            `json:"badConstant"`
	Value       json.RawMessage `json:"value"`

	Name     string `json:"name"`
	Label    string `json:"label"`
	Break    string `json:"break"`
	Continue string `json:"continue"`
	Method   string `json:"method"`
	Field    string `json:"field"`
	Property string `json:"property"`
	Target   string `json:"target"`

	Op         string `json:"op"`
	Operands   string `json:"operands"`
	Checked    bool   `json:"checked"`
	Explicit   bool   `json:"explicit"`
	Ref        bool   `json:"ref"`
	JumpIfTrue bool   `json:"jumpIfTrue"`
	Hidden     bool   `json:"hidden"`

	Conversion      string `json:"conversion"`
	LeftConversion  string `json:"leftConversion"`
	FinalConversion string `json:"finalConversion"`
	LeftType        string `json:"leftType"`
	RightType       string `json:"rightType"`
	ReturnType      string `json:"returnType"`

	Receiver    *rawNode `json:"receiver"`
	Operand     *rawNode `json:"operand"`
	Left        *rawNode `json:"left"`
	Right       *rawNode `json:"right"`
	Condition   *rawNode `json:"condition"`
	Then        *rawNode `json:"then"`
	Else        *rawNode `json:"else"`
	Body        *rawNode `json:"body"`
	Init        *rawNode `json:"init"`
	Increment   *rawNode `json:"increment"`
	Expression  *rawNode `json:"expression"`
	Statement   *rawNode `json:"statement"`
	Result      *rawNode `json:"result"`
	Array       *rawNode `json:"array"`
	Collection  *rawNode `json:"collection"`
	Try         *rawNode `json:"try"`
	Finally     *rawNode `json:"finally"`
	Variable    string   `json:"variable"`
	Enumerator  *rawEnum `json:"enumerator"`
	ElementConv string   `json:"elementConversion"`

	Locals       []string   `json:"locals"`
	Statements   []*rawNode `json:"statements"`
	Declarations []*rawNode `json:"declarations"`
	Catches      []*rawNode `json:"catches"`
	Effects      []*rawNode `json:"effects"`
	Bounds       []*rawNode `json:"bounds"`
	Elements     []*rawNode `json:"elements"`
	Indices      []*rawNode `json:"indices"`
	Children     []*rawNode `json:"children"`

	Args         []*rawNode `json:"args"`
	Names        []string   `json:"names"`
	RefKinds     []string   `json:"refKinds"`
	ArgsToParams []int      `json:"argsToParams"`
	Expanded     bool       `json:"expanded"`
}

type rawEnum struct {
	GetEnumerator string `json:"getEnumerator"`
	MoveNext      string `json:"moveNext"`
	Current       string `json:"current"`
}

// bodyDecoder resolves the names local to one body.
type bodyDecoder struct {
	*decoder
	file   string
	method *symbols.MethodSymbol
	locals map[string]*symbols.LocalSymbol
	labels map[string]*symbols.LabelSymbol
}

func (d *decoder) body(path string, bd *bodyDecl) Body {
	b := &bodyDecoder{
		decoder: d,
		file:    bd.File,
		locals:  make(map[string]*symbols.LocalSymbol),
		labels:  make(map[string]*symbols.LabelSymbol),
	}
	out := Body{Name: bd.Name}
	if bd.Method != "" {
		b.method = d.resolveMethod(path+".method", bd.Method)
		out.Method = b.method
	}
	if out.Name == "" {
		out.Name = bd.Method
	}
	for i, ld := range bd.Locals {
		lpath := fmt.Sprintf("%s.locals[%d]", path, i)
		if _, dup := b.locals[ld.Name]; dup {
			fail(lpath, "local %s declared twice", ld.Name)
		}
		b.locals[ld.Name] = &symbols.LocalSymbol{
			Name:             ld.Name,
			Type:             d.resolveType(lpath+".type", ld.Type),
			RefKind:          refKind(lpath+".ref", ld.Ref),
			IsConst:          ld.Const,
			ContainingMethod: b.method,
		}
	}

	switch {
	case bd.Body != nil:
		if out.Method == nil {
			fail(path, "body without a method")
		}
		blk, ok := b.statement(path+".body", bd.Body).(*bound.Block)
		if !ok {
			fail(path+".body", "method body must be a block")
		}
		out.Block = blk
	case bd.Initializers != nil:
		for i, name := range bd.Constructors {
			out.Constructors = append(out.Constructors, d.resolveMethod(fmt.Sprintf("%s.constructors[%d]", path, i), name))
		}
		for i, n := range bd.Initializers {
			ipath := fmt.Sprintf("%s.initializers[%d]", path, i)
			fi, ok := b.statement(ipath, n).(*bound.FieldInitializer)
			if !ok {
				fail(ipath, "expected a field initializer")
			}
			out.Initializers = append(out.Initializers, fi)
		}
	default:
		fail(path, "body has neither statements nor initializers")
	}
	return out
}

func (b *bodyDecoder) info(n *rawNode) bound.Info {
	info := bound.Info{Errors: n.Errors}
	if n.Line > 0 {
		info.Span = position.Line(b.file, n.Line, 1, 1)
	}
	return info
}

func (b *bodyDecoder) stmtInfo(n *rawNode) bound.StmtInfo {
	return bound.StmtInfo{Info: b.info(n)}
}

func (b *bodyDecoder) local(path, name string) *symbols.LocalSymbol {
	l, ok := b.locals[name]
	if !ok {
		fail(path, "undeclared local %q", name)
	}
	return l
}

func (b *bodyDecoder) localList(path string, names []string) []*symbols.LocalSymbol {
	var out []*symbols.LocalSymbol
	for i, name := range names {
		out = append(out, b.local(fmt.Sprintf("%s[%d]", path, i), name))
	}
	return out
}

// label returns the label named name, creating it on first use. An empty
// name yields nil so the lowering synthesizes one.
func (b *bodyDecoder) label(name string) *symbols.LabelSymbol {
	if name == "" {
		return nil
	}
	l, ok := b.labels[name]
	if !ok {
		l = &symbols.LabelSymbol{Name: name}
		b.labels[name] = l
	}
	return l
}

func (b *bodyDecoder) requireLabel(path, name string) *symbols.LabelSymbol {
	if name == "" {
		fail(path+".label", "missing label")
	}
	return b.label(name)
}

func (b *bodyDecoder) parameter(path, name string) *symbols.ParameterSymbol {
	if b.method != nil {
		for _, p := range b.method.Parameters {
			if p.Name == name {
				return p
			}
		}
	}
	fail(path, "unknown parameter %q", name)
	return nil
}

func (b *bodyDecoder) statements(path string, list []*rawNode) []bound.Statement {
	out := make([]bound.Statement, 0, len(list))
	for i, n := range list {
		out = append(out, b.statement(fmt.Sprintf("%s[%d]", path, i), n))
	}
	return out
}

func (b *bodyDecoder) optStatement(path string, n *rawNode) bound.Statement {
	if n == nil {
		return nil
	}
	return b.statement(path, n)
}

func (b *bodyDecoder) block(path string, n *rawNode) *bound.Block {
	s, ok := b.statement(path, n).(*bound.Block)
	if !ok {
		fail(path, "expected a block, got %q", n.Kind)
	}
	return s
}

func (b *bodyDecoder) statement(path string, n *rawNode) bound.Statement {
	if n == nil {
		fail(path, "missing statement")
	}
	si := b.stmtInfo(n)
	switch n.Kind {
	case "block":
		return &bound.Block{StmtInfo: si, Locals: b.localList(path+".locals", n.Locals), Statements: b.statements(path+".statements", n.Statements)}
	case "expr":
		return &bound.ExpressionStatement{StmtInfo: si, Expression: b.expression(path+".expression", n.Expression)}
	case "decl":
		return b.declaration(path, n)
	case "decls":
		out := &bound.MultipleLocalDeclarations{StmtInfo: si}
		for i, dn := range n.Declarations {
			dpath := fmt.Sprintf("%s.declarations[%d]", path, i)
			if dn == nil || dn.Kind != "decl" {
				fail(dpath, "expected a local declaration")
			}
			out.Declarations = append(out.Declarations, b.declaration(dpath, dn))
		}
		return out
	case "if":
		return &bound.IfStatement{
			StmtInfo:    si,
			Condition:   b.expression(path+".condition", n.Condition),
			Consequence: b.statement(path+".then", n.Then),
			Alternative: b.optStatement(path+".else", n.Else),
		}
	case "while":
		return &bound.WhileStatement{
			StmtInfo:      si,
			Condition:     b.expression(path+".condition", n.Condition),
			Body:          b.statement(path+".body", n.Body),
			BreakLabel:    b.label(n.Break),
			ContinueLabel: b.label(n.Continue),
		}
	case "do":
		return &bound.DoStatement{
			StmtInfo:      si,
			Condition:     b.expression(path+".condition", n.Condition),
			Body:          b.statement(path+".body", n.Body),
			BreakLabel:    b.label(n.Break),
			ContinueLabel: b.label(n.Continue),
		}
	case "for":
		return &bound.ForStatement{
			StmtInfo:      si,
			Locals:        b.localList(path+".locals", n.Locals),
			Initializer:   b.optStatement(path+".init", n.Init),
			Condition:     b.optExpression(path+".condition", n.Condition),
			Increment:     b.optStatement(path+".increment", n.Increment),
			Body:          b.statement(path+".body", n.Body),
			BreakLabel:    b.label(n.Break),
			ContinueLabel: b.label(n.Continue),
		}
	case "foreach":
		return b.forEach(path, n)
	case "break":
		return &bound.BreakStatement{StmtInfo: si, Label: b.requireLabel(path, n.Label)}
	case "continue":
		return &bound.ContinueStatement{StmtInfo: si, Label: b.requireLabel(path, n.Label)}
	case "labeled":
		return &bound.LabeledStatement{StmtInfo: si, Label: b.requireLabel(path, n.Label), Body: b.statement(path+".body", n.Body)}
	case "label":
		return &bound.LabelStatement{StmtInfo: si, Label: b.requireLabel(path, n.Label)}
	case "goto":
		return &bound.GotoStatement{StmtInfo: si, Label: b.requireLabel(path, n.Label)}
	case "gotoif":
		return &bound.ConditionalGoto{
			StmtInfo:   si,
			Condition:  b.expression(path+".condition", n.Condition),
			JumpIfTrue: n.JumpIfTrue,
			Label:      b.requireLabel(path, n.Label),
		}
	case "return":
		return &bound.ReturnStatement{StmtInfo: si, Expression: b.optExpression(path+".expression", n.Expression)}
	case "throw":
		return &bound.ThrowStatement{StmtInfo: si, Expression: b.optExpression(path+".expression", n.Expression)}
	case "try":
		out := &bound.TryStatement{StmtInfo: si, TryBlock: b.block(path+".try", n.Try)}
		for i, cn := range n.Catches {
			cpath := fmt.Sprintf("%s.catches[%d]", path, i)
			c := &bound.CatchBlock{Info: b.info(cn), Body: b.block(cpath+".body", cn.Body)}
			if cn.Name != "" {
				c.Local = b.local(cpath+".name", cn.Name)
			}
			if cn.Target != "" {
				c.ExceptionType = b.resolveType(cpath+".target", cn.Target)
			}
			out.CatchBlocks = append(out.CatchBlocks, c)
		}
		if n.Finally != nil {
			out.FinallyBlock = b.block(path+".finally", n.Finally)
		}
		return out
	case "sequencepoint":
		return &bound.SequencePoint{StmtInfo: si, Statement: b.statement(path+".statement", n.Statement), Hidden: n.Hidden}
	case "init":
		return &bound.FieldInitializer{
			StmtInfo: si,
			Field:    b.resolveField(path+".field", n.Field),
			Value:    b.expression(path+".expression", n.Expression),
		}
	case "":
		fail(path, "node without a kind")
	}
	fail(path+".kind", "unknown statement kind %q", n.Kind)
	return nil
}

func (b *bodyDecoder) declaration(path string, n *rawNode) *bound.LocalDeclaration {
	return &bound.LocalDeclaration{
		StmtInfo:    b.stmtInfo(n),
		Local:       b.local(path+".name", n.Name),
		Initializer: b.optExpression(path+".init", n.Init),
	}
}

func (b *bodyDecoder) forEach(path string, n *rawNode) *bound.ForEachStatement {
	out := &bound.ForEachStatement{
		StmtInfo:          b.stmtInfo(n),
		IterationVariable: b.local(path+".variable", n.Variable),
		Expression:        b.expression(path+".collection", n.Collection),
		ElementConversion: b.conversionKind(path+".elementConversion", n.ElementConv),
		Body:              b.statement(path+".body", n.Body),
		BreakLabel:        b.label(n.Break),
		ContinueLabel:     b.label(n.Continue),
	}
	if e := n.Enumerator; e != nil {
		epath := path + ".enumerator"
		get := b.resolveMethod(epath+".getEnumerator", e.GetEnumerator)
		current := b.resolveProperty(epath+".current", e.Current)
		out.Enumerator = &bound.ForEachEnumeratorInfo{
			CollectionType: out.Expression.GetType(),
			ElementType:    current.Type,
			EnumeratorType: get.ReturnType,
			GetEnumerator:  get,
			MoveNext:       b.resolveMethod(epath+".moveNext", e.MoveNext),
			Current:        current,
		}
	}
	return out
}

func (b *bodyDecoder) conversionKind(path, s string) bound.ConversionKind {
	if s == "" {
		return bound.ConversionIdentity
	}
	k, ok := bound.ParseConversionKind(s)
	if !ok {
		fail(path, "unknown conversion %q", s)
	}
	return k
}

func (b *bodyDecoder) optExpression(path string, n *rawNode) bound.Expression {
	if n == nil {
		return nil
	}
	return b.expression(path, n)
}

func (b *bodyDecoder) expressions(path string, list []*rawNode) []bound.Expression {
	out := make([]bound.Expression, 0, len(list))
	for i, n := range list {
		out = append(out, b.expression(fmt.Sprintf("%s[%d]", path, i), n))
	}
	return out
}

// exprInfo builds the shared expression fields. The type is n.Type when
// given, otherwise def; a missing type is an error.
func (b *bodyDecoder) exprInfo(path string, n *rawNode, def *symbols.TypeSymbol) bound.ExprInfo {
	ei := bound.ExprInfo{Info: b.info(n), Type: def}
	if n.Type != "" {
		ei.Type = b.resolveType(path+".type", n.Type)
	}
	if ei.Type == nil {
		fail(path, "%s node needs a type", n.Kind)
	}
	switch {
	case n.BadConstant:
		ei.Constant = badConstant()
	case n.Constant != nil:
		ei.Constant = b.constant(path+".constant", n.Constant, ei.Type)
	}
	return ei
}

func (b *bodyDecoder) expression(path string, n *rawNode) bound.Expression {
	if n == nil {
		fail(path, "missing expression")
	}
	switch n.Kind {
	case "literal":
		ei := b.exprInfo(path, n, nil)
		if n.Value == nil {
			fail(path+".value", "literal without a value")
		}
		ei.Constant = b.constant(path+".value", n.Value, ei.Type)
		return &bound.Literal{ExprInfo: ei}

	case "local":
		l := b.local(path+".name", n.Name)
		return &bound.LocalRef{ExprInfo: b.exprInfo(path, n, l.Type), Local: l}

	case "param":
		p := b.parameter(path+".name", n.Name)
		return &bound.ParameterRef{ExprInfo: b.exprInfo(path, n, p.Type), Parameter: p}

	case "this":
		var t *symbols.TypeSymbol
		if b.method != nil {
			t = b.method.ContainingType
		}
		return &bound.ThisRef{ExprInfo: b.exprInfo(path, n, t)}

	case "field":
		f := b.resolveField(path+".field", n.Field)
		ei := b.exprInfo(path, n, f.Type)
		if ei.Constant == nil {
			ei.Constant = f.Constant
		}
		return &bound.FieldAccess{ExprInfo: ei, Receiver: b.optExpression(path+".receiver", n.Receiver), Field: f}

	case "property":
		p := b.resolveProperty(path+".property", n.Property)
		return &bound.PropertyAccess{ExprInfo: b.exprInfo(path, n, p.Type), Receiver: b.optExpression(path+".receiver", n.Receiver), Property: p}

	case "indexer":
		p := b.resolveProperty(path+".property", n.Property)
		return &bound.IndexerAccess{
			ExprInfo: b.exprInfo(path, n, p.Type),
			Receiver: b.optExpression(path+".receiver", n.Receiver),
			Indexer:  p,
			Args:     b.arguments(path, n),
		}

	case "call":
		m := b.resolveMethod(path+".method", n.Method)
		return &bound.Call{
			ExprInfo: b.exprInfo(path, n, m.ReturnType),
			Receiver: b.optExpression(path+".receiver", n.Receiver),
			Method:   m,
			Args:     b.arguments(path, n),
		}

	case "delegatecall":
		m := b.resolveMethod(path+".method", n.Method)
		return &bound.DelegateCall{
			ExprInfo: b.exprInfo(path, n, m.ReturnType),
			Receiver: b.expression(path+".receiver", n.Receiver),
			Method:   m,
			Args:     b.arguments(path, n),
		}

	case "new":
		m := b.resolveMethod(path+".method", n.Method)
		return &bound.ObjectCreation{ExprInfo: b.exprInfo(path, n, m.ContainingType), Constructor: m, Args: b.arguments(path, n)}

	case "conversion":
		return &bound.Conversion{
			ExprInfo: b.exprInfo(path, n, nil),
			Operand:  b.expression(path+".operand", n.Operand),
			Kind:     b.conversionKind(path+".conversion", n.Conversion),
			Explicit: n.Explicit,
			Checked:  n.Checked,
		}

	case "unary":
		op, ok := bound.ParseUnaryOperator(n.Op, n.Operands, n.Checked)
		if !ok || op.IsIncrementOrDecrement() {
			fail(path+".op", "unknown unary operator %q over %q", n.Op, n.Operands)
		}
		operand := b.expression(path+".operand", n.Operand)
		return &bound.UnaryOperator{ExprInfo: b.exprInfo(path, n, operand.GetType()), Op: op, Operand: operand}

	case "increment":
		op, ok := bound.ParseUnaryOperator(n.Op, n.Operands, n.Checked)
		if !ok || !op.IsIncrementOrDecrement() {
			fail(path+".op", "unknown increment operator %q over %q", n.Op, n.Operands)
		}
		operand := b.expression(path+".operand", n.Operand)
		return &bound.IncrementOperator{ExprInfo: b.exprInfo(path, n, operand.GetType()), Op: op, Operand: operand}

	case "binary":
		op, ok := bound.ParseBinaryOperator(n.Op, n.Operands, n.Checked)
		if !ok {
			fail(path+".op", "unknown binary operator %q over %q", n.Op, n.Operands)
		}
		return &bound.BinaryOperator{
			ExprInfo: b.exprInfo(path, n, nil),
			Op:       op,
			Left:     b.expression(path+".left", n.Left),
			Right:    b.expression(path+".right", n.Right),
		}

	case "conditional":
		return &bound.ConditionalOperator{
			ExprInfo:    b.exprInfo(path, n, nil),
			Condition:   b.expression(path+".condition", n.Condition),
			Consequence: b.expression(path+".then", n.Then),
			Alternative: b.expression(path+".else", n.Else),
		}

	case "coalesce":
		return &bound.NullCoalescing{
			ExprInfo:               b.exprInfo(path, n, nil),
			Left:                   b.expression(path+".left", n.Left),
			Right:                  b.expression(path+".right", n.Right),
			LeftConversion:         b.conversionKind(path+".conversion", n.Conversion),
			LeftConversionExplicit: n.Explicit,
		}

	case "assign":
		left := b.expression(path+".left", n.Left)
		out := &bound.Assignment{ExprInfo: b.exprInfo(path, n, left.GetType()), Left: left, Right: b.expression(path+".right", n.Right)}
		if n.Ref {
			out.RefKind = symbols.RefRef
		}
		return out

	case "compound":
		return b.compound(path, n)

	case "sequence":
		value := b.expression(path+".result", n.Result)
		return &bound.Sequence{
			ExprInfo:    b.exprInfo(path, n, value.GetType()),
			Locals:      b.localList(path+".locals", n.Locals),
			SideEffects: b.expressions(path+".effects", n.Effects),
			Value:       value,
		}

	case "arraynew":
		ei := b.exprInfo(path, n, nil)
		if !ei.Type.IsArray() {
			fail(path+".type", "array creation of non-array type %s", ei.Type)
		}
		out := &bound.ArrayCreation{ExprInfo: ei, Bounds: b.expressions(path+".bounds", n.Bounds)}
		if n.Elements != nil {
			out.Initializer = &bound.ArrayInitializer{
				ExprInfo:     bound.ExprInfo{Info: b.info(n), Type: ei.Type},
				Initializers: b.expressions(path+".elements", n.Elements),
			}
		}
		return out

	case "index":
		array := b.expression(path+".array", n.Array)
		if !array.GetType().IsArray() {
			fail(path+".array", "element access on non-array type %s", array.GetType())
		}
		return &bound.ArrayAccess{
			ExprInfo: b.exprInfo(path, n, array.GetType().ElementType),
			Array:    array,
			Indices:  b.expressions(path+".indices", n.Indices),
		}

	case "length":
		return &bound.ArrayLength{
			ExprInfo: b.exprInfo(path, n, b.special(symbols.SpecialInt32)),
			Array:    b.expression(path+".array", n.Array),
		}

	case "is":
		return &bound.IsOperator{
			ExprInfo:   b.exprInfo(path, n, b.special(symbols.SpecialBoolean)),
			Operand:    b.expression(path+".operand", n.Operand),
			TargetType: b.resolveType(path+".target", n.Target),
			Conversion: b.conversionKind(path+".conversion", n.Conversion),
		}

	case "as":
		target := b.resolveType(path+".target", n.Target)
		return &bound.AsOperator{
			ExprInfo:   b.exprInfo(path, n, target),
			Operand:    b.expression(path+".operand", n.Operand),
			TargetType: target,
			Conversion: b.conversionKind(path+".conversion", n.Conversion),
		}

	case "lambda":
		ei := b.exprInfo(path, n, nil)
		sym := &symbols.MethodSymbol{Name: n.Name, Kind: symbols.MethodLambda, ReturnType: b.special(symbols.SpecialVoid)}
		if b.method != nil {
			sym.ContainingType = b.method.ContainingType
		}
		return &bound.Lambda{ExprInfo: ei, Symbol: sym, Body: b.block(path+".body", n.Body)}

	case "bad":
		ei := b.exprInfo(path, n, b.special(symbols.SpecialObject))
		ei.Errors = true
		return &bound.BadExpression{ExprInfo: ei, Children: b.expressions(path+".children", n.Children)}

	case "":
		fail(path, "node without a kind")
	}
	fail(path+".kind", "unknown expression kind %q", n.Kind)
	return nil
}

func (b *bodyDecoder) compound(path string, n *rawNode) *bound.CompoundAssignment {
	left := b.expression(path+".left", n.Left)
	right := b.expression(path+".right", n.Right)
	op, ok := bound.ParseBinaryOperator(n.Op, n.Operands, n.Checked)
	if !ok {
		fail(path+".op", "unknown binary operator %q over %q", n.Op, n.Operands)
	}
	typeOr := func(field, name string, def *symbols.TypeSymbol) *symbols.TypeSymbol {
		if name == "" {
			return def
		}
		return b.resolveType(path+"."+field, name)
	}
	leftType := typeOr("leftType", n.LeftType, left.GetType())
	return &bound.CompoundAssignment{
		ExprInfo: b.exprInfo(path, n, left.GetType()),
		Operator: bound.BinaryOperatorSignature{
			Kind:       op,
			LeftType:   leftType,
			RightType:  typeOr("rightType", n.RightType, right.GetType()),
			ReturnType: typeOr("returnType", n.ReturnType, leftType),
		},
		Left:            left,
		Right:           right,
		LeftConversion:  b.conversionKind(path+".leftConversion", n.LeftConversion),
		FinalConversion: b.conversionKind(path+".finalConversion", n.FinalConversion),
	}
}

func (b *bodyDecoder) arguments(path string, n *rawNode) bound.ArgumentList {
	args := bound.ArgumentList{
		Arguments:    b.expressions(path+".args", n.Args),
		Names:        n.Names,
		ArgsToParams: n.ArgsToParams,
		Expanded:     n.Expanded,
	}
	if n.Names != nil && len(n.Names) != len(n.Args) {
		fail(path+".names", "%d names for %d arguments", len(n.Names), len(n.Args))
	}
	if n.ArgsToParams != nil && len(n.ArgsToParams) != len(n.Args) {
		fail(path+".argsToParams", "%d mappings for %d arguments", len(n.ArgsToParams), len(n.Args))
	}
	if n.RefKinds != nil {
		if len(n.RefKinds) != len(n.Args) {
			fail(path+".refKinds", "%d ref kinds for %d arguments", len(n.RefKinds), len(n.Args))
		}
		for i, k := range n.RefKinds {
			args.RefKinds = append(args.RefKinds, refKind(fmt.Sprintf("%s.refKinds[%d]", path, i), k))
		}
	}
	return args
}

func badConstant() *constant.Value { return constant.Bad() }

var signedKinds = map[symbols.SpecialType]struct {
	kind constant.Kind
	bits int
}{
	symbols.SpecialSByte: {constant.KindSByte, 8},
	symbols.SpecialInt16: {constant.KindInt16, 16},
	symbols.SpecialInt32: {constant.KindInt32, 32},
	symbols.SpecialInt64: {constant.KindInt64, 64},
}

var unsignedKinds = map[symbols.SpecialType]struct {
	kind constant.Kind
	bits int
}{
	symbols.SpecialByte:   {constant.KindByte, 8},
	symbols.SpecialUInt16: {constant.KindUInt16, 16},
	symbols.SpecialUInt32: {constant.KindUInt32, 32},
	symbols.SpecialUInt64: {constant.KindUInt64, 64},
}

// constant decodes a JSON constant for a node of type t. Numbers may be
// written as JSON numbers or strings; decimals keep their written scale.
func (d *decoder) constant(path string, raw json.RawMessage, t *symbols.TypeSymbol) *constant.Value {
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return constant.Null()
	}
	if t.IsEnum() {
		t = t.EnumUnderlying
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			fail(path, "bad string constant: %v", err)
		}
		if t.Special == symbols.SpecialString {
			return constant.String(s)
		}
		if t.Special == symbols.SpecialChar {
			r := []rune(s)
			if len(r) != 1 || r[0] > 0xFFFF {
				fail(path, "char constant %q is not one UTF-16 unit", s)
			}
			return constant.Char(uint16(r[0]))
		}
		text = s
	}

	if k, ok := signedKinds[t.Special]; ok {
		v, err := strconv.ParseInt(text, 10, k.bits)
		if err != nil {
			fail(path, "bad %s constant %q: %v", t, text, err)
		}
		return constant.Signed(k.kind, v)
	}
	if k, ok := unsignedKinds[t.Special]; ok {
		v, err := strconv.ParseUint(text, 10, k.bits)
		if err != nil {
			fail(path, "bad %s constant %q: %v", t, text, err)
		}
		return constant.Unsigned(k.kind, v)
	}

	switch t.Special {
	case symbols.SpecialBoolean:
		v, err := strconv.ParseBool(text)
		if err != nil {
			fail(path, "bad bool constant %q", text)
		}
		return constant.Bool(v)
	case symbols.SpecialChar:
		v, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			fail(path, "bad char constant %q", text)
		}
		return constant.Char(uint16(v))
	case symbols.SpecialSingle:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			fail(path, "bad float constant %q", text)
		}
		return constant.Single(float32(v))
	case symbols.SpecialDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			fail(path, "bad double constant %q", text)
		}
		return constant.Double(v)
	case symbols.SpecialDecimal:
		v, err := decimal.NewFromString(text)
		if err != nil {
			fail(path, "bad decimal constant %q: %v", text, err)
		}
		return constant.Decimal(v)
	}
	fail(path, "type %s has no constants other than null", t)
	return nil
}
