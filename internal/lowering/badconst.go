package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/diagnostic"
)

type badConstantMarker struct {
	bound.Rewriter
	sink diagnostic.Sink
}

// MarkBadConstants flags field accesses whose constant value could not be
// computed upstream, so code generation refuses to emit them. Each flagged
// access is reported to sink when sink is non-nil.
func MarkBadConstants(f *bound.Factory, sc bound.Scope, body bound.Statement, sink diagnostic.Sink) bound.Statement {
	p := &badConstantMarker{sink: sink}
	p.Self = p
	return p.VisitStatement(body, sc)
}

func (p *badConstantMarker) VisitFieldAccess(n *bound.FieldAccess, sc bound.Scope) bound.Node {
	c := n.Constant
	if c == nil && n.Field != nil {
		c = n.Field.Constant
	}
	if !c.IsBad() {
		return p.Rewriter.VisitFieldAccess(n, sc)
	}

	marked := *n
	marked.Errors = true
	if p.sink != nil {
		method := ""
		if sc.Method != nil {
			method = sc.Method.String()
		}
		p.sink.AddDiagnostic(diagnostic.BadConstant(n.Span, n.Field.String(), method))
	}
	return &marked
}
