package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// spill accumulates the temporaries and ordered stores that make a
// read-modify-write target evaluate its receiver and indices once.
type spill struct {
	temps  []*symbols.LocalSymbol
	stores []bound.Expression
}

// capture stores e in a new temporary and returns a read of it.
func (s *spill) capture(f *bound.Factory, sc bound.Scope, e bound.Expression, refKind symbols.RefKind) *bound.LocalRef {
	t := f.Temp(sc, e.GetType(), refKind)
	s.temps = append(s.temps, t)
	ref := f.Local(t)
	if refKind != symbols.RefNone {
		s.stores = append(s.stores, f.AssignRef(ref, e))
	} else {
		s.stores = append(s.stores, f.Assign(ref, e))
	}
	return f.Local(t)
}

// wrap returns value preceded by the accumulated stores.
func (s *spill) wrap(f *bound.Factory, locals []*symbols.LocalSymbol, effects []bound.Expression, value bound.Expression) bound.Expression {
	all := append(append([]*symbols.LocalSymbol(nil), s.temps...), locals...)
	seq := append(append([]bound.Expression(nil), s.stores...), effects...)
	if len(all) == 0 && len(seq) == 0 {
		return value
	}
	return f.Sequence(all, seq, value)
}

// location returns an expression designating the same storage as target
// that can be both read and written without evaluating any receiver or
// index twice. Stores needed to get there are added to s.
func (s *spill) location(f *bound.Factory, sc bound.Scope, target bound.Expression) bound.Expression {
	switch n := target.(type) {
	case *bound.LocalRef, *bound.ParameterRef:
		return target

	case *bound.PropertyAccess:
		if n.Receiver == nil || isThis(n.Receiver) {
			return target
		}
		return n.Update(s.captureReceiver(f, sc, n.Receiver))

	case *bound.IndexerAccess:
		receiver := n.Receiver
		if receiver != nil && !isThis(receiver) {
			receiver = s.captureReceiver(f, sc, receiver)
		}
		args := make([]bound.Expression, len(n.Args.Arguments))
		for i, a := range n.Args.Arguments {
			args[i] = s.capture(f, sc, a, n.Args.RefKind(i))
		}
		return n.Update(receiver, args)

	case *bound.FieldAccess:
		if n.Field.IsStatic || n.Receiver == nil || isThis(n.Receiver) {
			return target
		}
		if n.Receiver.GetType().IsReferenceType() {
			return n.Update(s.capture(f, sc, n.Receiver, symbols.RefNone))
		}
		// A struct field is stable when the variable holding the struct is.
		return n.Update(s.location(f, sc, n.Receiver))
	}

	// Any other variable: bind a reference to it once.
	return s.capture(f, sc, target, symbols.RefRef)
}

// captureReceiver spills a property or indexer receiver; value-type
// receivers are captured by reference so the accessor mutates the original.
func (s *spill) captureReceiver(f *bound.Factory, sc bound.Scope, receiver bound.Expression) bound.Expression {
	if receiver.GetType().IsValueType() {
		return s.capture(f, sc, receiver, symbols.RefRef)
	}
	return s.capture(f, sc, receiver, symbols.RefNone)
}

func isThis(e bound.Expression) bool {
	_, ok := e.(*bound.ThisRef)
	return ok
}
