package lowering

import (
	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

type argumentRewriter struct {
	bound.Rewriter
	f *bound.Factory
}

// RewriteArguments puts the arguments of every call, delegate invocation,
// object creation and indexer access in parameter order, packing expanded
// params arguments into an array and introducing temporaries only where
// reordering would change the order of side effects.
func RewriteArguments(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
	p := &argumentRewriter{f: f}
	p.Self = p
	return p.VisitStatement(body, sc)
}

func (p *argumentRewriter) VisitCall(n *bound.Call, sc bound.Scope) bound.Node {
	receiver := p.VisitExpression(n.Receiver, sc)
	args := p.VisitExpressions(n.Args.Arguments, sc)
	list := n.Args
	list.Arguments = args
	if list.IsPositional(len(n.Method.Parameters)) {
		return n.Update(receiver, args)
	}
	f := at(p.f, n)
	merged, temps := p.rewrite(f, sc, n.Method.Parameters, list)
	return wrapTemps(f, temps, n.WithArgumentList(receiver, merged))
}

func (p *argumentRewriter) VisitDelegateCall(n *bound.DelegateCall, sc bound.Scope) bound.Node {
	receiver := p.VisitExpression(n.Receiver, sc)
	args := p.VisitExpressions(n.Args.Arguments, sc)
	list := n.Args
	list.Arguments = args
	if list.IsPositional(len(n.Method.Parameters)) {
		return n.Update(receiver, args)
	}
	f := at(p.f, n)
	merged, temps := p.rewrite(f, sc, n.Method.Parameters, list)
	return wrapTemps(f, temps, n.WithArgumentList(receiver, merged))
}

func (p *argumentRewriter) VisitObjectCreation(n *bound.ObjectCreation, sc bound.Scope) bound.Node {
	args := p.VisitExpressions(n.Args.Arguments, sc)
	list := n.Args
	list.Arguments = args
	if n.Constructor == nil || list.IsPositional(len(n.Constructor.Parameters)) {
		return n.Update(args)
	}
	f := at(p.f, n)
	merged, temps := p.rewrite(f, sc, n.Constructor.Parameters, list)
	return wrapTemps(f, temps, n.WithArgumentList(merged))
}

func (p *argumentRewriter) VisitIndexerAccess(n *bound.IndexerAccess, sc bound.Scope) bound.Node {
	idx, temps := p.indexer(n, sc)
	return wrapTemps(at(p.f, n), temps, idx)
}

// VisitAssignment keeps an indexer target assignable: temporaries its
// arguments need scope over the whole assignment instead of the target.
func (p *argumentRewriter) VisitAssignment(n *bound.Assignment, sc bound.Scope) bound.Node {
	target, ok := n.Left.(*bound.IndexerAccess)
	if !ok || target.HasErrors() {
		return p.Rewriter.VisitAssignment(n, sc)
	}
	left, temps := p.indexer(target, sc)
	right := p.VisitExpression(n.Right, sc)
	return wrapTemps(at(p.f, n), temps, n.Update(left, right))
}

func (p *argumentRewriter) indexer(n *bound.IndexerAccess, sc bound.Scope) (*bound.IndexerAccess, []*symbols.LocalSymbol) {
	receiver := p.VisitExpression(n.Receiver, sc)
	args := p.VisitExpressions(n.Args.Arguments, sc)
	list := n.Args
	list.Arguments = args
	if list.IsPositional(len(n.Indexer.Parameters)) {
		return n.Update(receiver, args), nil
	}
	merged, temps := p.rewrite(at(p.f, n), sc, n.Indexer.Parameters, list)
	return n.WithArgumentList(receiver, merged), temps
}

func wrapTemps(f *bound.Factory, temps []*symbols.LocalSymbol, e bound.Expression) bound.Expression {
	if len(temps) == 0 {
		return e
	}
	return f.Sequence(temps, nil, e)
}

// rewrite binds args to params in declaration order. It returns the
// positional list and the temporaries that must be in scope around the
// call.
func (p *argumentRewriter) rewrite(f *bound.Factory, sc bound.Scope, params []*symbols.ParameterSymbol, args bound.ArgumentList) (bound.ArgumentList, []*symbols.LocalSymbol) {
	slots := make([]bound.Expression, len(params))
	refKinds := make([]symbols.RefKind, len(params))

	paramsSlot := -1
	var elements []bound.Expression
	if args.Expanded {
		if len(params) == 0 || !params[len(params)-1].IsParams {
			panic(errors.Unreachable("expanded argument list without a params parameter"))
		}
		paramsSlot = len(params) - 1
		elements = []bound.Expression{}
	}

	// Unsafe arguments are stored to temporaries in source order.
	var stores []*bound.Assignment
	for i, a := range args.Arguments {
		slot := args.ParameterOf(i)
		if slot < 0 || slot >= len(params) {
			panic(errors.Unreachable("argument %d maps to parameter %d of %d", i, slot, len(params)))
		}
		if slot == paramsSlot {
			elements = append(elements, a)
			continue
		}
		if slots[slot] != nil {
			panic(errors.Unreachable("parameter %s bound twice", params[slot]))
		}

		refKind := args.RefKind(i)
		refKinds[slot] = refKind
		if safeToReorder(a, refKind) {
			slots[slot] = a
			continue
		}
		tmp := f.Temp(sc, a.GetType(), refKind)
		ref := f.Local(tmp)
		if refKind != symbols.RefNone {
			stores = append(stores, f.AssignRef(ref, a))
		} else {
			stores = append(stores, f.Assign(ref, a))
		}
		slots[slot] = f.Local(tmp)
	}

	if paramsSlot >= 0 {
		slots[paramsSlot] = f.ArrayOf(params[paramsSlot].Type, elements)
	}
	for i, s := range slots {
		if s != nil {
			continue
		}
		if params[i].IsOptional {
			panic(errors.NotImplemented("default value for omitted optional parameter " + params[i].Name))
		}
		panic(errors.Unreachable("no argument for parameter %s", params[i]))
	}

	temps := mergeStores(f, slots, stores)
	return bound.Positional(slots, refKinds), temps
}

// mergeStores folds the temporary stores back into slots. A slot reading the
// temporary of the first pending store takes the stored expression itself;
// a slot reading a later pending store becomes a sequence running every
// pending store up to and including its own, then reading its temporary.
// Stores keep their relative order and each runs before its load. Unless
// every store collapsed, all temporaries are returned to be declared around
// the call.
func mergeStores(f *bound.Factory, slots []bound.Expression, stores []*bound.Assignment) []*symbols.LocalSymbol {
	next, collapsed := 0, 0
	for i := 0; i < len(slots) && next < len(stores); i++ {
		ref, ok := slots[i].(*bound.LocalRef)
		if !ok {
			continue
		}
		j := pendingStore(stores[next:], ref.Local)
		if j < 0 {
			continue
		}
		j += next
		if j == next {
			slots[i] = stores[j].Right
			collapsed++
		} else {
			effects := make([]bound.Expression, 0, j-next+1)
			for _, s := range stores[next : j+1] {
				effects = append(effects, s)
			}
			slots[i] = f.Sequence(nil, effects, ref)
		}
		next = j + 1
	}
	if next != len(stores) {
		panic(errors.Unreachable("%d argument stores left unplaced", len(stores)-next))
	}
	if collapsed == len(stores) {
		return nil
	}
	temps := make([]*symbols.LocalSymbol, len(stores))
	for i, s := range stores {
		temps[i] = s.Left.(*bound.LocalRef).Local
	}
	return temps
}

func pendingStore(stores []*bound.Assignment, tmp *symbols.LocalSymbol) int {
	for i, s := range stores {
		if s.Left.(*bound.LocalRef).Local == tmp {
			return i
		}
	}
	return -1
}

// safeToReorder reports whether e can be evaluated at any point relative to
// the other arguments of the call.
func safeToReorder(e bound.Expression, refKind symbols.RefKind) bool {
	for {
		if e.GetConstant() != nil {
			return true
		}
		switch n := e.(type) {
		case *bound.LocalRef, *bound.ParameterRef:
			return refKind != symbols.RefNone
		case *bound.Conversion:
			switch n.Kind {
			case bound.ConversionNullLiteral, bound.ConversionMethodGroup,
				bound.ConversionAnonymousFunction, bound.ConversionImplicitConstant:
				return true
			case bound.ConversionIdentity, bound.ConversionBoxing,
				bound.ConversionImplicitNumeric, bound.ConversionExplicitNumeric,
				bound.ConversionImplicitEnumeration, bound.ConversionExplicitEnumeration,
				bound.ConversionImplicitNullable, bound.ConversionExplicitNullable:
				e = n.Operand
				continue
			}
		}
		return false
	}
}
