package lowering

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/diagnostic"
	"github.com/orizon-lang/orizon-lower/internal/errors"
	"github.com/orizon-lang/orizon-lower/internal/symbols"
)

// Options configures a Pipeline.
type Options struct {
	// Logger receives one line per lowered unit. Nil discards.
	Logger *log.Logger
	// Concurrency bounds LowerAll. Values <= 0 read ORIZON_LOWER_CONCURRENCY,
	// then fall back to GOMAXPROCS.
	Concurrency int
}

// Pipeline runs the lowering passes over method bodies and field
// initializers in their fixed order. It is safe for concurrent use as long
// as the diagnostics sink is.
type Pipeline struct {
	lib         symbols.WellKnown
	diags       diagnostic.Sink
	logger      *log.Logger
	concurrency int
}

// NewPipeline returns a pipeline resolving special members through lib and
// reporting bad constants to diags (which may be nil).
func NewPipeline(lib symbols.WellKnown, diags diagnostic.Sink, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{
		lib:         lib,
		diags:       diags,
		logger:      logger,
		concurrency: concurrency(opts.Concurrency),
	}
}

// concurrency returns the worker limit for LowerAll, clamped to [1, 256].
func concurrency(n int) int {
	if n <= 0 {
		if v := os.Getenv("ORIZON_LOWER_CONCURRENCY"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				n = parsed
			}
		}
	}
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > 256 {
		return 256
	}
	if n < 1 {
		return 1
	}
	return n
}

type pass func(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement

// lower runs every pass. Later passes rely on shapes earlier ones removed:
// argument rewriting expects compound assignment to be gone, and operator
// lowering expects decimal arithmetic outside compound assignment to be
// gone already.
func (p *Pipeline) lower(f *bound.Factory, sc bound.Scope, body bound.Statement) *bound.Block {
	passes := []pass{
		LowerControlFlow,
		LowerIncrements,
		LowerDecimals,
		OptimizeNullChecks,
		LowerOperators,
		RewriteArguments,
		func(f *bound.Factory, sc bound.Scope, body bound.Statement) bound.Statement {
			return MarkBadConstants(f, sc, body, p.diags)
		},
	}
	for _, run := range passes {
		body = run(f, sc, body)
		if body == nil {
			return f.Block()
		}
	}
	if b, ok := body.(*bound.Block); ok {
		return b
	}
	return f.Block(body)
}

// LowerMethodBody lowers the body of method.
func (p *Pipeline) LowerMethodBody(method *symbols.MethodSymbol, body *bound.Block) *bound.Block {
	return p.lower(bound.NewFactory(p.lib), bound.Scope{Method: method}, body)
}

// LowerFieldInitializers lowers the field initializers run by ctors. The
// result is attributed to the constructor only when there is exactly one;
// otherwise it is shared and belongs to none of them. The block spans every
// initializer.
func (p *Pipeline) LowerFieldInitializers(ctors []*symbols.MethodSymbol, inits []*bound.FieldInitializer) *bound.Block {
	var sc bound.Scope
	if len(ctors) == 1 {
		sc.Method = ctors[0]
	}
	f := bound.NewFactory(p.lib)
	stmts := make([]bound.Statement, 0, len(inits))
	for _, fi := range inits {
		stmts = append(stmts, fi)
		f.Span = f.Span.Union(fi.Span)
	}
	return p.lower(f, sc, f.Block(stmts...))
}

// Unit is one independently lowered piece of code: either a method body or
// a set of field initializers shared by Constructors.
type Unit struct {
	Name         string
	Method       *symbols.MethodSymbol
	Body         *bound.Block
	Constructors []*symbols.MethodSymbol
	Initializers []*bound.FieldInitializer
}

// Result is the lowered form of a Unit. Err is set when the unit uses a
// construct lowering does not implement.
type Result struct {
	Name string
	Body *bound.Block
	Err  error
}

// LowerAll lowers units in parallel. Results are in the order of units.
// Cancellation is observed between units; the returned error is the
// context's.
func (p *Pipeline) LowerAll(ctx context.Context, units []Unit) ([]Result, error) {
	results := make([]Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, p.concurrency)

	for i := range units {
		i := i

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}

			defer func() { <-sem }()

			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = p.lowerUnit(units[i])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// lowerUnit lowers u, turning a not-implemented fault into the unit's error.
// Any other panic is an internal fault and propagates.
func (p *Pipeline) lowerUnit(u Unit) (res Result) {
	res.Name = u.Name
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if !errors.IsNotImplemented(r) {
				panic(r)
			}
			res.Body = nil
			res.Err = fmt.Errorf("%s: %w", u.Name, r.(error))
			p.logger.Printf("lower %s: %v", u.Name, res.Err)
		}
	}()

	if u.Body != nil {
		res.Body = p.LowerMethodBody(u.Method, u.Body)
	} else {
		res.Body = p.LowerFieldInitializers(u.Constructors, u.Initializers)
	}
	p.logger.Printf("lowered %s in %s", u.Name, time.Since(start))

	return res
}
