package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/orizon-lang/orizon-lower/internal/bound"
	"github.com/orizon-lang/orizon-lower/internal/boundjson"
	"github.com/orizon-lang/orizon-lower/internal/cli"
	"github.com/orizon-lang/orizon-lower/internal/corlib"
	"github.com/orizon-lang/orizon-lower/internal/diagnostic"
	"github.com/orizon-lang/orizon-lower/internal/lowering"
	"github.com/orizon-lang/orizon-lower/internal/watch"
)

// orizon-lower reads bound programs in JSON form, lowers every method body
// and field initializer set, and prints the lowered trees.
// Flags:
//
//	-runtime       runtime library version to lower against.
//	-j             number of bodies lowered in parallel (0: ORIZON_LOWER_CONCURRENCY or GOMAXPROCS).
//	-watch         re-lower a file whenever it changes.
//	-v             log each lowered body to stderr.
//	-version       print version information.
//	-json-version  print version information as JSON.
func main() {
	var (
		runtimeVersion string
		jobs           int
		watchFiles     bool
		verbose        bool
		showVersion    bool
		jsonVersion    bool
	)
	flag.StringVar(&runtimeVersion, "runtime", corlib.LatestVersion, "runtime library version to lower against")
	flag.IntVar(&jobs, "j", 0, "number of bodies lowered in parallel")
	flag.BoolVar(&watchFiles, "watch", false, "re-lower files when they change")
	flag.BoolVar(&verbose, "v", false, "log each lowered body")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&jsonVersion, "json-version", false, "show version information as JSON")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] FILE.json...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Lower bound programs to the code generator's reduced tree vocabulary.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s prog.json                  # Lower and print\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -runtime 1.0.0 prog.json   # Lower against an older runtime\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -watch prog.json           # Re-lower on every save\n", os.Args[0])
	}
	flag.Parse()

	if showVersion || jsonVersion {
		cli.PrintVersion(os.Stdout, "orizon-lower", runtimeVersion, jsonVersion)
		return
	}
	if err := cli.ValidateArgs(flag.Args(), 1, "orizon-lower [OPTIONS] FILE.json..."); err != nil {
		cli.ExitWithError("%v", err)
	}

	lib, err := corlib.New(runtimeVersion)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	log.SetFlags(0)
	log.SetPrefix("orizon-lower: ")
	var logger *log.Logger
	if verbose {
		logger = log.New(os.Stderr, "orizon-lower: ", log.Lmicroseconds)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := &driver{
		lib:   lib,
		opts:  lowering.Options{Logger: logger, Concurrency: jobs},
		diags: diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{ShowMethod: true}),
		out:   os.Stdout,
		errw:  os.Stderr,
	}

	failed := false
	for _, path := range flag.Args() {
		if err := d.lowerFile(ctx, path); err != nil {
			log.Printf("%v", err)
			failed = true
		}
	}

	if !watchFiles {
		if failed {
			cli.ExitWithCode(1, "")
		}
		return
	}

	if err := d.watch(ctx, flag.Args()); err != nil {
		log.Fatalf("watch: %v", err)
	}
}

// driver lowers one file at a time; diags is reset for each file.
type driver struct {
	lib   *corlib.Library
	opts  lowering.Options
	diags *diagnostic.DiagnosticEngine
	out   io.Writer
	errw  io.Writer
}

// lowerFile lowers every body in path and prints the results. Bodies that
// use unsupported constructs are reported and make the file fail; the
// remaining bodies are still printed.
func (d *driver) lowerFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	prog, err := boundjson.Decode(f, d.lib)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	d.diags.Clear()
	p := lowering.NewPipeline(d.lib, d.diags, d.opts)

	units := make([]lowering.Unit, 0, len(prog.Bodies))
	for _, b := range prog.Bodies {
		units = append(units, lowering.Unit{
			Name:         b.Name,
			Method:       b.Method,
			Body:         b.Block,
			Constructors: b.Constructors,
			Initializers: b.Initializers,
		})
	}

	results, err := p.LowerAll(ctx, units)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(d.errw, "%s: %v\n", path, r.Err)
			failed++
			continue
		}
		fmt.Fprintf(d.out, "// %s\n%s\n", r.Name, bound.Print(r.Body))
	}
	if d.diags.Len() > 0 {
		fmt.Fprint(d.errw, d.diags.FormatDiagnostics())
	}
	if failed > 0 {
		return fmt.Errorf("%s: %d of %d bodies not lowered", path, failed, len(results))
	}
	return nil
}

func (d *driver) watch(ctx context.Context, paths []string) error {
	w, err := watch.New(paths, 100*time.Millisecond)
	if err != nil {
		return err
	}
	go w.Run(ctx)

	log.Printf("watching %d file(s); interrupt to stop", len(paths))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			log.Printf("watch: %v", err)
		case path, ok := <-w.Changes():
			if !ok {
				return nil
			}
			log.Printf("%s changed", filepath.Base(path))
			if err := d.lowerFile(ctx, path); err != nil {
				log.Printf("%v", err)
			}
		}
	}
}
