// Diagnostic collection for the lowering pipeline.
// Lowering raises almost no diagnostics of its own; the engine records the few
// notes passes produce and is safe for concurrent use across method bodies.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/orizon-lang/orizon-lower/internal/position"
)

// DiagnosticLevel is a diagnostic severity. Lower values sort first.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCategory names the phase that raised a diagnostic.
type DiagnosticCategory int

const (
	DiagnosticSemantic DiagnosticCategory = iota
	DiagnosticLowering
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticSemantic:
		return "semantic"
	case DiagnosticLowering:
		return "lowering"
	default:
		return "unknown"
	}
}

// Diagnostic is one note attached to a source span.
type Diagnostic struct {
	Code     string
	Title    string
	Message  string
	Method   string
	Tags     []string
	Span     position.Span
	Level    DiagnosticLevel
	Category DiagnosticCategory
}

// DiagnosticBuilder assembles a Diagnostic field by field.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic starts an error-level diagnostic.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Info() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticInfo

	return db
}

func (db *DiagnosticBuilder) Lowering() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticLowering

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Title(title string) *DiagnosticBuilder {
	db.diagnostic.Title = title

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

// Method records the method body the diagnostic was raised in.
func (db *DiagnosticBuilder) Method(name string) *DiagnosticBuilder {
	db.diagnostic.Method = name

	return db
}

func (db *DiagnosticBuilder) Tag(tag string) *DiagnosticBuilder {
	db.diagnostic.Tags = append(db.diagnostic.Tags, tag)

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

// Sink receives diagnostics from lowering passes.
type Sink interface {
	AddDiagnostic(d *Diagnostic)
}

// DiagnosticEngine is the Sink used by the driver.
// All methods are safe for concurrent use.
type DiagnosticEngine struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	config      DiagnosticConfig
}

// DiagnosticConfig filters and promotes diagnostics as they are added.
type DiagnosticConfig struct {
	IgnoreCodes      []string
	MaxErrors        int // zero means unlimited
	WarningsAsErrors bool
	ShowMethod       bool
}

// NewDiagnosticEngine returns an empty engine using config.
func NewDiagnosticEngine(config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{config: config}
}

// AddDiagnostic stores a copy of diagnostic after applying the config.
func (de *DiagnosticEngine) AddDiagnostic(diagnostic *Diagnostic) {
	for _, code := range de.config.IgnoreCodes {
		if diagnostic.Code == code {
			return
		}
	}

	d := *diagnostic
	if de.config.WarningsAsErrors && d.Level == DiagnosticWarning {
		d.Level = DiagnosticError
	}

	de.mu.Lock()
	defer de.mu.Unlock()

	if d.Level == DiagnosticError && de.config.MaxErrors > 0 && de.countLocked(DiagnosticError) >= de.config.MaxErrors {
		return
	}

	de.diagnostics = append(de.diagnostics, d)
}

func (de *DiagnosticEngine) countLocked(level DiagnosticLevel) int {
	n := 0

	for _, d := range de.diagnostics {
		if d.Level == level {
			n++
		}
	}

	return n
}

// GetDiagnostics returns a snapshot of all diagnostics sorted by position
// and severity, so the order does not depend on which goroutine reported first.
func (de *DiagnosticEngine) GetDiagnostics() []Diagnostic {
	de.mu.Lock()
	out := append([]Diagnostic(nil), de.diagnostics...)
	de.mu.Unlock()

	sortDiagnostics(out)

	return out
}

// GetErrors is GetDiagnostics restricted to errors.
func (de *DiagnosticEngine) GetErrors() []Diagnostic {
	var errors []Diagnostic

	for _, diag := range de.GetDiagnostics() {
		if diag.Level == DiagnosticError {
			errors = append(errors, diag)
		}
	}

	return errors
}

// HasErrors reports whether any error was recorded.
func (de *DiagnosticEngine) HasErrors() bool {
	de.mu.Lock()
	defer de.mu.Unlock()

	return de.countLocked(DiagnosticError) > 0
}

// Len returns the number of recorded diagnostics.
func (de *DiagnosticEngine) Len() int {
	de.mu.Lock()
	defer de.mu.Unlock()

	return len(de.diagnostics)
}

// Clear drops everything recorded so far.
func (de *DiagnosticEngine) Clear() {
	de.mu.Lock()
	de.diagnostics = de.diagnostics[:0]
	de.mu.Unlock()
}

func sortDiagnostics(list []Diagnostic) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]

		// Source order first; severity and method break ties.
		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}

		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}

		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}

		if a.Level != b.Level {
			return a.Level < b.Level
		}

		return a.Method < b.Method
	})
}

// FormatDiagnostics renders GetDiagnostics one entry per block.
func (de *DiagnosticEngine) FormatDiagnostics() string {
	diags := de.GetDiagnostics()
	if len(diags) == 0 {
		return ""
	}

	var result strings.Builder

	for i := range diags {
		result.WriteString(de.formatSingleDiagnostic(&diags[i]))
	}

	return result.String()
}

func (de *DiagnosticEngine) formatSingleDiagnostic(diag *Diagnostic) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s: %s[%s]: %s\n",
		diag.Span,
		diag.Level.String(),
		diag.Code,
		diag.Title,
	))

	if diag.Message != "" {
		result.WriteString(fmt.Sprintf("  %s\n", diag.Message))
	}

	if de.config.ShowMethod && diag.Method != "" {
		result.WriteString(fmt.Sprintf("  in %s\n", diag.Method))
	}

	return result.String()
}

// BadConstant notes that a field access with an unusable constant was
// flagged so code generation does not emit it.
func BadConstant(span position.Span, field, method string) *Diagnostic {
	return NewDiagnostic().
		Info().
		Lowering().
		Code("L0001").
		Title("Constant value not emitted").
		Message(fmt.Sprintf("Field '%s' has no usable constant value; the access is marked erroneous", field)).
		Span(span).
		Method(method).
		Tag("bad-constant").
		Build()
}
