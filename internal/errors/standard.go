// Package errors provides the standardized internal faults raised by lowering.
// Faults are panicked, never returned: they signal a defect in the compiler or
// a documented gap, not a problem with the program being compiled.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	// CategoryInternal marks a broken lowering invariant.
	CategoryInternal ErrorCategory = "INTERNAL"
	// CategoryNotImplemented marks a construct lowering knowingly does not support.
	CategoryNotImplemented ErrorCategory = "NOT_IMPLEMENTED"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newAt(2, category, code, message, context)
}

func newAt(skip int, category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Unreachable reports an internal invariant violation, such as an argument
// mapping that does not balance or a numeric category with no operator.
func Unreachable(format string, args ...interface{}) *StandardError {
	return newAt(2, CategoryInternal, "UNREACHABLE", fmt.Sprintf(format, args...), nil)
}

// MissingMember reports a runtime library member the lowering requires but the
// library model does not provide.
func MissingMember(member fmt.Stringer) *StandardError {
	return newAt(2, CategoryInternal, "MISSING_MEMBER",
		fmt.Sprintf("runtime library does not provide %s", member),
		map[string]interface{}{"member": member.String()})
}

// NotImplemented reports a construct lowering deliberately does not support.
func NotImplemented(feature string) *StandardError {
	return newAt(2, CategoryNotImplemented, "NOT_IMPLEMENTED",
		fmt.Sprintf("%s is not implemented", feature),
		map[string]interface{}{"feature": feature})
}

// IsNotImplemented reports whether v (typically a recovered panic value) is a
// NotImplemented fault.
func IsNotImplemented(v interface{}) bool {
	return categoryOf(v) == CategoryNotImplemented
}

// IsInternal reports whether v (typically a recovered panic value) is an
// internal invariant fault.
func IsInternal(v interface{}) bool {
	return categoryOf(v) == CategoryInternal
}

func categoryOf(v interface{}) ErrorCategory {
	err, ok := v.(error)
	if !ok {
		return ""
	}
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return ""
}
