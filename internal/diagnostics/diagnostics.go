package diagnostics

import (
	"fmt"

	"github.com/quiltlang/quilt/internal/token"
)

// Code identifies a diagnostic class. Codes are stable across releases
// so tooling can match on them.
type Code string

const (
	// ErrR001: a composition declaration references a module identity
	// that does not resolve to any unit file.
	ErrR001 Code = "R001"
	// ErrR002: circular module resolution (a unit forces itself,
	// directly or through another host).
	ErrR002 Code = "R002"
	// WarnC001: a host referenced a guest with no cached member list.
	WarnC001 Code = "C001"
	// WarnC002: a module was captured more than once within one pass.
	WarnC002 Code = "C002"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticError is a build diagnostic with a source position.
// Warnings are collected alongside errors; only errors fail a build.
type DiagnosticError struct {
	Code     Code
	Severity Severity
	Pos      token.Position
	Message  string
	// Hint is an optional secondary line suggesting a remedy.
	Hint string
}

func (d *DiagnosticError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Pos, d.Message)
}

// NewError creates an error diagnostic. Extra args are formatted into message.
func NewError(code Code, pos token.Position, message string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &DiagnosticError{Code: code, Severity: SeverityError, Pos: pos, Message: message}
}

// NewWarning creates a warning diagnostic.
func NewWarning(code Code, pos token.Position, message string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &DiagnosticError{Code: code, Severity: SeverityWarning, Pos: pos, Message: message}
}

// WithHint attaches a remedy hint and returns the same diagnostic.
func (d *DiagnosticError) WithHint(hint string) *DiagnosticError {
	d.Hint = hint
	return d
}

// HasErrors reports whether any diagnostic in the list is error-severity.
func HasErrors(diags []*DiagnosticError) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
