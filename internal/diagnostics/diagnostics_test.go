package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quiltlang/quilt/internal/token"
)

func TestNewError_Formats(t *testing.T) {
	pos := token.Position{File: "app.unit.yaml", Line: 2, Column: 1}
	d := NewError(ErrR001, pos, "unknown module %s", "partials.ghost")
	if d.Severity != SeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	got := d.Error()
	for _, part := range []string{"R001", "app.unit.yaml:2:1", "partials.ghost"} {
		if !strings.Contains(got, part) {
			t.Errorf("Error() = %q, missing %q", got, part)
		}
	}
}

func TestNewWarning_WithHint(t *testing.T) {
	d := NewWarning(WarnC001, token.Position{}, "no cached members for module g").
		WithHint("run a clean rebuild")
	if d.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.Hint != "run a clean rebuild" {
		t.Errorf("hint = %q", d.Hint)
	}
}

func TestHasErrors(t *testing.T) {
	warn := NewWarning(WarnC001, token.Position{}, "w")
	err := NewError(ErrR001, token.Position{}, "e")
	if HasErrors([]*DiagnosticError{warn}) {
		t.Error("warnings alone must not count as errors")
	}
	if !HasErrors([]*DiagnosticError{warn, err}) {
		t.Error("error not detected")
	}
}

func TestFprint_PlainIncludesHintLine(t *testing.T) {
	var buf bytes.Buffer
	d := NewWarning(WarnC001, token.Position{File: "x", Line: 1, Column: 1}, "no cached members for module g").
		WithHint("run a clean rebuild")
	Fprint(&buf, []*DiagnosticError{d}, false)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "warning") || !strings.Contains(lines[0], "C001") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "hint: run a clean rebuild") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output contains ANSI escapes")
	}
}

func TestFprint_Color(t *testing.T) {
	var buf bytes.Buffer
	d := NewError(ErrR001, token.Position{}, "boom")
	Fprint(&buf, []*DiagnosticError{d}, true)
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Error("colored output missing the error color")
	}
}
