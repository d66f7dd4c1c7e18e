package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
)

// ColorEnabled reports whether colored output should be used for f.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Fprint writes diagnostics to w, one per line, with the hint (if any)
// as an indented secondary line.
func Fprint(w io.Writer, diags []*DiagnosticError, color bool) {
	for _, d := range diags {
		label := d.Severity.String()
		if color {
			switch d.Severity {
			case SeverityWarning:
				label = ansiYellow + label + ansiReset
			default:
				label = ansiRed + label + ansiReset
			}
		}
		fmt.Fprintf(w, "%s: %s: [%s] %s\n", d.Pos, label, d.Code, d.Message)
		if d.Hint != "" {
			if color {
				fmt.Fprintf(w, "  %shint: %s%s\n", ansiDim, d.Hint, ansiReset)
			} else {
				fmt.Fprintf(w, "  hint: %s\n", d.Hint)
			}
		}
	}
}
