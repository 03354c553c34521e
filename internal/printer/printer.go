// Package printer writes colored status lines for the CLI.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a green line with a checkmark prefix.
func Success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Info prints an uncolored line.
func Info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Warning prints a yellow line with a warning prefix.
func Warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠️  %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Heading prints a cyan section heading.
func Heading(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, "%s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with an explanation and numbered suggestions
// to w, and returns an error carrying just the title.
func Error(w io.Writer, title, explanation string, suggestions ...string) error {
	red.Fprintf(w, "%s\n\n", title)
	fmt.Fprintf(w, "%s\n", explanation)

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}
