// Package ansi wraps [fmt] so that output text can contain ${NAME}
// placeholders for ANSI escape codes (e.g. ${RED}, ${BOLD}, ${RESET}).
// Placeholders are left as colour codes when both stdout and stderr are
// terminals, and stripped entirely otherwise, so the same format strings
// work whether output is read by a person or piped into a diff.
package ansi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var codes = map[string]int{
	"RESET":     0,
	"BOLD":      1,
	"FAINT":     2,
	"ITALIC":    3,
	"UNDERLINE": 4,
	"BLACK":     30,
	"RED":       31,
	"GREEN":     32,
	"YELLOW":    33,
	"BLUE":      34,
	"MAGENTA":   35,
	"CYAN":      36,
	"WHITE":     37,
	"DEFAULT":   39,
}

// Enabled reports whether ANSI codes will be emitted. True only when both
// stdout and stderr are connected to a terminal.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))

var (
	colorReplacer *strings.Replacer
	plainReplacer *strings.Replacer
)

func init() {
	var colorPairs, plainPairs []string
	for name, code := range codes {
		placeholder := fmt.Sprintf("${%s}", name)
		colorPairs = append(colorPairs, placeholder, fmt.Sprintf("\x1b[%dm", code))
		plainPairs = append(plainPairs, placeholder, "")
	}
	colorReplacer = strings.NewReplacer(colorPairs...)
	plainReplacer = strings.NewReplacer(plainPairs...)
}

func replace(s string) string {
	if Enabled {
		return colorReplacer.Replace(s)
	}
	return plainReplacer.Replace(s)
}

func replaceStrings(a []any) []any {
	for i, arg := range a {
		if s, ok := arg.(string); ok {
			a[i] = replace(s)
		}
	}
	return a
}

// Sprintf formats according to a format specifier, resolving ${NAME}
// placeholders in the result.
func Sprintf(format string, a ...any) string {
	return replace(fmt.Sprintf(format, a...))
}

// Fprintf writes the result of [Sprintf] to w.
func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return fmt.Fprint(w, Sprintf(format, a...))
}

// Sprint formats its operands with fmt's default formatting, resolving
// ${NAME} placeholders in any string operands.
func Sprint(a ...any) string {
	return fmt.Sprint(replaceStrings(a)...)
}

// Fprintln writes its operands to w as [Sprint] would, followed by a
// newline.
func Fprintln(w io.Writer, a ...any) (int, error) {
	return fmt.Fprintln(w, replaceStrings(a)...)
}
