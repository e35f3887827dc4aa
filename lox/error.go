// Package lox provides the error types shared by the scanner, parser,
// resolver, and interpreter, along with the plain-text rendering that the CLI
// prints to stderr.
package lox

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/nkansah/loxgo/token"
)

// Error describes a compile-time problem (lexical, syntax, or resolution)
// attributed to a range of characters in the source code. where, if
// non-empty, is a token-style clause ("at end" / "at '<lexeme>'") inserted
// between "Error" and the message; scanner errors (which have no token to
// blame) leave it empty.
type Error struct {
	msg   string
	where string
	start token.Position
	end   token.Position
}

// NewError creates an [*Error] covering the given source range. The message
// is built from format and args as in [fmt.Sprintf].
func NewError(start, end token.Position, format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), start: start, end: end}
}

// Error renders the one-line diagnostic required by the CLI's error sink:
//
//	[line 12] Error at 'x': message
//
// or, when no where-clause was recorded:
//
//	[line 12] Error: message
//
// The "Error" keyword is bolded via fatih/color when stdout is a terminal,
// but that styling never changes the substring content, so scripts diffing
// stderr still match.
func (e *Error) Error() string {
	bold := color.New(color.Bold)
	if e.where == "" {
		return fmt.Sprintf("[line %d] %s: %s", e.start.Line, bold.Sprint("Error"), e.msg)
	}
	return fmt.Sprintf("[line %d] %s %s: %s", e.start.Line, bold.Sprint("Error"), e.where, e.msg)
}

// NewErrorAtToken creates an [*Error] describing a problem with tok, matching
// the classic jlox wording ("at end" / "at '<lexeme>'"). Parser and resolver
// errors use this form.
func NewErrorAtToken(tok token.Token, format string, args ...any) *Error {
	return &Error{
		msg:   fmt.Sprintf(format, args...),
		where: fmt.Sprintf("%m", tok),
		start: tok.Start,
		end:   tok.End,
	}
}

// Snippet renders the source line(s) the error covers with a caret
// underline, for use by tools that want a richer view than the single-line
// CLI message. Not used by the CLI (including -p), whose stderr output
// must stay exactly "[line N] Error ...: msg" to satisfy the external
// interface contract.
func (e *Error) Snippet() string {
	red := color.New(color.FgRed)
	var b strings.Builder
	fmt.Fprintln(&b, e.Error())

	lines := make([][]byte, e.end.Line-e.start.Line+1)
	for i := e.start.Line; i <= e.end.Line; i++ {
		line := e.start.File.Line(i)
		if !utf8.Valid(line) {
			return strings.TrimSuffix(b.String(), "\n")
		}
		lines[i-e.start.Line] = line
	}
	fmt.Fprintln(&b, string(lines[0]))
	if e.start == e.end {
		return strings.TrimSuffix(b.String(), "\n")
	}
	fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(string(lines[0][:min(e.start.Column, len(lines[0]))]))))
	end := len(lines[0])
	if len(lines) == 1 {
		end = e.end.Column
	}
	red.Fprintln(&b, strings.Repeat("~", runewidth.StringWidth(string(lines[0][min(e.start.Column, len(lines[0])):min(end, len(lines[0]))]))))
	return strings.TrimSuffix(b.String(), "\n")
}

// Errors is a list of [*Error]s collected while scanning, parsing, or
// resolving, so a single run can report more than one compile-time problem.
type Errors []*Error

// Add appends a new [*Error] built from format and args.
func (e *Errors) Add(start, end token.Position, format string, args ...any) {
	*e = append(*e, NewError(start, end, format, args...))
}

// AddFromToken appends a new [*Error] describing a problem with tok,
// rendered with the "at ..." clause.
func (e *Errors) AddFromToken(tok token.Token, format string, args ...any) {
	*e = append(*e, NewErrorAtToken(tok, format, args...))
}

// Err orders the accumulated errors by source position and joins them into a
// single error, or returns nil if there are none.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	sorted := slices.Clone(e)
	slices.SortFunc(sorted, func(a, b *Error) int { return a.start.Compare(b.start) })
	errs := make([]error, len(sorted))
	for i, err := range sorted {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// RuntimeError describes a failure raised while executing a program: an
// undefined variable, a type mismatch, division by zero, and so on. The
// interpreter raises these via panic and recovers them at the Interpret
// boundary, matching the "unwind to the top-level driver" contract.
type RuntimeError struct {
	msg string
	pos token.Position
}

// NewRuntimeError creates a [*RuntimeError] attributed to pos.
func NewRuntimeError(pos token.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{msg: fmt.Sprintf(format, args...), pos: pos}
}

// NewRuntimeErrorAtToken creates a [*RuntimeError] attributed to tok's start
// position.
func NewRuntimeErrorAtToken(tok token.Token, format string, args ...any) *RuntimeError {
	return NewRuntimeError(tok.Start, format, args...)
}

// Error renders the two-line diagnostic required by the CLI's runtime error
// sink:
//
//	message
//	[line 12]
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.msg, e.pos.Line)
}
