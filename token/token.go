// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser, along with the source position machinery used to
// point at them in diagnostics.
package token

import (
	"bytes"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Type identifies the lexical category of a [Token].
type Type int

const (
	// Single-character tokens.
	LEFTPAREN Type = iota
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR

	// One or two character tokens.
	BANG
	BANGEQUAL
	EQUAL
	EQUALEQUAL
	GREATER
	GREATEREQUAL
	LESS
	LESSEQUAL

	// Literals.
	IDENT
	STRING
	NUMBER

	keywordsStart
	// Keywords.
	AND
	CLASS
	ELSE
	FALSE
	FUN
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
	ASSERT
	keywordsEnd

	EOF
)

var typeStrings = map[Type]string{
	LEFTPAREN:    "(",
	RIGHTPAREN:   ")",
	LEFTBRACE:    "{",
	RIGHTBRACE:   "}",
	COMMA:        ",",
	DOT:          ".",
	MINUS:        "-",
	PLUS:         "+",
	SEMICOLON:    ";",
	SLASH:        "/",
	STAR:         "*",
	BANG:         "!",
	BANGEQUAL:    "!=",
	EQUAL:        "=",
	EQUALEQUAL:   "==",
	GREATER:      ">",
	GREATEREQUAL: ">=",
	LESS:         "<",
	LESSEQUAL:    "<=",
	IDENT:        "identifier",
	STRING:       "string",
	NUMBER:       "number",
	AND:          "and",
	CLASS:        "class",
	ELSE:         "else",
	FALSE:        "false",
	FUN:          "fun",
	FOR:          "for",
	IF:           "if",
	NIL:          "nil",
	OR:           "or",
	PRINT:        "print",
	RETURN:       "return",
	SUPER:        "super",
	THIS:         "this",
	TRUE:         "true",
	VAR:          "var",
	WHILE:        "while",
	ASSERT:       "assert",
	EOF:          "EOF",
}

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var keywordTypesByIdent = func() map[string]Type {
	m := make(map[string]Type, keywordsEnd-keywordsStart-1)
	for typ := keywordsStart + 1; typ < keywordsEnd; typ++ {
		m[typeStrings[typ]] = typ
	}
	return m
}()

// IdentType returns the keyword [Type] for the given identifier text, or
// [IDENT] if it isn't a reserved word.
func IdentType(ident string) Type {
	if typ, ok := keywordTypesByIdent[ident]; ok {
		return typ
	}
	return IDENT
}

// Token is a single lexeme along with its decoded literal value (if any) and
// the source range it occupies.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // float64 for NUMBER, string for STRING, nil otherwise
	Start   Position
	End     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}

// Format implements [fmt.Formatter]. The 'm' verb renders the token the way
// it should appear in a "message" position inside an error, e.g. "at end" for
// [EOF] and "at '<lexeme>'" otherwise, matching the jlox convention.
func (t Token) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		if t.Type == EOF {
			fmt.Fprint(f, "at end")
		} else {
			fmt.Fprintf(f, "at '%s'", t.Lexeme)
		}
	default:
		fmt.Fprint(f, t.String())
	}
}

// File is a named, line-indexed source text.
type File struct {
	name        string
	contents    []byte
	lineOffsets []int // byte offset of the start of each line, 1-indexed via lineOffsets[line-1]
}

// NewFile indexes contents by line so that [File.Line] and [Position]
// rendering can recover source text cheaply.
func NewFile(name string, contents []byte) *File {
	f := &File{name: name, contents: contents, lineOffsets: []int{0}}
	for i, b := range contents {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the file's name, as given to [NewFile].
func (f *File) Name() string {
	return f.name
}

// Line returns the raw bytes of the given 1-based line number, excluding the
// trailing newline.
func (f *File) Line(line int) []byte {
	if line < 1 || line > len(f.lineOffsets) {
		return nil
	}
	start := f.lineOffsets[line-1]
	end := len(f.contents)
	if line < len(f.lineOffsets) {
		end = f.lineOffsets[line] - 1
	}
	if end < start {
		end = start
	}
	return bytes.TrimRight(f.contents[start:end], "\r")
}

// Position identifies a single rune within a [File] by line and column.
// Column is a 0-based byte offset into the line, matching how the scanner
// tracks it while consuming bytes.
type Position struct {
	File   *File
	Line   int
	Column int
}

// Compare orders positions first by line, then by column.
func (p Position) Compare(other Position) int {
	if p.Line != other.Line {
		return p.Line - other.Line
	}
	return p.Column - other.Column
}

func (p Position) String() string {
	name := "<input>"
	if p.File != nil {
		name = p.File.Name()
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column+1)
}

// Format implements [fmt.Formatter]. The 'm' verb renders a column that
// accounts for wide/multi-byte runes preceding it on the line, using
// [runewidth.StringWidth], so carets drawn beneath line text line up.
func (p Position) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		width := 0
		if p.File != nil {
			line := p.File.Line(p.Line)
			if p.Column <= len(line) {
				width = runewidth.StringWidth(string(line[:p.Column]))
			}
		}
		fmt.Fprintf(f, "%s:%d:%d", p.fileName(), p.Line, width+1)
	default:
		fmt.Fprint(f, p.String())
	}
}

func (p Position) fileName() string {
	if p.File == nil {
		return "<input>"
	}
	return p.File.Name()
}
