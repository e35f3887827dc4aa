// Package scanner converts Lox source text into a sequence of lexical
// tokens.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/token"
)

const eof = -1

// Scanner converts source text into tokens. Tokens are produced in one pass
// via [Scanner.Scan]; lexical errors are collected rather than aborting the
// scan, so a single run can report every bad character in the input.
type Scanner struct {
	src  []byte
	file *token.File

	ch         rune
	offset     int // byte offset of ch in src
	pos        token.Position
	readOffset int
	lastSize   int

	errs lox.Errors
}

// New constructs a Scanner over src. name is used as the file name in
// reported positions.
func New(name, src string) *Scanner {
	file := token.NewFile(name, []byte(src))
	s := &Scanner{
		src:  []byte(src),
		file: file,
		pos:  token.Position{File: file, Line: 1, Column: 0},
	}
	s.advance()
	return s
}

// Scan lexes the entire source and returns the resulting tokens, always
// terminated by a single [token.EOF] token. If any lexical errors were
// encountered, they're returned as a single joined error via [lox.Errors.Err]
// and scanning still produces every token it could recover.
func (s *Scanner) Scan() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := s.next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, s.errs.Err()
}

func (s *Scanner) next() token.Token {
	s.skipWhitespaceAndComments()

	start := s.pos
	startOffset := s.offset
	switch {
	case s.ch == eof:
		return token.Token{Type: token.EOF, Start: start, End: s.pos}

	case s.ch == '(':
		return s.simple(token.LEFTPAREN, start)
	case s.ch == ')':
		return s.simple(token.RIGHTPAREN, start)
	case s.ch == '{':
		return s.simple(token.LEFTBRACE, start)
	case s.ch == '}':
		return s.simple(token.RIGHTBRACE, start)
	case s.ch == ',':
		return s.simple(token.COMMA, start)
	case s.ch == '.':
		return s.simple(token.DOT, start)
	case s.ch == '-':
		return s.simple(token.MINUS, start)
	case s.ch == '+':
		return s.simple(token.PLUS, start)
	case s.ch == ';':
		return s.simple(token.SEMICOLON, start)
	case s.ch == '*':
		return s.simple(token.STAR, start)
	case s.ch == '/':
		return s.simple(token.SLASH, start)

	case s.ch == '!':
		return s.oneOrTwo(token.BANG, '=', token.BANGEQUAL, start, startOffset)
	case s.ch == '=':
		return s.oneOrTwo(token.EQUAL, '=', token.EQUALEQUAL, start, startOffset)
	case s.ch == '<':
		return s.oneOrTwo(token.LESS, '=', token.LESSEQUAL, start, startOffset)
	case s.ch == '>':
		return s.oneOrTwo(token.GREATER, '=', token.GREATEREQUAL, start, startOffset)

	case s.ch == '"':
		return s.scanString(start)
	case isDigit(s.ch):
		return s.scanNumber(start, startOffset)
	case isAlpha(s.ch):
		return s.scanIdent(start, startOffset)

	default:
		ch := s.ch
		s.advance()
		s.errs.Add(start, s.pos, "unexpected character %q", ch)
		return s.next()
	}
}

func (s *Scanner) simple(typ token.Type, start token.Position) token.Token {
	lexeme := typ.String()
	s.advance()
	return token.Token{Type: typ, Lexeme: lexeme, Start: start, End: s.pos}
}

func (s *Scanner) oneOrTwo(one token.Type, second rune, two token.Type, start token.Position, startOffset int) token.Token {
	s.advance()
	typ := one
	if s.ch == second {
		s.advance()
		typ = two
	}
	lexeme := string(s.src[startOffset:s.offset])
	return token.Token{Type: typ, Lexeme: lexeme, Start: start, End: s.pos}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case s.ch == ' ' || s.ch == '\r' || s.ch == '\t' || s.ch == '\n':
			s.advance()
		case s.ch == '/' && s.peek() == '/':
			for s.ch != '\n' && s.ch != eof {
				s.advance()
			}
		default:
			return
		}
	}
}

// scanString consumes a "..." string literal, which may span multiple lines;
// each embedded newline advances the line counter as usual. Reaching EOF
// before the closing quote is a lexical error.
func (s *Scanner) scanString(start token.Position) token.Token {
	lexemeStart := s.offset
	s.advance() // opening quote
	contentStart := s.offset
	for s.ch != '"' && s.ch != eof {
		s.advance()
	}
	if s.ch == eof {
		s.errs.Add(start, s.pos, "unterminated string literal")
		return token.Token{Type: token.STRING, Lexeme: string(s.src[lexemeStart:s.offset]), Start: start, End: s.pos}
	}
	literal := string(s.src[contentStart:s.offset])
	s.advance() // closing quote
	return token.Token{
		Type:    token.STRING,
		Lexeme:  string(s.src[lexemeStart:s.offset]),
		Literal: literal,
		Start:   start,
		End:     s.pos,
	}
}

// scanNumber consumes one or more digits, optionally followed by '.' and one
// or more digits. A trailing '.' with no following digit is left unconsumed.
func (s *Scanner) scanNumber(start token.Position, startOffset int) token.Token {
	for isDigit(s.ch) {
		s.advance()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.advance()
		for isDigit(s.ch) {
			s.advance()
		}
	}
	lexeme := string(s.src[startOffset:s.offset])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		s.errs.Add(start, s.pos, "invalid number literal %q", lexeme)
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Start: start, End: s.pos}
}

func (s *Scanner) scanIdent(start token.Position, startOffset int) token.Token {
	for isAlphaNumeric(s.ch) {
		s.advance()
	}
	lexeme := string(s.src[startOffset:s.offset])
	return token.Token{Type: token.IdentType(lexeme), Lexeme: lexeme, Start: start, End: s.pos}
}

// advance reads the next rune into s.ch, updating position and offset
// bookkeeping. At end of input, s.ch becomes eof and stays there.
func (s *Scanner) advance() {
	if s.ch == eof {
		return
	}
	if s.ch == '\n' {
		s.pos.Line++
		s.pos.Column = 0
	} else if s.lastSize > 0 {
		s.pos.Column += s.lastSize
	}
	s.offset = s.readOffset
	if s.readOffset >= len(s.src) {
		s.ch = eof
		return
	}
	r, size := utf8.DecodeRune(s.src[s.readOffset:])
	s.lastSize = size
	s.readOffset += size
	s.ch = r
}

func (s *Scanner) peek() rune {
	if s.readOffset >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(s.src[s.readOffset:])
	return r
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
