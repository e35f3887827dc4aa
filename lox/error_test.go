package lox

import (
	"testing"

	"github.com/nkansah/loxgo/token"
)

func TestErrorAtTokenRendersSingleWhereClause(t *testing.T) {
	file := token.NewFile("test.lox", []byte("x"))
	tok := token.Token{
		Type:   token.IDENT,
		Lexeme: "x",
		Start:  token.Position{File: file, Line: 3, Column: 0},
		End:    token.Position{File: file, Line: 3, Column: 1},
	}
	err := NewErrorAtToken(tok, "expected expression")
	if got, want := err.Error(), "[line 3] Error at 'x': expected expression"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorAtEOFTokenRendersAtEnd(t *testing.T) {
	file := token.NewFile("test.lox", []byte(""))
	tok := token.Token{
		Type:  token.EOF,
		Start: token.Position{File: file, Line: 1, Column: 0},
		End:   token.Position{File: file, Line: 1, Column: 0},
	}
	err := NewErrorAtToken(tok, "expected ';' after value")
	if got, want := err.Error(), "[line 1] Error at end: expected ';' after value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorRendersWithoutWhereClause(t *testing.T) {
	file := token.NewFile("test.lox", []byte("@"))
	start := token.Position{File: file, Line: 1, Column: 0}
	end := token.Position{File: file, Line: 1, Column: 1}
	err := NewError(start, end, "unexpected character %q", '@')
	if got, want := err.Error(), `[line 1] Error: unexpected character '@'`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
