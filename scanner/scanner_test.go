package scanner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nkansah/loxgo/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, err := New(t.Name(), src).Scan()
	if err != nil {
		t.Fatalf("Scan() returned unexpected error: %s", err)
	}
	return tokens
}

func types(tokens []token.Token) []token.Type {
	types := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tokens := scan(t, "(){},.-+;*!!====<=<>=>/ ")
	want := []token.Type{
		token.LEFTPAREN, token.RIGHTPAREN, token.LEFTBRACE, token.RIGHTBRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.BANG, token.BANGEQUAL, token.EQUALEQUAL, token.EQUAL, token.LESSEQUAL, token.LESS,
		token.GREATEREQUAL, token.GREATER, token.SLASH, token.EOF,
	}
	if diff := cmp.Diff(want, types(tokens)); diff != "" {
		t.Errorf("Scan() token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	tokens := scan(t, "and class fn fun orbit nil foo")
	want := []token.Type{
		token.AND, token.CLASS, token.IDENT, token.FUN, token.IDENT, token.NIL, token.IDENT, token.EOF,
	}
	if diff := cmp.Diff(want, types(tokens)); diff != "" {
		t.Errorf("Scan() token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNumberLiteral(t *testing.T) {
	tokens := scan(t, "123 45.67 89.")
	wantLiterals := []any{123.0, 45.67, 89.0}
	var got []any
	for _, tok := range tokens {
		if tok.Type == token.NUMBER {
			got = append(got, tok.Literal)
		}
	}
	if diff := cmp.Diff(wantLiterals, got); diff != "" {
		t.Errorf("number literals mismatch (-want +got):\n%s", diff)
	}
	// The trailing "." after 89 is not part of the number: it's a separate DOT
	// token, since Lox has no support for method calls directly on a number
	// literal that ends a statement.
	if got := tokens[len(tokens)-2].Type; got != token.DOT {
		t.Errorf("token before EOF = %s, want %s", got, token.DOT)
	}
}

func TestScanStringLiteral(t *testing.T) {
	tokens := scan(t, `"hello world"`)
	if diff := cmp.Diff([]token.Type{token.STRING, token.EOF}, types(tokens)); diff != "" {
		t.Errorf("Scan() token types mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Literal != "hello world" {
		t.Errorf("Literal = %q, want %q", tokens[0].Literal, "hello world")
	}
}

func TestScanUnterminatedStringIsError(t *testing.T) {
	_, err := New(t.Name(), `"unterminated`).Scan()
	if err == nil {
		t.Fatal("Scan() returned nil error, want an unterminated string error")
	}
}

func TestScanSkipsCommentsAndWhitespace(t *testing.T) {
	tokens := scan(t, "// a comment\n  1 + 2 // trailing\n")
	if diff := cmp.Diff([]token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}, types(tokens)); diff != "" {
		t.Errorf("Scan() token types mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Start.Line != 2 {
		t.Errorf("first token line = %d, want 2", tokens[0].Start.Line)
	}
}

func TestScanUnexpectedCharacterCollectsAndContinues(t *testing.T) {
	tokens, err := New(t.Name(), "1 @ 2").Scan()
	if err == nil {
		t.Fatal("Scan() returned nil error, want an unexpected character error")
	}
	want := []token.Type{token.NUMBER, token.NUMBER, token.EOF}
	if diff := cmp.Diff(want, types(tokens)); diff != "" {
		t.Errorf("Scan() recovered token types mismatch (-want +got):\n%s", diff)
	}
}
