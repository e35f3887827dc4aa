package interpreter

import (
	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/token"
)

// Environment is a single scope frame: a name-to-value mapping plus a link to
// the enclosing frame. The chain of frames rooted at the interpreter's
// globals is shared by every closure that captured a frame on it, so frames
// are plain heap values kept alive by ordinary Go garbage collection rather
// than any explicit ownership scheme.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates a frame whose enclosing frame is parent, which may
// be nil for the global frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define binds name to value in this frame, overwriting any existing
// binding. It never fails.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get reads the variable named by tok, searching this frame and then each
// enclosing frame in turn. It panics with a [*lox.RuntimeError] if the name
// is bound nowhere on the chain.
func (e *Environment) Get(tok token.Token) Value {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[tok.Lexeme]; ok {
			return v
		}
	}
	panic(lox.NewRuntimeErrorAtToken(tok, "Undefined variable %q.", tok.Lexeme))
}

// Assign writes value to the nearest enclosing frame that already has a
// binding for tok, searching this frame and then each enclosing frame in
// turn. Unlike Define, it never creates a new binding: it panics with a
// [*lox.RuntimeError] if the name is bound nowhere on the chain.
func (e *Environment) Assign(tok token.Token, value Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[tok.Lexeme]; ok {
			env.values[tok.Lexeme] = value
			return
		}
	}
	panic(lox.NewRuntimeErrorAtToken(tok, "Undefined variable %q.", tok.Lexeme))
}

// ancestor walks depth parent links up from e. The resolver's contract
// guarantees depth is always in range for the distances it records.
func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for range depth {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame exactly depth hops up the chain, bypassing
// the normal search. Used only when the resolver recorded a distance.
func (e *Environment) GetAt(depth int, name string) Value {
	return e.ancestor(depth).values[name]
}

// AssignAt writes value to name in the frame exactly depth hops up the
// chain, bypassing the normal search. Used only when the resolver recorded a
// distance.
func (e *Environment) AssignAt(depth int, tok token.Token, value Value) {
	e.ancestor(depth).values[tok.Lexeme] = value
}
