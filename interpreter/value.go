package interpreter

import (
	"fmt"
	"strconv"

	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/token"
)

// Value is implemented by every runtime value a Lox program can produce:
// numbers, strings, booleans, nil, callables (functions/classes/natives),
// and instances. Operators are double-dispatched through UnaryOp/BinaryOp so
// each concrete type owns its own arithmetic rather than a giant type switch
// in the evaluator.
type Value interface {
	String() string
	IsTruthy() bool
	UnaryOp(op token.Token) Value
	BinaryOp(op token.Token, right Value) Value
}

func invalidUnaryOpError(op token.Token, operand Value) error {
	return lox.NewRuntimeErrorAtToken(op, "Operand must be a number.")
}

func invalidBinaryOpError(op token.Token, left, right Value) error {
	if op.Type == token.PLUS {
		return lox.NewRuntimeErrorAtToken(op, "Operands must be two numbers or two strings.")
	}
	return lox.NewRuntimeErrorAtToken(op, "Operands must be numbers.")
}

// loxNumber is an IEEE-754 double.
type loxNumber float64

var _ Value = loxNumber(0)

func (n loxNumber) String() string {
	s := strconv.FormatFloat(float64(n), 'f', -1, 64)
	if dot := len(s) - 2; dot >= 0 && s[dot:] == ".0" {
		return s[:dot]
	}
	return s
}

// IsTruthy is always true: zero is a truthy number, unlike falsy-zero
// languages. Only nil and false are falsy in Lox.
func (n loxNumber) IsTruthy() bool { return true }

func (n loxNumber) UnaryOp(op token.Token) Value {
	if op.Type == token.MINUS {
		return -n
	}
	panic(invalidUnaryOpError(op, n))
}

func (n loxNumber) BinaryOp(op token.Token, right Value) Value {
	r, ok := right.(loxNumber)
	if !ok {
		panic(invalidBinaryOpError(op, n, right))
	}
	switch op.Type {
	case token.PLUS:
		return n + r
	case token.MINUS:
		return n - r
	case token.STAR:
		return n * r
	case token.SLASH:
		if r == 0 {
			panic(lox.NewRuntimeErrorAtToken(op, "Division by zero."))
		}
		return n / r
	case token.GREATER:
		return loxBool(n > r)
	case token.GREATEREQUAL:
		return loxBool(n >= r)
	case token.LESS:
		return loxBool(n < r)
	case token.LESSEQUAL:
		return loxBool(n <= r)
	default:
		panic(invalidBinaryOpError(op, n, right))
	}
}

// loxString is a Lox string value.
type loxString string

var _ Value = loxString("")

func (s loxString) String() string   { return string(s) }
func (s loxString) IsTruthy() bool   { return true }
func (s loxString) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, s))
}

func (s loxString) BinaryOp(op token.Token, right Value) Value {
	r, ok := right.(loxString)
	if !ok || op.Type != token.PLUS {
		panic(invalidBinaryOpError(op, s, right))
	}
	return s + r
}

// loxBool is a Lox boolean value.
type loxBool bool

var _ Value = loxBool(false)

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b loxBool) IsTruthy() bool { return bool(b) }
func (b loxBool) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, b))
}
func (b loxBool) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, b, right))
}

// loxNil is the Lox nil value.
type loxNil struct{}

var _ Value = loxNil{}

func (n loxNil) String() string { return "nil" }
func (n loxNil) IsTruthy() bool  { return false }
func (n loxNil) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, n))
}
func (n loxNil) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, n, right))
}

// Callable is implemented by every value that can appear as the callee of a
// call expression: user-defined functions, natives, and classes
// (construction).
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, args []Value) Value
}

// Native is a callable implemented by the host rather than by Lox source,
// e.g. clock.
type Native struct {
	Name  string
	arity int
	Fn    func(i *Interpreter, args []Value) Value
}

var _ Callable = (*Native)(nil)

func (n *Native) String() string               { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *Native) IsTruthy() bool                { return true }
func (n *Native) UnaryOp(op token.Token) Value  { panic(invalidUnaryOpError(op, n)) }
func (n *Native) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, n, right))
}
func (n *Native) Arity() int { return n.arity }
func (n *Native) Call(i *Interpreter, args []Value) Value {
	return n.Fn(i, args)
}

// LoxFunction is a user-defined function or method. It closes over the
// environment in which it was declared, so nested functions capture their
// enclosing locals by reference.
type LoxFunction struct {
	Decl          *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

var _ Callable = (*LoxFunction)(nil)

func (f *LoxFunction) String() string { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }
func (f *LoxFunction) IsTruthy() bool { return true }
func (f *LoxFunction) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, f))
}
func (f *LoxFunction) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, f, right))
}
func (f *LoxFunction) Arity() int { return len(f.Decl.Params) }

// Bind returns a copy of f whose closure is a fresh child frame of f's
// closure with "this" bound to instance, so method bodies can resolve
// "this" exactly like any other enclosing local.
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &LoxFunction{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *LoxFunction) Call(i *Interpreter, args []Value) Value {
	env := NewEnvironment(f.Closure)
	for idx, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[idx])
	}
	result := i.execStmts(f.Decl.Body, env)
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	if result.returning {
		return result.value
	}
	return loxNil{}
}

// LoxClass is a Lox class: a name, an optional superclass, and its declared
// methods. Method lookup walks the superclass chain.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

var _ Callable = (*LoxClass)(nil)

func (c *LoxClass) String() string { return fmt.Sprintf("<class %s>", c.Name) }
func (c *LoxClass) IsTruthy() bool { return true }
func (c *LoxClass) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, c))
}
func (c *LoxClass) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, c, right))
}

// FindMethod looks up name on c, walking the superclass chain.
func (c *LoxClass) FindMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *LoxClass) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *LoxClass) Call(i *Interpreter, args []Value) Value {
	instance := &LoxInstance{Class: c, Fields: map[string]Value{}}
	if init, ok := c.FindMethod("init"); ok {
		init.Bind(instance).Call(i, args)
	}
	return instance
}

// LoxInstance is an instance of a LoxClass: a bag of fields plus a pointer
// back to its class for method lookup. Fields shadow methods on read.
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]Value
}

var _ Value = (*LoxInstance)(nil)

func (inst *LoxInstance) String() string { return fmt.Sprintf("<%s instance>", inst.Class.Name) }
func (inst *LoxInstance) IsTruthy() bool { return true }
func (inst *LoxInstance) UnaryOp(op token.Token) Value {
	panic(invalidUnaryOpError(op, inst))
}
func (inst *LoxInstance) BinaryOp(op token.Token, right Value) Value {
	panic(invalidBinaryOpError(op, inst, right))
}

// Get reads property name off the instance: a field if present, else a
// method bound to this instance.
func (inst *LoxInstance) Get(name token.Token) Value {
	if v, ok := inst.Fields[name.Lexeme]; ok {
		return v
	}
	if m, ok := inst.Class.FindMethod(name.Lexeme); ok {
		return m.Bind(inst)
	}
	panic(lox.NewRuntimeErrorAtToken(name, "Undefined property %q.", name.Lexeme))
}

// Set writes value to field name on the instance, creating it if absent.
func (inst *LoxInstance) Set(name token.Token, value Value) {
	inst.Fields[name.Lexeme] = value
}
