// Package interpreter walks a resolved program and executes it: the
// Environment chain, the Value/Callable/Class/Instance runtime types, and
// the tree-walking Interpreter itself.
package interpreter

import (
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/resolver"
	"github.com/nkansah/loxgo/token"
)

// Clock provides the current time for the clock builtin. Implementations
// need not return wall-clock time, only a monotonically nondecreasing
// number of seconds.
type Clock func() float64

func defaultClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Interpreter walks statements and expressions against a runtime
// environment chain, producing side effects (prints) and threading runtime
// errors. It's re-entrant across multiple calls to Interpret so the REPL can
// keep state (globals, distances) between lines.
type Interpreter struct {
	globals   *Environment
	distances resolver.Distances
	out       io.Writer
	clock     Clock
}

// Option configures an Interpreter constructed by New.
type Option func(*Interpreter)

// WithOutput sets the writer that Print statements write to. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithClock overrides the clock builtin's time source. Defaults to wall
// clock time.
func WithClock(c Clock) Option {
	return func(i *Interpreter) { i.clock = c }
}

// New constructs an Interpreter with a fresh global environment seeded with
// the clock native.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		globals:   NewEnvironment(nil),
		distances: resolver.Distances{},
		out:       os.Stdout,
		clock:     defaultClock,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.globals.Define("clock", &Native{
		Name: "clock",
		Fn: func(it *Interpreter, args []Value) Value {
			return loxNumber(it.clock())
		},
	})
	return i
}

// Interpret resolves program's scope distances into this Interpreter's
// running set and executes its statements against the global environment.
// State (globals, distances) is retained between calls, so the REPL can feed
// one line at a time to the same Interpreter.
func (i *Interpreter) Interpret(program *ast.Program, distances resolver.Distances) (err error) {
	maps.Copy(i.distances, distances)
	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(*lox.RuntimeError); ok {
				err = runtimeErr
				return
			}
			panic(r)
		}
	}()
	i.execStmts(program.Stmts, i.globals)
	return nil
}

// execResult is threaded up through exec calls so that a Return statement
// deep inside nested blocks/ifs/whiles can unwind exactly to the enclosing
// LoxFunction.Call, without using panic/recover as control flow.
type execResult struct {
	returning bool
	value     Value
}

var normalResult = execResult{}

func returnResult(v Value) execResult {
	return execResult{returning: true, value: v}
}

// execStmts runs stmts in env in order, stopping early and propagating a
// Return the moment one is produced.
func (i *Interpreter) execStmts(stmts []ast.Stmt, env *Environment) execResult {
	for _, stmt := range stmts {
		if r := i.execStmt(stmt, env); r.returning {
			return r
		}
	}
	return normalResult
}

func (i *Interpreter) execStmt(stmt ast.Stmt, env *Environment) execResult {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStmt:
		i.evalExpr(stmt.Expr, env)
	case *ast.PrintStmt:
		fmt.Fprintln(i.out, i.evalExpr(stmt.Expr, env).String())
	case *ast.AssertStmt:
		if !i.evalExpr(stmt.Expr, env).IsTruthy() {
			panic(lox.NewRuntimeErrorAtToken(stmt.Keyword, "Assert Failed."))
		}
	case *ast.VarStmt:
		var value Value = loxNil{}
		if stmt.Initializer != nil {
			value = i.evalExpr(stmt.Initializer, env)
		}
		env.Define(stmt.Name.Lexeme, value)
	case *ast.BlockStmt:
		return i.execStmts(stmt.Stmts, NewEnvironment(env))
	case *ast.IfStmt:
		if i.evalExpr(stmt.Cond, env).IsTruthy() {
			return i.execStmt(stmt.Then, env)
		} else if stmt.Else != nil {
			return i.execStmt(stmt.Else, env)
		}
	case *ast.WhileStmt:
		for i.evalExpr(stmt.Cond, env).IsTruthy() {
			if r := i.execStmt(stmt.Body, env); r.returning {
				return r
			}
		}
	case *ast.FunctionStmt:
		env.Define(stmt.Name.Lexeme, &LoxFunction{Decl: stmt, Closure: env})
	case *ast.ReturnStmt:
		var value Value = loxNil{}
		if stmt.Value != nil {
			value = i.evalExpr(stmt.Value, env)
		}
		return returnResult(value)
	case *ast.ClassStmt:
		i.execClassStmt(stmt, env)
	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", stmt))
	}
	return normalResult
}

func (i *Interpreter) execClassStmt(stmt *ast.ClassStmt, env *Environment) {
	var superclass *LoxClass
	if stmt.Superclass != nil {
		value := i.evalExpr(stmt.Superclass, env)
		sc, ok := value.(*LoxClass)
		if !ok {
			panic(lox.NewRuntimeErrorAtToken(stmt.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	env.Define(stmt.Name.Lexeme, loxNil{})

	methodsEnv := env
	if superclass != nil {
		methodsEnv = NewEnvironment(env)
		methodsEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = &LoxFunction{
			Decl:          m,
			Closure:       methodsEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &LoxClass{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}
	env.Assign(stmt.Name, class)
}

func (i *Interpreter) evalExpr(expr ast.Expr, env *Environment) Value {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(expr.Value)
	case *ast.GroupingExpr:
		return i.evalExpr(expr.Inner, env)
	case *ast.UnaryExpr:
		return i.evalUnaryExpr(expr, env)
	case *ast.BinaryExpr:
		return i.evalBinaryExpr(expr, env)
	case *ast.LogicalExpr:
		return i.evalLogicalExpr(expr, env)
	case *ast.VariableExpr:
		return i.lookUpVariable(expr, expr.Name, env)
	case *ast.AssignExpr:
		return i.evalAssignExpr(expr, env)
	case *ast.CallExpr:
		return i.evalCallExpr(expr, env)
	case *ast.GetExpr:
		return i.evalGetExpr(expr, env)
	case *ast.SetExpr:
		return i.evalSetExpr(expr, env)
	case *ast.ThisExpr:
		return i.lookUpVariable(expr, expr.Keyword, env)
	case *ast.SuperExpr:
		return i.evalSuperExpr(expr, env)
	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", expr))
	}
}

func literalValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return loxNil{}
	case bool:
		return loxBool(v)
	case float64:
		return loxNumber(v)
	case string:
		return loxString(v)
	default:
		panic(fmt.Sprintf("interpreter: unhandled literal value type %T", v))
	}
}

func (i *Interpreter) evalUnaryExpr(expr *ast.UnaryExpr, env *Environment) Value {
	right := i.evalExpr(expr.Right, env)
	if expr.Op.Type == token.BANG {
		return loxBool(!right.IsTruthy())
	}
	return right.UnaryOp(expr.Op)
}

func (i *Interpreter) evalBinaryExpr(expr *ast.BinaryExpr, env *Environment) Value {
	left := i.evalExpr(expr.Left, env)
	right := i.evalExpr(expr.Right, env)
	switch expr.Op.Type {
	case token.EQUALEQUAL:
		return loxBool(left == right)
	case token.BANGEQUAL:
		return loxBool(left != right)
	default:
		return left.BinaryOp(expr.Op, right)
	}
}

// evalLogicalExpr short-circuits: or returns the left operand if it's
// truthy without evaluating the right; and returns it if it's falsy. The
// returned value is the original operand, not coerced to a bool.
func (i *Interpreter) evalLogicalExpr(expr *ast.LogicalExpr, env *Environment) Value {
	left := i.evalExpr(expr.Left, env)
	if expr.Op.Type == token.OR {
		if left.IsTruthy() {
			return left
		}
	} else if !left.IsTruthy() {
		return left
	}
	return i.evalExpr(expr.Right, env)
}

func (i *Interpreter) evalAssignExpr(expr *ast.AssignExpr, env *Environment) Value {
	value := i.evalExpr(expr.Value, env)
	if depth, ok := i.distances[expr]; ok {
		env.AssignAt(depth, expr.Name, value)
	} else {
		i.globals.Assign(expr.Name, value)
	}
	return value
}

func (i *Interpreter) evalCallExpr(expr *ast.CallExpr, env *Environment) Value {
	callee := i.evalExpr(expr.Callee, env)
	args := make([]Value, len(expr.Args))
	for idx, arg := range expr.Args {
		args[idx] = i.evalExpr(arg, env)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(lox.NewRuntimeErrorAtToken(expr.Paren, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(lox.NewRuntimeErrorAtToken(expr.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalGetExpr(expr *ast.GetExpr, env *Environment) Value {
	obj := i.evalExpr(expr.Obj, env)
	instance, ok := obj.(*LoxInstance)
	if !ok {
		panic(lox.NewRuntimeErrorAtToken(expr.Name, "Only instances have properties."))
	}
	return instance.Get(expr.Name)
}

func (i *Interpreter) evalSetExpr(expr *ast.SetExpr, env *Environment) Value {
	obj := i.evalExpr(expr.Obj, env)
	instance, ok := obj.(*LoxInstance)
	if !ok {
		panic(lox.NewRuntimeErrorAtToken(expr.Name, "Only instances have fields."))
	}
	value := i.evalExpr(expr.Value, env)
	instance.Set(expr.Name, value)
	return value
}

// evalSuperExpr fetches the superclass recorded at distance d and `this` at
// distance d-1, per the resolver's super-scope/this-scope nesting, and binds
// the named method on the superclass to the current instance.
func (i *Interpreter) evalSuperExpr(expr *ast.SuperExpr, env *Environment) Value {
	depth := i.distances[expr]
	superclass := env.GetAt(depth, "super").(*LoxClass)
	instance := env.GetAt(depth-1, "this").(*LoxInstance)
	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		panic(lox.NewRuntimeErrorAtToken(expr.Method, "Undefined property %q.", expr.Method.Lexeme))
	}
	return method.Bind(instance)
}

// lookUpVariable reads a Variable/This reference using the resolver's
// recorded distance, falling back to a dynamic global lookup when the
// reference is absent from the side table.
func (i *Interpreter) lookUpVariable(expr ast.Expr, name token.Token, env *Environment) Value {
	if depth, ok := i.distances[expr]; ok {
		return env.GetAt(depth, name.Lexeme)
	}
	return i.globals.Get(name)
}
