// Package resolver performs a single pre-execution pass over a parsed
// program that computes, for each variable/this/super reference, the number
// of enclosing environment frames to skip to find its binding.
package resolver

import (
	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/stack"
	"github.com/nkansah/loxgo/token"
)

// Distances maps an expression node (by pointer identity, since two
// occurrences of the same variable name are distinct map keys) to the number
// of enclosing scopes to skip before finding its binding. An expression
// absent from the map refers to a global and must be looked up dynamically.
type Distances map[ast.Expr]int

// Resolve walks program and returns the scope-distance side table consumed
// by the interpreter. If any resolution error is found (bad return, this/
// super misuse, self-inheriting class, reading a variable in its own
// initializer, redeclaration), it's returned alongside a still-complete
// Distances map for whatever could be resolved.
func Resolve(program *ast.Program) (Distances, error) {
	r := &resolver{
		scopes:    stack.New[scope](),
		distances: Distances{},
	}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	return r.distances, r.errs.Err()
}

type identStatus int

const (
	undeclared identStatus = iota
	declared
	defined
)

type scope map[string]identStatus

type functionType int

const (
	noFunction functionType = iota
	function
	method
	initializer
)

type classType int

const (
	noClass classType = iota
	class
	subclass
)

type resolver struct {
	scopes          *stack.Stack[scope]
	distances       Distances
	currentFunction functionType
	currentClass    classType
	errs            lox.Errors
}

func (r *resolver) beginScope() {
	r.scopes.Push(scope{})
}

func (r *resolver) endScope() {
	r.scopes.Pop()
}

func (r *resolver) declare(tok token.Token) {
	if r.scopes.Empty() {
		return
	}
	top := r.scopes.Peek()
	if top[tok.Lexeme] != undeclared {
		r.errs.AddFromToken(tok, "variable named %q already declared in this scope", tok.Lexeme)
		return
	}
	top[tok.Lexeme] = declared
}

func (r *resolver) define(tok token.Token) {
	if r.scopes.Empty() {
		return
	}
	r.scopes.Peek()[tok.Lexeme] = defined
}

// resolveLocal records the distance from the current scope to the nearest
// enclosing scope that declares name, keyed by expr's identity. If name
// isn't found in any scope, expr is left unrecorded: it's a global.
func (r *resolver) resolveLocal(expr ast.Expr, name string) {
	depth := 0
	for _, sc := range r.scopes.Backward() {
		if _, ok := sc[name]; ok {
			r.distances[expr] = depth
			return
		}
		depth++
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.VarStmt:
		r.resolveVarStmt(stmt)
	case *ast.FunctionStmt:
		r.resolveFunctionStmt(stmt)
	case *ast.ClassStmt:
		r.resolveClassStmt(stmt)
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.AssertStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.BlockStmt:
		r.beginScope()
		for _, s := range stmt.Stmts {
			r.resolveStmt(s)
		}
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(stmt.Cond)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(stmt.Cond)
		r.resolveStmt(stmt.Body)
	case *ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveVarStmt(stmt *ast.VarStmt) {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunctionStmt(stmt *ast.FunctionStmt) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, function)
}

func (r *resolver) resolveFunction(fn *ast.FunctionStmt, typ functionType) {
	enclosing := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range fn.Body {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveClassStmt(stmt *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = class
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.AddFromToken(stmt.Superclass.Name, "a class can't inherit from itself")
		} else {
			r.currentClass = subclass
			r.resolveExpr(stmt.Superclass)
		}
		r.beginScope()
		r.scopes.Peek()["super"] = defined
		defer r.endScope()
	}

	r.beginScope()
	r.scopes.Peek()["this"] = defined
	defer r.endScope()

	for _, m := range stmt.Methods {
		typ := method
		if m.Name.Lexeme == "init" {
			typ = initializer
		}
		r.resolveFunction(m, typ)
	}
}

func (r *resolver) resolveReturnStmt(stmt *ast.ReturnStmt) {
	if r.currentFunction == noFunction {
		r.errs.AddFromToken(stmt.Keyword, "can't return from top-level code")
		return
	}
	if stmt.Value != nil {
		if r.currentFunction == initializer {
			r.errs.AddFromToken(stmt.Keyword, "can't return a value from an initializer")
			return
		}
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		// Nothing to resolve.
	case *ast.GroupingExpr:
		r.resolveExpr(expr.Inner)
	case *ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case *ast.AssignExpr:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name.Lexeme)
	case *ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(expr.Obj)
	case *ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Obj)
	case *ast.ThisExpr:
		r.resolveThisExpr(expr)
	case *ast.SuperExpr:
		r.resolveSuperExpr(expr)
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *resolver) resolveVariableExpr(expr *ast.VariableExpr) {
	if !r.scopes.Empty() {
		if status, ok := r.scopes.Peek()[expr.Name.Lexeme]; ok && status == declared {
			r.errs.AddFromToken(expr.Name, "can't read local variable in its own initializer")
			return
		}
	}
	r.resolveLocal(expr, expr.Name.Lexeme)
}

func (r *resolver) resolveThisExpr(expr *ast.ThisExpr) {
	if r.currentClass == noClass {
		r.errs.AddFromToken(expr.Keyword, "can't use 'this' outside of a class")
		return
	}
	r.resolveLocal(expr, "this")
}

func (r *resolver) resolveSuperExpr(expr *ast.SuperExpr) {
	switch r.currentClass {
	case noClass:
		r.errs.AddFromToken(expr.Keyword, "can't use 'super' outside of a class")
		return
	case class:
		r.errs.AddFromToken(expr.Keyword, "can't use 'super' in a class with no superclass")
		return
	}
	r.resolveLocal(expr, "super")
}
