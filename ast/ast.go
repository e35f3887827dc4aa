// Package ast defines the syntax tree produced by the parser and consumed by
// the resolver and interpreter.
//
// Expr and Stmt are sealed tagged unions: the unexported exprNode/stmtNode
// marker methods mean only the types declared in this package satisfy them,
// so a switch over a concrete node's dynamic type is exhaustive by
// construction.
package ast

import "github.com/nkansah/loxgo/token"

// Node is implemented by every Expr and Stmt. Position methods let the error
// package point at the exact source range a node covers.
type Node interface {
	Start() token.Position
	End() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

type exprNode struct{}

func (exprNode) exprNode() {}

type stmtNode struct{}

func (stmtNode) stmtNode() {}

// Program is the root of a parsed source file or REPL line: a sequence of
// top-level declarations.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Start() token.Position {
	if len(p.Stmts) == 0 {
		return token.Position{}
	}
	return p.Stmts[0].Start()
}

func (p *Program) End() token.Position {
	if len(p.Stmts) == 0 {
		return token.Position{}
	}
	return p.Stmts[len(p.Stmts)-1].End()
}

// --- Expressions ---

// LiteralExpr is a number, string, boolean, or nil literal.
type LiteralExpr struct {
	exprNode
	Value    any // float64, string, bool, or nil
	StartPos token.Position
	EndPos   token.Position
}

func (e *LiteralExpr) Start() token.Position { return e.StartPos }
func (e *LiteralExpr) End() token.Position   { return e.EndPos }

// UnaryExpr is `op right`, e.g. `-x` or `!done`.
type UnaryExpr struct {
	exprNode
	Op    token.Token
	Right Expr
}

func (e *UnaryExpr) Start() token.Position { return e.Op.Start }
func (e *UnaryExpr) End() token.Position   { return e.Right.End() }

// BinaryExpr is `left op right` for arithmetic, comparison, and equality
// operators.
type BinaryExpr struct {
	exprNode
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *BinaryExpr) Start() token.Position { return e.Left.Start() }
func (e *BinaryExpr) End() token.Position   { return e.Right.End() }

// LogicalExpr is `left op right` for `and`/`or`, kept distinct from
// BinaryExpr so the evaluator can short-circuit instead of always evaluating
// both operands.
type LogicalExpr struct {
	exprNode
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *LogicalExpr) Start() token.Position { return e.Left.Start() }
func (e *LogicalExpr) End() token.Position   { return e.Right.End() }

// GroupingExpr is a parenthesised expression.
type GroupingExpr struct {
	exprNode
	Inner    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (e *GroupingExpr) Start() token.Position { return e.StartPos }
func (e *GroupingExpr) End() token.Position   { return e.EndPos }

// VariableExpr reads the value bound to Name. It is also the node type
// referenced by ClassStmt's Superclass field.
type VariableExpr struct {
	exprNode
	Name token.Token
}

func (e *VariableExpr) Start() token.Position { return e.Name.Start }
func (e *VariableExpr) End() token.Position   { return e.Name.End }

// AssignExpr writes Value to the variable named Name and evaluates to Value.
type AssignExpr struct {
	exprNode
	Name  token.Token
	Value Expr
}

func (e *AssignExpr) Start() token.Position { return e.Name.Start }
func (e *AssignExpr) End() token.Position   { return e.Value.End() }

// CallExpr invokes Callee with Args. Paren is the closing ')', used to
// attribute call-related runtime errors to a sensible position.
type CallExpr struct {
	exprNode
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (e *CallExpr) Start() token.Position { return e.Callee.Start() }
func (e *CallExpr) End() token.Position   { return e.Paren.End }

// GetExpr reads property Name off Obj.
type GetExpr struct {
	exprNode
	Obj  Expr
	Name token.Token
}

func (e *GetExpr) Start() token.Position { return e.Obj.Start() }
func (e *GetExpr) End() token.Position   { return e.Name.End }

// SetExpr writes Value to property Name on Obj.
type SetExpr struct {
	exprNode
	Obj   Expr
	Name  token.Token
	Value Expr
}

func (e *SetExpr) Start() token.Position { return e.Obj.Start() }
func (e *SetExpr) End() token.Position   { return e.Value.End() }

// ThisExpr reads the current instance inside a method body.
type ThisExpr struct {
	exprNode
	Keyword token.Token
}

func (e *ThisExpr) Start() token.Position { return e.Keyword.Start }
func (e *ThisExpr) End() token.Position   { return e.Keyword.End }

// SuperExpr reads Method off the enclosing class's superclass, bound to the
// current instance.
type SuperExpr struct {
	exprNode
	Keyword token.Token
	Method  token.Token
}

func (e *SuperExpr) Start() token.Position { return e.Keyword.Start }
func (e *SuperExpr) End() token.Position   { return e.Method.End }

// --- Statements ---

// ExpressionStmt evaluates Expr and discards the result.
type ExpressionStmt struct {
	stmtNode
	Expr Expr
}

func (s *ExpressionStmt) Start() token.Position { return s.Expr.Start() }
func (s *ExpressionStmt) End() token.Position   { return s.Expr.End() }

// PrintStmt evaluates Expr, stringifies it, and writes one line to stdout.
type PrintStmt struct {
	stmtNode
	Keyword token.Token
	Expr    Expr
}

func (s *PrintStmt) Start() token.Position { return s.Keyword.Start }
func (s *PrintStmt) End() token.Position   { return s.Expr.End() }

// AssertStmt evaluates Expr and raises a runtime error if it isn't truthy.
type AssertStmt struct {
	stmtNode
	Keyword token.Token
	Expr    Expr
}

func (s *AssertStmt) Start() token.Position { return s.Keyword.Start }
func (s *AssertStmt) End() token.Position   { return s.Expr.End() }

// VarStmt declares Name, optionally initialised by Initializer (nil value if
// absent).
type VarStmt struct {
	stmtNode
	Name        token.Token
	Initializer Expr // may be nil
	EndPos      token.Position
}

func (s *VarStmt) Start() token.Position { return s.Name.Start }
func (s *VarStmt) End() token.Position   { return s.EndPos }

// BlockStmt executes Stmts in a fresh child environment.
type BlockStmt struct {
	stmtNode
	Stmts    []Stmt
	StartPos token.Position
	EndPos   token.Position
}

func (s *BlockStmt) Start() token.Position { return s.StartPos }
func (s *BlockStmt) End() token.Position   { return s.EndPos }

// IfStmt runs Then if Cond is truthy, else Else (which may be nil).
type IfStmt struct {
	stmtNode
	Keyword token.Token
	Cond    Expr
	Then    Stmt
	Else    Stmt // may be nil
}

func (s *IfStmt) Start() token.Position { return s.Keyword.Start }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}

// WhileStmt runs Body repeatedly while Cond is truthy.
type WhileStmt struct {
	stmtNode
	Keyword token.Token
	Cond    Expr
	Body    Stmt
}

func (s *WhileStmt) Start() token.Position { return s.Keyword.Start }
func (s *WhileStmt) End() token.Position   { return s.Body.End() }

// FunctionStmt declares a named function. It's also the node type of
// ClassStmt's Methods, which share the same shape.
type FunctionStmt struct {
	stmtNode
	Name     token.Token
	Params   []token.Token
	Body     []Stmt
	StartPos token.Position
	EndPos   token.Position
}

func (s *FunctionStmt) Start() token.Position { return s.StartPos }
func (s *FunctionStmt) End() token.Position   { return s.EndPos }

// ReturnStmt unwinds to the enclosing call with Value (nil if absent).
type ReturnStmt struct {
	stmtNode
	Keyword token.Token
	Value   Expr // may be nil
	EndPos  token.Position
}

func (s *ReturnStmt) Start() token.Position { return s.Keyword.Start }
func (s *ReturnStmt) End() token.Position   { return s.EndPos }

// ClassStmt declares a class with an optional superclass and a set of
// methods. Superclass, if present, is always a *VariableExpr.
type ClassStmt struct {
	stmtNode
	Name       token.Token
	Superclass *VariableExpr // may be nil
	Methods    []*FunctionStmt
	StartPos   token.Position
	EndPos     token.Position
}

func (s *ClassStmt) Start() token.Position { return s.StartPos }
func (s *ClassStmt) End() token.Position   { return s.EndPos }
