package ast

import (
	"fmt"
	"strings"
)

// Print prints node to stdout as an indented s-expression. It's wired up to
// the CLI's -p flag.
func Print(node Node) {
	fmt.Println(Sprint(node))
}

// Sprint formats node as an indented s-expression.
func Sprint(node Node) string {
	return sprint(node, 0)
}

func sprint(node Node, depth int) string {
	switch node := node.(type) {
	case *Program:
		return sexpr("Program", depth, stmtStrings(node.Stmts, depth)...)

	case *LiteralExpr:
		return fmt.Sprintf("%#v", node.Value)
	case *UnaryExpr:
		return sexpr("Unary", depth, node.Op.Lexeme, sprint(node.Right, depth+1))
	case *BinaryExpr:
		return sexpr("Binary", depth, sprint(node.Left, depth+1), node.Op.Lexeme, sprint(node.Right, depth+1))
	case *LogicalExpr:
		return sexpr("Logical", depth, sprint(node.Left, depth+1), node.Op.Lexeme, sprint(node.Right, depth+1))
	case *GroupingExpr:
		return sexpr("Grouping", depth, sprint(node.Inner, depth+1))
	case *VariableExpr:
		return sexpr("Variable", depth, node.Name.Lexeme)
	case *AssignExpr:
		return sexpr("Assign", depth, node.Name.Lexeme, sprint(node.Value, depth+1))
	case *CallExpr:
		return sexpr("Call", depth, append([]string{sprint(node.Callee, depth+1)}, exprStrings(node.Args, depth)...)...)
	case *GetExpr:
		return sexpr("Get", depth, sprint(node.Obj, depth+1), node.Name.Lexeme)
	case *SetExpr:
		return sexpr("Set", depth, sprint(node.Obj, depth+1), node.Name.Lexeme, sprint(node.Value, depth+1))
	case *ThisExpr:
		return sexpr("This", depth)
	case *SuperExpr:
		return sexpr("Super", depth, node.Method.Lexeme)

	case *ExpressionStmt:
		return sexpr("Expression", depth, sprint(node.Expr, depth+1))
	case *PrintStmt:
		return sexpr("Print", depth, sprint(node.Expr, depth+1))
	case *AssertStmt:
		return sexpr("Assert", depth, sprint(node.Expr, depth+1))
	case *VarStmt:
		if node.Initializer == nil {
			return sexpr("Var", depth, node.Name.Lexeme)
		}
		return sexpr("Var", depth, node.Name.Lexeme, sprint(node.Initializer, depth+1))
	case *BlockStmt:
		return sexpr("Block", depth, stmtStrings(node.Stmts, depth)...)
	case *IfStmt:
		children := []string{sprint(node.Cond, depth+1), sprint(node.Then, depth+1)}
		if node.Else != nil {
			children = append(children, sprint(node.Else, depth+1))
		}
		return sexpr("If", depth, children...)
	case *WhileStmt:
		return sexpr("While", depth, sprint(node.Cond, depth+1), sprint(node.Body, depth+1))
	case *FunctionStmt:
		params := make([]string, len(node.Params))
		for i, p := range node.Params {
			params[i] = p.Lexeme
		}
		children := append([]string{node.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}, stmtStrings(node.Body, depth)...)
		return sexpr("Function", depth, children...)
	case *ReturnStmt:
		if node.Value == nil {
			return sexpr("Return", depth)
		}
		return sexpr("Return", depth, sprint(node.Value, depth+1))
	case *ClassStmt:
		children := []string{node.Name.Lexeme}
		if node.Superclass != nil {
			children = append(children, "< "+node.Superclass.Name.Lexeme)
		}
		for _, m := range node.Methods {
			children = append(children, sprint(m, depth+1))
		}
		return sexpr("Class", depth, children...)

	default:
		return fmt.Sprintf("<unknown node %T>", node)
	}
}

func exprStrings(exprs []Expr, depth int) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = sprint(e, depth+1)
	}
	return out
}

func stmtStrings(stmts []Stmt, depth int) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = sprint(s, depth+1)
	}
	return out
}

func sexpr(name string, depth int, children ...string) string {
	var b strings.Builder
	fmt.Fprint(&b, "(", name)
	for _, child := range children {
		fmt.Fprint(&b, "\n", strings.Repeat("  ", depth+1), child)
	}
	fmt.Fprint(&b, ")")
	return b.String()
}
