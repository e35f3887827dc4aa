// Package parser implements a recursive-descent parser for Lox source code.
package parser

import (
	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/lox"
	"github.com/nkansah/loxgo/token"
)

// Parse parses a sequence of tokens (as produced by the scanner, always
// ending in a single [token.EOF]) into a [*ast.Program].
// If an error is returned, the returned program is still the most complete
// AST the parser could recover, built by synchronizing after each error.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &parser{tokens: tokens}
	p.next()
	p.next()
	return p.parseProgram(), p.errs.Err()
}

type parser struct {
	tokens  []token.Token
	pos     int
	tok     token.Token // token currently being considered
	nextTok token.Token

	errs lox.Errors
}

// unwind is panicked to abandon the current declaration/statement and
// recover at the nearest synchronization point.
type unwind struct{}

func (p *parser) parseProgram() *ast.Program {
	var stmts []ast.Stmt
	for p.tok.Type != token.EOF {
		stmts = append(stmts, p.parseDeclSafely())
	}
	return &ast.Program{Stmts: stmts}
}

// parseDeclSafely parses a single declaration, recovering via synchronize if
// a parse error unwinds the stack, so that one bad statement doesn't abort
// the whole program.
func (p *parser) parseDeclSafely() (stmt ast.Stmt) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				if p.pos == start {
					// Nothing was consumed: skip the offending token so
					// parsing always makes progress.
					p.next()
				}
				p.synchronize()
				stmt = &ast.ExpressionStmt{Expr: &ast.LiteralExpr{Value: nil}}
			} else {
				panic(r)
			}
		}
	}()
	return p.parseDecl()
}

// synchronize discards tokens until just after a semicolon or just before a
// statement-starting keyword, so the parser can resume after an error.
func (p *parser) synchronize() {
	for p.tok.Type != token.EOF {
		switch p.tok.Type {
		case token.SEMICOLON:
			p.next()
			return
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.next()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch {
	case p.tok.Type == token.CLASS:
		return p.parseClassDecl()
	case p.tok.Type == token.FUN && p.nextTok.Type == token.IDENT:
		return p.parseFunDecl()
	case p.tok.Type == token.VAR:
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl() ast.Stmt {
	start := p.tok.Start
	p.next() // class
	name := p.expect(token.IDENT, "expected class name")

	var superclass *ast.VariableExpr
	if p.tok.Type == token.LESS {
		p.next()
		superName := p.expect(token.IDENT, "expected superclass name")
		superclass = &ast.VariableExpr{Name: superName}
	}

	p.expect(token.LEFTBRACE, "expected '{' before class body")
	var methods []*ast.FunctionStmt
	for p.tok.Type != token.RIGHTBRACE && p.tok.Type != token.EOF {
		methods = append(methods, p.parseFunction("method"))
	}
	end := p.expect(token.RIGHTBRACE, "expected '}' after class body").End

	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods, StartPos: start, EndPos: end}
}

func (p *parser) parseFunDecl() ast.Stmt {
	start := p.tok.Start
	p.next() // fun
	fn := p.parseFunction("function")
	fn.StartPos = start
	return fn
}

// parseFunction parses the name, parameter list, and body shared by function
// declarations and methods. kind is used only in error messages.
func (p *parser) parseFunction(kind string) *ast.FunctionStmt {
	name := p.expect(token.IDENT, "expected "+kind+" name")
	p.expect(token.LEFTPAREN, "expected '(' after "+kind+" name")
	var params []token.Token
	if p.tok.Type != token.RIGHTPAREN {
		for {
			params = append(params, p.expect(token.IDENT, "expected parameter name"))
			if p.tok.Type != token.COMMA {
				break
			}
			p.next()
		}
	}
	p.expect(token.RIGHTPAREN, "expected ')' after parameters")
	leftBrace := p.expect(token.LEFTBRACE, "expected '{' before "+kind+" body")
	body, end := p.parseBlockStmts(leftBrace)
	return &ast.FunctionStmt{Name: name, Params: params, Body: body, StartPos: name.Start, EndPos: end}
}

func (p *parser) parseVarDecl() ast.Stmt {
	name := func() token.Token {
		p.next() // var
		return p.expect(token.IDENT, "expected variable name")
	}()
	var init ast.Expr
	if p.tok.Type == token.EQUAL {
		p.next()
		init = p.parseExpr()
	}
	end := p.expect(token.SEMICOLON, "expected ';' after variable declaration").End
	return &ast.VarStmt{Name: name, Initializer: init, EndPos: end}
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok.Type {
	case token.PRINT:
		return p.parsePrintStmt()
	case token.ASSERT:
		return p.parseAssertStmt()
	case token.LEFTBRACE:
		return p.parseBlockStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	p.expect(token.SEMICOLON, "expected ';' after expression")
	return &ast.ExpressionStmt{Expr: expr}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	expr := p.parseExpr()
	p.expect(token.SEMICOLON, "expected ';' after value")
	return &ast.PrintStmt{Keyword: keyword, Expr: expr}
}

func (p *parser) parseAssertStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	expr := p.parseExpr()
	p.expect(token.SEMICOLON, "expected ';' after assertion")
	return &ast.AssertStmt{Keyword: keyword, Expr: expr}
}

func (p *parser) parseBlockStmt() ast.Stmt {
	leftBrace := p.tok
	p.next()
	stmts, end := p.parseBlockStmts(leftBrace)
	return &ast.BlockStmt{Stmts: stmts, StartPos: leftBrace.Start, EndPos: end}
}

// parseBlockStmts parses declarations until the matching '}', which it also
// consumes. leftBrace is only used for position bookkeeping by callers that
// need the body separately from the wrapping statement (function/method
// bodies).
func (p *parser) parseBlockStmts(leftBrace token.Token) ([]ast.Stmt, token.Position) {
	var stmts []ast.Stmt
	for p.tok.Type != token.RIGHTBRACE && p.tok.Type != token.EOF {
		stmts = append(stmts, p.parseDeclSafely())
	}
	end := p.expect(token.RIGHTBRACE, "expected '}' after block").End
	return stmts, end
}

func (p *parser) parseIfStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	p.expect(token.LEFTPAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.expect(token.RIGHTPAREN, "expected ')' after if condition")
	then := p.parseStmt()
	var els ast.Stmt
	if p.tok.Type == token.ELSE {
		p.next()
		els = p.parseStmt()
	}
	return &ast.IfStmt{Keyword: keyword, Cond: cond, Then: then, Else: els}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	p.expect(token.LEFTPAREN, "expected '(' after 'while'")
	cond := p.parseExpr()
	p.expect(token.RIGHTPAREN, "expected ')' after while condition")
	body := p.parseStmt()
	return &ast.WhileStmt{Keyword: keyword, Cond: cond, Body: body}
}

// parseForStmt desugars `for (init; cond; update) body` into the equivalent
// while loop at parse time: the initializer becomes a block-prefix
// statement, the update is appended as a trailing statement inside the
// loop body, and a missing condition becomes `true`.
func (p *parser) parseForStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	p.expect(token.LEFTPAREN, "expected '(' after 'for'")

	var init ast.Stmt
	switch p.tok.Type {
	case token.SEMICOLON:
		p.next()
	case token.VAR:
		init = p.parseVarDecl()
	default:
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if p.tok.Type != token.SEMICOLON {
		cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON, "expected ';' after loop condition")

	var update ast.Expr
	if p.tok.Type != token.RIGHTPAREN {
		update = p.parseExpr()
	}
	p.expect(token.RIGHTPAREN, "expected ')' after for clauses")

	body := p.parseStmt()

	if update != nil {
		body = &ast.BlockStmt{
			Stmts:    []ast.Stmt{body, &ast.ExpressionStmt{Expr: update}},
			StartPos: body.Start(),
			EndPos:   update.End(),
		}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: true, StartPos: keyword.Start, EndPos: keyword.End}
	}
	loop := ast.Stmt(&ast.WhileStmt{Keyword: keyword, Cond: cond, Body: body})

	if init != nil {
		loop = &ast.BlockStmt{Stmts: []ast.Stmt{init, loop}, StartPos: init.Start(), EndPos: loop.End()}
	}
	return loop
}

func (p *parser) parseReturnStmt() ast.Stmt {
	keyword := p.tok
	p.next()
	var value ast.Expr
	if p.tok.Type != token.SEMICOLON {
		value = p.parseExpr()
	}
	end := p.expect(token.SEMICOLON, "expected ';' after return value").End
	return &ast.ReturnStmt{Keyword: keyword, Value: value, EndPos: end}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment handles `=`, which is right-associative and has the lowest
// precedence. The LHS must already have parsed as a Variable or Get
// expression; anything else is reported once the `=` and its right-hand side
// have been consumed, without unwinding, leaving the already-parsed LHS as
// the result.
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseLogicOr()
	if p.tok.Type == token.EQUAL {
		equals := p.tok
		p.next()
		value := p.parseAssignment()
		switch left := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: left.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Obj: left.Obj, Name: left.Name, Value: value}
		default:
			p.errs.Add(equals.Start, equals.End, "invalid assignment target")
		}
	}
	return expr
}

func (p *parser) parseLogicOr() ast.Expr {
	expr := p.parseLogicAnd()
	for p.tok.Type == token.OR {
		op := p.tok
		p.next()
		right := p.parseLogicAnd()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseLogicAnd() ast.Expr {
	expr := p.parseEquality()
	for p.tok.Type == token.AND {
		op := p.tok
		p.next()
		right := p.parseEquality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, token.BANGEQUAL, token.EQUALEQUAL)
}

func (p *parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseTerm, token.GREATER, token.GREATEREQUAL, token.LESS, token.LESSEQUAL)
}

func (p *parser) parseTerm() ast.Expr {
	return p.parseBinary(p.parseFactor, token.MINUS, token.PLUS)
}

func (p *parser) parseFactor() ast.Expr {
	return p.parseBinary(p.parseUnary, token.SLASH, token.STAR)
}

// parseBinary implements left-associative binary operator parsing shared by
// every precedence level above unary. next parses an operand of the next
// highest precedence.
func (p *parser) parseBinary(next func() ast.Expr, types ...token.Type) ast.Expr {
	expr := next()
	for p.matches(types...) {
		op := p.tok
		p.next()
		right := next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnary() ast.Expr {
	if p.matches(token.BANG, token.MINUS) {
		op := p.tok
		p.next()
		right := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Right: right}
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.tok.Type {
		case token.LEFTPAREN:
			p.next()
			var args []ast.Expr
			if p.tok.Type != token.RIGHTPAREN {
				args = append(args, p.parseExpr())
				for p.tok.Type == token.COMMA {
					p.next()
					args = append(args, p.parseExpr())
				}
			}
			paren := p.expect(token.RIGHTPAREN, "expected ')' after arguments")
			expr = &ast.CallExpr{Callee: expr, Paren: paren, Args: args}
		case token.DOT:
			p.next()
			name := p.expect(token.IDENT, "expected property name after '.'")
			expr = &ast.GetExpr{Obj: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.tok
	switch tok.Type {
	case token.FALSE:
		p.next()
		return &ast.LiteralExpr{Value: false, StartPos: tok.Start, EndPos: tok.End}
	case token.TRUE:
		p.next()
		return &ast.LiteralExpr{Value: true, StartPos: tok.Start, EndPos: tok.End}
	case token.NIL:
		p.next()
		return &ast.LiteralExpr{Value: nil, StartPos: tok.Start, EndPos: tok.End}
	case token.NUMBER, token.STRING:
		p.next()
		return &ast.LiteralExpr{Value: tok.Literal, StartPos: tok.Start, EndPos: tok.End}
	case token.THIS:
		p.next()
		return &ast.ThisExpr{Keyword: tok}
	case token.SUPER:
		p.next()
		p.expect(token.DOT, "expected '.' after 'super'")
		method := p.expect(token.IDENT, "expected superclass method name")
		return &ast.SuperExpr{Keyword: tok, Method: method}
	case token.IDENT:
		p.next()
		return &ast.VariableExpr{Name: tok}
	case token.LEFTPAREN:
		p.next()
		inner := p.parseExpr()
		end := p.expect(token.RIGHTPAREN, "expected ')' after expression").End
		return &ast.GroupingExpr{Inner: inner, StartPos: tok.Start, EndPos: end}
	default:
		p.errs.AddFromToken(tok, "expected expression")
		panic(unwind{})
	}
}

func (p *parser) matches(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			return true
		}
	}
	return false
}

// expect consumes and returns the current token if it has type t, reporting
// an error and unwinding otherwise.
func (p *parser) expect(t token.Type, msg string) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.next()
		return tok
	}
	p.errs.AddFromToken(p.tok, "%s", msg)
	panic(unwind{})
}

func (p *parser) next() {
	p.tok = p.nextTok
	if p.pos < len(p.tokens) {
		p.nextTok = p.tokens[p.pos]
		p.pos++
	} else {
		p.nextTok = token.Token{Type: token.EOF}
	}
}
