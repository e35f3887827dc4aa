package resolver_test

import (
	"strings"
	"testing"

	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/parser"
	"github.com/nkansah/loxgo/resolver"
	"github.com/nkansah/loxgo/scanner"
)

func resolve(t *testing.T, src string) (*ast.Program, resolver.Distances, error) {
	t.Helper()
	tokens, err := scanner.New(t.Name(), src).Scan()
	if err != nil {
		t.Fatalf("Scan() returned unexpected error: %s", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %s", err)
	}
	distances, err := resolver.Resolve(program)
	return program, distances, err
}

func exprStmt(t *testing.T, program *ast.Program, i int) ast.Expr {
	t.Helper()
	s, ok := program.Stmts[i].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("program.Stmts[%d] is a %T, want *ast.ExpressionStmt", i, program.Stmts[i])
	}
	return s.Expr
}

func TestResolveLocalVariableDistance(t *testing.T) {
	program, distances, err := resolve(t, `
		var a = "global";
		{
			var a = "outer";
			{
				a;
			}
		}
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
	block := program.Stmts[1].(*ast.BlockStmt)
	inner := block.Stmts[1].(*ast.BlockStmt)
	read := inner.Stmts[0].(*ast.ExpressionStmt).Expr
	if got, ok := distances[read]; !ok || got != 1 {
		t.Errorf("distances[a] = (%d, %t), want (1, true)", got, ok)
	}
}

func TestResolveGlobalIsUnrecorded(t *testing.T) {
	program, distances, err := resolve(t, `
		var a = "global";
		a;
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
	read := exprStmt(t, program, 1)
	if _, ok := distances[read]; ok {
		t.Errorf("distances[a] recorded a distance for a global reference, want unrecorded")
	}
}

func TestResolveReadingOwnInitializerIsError(t *testing.T) {
	_, _, err := resolve(t, `
		var a = "outer";
		{
			var a = a;
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a self-initializer error")
	}
}

func TestResolveRedeclarationInSameScopeIsError(t *testing.T) {
	_, _, err := resolve(t, `
		{
			var a = 1;
			var a = 2;
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a redeclaration error")
	}
}

func TestResolveReturnOutsideFunctionIsError(t *testing.T) {
	_, _, err := resolve(t, `return 1;`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a top-level return error")
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, _, err := resolve(t, `
		class Foo {
			init() {
				return 1;
			}
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a return-from-initializer error")
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, _, err := resolve(t, `print this;`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a 'this' outside class error")
	}
	if !strings.Contains(err.Error(), "this") {
		t.Errorf("error = %q, want it to mention 'this'", err)
	}
}

func TestResolveSuperWithoutSuperclassIsError(t *testing.T) {
	_, _, err := resolve(t, `
		class Foo {
			bar() {
				super.bar();
			}
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a 'super' without superclass error")
	}
}

func TestResolveClassInheritingFromItselfIsError(t *testing.T) {
	_, _, err := resolve(t, `class Foo < Foo {}`)
	if err == nil {
		t.Fatal("Resolve() returned nil error, want a self-inheriting class error")
	}
}
