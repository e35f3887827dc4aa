package interpreter_test

import (
	"strings"
	"testing"

	"github.com/nkansah/loxgo/interpreter"
	"github.com/nkansah/loxgo/parser"
	"github.com/nkansah/loxgo/resolver"
	"github.com/nkansah/loxgo/scanner"
)

// run scans, parses, resolves, and interprets src, returning whatever was
// written via Print statements and the error Interpret returned, if any.
func run(t *testing.T, src string, opts ...interpreter.Option) (string, error) {
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
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}

	var out strings.Builder
	opts = append([]interpreter.Option{interpreter.WithOutput(&out)}, opts...)
	interp := interpreter.New(opts...)
	runErr := interp.Interpret(program, distances)
	return out.String(), runErr
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "7\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "foobar\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretNumberFormatting(t *testing.T) {
	out, err := run(t, `
		print 1.0;
		print 1.5;
		print 10;
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "1\n1.5\n10\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretTruthiness(t *testing.T) {
	// Only nil and false are falsy; zero and the empty string are truthy.
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsy";
		if ("") print "empty string is truthy"; else print "empty string is falsy";
		if (nil) print "nil is truthy"; else print "nil is falsy";
		if (false) print "false is truthy"; else print "false is falsy";
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	want := "zero is truthy\nempty string is truthy\nnil is falsy\nfalse is falsy\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretEqualityIsTotal(t *testing.T) {
	out, err := run(t, `
		print 1 == 1;
		print 1 == "1";
		print nil == nil;
		print nil == false;
		print "a" == "a";
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	want := "true\nfalse\ntrue\nfalse\ntrue\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretLogicalShortCircuits(t *testing.T) {
	out, err := run(t, `
		fun sideEffect(v) {
			print "called";
			return v;
		}
		print false and sideEffect(true);
		print true or sideEffect(false);
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "false\ntrue\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretShadowingInBlock(t *testing.T) {
	out, err := run(t, `
		var a = "global";
		{
			var a = "block";
			print a;
		}
		print a;
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "block\nglobal\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretClosureCapturesByReference(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "1\n2\n3\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretRecursiveFunction(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "55\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretClassesAndInheritance(t *testing.T) {
	out, err := run(t, `
		class Pastry {
			init(filling) {
				this.filling = filling;
			}
			describe() {
				print "a pastry with " + this.filling;
			}
		}
		class Cake < Pastry {
			describe() {
				super.describe();
				print "baked as a cake";
			}
		}
		var c = Cake("custard");
		c.describe();
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	want := "a pastry with custard\nbaked as a cake\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretInitializerAlwaysReturnsThis(t *testing.T) {
	out, err := run(t, `
		class Box {
			init(v) {
				this.v = v;
				return;
			}
		}
		var b = Box(42);
		print b.v;
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "42\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretFieldShadowsMethod(t *testing.T) {
	out, err := run(t, `
		class Foo {
			bar() { return "method"; }
		}
		var f = Foo();
		f.bar = "field";
		print f.bar;
	`)
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "field\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretAssertFailurePropagatesAsRuntimeError(t *testing.T) {
	_, err := run(t, `assert 1 == 2;`)
	if err == nil {
		t.Fatal("Interpret() returned nil error, want an assertion failure")
	}
	if !strings.Contains(err.Error(), "Assert Failed") {
		t.Errorf("error = %q, want it to mention the failed assertion", err)
	}
}

func TestInterpretDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	if err == nil {
		t.Fatal("Interpret() returned nil error, want a division by zero error")
	}
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var notAFunction = 1;
		notAFunction();
	`)
	if err == nil {
		t.Fatal("Interpret() returned nil error, want a non-callable error")
	}
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	if err == nil {
		t.Fatal("Interpret() returned nil error, want a wrong-arity error")
	}
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undeclared;`)
	if err == nil {
		t.Fatal("Interpret() returned nil error, want an undefined variable error")
	}
}

func TestInterpretClockBuiltinUsesInjectedClock(t *testing.T) {
	out, err := run(t, `print clock();`, interpreter.WithClock(func() float64 { return 42 }))
	if err != nil {
		t.Fatalf("Interpret() returned unexpected error: %s", err)
	}
	if want := "42\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInterpretRetainsStateAcrossCalls(t *testing.T) {
	var out strings.Builder
	interp := interpreter.New(interpreter.WithOutput(&out))

	execLine := func(src string) {
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
		if err != nil {
			t.Fatalf("Resolve() returned unexpected error: %s", err)
		}
		if err := interp.Interpret(program, distances); err != nil {
			t.Fatalf("Interpret() returned unexpected error: %s", err)
		}
	}

	execLine(`var a = 1;`)
	execLine(`a = a + 1;`)
	execLine(`print a;`)

	if want := "2\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
