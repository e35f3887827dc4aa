// Command lox is a tree-walking interpreter for the Lox scripting language.
// Run with a script argument to execute a file, with -c to run a program
// given as a string, or with no arguments to start an interactive REPL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"github.com/chzyer/readline"

	"github.com/nkansah/loxgo/ansi"
	"github.com/nkansah/loxgo/ast"
	"github.com/nkansah/loxgo/interpreter"
	"github.com/nkansah/loxgo/parser"
	"github.com/nkansah/loxgo/resolver"
	"github.com/nkansah/loxgo/scanner"
)

// Exit codes follow the classic jlox convention: a compile-time error (scan,
// parse, or resolve) exits 65, a runtime error exits 70, and misuse of the
// command line exits 64.
const (
	exitCompileError = 65
	exitRuntimeError = 70
	exitUsageError   = 64
)

var (
	cmd      = flag.String("c", "", "program passed in as a string")
	printAST = flag.Bool("p", false, "print the parsed AST instead of running")
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lox [script]")
}

func main() {
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()

	if *cmd != "" {
		os.Exit(runSource("<string>", *cmd, interpreter.New()))
	}

	switch flag.NArg() {
	case 0:
		os.Exit(runREPL())
	case 1:
		os.Exit(runFile(flag.Arg(0)))
	default:
		usage()
		os.Exit(exitUsageError)
	}
}

// runSource scans, parses, resolves, and (unless -p was given) interprets
// src, returning the process exit code the result warrants: 0 on success, 65
// for a scan/parse/resolve error, 70 for a runtime error.
func runSource(name, src string, interp *interpreter.Interpreter) int {
	tokens, err := scanner.New(name, src).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCompileError
	}

	program, err := parser.Parse(tokens)
	if *printAST {
		ast.Print(program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCompileError
		}
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCompileError
	}

	distances, err := resolver.Resolve(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCompileError
	}

	if err := interp.Interpret(program, distances); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntimeError
	}
	return 0
}

func runFile(name string) int {
	src, err := os.ReadFile(name)
	if err != nil {
		log.Print(err)
		return exitUsageError
	}
	return runSource(name, string(src), interpreter.New())
}

func runREPL() int {
	cfg := &readline.Config{
		Prompt: ">>> ",
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "Can't get current user's home directory (%s). Command history will not be saved.\n", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		log.Printf("running Lox REPL: %s", err)
		return exitUsageError
	}
	defer rl.Close()

	ansi.Fprintln(os.Stderr, "${BOLD}Welcome to Lox!${RESET}")

	interp := interpreter.New()
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			panic(fmt.Sprintf("unexpected error from readline: %s", err))
		}
		runSource("<stdin>", line, interp)
	}
	return 0
}
