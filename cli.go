package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Crest - a small expression-oriented systems language

Usage:
    crest <command> [arguments]

Commands:
    tokens <file>   Lex a .crest file and print its token stream
    demo            Compile a built-in sample program to an object file
    target          Print the target the compiler would emit for
    help            Show this help message

Examples:
    crest tokens examples/prime.crest
    crest demo -o prime.o
    crest target

Use "crest <command> -h" for more information about a command.
`)
}

func tokensCommand(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crest tokens <file>\n")
		fmt.Fprintf(os.Stderr, "Lex a .crest file and print its token stream\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	src, err := LoadSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crest: error: %s: %v\n", filename, err)
		os.Exit(1)
	}
	defer src.Release()

	lex := NewLexer(src)
	for {
		tok, err := lex.Next()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if tok.Kind == TokEOF {
			break
		}
		fmt.Println(describeToken(tok))
	}
}

// describeToken renders one lexed token, carrying the decoded payload for
// literal kinds.
func describeToken(tok Token) string {
	switch tok.Kind {
	case TokIntLit:
		return fmt.Sprintf("%d: int literal %d", tok.Line, tok.Int)
	case TokFloatLit:
		return fmt.Sprintf("%d: float literal %g", tok.Line, tok.Float)
	case TokCharLit:
		return fmt.Sprintf("%d: char literal U+%04X", tok.Line, tok.Char)
	case TokStringLit:
		return fmt.Sprintf("%d: string literal %q", tok.Line, tok.Str)
	case TokIdent:
		return fmt.Sprintf("%d: identifier %s", tok.Line, tok.Text)
	default:
		return fmt.Sprintf("%d: %s", tok.Line, tok.Kind)
	}
}

func demoCommand(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	output := fs.String("o", "a.out", "Output object file path")
	verbose := fs.Bool("v", false, "Print the generated module")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crest demo [-o output] [-v]\n")
		fmt.Fprintf(os.Stderr, "Compile a built-in sample program to an object file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	decls := demoProgram()

	mod, err := Generate(decls, "demo")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Println(moduleSExpr(mod))
	}

	target := HostTarget()
	if err := WriteObject(mod, *output, target); err != nil {
		fmt.Fprintf(os.Stderr, "crest: error: %s: %v\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s for %s\n", *output, target.Triple)
}

func targetCommand(args []string) {
	fs := flag.NewFlagSet("target", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crest target\n")
		fmt.Fprintf(os.Stderr, "Print the target the compiler would emit for\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	target := HostTarget()
	fmt.Printf("triple:   %s\n", target.Triple)
	fmt.Printf("cpu:      %s\n", target.CPU)
	if target.Features != "" {
		fmt.Printf("features: %s\n", strings.TrimSpace(target.Features))
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "tokens":
		tokensCommand(args)
	case "demo":
		demoCommand(args)
	case "target":
		targetCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
