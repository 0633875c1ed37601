// Package main provides the CLI entry point for stencil.
//
// Usage:
//
//	stencil check template.tpl           # parse and report diagnostics
//	stencil dump template.tpl            # print the AST
//	stencil repl                         # interactive parsing loop
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/boergens/stencil/syntax"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		if err := runCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "dump":
		if err := runDump(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "repl":
		cmdRepl()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`stencil - template parsing toolkit

Usage:
  stencil check [-liquid] [-script] [-frontmatter] <template>
  stencil dump [-liquid] [-script] <template>
  stencil repl
  stencil help

Commands:
  check    Parse a template and report diagnostics
  dump     Parse a template and print its AST
  repl     Interactive parsing loop`)
}

// parseFlags reads the shared flags and returns the input path and lexer
// options.
func parseFlags(name string, args []string) (string, syntax.LexerOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	liquid := fs.Bool("liquid", false, "parse the liquid dialect")
	script := fs.Bool("script", false, "treat the whole input as code")
	front := fs.Bool("frontmatter", false, "parse leading front matter")
	marker := fs.String("marker", syntax.DefaultFrontMatterMarker, "front matter marker")
	if err := fs.Parse(args); err != nil {
		return "", syntax.LexerOptions{}, err
	}
	if fs.NArg() != 1 {
		return "", syntax.LexerOptions{}, fmt.Errorf("expecting exactly one template file")
	}

	opts := syntax.LexerOptions{KeepTrivia: true, FrontMatterMarker: *marker}
	if *liquid {
		opts.Dialect = syntax.DialectLiquid
	}
	switch {
	case *script:
		opts.Mode = syntax.ModeScriptOnly
	case *front:
		opts.Mode = syntax.ModeFrontMatterAndContent
	}
	return fs.Arg(0), opts, nil
}

// parseFile parses one file and returns the page plus the parser.
func parseFile(path string, opts syntax.LexerOptions) (*syntax.Page, *syntax.Parser, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	lexer := syntax.NewLexer(string(text), path, opts)
	parser := syntax.NewParser(lexer, nil)
	page := parser.Run()
	return page, parser, nil
}

func runCheck(args []string) error {
	path, opts, err := parseFlags("check", args)
	if err != nil {
		return err
	}
	page, parser, err := parseFile(path, opts)
	if err != nil {
		return err
	}
	for _, msg := range parser.Messages() {
		fmt.Println(msg)
	}
	if page == nil {
		errs := syntax.FilterMessages(parser.Messages(), syntax.MessageError)
		return fmt.Errorf("%s did not parse (%d errors)", path, len(errs))
	}
	slog.Info("template parsed", "path", path, "statements", len(page.Body.Statements))
	return nil
}

func runDump(args []string) error {
	path, opts, err := parseFlags("dump", args)
	if err != nil {
		return err
	}
	page, parser, err := parseFile(path, opts)
	if err != nil {
		return err
	}
	if page == nil {
		for _, msg := range parser.Messages() {
			fmt.Fprintln(os.Stderr, msg)
		}
		return fmt.Errorf("%s did not parse", path)
	}
	fmt.Print(syntax.Dump(page))
	return nil
}
