package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/boergens/stencil/syntax"
)

// ANSI colors for the REPL prompt and output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// cmdRepl runs an interactive loop that parses each entry as a template
// and dumps the resulting statements.
func cmdRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".stencil_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "stencil> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%sstencil REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}

		lexer := syntax.NewLexer(line, "<repl>", syntax.LexerOptions{KeepTrivia: true})
		parser := syntax.NewParser(lexer, nil)
		page := parser.Run()
		for _, msg := range parser.Messages() {
			fmt.Fprintf(rl.Stdout(), "%s%s%s\n", colorRed, msg, colorReset)
		}
		if page != nil {
			fmt.Fprint(rl.Stdout(), syntax.Dump(page.Body))
		}
	}
}
