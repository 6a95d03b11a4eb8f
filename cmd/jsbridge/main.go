package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"jsbridge/pkg/bridge"
	"jsbridge/pkg/errors"
)

var (
	errColor  = color.New(color.FgRed)
	kindColor = color.New(color.FgYellow)
)

func main() {
	exprFlag := flag.String("e", "", "Run the given expression and exit")
	jsonFlag := flag.String("json", "", "Decode the given JSON text and print the value")
	flag.Parse()

	if *exprFlag != "" {
		os.Exit(runExpression(*exprFlag))
	}
	if *jsonFlag != "" {
		os.Exit(runJSON(*jsonFlag))
	}

	switch flag.NArg() {
	case 0:
		os.Exit(runRepl())
	case 1:
		os.Exit(runFile(flag.Arg(0)))
	default:
		fmt.Fprintf(os.Stderr, "Usage: jsbridge [script] or jsbridge -e \"expression\" or jsbridge -json \"text\"\n")
		os.Exit(64) // command line usage error
	}
}

func runExpression(expr string) int {
	ctx, err := bridge.New()
	if err != nil {
		printError(err)
		return 70 // internal software error
	}
	defer ctx.Close()

	val, err := ctx.RunString(expr)
	if err != nil {
		printError(err)
		return 70
	}
	if !val.IsUndefined() {
		fmt.Println(val.String())
	}
	releaseIfObject(val)
	return 0
}

func runJSON(text string) int {
	ctx, err := bridge.New()
	if err != nil {
		printError(err)
		return 70
	}
	defer ctx.Close()

	val := ctx.DecodeJSON(text)
	fmt.Println(val.String())
	releaseIfObject(val)
	return 0
}

func runFile(filename string) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file '%s': %s\n", filename, err.Error())
		return 70
	}
	return runExpression(string(source))
}

func runRepl() int {
	cfg := loadConfig()

	ctx, err := bridge.New()
	if err != nil {
		printError(err)
		return 70
	}
	defer ctx.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("jsbridge (Ctrl+D to exit)")
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if err != nil {
			// EOF or Ctrl+C both end the session.
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		val, err := ctx.RunString(line)
		if err != nil {
			printError(err)
			continue
		}
		if !val.IsUndefined() {
			fmt.Println(val.String())
		}
		releaseIfObject(val)
		ln.AppendHistory(line)
	}
}

// releaseIfObject drops the handle materialized for an object result; the
// CLI prints values and never holds onto them.
func releaseIfObject(val bridge.Value) {
	if obj, err := val.ToObject(); err == nil {
		obj.Release()
	}
}

func printError(err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		kindColor.Fprintf(os.Stderr, "%s: ", e.Kind())
		errColor.Fprintln(os.Stderr, e.Error())
		return
	}
	errColor.Fprintln(os.Stderr, err.Error())
}
