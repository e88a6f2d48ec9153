// Command neplc is the compiler's CLI front end: lex/parse/resolve/
// codegen a source file (or stdin) to wasm, optionally through a
// sqlite-backed build cache, and optionally execute the result.
// The flag set (--input/--output/--emit/--stdlib/--run) and exit-code
// contract are fixed by the specification this compiler implements;
// everything around them - panic recovery wrapping main, a flat
// no-library argument parser, fmt.Fprintf(os.Stderr, ...) diagnostic
// printing - follows the teacher's cmd/funxy/main.go texture. No CLI
// flags library appears anywhere in the retrieved example corpus, so
// flag parsing here is hand-rolled rather than reaching for a
// third-party one that was never grounded.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/neknaj/neplg1/internal/buildcache"
	"github.com/neknaj/neplg1/internal/compiler"
	"github.com/neknaj/neplg1/internal/config"
	"github.com/neknaj/neplg1/internal/interplog"
	"github.com/neknaj/neplg1/internal/lexer"
	"github.com/neknaj/neplg1/internal/parser"
	"github.com/neknaj/neplg1/internal/prettyprinter"
	"github.com/neknaj/neplg1/internal/stdlib"
	"github.com/neknaj/neplg1/internal/wasmvm"
)

const usage = `Usage:
  neplc [--input <path>] [--output <path>] [--emit wasm] [--stdlib <path>] [--run]
  neplc -dump-ast --input <path>
  neplc -help

With no --input, source is read from stdin. With no --output, the
compiled wasm is written to <input without ext>.wasm, or to stdout if
input was stdin. --run executes the artifact under the embedded
interpreter after compiling it and prints its return value.

Exit codes: 0 success, 1 compilation error, 2 argument error, 3 runtime
execution error.
`

// exit codes, spec.md §6.
const (
	exitOK         = 0
	exitCompileErr = 1
	exitArgErr     = 2
	exitRuntimeErr = 3
)

type args struct {
	input   string // "" means stdin
	output  string // "" means derive from input, or stdout if input is stdin
	emit    string
	stdlib  string // "" means no stdlib manifest
	run     bool
	dumpAST bool
	help    bool
}

func parseArgs(raw []string) (args, error) {
	a := args{emit: "wasm"}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case "-help", "--help", "help":
			a.help = true
		case "-dump-ast":
			a.dumpAST = true
		case "--input":
			if i+1 >= len(raw) {
				return a, fmt.Errorf("--input requires a path")
			}
			i++
			a.input = raw[i]
		case "--output":
			if i+1 >= len(raw) {
				return a, fmt.Errorf("--output requires a path")
			}
			i++
			a.output = raw[i]
		case "--emit":
			if i+1 >= len(raw) {
				return a, fmt.Errorf("--emit requires a value")
			}
			i++
			a.emit = raw[i]
		case "--stdlib":
			if i+1 >= len(raw) {
				return a, fmt.Errorf("--stdlib requires a path")
			}
			i++
			a.stdlib = raw[i]
		case "--run":
			a.run = true
		default:
			return a, fmt.Errorf("unrecognized argument: %s", raw[i])
		}
	}
	return a, nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(exitRuntimeErr)
		}
	}()

	a, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n%s", err, usage)
		os.Exit(exitArgErr)
	}
	if a.help {
		fmt.Print(usage)
		return
	}
	if a.emit != "wasm" {
		fmt.Fprintf(os.Stderr, "Error: unsupported --emit value %q (only \"wasm\" is implemented)\n", a.emit)
		os.Exit(exitArgErr)
	}

	source, err := readSource(a.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitArgErr)
	}

	if a.dumpAST {
		runDumpAST(source)
		return
	}

	manifest, err := resolveManifest(a.stdlib)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitArgErr)
	}

	run(a, source, manifest)
}

func runDumpAST(source string) {
	toks := lexer.New(source).Tokenize()
	prog, errs := parser.Parse(toks)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parsing failed with errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "- %s\n", e.Error())
		}
		os.Exit(exitCompileErr)
	}
	fmt.Print(prettyprinter.Tree(prog))
}

func run(a args, source string, manifest stdlib.Manifest) {
	log := interplog.New(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
	sess := interplog.NewSession(displayPath(a.input), time.Now())
	log.Stage(sess, "compiling")

	target := compiler.TargetWasm
	cache, err := openDefaultCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening build cache: %s\n", err)
		os.Exit(exitArgErr)
	}
	defer cache.Close()

	key := buildcache.Key(source, manifest.Files, string(target))
	wasmBytes, err := cache.Get(key)
	switch {
	case err == buildcache.ErrMiss:
		wasmBytes, err = compileFresh(log, sess, source, a.input, manifest, target)
		if err != nil {
			os.Exit(exitCompileErr)
		}
		if putErr := cache.Put(key, wasmBytes, time.Now().Unix()); putErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write build cache: %s\n", putErr)
		}
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error reading build cache: %s\n", err)
		os.Exit(exitArgErr)
	default:
		log.CacheHit(sess, key)
	}
	log.Done(sess, time.Now(), len(wasmBytes))

	if err := writeOutput(a, wasmBytes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %s\n", err)
		os.Exit(exitArgErr)
	}

	if a.run {
		results, err := wasmvm.Run(wasmBytes, config.ExportedMainName, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
			os.Exit(exitRuntimeErr)
		}
		for _, r := range results {
			fmt.Println(r.String())
		}
	}
}

func compileFresh(log *interplog.Logger, sess interplog.Session, source, input string, manifest stdlib.Manifest, target compiler.Target) ([]byte, error) {
	wasmBytes, diags := compiler.CompileToBytes(source, input, manifest, target)
	if diags != nil {
		fmt.Fprintln(os.Stderr, "Compilation failed with errors:")
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "- %s\n", d.Error())
		}
		log.Error(sess, fmt.Errorf("%d diagnostic(s)", len(diags)))
		return nil, fmt.Errorf("compilation failed")
	}
	return wasmBytes, nil
}

func displayPath(input string) string {
	if input == "" {
		return "<stdin>"
	}
	return input
}

func readSource(input string) (string, error) {
	if input == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("no --input given and stdin is a terminal; pipe source in or pass --input <path>")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("error reading input file: %w", err)
	}
	return string(data), nil
}

func resolveManifest(stdlibPath string) (stdlib.Manifest, error) {
	if stdlibPath == "" {
		return stdlib.Manifest{}, nil
	}
	manifest, err := stdlib.Discover(stdlibPath)
	if err != nil {
		return stdlib.Manifest{}, fmt.Errorf("error discovering stdlib at %s: %w", stdlibPath, err)
	}
	if err := manifest.Verify(); err != nil {
		return stdlib.Manifest{}, err
	}
	return manifest, nil
}

func writeOutput(a args, wasmBytes []byte) error {
	outputPath := a.output
	if outputPath == "" {
		if a.input == "" {
			_, err := os.Stdout.Write(wasmBytes)
			return err
		}
		outputPath = strings.TrimSuffix(a.input, filepath.Ext(a.input)) + ".wasm"
	}
	return os.WriteFile(outputPath, wasmBytes, 0644)
}

func openDefaultCache() (*buildcache.Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return buildcache.Open(":memory:")
	}
	nepDir := filepath.Join(dir, "neplc")
	if err := os.MkdirAll(nepDir, 0755); err != nil {
		return buildcache.Open(":memory:")
	}
	return buildcache.Open(filepath.Join(nepDir, "artifacts.db"))
}
