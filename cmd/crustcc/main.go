package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raymyers/crustcc/pkg/ast"
	"github.com/raymyers/crustcc/pkg/codegen"
	"github.com/raymyers/crustcc/pkg/lexer"
	"github.com/raymyers/crustcc/pkg/parser"
	"github.com/raymyers/crustcc/pkg/toolchain"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

var version = "0.1.0"

// Debug flags for dumping intermediate representations
var (
	dParse bool
	dAsm   bool
)

// Compilation options
var (
	outputPath string
	runProgram bool
	jobs       int
	ident      string
	ccDriver   string
	verbose    bool
)

// exitStatusError carries the exit status of a program started with --run
type exitStatusError struct {
	status int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("program exited with status %d", e.status)
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize CompCert-style single-dash flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		var status *exitStatusError
		if errors.As(err, &status) {
			return status.status
		}
		return 1
	}
	return 0
}

// debugFlagNames lists the debug flags that also accept single-dash style
var debugFlagNames = []string{"dparse", "dasm"}

// normalizeFlags converts CompCert-style single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crustcc [file]",
		Short: "crustcc compiles a small subset of C to x86-64 assembly",
		Long: `crustcc compiles a subset of C (int locals, arithmetic, comparisons,
logical operators, conditionals and if/else) straight to x86-64 GNU
assembly in a single pass. The output assembles and links with any
System V C driver.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			if dParse {
				return doParse(filename, out, errOut)
			}
			if dAsm {
				return doAsm(filename, out, errOut)
			}
			if runProgram {
				return doRun(cmd.Context(), filename, out, errOut)
			}
			return doCompile(filename, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Debug flags
	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dAsm, "dasm", "", false, "Dump assembly")

	// Compilation flags; defaults come from the environment
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", `Write assembly to this file ("-" for stdout)`)
	rootCmd.Flags().BoolVar(&runProgram, "run", false, "Build with the C driver, run, and exit with the program's status")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", env.Int("CRUSTCC_JOBS", 1), "Functions lowered in parallel ($CRUSTCC_JOBS)")
	rootCmd.Flags().StringVar(&ident, "ident", env.Str("CRUSTCC_IDENT", codegen.DefaultIdent), "Text of the .ident directive ($CRUSTCC_IDENT)")
	rootCmd.Flags().StringVar(&ccDriver, "cc", env.Str("CRUSTCC_CC", toolchain.DefaultDriver), "C driver used by --run ($CRUSTCC_CC)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", env.Bool("CRUSTCC_VERBOSE"), "Report progress on stderr ($CRUSTCC_VERBOSE)")

	return rootCmd
}

func logf(errOut io.Writer, format string, args ...any) {
	if verbose {
		fmt.Fprintf(errOut, "crustcc: "+format+"\n", args...)
	}
}

// parseFile reads and parses a C file, returning the AST
func parseFile(filename string, errOut io.Writer) (*ast.Program, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: error reading %s: %v\n", filename, err)
		return nil, err
	}

	l := lexer.New(string(content))
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(errOut, "%s: %s\n", filename, e)
		}
		return nil, fmt.Errorf("parsing failed with %d errors", len(p.Errors()))
	}
	program.Name = filepath.Base(filename)
	return program, nil
}

// compileFile parses and lowers a C file, returning the assembly text
func compileFile(filename string, errOut io.Writer) (string, error) {
	program, err := parseFile(filename, errOut)
	if err != nil {
		return "", err
	}
	logf(errOut, "lowering %d functions from %s", len(program.Definitions), filename)

	gen := codegen.New(codegen.Options{Ident: ident, Jobs: jobs})
	text, err := gen.LowerProgram(program)
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: %s: %v\n", filename, err)
		return "", err
	}
	return text, nil
}

// doParse parses the file and writes the AST to a .parsed.c file
func doParse(filename string, out, errOut io.Writer) error {
	program, err := parseFile(filename, errOut)
	if err != nil {
		return err
	}

	outputFilename := parsedOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	ast.NewPrinter(outFile).PrintProgram(program)
	// Also print to stdout for convenience
	ast.NewPrinter(out).PrintProgram(program)
	return nil
}

// parsedOutputFilename returns the output filename for -dparse
// input.c -> input.parsed.c
func parsedOutputFilename(filename string) string {
	return strings.TrimSuffix(filename, ".c") + ".parsed.c"
}

// doAsm compiles the file, writes a .s file and echoes it to stdout
func doAsm(filename string, out, errOut io.Writer) error {
	text, err := compileFile(filename, errOut)
	if err != nil {
		return err
	}
	if err := writeOutput(asmOutputFilename(filename), text, errOut); err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}

// doCompile compiles the file to the -o destination, by default file.s
func doCompile(filename string, out, errOut io.Writer) error {
	logf(errOut, "compiling %s", filename)
	text, err := compileFile(filename, errOut)
	if err != nil {
		return err
	}

	dest := outputPath
	if dest == "" {
		dest = asmOutputFilename(filename)
	}
	if dest == "-" {
		fmt.Fprint(out, text)
		return nil
	}
	if err := writeOutput(dest, text, errOut); err != nil {
		return err
	}
	logf(errOut, "wrote %s", dest)
	return nil
}

// doRun compiles, links and runs the file. A non-zero exit status is
// passed through as an *exitStatusError.
func doRun(ctx context.Context, filename string, out, errOut io.Writer) error {
	text, err := compileFile(filename, errOut)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "crustcc-run-")
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: %v\n", err)
		return err
	}
	defer os.RemoveAll(dir)

	tc := toolchain.New(ccDriver)
	exe, err := tc.Build(ctx, text, dir)
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: %v\n", err)
		return err
	}
	logf(errOut, "running %s", filename)

	res, err := tc.Run(ctx, exe)
	if err != nil {
		fmt.Fprintf(errOut, "crustcc: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "%s\n", res)
	if status := res.Status(); status != 0 {
		return &exitStatusError{status: status}
	}
	return nil
}

func writeOutput(path, text string, errOut io.Writer) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		fmt.Fprintf(errOut, "crustcc: error creating %s: %v\n", path, err)
		return err
	}
	return nil
}

// asmOutputFilename returns the default assembly filename
// input.c -> input.s
func asmOutputFilename(filename string) string {
	return strings.TrimSuffix(filename, ".c") + ".s"
}
