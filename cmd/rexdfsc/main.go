/*
Rexdfsc compiles a regular expression into a synthesizable SystemVerilog
module implementing the same two-character-transition NFA the matcher
package executes in software.

Usage:

	rexdfsc compile <regex> <module_name> [flags]

The flags are:

	-o, --out FILE
		Write the generated module to FILE instead of stdout. By convention
		FILE should end in ".sv".

	-u, --unicode-threshold N
		Stored in the compiler's Config (default 64). No compilation step
		reads it: character classes of every size compile through the same
		range-coalescing path.

Exit codes: 0 on success, 1 on a usage error, 2 on a compilation error.
*/
package main

import (
	"os"
	"regexp/syntax"

	"github.com/projectdiscovery/gologger"
	"github.com/spf13/pflag"

	"github.com/coregx/rexdfs/compiler"
	"github.com/coregx/rexdfs/hdl"
	"github.com/coregx/rexdfs/hir"
)

const (
	exitSuccess = 0
	exitUsage   = 1
	exitCompile = 2
)

var (
	outFile          = pflag.StringP("out", "o", "", "write the generated module here instead of stdout")
	unicodeThreshold = pflag.IntP("unicode-threshold", "u", compiler.DefaultConfig().UnicodeClassThreshold, "stored in the compiler config; no compilation step reads it")
	ahoLiteralThresh = pflag.IntP("literal-threshold", "l", compiler.DefaultConfig().AhoLiteralThreshold, "minimum literal-alternation branch count before the matcher package's literal prefilter is worth building")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()
	args := pflag.Args()

	if len(args) != 3 || args[0] != "compile" {
		gologger.Error().Msgf("usage: rexdfsc compile <regex> <module_name>")
		return exitUsage
	}
	pattern, moduleName := args[1], args[2]

	syn, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		gologger.Error().Msgf("parsing %q: %v", pattern, err)
		return exitUsage
	}

	node, err := hir.FromSyntax(syn)
	if err != nil {
		gologger.Error().Msgf("lowering %q to an NFA-compilable form: %v", pattern, err)
		return exitCompile
	}

	cfg := compiler.Config{
		UnicodeClassThreshold: *unicodeThreshold,
		AhoLiteralThreshold:   *ahoLiteralThresh,
	}
	result, err := compiler.NewWithConfig(cfg).Compile(node)
	if err != nil {
		gologger.Error().Msgf("compiling %q: %v", pattern, err)
		return exitCompile
	}

	text, err := hdl.Emit(result.NFA, moduleName)
	if err != nil {
		gologger.Error().Msgf("emitting module %q: %v", moduleName, err)
		return exitCompile
	}

	if *outFile == "" {
		gologger.Info().Msgf("compiled %q to %d states", pattern, result.NFA.NumStates())
		os.Stdout.WriteString(text)
		return exitSuccess
	}

	if err := os.WriteFile(*outFile, []byte(text), 0o644); err != nil {
		gologger.Error().Msgf("writing %s: %v", *outFile, err)
		return exitCompile
	}
	gologger.Info().Msgf("wrote %s (%d states)", *outFile, result.NFA.NumStates())
	return exitSuccess
}
