/*
Lrforge builds an ACTION/GOTO table from a grammar/lexer/precedence bundle
and either dumps the table, or opens a REPL that lexes and parses each
typed line and prints the resulting parse tree.

Usage:

	lrforge -c bundle.toml [flags]

The flags are:

	-v, --version
		Print the version and exit.

	-c, --config FILE
		The TOML bundle describing the grammar, lexer rules, and precedence
		table. Required unless -v is given.

	-f, --flavour {slr|lr1|lalr1}
		Override the bundle's flavour. Defaults to the bundle's own
		"flavour" key, or "lalr1" if that is also unset.

	-t, --dump-table
		Print the built ACTION/GOTO table and exit without parsing anything.

	-i, --interactive
		Force an interactive, readline-backed REPL even if stdin is not
		a terminal.

	-d, --direct
		Force reading lines directly from stdin instead of going through
		readline.

	--cache FILE
		Persist and reuse built tables in a sqlite database at FILE, keyed
		by grammar fingerprint.

Once a table is built, input lines are read until end of input (or "QUIT"
in interactive mode) and each is lexed and parsed against the table; the
resulting parse tree is printed to stdout. Exit is 0 on success, nonzero
if the table failed to build or any line failed to parse; an unresolved
or over-budget conflict produces a warning on stderr rather than failing
the build outright.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cgosorio/lrforge"
	"github.com/cgosorio/lrforge/cache"
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/cgosorio/lrforge/lex"
	"github.com/cgosorio/lrforge/lparse"
	"github.com/cgosorio/lrforge/ltable"
	"github.com/spf13/pflag"
)

const version = "0.1.0"

const (
	// ExitSuccess indicates the program ran to completion with no parse
	// failures.
	ExitSuccess = iota

	// ExitBuildError indicates the grammar/bundle failed to build a table.
	ExitBuildError

	// ExitParseError indicates the table built fine but at least one input
	// line failed to parse.
	ExitParseError
)

var (
	returnCode = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagConfig      = pflag.StringP("config", "c", "", "TOML bundle describing the grammar, lexer, and precedence table")
	flagFlavour     = pflag.StringP("flavour", "f", "", "Table flavour: slr, lr1, or lalr1 (overrides the bundle)")
	flagDumpTable   = pflag.BoolP("dump-table", "t", false, "Print the built ACTION/GOTO table and exit")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Force an interactive readline REPL")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading lines directly from stdin")
	flagCacheFile   = pflag.String("cache", "", "sqlite file to cache built tables in, keyed by grammar fingerprint")
)

func main() {
	defer func() {
		if p := recover(); p != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", p))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("lrforge %s\n", version)
		return
	}

	if *flagConfig == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -c/--config is required")
		returnCode = ExitBuildError
		return
	}

	b, err := loadBundle(*flagConfig)
	if err != nil {
		fail(err)
		return
	}

	flavour, err := resolveFlavour(*flagFlavour, b.Flavour)
	if err != nil {
		fail(err)
		return
	}

	grammarText, err := b.grammarTextSource()
	if err != nil {
		fail(err)
		return
	}

	precedence, err := b.precedenceTable()
	if err != nil {
		fail(err)
		return
	}

	opts := lrforge.BuildOptions{
		Precedence:        precedence,
		ExpectedConflicts: b.ExpectedConflicts,
	}

	table, gram, err := build(grammarText, b.terminalClasses(), flavour, opts)
	if table == nil {
		fail(err)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", err)
	}
	warnUnresolvedConflicts(table)

	if *flagDumpTable {
		fmt.Println(table.String())
		return
	}

	reader, err := selectReader()
	if err != nil {
		fail(err)
		return
	}
	defer reader.Close()

	runREPL(b.buildLexer(), table, &gram, reader)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	returnCode = ExitBuildError
}

// build chooses between lrforge.Build and lrforge.BuildCached depending on
// whether --cache names a sqlite file, and always returns any table that
// was in fact constructed even alongside a conflict-budget error, matching
// lrforge.Build's own contract.
func build(grammarText string, terminalClasses map[string]grammar.TokenClass, flavour lrforge.Flavour, opts lrforge.BuildOptions) (*ltable.Table, grammar.Grammar, error) {
	if *flagCacheFile == "" {
		return lrforge.Build(grammarText, terminalClasses, flavour, opts)
	}

	store, err := cache.NewSQLiteStore(*flagCacheFile)
	if err != nil {
		return nil, grammar.Grammar{}, fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	return lrforge.BuildCached(grammarText, terminalClasses, flavour, opts, store)
}

func resolveFlavour(flagVal, bundleVal string) (lrforge.Flavour, error) {
	name := flagVal
	if name == "" {
		name = bundleVal
	}
	if name == "" {
		name = "lalr1"
	}
	switch strings.ToLower(name) {
	case "slr", "slr1", "slr(1)":
		return lrforge.SLR1, nil
	case "lr1", "lr(1)":
		return lrforge.LR1, nil
	case "lalr1", "lalr(1)":
		return lrforge.LALR1, nil
	default:
		return 0, fmt.Errorf("unknown flavour %q", name)
	}
}

func warnUnresolvedConflicts(table *ltable.Table) {
	for _, c := range table.Conflicts.SR {
		if !c.Resolved {
			fmt.Fprintf(os.Stderr, "WARNING: unresolved shift/reduce conflict in state %s on %q\n", c.State, c.Terminal)
		}
	}
	for _, c := range table.Conflicts.RR {
		if !c.Resolved {
			fmt.Fprintf(os.Stderr, "WARNING: unresolved reduce/reduce conflict in state %s on %q\n", c.State, c.Terminal)
		}
	}
}

func selectReader() (lineReader, error) {
	if *flagDirect {
		return newDirectReader(os.Stdin), nil
	}
	if *flagInteractive {
		return newInteractiveReader("lrforge> ")
	}
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		return newInteractiveReader("lrforge> ")
	}
	return newDirectReader(os.Stdin), nil
}

func runREPL(lx *lex.Lexer, table *ltable.Table, gram *grammar.Grammar, reader lineReader) {
	actions := map[int]lparse.SemanticAction{}
	for {
		line, readErr := reader.ReadLine()
		if line != "" {
			handleLine(lx, table, gram, actions, line)
		}
		if readErr != nil {
			if readErr != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", readErr)
				returnCode = ExitParseError
			}
			return
		}
	}
}

func handleLine(lx *lex.Lexer, table *ltable.Table, gram *grammar.Grammar, actions map[int]lparse.SemanticAction, line string) {
	if strings.EqualFold(line, "QUIT") {
		os.Exit(returnCode)
	}

	stream, err := lx.Lex(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitParseError
		return
	}

	_, tree, err := lrforge.Parse(table, gram, stream, actions)
	if err != nil {
		var synErr *ierrors.SyntaxError
		if errors.As(err, &synErr) {
			fmt.Fprintln(os.Stderr, synErr.FullMessage())
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		}
		returnCode = ExitParseError
		return
	}
	fmt.Println(tree.String())
}
