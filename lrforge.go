// Package lrforge is the bottom-up parser generator's external facade: it
// ties together grammar-text parsing, table construction (ltable), the
// table cache (cache), and the shift-reduce driver (lparse) behind the
// three public operations spec.md §6 names: build, parse, and the cache
// façade's store/load.
package lrforge

import (
	"github.com/cgosorio/lrforge/cache"
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/lex"
	"github.com/cgosorio/lrforge/lparse"
	"github.com/cgosorio/lrforge/ltable"
)

// Flavour selects which canonical collection and reduce-lookahead rule the
// table builder uses. It is ltable.Flavour directly: the root facade adds
// no behavior of its own over table construction, only convenient re-exports.
type Flavour = ltable.Flavour

const (
	SLR1  = ltable.SLR1
	LR1   = ltable.LR1
	LALR1 = ltable.LALR1
)

// BuildOptions configures a Build call beyond the grammar text itself.
type BuildOptions struct {
	// Precedence maps a terminal name or explicit precedence tag to its
	// (level, associativity) entry.
	Precedence map[string]grammar.PrecEntry

	// ExpectedConflicts is the grammar author's declared conflict budget;
	// Build's returned error is non-nil (wrapping ierrors.ErrConflict) when
	// the built table's count of conflicts not resolved by precedence
	// exceeds it, even though the table itself is still returned and usable.
	ExpectedConflicts int
}

// Build parses grammarText, applies opts.Precedence, and constructs an
// ACTION/GOTO table of the requested flavour. terminalClasses is the
// lexer's token-kind set, used to tell terminals from nonterminals in the
// grammar text per spec.md §6. The conflict log lives on the returned
// Table's Conflicts field; Build's error return is non-nil only for a
// grammar syntax/semantic failure or an exceeded conflict budget — in the
// latter case the table is still returned alongside the error.
func Build(grammarText string, terminalClasses map[string]grammar.TokenClass, flavour Flavour, opts BuildOptions) (*ltable.Table, grammar.Grammar, error) {
	g, err := ParseGrammarText(grammarText, terminalClasses)
	if err != nil {
		return nil, grammar.Grammar{}, err
	}
	for tag, entry := range opts.Precedence {
		g.SetPrecedence(tag, entry)
	}

	table, err := ltable.Build(g, flavour)
	if err != nil {
		return nil, g, err
	}

	if err := table.CheckConflictBudget(opts.ExpectedConflicts); err != nil {
		return table, g, err
	}
	return table, g, nil
}

// BuildCached is Build with a cache.Store consulted first: a hit whose
// Artifact validates against g and flavour short-circuits table
// construction entirely; a miss or validation failure falls back to Build
// and stores the result before returning it.
func BuildCached(grammarText string, terminalClasses map[string]grammar.TokenClass, flavour Flavour, opts BuildOptions, store cache.Store) (*ltable.Table, grammar.Grammar, error) {
	g, err := ParseGrammarText(grammarText, terminalClasses)
	if err != nil {
		return nil, grammar.Grammar{}, err
	}
	for tag, entry := range opts.Precedence {
		g.SetPrecedence(tag, entry)
	}

	fingerprint := cache.Fingerprint(g, flavour)

	if artifact, ok, err := store.Load(fingerprint); err == nil && ok {
		if err := artifact.Validate(&g, flavour); err == nil {
			return artifact.ToTable(), g, nil
		}
	}

	table, err := ltable.Build(g, flavour)
	if err != nil {
		return nil, g, err
	}

	_ = store.Store(fingerprint, cache.ToArtifact(fingerprint, &g, table))

	budgetErr := table.CheckConflictBudget(opts.ExpectedConflicts)
	return table, g, budgetErr
}

// Parse drives stream to completion against table using gram's terminal set
// to build an "expected" list on error, dispatching actions by production
// id during reduction. It is a thin convenience wrapper over
// lparse.NewDriver for callers who don't need a long-lived Driver.
func Parse(table *ltable.Table, gram *grammar.Grammar, stream lex.Stream, actions map[int]lparse.SemanticAction) (any, *lparse.ParseTree, error) {
	driver := lparse.NewDriver(table, gram, actions)
	return driver.Parse(stream)
}
