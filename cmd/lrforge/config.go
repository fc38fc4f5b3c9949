package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/lex"
)

// terminalSpec is one lexer rule: a named token class plus the regex that
// recognizes it. Patterns are tried in declaration order within a state,
// exactly as lex.Lexer disambiguates ties.
type terminalSpec struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
	State   string `toml:"state"`
	ToState string `toml:"to_state"`
}

// discardSpec is a lexer rule matched and thrown away, such as whitespace
// or comments.
type discardSpec struct {
	Pattern string `toml:"pattern"`
	State   string `toml:"state"`
}

type precSpec struct {
	Level int    `toml:"level"`
	Assoc string `toml:"assoc"`
}

// bundle is the on-disk TOML shape a grammar/lexer/precedence description
// is loaded from, per SPEC_FULL.md §4's "grammar/precedence bundle" CLI
// configuration.
type bundle struct {
	Flavour           string              `toml:"flavour"`
	ExpectedConflicts int                 `toml:"expected_conflicts"`
	Grammar           string              `toml:"grammar"`
	GrammarText       string              `toml:"grammar_text"`
	Terminal          []terminalSpec      `toml:"terminal"`
	Discard           []discardSpec       `toml:"discard"`
	Precedence        map[string]precSpec `toml:"precedence"`
}

func loadBundle(path string) (bundle, error) {
	var b bundle
	if _, err := toml.DecodeFile(path, &b); err != nil {
		return bundle{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return b, nil
}

// grammarTextSource returns the grammar source the bundle names, preferring an
// inline grammar_text over a path to an external file.
func (b bundle) grammarTextSource() (string, error) {
	if b.GrammarText != "" {
		return b.GrammarText, nil
	}
	if b.Grammar == "" {
		return "", fmt.Errorf("config names neither grammar_text nor grammar")
	}
	data, err := os.ReadFile(b.Grammar)
	if err != nil {
		return "", fmt.Errorf("reading grammar file %s: %w", b.Grammar, err)
	}
	return string(data), nil
}

type cliTokenClass struct {
	name string
}

func (c cliTokenClass) ID() string    { return c.name }
func (c cliTokenClass) Human() string { return c.name }

// terminalClasses returns the lexer's token-kind set, the map ParseGrammarText
// uses to tell terminals from nonterminals in the grammar text.
func (b bundle) terminalClasses() map[string]grammar.TokenClass {
	out := map[string]grammar.TokenClass{}
	for _, term := range b.Terminal {
		out[term.Name] = cliTokenClass{name: term.Name}
	}
	return out
}

// buildLexer constructs a lex.Lexer from the bundle's terminal and discard
// rules. Rules with no State default to the lexer's sole, unnamed state.
func (b bundle) buildLexer() *lex.Lexer {
	lx := lex.NewLexer("")
	for _, d := range b.Discard {
		lx.AddPattern(d.State, d.Pattern, lex.Discard(), nil)
	}
	for _, term := range b.Terminal {
		class := cliTokenClass{name: term.Name}
		if term.ToState != "" {
			lx.AddPattern(term.State, term.Pattern, lex.LexAndSwapState(term.Name, term.ToState), class)
			continue
		}
		lx.AddPattern(term.State, term.Pattern, lex.LexAs(term.Name), class)
	}
	return lx
}

func parseAssoc(s string) (grammar.Assoc, error) {
	switch s {
	case "", "left":
		return grammar.LeftAssoc, nil
	case "right":
		return grammar.RightAssoc, nil
	case "none", "nonassoc":
		return grammar.NonAssoc, nil
	default:
		return 0, fmt.Errorf("unknown associativity %q", s)
	}
}

func (b bundle) precedenceTable() (map[string]grammar.PrecEntry, error) {
	out := map[string]grammar.PrecEntry{}
	for tag, spec := range b.Precedence {
		assoc, err := parseAssoc(spec.Assoc)
		if err != nil {
			return nil, fmt.Errorf("precedence %q: %w", tag, err)
		}
		out[tag] = grammar.PrecEntry{Level: spec.Level, Assoc: assoc}
	}
	return out, nil
}
