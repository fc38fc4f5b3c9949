package lrforge_test

import (
	"strings"
	"testing"

	"github.com/cgosorio/lrforge"
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClass string

func (c testClass) ID() string    { return strings.ToLower(string(c)) }
func (c testClass) Human() string { return string(c) }

func arithTerminals() map[string]grammar.TokenClass {
	return map[string]grammar.TokenClass{
		"+": testClass("+"),
		"*": testClass("*"),
		"n": testClass("n"),
	}
}

func Test_ParseGrammarText_MultipleAlternatives(t *testing.T) {
	text := `E -> E + E | E * E | n;`
	g, err := lrforge.ParseGrammarText(text, arithTerminals())
	require.NoError(t, err)

	assert.Equal(t, "E", g.StartSymbol())
	assert.ElementsMatch(t, []string{"+", "*", "n"}, g.Terminals())
	assert.ElementsMatch(t, []string{"E"}, g.NonTerminals())
	assert.Len(t, g.Rule("E").Productions, 3)
}

func Test_ParseGrammarText_EpsilonProduction(t *testing.T) {
	text := `S -> a S b | ;`
	terms := map[string]grammar.TokenClass{
		"a": testClass("a"),
		"b": testClass("b"),
	}
	g, err := lrforge.ParseGrammarText(text, terms)
	require.NoError(t, err)

	rule := g.Rule("S")
	require.Len(t, rule.Productions, 2)
	assert.True(t, rule.Productions[1].String() == "" || len(rule.Productions[1]) == 0 || rule.Productions[1][0] == "")
}

func Test_ParseGrammarText_FirstLHSIsStartSymbol(t *testing.T) {
	text := `S -> A; A -> n;`
	terms := map[string]grammar.TokenClass{"n": testClass("n")}
	g, err := lrforge.ParseGrammarText(text, terms)
	require.NoError(t, err)
	assert.Equal(t, "S", g.StartSymbol())
}

func Test_ParseGrammarText_MissingArrowIsSyntaxError(t *testing.T) {
	_, err := lrforge.ParseGrammarText("S n;", arithTerminals())
	require.Error(t, err)
	assert.ErrorIs(t, err, ierrors.ErrGrammarSyntax)
}

func Test_ParseGrammarText_EmptyLHSIsSyntaxError(t *testing.T) {
	_, err := lrforge.ParseGrammarText(" -> n;", arithTerminals())
	require.Error(t, err)
	assert.ErrorIs(t, err, ierrors.ErrGrammarSyntax)
}

func Test_ParseGrammarText_TerminalAsLHSIsSemanticError(t *testing.T) {
	_, err := lrforge.ParseGrammarText("n -> E;", arithTerminals())
	require.Error(t, err)
	assert.ErrorIs(t, err, ierrors.ErrGrammarSemantic)
}

func Test_ParseGrammarText_NoProductionsIsSyntaxError(t *testing.T) {
	_, err := lrforge.ParseGrammarText("   ", arithTerminals())
	require.Error(t, err)
	assert.ErrorIs(t, err, ierrors.ErrGrammarSyntax)
}

func Test_ParseGrammarText_UnknownSymbolsAreNonTerminals(t *testing.T) {
	text := `S -> A B; A -> n; B -> n;`
	terms := map[string]grammar.TokenClass{"n": testClass("n")}
	g, err := lrforge.ParseGrammarText(text, terms)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"S", "A", "B"}, g.NonTerminals())
	assert.ElementsMatch(t, []string{"n"}, g.Terminals())
}
