package grammar

import (
	"strings"
	"testing"

	"github.com/cgosorio/lrforge/util"
	"github.com/stretchr/testify/assert"
)

// testClass is a minimal grammar.TokenClass used only to register terminals
// in these tests, standing in for a real lexer-provided token class.
type testClass string

func (c testClass) ID() string    { return strings.ToLower(string(c)) }
func (c testClass) Human() string { return string(c) }

// buildGrammar registers one terminal per entry in terminals and then parses
// each rule string of the form "NT -> alt1 sym | alt2 sym | ..." (space
// separated symbols, "ε" for an explicit epsilon alternative).
func buildGrammar(t *testing.T, terminals []string, rules []string) Grammar {
	t.Helper()
	g := Grammar{}
	for _, term := range terminals {
		g.AddTerm(term, testClass(term))
	}
	for _, r := range rules {
		sides := strings.SplitN(r, "->", 2)
		nt := strings.TrimSpace(sides[0])
		alts := strings.Split(sides[1], "|")
		for _, alt := range alts {
			alt = strings.TrimSpace(alt)
			if alt == "" || alt == "ε" {
				g.AddRule(nt, Production{})
				continue
			}
			g.AddRule(nt, Production(strings.Fields(alt)))
		}
	}
	return g
}

func setOf(elems ...string) util.StringSet {
	return util.StringSetOf(elems)
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		terminals []string
		rules     []string
		expectErr bool
	}{
		{name: "empty grammar", expectErr: true},
		{name: "no rules", terminals: []string{"int"}, expectErr: true},
		{name: "no terms", rules: []string{"S -> S"}, expectErr: true},
		{name: "undefined symbol", terminals: []string{"int"}, rules: []string{"S -> int plus S"}, expectErr: true},
		{name: "valid single rule", terminals: []string{"int"}, rules: []string{"S -> int"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGrammar(t, tc.terminals, tc.rules)
			err := g.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Grammar_Nullable_FOLLOW_DocumentedExample(t *testing.T) {
	// S -> BCDA; A -> nA | ε; B -> t; C -> bDe | ε; D -> iE | ε; E -> Sf | p
	g := buildGrammar(t,
		[]string{"t", "n", "b", "e", "i", "f", "p"},
		[]string{
			"S -> B C D A",
			"A -> n A | ε",
			"B -> t",
			"C -> b D e | ε",
			"D -> i E | ε",
			"E -> S f | p",
		},
	)

	assert := assert.New(t)

	nullable := g.Nullable()
	assert.True(nullable.Has("A"), "A should be nullable")
	assert.True(nullable.Has("C"), "C should be nullable")
	assert.True(nullable.Has("D"), "D should be nullable")
	assert.False(nullable.Has("S"), "S should not be nullable")
	assert.False(nullable.Has("B"), "B should not be nullable")
	assert.False(nullable.Has("E"), "E should not be nullable")

	followC := g.FOLLOW("C")
	assert.ElementsMatch([]string{"i", "n", "$", "f"}, followC.Elements(),
		"FOLLOW(C) must include the propagated follow[A] contribution through the nullable D suffix")
}

func Test_Grammar_FIRST(t *testing.T) {
	// first-and-follow textbook example grammar
	terminals := []string{"p", "g", "b", "a", "q", "s", "d", "f", "m"}
	rules := []string{
		"S -> K L p | g Q K",
		"K -> b L Q T | ε",
		"L -> Q a K | Q K | q a",
		"Q -> d s | ε",
		"T -> g S f | m",
	}

	testCases := []struct {
		sym    string
		expect []string
	}{
		{"T", []string{"g", "m"}},
		{"Q", []string{"d", ""}},
		{"K", []string{"b", ""}},
		{"L", []string{"d", "", "q", "a", "b"}},
		{"S", []string{"b", "d", "q", "a", "p", "g"}},
	}

	for _, tc := range testCases {
		t.Run(tc.sym, func(t *testing.T) {
			g := buildGrammar(t, terminals, rules)
			actual := g.FIRST(tc.sym)
			assert.ElementsMatch(t, tc.expect, actual.Elements())
		})
	}
}

func Test_Grammar_Augmented(t *testing.T) {
	g := buildGrammar(t, []string{"n"}, []string{"S -> n"})
	aug := g.Augmented()

	assert.Equal(t, "S'", aug.StartSymbol())
	rule := aug.Rule("S'")
	assert.Len(t, rule.Productions, 1)
	assert.Equal(t, Production{"S"}, rule.Productions[0])
	assert.Equal(t, "S", g.StartSymbol(), "Augmented must not mutate the receiver")
}

func Test_Grammar_AcceptsEmptyStartProduction(t *testing.T) {
	g := buildGrammar(t, []string{"x"}, []string{"S -> ε"})
	assert.NoError(t, g.Validate())
	assert.True(t, g.Nullable().Has("S"))
	assert.True(t, g.FOLLOW("S").Has("$"))
}
