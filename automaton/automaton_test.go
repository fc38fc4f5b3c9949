package automaton

import (
	"strings"
	"testing"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/stretchr/testify/assert"
)

type testClass string

func (c testClass) ID() string    { return strings.ToLower(string(c)) }
func (c testClass) Human() string { return string(c) }

func buildGrammar(t *testing.T, terminals []string, rules []string) grammar.Grammar {
	t.Helper()
	g := grammar.Grammar{}
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
				g.AddRule(nt, grammar.Production{})
				continue
			}
			g.AddRule(nt, grammar.Production(strings.Fields(alt)))
		}
	}
	return g
}

// classic expression grammar used throughout the LR construction tests.
func exprGrammar(t *testing.T) grammar.Grammar {
	return buildGrammar(t,
		[]string{"+", "*", "n", "(", ")"},
		[]string{
			"E -> E + E | E * E | n",
		},
	)
}

func Test_NewLR0ViablePrefixDFA_ReachesAcceptingStartClosure(t *testing.T) {
	g := exprGrammar(t)
	dfa := NewLR0ViablePrefixDFA(g)

	assert.NotEmpty(t, dfa.States())
	startItems := dfa.GetValue(dfa.Start)
	assert.True(t, startItems.Len() > 1, "start closure should include every E alternative")
}

func Test_NewLR1ViablePrefixDFA_CarriesLookaheads(t *testing.T) {
	g := exprGrammar(t)
	dfa := NewLR1ViablePrefixDFA(g)

	found := false
	for _, name := range dfa.States() {
		for _, key := range dfa.GetValue(name).Elements() {
			item := dfa.GetValue(name).Get(key)
			if item.Lookahead != "" {
				found = true
			}
		}
	}
	assert.True(t, found, "LR1 item sets should carry nonempty lookaheads")
}

func Test_NewLALR1ViablePrefixDFA_MergesEqualCores(t *testing.T) {
	g := exprGrammar(t)

	lr1 := NewLR1ViablePrefixDFA(g)
	lalr, mergeCount := NewLALR1ViablePrefixDFA(g)

	assert.Equal(t, len(lr1.States())-mergeCount, len(lalr.States()),
		"LALR(1) state count must equal LR(1) state count minus the number of core-equal merges")

	if mergeCount > 0 {
		for _, name := range lalr.States() {
			set := lalr.GetValue(name)
			assert.Greater(t, set.Len(), 0)
		}
	}
}

func Test_NullableGrammar_Closure_DoesNotLoop(t *testing.T) {
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

	dfa := NewLR1ViablePrefixDFA(g)
	assert.NotEmpty(t, dfa.States())
}
