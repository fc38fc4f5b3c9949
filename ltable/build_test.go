package ltable

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

func Test_Build_SpuriousConflictReport_NeverIndexesOutOfRange(t *testing.T) {
	// A -> B C | a; B -> ε | A b; C -> ε | c
	g := buildGrammar(t, []string{"a", "b", "c"}, []string{
		"A -> B C | a",
		"B -> ε | A b",
		"C -> ε | c",
	})

	table, err := Build(g, LALR1)
	assert.NoError(t, err)

	total := table.Conflicts.Count()
	assert.Equal(t, len(table.Conflicts.SR)+len(table.Conflicts.RR), total)

	budgetErr := table.CheckConflictBudget(0)
	if total > 0 {
		assert.Error(t, budgetErr)
	} else {
		assert.NoError(t, budgetErr)
	}
}

func Test_Build_Precedence_ResolvesShiftReduce(t *testing.T) {
	// E -> E + E | E * E | n
	g := buildGrammar(t, []string{"+", "*", "n"}, []string{
		"E -> E + E | E * E | n",
	})
	g.SetPrecedence("+", grammar.PrecEntry{Level: 1, Assoc: grammar.LeftAssoc})
	g.SetPrecedence("*", grammar.PrecEntry{Level: 2, Assoc: grammar.LeftAssoc})

	table, err := Build(g, LALR1)
	assert.NoError(t, err)

	for _, c := range table.Conflicts.SR {
		assert.True(t, c.Resolved, "every shift/reduce conflict in this grammar has a precedence-bearing terminal and should resolve")
	}
}

func Test_Build_NonAssoc_YieldsErrorCell(t *testing.T) {
	g := buildGrammar(t, []string{"==", "n"}, []string{
		"E -> E == E | n",
	})
	g.SetPrecedence("==", grammar.PrecEntry{Level: 1, Assoc: grammar.NonAssoc})

	table, err := Build(g, LALR1)
	assert.NoError(t, err)

	foundError := false
	for _, s := range table.States {
		if act, ok := table.Action[s]["=="]; ok && act.Type == ErrorAction {
			foundError = true
		}
	}
	assert.True(t, foundError, "NonAssoc precedence tie on == should install an explicit Error action")
}

func Test_Build_AcceptOnEmptyStart(t *testing.T) {
	g := buildGrammar(t, []string{"x"}, []string{"S -> ε"})
	table, err := Build(g, SLR1)
	assert.NoError(t, err)

	// the start state first reduces S -> ε on $; Accept is in the state
	// reached by GOTO on S.
	reduce, ok := table.Action[table.Start]["$"]
	assert.True(t, ok)
	assert.Equal(t, Reduce, reduce.Type)

	afterS, ok := table.Goto[table.Start]["S"]
	assert.True(t, ok)
	accept, ok := table.Action[afterS]["$"]
	assert.True(t, ok)
	assert.Equal(t, Accept, accept.Type)
}

func Test_Build_ReduceReduce_PrefersSmallerProductionID(t *testing.T) {
	g := buildGrammar(t, []string{"a", "b", "c"}, []string{
		"A -> B C | a",
		"B -> ε | A b",
		"C -> ε | c",
	})

	table, err := Build(g, LALR1)
	assert.NoError(t, err)

	for _, c := range table.Conflicts.RR {
		assert.LessOrEqual(t, c.Chosen.ID, c.Rejected.ID)
	}
}
