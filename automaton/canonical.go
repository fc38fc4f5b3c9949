package automaton

import (
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/util"
)

// NewLR0ViablePrefixDFA builds the canonical collection of LR(0) item sets
// used by SLR(1) table construction: starting from the closure of the
// augmented grammar's start item, repeatedly compute GOTO on every symbol
// for every discovered state until no new state is produced.
func NewLR0ViablePrefixDFA(g grammar.Grammar) *DFA[util.SVSet[grammar.LR0Item]] {
	aug := g.Augmented()
	startItem := grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: grammar.Production{g.StartSymbol()}, ID: aug.ProductionID(aug.StartSymbol(), 0)}

	startSet := util.NewSVSet[grammar.LR0Item]()
	startSet.Set(startItem.String(), startItem)
	startSet = LR0Closure(&aug, startSet)

	dfa := NewDFA[util.SVSet[grammar.LR0Item]]()
	startName := startSet.StringOrdered()
	dfa.Start = startName
	dfa.AddState(startName, startSet)

	symbols := allSymbols(&aug)

	worklist := []string{startName}
	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		items := dfa.GetValue(name)

		for _, X := range symbols {
			moved := GotoLR0(&aug, items, X)
			if moved.Empty() {
				continue
			}
			toName := moved.StringOrdered()
			isNew := !dfa.HasState(toName)
			dfa.AddState(toName, moved)
			dfa.AddTransition(name, X, toName)
			if isNew {
				worklist = append(worklist, toName)
			}
		}
	}

	return dfa
}

// NewLR1ViablePrefixDFA builds the canonical collection of LR(1) item sets
// used by canonical LR(1) table construction, analogous to
// NewLR0ViablePrefixDFA but carrying per-item lookaheads.
func NewLR1ViablePrefixDFA(g grammar.Grammar) *DFA[util.SVSet[grammar.LR1Item]] {
	aug := g.Augmented()
	startItem := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: grammar.Production{g.StartSymbol()}, ID: aug.ProductionID(aug.StartSymbol(), 0)},
		Lookahead: "$",
	}

	startSet := util.NewSVSet[grammar.LR1Item]()
	startSet.Set(startItem.String(), startItem)
	startSet = LR1Closure(&aug, startSet)

	dfa := NewDFA[util.SVSet[grammar.LR1Item]]()
	startName := startSet.StringOrdered()
	dfa.Start = startName
	dfa.AddState(startName, startSet)

	symbols := allSymbols(&aug)

	worklist := []string{startName}
	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		items := dfa.GetValue(name)

		for _, X := range symbols {
			moved := GotoLR1(&aug, items, X)
			if moved.Empty() {
				continue
			}
			toName := moved.StringOrdered()
			isNew := !dfa.HasState(toName)
			dfa.AddState(toName, moved)
			dfa.AddTransition(name, X, toName)
			if isNew {
				worklist = append(worklist, toName)
			}
		}
	}

	return dfa
}

// NewLALR1ViablePrefixDFA builds the LALR(1) viable-prefix automaton by
// building the canonical LR(1) collection and merging every pair of states
// that share the same LR(0) core, unioning their lookaheads. This is
// approach (i) from the classic construction: build LR(1), then merge
// states with identical cores.
func NewLALR1ViablePrefixDFA(g grammar.Grammar) (*DFA[util.SVSet[grammar.LR1Item]], int) {
	lr1 := NewLR1ViablePrefixDFA(g)

	coreToCanonical := map[string]string{}
	rename := map[string]string{}
	mergeCount := 0

	for _, name := range lr1.States() {
		items := lr1.GetValue(name)
		core := grammar.CoreSet(items).StringOrdered()
		canonical, ok := coreToCanonical[core]
		if !ok {
			coreToCanonical[core] = name
			rename[name] = name
			continue
		}
		rename[name] = canonical
		mergeCount++
	}

	// States sharing an LR(0) core have, by construction, GOTOs on any given
	// symbol that also share a core, so this renaming collapses consistently
	// without ever producing two distinct targets for the same symbol out of
	// a merged state; any reduce/reduce conflicts this merge introduces are
	// a table-construction concern, not an automaton one.
	merged := lr1.RenameStates(rename, func(existing, incoming util.SVSet[grammar.LR1Item]) util.SVSet[grammar.LR1Item] {
		out := util.NewSVSet(existing)
		out.AddAll(incoming)
		return out
	})

	return merged, mergeCount
}

func allSymbols(g *grammar.Grammar) []string {
	syms := append([]string{}, g.Terminals()...)
	syms = append(syms, g.NonTerminals()...)
	return syms
}
