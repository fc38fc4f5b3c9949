package automaton

import (
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/util"
)

// LR0Closure computes CLOSURE(items) for LR(0)/SLR(1) construction: while
// changed, for every item [A -> alpha . B beta] in the set and every
// production B -> gamma, add [B -> . gamma] if not already present. An item
// whose Right is grammar.Epsilon ([""]), not just a true zero-length slice,
// also counts as dot-at-end, matching how ParseGrammarText actually builds
// ε-productions.
func LR0Closure(g *grammar.Grammar, items util.SVSet[grammar.LR0Item]) util.SVSet[grammar.LR0Item] {
	closure := util.NewSVSet(items)

	changed := true
	for changed {
		changed = false
		for _, key := range closure.Elements() {
			item := closure.Get(key)
			if len(item.Right) == 0 || item.Right[0] == grammar.Epsilon[0] {
				continue
			}
			B := item.Right[0]
			if !g.IsNonTerminal(B) {
				continue
			}
			rule := g.Rule(B)
			for i, gamma := range rule.Productions {
				newItem := grammar.LR0Item{NonTerminal: B, Right: gamma.Copy(), ID: g.ProductionID(B, i), Tag: rule.Tags[i]}
				key := newItem.String()
				if !closure.Has(key) {
					closure.Set(key, newItem)
					changed = true
				}
			}
		}
	}

	return closure
}

// GotoLR0 computes GOTO(items, X) for LR(0)/SLR(1) construction: the closure
// of every item [A -> alpha . X beta] advanced to [A -> alpha X . beta].
func GotoLR0(g *grammar.Grammar, items util.SVSet[grammar.LR0Item], X string) util.SVSet[grammar.LR0Item] {
	moved := util.NewSVSet[grammar.LR0Item]()
	for _, key := range items.Elements() {
		item := items.Get(key)
		if len(item.Right) == 0 || item.Right[0] == grammar.Epsilon[0] || item.Right[0] != X {
			continue
		}
		newItem := grammar.LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string{}, item.Left...), X),
			Right:       append([]string{}, item.Right[1:]...),
			ID:          item.ID,
			Tag:         item.Tag,
		}
		moved.Set(newItem.String(), newItem)
	}
	return LR0Closure(g, moved)
}

// LR1Closure computes CLOSURE(items) for canonical LR(1)/LALR(1)
// construction: while changed, for every item [A -> alpha . B beta, a] and
// every production B -> gamma, add [B -> . gamma, b] for every
// b in FIRST(beta a).
func LR1Closure(g *grammar.Grammar, items util.SVSet[grammar.LR1Item]) util.SVSet[grammar.LR1Item] {
	closure := util.NewSVSet(items)

	changed := true
	for changed {
		changed = false
		for _, key := range closure.Elements() {
			item := closure.Get(key)
			if len(item.Right) == 0 || item.Right[0] == grammar.Epsilon[0] {
				continue
			}
			B := item.Right[0]
			if !g.IsNonTerminal(B) {
				continue
			}

			beta := item.Right[1:]
			lookaheadSeed := append(append([]string{}, beta...), item.Lookahead)
			lookaheads := g.FirstOfString(lookaheadSeed)

			rule := g.Rule(B)
			for i, gamma := range rule.Productions {
				for _, b := range lookaheads.Elements() {
					if b == "" {
						continue
					}
					newItem := grammar.LR1Item{
						LR0Item:   grammar.LR0Item{NonTerminal: B, Right: gamma.Copy(), ID: g.ProductionID(B, i), Tag: rule.Tags[i]},
						Lookahead: b,
					}
					key := newItem.String()
					if !closure.Has(key) {
						closure.Set(key, newItem)
						changed = true
					}
				}
			}
		}
	}

	return closure
}

// GotoLR1 computes GOTO(items, X) for canonical LR(1)/LALR(1) construction.
func GotoLR1(g *grammar.Grammar, items util.SVSet[grammar.LR1Item], X string) util.SVSet[grammar.LR1Item] {
	moved := util.NewSVSet[grammar.LR1Item]()
	for _, key := range items.Elements() {
		item := items.Get(key)
		if len(item.Right) == 0 || item.Right[0] == grammar.Epsilon[0] || item.Right[0] != X {
			continue
		}
		newItem := grammar.LR1Item{
			LR0Item: grammar.LR0Item{
				NonTerminal: item.NonTerminal,
				Left:        append(append([]string{}, item.Left...), X),
				Right:       append([]string{}, item.Right[1:]...),
				ID:          item.ID,
				Tag:         item.Tag,
			},
			Lookahead: item.Lookahead,
		}
		moved.Set(newItem.String(), newItem)
	}
	return LR1Closure(g, moved)
}
