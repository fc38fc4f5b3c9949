package ltable

import (
	"github.com/cgosorio/lrforge/automaton"
	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/cgosorio/lrforge/util"
)

// proposal is one candidate ACTION[s,a] before conflict resolution.
type proposal struct {
	action Action
}

// Build constructs the ACTION/GOTO table for g under the requested flavour.
// It never fails on a conflict; conflicts are resolved by precedence where
// possible and always recorded in the returned Table's ConflictLog. Callers
// that want a hard failure on too many conflicts should call
// Table.CheckConflictBudget afterward.
func Build(g grammar.Grammar, flavour Flavour) (*Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	switch flavour {
	case SLR1:
		return buildSLR1(g)
	case LR1:
		return buildLR1(g)
	case LALR1:
		return buildLALR1(g)
	default:
		return nil, ierrors.Newf(ierrors.ErrGrammarSemantic, "unknown table flavour %d", flavour)
	}
}

func buildSLR1(g grammar.Grammar) (*Table, error) {
	aug := g.Augmented()
	dfa := automaton.NewLR0ViablePrefixDFA(g)

	t := newTable(SLR1, dfa.Start, dfa.States())
	t.Productions = aug.AllProductions()

	for _, s := range dfa.States() {
		items := dfa.GetValue(s)
		for _, key := range items.Elements() {
			item := items.Get(key)
			A := item.NonTerminal
			alpha := item.Left
			beta := item.Right

			if len(beta) > 0 && beta[0] != grammar.Epsilon[0] {
				a := beta[0]
				if aug.IsTerminal(a) {
					if to, ok := dfa.Next(s, a); ok {
						proposeAction(&aug, t, s, a, proposal{
							action: Action{Type: Shift, State: to},
						})
					}
				}
				continue
			}

			// dot at end: reduce or accept
			if A == aug.StartSymbol() {
				if len(alpha) == 1 && alpha[0] == g.StartSymbol() {
					proposeAction(&aug, t, s, "$", proposal{action: Action{Type: Accept}})
				}
				continue
			}

			prod := grammar.Production(alpha)
			for _, a := range aug.FOLLOW(A).Elements() {
				if a == "" {
					continue
				}
				proposeAction(&aug, t, s, a, proposal{
					action: Action{Type: Reduce, NonTerm: A, Production: prod, ID: item.ID, Tag: item.Tag},
				})
			}
		}

		for _, nt := range aug.NonTerminals() {
			if to, ok := dfa.Next(s, nt); ok {
				setGoto(t, s, nt, to)
			}
		}
	}

	return t, nil
}

func buildLR1(g grammar.Grammar) (*Table, error) {
	aug := g.Augmented()
	dfa := automaton.NewLR1ViablePrefixDFA(g)

	t := newTable(LR1, dfa.Start, dfa.States())
	t.Productions = aug.AllProductions()

	buildFromLR1DFA(&aug, &g, dfa, t)
	return t, nil
}

func buildLALR1(g grammar.Grammar) (*Table, error) {
	aug := g.Augmented()
	dfa, mergeCount := automaton.NewLALR1ViablePrefixDFA(g)

	t := newTable(LALR1, dfa.Start, dfa.States())
	t.Productions = aug.AllProductions()
	t.MergeCount = mergeCount

	buildFromLR1DFA(&aug, &g, dfa, t)
	return t, nil
}

func buildFromLR1DFA(aug *grammar.Grammar, g *grammar.Grammar, dfa *automaton.DFA[util.SVSet[grammar.LR1Item]], t *Table) {
	for _, s := range dfa.States() {
		items := dfa.GetValue(s)
		for _, key := range items.Elements() {
			item := items.Get(key)
			A := item.NonTerminal
			alpha := item.Left
			beta := item.Right
			a := item.Lookahead

			if len(beta) > 0 && beta[0] != grammar.Epsilon[0] {
				sym := beta[0]
				if aug.IsTerminal(sym) {
					if to, ok := dfa.Next(s, sym); ok {
						proposeAction(aug, t, s, sym, proposal{
							action: Action{Type: Shift, State: to},
						})
					}
				}
				continue
			}

			if A == aug.StartSymbol() {
				if len(alpha) == 1 && alpha[0] == g.StartSymbol() && a == "$" {
					proposeAction(aug, t, s, "$", proposal{action: Action{Type: Accept}})
				}
				continue
			}

			prod := grammar.Production(alpha)
			proposeAction(aug, t, s, a, proposal{
				action: Action{Type: Reduce, NonTerm: A, Production: prod, ID: item.ID, Tag: item.Tag},
			})
		}

		for _, nt := range aug.NonTerminals() {
			if to, ok := dfa.Next(s, nt); ok {
				setGoto(t, s, nt, to)
			}
		}
	}
}

func newTable(flavour Flavour, start string, states []string) *Table {
	t := &Table{
		Flavour: flavour,
		Start:   start,
		States:  states,
		Action:  map[string]map[string]Action{},
		Goto:    map[string]map[string]string{},
	}
	for _, s := range states {
		t.Action[s] = map[string]Action{}
		t.Goto[s] = map[string]string{}
	}
	return t
}

func setGoto(t *Table, state, nt, to string) {
	if t.Goto[state] == nil {
		t.Goto[state] = map[string]string{}
	}
	t.Goto[state][nt] = to
}

// proposeAction installs prop as ACTION[state,terminal], resolving against
// any action already proposed for that cell per spec.md's precedence and
// associativity rule, and logging every conflict encountered (resolved or
// not) into t.Conflicts.
func proposeAction(g *grammar.Grammar, t *Table, state, terminal string, prop proposal) {
	existing, has := t.Action[state][terminal]
	if !has {
		t.Action[state][terminal] = prop.action
		return
	}
	if existing.Equal(prop.action) {
		return
	}

	resolved, chosen := resolve(g, terminal, existing, prop)
	t.Action[state][terminal] = chosen

	kind := ReduceReduce
	if existing.Type == Shift || prop.action.Type == Shift {
		kind = ShiftReduce
	}

	rejected := existing
	if chosen.Equal(prop.action) {
		rejected = existing
	} else {
		rejected = prop.action
	}

	conflict := Conflict{
		Kind:     kind,
		State:    state,
		Terminal: terminal,
		Chosen:   chosen,
		Rejected: rejected,
		Resolved: resolved,
	}

	if kind == ShiftReduce {
		t.Conflicts.SR = append(t.Conflicts.SR, conflict)
	} else {
		t.Conflicts.RR = append(t.Conflicts.RR, conflict)
	}
}

// resolve decides between an already-installed action and a newly proposed
// one for the same (state, terminal) cell, per spec.md §4.4. It returns
// whether the conflict was resolved by precedence (false means "defaulted",
// which is still a decision but one the caller should treat as informational
// rather than intentional).
func resolve(g *grammar.Grammar, terminal string, existing Action, prop proposal) (bool, Action) {
	// Reduce/Reduce: always default to the lower production id (earlier in
	// source order), never consulting precedence.
	if existing.Type == Reduce && prop.action.Type == Reduce {
		if prop.action.ID < existing.ID {
			return false, prop.action
		}
		return false, existing
	}

	// Shift/Reduce (in either order): identify which side is which.
	shiftAction, reduceAction := existing, prop.action
	if existing.Type == Reduce {
		shiftAction, reduceAction = prop.action, existing
	}

	shiftEntry, shiftOK := g.Precedence(terminal)
	reduceEntry, reduceOK := g.PrecedenceOf(reduceAction.Production, reduceAction.Tag)

	if !shiftOK || !reduceOK {
		return false, shiftAction
	}

	switch {
	case shiftEntry.Level > reduceEntry.Level:
		return true, shiftAction
	case shiftEntry.Level < reduceEntry.Level:
		return true, reduceAction
	default:
		switch shiftEntry.Assoc {
		case grammar.LeftAssoc:
			return true, reduceAction
		case grammar.RightAssoc:
			return true, shiftAction
		default: // NonAssoc
			return true, Action{Type: ErrorAction}
		}
	}
}
