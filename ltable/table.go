// Package ltable builds ACTION/GOTO tables from a grammar's viable-prefix
// automaton, resolving shift/reduce and reduce/reduce conflicts by
// precedence and associativity, and keeping an always-present log of every
// conflict it encountered.
package ltable

import (
	"fmt"
	"sort"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/dekarrin/rosed"
)

// Flavour selects which canonical collection and reduce-lookahead rule the
// table builder uses.
type Flavour int

const (
	SLR1 Flavour = iota
	LR1
	LALR1
)

func (f Flavour) String() string {
	switch f {
	case SLR1:
		return "SLR(1)"
	case LR1:
		return "LR(1)"
	case LALR1:
		return "LALR(1)"
	default:
		return "unknown"
	}
}

// ActionType distinguishes the kind of ACTION table cell.
type ActionType int

const (
	ErrorAction ActionType = iota
	Shift
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table cell.
type Action struct {
	Type       ActionType
	State      string             // target state, for Shift
	NonTerm    string             // production LHS, for Reduce
	Production grammar.Production // production RHS, for Reduce
	ID         int                // grammar.ProdRef.ID of the reducing production, for Reduce
	Tag        string             // explicit precedence tag of the reducing production, for Reduce
}

func (a Action) Equal(o Action) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.State == o.State
	case Reduce:
		if a.ID != o.ID || a.NonTerm != o.NonTerm || len(a.Production) != len(o.Production) {
			return false
		}
		for i := range a.Production {
			if a.Production[i] != o.Production[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return "shift " + a.State
	case Reduce:
		return fmt.Sprintf("reduce %s -> %s", a.NonTerm, a.Production.String())
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// ConflictKind distinguishes a shift/reduce conflict from a reduce/reduce
// one.
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

// Conflict records one instance of two distinct ACTION proposals landing on
// the same (state, terminal) cell.
type Conflict struct {
	Kind     ConflictKind
	State    string
	Terminal string
	Chosen   Action
	Rejected Action
	Resolved bool // false if the conflict could not be resolved by precedence
}

// ConflictLog partitions every conflict encountered into shift/reduce and
// reduce/reduce buckets. Both fields are always present; a bucket with no
// conflicts is a nil slice, whose len is 0, so callers summing
// len(SR)+len(RR) never need to guard against a missing partition.
type ConflictLog struct {
	SR []Conflict
	RR []Conflict
}

// Count returns the total number of conflicts logged, summing both
// partitions unconditionally.
func (l ConflictLog) Count() int {
	return len(l.SR) + len(l.RR)
}

// Table is a built ACTION/GOTO table pair plus the conflicts encountered
// while building it.
type Table struct {
	Flavour     Flavour
	Start       string
	States      []string
	Action      map[string]map[string]Action
	Goto        map[string]map[string]string
	Conflicts   ConflictLog
	MergeCount  int // number of LALR(1) core merges; 0 for SLR(1)/LR(1)
	Productions []grammar.ProdRef
}

// CheckConflictBudget reports a *ierrors.Error wrapping ierrors.ErrConflict
// if the number of unresolved conflicts (those not settled by precedence)
// exceeds expectedConflicts, counting both partitions every time rather than
// assuming only one is populated.
func (t *Table) CheckConflictBudget(expectedConflicts int) error {
	unresolvedSR, unresolvedRR := 0, 0
	for _, c := range t.Conflicts.SR {
		if !c.Resolved {
			unresolvedSR++
		}
	}
	for _, c := range t.Conflicts.RR {
		if !c.Resolved {
			unresolvedRR++
		}
	}
	total := unresolvedSR + unresolvedRR
	if total > expectedConflicts {
		return ierrors.Newf(ierrors.ErrConflict,
			"grammar produced %d unresolved conflict(s) (%d shift/reduce, %d reduce/reduce), expected at most %d",
			total, unresolvedSR, unresolvedRR, expectedConflicts)
	}
	return nil
}

// String renders the ACTION/GOTO table as a grid, terminals then
// nonterminals as columns, states as rows, via rosed's table layout.
func (t *Table) String() string {
	terms := sortedKeys(t.termSet())
	nts := sortedKeys(t.ntSet())

	stateRefs := map[string]string{}
	for i, s := range t.States {
		stateRefs[s] = fmt.Sprintf("%d", i)
	}

	headers := []string{"S", "|"}
	for _, a := range terms {
		headers = append(headers, "A:"+a)
	}
	headers = append(headers, "|")
	for _, nt := range nts {
		headers = append(headers, "G:"+nt)
	}

	data := [][]string{headers}
	for _, s := range t.States {
		row := []string{stateRefs[s], "|"}
		for _, a := range terms {
			cell := ""
			if act, ok := t.Action[s][a]; ok {
				switch act.Type {
				case Accept:
					cell = "acc"
				case Reduce:
					cell = fmt.Sprintf("r%s -> %s", act.NonTerm, act.Production.String())
				case Shift:
					cell = "s" + stateRefs[act.State]
				}
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if to, ok := t.Goto[s][nt]; ok {
				cell = stateRefs[to]
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (t *Table) termSet() map[string]bool {
	out := map[string]bool{}
	for _, s := range t.States {
		for a := range t.Action[s] {
			out[a] = true
		}
	}
	return out
}

func (t *Table) ntSet() map[string]bool {
	out := map[string]bool{}
	for _, s := range t.States {
		for nt := range t.Goto[s] {
			out[nt] = true
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
