package grammar

import (
	"fmt"
	"strings"

	"github.com/cgosorio/lrforge/util"
)

// LR0Item is a dotted production with no lookahead: NonTerminal -> Left . Right.
// ID names the production this item was seeded from (ProdRef.ID / AllProductions'
// index), stamped at CLOSURE time rather than re-derived later by NonTerminal+Rhs
// value, which cannot distinguish two syntactically identical alternatives under
// one nonterminal. It plays no part in Equal/String/set-dedup, which compare
// dotted-production shape only.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
	ID          int
	Tag         string
}

// Equal reports whether lr0 and o represent the same dotted production.
func (lr0 LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if lr0.NonTerminal != other.NonTerminal {
		return false
	} else if len(lr0.Left) != len(other.Left) {
		return false
	} else if len(lr0.Right) != len(other.Right) {
		return false
	}

	for i := range lr0.Left {
		if lr0.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range lr0.Right {
		if lr0.Right[i] != other.Right[i] {
			return false
		}
	}

	return true
}

// Copy returns a deep copy of lr0.
func (lr0 LR0Item) Copy() LR0Item {
	c := LR0Item{NonTerminal: lr0.NonTerminal, ID: lr0.ID, Tag: lr0.Tag}
	c.Left = make([]string, len(lr0.Left))
	copy(c.Left, lr0.Left)
	c.Right = make([]string, len(lr0.Right))
	copy(c.Right, lr0.Right)
	return c
}

func (item LR0Item) String() string {
	nonTermPhrase := ""
	if item.NonTerminal != "" {
		nonTermPhrase = fmt.Sprintf("%s -> ", item.NonTerminal)
	}

	left := strings.Join(item.Left, " ")
	right := strings.Join(item.Right, " ")

	if len(left) > 0 {
		left = left + " "
	}
	if len(right) > 0 {
		right = " " + right
	}

	return fmt.Sprintf("%s%s.%s", nonTermPhrase, left, right)
}

// LR1Item is an LR0Item carrying a single lookahead terminal.
type LR1Item struct {
	LR0Item
	Lookahead string
}

// Equal reports whether lr1 and o represent the same item with the same
// lookahead.
func (lr1 LR1Item) Equal(o any) bool {
	other, ok := o.(LR1Item)
	if !ok {
		otherPtr, ok := o.(*LR1Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !lr1.LR0Item.Equal(other.LR0Item) {
		return false
	} else if lr1.Lookahead != other.Lookahead {
		return false
	}

	return true
}

// Copy returns a deep copy of lr1.
func (lr1 LR1Item) Copy() LR1Item {
	return LR1Item{LR0Item: lr1.LR0Item.Copy(), Lookahead: lr1.Lookahead}
}

func (item LR1Item) String() string {
	return fmt.Sprintf("%s, %s", item.LR0Item.String(), item.Lookahead)
}

// CoreSet strips the lookahead component from every item in s, returning the
// set of distinct LR0 cores — used to compare two LR(1) states for the
// "same core" test that drives LALR(1) state merging.
func CoreSet(s util.VSet[string, LR1Item]) util.SVSet[LR0Item] {
	cores := util.NewSVSet[LR0Item]()
	for _, elem := range s.Elements() {
		lr1 := s.Get(elem)
		cores.Set(lr1.LR0Item.String(), lr1.LR0Item)
	}
	return cores
}

// EqualCoreSets reports whether s1 and s2 have the same LR0 cores, ignoring
// lookaheads.
func EqualCoreSets(s1, s2 util.VSet[string, LR1Item]) bool {
	return CoreSet(s1).Equal(CoreSet(s2))
}
