// Package lparse runs the shift-reduce parsing algorithm (Algorithm 4.44,
// the purple dragon book) over a table built by ltable, dispatching
// per-production semantic actions and assembling a ParseTree alongside.
package lparse

import (
	"fmt"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/cgosorio/lrforge/lex"
	"github.com/cgosorio/lrforge/ltable"
	"github.com/cgosorio/lrforge/util"
)

// SemanticAction computes a production's synthesized value from its popped
// argument values, in left-to-right order matching the production's
// right-hand side. An ε-production's action is invoked with an empty slice.
type SemanticAction func(args []any) (any, error)

// Driver drives a built table over a token stream. It holds no mutable
// reference to the table or grammar beyond read access, so one Driver (and
// the table it wraps) may back any number of concurrent Parse calls as long
// as each call's own stack stays local, which it does here.
type Driver struct {
	table   *ltable.Table
	gram    *grammar.Grammar
	actions map[int]SemanticAction
	trace   func(string)
}

// NewDriver returns a Driver for table over gram. actions maps a
// production's stable id (grammar.ProdRef.ID, also ltable.Table.Productions'
// index key) to the action invoked on its reduction; a production with no
// entry synthesizes its single child's value when it has exactly one
// right-hand-side symbol, and nil otherwise.
func NewDriver(table *ltable.Table, gram *grammar.Grammar, actions map[int]SemanticAction) *Driver {
	return &Driver{table: table, gram: gram, actions: actions}
}

// RegisterTraceListener installs fn to be called with a human-readable line
// for every step of the parse: the state peeked, the action taken, and the
// token consumed.
func (d *Driver) RegisterTraceListener(fn func(string)) {
	d.trace = fn
}

func (d *Driver) notify(format string, args ...interface{}) {
	if d.trace != nil {
		d.trace(fmt.Sprintf(format, args...))
	}
}

// frame is one (state, semantic value, parse-tree node) triple. States,
// values, and tree nodes are always pushed and popped together, so unlike
// the teacher driver's three parallel stacks (state stack, token buffer,
// subtree-root stack), a single stack of frames suffices here.
type frame struct {
	state string
	value any
	tree  *ParseTree
}

// Parse runs stream to completion and returns the accepted semantic value
// and its parse tree, or a *ierrors.SyntaxError wrapping ierrors.ErrParse if
// an Error (or unresolved NonAssoc) cell is consulted.
func (d *Driver) Parse(stream lex.Stream) (any, *ParseTree, error) {
	stack := util.Stack[frame]{Of: []frame{{state: d.table.Start}}}

	a := stream.Next()
	d.notify("next token: %s %q", a.Class().ID(), a.Lexeme())

	for {
		s := stack.Peek().state
		act := d.table.Action[s][a.Class().ID()]
		d.notify("state %s, action %s", s, act.String())

		switch act.Type {
		case ltable.Shift:
			stack.Push(frame{
				state: act.State,
				value: a.Lexeme(),
				tree:  &ParseTree{Terminal: true, Value: a.Class().ID(), Source: a},
			})
			a = stream.Next()
			d.notify("next token: %s %q", a.Class().ID(), a.Lexeme())

		case ltable.Reduce:
			n := len(act.Production)
			args := make([]any, n)
			children := make([]*ParseTree, n)
			for i := n - 1; i >= 0; i-- {
				f := stack.Pop()
				args[i] = f.value
				children[i] = f.tree
			}

			value, err := d.reduceValue(act, args)
			if err != nil {
				return nil, nil, err
			}

			t := stack.Peek().state
			to, ok := d.table.Goto[t][act.NonTerm]
			if !ok {
				return nil, nil, ierrors.NewSyntaxErrorFromToken(
					fmt.Sprintf("no GOTO transition from state %s on %s", t, act.NonTerm), a)
			}
			stack.Push(frame{
				state: to,
				value: value,
				tree:  &ParseTree{Value: act.NonTerm, Children: children},
			})

		case ltable.Accept:
			top := stack.Pop()
			return top.value, top.tree, nil

		default: // ltable.ErrorAction
			return nil, nil, d.parseError(s, a)
		}
	}
}

func (d *Driver) reduceValue(act ltable.Action, args []any) (any, error) {
	if fn, ok := d.actions[act.ID]; ok {
		return fn(args)
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return nil, nil
}

// parseError builds a *ierrors.SyntaxError reporting the offending token and
// the set of terminals the current state would have accepted.
func (d *Driver) parseError(state string, tok lex.Token) error {
	expected := d.expectedTerminals(state)

	var msg string
	switch len(expected) {
	case 0:
		msg = fmt.Sprintf("unexpected %s", tok.Class().Human())
	case 1:
		msg = fmt.Sprintf("unexpected %s; expected %s %s",
			tok.Class().Human(), util.ArticleFor(expected[0].Human(), false), expected[0].Human())
	default:
		names := make([]string, len(expected))
		for i, tc := range expected {
			names[i] = tc.Human()
		}
		msg = fmt.Sprintf("unexpected %s; expected one of %s", tok.Class().Human(), util.MakeTextList(names))
	}

	return ierrors.NewSyntaxErrorFromToken(msg, tok)
}

// expectedTerminals returns every terminal's TokenClass for which state has
// a non-error ACTION entry.
func (d *Driver) expectedTerminals(state string) []grammar.TokenClass {
	var out []grammar.TokenClass
	row := d.table.Action[state]
	for _, name := range d.gram.Terminals() {
		if act, ok := row[name]; ok && act.Type != ltable.ErrorAction {
			out = append(out, d.gram.Term(name))
		}
	}
	return out
}
