package lparse_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
	"github.com/cgosorio/lrforge/lex"
	"github.com/cgosorio/lrforge/lparse"
	"github.com/cgosorio/lrforge/ltable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// fakeTok is a minimal lex.Token for driver tests that don't need a real
// lexer, since the driver only consumes the Token interface.
type fakeTok struct {
	class   lex.TokenClass
	lexeme  string
	line    int
	linePos int
}

func (t fakeTok) Class() lex.TokenClass { return t.class }
func (t fakeTok) Lexeme() string        { return t.lexeme }
func (t fakeTok) Line() int             { return t.line }
func (t fakeTok) LinePos() int          { return t.linePos }
func (t fakeTok) FullLine() string      { return t.lexeme }

// fixedStream replays a fixed slice of tokens, appending lex.TokenEndOfText
// automatically; it is peekable one token ahead like a real lex.Stream.
type fixedStream struct {
	toks []fakeTok
	pos  int
}

func newFixedStream(toks []fakeTok) *fixedStream {
	return &fixedStream{toks: toks}
}

func (s *fixedStream) HasNext() bool {
	return s.pos <= len(s.toks)
}

func (s *fixedStream) Next() lex.Token {
	if s.pos >= len(s.toks) {
		s.pos = len(s.toks) + 1
		return fakeTok{class: lex.TokenEndOfText}
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

func (s *fixedStream) Peek() lex.Token {
	if s.pos >= len(s.toks) {
		return fakeTok{class: lex.TokenEndOfText}
	}
	return s.toks[s.pos]
}

func numTok(n string) fakeTok { return fakeTok{class: testClass("n"), lexeme: n} }
func opTok(op string) fakeTok { return fakeTok{class: testClass(op), lexeme: op} }

func arithGrammar(t *testing.T) grammar.Grammar {
	g := buildGrammar(t, []string{"+", "*", "n"}, []string{
		"E -> E + E | E * E | n",
	})
	g.SetPrecedence("+", grammar.PrecEntry{Level: 1, Assoc: grammar.LeftAssoc})
	g.SetPrecedence("*", grammar.PrecEntry{Level: 2, Assoc: grammar.LeftAssoc})
	return g
}

func arithActions(table *ltable.Table) map[int]lparse.SemanticAction {
	idFor := func(nonTerm string, rhs grammar.Production) int {
		for _, p := range table.Productions {
			if p.NonTerminal != nonTerm || len(p.Rhs) != len(rhs) {
				continue
			}
			match := true
			for i := range p.Rhs {
				if p.Rhs[i] != rhs[i] {
					match = false
					break
				}
			}
			if match {
				return p.ID
			}
		}
		return -1
	}

	actions := map[int]lparse.SemanticAction{}
	actions[idFor("E", grammar.Production{"E", "+", "E"})] = func(args []any) (any, error) {
		return args[0].(int) + args[2].(int), nil
	}
	actions[idFor("E", grammar.Production{"E", "*", "E"})] = func(args []any) (any, error) {
		return args[0].(int) * args[2].(int), nil
	}
	actions[idFor("E", grammar.Production{"n"})] = func(args []any) (any, error) {
		return strconv.Atoi(args[0].(string))
	}
	return actions
}

func Test_Driver_PrecedenceGovernsAssociation(t *testing.T) {
	g := arithGrammar(t)
	table, err := ltable.Build(g, ltable.LALR1)
	require.NoError(t, err)

	driver := lparse.NewDriver(table, &g, arithActions(table))

	stream := newFixedStream([]fakeTok{numTok("2"), opTok("+"), numTok("3"), opTok("*"), numTok("4")})
	value, _, err := driver.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, 14, value) // 2 + (3 * 4), not (2+3)*4
}

func Test_Driver_LeftAssociativity(t *testing.T) {
	g := arithGrammar(t)
	table, err := ltable.Build(g, ltable.LALR1)
	require.NoError(t, err)

	driver := lparse.NewDriver(table, &g, arithActions(table))

	stream := newFixedStream([]fakeTok{numTok("2"), opTok("+"), numTok("3"), opTok("+"), numTok("4")})
	value, _, err := driver.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, 9, value) // (2+3)+4, also 9 either way, but tree shape is what left-assoc guarantees
}

func Test_Driver_NonAssocYieldsParseError(t *testing.T) {
	g := buildGrammar(t, []string{"==", "n"}, []string{"E -> E == E | n"})
	g.SetPrecedence("==", grammar.PrecEntry{Level: 1, Assoc: grammar.NonAssoc})

	table, err := ltable.Build(g, ltable.LALR1)
	require.NoError(t, err)

	actions := map[int]lparse.SemanticAction{}
	driver := lparse.NewDriver(table, &g, actions)

	stream := newFixedStream([]fakeTok{numTok("1"), opTok("=="), numTok("2"), opTok("=="), numTok("3")})
	_, _, err = driver.Parse(stream)
	require.Error(t, err)

	var synErr *ierrors.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func Test_Driver_AcceptsEmptyStart(t *testing.T) {
	g := buildGrammar(t, []string{"x"}, []string{"S -> ε"})
	table, err := ltable.Build(g, ltable.SLR1)
	require.NoError(t, err)

	actions := map[int]lparse.SemanticAction{}
	driver := lparse.NewDriver(table, &g, actions)

	stream := newFixedStream(nil)
	value, tree, err := driver.Parse(stream)
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.Equal(t, "S", tree.Value)
	assert.Empty(t, tree.Children)
}

func Test_Driver_UnexpectedTokenReportsExpectedSet(t *testing.T) {
	g := arithGrammar(t)
	table, err := ltable.Build(g, ltable.LALR1)
	require.NoError(t, err)

	driver := lparse.NewDriver(table, &g, arithActions(table))

	stream := newFixedStream([]fakeTok{opTok("+")})
	_, _, err = driver.Parse(stream)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected")
	// the start state only shifts n, so that is the whole expected set
	assert.Contains(t, err.Error(), "expected a n")
}
