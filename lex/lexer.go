package lex

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cgosorio/lrforge/ierrors"
)

type statePattern struct {
	source string
	action Action
	class  TokenClass
}

// Lexer is a stateful regex lexer: each state owns an ordered list of
// (pattern, action) rules, compiled into one "super regex" per state, an
// alternation with one capturing group per rule. Go's regexp tries the
// alternatives in declaration order, so the first declared rule that matches
// at the cursor wins, with that rule's own match length; a later rule is not
// chosen just because it would match a longer prefix.
type Lexer struct {
	startState string
	patterns   map[string][]statePattern
}

// NewLexer returns an empty Lexer whose starting state is startState.
func NewLexer(startState string) *Lexer {
	return &Lexer{
		startState: startState,
		patterns:   map[string][]statePattern{},
	}
}

// AddPattern registers pattern as a rule of state, triggering act when
// matched. When act is ActionScan or ActionScanAndState, class is the token
// class given to the emitted tokens; otherwise it may be nil.
func (lx *Lexer) AddPattern(state, pattern string, act Action, class TokenClass) {
	lx.patterns[state] = append(lx.patterns[state], statePattern{
		source: pattern,
		action: act,
		class:  class,
	})
}

// Lex compiles lx's rules and returns a Stream over input.
func (lx *Lexer) Lex(input string) (Stream, error) {
	compiled := map[string]*regexp.Regexp{}
	for state, pats := range lx.patterns {
		var sb strings.Builder
		sb.WriteString("^(?:")
		for i, p := range pats {
			sb.WriteString("(" + p.source + ")")
			if i+1 < len(pats) {
				sb.WriteRune('|')
			}
		}
		sb.WriteRune(')')

		re, err := regexp.Compile(sb.String())
		if err != nil {
			return nil, ierrors.Newf(ierrors.ErrGrammarSyntax, "state %q: compiling combined pattern: %v", state, err)
		}
		compiled[state] = re
	}

	return &stream{
		lx:       lx,
		compiled: compiled,
		input:    input,
		state:    lx.startState,
		line:     1,
		linePos:  1,
	}, nil
}

type stream struct {
	lx       *Lexer
	compiled map[string]*regexp.Regexp
	input    string
	offset   int

	state    string
	line     int
	linePos  int
	fullLine string

	done bool

	peeked     *Token
	peekedNext stateSnapshot
}

type stateSnapshot struct {
	state    string
	offset   int
	line     int
	linePos  int
	fullLine string
	done     bool
}

func (s *stream) snapshot() stateSnapshot {
	return stateSnapshot{s.state, s.offset, s.line, s.linePos, s.fullLine, s.done}
}

func (s *stream) restore(snap stateSnapshot) {
	s.state, s.offset, s.line, s.linePos, s.fullLine, s.done =
		snap.state, snap.offset, snap.line, snap.linePos, snap.fullLine, snap.done
}

func (s *stream) HasNext() bool {
	return !s.done || s.peeked != nil
}

// Peek returns the next token without consuming it. It works by running
// advance() for real, snapshotting the resulting cursor state, then
// rewinding the cursor so the following Next() redoes the same work and
// lands on the saved post-token state, matching the teacher's full
// save/restore peek technique without needing a separate lookahead buffer.
func (s *stream) Peek() Token {
	if s.peeked != nil {
		return *s.peeked
	}
	before := s.snapshot()
	tok := s.advance()
	after := s.snapshot()
	s.restore(before)
	s.peeked = &tok
	s.peekedNext = after
	return tok
}

func (s *stream) Next() Token {
	if s.peeked != nil {
		tok := *s.peeked
		s.peeked = nil
		s.restore(s.peekedNext)
		return tok
	}
	return s.advance()
}

func (s *stream) advance() Token {
	if s.done {
		return s.makeToken(TokenEndOfText, "")
	}

	for {
		if s.offset >= len(s.input) {
			s.done = true
			return s.makeToken(TokenEndOfText, "")
		}

		pats := s.lx.patterns[s.state]
		re := s.compiled[s.state]
		if re == nil || len(pats) == 0 {
			s.done = true
			return s.makeToken(TokenError, fmt.Sprintf("no patterns registered for state %q", s.state))
		}

		loc := re.FindStringSubmatchIndex(s.input[s.offset:])
		if loc == nil {
			s.done = true
			return s.makeToken(TokenError, "unknown input")
		}

		idx, lexeme := selectMatch(s.input[s.offset:], loc)
		s.advancePosition(lexeme)

		act := pats[idx].action
		class := pats[idx].class

		switch act.Type {
		case ActionNone:
			continue
		case ActionScan:
			return s.makeToken(class, lexeme)
		case ActionState:
			s.state = act.State
		case ActionScanAndState:
			tok := s.makeToken(class, lexeme)
			s.state = act.State
			return tok
		}
	}
}

func (s *stream) advancePosition(lexeme string) {
	s.offset += len(lexeme)
	for _, ch := range lexeme {
		if ch == '\n' {
			s.line++
			s.linePos = 0
			s.fullLine = ""
		}
		s.linePos++
		s.fullLine += string(ch)
	}
}

func (s *stream) makeToken(class TokenClass, lexeme string) Token {
	return token{
		class:    class,
		lexeme:   lexeme,
		line:     s.line,
		linePos:  s.linePos,
		fullLine: s.fullLine,
	}
}

// selectMatch picks which capturing group of a combined-state-regex match
// to use: submatches are 1-indexed per source pattern (index 0 is the whole
// match). Go's leftmost-first alternation normally leaves only the first
// matching rule's group set; if several groups are set, the longest is
// taken, ties broken by the lowest pattern index (declaration order).
func selectMatch(text string, loc []int) (int, string) {
	numGroups := len(loc) / 2 // includes group 0, the whole match
	candidates := map[int]string{}
	for i := 1; i < numGroups; i++ {
		start, end := loc[i*2], loc[i*2+1]
		if start < 0 || end < 0 {
			continue
		}
		candidates[i-1] = text[start:end]
	}

	if len(candidates) > 1 {
		longest := 0
		for _, m := range candidates {
			if n := utf8.RuneCountInString(m); n > longest {
				longest = n
			}
		}
		for i, m := range candidates {
			if utf8.RuneCountInString(m) != longest {
				delete(candidates, i)
			}
		}
	}

	lowest := math.MaxInt
	for i := range candidates {
		if i < lowest {
			lowest = i
		}
	}
	return lowest, candidates[lowest]
}
