package lrforge

import (
	"strings"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ierrors"
)

// ParseGrammarText parses a grammar text per spec.md §6: productions
// separated by ';', each of the form "LHS -> RHS1 | RHS2 | ...", an empty
// alternative denoting an ε-production. A symbol's kind is inferred from
// terminalClasses, the lexer's token-kind set: any name present there is a
// terminal (registered with its TokenClass), every other name is a
// nonterminal. The first LHS defined becomes the start symbol.
func ParseGrammarText(text string, terminalClasses map[string]grammar.TokenClass) (grammar.Grammar, error) {
	g := grammar.Grammar{}
	registered := map[string]bool{}

	register := func(sym string) {
		if class, ok := terminalClasses[sym]; ok && !registered[sym] {
			g.AddTerm(sym, class)
			registered[sym] = true
		}
	}

	productions := strings.Split(text, ";")
	seenAny := false
	for _, prod := range productions {
		prod = strings.TrimSpace(prod)
		if prod == "" {
			continue
		}

		sides := strings.SplitN(prod, "->", 2)
		if len(sides) != 2 {
			return grammar.Grammar{}, ierrors.New(ierrors.ErrGrammarSyntax,
				"production missing '->': "+prod)
		}

		lhs := strings.TrimSpace(sides[0])
		if lhs == "" {
			return grammar.Grammar{}, ierrors.New(ierrors.ErrGrammarSyntax,
				"production has empty left-hand side: "+prod)
		}
		if _, isTerm := terminalClasses[lhs]; isTerm {
			return grammar.Grammar{}, ierrors.New(ierrors.ErrGrammarSemantic,
				"left-hand side names a terminal: "+lhs)
		}

		for _, alt := range strings.Split(sides[1], "|") {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				g.AddRule(lhs, grammar.Epsilon.Copy())
				continue
			}

			symbols := strings.Fields(alt)
			for _, sym := range symbols {
				register(sym)
			}
			g.AddRule(lhs, grammar.Production(symbols))
		}
		seenAny = true
	}

	if !seenAny {
		return grammar.Grammar{}, ierrors.New(ierrors.ErrGrammarSyntax, "grammar text has no productions")
	}

	return g, nil
}
