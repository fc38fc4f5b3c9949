// Package grammar holds the context-free grammar representation consumed by
// the rest of lrforge: productions, terminal/nonterminal classification,
// the precedence table, and the nullable/FIRST/FOLLOW fixed-point closures
// that the automaton and table builders run on.
package grammar

import (
	"fmt"
	"strings"

	"github.com/cgosorio/lrforge/ierrors"
	"github.com/cgosorio/lrforge/util"
)

// Production is the right-hand side of a rule, in order. An empty Production
// denotes an ε-production; Epsilon is the canonical value used for one.
type Production []string

// Epsilon is the canonical epsilon production: a single empty-string symbol,
// matching the teacher's grammar.LR0Item convention of storing epsilon as the
// literal "" rather than as a zero-length slice (so Production{""} round-trips
// through the same string-join machinery as any other production).
var Epsilon = Production{""}

// String renders the production the way grammar text would, "a b c" or "ε".
func (p Production) String() string {
	if len(p) == 0 || (len(p) == 1 && p[0] == "") {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Copy returns a copy of p that shares no backing array with it.
func (p Production) Copy() Production {
	c := make(Production, len(p))
	copy(c, p)
	return c
}

// Rule groups every alternative production for one nonterminal, in the order
// they were added. Tags holds, in lockstep with Productions, the explicit
// precedence tag (if any) each alternative was added with.
type Rule struct {
	NonTerminal string
	Productions []Production
	Tags        []string
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Assoc is the associativity of a precedence level.
type Assoc int

const (
	NonAssoc Assoc = iota
	LeftAssoc
	RightAssoc
)

func (a Assoc) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	default:
		return "nonassoc"
	}
}

// PrecEntry is one entry of a grammar's precedence table: a binding level
// (higher binds tighter) and an associativity used to break shift/reduce ties
// at that level. Reduce/reduce conflicts never consult it.
type PrecEntry struct {
	Level int
	Assoc Assoc
}

// ProdRef is a production together with the nonterminal it belongs to and its
// stable insertion-order id, used as the id spec.md's Production triple
// names. Tag is the explicit precedence tag the production was added with, if
// any; empty when the production's precedence (if it has one) must instead be
// inherited from its rightmost terminal, per PrecedenceOf.
type ProdRef struct {
	ID          int
	NonTerminal string
	Rhs         Production
	Tag         string
}

func (p ProdRef) String() string {
	return fmt.Sprintf("%s -> %s", p.NonTerminal, p.Rhs.String())
}

// TokenClass is the minimal surface a lexer's terminal classes must provide
// to be registered with a Grammar; satisfied by lex.TokenClass without this
// package importing lex.
type TokenClass interface {
	ID() string
	Human() string
}

// Grammar is a context-free grammar: a set of rules over a set of terminal
// and nonterminal symbols, plus a precedence table and the nullable/FIRST/
// FOLLOW sets derived from the productions. The zero value is an empty,
// usable Grammar; build one with AddTerm and AddRule, then call Validate.
type Grammar struct {
	rulesByName  map[string]Rule
	ruleOrder    []string
	terminals    map[string]TokenClass
	terminalOrd  []string
	start        string
	prec         map[string]PrecEntry
	precOrder    []string

	nullableSet util.StringSet
	firstSets   map[string]util.StringSet
	followSets  map[string]util.StringSet
}

// AddTerm registers name as a terminal symbol backed by class. The first
// terminal or rule added to a Grammar fixes the order for deterministic
// Terminals()/NonTerminals() output.
func (g *Grammar) AddTerm(name string, class TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]TokenClass{}
	}
	if _, ok := g.terminals[name]; !ok {
		g.terminalOrd = append(g.terminalOrd, name)
	}
	g.terminals[name] = class
	g.invalidateDerived()
}

// Term returns the TokenClass registered for name, or nil if name is not a
// registered terminal.
func (g *Grammar) Term(name string) TokenClass {
	return g.terminals[name]
}

// SetPrecedence registers a precedence table entry for a terminal name or
// explicit precedence tag.
func (g *Grammar) SetPrecedence(tag string, entry PrecEntry) {
	if g.prec == nil {
		g.prec = map[string]PrecEntry{}
	}
	if _, ok := g.prec[tag]; !ok {
		g.precOrder = append(g.precOrder, tag)
	}
	g.prec[tag] = entry
}

// Precedence looks up the precedence table entry for tag, reporting whether
// one is registered.
func (g *Grammar) Precedence(tag string) (PrecEntry, bool) {
	e, ok := g.prec[tag]
	return e, ok
}

// PrecedenceTags returns every tag with an explicit precedence table entry,
// in declaration order. Used to render the precedence table into a
// grammar's canonical fingerprint.
func (g *Grammar) PrecedenceTags() []string {
	out := make([]string, len(g.precOrder))
	copy(out, g.precOrder)
	return out
}

// AddRule adds production as an alternative of nonTerminal, creating the
// nonTerminal's Rule if this is its first production. The first nonTerminal
// ever added becomes the grammar's start symbol. An optional tag names this
// alternative's precedence explicitly (per spec.md §3, "named explicitly or
// inherited from the rightmost terminal"); PrecedenceOf prefers it over
// rightmost-terminal inference. Only the first tag argument is used.
func (g *Grammar) AddRule(nonTerminal string, production Production, tag ...string) {
	if g.rulesByName == nil {
		g.rulesByName = map[string]Rule{}
	}
	if g.start == "" {
		g.start = nonTerminal
	}
	r, ok := g.rulesByName[nonTerminal]
	if !ok {
		r = Rule{NonTerminal: nonTerminal}
		g.ruleOrder = append(g.ruleOrder, nonTerminal)
	}
	t := ""
	if len(tag) > 0 {
		t = tag[0]
	}
	r.Productions = append(r.Productions, production.Copy())
	r.Tags = append(r.Tags, t)
	g.rulesByName[nonTerminal] = r
	g.invalidateDerived()
}

// Rule returns the Rule for nonTerminal, or the zero Rule if it has none.
func (g *Grammar) Rule(nonTerminal string) Rule {
	return g.rulesByName[nonTerminal]
}

// StartSymbol returns the grammar's start nonterminal: the first one passed
// to AddRule.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// SetStartSymbol overrides the inferred start symbol, used by Augmented to
// install the fresh augmenting nonterminal.
func (g *Grammar) SetStartSymbol(s string) {
	g.start = s
}

// Terminals returns the registered terminal names in registration order.
func (g *Grammar) Terminals() []string {
	out := make([]string, len(g.terminalOrd))
	copy(out, g.terminalOrd)
	return out
}

// NonTerminals returns the nonterminal names in registration order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.ruleOrder))
	copy(out, g.ruleOrder)
	return out
}

// IsTerminal reports whether sym was registered with AddTerm. "$" and ""
// (epsilon) are never terminals in this sense even though they appear in
// FIRST/FOLLOW sets.
func (g *Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// IsNonTerminal reports whether sym has at least one rule.
func (g *Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// AllProductions returns every production of every rule, in rule-declaration
// order then alternative order, numbered by stable insertion index.
func (g *Grammar) AllProductions() []ProdRef {
	var refs []ProdRef
	id := 0
	for _, nt := range g.ruleOrder {
		rule := g.rulesByName[nt]
		for i, p := range rule.Productions {
			refs = append(refs, ProdRef{ID: id, NonTerminal: nt, Rhs: p, Tag: rule.Tags[i]})
			id++
		}
	}
	return refs
}

// ProductionID returns the stable id AllProductions would assign the
// index-th production of nonTerminal's Rule, used to stamp a dotted item
// with the production it was seeded from at CLOSURE time. Returns -1 if
// nonTerminal has no rule.
func (g *Grammar) ProductionID(nonTerminal string, index int) int {
	id := 0
	for _, nt := range g.ruleOrder {
		if nt == nonTerminal {
			return id + index
		}
		id += len(g.rulesByName[nt].Productions)
	}
	return -1
}

// Augmented returns a copy of g with a fresh start nonterminal S' (disambiguated
// with additional primes if the name collides) whose sole production is
// S' -> S, where S is g's existing start symbol. This is the standard
// augmentation used to recognize acceptance by dot-at-end-of-S'-production.
func (g *Grammar) Augmented() Grammar {
	aug := g.copy()

	newStart := aug.start + "'"
	for aug.IsNonTerminal(newStart) || aug.IsTerminal(newStart) {
		newStart += "'"
	}

	oldStart := aug.start
	aug.ruleOrder = append([]string{newStart}, aug.ruleOrder...)
	aug.rulesByName[newStart] = Rule{
		NonTerminal: newStart,
		Productions: []Production{{oldStart}},
		Tags:        []string{""},
	}
	aug.start = newStart
	aug.invalidateDerived()
	return aug
}

func (g *Grammar) copy() Grammar {
	c := Grammar{
		start: g.start,
	}
	c.rulesByName = make(map[string]Rule, len(g.rulesByName))
	for k, v := range g.rulesByName {
		prods := make([]Production, len(v.Productions))
		for i, p := range v.Productions {
			prods[i] = p.Copy()
		}
		tags := make([]string, len(v.Tags))
		copy(tags, v.Tags)
		c.rulesByName[k] = Rule{NonTerminal: v.NonTerminal, Productions: prods, Tags: tags}
	}
	c.ruleOrder = append([]string(nil), g.ruleOrder...)
	c.terminals = make(map[string]TokenClass, len(g.terminals))
	for k, v := range g.terminals {
		c.terminals[k] = v
	}
	c.terminalOrd = append([]string(nil), g.terminalOrd...)
	c.prec = make(map[string]PrecEntry, len(g.prec))
	for k, v := range g.prec {
		c.prec[k] = v
	}
	c.precOrder = append([]string(nil), g.precOrder...)
	return c
}

func (g *Grammar) invalidateDerived() {
	g.nullableSet = nil
	g.firstSets = nil
	g.followSets = nil
}

// Validate checks that g is a minimally well-formed grammar: it has at least
// one terminal, at least one rule, a start symbol, and every symbol
// referenced on the right-hand side of a production is either a registered
// terminal or a nonterminal with at least one rule.
func (g *Grammar) Validate() error {
	if len(g.terminalOrd) == 0 {
		return ierrors.New(ierrors.ErrGrammarSemantic, "grammar has no terminals")
	}
	if len(g.ruleOrder) == 0 {
		return ierrors.New(ierrors.ErrGrammarSemantic, "grammar has no rules")
	}
	if g.start == "" {
		return ierrors.New(ierrors.ErrGrammarSemantic, "grammar has no start symbol")
	}

	for _, nt := range g.ruleOrder {
		for _, p := range g.rulesByName[nt].Productions {
			for _, sym := range p {
				if sym == "" {
					continue // epsilon
				}
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return ierrors.Newf(ierrors.ErrGrammarSemantic,
						"production %s -> %s references undefined symbol %q",
						nt, p.String(), sym)
				}
			}
		}
	}

	return nil
}

// Nullable returns the set of nonterminals that can derive the empty string,
// computed to fixed point: initialized from every A -> ε production, then
// repeatedly extended with any A -> X1...Xn whose every Xi is nullable,
// until no change occurs. Terminals are never nullable.
func (g *Grammar) Nullable() util.StringSet {
	if g.nullableSet != nil {
		return g.nullableSet
	}

	nullable := util.NewStringSet()
	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			if nullable.Has(nt) {
				continue
			}
			for _, p := range g.rulesByName[nt].Productions {
				if g.productionIsNullable(p, nullable) {
					nullable.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	g.nullableSet = nullable
	return nullable
}

func (g *Grammar) productionIsNullable(p Production, nullable util.StringSet) bool {
	if len(p) == 0 {
		return true
	}
	for _, sym := range p {
		if sym == "" {
			continue
		}
		if !nullable.Has(sym) {
			return false
		}
	}
	return true
}

// FIRST returns FIRST(sym): the set of terminals (plus ε, represented as "")
// that can begin some string derived from sym. sym may be a terminal or the
// end-of-input marker "$" (whose FIRST is itself), a nonterminal, or ""
// (epsilon, whose FIRST is {ε}).
func (g *Grammar) FIRST(sym string) util.StringSet {
	g.computeFirstIfNeeded()
	if sym == "" {
		return util.NewStringSet(map[string]bool{"": true})
	}
	if sym == "$" || g.IsTerminal(sym) {
		return util.NewStringSet(map[string]bool{sym: true})
	}
	if s, ok := g.firstSets[sym]; ok {
		return s
	}
	return util.NewStringSet()
}

// FirstOfString returns FIRST(X1...Xn): the union of FIRST(X1), and, while
// each Xi seen so far is nullable, FIRST(Xi+1), plus ε if every Xi is
// nullable (including the empty string itself, whose FIRST is {ε}).
func (g *Grammar) FirstOfString(syms []string) util.StringSet {
	g.computeFirstIfNeeded()
	nullable := g.Nullable()
	out := util.NewStringSet()

	allNullable := true
	for _, sym := range syms {
		if sym == "" {
			continue
		}
		symFirst := g.FIRST(sym)
		for _, t := range symFirst.Elements() {
			if t != "" {
				out.Add(t)
			}
		}
		isNullableSym := g.IsNonTerminal(sym) && nullable.Has(sym)
		if !isNullableSym {
			allNullable = false
			break
		}
	}
	if allNullable {
		out.Add("")
	}
	return out
}

func (g *Grammar) computeFirstIfNeeded() {
	if g.firstSets != nil {
		return
	}

	first := map[string]util.StringSet{}
	for _, nt := range g.ruleOrder {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			for _, p := range g.rulesByName[nt].Productions {
				before := first[nt].Len()

				if len(p) == 0 {
					first[nt].Add("")
				} else {
					allNullableSoFar := true
					for _, sym := range p {
						if sym == "" {
							continue
						}

						var symFirst util.StringSet
						if g.IsTerminal(sym) {
							symFirst = util.NewStringSet(map[string]bool{sym: true})
						} else {
							symFirst = first[sym]
						}

						for _, t := range symFirst.Elements() {
							if t != "" {
								first[nt].Add(t)
							}
						}

						if !symFirst.Has("") {
							allNullableSoFar = false
							break
						}
					}
					if allNullableSoFar {
						first[nt].Add("")
					}
				}

				if first[nt].Len() != before {
					changed = true
				}
			}
		}
	}

	g.firstSets = first
}

// FOLLOW returns FOLLOW(nonTerminal): the set of terminals (plus the
// end-of-input marker "$") that can immediately follow nonTerminal in some
// sentential form, computed to fixed point over every production A -> alpha
// B beta:
//
//   - add (FIRST(beta) \ {ε}) to FOLLOW(B);
//   - if the entire suffix beta is nullable (including the case beta = ε),
//     add FOLLOW(A) to FOLLOW(B).
//
// The second clause is evaluated once per occurrence of B, after scanning
// every symbol of beta — never short-circuited after the first nullable
// contribution — so that interior nullable suffixes still propagate
// FOLLOW(A). Skipping symbols partway through beta because an early symbol
// was nullable, without checking the rest, is the canonical way to lose this
// propagation; see the worked example in grammar_test.go.
func (g *Grammar) FOLLOW(nonTerminal string) util.StringSet {
	g.computeFollowIfNeeded()
	if s, ok := g.followSets[nonTerminal]; ok {
		return s
	}
	return util.NewStringSet()
}

func (g *Grammar) computeFollowIfNeeded() {
	if g.followSets != nil {
		return
	}
	g.computeFirstIfNeeded()

	follow := map[string]util.StringSet{}
	for _, nt := range g.ruleOrder {
		follow[nt] = util.NewStringSet()
	}
	if g.start != "" {
		follow[g.start].Add("$")
	}

	changed := true
	for changed {
		changed = false
		for _, A := range g.ruleOrder {
			for _, p := range g.rulesByName[A].Productions {
				for i, sym := range p {
					if sym == "" || !g.IsNonTerminal(sym) {
						continue
					}
					B := sym
					beta := p[i+1:]

					before := follow[B].Len()

					firstBeta := g.FirstOfString(beta)
					for _, t := range firstBeta.Elements() {
						if t != "" {
							follow[B].Add(t)
						}
					}

					if g.stringEntirelyNullable(beta) {
						for _, t := range follow[A].Elements() {
							follow[B].Add(t)
						}
					}

					if follow[B].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	g.followSets = follow
}

// stringEntirelyNullable reports whether every symbol of syms is nullable
// (epsilon symbols are skipped), which is vacuously true for an empty syms.
// Unlike a loop that bails out after the first nullable symbol it finds, this
// scans the full suffix, which is exactly the fix the documented FOLLOW bug
// requires.
func (g *Grammar) stringEntirelyNullable(syms []string) bool {
	nullable := g.Nullable()
	for _, sym := range syms {
		if sym == "" {
			continue
		}
		if !g.IsNonTerminal(sym) || !nullable.Has(sym) {
			return false
		}
	}
	return true
}

// PrecedenceOf returns the precedence entry that should resolve a conflict
// involving production p, per spec.md §3: tag, if non-empty and registered in
// the precedence table, wins outright; otherwise the entry is inherited from
// the rightmost terminal symbol of p. ok is false if neither yields a table
// entry.
func (g *Grammar) PrecedenceOf(p Production, tag string) (PrecEntry, bool) {
	if tag != "" {
		if e, ok := g.prec[tag]; ok {
			return e, true
		}
	}
	for i := len(p) - 1; i >= 0; i-- {
		sym := p[i]
		if sym == "" {
			continue
		}
		if g.IsTerminal(sym) {
			if e, ok := g.prec[sym]; ok {
				return e, true
			}
			return PrecEntry{}, false
		}
	}
	return PrecEntry{}, false
}

// String renders the grammar's rules, one per line, in declaration order.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, nt := range g.ruleOrder {
		sb.WriteString(g.rulesByName[nt].String())
		sb.WriteString("\n")
	}
	return sb.String()
}
