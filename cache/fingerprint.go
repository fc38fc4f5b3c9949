package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ltable"
)

// Fingerprint computes a grammar's canonical fingerprint: sorted productions
// in the form "lhs | rhs0 rhs1 ... | precedence", where precedence is the
// level and associativity PrecedenceOf resolves for the production (empty if
// none) rather than the tag name itself, followed by the
// precedence table in sorted order, followed by the requested table
// flavour, hashed with sha256. Two calls with the same grammar content and
// flavour always produce the same fingerprint regardless of declaration
// order, since both the production and precedence lines are sorted before
// hashing.
func Fingerprint(g grammar.Grammar, flavour ltable.Flavour) string {
	var lines []string

	for _, p := range g.AllProductions() {
		tag := ""
		if entry, ok := g.PrecedenceOf(p.Rhs, p.Tag); ok {
			tag = strconv.Itoa(entry.Level) + entry.Assoc.String()
		}
		lines = append(lines, p.NonTerminal+" | "+strings.Join(p.Rhs, " ")+" | "+tag)
	}
	sort.Strings(lines)

	var precLines []string
	for _, tag := range g.PrecedenceTags() {
		entry, _ := g.Precedence(tag)
		precLines = append(precLines, tag+"="+strconv.Itoa(entry.Level)+entry.Assoc.String())
	}
	sort.Strings(precLines)

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteRune('\n')
	}
	sb.WriteString("---\n")
	for _, l := range precLines {
		sb.WriteString(l)
		sb.WriteRune('\n')
	}
	sb.WriteString("---\n")
	sb.WriteString(flavour.String())

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
