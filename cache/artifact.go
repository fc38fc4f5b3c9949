// Package cache is the table cache façade (C6): it fingerprints a grammar
// and table flavour, and loads or stores the resulting ACTION/GOTO tables
// as an opaque keyed artifact so repeated builds of the same grammar can
// skip C1-C4 entirely.
package cache

import (
	"fmt"

	"github.com/cgosorio/lrforge/grammar"
	"github.com/cgosorio/lrforge/ltable"
)

// artifactVersion is bumped whenever Artifact's shape changes in a way that
// would make an old stored blob unreadable.
const artifactVersion = 1

// Artifact is the persisted, opaque form of a built table: version tag,
// fingerprint, flavour, symbol name lists, and the sparse ACTION/GOTO maps,
// per spec.md's §4.6/§6 persisted-state description.
type Artifact struct {
	Version      int
	Fingerprint  string
	Flavour      ltable.Flavour
	Terminals    []string
	NonTerminals []string
	Start        string
	States       []string
	Action       map[string]map[string]ltable.Action
	Goto         map[string]map[string]string
	Productions  []grammar.ProdRef
	MergeCount   int
	Conflicts    ltable.ConflictLog
}

// ToArtifact captures table as a persistable Artifact tagged with
// fingerprint.
func ToArtifact(fingerprint string, g *grammar.Grammar, table *ltable.Table) Artifact {
	return Artifact{
		Version:      artifactVersion,
		Fingerprint:  fingerprint,
		Flavour:      table.Flavour,
		Terminals:    g.Terminals(),
		NonTerminals: g.NonTerminals(),
		Start:        table.Start,
		States:       table.States,
		Action:       table.Action,
		Goto:         table.Goto,
		Productions:  table.Productions,
		MergeCount:   table.MergeCount,
		Conflicts:    table.Conflicts,
	}
}

// ToTable reconstructs a *ltable.Table from a. Callers are expected to have
// already validated a against the grammar they intend to use it with via
// Validate.
func (a Artifact) ToTable() *ltable.Table {
	return &ltable.Table{
		Flavour:     a.Flavour,
		Start:       a.Start,
		States:      a.States,
		Action:      a.Action,
		Goto:        a.Goto,
		Conflicts:   a.Conflicts,
		MergeCount:  a.MergeCount,
		Productions: a.Productions,
	}
}

// Validate checks a against g and flavour: state count staying positive,
// and the artifact's terminal/nonterminal name sets matching the grammar's
// exactly. On any mismatch the caller should treat the cache as a miss and
// rebuild, per spec.md §4.6.
func (a Artifact) Validate(g *grammar.Grammar, flavour ltable.Flavour) error {
	if a.Version != artifactVersion {
		return fmt.Errorf("cache artifact version %d does not match current version %d", a.Version, artifactVersion)
	}
	if a.Flavour != flavour {
		return fmt.Errorf("cache artifact flavour %s does not match requested flavour %s", a.Flavour, flavour)
	}
	if len(a.States) == 0 {
		return fmt.Errorf("cache artifact has no states")
	}
	if !sameNameSet(a.Terminals, g.Terminals()) {
		return fmt.Errorf("cache artifact terminal set does not match grammar")
	}
	if !sameNameSet(a.NonTerminals, g.NonTerminals()) {
		return fmt.Errorf("cache artifact nonterminal set does not match grammar")
	}
	return nil
}

func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if !seen[n] {
			return false
		}
	}
	return true
}
