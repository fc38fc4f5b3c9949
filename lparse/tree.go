package lparse

import (
	"strings"

	"github.com/cgosorio/lrforge/lex"
)

// ParseTree is a node built during reduction: either a shifted terminal
// (Terminal true, Source set) or the result of a reduce (one child per
// right-hand-side symbol, in source order).
type ParseTree struct {
	Value    string
	Terminal bool
	Source   lex.Token
	Children []*ParseTree
}

func (t *ParseTree) String() string {
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t *ParseTree) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.Terminal {
		sb.WriteString(t.Value)
		sb.WriteString(" \"")
		sb.WriteString(t.Source.Lexeme())
		sb.WriteString("\"\n")
		return
	}
	sb.WriteString(t.Value)
	sb.WriteRune('\n')
	for _, c := range t.Children {
		c.write(sb, depth+1)
	}
}
