package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Painter decorates one rendered line of a debug tree, typically with terminal
// colors. It receives the kind of the element on that line.
type Painter func(kind Kind, line string) string

// DebugTree renders n as an indented outline: one element per line, two spaces per
// level, "Kind@start..end" and, for tokens, the quoted text.
func DebugTree(n *Node) string {
	var sb strings.Builder
	_ = WriteDebugTree(&sb, n, nil)
	return sb.String()
}

// WriteDebugTree writes the outline produced by DebugTree to w, passing each line
// through paint when it is non-nil.
func WriteDebugTree(w io.Writer, n *Node, paint Painter) error {
	var err error
	n.Walk(func(el Element, depth int) bool {
		if err != nil {
			return false
		}
		line := strings.Repeat("  ", depth) + describe(el)
		if paint != nil {
			line = paint(el.Kind(), line)
		}
		_, err = io.WriteString(w, line+"\n")
		return true
	})
	return err
}

func describe(el Element) string {
	if t, ok := el.(*Token); ok {
		return fmt.Sprintf("%s@%s %q", t.Kind(), t.Range(), t.Text())
	}
	return fmt.Sprintf("%s@%s", el.Kind(), el.Range())
}
