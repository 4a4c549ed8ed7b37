package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/alang/ast"
)

// Tree renders node as an indented textual outline, one node per line.
// Scalar fields print inline after the node kind; child nodes nest.
func Tree(node ast.Node) string {
	var sb strings.Builder
	WriteTree(&sb, node)
	return sb.String()
}

func WriteTree(w io.Writer, node ast.Node) error {
	tw := &treeWriter{w: w}
	tw.node("", nodeToMap(node), 0)
	return tw.err
}

// TreeEncoder writes the textual outline form of a node.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node ast.Node) error {
	return WriteTree(e.w, node)
}

type treeWriter struct {
	w   io.Writer
	err error
}

func (t *treeWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *treeWriter) node(label string, m map[string]any, depth int) {
	indent := strings.Repeat("  ", depth)
	span := m["span"].(jsonSpan)
	line := fmt.Sprintf("%s%s (%d:%d-%d:%d)",
		label, m["kind"].(string),
		span.Start.Line, span.Start.Column, span.End.Line, span.End.Column)

	var children []string
	for _, key := range sortedKeys(m) {
		if key == "kind" || key == "span" {
			continue
		}
		switch m[key].(type) {
		case map[string]any, []any:
			children = append(children, key)
		default:
			line += fmt.Sprintf(" %s=%v", key, m[key])
		}
	}
	t.printf("%s%s\n", indent, line)

	for _, key := range children {
		switch child := m[key].(type) {
		case map[string]any:
			t.node(key+": ", child, depth+1)
		case []any:
			for _, item := range child {
				t.node(key+": ", item.(map[string]any), depth+1)
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
