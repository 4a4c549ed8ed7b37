package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/alang/parser"
)

func TestASTJSONEncoder(t *testing.T) {
	program, err := parser.Parse(strings.NewReader("x : int = 1 + 2;"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(program))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "Program", doc["kind"])
	globals := doc["globals"].([]any)
	require.Len(t, globals, 1)

	decl := globals[0].(map[string]any)
	assert.Equal(t, "VarDecl", decl["kind"])
	assert.Equal(t, "x", decl["name"])
	assert.Equal(t, "IntType", decl["type"].(map[string]any)["kind"])

	init := decl["init"].(map[string]any)
	assert.Equal(t, "BinaryExp", init["kind"])
	assert.Equal(t, "+", init["op"])

	span := decl["span"].(map[string]any)["start"].(map[string]any)
	assert.Equal(t, float64(1), span["line"])
	assert.Equal(t, float64(1), span["column"])
}

func TestTree(t *testing.T) {
	program, err := parser.Parse(strings.NewReader("x : int = 42;"))
	require.NoError(t, err)

	tree := Tree(program)
	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Program "), "got %q", lines[0])
	assert.Contains(t, lines[1], "VarDecl")
	assert.Contains(t, lines[1], "name=x")
	assert.True(t, strings.HasPrefix(lines[2], "  "), "children indent: %q", lines[2])
	assert.Contains(t, tree, "IntLit")
	assert.Contains(t, tree, "value=42")
}
