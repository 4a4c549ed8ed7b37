package format

import "github.com/dhamidi/alang/ast"

// Encoder serializes an AST node to some output representation.
type Encoder interface {
	Encode(node ast.Node) error
}
