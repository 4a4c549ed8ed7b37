// Package workspace tracks open a-lang documents and serves them over
// the Language Server Protocol.
package workspace

import (
	"bytes"
	"sync"

	"github.com/dhamidi/alang/ast"
	"github.com/dhamidi/alang/parser"
)

// Document is one tracked source file: its latest content and the
// result of parsing that content. Program is nil whenever Err is set.
type Document struct {
	Path    string
	Content []byte
	Program *ast.Program
	Err     error
}

// Workspace holds the open documents, keyed by path. Each update
// re-parses the document from scratch; there is no incremental state.
type Workspace struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func New() *Workspace {
	return &Workspace{docs: map[string]*Document{}}
}

// Update replaces the content of path and re-parses it.
func (w *Workspace) Update(path string, content []byte) *Document {
	program, err := parser.Parse(bytes.NewReader(content), parser.WithFile(path))
	doc := &Document{
		Path:    path,
		Content: content,
		Program: program,
		Err:     err,
	}
	w.mu.Lock()
	w.docs[path] = doc
	w.mu.Unlock()
	return doc
}

// Get returns the tracked document for path, or nil.
func (w *Workspace) Get(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Close forgets the document for path.
func (w *Workspace) Close(path string) {
	w.mu.Lock()
	delete(w.docs, path)
	w.mu.Unlock()
}
