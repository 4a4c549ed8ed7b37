package workspace

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/alang/ast"
	"github.com/dhamidi/alang/format"
	"github.com/dhamidi/alang/parser"
)

const lsName = "alang"

var log = commonlog.GetLogger("alang.workspace")

// LSPServer serves a Workspace over the Language Server Protocol on
// stdio. Every open document is re-parsed on each change and syntax
// errors are published as diagnostics.
type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(version string) *LSPServer {
	s := &LSPServer{
		workspace: New(),
		version:   version,
	}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentDidSave:        s.didSave,
		TextDocumentDocumentSymbol: s.documentSymbol,
		TextDocumentFormatting:     s.formatting,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

// RunStdio blocks, serving LSP requests on stdin/stdout.
func (s *LSPServer) RunStdio() error {
	return s.server.RunStdio()
}

func (s *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}
	capabilities.DocumentSymbolProvider = true
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *LSPServer) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	doc := s.workspace.Update(path, []byte(params.TextDocument.Text))
	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (s *LSPServer) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	for _, change := range params.ContentChanges {
		whole, ok := change.(protocol.TextDocumentContentChangeEventWhole)
		if !ok {
			log.Errorf("ignoring incremental change for %s", path)
			continue
		}
		doc := s.workspace.Update(path, []byte(whole.Text))
		s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	}
	return nil
}

func (s *LSPServer) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	s.workspace.Close(path)
	return nil
}

func (s *LSPServer) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	doc := s.workspace.Update(path, []byte(*params.Text))
	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

// publishDiagnostics notifies synchronously so a later update can never
// be overtaken by a stale one.
func (s *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *Document) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, diagnosticsFor(uri, doc))
}

// diagnosticsFor builds the publish payload for a document: one error
// diagnostic when the last parse failed, an empty list otherwise.
func diagnosticsFor(uri protocol.DocumentUri, doc *Document) protocol.PublishDiagnosticsParams {
	diagnostics := []protocol.Diagnostic{}
	if doc.Err != nil {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    errorRange(doc.Err),
			Severity: &severity,
			Source:   &source,
			Message:  doc.Err.Error(),
		})
	}
	return protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}
}

// errorRange maps a syntax error to the span of its offending token.
// Errors without position information land on the first character.
func errorRange(err error) protocol.Range {
	if syntaxErr, ok := err.(*parser.SyntaxError); ok {
		return spanToRange(syntaxErr.Got.Span)
	}
	return protocol.Range{}
}

func spanToRange(span ast.Span) protocol.Range {
	return protocol.Range{
		Start: positionToLSP(span.Start),
		End:   positionToLSP(span.End),
	}
}

func positionToLSP(pos ast.Position) protocol.Position {
	line := pos.Line
	column := pos.Column
	if line > 0 {
		line--
	}
	if column > 0 {
		column--
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(column),
	}
}

func (s *LSPServer) documentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	doc := s.workspace.Get(path)
	if doc == nil || doc.Program == nil {
		return nil, nil
	}
	symbols := []protocol.DocumentSymbol{}
	for _, decl := range doc.Program.Globals {
		symbols = append(symbols, declSymbol(decl, false))
	}
	return symbols, nil
}

func declSymbol(decl ast.Decl, inClass bool) protocol.DocumentSymbol {
	switch d := decl.(type) {
	case *ast.FnDecl:
		kind := protocol.SymbolKindFunction
		if inClass {
			kind = protocol.SymbolKindMethod
		}
		symbol := protocol.DocumentSymbol{
			Name:           d.ID.Name,
			Kind:           kind,
			Range:          spanToRange(d.Span()),
			SelectionRange: spanToRange(d.ID.Span()),
		}
		for _, formal := range d.Formals {
			symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
				Name:           formal.ID.Name,
				Kind:           protocol.SymbolKindVariable,
				Range:          spanToRange(formal.Span()),
				SelectionRange: spanToRange(formal.ID.Span()),
			})
		}
		return symbol
	case *ast.ClassDefn:
		symbol := protocol.DocumentSymbol{
			Name:           d.ID.Name,
			Kind:           protocol.SymbolKindClass,
			Range:          spanToRange(d.Span()),
			SelectionRange: spanToRange(d.ID.Span()),
		}
		for _, member := range d.Members {
			symbol.Children = append(symbol.Children, declSymbol(member, true))
		}
		return symbol
	case *ast.VarDecl:
		kind := protocol.SymbolKindVariable
		if inClass {
			kind = protocol.SymbolKindField
		}
		return protocol.DocumentSymbol{
			Name:           d.ID.Name,
			Kind:           kind,
			Range:          spanToRange(d.Span()),
			SelectionRange: spanToRange(d.ID.Span()),
		}
	default:
		return protocol.DocumentSymbol{
			Name:           "?",
			Kind:           protocol.SymbolKindObject,
			Range:          spanToRange(decl.Span()),
			SelectionRange: spanToRange(decl.Span()),
		}
	}
}

func (s *LSPServer) formatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	doc := s.workspace.Get(path)
	if doc == nil || doc.Program == nil {
		return nil, nil
	}
	formatted := format.Unparse(doc.Program)
	if formatted == string(doc.Content) {
		return nil, nil
	}
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   endOfContent(doc.Content),
			},
			NewText: formatted,
		},
	}, nil
}

func endOfContent(content []byte) protocol.Position {
	lines := bytes.Split(content, []byte("\n"))
	last := lines[len(lines)-1]
	return protocol.Position{
		Line:      protocol.UInteger(len(lines) - 1),
		Character: protocol.UInteger(len(last)),
	}
}

func uriToPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse document URI %q: %w", uri, err)
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported document URI scheme %q", parsed.Scheme)
	}
	return parsed.Path, nil
}

func boolPtr(value bool) *bool {
	return &value
}
