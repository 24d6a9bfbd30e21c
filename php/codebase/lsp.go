package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/jorgsowa/php-parser/php/ast"
	"github.com/jorgsowa/php-parser/php/parser"
)

const lsName = "phpparse"

var lspLog = commonlog.GetLogger("phpparse.lsp")

// LSPServer publishes parse diagnostics and document outlines to an editor.
type LSPServer struct {
	codebase   *Codebase
	handler    protocol.Handler
	server     *server.Server
	watcher    *FileWatcher
	notify     glsp.NotifyFunc
	version    string
	extensions []string
}

func NewLSPServer(version string, extensions ...string) *LSPServer {
	ls := &LSPServer{
		version:    version,
		extensions: extensions,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.extensions...)
	ls.notify = ctx.Notify
	lspLog.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.DefinitionProvider = true
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		lspLog.Errorf("scan: %s", err)
	}
	for _, path := range ls.codebase.Paths() {
		ls.publish(path, ls.codebase.GetFile(path))
	}
	ls.watcher = NewFileWatcher(ls.codebase, 2*time.Second, ls.publish)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.publish(path, ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text)))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.publish(path, ls.codebase.UpdateFile(path, []byte(textChange.Text)))
		}
	}
	return nil
}

// The file stays in the codebase after close; the watcher keeps it current.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var f *File
	if params.Text != nil {
		f = ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if f, err = ls.codebase.ScanFile(path); err != nil {
		lspLog.Errorf("%s", err)
		return nil
	}
	ls.publish(path, f)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return DocumentSymbols(f), nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	prefix := identifierBefore(file.Content, int(params.Position.Line)+1, int(params.Position.Character))
	completions := ls.codebase.CompletionsFor(prefix)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatSnippet

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	sym := ls.symbolAt(params.TextDocument.URI, params.Position)
	if sym == nil {
		return nil, nil
	}
	decl := ls.codebase.GetFile(sym.Path)
	if decl == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(sym.Path),
		Range: toRange(decl.Content, ast.NewLineIndex(decl.Content), sym.Span),
	}, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	sym := ls.symbolAt(params.TextDocument.URI, params.Position)
	if sym == nil {
		return nil, nil
	}
	value := "```php\n" + sym.Kind.String() + " " + sym.QualifiedName()
	switch {
	case strings.HasPrefix(sym.Detail, "("):
		value += sym.Detail
	case sym.Detail != "":
		value += " " + sym.Detail
	}
	value += "\n```"
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
	}, nil
}

// symbolAt resolves the name under the cursor to a declaration anywhere in
// the codebase.
func (ls *LSPServer) symbolAt(uri string, pos protocol.Position) *Symbol {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil
	}
	name := identifierAt(f.Content, int(pos.Line)+1, int(pos.Character))
	if name == "" {
		return nil
	}
	return ls.codebase.FindSymbol(name)
}

// publish sends the diagnostics of f, or clears them when f is nil.
func (ls *LSPServer) publish(path string, f *File) {
	if ls.notify == nil {
		return
	}
	diags := []protocol.Diagnostic{}
	if f != nil {
		diags = ProtocolDiagnostics(f)
	}
	lspLog.Debugf("publish %d diagnostics for %s", len(diags), path)
	ls.notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diags,
	})
}

// ProtocolDiagnostics converts the parse diagnostics of f. An unclosed
// delimiter links back to where it was opened.
func ProtocolDiagnostics(f *File) []protocol.Diagnostic {
	idx := ast.NewLineIndex(f.Content)
	severity := protocol.DiagnosticSeverityError
	source := lsName
	out := make([]protocol.Diagnostic, 0, len(f.Result.Errors))
	for _, d := range f.Result.Errors {
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		pd := protocol.Diagnostic{
			Range:    toRange(f.Content, idx, d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Error(),
		}
		if d.Kind == parser.ErrorUnclosed {
			pd.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
				Location: protocol.Location{URI: pathToURI(f.Path), Range: toRange(f.Content, idx, d.OpenedAt)},
				Message:  "opened here",
			}}
		}
		out = append(out, pd)
	}
	return out
}

var symbolKinds = map[SymbolKind]protocol.SymbolKind{
	SymbolNamespace: protocol.SymbolKindNamespace,
	SymbolClass:     protocol.SymbolKindClass,
	SymbolInterface: protocol.SymbolKindInterface,
	SymbolTrait:     protocol.SymbolKindClass,
	SymbolEnum:      protocol.SymbolKindEnum,
	SymbolFunction:  protocol.SymbolKindFunction,
	SymbolMethod:    protocol.SymbolKindMethod,
	SymbolProperty:  protocol.SymbolKindProperty,
	SymbolConstant:  protocol.SymbolKindConstant,
	SymbolEnumCase:  protocol.SymbolKindEnumMember,
}

// DocumentSymbols converts the outline of f into an LSP symbol tree.
func DocumentSymbols(f *File) []protocol.DocumentSymbol {
	idx := ast.NewLineIndex(f.Content)
	var convert func([]*Symbol) []protocol.DocumentSymbol
	convert = func(syms []*Symbol) []protocol.DocumentSymbol {
		out := make([]protocol.DocumentSymbol, 0, len(syms))
		for _, s := range syms {
			r := toRange(f.Content, idx, s.Span)
			ds := protocol.DocumentSymbol{
				Name:           s.Name,
				Kind:           symbolKinds[s.Kind],
				Range:          r,
				SelectionRange: r,
				Children:       convert(s.Children),
			}
			if s.Detail != "" {
				detail := s.Detail
				ds.Detail = &detail
			}
			out = append(out, ds)
		}
		return out
	}
	return convert(f.Symbols)
}

func toRange(src []byte, idx *ast.LineIndex, sp ast.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(src, idx, sp.Start),
		End:   toPosition(src, idx, sp.End),
	}
}

// toPosition converts a byte offset to a zero-based line and a character
// offset counted in UTF-16 code units.
func toPosition(src []byte, idx *ast.LineIndex, offset int) protocol.Position {
	pos := idx.Position(offset)
	lineStart := offset - (pos.Column - 1)
	units := 0
	for _, r := range string(src[lineStart:offset]) {
		units += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(units),
	}
}

// identifierAt returns the whole name around the cursor without a leading
// backslash.
func identifierAt(content []byte, line, col int) string {
	text, cursor, ok := lineAt(content, line, col)
	if !ok {
		return ""
	}
	start, end := cursor, cursor
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	return strings.TrimPrefix(text[start:end], `\`)
}

// identifierBefore returns the name characters left of the cursor; line is
// 1-based and col counts UTF-16 units.
func identifierBefore(content []byte, line, col int) string {
	text, cursor, ok := lineAt(content, line, col)
	if !ok {
		return ""
	}
	start := cursor
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	return text[start:cursor]
}

// lineAt returns the text of a 1-based line and the byte offset of a column
// counted in UTF-16 units.
func lineAt(content []byte, line, col int) (string, int, bool) {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return "", 0, false
	}
	text := lines[line-1]
	end, units := 0, 0
	for end < len(text) && units < col {
		r, size := utf8.DecodeRuneInString(text[end:])
		end += size
		units += utf16.RuneLen(r)
	}
	return text, end, true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '\\' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case CompletionKindConstant:
		return protocol.CompletionItemKindConstant
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
