package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/casc/cascade/ast"
	"github.com/dhamidi/casc/cascade/parser"
	"github.com/dhamidi/casc/project"
)

const lsName = "casc"

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	options  []Option
	log      commonlog.Logger

	mu     sync.Mutex
	notify glsp.NotifyFunc
	uris   map[string]string // path to the URI the client opened it with
	cancel context.CancelFunc
}

// NewLSPServer creates a language server. The codebase is created once
// the client has told the server its root directory; opts are applied to
// it then.
func NewLSPServer(version string, opts ...Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		options: opts,
		log:     commonlog.GetLogger("cascade.lsp"),
		uris:    make(map[string]string),
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
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase is nil until the client has initialized the server.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
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

	p, err := project.Discover(rootDir)
	if err != nil {
		ls.log.Warningf("%s, using defaults", err)
		p = &project.Project{RootDir: rootDir}
		p.Name = filepath.Base(rootDir)
		project.ApplyDefaults(&p.Config)
	}
	ls.codebase = New(p, ls.options...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		ls.log.Errorf("scan: %s", err)
	}
	for _, f := range ls.codebase.Files() {
		ls.publishDiagnostics(f.Path)
	}

	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		ls.log.Errorf("%s", err)
		return nil
	}
	watcher.OnChange(func(paths []string) {
		for _, path := range paths {
			ls.publishDiagnostics(path)
		}
	})

	watchCtx, cancel := context.WithCancel(context.Background())
	ls.mu.Lock()
	ls.cancel = cancel
	ls.mu.Unlock()
	go func() {
		if err := watcher.Watch(watchCtx); err != nil {
			ls.log.Errorf("watcher stopped: %s", err)
		}
	}()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
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
	ls.mu.Lock()
	ls.uris[path] = params.TextDocument.URI
	ls.mu.Unlock()

	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text), params.TextDocument.Version)
	ls.publishDiagnosticsTo(ctx.Notify, path)
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
			ls.codebase.UpdateFile(path, []byte(textChange.Text), params.TextDocument.Version)
			ls.publishDiagnosticsTo(ctx.Notify, path)
		}
	}
	return nil
}

// textDocumentDidClose drops unsaved edits by going back to the content
// on disk.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	ls.publishDiagnosticsTo(ctx.Notify, path)

	ls.mu.Lock()
	delete(ls.uris, path)
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		var version int32
		if f := ls.codebase.GetFile(path); f != nil {
			version = f.Version
		}
		ls.codebase.UpdateFile(path, []byte(*params.Text), version)
	} else if err := ls.codebase.ScanFile(path); err != nil {
		ls.log.Errorf("%s", err)
	}
	ls.publishDiagnosticsTo(ctx.Notify, path)
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
	return toDocumentSymbols(f, ast.Symbols(f.Tree.Root())), nil
}

func toDocumentSymbols(f *FileInfo, symbols []ast.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toProtocolSymbolKind(s.Kind),
			Range:          toProtocolRange(f.Lines, s.Range),
			SelectionRange: toProtocolRange(f.Lines, s.SelectionRange),
		}
		if s.Detail != "" {
			detail := s.Detail
			ds.Detail = &detail
		}
		if len(s.Children) > 0 {
			ds.Children = toDocumentSymbols(f, s.Children)
		}
		result = append(result, ds)
	}
	return result
}

func toProtocolSymbolKind(kind ast.SymbolKind) protocol.SymbolKind {
	switch kind {
	case ast.SymbolContainer:
		return protocol.SymbolKindNamespace
	case ast.SymbolMacro:
		return protocol.SymbolKindFunction
	case ast.SymbolParam:
		return protocol.SymbolKindVariable
	case ast.SymbolType:
		return protocol.SymbolKindClass
	case ast.SymbolAttribute, ast.SymbolAttributeSet:
		return protocol.SymbolKindInterface
	case ast.SymbolRole, ast.SymbolUser:
		return protocol.SymbolKindObject
	case ast.SymbolSensitivity, ast.SymbolCategory, ast.SymbolLevelRange:
		return protocol.SymbolKindConstant
	case ast.SymbolClass, ast.SymbolCommon:
		return protocol.SymbolKindStruct
	default:
		return protocol.SymbolKindKey
	}
}

// textDocumentHover shows the syntax nodes enclosing the token under the
// cursor. Whitespace and comments have no hover.
func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	pos := Position{Line: int(params.Position.Line), Character: int(params.Position.Character)}
	if pos.Line >= f.Lines.LineCount() {
		return nil, nil
	}
	leaf := f.Tree.Root().LeafAt(f.Lines.Offset(pos))
	if leaf == nil || leaf.IsTrivia() {
		return nil, nil
	}
	r := toProtocolRange(f.Lines, leaf.Range())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: syntaxPath(leaf)},
		Range:    &r,
	}, nil
}

// syntaxPath lists the kinds from the outermost item down to the leaf.
func syntaxPath(leaf *parser.Leaf) string {
	var kinds []string
	for n := leaf.Parent(); n != nil && n.Kind() != parser.KindRoot; n = n.Parent() {
		kinds = append(kinds, n.Kind().String())
	}
	slices.Reverse(kinds)
	return strings.Join(append(kinds, leaf.Kind().String()), " > ")
}

// textDocumentFoldingRange folds blocks and multi-line block comments.
// The closing line of a block stays visible.
func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return foldingRanges(f), nil
}

func foldingRanges(f *FileInfo) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	f.Tree.Root().Walk(func(e parser.Element) bool {
		switch e.Kind() {
		case parser.KindBody, parser.KindPermBlock:
			span := ast.Span(e.(*parser.Node))
			start := f.Lines.Position(span.Start).Line
			end := f.Lines.Position(span.End).Line - 1
			if end > start {
				ranges = append(ranges, foldingRange(start, end, protocol.FoldingRangeKindRegion))
			}
		case parser.BlockComment:
			start := f.Lines.Position(e.Range().Start).Line
			end := f.Lines.Position(e.Range().End).Line
			if end > start {
				ranges = append(ranges, foldingRange(start, end, protocol.FoldingRangeKindComment))
			}
		}
		return true
	})
	return ranges
}

func foldingRange(start, end int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: protocol.UInteger(start),
		EndLine:   protocol.UInteger(end),
		Kind:      &k,
	}
}

func (ls *LSPServer) publishDiagnostics(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify != nil {
		ls.publishDiagnosticsTo(notify, path)
	}
}

// publishDiagnosticsTo sends the current errors of path. A file that is
// no longer tracked gets an empty list, clearing stale diagnostics.
func (ls *LSPServer) publishDiagnosticsTo(notify glsp.NotifyFunc, path string) {
	ls.mu.Lock()
	uri, ok := ls.uris[path]
	ls.mu.Unlock()
	if !ok {
		uri = pathToURI(path)
	}

	diagnostics := []protocol.Diagnostic{}
	if f := ls.codebase.GetFile(path); f != nil {
		diagnostics = toProtocolDiagnostics(f)
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostics(f *FileInfo) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	result := make([]protocol.Diagnostic, 0, len(f.Errors))
	for _, e := range f.Errors {
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(f.Lines, e.Range),
			Severity: &severity,
			Source:   &source,
			Message:  e.Message,
		})
	}
	return result
}

func toProtocolRange(lines *LineIndex, r parser.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(lines.Position(r.Start)),
		End:   toProtocolPosition(lines.Position(r.End)),
	}
}

func toProtocolPosition(p Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
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
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
