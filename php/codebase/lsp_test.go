package codebase

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/jorgsowa/php-parser/php/ast"
)

const outlineSource = `<?php
namespace Shop {
    interface Priced { public function price(): float; }
    final class Item implements Priced {
        const TAX = 0.2;
        public ?string $label = null;
        public function __construct(private float $amount) {}
        public function price(): float { return $this->amount; }
        public static function make(int|float ...$parts): static { return new static(0); }
    }
    enum Size: string { case S = 's'; case L = 'l'; }
}
`

func TestOutline(t *testing.T) {
	c := New("/p")
	f := c.UpdateFile("/p/shop.php", []byte(outlineSource))
	assert.Equal(t, len(f.Diagnostics()), 0)

	assert.Assert(t, is.Len(f.Symbols, 1))
	ns := f.Symbols[0]
	assert.Equal(t, ns.Kind, SymbolNamespace)
	assert.Equal(t, ns.Name, "Shop")
	assert.Assert(t, is.Len(ns.Children, 3))

	item := ns.Children[1]
	assert.Equal(t, item.QualifiedName(), `Shop\Item`)
	assert.Equal(t, item.Detail, "implements Priced")

	var got []string
	for _, m := range item.Children {
		got = append(got, m.Kind.String()+" "+m.Name+" "+m.Detail)
	}
	assert.DeepEqual(t, got, []string{
		"constant TAX ",
		"property $label ?string",
		"method __construct (float $amount)",
		"property $amount float",
		"method price (): float",
		"method make static (int|float ...$parts): static",
	})

	size := ns.Children[2]
	assert.Equal(t, size.Detail, ": string")
	assert.Assert(t, is.Len(size.Children, 2))
	assert.Equal(t, size.Children[0].Kind, SymbolEnumCase)

	assert.Assert(t, c.FindSymbol(`Shop\Size`) != nil)
}

func TestDocumentSymbols(t *testing.T) {
	c := New("/p")
	f := c.UpdateFile("/p/shop.php", []byte(outlineSource))
	syms := DocumentSymbols(f)
	assert.Assert(t, is.Len(syms, 1))
	assert.Equal(t, syms[0].Kind, protocol.SymbolKindNamespace)
	assert.Equal(t, syms[0].Range.Start, protocol.Position{Line: 1, Character: 0})

	iface := syms[0].Children[0]
	assert.Equal(t, iface.Name, "Priced")
	assert.Equal(t, iface.Kind, protocol.SymbolKindInterface)
	assert.Equal(t, iface.Range.Start, protocol.Position{Line: 2, Character: 4})
	assert.Equal(t, *iface.Children[0].Detail, "(): float")
}

func TestProtocolDiagnostics(t *testing.T) {
	c := New("/p")
	f := c.UpdateFile("/p/bad.php", []byte("<?php\n$s = 'é';\nf(1,\n"))
	diags := ProtocolDiagnostics(f)
	assert.Assert(t, len(diags) > 0)

	var unclosed *protocol.Diagnostic
	for i := range diags {
		assert.Equal(t, *diags[i].Source, "phpparse")
		assert.Equal(t, *diags[i].Severity, protocol.DiagnosticSeverityError)
		if diags[i].Code.Value == "UnclosedDelimiter" {
			unclosed = &diags[i]
		}
	}
	assert.Assert(t, unclosed != nil)
	assert.Assert(t, is.Len(unclosed.RelatedInformation, 1))
	assert.Equal(t, unclosed.RelatedInformation[0].Location.Range.Start, protocol.Position{Line: 2, Character: 1})
	assert.Equal(t, unclosed.RelatedInformation[0].Location.URI, "file:///p/bad.php")
}

func TestToPositionCountsUTF16(t *testing.T) {
	src := []byte("<?php\n$a = '😀'; $b;\n")
	idx := ast.NewLineIndex(src)
	// The emoji is four bytes and two UTF-16 units.
	offset := len("<?php\n$a = '😀'; ")
	assert.Equal(t, toPosition(src, idx, offset), protocol.Position{Line: 1, Character: 11})
}

func TestIdentifierBefore(t *testing.T) {
	src := []byte("<?php\n$x = new App\\Us\n$y = é_fo")
	assert.Equal(t, identifierBefore(src, 2, 15), `App\Us`)
	assert.Equal(t, identifierBefore(src, 2, 8), "new")
	assert.Equal(t, identifierBefore(src, 3, 9), "é_fo")
	assert.Equal(t, identifierBefore(src, 9, 0), "")
}

func TestIdentifierAt(t *testing.T) {
	src := []byte("<?php\n$a = new \\Demo\\App();\nhelper(1);")
	assert.Equal(t, identifierAt(src, 2, 16), `Demo\App`)
	assert.Equal(t, identifierAt(src, 2, 9), `Demo\App`)
	assert.Equal(t, identifierAt(src, 3, 0), "helper")
	assert.Equal(t, identifierAt(src, 3, 10), "")
	assert.Equal(t, identifierAt(src, 9, 0), "")
}

func newIndexedServer(t *testing.T) *LSPServer {
	t.Helper()
	c := New("/p")
	c.UpdateFile("/p/src/App.php", []byte("<?php\nnamespace Demo;\nclass App extends Base {}\nfunction helper(int $n): string { return ''; }\n"))
	c.UpdateFile("/p/index.php", []byte("<?php\n$a = new \\Demo\\App();\nDemo\\helper(1);\n$b = new Missing();\n"))
	return &LSPServer{codebase: c}
}

func positionParams(uri string, line, char protocol.UInteger) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: char},
	}
}

func TestDefinition(t *testing.T) {
	ls := newIndexedServer(t)

	got, err := ls.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: positionParams("file:///p/index.php", 1, 16),
	})
	assert.NilError(t, err)
	loc, ok := got.(protocol.Location)
	assert.Assert(t, ok)
	assert.Equal(t, loc.URI, "file:///p/src/App.php")
	assert.Equal(t, loc.Range.Start, protocol.Position{Line: 2, Character: 0})

	got, err = ls.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: positionParams("file:///p/index.php", 3, 12),
	})
	assert.NilError(t, err)
	assert.Assert(t, got == nil)
}

func TestHover(t *testing.T) {
	ls := newIndexedServer(t)

	hover, err := ls.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///p/index.php", 1, 16),
	})
	assert.NilError(t, err)
	assert.Assert(t, hover != nil)
	content, ok := hover.Contents.(protocol.MarkupContent)
	assert.Assert(t, ok)
	assert.Equal(t, content.Kind, protocol.MarkupKindMarkdown)
	assert.Equal(t, content.Value, "```php\nclass Demo\\App extends Base\n```")

	hover, err = ls.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///p/index.php", 2, 8),
	})
	assert.NilError(t, err)
	assert.Assert(t, hover != nil)
	assert.Assert(t, is.Contains(hover.Contents.(protocol.MarkupContent).Value, `function Demo\helper(`))

	hover, err = ls.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///p/unknown.php", 0, 0),
	})
	assert.NilError(t, err)
	assert.Assert(t, hover == nil)
}

func TestURIRoundTrip(t *testing.T) {
	path, err := uriToPath(pathToURI("/tmp/my project/a.php"))
	assert.NilError(t, err)
	assert.Equal(t, path, "/tmp/my project/a.php")
}
