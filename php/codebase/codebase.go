package codebase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/jorgsowa/php-parser/php/parser"
)

// DefaultExtensions are the file extensions treated as PHP source.
var DefaultExtensions = []string{".php", ".phtml"}

var log = commonlog.GetLogger("phpparse.codebase")

// Codebase holds the parse result of every PHP file under a root directory.
type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	extensions []string
	files      map[string]*File
	symbols    []*Symbol
}

// File is one parsed source file. ModTime is set when the content was read
// from disk and is zero for editor buffers.
type File struct {
	Path    string
	Content []byte
	ModTime time.Time
	Result  *parser.Result
	Symbols []*Symbol
}

// Diagnostics returns the problems found in the file.
func (f *File) Diagnostics() parser.Diagnostics {
	return f.Result.Errors
}

// New creates an empty codebase. Without extensions, DefaultExtensions apply.
func New(rootDir string, extensions ...string) *Codebase {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Codebase{
		rootDir:    rootDir,
		extensions: extensions,
		files:      make(map[string]*File),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSource reports whether path has one of the configured extensions.
func (c *Codebase) IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ScanAll parses every source file under the root directory. Hidden
// directories are skipped. It stops early when ctx is done. The symbol
// index is rebuilt once, after the walk.
func (c *Codebase) ScanAll(ctx context.Context) error {
	count := 0
	defer func() {
		c.mu.Lock()
		c.rebuildSymbolsLocked()
		c.mu.Unlock()
	}()
	err := filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Errorf("walk %s: %s", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !c.IsSource(path) {
			return nil
		}
		f, err := readFile(path)
		if err != nil {
			log.Errorf("%s", err)
			return nil
		}
		c.mu.Lock()
		c.files[path] = f
		c.mu.Unlock()
		count++
		return nil
	})
	log.Infof("scanned %d files under %s", count, c.rootDir)
	return err
}

// ScanFile reads and parses path.
func (c *Codebase) ScanFile(path string) (*File, error) {
	f, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c.store(f)
	return f, nil
}

// UpdateFile parses content as the new text of path.
func (c *Codebase) UpdateFile(path string, content []byte) *File {
	f := parseFile(path, content)
	c.store(f)
	return f
}

func readFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read php file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read php file: %w", err)
	}
	f := parseFile(path, content)
	f.ModTime = info.ModTime()
	return f, nil
}

func parseFile(path string, content []byte) *File {
	res := parser.Parse(content, parser.WithFile(path))
	if n := len(res.Errors); n > 0 {
		log.Debugf("%s: %d diagnostics", path, n)
	}
	syms := Outline(res.Program)
	setPath(syms, path)
	return &File{
		Path:    path,
		Content: content,
		Result:  res,
		Symbols: syms,
	}
}

func setPath(syms []*Symbol, path string) {
	for _, s := range syms {
		s.Path = path
		setPath(s.Children, path)
	}
}

// store replaces one file and updates the symbol index for that file only.
func (c *Codebase) store(f *File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[f.Path] = f
	c.replaceSymbolsLocked(f.Path, declarations(f.Symbols))
}

func (c *Codebase) replaceSymbolsLocked(path string, decls []*Symbol) {
	kept := make([]*Symbol, 0, len(c.symbols)+len(decls))
	for _, s := range c.symbols {
		if s.Path != path {
			kept = append(kept, s)
		}
	}
	c.symbols = append(kept, decls...)
}

func (c *Codebase) rebuildSymbolsLocked() {
	var all []*Symbol
	for _, path := range c.pathsLocked() {
		all = append(all, declarations(c.files[path].Symbols)...)
	}
	c.symbols = all
}

// declarations lifts the children of namespace symbols to the top level.
func declarations(syms []*Symbol) []*Symbol {
	var out []*Symbol
	for _, s := range syms {
		if s.Kind == SymbolNamespace {
			out = append(out, s.Children...)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.replaceSymbolsLocked(path, nil)
}

func (c *Codebase) GetFile(path string) *File {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known file paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pathsLocked()
}

func (c *Codebase) pathsLocked() []string {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Diagnostics returns every diagnostic in the codebase, ordered by file and
// then by position.
func (c *Codebase) Diagnostics() parser.Diagnostics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var all parser.Diagnostics
	for _, path := range c.pathsLocked() {
		all = append(all, c.files[path].Result.Errors...)
	}
	return all
}

// AllSymbols returns the top-level declarations of every file, namespaces
// flattened away.
func (c *Codebase) AllSymbols() []*Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols
}

// FindSymbol looks up a top-level declaration by name. Class-like names
// compare case-insensitively, as PHP does.
func (c *Codebase) FindSymbol(name string) *Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.symbols {
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.QualifiedName(), name) {
			return s
		}
	}
	return nil
}

type CompletionKind int

const (
	CompletionKindClass CompletionKind = iota
	CompletionKindFunction
	CompletionKindConstant
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsFor offers the declarations whose name starts with prefix.
func (c *Codebase) CompletionsFor(prefix string) []CompletionItem {
	if prefix == "" {
		return nil
	}
	var items []CompletionItem
	for _, s := range c.AllSymbols() {
		if !strings.HasPrefix(strings.ToLower(s.Name), strings.ToLower(prefix)) {
			continue
		}
		item := CompletionItem{Label: s.Name, Detail: s.QualifiedName(), InsertText: s.Name}
		switch s.Kind {
		case SymbolFunction:
			item.Kind = CompletionKindFunction
			item.InsertText = s.Name + "($1)"
		case SymbolConstant:
			item.Kind = CompletionKindConstant
		case SymbolNamespace:
			continue
		}
		items = append(items, item)
	}
	return items
}
