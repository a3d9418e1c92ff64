// Package symbols builds the symbol analysis of a workspace by parsing
// source files with tree-sitter.
package symbols

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/walker"
)

// Provider produces the symbol analysis for a set of workspace files.
type Provider interface {
	Analyze(ctx context.Context, files []walker.FileInfo) (*model.SymbolAnalysis, error)
}

// extractor turns a parse tree into a CodeFile.
type extractor func(root *sitter.Node, src []byte, f *model.CodeFile)

type language struct {
	lang    *sitter.Language
	extract extractor
}

// languages is keyed by walker.DetectLanguage names.
var languages = map[string]language{
	"Go":     {lang: goLanguage(), extract: extractGo},
	"Python": {lang: pythonLanguage(), extract: extractPython},
}

// Supported reports whether files of the given language are parsed.
func Supported(lang string) bool {
	_, ok := languages[lang]
	return ok
}

// Default symbol analysis budget per Analyze call.
const (
	DefaultMaxFiles       = 500
	DefaultMaxBytes int64 = 16 << 20
)

// Budget bounds how much source one Analyze call parses. Files are taken in
// the order given, so callers put the most promising files first.
type Budget struct {
	MaxFiles int   // 0 = DefaultMaxFiles
	MaxBytes int64 // 0 = DefaultMaxBytes
}

func (b Budget) withDefaults() Budget {
	if b.MaxFiles <= 0 {
		b.MaxFiles = DefaultMaxFiles
	}
	if b.MaxBytes <= 0 {
		b.MaxBytes = DefaultMaxBytes
	}
	return b
}

// TreeSitter is a Provider backed by tree-sitter grammars. Parsed files are
// cached by path, size and modification time, so a long-running server only
// re-parses what changed between requests.
type TreeSitter struct {
	logger *slog.Logger
	// Workers bounds concurrent parses; 0 means GOMAXPROCS.
	Workers int
	Budget  Budget

	mu     sync.Mutex
	cache  map[string]cachedFile
	parses atomic.Int64
}

type cachedFile struct {
	size    int64
	modTime time.Time
	file    *model.CodeFile
}

// NewTreeSitter creates a TreeSitter provider with the default budget.
func NewTreeSitter(logger *slog.Logger) *TreeSitter {
	return &TreeSitter{
		logger: logging.OrDiscard(logger),
		cache:  make(map[string]cachedFile),
	}
}

// Analyze parses the supported files that fit the budget and returns their
// symbols in file order. Files that fail to read or parse are skipped.
func (p *TreeSitter) Analyze(ctx context.Context, files []walker.FileInfo) (*model.SymbolAnalysis, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	selected := p.selectFiles(files)

	parsed := make([]*model.CodeFile, len(selected))
	var hits int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range selected {
		if cf, ok := p.lookup(f); ok {
			parsed[i] = cf
			hits++
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(f.Path)
			if err != nil {
				p.logger.Debug("skipping unreadable file", "path", f.RelPath, "err", err)
				return nil
			}
			p.parses.Add(1)
			cf, err := ParseFile(gctx, f.Language, f.RelPath, src)
			if err != nil {
				p.logger.Debug("skipping unparsable file", "path", f.RelPath, "err", err)
				return nil
			}
			parsed[i] = cf
			p.store(f, cf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.trim(selected)
	p.logger.Debug("symbol analysis", "files", len(selected), "cached", hits, "workspace_files", len(files))

	analysis := &model.SymbolAnalysis{}
	for _, cf := range parsed {
		if cf != nil {
			analysis.Symbols = append(analysis.Symbols, cf.Symbols()...)
		}
	}
	return analysis, nil
}

// selectFiles keeps supported files, in order, while they fit the budget.
// A file too large for the remaining bytes is skipped, not a stop.
func (p *TreeSitter) selectFiles(files []walker.FileInfo) []walker.FileInfo {
	b := p.Budget.withDefaults()
	var out []walker.FileInfo
	var total int64
	for _, f := range files {
		if len(out) >= b.MaxFiles {
			break
		}
		if !Supported(f.Language) || total+f.Size > b.MaxBytes {
			continue
		}
		total += f.Size
		out = append(out, f)
	}
	return out
}

func (p *TreeSitter) lookup(f walker.FileInfo) (*model.CodeFile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cache[f.Path]
	if !ok || c.size != f.Size || !c.modTime.Equal(f.ModTime) {
		return nil, false
	}
	return c.file, true
}

func (p *TreeSitter) store(f walker.FileInfo, cf *model.CodeFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache == nil {
		p.cache = make(map[string]cachedFile)
	}
	p.cache[f.Path] = cachedFile{size: f.Size, modTime: f.ModTime, file: cf}
}

// trim keeps the cache within a few budgets' worth of files by dropping
// entries the latest call did not use.
func (p *TreeSitter) trim(used []walker.FileInfo) {
	limit := 4 * p.Budget.withDefaults().MaxFiles
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.cache) <= limit {
		return
	}
	keep := make(map[string]bool, len(used))
	for _, f := range used {
		keep[f.Path] = true
	}
	for path := range p.cache {
		if !keep[path] {
			delete(p.cache, path)
		}
	}
}

// ParseFile parses src as the given language. rel becomes the file's path.
func ParseFile(ctx context.Context, lang, rel string, src []byte) (*model.CodeFile, error) {
	l, ok := languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(l.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	defer tree.Close()

	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	f := &model.CodeFile{Name: name, Path: rel, Language: lang}
	l.extract(tree.RootNode(), src, f)
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return f, nil
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

func span(n *sitter.Node) model.Span {
	s, e := n.StartPoint(), n.EndPoint()
	return model.Span{
		Start: model.CodePosition{Row: int(s.Row), Column: int(s.Column)},
		End:   model.CodePosition{Row: int(e.Row), Column: int(e.Column)},
	}
}

// leadingComment joins the comment lines directly above n.
func leadingComment(n *sitter.Node, src []byte, trim func(string) string) string {
	var lines []string
	row := n.StartPoint().Row
	for prev := n.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		if prev.EndPoint().Row+1 < row {
			break
		}
		lines = append([]string{trim(nodeText(prev, src))}, lines...)
		row = prev.StartPoint().Row
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
