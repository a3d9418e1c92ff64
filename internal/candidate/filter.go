// Package candidate ranks workspace files against search keywords in two
// passes: a cheap path-only pass over every file, then a content pass over
// the best slice of the first pass.
package candidate

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// Params holds the filter's tuning values. They are empirically chosen and
// exposed through config rather than fixed.
type Params struct {
	PathThreshold    float64  // pass-1 score a path must exceed
	ContentThreshold float64  // minimum normalized combined score kept in pass 2
	ScoreDivisor     float64  // raw combined score is divided by this, then clamped to 1
	PenaltyFactor    float64  // multiplier for paths matching ExcludePatterns
	PerKeywordCap    int      // max occurrences counted per keyword in content
	MaxContentBytes  int      // content kept per candidate
	ExcludePatterns  []string // doublestar globs against the workspace-relative path
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		PathThreshold:    0.1,
		ContentThreshold: 0.2,
		ScoreDivisor:     10,
		PenaltyFactor:    0.1,
		PerKeywordCap:    3,
		MaxContentBytes:  8192,
		ExcludePatterns:  DefaultExcludePatterns,
	}
}

// Path-pass weights per keyword tier.
const (
	primaryNameWeight   = 3.0
	primaryDirWeight    = 1.5
	secondaryNameWeight = 2.0
	secondaryDirWeight  = 1.0
	technicalPathWeight = 0.5
	contextPathWeight   = 0.5

	extensionBonus = 0.5
	nameBonus      = 1.0
	dirBonus       = 0.5
	maxDirBonus    = 1.0
)

// declarationWeight is added once per identifier keyword the content
// declares, scaled by the tier's content weight.
const declarationWeight = 1.0

// Content-pass weights per keyword tier.
var contentWeights = [...]float64{
	model.TierPrimary:    1.0,
	model.TierSecondary:  0.7,
	model.TierTechnical:  0.4,
	model.TierContextual: 0.4,
}

// PathScore is a pass-1 result.
type PathScore struct {
	Path  string // absolute
	Rel   string // workspace-relative, slash separated
	Score float64
}

// Candidate is a pass-2 result.
type Candidate struct {
	Path    string  `json:"path"` // workspace-relative, slash separated
	AbsPath string  `json:"-"`
	Content string  `json:"content"`
	Score   float64 `json:"relevance_score"`
}

// Filter is the two-pass candidate filter.
type Filter struct {
	params Params
	reader FileReader
	logger *slog.Logger
}

// New creates a Filter. A nil reader reads from disk; a nil logger discards.
func New(params Params, reader FileReader, logger *slog.Logger) *Filter {
	if reader == nil {
		reader = OSReader{}
	}
	if params.ScoreDivisor <= 0 {
		params.ScoreDivisor = DefaultParams().ScoreDivisor
	}
	return &Filter{
		params: params,
		reader: reader,
		logger: logging.OrDiscard(logger),
	}
}

// Params returns the filter's tuning.
func (f *Filter) Params() Params { return f.params }

// ScorePaths runs pass 1: every path is scored without I/O, paths not
// exceeding PathThreshold are dropped, and at most limit paths are returned,
// best first. Ties keep lexical path order.
func (f *Filter) ScorePaths(root string, paths []string, kw model.SearchKeywords, limit int) []PathScore {
	scored := make([]PathScore, 0, len(paths))
	for _, p := range paths {
		rel := relPath(root, p)
		s := f.pathScore(rel, kw)
		if s > f.params.PathThreshold {
			scored = append(scored, PathScore{Path: p, Rel: rel, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Rel < scored[j].Rel
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Rank runs both passes over the context's candidate paths. At most
// 2*maxFilesToAnalyze files are read. Unreadable files are skipped. The only
// error returned is ctx's.
func (f *Filter) Rank(ctx context.Context, actx model.AnalysisContext, kw model.SearchKeywords, maxFilesToAnalyze int) ([]Candidate, error) {
	if maxFilesToAnalyze <= 0 {
		maxFilesToAnalyze = 1
	}
	survivors := f.ScorePaths(actx.WorkspaceRoot, actx.CandidatePaths, kw, 2*maxFilesToAnalyze)

	var out []Candidate
	for _, ps := range survivors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := f.reader.ReadFile(ps.Path)
		if err != nil {
			f.logger.Debug("skipping unreadable candidate", "path", ps.Rel, "err", err)
			continue
		}
		content := string(data)
		raw := ps.Score + f.ContentScore(content, kw)
		final := clamp01(raw / f.params.ScoreDivisor)
		if final < f.params.ContentThreshold {
			continue
		}
		out = append(out, Candidate{
			Path:    ps.Rel,
			AbsPath: ps.Path,
			Content: truncateUTF8(content, f.params.MaxContentBytes),
			Score:   final,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// PathScore returns the pass-1 score of a workspace-relative path, including
// the exclusion penalty.
func (f *Filter) PathScore(rel string, kw model.SearchKeywords) float64 {
	return f.pathScore(filepath.ToSlash(rel), kw)
}

func (f *Filter) pathScore(rel string, kw model.SearchKeywords) float64 {
	s := unpenalizedPathScore(rel, kw)
	if matchesExclude(rel, f.params.ExcludePatterns) {
		s *= f.params.PenaltyFactor
	}
	return s
}

// unpenalizedPathScore weighs keyword hits against the file name and the
// directory, then adds the file-type, file-name and directory bonuses.
func unpenalizedPathScore(rel string, kw model.SearchKeywords) float64 {
	lower := strings.ToLower(rel)
	dir, name := splitPath(lower)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var score float64
	for _, k := range kw.Primary {
		lk := strings.ToLower(k)
		if strings.Contains(name, lk) {
			score += primaryNameWeight
		} else if strings.Contains(dir, lk) {
			score += primaryDirWeight
		}
	}
	for _, k := range kw.Secondary {
		lk := strings.ToLower(k)
		if strings.Contains(name, lk) {
			score += secondaryNameWeight
		} else if strings.Contains(dir, lk) {
			score += secondaryDirWeight
		}
	}
	for _, k := range kw.Technical {
		if strings.Contains(lower, strings.ToLower(k)) {
			score += technicalPathWeight
		}
	}
	for _, k := range kw.Contextual {
		if strings.Contains(lower, strings.ToLower(k)) {
			score += contextPathWeight
		}
	}

	if importantExtensions[filepath.Ext(name)] {
		score += extensionBonus
	}
	if importantNames[name] || importantNames[stem] {
		score += nameBonus
	}
	var db float64
	for _, seg := range strings.Split(dir, "/") {
		if importantDirs[seg] {
			db += dirBonus
		}
	}
	score += math.Min(db, maxDirBonus)
	return score
}

// ContentScore counts keyword occurrences in content with per-keyword
// diminishing returns, then divides by a length factor so long files gain
// no advantage from size alone. Declarations of primary or secondary
// keywords add a bonus that is not length-normalized, so a file defining
// a symbol outranks a shorter file that only calls it.
func (f *Filter) ContentScore(content string, kw model.SearchKeywords) float64 {
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)
	var raw, decl float64
	for tier := model.TierPrimary; tier <= model.TierContextual; tier++ {
		w := contentWeights[tier]
		for _, k := range kw.Tier(tier) {
			lk := strings.ToLower(k)
			if lk == "" {
				continue
			}
			if tier <= model.TierSecondary && declares(lower, lk) {
				decl += w * declarationWeight
			}
			n := strings.Count(lower, lk)
			if n == 0 {
				continue
			}
			if n > f.params.PerKeywordCap {
				n = f.params.PerKeywordCap
			}
			// 1 + 1/2 + 1/3 ... for repeated hits.
			var c float64
			for i := 1; i <= n; i++ {
				c += 1 / float64(i)
			}
			raw += w * c
		}
	}
	kb := float64(len(content)) / 1024
	return raw/(1+math.Log2(1+kb)) + decl
}

// declarationPrefixes precede a declared name in the supported languages.
// ") " covers Go method receivers.
var declarationPrefixes = []string{
	"type ", "class ", "interface ", "struct ", "enum ", "trait ", "record ",
	"object ", "func ", "function ", "def ", "fn ", ") ",
}

// declares reports whether lower (already lower-cased) declares the
// identifier lk: lk preceded by a declaration keyword and not followed by
// another identifier character.
func declares(lower, lk string) bool {
	for from := 0; ; {
		i := strings.Index(lower[from:], lk)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(lk)
		if end >= len(lower) || !isIdentByte(lower[end]) {
			for _, p := range declarationPrefixes {
				if strings.HasSuffix(lower[:i], p) {
					return true
				}
			}
		}
		from = i + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func relPath(root, p string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

func splitPath(rel string) (dir, name string) {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return "", rel
	}
	return rel[:i], rel[i+1:]
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
