package strategy

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ziadkadry99/codelocate/internal/candidate"
	"github.com/ziadkadry99/codelocate/internal/logging"
	"github.com/ziadkadry99/codelocate/internal/model"
)

// Keyword tier weights used by KeywordScore.
var tierWeights = [...]float64{
	model.TierPrimary:    1.0,
	model.TierSecondary:  0.7,
	model.TierTechnical:  0.5,
	model.TierContextual: 0.3,
}

// tierSaturation is the number of keyword hits after which a tier counts as
// fully matched.
const tierSaturation = 2

// apiVocabulary marks a symbol as part of an API surface.
var apiVocabulary = []string{"controller", "route", "endpoint", "api", "handler", "service"}

// httpVerbs in the order they are tried when inferring a method.
var httpVerbs = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

var (
	verbWordRe = regexp.MustCompile(`\b(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\b`)
	routeRe    = regexp.MustCompile(`(?:^|\s)(/[A-Za-z0-9_\-.:{}/*]*)`)
)

// Base holds the logic shared by every strategy.
type Base struct {
	filter *candidate.Filter
	opts   Options
	logger *slog.Logger
}

func newBase(deps Deps) Base {
	if deps.Filter == nil {
		deps.Filter = candidate.New(candidate.DefaultParams(), nil, deps.Logger)
	}
	return Base{
		filter: deps.Filter,
		opts:   deps.Options.withDefaults(),
		logger: logging.OrDiscard(deps.Logger),
	}
}

// Options returns the effective limits.
func (b *Base) Options() Options { return b.opts }

// KeywordScore is the weighted tier overlap between text and kw, in [0,1].
// Each tier contributes its weight times the fraction of saturation reached;
// the sum is divided by the weight of the tiers that have keywords.
func KeywordScore(text string, kw model.SearchKeywords) float64 {
	lower := strings.ToLower(text)
	var score, total float64
	for tier := model.TierPrimary; tier <= model.TierContextual; tier++ {
		words := kw.Tier(tier)
		if len(words) == 0 {
			continue
		}
		w := tierWeights[tier]
		total += w

		need := tierSaturation
		if len(words) < need {
			need = len(words)
		}
		hits := 0
		for _, k := range words {
			if k != "" && strings.Contains(lower, strings.ToLower(k)) {
				hits++
			}
		}
		if hits > need {
			hits = need
		}
		score += w * float64(hits) / float64(need)
	}
	if total == 0 {
		return 0
	}
	return clamp01(score / total)
}

func symbolText(s model.Symbol) string {
	return s.Name + " " + s.QualifiedName + " " + s.Comment
}

type scoredSymbol struct {
	sym   model.Symbol
	score float64
}

// rankSymbols scores every symbol and keeps those above threshold, best
// first, in stable order.
func rankSymbols(actx model.AnalysisContext, kw model.SearchKeywords, threshold float64, keep func(model.Symbol) bool) []scoredSymbol {
	if actx.Symbols == nil {
		return nil
	}
	var out []scoredSymbol
	for _, s := range actx.Symbols.Symbols {
		if keep != nil && !keep(s) {
			continue
		}
		if score := KeywordScore(symbolText(s), kw); score > threshold {
			out = append(out, scoredSymbol{sym: s, score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// FindRelevantSymbols returns symbols whose keyword score exceeds the
// symbol threshold, best first.
func (b *Base) FindRelevantSymbols(actx model.AnalysisContext, kw model.SearchKeywords) []model.SymbolMatch {
	ranked := rankSymbols(actx, kw, b.opts.SymbolThreshold, nil)
	if len(ranked) > b.opts.MaxSymbols {
		ranked = ranked[:b.opts.MaxSymbols]
	}
	out := make([]model.SymbolMatch, 0, len(ranked))
	for _, r := range ranked {
		desc := r.sym.Comment
		if desc == "" {
			desc = r.sym.QualifiedName
		}
		out = append(out, model.SymbolMatch{
			Name:        r.sym.Name,
			Kind:        r.sym.Kind.String(),
			Location:    location(actx.WorkspaceRoot, r.sym),
			Description: desc,
		})
	}
	return out
}

// FindRelevantApis returns API-shaped symbols whose keyword score exceeds the
// API threshold, best first.
func (b *Base) FindRelevantApis(actx model.AnalysisContext, kw model.SearchKeywords) []model.APIMatch {
	ranked := rankSymbols(actx, kw, b.opts.APIThreshold, isAPISymbol)
	if len(ranked) > b.opts.MaxAPIs {
		ranked = ranked[:b.opts.MaxAPIs]
	}
	out := make([]model.APIMatch, 0, len(ranked))
	for _, r := range ranked {
		text := symbolText(r.sym)
		path := location(actx.WorkspaceRoot, r.sym)
		if m := routeRe.FindStringSubmatch(r.sym.Comment); m != nil {
			path = strings.TrimRight(m[1], ".,:;")
		}
		desc := fmt.Sprintf("%s %s", r.sym.Kind, r.sym.QualifiedName)
		if r.sym.Comment != "" {
			desc += ": " + r.sym.Comment
		}
		out = append(out, model.APIMatch{
			Path:        path,
			Method:      inferMethod(r.sym.Name, text),
			Description: desc,
		})
	}
	return out
}

func isAPISymbol(s model.Symbol) bool {
	text := symbolText(s)
	if verbWordRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, v := range apiVocabulary {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// inferMethod looks for an upper-case verb word in text, then for a verb
// prefix on the symbol name (getUser, deleteOrder).
func inferMethod(name, text string) string {
	if m := verbWordRe.FindString(text); m != "" {
		return m
	}
	lower := strings.ToLower(name)
	for _, v := range httpVerbs {
		lv := strings.ToLower(v)
		if strings.HasPrefix(lower, lv) && len(name) > len(lv) && startsWord(name[len(lv)]) {
			return v
		}
	}
	return model.MethodUnknown
}

func startsWord(c byte) bool { return c >= 'A' && c <= 'Z' || c == '_' }

// CalculateConfidence is the shared baseline: result size, mean of the top
// three file scores, and whether any symbol or API was found.
func (b *Base) CalculateConfidence(res model.AnalysisResult) float64 {
	if len(res.Files) == 0 {
		return 0
	}
	c := 0.3 * math.Min(1, float64(len(res.Files))/5)

	scores := make([]float64, len(res.Files))
	for i, f := range res.Files {
		scores[i] = f.Score
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if len(scores) > 3 {
		scores = scores[:3]
	}
	var sum float64
	for _, s := range scores {
		sum += clamp01(s)
	}
	c += 0.5 * sum / float64(len(scores))

	if len(res.Symbols) > 0 {
		c += 0.1
	}
	if len(res.APIs) > 0 {
		c += 0.1
	}
	return clamp01(c)
}

func location(root string, s model.Symbol) string {
	p := filepath.ToSlash(s.Path)
	if root != "" && filepath.IsAbs(s.Path) {
		if rel, err := filepath.Rel(root, s.Path); err == nil && !strings.HasPrefix(rel, "..") {
			p = filepath.ToSlash(rel)
		}
	}
	return fmt.Sprintf("%s:%d", p, s.Start.Row+1)
}

func toFileMatches(cands []candidate.Candidate) []model.FileMatch {
	out := make([]model.FileMatch, 0, len(cands))
	for _, c := range cands {
		out = append(out, model.FileMatch{Path: c.Path, Content: c.Content, Score: c.Score})
	}
	return out
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
