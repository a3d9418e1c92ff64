// Package ranker assembles the strategy outputs into the final result,
// bounding its size without reordering any list.
package ranker

import (
	"math"
	"unicode/utf8"

	"github.com/ziadkadry99/codelocate/internal/model"
)

// Limits bounds the assembled result.
type Limits struct {
	MaxFiles        int
	MaxSymbols      int
	MaxAPIs         int
	MaxSnippetBytes int // file content kept per result; 0 keeps all
}

// DefaultLimits returns the standard result bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:        10,
		MaxSymbols:      10,
		MaxAPIs:         8,
		MaxSnippetBytes: 2000,
	}
}

// Assemble copies the lists into a fresh result, caps them, truncates file
// snippets and clamps confidence to [0,1]. Order within each list is kept.
func Assemble(files []model.FileMatch, symbols []model.SymbolMatch, apis []model.APIMatch, confidence float64, lim Limits) model.AnalysisResult {
	res := model.AnalysisResult{
		Files:      make([]model.FileMatch, 0, capOrLen(lim.MaxFiles, len(files))),
		Symbols:    capped(symbols, lim.MaxSymbols),
		APIs:       capped(apis, lim.MaxAPIs),
		Confidence: clamp01(confidence),
	}
	for _, f := range capped(files, lim.MaxFiles) {
		f.Content = truncate(f.Content, lim.MaxSnippetBytes)
		f.Score = clamp01(f.Score)
		res.Files = append(res.Files, f)
	}
	return res
}

// capped returns a copy of at most n elements of s (all when n <= 0).
func capped[T any](s []T, n int) []T {
	n = capOrLen(n, len(s))
	out := make([]T, n)
	copy(out, s[:n])
	return out
}

func capOrLen(n, l int) int {
	if n <= 0 || n > l {
		return l
	}
	return n
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
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
