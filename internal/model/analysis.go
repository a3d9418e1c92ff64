package model

import "strings"

// Issue is the problem report being located in the codebase.
type Issue struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Text returns title and body joined for keyword extraction.
func (i Issue) Text() string {
	if strings.TrimSpace(i.Body) == "" {
		return i.Title
	}
	return i.Title + "\n" + i.Body
}

// SearchKeywords holds the four keyword tiers, highest weight first.
type SearchKeywords struct {
	Primary    []string `json:"primary"`
	Secondary  []string `json:"secondary"`
	Technical  []string `json:"technical"`
	Contextual []string `json:"contextual"`
}

// Tier identifies one of the keyword tiers.
type Tier int

const (
	TierPrimary Tier = iota
	TierSecondary
	TierTechnical
	TierContextual
)

// Tier returns the keywords of tier t.
func (k SearchKeywords) Tier(t Tier) []string {
	switch t {
	case TierPrimary:
		return k.Primary
	case TierSecondary:
		return k.Secondary
	case TierTechnical:
		return k.Technical
	case TierContextual:
		return k.Contextual
	}
	return nil
}

// Empty reports whether every tier is empty.
func (k SearchKeywords) Empty() bool {
	return len(k.Primary) == 0 && len(k.Secondary) == 0 &&
		len(k.Technical) == 0 && len(k.Contextual) == 0
}

// AnalysisContext is the read-only input of one analysis call.
type AnalysisContext struct {
	WorkspaceRoot  string
	Issue          Issue
	CandidatePaths []string        // absolute paths
	Symbols        *SymbolAnalysis // nil when symbol analysis is unavailable
}

// FileMatch is a ranked relevant file.
type FileMatch struct {
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Score   float64 `json:"relevance_score"`
	Reason  string  `json:"reason,omitempty"`
}

// SymbolMatch is a ranked relevant symbol.
type SymbolMatch struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
}

// MethodUnknown is reported when no HTTP verb can be inferred.
const MethodUnknown = "UNKNOWN"

// APIMatch is a ranked API surface.
type APIMatch struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description,omitempty"`
}

// AnalysisResult is the only artifact handed to callers.
type AnalysisResult struct {
	Files      []FileMatch   `json:"files"`
	Symbols    []SymbolMatch `json:"symbols"`
	APIs       []APIMatch    `json:"apis"`
	Confidence float64       `json:"confidence"`
}
