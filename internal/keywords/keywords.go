// Package keywords turns a free-text problem report into the four keyword
// tiers consumed by every scorer.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ziadkadry99/codelocate/internal/model"
)

// Tier caps.
const (
	MaxPrimary    = 12
	MaxSecondary  = 15
	MaxTechnical  = 12
	MaxContextual = 10
)

var (
	// identifierRe matches plain or dotted identifiers such as UserService.getUser.
	identifierRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`)

	camelCaseRe  = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:[A-Z][a-z0-9]*)+\b`)
	snakeCaseRe  = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:_[a-z0-9]+)+\b`)
	pascalCaseRe = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]*)+\b`)

	doubleQuotedRe = regexp.MustCompile(`"([^"\n]{1,120})"`)
	backtickRe     = regexp.MustCompile("`([^`\\n]{1,120})`")
	singleQuotedRe = regexp.MustCompile(`(?:^|[\s(\[])'([^'\n]{1,120})'(?:$|[\s)\].,:;!?])`)
	semverRe       = regexp.MustCompile(`\bv?\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.]+)?\b`)
	allCapsRe      = regexp.MustCompile(`\b[A-Z][A-Z0-9_]{2,}\b`)
	errorPrefixRe  = regexp.MustCompile(`(?i)\b(?:error|failed):\s*([^\n;]+)`)

	wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]*`)
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "for": true,
	"in": true, "on": true, "at": true, "by": true, "with": true,
	"from": true, "of": true, "is": true, "are": true, "was": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"must": true, "and": true, "or": true, "but": true, "if": true,
	"then": true, "so": true, "that": true, "this": true, "these": true,
	"those": true, "it": true, "its": true, "i": true, "me": true,
	"my": true, "we": true, "our": true, "you": true, "your": true,
	"they": true, "them": true, "their": true, "there": true,
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "each": true, "every": true,
	"some": true, "any": true, "no": true, "not": true, "only": true,
	"more": true, "most": true, "other": true, "into": true, "after": true,
	"before": true, "while": true, "also": true, "just": true, "can": true,
	"cannot": true, "get": true, "got": true, "set": true,
	"use": true, "using": true, "used": true, "like": true, "see": true,
	"issue": true, "bug": true, "problem": true, "error": true, "failed": true,
	"expected": true, "actual": true, "steps": true, "reproduce": true,
}

// technicalTerms is the recognized technology/framework vocabulary. Keys are
// lower case; values are the canonical spelling emitted.
var technicalTerms = map[string]string{
	"javascript": "javascript", "typescript": "typescript", "python": "python",
	"golang": "golang", "java": "java", "kotlin": "kotlin", "rust": "rust",
	"ruby": "ruby", "php": "php", "swift": "swift", "scala": "scala",
	"csharp": "csharp", "dotnet": "dotnet",
	"react": "react", "vue": "vue", "angular": "angular", "svelte": "svelte",
	"nextjs": "nextjs", "next.js": "nextjs", "nuxt": "nuxt", "redux": "redux",
	"node": "node", "nodejs": "nodejs", "node.js": "nodejs", "deno": "deno",
	"express": "express", "fastify": "fastify", "nestjs": "nestjs",
	"django": "django", "flask": "flask", "fastapi": "fastapi",
	"spring": "spring", "rails": "rails", "laravel": "laravel", "gin": "gin",
	"graphql": "graphql", "grpc": "grpc", "rest": "rest", "http": "http",
	"https": "https", "websocket": "websocket", "oauth": "oauth", "jwt": "jwt",
	"sql": "sql", "mysql": "mysql", "postgres": "postgres", "postgresql": "postgresql",
	"sqlite": "sqlite", "mongodb": "mongodb", "redis": "redis", "kafka": "kafka",
	"rabbitmq": "rabbitmq", "elasticsearch": "elasticsearch", "prisma": "prisma",
	"docker": "docker", "kubernetes": "kubernetes", "k8s": "kubernetes",
	"terraform": "terraform", "aws": "aws", "gcp": "gcp", "azure": "azure",
	"webpack": "webpack", "vite": "vite", "babel": "babel", "eslint": "eslint",
	"jest": "jest", "mocha": "mocha", "pytest": "pytest", "junit": "junit",
	"npm": "npm", "yarn": "yarn", "pnpm": "pnpm", "pip": "pip", "maven": "maven",
	"gradle": "gradle", "cargo": "cargo",
	"json": "json", "yaml": "yaml", "xml": "xml", "csv": "csv", "html": "html",
	"css": "css", "api": "api", "cli": "cli", "sdk": "sdk", "orm": "orm",
	"async": "async", "await": "await", "promise": "promise", "thread": "thread",
	"mutex": "mutex", "goroutine": "goroutine", "cache": "cache",
	"middleware": "middleware", "router": "router", "auth": "auth",
	"authentication": "authentication", "database": "database",
	"migration": "migration", "serializer": "serializer", "parser": "parser",
	"timeout": "timeout", "deadlock": "deadlock", "segfault": "segfault",
}

// exceptionRe matches error class names like NullPointerException or TypeError.
var exceptionRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*(?:Exception|Error)\b`)

// Extract returns the keyword tiers for text. It never fails: text without
// matches yields empty tiers.
func Extract(text string) model.SearchKeywords {
	return model.SearchKeywords{
		Primary:    primary(text),
		Secondary:  secondary(text),
		Technical:  technical(text),
		Contextual: contextual(text),
	}
}

// Normalize trims, deduplicates and caps tiers produced elsewhere, such as
// by a language model, so they obey the same limits as Extract.
func Normalize(kw model.SearchKeywords) model.SearchKeywords {
	norm := func(items []string, limit int) []string {
		out := tierBuilder{limit: limit}
		for _, s := range items {
			out.add(strings.TrimSpace(s))
		}
		return out.items
	}
	return model.SearchKeywords{
		Primary:    norm(kw.Primary, MaxPrimary),
		Secondary:  norm(kw.Secondary, MaxSecondary),
		Technical:  norm(kw.Technical, MaxTechnical),
		Contextual: norm(kw.Contextual, MaxContextual),
	}
}

// primary collects identifier-shaped terms (dotted members split into their
// parts) followed by plain words repeated at least twice.
func primary(text string) []string {
	var out tierBuilder
	out.limit = MaxPrimary

	for _, m := range identifierRe.FindAllString(text, -1) {
		parts := strings.Split(m, ".")
		dotted := len(parts) > 1
		for _, p := range parts {
			if len(p) < 3 || stopWords[strings.ToLower(p)] {
				continue
			}
			if dotted || looksLikeIdentifier(p) {
				out.add(p)
			}
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range wordRe.FindAllString(text, -1) {
		lw := strings.ToLower(w)
		if len(lw) < 4 || stopWords[lw] {
			continue
		}
		if counts[lw] == 0 {
			order = append(order, w)
		}
		counts[lw]++
	}
	for _, w := range order {
		if counts[strings.ToLower(w)] >= 2 {
			out.add(w)
		}
	}
	return out.items
}

func secondary(text string) []string {
	var out tierBuilder
	out.limit = MaxSecondary
	type match struct {
		pos  int
		text string
	}
	var matches []match
	for _, re := range []*regexp.Regexp{camelCaseRe, snakeCaseRe, pascalCaseRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, match{loc[0], text[loc[0]:loc[1]]})
		}
	}
	// Keep textual order across the three patterns.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	for _, m := range matches {
		out.add(m.text)
	}
	return out.items
}

func technical(text string) []string {
	var out tierBuilder
	out.limit = MaxTechnical
	for _, w := range wordAndDotted(text) {
		loc := strings.Trim(w, ".")
		if canon, ok := technicalTerms[strings.ToLower(loc)]; ok {
			out.add(canon)
			continue
		}
		if exceptionRe.MatchString(loc) && exceptionRe.FindString(loc) == loc {
			out.add(loc)
		}
	}
	return out.items
}

func contextual(text string) []string {
	var out tierBuilder
	out.limit = MaxContextual
	type match struct {
		pos  int
		text string
	}
	var matches []match
	for _, re := range []*regexp.Regexp{doubleQuotedRe, backtickRe, singleQuotedRe, errorPrefixRe} {
		for _, sub := range re.FindAllStringSubmatchIndex(text, -1) {
			matches = append(matches, match{sub[2], text[sub[2]:sub[3]]})
		}
	}
	for _, re := range []*regexp.Regexp{semverRe, allCapsRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, match{loc[0], text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	for _, m := range matches {
		out.add(strings.Trim(strings.TrimSpace(m.text), "\"'`"))
	}
	return out.items
}

// wordAndDotted splits text into words, keeping dotted names like node.js.
func wordAndDotted(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_')
	})
}

// looksLikeIdentifier reports whether a word is shaped like code: mixed case
// after the first rune, or containing an underscore.
func looksLikeIdentifier(word string) bool {
	if strings.Contains(word, "_") {
		return strings.Trim(word, "_") != ""
	}
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// tierBuilder accumulates a capped, case-insensitively deduplicated tier.
type tierBuilder struct {
	items []string
	seen  map[string]bool
	limit int
}

func (b *tierBuilder) add(s string) {
	s = strings.Trim(s, ".,;:!?()[]{}<>")
	if s == "" || len(b.items) >= b.limit {
		return
	}
	key := strings.ToLower(s)
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, s)
}
