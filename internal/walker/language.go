package walker

import (
	"path/filepath"
	"strings"
)

// languageExtensions lists the lower-case extensions of each language name
// reported in FileInfo.Language.
var languageExtensions = map[string][]string{
	"Go":         {".go"},
	"Python":     {".py", ".pyi"},
	"TypeScript": {".ts", ".tsx", ".mts", ".cts"},
	"JavaScript": {".js", ".jsx", ".mjs", ".cjs"},
	"Java":       {".java"},
	"Kotlin":     {".kt", ".kts"},
	"Scala":      {".scala", ".sc"},
	"Rust":       {".rs"},
	"C":          {".c", ".h"},
	"C++":        {".cpp", ".cc", ".cxx", ".hpp", ".hxx"},
	"C#":         {".cs"},
	"Ruby":       {".rb"},
	"PHP":        {".php"},
	"Swift":      {".swift"},
	"Dart":       {".dart"},
	"Elixir":     {".ex", ".exs"},
	"Lua":        {".lua"},
	"R":          {".r"},
	"Shell":      {".sh", ".bash", ".zsh"},
	"SQL":        {".sql"},
	"GraphQL":    {".graphql", ".gql"},
	"Protobuf":   {".proto"},
	"HTML":       {".html", ".htm"},
	"CSS":        {".css", ".scss", ".sass", ".less"},
	"Vue":        {".vue"},
	"Svelte":     {".svelte"},
	"YAML":       {".yaml", ".yml"},
	"JSON":       {".json"},
	"TOML":       {".toml"},
	"Terraform":  {".tf", ".tfvars"},
	"Markdown":   {".md", ".markdown"},
}

// byExtension inverts languageExtensions.
var byExtension = func() map[string]string {
	m := make(map[string]string)
	for lang, exts := range languageExtensions {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}()

// byFilename covers files recognised by name alone.
var byFilename = map[string]string{
	"Dockerfile":  "Dockerfile",
	"Makefile":    "Makefile",
	"Jenkinsfile": "Groovy",
	"Gemfile":     "Ruby",
	"Rakefile":    "Ruby",
	"Vagrantfile": "Ruby",
}

// DetectLanguage returns the language of a file from its name, or "unknown".
func DetectLanguage(name string) string {
	base := filepath.Base(name)
	if lang, ok := byFilename[base]; ok {
		return lang
	}
	if strings.HasPrefix(base, "Dockerfile.") {
		return "Dockerfile"
	}
	if lang, ok := byExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return "unknown"
}
