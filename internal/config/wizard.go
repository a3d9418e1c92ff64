package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

// projectTypePatterns maps marker files to human-readable project types
// and a recommended include glob.
var projectTypePatterns = []struct {
	Marker  string
	Name    string
	Include string
}{
	{"go.mod", "Go", "**/*.go"},
	{"package.json", "Node.js/TypeScript", "**/*.{js,ts,jsx,tsx}"},
	{"requirements.txt", "Python", "**/*.py"},
	{"pyproject.toml", "Python", "**/*.py"},
	{"Cargo.toml", "Rust", "**/*.rs"},
	{"pom.xml", "Java", "**/*.java"},
	{"build.gradle", "Java/Kotlin", "**/*.{java,kt}"},
	{"Gemfile", "Ruby", "**/*.rb"},
	{"composer.json", "PHP", "**/*.php"},
	{"*.csproj", ".NET", "**/*.cs"},
}

// detectProjectType checks dir for well-known project markers.
func detectProjectType(dir string) (name string, include string) {
	for _, p := range projectTypePatterns {
		matches, _ := filepath.Glob(filepath.Join(dir, p.Marker))
		if len(matches) > 0 {
			return p.Name, p.Include
		}
	}
	return "", ""
}

// RunWizard interactively builds a Config for the workspace at dir and
// saves it to dir/.codelocate.yml.
func RunWizard(dir string) (*Config, error) {
	fmt.Println("Welcome to codelocate! Let's configure this workspace.")
	fmt.Println()

	projType, defaultInclude := detectProjectType(dir)
	if projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	providerPrompt := promptui.Select{
		Label: "Select LLM provider for the model strategy",
		Items: llm.ProviderNames,
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: llm.DefaultModel(provider),
	}
	modelName, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	strategyPrompt := promptui.Select{
		Label: "Default strategy",
		Items: []string{
			"rule  - keyword heuristics only, no model calls",
			"model - heuristics plus model relevance judgments",
		},
	}
	strategyIdx, _, err := strategyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strategy selection: %w", err)
	}

	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs, blank for all files)",
		Default: defaultInclude,
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	excludePrompt := promptui.Prompt{
		Label: "Extra exclude patterns (comma-separated, leave blank for defaults)",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	rpmPrompt := promptui.Prompt{
		Label:   "Requests per minute (0 = unlimited)",
		Default: "0",
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	rpmStr, err := rpmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("requests per minute: %w", err)
	}
	rpm, _ := strconv.Atoi(strings.TrimSpace(rpmStr))

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = modelName
	cfg.Strategy = string(strategy.Kinds[strategyIdx])
	cfg.Include = splitAndTrim(includeStr)
	cfg.Exclude = append(append([]string(nil), DefaultExcludes...), splitAndTrim(excludeStr)...)
	cfg.RequestsPerMinute = rpm

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := llm.APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment (or .env) before using --strategy model.\n", envVar)
	}

	path := filepath.Join(dir, FileName)
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
