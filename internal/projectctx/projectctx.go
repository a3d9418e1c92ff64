// Package projectctx holds optional maintainer-provided facts about a
// workspace. They are added to the model prompts so relevance judgments can
// use knowledge the code alone does not show.
package projectctx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is looked up at the workspace root.
const DefaultFileName = ".codelocate-context.json"

// ProjectContext describes the project to the model.
type ProjectContext struct {
	Description    string `json:"description,omitempty"`
	KeyConcepts    string `json:"key_concepts,omitempty"`
	Architecture   string `json:"architecture,omitempty"`
	CodeLayout     string `json:"code_layout,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Load reads a ProjectContext from a JSON file. A missing or empty file
// yields nil and no error.
func Load(path string) (*ProjectContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var pc ProjectContext
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parsing context file %s: %w", path, err)
	}
	if pc.IsEmpty() {
		return nil, nil
	}
	return &pc, nil
}

// Save writes the context as indented JSON, creating parent directories as
// needed.
func (c *ProjectContext) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating context directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling context: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing context file: %w", err)
	}
	return nil
}

// IsEmpty reports whether no field carries text.
func (c *ProjectContext) IsEmpty() bool {
	return c == nil || strings.TrimSpace(c.Description+c.KeyConcepts+c.Architecture+c.CodeLayout+c.AdditionalInfo) == ""
}

// PromptSection formats the context as lines for a system prompt. A nil or
// empty context yields "".
func (c *ProjectContext) PromptSection() string {
	if c.IsEmpty() {
		return ""
	}

	var b strings.Builder
	for _, f := range []struct{ label, value string }{
		{"Project description", c.Description},
		{"Key domain concepts", c.KeyConcepts},
		{"Architecture", c.Architecture},
		{"Code layout", c.CodeLayout},
		{"Additional context", c.AdditionalInfo},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}
	return b.String()
}
