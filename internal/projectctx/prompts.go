package projectctx

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// CollectInteractive asks the maintainer for project context. Every
// question is optional; pressing Enter skips it.
func CollectInteractive() (*ProjectContext, error) {
	fmt.Println("Describe the project to sharpen model relevance judgments.")
	fmt.Println("Press Enter to skip any question.")
	fmt.Println()

	pc := &ProjectContext{}
	for _, q := range []struct {
		label string
		dst   *string
	}{
		{"What does this project do?", &pc.Description},
		{"What are the key domain concepts?", &pc.KeyConcepts},
		{"How is the system structured (services, layers)?", &pc.Architecture},
		{"Where does each kind of code live (e.g. handlers in api/)?", &pc.CodeLayout},
		{"Any additional context?", &pc.AdditionalInfo},
	} {
		answer, err := askOptional(q.label)
		if err != nil {
			return nil, fmt.Errorf("%q prompt: %w", q.label, err)
		}
		*q.dst = answer
	}
	return pc, nil
}

// askOptional displays a prompt and returns the user's input, "" when the
// user just presses Enter.
func askOptional(label string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		AllowEdit: true,
	}
	return p.Run()
}
