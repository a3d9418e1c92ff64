package inference

import (
	"fmt"

	"github.com/ziadkadry99/codelocate/internal/llm"
	"github.com/ziadkadry99/codelocate/internal/model"
)

const systemPrompt = `You are a senior software engineer triaging bug reports and feature requests against a codebase. Answer only with the JSON object requested. Be precise and factual. Do not invent identifiers that are not present in the input.`

const keywordPromptTemplate = `Extract search keywords for locating the code this issue is about. Return a JSON object with exactly these fields:

{
  "primary": ["identifiers most likely to appear in the relevant code: class, function, method and file names"],
  "secondary": ["related identifiers in camelCase, snake_case or PascalCase"],
  "technical": ["languages, frameworks, libraries, protocols and error class names"],
  "contextual": ["quoted strings, error messages, version numbers and constants"]
}

Use at most %d primary, %d secondary, %d technical and %d contextual entries. Omit nothing but use empty arrays when a tier has no entries.

Issue title: %s

Issue body:
%s`

const relevancePromptTemplate = `Decide whether this file needs to be read or changed to resolve the issue. Return a JSON object with exactly these fields:

{
  "is_relevant": true,
  "relevance_score": 0.0,
  "reason": "One sentence explaining the decision"
}

relevance_score is a number between 0 and 1.

Issue title: %s

Issue body:
%s

File path: %s

` + "```\n%s\n```"

// systemMessage appends the project context section, when present, to the
// base system prompt.
func systemMessage(project string) llm.Message {
	content := systemPrompt
	if project != "" {
		content += "\n\nWhat the maintainers say about this project:\n" + project
	}
	return llm.Message{Role: llm.RoleSystem, Content: content}
}

func keywordMessages(issue model.Issue, caps [4]int, project string) []llm.Message {
	return []llm.Message{
		systemMessage(project),
		{Role: llm.RoleUser, Content: fmt.Sprintf(keywordPromptTemplate, caps[0], caps[1], caps[2], caps[3], issue.Title, issue.Body)},
	}
}

func relevanceMessages(issue model.Issue, path, content, project string) []llm.Message {
	return []llm.Message{
		systemMessage(project),
		{Role: llm.RoleUser, Content: fmt.Sprintf(relevancePromptTemplate, issue.Title, issue.Body, path, content)},
	}
}
