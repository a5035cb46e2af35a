package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey names an embedded prompt; the file is prompts/<key>.prompt.
type PromptKey string

const CodeReviewPrompt PromptKey = "code_review"

var promptFuncs = template.FuncMap{
	"join": strings.Join,
}

// PromptManager holds the parsed prompt templates shared by every backend.
type PromptManager struct {
	prompts map[PromptKey]*template.Template
}

func NewPromptManager() (*PromptManager, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	pm := &PromptManager{prompts: make(map[PromptKey]*template.Template, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := PromptKey(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))

		tmpl, err := template.New(entry.Name()).Funcs(promptFuncs).ParseFS(promptFiles, "prompts/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", entry.Name(), err)
		}
		pm.prompts[key] = tmpl
	}
	return pm, nil
}

// Render executes the prompt for key with data.
func (pm *PromptManager) Render(key PromptKey, data any) (string, error) {
	tmpl, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompt registered for key '%s'", key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
