// Package prompts holds the default system instruction given to the model.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed system_prompt.txt
var defaultSystemPrompt string

// Default returns the embedded system instruction.
func Default() string {
	return strings.TrimSpace(defaultSystemPrompt)
}

// Load reads the system instruction from path, or returns Default when path is empty.
func Load(path string) (string, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt %q: %w", path, err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt %q is empty", path)
	}
	return prompt, nil
}
