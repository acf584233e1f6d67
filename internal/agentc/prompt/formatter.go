package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/longkey1/agentc/internal/agentc"
)

// Formatted is the result of applying a prompt template
type Formatted struct {
	Messages []agentc.Message
	AgentID  *string // agent_id from the template, if set
	Path     string  // file the template was loaded from
}

// FindPrompt returns the path of the named prompt. Later directories take
// precedence over earlier ones.
func FindPrompt(promptName string, promptDirs []string) (string, error) {
	promptFile := promptName
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	var promptPath string
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
		}
	}

	if promptPath == "" {
		return "", fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}
	return promptPath, nil
}

// FormatMessages loads the named prompt template and fills its placeholders.
// {{input}} is replaced by message; args add "key:value" placeholders.
func FormatMessages(message string, promptName string, promptDirs []string, args []string) (*Formatted, error) {
	promptPath, err := FindPrompt(promptName, promptDirs)
	if err != nil {
		return nil, err
	}

	promptTemplate, err := LoadPrompt(promptPath)
	if err != nil {
		return nil, fmt.Errorf("error loading prompt file: %w", err)
	}

	argMap, err := processArgs(args)
	if err != nil {
		return nil, fmt.Errorf("error processing arguments: %w", err)
	}

	replacements := make(map[string]string, len(argMap)+1)
	replacements["input"] = message
	for key, value := range argMap {
		replacements[key] = value
	}

	sequence := promptTemplate.Sequence()
	if len(sequence) == 0 {
		return nil, fmt.Errorf("prompt file '%s' defines no messages", promptPath)
	}

	messages := make([]agentc.Message, 0, len(sequence))
	for _, m := range sequence {
		content := m.Content
		for key, value := range replacements {
			content = strings.ReplaceAll(content, fmt.Sprintf("{{%s}}", key), value)
		}
		messages = append(messages, agentc.Message{
			Role:    agentc.Role(strings.ToLower(strings.TrimSpace(string(m.Role)))),
			Content: strings.TrimSpace(content),
		})
	}

	if err := agentc.ValidateMessages(messages); err != nil {
		return nil, fmt.Errorf("invalid prompt template %s: %w", promptPath, err)
	}

	return &Formatted{
		Messages: messages,
		AgentID:  promptTemplate.AgentID,
		Path:     promptPath,
	}, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove escape characters from value
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "" {
			return nil, fmt.Errorf("invalid argument format: %s. Key cannot be empty", arg)
		}
		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}

// ListPrompts returns the names of all templates found under promptDirs,
// mapped to the directory FindPrompt would load each from. Names are slash-separated
// paths without the .toml extension.
func ListPrompts(promptDirs []string) (map[string]string, error) {
	found := make(map[string]string)
	for _, promptDir := range promptDirs {
		if _, err := os.Stat(promptDir); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(promptDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".toml") {
				return nil
			}
			relPath, err := filepath.Rel(promptDir, path)
			if err != nil {
				return nil
			}
			name := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))
			found[name] = promptDir
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking prompt directory %s: %w", promptDir, err)
		}
	}
	return found, nil
}
