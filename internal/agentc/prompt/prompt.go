package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/longkey1/agentc/internal/agentc"
)

// Prompt represents the structure of a TOML prompt file.
//
// Messages, when present, is the full ordered sequence sent to the agent.
// Otherwise System (optional) and User are used as a system message followed
// by a user message.
type Prompt struct {
	AgentID  *string          `toml:"agent_id,omitempty"`
	System   string           `toml:"system"`
	User     string           `toml:"user"`
	Messages []agentc.Message `toml:"messages"`
}

// LoadPrompt loads a prompt file and returns its contents
func LoadPrompt(filePath string) (*Prompt, error) {
	var prompt Prompt
	if _, err := toml.DecodeFile(filePath, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %w", err)
	}
	return &prompt, nil
}

// Sequence returns the message templates in send order, before placeholder
// substitution
func (p *Prompt) Sequence() []agentc.Message {
	if len(p.Messages) > 0 {
		return append([]agentc.Message(nil), p.Messages...)
	}
	var seq []agentc.Message
	if p.System != "" {
		seq = append(seq, agentc.Message{Role: agentc.RoleSystem, Content: p.System})
	}
	if p.User != "" {
		seq = append(seq, agentc.Message{Role: agentc.RoleUser, Content: p.User})
	}
	return seq
}
