package transcript

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/longkey1/agentc/internal/agentc"
)

// Transcript is the record of one completed conversation-start exchange.
// It is an archive only; nothing in it is sent back to the provider.
type Transcript struct {
	ID             string           `json:"id"`              // UUID v4
	AgentID        string           `json:"agent_id"`        // Agent the inputs were sent to
	PromptName     string           `json:"prompt_name"`     // Prompt template used (can be empty)
	Inputs         []agentc.Message `json:"inputs"`          // Messages in send order
	Response       json.RawMessage  `json:"response"`        // Provider response, unmodified
	ConversationID string           `json:"conversation_id"` // Provider conversation id, if any
	CreatedAt      time.Time        `json:"created_at"`
}

// New creates a transcript for a finished exchange
func New(agentID string, inputs []agentc.Message, response []byte) *Transcript {
	raw := append(json.RawMessage(nil), response...)
	return &Transcript{
		ID:             uuid.New().String(),
		AgentID:        agentID,
		Inputs:         append([]agentc.Message(nil), inputs...),
		Response:       raw,
		ConversationID: gjson.GetBytes(raw, "conversation_id").String(),
		CreatedAt:      time.Now(),
	}
}

// GetShortID returns the shortened transcript ID (first 8 characters)
func (t *Transcript) GetShortID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}

// InputCount returns the number of messages sent
func (t *Transcript) InputCount() int {
	return len(t.Inputs)
}

// Preview returns the first user message, shortened to n runes
func (t *Transcript) Preview(n int) string {
	for _, m := range t.Inputs {
		if m.Role == agentc.RoleUser {
			return shorten(m.Content, n)
		}
	}
	if len(t.Inputs) > 0 {
		return shorten(t.Inputs[0].Content, n)
	}
	return ""
}

func shorten(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' {
			r = r[:i]
			break
		}
	}
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
