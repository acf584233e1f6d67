package mistral

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/longkey1/agentc/internal/agentc"
)

// ConversationResponse is the provider's reply, kept as the raw JSON object
// the endpoint returned. The accessors read well-known paths without
// changing the stored bytes.
type ConversationResponse struct {
	raw []byte
}

// NewConversationResponse wraps raw provider output. It is used when
// rebuilding a response from storage.
func NewConversationResponse(raw []byte) *ConversationResponse {
	return &ConversationResponse{raw: append([]byte(nil), raw...)}
}

// Raw returns a copy of the response body exactly as received.
func (r *ConversationResponse) Raw() []byte {
	return append([]byte(nil), r.raw...)
}

// String returns the response body as received.
func (r *ConversationResponse) String() string {
	return string(r.raw)
}

// MarshalJSON emits the body unchanged.
func (r *ConversationResponse) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

// ConversationID returns the provider-assigned conversation id, if any.
func (r *ConversationResponse) ConversationID() string {
	return gjson.GetBytes(r.raw, "conversation_id").String()
}

// Text joins the content of every assistant output entry. Content may be a
// plain string or a list of chunks; only text chunks are kept.
func (r *ConversationResponse) Text() string {
	return ExtractText(r.raw)
}

// ExtractText reads assistant text from a raw conversation response.
func ExtractText(raw []byte) string {
	var texts []string
	gjson.GetBytes(raw, "outputs").ForEach(func(_, entry gjson.Result) bool {
		if role := entry.Get("role"); role.Exists() && role.String() != string(agentc.RoleAssistant) {
			return true
		}
		content := entry.Get("content")
		switch {
		case content.Type == gjson.String:
			texts = append(texts, content.String())
		case content.IsArray():
			var b strings.Builder
			content.ForEach(func(_, chunk gjson.Result) bool {
				if t := chunk.Get("type"); t.Exists() && t.String() != "text" {
					return true
				}
				b.WriteString(chunk.Get("text").String())
				return true
			})
			if b.Len() > 0 {
				texts = append(texts, b.String())
			}
		}
		return true
	})
	return strings.Join(texts, "\n")
}
