// Package agentc provides the core types shared by the conversation client,
// prompt templates and transcripts.
package agentc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role identifies who authored a message in a conversation.
type Role string

const (
	// RoleUser marks a message written by the end-user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the agent.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction message.
	RoleSystem Role = "system"
)

// Roles lists every supported role.
var Roles = []Role{RoleUser, RoleAssistant, RoleSystem}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one role-tagged unit of dialogue content.
type Message struct {
	Role    Role   `json:"role" toml:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" toml:"content" validate:"required"`
}

var messageValidator = NewValidator()

// NewValidator returns a struct validator that reports fields by their JSON
// names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateMessages checks that messages is non-empty and that every element
// carries a supported role and non-empty content.
func ValidateMessages(messages []Message) error {
	if len(messages) == 0 {
		return errors.New("at least one message is required")
	}
	for i, m := range messages {
		if err := messageValidator.Struct(m); err != nil {
			return fmt.Errorf("messages[%d]: %s", i, DescribeValidationError(err))
		}
	}
	return nil
}

// DescribeValidationError turns validator errors into a short human-readable
// sentence. Other errors are returned as their message.
func DescribeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s must not be empty", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s %q must be one of [%s]", field, fe.Value(), fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s needs at least %s element(s)", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %q", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// ParseMessageString parses a message in "role:content" format.
//
// Example:
//
//	msg, err := ParseMessageString("user:Hello!")
//	// msg.Role = "user", msg.Content = "Hello!"
func ParseMessageString(s string) (Message, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Message{}, fmt.Errorf("invalid message format: %s (expected format: role:content, e.g., user:Hello!)", s)
	}

	role := Role(strings.ToLower(strings.TrimSpace(parts[0])))
	content := strings.TrimSpace(parts[1])

	if !role.Valid() {
		return Message{}, fmt.Errorf("unsupported role %q (supported roles: user, assistant, system)", role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("message content cannot be empty")
	}

	return Message{Role: role, Content: content}, nil
}

// FormatMessageString formats a message into "role:content" format.
func FormatMessageString(m Message) string {
	return fmt.Sprintf("%s:%s", m.Role, m.Content)
}
