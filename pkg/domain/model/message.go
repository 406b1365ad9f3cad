package model

import "github.com/secmon-lab/testgenie/pkg/domain/types"

// Message is one role-tagged entry of a conversation
type Message struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
}

// SystemMessage creates a system message
func SystemMessage(content string) Message {
	return Message{Role: types.RoleSystem, Content: content}
}

// UserMessage creates a user message
func UserMessage(content string) Message {
	return Message{Role: types.RoleUser, Content: content}
}

// AssistantMessage creates an assistant message
func AssistantMessage(content string) Message {
	return Message{Role: types.RoleAssistant, Content: content}
}
