package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

// Conversation is the ordered message history sent in full on every completion
// call. It is append-only: Append returns a new Conversation and never touches
// the receiver, so an earlier snapshot is always a prefix of a later one.
type Conversation struct {
	messages []Message
}

// NewConversation starts a conversation with the system message followed by
// the first user message.
func NewConversation(system, firstUser Message) (Conversation, error) {
	if system.Role != types.RoleSystem {
		return Conversation{}, goerr.Wrap(ErrInvalidConversation, "first message must be a system message",
			goerr.V("role", system.Role))
	}
	if firstUser.Role != types.RoleUser {
		return Conversation{}, goerr.Wrap(ErrInvalidConversation, "second message must be a user message",
			goerr.V("role", firstUser.Role))
	}
	return Conversation{messages: []Message{system, firstUser}}, nil
}

// RestoreConversation rebuilds a conversation from a stored snapshot
func RestoreConversation(messages []Message) (Conversation, error) {
	if len(messages) == 0 {
		return Conversation{}, nil
	}
	if messages[0].Role != types.RoleSystem {
		return Conversation{}, goerr.Wrap(ErrInvalidConversation, "first message must be a system message",
			goerr.V("role", messages[0].Role))
	}
	for i, m := range messages[1:] {
		if m.Role == types.RoleSystem || !m.Role.IsValid() {
			return Conversation{}, goerr.Wrap(ErrInvalidConversation, "unexpected role",
				goerr.V("index", i+1), goerr.V("role", m.Role))
		}
	}
	restored := make([]Message, len(messages))
	copy(restored, messages)
	return Conversation{messages: restored}, nil
}

// Append returns a new conversation with msg at the end. System messages can
// only open a conversation and are rejected here.
func (c Conversation) Append(msg Message) (Conversation, error) {
	if len(c.messages) == 0 {
		return Conversation{}, goerr.Wrap(ErrInvalidConversation, "conversation is not initialized")
	}
	if msg.Role == types.RoleSystem || !msg.Role.IsValid() {
		return Conversation{}, goerr.Wrap(ErrInvalidConversation, "only user or assistant messages can be appended",
			goerr.V("role", msg.Role))
	}

	next := make([]Message, len(c.messages), len(c.messages)+1)
	copy(next, c.messages)
	next = append(next, msg)
	return Conversation{messages: next}, nil
}

// Snapshot returns a copy of the message sequence
func (c Conversation) Snapshot() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c Conversation) Len() int {
	return len(c.messages)
}

// IsZero reports whether the conversation has not been initialized
func (c Conversation) IsZero() bool {
	return len(c.messages) == 0
}

// Last returns the most recent message
func (c Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// AwaitingReply reports whether the last message is a user message with no
// assistant reply yet
func (c Conversation) AwaitingReply() bool {
	last, ok := c.Last()
	return ok && last.Role == types.RoleUser
}
