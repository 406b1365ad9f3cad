// Package llm implements interfaces.Completer on top of hosted chat
// completion services. A completer sends the whole conversation in one call
// and returns the reply text; it never retries.
package llm

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

// Backend names
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// validateConversation checks the shape every backend relies on: a leading
// system message and a final user message awaiting a reply
func validateConversation(messages []model.Message) error {
	if len(messages) < 2 {
		return goerr.Wrap(model.ErrInvalidConversation, "conversation needs a system and a user message",
			goerr.V("length", len(messages)))
	}
	if messages[0].Role != types.RoleSystem {
		return goerr.Wrap(model.ErrInvalidConversation, "conversation must start with a system message",
			goerr.V("role", messages[0].Role))
	}
	if last := messages[len(messages)-1]; last.Role != types.RoleUser {
		return goerr.Wrap(model.ErrInvalidConversation, "conversation must end with a user message",
			goerr.V("role", last.Role))
	}
	return nil
}
