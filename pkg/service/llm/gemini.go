package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// Gollem completes conversations through a gollem LLM client such as Gemini
// on Vertex AI. Each call opens a fresh session: the system message becomes
// the session system prompt and earlier turns are replayed as a transcript
// ahead of the final user message.
type Gollem struct {
	client gollem.LLMClient
}

var _ interfaces.Completer = (*Gollem)(nil)

// NewGollem creates a completer backed by a gollem LLM client
func NewGollem(client gollem.LLMClient) (*Gollem, error) {
	if client == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Gollem{client: client}, nil
}

// Complete sends the conversation and returns the reply text
func (c *Gollem) Complete(ctx context.Context, messages []model.Message) (string, error) {
	if err := validateConversation(messages); err != nil {
		return "", err
	}

	session, err := c.client.NewSession(ctx,
		gollem.WithSessionSystemPrompt(messages[0].Content),
	)
	if err != nil {
		return "", goerr.Wrap(model.ErrService, "failed to create LLM session", goerr.V("error", err.Error()))
	}

	inputs := []gollem.Input{}
	if transcript := renderTranscript(messages[1 : len(messages)-1]); transcript != "" {
		inputs = append(inputs, gollem.Text(transcript))
	}
	inputs = append(inputs, gollem.Text(messages[len(messages)-1].Content))

	resp, err := session.GenerateContent(ctx, inputs...)
	if err != nil {
		return "", goerr.Wrap(model.ErrService, "failed to generate content", goerr.V("error", err.Error()))
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(model.ErrService, "LLM returned no text")
	}

	logging.From(ctx).Debug("gollem completion done",
		"turns", len(messages),
		"texts", len(resp.Texts))

	return strings.Join(resp.Texts, ""), nil
}

// renderTranscript formats earlier turns so the model can see its previous
// answers, e.g. the test case list a step request refers to
func renderTranscript(turns []model.Message) string {
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, m := range turns {
		b.WriteString("\n[")
		if m.Role == types.RoleAssistant {
			b.WriteString("assistant")
		} else {
			b.WriteString("user")
		}
		b.WriteString("]\n")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}
