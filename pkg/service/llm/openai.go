package llm

import (
	"context"
	"errors"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// DefaultOpenAIModel is a long-context chat model able to hold a whole
// requirements document in the system message
const DefaultOpenAIModel = "gpt-3.5-turbo-16k"

// OpenAI completes conversations with the OpenAI chat completion API
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ interfaces.Completer = (*OpenAI)(nil)

// OpenAIOption configures an OpenAI completer
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model       string
	baseURL     string
	temperature float32
}

// WithOpenAIModel sets the model identifier
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at an OpenAI compatible endpoint
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// WithOpenAITemperature sets the sampling temperature. The default is 0.
func WithOpenAITemperature(t float32) OpenAIOption {
	return func(c *openAIConfig) {
		c.temperature = t
	}
}

// NewOpenAI creates an OpenAI completer. An API key is required.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}

	cfg := openAIConfig{model: DefaultOpenAIModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.model,
		temperature: cfg.temperature,
	}, nil
}

// Model returns the model identifier
func (c *OpenAI) Model() string {
	return c.model
}

// Complete sends the conversation and returns the content of the first choice
func (c *OpenAI) Complete(ctx context.Context, messages []model.Message) (string, error) {
	if err := validateConversation(messages); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: c.temperature,
	}
	// zero is dropped by omitempty and the API would apply its default of 1
	if req.Temperature == 0 {
		req.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		values := []goerr.Option{
			goerr.V("model", c.model),
			goerr.V("error", err.Error()),
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			values = append(values,
				goerr.V("status", apiErr.HTTPStatusCode),
				goerr.V("type", apiErr.Type))
		}
		return "", goerr.Wrap(model.ErrService, "chat completion failed", values...)
	}

	if len(resp.Choices) == 0 {
		return "", goerr.Wrap(model.ErrService, "chat completion returned no choices",
			goerr.V("model", c.model),
			goerr.V("id", resp.ID))
	}

	logging.From(ctx).Debug("chat completion done",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case types.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case types.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return out
}
