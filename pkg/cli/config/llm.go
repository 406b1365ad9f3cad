package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

// LLM selects and configures the completion backend
type LLM struct {
	backend       string
	openaiAPIKey  string
	openaiModel   string
	openaiBaseURL string
	gemini        Gemini
}

func (x *LLM) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-backend",
			Usage:       "Completion backend (openai, gemini)",
			Category:    "LLM",
			Value:       llm.BackendOpenAI,
			Sources:     cli.EnvVars("TESTGENIE_LLM_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("TESTGENIE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI chat model",
			Category:    "LLM",
			Value:       llm.DefaultOpenAIModel,
			Sources:     cli.EnvVars("TESTGENIE_OPENAI_MODEL"),
			Destination: &x.openaiModel,
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "OpenAI API base URL (for compatible endpoints)",
			Category:    "LLM",
			Sources:     cli.EnvVars("TESTGENIE_OPENAI_BASE_URL"),
			Destination: &x.openaiBaseURL,
		},
	}
	return append(flags, x.gemini.Flags()...)
}

func (x LLM) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("backend", x.backend),
		slog.String("openai_model", x.openaiModel),
		slog.Int("openai_api_key.len", len(x.openaiAPIKey)),
	}
	attrs = append(attrs, x.gemini.LogAttrs()...)
	return slog.GroupValue(attrs...)
}

// Configure creates the completion client of the selected backend. A missing
// credential is an error so that the process fails at startup rather than on
// the first request.
func (x *LLM) Configure(ctx context.Context) (interfaces.Completer, error) {
	switch x.backend {
	case llm.BackendOpenAI:
		if x.openaiAPIKey == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "--openai-api-key is required for the openai backend",
				goerr.V(FlagKey, "openai-api-key"))
		}
		opts := []llm.OpenAIOption{llm.WithOpenAIModel(x.openaiModel)}
		if x.openaiBaseURL != "" {
			opts = append(opts, llm.WithOpenAIBaseURL(x.openaiBaseURL))
		}
		client, err := llm.NewOpenAI(x.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return llm.Instrument(llm.BackendOpenAI, client), nil

	case llm.BackendGemini:
		llmClient, err := x.gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		client, err := llm.NewGollem(llmClient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini completer")
		}
		return llm.Instrument(llm.BackendGemini, client), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown LLM backend", goerr.V(BackendKey, x.backend))
	}
}
