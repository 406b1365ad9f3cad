package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini selects the Vertex AI project, region and model used when
// --llm-backend=gemini
type Gemini struct {
	projectID string
	location  string
	model     string
}

func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Vertex AI project ID (required for the gemini backend)",
			Category:    "LLM",
			Sources:     cli.EnvVars("TESTGENIE_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI region",
			Category:    "LLM",
			Value:       "us-central1",
			Sources:     cli.EnvVars("TESTGENIE_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model ID",
			Category:    "LLM",
			Value:       gemini.DefaultModel,
			Sources:     cli.EnvVars("TESTGENIE_GEMINI_MODEL"),
			Destination: &g.model,
		},
	}
}

func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("gemini_project", g.projectID),
		slog.String("gemini_location", g.location),
		slog.String("gemini_model", g.model),
	}
}

// Configure fails with ErrMissingCredential when no project is set. Replies are
// generated at temperature 0.
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, goerr.Wrap(ErrMissingCredential, "--gemini-project is required for the gemini backend",
			goerr.V(FlagKey, "gemini-project"))
	}

	opts := []gemini.Option{gemini.WithTemperature(0)}
	if g.model != "" {
		opts = append(opts, gemini.WithModel(g.model))
	}

	client, err := gemini.New(ctx, g.projectID, g.location, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", g.projectID),
			goerr.V("location", g.location))
	}

	return client, nil
}
