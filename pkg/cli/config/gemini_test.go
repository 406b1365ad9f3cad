package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func TestGemini_Configure(t *testing.T) {
	t.Run("requires project ID", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1")
		client, err := cfg.Configure(t.Context())
		gt.Error(t, err).Is(config.ErrMissingCredential)
		gt.Bool(t, client == nil).True()
	})
}

func TestGemini_Flags(t *testing.T) {
	run := func(t *testing.T, args ...string) *config.Gemini {
		t.Helper()
		var cfg config.Gemini
		cmd := &cli.Command{
			Name:   "testgenie",
			Flags:  cfg.Flags(),
			Action: func(context.Context, *cli.Command) error { return nil },
		}
		gt.NoError(t, cmd.Run(context.Background(), append([]string{"testgenie"}, args...))).Required()
		return &cfg
	}

	t.Run("defaults to the gollem model", func(t *testing.T) {
		cfg := run(t)
		gt.Value(t, cfg.Model()).Equal(gemini.DefaultModel)
	})

	t.Run("model flag", func(t *testing.T) {
		cfg := run(t, "--gemini-model", "gemini-2.5-pro")
		gt.Value(t, cfg.Model()).Equal("gemini-2.5-pro")
	})

	t.Run("model from environment", func(t *testing.T) {
		t.Setenv("TESTGENIE_GEMINI_MODEL", "gemini-2.0-flash")
		cfg := run(t)
		gt.Value(t, cfg.Model()).Equal("gemini-2.0-flash")
	})
}
