package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/cli/config"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

func TestLoadPromptProfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid profile",
			content: `
persona = "an air cargo domain expert"
test_case_hints = ["Cover every shipment status"]
test_step_hints = ["Use AWB numbers like 123-12345678", "Mention the station code"]
`,
		},
		{
			name:    "empty profile",
			content: ``,
		},
		{
			name:    "unknown key",
			content: `tone = "friendly"`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "broken TOML",
			content: `persona = `,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.toml")
			gt.NoError(t, os.WriteFile(path, []byte(tt.content), 0600)).Required()

			profile, err := config.LoadPromptProfile(path)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, profile).NotNil()
		})
	}

	t.Run("fields are decoded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.toml")
		gt.NoError(t, os.WriteFile(path, []byte(tests[0].content), 0600)).Required()

		profile, err := config.LoadPromptProfile(path)
		gt.NoError(t, err).Required()
		gt.Value(t, profile.Persona).Equal("an air cargo domain expert")
		gt.Array(t, profile.TestStepHints).Length(2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadPromptProfile(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}

func TestPrompt_Configure(t *testing.T) {
	t.Run("default prompts without profile", func(t *testing.T) {
		builder, err := config.NewPromptForTest("").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, builder).NotNil()
	})

	t.Run("profile persona reaches the system prompt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`persona = "an air cargo domain expert"`), 0600)).Required()

		builder, err := config.NewPromptForTest(path).Configure()
		gt.NoError(t, err).Required()
		msg, err := builder.System("requirements")
		gt.NoError(t, err).Required()
		gt.String(t, msg.Content).Contains("an air cargo domain expert")
	})
}

func TestLogger_Configure(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		prev := logging.Default()
		defer logging.SetDefault(prev)

		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "console", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestSlack_Configure(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		notifier, err := config.NewSlackForTest("", "").Configure()
		gt.NoError(t, err)
		gt.Value(t, notifier).Nil()
	})

	t.Run("token without channel", func(t *testing.T) {
		_, err := config.NewSlackForTest("xoxb-test", "").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("configured", func(t *testing.T) {
		notifier, err := config.NewSlackForTest("xoxb-test", "C0123").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, notifier).NotNil()
	})
}

func TestRepository_Configure(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}
