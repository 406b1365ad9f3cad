package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/testgenie/pkg/prompt"
	"github.com/urfave/cli/v3"
)

// Prompt holds the path of an optional prompt profile
type Prompt struct {
	profilePath string
}

// PromptProfile is the TOML layout of a prompt profile
//
//	persona = "an aviation cargo domain expert"
//	test_case_hints = ["Cover every cargo status transition"]
//	test_step_hints = ["Use the AWB number format 123-12345678"]
type PromptProfile struct {
	Persona       string   `toml:"persona"`
	TestCaseHints []string `toml:"test_case_hints"`
	TestStepHints []string `toml:"test_step_hints"`
}

func (x *Prompt) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt-profile",
			Usage:       "TOML file customizing the prompt persona and per-stage hints",
			Category:    "Prompt",
			Destination: &x.profilePath,
			Sources:     cli.EnvVars("TESTGENIE_PROMPT_PROFILE"),
		},
	}
}

func (x Prompt) LogValue() slog.Value {
	return slog.GroupValue(slog.String("profile", x.profilePath))
}

// Configure builds the prompt builder. Without a profile the default prompts
// are used.
func (x *Prompt) Configure() (*prompt.Builder, error) {
	if x.profilePath == "" {
		return prompt.New(prompt.Profile{}), nil
	}

	profile, err := LoadPromptProfile(x.profilePath)
	if err != nil {
		return nil, err
	}
	return prompt.New(prompt.Profile{
		Persona:       profile.Persona,
		TestCaseHints: profile.TestCaseHints,
		TestStepHints: profile.TestStepHints,
	}), nil
}

// LoadPromptProfile loads a prompt profile from a TOML file
func LoadPromptProfile(path string) (*PromptProfile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "prompt profile not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read prompt profile", goerr.V(ConfigPathKey, path))
	}

	var profile PromptProfile
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&profile); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse prompt profile",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	return &profile, nil
}
