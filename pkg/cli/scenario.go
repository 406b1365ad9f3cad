package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/cli/config"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdScenario() *cli.Command {
	var format string
	var output string
	var llmCfg config.LLM
	var promptCfg config.Prompt

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (json, csv)",
			Value:       "json",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output path (default: stdout)",
			Destination: &output,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, promptCfg.Flags()...)

	return &cli.Command{
		Name:      "scenario",
		Usage:     "Generate one detailed test case from a scenario description",
		ArgsUsage: "<scenario>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if format != "json" && format != "csv" {
				return goerr.Wrap(config.ErrInvalidConfig, "invalid output format", goerr.V("format", format))
			}

			completer, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure completion client")
			}
			prompts, err := promptCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure prompts")
			}

			uc := usecase.New(memory.New(), completer, usecase.WithPromptBuilder(prompts))
			detail, err := uc.Scenario.Generate(ctx, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}

			var data []byte
			if format == "csv" {
				data, err = usecase.ScenarioCSV(detail)
			} else {
				data, err = json.MarshalIndent(detail, "", "  ")
			}
			if err != nil {
				return goerr.Wrap(err, "failed to render scenario test case")
			}
			if format == "json" {
				data = append(data, '\n')
			}

			return writeOutput(output, data)
		},
	}
}
