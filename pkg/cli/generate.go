package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/cli/config"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdGenerate() *cli.Command {
	var input string
	var output string
	var selection []string
	var casesOnly bool
	var llmCfg config.LLM
	var promptCfg config.Prompt

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Requirements document (PDF, DOCX, HTML, markdown or text)",
			Required:    true,
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "CSV output path (default: stdout)",
			Destination: &output,
		},
		&cli.StringSliceFlag{
			Name:        "select",
			Aliases:     []string{"s"},
			Usage:       "Test case ID to expand into steps, repeatable (default: all)",
			Destination: &selection,
		},
		&cli.BoolFlag{
			Name:        "cases-only",
			Usage:       "Stop after listing test cases",
			Destination: &casesOnly,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, promptCfg.Flags()...)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate test cases and steps from a document and write them as CSV",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			completer, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure completion client")
			}
			prompts, err := promptCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure prompts")
			}

			// #nosec G304 - path is provided by CLI argument
			content, err := os.ReadFile(input)
			if err != nil {
				return goerr.Wrap(err, "failed to read input", goerr.V("path", input))
			}

			uc := usecase.New(memory.New(), completer, usecase.WithPromptBuilder(prompts))
			return runGenerate(ctx, uc.Session, filepath.Base(input), content, selection, casesOnly, output)
		},
	}
}

func runGenerate(ctx context.Context, uc *usecase.SessionUseCase, filename string, content []byte, selection []string, casesOnly bool, output string) error {
	s, err := uc.Create(ctx, filename, content)
	if err != nil {
		return err
	}
	defer func() {
		if err := uc.Delete(ctx, s.ID); err != nil {
			logging.From(ctx).Warn("failed to discard session", "error", err)
		}
	}()

	s, err = uc.GenerateTestCases(ctx, s.ID)
	if err != nil {
		return err
	}
	printTestCases(os.Stderr, s.TestCases)
	if casesOnly {
		return nil
	}

	if len(selection) == 0 {
		for _, tc := range s.TestCases {
			selection = append(selection, tc.ID)
		}
	}
	if _, err := uc.Select(ctx, s.ID, selection); err != nil {
		return err
	}

	s, err = uc.GenerateSteps(ctx, s.ID)
	if err != nil {
		return err
	}
	printStepPlan(os.Stderr, s.StepPlan)

	data, err := uc.ExportCSV(ctx, s.ID)
	if err != nil {
		return err
	}
	return writeOutput(output, data)
}

func printTestCases(w io.Writer, cases []model.TestCase) {
	header := color.New(color.FgCyan, color.Bold)
	id := color.New(color.FgYellow)

	_, _ = header.Fprintf(w, "Test cases (%d)\n", len(cases))
	for _, tc := range cases {
		_, _ = id.Fprintf(w, "  %-10s", tc.ID)
		_, _ = io.WriteString(w, " "+tc.Description+"\n")
	}
}

func printStepPlan(w io.Writer, plan *model.StepPlan) {
	header := color.New(color.FgCyan, color.Bold)
	kind := map[string]*color.Color{
		"precondition":       color.New(color.FgMagenta),
		"test-step":          color.New(color.FgGreen),
		"verification-point": color.New(color.FgBlue),
	}

	_, _ = header.Fprintf(w, "Test steps: %s\n", plan.Description)
	for _, step := range plan.Steps {
		c, ok := kind[step.Type.String()]
		if !ok {
			c = color.New(color.Reset)
		}
		_, _ = c.Fprintf(w, "  %3d %-18s", step.Number, step.Type)
		_, _ = io.WriteString(w, " "+step.Description+"\n")
	}
}

// writeOutput writes data to path, or to stdout when path is empty
func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return goerr.Wrap(err, "failed to write output")
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "Saved %s\n", path) //nolint:errcheck
	return nil
}
