package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// ScenarioUseCase generates a standalone test case from a scenario description
type ScenarioUseCase struct {
	orchestrator *Orchestrator
}

// NewScenarioUseCase creates a new ScenarioUseCase instance
func NewScenarioUseCase(orchestrator *Orchestrator) *ScenarioUseCase {
	return &ScenarioUseCase{orchestrator: orchestrator}
}

// Generate produces one test case with objective, preconditions, steps and
// postconditions
func (uc *ScenarioUseCase) Generate(ctx context.Context, scenario string) (*model.TestCaseDetail, error) {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return nil, goerr.Wrap(model.ErrEmptyScenario, "scenario is required")
	}

	detail, err := uc.orchestrator.GenerateScenario(ctx, scenario)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("scenario test case generated",
		"name", detail.Name,
		"steps", len(detail.Steps))

	return detail, nil
}
