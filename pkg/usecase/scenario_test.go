package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/usecase"
)

func TestScenarioGenerate(t *testing.T) {
	ctx := context.Background()
	completer := newMockCompleter(reply("```json\n"+scenarioReply+"\n```"), reply(scenarioReply))
	uc := usecase.NewScenarioUseCase(usecase.NewOrchestrator(completer, nil, 0, clock))

	first, err := uc.Generate(ctx, "Login with an expired password")
	gt.NoError(t, err).Required()
	gt.Value(t, first.Objective).Equal("User is forced to reset an expired password")
	gt.Value(t, first.Postconditions).Equal([]string{"Password is updated"})

	// every generation starts a fresh conversation
	_, err = uc.Generate(ctx, "Login with an expired password")
	gt.NoError(t, err).Required()
	gt.Array(t, completer.calls[1]).Length(2)
	gt.Value(t, completer.calls[1]).Equal(completer.calls[0])

	data, err := usecase.ScenarioCSV(first)
	gt.NoError(t, err).Required()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	gt.Value(t, lines).Equal([]string{
		"Step,Action,Expected_Result",
		"1,Log in,Reset form is shown",
		"2,Set a new password,Home screen is shown",
	})
}

func TestScenarioGenerateEmpty(t *testing.T) {
	completer := newMockCompleter()
	uc := usecase.NewScenarioUseCase(usecase.NewOrchestrator(completer, nil, 0, clock))

	_, err := uc.Generate(context.Background(), "   ")
	gt.Error(t, err).Is(model.ErrEmptyScenario)
	gt.Value(t, completer.callCount()).Equal(0)
}
