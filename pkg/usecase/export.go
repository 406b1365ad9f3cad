package usecase

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

const (
	// ExportFilename is the download name of the step table
	ExportFilename = "testcase_steps.csv"
	// ScenarioExportFilename is the download name of a scenario test case
	ScenarioExportFilename = "scenario_steps.csv"
	// CSVContentType is the MIME type of exports
	CSVContentType = "text/csv; charset=utf-8"
)

var stepPlanHeader = []string{"step_number", "step_type", "step_description", "expected_result"}

var scenarioHeader = []string{"Step", "Action", "Expected_Result"}

// StepPlanCSV renders the merged step table, preconditions included
func StepPlanCSV(plan *model.StepPlan) ([]byte, error) {
	rows := make([][]string, 0, len(plan.Steps)+1)
	rows = append(rows, stepPlanHeader)
	for _, step := range plan.Steps {
		rows = append(rows, []string{
			strconv.Itoa(step.Number),
			step.Type.String(),
			step.Description,
			step.ExpectedResult,
		})
	}
	return writeCSV(rows)
}

// ScenarioCSV renders the steps of a scenario test case
func ScenarioCSV(detail *model.TestCaseDetail) ([]byte, error) {
	rows := make([][]string, 0, len(detail.Steps)+1)
	rows = append(rows, scenarioHeader)
	for _, step := range detail.Steps {
		rows = append(rows, []string{
			strconv.Itoa(step.Number),
			step.Action,
			step.ExpectedResult,
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, goerr.Wrap(err, "failed to write CSV", goerr.V("rows", len(rows)))
	}
	return buf.Bytes(), nil
}
