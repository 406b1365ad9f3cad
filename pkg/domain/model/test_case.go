package model

import "github.com/secmon-lab/testgenie/pkg/domain/types"

// TestCase is a named testing scenario derived from the document
type TestCase struct {
	ID          string `json:"test_no"`
	Description string `json:"test"`
}

// TestStep is one numbered row of the merged step table
type TestStep struct {
	Number         int            `json:"step_number"`
	Type           types.StepType `json:"step_type"`
	Description    string         `json:"step_description"`
	ExpectedResult string         `json:"expected_result"`
}

// StepPlan is the detailed expansion of the selected test cases. Steps holds
// the preconditions first and then the procedural and verification steps,
// numbered continuously from 1.
type StepPlan struct {
	Description   string     `json:"description"`
	Preconditions []string   `json:"preconditions"`
	Steps         []TestStep `json:"steps"`
}

// FindTestCase returns the test case with the given ID
func FindTestCase(cases []TestCase, id string) (TestCase, bool) {
	for _, c := range cases {
		if c.ID == id {
			return c, true
		}
	}
	return TestCase{}, false
}

func copyTestCases(cases []TestCase) []TestCase {
	if cases == nil {
		return nil
	}
	out := make([]TestCase, len(cases))
	copy(out, cases)
	return out
}

func copyStepPlan(p *StepPlan) *StepPlan {
	if p == nil {
		return nil
	}
	out := &StepPlan{Description: p.Description}
	if p.Preconditions != nil {
		out.Preconditions = make([]string, len(p.Preconditions))
		copy(out.Preconditions, p.Preconditions)
	}
	if p.Steps != nil {
		out.Steps = make([]TestStep, len(p.Steps))
		copy(out.Steps, p.Steps)
	}
	return out
}
