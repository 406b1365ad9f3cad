package model

// TestCaseDetail is a single fully described test case generated from a
// free-text scenario
type TestCaseDetail struct {
	Name           string         `json:"test_case"`
	Objective      string         `json:"objective"`
	Preconditions  []string       `json:"preconditions"`
	Steps          []ScenarioStep `json:"test_steps"`
	Postconditions []string       `json:"postconditions"`
}

// ScenarioStep is one action of a scenario test case
type ScenarioStep struct {
	Number         int    `json:"step"`
	Action         string `json:"action"`
	ExpectedResult string `json:"expected_result"`
}
