package cli

var (
	GetIndexConfig = getIndexConfig
	RunGenerate    = runGenerate
	PrintTestCases = printTestCases
	PrintStepPlan  = printStepPlan
)
