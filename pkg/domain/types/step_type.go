package types

import (
	"fmt"
	"strings"
)

// StepType classifies a row of a generated test step table
type StepType string

const (
	StepTypePrecondition      StepType = "precondition"
	StepTypeTestStep          StepType = "test-step"
	StepTypeVerificationPoint StepType = "verification-point"
)

// AllStepTypes returns all valid step types
func AllStepTypes() []StepType {
	return []StepType{
		StepTypePrecondition,
		StepTypeTestStep,
		StepTypeVerificationPoint,
	}
}

// IsValid checks if the step type is valid
func (s StepType) IsValid() bool {
	switch s {
	case StepTypePrecondition,
		StepTypeTestStep,
		StepTypeVerificationPoint:
		return true
	default:
		return false
	}
}

// String returns the string representation of the step type
func (s StepType) String() string {
	return string(s)
}

// ParseStepType parses the spellings models actually emit ("Verification Point",
// "test_step", "test", "precondtion") into a StepType.
func ParseStepType(s string) (StepType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)

	switch key {
	case "precondition", "precondtion", "pre-condition", "preconditions":
		return StepTypePrecondition, nil
	case "test-step", "test", "step", "teststep", "procedure", "action":
		return StepTypeTestStep, nil
	case "verification-point", "verification", "verify", "verificationpoint", "verification-step":
		return StepTypeVerificationPoint, nil
	default:
		return "", fmt.Errorf("invalid step type: %s", s)
	}
}
