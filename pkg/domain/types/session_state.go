package types

// SessionState is the position of a session in the generation pipeline
type SessionState string

const (
	SessionStateEmpty              SessionState = "EMPTY"
	SessionStateDocumentLoaded     SessionState = "DOCUMENT_LOADED"
	SessionStateTestCasesGenerated SessionState = "TEST_CASES_GENERATED"
	SessionStateStepsGenerated     SessionState = "STEPS_GENERATED"
)

// IsValid checks if the session state is valid
func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateEmpty,
		SessionStateDocumentLoaded,
		SessionStateTestCasesGenerated,
		SessionStateStepsGenerated:
		return true
	default:
		return false
	}
}

// Normalize treats empty as SessionStateEmpty
func (s SessionState) Normalize() SessionState {
	if s == "" {
		return SessionStateEmpty
	}
	return s
}

// HasDocument reports whether a document has been loaded in this state
func (s SessionState) HasDocument() bool {
	return s.Normalize() != SessionStateEmpty
}

// HasTestCases reports whether test cases are available for selection
func (s SessionState) HasTestCases() bool {
	switch s {
	case SessionStateTestCasesGenerated, SessionStateStepsGenerated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the session state
func (s SessionState) String() string {
	return string(s)
}
