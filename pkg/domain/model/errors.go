package model

import "errors"

// Pipeline error taxonomy. Callers wrap these with goerr so that errors.Is
// classifies a failure while the goerr values carry the details.
var (
	// ErrIngestion means no usable text could be extracted from a document
	ErrIngestion = errors.New("document ingestion failed")
	// ErrUnsupportedFormat means the document format has no extractor
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrDocumentMarker means the document text contains a prompt boundary marker
	ErrDocumentMarker = errors.New("document contains prompt boundary marker")

	// ErrService means the completion service call failed
	ErrService = errors.New("completion service error")
	// ErrParse means the model reply is not valid JSON after normalization
	ErrParse = errors.New("model reply is not valid JSON")
	// ErrSchema means the model reply is valid JSON of an unexpected shape
	ErrSchema = errors.New("model reply does not match expected schema")

	// ErrSelection means step generation was requested with no test case selected
	ErrSelection = errors.New("no test case selected")
	// ErrUnknownTestCase means a selected ID is not in the generated test case list
	ErrUnknownTestCase = errors.New("unknown test case")

	// ErrSessionNotFound means the session ID is unknown or expired
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidState means the transition is not allowed from the current state
	ErrInvalidState = errors.New("invalid session state for operation")
	// ErrInvalidConversation means a conversation does not start with a system message
	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrFeedbackNotFound means the feedback ID is unknown
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrEmptyFeedback means a feedback submission carries no comment
	ErrEmptyFeedback = errors.New("feedback has no comments")
	// ErrEmptyScenario means a scenario request carries no scenario text
	ErrEmptyScenario = errors.New("scenario is empty")
)

// Context keys for error values
const (
	SessionIDKey  = "session_id"
	FilenameKey   = "filename"
	StateKey      = "state"
	TestCaseIDKey = "test_case_id"
	ReplyKey      = "reply"
	FeedbackIDKey = "feedback_id"
)
