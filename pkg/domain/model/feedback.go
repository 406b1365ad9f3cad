package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedbackID is a UUID-based identifier for Feedback
type FeedbackID string

// NewFeedbackID generates a new UUID v4 FeedbackID
func NewFeedbackID() FeedbackID {
	return FeedbackID(uuid.New().String())
}

// Feedback is an operator's comments on the three stages of one session
type Feedback struct {
	ID              FeedbackID
	SessionID       SessionID // empty when submitted outside a session
	UploadComment   string
	TestCaseComment string
	TestStepComment string
	CreatedAt       time.Time
}

// IsEmpty reports whether every comment is blank
func (f *Feedback) IsEmpty() bool {
	return strings.TrimSpace(f.UploadComment) == "" &&
		strings.TrimSpace(f.TestCaseComment) == "" &&
		strings.TrimSpace(f.TestStepComment) == ""
}
