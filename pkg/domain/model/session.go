package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

// SessionID is a UUID-based identifier for Session
type SessionID string

// NewSessionID generates a new UUID v4 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// String returns the string representation of the session ID
func (id SessionID) String() string {
	return string(id)
}

// Session is the state of one operator's pass through the pipeline. Pipeline
// transitions never modify a Session in place; they return a new value built
// with Clone.
type Session struct {
	ID           SessionID
	State        types.SessionState
	Document     *Document
	Conversation Conversation
	TestCases    []TestCase
	Selection    []string
	StepPlan     *StepPlan
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSession creates an empty session
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        NewSessionID(),
		State:     types.SessionStateEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session. The document is shared because it
// is immutable; the conversation is a value whose backing array is never
// written after creation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		ID:           s.ID,
		State:        s.State,
		Document:     s.Document,
		Conversation: s.Conversation,
		TestCases:    copyTestCases(s.TestCases),
		StepPlan:     copyStepPlan(s.StepPlan),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Selection != nil {
		out.Selection = make([]string, len(s.Selection))
		copy(out.Selection, s.Selection)
	}
	return out
}

// SelectedTestCases returns the selected test cases in selection order
func (s *Session) SelectedTestCases() []TestCase {
	out := make([]TestCase, 0, len(s.Selection))
	for _, id := range s.Selection {
		if tc, ok := FindTestCase(s.TestCases, id); ok {
			out = append(out, tc)
		}
	}
	return out
}
