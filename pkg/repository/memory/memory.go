package memory

import (
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps all data in process memory. It backs tests and single
// instance deployments without Firestore.
type Memory struct {
	feedback *feedbackRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		feedback: newFeedbackRepository(),
	}
}

func (m *Memory) Feedback() interfaces.FeedbackRepository {
	return m.feedback
}

func (m *Memory) Close() error {
	return nil
}
