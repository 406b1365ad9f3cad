package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Feedback() FeedbackRepository
	Close() error
}
