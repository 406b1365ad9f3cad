package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FeedbackCollection is the collection name without prefix
const FeedbackCollection = "feedback"

type feedbackDocument struct {
	ID              string    `firestore:"id"`
	SessionID       string    `firestore:"session_id"`
	UploadComment   string    `firestore:"upload_comment"`
	TestCaseComment string    `firestore:"test_case_comment"`
	TestStepComment string    `firestore:"test_step_comment"`
	CreatedAt       time.Time `firestore:"created_at"`
}

type feedbackRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFeedbackRepository(client *firestore.Client) *feedbackRepository {
	return &feedbackRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *feedbackRepository) feedbackCollection() string {
	return FeedbackCollectionName(r.collectionPrefix)
}

// FeedbackCollectionName returns the feedback collection name for a prefix
func FeedbackCollectionName(prefix string) string {
	if prefix != "" {
		return prefix + "_" + FeedbackCollection
	}
	return FeedbackCollection
}

func feedbackToDocument(f *model.Feedback) *feedbackDocument {
	return &feedbackDocument{
		ID:              string(f.ID),
		SessionID:       string(f.SessionID),
		UploadComment:   f.UploadComment,
		TestCaseComment: f.TestCaseComment,
		TestStepComment: f.TestStepComment,
		CreatedAt:       f.CreatedAt,
	}
}

func feedbackToModel(doc *feedbackDocument) *model.Feedback {
	return &model.Feedback{
		ID:              model.FeedbackID(doc.ID),
		SessionID:       model.SessionID(doc.SessionID),
		UploadComment:   doc.UploadComment,
		TestCaseComment: doc.TestCaseComment,
		TestStepComment: doc.TestStepComment,
		CreatedAt:       doc.CreatedAt,
	}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	doc := feedbackToDocument(feedback)
	if doc.ID == "" {
		doc.ID = string(model.NewFeedbackID())
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.feedbackCollection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create feedback", goerr.V("id", doc.ID))
	}

	return feedbackToModel(doc), nil
}

func (r *feedbackRepository) Get(ctx context.Context, id model.FeedbackID) (*model.Feedback, error) {
	doc, err := r.client.Collection(r.feedbackCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrFeedbackNotFound, "feedback not found", goerr.V(model.FeedbackIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get feedback", goerr.V(model.FeedbackIDKey, id))
	}

	var fbDoc feedbackDocument
	if err := doc.DataTo(&fbDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal feedback", goerr.V(model.FeedbackIDKey, id))
	}
	return feedbackToModel(&fbDoc), nil
}

func (r *feedbackRepository) List(ctx context.Context, limit int) ([]*model.Feedback, error) {
	query := r.client.Collection(r.feedbackCollection()).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.collect(query.Documents(ctx))
}

func (r *feedbackRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Feedback, error) {
	query := r.client.Collection(r.feedbackCollection()).
		Where("session_id", "==", string(sessionID)).
		OrderBy("created_at", firestore.Desc)

	entries, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feedback by session", goerr.V(model.SessionIDKey, sessionID))
	}
	return entries, nil
}

func (r *feedbackRepository) collect(iter *firestore.DocumentIterator) ([]*model.Feedback, error) {
	defer iter.Stop()

	var entries []*model.Feedback
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feedback")
		}

		var fbDoc feedbackDocument
		if err := doc.DataTo(&fbDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal feedback", goerr.V("id", doc.Ref.ID))
		}

		entries = append(entries, feedbackToModel(&fbDoc))
	}

	return entries, nil
}
