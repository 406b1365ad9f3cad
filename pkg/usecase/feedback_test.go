package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/async"
)

type mockNotifier struct {
	mu       sync.Mutex
	received []*model.Feedback
}

func (m *mockNotifier) NotifyFeedback(_ context.Context, fb *model.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, fb)
	return nil
}

func TestFeedbackSubmit(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	uc := usecase.NewFeedbackUseCase(memory.New(), notifier)

	sessionID := model.NewSessionID()
	created, err := uc.Submit(ctx, usecase.FeedbackInput{
		SessionID:       sessionID,
		UploadComment:   "  upload was slow  ",
		TestStepComment: "steps look good",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).NotEqual(model.FeedbackID(""))
	gt.Value(t, created.UploadComment).Equal("upload was slow")
	gt.Value(t, created.TestCaseComment).Equal("")

	async.Wait()
	notifier.mu.Lock()
	gt.Array(t, notifier.received).Length(1).Required()
	gt.Value(t, notifier.received[0].ID).Equal(created.ID)
	notifier.mu.Unlock()

	entries, err := uc.List(ctx, sessionID, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1).Required()
	gt.Value(t, entries[0].TestStepComment).Equal("steps look good")

	others, err := uc.List(ctx, model.NewSessionID(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, others).Length(0)
}

func TestFeedbackSubmitEmpty(t *testing.T) {
	notifier := &mockNotifier{}
	uc := usecase.NewFeedbackUseCase(memory.New(), notifier)

	_, err := uc.Submit(context.Background(), usecase.FeedbackInput{UploadComment: " \n "})
	gt.Error(t, err).Is(model.ErrEmptyFeedback)

	async.Wait()
	gt.Array(t, notifier.received).Length(0)
}

func TestFeedbackListLimit(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewFeedbackUseCase(memory.New(), nil)

	for range 3 {
		_, err := uc.Submit(ctx, usecase.FeedbackInput{TestCaseComment: "more cases please"})
		gt.NoError(t, err).Required()
	}

	entries, err := uc.List(ctx, "", 2)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(2)

	all, err := uc.List(ctx, "", 0)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)
}
