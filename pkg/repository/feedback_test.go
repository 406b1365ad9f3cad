package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/repository/firestore"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
)

func runFeedbackRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Feedback().Create(ctx, &model.Feedback{
			SessionID:     model.NewSessionID(),
			UploadComment: "Upload of a 40 page PDF took a minute",
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Value(t, created.UploadComment).Equal("Upload of a 40 page PDF took a minute")
	})

	t.Run("Create keeps given ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := model.NewFeedbackID()
		created, err := repo.Feedback().Create(ctx, &model.Feedback{
			ID:              id,
			TestCaseComment: "Missing negative cases",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(id)
	})

	t.Run("Get returns stored entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Feedback().Create(ctx, &model.Feedback{TestStepComment: "Step 4 repeats step 2"})
		gt.NoError(t, err).Required()

		got, err := repo.Feedback().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.TestStepComment).Equal("Step 4 repeats step 2")
	})

	t.Run("Get with unknown ID returns ErrFeedbackNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Feedback().Get(context.Background(), model.NewFeedbackID())
		gt.Error(t, err).Is(model.ErrFeedbackNotFound)
	})

	t.Run("ListBySession returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sessionID := model.NewSessionID()
		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 3; i++ {
			_, err := repo.Feedback().Create(ctx, &model.Feedback{
				SessionID:       sessionID,
				TestStepComment: fmt.Sprintf("comment %d", i),
				CreatedAt:       base.Add(time.Duration(i) * time.Second),
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Feedback().Create(ctx, &model.Feedback{
			SessionID:       model.NewSessionID(),
			TestStepComment: "other session",
		})
		gt.NoError(t, err).Required()

		entries, err := repo.Feedback().ListBySession(ctx, sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(3).Required()
		gt.Value(t, entries[0].TestStepComment).Equal("comment 2")
		gt.Value(t, entries[2].TestStepComment).Equal("comment 0")
	})

	t.Run("ListBySession with unknown session returns empty", func(t *testing.T) {
		repo := newRepo(t)
		entries, err := repo.Feedback().ListBySession(context.Background(), model.NewSessionID())
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)
	})

	t.Run("List applies limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Feedback().Create(ctx, &model.Feedback{UploadComment: fmt.Sprintf("c%d", i)})
			gt.NoError(t, err).Required()
		}

		entries, err := repo.Feedback().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryFeedbackRepository(t *testing.T) {
	runFeedbackRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreFeedbackRepository(t *testing.T) {
	runFeedbackRepositoryTest(t, newFirestoreRepository)
}
