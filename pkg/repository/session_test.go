package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Get unknown session", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		_, err := repo.Get(ctx, model.NewSessionID())
		gt.Error(t, err).Is(model.ErrSessionNotFound)
	})

	t.Run("Put stores a copy", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		s := model.NewSession(now)
		s.TestCases = []model.TestCase{{ID: "Test 1", Description: "Login works"}}
		gt.NoError(t, repo.Put(ctx, s)).Required()

		s.TestCases[0].Description = "changed"
		s.State = types.SessionStateStepsGenerated

		got, err := repo.Get(ctx, s.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.TestCases[0].Description).Equal("Login works")
		gt.Value(t, got.State).Equal(types.SessionStateEmpty)

		got.TestCases[0].Description = "changed again"
		again, err := repo.Get(ctx, s.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.TestCases[0].Description).Equal("Login works")
	})

	t.Run("Put rejects session without ID", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		gt.Value(t, repo.Put(ctx, &model.Session{})).NotNil()
	})

	t.Run("Delete", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		s := model.NewSession(now)
		gt.NoError(t, repo.Put(ctx, s)).Required()
		gt.NoError(t, repo.Delete(ctx, s.ID)).Required()
		gt.NoError(t, repo.Delete(ctx, s.ID)).Required()

		_, err := repo.Get(ctx, s.ID)
		gt.Error(t, err).Is(model.ErrSessionNotFound)
	})

	t.Run("DeleteIdle removes sessions updated before cutoff", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		old := model.NewSession(now.Add(-2 * time.Hour))
		fresh := model.NewSession(now)
		gt.NoError(t, repo.Put(ctx, old)).Required()
		gt.NoError(t, repo.Put(ctx, fresh)).Required()

		removed, err := repo.DeleteIdle(ctx, now.Add(-time.Hour))
		gt.NoError(t, err).Required()
		gt.Value(t, removed).Equal(1)

		count, err := repo.Count(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(1)

		_, err = repo.Get(ctx, fresh.ID)
		gt.NoError(t, err)
	})
}
