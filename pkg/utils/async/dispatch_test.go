package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/utils/async"
)

func TestDispatch(t *testing.T) {
	var calls atomic.Int32

	async.Dispatch(context.Background(), "ok", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	async.Dispatch(context.Background(), "fails", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("failed")
	})
	async.Dispatch(context.Background(), "panics", func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	})

	async.Wait()
	gt.Number(t, calls.Load()).Equal(3)
}
