package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine with a background context that keeps
// the caller's logger. Errors and panics are logged with the task name.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx).With("task", name))

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			var values map[string]any
			if ge := goerr.Unwrap(err); ge != nil {
				values = ge.Values()
			}
			logging.From(bgCtx).Error("async handler failed", "error", err.Error(), "values", values)
		}
	}()
}

// Wait blocks until every dispatched handler has returned. Used on shutdown
// and in tests.
func Wait() {
	inflight.Wait()
}
