package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a client
// has been initialized. The error is returned as-is.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	if hub := sentry.CurrentHub(); hub != nil && hub.Client() != nil {
		hub.CaptureException(err)
	}

	return err
}

// errorResponse is the JSON body written for failed API requests
type errorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

// HandleHTTP logs the error and writes a JSON error response. Only 5xx errors
// are reported to Sentry; 4xx errors are logged at warn level.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	HandleHTTPNotice(ctx, w, err, statusCode, "")
}

// HandleHTTPNotice is HandleHTTP with a message meant for the operator
func HandleHTTPNotice(ctx context.Context, w http.ResponseWriter, err error, statusCode int, notice string) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		_ = Handle(ctx, err, "HTTP error")
	} else {
		logging.From(ctx).Warn("HTTP client error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error(), Notice: notice})
}
