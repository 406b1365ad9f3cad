package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/errutil"
)

type feedbackRequest struct {
	SessionID       string `json:"session_id"`
	UploadComment   string `json:"upload_comment"`
	TestCaseComment string `json:"test_case_comment"`
	TestStepComment string `json:"test_step_comment"`
}

func submitFeedbackHandler(uc *usecase.FeedbackUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid feedback request"), http.StatusBadRequest)
			return
		}

		fb, err := uc.Submit(r.Context(), usecase.FeedbackInput{
			SessionID:       model.SessionID(req.SessionID),
			UploadComment:   req.UploadComment,
			TestCaseComment: req.TestCaseComment,
			TestStepComment: req.TestStepComment,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, newFeedbackView(fb))
	}
}

func listFeedbackHandler(uc *usecase.FeedbackUseCase) http.HandlerFunc {
	type response struct {
		Feedback []feedbackView `json:"feedback"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errutil.HandleHTTP(r.Context(), w, goerr.New("invalid limit", goerr.V("limit", v)), http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := uc.List(r.Context(), model.SessionID(r.URL.Query().Get("session_id")), limit)
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := response{Feedback: make([]feedbackView, len(entries))}
		for i, fb := range entries {
			resp.Feedback[i] = newFeedbackView(fb)
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func getFeedbackHandler(uc *usecase.FeedbackUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb, err := uc.Get(r.Context(), model.FeedbackID(chi.URLParam(r, "feedbackID")))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, newFeedbackView(fb))
	}
}
