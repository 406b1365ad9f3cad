package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/errutil"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// maxJSONBodySize bounds JSON request bodies
const maxJSONBodySize = 1 << 20

type documentView struct {
	Filename   string    `json:"filename"`
	Format     string    `json:"format"`
	Size       int       `json:"size"`
	TextLength int       `json:"text_length"`
	LoadedAt   time.Time `json:"loaded_at"`
}

type sessionView struct {
	ID                 string           `json:"id"`
	State              string           `json:"state"`
	Document           *documentView    `json:"document,omitempty"`
	TestCases          []model.TestCase `json:"test_cases"`
	Selection          []string         `json:"selection"`
	StepPlan           *model.StepPlan  `json:"step_plan,omitempty"`
	ConversationLength int              `json:"conversation_length"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func newSessionView(s *model.Session) sessionView {
	v := sessionView{
		ID:                 s.ID.String(),
		State:              s.State.String(),
		TestCases:          s.TestCases,
		Selection:          s.Selection,
		StepPlan:           s.StepPlan,
		ConversationLength: s.Conversation.Len(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if v.TestCases == nil {
		v.TestCases = []model.TestCase{}
	}
	if v.Selection == nil {
		v.Selection = []string{}
	}
	if s.Document != nil {
		v.Document = &documentView{
			Filename:   s.Document.Filename,
			Format:     string(s.Document.Format),
			Size:       len(s.Document.Raw),
			TextLength: len(s.Document.Text),
			LoadedAt:   s.Document.LoadedAt,
		}
	}
	return v
}

type feedbackView struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id,omitempty"`
	UploadComment   string    `json:"upload_comment"`
	TestCaseComment string    `json:"test_case_comment"`
	TestStepComment string    `json:"test_step_comment"`
	CreatedAt       time.Time `json:"created_at"`
}

func newFeedbackView(fb *model.Feedback) feedbackView {
	return feedbackView{
		ID:              string(fb.ID),
		SessionID:       fb.SessionID.String(),
		UploadComment:   fb.UploadComment,
		TestCaseComment: fb.TestCaseComment,
		TestStepComment: fb.TestStepComment,
		CreatedAt:       fb.CreatedAt,
	}
}

// writeJSON writes v as the JSON response body
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err)
	}
}

// handleError writes a pipeline error with its status and operator notice
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTPNotice(r.Context(), w, err, usecase.StatusCode(err), usecase.UserMessage(err))
}

// decodeJSON reads a bounded JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
