package usecase

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// StatusCode maps a pipeline error to the HTTP status reported to the client
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrFeedbackNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, model.ErrSelection),
		errors.Is(err, model.ErrUnknownTestCase),
		errors.Is(err, model.ErrIngestion),
		errors.Is(err, model.ErrDocumentMarker),
		errors.Is(err, model.ErrParse),
		errors.Is(err, model.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrEmptyFeedback),
		errors.Is(err, model.ErrEmptyScenario):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the notice shown to the operator for a pipeline error
func UserMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSelection):
		return "Please select at least one test case."
	case errors.Is(err, model.ErrUnknownTestCase):
		return "The selection contains a test case that does not exist."
	case errors.Is(err, model.ErrSessionNotFound):
		return "Session not found. It may have expired; please upload the document again."
	case errors.Is(err, model.ErrFeedbackNotFound):
		return "Feedback not found."
	case errors.Is(err, model.ErrInvalidState):
		return "This step is not available yet. Complete the previous step first."
	case errors.Is(err, model.ErrUnsupportedFormat):
		return "Unsupported file format. Upload a PDF, DOCX, HTML, markdown or text file."
	case errors.Is(err, model.ErrDocumentMarker):
		return "The document contains the reserved text <document> or </document>. Remove it and upload again."
	case errors.Is(err, model.ErrIngestion):
		return "No text could be extracted from the document. Scanned PDFs are not supported."
	case errors.Is(err, model.ErrParse), errors.Is(err, model.ErrSchema):
		return "The model reply could not be understood. Please try generating again."
	case errors.Is(err, model.ErrService):
		return "The completion service failed. Please try again later."
	case errors.Is(err, model.ErrEmptyFeedback):
		return "Please enter at least one comment."
	case errors.Is(err, model.ErrEmptyScenario):
		return "Please describe the scenario."
	default:
		return "Internal server error"
	}
}
