package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/errutil"
	"github.com/secmon-lab/testgenie/pkg/utils/safe"
)

// uploadField is the multipart field carrying the document
const uploadField = "file"

// multipartOverhead is the allowance for multipart framing around the file
const multipartOverhead = 1 << 20

func sessionIDParam(r *http.Request) model.SessionID {
	return model.SessionID(chi.URLParam(r, "sessionID"))
}

// createSessionHandler loads an uploaded document into a new session
func createSessionHandler(uc *usecase.SessionUseCase, maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				errutil.HandleHTTPNotice(r.Context(), w, goerr.Wrap(err, "upload too large", goerr.V("limit", maxSize)),
					http.StatusRequestEntityTooLarge, "The file is too large.")
				return
			}
			errutil.HandleHTTPNotice(r.Context(), w, goerr.Wrap(err, "invalid multipart form"),
				http.StatusBadRequest, "Upload a file in the \"file\" field.")
			return
		}
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
		}

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			errutil.HandleHTTPNotice(r.Context(), w, goerr.Wrap(err, "missing upload field", goerr.V("field", uploadField)),
				http.StatusBadRequest, "Upload a file in the \"file\" field.")
			return
		}
		defer safe.Close(r.Context(), file)

		content, truncated, err := safe.ReadAll(file, maxSize)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to read upload"), http.StatusBadRequest)
			return
		}
		if truncated {
			errutil.HandleHTTPNotice(r.Context(), w, goerr.New("upload too large", goerr.V("limit", maxSize)),
				http.StatusRequestEntityTooLarge, "The file is too large.")
			return
		}

		s, err := uc.Create(r.Context(), header.Filename, content)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, newSessionView(s))
	}
}

func getSessionHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.Get(r.Context(), sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, newSessionView(s))
	}
}

func deleteSessionHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Delete(r.Context(), sessionIDParam(r)); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// documentHandler serves the original upload of a session
func documentHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := uc.Document(r.Context(), sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", doc.Format.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": doc.Filename}))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, doc.Raw)
	}
}

func generateTestCasesHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.GenerateTestCases(r.Context(), sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, newSessionView(s))
	}
}

type selectionRequest struct {
	TestIDs []string `json:"test_ids"`
}

func selectHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid selection request"), http.StatusBadRequest)
			return
		}

		s, err := uc.Select(r.Context(), sessionIDParam(r), req.TestIDs)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, newSessionView(s))
	}
}

func generateStepsHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.GenerateSteps(r.Context(), sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, newSessionView(s))
	}
}

// exportHandler downloads the step table as CSV
func exportHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := uc.ExportCSV(r.Context(), sessionIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeCSV(w, r, usecase.ExportFilename, data)
	}
}

func writeCSV(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	w.Header().Set("Content-Type", usecase.CSVContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, data)
}
