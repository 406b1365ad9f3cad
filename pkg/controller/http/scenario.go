package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/errutil"
)

type scenarioRequest struct {
	Scenario string `json:"scenario"`
}

// scenarioHandler generates one test case from a scenario. With
// ?format=csv the steps are returned as a CSV download.
func scenarioHandler(uc *usecase.ScenarioUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scenarioRequest
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid scenario request"), http.StatusBadRequest)
			return
		}

		detail, err := uc.Generate(r.Context(), req.Scenario)
		if err != nil {
			handleError(w, r, err)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			data, err := usecase.ScenarioCSV(detail)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeCSV(w, r, usecase.ScenarioExportFilename, data)
			return
		}

		writeJSON(w, r, http.StatusOK, detail)
	}
}
