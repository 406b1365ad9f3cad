package http

import "net/http"

const aboutText = "testgenie reads a requirements document and uses a large language model " +
	"to draft test cases and detailed test steps. Generated content is a starting point " +
	"for test engineers and should be reviewed before use. Feedback on each stage helps " +
	"improve the prompts."

func aboutHandler(version string) http.HandlerFunc {
	type response struct {
		Name        string `json:"name"`
		Version     string `json:"version,omitempty"`
		Description string `json:"description"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, response{
			Name:        "testgenie",
			Version:     version,
			Description: aboutText,
		})
	}
}
