package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/schema"
)

// errorBody is the JSON shape of a non-validation failure.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("admin write json: %v", err)
	}
}

// writeError maps err onto a JSON response. Validation failures keep every
// field error; domain errors use their code's status; anything else is
// logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs *schema.Errors
	if errors.As(err, &validationErrs) {
		writeJSON(w, http.StatusBadRequest, validationErrs)
		return
	}

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		log.Printf("admin %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Code:    string(apperrors.CodeUnknown),
			Message: "internal error",
		}})
		return
	}

	status := domainErr.Code.HTTPStatus()
	if status == http.StatusInternalServerError {
		log.Printf("admin %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:     string(domainErr.Code),
		Message:  domainErr.Message,
		Metadata: domainErr.Metadata,
	}})
}
