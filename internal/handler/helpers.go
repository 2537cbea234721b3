package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/andywinn76/todo-app/internal/apperr"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parseListIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("list_id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope. Code is a stable machine-readable
// discriminator for failures the client must tell apart (duplicate invite,
// self invite); Error is the user-facing message.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeErr maps an error to its JSON response. Errors carrying an apperr
// kind get the corresponding status; everything else is a 500 logged by the
// caller.
func writeErr(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		writeJSON(w, apperr.HTTPStatus(ae.Kind), errorBody{Error: ae.Msg, Code: ae.Code})
		return
	}
	logger.Error(fallback, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: fallback})
}
