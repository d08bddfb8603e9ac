package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inkwise/tutorgate/pkg/gateway/apierror"
	"github.com/inkwise/tutorgate/pkg/gateway/mw"
)

// writeTurnError maps err to an HTTP status and writes the stateless
// endpoint's failure body.
func writeTurnError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	cerr, status := apierror.FromError(err, reqID)
	if logger != nil && status >= 500 {
		logger.Error("turn failed", "request_id", reqID, "error", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apierror.Envelope{OK: false, Error: cerr.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
