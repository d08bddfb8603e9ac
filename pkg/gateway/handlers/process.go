package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwise/tutorgate/pkg/core"
	"github.com/inkwise/tutorgate/pkg/core/history"
	"github.com/inkwise/tutorgate/pkg/gateway/apierror"
	"github.com/inkwise/tutorgate/pkg/core/turn"
	"github.com/inkwise/tutorgate/pkg/core/types"
	"github.com/inkwise/tutorgate/pkg/gateway/config"
	"github.com/inkwise/tutorgate/pkg/gateway/metrics"
)

// ProcessHandler handles POST /v1/process: one HTTP exchange is one turn.
// The caller supplies its own history; nothing persists between calls.
type ProcessHandler struct {
	Config       config.Config
	Orchestrator *turn.Orchestrator
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

func (h ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apierror.Envelope{OK: false, Error: "method not allowed"})
		return
	}

	if h.Config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var input types.TurnInput
	if err := dec.Decode(&input); err != nil {
		writeTurnError(w, r, h.Logger, core.NewMalformedMessageError("invalid request body: "+err.Error()))
		return
	}

	hist := history.FromMessages(input.History)

	start := time.Now()
	result, err := h.Orchestrator.ExecuteTurn(r.Context(), &input, hist)
	if h.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.Metrics.RecordTurn("stateless", outcome, time.Since(start))
	}
	if err != nil {
		writeTurnError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
