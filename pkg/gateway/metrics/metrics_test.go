package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := New("")

	m.RecordTurn("stateless", "ok", 1200*time.Millisecond)
	m.RecordTurn("live", "error", 100*time.Millisecond)
	m.RecordTokens("gemini-1.5-flash", 100, 25)
	m.RecordAdapterFailure("stt")
	m.RecordLiveSessionStart()
	m.RecordLiveSessionEnd("ok", 30*time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`tutorgate_turns_total{result="ok",transport="stateless"} 1`,
		`tutorgate_turns_total{result="error",transport="live"} 1`,
		`tutorgate_tokens_total{direction="input",model="gemini-1.5-flash"} 100`,
		`tutorgate_adapter_failures_total{adapter="stt"} 1`,
		`tutorgate_live_sessions_active 0`,
		`tutorgate_live_sessions_total{status="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
