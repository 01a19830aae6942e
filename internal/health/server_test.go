package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inksmith-ai/inksmith/internal/state"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer("localhost:0", nil)

	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", rec.Code)
	}

	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestReadyWithoutLedger(t *testing.T) {
	srv := NewServer("localhost:0", nil)

	if rec := get(t, srv, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /ready without ledger = %d, want 503", rec.Code)
	}
}

func TestRunsAndStats(t *testing.T) {
	db, err := state.Open(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	for _, rec := range []*models.RunRecord{
		{ID: "a", Topic: "topic one", Slug: "topic-one", Status: models.RunStatusApproved, StartedAt: now, FinishedAt: &now},
		{ID: "b", Topic: "topic two", Slug: "topic-two", Status: models.RunStatusRejected, StartedAt: now},
	} {
		if err := db.InsertRun(rec); err != nil {
			t.Fatal(err)
		}
	}

	srv := NewServer("localhost:0", db)

	if rec := get(t, srv, "/ready"); rec.Code != http.StatusOK {
		t.Errorf("GET /ready = %d, want 200", rec.Code)
	}

	rec := get(t, srv, "/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /runs = %d", rec.Code)
	}
	var runs []models.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}

	rec = get(t, srv, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /stats = %d", rec.Code)
	}
	var stats StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Approved != 1 || stats.Rejected != 1 {
		t.Errorf("stats = %+v", stats)
	}

	rec = get(t, srv, "/health/detailed")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health/detailed = %d", rec.Code)
	}
	var detailed DetailedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &detailed); err != nil {
		t.Fatal(err)
	}
	if !detailed.LedgerAttached || detailed.LastRun == nil {
		t.Errorf("detailed = %+v", detailed)
	}

	rec = get(t, srv, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	for _, want := range []string{"inksmith_runs_total 2", "inksmith_runs_approved 1"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics missing %q:\n%s", want, rec.Body.String())
		}
	}
}

func TestRunsLimitValidation(t *testing.T) {
	srv := NewServer("localhost:0", mustOpenDB(t))

	if rec := get(t, srv, "/runs?limit=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 = %d, want 400", rec.Code)
	}
	if rec := get(t, srv, "/runs?limit=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=nope = %d, want 400", rec.Code)
	}
}

func mustOpenDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "limit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
