package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(id string) *models.RunRecord {
	return &models.RunRecord{
		ID:        id,
		Topic:     "Venture capital trends",
		Slug:      "venture-capital-trends",
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	}
}

func TestInsertAndGetRun(t *testing.T) {
	db := openTestDB(t)

	rec := sampleRun("run-1")
	if err := db.InsertRun(rec); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Topic != rec.Topic || got.Status != models.RunStatusRunning {
		t.Errorf("got %+v", got)
	}
	if got.FinishedAt != nil {
		t.Error("unfinished run should have nil FinishedAt")
	}
}

func TestUpdateRun(t *testing.T) {
	db := openTestDB(t)

	rec := sampleRun("run-2")
	if err := db.InsertRun(rec); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	rec.Status = models.RunStatusApproved
	rec.WordCount = 1712
	rec.Iterations = 1
	rec.TokensIn = 42000
	rec.TokensOut = 9000
	rec.Cost = 0.156
	rec.OutputDir = "output/2025-03-14-venture-capital-trends"
	rec.FinishedAt = &now

	if err := db.UpdateRun(rec); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	got, err := db.GetRun("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RunStatusApproved || got.WordCount != 1712 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt not persisted")
	}
	if got.OutputDir != rec.OutputDir {
		t.Errorf("OutputDir = %q", got.OutputDir)
	}
}

func TestUpdateRun_NotFound(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpdateRun(sampleRun("ghost")); err == nil {
		t.Error("updating a missing run should error")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetRun("nope"); err == nil {
		t.Error("missing run should error")
	}
}

func TestRecentRuns_Order(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		rec := sampleRun(id)
		rec.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.InsertRun(rec); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("order wrong: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestCountByStatus(t *testing.T) {
	db := openTestDB(t)

	statuses := []models.RunStatus{
		models.RunStatusApproved,
		models.RunStatusApproved,
		models.RunStatusRejected,
		models.RunStatusFailed,
	}
	for i, status := range statuses {
		rec := sampleRun(string(rune('a' + i)))
		rec.Status = status
		if err := db.InsertRun(rec); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := db.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[models.RunStatusApproved] != 2 {
		t.Errorf("approved = %d, want 2", counts[models.RunStatusApproved])
	}
	if counts[models.RunStatusRejected] != 1 || counts[models.RunStatusFailed] != 1 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.InsertRun(sampleRun("persist")); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	if _, err := db2.GetRun("persist"); err != nil {
		t.Errorf("row lost across reopen: %v", err)
	}
}
