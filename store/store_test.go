package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/infrajoy/agelens/audit"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audits.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(url string, score int) *audit.Result {
	return &audit.Result{
		URL:   url,
		Score: score,
		Breakdown: audit.Breakdown{
			StructureNav:    80,
			TextReadability: 65.5,
		},
		Checks: audit.Checks{
			WordCount:  120,
			HasH1:      true,
			InputTypes: map[string]int{"text": 2},
		},
		Recommendations: []string{"Add a single, descriptive H1."},
	}
}

func TestSaveAndGetAudit(t *testing.T) {
	// WHAT: A saved result reads back with breakdown, checks, and
	// recommendations intact through the JSON columns.
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveAudit(ctx, sampleResult("https://example.com/", 74))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	rec, err := s.GetAudit(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Result.URL != "https://example.com/" || rec.Result.Score != 74 {
		t.Errorf("result = %+v", rec.Result)
	}
	if rec.Result.Breakdown.TextReadability != 65.5 {
		t.Errorf("breakdown lost: %+v", rec.Result.Breakdown)
	}
	if rec.Result.Checks.InputTypes["text"] != 2 {
		t.Errorf("checks lost: %+v", rec.Result.Checks)
	}
	if len(rec.Result.Recommendations) != 1 {
		t.Errorf("recommendations lost: %v", rec.Result.Recommendations)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestGetAudit_Missing(t *testing.T) {
	// WHAT: An unknown id returns sql.ErrNoRows.
	s := testStore(t)
	_, err := s.GetAudit(context.Background(), "aud_nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestListAudits(t *testing.T) {
	// WHAT: Listing returns saved audits and honors the limit.
	s := testStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.SaveAudit(ctx, sampleResult("https://example.com/", 50+i)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := s.ListAudits(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d records, want 3", len(all))
	}

	limited, err := s.ListAudits(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d records, want 2", len(limited))
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	// WHAT: Open creates missing parent directories for the database file.
	path := filepath.Join(t.TempDir(), "nested", "deep", "audits.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()
}
