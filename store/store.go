// Package store persists audit history in SQLite. The core audit pipeline
// never touches it; only the HTTP service records and lists results here.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/infrajoy/agelens/audit"
)

// Schema is applied on open; idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS audits (
    id               TEXT PRIMARY KEY,
    url              TEXT NOT NULL,
    score            INTEGER NOT NULL,
    breakdown_json   TEXT NOT NULL,
    checks_json      TEXT NOT NULL,
    recommendations_json TEXT NOT NULL,
    created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audits_url ON audits(url, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audits_time ON audits(created_at DESC);
`

// Store wraps the audits database.
type Store struct {
	db *sql.DB
}

// Open opens (creating parent directories as needed) an audits database
// with production pragmas and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store, for tests.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record is one persisted audit.
type Record struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Result    *audit.Result `json:"result"`
}

// SaveAudit persists an audit result and returns its record ID.
func (s *Store) SaveAudit(ctx context.Context, res *audit.Result) (string, error) {
	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return "", fmt.Errorf("marshal breakdown: %w", err)
	}
	checks, err := json.Marshal(res.Checks)
	if err != nil {
		return "", fmt.Errorf("marshal checks: %w", err)
	}
	recs, err := json.Marshal(res.Recommendations)
	if err != nil {
		return "", fmt.Errorf("marshal recommendations: %w", err)
	}

	id := newID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, url, score, breakdown_json, checks_json, recommendations_json, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		id, res.URL, res.Score, string(breakdown), string(checks), string(recs), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("insert audit: %w", err)
	}
	return id, nil
}

// ListAudits returns the most recent audits, newest first.
func (s *Store) ListAudits(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, score, breakdown_json, checks_json, recommendations_json, created_at
		FROM audits ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetAudit returns one audit by ID, or sql.ErrNoRows.
func (s *Store) GetAudit(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, score, breakdown_json, checks_json, recommendations_json, created_at
		FROM audits WHERE id = ?`, id)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		res       audit.Result
		breakdown string
		checks    string
		recs      string
		createdAt int64
	)
	if err := row.Scan(&rec.ID, &res.URL, &res.Score, &breakdown, &checks, &recs, &createdAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(breakdown), &res.Breakdown); err != nil {
		return Record{}, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(checks), &res.Checks); err != nil {
		return Record{}, fmt.Errorf("unmarshal checks: %w", err)
	}
	if err := json.Unmarshal([]byte(recs), &res.Recommendations); err != nil {
		return Record{}, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	rec.CreatedAt = time.Unix(createdAt, 0)
	rec.Result = &res
	return rec, nil
}

func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("aud_%d", time.Now().UnixNano())
	}
	return "aud_" + hex.EncodeToString(b[:])
}
