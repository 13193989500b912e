package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"formctl/internal/model"

	_ "modernc.org/sqlite"
)

// Journal is a local SQLite log of submitted batches. It is write-mostly: the
// engine never reads it back to resolve indices.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

func OpenJournal(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows one writer and many readers; busy_timeout covers two CLI
	// processes writing at once.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			batch_id TEXT PRIMARY KEY,
			form_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			op_count INTEGER NOT NULL,
			ops_json TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			revision_id TEXT,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_batches_form ON batches(form_id, created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Record appends one batch. ID and CreatedAt are filled in when empty.
func (j *Journal) Record(ctx context.Context, rec model.BatchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = j.now()
	}
	ops := rec.Ops
	if ops == nil {
		ops = []model.Op{}
	}
	opsJSON, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("encode ops: %w", err)
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO batches(batch_id, form_id, operation, op_count, ops_json, status, error, revision_id, created_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FormID, rec.Operation, len(ops), string(opsJSON), rec.Status,
		nullString(rec.Error), nullString(rec.RevisionID), rec.CreatedAt.UnixMilli(),
	)
	return err
}

type JournalFilter struct {
	FormID string
	// Limit caps the result; 0 means 50.
	Limit int
}

// List returns records newest first.
func (j *Journal) List(ctx context.Context, f JournalFilter) ([]model.BatchRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT batch_id, form_id, operation, ops_json, status, error, revision_id, created_at_unixms FROM batches`
	args := []any{}
	if f.FormID != "" {
		q += ` WHERE form_id = ?`
		args = append(args, f.FormID)
	}
	q += ` ORDER BY created_at_unixms DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BatchRecord{}
	for rows.Next() {
		var (
			rec       model.BatchRecord
			opsJSON   string
			errText   sql.NullString
			revision  sql.NullString
			createdMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.FormID, &rec.Operation, &opsJSON, &rec.Status, &errText, &revision, &createdMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opsJSON), &rec.Ops); err != nil {
			return nil, fmt.Errorf("batch %s: decode ops: %w", rec.ID, err)
		}
		rec.Error = errText.String
		rec.RevisionID = revision.String
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
