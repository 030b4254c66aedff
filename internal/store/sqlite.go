package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/arokua/job-hunter/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS submissions (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	job_count  INTEGER NOT NULL DEFAULT 0,
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, id, email string) (*model.SubmissionRecord, error) {
	now := time.Now().UTC()
	rec := &model.SubmissionRecord{
		ID:        id,
		Email:     email,
		Status:    model.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, email, status, job_count, error, created_at, updated_at)
		 VALUES (?, ?, ?, 0, '', ?, ?)`,
		rec.ID, rec.Email, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create submission")
	}
	return rec, nil
}

func (s *SQLiteStore) SetOutcome(ctx context.Context, outcome model.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ?, job_count = ?, error = ?, updated_at = ? WHERE id = ?`,
		outcome.Status, outcome.JobCount, outcome.Error, time.Now().UTC(), outcome.SubmissionID,
	)
	return eris.Wrap(err, "sqlite: set outcome")
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*model.SubmissionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, status, job_count, error, created_at, updated_at FROM submissions WHERE id = ?`, id)

	var rec model.SubmissionRecord
	err := row.Scan(&rec.ID, &rec.Email, &rec.Status, &rec.JobCount, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get submission %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get submission")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, filter Filter) ([]model.SubmissionRecord, error) {
	query := `SELECT id, email, status, job_count, error, created_at, updated_at FROM submissions`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list submissions")
	}
	defer rows.Close()

	var recs []model.SubmissionRecord
	for rows.Next() {
		var rec model.SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.Status, &rec.JobCount, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan submission")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate submissions")
}
