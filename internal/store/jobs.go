package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobsift-engine/internal/domain"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("store: job not found")

// Migrate brings the schema up to the current version. Timestamps are stored
// as RFC3339 UTC text, which keeps the first_seen_at index usable for the
// lexicographic range scan pruning does.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  posted_at TEXT,
  first_seen_at TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  raw_payload TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_first_seen
ON jobs(first_seen_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// TryInsert writes the job if its id is absent and reports whether a row
// landed. A duplicate id is a normal outcome, not an error; the existing
// record (including its first_seen_at) is left untouched.
func TryInsert(ctx context.Context, db *sql.DB, j domain.Job) (bool, error) {
	if j.ID == "" {
		return false, errors.New("store: job id is empty")
	}
	if j.Title == "" || j.URL == "" {
		return false, errors.New("store: job title/url is empty")
	}

	var postedAt sql.NullString
	if j.PostedAt != nil {
		postedAt = sql.NullString{String: j.PostedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (id, source, company, title, location, url, posted_at, first_seen_at, description, raw_payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		j.ID,
		string(j.Source),
		j.Company,
		j.Title,
		j.Location,
		j.URL,
		postedAt,
		j.FirstSeenAt.UTC().Format(time.RFC3339),
		j.Description,
		string(j.RawPayload),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	var changes int
	if err := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, fmt.Errorf("insert job changes: %w", err)
	}
	return changes > 0, nil
}

// PruneOlderThan deletes every record first seen strictly before cutoff and
// returns how many were removed.
func PruneOlderThan(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
DELETE FROM jobs
WHERE first_seen_at < ?;`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return res.RowsAffected()
}

// ListRecent returns the most recently first-seen jobs, newest first. It is
// a read-only surface for downstream consumers and plays no part in the
// ingest write path.
func ListRecent(ctx context.Context, db *sql.DB, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, source, company, title, location, url, posted_at, first_seen_at, description, raw_payload
FROM jobs
ORDER BY first_seen_at DESC, id
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// GetByID looks one job up by its content-derived id.
func GetByID(ctx context.Context, db *sql.DB, id string) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, source, company, title, location, url, posted_at, first_seen_at, description, raw_payload
FROM jobs
WHERE id = ?;`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, ErrNotFound
	}
	return j, err
}

// Count reports how many jobs are stored.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (domain.Job, error) {
	var (
		j         domain.Job
		source    string
		postedAt  sql.NullString
		firstSeen string
		raw       string
	)
	if err := row.Scan(
		&j.ID,
		&source,
		&j.Company,
		&j.Title,
		&j.Location,
		&j.URL,
		&postedAt,
		&firstSeen,
		&j.Description,
		&raw,
	); err != nil {
		return domain.Job{}, err
	}

	j.Source = domain.Source(source)
	j.RawPayload = []byte(raw)
	if postedAt.Valid {
		if t, err := time.Parse(time.RFC3339, postedAt.String); err == nil {
			u := t.UTC()
			j.PostedAt = &u
		}
	}
	if t, err := time.Parse(time.RFC3339, firstSeen); err == nil {
		j.FirstSeenAt = t.UTC()
	}
	return j, nil
}
