package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"clipwright/internal/config"
)

// Store persists render jobs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the render history database under the state dir.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create records a submitted render for sessionID.
func (s *Store) Create(ctx context.Context, sessionID, requestJSON string) (*Job, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("create job: session id required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`INSERT INTO render_jobs (session_id, status, request_json, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?)`,
			sessionID,
			StatusSubmitted,
			nullableString(requestJSON),
			timestamp,
			timestamp,
		)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists the mutable fields of job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(
			ctx,
			`UPDATE render_jobs
             SET remote_id = ?, status = ?, result_url = ?, artifact_path = ?,
                 error_message = ?, updated_at = ?
             WHERE id = ?`,
			nullableString(job.RemoteID),
			job.Status,
			nullableString(job.ResultURL),
			nullableString(job.ArtifactPath),
			nullableString(job.ErrorMessage),
			job.UpdatedAt.Format(time.RFC3339Nano),
			job.ID,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// GetByID fetches a job, returning nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM render_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// FindByRemoteID returns the latest job carrying the service job id.
func (s *Store) FindByRemoteID(ctx context.Context, remoteID string) (*Job, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+jobColumns+` FROM render_jobs WHERE remote_id = ? ORDER BY id DESC LIMIT 1`,
		remoteID,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by remote id: %w", err)
	}
	return job, nil
}

// List returns jobs filtered by status (all jobs when none are given), newest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM render_jobs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return scanJobs(rows)
}

// ListBySession returns the jobs of one session, newest first.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM render_jobs WHERE session_id = ? ORDER BY id DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session jobs: %w", err)
	}
	return scanJobs(rows)
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM render_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summary aggregates Stats into active and terminal counts.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for status, count := range stats {
		summary.Total += count
		switch status {
		case StatusDone:
			summary.Done += count
		case StatusFailed:
			summary.Failed += count
		case StatusCancelled:
			summary.Cancelled += count
		default:
			summary.Active += count
		}
	}
	return summary, nil
}

// FailInterrupted marks jobs left in flight by a previous process as failed,
// since their poll loop no longer exists. It returns the number of rows changed.
func (s *Store) FailInterrupted(ctx context.Context) (int64, error) {
	statuses := ActiveStatuses()
	args := []any{StatusFailed, "interrupted before completion", time.Now().UTC().Format(time.RFC3339Nano)}
	for _, status := range statuses {
		args = append(args, status)
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`UPDATE render_jobs SET status = ?, error_message = ?, updated_at = ?
             WHERE status IN (`+makePlaceholders(len(statuses))+`)`,
			args...,
		)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("fail interrupted jobs: %w", err)
	}
	return res.RowsAffected()
}
