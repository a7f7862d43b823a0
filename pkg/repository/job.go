package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tgbrief/pkg/domain"
)

// JobRepository handles analysis job persistence.
// Every update is guarded by the job status, terminal jobs are never written again.
type JobRepository struct {
	db *sqlx.DB
}

// jobSQL represents an analyses row for SQL operations
type jobSQL struct {
	ID                int64          `db:"id"`
	Status            string         `db:"status"`
	Progress          int            `db:"progress"`
	CurrentStep       sql.NullString `db:"current_step"`
	MessagesCollected sql.NullInt64  `db:"messages_collected"`
	ChannelsProcessed sql.NullInt64  `db:"channels_processed"`
	Report            sql.NullString `db:"report"`
	Error             sql.NullString `db:"error"`
	StartedAt         time.Time      `db:"started_at"`
	CompletedAt       sql.NullTime   `db:"completed_at"`
}

const jobColumns = `id, status, progress, current_step, messages_collected, channels_processed,
	report, error, started_at, completed_at`

// NewJobRepository creates a new job repository
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateJob inserts a new pending job with zero progress
func (r *JobRepository) CreateJob(ctx context.Context) (*domain.Job, error) {
	startedAt := time.Now().UTC()
	var id int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO analyses (status, progress, started_at) VALUES (?, 0, ?)`, string(domain.JobPending), startedAt)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("create job: %w", err)}
		}
		if id, err = res.LastInsertId(); err != nil {
			return &criticalError{err: fmt.Errorf("get job id: %w", err)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.Job{ID: id, Status: domain.JobPending, StartedAt: startedAt}, nil
}

// UpdateJobProgress writes a non-terminal checkpoint. Progress never decreases,
// nil counts keep stored values. Returns ErrJobFinished if the job is terminal or missing.
func (r *JobRepository) UpdateJobProgress(ctx context.Context, id int64, p domain.JobProgress) error {
	if p.Status.Terminal() {
		return fmt.Errorf("update job progress: status %q is terminal", p.Status)
	}
	query := `
		UPDATE analyses
		SET status = ?,
		    progress = MAX(progress, ?),
		    current_step = ?,
		    messages_collected = COALESCE(?, messages_collected),
		    channels_processed = COALESCE(?, channels_processed)
		WHERE id = ? AND status IN ('pending', 'processing')
	`
	return r.guardedUpdate(ctx, "update job progress", query,
		string(p.Status), clampProgress(p.Progress), p.Step, nullInt(p.MessagesCollected), nullInt(p.ChannelsProcessed), id)
}

// CompleteJob stores the report and marks the job completed with full progress
func (r *JobRepository) CompleteJob(ctx context.Context, id int64, step string, report *domain.Report) error {
	if report == nil {
		return errors.New("complete job: report is nil")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	query := `
		UPDATE analyses
		SET status = 'completed', progress = 100, current_step = ?, report = ?, error = NULL, completed_at = ?
		WHERE id = ? AND status IN ('pending', 'processing')
	`
	return r.guardedUpdate(ctx, "complete job", query, step, string(data), time.Now().UTC(), id)
}

// FailJob records the error and marks the job failed with full progress.
// Counts and step written before the failure are kept.
func (r *JobRepository) FailJob(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE analyses
		SET status = 'failed', progress = 100, report = NULL, error = ?, completed_at = ?
		WHERE id = ? AND status IN ('pending', 'processing')
	`
	return r.guardedUpdate(ctx, "fail job", query, errMsg, time.Now().UTC(), id)
}

// GetJob returns a job by id, ErrNotFound if it does not exist
func (r *JobRepository) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var row jobSQL
	err := r.db.GetContext(ctx, &row, `SELECT `+jobColumns+` FROM analyses WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return row.toDomain()
}

// GetLatestJob returns the most recently started job, nil if there are no jobs
func (r *JobRepository) GetLatestJob(ctx context.Context) (*domain.Job, error) {
	var row jobSQL
	err := r.db.GetContext(ctx, &row, `SELECT `+jobColumns+` FROM analyses ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest job: %w", err)
	}
	return row.toDomain()
}

// GetJobs returns jobs newest first, optionally filtered by status
func (r *JobRepository) GetJobs(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + jobColumns + ` FROM analyses`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var rows []jobSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get jobs: %w", err)
	}
	res := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		job, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, job)
	}
	return res, nil
}

// CountJobs returns the total number of jobs
func (r *JobRepository) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM analyses`); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

// guardedUpdate executes a status guarded update with lock retry, no affected rows means the job is finished
func (r *JobRepository) guardedUpdate(ctx context.Context, op, query string, args ...any) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("%s: %w", op, err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("%s: %w", op, err)}
		}
		if n == 0 {
			return &criticalError{err: fmt.Errorf("%s: %w", op, ErrJobFinished)}
		}
		return nil
	})
}

func (j jobSQL) toDomain() (*domain.Job, error) {
	job := &domain.Job{
		ID:        j.ID,
		Status:    domain.JobStatus(j.Status),
		Progress:  j.Progress,
		StartedAt: j.StartedAt,
	}
	if j.CurrentStep.Valid {
		job.CurrentStep = &j.CurrentStep.String
	}
	if j.MessagesCollected.Valid {
		v := int(j.MessagesCollected.Int64)
		job.MessagesCollected = &v
	}
	if j.ChannelsProcessed.Valid {
		v := int(j.ChannelsProcessed.Int64)
		job.ChannelsProcessed = &v
	}
	if j.Error.Valid {
		job.Error = &j.Error.String
	}
	if j.CompletedAt.Valid {
		job.CompletedAt = &j.CompletedAt.Time
	}
	if j.Report.Valid && j.Report.String != "" {
		var report domain.Report
		if err := json.Unmarshal([]byte(j.Report.String), &report); err != nil {
			return nil, fmt.Errorf("unmarshal report of job %d: %w", j.ID, err)
		}
		job.Report = &report
	}
	return job, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func clampProgress(p int) int {
	return max(0, min(p, 100))
}
