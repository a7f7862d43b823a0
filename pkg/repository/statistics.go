package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tgbrief/pkg/domain"
)

// StatisticsRepository handles the running totals row
type StatisticsRepository struct {
	db *sqlx.DB
}

// statisticsSQL represents the statistics row for SQL operations
type statisticsSQL struct {
	ActiveChannels    int       `db:"active_channels"`
	MessagesProcessed int       `db:"messages_processed"`
	Analyses          int       `db:"ai_analyses"`
	LastUpdate        time.Time `db:"last_update"`
}

// NewStatisticsRepository creates a new statistics repository
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// GetStatistics returns current totals, creating a zeroed row on first access
func (r *StatisticsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	if err := r.ensureRow(ctx); err != nil {
		return nil, err
	}
	var row statisticsSQL
	err := r.db.GetContext(ctx, &row,
		`SELECT active_channels, messages_processed, ai_analyses, last_update FROM statistics WHERE id = 1`)
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}
	return &domain.Statistics{
		ActiveChannels:    row.ActiveChannels,
		MessagesProcessed: row.MessagesProcessed,
		Analyses:          row.Analyses,
		LastUpdate:        row.LastUpdate,
	}, nil
}

// IncrementStatistics adds delta to the cumulative counters, negative values are ignored
func (r *StatisticsRepository) IncrementStatistics(ctx context.Context, delta domain.StatisticsDelta) error {
	if err := r.ensureRow(ctx); err != nil {
		return err
	}
	query := `
		UPDATE statistics
		SET messages_processed = messages_processed + ?,
		    ai_analyses = ai_analyses + ?,
		    last_update = ?
		WHERE id = 1
	`
	return withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, max(delta.MessagesProcessed, 0), max(delta.Analyses, 0), time.Now().UTC())
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("increment statistics: %w", err)}
		}
		return nil
	})
}

// SetActiveChannels sets the number of configured channels
func (r *StatisticsRepository) SetActiveChannels(ctx context.Context, n int) error {
	if err := r.ensureRow(ctx); err != nil {
		return err
	}
	return withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`UPDATE statistics SET active_channels = ?, last_update = ? WHERE id = 1`, max(n, 0), time.Now().UTC())
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("set active channels: %w", err)}
		}
		return nil
	})
}

func (r *StatisticsRepository) ensureRow(ctx context.Context) error {
	return withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO statistics (id, last_update) VALUES (1, ?)`, time.Now().UTC())
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("init statistics: %w", err)}
		}
		return nil
	})
}
