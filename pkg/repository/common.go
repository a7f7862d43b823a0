package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// withLockRetry runs fn with backoff while it fails with lock errors.
// fn returns *criticalError to stop immediately, the wrapped error is returned as is.
func withLockRetry(ctx context.Context, fn func() error) error {
	var critical *criticalError
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if err := fn(); err != nil {
			if errors.As(err, &critical) {
				return nil
			}
			return err
		}
		return nil
	})
	if critical != nil {
		return critical.err
	}
	return err
}

// channelsSQL is a JSON array of channel names for SQL operations
type channelsSQL []string

// Value implements driver.Valuer
func (c channelsSQL) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(c))
	if err != nil {
		return nil, fmt.Errorf("marshal channels: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (c *channelsSQL) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = channelsSQL{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported channels type %T", src)
	}
	var res []string
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("unmarshal channels: %w", err)
	}
	if res == nil {
		res = []string{}
	}
	*c = res
	return nil
}
