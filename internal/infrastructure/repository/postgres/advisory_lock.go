package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const (
	tryAdvisoryLockQuery = `SELECT pg_try_advisory_lock(hashtextextended($1, 0))`
	advisoryUnlockQuery  = `SELECT pg_advisory_unlock(hashtextextended($1, 0))`
)

const advisoryUnlockTimeout = 5 * time.Second

// AdvisoryLocker holds a session-level advisory lock on a dedicated connection for the
// duration of a run, so processes sharing the database exclude each other.
type AdvisoryLocker struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewAdvisoryLocker(db *sqlx.DB, logger *logging.Logger) *AdvisoryLocker {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdvisoryLocker{db: db, logger: logger}
}

func (l *AdvisoryLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("reserve lock connection: %w", err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, tryAdvisoryLockQuery, key); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	release := func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), advisoryUnlockTimeout)
		defer cancel()

		var released bool
		if err := conn.GetContext(unlockCtx, &released, advisoryUnlockQuery, key); err != nil || !released {
			l.logger.WarnContext(unlockCtx, "advisory unlock failed, discarding session", "key", key, "error", err)
			// A bad-conn result closes the session instead of pooling it, which drops the lock.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		_ = conn.Close()
	}
	return release, true, nil
}
