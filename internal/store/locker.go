/**
 * @description
 * Postgres advisory lock guarding the batch refresh entry point.
 * Keeps a scheduled batch and a request-triggered batch from running at the
 * same time, across every process sharing the database.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package store

import (
	"context"

	"github.com/skinledger/backend/internal/logger"
	"gorm.io/gorm"
)

// refreshLockKey is the advisory lock id for "price refresh in progress"
const refreshLockKey = 730

// AdvisoryRefreshLocker implements RefreshLocker with pg_try_advisory_lock
type AdvisoryRefreshLocker struct {
	db *gorm.DB
}

func NewRefreshLocker(db *gorm.DB) *AdvisoryRefreshLocker {
	return &AdvisoryRefreshLocker{db: db}
}

// TryLock attempts the advisory lock once. A second batch is rejected rather
// than queued: the caller gets ErrRefreshInProgress immediately.
func (l *AdvisoryRefreshLocker) TryLock(ctx context.Context) (func(), error) {
	var locked bool
	err := l.db.WithContext(ctx).Raw("SELECT pg_try_advisory_lock(?)", refreshLockKey).Scan(&locked).Error
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRefreshInProgress
	}

	unlock := func() {
		if err := l.db.WithContext(ctx).Exec("SELECT pg_advisory_unlock(?)", refreshLockKey).Error; err != nil {
			logger.Error("failed to release refresh lock: %v", err)
		}
	}
	return unlock, nil
}
