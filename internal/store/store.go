/**
 * @description
 * Persistence interfaces for the investment ledger and price history.
 * Services depend on these interfaces; the GORM implementations live in this
 * package alongside them.
 *
 * @dependencies
 * - backend/internal/models
 * - backend/internal/steam
 */

package store

import (
	"context"
	"errors"

	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/steam"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrRefreshInProgress is returned when another refresh batch holds the lock
	ErrRefreshInProgress = errors.New("a price refresh is already in progress")
)

// InvestmentStore persists the ledger of tracked holdings
type InvestmentStore interface {
	Create(ctx context.Context, inv *models.Investment) error
	GetByID(ctx context.Context, id uint) (*models.Investment, error)
	// List returns investments ordered by id. A limit <= 0 means no limit.
	List(ctx context.Context, offset, limit int) ([]models.Investment, error)
	Update(ctx context.Context, inv *models.Investment) error
	// Delete removes the investment and all of its price history in one transaction
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// RecordQuote applies a fresh market quote to the investment's cached price
	// and appends the matching history row, atomically: both writes commit or
	// neither does. On success inv's cached fields are updated in place.
	RecordQuote(ctx context.Context, inv *models.Investment, quote *steam.Quote) error
}

// PriceHistoryStore reads the append-only observation ledger
type PriceHistoryStore interface {
	// ByInvestment returns observations newest-first. days <= 0 means no time
	// filter, limit <= 0 means no limit.
	ByInvestment(ctx context.Context, investmentID uint, days, offset, limit int) ([]models.PriceHistory, error)
	Latest(ctx context.Context, investmentID uint) (*models.PriceHistory, error)
	All(ctx context.Context, days, offset, limit int) ([]models.PriceHistory, error)
	// Window returns all observations within the trailing window, oldest-first,
	// as input for portfolio valuation. days <= 0 means the full history.
	Window(ctx context.Context, days int) ([]models.PriceHistory, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// RefreshLocker guards the batch refresh entry point so a scheduled batch and
// a request-triggered batch never run concurrently. TryLock never blocks: it
// returns ErrRefreshInProgress when the lock is held elsewhere.
type RefreshLocker interface {
	TryLock(ctx context.Context) (unlock func(), err error)
}
