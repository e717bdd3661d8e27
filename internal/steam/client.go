/**
 * @description
 * HTTP Client for the Steam Community Market price-overview endpoint.
 * Fetches the current median price for a single item, serializing all calls
 * through a shared rate limiter so the process never exceeds Steam's tolerance.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - golang.org/x/time/rate
 * - github.com/shopspring/decimal
 * - backend/internal/config
 *
 * @notes
 * - Every caller must share one Client instance; the limiter and the 429
 *   cooldown are process-wide state.
 * - Unavailability (item not listed, 429, transport failure, unparseable
 *   price) is reported as a tagged error, never as a panic.
 */

package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skinledger/backend/internal/config"
	"github.com/skinledger/backend/internal/logger"
	"golang.org/x/time/rate"
)

var (
	// ErrUnavailable covers every condition that yields no usable quote this
	// cycle: transport failure, malformed payload, non-200 status.
	ErrUnavailable = errors.New("steam market price unavailable")
	// ErrNotFound means the market does not recognize the item
	ErrNotFound = fmt.Errorf("item not found on steam market: %w", ErrUnavailable)
	// ErrRateLimited means Steam answered 429
	ErrRateLimited = fmt.Errorf("rate limited by steam market: %w", ErrUnavailable)
)

// Client fetches item prices from the Steam Community Market
type Client struct {
	baseURL      string
	appID        int
	currencyCode int
	currencyName string
	httpClient   *http.Client
	limiter      *rate.Limiter
	cooldown     time.Duration

	mu            sync.Mutex
	cooldownUntil time.Time
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:      cfg.Steam.BaseURL,
		appID:        cfg.Steam.AppID,
		currencyCode: cfg.Steam.CurrencyCode,
		currencyName: cfg.Steam.CurrencyName,
		httpClient: &http.Client{
			Timeout: cfg.Steam.RequestTimeout,
		},
		limiter:  rate.NewLimiter(rate.Every(cfg.Steam.MinInterval), 1),
		cooldown: cfg.Steam.RateLimitCooldown,
	}
}

// FetchPrice returns the current market quote for an item, identified by its
// fully-qualified display name (e.g. "AK-47 | Redline (Field-Tested)").
// The call blocks until the shared minimum interval since the previous call
// has elapsed. Unavailability is returned as an error matching ErrUnavailable;
// callers distinguish causes with errors.Is against ErrNotFound/ErrRateLimited.
func (c *Client) FetchPrice(ctx context.Context, itemName string) (*Quote, error) {
	if err := c.waitCooldown(ctx); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("appid", strconv.Itoa(c.appID))
	q.Set("currency", strconv.Itoa(c.currencyCode))
	q.Set("market_hash_name", itemName)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	// Steam throttles obvious bots harder
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.startCooldown()
		logger.Warn("Steam rate limited request for %q, cooling down for %s", itemName, c.cooldown)
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body priceOverviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !body.Success || body.MedianPrice == "" {
		return nil, ErrNotFound
	}

	price, err := parsePrice(body.MedianPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: median_price %q: %v", ErrUnavailable, body.MedianPrice, err)
	}

	return &Quote{
		Price:      price,
		Currency:   c.currencyName,
		Volume:     body.Volume,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// waitCooldown blocks while a 429-triggered cooldown is in effect
func (c *Client) waitCooldown(ctx context.Context) error {
	c.mu.Lock()
	remaining := time.Until(c.cooldownUntil)
	c.mu.Unlock()

	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) startCooldown() {
	c.mu.Lock()
	c.cooldownUntil = time.Now().Add(c.cooldown)
	c.mu.Unlock()
}

var priceSanitizer = strings.NewReplacer("£", "", "$", "", "€", "", "¥", "", ",", "", " ", "", " ", "")

// parsePrice converts a localized price string like "£1,234.56" into a
// decimal. Anything that does not strip down to a non-negative number is
// rejected.
func parsePrice(s string) (decimal.Decimal, error) {
	cleaned := priceSanitizer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, errors.New("empty price string")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative price")
	}
	return d, nil
}
