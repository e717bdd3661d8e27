package steam

import (
	"time"

	"github.com/shopspring/decimal"
)

// priceOverviewResponse mirrors the JSON body of /market/priceoverview/.
// A missing success flag or median_price means the item is not listed.
type priceOverviewResponse struct {
	Success     bool   `json:"success"`
	LowestPrice string `json:"lowest_price"`
	MedianPrice string `json:"median_price"`
	Volume      string `json:"volume"`
}

// Quote is a price reading just obtained from the market, not yet persisted
type Quote struct {
	Price      decimal.Decimal
	Currency   string
	Volume     string
	ObservedAt time.Time
}
