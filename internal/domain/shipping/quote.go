package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is one carrier's cost and service offer for a shipment.
// Quotes are transient: computed fresh per request and never stored.
type Quote struct {
	ID       uuid.UUID
	Carrier  string
	Service  string
	Cost     decimal.Decimal
	EstDays  int
	LastMile bool
	QuotedAt time.Time

	// Discount is populated only when volume discounting is requested
	Discount *QuoteDiscount
}

// QuoteDiscount annotates a quote with the logistics-tier discount
// and the loyalty points the discount would earn.
type QuoteDiscount struct {
	OriginalCost        decimal.Decimal
	DiscountAmount      decimal.Decimal
	DiscountTier        string
	LoyaltyPointsEarned int64
}

// DiscountedCost returns the cost after the discount annotation,
// or the plain cost when no discount is attached.
func (q *Quote) DiscountedCost() decimal.Decimal {
	if q.Discount == nil {
		return q.Cost
	}
	return q.Cost.Sub(q.Discount.DiscountAmount)
}
