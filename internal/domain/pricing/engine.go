package pricing

import (
	"context"

	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// loyaltyPointsPerDollar is the award rate per dollar of realized savings
var loyaltyPointsPerDollar = decimal.NewFromInt(20)

// Input carries everything the pricing pipeline needs for one order
type Input struct {
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	AnnualVolumeUSD decimal.Decimal
	ParcelsPerMonth int64
	Coupon          *Coupon
}

// Breakdown is the full, auditable result of one pipeline run. All
// amounts retain full precision; rounding to cents happens only at the
// output boundary.
type Breakdown struct {
	CardTier      CardFeeTier
	LogisticsTier LogisticsTier

	CouponSavings       decimal.Decimal
	SubtotalAfterCoupon decimal.Decimal
	CardFeeSavings      decimal.Decimal
	EffectiveSubtotal   decimal.Decimal
	ShippingDiscount    decimal.Decimal
	DiscountedShipping  decimal.Decimal

	Total        decimal.Decimal
	TotalSavings decimal.Decimal

	LoyaltyPoints int64
}

// Engine combines a chosen shipping cost, an order subtotal, volume
// metrics, and an optional coupon into a final total and loyalty-point
// award. It is stateless: a single fixed-order pass per call.
type Engine struct{}

// NewEngine creates a pricing engine
func NewEngine() *Engine {
	return &Engine{}
}

// Calculate runs the pipeline in its fixed, auditable order:
// coupon, then card-fee discount on the post-coupon subtotal, then
// logistics discount on shipping, then totals and the loyalty award.
func (e *Engine) Calculate(ctx context.Context, in Input) (Breakdown, error) {
	if in.Subtotal.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_INPUT", "subtotal cannot be negative")
	}
	if in.ShippingCost.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_INPUT", "shipping cost cannot be negative")
	}
	if in.Coupon != nil {
		if !in.Coupon.Kind.IsValid() {
			return Breakdown{}, shared.NewDomainError("INVALID_INPUT", "coupon kind must be one of: percent, amount")
		}
		if in.Coupon.Value.IsNegative() {
			return Breakdown{}, shared.NewDomainError("INVALID_INPUT", "coupon value cannot be negative")
		}
	}

	// 1. Coupon
	couponSavings := decimal.Zero
	if in.Coupon != nil {
		couponSavings = in.Coupon.SavingsOn(in.Subtotal)
	}
	subtotalAfterCoupon := floorZero(in.Subtotal.Sub(couponSavings))

	// 2. Card-fee discount on the post-coupon subtotal
	cardTier := CardFeeTierFor(in.AnnualVolumeUSD)
	cardFeeSavings := subtotalAfterCoupon.
		Mul(decimal.NewFromInt(cardTier.DiscountBps)).
		Div(decimal.NewFromInt(10000))
	effectiveSubtotal := floorZero(subtotalAfterCoupon.Sub(cardFeeSavings))

	// 3. Logistics discount on shipping
	logisticsTier := LogisticsTierFor(in.ParcelsPerMonth)
	shippingDiscount := in.ShippingCost.
		Mul(decimal.NewFromInt(logisticsTier.DiscountPct)).
		Div(decimal.NewFromInt(100))
	discountedShipping := in.ShippingCost.Sub(shippingDiscount)

	// 4. Totals
	total := effectiveSubtotal.Add(discountedShipping)
	totalSavings := cardFeeSavings.Add(shippingDiscount).Add(couponSavings)

	// 5. Loyalty award
	points := LoyaltyPointsFor(totalSavings)

	return Breakdown{
		CardTier:            cardTier,
		LogisticsTier:       logisticsTier,
		CouponSavings:       couponSavings,
		SubtotalAfterCoupon: subtotalAfterCoupon,
		CardFeeSavings:      cardFeeSavings,
		EffectiveSubtotal:   effectiveSubtotal,
		ShippingDiscount:    shippingDiscount,
		DiscountedShipping:  discountedShipping,
		Total:               total,
		TotalSavings:        totalSavings,
		LoyaltyPoints:       points,
	}, nil
}

// LoyaltyPointsFor returns floor(savings × 20), never negative
func LoyaltyPointsFor(savings decimal.Decimal) int64 {
	if savings.IsNegative() {
		return 0
	}
	return savings.Mul(loyaltyPointsPerDollar).Floor().IntPart()
}

// floorZero clamps a subtraction result at zero
func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
