package pricing

import "github.com/shopspring/decimal"

// CouponKind represents the kind of coupon
type CouponKind string

const (
	// CouponPercent discounts a percentage of the subtotal
	CouponPercent CouponKind = "percent"
	// CouponAmount discounts a fixed amount, capped at the subtotal
	CouponAmount CouponKind = "amount"
)

// String returns the string representation of the coupon kind
func (k CouponKind) String() string {
	return string(k)
}

// IsValid returns true if the coupon kind is one of the supported values
func (k CouponKind) IsValid() bool {
	switch k {
	case CouponPercent, CouponAmount:
		return true
	default:
		return false
	}
}

// Coupon is a percent or fixed-amount discount against an order subtotal
type Coupon struct {
	Kind  CouponKind
	Value decimal.Decimal
}

// SavingsOn returns the coupon savings against the given subtotal.
// Amount coupons never save more than the subtotal itself.
func (c Coupon) SavingsOn(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case CouponPercent:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case CouponAmount:
		if c.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return c.Value
	default:
		return decimal.Zero
	}
}
