package pricing

import (
	"context"
	"testing"

	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponSavingsOn(t *testing.T) {
	subtotal := decimal.NewFromInt(200)

	t.Run("percent coupon", func(t *testing.T) {
		c := Coupon{Kind: CouponPercent, Value: decimal.NewFromInt(15)}
		assert.Equal(t, "30", c.SavingsOn(subtotal).String())
	})

	t.Run("amount coupon below subtotal", func(t *testing.T) {
		c := Coupon{Kind: CouponAmount, Value: decimal.NewFromInt(50)}
		assert.Equal(t, "50", c.SavingsOn(subtotal).String())
	})

	t.Run("amount coupon clamped at subtotal", func(t *testing.T) {
		c := Coupon{Kind: CouponAmount, Value: decimal.NewFromInt(999)}
		assert.Equal(t, "200", c.SavingsOn(subtotal).String())
	})

	t.Run("unknown kind saves nothing", func(t *testing.T) {
		c := Coupon{Kind: CouponKind("bogo"), Value: decimal.NewFromInt(50)}
		assert.True(t, c.SavingsOn(subtotal).IsZero())
	})
}

func TestEngineCalculate(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	t.Run("full pipeline with percent coupon", func(t *testing.T) {
		b, err := engine.Calculate(ctx, Input{
			Subtotal:        decimal.NewFromInt(1000),
			ShippingCost:    decimal.NewFromInt(20),
			AnnualVolumeUSD: decimal.NewFromInt(5_000_000),
			ParcelsPerMonth: 30_000,
			Coupon:          &Coupon{Kind: CouponPercent, Value: decimal.NewFromInt(10)},
		})
		require.NoError(t, err)

		assert.Equal(t, "Gold", b.CardTier.Name)
		assert.Equal(t, "Volume", b.LogisticsTier.Name)
		assert.Equal(t, "100", b.CouponSavings.String())
		assert.Equal(t, "900", b.SubtotalAfterCoupon.String())
		assert.Equal(t, "16.2", b.CardFeeSavings.String())
		assert.Equal(t, "883.8", b.EffectiveSubtotal.String())
		assert.Equal(t, "5", b.ShippingDiscount.String())
		assert.Equal(t, "15", b.DiscountedShipping.String())
		assert.Equal(t, "898.8", b.Total.String())
		assert.Equal(t, "121.2", b.TotalSavings.String())
		assert.Equal(t, int64(2424), b.LoyaltyPoints)
	})

	t.Run("no coupon is an identity on the subtotal", func(t *testing.T) {
		subtotal := decimal.NewFromFloat(437.21)
		b, err := engine.Calculate(ctx, Input{
			Subtotal:        subtotal,
			ShippingCost:    decimal.NewFromInt(10),
			AnnualVolumeUSD: decimal.Zero,
			ParcelsPerMonth: 0,
		})
		require.NoError(t, err)

		assert.True(t, b.CouponSavings.IsZero())
		assert.True(t, b.SubtotalAfterCoupon.Equal(subtotal))
	})

	t.Run("basic tier leaves subtotal untouched", func(t *testing.T) {
		b, err := engine.Calculate(ctx, Input{
			Subtotal:        decimal.NewFromInt(100),
			ShippingCost:    decimal.NewFromInt(10),
			AnnualVolumeUSD: decimal.NewFromInt(1000),
			ParcelsPerMonth: 0,
		})
		require.NoError(t, err)

		assert.Equal(t, "Basic", b.CardTier.Name)
		assert.True(t, b.CardFeeSavings.IsZero())
		assert.True(t, b.EffectiveSubtotal.Equal(decimal.NewFromInt(100)))
		// baseline logistics still discounts shipping 5%
		assert.Equal(t, "0.5", b.ShippingDiscount.String())
	})

	t.Run("amount coupon larger than subtotal floors at zero", func(t *testing.T) {
		b, err := engine.Calculate(ctx, Input{
			Subtotal:        decimal.NewFromInt(30),
			ShippingCost:    decimal.NewFromInt(8),
			AnnualVolumeUSD: decimal.Zero,
			ParcelsPerMonth: 0,
			Coupon:          &Coupon{Kind: CouponAmount, Value: decimal.NewFromInt(500)},
		})
		require.NoError(t, err)

		assert.Equal(t, "30", b.CouponSavings.String())
		assert.True(t, b.SubtotalAfterCoupon.IsZero())
		assert.True(t, b.EffectiveSubtotal.IsZero())
		assert.False(t, b.Total.IsNegative())
	})

	t.Run("nothing in the breakdown is ever negative", func(t *testing.T) {
		b, err := engine.Calculate(ctx, Input{
			Subtotal:        decimal.NewFromFloat(0.01),
			ShippingCost:    decimal.Zero,
			AnnualVolumeUSD: decimal.NewFromInt(60_000_000),
			ParcelsPerMonth: 200_000,
			Coupon:          &Coupon{Kind: CouponPercent, Value: decimal.NewFromInt(100)},
		})
		require.NoError(t, err)

		for name, v := range map[string]decimal.Decimal{
			"couponSavings":       b.CouponSavings,
			"subtotalAfterCoupon": b.SubtotalAfterCoupon,
			"cardFeeSavings":      b.CardFeeSavings,
			"effectiveSubtotal":   b.EffectiveSubtotal,
			"shippingDiscount":    b.ShippingDiscount,
			"discountedShipping":  b.DiscountedShipping,
			"total":               b.Total,
			"totalSavings":        b.TotalSavings,
		} {
			assert.False(t, v.IsNegative(), name)
		}
		assert.GreaterOrEqual(t, b.LoyaltyPoints, int64(0))
	})

	t.Run("negative subtotal rejected", func(t *testing.T) {
		_, err := engine.Calculate(ctx, Input{
			Subtotal:     decimal.NewFromInt(-1),
			ShippingCost: decimal.NewFromInt(5),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("negative shipping cost rejected", func(t *testing.T) {
		_, err := engine.Calculate(ctx, Input{
			Subtotal:     decimal.NewFromInt(100),
			ShippingCost: decimal.NewFromInt(-5),
		})
		assert.Error(t, err)
	})

	t.Run("invalid coupon kind rejected", func(t *testing.T) {
		_, err := engine.Calculate(ctx, Input{
			Subtotal:     decimal.NewFromInt(100),
			ShippingCost: decimal.NewFromInt(5),
			Coupon:       &Coupon{Kind: CouponKind("bogo"), Value: decimal.NewFromInt(1)},
		})
		assert.Error(t, err)
	})
}

func TestLoyaltyPointsFor(t *testing.T) {
	cases := []struct {
		name    string
		savings string
		points  int64
	}{
		{"zero savings", "0", 0},
		{"whole dollars", "10", 200},
		{"fractional savings floor", "1.23", 24},
		{"just under a point", "0.04", 0},
		{"exactly one point", "0.05", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			savings, err := decimal.NewFromString(tc.savings)
			require.NoError(t, err)
			assert.Equal(t, tc.points, LoyaltyPointsFor(savings))
		})
	}

	t.Run("negative savings never awards points", func(t *testing.T) {
		assert.Equal(t, int64(0), LoyaltyPointsFor(decimal.NewFromInt(-3)))
	})
}
