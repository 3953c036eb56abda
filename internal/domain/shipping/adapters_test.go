package shipping

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard() rateCard {
	return rateCard{
		carrier:       "TestCarrier",
		perOzRate:     decimal.NewFromFloat(0.08),
		excessOzRate:  decimal.NewFromFloat(0.05),
		dimDivisor:    decimal.NewFromInt(160),
		inboundFactor: decimal.NewFromFloat(0.9),
		services: map[Speed]ServiceLevel{
			SpeedEconomy:   {Service: "Test Ground", EstDays: 5, Multiplier: decimal.NewFromInt(1), LastMile: true},
			SpeedStandard:  {Service: "Test Standard", EstDays: 3, Multiplier: decimal.NewFromFloat(1.4), LastMile: true},
			SpeedExpedited: {Service: "Test Express", EstDays: 1, Multiplier: decimal.NewFromFloat(2.0), LastMile: true},
		},
	}
}

func baseRequest() ShipmentRequest {
	return ShipmentRequest{
		DestinationZip: "94107",
		WeightOz:       decimal.NewFromInt(16),
		Speed:          SpeedStandard,
		Mode:           ModeOutbound,
	}
}

func TestRateCardQuote(t *testing.T) {
	t.Run("weight times rate times speed multiplier", func(t *testing.T) {
		// 16 × 0.08 × 1.4 = 1.792 → 1.79
		q := testCard().quote(baseRequest())
		require.NotNil(t, q)
		assert.Equal(t, "1.79", q.Cost.StringFixed(2))
		assert.Equal(t, "Test Standard", q.Service)
		assert.Equal(t, 3, q.EstDays)
		assert.True(t, q.LastMile)
	})

	t.Run("inbound mode applies return discount", func(t *testing.T) {
		req := baseRequest()
		req.Mode = ModeInbound

		outbound := testCard().quote(baseRequest())
		inbound := testCard().quote(req)
		require.NotNil(t, inbound)
		// 1.792 × 0.9 = 1.6128 → 1.61
		assert.Equal(t, "1.61", inbound.Cost.StringFixed(2))
		assert.True(t, inbound.Cost.LessThan(outbound.Cost))
	})

	t.Run("percentage fuel surcharge", func(t *testing.T) {
		card := testCard()
		card.fuelSurchargePct = decimal.NewFromInt(10)

		// 1.792 × 1.10 = 1.9712 → 1.97
		q := card.quote(baseRequest())
		require.NotNil(t, q)
		assert.Equal(t, "1.97", q.Cost.StringFixed(2))
	})

	t.Run("flat surcharge added after multipliers", func(t *testing.T) {
		card := testCard()
		card.flatSurcharge = decimal.NewFromFloat(1.25)

		// 1.792 + 1.25 = 3.042 → 3.04
		q := card.quote(baseRequest())
		require.NotNil(t, q)
		assert.Equal(t, "3.04", q.Cost.StringFixed(2))
	})

	t.Run("dimensional excess billed at excess rate", func(t *testing.T) {
		req := baseRequest()
		req.Speed = SpeedEconomy
		req.Dimensions = &Dimensions{
			Length: decimal.NewFromInt(10),
			Width:  decimal.NewFromInt(10),
			Height: decimal.NewFromInt(16),
		}

		// dim = 1600/160 × 16 = 160 oz, excess = 144 oz
		// 16 × 0.08 + 144 × 0.05 = 1.28 + 7.2 = 8.48
		q := testCard().quote(req)
		require.NotNil(t, q)
		assert.Equal(t, "8.48", q.Cost.StringFixed(2))
	})

	t.Run("unknown speed produces no offer", func(t *testing.T) {
		req := baseRequest()
		req.Speed = Speed("overnight-drone")
		assert.Nil(t, testCard().quote(req))
	})

	t.Run("quote carries identity and timestamp", func(t *testing.T) {
		q := testCard().quote(baseRequest())
		require.NotNil(t, q)
		assert.NotEmpty(t, q.ID)
		assert.False(t, q.QuotedAt.IsZero())
		assert.Equal(t, "TestCarrier", q.Carrier)
	})
}

func TestBillableWeight(t *testing.T) {
	card := testCard()

	t.Run("no dimensions uses actual weight", func(t *testing.T) {
		w := card.billableWeightOz(baseRequest())
		assert.True(t, w.Equal(decimal.NewFromInt(16)))
	})

	t.Run("zero dimensions uses actual weight", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = &Dimensions{}
		w := card.billableWeightOz(req)
		assert.True(t, w.Equal(decimal.NewFromInt(16)))
	})

	t.Run("dimensional weight never reduces billed weight", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = &Dimensions{
			Length: decimal.NewFromInt(2),
			Width:  decimal.NewFromInt(2),
			Height: decimal.NewFromInt(2),
		}
		w := card.billableWeightOz(req)
		assert.True(t, w.Equal(decimal.NewFromInt(16)))
	})

	t.Run("bulky package bills at dimensional weight", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = &Dimensions{
			Length: decimal.NewFromInt(10),
			Width:  decimal.NewFromInt(10),
			Height: decimal.NewFromInt(16),
		}
		w := card.billableWeightOz(req)
		assert.True(t, w.Equal(decimal.NewFromInt(160)))
	})
}

func TestUSPSAdapter(t *testing.T) {
	adapter := NewUSPSAdapter()
	ctx := context.Background()

	t.Run("quotes within the postal envelope", func(t *testing.T) {
		q, err := adapter.Quote(ctx, baseRequest())
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, CarrierUSPS, q.Carrier)
		assert.Equal(t, "Priority Mail", q.Service)
		// 16 × 0.055 × 1.35 = 1.188 → 1.19
		assert.Equal(t, "1.19", q.Cost.StringFixed(2))
	})

	t.Run("no offer above the weight cap", func(t *testing.T) {
		req := baseRequest()
		req.WeightOz = decimal.NewFromInt(1200)
		q, err := adapter.Quote(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := adapter.Quote(cancelled, baseRequest())
		assert.Error(t, err)
	})
}

func TestUPSAdapter(t *testing.T) {
	adapter := NewUPSAdapter()
	ctx := context.Background()

	t.Run("fuel surcharge included", func(t *testing.T) {
		q, err := adapter.Quote(ctx, baseRequest())
		require.NoError(t, err)
		require.NotNil(t, q)
		// 16 × 0.085 × 1.45 × 1.095 = 2.15934 → 2.16
		assert.Equal(t, "2.16", q.Cost.StringFixed(2))
	})

	t.Run("tighter divisor makes dimensional weight bite earlier", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = &Dimensions{
			Length: decimal.NewFromInt(12),
			Width:  decimal.NewFromInt(12),
			Height: decimal.NewFromInt(10),
		}

		ups := NewUPSAdapter()
		usps := NewUSPSAdapter()
		upsDim := ups.card.billableWeightOz(req)
		uspsDim := usps.card.billableWeightOz(req)
		assert.True(t, upsDim.GreaterThan(uspsDim))
	})
}

func TestFedExAdapter(t *testing.T) {
	adapter := NewFedExAdapter()
	ctx := context.Background()

	t.Run("flat premium fee included", func(t *testing.T) {
		q, err := adapter.Quote(ctx, baseRequest())
		require.NoError(t, err)
		require.NotNil(t, q)
		// 16 × 0.08 × 1.4 + 1.25 = 3.042 → 3.04
		assert.Equal(t, "3.04", q.Cost.StringFixed(2))
	})

	t.Run("no ground economy offer for lightweight shipments", func(t *testing.T) {
		req := baseRequest()
		req.Speed = SpeedEconomy
		req.WeightOz = decimal.NewFromInt(4)
		q, err := adapter.Quote(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("same lightweight shipment quoted at standard speed", func(t *testing.T) {
		req := baseRequest()
		req.WeightOz = decimal.NewFromInt(4)
		q, err := adapter.Quote(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("ground economy hands off the final mile", func(t *testing.T) {
		req := baseRequest()
		req.Speed = SpeedEconomy
		q, err := adapter.Quote(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.False(t, q.LastMile)
	})
}

func TestAdapterQuoteBasics(t *testing.T) {
	// every non-nil quote has cost ≥ 0 and estDays ≥ 1
	adapters := []CarrierAdapter{NewUSPSAdapter(), NewUPSAdapter(), NewFedExAdapter()}
	speeds := []Speed{SpeedEconomy, SpeedStandard, SpeedExpedited}
	modes := []Mode{ModeOutbound, ModeInbound}

	for _, adapter := range adapters {
		for _, speed := range speeds {
			for _, mode := range modes {
				req := baseRequest()
				req.Speed = speed
				req.Mode = mode

				q, err := adapter.Quote(context.Background(), req)
				require.NoError(t, err)
				if q == nil {
					continue
				}
				assert.False(t, q.Cost.IsNegative(), "%s %s %s", adapter.Name(), speed, mode)
				assert.GreaterOrEqual(t, q.EstDays, 1)
				assert.NotEmpty(t, q.Service)
			}
		}
	}
}
