package pricing

import "github.com/shopspring/decimal"

// CardFeeTier maps annual processed volume onto a card-fee discount
// expressed in basis points.
type CardFeeTier struct {
	Name            string
	MinAnnualVolume decimal.Decimal
	DiscountBps     int64
}

// LogisticsTier maps monthly parcel volume onto a shipping discount
// expressed in whole percent.
type LogisticsTier struct {
	Name               string
	MinParcelsPerMonth int64
	DiscountPct        int64
}

// cardFeeTiers is ordered highest threshold first; the first satisfied
// threshold wins. The table is monotonic: more volume never means a
// smaller discount.
var cardFeeTiers = []CardFeeTier{
	{Name: "Enterprise", MinAnnualVolume: decimal.NewFromInt(50_000_000), DiscountBps: 275},
	{Name: "Diamond", MinAnnualVolume: decimal.NewFromInt(25_000_000), DiscountBps: 250},
	{Name: "Platinum", MinAnnualVolume: decimal.NewFromInt(10_000_000), DiscountBps: 220},
	{Name: "Gold", MinAnnualVolume: decimal.NewFromInt(5_000_000), DiscountBps: 180},
	{Name: "Silver", MinAnnualVolume: decimal.NewFromInt(1_000_000), DiscountBps: 130},
	{Name: "Growth", MinAnnualVolume: decimal.NewFromInt(250_000), DiscountBps: 75},
	{Name: "Basic", MinAnnualVolume: decimal.Zero, DiscountBps: 0},
}

// logisticsTiers is ordered highest threshold first, with a 5% baseline
// that every merchant qualifies for.
var logisticsTiers = []LogisticsTier{
	{Name: "Freight", MinParcelsPerMonth: 100_000, DiscountPct: 35},
	{Name: "Scale", MinParcelsPerMonth: 50_000, DiscountPct: 30},
	{Name: "Volume", MinParcelsPerMonth: 25_000, DiscountPct: 25},
	{Name: "High Volume", MinParcelsPerMonth: 10_000, DiscountPct: 20},
	{Name: "Mid Volume", MinParcelsPerMonth: 2_500, DiscountPct: 15},
	{Name: "Starter", MinParcelsPerMonth: 500, DiscountPct: 10},
	{Name: "Baseline", MinParcelsPerMonth: 0, DiscountPct: 5},
}

// CardFeeTierFor resolves the card-fee tier for an annual processed
// volume in USD. Negative volume resolves to the base tier.
func CardFeeTierFor(annualVolumeUSD decimal.Decimal) CardFeeTier {
	for _, tier := range cardFeeTiers {
		if annualVolumeUSD.GreaterThanOrEqual(tier.MinAnnualVolume) {
			return tier
		}
	}
	return cardFeeTiers[len(cardFeeTiers)-1]
}

// LogisticsTierFor resolves the logistics tier for a monthly parcel
// volume. Negative volume resolves to the baseline tier.
func LogisticsTierFor(parcelsPerMonth int64) LogisticsTier {
	for _, tier := range logisticsTiers {
		if parcelsPerMonth >= tier.MinParcelsPerMonth {
			return tier
		}
	}
	return logisticsTiers[len(logisticsTiers)-1]
}
