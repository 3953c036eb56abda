package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierAdapter computes a cost/service quote for one shipment under one
// carrier's pricing model.
//
// A nil quote with a nil error means the carrier has no offer for the
// request (outside its serviceable envelope). A non-nil error means the
// adapter itself failed; the caller is expected to isolate that failure.
// Today's adapters are deterministic formulas, but the contract anticipates
// real network calls, so implementations must honor context cancellation.
type CarrierAdapter interface {
	// Name returns the carrier name used for registration and lookup
	Name() string
	// Quote computes the carrier's offer for the request
	Quote(ctx context.Context, req ShipmentRequest) (*Quote, error)
}

// ounces per pound, used to convert dimensional weight
var ozPerLb = decimal.NewFromInt(16)

// ServiceLevel maps a requested speed onto a carrier product
type ServiceLevel struct {
	Service    string
	EstDays    int
	Multiplier decimal.Decimal
	LastMile   bool
}

// rateCard holds the pricing model shared by the formula-based adapters:
// a per-ounce base rate, a dimensional-weight divisor, an excess-weight
// rate for the dimensional overage, a return-shipment factor, and the
// carrier's surcharge (flat fee, fuel percentage, or neither).
type rateCard struct {
	carrier          string
	perOzRate        decimal.Decimal
	excessOzRate     decimal.Decimal
	dimDivisor       decimal.Decimal // cubic inches per pound
	inboundFactor    decimal.Decimal
	flatSurcharge    decimal.Decimal
	fuelSurchargePct decimal.Decimal
	services         map[Speed]ServiceLevel
}

// billableWeightOz returns max(actual weight, dimensional weight) in ounces.
// Dimensional weight never reduces the billed weight.
func (rc rateCard) billableWeightOz(req ShipmentRequest) decimal.Decimal {
	billable := req.WeightOz
	if req.Dimensions != nil {
		dimOz := req.Dimensions.Volume().Div(rc.dimDivisor).Mul(ozPerLb)
		if dimOz.GreaterThan(billable) {
			billable = dimOz
		}
	}
	return billable
}

// quote computes the carrier's offer for the request. Internal math keeps
// full precision; the cost is rounded to cents on the produced quote.
func (rc rateCard) quote(req ShipmentRequest) *Quote {
	level, ok := rc.services[req.Speed]
	if !ok {
		return nil
	}

	cost := req.WeightOz.Mul(rc.perOzRate)

	// Dimensional overage beyond actual weight bills at the excess rate
	excess := rc.billableWeightOz(req).Sub(req.WeightOz)
	if excess.IsPositive() {
		cost = cost.Add(excess.Mul(rc.excessOzRate))
	}

	cost = cost.Mul(level.Multiplier)
	if req.Mode == ModeInbound {
		cost = cost.Mul(rc.inboundFactor)
	}
	if !rc.fuelSurchargePct.IsZero() {
		cost = cost.Add(cost.Mul(rc.fuelSurchargePct).Div(decimal.NewFromInt(100)))
	}
	if !rc.flatSurcharge.IsZero() {
		cost = cost.Add(rc.flatSurcharge)
	}

	return &Quote{
		ID:       uuid.New(),
		Carrier:  rc.carrier,
		Service:  level.Service,
		Cost:     cost.Round(2),
		EstDays:  level.EstDays,
		LastMile: level.LastMile,
		QuotedAt: time.Now().UTC(),
	}
}
