package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Carrier names as registered with the manager
const (
	CarrierUSPS  = "USPS"
	CarrierUPS   = "UPS"
	CarrierFedEx = "FedEx"
)

// uspsMaxWeightOz is the postal network weight limit (70 lb)
var uspsMaxWeightOz = decimal.NewFromInt(1120)

// fedexGroundMinWeightOz is the floor below which FedEx ground economy
// makes no offer for lightweight shipments
var fedexGroundMinWeightOz = decimal.NewFromInt(8)

// USPSAdapter models postal ground pricing: lowest base rate, standard
// dimensional divisor, no surcharges, hard weight cap.
type USPSAdapter struct {
	card rateCard
}

// NewUSPSAdapter creates the postal carrier adapter
func NewUSPSAdapter() *USPSAdapter {
	return &USPSAdapter{
		card: rateCard{
			carrier:       CarrierUSPS,
			perOzRate:     decimal.NewFromFloat(0.055),
			excessOzRate:  decimal.NewFromFloat(0.04),
			dimDivisor:    decimal.NewFromInt(166),
			inboundFactor: decimal.NewFromFloat(0.95),
			services: map[Speed]ServiceLevel{
				SpeedEconomy:   {Service: "First-Class Package", EstDays: 5, Multiplier: decimal.NewFromInt(1), LastMile: true},
				SpeedStandard:  {Service: "Priority Mail", EstDays: 3, Multiplier: decimal.NewFromFloat(1.35), LastMile: true},
				SpeedExpedited: {Service: "Priority Mail Express", EstDays: 1, Multiplier: decimal.NewFromFloat(2.1), LastMile: true},
			},
		},
	}
}

// Name returns the carrier name
func (a *USPSAdapter) Name() string {
	return CarrierUSPS
}

// Quote computes the postal offer. Shipments above the postal weight
// limit get no offer.
func (a *USPSAdapter) Quote(ctx context.Context, req ShipmentRequest) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.WeightOz.GreaterThan(uspsMaxWeightOz) {
		return nil, nil
	}
	return a.card.quote(req), nil
}

// UPSAdapter models parcel pricing with a tighter dimensional divisor,
// so dimensional weight bites earlier, plus a percentage fuel surcharge.
type UPSAdapter struct {
	card rateCard
}

// NewUPSAdapter creates the UPS adapter
func NewUPSAdapter() *UPSAdapter {
	return &UPSAdapter{
		card: rateCard{
			carrier:          CarrierUPS,
			perOzRate:        decimal.NewFromFloat(0.085),
			excessOzRate:     decimal.NewFromFloat(0.06),
			dimDivisor:       decimal.NewFromInt(139),
			inboundFactor:    decimal.NewFromFloat(0.92),
			fuelSurchargePct: decimal.NewFromFloat(9.5),
			services: map[Speed]ServiceLevel{
				SpeedEconomy:   {Service: "UPS Ground", EstDays: 5, Multiplier: decimal.NewFromInt(1), LastMile: true},
				SpeedStandard:  {Service: "UPS 3 Day Select", EstDays: 3, Multiplier: decimal.NewFromFloat(1.45), LastMile: true},
				SpeedExpedited: {Service: "UPS Next Day Air", EstDays: 1, Multiplier: decimal.NewFromFloat(2.6), LastMile: true},
			},
		},
	}
}

// Name returns the carrier name
func (a *UPSAdapter) Name() string {
	return CarrierUPS
}

// Quote computes the UPS offer
func (a *UPSAdapter) Quote(ctx context.Context, req ShipmentRequest) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.card.quote(req), nil
}

// FedExAdapter models parcel pricing with a flat premium fee. Economy
// ground hands final-mile delivery to the postal network and does not
// economically support small, lightweight shipments.
type FedExAdapter struct {
	card rateCard
}

// NewFedExAdapter creates the FedEx adapter
func NewFedExAdapter() *FedExAdapter {
	return &FedExAdapter{
		card: rateCard{
			carrier:       CarrierFedEx,
			perOzRate:     decimal.NewFromFloat(0.08),
			excessOzRate:  decimal.NewFromFloat(0.055),
			dimDivisor:    decimal.NewFromInt(166),
			inboundFactor: decimal.NewFromFloat(0.93),
			flatSurcharge: decimal.NewFromFloat(1.25),
			services: map[Speed]ServiceLevel{
				SpeedEconomy:   {Service: "FedEx Ground Economy", EstDays: 5, Multiplier: decimal.NewFromInt(1), LastMile: false},
				SpeedStandard:  {Service: "FedEx Home Delivery", EstDays: 3, Multiplier: decimal.NewFromFloat(1.4), LastMile: true},
				SpeedExpedited: {Service: "FedEx Standard Overnight", EstDays: 1, Multiplier: decimal.NewFromFloat(2.4), LastMile: true},
			},
		},
	}
}

// Name returns the carrier name
func (a *FedExAdapter) Name() string {
	return CarrierFedEx
}

// Quote computes the FedEx offer. Lightweight economy shipments get no
// offer rather than an error.
func (a *FedExAdapter) Quote(ctx context.Context, req ShipmentRequest) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Speed == SpeedEconomy && req.WeightOz.LessThan(fedexGroundMinWeightOz) {
		return nil, nil
	}
	return a.card.quote(req), nil
}
