package pricing

import (
	"context"

	"github.com/markethub/backend/internal/domain/pricing"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/markethub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderPricingRequest describes one checkout pricing calculation
type OrderPricingRequest struct {
	Shipment        shipping.ShipmentRequest
	Subtotal        decimal.Decimal
	AnnualVolumeUSD decimal.Decimal
	ParcelsPerMonth int64
	Coupon          *pricing.Coupon
}

// OrderPricing pairs the chosen quote with the pipeline breakdown
type OrderPricing struct {
	Quote     *shipping.Quote
	Subtotal  decimal.Decimal
	Breakdown pricing.Breakdown
}

// DiscountPreviewRequest previews tier discounts before a shipping quote
// exists, using a caller-supplied base shipping cost.
type DiscountPreviewRequest struct {
	Subtotal        decimal.Decimal
	ShippingBase    decimal.Decimal
	AnnualVolumeUSD decimal.Decimal
	ParcelsPerMonth int64
	Coupon          *pricing.Coupon
}

// Service runs the discount/coupon pricing pipeline over quoted shipments
type Service struct {
	manager *shipping.CarrierManager
	engine  *pricing.Engine
	logger  *zap.Logger
}

// NewService creates a new pricing Service
func NewService(manager *shipping.CarrierManager, engine *pricing.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		manager: manager,
		engine:  engine,
		logger:  logger,
	}
}

// CalculateOrderTotal picks the cheapest quote for the shipment and runs
// the pricing pipeline against it.
func (s *Service) CalculateOrderTotal(ctx context.Context, req OrderPricingRequest) (*OrderPricing, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "calculate_order_total",
		telemetry.WithAttribute("parcels_per_month", req.ParcelsPerMonth),
	)
	defer span.End()

	if err := req.Shipment.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	best := s.manager.GetBestQuote(ctx, req.Shipment)
	if best == nil {
		return nil, shared.ErrNoQuotesAvailable
	}

	breakdown, err := s.engine.Calculate(ctx, pricing.Input{
		Subtotal:        req.Subtotal,
		ShippingCost:    best.Cost,
		AnnualVolumeUSD: req.AnnualVolumeUSD,
		ParcelsPerMonth: req.ParcelsPerMonth,
		Coupon:          req.Coupon,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		"carrier", best.Carrier,
		"card_tier", breakdown.CardTier.Name,
		"logistics_tier", breakdown.LogisticsTier.Name,
	)

	return &OrderPricing{
		Quote:     best,
		Subtotal:  req.Subtotal,
		Breakdown: breakdown,
	}, nil
}

// PreviewDiscounts runs the pipeline against a caller-supplied base
// shipping cost, for discount previews ahead of a carrier quote.
func (s *Service) PreviewDiscounts(ctx context.Context, req DiscountPreviewRequest) (pricing.Breakdown, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "preview_discounts")
	defer span.End()

	breakdown, err := s.engine.Calculate(ctx, pricing.Input{
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingBase,
		AnnualVolumeUSD: req.AnnualVolumeUSD,
		ParcelsPerMonth: req.ParcelsPerMonth,
		Coupon:          req.Coupon,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return pricing.Breakdown{}, err
	}
	return breakdown, nil
}
