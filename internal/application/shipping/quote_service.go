package shipping

import (
	"context"
	"fmt"

	"github.com/markethub/backend/internal/domain/pricing"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/markethub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteOptions controls optional volume-discount annotation on quotes
type QuoteOptions struct {
	IncludeDiscounts bool
	ParcelsPerMonth  int64
}

// QuoteService aggregates carrier quotes for the HTTP boundary
type QuoteService struct {
	manager *shipping.CarrierManager
	logger  *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(manager *shipping.CarrierManager, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		manager: manager,
		logger:  logger,
	}
}

// Carriers returns the registered carrier names in registration order
func (s *QuoteService) Carriers() []string {
	return s.manager.Carriers()
}

// GetQuotes returns all available quotes sorted ascending by cost. When
// discounts are requested, each quote is annotated with the logistics-tier
// discount and the loyalty points it would earn.
func (s *QuoteService) GetQuotes(ctx context.Context, req shipping.ShipmentRequest, opts QuoteOptions) ([]*shipping.Quote, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "get_quotes",
		telemetry.WithAttribute("speed", req.Speed.String()),
		telemetry.WithAttribute("mode", req.Mode.String()),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	quotes := s.manager.GetQuotes(ctx, req)
	if opts.IncludeDiscounts {
		annotateQuotes(quotes, opts.ParcelsPerMonth)
	}

	telemetry.SetAttributes(span, "quote_count", len(quotes))
	return quotes, nil
}

// GetBestQuote returns the cheapest available quote
func (s *QuoteService) GetBestQuote(ctx context.Context, req shipping.ShipmentRequest) (*shipping.Quote, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "get_best_quote")
	defer span.End()

	if err := req.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	best := s.manager.GetBestQuote(ctx, req)
	if best == nil {
		return nil, shared.ErrNoQuotesAvailable
	}
	return best, nil
}

// GetQuoteByCarrier quotes a single carrier by name. An unregistered
// carrier is an explicit error; a registered carrier with no offer for
// the request resolves to a no-quotes error.
func (s *QuoteService) GetQuoteByCarrier(ctx context.Context, req shipping.ShipmentRequest, carrier string) (*shipping.Quote, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "get_quote_by_carrier",
		telemetry.WithAttribute("carrier", carrier),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	quote, err := s.manager.GetQuoteByCarrier(ctx, req, carrier)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if quote == nil {
		return nil, shared.NewDomainError("NO_QUOTES_AVAILABLE",
			fmt.Sprintf("%s has no offer for this shipment", carrier))
	}
	return quote, nil
}

// annotateQuotes applies the logistics-tier discount to each quote and
// computes the loyalty points the discount alone would earn.
func annotateQuotes(quotes []*shipping.Quote, parcelsPerMonth int64) {
	tier := pricing.LogisticsTierFor(parcelsPerMonth)
	pct := decimal.NewFromInt(tier.DiscountPct)
	for _, q := range quotes {
		discount := q.Cost.Mul(pct).Div(decimal.NewFromInt(100))
		q.Discount = &shipping.QuoteDiscount{
			OriginalCost:        q.Cost,
			DiscountAmount:      discount,
			DiscountTier:        tier.Name,
			LoyaltyPointsEarned: pricing.LoyaltyPointsFor(discount),
		}
	}
}
