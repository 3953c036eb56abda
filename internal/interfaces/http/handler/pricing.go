package handler

import (
	"github.com/gin-gonic/gin"
	pricingapp "github.com/markethub/backend/internal/application/pricing"
	"github.com/markethub/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// PricingHandler handles order pricing and discount preview endpoints
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.Service
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricingapp.Service) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// RegisterRoutes registers pricing routes on the given group
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/calculate-total", h.CalculateTotal)
	rg.POST("/discounts/apply", h.ApplyDiscounts)
}

// CouponInput represents an optional coupon in pricing requests
type CouponInput struct {
	Kind  string   `json:"kind" binding:"required,oneof=percent amount"`
	Value *float64 `json:"value" binding:"required,gte=0"`
}

// toDomain converts the input into a domain coupon
func (in *CouponInput) toDomain() *pricing.Coupon {
	if in == nil {
		return nil
	}
	return &pricing.Coupon{
		Kind:  pricing.CouponKind(in.Kind),
		Value: decimal.NewFromFloat(*in.Value),
	}
}

// CalculateTotalRequest represents a full checkout pricing request
type CalculateTotalRequest struct {
	ShipmentInput
	Subtotal        *float64     `json:"subtotal" binding:"required,gte=0"`
	AnnualVolumeUSD float64      `json:"annualVolumeUSD" binding:"gte=0"`
	ParcelsPerMonth int64        `json:"parcelsPerMonth" binding:"gte=0"`
	Coupon          *CouponInput `json:"coupon" binding:"omitempty"`
}

// ShippingResult describes the chosen quote inside a pricing result
type ShippingResult struct {
	Carrier        string  `json:"carrier"`
	Service        string  `json:"service"`
	OriginalCost   float64 `json:"originalCost"`
	DiscountedCost float64 `json:"discountedCost"`
	Savings        float64 `json:"savings"`
	EstDays        int     `json:"estDays"`
}

// DiscountsResult describes the tier selections and per-stage savings
type DiscountsResult struct {
	CardTier         string  `json:"cardTier"`
	LogisticsTier    string  `json:"logisticsTier"`
	CardFeeSavings   float64 `json:"cardFeeSavings"`
	ShippingDiscount float64 `json:"shippingDiscount"`
	CouponSavings    float64 `json:"couponSavings"`
	TotalSavings     float64 `json:"totalSavings"`
}

// TotalsResult describes the running subtotals and the final total
type TotalsResult struct {
	Subtotal            float64 `json:"subtotal"`
	SubtotalAfterCoupon float64 `json:"subtotalAfterCoupon"`
	EffectiveSubtotal   float64 `json:"effectiveSubtotal"`
	Shipping            float64 `json:"shipping"`
	Total               float64 `json:"total"`
}

// PricingResultResponse is the full auditable pricing breakdown
type PricingResultResponse struct {
	Shipping            ShippingResult  `json:"shipping"`
	Discounts           DiscountsResult `json:"discounts"`
	Totals              TotalsResult    `json:"totals"`
	LoyaltyPointsEarned int64           `json:"loyaltyPointsEarned"`
}

// CalculateTotal quotes the shipment, picks the cheapest carrier, and runs
// the discount pipeline to a final total
func (h *PricingHandler) CalculateTotal(c *gin.Context) {
	var req CalculateTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	result, err := h.pricingService.CalculateOrderTotal(c.Request.Context(), pricingapp.OrderPricingRequest{
		Shipment:        req.toDomain(),
		Subtotal:        decimal.NewFromFloat(*req.Subtotal),
		AnnualVolumeUSD: decimal.NewFromFloat(req.AnnualVolumeUSD),
		ParcelsPerMonth: req.ParcelsPerMonth,
		Coupon:          req.Coupon.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	b := result.Breakdown
	resp := PricingResultResponse{
		Shipping: ShippingResult{
			Carrier:        result.Quote.Carrier,
			Service:        result.Quote.Service,
			OriginalCost:   cents(result.Quote.Cost),
			DiscountedCost: cents(b.DiscountedShipping),
			Savings:        cents(b.ShippingDiscount),
			EstDays:        result.Quote.EstDays,
		},
		Discounts: DiscountsResult{
			CardTier:         b.CardTier.Name,
			LogisticsTier:    b.LogisticsTier.Name,
			CardFeeSavings:   cents(b.CardFeeSavings),
			ShippingDiscount: cents(b.ShippingDiscount),
			CouponSavings:    cents(b.CouponSavings),
			TotalSavings:     cents(b.TotalSavings),
		},
		Totals: TotalsResult{
			Subtotal:            cents(result.Subtotal),
			SubtotalAfterCoupon: cents(b.SubtotalAfterCoupon),
			EffectiveSubtotal:   cents(b.EffectiveSubtotal),
			Shipping:            cents(b.DiscountedShipping),
			Total:               cents(b.Total),
		},
		LoyaltyPointsEarned: b.LoyaltyPoints,
	}

	h.Success(c, resp)
}

// ApplyDiscountsRequest previews discounts against a caller-supplied
// base shipping cost, ahead of any carrier quote
type ApplyDiscountsRequest struct {
	Subtotal        *float64     `json:"subtotal" binding:"required,gte=0"`
	ShippingBase    *float64     `json:"shippingBase" binding:"required,gte=0"`
	AnnualVolumeUSD float64      `json:"annualVolumeUSD" binding:"gte=0"`
	ParcelsPerMonth int64        `json:"parcelsPerMonth" binding:"gte=0"`
	Coupon          *CouponInput `json:"coupon" binding:"omitempty"`
}

// ApplyDiscountsResponse carries the tier selections and every
// intermediate calculation of the pipeline
type ApplyDiscountsResponse struct {
	CardTier            string  `json:"cardTier"`
	LogisticsTier       string  `json:"logisticsTier"`
	CouponSavings       float64 `json:"couponSavings"`
	SubtotalAfterCoupon float64 `json:"subtotalAfterCoupon"`
	CardFeeSavings      float64 `json:"cardFeeSavings"`
	EffectiveSubtotal   float64 `json:"effectiveSubtotal"`
	ShippingBase        float64 `json:"shippingBase"`
	ShippingDiscount    float64 `json:"shippingDiscount"`
	DiscountedShipping  float64 `json:"discountedShipping"`
	TotalSavings        float64 `json:"totalSavings"`
	Total               float64 `json:"total"`
	LoyaltyPointsEarned int64   `json:"loyaltyPointsEarned"`
}

// ApplyDiscounts runs the discount pipeline for a preview
func (h *PricingHandler) ApplyDiscounts(c *gin.Context) {
	var req ApplyDiscountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	b, err := h.pricingService.PreviewDiscounts(c.Request.Context(), pricingapp.DiscountPreviewRequest{
		Subtotal:        decimal.NewFromFloat(*req.Subtotal),
		ShippingBase:    decimal.NewFromFloat(*req.ShippingBase),
		AnnualVolumeUSD: decimal.NewFromFloat(req.AnnualVolumeUSD),
		ParcelsPerMonth: req.ParcelsPerMonth,
		Coupon:          req.Coupon.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ApplyDiscountsResponse{
		CardTier:            b.CardTier.Name,
		LogisticsTier:       b.LogisticsTier.Name,
		CouponSavings:       cents(b.CouponSavings),
		SubtotalAfterCoupon: cents(b.SubtotalAfterCoupon),
		CardFeeSavings:      cents(b.CardFeeSavings),
		EffectiveSubtotal:   cents(b.EffectiveSubtotal),
		ShippingBase:        *req.ShippingBase,
		ShippingDiscount:    cents(b.ShippingDiscount),
		DiscountedShipping:  cents(b.DiscountedShipping),
		TotalSavings:        cents(b.TotalSavings),
		Total:               cents(b.Total),
		LoyaltyPointsEarned: b.LoyaltyPoints,
	}

	h.Success(c, resp)
}

// cents rounds a decimal to two places for the output boundary
func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
