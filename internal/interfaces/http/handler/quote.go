package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	shippingapp "github.com/markethub/backend/internal/application/shipping"
	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/markethub/backend/internal/interfaces/http/dto"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// QuoteHandler handles carrier quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *shippingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *shippingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// RegisterRoutes registers quote routes on the given group
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.GetQuotes)
	rg.POST("/quotes/:carrier", h.GetQuoteByCarrier)
	rg.POST("/best-quote", h.GetBestQuote)
}

// DimensionsInput represents package dimensions in inches
type DimensionsInput struct {
	Length float64 `json:"l" binding:"gte=0"`
	Width  float64 `json:"w" binding:"gte=0"`
	Height float64 `json:"h" binding:"gte=0"`
}

// ShipmentInput represents the shipment fields shared by quote requests
type ShipmentInput struct {
	DestinationZip string           `json:"destinationZip" binding:"required"`
	WeightOz       *float64         `json:"weightOz" binding:"required,gte=0"`
	DimensionsIn   *DimensionsInput `json:"dimensionsIn" binding:"omitempty"`
	Speed          string           `json:"speed" binding:"required,oneof=economy standard expedited"`
	Mode           string           `json:"mode" binding:"required,oneof=outbound inbound"`
}

// toDomain converts the input into a domain shipment request
func (in ShipmentInput) toDomain() shipping.ShipmentRequest {
	req := shipping.ShipmentRequest{
		DestinationZip: in.DestinationZip,
		WeightOz:       decimal.NewFromFloat(*in.WeightOz),
		Speed:          shipping.Speed(in.Speed),
		Mode:           shipping.Mode(in.Mode),
	}
	if in.DimensionsIn != nil {
		req.Dimensions = &shipping.Dimensions{
			Length: decimal.NewFromFloat(in.DimensionsIn.Length),
			Width:  decimal.NewFromFloat(in.DimensionsIn.Width),
			Height: decimal.NewFromFloat(in.DimensionsIn.Height),
		}
	}
	return req
}

// QuotesRequest represents a request for quotes from all carriers
type QuotesRequest struct {
	ShipmentInput
	IncludeDiscounts bool  `json:"includeDiscounts"`
	ParcelsPerMonth  int64 `json:"parcelsPerMonth" binding:"gte=0"`
}

// QuoteResponse represents a single carrier quote in API responses
type QuoteResponse struct {
	ID       string  `json:"id"`
	Carrier  string  `json:"carrier"`
	Service  string  `json:"service"`
	Cost     float64 `json:"cost"`
	EstDays  int     `json:"estDays"`
	LastMile bool    `json:"lastMile"`
	QuotedAt string  `json:"quotedAt"`

	OriginalCost        *float64 `json:"originalCost,omitempty"`
	DiscountAmount      *float64 `json:"discountAmount,omitempty"`
	DiscountTier        string   `json:"discountTier,omitempty"`
	LoyaltyPointsEarned *int64   `json:"loyaltyPointsEarned,omitempty"`
}

// QuoteParams echoes the parameters the quotes were computed for
type QuoteParams struct {
	DestinationZip string           `json:"destinationZip"`
	WeightOz       float64          `json:"weightOz"`
	DimensionsIn   *DimensionsInput `json:"dimensionsIn,omitempty"`
	Speed          string           `json:"speed"`
	Mode           string           `json:"mode"`
}

// QuotesResponse represents the full fan-out result
type QuotesResponse struct {
	Quotes           []QuoteResponse `json:"quotes"`
	RecommendedQuote *QuoteResponse  `json:"recommendedQuote"`
	QuoteParams      QuoteParams     `json:"quoteParams"`
}

// toQuoteResponse converts a domain quote to its API representation.
// Monetary values are rounded to cents here, at the output boundary.
func toQuoteResponse(q *shipping.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:       q.ID.String(),
		Carrier:  q.Carrier,
		Service:  q.Service,
		Cost:     q.Cost.Round(2).InexactFloat64(),
		EstDays:  q.EstDays,
		LastMile: q.LastMile,
		QuotedAt: q.QuotedAt.Format(time.RFC3339),
	}
	if q.Discount != nil {
		original := q.Discount.OriginalCost.Round(2).InexactFloat64()
		amount := q.Discount.DiscountAmount.Round(2).InexactFloat64()
		points := q.Discount.LoyaltyPointsEarned
		resp.OriginalCost = &original
		resp.DiscountAmount = &amount
		resp.DiscountTier = q.Discount.DiscountTier
		resp.LoyaltyPointsEarned = &points
	}
	return resp
}

// GetQuotes returns quotes from all registered carriers, sorted by cost
func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	var req QuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	quotes, err := h.quoteService.GetQuotes(c.Request.Context(), req.toDomain(), shippingapp.QuoteOptions{
		IncludeDiscounts: req.IncludeDiscounts,
		ParcelsPerMonth:  req.ParcelsPerMonth,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := QuotesResponse{
		Quotes: make([]QuoteResponse, 0, len(quotes)),
		QuoteParams: QuoteParams{
			DestinationZip: req.DestinationZip,
			WeightOz:       *req.WeightOz,
			DimensionsIn:   req.DimensionsIn,
			Speed:          req.Speed,
			Mode:           req.Mode,
		},
	}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, toQuoteResponse(q))
	}
	if len(resp.Quotes) > 0 {
		resp.RecommendedQuote = &resp.Quotes[0]
	}

	h.Success(c, resp)
}

// GetQuoteByCarrier returns the quote for a single named carrier
func (h *QuoteHandler) GetQuoteByCarrier(c *gin.Context) {
	carrier := c.Param("carrier")
	if carrier == "" {
		h.BadRequest(c, "Carrier name is required")
		return
	}

	var req ShipmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	quote, err := h.quoteService.GetQuoteByCarrier(c.Request.Context(), req.toDomain(), carrier)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toQuoteResponse(quote))
}

// GetBestQuote returns the cheapest available quote
func (h *QuoteHandler) GetBestQuote(c *gin.Context) {
	var req ShipmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	best, err := h.quoteService.GetBestQuote(c.Request.Context(), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toQuoteResponse(best))
}

// handleBindingError maps gin binding failures to 400 responses:
// validator failures get field-level details, anything else is bad JSON
func handleBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		middleware.HandleValidationError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInvalidJSON,
		"Request body is not valid JSON",
		getRequestID(c),
	))
}
