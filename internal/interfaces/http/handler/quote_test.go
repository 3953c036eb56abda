package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	shippingapp "github.com/markethub/backend/internal/application/shipping"
	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/markethub/backend/internal/interfaces/http/dto"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newQuoteRouter(manager *shipping.CarrierManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	quoteService := shippingapp.NewQuoteService(manager, zap.NewNop())
	h := NewQuoteHandler(quoteService)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func fullManager() *shipping.CarrierManager {
	m := shipping.NewCarrierManager(zap.NewNop())
	m.Register(shipping.NewUSPSAdapter()).
		Register(shipping.NewUPSAdapter()).
		Register(shipping.NewFedExAdapter())
	return m
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body map[string]any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func validQuoteBody() map[string]any {
	return map[string]any{
		"destinationZip": "94107",
		"weightOz":       16,
		"speed":          "standard",
		"mode":           "outbound",
	}
}

func TestQuoteHandler_GetQuotes(t *testing.T) {
	engine := newQuoteRouter(fullManager())

	t.Run("returns sorted quotes with recommendation and echoed params", func(t *testing.T) {
		w, resp := postJSON(t, engine, "/api/v1/quotes", validQuoteBody())

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		quotes := data["quotes"].([]any)
		require.Len(t, quotes, 3)

		first := quotes[0].(map[string]any)
		assert.Equal(t, "USPS", first["carrier"])
		assert.InDelta(t, 1.19, first["cost"], 0.001)

		recommended := data["recommendedQuote"].(map[string]any)
		assert.Equal(t, "USPS", recommended["carrier"])

		params := data["quoteParams"].(map[string]any)
		assert.Equal(t, "94107", params["destinationZip"])
		assert.Equal(t, "standard", params["speed"])

		prev := -1.0
		for _, raw := range quotes {
			cost := raw.(map[string]any)["cost"].(float64)
			assert.GreaterOrEqual(t, cost, prev)
			prev = cost
		}
	})

	t.Run("annotates quotes when discounts requested", func(t *testing.T) {
		body := validQuoteBody()
		body["includeDiscounts"] = true
		body["parcelsPerMonth"] = 30000

		w, resp := postJSON(t, engine, "/api/v1/quotes", body)

		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		quotes := data["quotes"].([]any)
		require.NotEmpty(t, quotes)

		for _, raw := range quotes {
			q := raw.(map[string]any)
			assert.Equal(t, "Volume", q["discountTier"])
			assert.Contains(t, q, "originalCost")
			assert.Contains(t, q, "discountAmount")
			assert.Contains(t, q, "loyaltyPointsEarned")
		}
	})

	t.Run("missing weightOz yields field-level validation detail", func(t *testing.T) {
		body := validQuoteBody()
		delete(body, "weightOz")

		w, resp := postJSON(t, engine, "/api/v1/quotes", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		require.NotEmpty(t, resp.Error.Details)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "weightOz")
	})

	t.Run("invalid speed rejected", func(t *testing.T) {
		body := validQuoteBody()
		body["speed"] = "teleport"

		w, resp := postJSON(t, engine, "/api/v1/quotes", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		body := validQuoteBody()
		body["weightOz"] = -5

		w, _ := postJSON(t, engine, "/api/v1/quotes", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuoteHandler_GetQuoteByCarrier(t *testing.T) {
	engine := newQuoteRouter(fullManager())

	t.Run("resolves carrier case-insensitively", func(t *testing.T) {
		w, resp := postJSON(t, engine, "/api/v1/quotes/usps", validQuoteBody())

		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "USPS", data["carrier"])
		assert.Equal(t, "Priority Mail", data["service"])
	})

	t.Run("unknown carrier yields 404", func(t *testing.T) {
		w, resp := postJSON(t, engine, "/api/v1/quotes/DHL", validQuoteBody())

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeCarrierNotSupported, resp.Error.Code)
	})

	t.Run("carrier with no offer yields 404", func(t *testing.T) {
		body := validQuoteBody()
		body["speed"] = "economy"
		body["weightOz"] = 4 // below the FedEx ground economy floor

		w, resp := postJSON(t, engine, "/api/v1/quotes/FedEx", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNoQuotesAvailable, resp.Error.Code)
	})
}

func TestQuoteHandler_GetBestQuote(t *testing.T) {
	t.Run("returns the cheapest quote", func(t *testing.T) {
		engine := newQuoteRouter(fullManager())

		w, resp := postJSON(t, engine, "/api/v1/best-quote", validQuoteBody())

		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "USPS", data["carrier"])
	})

	t.Run("empty result set yields 404", func(t *testing.T) {
		engine := newQuoteRouter(shipping.NewCarrierManager(zap.NewNop()))

		w, resp := postJSON(t, engine, "/api/v1/best-quote", validQuoteBody())

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNoQuotesAvailable, resp.Error.Code)
	})
}
