package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"catalog-api/internal/currency"
	"catalog-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultFromCurrency = "USD"
	defaultToCurrency   = "MXN"
)

// RateSource fetches the current rate table for a base currency.
type RateSource interface {
	Latest(ctx context.Context, base string) (*currency.Rates, error)
}

// ConvertResponse is the conversion result payload
type ConvertResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	Timestamp int64   `json:"timestamp"`
}

// RatesResponse is the full rate table payload
type RatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp int64              `json:"timestamp"`
}

// CurrencyHandler proxies conversion requests to the external exchange rate
// service.
type CurrencyHandler struct {
	rates  RateSource
	logger *zap.Logger
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(rates RateSource, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		rates:  rates,
		logger: logger,
	}
}

// RegisterRoutes registers the currency routes; all require authentication
func (h *CurrencyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/currency", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Convert)
		r.Get("/rates", h.Rates)
	})
}

// Convert converts an amount between two currencies. Malformed amounts
// degrade to 1; from/to default to USD/MXN.
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	amount := 1.0
	if v := r.URL.Query().Get("amount"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			amount = f
		}
	}

	from := strings.ToUpper(queryDefault(r, "from", defaultFromCurrency))
	to := strings.ToUpper(queryDefault(r, "to", defaultToCurrency))

	rates, err := h.rates.Latest(r.Context(), from)
	if err != nil {
		h.logger.Error("Exchange rate lookup failed",
			zap.String("base", from),
			zap.Error(err),
		)
		h.respondUpstreamError(w, err)
		return
	}

	rate, ok := rates.Rate(to)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("currency '%s' not supported", to))
		return
	}

	converted := math.Round(amount*rate*100) / 100

	middleware.RespondWithJSON(w, http.StatusOK, ConvertResponse{
		From:      from,
		To:        to,
		Amount:    amount,
		Rate:      rate,
		Converted: converted,
		Timestamp: rates.TimeLastUpdated,
	})
}

// Rates returns the full rate table for a base currency
func (h *CurrencyHandler) Rates(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(queryDefault(r, "base", defaultFromCurrency))

	rates, err := h.rates.Latest(r.Context(), base)
	if err != nil {
		h.logger.Error("Exchange rate lookup failed",
			zap.String("base", base),
			zap.Error(err),
		)
		h.respondUpstreamError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RatesResponse{
		Base:      rates.Base,
		Rates:     rates.Rates,
		Timestamp: rates.TimeLastUpdated,
	})
}

func (h *CurrencyHandler) respondUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, currency.ErrUpstream) {
		middleware.RespondWithError(w, http.StatusBadGateway, "exchange rate service unavailable")
		return
	}
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch exchange rates")
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
