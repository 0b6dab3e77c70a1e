package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"catalog-api/internal/currency"
	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Stub rate source returning a fixed table
type stubRateSource struct {
	rates *currency.Rates
	err   error
}

func (s *stubRateSource) Latest(ctx context.Context, base string) (*currency.Rates, error) {
	if s.err != nil {
		return nil, s.err
	}
	table := *s.rates
	table.Base = base
	return &table, nil
}

func newCurrencyTestRouter(t *testing.T, source RateSource) (*chi.Mux, string) {
	t.Helper()

	logger := zap.NewNop()
	authService := service.NewAuthService(newMockUserRepository(), "test-secret", "")
	authMiddleware := middleware.AuthMiddleware(authService, logger)

	r := chi.NewRouter()
	NewCurrencyHandler(source, logger).RegisterRoutes(r, authMiddleware)

	token, err := authService.GenerateToken(&domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)

	return r, token
}

func usdTable() *currency.Rates {
	return &currency.Rates{
		Base:            "USD",
		TimeLastUpdated: 1718000000,
		Rates: map[string]float64{
			"USD": 1,
			"MXN": 17.05,
			"EUR": 0.92,
		},
	}
}

func TestConvertDefaults(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "USD", resp.From)
	assert.Equal(t, "MXN", resp.To)
	assert.Equal(t, 1.0, resp.Amount)
	assert.Equal(t, 17.05, resp.Rate)
	assert.Equal(t, 17.05, resp.Converted)
	assert.Equal(t, int64(1718000000), resp.Timestamp)
}

func TestConvertWithParameters(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency?amount=100&from=usd&to=eur", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Currency codes are normalized to upper case
	assert.Equal(t, "USD", resp.From)
	assert.Equal(t, "EUR", resp.To)
	assert.Equal(t, 100.0, resp.Amount)
	assert.Equal(t, 92.0, resp.Converted)
}

func TestConvertRoundsToTwoDecimals(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency?amount=3&to=MXN", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 3 * 17.05 = 51.150000000000006 in float arithmetic
	assert.Equal(t, 51.15, resp.Converted)
}

func TestConvertMalformedAmountDefaultsToOne(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency?amount=banana", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Amount)
}

func TestConvertUnknownTargetCurrency(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency?to=XYZ", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "XYZ")
}

func TestConvertUpstreamFailure(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{err: currency.ErrUpstream})

	w := doJSON(t, router, "GET", "/api/currency", "", token)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRatesEndpoint(t *testing.T) {
	router, token := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency/rates?base=eur", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EUR", resp.Base)
	assert.Len(t, resp.Rates, 3)
}

func TestCurrencyRequiresAuthentication(t *testing.T) {
	router, _ := newCurrencyTestRouter(t, &stubRateSource{rates: usdTable()})

	w := doJSON(t, router, "GET", "/api/currency", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, "GET", "/api/currency/rates", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
