package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"papertrader/internal/domain"
	"papertrader/internal/ledger"
	"papertrader/internal/service"
)

// fakeSource is a scriptable quote source for handler integration tests.
type fakeSource struct {
	prices     map[string]decimal.Decimal
	history    map[string]domain.PriceSeries
	profiles   map[string]domain.Profile
	priceErr   error
	historyErr error
}

func (f *fakeSource) CurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	if f.priceErr != nil {
		return decimal.Zero, f.priceErr
	}
	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no positive price for %s", domain.ErrPriceUnavailable, symbol)
	}
	return p, nil
}

func (f *fakeSource) History(_ context.Context, symbol string, _, _ time.Time) (domain.PriceSeries, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	s, ok := f.history[symbol]
	if !ok || len(s) == 0 {
		return nil, fmt.Errorf("%w: no history for %s", domain.ErrNoData, symbol)
	}
	return s, nil
}

func (f *fakeSource) Profile(_ context.Context, symbol string) (domain.Profile, error) {
	if p, ok := f.profiles[symbol]; ok {
		return p, nil
	}
	return domain.UnknownProfile(), nil
}

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router http.Handler
	source *fakeSource
	ledger *ledger.Ledger
}

func newTestEnv() *testEnv {
	src := &fakeSource{
		prices:   map[string]decimal.Decimal{},
		history:  map[string]domain.PriceSeries{},
		profiles: map[string]domain.Profile{},
	}
	l := ledger.New(decimal.NewFromInt(10000))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stockSvc := service.NewStockService(src, 180, logger)
	tradeSvc := service.NewTradeService(src, l)
	portfolioSvc := service.NewPortfolioService(src, l, logger)
	searchSvc := service.NewSearchService()

	return &testEnv{
		router: NewRouter(stockSvc, tradeSvc, portfolioSvc, searchSvc, logger),
		source: src,
		ledger: l,
	}
}

// doJSON sends a JSON request and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doRaw sends a raw request with optional content-type override.
func (env *testEnv) doRaw(t *testing.T, method, path, contentType, rawBody string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

// seedHistory loads n consecutive daily closes for a symbol.
func (env *testEnv) seedHistory(symbol string, closes ...float64) {
	end := domain.DayOf(time.Now())
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{Date: end.AddDate(0, 0, i-len(closes)+1), Close: c}
	}
	env.source.history[symbol] = domain.NewPriceSeries(candles)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()
	rr := env.doJSON(t, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
}

// --- GET /api/stock/{symbol} ---

func TestGetStock_OK(t *testing.T) {
	env := newTestEnv()
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	env.seedHistory("AAPL", closes...)
	env.source.profiles["AAPL"] = domain.Profile{
		Name:          "Apple Inc.",
		Sector:        "Technology",
		MarketCap:     3000000000000,
		PERatio:       28.5,
		DividendYield: 0.0055,
	}

	rr := env.doJSON(t, http.MethodGet, "/api/stock/aapl", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Symbol string `json:"symbol"`
		Info   struct {
			Name         string  `json:"name"`
			Sector       string  `json:"sector"`
			CurrentPrice float64 `json:"current_price"`
		} `json:"info"`
		Data []struct {
			Date  string   `json:"date"`
			Close float64  `json:"close"`
			SMA20 *float64 `json:"sma_20"`
			SMA50 *float64 `json:"sma_50"`
		} `json:"data"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Symbol != "AAPL" {
		t.Errorf("got symbol %q, want AAPL", resp.Symbol)
	}
	if resp.Info.Name != "Apple Inc." {
		t.Errorf("got name %q", resp.Info.Name)
	}
	if resp.Info.CurrentPrice != closes[len(closes)-1] {
		t.Errorf("got current_price %v, want %v", resp.Info.CurrentPrice, closes[len(closes)-1])
	}
	if len(resp.Data) != 60 {
		t.Fatalf("got %d rows, want 60", len(resp.Data))
	}
	if resp.Data[0].SMA20 != nil {
		t.Error("first row should have null sma_20")
	}
	if resp.Data[59].SMA20 == nil {
		t.Error("last row should have sma_20")
	}
	if resp.Data[59].SMA50 == nil {
		t.Error("last row should have sma_50")
	}
	if resp.Data[48].SMA50 != nil {
		t.Error("row 48 should have null sma_50")
	}
}

func TestGetStock_EmptyHistoryIs404(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/api/stock/ZZZZ", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rr.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != "no_data" {
		t.Errorf("got error %q, want no_data", resp.Error)
	}
}

func TestGetStock_ProviderFailureIs500(t *testing.T) {
	env := newTestEnv()
	env.source.historyErr = fmt.Errorf("%w: connection reset", domain.ErrProviderFailure)

	rr := env.doJSON(t, http.MethodGet, "/api/stock/AAPL", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rr.Code)
	}
}

func TestGetStock_InvalidSymbolIs400(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/api/stock/bad%20symbol", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rr.Code)
	}
}

// --- POST /api/trade ---

func TestTrade_BuyOK(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(150)

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "buy",
		"symbol": "AAPL",
		"shares": 10,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		Transaction struct {
			Action string  `json:"action"`
			Symbol string  `json:"symbol"`
			Shares int64   `json:"shares"`
			Price  float64 `json:"price"`
			Total  float64 `json:"total"`
		} `json:"transaction"`
	}
	decodeJSON(t, rr, &resp)

	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.Message != "Buy order executed successfully" {
		t.Errorf("got message %q", resp.Message)
	}
	if resp.Transaction.Total != 1500 {
		t.Errorf("got total %v, want 1500", resp.Transaction.Total)
	}
	if !env.ledger.Cash().Equal(decimal.NewFromInt(8500)) {
		t.Errorf("got cash %s, want 8500", env.ledger.Cash())
	}
}

func TestTrade_InsufficientFundsIs409(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(10001)

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "buy",
		"symbol": "AAPL",
		"shares": 1,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", rr.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != "insufficient_funds" {
		t.Errorf("got error %q, want insufficient_funds", resp.Error)
	}
}

func TestTrade_SellWithoutPositionIs409(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(150)

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "sell",
		"symbol": "AAPL",
		"shares": 1,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", rr.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != "no_position" {
		t.Errorf("got error %q, want no_position", resp.Error)
	}
}

func TestTrade_PriceUnavailableIs500(t *testing.T) {
	env := newTestEnv()
	// No price scripted for the symbol.

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "buy",
		"symbol": "AAPL",
		"shares": 1,
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rr.Code)
	}
}

func TestTrade_ValidationFailuresAre400(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(150)

	bodies := []map[string]any{
		{"action": "hold", "symbol": "AAPL", "shares": 1},
		{"action": "buy", "symbol": "", "shares": 1},
		{"action": "buy", "symbol": "AAPL", "shares": 0},
		{"action": "buy", "symbol": "AAPL", "shares": -3},
	}
	for _, body := range bodies {
		rr := env.doJSON(t, http.MethodPost, "/api/trade", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %v: got status %d, want 400", body, rr.Code)
		}
	}
}

func TestTrade_UnknownFieldRejected(t *testing.T) {
	env := newTestEnv()

	rr := env.doRaw(t, http.MethodPost, "/api/trade", "application/json",
		`{"action":"buy","symbol":"AAPL","shares":1,"price":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rr.Code)
	}
}

func TestTrade_MissingContentTypeIs400(t *testing.T) {
	env := newTestEnv()

	rr := env.doRaw(t, http.MethodPost, "/api/trade", "",
		`{"action":"buy","symbol":"AAPL","shares":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rr.Code)
	}
}

// --- GET /api/portfolio ---

func TestPortfolio_ValuedPositionsAndRecentTransactions(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(150)

	// Buy twice through the API, then revalue at a higher price.
	for i := 0; i < 2; i++ {
		rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
			"action": "buy",
			"symbol": "AAPL",
			"shares": 5,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("seed trade failed: %d (%s)", rr.Code, rr.Body.String())
		}
	}
	env.source.prices["AAPL"] = decimal.NewFromInt(200)

	rr := env.doJSON(t, http.MethodGet, "/api/portfolio", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp struct {
		Cash       float64 `json:"cash"`
		TotalValue float64 `json:"total_value"`
		Positions  map[string]struct {
			Shares       int64    `json:"shares"`
			AvgPrice     float64  `json:"avg_price"`
			CurrentPrice *float64 `json:"current_price"`
			CurrentValue *float64 `json:"current_value"`
			GainLoss     *float64 `json:"gain_loss"`
			Stale        bool     `json:"stale"`
		} `json:"positions"`
		Transactions []struct {
			Action string `json:"action"`
			Symbol string `json:"symbol"`
		} `json:"transactions"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Cash != 8500 {
		t.Errorf("got cash %v, want 8500", resp.Cash)
	}
	pos, ok := resp.Positions["AAPL"]
	if !ok {
		t.Fatal("expected AAPL position")
	}
	if pos.Shares != 10 || pos.AvgPrice != 150 {
		t.Errorf("got position %+v", pos)
	}
	if pos.Stale {
		t.Error("position should not be stale")
	}
	if pos.CurrentValue == nil || *pos.CurrentValue != 2000 {
		t.Errorf("got current_value %v, want 2000", pos.CurrentValue)
	}
	if pos.GainLoss == nil || *pos.GainLoss != 500 {
		t.Errorf("got gain_loss %v, want 500", pos.GainLoss)
	}
	if resp.TotalValue != 10500 {
		t.Errorf("got total_value %v, want 10500", resp.TotalValue)
	}
	if len(resp.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(resp.Transactions))
	}
}

func TestPortfolio_StalePositionOnLookupFailure(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(100)

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "buy",
		"symbol": "AAPL",
		"shares": 10,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("seed trade failed: %d", rr.Code)
	}

	// All further lookups fail; the portfolio must still render.
	env.source.priceErr = fmt.Errorf("%w: provider down", domain.ErrProviderFailure)

	rr = env.doJSON(t, http.MethodGet, "/api/portfolio", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp struct {
		TotalValue float64 `json:"total_value"`
		Positions  map[string]struct {
			CurrentValue *float64 `json:"current_value"`
			Stale        bool     `json:"stale"`
		} `json:"positions"`
	}
	decodeJSON(t, rr, &resp)

	pos := resp.Positions["AAPL"]
	if !pos.Stale {
		t.Error("position should be stale")
	}
	if pos.CurrentValue != nil {
		t.Error("stale position must have null current_value")
	}
	// Only cash counts when every lookup fails: 10000 - 1000.
	if resp.TotalValue != 9000 {
		t.Errorf("got total_value %v, want 9000", resp.TotalValue)
	}
}

// --- POST /api/portfolio/update ---

func TestUpdateBalance_OK(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodPost, "/api/portfolio/update", map[string]any{
		"cash_balance": 5000.25,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool    `json:"success"`
		Cash    float64 `json:"cash"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.Success || resp.Cash != 5000.25 {
		t.Errorf("got %+v", resp)
	}
}

func TestUpdateBalance_Invalid(t *testing.T) {
	env := newTestEnv()

	cases := []string{
		`{"cash_balance": -5}`,
		`{"cash_balance": null}`,
		`{}`,
		`{"cash_balance": "lots"}`,
	}
	for _, body := range cases {
		rr := env.doRaw(t, http.MethodPost, "/api/portfolio/update", "application/json", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: got status %d, want 400", body, rr.Code)
		}
	}
}

// --- POST /api/portfolio/reset ---

func TestResetPortfolio(t *testing.T) {
	env := newTestEnv()
	env.source.prices["AAPL"] = decimal.NewFromInt(100)

	rr := env.doJSON(t, http.MethodPost, "/api/trade", map[string]any{
		"action": "buy",
		"symbol": "AAPL",
		"shares": 3,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("seed trade failed: %d", rr.Code)
	}

	rr = env.doJSON(t, http.MethodPost, "/api/portfolio/reset", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp struct {
		Success bool    `json:"success"`
		Cash    float64 `json:"cash"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.Success || resp.Cash != 10000 {
		t.Errorf("got %+v", resp)
	}

	if len(env.ledger.Positions()) != 0 {
		t.Error("positions should be empty after reset")
	}
	if env.ledger.TransactionCount() != 0 {
		t.Error("transactions should be empty after reset")
	}
}

// --- GET /api/search/{query} ---

func TestSearch_OK(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/api/search/apple", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp struct {
		Results []struct {
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"results"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Results) != 1 || resp.Results[0].Symbol != "AAPL" {
		t.Errorf("got %+v", resp.Results)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/api/search/zzzzzz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp struct {
		Results []any `json:"results"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Results) != 0 {
		t.Errorf("got %d results, want 0", len(resp.Results))
	}
}
