package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrader/internal/service"
)

// StockHandler handles HTTP requests for stock data endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// stockInfoResponse is the info block of the stock response.
type stockInfoResponse struct {
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	MarketCap     int64   `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	CurrentPrice  float64 `json:"current_price"`
}

// stockPointResponse is one chart row. Indicator fields are null while the
// trailing window lacks history.
type stockPointResponse struct {
	Date  string   `json:"date"`
	Close float64  `json:"close"`
	SMA20 *float64 `json:"sma_20"`
	SMA50 *float64 `json:"sma_50"`
}

// stockResponse is the JSON response for GET /api/stock/{symbol}.
type stockResponse struct {
	Symbol string               `json:"symbol"`
	Info   stockInfoResponse    `json:"info"`
	Data   []stockPointResponse `json:"data"`
}

// GetStock handles GET /api/stock/{symbol}.
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	resp, err := h.stockSvc.GetStock(r.Context(), symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	data := make([]stockPointResponse, len(resp.Points))
	for i, p := range resp.Points {
		data[i] = stockPointResponse{
			Date:  p.Date.Format("2006-01-02"),
			Close: p.Close,
			SMA20: p.SMA20,
			SMA50: p.SMA50,
		}
	}

	WriteJSON(w, http.StatusOK, stockResponse{
		Symbol: resp.Symbol,
		Info: stockInfoResponse{
			Name:          resp.Profile.Name,
			Sector:        resp.Profile.Sector,
			MarketCap:     resp.Profile.MarketCap,
			PERatio:       resp.Profile.PERatio,
			DividendYield: resp.Profile.DividendYield,
			CurrentPrice:  resp.CurrentPrice,
		},
		Data: data,
	})
}
