package handler

import (
	"net/http"

	"papertrader/internal/domain"
	"papertrader/internal/service"
)

// TradeHandler handles HTTP requests for trade execution.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// tradeRequest is the JSON request body for POST /api/trade.
type tradeRequest struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// transactionResponse is a recorded transaction in API responses.
type transactionResponse struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	Shares    int64   `json:"shares"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// tradeResponse is the JSON response for a successful trade.
type tradeResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Transaction transactionResponse `json:"transaction"`
}

// ExecuteTrade handles POST /api/trade.
func (h *TradeHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.tradeSvc.Execute(r.Context(), service.ExecuteTradeRequest{
		Action: req.Action,
		Symbol: req.Symbol,
		Shares: req.Shares,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tradeResponse{
		Success:     true,
		Message:     result.Message,
		Transaction: buildTransactionResponse(result.Transaction),
	})
}

// buildTransactionResponse converts a domain transaction to its API shape.
func buildTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Timestamp: tx.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Action:    string(tx.Action),
		Symbol:    tx.Symbol,
		Shares:    tx.Shares,
		Price:     domain.MoneyFloat(tx.Price),
		Total:     domain.MoneyFloat(tx.Total),
	}
}
