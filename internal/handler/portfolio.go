package handler

import (
	"net/http"

	"papertrader/internal/domain"
	"papertrader/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
type PortfolioHandler struct {
	portfolioSvc *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

// positionResponse is one valued position. The current-value fields are
// null when the price lookup failed; stale marks that case explicitly.
type positionResponse struct {
	Shares       int64    `json:"shares"`
	AvgPrice     float64  `json:"avg_price"`
	CurrentPrice *float64 `json:"current_price"`
	CurrentValue *float64 `json:"current_value"`
	GainLoss     *float64 `json:"gain_loss"`
	Stale        bool     `json:"stale"`
}

// portfolioResponse is the JSON response for GET /api/portfolio.
type portfolioResponse struct {
	Cash         float64                     `json:"cash"`
	TotalValue   float64                     `json:"total_value"`
	Positions    map[string]positionResponse `json:"positions"`
	Transactions []transactionResponse       `json:"transactions"`
}

// GetPortfolio handles GET /api/portfolio.
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ov := h.portfolioSvc.Overview(r.Context())

	positions := make(map[string]positionResponse, len(ov.Positions))
	for _, vp := range ov.Positions {
		pr := positionResponse{
			Shares:   vp.Position.Shares,
			AvgPrice: domain.MoneyFloat(vp.Position.AvgPrice),
			Stale:    vp.Stale,
		}
		if !vp.Stale {
			price := domain.MoneyFloat(*vp.CurrentPrice)
			value := domain.MoneyFloat(*vp.CurrentValue)
			gainLoss := domain.MoneyFloat(*vp.GainLoss)
			pr.CurrentPrice = &price
			pr.CurrentValue = &value
			pr.GainLoss = &gainLoss
		}
		positions[vp.Position.Symbol] = pr
	}

	transactions := make([]transactionResponse, len(ov.Transactions))
	for i, tx := range ov.Transactions {
		transactions[i] = buildTransactionResponse(tx)
	}

	WriteJSON(w, http.StatusOK, portfolioResponse{
		Cash:         domain.MoneyFloat(ov.Cash),
		TotalValue:   domain.MoneyFloat(ov.TotalValue),
		Positions:    positions,
		Transactions: transactions,
	})
}

// updateBalanceRequest is the JSON request body for POST /api/portfolio/update.
type updateBalanceRequest struct {
	CashBalance *float64 `json:"cash_balance"`
}

// balanceResponse is the JSON response for balance update and reset.
type balanceResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Cash    float64 `json:"cash"`
}

// UpdateBalance handles POST /api/portfolio/update.
func (h *PortfolioHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req updateBalanceRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.CashBalance == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "cash_balance is required")
		return
	}

	cash, msg, err := h.portfolioSvc.SetCashBalance(*req.CashBalance)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		Success: true,
		Message: msg,
		Cash:    domain.MoneyFloat(cash),
	})
}

// ResetPortfolio handles POST /api/portfolio/reset.
func (h *PortfolioHandler) ResetPortfolio(w http.ResponseWriter, r *http.Request) {
	cash, msg := h.portfolioSvc.Reset()

	WriteJSON(w, http.StatusOK, balanceResponse{
		Success: true,
		Message: msg,
		Cash:    domain.MoneyFloat(cash),
	})
}
