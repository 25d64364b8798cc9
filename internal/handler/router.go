package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"papertrader/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	stockSvc *service.StockService,
	tradeSvc *service.TradeService,
	portfolioSvc *service.PortfolioService,
	searchSvc *service.SearchService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))

	// Create handlers.
	stockH := NewStockHandler(stockSvc)
	tradeH := NewTradeHandler(tradeSvc)
	portfolioH := NewPortfolioHandler(portfolioSvc)
	searchH := NewSearchHandler(searchSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Stock data routes.
	r.Get("/api/stock/{symbol}", stockH.GetStock)
	r.Get("/api/search/{query}", searchH.Search)

	// Trade route.
	r.With(contentTypeJSON).Post("/api/trade", tradeH.ExecuteTrade)

	// Portfolio routes. Reset takes no body, so it skips the
	// Content-Type check.
	r.Get("/api/portfolio", portfolioH.GetPortfolio)
	r.With(contentTypeJSON).Post("/api/portfolio/update", portfolioH.UpdateBalance)
	r.Post("/api/portfolio/reset", portfolioH.ResetPortfolio)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware for routes that parse a request body. If the
// Content-Type header doesn't start with "application/json", it returns
// 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(ct, "application/json") {
			WriteError(w, http.StatusBadRequest, "invalid_request",
				"Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}
