package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrader/internal/service"
)

// SearchHandler handles HTTP requests for symbol search.
type SearchHandler struct {
	searchSvc *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchSvc *service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

// searchEntryResponse is one match in the search response.
type searchEntryResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// searchResponse is the JSON response for GET /api/search/{query}.
type searchResponse struct {
	Results []searchEntryResponse `json:"results"`
}

// Search handles GET /api/search/{query}.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")

	matches := h.searchSvc.Search(query)
	results := make([]searchEntryResponse, len(matches))
	for i, m := range matches {
		results[i] = searchEntryResponse{Symbol: m.Symbol, Name: m.Name}
	}

	WriteJSON(w, http.StatusOK, searchResponse{Results: results})
}
