package service

import "strings"

// SearchResult is one symbol/name pair from the static lookup table.
type SearchResult struct {
	Symbol string
	Name   string
}

// searchTable is the static symbol/name table backing /api/search.
var searchTable = []SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "META", Name: "Meta Platforms Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "AMD", Name: "Advanced Micro Devices Inc."},
	{Symbol: "NFLX", Name: "Netflix Inc."},
	{Symbol: "DIS", Name: "The Walt Disney Company"},
}

// SearchService answers autocomplete queries against the static table.
type SearchService struct {
	table []SearchResult
}

// NewSearchService creates a SearchService over the built-in table.
func NewSearchService() *SearchService {
	return &SearchService{table: searchTable}
}

// Search returns entries whose symbol or name contains the query,
// case-insensitively, in table order. An empty query matches nothing.
func (s *SearchService) Search(query string) []SearchResult {
	query = strings.ToUpper(strings.TrimSpace(query))
	results := make([]SearchResult, 0)
	if query == "" {
		return results
	}

	for _, entry := range s.table {
		if strings.Contains(entry.Symbol, query) ||
			strings.Contains(strings.ToUpper(entry.Name), query) {
			results = append(results, entry)
		}
	}
	return results
}
