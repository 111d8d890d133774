package ports

import "context"

// SearchResult is one hit returned by a Searcher.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher runs a web search and returns at most max results.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]SearchResult, error)
}
