package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/schema"
)

// SearchToolName is the name the model uses to request a web search.
const SearchToolName = "web_search"

// MaxSearchResults caps the entries returned by web_search.
const MaxSearchResults = 3

// NoResults is returned when the search finds nothing.
const NoResults = "No relevant results found."

type searchArgs struct {
	Query string `json:"query"`
}

// Search returns the web_search tool delegating to searcher.
func Search(searcher ports.Searcher) domain.Tool {
	return domain.Tool{
		Name:        SearchToolName,
		Description: "Search the web for recent information.",
		Parameters: schema.Schema{
			schema.Required("query", schema.String(), "What to search for"),
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			var in searchArgs
			if err := decode(args, &in); err != nil {
				return fmt.Sprintf("Error during web search: %v", err), nil
			}
			return RunSearch(ctx, searcher, in.Query), nil
		},
	}
}

// RunSearch queries searcher and formats at most MaxSearchResults hits as
// "- title: url" lines.
func RunSearch(ctx context.Context, searcher ports.Searcher, query string) string {
	if searcher == nil {
		return "Error during web search: no search backend configured"
	}

	results, err := searcher.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return fmt.Sprintf("Error during web search: %v", err)
	}
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	if len(results) == 0 {
		return NoResults
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("- %s: %s", r.Title, r.URL)
	}
	return strings.Join(lines, "\n")
}
