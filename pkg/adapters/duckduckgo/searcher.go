// Package duckduckgo implements ports.Searcher by scraping the DuckDuckGo HTML endpoint.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/tendril/pkg/ports"
	"golang.org/x/net/html"
)

// DefaultEndpoint is the JavaScript-free DuckDuckGo results page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

// Searcher queries DuckDuckGo. No API key is needed.
type Searcher struct {
	endpoint  string
	client    *http.Client
	userAgent string
}

// Option configures the Searcher.
type Option func(*Searcher)

// WithEndpoint overrides the results page URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Searcher) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Searcher) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// New creates a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "Mozilla/5.0 (compatible; tendril/1.0)",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns at most max results for query.
func (s *Searcher) Search(ctx context.Context, query string, max int) ([]ports.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("search request: unexpected status %s", resp.Status)
	}

	return Parse(resp.Body, max)
}

// Parse extracts results from a DuckDuckGo HTML page.
// A max of zero or less means no limit.
func Parse(r io.Reader, max int) ([]ports.SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var results []ports.SearchResult
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			title := strings.TrimSpace(textOf(n))
			link := resolveLink(attr(n, "href"))
			if title != "" && link != "" {
				results = append(results, ports.SearchResult{Title: title, URL: link})
				if max > 0 && len(results) >= max {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return attachSnippets(doc, results), nil
}

// attachSnippets pairs result__snippet elements with results in document order.
func attachSnippets(doc *html.Node, results []ports.SearchResult) []ports.SearchResult {
	i := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if i >= len(results) {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "result__snippet") {
			results[i].Snippet = strings.TrimSpace(textOf(n))
			i++
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

// resolveLink unwraps DuckDuckGo redirect links ("/l/?uddg=<target>").
func resolveLink(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return ""
	}
	return u.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
