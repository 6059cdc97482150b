// Package research performs web research for the assistant: search the web,
// fetch the top results and compose a text summary the model can speak.
package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	defaultSearchURL = "https://html.duckduckgo.com/html/"
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	contentPreview   = 500
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Researcher searches the web and extracts page text.
type Researcher struct {
	searchURL string
	client    *http.Client
	logger    zerolog.Logger
}

// New creates a researcher. searchURL overrides the search endpoint for
// tests; empty selects the default.
func New(searchURL string, logger zerolog.Logger) *Researcher {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &Researcher{
		searchURL: searchURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger.With().Str("component", "research").Logger(),
	}
}

// SearchAndSummarize searches for the query, reads up to numResults pages
// and returns a combined summary. Pages that fail to load are skipped.
func (r *Researcher) SearchAndSummarize(ctx context.Context, query string, numResults int) (string, error) {
	if numResults <= 0 {
		numResults = 3
	}

	r.logger.Info().Str("query", query).Msg("Researching")
	results, err := r.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	if len(results) > numResults {
		results = results[:numResults]
	}
	if len(results) == 0 {
		return fmt.Sprintf("I couldn't find any results for '%s'.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research results for '%s':\n", query)
	for i, res := range results {
		content, err := r.FetchPageText(ctx, res.URL)
		if err != nil {
			r.logger.Warn().Err(err).Str("url", res.URL).Msg("Failed to read page")
			content = "[content unavailable]"
		}
		if len(content) > contentPreview {
			content = content[:contentPreview] + "..."
		}
		fmt.Fprintf(&b, "\nSource %d: %s\nURL: %s\nSnippet: %s\nContent Preview: %s\n",
			i+1, res.Title, res.URL, res.Snippet, content)
	}
	return b.String(), nil
}

// Search queries the DuckDuckGo HTML endpoint and parses the result list.
func (r *Researcher) Search(ctx context.Context, query string) ([]Result, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.searchURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return parseResults(doc), nil
}

// parseResults walks the DuckDuckGo HTML result markup: each hit is an
// anchor with class result__a, the snippet an element with class
// result__snippet.
func parseResults(doc *html.Node) []Result {
	var results []Result
	var current *Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				results = append(results, Result{
					Title: nodeText(n),
					URL:   resolveHref(attr(n, "href")),
				})
				current = &results[len(results)-1]
			case hasClass(n, "result__snippet") && current != nil:
				current.Snippet = nodeText(n)
				current = nil
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

// resolveHref unwraps DuckDuckGo's redirect links (uddg parameter) back to
// the target URL.
func resolveHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// FetchPageText downloads a page and extracts readable text, skipping
// scripts, styles and chrome elements.
func (r *Researcher) FetchPageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return ExtractText(doc), nil
}

var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"noscript": true,
}

// ExtractText collapses a parsed document into whitespace-normalized text.
func ExtractText(doc *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(parts, " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
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
	return strings.TrimSpace(b.String())
}
