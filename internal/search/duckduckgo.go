package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo searches the HTML form endpoint. No API key required; result
// links are scraped from the returned page.
type DuckDuckGo struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	maxResults int
}

const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// NewDuckDuckGo creates a DuckDuckGo engine with the given result cap.
func NewDuckDuckGo(timeout time.Duration, userAgent string, maxResults int) *DuckDuckGo {
	return &DuckDuckGo{
		httpClient: newHTTPClient(timeout),
		endpoint:   duckduckgoEndpoint,
		userAgent:  userAgent,
		maxResults: maxResults,
	}
}

// Name returns the engine name.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// SearchFragment searches one seed fragment; the quoted fragment is used
// as the query verbatim.
func (d *DuckDuckGo) SearchFragment(ctx context.Context, fragment string) []string {
	return d.Search(ctx, fragment)
}

// Search posts the query to the HTML endpoint and collects result anchors
// until the cap is reached.
func (d *DuckDuckGo) Search(ctx context.Context, query string) []string {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		warnf("DuckDuckGo search failed: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		warnf("DuckDuckGo search failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		warnf("DuckDuckGo parse failed: %v", err)
		return nil
	}

	var results []string
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok && href != "" {
			results = append(results, href)
		}
		return len(results) < d.maxResults
	})
	return results
}
