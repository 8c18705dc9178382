package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const googleCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE searches the Google Custom Search JSON API. Requires an API key
// and a search engine ID.
type GoogleCSE struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	cseID      string
	num        int
}

// NewGoogleCSE creates a Google CSE engine.
func NewGoogleCSE(timeout time.Duration, apiKey, cseID string, num int) *GoogleCSE {
	return &GoogleCSE{
		httpClient: newHTTPClient(timeout),
		endpoint:   googleCSEEndpoint,
		apiKey:     apiKey,
		cseID:      cseID,
		num:        num,
	}
}

// Name returns the engine name.
func (g *GoogleCSE) Name() string { return "google" }

// SearchFragment searches one seed fragment; the quoted fragment is used
// as the query verbatim.
func (g *GoogleCSE) SearchFragment(ctx context.Context, fragment string) []string {
	return g.Search(ctx, fragment)
}

// Search queries the JSON API and returns result links.
func (g *GoogleCSE) Search(ctx context.Context, query string) []string {
	params := url.Values{
		"key": {g.apiKey},
		"cx":  {g.cseID},
		"q":   {query},
		"num": {strconv.Itoa(g.num)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		warnf("Google CSE failed: %v", err)
		return nil
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		warnf("Google CSE failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		warnf("Google CSE failed: %v", fmt.Errorf("unexpected status: %d", resp.StatusCode))
		return nil
	}

	var body struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		warnf("Google CSE failed: %v", err)
		return nil
	}

	var results []string
	for _, item := range body.Items {
		if item.Link != "" {
			results = append(results, item.Link)
		}
	}
	return results
}
