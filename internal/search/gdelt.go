package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/echotrace/internal/query"
)

const gdeltEndpoint = "https://api.gdeltproject.org/api/v2/doc/doc"

// errorHeadBytes bounds how much of an HTML error page is sniffed for
// known rejection signatures.
const errorHeadBytes = 240

var (
	nearClausePattern = regexp.MustCompile(`\bnear\d+:"[^"]+"\s*`)
	compactTimestamp  = regexp.MustCompile(`^\d{14}$`)
	bareDate          = regexp.MustCompile(`^\d{8}$`)
	isoDate           = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// GDELT queries the DOC API. The API rejects malformed queries by returning
// an HTML error page instead of a clean error code, so every call runs
// through a bounded repair loop: sniff the page head, apply at most one
// surgical rewrite, retry once.
type GDELT struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	synth      *query.Synthesizer
	limit      int
	timespan   string
	start      string // normalized 14-digit form, empty if unset
	end        string
}

// NewGDELT creates a GDELT engine. start and end accept YYYYMMDDHHMMSS,
// YYYYMMDD or YYYY-MM-DD; any other non-empty shape is an input error. An
// explicit window takes precedence over the relative timespan.
func NewGDELT(timeout time.Duration, userAgent string, synth *query.Synthesizer, limit int, timespan, start, end string) (*GDELT, error) {
	g := &GDELT{
		httpClient: newHTTPClient(timeout),
		endpoint:   gdeltEndpoint,
		userAgent:  userAgent,
		synth:      synth,
		limit:      limit,
		timespan:   timespan,
	}

	var err error
	if start != "" {
		if g.start, err = NormalizeDatetime(start); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if g.end, err = NormalizeDatetime(end); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Name returns the engine name.
func (g *GDELT) Name() string { return "gdelt" }

// SearchFragment searches one seed fragment. GDELT prefers unquoted
// bag/NEAR terms, so the fragment is unquoted and fanned out over the
// synthesized variants.
func (g *GDELT) SearchFragment(ctx context.Context, fragment string) []string {
	return g.SearchVariants(ctx, query.Unquote(fragment))
}

// NormalizeDatetime converts supported date inputs to GDELT's 14-digit
// YYYYMMDDHHMMSS form. Unsupported shapes are a hard error, never retried.
func NormalizeDatetime(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case compactTimestamp.MatchString(s):
		return s, nil
	case bareDate.MatchString(s):
		return s + "000000", nil
	case isoDate.MatchString(s):
		return strings.ReplaceAll(s, "-", "") + "000000", nil
	}
	return "", fmt.Errorf("unsupported datetime format for GDELT: %q", s)
}

// Search runs one query through the repair loop: a first attempt plus at
// most one repaired attempt. The error channel is untyped substring
// sniffing, so the hard bound is what guarantees termination on
// unrecognized error shapes.
func (g *GDELT) Search(ctx context.Context, q string) []string {
	current := q
	for attempt := 0; attempt < 2; attempt++ {
		urls, head, done := g.request(ctx, current)
		if done {
			return urls
		}
		if attempt > 0 {
			break
		}
		fixed := repairQuery(current, head)
		if fixed == "" || fixed == current {
			break
		}
		warnf("GDELT retrying with repaired query: %s", fixed)
		current = fixed
	}
	return nil
}

// request performs a single DOC API call. done is false only when the API
// rejected the query with a non-JSON payload; head then carries the sniffed
// error page prefix for the repair rules.
func (g *GDELT) request(ctx context.Context, q string) (urls []string, head string, done bool) {
	maxRecords := g.limit
	if maxRecords < 1 {
		maxRecords = 1
	}
	if maxRecords > 250 {
		maxRecords = 250
	}

	params := url.Values{
		"query":      {q},
		"mode":       {"artlist"},
		"format":     {"json"},
		"maxrecords": {strconv.Itoa(maxRecords)},
		"sort":       {"datedesc"},
	}

	// Explicit window wins over the relative timespan.
	if g.start != "" || g.end != "" {
		if g.start != "" {
			params.Set("STARTDATETIME", g.start)
		}
		if g.end != "" {
			params.Set("ENDDATETIME", g.end)
		}
	} else {
		params.Set("timespan", g.timespan)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		warnf("GDELT search failed: %v", err)
		return nil, "", true
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		warnf("GDELT search failed: %v", err)
		return nil, "", true
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		warnf("GDELT search failed: unexpected status %d", resp.StatusCode)
		return nil, "", true
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "application/json") {
		// GDELT explains rejections in an HTML page; surface the head to
		// the repair rules.
		buf, _ := io.ReadAll(io.LimitReader(resp.Body, errorHeadBytes))
		head = strings.ReplaceAll(string(buf), "\n", " ")
		warnf("GDELT non-JSON head: %s ...", head)
		return nil, head, false
	}

	var body struct {
		Articles []struct {
			URL string `json:"url"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		warnf("GDELT search failed: %v", err)
		return nil, "", true
	}

	for _, a := range body.Articles {
		if a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	return urls, "", true
}

// repairQuery applies at most one surgical rewrite matching a known error
// signature in the sniffed page head. Returns empty when no rule matches or
// the rewrite leaves nothing to search for.
func repairQuery(q, head string) string {
	msg := strings.ToLower(head)

	// Remove the NEAR clause when it is flagged as invalid.
	if strings.Contains(msg, "invalid near") || strings.Contains(msg, "near search") {
		return strings.TrimSpace(nearClausePattern.ReplaceAllString(q, ""))
	}

	// Drop too-short tokens, keeping quoted phrases intact.
	if strings.Contains(msg, "too short") {
		var kept []string
		for _, t := range strings.Fields(q) {
			quoted := strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`)
			if quoted || len(t) >= 3 {
				kept = append(kept, t)
			}
		}
		return strings.TrimSpace(strings.Join(kept, " "))
	}

	// Quote the whole query on illegal-character errors, unless it
	// already is.
	if strings.Contains(msg, "illegal character") && !(strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`)) {
		return `"` + q + `"`
	}

	return ""
}

// SearchVariants builds query variants from a seed fragment and unions
// their results, deduplicating by exact URL and short-circuiting once the
// result limit is reached. Variant order is a priority order: the NEAR
// variant is the most specific and is tried first.
func (g *GDELT) SearchVariants(ctx context.Context, sentence string) []string {
	var urls []string
	seen := make(map[string]struct{})

	for _, q := range g.synth.Variants(sentence) {
		for _, u := range g.Search(ctx, q) {
			if u == "" {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
			if len(urls) >= g.limit {
				return urls
			}
		}
	}
	return urls
}
