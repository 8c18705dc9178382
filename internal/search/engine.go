package search

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Engine retrieves candidate URLs for a query string. Results are capped
// and keep the backend's native relevance order. Transport and parse
// failures yield an empty list, never an error: retrieval failures are
// non-fatal per query.
type Engine interface {
	Name() string
	Search(ctx context.Context, query string) []string
}

// newHTTPClient builds the shared outbound client: fixed per-call timeout
// and a redirect cap.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// warnf logs a recoverable backend failure to stderr.
func warnf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "[!] "+format+"\n", a...)
}
