package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/echotrace/internal/model"
)

// WriteMatches persists the match list as one pretty-printed JSON array,
// one file per (seed, backend) pair, and returns the file path. An empty
// run still writes an empty array so downstream indexing sees the crawl.
func WriteMatches(dir, engineName string, matches []model.Match) (string, error) {
	if matches == nil {
		matches = []model.Match{}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("matches_%s.json", engineName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write matches: %w", err)
	}

	return path, nil
}
