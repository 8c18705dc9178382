package reuse

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/echotrace/internal/model"
)

// fingerprintChars is the snippet prefix length the fingerprint covers.
// It must stay constant across indexing runs so historical match files
// remain comparable.
const fingerprintChars = 1000

// representativeChars is how much of the first-seen snippet a group keeps.
const representativeChars = 200

// labeledFilePattern selects label-enriched match files in an input dir.
const labeledFilePattern = "matches_*_labeled.json"

// Fingerprint returns the identity hash for a piece of text: sha256 over
// the first 1000 characters, exact by design. Truncated-prefix hashing
// trades recall for speed at index-build time; fuzzier cross-label judgment
// happens in anomaly classification.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(prefix(text, fingerprintChars)))
	return hex.EncodeToString(sum[:])
}

// NormalizeDomain extracts the lowercased host from a URL, stripping a
// leading "www.". Returns empty for unparseable input.
func NormalizeDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(host, "www.")
}

// IndexSummary reports what the indexer saw.
type IndexSummary struct {
	Files      int // match files processed
	Skipped    int // unparseable files skipped
	Entries    int // entries indexed
	Unresolved int // entries with neither source nor url
}

// MatchFiles lists the label-enriched match files under dir. filepath.Glob
// returns sorted paths, so the shipped entrypoint processes files in a
// stable order.
func MatchFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, labeledFilePattern))
}

// BuildReuseMap scans label-enriched match files and groups entries by
// content fingerprint. Groups are created on first occurrence and sources
// are appended in first-seen order; groups are never merged. Unparseable
// files are skipped with a warning; entries with no resolvable location are
// counted instead of silently defaulting.
func BuildReuseMap(paths []string) (model.ReuseMap, IndexSummary) {
	reuseMap := make(model.ReuseMap)
	var summary IndexSummary

	for _, path := range paths {
		entries, err := readEntries(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[!] Error processing %s: %v\n", filepath.Base(path), err)
			summary.Skipped++
			continue
		}
		summary.Files++

		for _, entry := range entries {
			snippet := strings.TrimSpace(entry.Snippet)
			if snippet == "" {
				continue
			}

			location, ok := entry.Location()
			if !ok {
				summary.Unresolved++
				continue
			}

			label := entry.Label
			if label == "" {
				label = model.LabelUnclassified
			}

			fingerprint := Fingerprint(snippet)
			group, exists := reuseMap[fingerprint]
			if !exists {
				group = &model.ReuseGroup{
					RepresentativeSnippet: prefix(snippet, representativeChars),
				}
				reuseMap[fingerprint] = group
			}

			group.Sources = append(group.Sources, model.SourceRecord{
				Domain:    NormalizeDomain(location),
				URL:       location,
				Label:     label,
				CrawlFile: filepath.Base(path),
				Snippet:   prefix(snippet, fingerprintChars),
			})
			summary.Entries++
		}
	}

	return reuseMap, summary
}

func readEntries(path string) ([]model.LabeledEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []model.LabeledEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadReuseMap reads a persisted reuse map.
func LoadReuseMap(path string) (model.ReuseMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reuse map: %w", err)
	}
	var reuseMap model.ReuseMap
	if err := json.Unmarshal(data, &reuseMap); err != nil {
		return nil, fmt.Errorf("parse reuse map: %w", err)
	}
	return reuseMap, nil
}

// WriteJSON persists v pretty-printed, creating parent directories.
func WriteJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
