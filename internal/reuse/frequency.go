package reuse

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ppiankov/echotrace/internal/model"
)

// RegisteredDomain reduces a URL to its registered domain (eTLD+1), e.g.
// "news.example.co.uk" -> "example.co.uk". Returns empty for unparseable
// input.
func RegisteredDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

// DomainFrequency counts registered domains across the crawled match files
// in dir. Label-enriched files are excluded: they duplicate the raw crawls
// they were derived from. Entries may be match objects or bare URL strings;
// files that fail to parse are skipped with a warning.
func DomainFrequency(dir string) (map[string]int, error) {
	fileInfos, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	counts := make(map[string]int)
	for _, fi := range fileInfos {
		name := fi.Name()
		if fi.IsDir() || !strings.HasSuffix(name, ".json") || strings.Contains(name, "labeled") {
			continue
		}

		for _, u := range fileURLs(filepath.Join(dir, name)) {
			if domain := RegisteredDomain(u); domain != "" {
				counts[domain]++
			}
		}
	}

	return counts, nil
}

// fileURLs extracts every source URL from one crawled JSON file.
func fileURLs(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[!] Skipping %s: %v\n", filepath.Base(path), err)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "[!] Skipping %s due to JSON error\n", filepath.Base(path))
		return nil
	}

	var urls []string
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				urls = append(urls, s)
			}
			continue
		}

		var entry model.LabeledEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if location, ok := entry.Location(); ok {
			urls = append(urls, location)
		}
	}
	return urls
}
