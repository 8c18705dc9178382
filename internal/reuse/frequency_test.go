package reuse

import (
	"testing"
)

func TestRegisteredDomain(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://news.example.com/article", "example.com"},
		{"https://www.example.co.uk/path", "example.co.uk"},
		{"https://deep.sub.news.example.org", "example.org"},
		{"https://example.net:8080/x", "example.net"},
		{"no scheme here", ""},
	}
	for _, tt := range tests {
		if got := RegisteredDomain(tt.rawURL); got != tt.want {
			t.Errorf("RegisteredDomain(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}

func TestDomainFrequency_CountsAcrossFilesExcludingLabeled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "matches_gdelt.json", `[
		{"source": "https://www.alpha-news.com/a", "similarity": 0.9, "snippet": "x"},
		{"source": "https://cdn.alpha-news.com/b", "similarity": 0.85, "snippet": "y"}
	]`)
	writeFile(t, dir, "matches_duckduckgo.json", `[
		"https://bravo-daily.org/story"
	]`)
	writeFile(t, dir, "matches_gdelt_labeled.json", `[
		{"source": "https://alpha-news.com/a", "label": "left", "snippet": "x"}
	]`)
	writeFile(t, dir, "notes.txt", "not json")

	counts, err := DomainFrequency(dir)
	if err != nil {
		t.Fatalf("DomainFrequency: %v", err)
	}

	if counts["alpha-news.com"] != 2 {
		t.Errorf("Expected subdomains collapsed to 2 hits on alpha-news.com, got %d", counts["alpha-news.com"])
	}
	if counts["bravo-daily.org"] != 1 {
		t.Errorf("Expected bare-string URL entries counted, got %d", counts["bravo-daily.org"])
	}
	if len(counts) != 2 {
		t.Errorf("Expected labeled files excluded, got %v", counts)
	}
}

func TestDomainFrequency_SkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "matches_bad.json", "{not json")
	writeFile(t, dir, "matches_good.json", `["https://good.example.com/a"]`)

	counts, err := DomainFrequency(dir)
	if err != nil {
		t.Fatalf("DomainFrequency: %v", err)
	}
	if counts["good.example.com"] != 1 || len(counts) != 1 {
		t.Errorf("Expected only the good file counted, got %v", counts)
	}
}

func TestDomainFrequency_MissingDirFails(t *testing.T) {
	if _, err := DomainFrequency("/nonexistent/input/dir"); err == nil {
		t.Error("Expected error for missing input directory")
	}
}
