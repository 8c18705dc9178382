package model

// LabeledEntry is one record of a label-enriched match file. Older crawls
// stored the address under "source", newer enrichment output under "url";
// Location resolves that once at ingestion instead of ducking between the
// two at every access.
type LabeledEntry struct {
	Source  string `json:"source,omitempty"`
	URL     string `json:"url,omitempty"`
	Label   string `json:"label,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Location returns the entry's address and whether one is present.
func (e LabeledEntry) Location() (string, bool) {
	if e.Source != "" {
		return e.Source, true
	}
	if e.URL != "" {
		return e.URL, true
	}
	return "", false
}

// SourceRecord is one observation of a fingerprint on a source.
type SourceRecord struct {
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Label     string `json:"label"`
	CrawlFile string `json:"crawl_file"`
	Snippet   string `json:"snippet"`
}

// ReuseGroup holds every source observed sharing one content fingerprint.
// Sources preserve first-seen order; groups are never merged.
type ReuseGroup struct {
	RepresentativeSnippet string         `json:"representative_snippet"`
	Sources               []SourceRecord `json:"sources"`
}

// ReuseMap maps fingerprint hex strings to their groups.
type ReuseMap map[string]*ReuseGroup

// ReusedSource names a (domain, label) pair an anomaly was observed on.
type ReusedSource struct {
	Domain string `json:"domain"`
	Label  string `json:"label"`
}

// Anomaly is the classification result for one reuse group. A group yields
// at most one anomaly; rules are evaluated in priority order.
type Anomaly struct {
	ContentHash string         `json:"content_hash"`
	ReusedOn    []ReusedSource `json:"reused_on"`
	Issue       string         `json:"issue"`
}

// DomainLabels maps a normalized domain to its classification. Read-only
// input to the classifier; unknown domains resolve to "unclassified".
type DomainLabels map[string]string

// LabelUnclassified is the default label for unknown domains.
const LabelUnclassified = "unclassified"

// Get returns the label for a domain, defaulting to unclassified.
func (l DomainLabels) Get(domain string) string {
	if label, ok := l[domain]; ok && label != "" {
		return label
	}
	return LabelUnclassified
}
