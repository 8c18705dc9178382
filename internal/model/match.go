package model

// SeedDocument is the article being traced. Built once per run from the
// extractor and discarded at run end; never persisted.
type SeedDocument struct {
	URL  string
	Text string
}

// QueryVariant is one ranked search string derived from a seed fragment.
// Variants are tried in generation order, most information-dense first.
type QueryVariant struct {
	Text        string
	BackendHint string // engine the variant was shaped for, e.g. "gdelt"
}

// Candidate is a URL a backend returned for one query variant, paired with
// its extracted text. Transient; exists only to be scored.
type Candidate struct {
	URL  string
	Text string
}

// Match is the persisted evidence that a candidate echoes the seed.
type Match struct {
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Snippet    string  `json:"snippet"`
}
