package model

import "time"

// Config enumerates every tunable of the echo tracing pipeline.
// The original behavior lived in scattered defaults; everything is
// explicit here so `config show` can print the full effective state.
type Config struct {
	Output  OutputConfig  `yaml:"output" json:"output"`
	HTTP    HTTPConfig    `yaml:"http" json:"http"`
	Query   QueryConfig   `yaml:"query" json:"query"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Match   MatchConfig   `yaml:"match" json:"match"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	OpenAI  OpenAIConfig  `yaml:"openai" json:"openai"`
	Workers WorkersConfig `yaml:"workers" json:"workers"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir     string `yaml:"dir" json:"dir"`         // match files land here
	Verbose bool   `yaml:"verbose" json:"verbose"` // progress on stderr
}

// HTTPConfig configures outbound HTTP for search and candidate fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// QueryConfig tunes fragment and variant synthesis.
type QueryConfig struct {
	Sentences    int      `yaml:"sentences" json:"sentences"`           // fragments per seed
	MaxWords     int      `yaml:"max_words" json:"max_words"`           // truncation per fragment
	MaxTerms     int      `yaml:"max_terms" json:"max_terms"`           // GDELT keeps queries compact
	NearWindow   int      `yaml:"near_window" json:"near_window"`       // NEAR proximity window
	SourceLang   string   `yaml:"source_lang" json:"source_lang"`       // sourcelang filter, empty disables
	Acronyms     []string `yaml:"acronyms" json:"acronyms"`             // short tokens kept despite length
	Stopwords    []string `yaml:"stopwords" json:"stopwords"`
}

// SearchConfig tunes backend retrieval.
type SearchConfig struct {
	Limit        int     `yaml:"limit" json:"limit"`                 // max URLs collected per fragment
	Timespan     string  `yaml:"timespan" json:"timespan"`           // GDELT relative window, e.g. "30d"
	Start        string  `yaml:"start" json:"start"`                 // explicit window start, wins over timespan
	End          string  `yaml:"end" json:"end"`                     // explicit window end
	DelaySeconds float64 `yaml:"delay_seconds" json:"delay_seconds"` // politeness spacing between requests
}

// MatchConfig tunes similarity scoring.
type MatchConfig struct {
	Threshold float64 `yaml:"threshold" json:"threshold"` // match iff score >= threshold
}

// CacheConfig controls the candidate extraction cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OpenAIConfig configures the embedding backend of the similarity matcher.
type OpenAIConfig struct {
	APIKey string `yaml:"-" json:"-"` // from OPENAI_API_KEY, never persisted
	Model  string `yaml:"model" json:"model"`
}

// WorkersConfig bounds candidate fetch/score concurrency.
type WorkersConfig struct {
	Candidates int `yaml:"candidates" json:"candidates"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir: "data/crawled",
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (compatible; echotrace/0.2; +https://github.com/ppiankov/echotrace)",
			MaxBodyBytes: 2_000_000,
		},
		Query: QueryConfig{
			Sentences:  5,
			MaxWords:   20,
			MaxTerms:   8,
			NearWindow: 10,
			SourceLang: "english",
			Acronyms:   []string{"NATO", "UAE", "EU", "US", "UK", "UN"},
			Stopwords:  DefaultStopwords(),
		},
		Search: SearchConfig{
			Limit:        10,
			Timespan:     "30d",
			DelaySeconds: 2,
		},
		Match: MatchConfig{
			Threshold: 0.80,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".echotrace-cache",
			TTL:     24 * time.Hour,
		},
		OpenAI: OpenAIConfig{
			Model: "text-embedding-3-small",
		},
		Workers: WorkersConfig{
			Candidates: 4,
		},
	}
}

// DefaultStopwords returns the common terms stripped from structured queries.
func DefaultStopwords() []string {
	return []string{
		"the", "a", "an", "and", "or", "but", "to", "of", "in", "on", "for",
		"with", "as", "by", "is", "are", "was", "were", "be", "been", "being",
		"that", "this", "it", "its", "at", "from", "about", "into", "over",
		"after", "before", "between", "through", "their", "has", "have", "had",
		"today", "yesterday", "tomorrow", "new", "more",
	}
}
