package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ppiankov/echotrace/internal/cache"
	"github.com/ppiankov/echotrace/internal/extract"
	"github.com/ppiankov/echotrace/internal/model"
	"github.com/ppiankov/echotrace/internal/pipeline"
	"github.com/ppiankov/echotrace/internal/query"
	"github.com/ppiankov/echotrace/internal/search"
	"github.com/ppiankov/echotrace/internal/similarity"
	"github.com/ppiankov/echotrace/internal/util"
)

var (
	traceEngine   string
	traceOutDir   string
	traceThreshold float64
	traceDelay    float64
	traceLimit    int
	traceTimespan string
	traceStart    string
	traceEnd      string
	traceTimeout  time.Duration
	traceUA       string
	traceMaxBytes int64
	traceWorkers  int
	traceNoCache  bool
	traceNoRobots bool
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace <url>",
	Short: "Trace echoes of a seed URL across the selected search backend",
	Long: `Trace extracts the seed article's text, derives search fragments from it,
queries the selected backend per fragment, and scores every candidate page
against the seed with combined semantic + lexical similarity.

Confirmed matches are saved as one JSON array per (seed, backend) run.

Example:
  echotrace trace https://example.com/article --engine gdelt
  echotrace trace https://example.com/article --engine gdelt --start 2024-03-01 --end 2024-03-08
  echotrace trace https://example.com/article --engine duckduckgo --threshold 0.7`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	defaults := model.DefaultConfig()

	traceCmd.Flags().StringVar(&traceEngine, "engine", "gdelt", "search backend (gdelt, duckduckgo, google)")
	traceCmd.Flags().StringVar(&traceOutDir, "output-dir", defaults.Output.Dir, "directory for match files")
	traceCmd.Flags().Float64Var(&traceThreshold, "threshold", defaults.Match.Threshold, "similarity threshold for matches")
	traceCmd.Flags().Float64Var(&traceDelay, "delay", defaults.Search.DelaySeconds, "politeness spacing in seconds between requests")
	traceCmd.Flags().IntVar(&traceLimit, "limit", defaults.Search.Limit, "max URLs collected per fragment")
	traceCmd.Flags().StringVar(&traceTimespan, "timespan", defaults.Search.Timespan, "GDELT relative window (e.g. 7d, 30d), ignored if start/end provided")
	traceCmd.Flags().StringVar(&traceStart, "start", "", "GDELT window start (YYYYMMDD, YYYYMMDDHHMMSS or YYYY-MM-DD)")
	traceCmd.Flags().StringVar(&traceEnd, "end", "", "GDELT window end (YYYYMMDD, YYYYMMDDHHMMSS or YYYY-MM-DD)")
	traceCmd.Flags().DurationVar(&traceTimeout, "timeout", defaults.HTTP.Timeout, "per-request HTTP timeout")
	traceCmd.Flags().StringVar(&traceUA, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	traceCmd.Flags().Int64Var(&traceMaxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	traceCmd.Flags().IntVar(&traceWorkers, "workers", defaults.Workers.Candidates, "concurrent candidate fetches")
	traceCmd.Flags().BoolVar(&traceNoCache, "no-cache", false, "disable extraction cache (force fresh fetches)")
	traceCmd.Flags().BoolVar(&traceNoRobots, "no-robots", false, "skip robots.txt checks on candidate fetches")
}

func runTrace(cmd *cobra.Command, args []string) error {
	seedURL := args[0]

	// API keys live in the environment; a local .env is honored when present.
	_ = godotenv.Load()

	cfg := model.DefaultConfig()
	cfg.Output.Dir = traceOutDir
	cfg.Output.Verbose = verbose
	cfg.HTTP.Timeout = traceTimeout
	cfg.HTTP.UserAgent = traceUA
	cfg.HTTP.MaxBodyBytes = traceMaxBytes
	cfg.Search.Limit = traceLimit
	cfg.Search.Timespan = traceTimespan
	cfg.Search.Start = traceStart
	cfg.Search.End = traceEnd
	cfg.Search.DelaySeconds = traceDelay
	cfg.Match.Threshold = traceThreshold
	cfg.Cache.Enabled = !traceNoCache
	cfg.Workers.Candidates = traceWorkers
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	embedder, err := similarity.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		return err
	}

	var textCache cache.Cache
	if cfg.Cache.Enabled {
		textCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}
	extractor := extract.NewExtractor(extract.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes), textCache)

	var robots pipeline.RobotsPolicy
	if !traceNoRobots {
		robots = robotsPolicy{checker: util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)}
	}

	p := pipeline.NewPipeline(cfg, backend, extractor, similarity.NewMatcher(embedder), robots)

	matches, runErr := p.Run(context.Background(), seedURL)

	// Partial results up to the point of failure are still written.
	path, writeErr := pipeline.WriteMatches(cfg.Output.Dir, backend.Name(), matches)
	if writeErr == nil {
		fmt.Fprintf(os.Stderr, "[*] Saved %d matches to %s\n", len(matches), path)
	}

	if runErr != nil {
		return runErr
	}
	return writeErr
}

// buildBackend selects and configures the search backend.
func buildBackend(cfg *model.Config) (pipeline.Backend, error) {
	switch traceEngine {
	case "gdelt":
		synth := query.NewSynthesizer(cfg.Query.Stopwords, cfg.Query.Acronyms, cfg.Query.MaxTerms, cfg.Query.NearWindow, cfg.Query.SourceLang)
		return search.NewGDELT(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, synth, cfg.Search.Limit, cfg.Search.Timespan, cfg.Search.Start, cfg.Search.End)
	case "duckduckgo":
		return search.NewDuckDuckGo(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.Search.Limit), nil
	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		cseID := os.Getenv("GOOGLE_CSE_ID")
		if apiKey == "" || cseID == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY and GOOGLE_CSE_ID environment variables are required for --engine google")
		}
		return search.NewGoogleCSE(cfg.HTTP.Timeout, apiKey, cseID, cfg.Search.Limit), nil
	}
	return nil, fmt.Errorf("unknown engine: %s (expected gdelt, duckduckgo or google)", traceEngine)
}

// robotsPolicy adapts util.RobotsChecker to the pipeline's policy interface.
type robotsPolicy struct {
	checker *util.RobotsChecker
}

func (r robotsPolicy) CanFetch(ctx context.Context, rawURL string) (bool, error) {
	allowed, _, err := r.checker.CanFetch(ctx, rawURL)
	return allowed, err
}
