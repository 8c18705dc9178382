package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ppiankov/echotrace/internal/model"
	"github.com/ppiankov/echotrace/internal/query"
	"github.com/ppiankov/echotrace/internal/worker"
)

// minCandidateChars skips pages too short to compare meaningfully.
const minCandidateChars = 100

// matchSnippetChars is how much candidate text a Match preserves.
const matchSnippetChars = 500

// Backend maps one seed fragment to candidate URLs.
type Backend interface {
	Name() string
	SearchFragment(ctx context.Context, fragment string) []string
}

// TextExtractor turns a URL into article text.
type TextExtractor interface {
	Text(ctx context.Context, rawURL string) (string, error)
}

// Scorer decides whether two texts match at a threshold.
type Scorer interface {
	Match(ctx context.Context, text1, text2 string, threshold float64) (bool, float64, error)
}

// RobotsPolicy gates candidate fetches; nil disables the check.
type RobotsPolicy interface {
	CanFetch(ctx context.Context, rawURL string) (bool, error)
}

// Pipeline drives the forward echo trace: extract seed text, synthesize
// fragments, search the backend per fragment, then fetch, filter and score
// each candidate. Candidates are processed by a bounded pool; pacing is a
// per-key rate limiter instead of blocking sleeps, and the accumulated
// match list has a single writer.
type Pipeline struct {
	backend   Backend
	extractor TextExtractor
	scorer    Scorer
	robots    RobotsPolicy
	limiter   *worker.Limiter
	cfg       *model.Config
}

// NewPipeline creates a pipeline over the given collaborators. robots may
// be nil.
func NewPipeline(cfg *model.Config, backend Backend, extractor TextExtractor, scorer Scorer, robots RobotsPolicy) *Pipeline {
	perSecond := 1.0
	if cfg.Search.DelaySeconds > 0 {
		perSecond = 1.0 / cfg.Search.DelaySeconds
	}

	return &Pipeline{
		backend:   backend,
		extractor: extractor,
		scorer:    scorer,
		robots:    robots,
		limiter:   worker.NewLimiter(perSecond, 1),
		cfg:       cfg,
	}
}

// Run traces seedURL and returns the accumulated matches. Seed extraction
// failure aborts the run; every candidate-level failure only skips that
// candidate. On error, matches collected so far are still returned so the
// caller can persist partial results.
func (p *Pipeline) Run(ctx context.Context, seedURL string) ([]model.Match, error) {
	matches := []model.Match{}

	fmt.Fprintf(os.Stderr, "[*] Extracting seed content from: %s\n", seedURL)
	seedText, err := p.extractor.Text(ctx, seedURL)
	if err != nil {
		return matches, fmt.Errorf("extract seed content: %w", err)
	}
	if seedText == "" {
		return matches, fmt.Errorf("extract seed content: empty text")
	}
	seed := model.SeedDocument{URL: seedURL, Text: seedText}

	fragments := query.Fragments(seedText, p.cfg.Query.Sentences, p.cfg.Query.MaxWords)
	fmt.Fprintf(os.Stderr, "[*] Generated %d search queries\n", len(fragments))

	for _, fragment := range fragments {
		fmt.Fprintf(os.Stderr, "[+] Searching with %s: %s\n", p.backend.Name(), fragment)

		if err := p.limiter.Wait(ctx, p.backend.Name()); err != nil {
			return matches, err
		}
		urls := p.backend.SearchFragment(ctx, fragment)
		fmt.Fprintf(os.Stderr, "[+] Found %d results\n", len(urls))

		results := worker.Map(ctx, p.cfg.Workers.Candidates, urls, func(ctx context.Context, candidateURL string) *model.Match {
			return p.processCandidate(ctx, seed, candidateURL)
		})
		for _, m := range results {
			if m != nil {
				matches = append(matches, *m)
			}
		}

		if ctx.Err() != nil {
			return matches, ctx.Err()
		}
	}

	return matches, nil
}

// processCandidate fetches, filters and scores one candidate URL. Returns
// nil when the candidate is skipped or does not match.
func (p *Pipeline) processCandidate(ctx context.Context, seed model.SeedDocument, candidateURL string) *model.Match {
	// Self-reference guard: skip links back to the seed source.
	if strings.Contains(candidateURL, seed.URL) {
		return nil
	}

	if p.robots != nil {
		allowed, err := p.robots.CanFetch(ctx, candidateURL)
		if err == nil && !allowed {
			p.verbosef("    - %s disallowed by robots.txt\n", candidateURL)
			return nil
		}
	}

	if err := p.limiter.Wait(ctx, hostOf(candidateURL)); err != nil {
		return nil
	}

	text, err := p.extractor.Text(ctx, candidateURL)
	if err != nil {
		p.verbosef("    - failed to extract from %s: %v\n", candidateURL, err)
		return nil
	}
	// Very short articles are not worth comparing.
	if len(text) < minCandidateChars {
		return nil
	}

	matched, score, err := p.scorer.Match(ctx, seed.Text, text, p.cfg.Match.Threshold)
	if err != nil {
		p.verbosef("    - failed to score %s: %v\n", candidateURL, err)
		return nil
	}
	if !matched {
		return nil
	}

	fmt.Fprintf(os.Stderr, "[✓] Match found: %s (similarity=%.2f)\n", candidateURL, score)
	return &model.Match{
		Source:     candidateURL,
		Similarity: score,
		Snippet:    prefix(text, matchSnippetChars),
	}
}

func (p *Pipeline) verbosef(format string, a ...interface{}) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format, a...)
	}
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// hostOf keys the rate limiter by candidate host, falling back to the raw
// URL when it does not parse.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
