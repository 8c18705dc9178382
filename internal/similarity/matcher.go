package similarity

import (
	"context"
	"fmt"
	"math"
)

// Matcher scores a (seed, candidate) text pair with two independent
// signals: semantic embedding cosine similarity, which tolerates paraphrase
// but can false-positive on topically related text, and lexical token-set
// overlap, which anchors the score to literal word reuse. The published
// score is the unweighted mean of the two, so both are always computed.
type Matcher struct {
	embedder Embedder
}

// NewMatcher creates a matcher backed by the given embedder.
func NewMatcher(embedder Embedder) *Matcher {
	return &Matcher{embedder: embedder}
}

// Match reports whether the two texts are similar enough to count as a
// match at the given threshold, along with the combined score rounded to
// three decimals. A score exactly at the threshold matches.
func (m *Matcher) Match(ctx context.Context, text1, text2 string, threshold float64) (bool, float64, error) {
	semantic, err := m.semanticSimilarity(ctx, text1, text2)
	if err != nil {
		return false, 0, err
	}
	lexical := TokenSetRatio(text1, text2)

	score := math.Round((semantic+lexical)/2*1000) / 1000
	return score >= threshold, score, nil
}

// semanticSimilarity embeds both texts and returns their cosine similarity.
func (m *Matcher) semanticSimilarity(ctx context.Context, text1, text2 string) (float64, error) {
	emb1, err := m.embedder.Embed(ctx, text1)
	if err != nil {
		return 0, fmt.Errorf("embed seed text: %w", err)
	}
	emb2, err := m.embedder.Embed(ctx, text2)
	if err != nil {
		return 0, fmt.Errorf("embed candidate text: %w", err)
	}
	return cosineSimilarity(emb1, emb2), nil
}
