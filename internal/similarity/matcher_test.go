package similarity

import (
	"context"
	"fmt"
	"math"
	"testing"
)

// fakeEmbedder returns fixed vectors per text so scores are deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func TestMatcher_Symmetric(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha bravo charlie": {1, 0, 0},
		"charlie bravo alpha": {0.8, 0.6, 0},
	}}
	m := NewMatcher(embedder)

	_, score1, err := m.Match(context.Background(), "alpha bravo charlie", "charlie bravo alpha", 0.5)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	_, score2, err := m.Match(context.Background(), "charlie bravo alpha", "alpha bravo charlie", 0.5)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if score1 != score2 {
		t.Errorf("Expected symmetric score, got %v vs %v", score1, score2)
	}
}

func TestMatcher_ThresholdBoundaryMatches(t *testing.T) {
	// Identical vectors and identical token sets: semantic = 1, lexical = 1,
	// combined score = 1.0 exactly.
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha bravo": {1, 2, 3},
	}}
	m := NewMatcher(embedder)

	matched, score, err := m.Match(context.Background(), "alpha bravo", "alpha bravo", 1.0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("Expected score 1.0, got %v", score)
	}
	if !matched {
		t.Error("Expected a score exactly at the threshold to match")
	}
}

func TestMatcher_BothSignalsAveraged(t *testing.T) {
	// Orthogonal vectors give semantic 0; identical token sets give
	// lexical 1. The published score must be the mean of both, not either
	// component alone.
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha bravo charlie": {1, 0},
		"charlie alpha bravo": {0, 1},
	}}
	m := NewMatcher(embedder)

	matched, score, err := m.Match(context.Background(), "alpha bravo charlie", "charlie alpha bravo", 0.8)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if score != 0.5 {
		t.Errorf("Expected averaged score 0.5, got %v", score)
	}
	if matched {
		t.Error("Expected no match below threshold")
	}
	if embedder.calls != 2 {
		t.Errorf("Expected both texts embedded, got %d calls", embedder.calls)
	}
}

func TestMatcher_ScoreRoundedToThreeDecimals(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {1, 1, 0},
		"beta":  {1, 0, 0},
	}}
	m := NewMatcher(embedder)

	_, score, err := m.Match(context.Background(), "alpha", "beta", 0.9)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if rounded := math.Round(score*1000) / 1000; rounded != score {
		t.Errorf("Expected score rounded to 3 decimals, got %v", score)
	}
}

func TestMatcher_EmbedFailurePropagates(t *testing.T) {
	m := NewMatcher(&fakeEmbedder{})

	if _, _, err := m.Match(context.Background(), "alpha", "beta", 0.5); err == nil {
		t.Error("Expected error when embedding fails")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
