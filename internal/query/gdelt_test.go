package query

import (
	"strings"
	"testing"

	"github.com/ppiankov/echotrace/internal/model"
)

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(model.DefaultStopwords(), []string{"NATO", "UAE", "EU", "US", "UK", "UN"}, 8, 10, "english")
}

func TestVariants_NearVariantFirst(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("Brussels summit concluded with NATO leaders endorsing expanded defense spending targets")

	if len(variants) == 0 {
		t.Fatal("Expected variants, got none")
	}
	if !strings.HasPrefix(variants[0], "near10:") {
		t.Errorf("Expected the NEAR variant first, got %s", variants[0])
	}
	for _, v := range variants {
		if !strings.Contains(v, "sourcelang:english") {
			t.Errorf("Expected sourcelang filter in every variant, got %s", v)
		}
	}
}

func TestVariants_DropsStopwordsAndShortTokens(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("the new plan is to be of at it go")

	for _, v := range variants {
		for _, stop := range []string{" the ", " new ", " is "} {
			if strings.Contains(" "+v+" ", stop) {
				t.Errorf("Expected stopword %q dropped, got %s", strings.TrimSpace(stop), v)
			}
		}
	}
}

func TestVariants_AcronymAllowList(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("EU regulators announced sweeping penalties against technology platforms yesterday")

	found := false
	for _, v := range variants {
		if strings.Contains(v, "EU") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected allow-listed acronym EU to survive, got %v", variants)
	}
}

func TestVariants_CapitalizedTokensLead(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("officials in Ankara confirmed the Cyprus talks would resume shortly")

	if len(variants) == 0 {
		t.Fatal("Expected variants, got none")
	}
	// The NEAR head holds the strongest 3 terms; named tokens sort first.
	near := variants[0]
	quoteStart := strings.Index(near, `"`)
	quoteEnd := strings.LastIndex(near, `"`)
	head := near[quoteStart+1 : quoteEnd]
	if !strings.Contains(head, "Ankara") || !strings.Contains(head, "Cyprus") {
		t.Errorf("Expected named tokens in NEAR head, got %q", head)
	}
}

func TestVariants_EmptyInput(t *testing.T) {
	s := newTestSynthesizer()

	if got := s.Variants(""); got != nil {
		t.Errorf("Expected no variants for empty input, got %v", got)
	}
	if got := s.Variants("the and of to"); got != nil {
		t.Errorf("Expected no variants for all-stopword input, got %v", got)
	}
}

func TestVariants_Deduplicated(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("Parliament approved budget")

	seen := make(map[string]int)
	for _, v := range variants {
		seen[v]++
		if seen[v] > 1 {
			t.Errorf("Duplicate variant: %s", v)
		}
		if v == "" {
			t.Error("Empty variant not dropped")
		}
	}
}

func TestVariants_DeduplicatesTokensCaseInsensitively(t *testing.T) {
	s := newTestSynthesizer()

	variants := s.Variants("Drought drought DROUGHT conditions worsened across southern regions")

	for _, v := range variants {
		if strings.Count(strings.ToLower(v), "drought") > 1 {
			t.Errorf("Expected case-insensitive dedup of tokens, got %s", v)
		}
	}
}

func TestVariants_RespectsMaxTerms(t *testing.T) {
	s := NewSynthesizer(model.DefaultStopwords(), nil, 4, 10, "")

	variants := s.Variants("alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo")

	// The AND-only bag holds every qualifying term; it must not exceed the
	// term budget.
	bag := variants[len(variants)-1]
	if got := len(strings.Fields(bag)); got > 4 {
		t.Errorf("Expected at most 4 terms in the bag variant, got %d: %s", got, bag)
	}
}
