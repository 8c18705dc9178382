package query

import (
	"strings"
	"testing"
)

func TestFragments_SingleSentenceSeed(t *testing.T) {
	text := "The central bank raised rates Tuesday amid inflation concerns across the eurozone, surprising most analysts who expected a hold."

	fragments := Fragments(text, 1, 20)

	if len(fragments) != 1 {
		t.Fatalf("Expected exactly 1 fragment, got %d", len(fragments))
	}

	f := fragments[0]
	if !strings.HasPrefix(f, `"`) || !strings.HasSuffix(f, `"`) {
		t.Errorf("Expected quoted fragment, got %s", f)
	}

	words := strings.Fields(Unquote(f))
	if len(words) != 20 {
		t.Errorf("Expected fragment truncated to 20 words, got %d: %s", len(words), f)
	}
	if words[0] != "The" || words[1] != "central" {
		t.Errorf("Expected fragment to start with seed words, got %s", f)
	}
}

func TestFragments_EmptyInput(t *testing.T) {
	if got := Fragments("", 5, 20); len(got) != 0 {
		t.Errorf("Expected no fragments for empty input, got %v", got)
	}
}

func TestFragments_AllShortSentences(t *testing.T) {
	text := "Short. Tiny one. Also small. No."
	if got := Fragments(text, 5, 20); len(got) != 0 {
		t.Errorf("Expected no fragments when every sentence is short, got %v", got)
	}
}

func TestFragments_FiltersShortKeepsLong(t *testing.T) {
	text := "Headline. The committee voted to approve the new infrastructure spending bill after weeks of negotiation. Caption text."

	fragments := Fragments(text, 5, 20)

	if len(fragments) != 1 {
		t.Fatalf("Expected 1 fragment, got %d: %v", len(fragments), fragments)
	}
	if !strings.Contains(fragments[0], "committee voted") {
		t.Errorf("Expected the long sentence to survive, got %s", fragments[0])
	}
}

func TestFragments_DocumentOrderAndLimit(t *testing.T) {
	text := "First sentence long enough to qualify here. Second sentence long enough to qualify here. Third sentence long enough to qualify here."

	fragments := Fragments(text, 2, 20)

	if len(fragments) != 2 {
		t.Fatalf("Expected 2 fragments, got %d", len(fragments))
	}
	if !strings.Contains(fragments[0], "First") || !strings.Contains(fragments[1], "Second") {
		t.Errorf("Expected fragments in document order, got %v", fragments)
	}
}

func TestFragments_NormalizesQuotes(t *testing.T) {
	text := "The minister said “we will not negotiate” and left the press conference without questions."

	fragments := Fragments(text, 1, 20)

	if len(fragments) != 1 {
		t.Fatalf("Expected 1 fragment, got %d", len(fragments))
	}
	inner := Unquote(fragments[0])
	if strings.ContainsAny(inner, "“”\"") {
		t.Errorf("Expected interior quotes stripped, got %s", fragments[0])
	}
}

func TestFragments_Deterministic(t *testing.T) {
	text := "The agency published its annual assessment of regional security threats on Monday morning. A second qualifying sentence appears right here as well."

	first := Fragments(text, 5, 20)
	second := Fragments(text, 5, 20)

	if len(first) != len(second) {
		t.Fatalf("Expected deterministic output, got %d vs %d fragments", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Fragment %d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}
