package query

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// tokenPattern matches alphanumeric terms, allowing interior dashes for
// split words like "cease-fire".
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9\-]{1,}`)

// Synthesizer builds structured-query variants for the GDELT DOC API from
// a seed fragment. The API is picky about long or complex queries, so
// variants stay compact and the strongest terms lead.
type Synthesizer struct {
	stopwords  map[string]struct{}
	acronyms   map[string]struct{}
	maxTerms   int
	nearWindow int
	sourceLang string
}

// NewSynthesizer creates a variant synthesizer with the given term budget,
// NEAR window, sourcelang filter and stopword/acronym sets.
func NewSynthesizer(stopwords, acronyms []string, maxTerms, nearWindow int, sourceLang string) *Synthesizer {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	allow := make(map[string]struct{}, len(acronyms))
	for _, a := range acronyms {
		allow[strings.ToUpper(a)] = struct{}{}
	}
	return &Synthesizer{
		stopwords:  stop,
		acronyms:   allow,
		maxTerms:   maxTerms,
		nearWindow: nearWindow,
		sourceLang: sourceLang,
	}
}

// tokens splits a sentence into unique keywords, dropping stopwords and
// sub-3-character tokens unless allow-listed, deduplicating
// case-insensitively while preserving first occurrence.
func (s *Synthesizer) tokens(sentence string) []string {
	normalized := normalizeText(sentence)
	raw := tokenPattern.FindAllString(normalized, -1)

	var out []string
	seen := make(map[string]struct{})
	for _, t := range raw {
		tl := strings.ToLower(t)
		if _, stop := s.stopwords[tl]; stop {
			continue
		}
		if len(t) < 3 {
			if _, ok := s.acronyms[strings.ToUpper(t)]; !ok {
				continue
			}
		}
		if _, dup := seen[tl]; dup {
			continue
		}
		seen[tl] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Variants builds up to three query variants from a sentence: a NEAR
// proximity query over the strongest terms, a short exact phrase, and an
// AND-only bag of terms. Returns deduplicated, non-empty query strings in
// priority order.
func (s *Synthesizer) Variants(sentence string) []string {
	terms := s.tokens(sentence)
	if len(terms) > s.maxTerms {
		terms = terms[:s.maxTerms]
	}
	if len(terms) == 0 {
		return nil
	}

	// Named and acronym tokens carry the most search signal; they lead.
	var named, others []string
	for _, t := range terms {
		if isNamed(t) {
			named = append(named, t)
		} else {
			others = append(others, t)
		}
	}
	core := append(append([]string{}, named...), others...)
	if len(core) > s.maxTerms {
		core = core[:s.maxTerms]
	}

	head := core
	if len(head) > 3 {
		head = head[:3]
	}
	var tail []string
	for _, t := range core[min(3, len(core)):] {
		if len(t) >= 3 {
			tail = append(tail, t)
		}
		if len(tail) == 3 {
			break
		}
	}

	var filters []string
	if s.sourceLang != "" {
		filters = append(filters, "sourcelang:"+s.sourceLang)
	}

	var variants []string

	if len(head) > 0 {
		near := fmt.Sprintf("near%d:%s %s", s.nearWindow, quotePhrase(head), strings.Join(append(append([]string{}, tail...), filters...), " "))
		variants = append(variants, strings.TrimSpace(near))
	}

	if len(head) >= 2 {
		shortTail := tail
		if len(shortTail) > 2 {
			shortTail = shortTail[:2]
		}
		phrase := quotePhrase(head[:2]) + " " + strings.Join(append(append([]string{}, shortTail...), filters...), " ")
		variants = append(variants, strings.TrimSpace(phrase))
	}

	var bag []string
	for _, t := range core {
		if len(t) >= 3 {
			bag = append(bag, t)
		}
	}
	variants = append(variants, strings.TrimSpace(strings.Join(append(bag, filters...), " ")))

	// Deduplicate by normalized whitespace and drop empties.
	seen := make(map[string]struct{})
	var clean []string
	for _, q := range variants {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		clean = append(clean, q)
	}
	return clean
}

// quotePhrase joins words into a quoted phrase for NEAR/phrase queries.
func quotePhrase(words []string) string {
	return `"` + strings.Join(words, " ") + `"`
}

// isNamed reports whether a token looks like a proper name or acronym.
func isNamed(t string) bool {
	r := []rune(t)
	return unicode.IsUpper(r[0]) || strings.ToUpper(t) == t
}

// normalizeText folds curly quotes and non-breaking spaces to plain ASCII.
func normalizeText(s string) string {
	return strings.TrimSpace(strings.NewReplacer(
		"’", "'",
		"“", `"`,
		"”", `"`,
		" ", " ",
	).Replace(s))
}
