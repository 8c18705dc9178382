package query

import "strings"

// minFragmentChars filters out titles, captions and other short lines.
const minFragmentChars = 25

var fragmentNormalizer = strings.NewReplacer(
	`"`, "",
	"“", "", // left curly double quote
	"”", "", // right curly double quote
	"’", "'",
	"‘", "'",
)

// Fragments derives quoted search fragments from seed text: split on
// sentence boundaries, keep the first n sentences longer than the minimum,
// normalize quotes, truncate each to maxWords words, and wrap in quotation
// marks. Deterministic for a given text and configuration; empty or
// all-short input yields nil.
func Fragments(text string, n, maxWords int) []string {
	var sentences []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if len(s) > minFragmentChars {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) > n {
		sentences = sentences[:n]
	}

	var fragments []string
	for _, s := range sentences {
		// Strip quotes to avoid nested-quote issues in search queries.
		s = fragmentNormalizer.Replace(s)
		words := strings.Fields(s)
		if len(words) > maxWords {
			words = words[:maxWords]
		}
		fragments = append(fragments, `"`+strings.Join(words, " ")+`"`)
	}
	return fragments
}

// Unquote strips the enclosing quotation marks from a fragment. The
// structured backend prefers unquoted bag/NEAR terms.
func Unquote(fragment string) string {
	return strings.Trim(fragment, `"`)
}
