package similarity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// TokenSetRatio computes a fuzzy overlap score in [0,1] that is insensitive
// to word order and to duplicated words: both texts are reduced to sorted
// token sets, and the score is the best pairwise similarity among the
// intersection and each set's remainder. Symmetric by construction.
func TokenSetRatio(text1, text2 string) float64 {
	set1 := tokenSet(text1)
	set2 := tokenSet(text2)
	if len(set1) == 0 && len(set2) == 0 {
		return 1
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	var common, rest1, rest2 []string
	for t := range set1 {
		if _, ok := set2[t]; ok {
			common = append(common, t)
		} else {
			rest1 = append(rest1, t)
		}
	}
	for t := range set2 {
		if _, ok := set1[t]; !ok {
			rest2 = append(rest2, t)
		}
	}
	sort.Strings(common)
	sort.Strings(rest1)
	sort.Strings(rest2)

	base := strings.Join(common, " ")
	combined1 := strings.TrimSpace(base + " " + strings.Join(rest1, " "))
	combined2 := strings.TrimSpace(base + " " + strings.Join(rest2, " "))

	ratio := metrics.NewRatcliffObershelp()
	best := strutil.Similarity(base, combined1, ratio)
	if s := strutil.Similarity(base, combined2, ratio); s > best {
		best = s
	}
	if s := strutil.Similarity(combined1, combined2, ratio); s > best {
		best = s
	}
	return best
}

// tokenSet lowercases text, strips everything but letters and digits, and
// returns the unique tokens.
func tokenSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
