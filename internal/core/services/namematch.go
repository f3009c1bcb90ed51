package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSuffixes are generational suffixes dropped from the end of a name.
var nameSuffixes = map[string]bool{
	"jr.": true, "jr": true,
	"sr.": true, "sr": true,
	"ii": true, "iii": true, "iv": true,
}

// NameMatcher decides whether two names refer to the same person.
// The match relation is symmetric but not transitive.
type NameMatcher struct {
	threshold float64
}

// NewNameMatcher creates a matcher. A threshold outside (0, 1] uses the default.
func NewNameMatcher(threshold float64) *NameMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultThreshold
	}
	return &NameMatcher{threshold: threshold}
}

// Threshold returns the similarity threshold.
func (m *NameMatcher) Threshold() float64 {
	return m.threshold
}

// Match returns true if the names are identical after normalisation
// or similar enough to clear the threshold.
func (m *NameMatcher) Match(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == nb {
		return true
	}
	return similarity(na, nb) >= m.threshold
}

// Similarity returns the similarity of two names after normalisation, in [0, 1].
func (m *NameMatcher) Similarity(a, b string) float64 {
	return similarity(NormalizeName(a), NormalizeName(b))
}

// NormalizeName reduces a display name to its comparison form:
// accents folded, lowercased, commas removed, trailing generational
// suffixes and middle initials dropped, whitespace collapsed.
func NormalizeName(name string) string {
	s := strings.ToLower(foldAccents(name))
	s = strings.ReplaceAll(s, ",", " ")
	tokens := strings.Fields(s)

	for len(tokens) > 1 && nameSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) > 2 {
		kept := make([]string, 0, len(tokens))
		kept = append(kept, tokens[0])
		for _, tok := range tokens[1 : len(tokens)-1] {
			if isInitial(tok) {
				continue
			}
			kept = append(kept, tok)
		}
		tokens = append(kept, tokens[len(tokens)-1])
	}

	return strings.Join(tokens, " ")
}

func isInitial(tok string) bool {
	tok = strings.TrimSuffix(tok, ".")
	if utf8.RuneCountInString(tok) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsLetter(r)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// similarity is 2*LCS/(len(a)+len(b)) over runes, where LCS is the
// longest common subsequence.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
