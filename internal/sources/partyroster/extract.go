package partyroster

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// chamberWindow is how far either side of a match chamber tokens are searched.
const chamberWindow = 100

const (
	chamberGroup  = `(state[ \t]+house|state[ \t]+senate|house|senate|hd|sd)`
	districtGroup = `(district)?[ \t]*(?:no\.?[ \t]*|#[ \t]*)?(\d{1,3})\b`
)

// Pattern names, in the order they are applied.
const (
	PatternBold  = "bold"
	PatternList  = "list"
	PatternProse = "prose"
)

var (
	// **Jane Doe**, House District 42
	boldPattern = regexp.MustCompile(`(?i)\*\*([^*\n]{3,80}?)\*\*[ \t]*(?:[,:|(\x{2013}\x{2014}-][ \t]*)?(?:` +
		chamberGroup + `[ \t]*)?` + districtGroup)

	// - Jane Doe - SD 12
	listPattern = regexp.MustCompile(`(?im)^[ \t]*(?:[-*+]|\d+\.)[ \t]+([^\n,:|()*\x{2013}\x{2014}]{3,60}?)[ \t]*(?:[,:|(\x{2013}\x{2014}]|[ \t]-)[ \t]*(?:` +
		chamberGroup + `[ \t]*)?` + districtGroup)

	// Jane Doe filed to run for House District 42
	// The name must follow a non-letter; \b only knows ASCII word characters.
	prosePattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(\p{Lu}[\p{L}.'\-]+(?:[ \t]+\p{Lu}[\p{L}.'\-]*){1,3})[ \t]+(?i:has[ \t]+)?` +
		`(?i:(announced|announces|filed|files|is running|will run|launched|launches|declared|declares|is seeking|seeks))\b[^.\n]{0,80}?` +
		`(?i:(?:` + chamberGroup + `[ \t]+)?` + `(district)[ \t]*(?:no\.?[ \t]*|#[ \t]*)?(\d{1,3})\b)`)

	chamberTokenPattern = regexp.MustCompile(`(?i)\b(senate|house|sd|hd)\b`)
	linkPattern         = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// vocabulary marks tokens that never appear in a candidate's name.
var vocabulary = map[string]bool{
	"house": true, "senate": true, "district": true, "hd": true, "sd": true,
	"democrat": true, "democrats": true, "democratic": true,
	"republican": true, "republicans": true, "gop": true,
	"party": true, "caucus": true, "candidate": true, "candidates": true,
	"state": true, "county": true, "chair": true,
}

// honorifics are dropped from the front of a name.
var honorifics = map[string]bool{
	"state": true, "rep": true, "rep.": true, "representative": true,
	"sen": true, "sen.": true, "senator": true,
	"dr": true, "dr.": true, "mr": true, "mr.": true, "mrs": true, "mrs.": true, "ms": true, "ms.": true,
	"democrat": true, "democratic": true, "republican": true, "candidate": true,
}

// Hit is one candidate mention found in a page.
type Hit struct {
	Name    string
	Chamber domain.Chamber
	Number  int
	Status  domain.FilingStatus
	Pattern string
}

// Extract applies the bold, list and prose patterns to text in that order.
// Hits without a determinable chamber, with an out-of-range district, or
// with an implausible name are dropped. A (name, district) pair found by an
// earlier pattern is not repeated by a later one.
func Extract(text string, bounds domain.ChamberBounds) []Hit {
	text = linkPattern.ReplaceAllString(text, "$1")

	var hits []Hit
	seen := make(map[string]bool)
	add := func(h Hit) {
		key := strings.ToLower(h.Name) + "|" + string(h.Chamber) + "|" + strconv.Itoa(h.Number)
		if seen[key] {
			return
		}
		seen[key] = true
		hits = append(hits, h)
	}

	for _, m := range boldPattern.FindAllStringSubmatchIndex(text, -1) {
		if h, ok := buildHit(text, m, bounds, PatternBold, domain.FilingDeclared); ok {
			add(h)
		}
	}
	for _, m := range listPattern.FindAllStringSubmatchIndex(text, -1) {
		if h, ok := buildHit(text, m, bounds, PatternList, domain.FilingDeclared); ok {
			add(h)
		}
	}
	for _, m := range prosePattern.FindAllStringSubmatchIndex(text, -1) {
		verb := strings.ToLower(group(text, m, 2))
		status := domain.FilingDeclared
		if verb == "filed" || verb == "files" {
			status = domain.FilingFiled
		}
		// The prose pattern carries the verb as an extra leading group.
		shifted := append([]int{m[0], m[1], m[2], m[3]}, m[6:]...)
		if h, ok := buildHit(text, shifted, bounds, PatternProse, status); ok {
			add(h)
		}
	}
	return hits
}

// buildHit turns a match laid out as (name, chamber, district, number) into a Hit.
func buildHit(text string, m []int, bounds domain.ChamberBounds, pattern string, status domain.FilingStatus) (Hit, bool) {
	name := CleanName(group(text, m, 1))
	if !PlausibleName(name) {
		return Hit{}, false
	}

	chamberText := group(text, m, 2)
	districtWord := group(text, m, 3)
	if chamberText == "" && districtWord == "" {
		return Hit{}, false
	}

	n, err := strconv.Atoi(group(text, m, 4))
	if err != nil {
		return Hit{}, false
	}

	chamber, ok := domain.ParseChamber(strings.Join(strings.Fields(chamberText), " "))
	if !ok {
		chamber, ok = chamberNear(text, m[0], m[1])
		if !ok {
			return Hit{}, false
		}
	}
	if !bounds.Valid(chamber, n) {
		return Hit{}, false
	}

	return Hit{Name: name, Chamber: chamber, Number: n, Status: status, Pattern: pattern}, true
}

// chamberNear looks for chamber tokens within chamberWindow characters of a
// match. It succeeds only when exactly one chamber is mentioned.
func chamberNear(text string, start, end int) (domain.Chamber, bool) {
	lo := max(start-chamberWindow, 0)
	hi := min(end+chamberWindow, len(text))

	found := make(map[domain.Chamber]bool)
	for _, tok := range chamberTokenPattern.FindAllString(text[lo:hi], -1) {
		if c, ok := domain.ParseChamber(tok); ok {
			found[c] = true
		}
	}
	if len(found) != 1 {
		return "", false
	}
	for c := range found {
		return c, true
	}
	return "", false
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

// CleanName strips markup, honorifics and trailing punctuation from a name.
func CleanName(raw string) string {
	raw = strings.NewReplacer(`\`, "", "*", "", "_", " ").Replace(raw)
	tokens := strings.Fields(raw)
	for len(tokens) > 0 && honorifics[strings.ToLower(tokens[0])] {
		tokens = tokens[1:]
	}
	return strings.TrimRight(strings.Join(tokens, " "), " ,;:-")
}

// PlausibleName reports whether name looks like a person: two to five
// word-like tokens, none of them chamber or party vocabulary.
func PlausibleName(name string) bool {
	tokens := strings.Fields(name)
	if len(tokens) < 2 || len(tokens) > 5 {
		return false
	}
	words := 0
	for _, tok := range tokens {
		if vocabulary[strings.ToLower(strings.Trim(tok, ".,'"))] {
			return false
		}
		if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
			return false
		}
		if strings.IndexFunc(tok, unicode.IsLetter) >= 0 {
			words++
		}
	}
	return words >= 2
}
