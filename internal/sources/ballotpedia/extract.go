package ballotpedia

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

var (
	// **Name** (Party), tolerating a markdown link inside the bold span.
	candidatePattern = regexp.MustCompile(`\*\*([^*\n]+?)\*\*[ \t]*\(([^)\n]+)\)`)

	linkPattern      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	incumbentPattern = regexp.MustCompile(`(?i)\bincumbent\b`)
	statusPattern    = regexp.MustCompile(`(?i)\b(certified|filed|declared|rumored)\b`)
)

// Entry is one candidate line found in an election section.
type Entry struct {
	Name      string
	Party     domain.Party
	Incumbent bool
	Status    domain.FilingStatus
}

// ElectionSection returns the part of a markdown document belonging to the
// first heading that contains token. The section ends at the next heading of
// the same or a higher level, or at the end of the document. An empty token
// selects the whole document. A missing heading yields "".
func ElectionSection(text, token string) string {
	if token == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	start, level := -1, 0
	for i, line := range lines {
		l := headingLevel(line)
		if l == 0 {
			continue
		}
		if start < 0 {
			if strings.Contains(line, token) {
				start, level = i, l
			}
			continue
		}
		if l <= level {
			return strings.Join(lines[start:i], "\n")
		}
	}
	if start < 0 {
		return ""
	}
	return strings.Join(lines[start:], "\n")
}

// headingLevel returns the ATX heading level of a line, 0 if it is not one.
func headingLevel(line string) int {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n < len(trimmed) && trimmed[n] != ' ' && trimmed[n] != '\t' {
		return 0
	}
	return n
}

// ParseEntries extracts candidate entries from an election section.
// Repeated names are collapsed into one entry.
func ParseEntries(section string) []Entry {
	var entries []Entry
	index := make(map[string]int)

	for _, line := range strings.Split(section, "\n") {
		matches := candidatePattern.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}
		incumbent := incumbentPattern.MatchString(line)
		status := domain.FilingUnknown
		if m := statusPattern.FindStringSubmatch(line); m != nil {
			status = domain.ParseFilingStatus(m[1])
		}

		for _, m := range matches {
			name := cleanName(m[1])
			if !plausibleName(name) {
				continue
			}
			e := Entry{
				Name:      name,
				Party:     domain.ParseParty(m[2]),
				Incumbent: incumbent,
				Status:    status,
			}

			key := strings.ToLower(name)
			if i, seen := index[key]; seen {
				prev := &entries[i]
				prev.Incumbent = prev.Incumbent || e.Incumbent
				prev.Status = domain.MostAdvanced(prev.Status, e.Status)
				if !prev.Party.IsKnown() {
					prev.Party = e.Party
				}
				continue
			}
			index[key] = len(entries)
			entries = append(entries, e)
		}
	}
	return entries
}

func cleanName(raw string) string {
	name := linkPattern.ReplaceAllString(raw, "$1")
	name = strings.ReplaceAll(name, `\`, "")
	return strings.Join(strings.Fields(name), " ")
}

// plausibleName rejects bold labels such as "**Note** (see below)".
func plausibleName(name string) bool {
	words := 0
	for _, tok := range strings.Fields(name) {
		if strings.IndexFunc(tok, unicode.IsLetter) >= 0 {
			words++
		}
	}
	return words >= 2
}
