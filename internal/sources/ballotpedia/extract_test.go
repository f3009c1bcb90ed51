package ballotpedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

const districtPage = `# South Carolina House of Representatives District 42

## 2026

### General election

- **[Jane Doe](https://ballotpedia.org/Jane_Doe)** (Democratic Party) Incumbent
- **John Roe** (Republican Party) Filed

### Primary

- **Jane Doe** (Democratic Party) Certified

## 2024

- **Old Timer** (Republican Party) Incumbent
`

func TestElectionSection(t *testing.T) {
	section := ElectionSection(districtPage, "2026")

	assert.Contains(t, section, "## 2026")
	assert.Contains(t, section, "John Roe")
	assert.Contains(t, section, "### Primary")
	assert.NotContains(t, section, "Old Timer")
}

func TestElectionSection_ToEndOfDocument(t *testing.T) {
	text := "# Title\n\n## 2026\n\n- **A B** (D)\n"
	assert.Equal(t, "## 2026\n\n- **A B** (D)\n", ElectionSection(text, "2026"))
}

func TestElectionSection_HigherLevelEnds(t *testing.T) {
	text := "### 2026 race\n- **A B** (D)\n## Past results\n- **C D** (R)"
	section := ElectionSection(text, "2026")
	assert.Contains(t, section, "A B")
	assert.NotContains(t, section, "C D")
}

func TestElectionSection_Missing(t *testing.T) {
	assert.Empty(t, ElectionSection(districtPage, "2030"))
	assert.Equal(t, districtPage, ElectionSection(districtPage, ""))
}

func TestElectionSection_TokenOutsideHeadingIgnored(t *testing.T) {
	text := "In 2026 there is an election.\n\n## 2026\n- **A B** (D)"
	assert.Equal(t, "## 2026\n- **A B** (D)", ElectionSection(text, "2026"))
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel("# Title"))
	assert.Equal(t, 3, headingLevel("### Sub"))
	assert.Equal(t, 0, headingLevel("#hashtag"))
	assert.Equal(t, 0, headingLevel("plain"))
	assert.Equal(t, 0, headingLevel("####### seven"))
}

func TestParseEntries(t *testing.T) {
	entries := ParseEntries(ElectionSection(districtPage, "2026"))
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{
		Name:      "Jane Doe",
		Party:     domain.PartyDemocrat,
		Incumbent: true,
		Status:    domain.FilingCertified,
	}, entries[0])
	assert.Equal(t, Entry{
		Name:   "John Roe",
		Party:  domain.PartyRepublican,
		Status: domain.FilingFiled,
	}, entries[1])
}

func TestParseEntries_IncumbentOnlyOnSameLine(t *testing.T) {
	section := "## 2026\n- **Ann Lee** (R)\nThe incumbent did not run.\n"
	entries := ParseEntries(section)

	require.Len(t, entries, 1)
	assert.False(t, entries[0].Incumbent)
	assert.Equal(t, domain.FilingUnknown, entries[0].Status)
}

func TestParseEntries_RejectsLabels(t *testing.T) {
	section := "**Note** (see below)\n**Bob Stone** (Libertarian Party)"
	entries := ParseEntries(section)

	require.Len(t, entries, 1)
	assert.Equal(t, "Bob Stone", entries[0].Name)
	assert.Equal(t, domain.PartyOther, entries[0].Party)
}
