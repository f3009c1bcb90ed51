package partyroster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

var bounds = domain.DefaultChamberBounds()

func TestExtract_BoldWithDistrict(t *testing.T) {
	text := "## Our candidates\n\n**Jane Doe**, House District 42\n\n**Ann Lee** (SD 12)\n"
	hits := Extract(text, bounds)

	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Name: "Jane Doe", Chamber: domain.ChamberHouse, Number: 42,
		Status: domain.FilingDeclared, Pattern: PatternBold}, hits[0])
	assert.Equal(t, domain.ChamberSenate, hits[1].Chamber)
	assert.Equal(t, 12, hits[1].Number)
}

func TestExtract_ListItems(t *testing.T) {
	text := "- Mary Smith-Jones - HD 7\n* Bob Stone: State Senate District 3\n1. Carl Lutz, House #15\n"
	hits := Extract(text, bounds)

	require.Len(t, hits, 3)
	assert.Equal(t, "Mary Smith-Jones", hits[0].Name)
	assert.Equal(t, domain.ChamberHouse, hits[0].Chamber)
	assert.Equal(t, 7, hits[0].Number)
	assert.Equal(t, PatternList, hits[0].Pattern)

	assert.Equal(t, "Bob Stone", hits[1].Name)
	assert.Equal(t, domain.ChamberSenate, hits[1].Chamber)

	assert.Equal(t, 15, hits[2].Number)
}

func TestExtract_Prose(t *testing.T) {
	text := "COLUMBIA. State Rep. Jane Doe filed Monday to run for House District 42.\n" +
		"Sam Hill announced a campaign for Senate District 9."
	hits := Extract(text, bounds)

	require.Len(t, hits, 2)
	assert.Equal(t, "Jane Doe", hits[0].Name)
	assert.Equal(t, domain.FilingFiled, hits[0].Status)
	assert.Equal(t, PatternProse, hits[0].Pattern)

	assert.Equal(t, "Sam Hill", hits[1].Name)
	assert.Equal(t, domain.ChamberSenate, hits[1].Chamber)
	assert.Equal(t, domain.FilingDeclared, hits[1].Status)
}

func TestExtract_ProseAccentedNames(t *testing.T) {
	text := "Ángel Ruiz files for Senate District 3.\n" +
		"Éloïse Müller announced a run for House District 5."
	hits := Extract(text, bounds)

	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Name: "Ángel Ruiz", Chamber: domain.ChamberSenate, Number: 3,
		Status: domain.FilingFiled, Pattern: PatternProse}, hits[0])
	assert.Equal(t, Hit{Name: "Éloïse Müller", Chamber: domain.ChamberHouse, Number: 5,
		Status: domain.FilingDeclared, Pattern: PatternProse}, hits[1])
}

func TestExtract_ChamberFromWindow(t *testing.T) {
	text := "Our State Senate slate:\n\n**Ann Lee** - District 12\n"
	hits := Extract(text, bounds)

	require.Len(t, hits, 1)
	assert.Equal(t, domain.ChamberSenate, hits[0].Chamber)
}

func TestExtract_AmbiguousChamberDiscarded(t *testing.T) {
	text := "House and Senate races:\n\n**Ann Lee** - District 12\n"
	assert.Empty(t, Extract(text, bounds))
}

func TestExtract_OutOfBoundsDiscarded(t *testing.T) {
	text := "**Ann Lee**, Senate District 47\n**Bob Stone**, House District 0\n"
	assert.Empty(t, Extract(text, bounds))
}

func TestExtract_MenuLabelsRejected(t *testing.T) {
	text := "**House Candidates** - District 4\n- Senate Democrats - SD 5\n"
	assert.Empty(t, Extract(text, bounds))
}

func TestExtract_CollapsesRepeats(t *testing.T) {
	text := "**Jane Doe**, House District 42\n- Jane Doe - HD 42\n"
	hits := Extract(text, bounds)

	require.Len(t, hits, 1)
	assert.Equal(t, PatternBold, hits[0].Pattern)
}

func TestExtract_MarkdownLinks(t *testing.T) {
	text := "**[Jane Doe](https://party.test/jane)**, HD 42\n"
	hits := Extract(text, bounds)

	require.Len(t, hits, 1)
	assert.Equal(t, "Jane Doe", hits[0].Name)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Jane Doe", CleanName("  Rep. Jane   Doe, "))
	assert.Equal(t, "Jane Doe", CleanName("Democrat Jane Doe"))
	assert.Equal(t, "Jane Doe", CleanName(`Jane\ Doe`))
}

func TestPlausibleName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Jane Doe", true},
		{"María José García", true},
		{"Jane", false},
		{"House District", false},
		{"Republican Party", false},
		{"Jane Doe 2026", false},
		{"One Two Three Four Five Six", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlausibleName(tt.name))
		})
	}
}
