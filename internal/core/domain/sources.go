package domain

import "strconv"

// Built-in source names.
const (
	SourceBallotpedia = "ballotpedia"
	SourceSCDP        = "scdp"
	SourceSCGOP       = "scgop"

	// SourceManual marks values entered by a person. It outranks every adapter.
	SourceManual = "manual"
)

// ManualPriority is the priority of hand-entered values.
const ManualPriority = 0

// UnrankedPriority is used for sources with no configured priority.
const UnrankedPriority = 1000

// DefaultSources returns the built-in source settings.
func DefaultSources(electionYear int) map[string]SourceSettings {
	heading := ""
	if electionYear > 0 {
		heading = strconv.Itoa(electionYear)
	}
	return map[string]SourceSettings{
		SourceBallotpedia: {
			Name:     SourceBallotpedia,
			Kind:     SourceKindDirectory,
			Priority: 2,
			URLTemplates: map[Chamber]string{
				ChamberHouse:  "https://ballotpedia.org/South_Carolina_House_of_Representatives_District_{n}",
				ChamberSenate: "https://ballotpedia.org/South_Carolina_State_Senate_District_{n}",
			},
			SectionHeading: heading,
		},
		SourceSCDP: {
			Name:     SourceSCDP,
			Kind:     SourceKindPartyRoster,
			Priority: 3,
			Party:    PartyDemocrat,
			URLs: []string{
				"https://www.scdp.org/candidates/",
				"https://www.scdp.org/our-candidates/",
				"https://www.scdp.org/news/",
			},
			Feeds: []string{"https://www.scdp.org/feed/"},
		},
		SourceSCGOP: {
			Name:     SourceSCGOP,
			Kind:     SourceKindPartyRoster,
			Priority: 3,
			Party:    PartyRepublican,
			URLs: []string{
				"https://sc.gop/candidates/",
				"https://sc.gop/elected-officials/",
				"https://sc.gop/news/",
			},
			Feeds: []string{"https://sc.gop/feed/"},
		},
	}
}

// DefaultSourceOrder lists the built-in sources in run order.
func DefaultSourceOrder() []string {
	return []string{SourceBallotpedia, SourceSCDP, SourceSCGOP}
}
