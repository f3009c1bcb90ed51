package domain

import "strings"

// Party is a candidate's party affiliation.
// The zero value means the affiliation is not known.
type Party string

// Recognised party values.
const (
	// PartyUnknown means no source stated an affiliation.
	PartyUnknown Party = ""

	// PartyDemocrat is the Democratic Party.
	PartyDemocrat Party = "D"

	// PartyRepublican is the Republican Party.
	PartyRepublican Party = "R"

	// PartyIndependent covers independent and unaffiliated candidates.
	PartyIndependent Party = "I"

	// PartyOther covers any other stated affiliation.
	PartyOther Party = "Other"
)

// IsKnown returns true if the party is not null.
func (p Party) IsKnown() bool {
	return p != PartyUnknown
}

// IsValid returns true if the party is one of the recognised values.
// The unknown party is valid.
func (p Party) IsValid() bool {
	switch p {
	case PartyUnknown, PartyDemocrat, PartyRepublican, PartyIndependent, PartyOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Party) String() string {
	return string(p)
}

// Label returns the party for display, using "Unknown" for the null party.
func (p Party) Label() string {
	if p == PartyUnknown {
		return unknownDescription
	}
	return string(p)
}

// ParseParty normalises free text into a Party by substring matching.
// Empty text yields PartyUnknown; unrecognised text yields PartyOther.
func ParseParty(text string) Party {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Trim(t, "()[] .")
	if t == "" {
		return PartyUnknown
	}

	switch t {
	case "d", "dem":
		return PartyDemocrat
	case "r", "rep":
		return PartyRepublican
	case "i", "ind":
		return PartyIndependent
	}

	switch {
	case strings.Contains(t, "democrat"):
		return PartyDemocrat
	case strings.Contains(t, "republican"), strings.Contains(t, "gop"):
		return PartyRepublican
	case strings.Contains(t, "independent"), strings.Contains(t, "unaffiliated"),
		strings.Contains(t, "nonpartisan"):
		return PartyIndependent
	default:
		return PartyOther
	}
}

// PartyConfidence describes how trustworthy a source's party claim is.
type PartyConfidence string

// Confidence levels.
const (
	// ConfidenceHigh is used when the source is authoritative for affiliation,
	// such as a party's own roster.
	ConfidenceHigh PartyConfidence = "HIGH"

	// ConfidenceMedium is used for curated third-party directories.
	ConfidenceMedium PartyConfidence = "MEDIUM"

	// ConfidenceLow is used for inferred affiliations.
	ConfidenceLow PartyConfidence = "LOW"

	// ConfidenceUnknown is used when no party was stated.
	ConfidenceUnknown PartyConfidence = "UNKNOWN"
)

// String returns the string representation.
func (c PartyConfidence) String() string {
	return string(c)
}

// FilingStatus is how far a candidate has progressed towards the ballot.
// The zero value means the status is not known.
type FilingStatus string

// Filing statuses, most advanced first.
const (
	// FilingCertified means the election authority certified the candidate.
	FilingCertified FilingStatus = "certified"

	// FilingFiled means the candidate filed paperwork.
	FilingFiled FilingStatus = "filed"

	// FilingDeclared means the candidate publicly declared.
	FilingDeclared FilingStatus = "declared"

	// FilingRumored means the candidacy is only reported.
	FilingRumored FilingStatus = "rumored"

	// FilingUnknown means no status was observed.
	FilingUnknown FilingStatus = ""
)

// Rank returns the advancement order of the status; higher is more advanced.
func (s FilingStatus) Rank() int {
	switch s {
	case FilingCertified:
		return 4
	case FilingFiled:
		return 3
	case FilingDeclared:
		return 2
	case FilingRumored:
		return 1
	default:
		return 0
	}
}

// String returns the string representation.
func (s FilingStatus) String() string {
	return string(s)
}

// Label returns the status for display, using "unknown" for the zero value.
func (s FilingStatus) Label() string {
	if s == FilingUnknown {
		return "unknown"
	}
	return string(s)
}

// ParseFilingStatus maps a status keyword to a FilingStatus.
// Unrecognised text yields FilingUnknown.
func ParseFilingStatus(text string) FilingStatus {
	switch FilingStatus(strings.ToLower(strings.TrimSpace(text))) {
	case FilingCertified:
		return FilingCertified
	case FilingFiled:
		return FilingFiled
	case FilingDeclared:
		return FilingDeclared
	case FilingRumored:
		return FilingRumored
	default:
		return FilingUnknown
	}
}

// MostAdvanced returns whichever of a and b is further along.
// Ties return a.
func MostAdvanced(a, b FilingStatus) FilingStatus {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
