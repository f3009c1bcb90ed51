package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Chamber is a legislative chamber.
type Chamber string

// Supported chambers.
const (
	// ChamberHouse is the lower chamber.
	ChamberHouse Chamber = "House"

	// ChamberSenate is the upper chamber.
	ChamberSenate Chamber = "Senate"
)

// String returns the string representation.
func (c Chamber) String() string {
	return string(c)
}

// ParseChamber maps a chamber token to a Chamber.
// Accepts "House", "Senate", "HD", "SD" and their lowercase forms.
func ParseChamber(token string) (Chamber, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "house", "hd", "state house", "house of representatives":
		return ChamberHouse, true
	case "senate", "sd", "state senate":
		return ChamberSenate, true
	default:
		return "", false
	}
}

// ChamberBounds holds the highest district number for each chamber.
// Bounds are configuration, not constants.
type ChamberBounds map[Chamber]int

// DefaultChamberBounds returns the bounds of the reference deployment.
func DefaultChamberBounds() ChamberBounds {
	return ChamberBounds{
		ChamberHouse:  124,
		ChamberSenate: 46,
	}
}

// Valid returns true if n is a district number inside the chamber's bounds.
func (b ChamberBounds) Valid(chamber Chamber, n int) bool {
	upper, ok := b[chamber]
	return ok && n >= 1 && n <= upper
}

// Chambers returns the configured chambers in a stable order.
func (b ChamberBounds) Chambers() []Chamber {
	chambers := make([]Chamber, 0, len(b))
	for c := range b {
		chambers = append(chambers, c)
	}
	sort.Slice(chambers, func(i, j int) bool { return chambers[i] < chambers[j] })
	return chambers
}

// Total returns the number of districts across the given chambers.
// With no chambers given, every configured chamber counts.
func (b ChamberBounds) Total(chambers ...Chamber) int {
	if len(chambers) == 0 {
		chambers = b.Chambers()
	}
	total := 0
	for _, c := range chambers {
		if n := b[c]; n > 0 {
			total += n
		}
	}
	return total
}

// Enumerate lists every district ID for the state across the given chambers.
// With no chambers given, every configured chamber is enumerated.
func (b ChamberBounds) Enumerate(state string, chambers ...Chamber) []string {
	if len(chambers) == 0 {
		chambers = b.Chambers()
	}
	ids := make([]string, 0, b.Total(chambers...))
	for _, c := range chambers {
		for n := 1; n <= b[c]; n++ {
			ids = append(ids, FormatDistrictID(state, c, n))
		}
	}
	return ids
}

// Validate checks every bound is positive.
func (b ChamberBounds) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no chambers configured", ErrInvalidInput)
	}
	for c, n := range b {
		if n <= 0 {
			return fmt.Errorf("%w: chamber %s has non-positive bound %d", ErrInvalidInput, c, n)
		}
	}
	return nil
}

// District is a parsed district identifier.
type District struct {
	// State is the state code, e.g. "SC".
	State string

	// Chamber is the legislative chamber.
	Chamber Chamber

	// Number is the district number, starting at 1.
	Number int
}

// ID returns the canonical identifier.
func (d District) ID() string {
	return FormatDistrictID(d.State, d.Chamber, d.Number)
}

// FormatDistrictID builds a canonical identifier such as "SC-House-042".
func FormatDistrictID(state string, chamber Chamber, n int) string {
	return fmt.Sprintf("%s-%s-%03d", strings.ToUpper(state), chamber, n)
}

// ParseDistrictID splits an identifier into its parts. It accepts loose
// forms such as "sc-hd-7"; District.ID returns the canonical spelling.
func ParseDistrictID(id string) (District, error) {
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) != 3 || parts[0] == "" {
		return District{}, fmt.Errorf("%w: district id %q", ErrInvalidInput, id)
	}
	chamber, ok := ParseChamber(parts[1])
	if !ok {
		return District{}, fmt.Errorf("%w: unknown chamber in district id %q", ErrInvalidInput, id)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return District{}, fmt.Errorf("%w: bad district number in %q", ErrInvalidInput, id)
	}
	return District{State: strings.ToUpper(parts[0]), Chamber: chamber, Number: n}, nil
}

// CanonicalDistrictID rewrites an identifier in its stored form,
// e.g. "sc-hd-7" becomes "SC-House-007".
func CanonicalDistrictID(id string) (string, error) {
	d, err := ParseDistrictID(id)
	if err != nil {
		return "", err
	}
	return d.ID(), nil
}

// ValidateDistrictID parses the identifier and checks it against the bounds.
func ValidateDistrictID(id string, bounds ChamberBounds) (District, error) {
	d, err := ParseDistrictID(id)
	if err != nil {
		return District{}, err
	}
	if !bounds.Valid(d.Chamber, d.Number) {
		return District{}, fmt.Errorf("%w: district %s out of range", ErrInvalidInput, id)
	}
	return d, nil
}

// Scope selects the districts an adapter should cover.
type Scope struct {
	// State is the state code.
	State string

	// Chamber is the chamber to cover.
	Chamber Chamber

	// Districts optionally restricts the scope to these numbers.
	// Empty means every district in the chamber.
	Districts []int
}

// Numbers returns the district numbers covered by the scope.
func (s Scope) Numbers(bounds ChamberBounds) []int {
	if len(s.Districts) > 0 {
		out := make([]int, 0, len(s.Districts))
		for _, n := range s.Districts {
			if bounds.Valid(s.Chamber, n) {
				out = append(out, n)
			}
		}
		return out
	}
	upper := bounds[s.Chamber]
	out := make([]int, 0, upper)
	for n := 1; n <= upper; n++ {
		out = append(out, n)
	}
	return out
}

// Contains returns true if the district falls inside the scope.
func (s Scope) Contains(d District) bool {
	if !strings.EqualFold(s.State, d.State) || s.Chamber != d.Chamber {
		return false
	}
	if len(s.Districts) == 0 {
		return true
	}
	for _, n := range s.Districts {
		if n == d.Number {
			return true
		}
	}
	return false
}

// ScopesFor builds one full-chamber scope per configured chamber.
func ScopesFor(state string, bounds ChamberBounds) []Scope {
	chambers := bounds.Chambers()
	scopes := make([]Scope, 0, len(chambers))
	for _, c := range chambers {
		scopes = append(scopes, Scope{State: state, Chamber: c})
	}
	return scopes
}
