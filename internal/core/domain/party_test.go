package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParty(t *testing.T) {
	tests := []struct {
		input string
		want  Party
	}{
		{"", PartyUnknown},
		{"   ", PartyUnknown},
		{"Democrat", PartyDemocrat},
		{"Democratic Party", PartyDemocrat},
		{"(D)", PartyDemocrat},
		{"dem", PartyDemocrat},
		{"Republican", PartyRepublican},
		{"GOP", PartyRepublican},
		{"(R)", PartyRepublican},
		{"rep", PartyRepublican},
		{"Independent", PartyIndependent},
		{"unaffiliated", PartyIndependent},
		{"(I)", PartyIndependent},
		{"Libertarian", PartyOther},
		{"Green Party", PartyOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParty(tt.input))
		})
	}
}

func TestParty_Label(t *testing.T) {
	assert.Equal(t, "Unknown", PartyUnknown.Label())
	assert.Equal(t, "D", PartyDemocrat.Label())
	assert.False(t, PartyUnknown.IsKnown())
	assert.True(t, PartyOther.IsKnown())
	assert.True(t, PartyUnknown.IsValid())
	assert.False(t, Party("X").IsValid())
}

func TestFilingStatus_Rank(t *testing.T) {
	assert.Greater(t, FilingCertified.Rank(), FilingFiled.Rank())
	assert.Greater(t, FilingFiled.Rank(), FilingDeclared.Rank())
	assert.Greater(t, FilingDeclared.Rank(), FilingRumored.Rank())
	assert.Greater(t, FilingRumored.Rank(), FilingUnknown.Rank())
}

func TestMostAdvanced(t *testing.T) {
	tests := []struct {
		name string
		a, b FilingStatus
		want FilingStatus
	}{
		{"b further", FilingDeclared, FilingFiled, FilingFiled},
		{"a further", FilingCertified, FilingRumored, FilingCertified},
		{"unknown loses", FilingUnknown, FilingRumored, FilingRumored},
		{"tie keeps a", FilingFiled, FilingFiled, FilingFiled},
		{"both unknown", FilingUnknown, FilingUnknown, FilingUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MostAdvanced(tt.a, tt.b))
		})
	}
}

func TestParseFilingStatus(t *testing.T) {
	assert.Equal(t, FilingCertified, ParseFilingStatus("Certified"))
	assert.Equal(t, FilingFiled, ParseFilingStatus(" filed "))
	assert.Equal(t, FilingUnknown, ParseFilingStatus("withdrawn"))
	assert.Equal(t, "unknown", FilingUnknown.Label())
}
