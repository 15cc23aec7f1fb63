package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityKind(t *testing.T) {
	assert.Equal(t, "enheter", EntityKindPrimary.Collection())
	assert.Equal(t, "underenheter", EntityKindSub.Collection())
	assert.Equal(t, "Hovedenhet", EntityKindPrimary.Label())
	assert.Equal(t, "Underenhet", EntityKindSub.Label())
	assert.True(t, EntityKindSub.Valid())
	assert.False(t, EntityKind("filial").Valid())
	assert.Empty(t, EntityKind("filial").Collection())
}

func TestAddress_Format(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{
			name: "lines and postal",
			addr: Address{Lines: []string{"Forusbeen 50"}, PostalCode: "4035", City: "STAVANGER"},
			want: "Forusbeen 50, 4035 STAVANGER",
		},
		{
			name: "blank lines skipped",
			addr: Address{Lines: []string{"  c/o Regnskap AS ", "", "Postboks 12"}, PostalCode: "0101", City: "OSLO"},
			want: "c/o Regnskap AS, Postboks 12, 0101 OSLO",
		},
		{
			name: "postal code without city",
			addr: Address{PostalCode: "8400"},
			want: "8400",
		},
		{
			name: "city without postal code",
			addr: Address{Lines: []string{"Storgata 1"}, City: "SORTLAND"},
			want: "Storgata 1",
		},
		{
			name: "empty",
			addr: Address{Lines: []string{" "}},
			want: AddressUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Format())
		})
	}
}

func TestCandidate_PrimaryAddress(t *testing.T) {
	business := &Address{Lines: []string{"Forretning 1"}, PostalCode: "0150", City: "OSLO"}
	location := &Address{Lines: []string{"Beliggenhet 2"}, PostalCode: "8400", City: "SORTLAND"}
	postal := &Address{Lines: []string{"Postboks 3"}, PostalCode: "0101", City: "OSLO"}

	assert.Equal(t, *business, Candidate{BusinessAddress: business, LocationAddress: location, PostalAddress: postal}.PrimaryAddress())
	assert.Equal(t, *location, Candidate{LocationAddress: location, PostalAddress: postal}.PrimaryAddress())
	assert.Equal(t, *postal, Candidate{BusinessAddress: &Address{}, PostalAddress: postal}.PrimaryAddress())
	assert.Equal(t, AddressUnavailable, Candidate{}.PrimaryAddress().Format())
}

func TestRankedResultSet_Len(t *testing.T) {
	var nilSet *RankedResultSet
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, 2, (&RankedResultSet{Results: make([]ScoredCandidate, 2)}).Len())
}
