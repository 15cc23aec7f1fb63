package validation

import (
	"testing"

	"brreg-lookup/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		valid     bool
		badFields []string
	}{
		{
			name: "full primary entity",
			document: `{
				"organisasjonsnummer": "923609016",
				"navn": "EQUINOR ASA",
				"organisasjonsform": {"kode": "ASA", "beskrivelse": "Allmennaksjeselskap"},
				"naeringskode1": {"kode": "06.100", "beskrivelse": "Utvinning av råolje"},
				"forretningsadresse": {"adresse": ["Forusbeen 50"], "postnummer": "4035", "poststed": "STAVANGER", "kommune": "STAVANGER", "land": "Norge"}
			}`,
			valid: true,
		},
		{
			name:     "sub entity with null address lines",
			document: `{"organisasjonsnummer": "973152351", "navn": "EQUINOR ASA AVD HARSTAD", "overordnetEnhet": "923609016", "beliggenhetsadresse": {"adresse": [null], "postnummer": null}}`,
			valid:    true,
		},
		{
			name:     "missing name",
			document: `{"organisasjonsnummer": "923609016"}`,
			valid:    false,
		},
		{
			name:      "short organization number",
			document:  `{"organisasjonsnummer": "92360901", "navn": "X"}`,
			valid:     false,
			badFields: []string{"organisasjonsnummer"},
		},
		{
			name:      "numeric name",
			document:  `{"organisasjonsnummer": "923609016", "navn": 42}`,
			valid:     false,
			badFields: []string{"navn"},
		},
		{
			name:      "not json",
			document:  `<html>`,
			valid:     false,
			badFields: []string{"(root)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEntity([]byte(tt.document))
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			for _, field := range tt.badFields {
				assert.True(t, result.HasErrors(field), "expected error on %s, got %v", field, result.GetErrorMessages())
			}
		})
	}
}

func TestValidateOrgNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"923609016", "923609016", true},
		{"  923609016\n", "923609016", true},
		{"92360901", "", false},
		{"9236090166", "", false},
		{"92360901A", "", false},
		{"923 609 016", "", false},
		{"９２３６０９０１６", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateOrgNumber(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  Fjordkraft ", 3)
	require.NoError(t, err)
	assert.Equal(t, "Fjordkraft", got)

	got, err = ValidateName("ØYA", 3)
	require.NoError(t, err)
	assert.Equal(t, "ØYA", got)

	_, err = ValidateName(" AS ", 3)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery))
	assert.Contains(t, err.Error(), "at least 3 characters")
}
