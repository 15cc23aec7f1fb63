package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"brreg-lookup/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// EntitySchema is the minimal shape an enheter/underenheter document must
// have before it is turned into a candidate.
const EntitySchema = `{
  "type": "object",
  "required": ["organisasjonsnummer", "navn"],
  "properties": {
    "organisasjonsnummer": {"type": "string", "pattern": "^[0-9]{9}$"},
    "navn": {"type": "string"},
    "organisasjonsform": {
      "type": "object",
      "properties": {
        "kode": {"type": "string"},
        "beskrivelse": {"type": "string"}
      }
    },
    "naeringskode1": {
      "type": "object",
      "properties": {
        "kode": {"type": "string"},
        "beskrivelse": {"type": "string"}
      }
    },
    "forretningsadresse": {"$ref": "#/definitions/address"},
    "postadresse": {"$ref": "#/definitions/address"},
    "beliggenhetsadresse": {"$ref": "#/definitions/address"},
    "overordnetEnhet": {"type": "string"}
  },
  "definitions": {
    "address": {
      "type": "object",
      "properties": {
        "adresse": {"type": "array", "items": {"type": ["string", "null"]}},
        "postnummer": {"type": ["string", "null"]},
        "poststed": {"type": ["string", "null"]},
        "kommune": {"type": ["string", "null"]},
        "land": {"type": ["string", "null"]}
      }
    }
  }
}`

var (
	entitySchema    = mustSchema(EntitySchema)
	orgNumberFormat = regexp.MustCompile(`^[0-9]{9}$`)
)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateEntity checks a raw JSON entity document against EntitySchema.
func ValidateEntity(document []byte) *ValidationResult {
	result, err := entitySchema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "MALFORMED_DOCUMENT",
			}},
		}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

// ValidateOrgNumber trims the input and requires exactly nine ASCII digits.
func ValidateOrgNumber(orgNumber string) (string, error) {
	trimmed := strings.TrimSpace(orgNumber)
	if !orgNumberFormat.MatchString(trimmed) {
		return "", errors.NewInvalidQueryError("organization number must be exactly 9 digits").
			WithMetadata("orgNumber", orgNumber)
	}
	return trimmed, nil
}

// ValidateName trims the input and requires at least minLength characters.
func ValidateName(name string, minLength int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < minLength {
		return "", errors.NewInvalidQueryError(
			fmt.Sprintf("organization name must be at least %d characters", minLength),
		).WithMetadata("name", name)
	}
	return trimmed, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
