// internal/workers/organization/render-result/handler.go
package renderresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/models"
)

const (
	TaskType = "render-result"

	ExactMatchThreshold    = 0.95
	HighRelevanceThreshold = 0.8
	GoodMatchThreshold     = 0.6
)

var (
	ErrNilInput = stderrors.New("input cannot be nil")

	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 50)
)

type Handler struct {
	config *Config
	out    io.Writer
}

func NewHandler(config *Config, out io.Writer) *Handler {
	return &Handler{config: config, out: out}
}

// Execute writes the outcome in the configured format.
func (h *Handler) Execute(_ context.Context, input *Input) error {
	if input == nil {
		return ErrNilInput
	}
	if h.config.Format == FormatJSON {
		return h.renderJSON(input)
	}
	return h.renderText(input)
}

// Indicator labels a relevance score.
func Indicator(score float64) string {
	switch {
	case score >= ExactMatchThreshold:
		return "🎯 EXACT MATCH"
	case score >= HighRelevanceThreshold:
		return "⭐ HIGH RELEVANCE"
	case score >= GoodMatchThreshold:
		return "📍 GOOD MATCH"
	default:
		return ""
	}
}

func (h *Handler) renderJSON(input *Input) error {
	doc := document{
		RunID:        input.RunID,
		Version:      h.config.Version,
		QueryType:    input.QueryType,
		Query:        input.Query,
		Organization: input.Organization,
		Warnings:     input.Warnings,
	}
	if doc.Warnings == nil {
		doc.Warnings = []models.Warning{}
	}
	if input.QueryType == models.QueryTypeName || input.Results != nil {
		results := []models.ScoredCandidate{}
		if input.Results != nil {
			results = append(results, input.Results.Results...)
		}
		doc.Results = &results
	}
	if input.Err != nil {
		stdErr := errors.Normalize(input.Err)
		doc.Error = &errorDocument{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		}
	}

	enc := json.NewEncoder(h.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func (h *Handler) renderText(input *Input) error {
	w := &textWriter{w: h.out}

	w.line(heavyRule)
	w.printf("🏢 BRREG API Lookup Tool v%s\n", h.config.Version)
	w.line(heavyRule)

	switch input.QueryType {
	case models.QueryTypeOrgNumber:
		w.printf("🔍 Looking up organization number: %s\n", input.Query)
	default:
		w.printf("🔍 Searching for organizations matching: '%s'\n", input.Query)
	}
	w.line(lightRule)

	for _, warning := range input.Warnings {
		w.printf("⚠️  %s\n", warning.Message)
	}

	switch {
	case input.Err != nil:
		h.writeFailure(w, input)
		return w.err
	case input.Organization != nil:
		w.line("\n✅ Organization found!")
		writeDetails(w, *input.Organization)
	case input.Results.Len() == 0:
		w.line("❌ No organizations found matching the search criteria")
		w.line("💡 Tip: Try a broader search term or check spelling")
		return w.err
	default:
		h.writeResults(w, input.Results)
	}

	w.line("\n" + heavyRule)
	w.line("✅ Lookup completed successfully")
	return w.err
}

func (h *Handler) writeFailure(w *textWriter, input *Input) {
	stdErr := errors.Normalize(input.Err)
	switch stdErr.Code {
	case errors.ErrCodeNotFound:
		w.line("❌ Organization not found in BRREG registry")
		w.line("💡 Tip: Verify the organization number or try searching by name")
	case errors.ErrCodeInvalidQuery, errors.ErrCodeConfigInvalid:
		w.printf("❌ Error: %s\n", capitalize(stdErr.Details))
	default:
		w.printf("❌ Lookup failed: %s\n", stdErr.Message)
		w.line("💡 Please check your internet connection and try again")
	}
}

func (h *Handler) writeResults(w *textWriter, set *models.RankedResultSet) {
	w.printf("\n✅ Found %d matching organization(s) (sorted by relevance):\n", set.Len())

	for i, r := range set.Results {
		header := fmt.Sprintf("Result %d", i+1)
		if indicator := Indicator(r.Score); indicator != "" {
			header += " " + indicator
		}
		w.printf("\n--- %s ---\n", header)
		writeDetails(w, r.Candidate)

		if i < h.config.ScoresShown || r.Score >= HighRelevanceThreshold {
			w.printf("Relevance Score: %.2f\n", r.Score)
		}
	}

	if set.Len() > 5 {
		w.printf("\n💡 Showing %d results. The most relevant matches are listed first.\n", set.Len())
	}
}

func writeDetails(w *textWriter, c models.Candidate) {
	w.printf("Type: %s\n", c.Kind.Label())
	w.printf("Navn: %s\n", c.Name)
	w.printf("Org.nr: %s\n", c.OrgNumber)
	w.printf("Adresse: %s\n", c.PrimaryAddress().Format())

	if c.OrganizationForm != nil && c.OrganizationForm.Description != "" {
		w.printf("Organisasjonsform: %s\n", c.OrganizationForm.Description)
	}
	if c.IndustryCode != nil && c.IndustryCode.Description != "" {
		w.printf("Næringskode: %s\n", c.IndustryCode.Description)
	}
	if c.ParentOrgNumber != "" {
		w.printf("Overordnet enhet: %s\n", c.ParentOrgNumber)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// textWriter keeps the first write error so rendering reads top to bottom.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) line(s string) {
	t.printf("%s\n", s)
}
