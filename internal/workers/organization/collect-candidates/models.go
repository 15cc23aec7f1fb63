// internal/workers/organization/collect-candidates/models.go
package collectcandidates

import (
	"context"

	"brreg-lookup/internal/models"
)

// Source is one register collection.
type Source interface {
	Kind() models.EntityKind
	LookupByNumber(ctx context.Context, orgNumber string) (*models.Candidate, error)
	SearchByName(ctx context.Context, name string) ([]models.Candidate, error)
}

// Recorder receives per-source counters. *observability.Observability
// satisfies it.
type Recorder interface {
	RecordCandidates(ctx context.Context, source string, count int)
	RecordWarning(ctx context.Context, source, code string)
}

type NumberResult struct {
	Candidate models.Candidate `json:"candidate"`
	Warnings  []models.Warning `json:"warnings,omitempty"`
}

// NameResult keeps the candidates of each source in the order received.
type NameResult struct {
	Primary  []models.Candidate `json:"primary"`
	Sub      []models.Candidate `json:"sub"`
	Warnings []models.Warning   `json:"warnings,omitempty"`
}
