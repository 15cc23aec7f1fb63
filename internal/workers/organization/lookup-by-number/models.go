// internal/workers/organization/lookup-by-number/models.go
package lookupbynumber

import (
	"context"
	"time"

	"brreg-lookup/internal/models"
	collectcandidates "brreg-lookup/internal/workers/organization/collect-candidates"
)

type Input struct {
	OrgNumber string `json:"orgNumber"`
}

type Output struct {
	Organization models.Candidate `json:"organization"`
	Warnings     []models.Warning `json:"warnings,omitempty"`
}

// Collector resolves a number against the register with fallback.
type Collector interface {
	CollectByNumber(ctx context.Context, orgNumber string) (*collectcandidates.NumberResult, error)
}

// Recorder receives the outcome of every lookup.
type Recorder interface {
	RecordLookup(ctx context.Context, operation, status string, duration time.Duration)
}
