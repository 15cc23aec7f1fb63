// internal/workers/organization/search-by-name/models.go
package searchbyname

import (
	"context"
	"time"

	"brreg-lookup/internal/models"
	applyrelevanceranking "brreg-lookup/internal/workers/organization/apply-relevance-ranking"
	collectcandidates "brreg-lookup/internal/workers/organization/collect-candidates"
)

type Input struct {
	Name string `json:"name"`
}

// Output is the ranked result set plus the warnings of degraded sources.
// An empty set is a valid outcome.
type Output struct {
	Results  *models.RankedResultSet `json:"results"`
	Warnings []models.Warning        `json:"warnings,omitempty"`
}

type Collector interface {
	CollectByName(ctx context.Context, name string) *collectcandidates.NameResult
}

type Ranker interface {
	Execute(ctx context.Context, input *applyrelevanceranking.Input) (*applyrelevanceranking.Output, error)
}

type Recorder interface {
	RecordLookup(ctx context.Context, operation, status string, duration time.Duration)
}
