// internal/workers/organization/apply-relevance-ranking/models.go
package applyrelevanceranking

import "brreg-lookup/internal/models"

// Input carries the original query and the candidates of each source in
// the order the sources returned them.
type Input struct {
	Query   string             `json:"query"`
	Primary []models.Candidate `json:"primary"`
	Sub     []models.Candidate `json:"sub"`
}

type Output struct {
	Results *models.RankedResultSet `json:"results"`
}
