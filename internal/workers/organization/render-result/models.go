// internal/workers/organization/render-result/models.go
package renderresult

import "brreg-lookup/internal/models"

// Input is everything one invocation produced. Exactly one of Organization
// and Results is set on success; Err is set on failure.
type Input struct {
	RunID        string
	QueryType    models.QueryType
	Query        string
	Organization *models.Candidate
	Results      *models.RankedResultSet
	Warnings     []models.Warning
	Err          error
}

// document is the JSON output shape.
type document struct {
	RunID        string                   `json:"runId"`
	Version      string                   `json:"version"`
	QueryType    models.QueryType         `json:"queryType"`
	Query        string                   `json:"query"`
	Organization *models.Candidate        `json:"organization,omitempty"`
	Results      *[]models.ScoredCandidate `json:"results,omitempty"` // set for name queries, possibly empty
	Warnings     []models.Warning         `json:"warnings"`
	Error        *errorDocument           `json:"error,omitempty"`
}

type errorDocument struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
