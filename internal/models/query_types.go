// internal/models/query_types.go
package models

// QueryType tells the two request variants apart.
type QueryType string

const (
	QueryTypeOrgNumber QueryType = "org_number"
	QueryTypeName      QueryType = "name"
)
