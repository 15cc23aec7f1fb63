// internal/models/organization.go
package models

import "strings"

// EntityKind is the register collection a record came from.
type EntityKind string

const (
	EntityKindPrimary EntityKind = "hovedenhet"
	EntityKindSub     EntityKind = "underenhet"
)

// Collection returns the API collection name for the kind.
func (k EntityKind) Collection() string {
	switch k {
	case EntityKindPrimary:
		return "enheter"
	case EntityKindSub:
		return "underenheter"
	default:
		return ""
	}
}

// Label returns the display label, e.g. "Hovedenhet".
func (k EntityKind) Label() string {
	switch k {
	case EntityKindPrimary:
		return "Hovedenhet"
	case EntityKindSub:
		return "Underenhet"
	default:
		return string(k)
	}
}

func (k EntityKind) Valid() bool {
	return k == EntityKindPrimary || k == EntityKindSub
}

const AddressUnavailable = "Adresse ikke tilgjengelig"

type Address struct {
	Lines        []string `json:"lines,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	City         string   `json:"city,omitempty"`
	Municipality string   `json:"municipality,omitempty"`
	Country      string   `json:"country,omitempty"`
}

// IsEmpty reports whether the address has neither street lines nor a postal code.
func (a Address) IsEmpty() bool {
	for _, line := range a.Lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return a.PostalCode == ""
}

// Format renders "line1, line2, 0150 OSLO". The city is only printed
// together with a postal code.
func (a Address) Format() string {
	parts := make([]string, 0, len(a.Lines)+1)
	for _, line := range a.Lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if a.PostalCode != "" {
		postal := a.PostalCode
		if a.City != "" {
			postal += " " + a.City
		}
		parts = append(parts, postal)
	}
	if len(parts) == 0 {
		return AddressUnavailable
	}
	return strings.Join(parts, ", ")
}

type Code struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Candidate is one organization record returned by a source.
type Candidate struct {
	OrgNumber        string     `json:"orgNumber"`
	Name             string     `json:"name"`
	Kind             EntityKind `json:"kind"`
	BusinessAddress  *Address   `json:"businessAddress,omitempty"`
	PostalAddress    *Address   `json:"postalAddress,omitempty"`
	LocationAddress  *Address   `json:"locationAddress,omitempty"`
	OrganizationForm *Code      `json:"organizationForm,omitempty"`
	IndustryCode     *Code      `json:"industryCode,omitempty"`
	ParentOrgNumber  string     `json:"parentOrgNumber,omitempty"`
}

// PrimaryAddress prefers the business address, then the location address
// of a sub-entity, then the postal address.
func (c Candidate) PrimaryAddress() Address {
	for _, addr := range []*Address{c.BusinessAddress, c.LocationAddress, c.PostalAddress} {
		if addr != nil && !addr.IsEmpty() {
			return *addr
		}
	}
	return Address{}
}

type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
}

// RankedResultSet is ordered by score descending, ties in discovery order.
type RankedResultSet struct {
	Query   string            `json:"query"`
	Results []ScoredCandidate `json:"results"`
}

func (r *RankedResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}

// Warning is a non-fatal failure of one source.
type Warning struct {
	Source  EntityKind `json:"source"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}
