package brreg

import (
	"encoding/json"

	"brreg-lookup/internal/models"
)

// entityDocument is the subset of an enheter/underenheter record we read.
type entityDocument struct {
	OrgNumber        string           `json:"organisasjonsnummer"`
	Name             string           `json:"navn"`
	OrganizationForm *codeDocument    `json:"organisasjonsform"`
	IndustryCode     *codeDocument    `json:"naeringskode1"`
	BusinessAddress  *addressDocument `json:"forretningsadresse"`
	PostalAddress    *addressDocument `json:"postadresse"`
	LocationAddress  *addressDocument `json:"beliggenhetsadresse"`
	ParentOrgNumber  string           `json:"overordnetEnhet"`
}

type codeDocument struct {
	Code        string `json:"kode"`
	Description string `json:"beskrivelse"`
}

type addressDocument struct {
	Lines        []string `json:"adresse"`
	PostalCode   string   `json:"postnummer"`
	City         string   `json:"poststed"`
	Municipality string   `json:"kommune"`
	Country      string   `json:"land"`
}

// searchPage is a HAL search response. _embedded is absent when nothing matched.
type searchPage struct {
	Embedded map[string][]json.RawMessage `json:"_embedded"`
	Page     *pageInfo                    `json:"page"`
}

type pageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

func (d *entityDocument) toCandidate(kind models.EntityKind) models.Candidate {
	return models.Candidate{
		OrgNumber:        d.OrgNumber,
		Name:             d.Name,
		Kind:             kind,
		BusinessAddress:  d.BusinessAddress.toAddress(),
		PostalAddress:    d.PostalAddress.toAddress(),
		LocationAddress:  d.LocationAddress.toAddress(),
		OrganizationForm: d.OrganizationForm.toCode(),
		IndustryCode:     d.IndustryCode.toCode(),
		ParentOrgNumber:  d.ParentOrgNumber,
	}
}

func (a *addressDocument) toAddress() *models.Address {
	if a == nil {
		return nil
	}
	lines := make([]string, 0, len(a.Lines))
	for _, line := range a.Lines {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return &models.Address{
		Lines:        lines,
		PostalCode:   a.PostalCode,
		City:         a.City,
		Municipality: a.Municipality,
		Country:      a.Country,
	}
}

func (c *codeDocument) toCode() *models.Code {
	if c == nil || (c.Code == "" && c.Description == "") {
		return nil
	}
	return &models.Code{Code: c.Code, Description: c.Description}
}
