// Package brreg reads organization records from the Enhetsregisteret API.
package brreg

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/url"
	"strconv"
	"strings"

	"brreg-lookup/internal/common/errors"
	httpclient "brreg-lookup/internal/common/http"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/common/validation"
	"brreg-lookup/internal/models"
)

// Source is one register collection: enheter or underenheter.
type Source struct {
	kind     models.EntityKind
	client   *httpclient.Client
	pageSize int
	logger   logger.Logger
}

func NewSource(kind models.EntityKind, client *httpclient.Client, pageSize int, log logger.Logger) *Source {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Source{
		kind:     kind,
		client:   client,
		pageSize: pageSize,
		logger:   log.WithFields(map[string]interface{}{"source": kind.Collection()}),
	}
}

// NewSources returns the primary-entity and sub-entity sources sharing one client.
func NewSources(client *httpclient.Client, pageSize int, log logger.Logger) (primary, sub *Source) {
	return NewSource(models.EntityKindPrimary, client, pageSize, log),
		NewSource(models.EntityKindSub, client, pageSize, log)
}

func (s *Source) Kind() models.EntityKind {
	return s.kind
}

// LookupByNumber fetches a single record. A missing or deleted record yields
// a NOT_FOUND StandardError.
func (s *Source) LookupByNumber(ctx context.Context, orgNumber string) (*models.Candidate, error) {
	collection := s.kind.Collection()
	s.logger.Debug("looking up organization number", map[string]interface{}{
		"orgNumber": orgNumber,
	})

	body, err := s.client.Get(ctx, collection, collection+"/"+url.PathEscape(orgNumber), nil)
	if err != nil {
		if stderrors.Is(err, httpclient.ErrNotFound) {
			return nil, errors.NewNotFoundError(collection, orgNumber)
		}
		return nil, err
	}

	if result := validation.ValidateEntity(body); !result.Valid {
		return nil, errors.NewInvalidPayloadError(collection, strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("orgNumber", orgNumber)
	}

	var doc entityDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.NewInvalidPayloadError(collection, err.Error())
	}

	candidate := doc.toCandidate(s.kind)
	return &candidate, nil
}

// SearchByName returns up to pageSize records whose name matches text, in
// the order the register returned them. Records failing validation are
// skipped.
func (s *Source) SearchByName(ctx context.Context, text string) ([]models.Candidate, error) {
	collection := s.kind.Collection()
	query := url.Values{
		"navn": {text},
		"size": {strconv.Itoa(s.pageSize)},
	}

	body, err := s.client.Get(ctx, collection, collection, query)
	if err != nil {
		if stderrors.Is(err, httpclient.ErrNotFound) {
			return nil, errors.NewStatusError(collection, 404)
		}
		return nil, err
	}

	var page searchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, errors.NewInvalidPayloadError(collection, err.Error())
	}

	records := page.Embedded[collection]
	candidates := make([]models.Candidate, 0, len(records))
	for i, raw := range records {
		if result := validation.ValidateEntity(raw); !result.Valid {
			s.logger.Warn("skipping invalid record", map[string]interface{}{
				"index":  i,
				"errors": result.GetErrorMessages(),
			})
			continue
		}
		var doc entityDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.WithError(err).Warn("skipping undecodable record", map[string]interface{}{
				"index": i,
			})
			continue
		}
		candidates = append(candidates, doc.toCandidate(s.kind))
	}

	fields := map[string]interface{}{
		"name":     text,
		"returned": len(candidates),
	}
	if page.Page != nil {
		fields["totalElements"] = page.Page.TotalElements
	}
	s.logger.Debug("search page received", fields)

	return candidates, nil
}
