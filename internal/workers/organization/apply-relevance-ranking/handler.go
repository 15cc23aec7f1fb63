// internal/workers/organization/apply-relevance-ranking/handler.go
package applyrelevanceranking

import (
	"context"
	"errors"
	"sort"
	"time"

	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/common/textmatch"
	"brreg-lookup/internal/models"
)

const (
	TaskType = "apply-relevance-ranking"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// ScoreFunc scores a candidate name against the query.
type ScoreFunc func(query, name string) float64

type Handler struct {
	config *Config
	logger logger.Logger
	score  ScoreFunc
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		score:  textmatch.Score,
		now:    time.Now,
	}
}

// Execute scores every candidate against the query and orders them by
// score, highest first. Equal scores keep discovery order, so primary
// entities precede sub-entities and each source keeps its own order.
// Every candidate yields exactly one entry.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := h.now()

	ranked := make([]models.ScoredCandidate, 0, len(input.Primary)+len(input.Sub))
	for _, group := range [][]models.Candidate{input.Primary, input.Sub} {
		for _, c := range group {
			ranked = append(ranked, models.ScoredCandidate{
				Candidate: c,
				Score:     h.score(input.Query, c.Name),
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	duration := h.now().Sub(start)
	h.logger.Info("ranking completed", map[string]interface{}{
		"primaryCount": len(input.Primary),
		"subCount":     len(input.Sub),
		"outputCount":  len(ranked),
		"durationMs":   duration.Milliseconds(),
	})

	if h.config.WarnAfter > 0 && duration > h.config.WarnAfter {
		h.logger.Warn("ranking exceeded threshold", map[string]interface{}{
			"durationMs":  duration.Milliseconds(),
			"thresholdMs": h.config.WarnAfter.Milliseconds(),
		})
	}

	return &Output{
		Results: &models.RankedResultSet{
			Query:   input.Query,
			Results: ranked,
		},
	}, nil
}
