// internal/workers/organization/search-by-name/handler.go
package searchbyname

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/common/metrics"
	"brreg-lookup/internal/common/validation"
	applyrelevanceranking "brreg-lookup/internal/workers/organization/apply-relevance-ranking"
)

const (
	TaskType = "search-by-name"
)

var (
	ErrNilInput = stderrors.New("input cannot be nil")
)

type Handler struct {
	config    *Config
	collector Collector
	ranker    Ranker
	logger    logger.Logger
	recorder  Recorder
}

type Option func(*Handler)

func WithRecorder(recorder Recorder) Option {
	return func(h *Handler) { h.recorder = recorder }
}

func NewHandler(config *Config, collector Collector, ranker Ranker, log logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		config:    config,
		collector: collector,
		ranker:    ranker,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute searches both sources for the name and ranks the merged
// candidates. Source failures become warnings; only an invalid name or a
// ranking failure is returned as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()
	metrics.OperationsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.OperationsActive.WithLabelValues(TaskType).Dec()
		h.observe(ctx, start, output, err)
	}()

	name, err := validation.ValidateName(input.Name, h.config.MinNameLength)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	h.logger.Info("searching for organizations", map[string]interface{}{
		"name": name,
	})

	collected := h.collector.CollectByName(opCtx, name)

	ranked, err := h.ranker.Execute(opCtx, &applyrelevanceranking.Input{
		Query:   name,
		Primary: collected.Primary,
		Sub:     collected.Sub,
	})
	if err != nil {
		return nil, errors.Normalize(fmt.Errorf("rank candidates: %w", err))
	}

	h.logger.Info("search completed", map[string]interface{}{
		"name":     name,
		"results":  ranked.Results.Len(),
		"warnings": len(collected.Warnings),
	})

	return &Output{
		Results:  ranked.Results,
		Warnings: collected.Warnings,
	}, nil
}

func (h *Handler) observe(ctx context.Context, start time.Time, output *Output, err error) {
	duration := time.Since(start)
	metrics.OperationDuration.WithLabelValues(TaskType).Observe(duration.Seconds())

	var status string
	switch {
	case err != nil:
		code := string(errors.Normalize(err).Code)
		status = strings.ToLower(code)
		metrics.OperationsFailed.WithLabelValues(TaskType, code).Inc()
	case output.Results.Len() == 0:
		status = "empty"
		metrics.OperationsCompleted.WithLabelValues(TaskType).Inc()
	default:
		status = "success"
		metrics.OperationsCompleted.WithLabelValues(TaskType).Inc()
	}

	if h.recorder != nil {
		h.recorder.RecordLookup(ctx, TaskType, status, duration)
	}
}
