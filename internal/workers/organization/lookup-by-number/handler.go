// internal/workers/organization/lookup-by-number/handler.go
package lookupbynumber

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/common/metrics"
	"brreg-lookup/internal/common/validation"
)

const (
	TaskType = "lookup-by-number"
)

var (
	ErrNilInput = stderrors.New("input cannot be nil")
)

type Handler struct {
	config    *Config
	collector Collector
	logger    logger.Logger
	recorder  Recorder
}

type Option func(*Handler)

func WithRecorder(recorder Recorder) Option {
	return func(h *Handler) { h.recorder = recorder }
}

func NewHandler(config *Config, collector Collector, log logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		config:    config,
		collector: collector,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates the organization number and resolves it, primary
// entities first. A malformed number fails with INVALID_QUERY before any
// request is made.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()
	metrics.OperationsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.OperationsActive.WithLabelValues(TaskType).Dec()
		h.observe(ctx, start, err)
	}()

	orgNumber, err := validation.ValidateOrgNumber(input.OrgNumber)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	h.logger.Info("looking up organization number", map[string]interface{}{
		"orgNumber": orgNumber,
	})

	result, err := h.collector.CollectByNumber(opCtx, orgNumber)
	if err != nil {
		return nil, err
	}

	h.logger.Info("organization found", map[string]interface{}{
		"orgNumber": orgNumber,
		"kind":      string(result.Candidate.Kind),
		"warnings":  len(result.Warnings),
	})

	return &Output{
		Organization: result.Candidate,
		Warnings:     result.Warnings,
	}, nil
}

func (h *Handler) observe(ctx context.Context, start time.Time, err error) {
	duration := time.Since(start)
	metrics.OperationDuration.WithLabelValues(TaskType).Observe(duration.Seconds())

	status := "success"
	if err != nil {
		code := string(errors.Normalize(err).Code)
		status = strings.ToLower(code)
		metrics.OperationsFailed.WithLabelValues(TaskType, code).Inc()
	} else {
		metrics.OperationsCompleted.WithLabelValues(TaskType).Inc()
	}

	if h.recorder != nil {
		h.recorder.RecordLookup(ctx, TaskType, status, duration)
	}
}
