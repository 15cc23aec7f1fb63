// internal/workers/organization/collect-candidates/handler.go
package collectcandidates

import (
	"context"
	stderrors "errors"
	"fmt"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "collect-candidates"

	allSources = "enheter+underenheter"
)

type Handler struct {
	config   *Config
	primary  Source
	sub      Source
	logger   logger.Logger
	tracer   trace.Tracer
	recorder Recorder
}

type Option func(*Handler)

func WithTracer(tracer trace.Tracer) Option {
	return func(h *Handler) { h.tracer = tracer }
}

func WithRecorder(recorder Recorder) Option {
	return func(h *Handler) { h.recorder = recorder }
}

func NewHandler(config *Config, primary, sub Source, log logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		config:  config,
		primary: primary,
		sub:     sub,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		tracer:  otel.Tracer("brreg-lookup/" + TaskType),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CollectByNumber looks the number up in the primary source and falls back
// to the sub source. The record keeps the kind of the source that found it.
// It fails with TRANSPORT_ERROR when both sources failed to answer and with
// NOT_FOUND otherwise.
func (h *Handler) CollectByNumber(ctx context.Context, orgNumber string) (*NumberResult, error) {
	var (
		warnings []models.Warning
		failures []error
	)

	for _, src := range []Source{h.primary, h.sub} {
		h.logger.Info("checking "+src.Kind().Collection(), map[string]interface{}{
			"orgNumber": orgNumber,
		})

		candidate, err := h.lookup(ctx, src, orgNumber)
		if err == nil {
			h.record(ctx, src, 1)
			return &NumberResult{Candidate: *candidate, Warnings: warnings}, nil
		}
		if errors.IsNotFound(err) {
			h.logger.Debug("not found in source", map[string]interface{}{
				"source":    src.Kind().Collection(),
				"orgNumber": orgNumber,
			})
			continue
		}

		failures = append(failures, err)
		warnings = append(warnings, h.warn(ctx, src, err))
	}

	if len(failures) == 2 {
		return nil, errors.NewTransportError(allSources, stderrors.Join(failures...)).
			WithMetadata("orgNumber", orgNumber)
	}
	return nil, errors.NewNotFoundError(allSources, orgNumber)
}

// CollectByName queries both sources, primary first. A failing source adds
// a warning and contributes no candidates; the call itself never fails.
func (h *Handler) CollectByName(ctx context.Context, name string) *NameResult {
	result := &NameResult{}

	for _, src := range []Source{h.primary, h.sub} {
		h.logger.Info("searching "+src.Kind().Collection(), map[string]interface{}{
			"name": name,
		})

		candidates, err := h.search(ctx, src, name)
		if err != nil {
			result.Warnings = append(result.Warnings, h.warn(ctx, src, err))
			continue
		}
		h.record(ctx, src, len(candidates))

		switch src.Kind() {
		case models.EntityKindPrimary:
			result.Primary = candidates
		default:
			result.Sub = candidates
		}
	}

	return result
}

func (h *Handler) lookup(ctx context.Context, src Source, orgNumber string) (*models.Candidate, error) {
	ctx, cancel := h.sourceContext(ctx)
	defer cancel()

	ctx, span := h.tracer.Start(ctx, "lookup "+src.Kind().Collection(), trace.WithAttributes(
		attribute.String("brreg.source", src.Kind().Collection()),
		attribute.String("brreg.org_number", orgNumber),
	))
	defer span.End()

	candidate, err := src.LookupByNumber(ctx, orgNumber)
	if err != nil && !errors.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Bool("brreg.found", err == nil))
	return candidate, err
}

func (h *Handler) search(ctx context.Context, src Source, name string) ([]models.Candidate, error) {
	ctx, cancel := h.sourceContext(ctx)
	defer cancel()

	ctx, span := h.tracer.Start(ctx, "search "+src.Kind().Collection(), trace.WithAttributes(
		attribute.String("brreg.source", src.Kind().Collection()),
		attribute.String("brreg.name", name),
	))
	defer span.End()

	candidates, err := src.SearchByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("brreg.candidates", len(candidates)))
	return candidates, nil
}

func (h *Handler) sourceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config != nil && h.config.SourceTimeout > 0 {
		return context.WithTimeout(ctx, h.config.SourceTimeout)
	}
	return ctx, func() {}
}

func (h *Handler) warn(ctx context.Context, src Source, err error) models.Warning {
	stdErr := errors.Normalize(err)
	warning := models.Warning{
		Source:  src.Kind(),
		Code:    string(stdErr.Code),
		Message: fmt.Sprintf("error checking %s: %s", src.Kind().Collection(), stdErr.Error()),
	}

	h.logger.WithError(err).Warn("source failed, continuing without it", map[string]interface{}{
		"source":    src.Kind().Collection(),
		"errorCode": warning.Code,
	})
	if h.recorder != nil {
		h.recorder.RecordWarning(ctx, src.Kind().Collection(), warning.Code)
	}
	return warning
}

func (h *Handler) record(ctx context.Context, src Source, count int) {
	if h.recorder != nil {
		h.recorder.RecordCandidates(ctx, src.Kind().Collection(), count)
	}
}
