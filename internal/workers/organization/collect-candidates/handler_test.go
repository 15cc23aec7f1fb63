package collectcandidates

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"brreg-lookup/internal/common/errors"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSource struct {
	kind       models.EntityKind
	records    map[string]models.Candidate
	hits       []models.Candidate
	err        error
	delay      time.Duration
	lookups    int
	searches   int
	lastLookup string
}

func (f *fakeSource) Kind() models.EntityKind { return f.kind }

func (f *fakeSource) LookupByNumber(ctx context.Context, orgNumber string) (*models.Candidate, error) {
	f.lookups++
	f.lastLookup = orgNumber
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.records[orgNumber]
	if !ok {
		return nil, errors.NewNotFoundError(f.kind.Collection(), orgNumber)
	}
	return &c, nil
}

func (f *fakeSource) SearchByName(ctx context.Context, name string) ([]models.Candidate, error) {
	f.searches++
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeSource) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return errors.NewSourceTimeoutError(f.kind.Collection(), ctx.Err())
	case <-time.After(f.delay):
		return nil
	}
}

type countingRecorder struct {
	candidates map[string]int
	warnings   map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{candidates: map[string]int{}, warnings: map[string]int{}}
}

func (r *countingRecorder) RecordCandidates(_ context.Context, source string, count int) {
	r.candidates[source] += count
}

func (r *countingRecorder) RecordWarning(_ context.Context, source, code string) {
	r.warnings[source+"/"+code]++
}

func candidate(orgNumber, name string, kind models.EntityKind) models.Candidate {
	return models.Candidate{OrgNumber: orgNumber, Name: name, Kind: kind}
}

func newSources() (*fakeSource, *fakeSource) {
	return &fakeSource{kind: models.EntityKindPrimary, records: map[string]models.Candidate{}},
		&fakeSource{kind: models.EntityKindSub, records: map[string]models.Candidate{}}
}

// ==========================
// Lookup by number
// ==========================

func TestCollectByNumber_FoundInPrimary(t *testing.T) {
	primary, sub := newSources()
	primary.records["923609016"] = candidate("923609016", "EQUINOR ASA", models.EntityKindPrimary)

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	result, err := h.CollectByNumber(context.Background(), "923609016")

	require.NoError(t, err)
	assert.Equal(t, models.EntityKindPrimary, result.Candidate.Kind)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 0, sub.lookups, "sub source must not be queried after a primary hit")
}

func TestCollectByNumber_FallsBackToSub(t *testing.T) {
	primary, sub := newSources()
	sub.records["923609016"] = candidate("923609016", "FJORDKRAFT AS AVD SORTLAND", models.EntityKindSub)

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	result, err := h.CollectByNumber(context.Background(), "923609016")

	require.NoError(t, err)
	assert.Equal(t, models.EntityKindSub, result.Candidate.Kind)
	assert.Equal(t, "923609016", sub.lastLookup)
	assert.Empty(t, result.Warnings)
}

func TestCollectByNumber_PrimaryFailsSubFinds(t *testing.T) {
	primary, sub := newSources()
	primary.err = errors.NewTransportError("enheter", stderrors.New("connection refused"))
	sub.records["973152351"] = candidate("973152351", "EQUINOR ASA AVD HARSTAD", models.EntityKindSub)
	recorder := newCountingRecorder()

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t), WithRecorder(recorder))
	result, err := h.CollectByNumber(context.Background(), "973152351")

	require.NoError(t, err)
	assert.Equal(t, models.EntityKindSub, result.Candidate.Kind)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.EntityKindPrimary, result.Warnings[0].Source)
	assert.Equal(t, "TRANSPORT_ERROR", result.Warnings[0].Code)
	assert.Equal(t, 1, recorder.warnings["enheter/TRANSPORT_ERROR"])
	assert.Equal(t, 1, recorder.candidates["underenheter"])
}

func TestCollectByNumber_NotFound(t *testing.T) {
	primary, sub := newSources()

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	result, err := h.CollectByNumber(context.Background(), "111111111")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, primary.lookups)
	assert.Equal(t, 1, sub.lookups)
}

func TestCollectByNumber_OneFailureOneMissIsNotFound(t *testing.T) {
	primary, sub := newSources()
	sub.err = errors.NewSourceTimeoutError("underenheter", context.DeadlineExceeded)

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	_, err := h.CollectByNumber(context.Background(), "111111111")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCollectByNumber_BothUnreachable(t *testing.T) {
	primary, sub := newSources()
	primary.err = errors.NewTransportError("enheter", stderrors.New("connection refused"))
	sub.err = errors.NewSourceTimeoutError("underenheter", context.DeadlineExceeded)

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	_, err := h.CollectByNumber(context.Background(), "923609016")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransport))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCollectByNumber_SourceTimeout(t *testing.T) {
	primary, sub := newSources()
	primary.delay = time.Second
	sub.records["923609016"] = candidate("923609016", "SLOW BUT FOUND", models.EntityKindSub)

	h := NewHandler(&Config{SourceTimeout: 20 * time.Millisecond}, primary, sub, logger.NewTestLogger(t))
	result, err := h.CollectByNumber(context.Background(), "923609016")

	require.NoError(t, err)
	assert.Equal(t, models.EntityKindSub, result.Candidate.Kind)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "SOURCE_TIMEOUT", result.Warnings[0].Code)
}

// ==========================
// Search by name
// ==========================

func TestCollectByName_BothSources(t *testing.T) {
	primary, sub := newSources()
	primary.hits = []models.Candidate{
		candidate("976944801", "FJORDKRAFT AS", models.EntityKindPrimary),
	}
	sub.hits = []models.Candidate{
		candidate("912345678", "FJORDKRAFT AS AVD SORTLAND", models.EntityKindSub),
		candidate("987654321", "FJORDKRAFT AS AVD BERGEN", models.EntityKindSub),
	}
	recorder := newCountingRecorder()

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t), WithRecorder(recorder))
	result := h.CollectByName(context.Background(), "FJORDKRAFT AS")

	assert.Len(t, result.Primary, 1)
	assert.Len(t, result.Sub, 2)
	assert.Equal(t, "912345678", result.Sub[0].OrgNumber)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 1, recorder.candidates["enheter"])
	assert.Equal(t, 2, recorder.candidates["underenheter"])
}

func TestCollectByName_OneSourceFails(t *testing.T) {
	primary, sub := newSources()
	primary.err = errors.NewStatusError("enheter", 503)
	sub.hits = []models.Candidate{candidate("912345678", "FJORDKRAFT AS AVD SORTLAND", models.EntityKindSub)}

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	result := h.CollectByName(context.Background(), "FJORDKRAFT")

	assert.Empty(t, result.Primary)
	assert.Len(t, result.Sub, 1)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.EntityKindPrimary, result.Warnings[0].Source)
	assert.Contains(t, result.Warnings[0].Message, "error checking enheter")
}

func TestCollectByName_BothSourcesFail(t *testing.T) {
	primary, sub := newSources()
	primary.err = errors.NewTransportError("enheter", stderrors.New("no route to host"))
	sub.err = errors.NewTransportError("underenheter", stderrors.New("no route to host"))

	h := NewHandler(LoadConfig(), primary, sub, logger.NewTestLogger(t))
	result := h.CollectByName(context.Background(), "FJORDKRAFT")

	assert.Empty(t, result.Primary)
	assert.Empty(t, result.Sub)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, models.EntityKindPrimary, result.Warnings[0].Source)
	assert.Equal(t, models.EntityKindSub, result.Warnings[1].Source)
	assert.Equal(t, 1, primary.searches)
	assert.Equal(t, 1, sub.searches)
}

func TestCollectByName_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	primary, sub := newSources()
	sub.err = errors.NewTransportError("underenheter", stderrors.New("reset by peer"))

	h := NewHandler(LoadConfig(), primary, sub, logger.NewNoOpLogger(), WithTracer(provider.Tracer("test")))
	h.CollectByName(context.Background(), "EQUINOR")

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "search enheter", spans[0].Name())
	assert.Equal(t, "search underenheter", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}
