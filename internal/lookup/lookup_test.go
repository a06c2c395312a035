package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-probability-api/internal/service"
	"github.com/vzahanych/weather-probability-api/pkg/logger"
	"github.com/vzahanych/weather-probability-api/pkg/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type recordedLookup struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recordedLookup
}

func (f *fakeRecorder) RecordLookup(operation, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recordedLookup{operation, outcome})
}

type mockProvider struct {
	climateErr error
	estimate   service.EstimateFunc
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) MonthlyClimate(ctx context.Context, month string) (service.MonthlyClimate, bool, error) {
	if m.climateErr != nil {
		return service.MonthlyClimate{}, false, m.climateErr
	}
	return service.NewStaticProvider().MonthlyClimate(ctx, month)
}

func (m *mockProvider) EstimateProbabilities(ctx context.Context, lat, lon float64, date string) (service.Probabilities, error) {
	return m.estimate(ctx, lat, lon, date)
}

func createTestLookup(t *testing.T, provider service.WeatherProvider, timeout time.Duration) (*Lookup, *fakeRecorder) {
	l := New(provider, timeout, zaptest.NewLogger(t), telemetry.NewNoop())
	rec := &fakeRecorder{}
	l.SetMetricsRecorder(rec)
	return l, rec
}

func TestLookup_Monthly(t *testing.T) {
	l, rec := createTestLookup(t, service.NewStaticProvider(), time.Second)

	data, found, err := l.Monthly(context.Background(), "January")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "10°C", data.Temp)
	assert.Equal(t, "20mm", data.Rainfall)

	_, found, err = l.Monthly(context.Background(), "Brumaire")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, []recordedLookup{
		{OperationMonthly, OutcomeFound},
		{OperationMonthly, OutcomeNoData},
	}, rec.records)
}

func TestLookup_MonthlyProviderError(t *testing.T) {
	boom := errors.New("backend down")
	l, rec := createTestLookup(t, &mockProvider{climateErr: boom}, 0)

	_, _, err := l.Monthly(context.Background(), "January")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []recordedLookup{{OperationMonthly, OutcomeError}}, rec.records)
}

func TestLookup_Probabilities(t *testing.T) {
	l, rec := createTestLookup(t, service.NewStaticProvider(), time.Second)

	probs, err := l.Probabilities(context.Background(), 12.9, 77.6, "2024-05-01")
	require.NoError(t, err)
	for _, cond := range service.RequiredConditions {
		assert.Contains(t, probs, cond)
	}
	assert.Equal(t, []recordedLookup{{OperationProbability, OutcomeSuccess}}, rec.records)
}

func TestLookup_ProbabilitiesIncomplete(t *testing.T) {
	provider := &mockProvider{estimate: func(context.Context, float64, float64, string) (service.Probabilities, error) {
		return service.Probabilities{service.VeryHot: "10%"}, nil
	}}
	l, rec := createTestLookup(t, provider, 0)

	_, err := l.Probabilities(context.Background(), 0, 0, "2024-05-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrIncompleteResult)
	assert.Equal(t, []recordedLookup{{OperationProbability, OutcomeError}}, rec.records)
}

func TestLookup_ProbabilitiesTimeout(t *testing.T) {
	provider := &mockProvider{estimate: func(ctx context.Context, _, _ float64, _ string) (service.Probabilities, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	l, _ := createTestLookup(t, provider, 20*time.Millisecond)

	start := time.Now()
	_, err := l.Probabilities(context.Background(), 0, 0, "2024-05-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLookup_NoTimeoutWhenZero(t *testing.T) {
	provider := &mockProvider{estimate: func(ctx context.Context, _, _ float64, _ string) (service.Probabilities, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return service.PlaceholderEstimate(ctx, 0, 0, "")
	}}
	l, _ := createTestLookup(t, provider, 0)

	_, err := l.Probabilities(context.Background(), 0, 0, "2024-05-01")
	require.NoError(t, err)
}

func TestLookup_LogsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(service.NewStaticProvider(), 0, zap.New(core), telemetry.NewNoop())

	ctx := logger.ContextWithRequestID(context.Background(), "req-7")
	_, err := l.Probabilities(ctx, 1, 2, "2024-05-01")
	require.NoError(t, err)

	entries := logs.FilterMessage("Probability estimate completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}

func TestLookup_WithoutRecorder(t *testing.T) {
	l := New(service.NewStaticProvider(), 0, zaptest.NewLogger(t), nil)

	assert.NotPanics(t, func() {
		_, _, _ = l.Monthly(context.Background(), "September")
	})
	assert.Equal(t, "static", l.ProviderName())
}
