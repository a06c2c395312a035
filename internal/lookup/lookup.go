package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/vzahanych/weather-probability-api/internal/service"
	"github.com/vzahanych/weather-probability-api/pkg/logger"
	"github.com/vzahanych/weather-probability-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	OperationMonthly     = "monthly"
	OperationProbability = "probability"

	OutcomeFound   = "found"
	OutcomeNoData  = "no_data"
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// MetricsRecorder interface for recording lookup outcomes
type MetricsRecorder interface {
	RecordLookup(operation, outcome string)
}

// Lookup sits between the HTTP handlers and the weather provider.
type Lookup struct {
	provider service.WeatherProvider
	timeout  time.Duration
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
}

func New(provider service.WeatherProvider, timeout time.Duration, logger *zap.Logger, tele *telemetry.Telemetry) *Lookup {
	logger.Info("Registered weather provider", zap.String("provider", provider.Name()))

	return &Lookup{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		tele:     tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the lookup
func (l *Lookup) SetMetricsRecorder(metrics MetricsRecorder) {
	l.metrics = metrics
}

func (l *Lookup) ProviderName() string {
	return l.provider.Name()
}

// Monthly returns the climate summary for month. found is false when the
// provider has no entry for it.
func (l *Lookup) Monthly(ctx context.Context, month string) (data service.MonthlyClimate, found bool, err error) {
	ctx, span := l.tele.GetTracer().Start(ctx, "lookup.Monthly")
	defer span.End()

	span.SetAttributes(
		attribute.String("month", month),
		attribute.String("provider", l.provider.Name()),
	)

	reqLogger := logger.WithRequestID(ctx, l.logger)

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	data, found, err = l.provider.MonthlyClimate(ctx, month)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		l.tele.RecordError(ctx, err, map[string]interface{}{"month": month})
		l.record(OperationMonthly, OutcomeError)
		reqLogger.Error("Monthly climate lookup failed", zap.String("month", month), zap.Error(err))
		return service.MonthlyClimate{}, false, fmt.Errorf("monthly climate lookup: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("found", found),
	)

	if found {
		l.record(OperationMonthly, OutcomeFound)
	} else {
		l.record(OperationMonthly, OutcomeNoData)
	}

	reqLogger.Debug("Monthly climate lookup completed",
		zap.String("month", month),
		zap.Bool("found", found))

	return data, found, nil
}

// Probabilities asks the provider for an estimate and checks that every
// required condition is present before handing it back.
func (l *Lookup) Probabilities(ctx context.Context, lat, lon float64, date string) (service.Probabilities, error) {
	ctx, span := l.tele.GetTracer().Start(ctx, "lookup.Probabilities")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.String("date", date),
		attribute.String("provider", l.provider.Name()),
	)

	reqLogger := logger.WithRequestID(ctx, l.logger)

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	probs, err := l.provider.EstimateProbabilities(ctx, lat, lon, date)
	if err == nil {
		err = probs.Validate()
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		l.tele.RecordError(ctx, err, map[string]interface{}{"date": date})
		l.record(OperationProbability, OutcomeError)
		reqLogger.Error("Probability estimate failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("date", date),
			zap.Error(err))
		return nil, fmt.Errorf("probability estimate: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("conditions", len(probs)),
	)
	l.record(OperationProbability, OutcomeSuccess)

	reqLogger.Debug("Probability estimate completed",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("date", date),
		zap.Duration("took", time.Since(start)))

	return probs, nil
}

func (l *Lookup) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, l.timeout)
}

func (l *Lookup) record(operation, outcome string) {
	if l.metrics != nil {
		l.metrics.RecordLookup(operation, outcome)
	}
}
