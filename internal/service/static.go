package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/vzahanych/weather-probability-api/internal/config"
)

const StaticProviderType = "static"

var defaultClimateTable = map[string]MonthlyClimate{
	"January":   {Temp: "10°C", Rainfall: "20mm"},
	"September": {Temp: "25°C", Rainfall: "50mm"},
}

// PlaceholderEstimate ignores its inputs and returns fixed probabilities.
// It stands in until a real climate data source is wired up.
func PlaceholderEstimate(_ context.Context, _, _ float64, _ string) (Probabilities, error) {
	return Probabilities{
		VeryHot:           "10%",
		VeryCold:          "5%",
		VeryWindy:         "20%",
		VeryWet:           "40%",
		VeryUncomfortable: "15%",
	}, nil
}

// StaticProvider serves monthly climate from an in-memory table and
// delegates probability estimates to an EstimateFunc.
type StaticProvider struct {
	climate  map[string]MonthlyClimate
	estimate EstimateFunc
}

type StaticOption func(*StaticProvider)

// WithEstimator replaces the placeholder probability estimate.
func WithEstimator(fn EstimateFunc) StaticOption {
	return func(p *StaticProvider) {
		if fn != nil {
			p.estimate = fn
		}
	}
}

// WithClimateTable replaces the built-in month table. The map is copied.
func WithClimateTable(table map[string]MonthlyClimate) StaticOption {
	return func(p *StaticProvider) {
		p.climate = maps.Clone(table)
	}
}

func NewStaticProvider(opts ...StaticOption) *StaticProvider {
	p := &StaticProvider{
		climate:  maps.Clone(defaultClimateTable),
		estimate: PlaceholderEstimate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *StaticProvider) Name() string {
	return StaticProviderType
}

func (p *StaticProvider) MonthlyClimate(_ context.Context, month string) (MonthlyClimate, bool, error) {
	data, ok := p.climate[month]
	return data, ok, nil
}

func (p *StaticProvider) EstimateProbabilities(ctx context.Context, lat, lon float64, date string) (Probabilities, error) {
	return p.estimate(ctx, lat, lon, date)
}

// New builds the provider selected by cfg.Type.
func New(cfg config.ProviderConfig) (WeatherProvider, error) {
	switch cfg.Type {
	case StaticProviderType:
		return NewStaticProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderType, cfg.Type)
	}
}
