package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Conditions every probability estimate must report.
const (
	VeryHot           = "very_hot"
	VeryCold          = "very_cold"
	VeryWindy         = "very_windy"
	VeryWet           = "very_wet"
	VeryUncomfortable = "very_uncomfortable"
)

var RequiredConditions = []string{VeryHot, VeryCold, VeryWindy, VeryWet, VeryUncomfortable}

var (
	ErrIncompleteResult    = errors.New("probability estimate is missing required conditions")
	ErrUnknownProviderType = errors.New("unknown provider type")
)

// WeatherProvider answers weather queries for the HTTP layer. Implementations
// must be safe for concurrent use.
type WeatherProvider interface {
	Name() string

	// MonthlyClimate returns the typical climate for a month. The bool is
	// false when the provider has no data for it; that is not an error.
	MonthlyClimate(ctx context.Context, month string) (MonthlyClimate, bool, error)

	EstimateProbabilities(ctx context.Context, lat, lon float64, date string) (Probabilities, error)
}

// EstimateFunc computes condition probabilities for a location and a
// YYYY-MM-DD date.
type EstimateFunc func(ctx context.Context, lat, lon float64, date string) (Probabilities, error)

type MonthlyClimate struct {
	Temp     string `json:"temp"`
	Rainfall string `json:"rainfall"`
}

// Probabilities maps a condition name to a percentage string such as "40%".
type Probabilities map[string]string

// Validate reports ErrIncompleteResult when any required condition is absent.
func (p Probabilities) Validate() error {
	missing := p.Missing()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrIncompleteResult, strings.Join(missing, ", "))
}

// Missing lists the required conditions p does not carry, sorted.
func (p Probabilities) Missing() []string {
	var missing []string
	for _, cond := range RequiredConditions {
		if _, ok := p[cond]; !ok {
			missing = append(missing, cond)
		}
	}
	sort.Strings(missing)
	return missing
}
