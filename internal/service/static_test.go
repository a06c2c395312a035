package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-probability-api/internal/config"
)

func TestStaticProvider_MonthlyClimate(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	tests := []struct {
		month string
		want  MonthlyClimate
		found bool
	}{
		{month: "January", want: MonthlyClimate{Temp: "10°C", Rainfall: "20mm"}, found: true},
		{month: "September", want: MonthlyClimate{Temp: "25°C", Rainfall: "50mm"}, found: true},
		{month: "january", found: false},
		{month: "Smarch", found: false},
		{month: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			got, ok, err := p.MonthlyClimate(ctx, tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticProvider_PlaceholderIgnoresInputs(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	first, err := p.EstimateProbabilities(ctx, 12.9, 77.6, "2024-05-01")
	require.NoError(t, err)
	second, err := p.EstimateProbabilities(ctx, -33.9, 151.2, "1999-12-31")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, first.Validate())
	assert.Equal(t, Probabilities{
		"very_hot":           "10%",
		"very_cold":          "5%",
		"very_windy":         "20%",
		"very_wet":           "40%",
		"very_uncomfortable": "15%",
	}, first)
}

func TestStaticProvider_WithEstimator(t *testing.T) {
	var gotLat, gotLon float64
	var gotDate string
	p := NewStaticProvider(WithEstimator(func(_ context.Context, lat, lon float64, date string) (Probabilities, error) {
		gotLat, gotLon, gotDate = lat, lon, date
		return Probabilities{VeryHot: "99%"}, nil
	}))

	res, err := p.EstimateProbabilities(context.Background(), 1.5, -2.5, "2025-01-02")
	require.NoError(t, err)

	assert.Equal(t, 1.5, gotLat)
	assert.Equal(t, -2.5, gotLon)
	assert.Equal(t, "2025-01-02", gotDate)
	assert.Equal(t, "99%", res[VeryHot])
}

func TestStaticProvider_WithClimateTableCopies(t *testing.T) {
	table := map[string]MonthlyClimate{"May": {Temp: "18°C", Rainfall: "30mm"}}
	p := NewStaticProvider(WithClimateTable(table))
	table["June"] = MonthlyClimate{Temp: "21°C"}

	_, ok, _ := p.MonthlyClimate(context.Background(), "May")
	assert.True(t, ok)
	_, ok, _ = p.MonthlyClimate(context.Background(), "June")
	assert.False(t, ok)
	_, ok, _ = p.MonthlyClimate(context.Background(), "January")
	assert.False(t, ok)
}

func TestProbabilities_Validate(t *testing.T) {
	err := Probabilities{VeryHot: "1%", VeryCold: "2%"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteResult))
	assert.Contains(t, err.Error(), "very_uncomfortable, very_wet, very_windy")

	full, _ := PlaceholderEstimate(context.Background(), 0, 0, "")
	full["dusty"] = "3%"
	assert.NoError(t, full.Validate())
	assert.Empty(t, full.Missing())
}

func TestNew(t *testing.T) {
	p, err := New(config.ProviderConfig{Type: "static"})
	require.NoError(t, err)
	assert.Equal(t, "static", p.Name())

	_, err = New(config.ProviderConfig{Type: "nasa-power"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProviderType))
}
