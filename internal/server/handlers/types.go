package handlers

import (
	"github.com/vzahanych/weather-probability-api/internal/server/utils"
	"github.com/vzahanych/weather-probability-api/internal/service"
)

// NoDataAvailable is returned as the data of a month with no table entry.
const NoDataAvailable = "No data available"

// WeatherRequest is the query of GET /weather. Month is a pointer so an
// empty value is accepted while an absent one is not.
type WeatherRequest struct {
	Month *string `form:"month" json:"month" binding:"required"`
}

// ProbabilityRequest is the query of GET /probability. Coordinates are not
// range-checked and Date is passed to the provider as given.
type ProbabilityRequest struct {
	Lat  *float64 `form:"lat" json:"lat" binding:"required,finite"`
	Lon  *float64 `form:"lon" json:"lon" binding:"required,finite"`
	Date *string  `form:"date" json:"date" binding:"required"`
}

// WeatherResponse carries either a service.MonthlyClimate or the
// NoDataAvailable string in Data.
type WeatherResponse struct {
	Month string      `json:"month"`
	Data  interface{} `json:"data"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ProbabilityResponse struct {
	Location      Location              `json:"location"`
	Date          string                `json:"date"`
	Probabilities service.Probabilities `json:"probabilities"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details string                  `json:"details,omitempty"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Provider  string `json:"provider,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
