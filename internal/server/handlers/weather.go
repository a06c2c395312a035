package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-probability-api/internal/lookup"
	"github.com/vzahanych/weather-probability-api/internal/server/utils"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	lookup *lookup.Lookup
	logger *zap.Logger
}

func NewWeatherHandler(l *lookup.Lookup, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		lookup: l,
		logger: logger,
	}
}

// GetWeather handles GET /weather?month=. An unknown month is answered with
// 200 and the NoDataAvailable sentinel.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.abortValidation(c, reqLogger, utils.FormatBindingError(err, c.Request.URL.Query(), "month"), err)
		return
	}
	month := *req.Month

	data, found, err := h.lookup.Monthly(ctx, month)
	if err != nil {
		h.abortLookup(c, reqLogger, err)
		return
	}

	resp := WeatherResponse{Month: month, Data: NoDataAvailable}
	if found {
		resp.Data = data
	}

	reqLogger.Info("Weather request completed", zap.String("month", month), zap.Bool("found", found))
	c.JSON(http.StatusOK, resp)
}

// GetProbability handles GET /probability?lat=&lon=&date=.
func (h *WeatherHandler) GetProbability(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	query := c.Request.URL.Query()
	if fields := utils.RejectMalformedNumbers(query, "lat", "lon"); len(fields) > 0 {
		h.abortValidation(c, reqLogger, fields, nil)
		return
	}

	var req ProbabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.abortValidation(c, reqLogger, utils.FormatBindingError(err, query, "lat", "lon", "date"), err)
		return
	}

	reqLogger.Info("Processing probability request",
		zap.Float64("lat", *req.Lat),
		zap.Float64("lon", *req.Lon),
		zap.String("date", *req.Date))

	probs, err := h.lookup.Probabilities(ctx, *req.Lat, *req.Lon, *req.Date)
	if err != nil {
		h.abortLookup(c, reqLogger, err)
		return
	}

	c.JSON(http.StatusOK, ProbabilityResponse{
		Location:      Location{Lat: *req.Lat, Lon: *req.Lon},
		Date:          *req.Date,
		Probabilities: probs,
	})
}

func (h *WeatherHandler) abortValidation(c *gin.Context, reqLogger *zap.Logger, fields []utils.ValidationError, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	} else if len(fields) > 0 {
		details = fields[0].Message
	}

	reqLogger.Warn("Invalid request parameters", zap.String("details", details))
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "Invalid request parameters",
		Code:    "VALIDATION_ERROR",
		Details: details,
		Fields:  fields,
	})
}

func (h *WeatherHandler) abortLookup(c *gin.Context, reqLogger *zap.Logger, err error) {
	_ = c.Error(err)

	if errors.Is(err, context.DeadlineExceeded) {
		reqLogger.Error("Weather lookup timed out", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, ErrorResponse{
			Error: "Weather lookup timed out",
			Code:  "LOOKUP_TIMEOUT",
		})
		return
	}

	reqLogger.Error("Weather lookup failed", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Failed to look up weather data",
		Code:    "LOOKUP_ERROR",
		Details: err.Error(),
	})
}
