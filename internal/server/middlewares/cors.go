package middlewares

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-probability-api/internal/config"
)

// CORSMiddleware applies cfg to every response. With credentials allowed,
// browsers read "*" literally, so a "*" origin is answered by echoing the
// request Origin and a "*" header list by echoing the preflight's
// Access-Control-Request-Headers.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}

	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}

	echoHeaders := cfg.AllowCredentials && slices.Contains(cfg.AllowHeaders, "*")
	if echoHeaders {
		// left unset so the preflight keeps the echoed value written below
		corsCfg.AllowHeaders = nil
	}

	handler := cors.New(corsCfg)
	if !echoHeaders {
		return handler
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions && c.GetHeader("Origin") != "" {
			c.Writer.Header().Add("Vary", "Access-Control-Request-Headers")
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handler(c)
	}
}
