package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower admits or rejects one request for a key.
type Allower interface {
	Allow(key string, capacity, refillPerSec float64) bool
}

// RateLimit applies a per-client token bucket keyed by remote IP.
func RateLimit(limiter Allower, capacity, refillPerSec float64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP(), capacity, refillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": "Too Many Requests",
				})
			}
			return next(c)
		}
	}
}
