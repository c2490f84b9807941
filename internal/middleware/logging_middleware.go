package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoggingMiddleware logs one line per request and injects the short
// request_id echoed back in response meta. Storefront calls are tagged
// with the authenticated client and sandbox flag, admin calls with the
// JWT user.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()[:8]
		c.Set("request_id", requestID)

		c.Next()

		evt := log.Info()
		if len(c.Errors) > 0 {
			evt = log.Error().Str("errors", c.Errors.String())
		}
		evt = evt.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP())

		if clientID := c.GetInt("client_id"); clientID != 0 {
			evt = evt.Int("client_id", clientID).Bool("sandbox", IsSandbox(c))
		}
		if userID := c.GetInt("user_id"); userID != 0 {
			evt = evt.Int("admin_user_id", userID)
		}
		evt.Msg("request")
	}
}
