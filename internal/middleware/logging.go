package middleware

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Xyleee/api-devguidance/pkg/logger"
)

// LoggingMiddleware writes one line per request. Stream subscriptions are
// logged when they close, so their latency is the connection lifetime.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		query := redactQuery(c.Request.URL.Query())

		c.Next()

		status := c.Writer.Status()
		event := levelFor(status)

		if uid := c.GetString("userId"); uid != "" {
			event = event.Str("user_id", uid)
		}
		if role, ok := c.Get("role"); ok {
			event = event.Str("role", fmt.Sprint(role))
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Str("query", query).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}

func levelFor(status int) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	default:
		return logger.Info()
	}
}

// redactQuery hides access tokens passed as query parameters.
func redactQuery(q url.Values) string {
	if q.Has("token") {
		q.Set("token", "REDACTED")
	}
	return q.Encode()
}
