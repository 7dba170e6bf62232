package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

// ErrorHandlerMiddleware handles errors and panics
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// Log panic stack trace
				stack := string(debug.Stack())
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", stack).
					Msg("Panic recovered")

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()

		// Handle errors attached to the context
		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
				}
				c.JSON(appErr.Code, gin.H{
					"success": false,
					"error":   appErr.Message,
				})
				return
			}

			// Storage and other unexpected failures are not exposed to clients
			logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled request error")

			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Internal Server Error",
			})
		}
	}
}
