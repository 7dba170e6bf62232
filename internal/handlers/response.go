package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

// bindJSON binds the request body into obj and writes a 400 listing the
// failed fields when it doesn't validate.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"errors":  utils.ValidationMessages(err),
		})
		return false
	}
	return true
}

// respondError writes err as a JSON error. AppErrors keep their status and
// message; anything else is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"success": false, "error": appErr.Message})
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal Server Error"})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
