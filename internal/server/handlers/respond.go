package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
)

// respondData writes the uniform success envelope around a payload.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondList writes the success envelope with an element count.
func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

// respondMessage writes a success envelope carrying only a message.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondError maps the error taxonomy to HTTP statuses and writes the
// failure envelope. Unexpected errors become a generic 500; their detail is
// exposed only outside production.
func respondError(c *gin.Context, logger *zap.Logger, err error, production bool) {
	switch {
	case errs.IsValidation(err), errs.IsInsufficientStock(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errs.IsUnauthorized(err):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		body := gin.H{"success": false, "message": "Server Error"}
		if !production {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}

// parseDate accepts the date formats the frontend sends.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
