package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/pkg/apperr"
)

const internalErrorMessage = "Internal server error"

// OK sends a 200 response. The payload fields are merged into a body that
// always carries success=true.
func OK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, withSuccess(data))
}

// Created sends a 201 response with success=true.
func Created(c *gin.Context, data gin.H) {
	c.JSON(http.StatusCreated, withSuccess(data))
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not Found"
	}
	abort(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, message)
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "Too many requests, slow down")
}

// InternalError sends a 500 error response. The cause is logged, never returned.
func InternalError(c *gin.Context, log *zap.Logger, err error) {
	if log != nil {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	abort(c, http.StatusInternalServerError, internalErrorMessage)
}

// Error maps a classified error onto its HTTP status.
func Error(c *gin.Context, log *zap.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		BadRequest(c, messageOr(err, "Invalid request"))
	case apperr.KindNotFound:
		NotFound(c, apperr.MessageOf(err))
	case apperr.KindUpstreamFetchFailed:
		if log != nil {
			log.Warn("upstream fetch failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		BadRequest(c, messageOr(err, "Failed to fetch URL content"))
	default:
		InternalError(c, log, err)
	}
}

func messageOr(err error, fallback string) string {
	if msg := apperr.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func withSuccess(data gin.H) gin.H {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	return body
}
