package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
)

// respondError maps a service error onto an HTTP status and writes
// {"error": msg}. Unclassified errors are logged and hidden behind a generic
// message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest, apperr.Message(err, "Invalid request.")
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, apperr.Message(err, "Sign in required.")
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, apperr.Message(err, "Forbidden.")
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, apperr.Message(err, "Not found.")
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, apperr.Message(err, "Conflict.")
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable, apperr.Message(err, "Service unavailable.")
	case errors.Is(err, mysql.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, mysql.ErrDuplicate):
		return http.StatusBadRequest, "A record with the same key already exists."
	case errors.Is(err, mysql.ErrReference):
		return http.StatusBadRequest, "The referenced record does not exist."
	case errors.Is(err, mysql.ErrInsufficientStock):
		return http.StatusBadRequest, "Not enough stock."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Missing required fields.",
				"fields": validationFields(verrs),
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return false
	}
	return true
}

func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if len(name) > 0 {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		fields[name] = fe.Tag()
	}
	return fields
}

// int64Param reads a positive integer path parameter and answers 400 when
// it is malformed.
func int64Param(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s.", name)})
		return 0, false
	}
	return value, true
}

// int64Query reads an optional integer query parameter. Missing values read
// as zero.
func int64Query(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s.", name)})
		return 0, false
	}
	return value, true
}
