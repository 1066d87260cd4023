package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors to status codes and field-attributed bodies.
func writeError(c *gin.Context, err error) {
	var orderErr *domain.OrderValidationError
	var fieldErr *domain.FieldError

	switch {
	case errors.As(err, &orderErr):
		c.JSON(http.StatusBadRequest, gin.H{"tickets": gin.H{strconv.Itoa(orderErr.Index): orderErr.Fields()}})
	case errors.Is(err, domain.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"tickets": []string{domain.ErrEmptyOrder.Error()}})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: []string{fieldErr.Message}})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransactionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrTransactionConflict.Error(), "retryable": true})
	case errors.Is(err, domain.ErrSeatTaken):
		c.JSON(http.StatusBadRequest, gin.H{seating.FieldSeat: []string{domain.ErrSeatTaken.Error()}})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writeBindError reports a request body that failed to decode or validate.
func writeBindError(c *gin.Context, err error) {
	if fields, ok := bindingErrors(err); ok {
		c.JSON(http.StatusBadRequest, fields)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}
