// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/shipping"
	"github.com/your-org/grocery-backend/internal/pkg/validation"
)

// respondError maps domain errors to HTTP responses so checkout failures
// carry a specific, actionable reason instead of a generic error.
func respondError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	var valErr *order.ValidationError
	var fieldErrs validation.Errors

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
			"field": valErr.Field,
			"details": valErr.Message,
		})
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request data",
			"fields": fieldErrs,
		})
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, order.ErrVoucherInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, shipping.ErrShippingUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Shipping cost is currently unavailable, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// unauthorized is the shared response for missing authentication context
func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": "User not authenticated",
	})
}
