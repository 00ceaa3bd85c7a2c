// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/interfaces/http/middleware"
	"github.com/your-org/grocery-backend/internal/pkg/pdf"
)

// InvoiceHandler serves PDF invoices for verified orders
type InvoiceHandler struct {
	orderService   *order.Service
	userService    *user.Service
	addressService *user.AddressService
	generator      *pdf.InvoiceGenerator
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, userService *user.Service,
	addressService *user.AddressService, generator *pdf.InvoiceGenerator) *InvoiceHandler {
	return &InvoiceHandler{
		orderService:   orderService,
		userService:    userService,
		addressService: addressService,
		generator:      generator,
	}
}

// Download handles GET /orders/:id/invoice
func (h *InvoiceHandler) Download(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		unauthorized(c)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), uint(orderID), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if o.Status != order.StatusVerified {
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice is only available for verified orders"})
		return
	}

	customer, err := h.userService.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer profile"})
		return
	}

	address, err := h.addressService.GetAddress(c.Request.Context(), userID, o.AddressID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load delivery address"})
		return
	}

	data, err := h.generator.Generate(o, customer, address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}
