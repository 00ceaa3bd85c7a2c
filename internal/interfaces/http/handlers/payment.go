// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/domain/order"
)

// PaymentHandler handles payment gateway webhook endpoints
type PaymentHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(orderService *order.Service, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{orderService: orderService, logger: log}
}

type gatewayNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionID     string `json:"transaction_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
}

// Callback handles POST /payments/callback. The gateway retries
// notifications, so repeated deliveries of the same outcome return 200.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var notif gatewayNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification payload"})
		return
	}

	var verified bool
	switch notif.TransactionStatus {
	case "settlement", "capture":
		verified = true
	case "deny", "cancel", "expire", "failure":
		verified = false
	case "pending":
		c.JSON(http.StatusOK, gin.H{"message": "Notification acknowledged"})
		return
	default:
		h.logger.WithFields(logrus.Fields{
			"order_number": notif.OrderID,
			"status":       notif.TransactionStatus,
		}).Warn("unknown gateway transaction status")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown transaction status"})
		return
	}

	o, err := h.orderService.HandlePaymentCallback(c.Request.Context(), notif.OrderID, notif.TransactionID, verified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification processed",
		"data": gin.H{
			"order_number": o.OrderNumber,
			"status":       o.Status,
		},
	})
}
