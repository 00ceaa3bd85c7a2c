// internal/interfaces/http/handlers/discount.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/domain/discount"
)

// DiscountHandler handles admin discount and voucher endpoints
type DiscountHandler struct {
	discountService *discount.Service
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *discount.Service) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// ListDiscounts handles GET /admin/discounts
func (h *DiscountHandler) ListDiscounts(c *gin.Context) {
	storeID, _ := strconv.ParseUint(c.DefaultQuery("store_id", "1"), 10, 32)

	discounts, err := h.discountService.ListDiscounts(c.Request.Context(), uint(storeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": discounts})
}

// CreateDiscount handles POST /admin/discounts
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	var req discount.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	d, err := h.discountService.CreateDiscount(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Discount created successfully",
		"data":    d,
	})
}

// DeleteDiscount handles DELETE /admin/discounts/:id
func (h *DiscountHandler) DeleteDiscount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount ID"})
		return
	}

	if err := h.discountService.DeleteDiscount(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Discount deleted successfully"})
}

// ListVouchers handles GET /admin/vouchers
func (h *DiscountHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.discountService.ListVouchers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vouchers})
}

// CreateVoucher handles POST /admin/vouchers
func (h *DiscountHandler) CreateVoucher(c *gin.Context) {
	var req discount.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.discountService.CreateVoucher(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Voucher created successfully",
		"data":    v,
	})
}

// DeleteVoucher handles DELETE /admin/vouchers/:id
func (h *DiscountHandler) DeleteVoucher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voucher ID"})
		return
	}

	if err := h.discountService.DeleteVoucher(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted successfully"})
}
