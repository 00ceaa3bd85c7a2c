// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/discount"
	"github.com/your-org/grocery-backend/internal/domain/payment"
	"github.com/your-org/grocery-backend/internal/domain/pricing"
	"github.com/your-org/grocery-backend/internal/domain/shipping"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/pkg/validation"
)

// RateResolver quotes the binding shipping cost for an order
type RateResolver interface {
	Resolve(ctx context.Context, address *user.Address, methodID uint, items []shipping.Item) (int64, error)
}

// VoucherSource looks up vouchers and active discounts
type VoucherSource interface {
	FindVoucherByCode(ctx context.Context, code string) (*discount.Voucher, error)
	FindActiveDiscounts(ctx context.Context, productIDs []uint) ([]discount.Discount, error)
}

// CartSource provides the priced cart snapshot at checkout
type CartSource interface {
	Lines(ctx context.Context, userID uint) ([]cart.Line, error)
	Clear(ctx context.Context, userID uint) error
}

// AddressSource resolves an address enforcing ownership
type AddressSource interface {
	GetAddress(ctx context.Context, userID, addressID uint) (*user.Address, error)
}

// UserSource resolves the customer identity for the payment gateway
type UserSource interface {
	GetProfile(userID uint) (*user.User, error)
}

// Service is the order lifecycle engine. It validates checkout inputs,
// prices the cart, resolves shipping, and drives state transitions through
// payment and fulfillment via the Store's transactional operations.
type Service struct {
	store     Store
	resolver  RateResolver
	vouchers  VoucherSource
	gateway   payment.Gateway
	carts     CartSource
	addresses AddressSource
	users     UserSource
	config    *config.Config
	logger    *logrus.Logger
}

// NewService creates a new order service
func NewService(store Store, resolver RateResolver, vouchers VoucherSource, gateway payment.Gateway,
	carts CartSource, addresses AddressSource, users UserSource, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		store:     store,
		resolver:  resolver,
		vouchers:  vouchers,
		gateway:   gateway,
		carts:     carts,
		addresses: addresses,
		users:     users,
		config:    cfg,
		logger:    log,
	}
}

// CreateOrderRequest represents checkout data
type CreateOrderRequest struct {
	AddressID        uint          `json:"address_id" binding:"required"`
	ShippingMethodID uint          `json:"shipping_method_id" binding:"required"`
	VoucherCode      string        `json:"voucher_code"`
	PaymentMethod    PaymentMethod `json:"payment_method" binding:"required,oneof=payment_gateway manual_transfer"`
	Notes            string        `json:"notes" binding:"max=500"`
}

// OrderListResponse represents a paginated order listing
type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// CreateOrder turns the user's cart into a priced order. Pricing, shipping
// and stock reservation all happen before anything is persisted; the Store
// commits the reservation and the snapshot in one transaction so no partial
// order survives a failure.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addresses.GetAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, &ValidationError{Field: "address_id", Message: "address not found"}
	}

	productIDs := make([]uint, 0, len(lines))
	priceLines := make([]pricing.Line, 0, len(lines))
	shipItems := make([]shipping.Item, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
		priceLines = append(priceLines, pricing.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		shipItems = append(shipItems, shipping.Item{ProductID: l.ProductID, Quantity: l.Quantity, WeightGrams: l.WeightGrams})
	}

	discounts, err := s.vouchers.FindActiveDiscounts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	var voucher *discount.Voucher
	code := strings.ToUpper(strings.TrimSpace(req.VoucherCode))
	if code != "" {
		voucher, err = s.vouchers.FindVoucherByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up voucher: %w", err)
		}
	}

	totals := pricing.Compute(priceLines, discounts, voucher, time.Now())
	if code != "" && !totals.Voucher.IsValid {
		if s.config.Checkout.StrictVoucher {
			return nil, fmt.Errorf("%w: %s", ErrVoucherInvalid, totals.Voucher.Message)
		}
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"code":    code,
			"reason":  totals.Voucher.Message,
		}).Info("proceeding without voucher discount")
		code = ""
	}

	shippingCost, err := s.resolver.Resolve(ctx, address, req.ShippingMethodID, shipItems)
	if err != nil {
		return nil, err
	}

	total := totals.Subtotal + shippingCost - totals.DiscountTotal
	if total < 0 {
		total = 0
	}

	o := &Order{
		OrderNumber:      generateOrderNumber(),
		UserID:           userID,
		AddressID:        address.ID,
		ShippingMethodID: req.ShippingMethodID,
		Status:           StatusCreated,
		PaymentMethod:    req.PaymentMethod,
		Subtotal:         totals.Subtotal,
		ShippingCost:     shippingCost,
		DiscountAmount:   totals.DiscountTotal,
		TotalAmount:      total,
		VoucherCode:      code,
		Notes:            req.Notes,
	}
	for _, l := range lines {
		o.Items = append(o.Items, OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			WeightGrams: l.WeightGrams,
			Total:       l.UnitPrice * int64(l.Quantity),
		})
	}

	pay := &Payment{Method: req.PaymentMethod}
	var next OrderStatus
	switch req.PaymentMethod {
	case PaymentMethodGateway:
		// The gateway session is created before persistence so its
		// transaction id and redirect URL land in the same commit.
		txn, err := s.gateway.CreateTransaction(ctx, o.OrderNumber, o.TotalAmount, s.customerFor(userID, address))
		if err != nil {
			return nil, fmt.Errorf("failed to create payment session: %w", err)
		}
		pay.TransactionID = txn.TransactionID
		pay.RedirectURL = txn.RedirectURL
		next = StatusAwaitingGatewayCallback
	case PaymentMethodManual:
		next = StatusAwaitingProofUpload
	default:
		return nil, &ValidationError{Field: "payment_method", Message: "unsupported payment method"}
	}

	o.Status = next
	o.Payment = pay
	history := []StatusHistory{
		{FromStatus: "", ToStatus: StatusCreated, ChangedBy: &userID},
		{FromStatus: StatusCreated, ToStatus: next, ChangedBy: &userID},
	}

	if err := s.store.CreateOrder(ctx, o, history); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to clear cart after checkout")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"user_id":      userID,
		"total":        o.TotalAmount,
		"status":       o.Status,
	}).Info("order created")

	return o, nil
}

// ConfirmOrder verifies a manually paid order after admin review. Stock is
// deducted and the payment marked verified in the same transaction.
func (s *Service) ConfirmOrder(ctx context.Context, orderID, adminID uint) (*Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransition(o, StatusVerified, StatusAwaitingAdminReview); err != nil {
		return nil, err
	}

	now := time.Now()
	if o.Payment != nil {
		o.Payment.IsVerified = true
		o.Payment.VerifiedAt = &now
	}

	err = s.store.TransitionOrder(ctx, o, StatusVerified, StockDeduct, StatusHistory{
		FromStatus: StatusAwaitingAdminReview,
		ToStatus:   StatusVerified,
		ChangedBy:  &adminID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("order_number", o.OrderNumber).Info("order verified")
	return o, nil
}

// RejectOrder declines a manually paid order after admin review, releasing
// the reserved stock.
func (s *Service) RejectOrder(ctx context.Context, orderID uint, reason string, adminID uint) (*Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransition(o, StatusRejected, StatusAwaitingAdminReview); err != nil {
		return nil, err
	}

	err = s.store.TransitionOrder(ctx, o, StatusRejected, StockRelease, StatusHistory{
		FromStatus: StatusAwaitingAdminReview,
		ToStatus:   StatusRejected,
		Reason:     reason,
		ChangedBy:  &adminID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("order_number", o.OrderNumber).Info("order rejected")
	return o, nil
}

// CancelOrder cancels an order from any non-terminal state. Stock is
// released unless an earlier transition already released it.
func (s *Service) CancelOrder(ctx context.Context, orderID uint, reason string, byUserID *uint) (*Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "cancellation reason is required"}
	}
	if max := s.config.Checkout.CancelReasonMaxLen; max > 0 && utf8.RuneCountInString(reason) > max {
		return nil, &ValidationError{Field: "reason", Message: fmt.Sprintf("reason must be at most %d characters", max)}
	}

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if byUserID != nil && o.UserID != *byUserID {
		return nil, ErrOrderNotFound
	}
	if !o.Status.CanTransitionTo(StatusCancelled) {
		s.logger.WithFields(logrus.Fields{
			"order_number": o.OrderNumber,
			"status":       o.Status,
		}).Warn("cancel attempted on terminal order")
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", ErrInvalidStateTransition, o.Status)
	}

	// payment_failed and rejected already released the reservation
	action := StockRelease
	if o.Status == StatusPaymentFailed || o.Status == StatusRejected {
		action = StockNone
	}

	prev := o.Status
	o.CancelReason = reason
	err = s.store.TransitionOrder(ctx, o, StatusCancelled, action, StatusHistory{
		FromStatus: prev,
		ToStatus:   StatusCancelled,
		Reason:     reason,
		ChangedBy:  byUserID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"from":         prev,
	}).Info("order cancelled")
	return o, nil
}

// HandlePaymentCallback processes a gateway outcome. It is idempotent for
// repeated callbacks with the same outcome and rejects conflicting ones
// without touching the order.
func (s *Service) HandlePaymentCallback(ctx context.Context, orderNumber, transactionID string, verified bool) (*Order, error) {
	o, err := s.store.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.Payment == nil || o.Payment.TransactionID != transactionID {
		return nil, fmt.Errorf("%w: unknown transaction %s for order %s", ErrInvalidStateTransition, transactionID, orderNumber)
	}

	// repeated callback with the same outcome is a no-op
	if verified && o.Status == StatusVerified && o.Payment.IsVerified {
		return o, nil
	}
	if !verified && o.Status == StatusPaymentFailed {
		return o, nil
	}

	var next OrderStatus
	var action StockAction
	if verified {
		next, action = StatusVerified, StockDeduct
	} else {
		next, action = StatusPaymentFailed, StockRelease
	}

	if !o.Status.CanTransitionTo(next) {
		s.logger.WithFields(logrus.Fields{
			"order_number":   orderNumber,
			"transaction_id": transactionID,
			"status":         o.Status,
			"verified":       verified,
		}).Warn("conflicting payment callback rejected")
		return nil, fmt.Errorf("%w: callback verified=%t not allowed in status %s", ErrInvalidStateTransition, verified, o.Status)
	}

	prev := o.Status
	if verified {
		now := time.Now()
		o.Payment.IsVerified = true
		o.Payment.VerifiedAt = &now
	}

	err = s.store.TransitionOrder(ctx, o, next, action, StatusHistory{
		FromStatus: prev,
		ToStatus:   next,
		Reason:     fmt.Sprintf("gateway callback for transaction %s", transactionID),
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": orderNumber,
		"status":       next,
	}).Info("payment callback processed")
	return o, nil
}

// RetryPayment opens a fresh gateway session for a failed payment. The
// reservation released at failure time is re-acquired, so retry can still
// fail with insufficient stock.
func (s *Service) RetryPayment(ctx context.Context, orderID, userID uint) (*Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if err := s.requireTransition(o, StatusAwaitingGatewayCallback, StatusPaymentFailed); err != nil {
		return nil, err
	}

	address, err := s.addresses.GetAddress(ctx, userID, o.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order address: %w", err)
	}

	txn, err := s.gateway.CreateTransaction(ctx, o.OrderNumber, o.TotalAmount, s.customerFor(userID, address))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}
	o.Payment.TransactionID = txn.TransactionID
	o.Payment.RedirectURL = txn.RedirectURL

	err = s.store.TransitionOrder(ctx, o, StatusAwaitingGatewayCallback, StockReserve, StatusHistory{
		FromStatus: StatusPaymentFailed,
		ToStatus:   StatusAwaitingGatewayCallback,
		Reason:     "payment retry",
		ChangedBy:  &userID,
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// SubmitPaymentProof attaches a transfer proof and queues the order for
// admin review.
func (s *Service) SubmitPaymentProof(ctx context.Context, orderID, userID uint, proofURL string) (*Order, error) {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, &ValidationError{Field: "proof_url", Message: "payment proof is required"}
	}

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if err := s.requireTransition(o, StatusAwaitingAdminReview, StatusAwaitingProofUpload); err != nil {
		return nil, err
	}

	o.Payment.ProofURL = proofURL
	err = s.store.TransitionOrder(ctx, o, StatusAwaitingAdminReview, StockNone, StatusHistory{
		FromStatus: StatusAwaitingProofUpload,
		ToStatus:   StatusAwaitingAdminReview,
		ChangedBy:  &userID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("order_number", o.OrderNumber).Info("payment proof submitted")
	return o, nil
}

// GetOrder returns an order enforcing ownership
func (s *Service) GetOrder(ctx context.Context, orderID, userID uint) (*Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// GetOrderAdmin returns any order by ID
func (s *Service) GetOrderAdmin(ctx context.Context, orderID uint) (*Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

// ListUserOrders lists the user's orders, newest first
func (s *Service) ListUserOrders(ctx context.Context, userID uint, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.store.ListOrders(ctx, &userID, nil, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderListResponse{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// ListOrders lists all orders with an optional status filter
func (s *Service) ListOrders(ctx context.Context, status *OrderStatus, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.store.ListOrders(ctx, nil, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderListResponse{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// PreviewRequest carries checkout selections for a summary computation.
type PreviewRequest struct {
	AddressID        uint   `json:"address_id" binding:"required"`
	ShippingMethodID uint   `json:"shipping_method_id" binding:"required"`
	VoucherCode      string `json:"voucher_code"`
}

// PreviewResponse is the non-binding checkout summary.
type PreviewResponse struct {
	Totals            pricing.Totals `json:"totals"`
	ShippingCost      int64          `json:"shipping_cost"`
	ShippingAvailable bool           `json:"shipping_available"`
	TotalAmount       int64          `json:"total_amount"`
	VoucherMessage    string         `json:"voucher_message,omitempty"`
}

// PreviewCheckout prices the cart without creating an order. Pricing uses the
// same calculator as checkout, but failures are softened for display: an
// unusable voucher is reported via VoucherMessage and an unreachable rate
// provider yields a zero cost with ShippingAvailable false.
func (s *Service) PreviewCheckout(ctx context.Context, userID uint, req *PreviewRequest) (*PreviewResponse, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addresses.GetAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, &ValidationError{Field: "address_id", Message: "address not found"}
	}

	productIDs := make([]uint, 0, len(lines))
	priceLines := make([]pricing.Line, 0, len(lines))
	shipItems := make([]shipping.Item, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
		priceLines = append(priceLines, pricing.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		shipItems = append(shipItems, shipping.Item{ProductID: l.ProductID, Quantity: l.Quantity, WeightGrams: l.WeightGrams})
	}

	discounts, err := s.vouchers.FindActiveDiscounts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	var voucher *discount.Voucher
	code := strings.ToUpper(strings.TrimSpace(req.VoucherCode))
	if code != "" {
		voucher, err = s.vouchers.FindVoucherByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up voucher: %w", err)
		}
	}

	totals := pricing.Compute(priceLines, discounts, voucher, time.Now())

	resp := &PreviewResponse{Totals: totals, ShippingAvailable: true}
	if code != "" && !totals.Voucher.IsValid {
		resp.VoucherMessage = totals.Voucher.Message
	}

	shippingCost, err := s.resolver.Resolve(ctx, address, req.ShippingMethodID, shipItems)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"method_id": req.ShippingMethodID,
		}).Warn("shipping quote unavailable for preview")
		resp.ShippingAvailable = false
		shippingCost = 0
	}
	resp.ShippingCost = shippingCost

	total := totals.Subtotal + shippingCost - totals.DiscountTotal
	if total < 0 {
		total = 0
	}
	resp.TotalAmount = total
	return resp, nil
}

// requireTransition checks that the order is in the expected state and the
// move is legal, logging integrity violations.
func (s *Service) requireTransition(o *Order, next, expected OrderStatus) error {
	if o.Status != expected || !o.Status.CanTransitionTo(next) {
		s.logger.WithFields(logrus.Fields{
			"order_number": o.OrderNumber,
			"status":       o.Status,
			"requested":    next,
		}).Warn("invalid order state transition")
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidStateTransition, o.Status, next)
	}
	return nil
}

func (s *Service) customerFor(userID uint, address *user.Address) payment.Customer {
	customer := payment.Customer{FirstName: address.RecipientName}
	if u, err := s.users.GetProfile(userID); err == nil {
		customer.Email = u.Email
		customer.FirstName = u.FirstName
		customer.LastName = u.LastName
	}
	return customer
}

// generateOrderNumber builds an ORD-YYYYMMDD-XXXXXXXX order number
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
