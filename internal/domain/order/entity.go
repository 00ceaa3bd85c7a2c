// internal/domain/order/entity.go
package order

import (
	"time"
)

// OrderStatus represents the order lifecycle state
type OrderStatus string

const (
	StatusCreated                 OrderStatus = "created"
	StatusAwaitingGatewayCallback OrderStatus = "awaiting_gateway_callback"
	StatusAwaitingProofUpload     OrderStatus = "awaiting_proof_upload"
	StatusAwaitingAdminReview     OrderStatus = "awaiting_admin_review"
	StatusVerified                OrderStatus = "verified"
	StatusPaymentFailed           OrderStatus = "payment_failed"
	StatusRejected                OrderStatus = "rejected"
	StatusCancelled               OrderStatus = "cancelled"
)

// PaymentMethod selects the payment path at checkout
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "payment_gateway"
	PaymentMethodManual  PaymentMethod = "manual_transfer"
)

// validTransitions is the full lifecycle table. verified and cancelled are
// terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated: {
		StatusAwaitingGatewayCallback,
		StatusAwaitingProofUpload,
		StatusCancelled,
	},
	StatusAwaitingGatewayCallback: {
		StatusVerified,
		StatusPaymentFailed,
		StatusCancelled,
	},
	StatusAwaitingProofUpload: {
		StatusAwaitingAdminReview,
		StatusCancelled,
	},
	StatusAwaitingAdminReview: {
		StatusVerified,
		StatusRejected,
		StatusCancelled,
	},
	StatusPaymentFailed: {
		StatusAwaitingGatewayCallback,
		StatusCancelled,
	},
	StatusRejected: {
		StatusCancelled,
	},
	StatusVerified:  {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is permitted
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s
func (s OrderStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Order is the priced snapshot created at checkout. Amounts are frozen at
// creation and never recomputed.
type Order struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	OrderNumber      string        `json:"order_number" gorm:"uniqueIndex;not null;size:50"`
	UserID           uint          `json:"user_id" gorm:"not null;index"`
	AddressID        uint          `json:"address_id" gorm:"not null"`
	ShippingMethodID uint          `json:"shipping_method_id" gorm:"not null"`
	Status           OrderStatus   `json:"status" gorm:"not null;size:30;index"`
	PaymentMethod    PaymentMethod `json:"payment_method" gorm:"not null;size:30"`
	Subtotal         int64         `json:"subtotal" gorm:"not null"`
	ShippingCost     int64         `json:"shipping_cost" gorm:"not null"`
	DiscountAmount   int64         `json:"discount_amount" gorm:"not null"`
	TotalAmount      int64         `json:"total_amount" gorm:"not null"`
	VoucherCode      string        `json:"voucher_code,omitempty" gorm:"size:50"`
	Notes            string        `json:"notes,omitempty" gorm:"size:500"`
	CancelReason     string        `json:"cancel_reason,omitempty" gorm:"size:500"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Items   []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Payment *Payment        `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	History []StatusHistory `json:"history,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is one immutable priced line copied from the cart at checkout
type OrderItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	ProductID   uint      `json:"product_id" gorm:"not null"`
	ProductName string    `json:"product_name" gorm:"not null;size:255"`
	SKU         string    `json:"sku" gorm:"not null;size:100"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"`
	WeightGrams int       `json:"weight_grams" gorm:"not null"`
	Total       int64     `json:"total" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// Payment tracks the payment record for an order, one-to-one
type Payment struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	OrderID       uint          `json:"order_id" gorm:"uniqueIndex;not null"`
	Method        PaymentMethod `json:"method" gorm:"not null;size:30"`
	TransactionID string        `json:"transaction_id,omitempty" gorm:"size:100;index"`
	RedirectURL   string        `json:"redirect_url,omitempty" gorm:"size:500"`
	ProofURL      string        `json:"proof_url,omitempty" gorm:"size:500"`
	IsVerified    bool          `json:"is_verified" gorm:"default:false"`
	VerifiedAt    *time.Time    `json:"verified_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// StatusHistory is the audit log of lifecycle transitions
type StatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"size:30"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null;size:30"`
	Reason     string      `json:"reason,omitempty" gorm:"size:500"`
	ChangedBy  *uint       `json:"changed_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (Payment) TableName() string       { return "payments" }
func (StatusHistory) TableName() string { return "order_status_histories" }

// CanBeCancelled reports whether the order is still in a cancellable state
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}
