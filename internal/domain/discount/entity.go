// internal/domain/discount/entity.go
package discount

import (
	"time"

	"gorm.io/gorm"
)

// Scope is the closed set of discount kinds. Every discount row carries
// exactly one scope; calculators switch on it exhaustively.
type Scope string

const (
	ScopeProduct      Scope = "product"
	ScopeStore        Scope = "store"
	ScopeBuyOneGetOne Scope = "buy_one_get_one"
)

// InputType selects how Value is interpreted.
type InputType string

const (
	InputPercentage InputType = "percentage"
	InputNominal    InputType = "nominal"
)

// Discount represents a catalog discount. ProductID is set for product and
// buy-one-get-one scopes, nil for store scope.
type Discount struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	StoreID     uint           `gorm:"not null;index" json:"store_id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Scope       Scope          `gorm:"not null;size:20;index" json:"scope"`
	InputType   InputType      `gorm:"not null;size:20" json:"input_type"`
	Value       float64        `gorm:"not null" json:"value"`          // percent or minor units
	MinPurchase int64          `gorm:"default:0" json:"min_purchase"`  // minor units
	MaxDiscount int64          `gorm:"default:0" json:"max_discount"`  // 0 = unlimited
	ProductID   *uint          `gorm:"index" json:"product_id,omitempty"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     time.Time      `gorm:"not null" json:"end_date"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Voucher represents a store-wide, code-redeemable discount applied at
// checkout, distinct from per-product discounts.
type Voucher struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name          string         `gorm:"size:255" json:"name"`
	DiscountType  InputType      `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue float64        `gorm:"not null" json:"discount_value"`
	MaxDiscount   int64          `gorm:"default:0" json:"max_discount"` // 0 = unlimited
	ExpiredAt     time.Time      `gorm:"not null;index" json:"expired_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Discount) TableName() string { return "discounts" }
func (Voucher) TableName() string  { return "vouchers" }

// IsActiveAt reports whether the discount window covers t.
func (d *Discount) IsActiveAt(t time.Time) bool {
	return d.IsActive && !t.Before(d.StartDate) && !t.After(d.EndDate)
}

// IsExpired reports whether the voucher is past its expiry at t.
func (v *Voucher) IsExpired(t time.Time) bool {
	return t.After(v.ExpiredAt)
}

// AppliesToProduct reports whether the discount targets the given product.
func (d *Discount) AppliesToProduct(productID uint) bool {
	switch d.Scope {
	case ScopeProduct, ScopeBuyOneGetOne:
		return d.ProductID != nil && *d.ProductID == productID
	case ScopeStore:
		return true
	default:
		return false
	}
}
