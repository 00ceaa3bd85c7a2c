// internal/domain/inventory/entity.go
package inventory

import (
	"fmt"
	"time"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementReserve MovementType = "reserve"
	MovementRelease MovementType = "release"
	MovementDeduct  MovementType = "deduct"
	MovementAdjust  MovementType = "adjust"
)

// Stock tracks on-hand and reserved quantity for a product
type Stock struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	Reserved  int       `json:"reserved" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockMovement is an audit record of a stock change
type StockMovement struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	ProductID uint         `json:"product_id" gorm:"not null;index"`
	Type      MovementType `json:"type" gorm:"not null;size:20"`
	Quantity  int          `json:"quantity" gorm:"not null"`
	Reference string       `json:"reference" gorm:"size:100;index"`
	Note      string       `json:"note" gorm:"size:255"`
	CreatedBy *uint        `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// TableName overrides
func (Stock) TableName() string         { return "stocks" }
func (StockMovement) TableName() string { return "stock_movements" }

// Available returns the quantity not held by reservations
func (s *Stock) Available() int {
	return s.Quantity - s.Reserved
}

// InsufficientStockError identifies the line that could not be reserved
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
