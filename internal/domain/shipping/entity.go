// internal/domain/shipping/entity.go
package shipping

import (
	"time"

	"gorm.io/gorm"
)

// ShippingMethod represents a selectable courier service
type ShippingMethod struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Code          string         `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Name          string         `json:"name" gorm:"not null;size:100"`
	Courier       string         `json:"courier" gorm:"not null;size:50"`
	Service       string         `json:"service" gorm:"not null;size:50"`
	EstimatedDays string         `json:"estimated_days" gorm:"size:20"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName overrides the table name
func (ShippingMethod) TableName() string { return "shipping_methods" }

// Item is one weighted order line used for rate lookups
type Item struct {
	ProductID   uint
	Quantity    int
	WeightGrams int
}
