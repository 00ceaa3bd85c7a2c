// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a grocery product
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	StoreID     uint           `json:"store_id" gorm:"not null;index"`
	CategoryID  *uint          `json:"category_id" gorm:"index"`
	Name        string         `json:"name" gorm:"not null;size:255"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description string         `json:"description" gorm:"type:text"`
	SKU         string         `json:"sku" gorm:"uniqueIndex;not null;size:100"`
	Price       int64          `json:"price" gorm:"not null"`
	WeightGrams int            `json:"weight_grams" gorm:"not null;default:0"`
	ImageURL    string         `json:"image_url" gorm:"size:500"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// Category represents a product category
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;size:100"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }
