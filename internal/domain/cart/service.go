// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles shopping cart operations
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, logger: log}
}

// AddItemRequest represents adding a product to the cart
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest represents changing a cart item quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=0"`
}

// CartResponse is a cart with its computed totals
type CartResponse struct {
	Cart        *Cart `json:"cart"`
	ItemCount   int   `json:"item_count"`
	Subtotal    int64 `json:"subtotal"`
	WeightGrams int   `json:"weight_grams"`
}

// GetCart returns the user's cart, creating one on first access
func (s *Service) GetCart(ctx context.Context, userID uint) (*CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Cart: cart}
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		resp.ItemCount += item.Quantity
		resp.Subtotal += item.Product.Price * int64(item.Quantity)
		resp.WeightGrams += item.Product.WeightGrams * item.Quantity
	}
	return resp, nil
}

// AddItem adds a product to the cart, merging quantity with an existing line
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*CartResponse, error) {
	var p product.Product
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.ProductID, true).First(&p).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	err = s.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		item = CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// UpdateItem sets a cart item quantity; zero removes the line
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uint, req *UpdateItemRequest) (*CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	if err := s.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		return nil, fmt.Errorf("cart item not found")
	}

	if req.Quantity == 0 {
		if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		item.Quantity = req.Quantity
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) error {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cart item not found")
	}
	return nil
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID uint) error {
	var cart Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Lines returns a frozen priced snapshot of the user's cart
func (s *Service) Lines(ctx context.Context, userID uint) ([]Line, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product == nil || !item.Product.IsActive {
			continue
		}
		lines = append(lines, Line{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			SKU:         item.Product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			WeightGrams: item.Product.WeightGrams,
		})
	}
	return lines, nil
}

func (s *Service) getOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = Cart{UserID: userID}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return &cart, nil
}
