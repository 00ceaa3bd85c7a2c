// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// Item is one product/quantity pair in a stock operation
type Item struct {
	ProductID uint
	Quantity  int
}

// Reserve holds stock for the given items inside the caller's transaction.
// The conditional update keeps concurrent reservations from oversubscribing
// available stock; a failed condition yields InsufficientStockError for the
// offending line and the caller is expected to roll back.
func Reserve(tx *gorm.DB, items []Item, reference string) error {
	for _, item := range items {
		result := tx.Model(&Stock{}).
			Where("product_id = ? AND quantity - reserved >= ?", item.ProductID, item.Quantity).
			Update("reserved", gorm.Expr("reserved + ?", item.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var stock Stock
			available := 0
			if err := tx.Where("product_id = ?", item.ProductID).First(&stock).Error; err == nil {
				available = stock.Available()
			}
			return &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: available,
			}
		}

		if err := tx.Create(&StockMovement{
			ProductID: item.ProductID,
			Type:      MovementReserve,
			Quantity:  item.Quantity,
			Reference: reference,
		}).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	return nil
}

// Release returns reserved stock for the given items inside the caller's
// transaction.
func Release(tx *gorm.DB, items []Item, reference string) error {
	for _, item := range items {
		result := tx.Model(&Stock{}).
			Where("product_id = ? AND reserved >= ?", item.ProductID, item.Quantity).
			Update("reserved", gorm.Expr("reserved - ?", item.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to release stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("no reservation to release for product %d", item.ProductID)
		}

		if err := tx.Create(&StockMovement{
			ProductID: item.ProductID,
			Type:      MovementRelease,
			Quantity:  item.Quantity,
			Reference: reference,
		}).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	return nil
}

// Deduct converts reserved stock into a permanent deduction inside the
// caller's transaction.
func Deduct(tx *gorm.DB, items []Item, reference string) error {
	for _, item := range items {
		result := tx.Model(&Stock{}).
			Where("product_id = ? AND reserved >= ? AND quantity >= ?", item.ProductID, item.Quantity, item.Quantity).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity - ?", item.Quantity),
				"reserved": gorm.Expr("reserved - ?", item.Quantity),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to deduct stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("no reservation to deduct for product %d", item.ProductID)
		}

		if err := tx.Create(&StockMovement{
			ProductID: item.ProductID,
			Type:      MovementDeduct,
			Quantity:  item.Quantity,
			Reference: reference,
		}).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	return nil
}

// Service handles inventory administration
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, logger: log}
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
	Note      string `json:"note" binding:"max=255"`
}

// GetStock returns the stock record for a product, creating an empty one on
// first access.
func (s *Service) GetStock(ctx context.Context, productID uint) (*Stock, error) {
	var stock Stock
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&stock).Error
	if err == gorm.ErrRecordNotFound {
		stock = Stock{ProductID: productID}
		if err := s.db.WithContext(ctx).Create(&stock).Error; err != nil {
			return nil, fmt.Errorf("failed to initialize stock: %w", err)
		}
		return &stock, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &stock, nil
}

// AdjustStock applies a manual correction with an audit movement
func (s *Service) AdjustStock(ctx context.Context, req *AdjustStockRequest, adminID uint) (*Stock, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var stock Stock

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", req.ProductID).First(&stock).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				stock = Stock{ProductID: req.ProductID}
				if err := tx.Create(&stock).Error; err != nil {
					return fmt.Errorf("failed to initialize stock: %w", err)
				}
			} else {
				return fmt.Errorf("failed to get stock: %w", err)
			}
		}

		if stock.Quantity+req.Delta < stock.Reserved {
			return fmt.Errorf("adjustment would drop quantity below reserved amount")
		}

		stock.Quantity += req.Delta
		if err := tx.Save(&stock).Error; err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		return tx.Create(&StockMovement{
			ProductID: req.ProductID,
			Type:      MovementAdjust,
			Quantity:  req.Delta,
			Note:      req.Note,
			CreatedBy: &adminID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &stock, nil
}

// ListMovements returns the movement audit trail for a product
func (s *Service) ListMovements(ctx context.Context, productID uint, limit int) ([]StockMovement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var movements []StockMovement
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}
