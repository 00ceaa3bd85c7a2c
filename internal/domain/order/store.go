// internal/domain/order/store.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// StockAction is the inventory side effect applied with a transition
type StockAction int

const (
	StockNone StockAction = iota
	StockReserve
	StockRelease
	StockDeduct
)

// Store is the persistence collaborator. It owns transaction boundaries:
// CreateOrder commits the stock reservation and the order snapshot
// atomically, and TransitionOrder applies the status change, its stock
// action and the history record in one transaction.
type Store interface {
	CreateOrder(ctx context.Context, o *Order, history []StatusHistory) error
	GetOrder(ctx context.Context, id uint) (*Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*Order, error)
	TransitionOrder(ctx context.Context, o *Order, next OrderStatus, action StockAction, history StatusHistory) error
	ListOrders(ctx context.Context, userID *uint, status *OrderStatus, page, limit int) ([]Order, int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed order store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func stockItems(o *Order) []inventory.Item {
	items := make([]inventory.Item, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, inventory.Item{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

// CreateOrder reserves stock and persists the order, its payment record and
// the initial history in one transaction. Any failure rolls everything back
// so no partial order exists.
func (s *gormStore) CreateOrder(ctx context.Context, o *Order, history []StatusHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := inventory.Reserve(tx, stockItems(o), o.OrderNumber); err != nil {
			return err
		}

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range history {
			history[i].OrderID = o.ID
		}
		if len(history) > 0 {
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record order history: %w", err)
			}
		}
		return nil
	})
}

func (s *gormStore) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (s *gormStore) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("order_number = ?", number).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// TransitionOrder persists the status change, the payment record, the stock
// action and the history entry atomically. The caller validated the
// transition on its in-memory copy, so the status update is conditional on
// the previous status; a concurrent transition that committed first makes
// the update match zero rows and the whole transaction rolls back.
func (s *gormStore) TransitionOrder(ctx context.Context, o *Order, next OrderStatus, action StockAction, history StatusHistory) error {
	prev := o.Status
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).Where("id = ? AND status = ?", o.ID, prev).
			Updates(map[string]interface{}{
				"status":        next,
				"cancel_reason": o.CancelReason,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s is no longer %s", ErrInvalidStateTransition, o.OrderNumber, prev)
		}

		switch action {
		case StockReserve:
			if err := inventory.Reserve(tx, stockItems(o), o.OrderNumber); err != nil {
				return err
			}
		case StockRelease:
			if err := inventory.Release(tx, stockItems(o), o.OrderNumber); err != nil {
				return err
			}
		case StockDeduct:
			if err := inventory.Deduct(tx, stockItems(o), o.OrderNumber); err != nil {
				return err
			}
		}

		o.Status = next

		if o.Payment != nil {
			if err := tx.Save(o.Payment).Error; err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
		}

		history.OrderID = o.ID
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record order history: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListOrders(ctx context.Context, userID *uint, status *OrderStatus, page, limit int) ([]Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (page - 1) * limit
	err := query.Preload("Items").Preload("Payment").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}
