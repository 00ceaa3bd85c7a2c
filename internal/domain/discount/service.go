// internal/domain/discount/service.go
package discount

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/infrastructure/cache"
	"github.com/your-org/grocery-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// Service handles discount and voucher lookups and administration
type Service struct {
	db     *gorm.DB
	cache  *cache.Cache
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new discount service
func NewService(db *gorm.DB, c *cache.Cache, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		cache:  c,
		config: cfg,
		logger: log,
	}
}

// CreateDiscountRequest represents discount creation data
type CreateDiscountRequest struct {
	StoreID     uint      `json:"store_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Scope       Scope     `json:"scope" binding:"required,oneof=product store buy_one_get_one"`
	InputType   InputType `json:"input_type" binding:"required,oneof=percentage nominal"`
	Value       float64   `json:"value" binding:"required,gt=0"`
	MinPurchase int64     `json:"min_purchase"`
	MaxDiscount int64     `json:"max_discount"`
	ProductID   *uint     `json:"product_id"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// CreateVoucherRequest represents voucher creation data
type CreateVoucherRequest struct {
	Code          string    `json:"code" binding:"required,max=50"`
	Name          string    `json:"name"`
	DiscountType  InputType `json:"discount_type" binding:"required,oneof=percentage nominal"`
	DiscountValue float64   `json:"discount_value" binding:"required,gt=0"`
	MaxDiscount   int64     `json:"max_discount"`
	ExpiredAt     time.Time `json:"expired_at" binding:"required"`
}

// FindVoucherByCode returns the voucher for code, or nil when unknown.
// Expiry is not checked here; the calculator owns that rule.
func (s *Service) FindVoucherByCode(ctx context.Context, code string) (*Voucher, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	key := fmt.Sprintf("vouchers:code:%s", code)
	voucher, err := cache.Wrap(ctx, s.cache, key, s.config.Checkout.CatalogCacheTTL, func(ctx context.Context) (*Voucher, error) {
		var v Voucher
		err := s.db.WithContext(ctx).Where("code = ?", code).First(&v).Error
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up voucher: %w", err)
		}
		return &v, nil
	})
	if err != nil {
		return nil, err
	}
	return voucher, nil
}

// FindActiveDiscounts returns all discounts currently active for the given
// products, including store-scoped ones.
func (s *Service) FindActiveDiscounts(ctx context.Context, productIDs []uint) ([]Discount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	var discounts []Discount
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Where("product_id IN ? OR scope = ?", productIDs, ScopeStore).
		Find(&discounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up discounts: %w", err)
	}

	return discounts, nil
}

// CreateDiscount creates a discount and invalidates derived caches
func (s *Service) CreateDiscount(ctx context.Context, req *CreateDiscountRequest) (*Discount, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Scope != ScopeStore && req.ProductID == nil {
		return nil, fmt.Errorf("product_id is required for %s discounts", req.Scope)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("end_date must be after start_date")
	}

	d := &Discount{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Scope:       req.Scope,
		InputType:   req.InputType,
		Value:       req.Value,
		MinPurchase: req.MinPurchase,
		MaxDiscount: req.MaxDiscount,
		ProductID:   req.ProductID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    true,
	}

	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}

	s.invalidate(ctx, d.StoreID)
	return d, nil
}

// DeleteDiscount removes a discount and invalidates derived caches
func (s *Service) DeleteDiscount(ctx context.Context, id uint) error {
	var d Discount
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return fmt.Errorf("discount not found")
	}
	if err := s.db.WithContext(ctx).Delete(&d).Error; err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	s.invalidate(ctx, d.StoreID)
	return nil
}

// CreateVoucher creates a voucher
func (s *Service) CreateVoucher(ctx context.Context, req *CreateVoucherRequest) (*Voucher, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing Voucher
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("voucher code '%s' already exists", code)
	}

	v := &Voucher{
		Code:          code,
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MaxDiscount:   req.MaxDiscount,
		ExpiredAt:     req.ExpiredAt,
	}

	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, fmt.Errorf("failed to create voucher: %w", err)
	}

	s.cache.Invalidate(ctx, fmt.Sprintf("vouchers:code:%s", code))
	return v, nil
}

// DeleteVoucher removes a voucher
func (s *Service) DeleteVoucher(ctx context.Context, id uint) error {
	var v Voucher
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return fmt.Errorf("voucher not found")
	}
	if err := s.db.WithContext(ctx).Delete(&v).Error; err != nil {
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	s.cache.Invalidate(ctx, fmt.Sprintf("vouchers:code:%s", v.Code))
	return nil
}

// ListDiscounts lists discounts for a store
func (s *Service) ListDiscounts(ctx context.Context, storeID uint) ([]Discount, error) {
	var discounts []Discount
	if err := s.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at DESC").Find(&discounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

// ListVouchers lists all vouchers
func (s *Service) ListVouchers(ctx context.Context) ([]Voucher, error) {
	var vouchers []Voucher
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&vouchers).Error; err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return vouchers, nil
}

// Pricing-sensitive writes invalidate every prefix that could hold stale
// derived values for the store.
func (s *Service) invalidate(ctx context.Context, storeID uint) {
	s.cache.Invalidate(ctx,
		fmt.Sprintf("products:store:%d*", storeID),
		"categories:*",
		"discounts:*",
	)
}
