// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/infrastructure/cache"
	"gorm.io/gorm"
)

// Service handles product catalog operations
type Service struct {
	db     *gorm.DB
	cache  *cache.Cache
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, c *cache.Cache, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		cache:  c,
		config: cfg,
		logger: log,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	StoreID     uint   `json:"store_id" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	SKU         string `json:"sku" binding:"required,max=100"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	WeightGrams int    `json:"weight_grams" binding:"required,gt=0"`
	ImageURL    string `json:"image_url"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	CategoryID  *uint   `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	WeightGrams *int    `json:"weight_grams"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// ProductListResponse represents a paginated product listing
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// GetProduct returns a product by ID through the cache
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	key := fmt.Sprintf("products:id:%d", id)
	return cache.Wrap(ctx, s.cache, key, s.config.Checkout.CatalogCacheTTL, func(ctx context.Context) (*Product, error) {
		var p Product
		if err := s.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("product not found")
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}
		return &p, nil
	})
}

// GetProducts returns products for a store through the cache
func (s *Service) GetProducts(ctx context.Context, storeID uint, page, limit int) (*ProductListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	key := fmt.Sprintf("products:store:%d:page:%d:limit:%d", storeID, page, limit)
	return cache.Wrap(ctx, s.cache, key, s.config.Checkout.CatalogCacheTTL, func(ctx context.Context) (*ProductListResponse, error) {
		query := s.db.WithContext(ctx).Model(&Product{}).Where("store_id = ? AND is_active = ?", storeID, true)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}

		var products []Product
		offset := (page - 1) * limit
		if err := query.Preload("Category").Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		return &ProductListResponse{
			Products: products,
			Total:    total,
			Page:     page,
			Limit:    limit,
		}, nil
	})
}

// GetCategories returns all active categories through the cache
func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	return cache.Wrap(ctx, s.cache, "categories:all", s.config.Checkout.CatalogCacheTTL, func(ctx context.Context) ([]Category, error) {
		var categories []Category
		if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return categories, nil
	})
}

// CreateProduct creates a product and invalidates store-scoped caches
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	var existing Product
	if err := s.db.WithContext(ctx).Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("product with SKU '%s' already exists", req.SKU)
	}

	p := &Product{
		StoreID:     req.StoreID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		WeightGrams: req.WeightGrams,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidate(ctx, p.StoreID, p.ID)
	return p, nil
}

// UpdateProduct updates a product and invalidates store-scoped caches
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*Product, error) {
	var p Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = slugify(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.WeightGrams != nil {
		updates["weight_grams"] = *req.WeightGrams
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.invalidate(ctx, p.StoreID, p.ID)
	return &p, nil
}

// DeleteProduct soft-deletes a product and invalidates store-scoped caches
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	var p Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return fmt.Errorf("product not found")
	}
	if err := s.db.WithContext(ctx).Delete(&p).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate(ctx, p.StoreID, p.ID)
	return nil
}

// CreateCategory creates a category
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	c := &Category{Name: name, Slug: slugify(name), IsActive: true}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.cache.Invalidate(ctx, "categories:*")
	return c, nil
}

func (s *Service) invalidate(ctx context.Context, storeID, productID uint) {
	s.cache.Invalidate(ctx,
		fmt.Sprintf("products:store:%d*", storeID),
		fmt.Sprintf("products:id:%d", productID),
		"categories:*",
	)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
