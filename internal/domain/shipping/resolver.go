// internal/domain/shipping/resolver.go
package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/infrastructure/cache"
	"gorm.io/gorm"
)

// ErrShippingUnavailable indicates the rate provider could not quote a cost.
// Checkout aborts on this error; only preview paths may fall back to zero.
var ErrShippingUnavailable = errors.New("shipping cost unavailable")

// Resolver computes shipping costs for orders
type Resolver struct {
	db       *gorm.DB
	provider RateProvider
	cache    *cache.Cache
	config   *config.Config
	logger   *logrus.Logger
}

// NewResolver creates a new shipping resolver
func NewResolver(db *gorm.DB, provider RateProvider, c *cache.Cache, cfg *config.Config, log *logrus.Logger) *Resolver {
	return &Resolver{
		db:       db,
		provider: provider,
		cache:    c,
		config:   cfg,
		logger:   log,
	}
}

// GetMethod returns an active shipping method by ID
func (r *Resolver) GetMethod(ctx context.Context, methodID uint) (*ShippingMethod, error) {
	var method ShippingMethod
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", methodID, true).First(&method).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("shipping method not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping method: %w", err)
	}
	return &method, nil
}

// ListMethods returns all active shipping methods
func (r *Resolver) ListMethods(ctx context.Context) ([]ShippingMethod, error) {
	var methods []ShippingMethod
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to list shipping methods: %w", err)
	}
	return methods, nil
}

// Resolve returns the binding shipping cost for an order. The lookup is
// cached per destination, method and kilogram bucket, has a bounded timeout,
// and fails with ErrShippingUnavailable rather than defaulting to zero.
func (r *Resolver) Resolve(ctx context.Context, address *user.Address, methodID uint, items []Item) (int64, error) {
	method, err := r.GetMethod(ctx, methodID)
	if err != nil {
		return 0, err
	}
	return r.quote(ctx, address, method, items)
}

func (r *Resolver) quote(ctx context.Context, address *user.Address, method *ShippingMethod, items []Item) (int64, error) {
	weightGrams := totalWeight(items)
	if weightGrams <= 0 {
		return 0, fmt.Errorf("order has no shippable weight")
	}
	bucket := weightBucket(weightGrams)

	key := fmt.Sprintf("shipping:cost:%d:%d:%d", address.ID, method.ID, bucket)
	cost, err := cache.Wrap(ctx, r.cache, key, r.config.Checkout.ShippingCacheTTL, func(ctx context.Context) (int64, error) {
		quoteCtx, cancel := context.WithTimeout(ctx, r.config.External.ShippingRates.Timeout)
		defer cancel()

		cost, err := r.provider.Quote(quoteCtx,
			r.config.External.ShippingRates.OriginCity,
			address.CityCode,
			bucket,
			method.Courier,
			method.Service,
		)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrShippingUnavailable, err)
		}
		if cost < 0 {
			return 0, fmt.Errorf("%w: provider returned negative cost", ErrShippingUnavailable)
		}
		return cost, nil
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

// Preview returns a best-effort shipping cost for summary displays. Provider
// failure yields zero, never an error. Not for order creation.
func (r *Resolver) Preview(ctx context.Context, address *user.Address, methodID uint, items []Item) int64 {
	cost, err := r.Resolve(ctx, address, methodID, items)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"address_id": address.ID,
			"method_id":  methodID,
		}).Warn("shipping preview falling back to zero")
		return 0
	}
	return cost
}

// totalWeight sums item weights in grams
func totalWeight(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.WeightGrams * item.Quantity
	}
	return total
}

// weightBucket rounds grams up to the next whole kilogram, the granularity
// couriers charge at. Bucketing also keeps the cache key space small.
func weightBucket(weightGrams int) int {
	const kg = 1000
	buckets := (weightGrams + kg - 1) / kg
	if buckets < 1 {
		buckets = 1
	}
	return buckets * kg
}
