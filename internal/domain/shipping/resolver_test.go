package shipping

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/infrastructure/cache"
)

type fakeProvider struct {
	cost  int64
	err   error
	calls int
}

func (f *fakeProvider) Quote(ctx context.Context, origin, destination string, weightGrams int, courier, service string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.cost, nil
}

type memoryBackend struct {
	data map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string]string{}}
}

func (m *memoryBackend) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memoryBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryBackend) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryBackend) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		External: config.ExternalConfig{
			ShippingRates: config.ShippingRatesConfig{
				OriginCity: "153",
				Timeout:    time.Second,
			},
		},
		Checkout: config.CheckoutConfig{
			ShippingCacheTTL: 30 * time.Minute,
		},
	}
}

func testResolver(provider RateProvider) *Resolver {
	log := testLogger()
	return &Resolver{
		provider: provider,
		cache:    cache.New(newMemoryBackend(), log),
		config:   testConfig(),
		logger:   log,
	}
}

func TestWeightBucket(t *testing.T) {
	tests := []struct {
		grams int
		want  int
	}{
		{1, 1000},
		{999, 1000},
		{1000, 1000},
		{1001, 2000},
		{2500, 3000},
	}
	for _, tt := range tests {
		if got := weightBucket(tt.grams); got != tt.want {
			t.Errorf("weightBucket(%d) = %d, want %d", tt.grams, got, tt.want)
		}
	}
}

func TestQuoteReturnsProviderCost(t *testing.T) {
	provider := &fakeProvider{cost: 15_000}
	r := testResolver(provider)

	address := &user.Address{ID: 1, CityCode: "501"}
	method := &ShippingMethod{ID: 2, Courier: "jne", Service: "REG"}
	items := []Item{{ProductID: 1, Quantity: 2, WeightGrams: 400}}

	cost, err := r.quote(context.Background(), address, method, items)
	if err != nil {
		t.Fatalf("quote() error = %v", err)
	}
	if cost != 15_000 {
		t.Errorf("cost = %d, want 15000", cost)
	}
}

func TestQuoteCachesPerWeightBucket(t *testing.T) {
	provider := &fakeProvider{cost: 15_000}
	r := testResolver(provider)

	address := &user.Address{ID: 1, CityCode: "501"}
	method := &ShippingMethod{ID: 2, Courier: "jne", Service: "REG"}

	// 800g and 900g land in the same kilogram bucket
	if _, err := r.quote(context.Background(), address, method, []Item{{Quantity: 1, WeightGrams: 800}}); err != nil {
		t.Fatalf("first quote error = %v", err)
	}
	if _, err := r.quote(context.Background(), address, method, []Item{{Quantity: 1, WeightGrams: 900}}); err != nil {
		t.Fatalf("second quote error = %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second lookup served from cache)", provider.calls)
	}

	// 1.5kg is a new bucket
	if _, err := r.quote(context.Background(), address, method, []Item{{Quantity: 1, WeightGrams: 1500}}); err != nil {
		t.Fatalf("third quote error = %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 after new weight bucket", provider.calls)
	}
}

func TestQuoteProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	r := testResolver(provider)

	address := &user.Address{ID: 1, CityCode: "501"}
	method := &ShippingMethod{ID: 2, Courier: "jne", Service: "REG"}
	items := []Item{{Quantity: 1, WeightGrams: 500}}

	_, err := r.quote(context.Background(), address, method, items)
	if !errors.Is(err, ErrShippingUnavailable) {
		t.Errorf("error = %v, want ErrShippingUnavailable", err)
	}
}

func TestQuoteZeroWeight(t *testing.T) {
	provider := &fakeProvider{cost: 15_000}
	r := testResolver(provider)

	address := &user.Address{ID: 1, CityCode: "501"}
	method := &ShippingMethod{ID: 2, Courier: "jne", Service: "REG"}

	if _, err := r.quote(context.Background(), address, method, nil); err == nil {
		t.Error("expected error for zero-weight order")
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}
}
