package discount

import (
	"testing"
	"time"
)

func TestIsActiveAt(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		discount Discount
		at       time.Time
		want     bool
	}{
		{
			name:     "inside window",
			discount: Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			at:       now,
			want:     true,
		},
		{
			name:     "before window",
			discount: Discount{IsActive: true, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)},
			at:       now,
			want:     false,
		},
		{
			name:     "after window",
			discount: Discount{IsActive: true, StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour)},
			at:       now,
			want:     false,
		},
		{
			name:     "disabled inside window",
			discount: Discount{IsActive: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			at:       now,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.discount.IsActiveAt(tt.at); got != tt.want {
				t.Errorf("IsActiveAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppliesToProduct(t *testing.T) {
	pid := uint(7)
	other := uint(8)

	tests := []struct {
		name     string
		discount Discount
		product  uint
		want     bool
	}{
		{"product scope matching", Discount{Scope: ScopeProduct, ProductID: &pid}, 7, true},
		{"product scope other product", Discount{Scope: ScopeProduct, ProductID: &other}, 7, false},
		{"product scope nil product", Discount{Scope: ScopeProduct}, 7, false},
		{"b1g1 scope matching", Discount{Scope: ScopeBuyOneGetOne, ProductID: &pid}, 7, true},
		{"store scope applies to all", Discount{Scope: ScopeStore}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.discount.AppliesToProduct(tt.product); got != tt.want {
				t.Errorf("AppliesToProduct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVoucherIsExpired(t *testing.T) {
	now := time.Now()
	v := Voucher{ExpiredAt: now}

	if v.IsExpired(now.Add(-time.Minute)) {
		t.Error("IsExpired() = true before expiry")
	}
	if !v.IsExpired(now.Add(time.Minute)) {
		t.Error("IsExpired() = false after expiry")
	}
}
