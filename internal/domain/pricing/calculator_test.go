package pricing

import (
	"testing"
	"time"

	"github.com/your-org/grocery-backend/internal/domain/discount"
)

func TestCalculateProductDiscount(t *testing.T) {
	tests := []struct {
		name       string
		price      int64
		value      float64
		inputType  discount.InputType
		wantAmount int64
		wantFinal  int64
	}{
		{"ten percent", 100_000, 10, discount.InputPercentage, 10_000, 90_000},
		{"hundred percent", 100_000, 100, discount.InputPercentage, 100_000, 0},
		{"zero percent", 100_000, 0, discount.InputPercentage, 0, 100_000},
		{"nominal under price", 50_000, 5_000, discount.InputNominal, 5_000, 45_000},
		{"nominal exceeds price", 5_000, 50_000, discount.InputNominal, 5_000, 0},
		{"nominal equals price", 5_000, 5_000, discount.InputNominal, 5_000, 0},
		{"zero price", 0, 50, discount.InputPercentage, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProductDiscount(tt.price, tt.value, tt.inputType)
			if got.DiscountAmount != tt.wantAmount {
				t.Errorf("DiscountAmount = %d, want %d", got.DiscountAmount, tt.wantAmount)
			}
			if got.FinalPrice != tt.wantFinal {
				t.Errorf("FinalPrice = %d, want %d", got.FinalPrice, tt.wantFinal)
			}
			if got.FinalPrice < 0 {
				t.Errorf("FinalPrice = %d, must never be negative", got.FinalPrice)
			}
		})
	}
}

func TestCalculateVoucherDiscount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name        string
		total       int64
		voucher     *discount.Voucher
		wantValid   bool
		wantValue   int64
		wantMessage string
	}{
		{
			name:        "nil voucher",
			total:       90_000,
			voucher:     nil,
			wantValid:   false,
			wantValue:   0,
			wantMessage: "Voucher not found",
		},
		{
			name:  "expired voucher",
			total: 90_000,
			voucher: &discount.Voucher{
				Code: "OLD", DiscountType: discount.InputNominal,
				DiscountValue: 5_000, ExpiredAt: past,
			},
			wantValid:   false,
			wantValue:   0,
			wantMessage: "Voucher has expired",
		},
		{
			name:  "nominal within subtotal",
			total: 90_000,
			voucher: &discount.Voucher{
				Code: "SAVE5K", DiscountType: discount.InputNominal,
				DiscountValue: 5_000, ExpiredAt: future,
			},
			wantValid: true,
			wantValue: 5_000,
		},
		{
			name:  "nominal clamped to subtotal",
			total: 3_000,
			voucher: &discount.Voucher{
				Code: "SAVE5K", DiscountType: discount.InputNominal,
				DiscountValue: 5_000, ExpiredAt: future,
			},
			wantValid: true,
			wantValue: 3_000,
		},
		{
			name:  "percentage clamped to max discount",
			total: 200_000,
			voucher: &discount.Voucher{
				Code: "PCT20", DiscountType: discount.InputPercentage,
				DiscountValue: 20, MaxDiscount: 25_000, ExpiredAt: future,
			},
			wantValid: true,
			wantValue: 25_000,
		},
		{
			name:  "percentage under max discount",
			total: 100_000,
			voucher: &discount.Voucher{
				Code: "PCT20", DiscountType: discount.InputPercentage,
				DiscountValue: 20, MaxDiscount: 25_000, ExpiredAt: future,
			},
			wantValid: true,
			wantValue: 20_000,
		},
		{
			name:  "percentage without max discount",
			total: 100_000,
			voucher: &discount.Voucher{
				Code: "PCT50", DiscountType: discount.InputPercentage,
				DiscountValue: 50, ExpiredAt: future,
			},
			wantValid: true,
			wantValue: 50_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVoucherDiscount(tt.total, tt.voucher, now)
			if got.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", got.IsValid, tt.wantValid)
			}
			if got.DiscountValue != tt.wantValue {
				t.Errorf("DiscountValue = %d, want %d", got.DiscountValue, tt.wantValue)
			}
			if tt.wantMessage != "" && got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.DiscountValue > tt.total {
				t.Errorf("DiscountValue = %d exceeds total %d", got.DiscountValue, tt.total)
			}
		})
	}
}

func TestCalculateB1G1Discount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(7)
	b1g1 := []discount.Discount{{
		Scope:     discount.ScopeBuyOneGetOne,
		ProductID: &pid,
		IsActive:  true,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}}
	expired := []discount.Discount{{
		Scope:     discount.ScopeBuyOneGetOne,
		ProductID: &pid,
		IsActive:  true,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-24 * time.Hour),
	}}
	minPurchase := []discount.Discount{{
		Scope:       discount.ScopeBuyOneGetOne,
		ProductID:   &pid,
		IsActive:    true,
		MinPurchase: 50_000,
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
	}}

	tests := []struct {
		name      string
		productID uint
		quantity  int
		unitPrice int64
		discounts []discount.Discount
		want      int64
	}{
		{"five units two free", 7, 5, 10_000, b1g1, 20_000},
		{"one unit none free", 7, 1, 10_000, b1g1, 0},
		{"two units one free", 7, 2, 10_000, b1g1, 10_000},
		{"three units one free odd unit paid", 7, 3, 10_000, b1g1, 10_000},
		{"four units two free", 7, 4, 10_000, b1g1, 20_000},
		{"different product", 8, 6, 10_000, b1g1, 0},
		{"no discounts", 7, 6, 10_000, nil, 0},
		{"zero quantity", 7, 0, 10_000, b1g1, 0},
		{"window ended", 7, 4, 10_000, expired, 0},
		{"line below minimum purchase", 7, 4, 10_000, minPurchase, 0},
		{"line meets minimum purchase", 7, 6, 10_000, minPurchase, 30_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateB1G1Discount(tt.productID, tt.quantity, tt.unitPrice, tt.discounts, now)
			if got != tt.want {
				t.Errorf("CalculateB1G1Discount() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Product discount applies to the unit price before the voucher is computed
// on the discounted subtotal.
func TestComputePrecedence(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(1)

	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: 100_000}}
	discounts := []discount.Discount{{
		Scope:     discount.ScopeProduct,
		InputType: discount.InputPercentage,
		Value:     10,
		ProductID: &pid,
		IsActive:  true,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}}
	voucher := &discount.Voucher{
		Code:          "SAVE5K",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     now.Add(time.Hour),
	}

	got := Compute(lines, discounts, voucher, now)

	if got.ProductDiscount != 10_000 {
		t.Errorf("ProductDiscount = %d, want 10000", got.ProductDiscount)
	}
	if got.Subtotal != 90_000 {
		t.Errorf("Subtotal = %d, want 90000", got.Subtotal)
	}
	if got.VoucherDiscount != 5_000 {
		t.Errorf("VoucherDiscount = %d, want 5000", got.VoucherDiscount)
	}

	// shipping resolved externally at 15,000
	total := got.Subtotal + 15_000 - got.DiscountTotal
	if total != 100_000 {
		t.Errorf("grand total = %d, want 100000", total)
	}
}

// Buy-one-get-one is an independent subtracted line valued at the
// undiscounted unit price, not compounded with percentage discounts.
func TestComputeB1G1Independent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(2)

	lines := []Line{{ProductID: 2, Quantity: 4, UnitPrice: 10_000}}
	discounts := []discount.Discount{
		{
			Scope:     discount.ScopeProduct,
			InputType: discount.InputPercentage,
			Value:     10,
			ProductID: &pid,
			IsActive:  true,
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(time.Hour),
		},
		{
			Scope:     discount.ScopeBuyOneGetOne,
			ProductID: &pid,
			IsActive:  true,
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(time.Hour),
		},
	}

	got := Compute(lines, discounts, nil, now)

	// 4 units at 9,000 after the 10% product discount
	if got.Subtotal != 36_000 {
		t.Errorf("Subtotal = %d, want 36000", got.Subtotal)
	}
	// 2 free units at the undiscounted 10,000
	if got.B1G1Discount != 20_000 {
		t.Errorf("B1G1Discount = %d, want 20000", got.B1G1Discount)
	}
}

func TestComputeProductScopeWinsOverStore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(3)

	lines := []Line{{ProductID: 3, Quantity: 1, UnitPrice: 100_000}}
	discounts := []discount.Discount{
		{
			Scope:     discount.ScopeStore,
			InputType: discount.InputPercentage,
			Value:     20,
			IsActive:  true,
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(time.Hour),
		},
		{
			Scope:     discount.ScopeProduct,
			InputType: discount.InputPercentage,
			Value:     5,
			ProductID: &pid,
			IsActive:  true,
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(time.Hour),
		},
	}

	got := Compute(lines, discounts, nil, now)

	if got.ProductDiscount != 5_000 {
		t.Errorf("ProductDiscount = %d, want 5000 (product scope wins)", got.ProductDiscount)
	}
}

func TestComputeInactiveDiscountIgnored(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(4)

	lines := []Line{{ProductID: 4, Quantity: 1, UnitPrice: 50_000}}
	discounts := []discount.Discount{{
		Scope:     discount.ScopeProduct,
		InputType: discount.InputPercentage,
		Value:     50,
		ProductID: &pid,
		IsActive:  true,
		StartDate: now.Add(time.Hour), // not started yet
		EndDate:   now.Add(2 * time.Hour),
	}}

	got := Compute(lines, discounts, nil, now)

	if got.ProductDiscount != 0 {
		t.Errorf("ProductDiscount = %d, want 0 for a not-yet-active discount", got.ProductDiscount)
	}
	if got.Subtotal != 50_000 {
		t.Errorf("Subtotal = %d, want 50000", got.Subtotal)
	}
}

func TestComputeB1G1OutsideWindowIgnored(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(5)

	lines := []Line{{ProductID: 5, Quantity: 4, UnitPrice: 10_000}}
	discounts := []discount.Discount{{
		Scope:     discount.ScopeBuyOneGetOne,
		ProductID: &pid,
		IsActive:  true,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-24 * time.Hour), // ended yesterday
	}}

	got := Compute(lines, discounts, nil, now)

	if got.B1G1Discount != 0 {
		t.Errorf("B1G1Discount = %d, want 0 for a lapsed promotion", got.B1G1Discount)
	}
	if got.Subtotal != 40_000 {
		t.Errorf("Subtotal = %d, want 40000", got.Subtotal)
	}
}

func TestComputeMinPurchaseGatesDiscounts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pid := uint(6)

	lines := []Line{{ProductID: 6, Quantity: 1, UnitPrice: 10_000}}
	discounts := []discount.Discount{
		{
			Scope:       discount.ScopeProduct,
			InputType:   discount.InputPercentage,
			Value:       10,
			ProductID:   &pid,
			MinPurchase: 50_000,
			IsActive:    true,
			StartDate:   now.Add(-time.Hour),
			EndDate:     now.Add(time.Hour),
		},
		{
			Scope:       discount.ScopeStore,
			InputType:   discount.InputPercentage,
			Value:       20,
			MinPurchase: 100_000,
			IsActive:    true,
			StartDate:   now.Add(-time.Hour),
			EndDate:     now.Add(time.Hour),
		},
	}

	got := Compute(lines, discounts, nil, now)
	if got.ProductDiscount != 0 {
		t.Errorf("ProductDiscount = %d, want 0 below both minimums", got.ProductDiscount)
	}

	// a bigger cart satisfies the store minimum through other lines
	lines = []Line{
		{ProductID: 6, Quantity: 1, UnitPrice: 10_000},
		{ProductID: 9, Quantity: 10, UnitPrice: 10_000},
	}
	got = Compute(lines, discounts, nil, now)

	// store discount now applies to every line; the product discount's
	// own line still misses its 50,000 minimum
	if got.ProductDiscount != 22_000 {
		t.Errorf("ProductDiscount = %d, want 22000 (20%% store discount on 110000 gross)", got.ProductDiscount)
	}
}
