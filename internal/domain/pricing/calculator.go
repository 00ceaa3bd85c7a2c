// internal/domain/pricing/calculator.go
package pricing

import (
	"time"

	"github.com/your-org/grocery-backend/internal/domain/discount"
)

// ProductDiscountResult holds the outcome of a single product discount
type ProductDiscountResult struct {
	OriginalPrice  int64 `json:"original_price"`
	DiscountAmount int64 `json:"discount_amount"`
	FinalPrice     int64 `json:"final_price"`
}

// VoucherDiscountResult holds the outcome of a voucher validation
type VoucherDiscountResult struct {
	IsValid       bool   `json:"is_valid"`
	DiscountValue int64  `json:"discount_value"`
	MaxDiscount   int64  `json:"max_discount,omitempty"`
	Message       string `json:"message,omitempty"`
}

// CalculateProductDiscount applies a percentage or nominal discount to a
// unit price. The final price never goes below zero.
func CalculateProductDiscount(originalPrice int64, value float64, inputType discount.InputType) ProductDiscountResult {
	if originalPrice < 0 {
		originalPrice = 0
	}

	var amount int64
	switch inputType {
	case discount.InputPercentage:
		amount = int64(float64(originalPrice) * value / 100)
	case discount.InputNominal:
		amount = int64(value)
	}

	if amount < 0 {
		amount = 0
	}
	if amount > originalPrice {
		amount = originalPrice
	}

	return ProductDiscountResult{
		OriginalPrice:  originalPrice,
		DiscountAmount: amount,
		FinalPrice:     originalPrice - amount,
	}
}

// CalculateVoucherDiscount validates a voucher against the order total and
// returns the discount it grants. A nil or expired voucher is invalid and
// grants nothing. Percentage discounts are clamped to the voucher's
// MaxDiscount when set; every discount is clamped to totalAmount.
func CalculateVoucherDiscount(totalAmount int64, v *discount.Voucher, now time.Time) VoucherDiscountResult {
	if v == nil {
		return VoucherDiscountResult{
			IsValid: false,
			Message: "Voucher not found",
		}
	}
	if v.IsExpired(now) {
		return VoucherDiscountResult{
			IsValid: false,
			Message: "Voucher has expired",
		}
	}

	var amount int64
	switch v.DiscountType {
	case discount.InputPercentage:
		amount = int64(float64(totalAmount) * v.DiscountValue / 100)
		if v.MaxDiscount > 0 && amount > v.MaxDiscount {
			amount = v.MaxDiscount
		}
	case discount.InputNominal:
		amount = int64(v.DiscountValue)
	}

	if amount < 0 {
		amount = 0
	}
	if amount > totalAmount {
		amount = totalAmount
	}

	return VoucherDiscountResult{
		IsValid:       true,
		DiscountValue: amount,
		MaxDiscount:   v.MaxDiscount,
	}
}

// CalculateB1G1Discount returns the free-item value granted by a
// buy-one-get-one discount on the product, valued at the undiscounted unit
// price. One free unit per two purchased; the odd unit is always paid.
// Returns zero when no matching discount is active at now or the line's
// gross amount is below the discount's minimum purchase.
func CalculateB1G1Discount(productID uint, quantity int, unitPrice int64, discounts []discount.Discount, now time.Time) int64 {
	if quantity < 2 || unitPrice <= 0 {
		return 0
	}

	lineGross := unitPrice * int64(quantity)
	for _, d := range discounts {
		if d.Scope != discount.ScopeBuyOneGetOne {
			continue
		}
		if !d.IsActiveAt(now) {
			continue
		}
		if !d.AppliesToProduct(productID) {
			continue
		}
		if d.MinPurchase > 0 && lineGross < d.MinPurchase {
			continue
		}
		freeItems := int64(quantity / 2)
		return freeItems * unitPrice
	}

	return 0
}

// Line is one priced cart entry fed into Compute.
type Line struct {
	ProductID uint
	Quantity  int
	UnitPrice int64
}

// PricedLine is a Line with its discounts resolved.
type PricedLine struct {
	ProductID       uint  `json:"product_id"`
	Quantity        int   `json:"quantity"`
	UnitPrice       int64 `json:"unit_price"`
	UnitFinalPrice  int64 `json:"unit_final_price"`
	ProductDiscount int64 `json:"product_discount"`
	B1G1Discount    int64 `json:"b1g1_discount"`
	LineTotal       int64 `json:"line_total"`
}

// Totals is the full pricing breakdown for a cart.
type Totals struct {
	Lines           []PricedLine `json:"lines"`
	Subtotal        int64        `json:"subtotal"`
	ProductDiscount int64        `json:"product_discount"`
	B1G1Discount    int64        `json:"b1g1_discount"`
	VoucherDiscount int64        `json:"voucher_discount"`
	DiscountTotal   int64        `json:"discount_total"`
	Voucher         VoucherDiscountResult
}

// Compute prices a whole cart. Product discounts apply to the unit price
// first, the voucher is computed on the resulting discounted subtotal, and
// buy-one-get-one value is an independent subtracted line. Product discounts
// are already folded into Subtotal, so the caller's grand total is
// Subtotal + shipping - DiscountTotal, floored at zero.
func Compute(lines []Line, discounts []discount.Discount, voucher *discount.Voucher, now time.Time) Totals {
	t := Totals{Lines: make([]PricedLine, 0, len(lines))}

	// minimum-purchase rules compare against undiscounted amounts
	var cartGross int64
	for _, l := range lines {
		cartGross += l.UnitPrice * int64(l.Quantity)
	}

	for _, l := range lines {
		lineGross := l.UnitPrice * int64(l.Quantity)
		unit := bestProductDiscount(l.ProductID, l.UnitPrice, lineGross, cartGross, discounts, now)
		b1g1 := CalculateB1G1Discount(l.ProductID, l.Quantity, l.UnitPrice, discounts, now)

		pl := PricedLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			UnitFinalPrice:  unit.FinalPrice,
			ProductDiscount: unit.DiscountAmount * int64(l.Quantity),
			B1G1Discount:    b1g1,
			LineTotal:       unit.FinalPrice * int64(l.Quantity),
		}

		t.Lines = append(t.Lines, pl)
		t.Subtotal += pl.LineTotal
		t.ProductDiscount += pl.ProductDiscount
		t.B1G1Discount += b1g1
	}

	t.Voucher = CalculateVoucherDiscount(t.Subtotal, voucher, now)
	t.VoucherDiscount = t.Voucher.DiscountValue
	t.DiscountTotal = t.B1G1Discount + t.VoucherDiscount

	return t
}

// bestProductDiscount picks the single applicable product or store discount
// for a line. Product scope wins over store scope; among equals the largest
// amount wins. A product-scope minimum purchase is checked against the
// line's gross amount, a store-scope one against the cart's gross amount.
func bestProductDiscount(productID uint, unitPrice, lineGross, cartGross int64, discounts []discount.Discount, now time.Time) ProductDiscountResult {
	best := ProductDiscountResult{OriginalPrice: unitPrice, FinalPrice: unitPrice}
	bestScope := discount.Scope("")

	for _, d := range discounts {
		if d.Scope == discount.ScopeBuyOneGetOne {
			continue
		}
		if !d.IsActiveAt(now) {
			continue
		}
		if d.Scope == discount.ScopeProduct && !d.AppliesToProduct(productID) {
			continue
		}
		if d.MinPurchase > 0 {
			basis := lineGross
			if d.Scope == discount.ScopeStore {
				basis = cartGross
			}
			if basis < d.MinPurchase {
				continue
			}
		}

		r := CalculateProductDiscount(unitPrice, d.Value, d.InputType)
		if d.MaxDiscount > 0 && r.DiscountAmount > d.MaxDiscount {
			r.DiscountAmount = d.MaxDiscount
			r.FinalPrice = r.OriginalPrice - r.DiscountAmount
		}

		switch {
		case bestScope == discount.ScopeProduct && d.Scope != discount.ScopeProduct:
			continue
		case d.Scope == discount.ScopeProduct && bestScope != discount.ScopeProduct:
			best, bestScope = r, d.Scope
		case r.DiscountAmount > best.DiscountAmount:
			best, bestScope = r, d.Scope
		}
	}

	return best
}
