package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/discount"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/payment"
	"github.com/your-org/grocery-backend/internal/domain/shipping"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/pkg/validation"
)

type fakeStore struct {
	orders      map[uint]*Order
	committed   map[uint]OrderStatus
	nextID      uint
	createErr   error
	createCalls int
	transitions []StockAction
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[uint]*Order{}, committed: map[uint]OrderStatus{}, nextID: 1}
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *Order, history []StatusHistory) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = f.nextID
	f.nextID++
	if o.Payment != nil {
		o.Payment.OrderID = o.ID
	}
	f.orders[o.ID] = o
	f.committed[o.ID] = o.Status
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uint) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// TransitionOrder mirrors the gorm store's conditional update: the caller's
// view of the status must still match what is committed.
func (f *fakeStore) TransitionOrder(ctx context.Context, o *Order, next OrderStatus, action StockAction, history StatusHistory) error {
	if f.committed[o.ID] != o.Status {
		return fmt.Errorf("%w: order %s is no longer %s", ErrInvalidStateTransition, o.OrderNumber, o.Status)
	}
	f.transitions = append(f.transitions, action)
	o.Status = next
	f.committed[o.ID] = next
	o.History = append(o.History, history)
	return nil
}

func (f *fakeStore) ListOrders(ctx context.Context, userID *uint, status *OrderStatus, page, limit int) ([]Order, int64, error) {
	var out []Order
	for _, o := range f.orders {
		if userID != nil && o.UserID != *userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type fakeResolver struct {
	cost  int64
	err   error
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, address *user.Address, methodID uint, items []shipping.Item) (int64, error) {
	f.calls++
	return f.cost, f.err
}

type fakeVouchers struct {
	voucher   *discount.Voucher
	discounts []discount.Discount
}

func (f *fakeVouchers) FindVoucherByCode(ctx context.Context, code string) (*discount.Voucher, error) {
	return f.voucher, nil
}

func (f *fakeVouchers) FindActiveDiscounts(ctx context.Context, productIDs []uint) ([]discount.Discount, error) {
	return f.discounts, nil
}

type fakeGateway struct {
	txn   *payment.Transaction
	err   error
	calls int
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, orderNumber string, grossAmount int64, customer payment.Customer) (*payment.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.txn, nil
}

type fakeCarts struct {
	lines      []cart.Line
	clearCalls int
}

func (f *fakeCarts) Lines(ctx context.Context, userID uint) ([]cart.Line, error) {
	return f.lines, nil
}

func (f *fakeCarts) Clear(ctx context.Context, userID uint) error {
	f.clearCalls++
	return nil
}

type fakeAddresses struct {
	address *user.Address
}

func (f *fakeAddresses) GetAddress(ctx context.Context, userID, addressID uint) (*user.Address, error) {
	if f.address == nil {
		return nil, errors.New("address not found")
	}
	return f.address, nil
}

type fakeUsers struct{}

func (f *fakeUsers) GetProfile(userID uint) (*user.User, error) {
	return &user.User{ID: userID, Email: "buyer@example.com", FirstName: "Budi"}, nil
}

type fixture struct {
	service  *Service
	store    *fakeStore
	resolver *fakeResolver
	vouchers *fakeVouchers
	gateway  *fakeGateway
	carts    *fakeCarts
}

func newFixture() *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Checkout: config.CheckoutConfig{
			StrictVoucher:      false,
			CancelReasonMaxLen: 500,
		},
	}

	f := &fixture{
		store:    newFakeStore(),
		resolver: &fakeResolver{cost: 15_000},
		vouchers: &fakeVouchers{},
		gateway:  &fakeGateway{txn: &payment.Transaction{TransactionID: "txn-1", RedirectURL: "https://pay.example/txn-1"}},
		carts: &fakeCarts{lines: []cart.Line{
			{ProductID: 1, ProductName: "Beras 5kg", SKU: "RICE-5", Quantity: 1, UnitPrice: 100_000, WeightGrams: 5000},
		}},
	}
	f.service = NewService(f.store, f.resolver, f.vouchers, f.gateway, f.carts,
		&fakeAddresses{address: &user.Address{ID: 10, UserID: 1, RecipientName: "Budi", CityCode: "501"}},
		&fakeUsers{}, cfg, log)
	return f
}

func TestCreateOrderGatewayPath(t *testing.T) {
	f := newFixture()
	pid := uint(1)
	f.vouchers.discounts = []discount.Discount{{
		Scope:     discount.ScopeProduct,
		InputType: discount.InputPercentage,
		Value:     10,
		ProductID: &pid,
		IsActive:  true,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
	}}
	f.vouchers.voucher = &discount.Voucher{
		Code:          "SAVE5K",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     time.Now().Add(time.Hour),
	}

	o, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		VoucherCode:      "SAVE5K",
		PaymentMethod:    PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	// 100,000 - 10% product discount = 90,000 subtotal,
	// voucher 5,000, shipping 15,000
	if o.Subtotal != 90_000 {
		t.Errorf("Subtotal = %d, want 90000", o.Subtotal)
	}
	if o.DiscountAmount != 5_000 {
		t.Errorf("DiscountAmount = %d, want 5000", o.DiscountAmount)
	}
	if o.ShippingCost != 15_000 {
		t.Errorf("ShippingCost = %d, want 15000", o.ShippingCost)
	}
	if o.TotalAmount != 100_000 {
		t.Errorf("TotalAmount = %d, want 100000", o.TotalAmount)
	}
	if o.Status != StatusAwaitingGatewayCallback {
		t.Errorf("Status = %s, want %s", o.Status, StatusAwaitingGatewayCallback)
	}
	if o.Payment == nil || o.Payment.TransactionID != "txn-1" || o.Payment.RedirectURL == "" {
		t.Errorf("Payment = %+v, want gateway session persisted", o.Payment)
	}
	if f.carts.clearCalls != 1 {
		t.Errorf("cart clear calls = %d, want 1", f.carts.clearCalls)
	}
}

func TestCreateOrderManualPath(t *testing.T) {
	f := newFixture()

	o, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if o.Status != StatusAwaitingProofUpload {
		t.Errorf("Status = %s, want %s", o.Status, StatusAwaitingProofUpload)
	}
	if f.gateway.calls != 0 {
		t.Errorf("gateway calls = %d, want 0 for manual transfer", f.gateway.calls)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.lines = nil

	_, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodManual,
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("error = %v, want ErrEmptyCart", err)
	}
	if f.store.createCalls != 0 {
		t.Errorf("store create calls = %d, want 0", f.store.createCalls)
	}
}

func TestCreateOrderShippingFailureIsAtomic(t *testing.T) {
	f := newFixture()
	f.resolver.err = shipping.ErrShippingUnavailable

	_, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodManual,
	})
	if !errors.Is(err, shipping.ErrShippingUnavailable) {
		t.Errorf("error = %v, want ErrShippingUnavailable", err)
	}
	if f.store.createCalls != 0 {
		t.Errorf("store create calls = %d, want 0: nothing may persist when shipping fails", f.store.createCalls)
	}
	if len(f.store.orders) != 0 {
		t.Errorf("orders persisted = %d, want 0", len(f.store.orders))
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newFixture()
	f.store.createErr = &inventory.InsufficientStockError{ProductID: 1, Requested: 1, Available: 0}

	_, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodManual,
	})

	var stockErr *inventory.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("error = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductID != 1 {
		t.Errorf("ProductID = %d, want 1 identifying the offending line", stockErr.ProductID)
	}
}

func TestCreateOrderExpiredVoucherLenient(t *testing.T) {
	f := newFixture()
	f.vouchers.voucher = &discount.Voucher{
		Code:          "OLD",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     time.Now().Add(-time.Hour),
	}

	o, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		VoucherCode:      "OLD",
		PaymentMethod:    PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v, lenient policy should proceed", err)
	}
	if o.DiscountAmount != 0 {
		t.Errorf("DiscountAmount = %d, want 0 without voucher", o.DiscountAmount)
	}
	if o.VoucherCode != "" {
		t.Errorf("VoucherCode = %q, want empty when voucher was dropped", o.VoucherCode)
	}
}

func TestCreateOrderExpiredVoucherStrict(t *testing.T) {
	f := newFixture()
	f.service.config.Checkout.StrictVoucher = true
	f.vouchers.voucher = &discount.Voucher{
		Code:          "OLD",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     time.Now().Add(-time.Hour),
	}

	_, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		VoucherCode:      "OLD",
		PaymentMethod:    PaymentMethodManual,
	})
	if !errors.Is(err, ErrVoucherInvalid) {
		t.Errorf("error = %v, want ErrVoucherInvalid under strict policy", err)
	}
	if f.store.createCalls != 0 {
		t.Errorf("store create calls = %d, want 0", f.store.createCalls)
	}
}

func createGatewayOrder(t *testing.T, f *fixture) *Order {
	t.Helper()
	o, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	return o
}

func createManualOrder(t *testing.T, f *fixture) *Order {
	t.Helper()
	o, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	return o
}

func TestHandlePaymentCallbackVerified(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)

	got, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", true)
	if err != nil {
		t.Fatalf("HandlePaymentCallback() error = %v", err)
	}
	if got.Status != StatusVerified {
		t.Errorf("Status = %s, want %s", got.Status, StatusVerified)
	}
	if !got.Payment.IsVerified {
		t.Error("Payment.IsVerified = false, want true")
	}
	if len(f.store.transitions) != 1 || f.store.transitions[0] != StockDeduct {
		t.Errorf("transitions = %v, want single StockDeduct", f.store.transitions)
	}
}

func TestHandlePaymentCallbackIdempotent(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)

	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", true); err != nil {
		t.Fatalf("first callback error = %v", err)
	}
	got, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", true)
	if err != nil {
		t.Fatalf("repeated callback error = %v, want no-op", err)
	}
	if got.Status != StatusVerified {
		t.Errorf("Status = %s, want %s", got.Status, StatusVerified)
	}
	if len(f.store.transitions) != 1 {
		t.Errorf("transitions = %d, want 1: repeated callback must not transition again", len(f.store.transitions))
	}
}

func TestHandlePaymentCallbackConflictRejected(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)

	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", true); err != nil {
		t.Fatalf("first callback error = %v", err)
	}

	_, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", false)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("error = %v, want ErrInvalidStateTransition for conflicting outcome", err)
	}

	got, _ := f.store.GetOrder(context.Background(), o.ID)
	if got.Status != StatusVerified {
		t.Errorf("Status = %s, want unchanged %s", got.Status, StatusVerified)
	}
}

func TestHandlePaymentCallbackFailureReleasesStock(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)

	got, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", false)
	if err != nil {
		t.Fatalf("HandlePaymentCallback() error = %v", err)
	}
	if got.Status != StatusPaymentFailed {
		t.Errorf("Status = %s, want %s", got.Status, StatusPaymentFailed)
	}
	if len(f.store.transitions) != 1 || f.store.transitions[0] != StockRelease {
		t.Errorf("transitions = %v, want single StockRelease", f.store.transitions)
	}
}

func TestHandlePaymentCallbackUnknownTransaction(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)

	_, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-other", true)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("error = %v, want ErrInvalidStateTransition for unknown transaction", err)
	}
}

func TestConfirmOrder(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)
	if _, err := f.service.SubmitPaymentProof(context.Background(), o.ID, 1, "https://img.example/proof.jpg"); err != nil {
		t.Fatalf("SubmitPaymentProof() error = %v", err)
	}

	got, err := f.service.ConfirmOrder(context.Background(), o.ID, 99)
	if err != nil {
		t.Fatalf("ConfirmOrder() error = %v", err)
	}
	if got.Status != StatusVerified {
		t.Errorf("Status = %s, want %s", got.Status, StatusVerified)
	}
	if !got.Payment.IsVerified {
		t.Error("Payment.IsVerified = false, want true after confirmation")
	}
	last := f.store.transitions[len(f.store.transitions)-1]
	if last != StockDeduct {
		t.Errorf("last stock action = %v, want StockDeduct", last)
	}
}

func TestConfirmOrderWrongState(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)

	_, err := f.service.ConfirmOrder(context.Background(), o.ID, 99)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("error = %v, want ErrInvalidStateTransition before proof upload", err)
	}
}

func TestRejectOrderReleasesStock(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)
	if _, err := f.service.SubmitPaymentProof(context.Background(), o.ID, 1, "https://img.example/proof.jpg"); err != nil {
		t.Fatalf("SubmitPaymentProof() error = %v", err)
	}

	got, err := f.service.RejectOrder(context.Background(), o.ID, "proof unreadable", 99)
	if err != nil {
		t.Fatalf("RejectOrder() error = %v", err)
	}
	if got.Status != StatusRejected {
		t.Errorf("Status = %s, want %s", got.Status, StatusRejected)
	}
	last := f.store.transitions[len(f.store.transitions)-1]
	if last != StockRelease {
		t.Errorf("last stock action = %v, want StockRelease", last)
	}
}

func TestCancelOrder(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)
	userID := uint(1)

	got, err := f.service.CancelOrder(context.Background(), o.ID, "changed my mind", &userID)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("Status = %s, want %s", got.Status, StatusCancelled)
	}
	if got.CancelReason != "changed my mind" {
		t.Errorf("CancelReason = %q", got.CancelReason)
	}
	last := f.store.transitions[len(f.store.transitions)-1]
	if last != StockRelease {
		t.Errorf("last stock action = %v, want StockRelease", last)
	}
}

func TestCancelOrderRequiresReason(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)
	userID := uint(1)

	_, err := f.service.CancelOrder(context.Background(), o.ID, "   ", &userID)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want ValidationError for empty reason", err)
	}
}

func TestCancelVerifiedOrderRejected(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)
	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", true); err != nil {
		t.Fatalf("callback error = %v", err)
	}
	userID := uint(1)

	_, err := f.service.CancelOrder(context.Background(), o.ID, "too late", &userID)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("error = %v, want ErrInvalidStateTransition for verified order", err)
	}

	got, _ := f.store.GetOrder(context.Background(), o.ID)
	if got.Status != StatusVerified {
		t.Errorf("Status = %s, want unchanged %s", got.Status, StatusVerified)
	}
}

func TestCancelAfterPaymentFailedDoesNotDoubleRelease(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)
	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", false); err != nil {
		t.Fatalf("callback error = %v", err)
	}
	userID := uint(1)

	_, err := f.service.CancelOrder(context.Background(), o.ID, "giving up", &userID)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	last := f.store.transitions[len(f.store.transitions)-1]
	if last != StockNone {
		t.Errorf("last stock action = %v, want StockNone: failure already released the hold", last)
	}
}

func TestRetryPaymentReservesAgain(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)
	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", false); err != nil {
		t.Fatalf("callback error = %v", err)
	}
	f.gateway.txn = &payment.Transaction{TransactionID: "txn-2", RedirectURL: "https://pay.example/txn-2"}

	got, err := f.service.RetryPayment(context.Background(), o.ID, 1)
	if err != nil {
		t.Fatalf("RetryPayment() error = %v", err)
	}
	if got.Status != StatusAwaitingGatewayCallback {
		t.Errorf("Status = %s, want %s", got.Status, StatusAwaitingGatewayCallback)
	}
	if got.Payment.TransactionID != "txn-2" {
		t.Errorf("TransactionID = %q, want new session txn-2", got.Payment.TransactionID)
	}
	last := f.store.transitions[len(f.store.transitions)-1]
	if last != StockReserve {
		t.Errorf("last stock action = %v, want StockReserve", last)
	}
}

func TestCancelLosesRaceAgainstRetry(t *testing.T) {
	f := newFixture()
	o := createGatewayOrder(t, f)
	if _, err := f.service.HandlePaymentCallback(context.Background(), o.OrderNumber, "txn-1", false); err != nil {
		t.Fatalf("callback error = %v", err)
	}
	userID := uint(1)

	// a retry committed between this request's read and its write
	f.store.committed[o.ID] = StatusAwaitingGatewayCallback
	before := len(f.store.transitions)

	_, err := f.service.CancelOrder(context.Background(), o.ID, "giving up", &userID)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("error = %v, want ErrInvalidStateTransition when the status moved", err)
	}
	if len(f.store.transitions) != before {
		t.Errorf("transitions = %d, want %d: losing the race must not touch stock", len(f.store.transitions), before)
	}
}

func TestCancelReasonLimitCountsRunes(t *testing.T) {
	f := newFixture()
	userID := uint(1)

	multibyte := strings.Repeat("é", 400)
	o := createManualOrder(t, f)
	if _, err := f.service.CancelOrder(context.Background(), o.ID, multibyte, &userID); err != nil {
		t.Errorf("CancelOrder() error = %v, want 400-character reason accepted", err)
	}

	o2 := createManualOrder(t, f)
	_, err := f.service.CancelOrder(context.Background(), o2.ID, strings.Repeat("a", 501), &userID)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want ValidationError for 501-character reason", err)
	}
}

func TestSubmitPaymentProofOwnership(t *testing.T) {
	f := newFixture()
	o := createManualOrder(t, f)

	_, err := f.service.SubmitPaymentProof(context.Background(), o.ID, 2, "https://img.example/proof.jpg")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("error = %v, want ErrOrderNotFound for another user", err)
	}
}

func TestPreviewCheckout(t *testing.T) {
	f := newFixture()
	f.vouchers.voucher = &discount.Voucher{
		Code:          "SAVE5K",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     time.Now().Add(time.Hour),
	}

	resp, err := f.service.PreviewCheckout(context.Background(), 1, &PreviewRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		VoucherCode:      "save5k",
	})
	if err != nil {
		t.Fatalf("PreviewCheckout() error = %v", err)
	}

	if !resp.ShippingAvailable {
		t.Error("ShippingAvailable = false, want true")
	}
	if resp.ShippingCost != 15_000 {
		t.Errorf("ShippingCost = %d, want 15000", resp.ShippingCost)
	}
	if resp.TotalAmount != 110_000 {
		t.Errorf("TotalAmount = %d, want 110000", resp.TotalAmount)
	}
	if resp.VoucherMessage != "" {
		t.Errorf("VoucherMessage = %q, want empty", resp.VoucherMessage)
	}
	if f.store.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", f.store.createCalls)
	}
}

func TestPreviewCheckoutShippingUnavailable(t *testing.T) {
	f := newFixture()
	f.resolver.err = shipping.ErrShippingUnavailable

	resp, err := f.service.PreviewCheckout(context.Background(), 1, &PreviewRequest{
		AddressID:        10,
		ShippingMethodID: 2,
	})
	if err != nil {
		t.Fatalf("PreviewCheckout() error = %v", err)
	}

	if resp.ShippingAvailable {
		t.Error("ShippingAvailable = true, want false")
	}
	if resp.ShippingCost != 0 {
		t.Errorf("ShippingCost = %d, want 0", resp.ShippingCost)
	}
	if resp.TotalAmount != 100_000 {
		t.Errorf("TotalAmount = %d, want 100000", resp.TotalAmount)
	}
}

func TestPreviewCheckoutExpiredVoucherMessage(t *testing.T) {
	f := newFixture()
	f.vouchers.voucher = &discount.Voucher{
		Code:          "OLD",
		DiscountType:  discount.InputNominal,
		DiscountValue: 5_000,
		ExpiredAt:     time.Now().Add(-time.Hour),
	}

	resp, err := f.service.PreviewCheckout(context.Background(), 1, &PreviewRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		VoucherCode:      "OLD",
	})
	if err != nil {
		t.Fatalf("PreviewCheckout() error = %v", err)
	}

	if resp.VoucherMessage != "Voucher has expired" {
		t.Errorf("VoucherMessage = %q, want %q", resp.VoucherMessage, "Voucher has expired")
	}
	if resp.Totals.VoucherDiscount != 0 {
		t.Errorf("VoucherDiscount = %d, want 0", resp.Totals.VoucherDiscount)
	}
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		AddressID:        10,
		ShippingMethodID: 2,
		PaymentMethod:    "cash_on_delivery",
	})

	var ferrs validation.Errors
	if !errors.As(err, &ferrs) {
		t.Fatalf("error = %v, want validation.Errors", err)
	}
	if f.store.createCalls != 0 {
		t.Errorf("store create calls = %d, want 0", f.store.createCalls)
	}
}
