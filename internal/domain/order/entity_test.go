package order

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{StatusCreated, StatusAwaitingGatewayCallback, true},
		{StatusCreated, StatusAwaitingProofUpload, true},
		{StatusCreated, StatusVerified, false},
		{StatusAwaitingGatewayCallback, StatusVerified, true},
		{StatusAwaitingGatewayCallback, StatusPaymentFailed, true},
		{StatusAwaitingProofUpload, StatusAwaitingAdminReview, true},
		{StatusAwaitingProofUpload, StatusVerified, false},
		{StatusAwaitingAdminReview, StatusVerified, true},
		{StatusAwaitingAdminReview, StatusRejected, true},
		{StatusPaymentFailed, StatusAwaitingGatewayCallback, true},
		{StatusRejected, StatusCancelled, true},
		{StatusRejected, StatusAwaitingAdminReview, false},
		{StatusVerified, StatusCancelled, false},
		{StatusCancelled, StatusCreated, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEveryNonTerminalStateCanCancel(t *testing.T) {
	nonTerminal := []OrderStatus{
		StatusCreated,
		StatusAwaitingGatewayCallback,
		StatusAwaitingProofUpload,
		StatusAwaitingAdminReview,
		StatusPaymentFailed,
		StatusRejected,
	}
	for _, s := range nonTerminal {
		if !s.CanTransitionTo(StatusCancelled) {
			t.Errorf("%s should allow cancellation", s)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []OrderStatus{StatusVerified, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusCreated, StatusAwaitingGatewayCallback, StatusAwaitingProofUpload, StatusAwaitingAdminReview, StatusPaymentFailed, StatusRejected} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
