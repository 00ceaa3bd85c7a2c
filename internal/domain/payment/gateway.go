// internal/domain/payment/gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/your-org/grocery-backend/internal/config"
)

// Transaction is a hosted-payment-page session created for an order
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	RedirectURL   string `json:"redirect_url"`
}

// Customer identifies the payer on the gateway's checkout page
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Gateway creates payment sessions with the external payment provider.
// The provider reports the outcome through a signed webhook callback.
type Gateway interface {
	CreateTransaction(ctx context.Context, orderNumber string, grossAmount int64, customer Customer) (*Transaction, error)
}

// httpGateway implements Gateway against a snap-style hosted payment API
type httpGateway struct {
	baseURL     string
	serverKey   string
	callbackURL string
	client      *http.Client
}

// NewHTTPGateway creates a gateway client from configuration
func NewHTTPGateway(cfg *config.PaymentGatewayConfig) Gateway {
	return &httpGateway{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		serverKey:   cfg.ServerKey,
		callbackURL: cfg.CallbackURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails Customer `json:"customer_details"`
	Callbacks       struct {
		Finish string `json:"finish,omitempty"`
	} `json:"callbacks"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages"`
}

func (g *httpGateway) CreateTransaction(ctx context.Context, orderNumber string, grossAmount int64, customer Customer) (*Transaction, error) {
	payload := snapRequest{CustomerDetails: customer}
	payload.TransactionDetails.OrderID = orderNumber
	payload.TransactionDetails.GrossAmount = grossAmount
	payload.Callbacks.Finish = g.callbackURL

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(g.serverKey, "")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var parsed snapResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg := strings.Join(parsed.ErrorMessages, "; ")
		if msg == "" {
			msg = string(raw)
		}
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, msg)
	}
	if parsed.Token == "" || parsed.RedirectURL == "" {
		return nil, fmt.Errorf("gateway response missing token or redirect URL")
	}

	return &Transaction{
		TransactionID: parsed.Token,
		RedirectURL:   parsed.RedirectURL,
	}, nil
}
