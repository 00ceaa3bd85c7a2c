// internal/domain/shipping/provider.go
package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/your-org/grocery-backend/internal/config"
)

// RateProvider quotes a shipping cost for a destination and weight.
// Implementations must honor ctx cancellation.
type RateProvider interface {
	Quote(ctx context.Context, origin, destination string, weightGrams int, courier, service string) (int64, error)
}

// httpRateProvider calls a city-to-city courier rate API
type httpRateProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPRateProvider creates a rate provider backed by the configured API
func NewHTTPRateProvider(cfg *config.ShippingRatesConfig) RateProvider {
	return &httpRateProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type rateResponse struct {
	Rajaongkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results []struct {
			Code  string `json:"code"`
			Costs []struct {
				Service string `json:"service"`
				Cost    []struct {
					Value int64  `json:"value"`
					ETD   string `json:"etd"`
				} `json:"cost"`
			} `json:"costs"`
		} `json:"results"`
	} `json:"rajaongkir"`
}

func (p *httpRateProvider) Quote(ctx context.Context, origin, destination string, weightGrams int, courier, service string) (int64, error) {
	form := url.Values{}
	form.Set("origin", origin)
	form.Set("destination", destination)
	form.Set("weight", strconv.Itoa(weightGrams))
	form.Set("courier", courier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed rateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse rate response: %w", err)
	}
	if parsed.Rajaongkir.Status.Code != 200 {
		return 0, fmt.Errorf("rate API error: %s", parsed.Rajaongkir.Status.Description)
	}

	for _, result := range parsed.Rajaongkir.Results {
		for _, c := range result.Costs {
			if !strings.EqualFold(c.Service, service) {
				continue
			}
			if len(c.Cost) == 0 {
				continue
			}
			return c.Cost[0].Value, nil
		}
	}

	return 0, fmt.Errorf("no rate found for courier %s service %s", courier, service)
}
