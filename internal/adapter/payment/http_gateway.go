package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

// HTTPGateway submits payment authorizations to the provider's JSON API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type authorizeRequest struct {
	SessionID string `json:"session_id"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
}

type authorizeResponse struct {
	AuthorizedAmount string `json:"authorized_amount"`
}

func (g *HTTPGateway) Submit(ctx context.Context, req domain.PaymentRequest) (decimal.Decimal, error) {
	body, err := json.Marshal(authorizeRequest{
		SessionID: req.SessionID,
		Amount:    req.Amount.StringFixed(2),
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("marshal authorize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/authorize", bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("build authorize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return decimal.Zero, domain.ErrPaymentDeclined
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d", domain.ErrPaymentUnavailable, resp.StatusCode)
	}

	var out authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %v", domain.ErrPaymentUnavailable, err)
	}
	authorized, err := decimal.NewFromString(out.AuthorizedAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad authorized amount %q", domain.ErrPaymentUnavailable, out.AuthorizedAmount)
	}
	return authorized, nil
}
