// internal/service/subscription/payments.go
package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	xerrors "stockpilot-service/internal/pkg/errors"
)

// PaymentVerifier confirms a charge with the payment provider.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// VerifiedPayment is the provider's answer for one reference.
type VerifiedPayment struct {
	Reference string
	Amount    float64 // major currency units
	Currency  string
	PaidAt    time.Time
	Success   bool
}

// PaystackClient verifies charges against the Paystack transaction API.
type PaystackClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string    `json:"status"`
		Reference string    `json:"reference"`
		Amount    int64     `json:"amount"` // minor units (kobo)
		Currency  string    `json:"currency"`
		PaidAt    time.Time `json:"paid_at"`
	} `json:"data"`
}

// VerifyTransaction calls GET /transaction/verify/{reference}. Provider
// unreachability is a transient failure, not a declined payment.
func (p *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, xerrors.Mark(err, xerrors.ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, xerrors.Mark(fmt.Errorf("provider returned %d", resp.StatusCode), xerrors.ErrFetchFailed)
	}

	var body paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, xerrors.Mark(err, xerrors.ErrFetchFailed)
	}

	return &VerifiedPayment{
		Reference: body.Data.Reference,
		Amount:    float64(body.Data.Amount) / 100,
		Currency:  body.Data.Currency,
		PaidAt:    body.Data.PaidAt,
		Success:   body.Status && body.Data.Status == "success",
	}, nil
}
