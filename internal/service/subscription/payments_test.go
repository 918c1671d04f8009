package subscription

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "stockpilot-service/internal/pkg/errors"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/42-monthly_pro-abc", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "42-monthly_pro-abc",
				"amount": 1500000,
				"currency": "NGN",
				"paid_at": "2024-05-01T10:00:00Z"
			}
		}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_secret")
	payment, err := client.VerifyTransaction(context.Background(), "42-monthly_pro-abc")
	require.NoError(t, err)

	assert.True(t, payment.Success)
	assert.Equal(t, "42-monthly_pro-abc", payment.Reference)
	assert.Equal(t, 15000.0, payment.Amount) // kobo converted to naira
	assert.Equal(t, "NGN", payment.Currency)
}

func TestVerifyTransactionDeclinedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": true, "data": {"status": "abandoned", "reference": "42-monthly_pro-abc"}}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_secret")
	payment, err := client.VerifyTransaction(context.Background(), "42-monthly_pro-abc")
	require.NoError(t, err)

	assert.False(t, payment.Success)
}

func TestVerifyTransactionProviderOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_secret")
	_, err := client.VerifyTransaction(context.Background(), "42-monthly_pro-abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrFetchFailed))
}

func TestVerifyTransactionUnreachableProvider(t *testing.T) {
	client := NewPaystackClient("http://127.0.0.1:1", "sk_test_secret")
	_, err := client.VerifyTransaction(context.Background(), "42-monthly_pro-abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrFetchFailed))
}
