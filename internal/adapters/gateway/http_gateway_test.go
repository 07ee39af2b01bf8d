package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/farm_payouts/internal/adapters/gateway"
	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchRequest(currency string) gateways.DispatchRequest {
	return gateways.DispatchRequest{
		IdempotencyKey: "payout-123",
		Destination:    domain.PayoutDestination{Method: domain.PayoutMobileMoney, PhoneNumber: "+254700000001"},
		Amount:         domain.MustMoney("700", currency),
		Narration:      "Produce payout for collection col-1",
	}
}

func TestHTTPGateway_DispatchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/disbursements", r.URL.Path)
		assert.Equal(t, "payout-123", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "700.00", body["amount"])
		assert.Equal(t, "KES", body["currency"])
		assert.Equal(t, "MOBILE_MONEY", body["method"])
		assert.Equal(t, "+254700000001", body["phoneNumber"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reference":"MPESA-77","status":"SUCCESS"}`))
	}))
	defer srv.Close()

	g := gateway.NewHTTPGateway(srv.URL+"/", "secret", "KES", time.Second)
	result, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
	require.NoError(t, err)
	assert.Equal(t, "MPESA-77", result.GatewayReference)
}

func TestHTTPGateway_DispatchClassifiesFailures(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantRetryable bool
	}{
		{"server error", http.StatusBadGateway, `{"reason":"upstream down"}`, true},
		{"rate limited", http.StatusTooManyRequests, ``, true},
		{"invalid destination", http.StatusUnprocessableEntity, `{"reason":"invalid msisdn"}`, false},
		{"rail rejected", http.StatusOK, `{"reference":"X","status":"FAILED","reason":"account closed"}`, false},
		{"accepted but pending", http.StatusAccepted, `{"reference":"X","status":"PENDING"}`, true},
		{"malformed body", http.StatusOK, `not json`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := gateway.NewHTTPGateway(srv.URL, "secret", "KES", time.Second)
			_, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrGateway)
			assert.Equal(t, tt.wantRetryable, apperrors.IsRetryableGatewayError(err))
		})
	}
}

func TestHTTPGateway_DispatchRejectsForeignCurrency(t *testing.T) {
	g := gateway.NewHTTPGateway("http://127.0.0.1:1", "secret", "KES", time.Second)
	_, err := g.Dispatch(context.Background(), dispatchRequest("UGX"))
	require.Error(t, err)
	assert.False(t, apperrors.IsRetryableGatewayError(err))
}

func TestHTTPGateway_DispatchUnreachableIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := gateway.NewHTTPGateway(url, "secret", "KES", time.Second)
	_, err := g.Dispatch(context.Background(), dispatchRequest("KES"))
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryableGatewayError(err))
}

func TestHTTPGateway_Status(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantState gateways.DispatchState
	}{
		{"settled", http.StatusOK, `{"reference":"MPESA-1","status":"SUCCESS"}`, gateways.DispatchConfirmed},
		{"rejected", http.StatusOK, `{"reference":"MPESA-1","status":"FAILED","reason":"closed"}`, gateways.DispatchRejected},
		{"pending", http.StatusOK, `{"reference":"MPESA-1","status":"PENDING"}`, gateways.DispatchInFlight},
		{"never seen", http.StatusNotFound, `{"reason":"no such reference"}`, gateways.DispatchUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/disbursements/payout-123", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := gateway.NewHTTPGateway(srv.URL, "secret", "KES", time.Second)
			status, err := g.Status(context.Background(), "payout-123")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, status.State)
		})
	}
}

func TestHTTPGateway_StatusServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := gateway.NewHTTPGateway(srv.URL, "secret", "KES", time.Second, gateway.WithHTTPClient(srv.Client()))
	_, err := g.Status(context.Background(), "payout-123")
	assert.True(t, apperrors.IsRetryableGatewayError(err))
}
