package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/SscSPs/farm_payouts/internal/middleware"
)

const (
	disbursementsPath = "/v1/disbursements"
	userAgent         = "FarmPayouts-Gateway/1.0"

	railStatusSuccess = "SUCCESS"
	railStatusPending = "PENDING"
	railStatusFailed  = "FAILED"
)

// HTTPGateway talks to a mobile-money/bank disbursement API over JSON.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	currency   string
	httpClient *http.Client
}

// HTTPGatewayOption configures an HTTPGateway.
type HTTPGatewayOption func(*HTTPGateway)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPGatewayOption {
	return func(g *HTTPGateway) {
		g.httpClient = c
	}
}

// NewHTTPGateway creates a gateway client. Dispatches in any currency other
// than settlementCurrency are rejected before reaching the rail.
func NewHTTPGateway(baseURL, apiKey, settlementCurrency string, timeout time.Duration, opts ...HTTPGatewayOption) *HTTPGateway {
	g := &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		currency:   settlementCurrency,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ensure HTTPGateway implements gateways.PaymentGateway
var _ gateways.PaymentGateway = (*HTTPGateway)(nil)

type disbursementRequest struct {
	Reference     string `json:"reference"`
	Method        string `json:"method"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	BankCode      string `json:"bankCode,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Narration     string `json:"narration"`
}

type disbursementResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Dispatch posts a disbursement keyed by req.IdempotencyKey.
func (g *HTTPGateway) Dispatch(ctx context.Context, req gateways.DispatchRequest) (gateways.DispatchResult, error) {
	if g.currency != "" && req.Amount.Currency() != g.currency {
		return gateways.DispatchResult{}, apperrors.NewTerminalGatewayError(
			fmt.Sprintf("currency %s is not supported, rail settles in %s", req.Amount.Currency(), g.currency), nil)
	}

	body, err := json.Marshal(disbursementRequest{
		Reference:     req.IdempotencyKey,
		Method:        string(req.Destination.Method),
		PhoneNumber:   req.Destination.PhoneNumber,
		BankCode:      req.Destination.BankCode,
		AccountNumber: req.Destination.AccountNumber,
		Amount:        req.Amount.Amount().StringFixed(2),
		Currency:      req.Amount.Currency(),
		Narration:     req.Narration,
	})
	if err != nil {
		return gateways.DispatchResult{}, apperrors.NewTerminalGatewayError("failed to encode disbursement", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+disbursementsPath, bytes.NewReader(body))
	if err != nil {
		return gateways.DispatchResult{}, apperrors.NewTerminalGatewayError("failed to build disbursement request", err)
	}
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Dispatching payout to gateway",
		slog.String("idempotency_key", req.IdempotencyKey),
		slog.String("destination", req.Destination.String()),
		slog.String("amount", req.Amount.String()),
	)

	var resp disbursementResponse
	status, err := g.do(httpReq, &resp)
	if err != nil {
		return gateways.DispatchResult{}, err
	}
	if err := classifyStatus(status, resp.Reason); err != nil {
		return gateways.DispatchResult{}, err
	}

	switch resp.Status {
	case railStatusSuccess:
		return gateways.DispatchResult{GatewayReference: resp.Reference}, nil
	case railStatusFailed:
		return gateways.DispatchResult{}, apperrors.NewTerminalGatewayError("disbursement rejected: "+resp.Reason, nil)
	default:
		// Accepted but not yet settled; the outcome is resolved by a status query.
		return gateways.DispatchResult{}, apperrors.NewRetryableGatewayError("disbursement accepted, awaiting confirmation", nil)
	}
}

// Status looks up an earlier disbursement by its idempotency key.
func (g *HTTPGateway) Status(ctx context.Context, idempotencyKey string) (gateways.DispatchStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+disbursementsPath+"/"+url.PathEscape(idempotencyKey), nil)
	if err != nil {
		return gateways.DispatchStatus{}, apperrors.NewTerminalGatewayError("failed to build status request", err)
	}

	var resp disbursementResponse
	status, err := g.do(httpReq, &resp)
	if err != nil {
		return gateways.DispatchStatus{}, err
	}
	if status == http.StatusNotFound {
		return gateways.DispatchStatus{State: gateways.DispatchUnknown}, nil
	}
	if err := classifyStatus(status, resp.Reason); err != nil {
		return gateways.DispatchStatus{}, err
	}

	switch resp.Status {
	case railStatusSuccess:
		return gateways.DispatchStatus{State: gateways.DispatchConfirmed, GatewayReference: resp.Reference}, nil
	case railStatusFailed:
		return gateways.DispatchStatus{State: gateways.DispatchRejected, GatewayReference: resp.Reference, Reason: resp.Reason}, nil
	case railStatusPending:
		return gateways.DispatchStatus{State: gateways.DispatchInFlight, GatewayReference: resp.Reference}, nil
	default:
		return gateways.DispatchStatus{}, apperrors.NewRetryableGatewayError("unrecognised disbursement status "+resp.Status, nil)
	}
}

// do sends the request and decodes a JSON body when present. Transport errors
// and timeouts are retryable: the rail may or may not have seen the request.
func (g *HTTPGateway) do(req *http.Request, out any) (int, error) {
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, apperrors.NewRetryableGatewayError("request cancelled", err)
		}
		return 0, apperrors.NewRetryableGatewayError("gateway unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, apperrors.NewRetryableGatewayError("failed to read gateway response", err)
	}
	if len(data) > 0 && out != nil {
		if err := json.Unmarshal(data, out); err != nil && resp.StatusCode < 300 {
			return resp.StatusCode, apperrors.NewRetryableGatewayError("malformed gateway response", err)
		}
	}
	return resp.StatusCode, nil
}

// classifyStatus maps non-2xx responses: 5xx, 408, 409 and 429 are retryable,
// every other 4xx is a terminal rejection.
func classifyStatus(status int, reason string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := fmt.Sprintf("gateway returned %d", status)
	if reason != "" {
		msg += ": " + reason
	}
	switch {
	case status >= 500,
		status == http.StatusRequestTimeout,
		status == http.StatusConflict,
		status == http.StatusTooManyRequests:
		return apperrors.NewRetryableGatewayError(msg, nil)
	default:
		return apperrors.NewTerminalGatewayError(msg, nil)
	}
}
