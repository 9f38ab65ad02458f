package provider

import (
	"context"
	"net/http"
	"time"
)

// IncomingPaymentGateway talks to the payee's wallet endpoint.
//
// Non-2xx statuses, unparsable bodies and transport failures are not Go
// errors: they come back inside the RemoteResponse so the caller can decide
// policy. The returned error is reserved for request-construction failures.
type IncomingPaymentGateway interface {
	// CreateIncomingPayment posts a new incoming-payment resource to
	// {endpoint}/incoming-payments.
	CreateIncomingPayment(ctx context.Context, req *CreateIncomingPaymentRequest) (*RemoteResponse, error)

	// FetchResource GETs an arbitrary resource URL on the remote side.
	FetchResource(ctx context.Context, url string) (*RemoteResponse, error)
}

// CreateIncomingPaymentRequest carries everything needed to build the
// outbound incoming-payment payload.
type CreateIncomingPaymentRequest struct {
	// Endpoint is the wallet base URL, already stripped of trailing slashes.
	Endpoint string
	// WalletAddress is echoed into the payload as the payee wallet address.
	WalletAddress string
	// AmountMinorUnits is the stringified integer amount in minor units.
	AmountMinorUnits string
	AssetCode        string
	AssetScale       int
	// LocalID is the correlation token carried in the payload metadata.
	LocalID string
	Memo    string
	// ExpiresAt, when set, is included as the absolute expiry timestamp.
	ExpiresAt *time.Time
}

// RemoteResponse is the captured outcome of one call to the remote side.
// The body is never discarded, only classified: JSON holds the parsed object
// when the body was a JSON object, Body always holds the raw text.
type RemoteResponse struct {
	StatusCode int                    `json:"status"`
	Headers    http.Header            `json:"headers,omitempty"`
	JSON       map[string]interface{} `json:"json,omitempty"`
	Body       string                 `json:"body,omitempty"`
	// Err carries a transport-level failure, empty on any HTTP response.
	Err string `json:"error,omitempty"`
}

// Created reports whether the remote call produced a created resource.
func (r *RemoteResponse) Created() bool {
	return r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated
}

// StringField returns a top-level string field of the JSON body, empty when
// the body was not JSON or the field is absent.
func (r *RemoteResponse) StringField(key string) string {
	if r.JSON == nil {
		return ""
	}
	s, _ := r.JSON[key].(string)
	return s
}
