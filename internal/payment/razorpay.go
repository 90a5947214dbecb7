package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/servicedesk/support-desk/internal/config"
)

// RazorpayGateway creates orders through the Razorpay Orders API and
// verifies checkout signatures server-side before any ticket is persisted.
type RazorpayGateway struct {
	client    *resty.Client
	keyID     string
	keySecret string
}

// NewRazorpayGateway builds a gateway client from payment config.
func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret)
	return &RazorpayGateway{
		client:    client,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a payment order with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	var success orderResponse
	var failure errorResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(orderRequest{Amount: amount, Currency: currency, Receipt: receipt}).
		SetResult(&success).
		SetError(&failure).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create order: %s (%s)", failure.Error.Description, failure.Error.Code)
	}

	return &Order{
		ID:       success.ID,
		Amount:   success.Amount,
		Currency: success.Currency,
		Receipt:  success.Receipt,
	}, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(order_id + "|" + payment_id, key_secret).
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// KeyID returns the public key id for checkout prefill.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}
