package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/servicedesk/support-desk/internal/config"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	gateway := NewRazorpayGateway(config.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
	})

	valid := signPayload("secret", "order_123", "pay_123")
	assert.True(t, gateway.VerifySignature("order_123", "pay_123", valid))
}

func TestVerifySignatureRejectsForged(t *testing.T) {
	gateway := NewRazorpayGateway(config.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
	})

	forged := signPayload("wrong-secret", "order_123", "pay_123")
	assert.False(t, gateway.VerifySignature("order_123", "pay_123", forged))
	assert.False(t, gateway.VerifySignature("order_123", "pay_123", ""))
	assert.False(t, gateway.VerifySignature("order_456", "pay_123", signPayload("secret", "order_123", "pay_123")))
}
