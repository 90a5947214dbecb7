package payment

import "context"

// Order is a gateway-side payment order awaiting checkout.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// Gateway abstracts the payment provider. Amounts are in the currency's
// smallest subunit.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
