// Package payments talks to the payment processor. The commerce platform
// owns the payment session; this package only confirms the processor-side
// intent referenced by the session's client secret and reports its status.
package payments

import (
	"context"
	"strings"

	"github.com/strandluxe/storefront/internal/domain"
)

// Provider abstracts the payment processor.
type Provider interface {
	// Confirm attaches a payment method to the intent behind clientSecret
	// and confirms it. A declined card is an error; a non-terminal status
	// (processing, requires_action) is returned in the Payment, not as an
	// error.
	Confirm(ctx context.Context, params ConfirmParams) (*Payment, error)

	// Retrieve fetches the current state of the intent behind clientSecret.
	Retrieve(ctx context.Context, clientSecret string) (*Payment, error)
}

// ConfirmParams carries the shopper's payment submission.
type ConfirmParams struct {
	ClientSecret    string
	PaymentMethodID string

	// ReturnURL is where the processor redirects after any off-site
	// authentication step.
	ReturnURL string

	// Billing is forwarded to the processor with the payment method,
	// drawn from the shipping address collected during checkout.
	Billing *BillingDetails
}

// BillingDetails is the cardholder identity attached to a payment method.
type BillingDetails struct {
	Name    string
	Email   string
	Phone   string
	Address domain.Address
}

// Payment is the processor's view of one payment attempt.
type Payment struct {
	IntentID    string
	Status      string
	AmountCents int64
	Currency    string
}

// Processor intent statuses the checkout flow branches on.
const (
	StatusSucceeded             = "succeeded"
	StatusProcessing            = "processing"
	StatusRequiresCapture       = "requires_capture"
	StatusRequiresAction        = "requires_action"
	StatusRequiresPaymentMethod = "requires_payment_method"
)

// Captured reports whether the processor has the funds (or a hold on them),
// which is the bar for completing the cart.
func (p *Payment) Captured() bool {
	switch p.Status {
	case StatusSucceeded, StatusProcessing, StatusRequiresCapture:
		return true
	}
	return false
}

// IntentIDFromClientSecret extracts the intent id from a client secret of
// the form "pi_xxx_secret_yyy". Returns "" when the secret is malformed.
func IntentIDFromClientSecret(secret string) string {
	idx := strings.Index(secret, "_secret_")
	if idx <= 0 {
		return ""
	}
	return secret[:idx]
}
