package payments

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v83"

	"github.com/strandluxe/storefront/internal/domain"
)

// mapStripeError converts a Stripe SDK error into a domain error. Card
// failures carry the processor's shopper-facing message; everything else
// is an internal failure the shopper cannot fix.
func mapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return domain.Internal(err, op, "Payment processor request failed")
	}

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Your card was declined"
		}
		return &domain.Error{Code: domain.EPAYMENT, Op: op, Message: msg, Err: err}
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		return &domain.Error{Code: domain.ERATELIMIT, Op: op, Message: "Too many requests, slow down", Err: err}
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		// Bad intent id or state transition. Not shopper-correctable.
		return domain.Internal(err, op, "Payment session is no longer valid")
	default:
		return domain.Internal(err, op, "Payment processor request failed")
	}
}
