package payments

import (
	"context"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/paymentmethod"

	"github.com/strandluxe/storefront/internal/domain"
)

// StripeProvider implements Provider using Stripe payment intents.
type StripeProvider struct{}

// NewStripeProvider sets the global Stripe key and returns the provider.
func NewStripeProvider(apiKey string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{}
}

var _ Provider = (*StripeProvider)(nil)

// Confirm attaches the payment method to the intent and confirms it.
func (s *StripeProvider) Confirm(ctx context.Context, params ConfirmParams) (*Payment, error) {
	const op = "payments.stripe.confirm"

	intentID := IntentIDFromClientSecret(params.ClientSecret)
	if intentID == "" {
		return nil, domain.Invalid(op, "Payment session is malformed")
	}

	// Stripe rejects inline billing details when confirming with an
	// existing payment method id, so they land in a separate update.
	if params.Billing != nil {
		if err := attachBillingDetails(ctx, params.PaymentMethodID, params.Billing); err != nil {
			return nil, mapStripeError(op, err)
		}
	}

	confirmParams := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(params.PaymentMethodID),
	}
	if params.ReturnURL != "" {
		confirmParams.ReturnURL = stripe.String(params.ReturnURL)
	}
	confirmParams.Context = ctx

	pi, err := paymentintent.Confirm(intentID, confirmParams)
	if err != nil {
		return nil, mapStripeError(op, err)
	}
	return fromIntent(pi), nil
}

// Retrieve fetches the intent's current state.
func (s *StripeProvider) Retrieve(ctx context.Context, clientSecret string) (*Payment, error) {
	const op = "payments.stripe.retrieve"

	intentID := IntentIDFromClientSecret(clientSecret)
	if intentID == "" {
		return nil, domain.Invalid(op, "Payment session is malformed")
	}

	getParams := &stripe.PaymentIntentParams{}
	getParams.Context = ctx

	pi, err := paymentintent.Get(intentID, getParams)
	if err != nil {
		return nil, mapStripeError(op, err)
	}
	return fromIntent(pi), nil
}

func attachBillingDetails(ctx context.Context, paymentMethodID string, b *BillingDetails) error {
	address := &stripe.AddressParams{
		Line1:      stripe.String(b.Address.AddressLine1),
		City:       stripe.String(b.Address.City),
		State:      stripe.String(b.Address.Province),
		PostalCode: stripe.String(b.Address.PostalCode),
		Country:    stripe.String(b.Address.CountryCode),
	}
	if b.Address.AddressLine2 != "" {
		address.Line2 = stripe.String(b.Address.AddressLine2)
	}

	details := &stripe.PaymentMethodBillingDetailsParams{
		Name:    stripe.String(b.Name),
		Address: address,
	}
	if b.Email != "" {
		details.Email = stripe.String(b.Email)
	}
	if b.Phone != "" {
		details.Phone = stripe.String(b.Phone)
	}

	updateParams := &stripe.PaymentMethodParams{BillingDetails: details}
	updateParams.Context = ctx

	_, err := paymentmethod.Update(paymentMethodID, updateParams)
	return err
}

func fromIntent(pi *stripe.PaymentIntent) *Payment {
	return &Payment{
		IntentID:    pi.ID,
		Status:      string(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
	}
}
