package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandluxe/storefront/internal/domain"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:           "order_1",
		DisplayID:    42,
		Email:        "shopper@example.com",
		CurrencyCode: "usd",
		Items: []domain.LineItem{
			{Title: "Silk Repair Serum", VariantTitle: "50ml", Quantity: 2, LineTotalCents: 9998},
			{Title: "Clip-In Extensions", VariantTitle: "18in", Quantity: 1, LineTotalCents: 18900},
		},
		ShippingAddress: &domain.Address{
			FirstName:    "Ada",
			LastName:     "Lovelace",
			AddressLine1: "12 Analytical Way",
			City:         "Portland",
			Province:     "or",
			PostalCode:   "97201",
			CountryCode:  "us",
		},
		SubtotalCents:      28898,
		ShippingTotalCents: 500,
		TotalCents:         29398,
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{10527, "usd", "$105.27"},
		{500, "USD", "$5.00"},
		{29, "eur", "€0.29"},
		{0, "usd", "$0.00"},
		{1999, "sek", "19.99 SEK"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.cents, tt.currency))
	}
}

func TestService_SendOrderConfirmation(t *testing.T) {
	sender := NewMockSender()
	svc := NewService(sender, "orders@strandluxe.test", "Strand Luxe", nil)

	err := svc.SendOrderConfirmation(context.Background(), testOrder())
	require.NoError(t, err)
	require.Len(t, sender.Sent, 1)

	msg := sender.Sent[0]
	assert.Equal(t, []string{"shopper@example.com"}, msg.To)
	assert.Equal(t, "Strand Luxe order #42 confirmed", msg.Subject)
	assert.Contains(t, msg.TextBody, "Silk Repair Serum (50ml) x2  $99.98")
	assert.Contains(t, msg.TextBody, "Total: $293.98")
	assert.Contains(t, msg.TextBody, "Portland, OR 97201")
}

func TestService_SendOrderConfirmation_NoEmail(t *testing.T) {
	sender := NewMockSender()
	svc := NewService(sender, "orders@strandluxe.test", "", nil)

	order := testOrder()
	order.Email = ""
	err := svc.SendOrderConfirmation(context.Background(), order)
	assert.Error(t, err)
	assert.Empty(t, sender.Sent)
}

func TestService_SendOrderConfirmation_SenderFailure(t *testing.T) {
	sender := NewMockSender()
	sender.SendFunc = func(ctx context.Context, email *Email) (string, error) {
		return "", errors.New("relay refused")
	}
	svc := NewService(sender, "orders@strandluxe.test", "", nil)

	err := svc.SendOrderConfirmation(context.Background(), testOrder())
	assert.Error(t, err)
}

func TestService_SendReturnReceived(t *testing.T) {
	sender := NewMockSender()
	svc := NewService(sender, "orders@strandluxe.test", "Strand Luxe", nil)

	ret := &domain.Return{ID: "ret_1", OrderID: "order_1", RefundCents: 9998}
	err := svc.SendReturnReceived(context.Background(), "shopper@example.com", ret, testOrder())
	require.NoError(t, err)
	require.Len(t, sender.Sent, 1)

	msg := sender.Sent[0]
	assert.Contains(t, msg.TextBody, "order #42")
	assert.Contains(t, msg.TextBody, "Expected refund: $99.98")
}
