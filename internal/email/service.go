package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/strandluxe/storefront/internal/domain"
)

// Service builds and sends the storefront's transactional email.
type Service struct {
	sender    Sender
	from      string
	storeName string
	logger    *slog.Logger
}

// NewService creates the transactional email service.
func NewService(sender Sender, from, storeName string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if storeName == "" {
		storeName = "Strand Luxe"
	}
	return &Service{sender: sender, from: from, storeName: storeName, logger: logger}
}

// SendOrderConfirmation mails the shopper their order summary.
func (s *Service) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	if order.Email == "" {
		return fmt.Errorf("order %s has no email address", order.ID)
	}

	msg := &Email{
		To:       []string{order.Email},
		From:     s.from,
		Subject:  fmt.Sprintf("%s order #%d confirmed", s.storeName, order.DisplayID),
		TextBody: s.confirmationText(order),
	}

	_, err := s.sender.Send(ctx, msg)
	return err
}

// SendReturnReceived mails the shopper that their return request was filed.
func (s *Service) SendReturnReceived(ctx context.Context, to string, ret *domain.Return, order *domain.Order) error {
	if to == "" {
		return fmt.Errorf("return %s has no recipient", ret.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "We received your return request for order #%d.\n\n", order.DisplayID)
	fmt.Fprintf(&b, "Return reference: %s\n", ret.ID)
	if ret.RefundCents > 0 {
		fmt.Fprintf(&b, "Expected refund: %s\n", FormatMoney(ret.RefundCents, order.CurrencyCode))
	}
	b.WriteString("\nWe will email you again once the return is processed.\n")

	msg := &Email{
		To:       []string{to},
		From:     s.from,
		Subject:  fmt.Sprintf("%s return received for order #%d", s.storeName, order.DisplayID),
		TextBody: b.String(),
	}

	_, err := s.sender.Send(ctx, msg)
	return err
}

func (s *Service) confirmationText(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order from %s!\n\n", s.storeName)
	fmt.Fprintf(&b, "Order #%d\n\n", order.DisplayID)

	for _, item := range order.Items {
		line := item.Title
		if item.VariantTitle != "" && item.VariantTitle != item.Title {
			line += " (" + item.VariantTitle + ")"
		}
		fmt.Fprintf(&b, "  %s x%d  %s\n", line, item.Quantity, FormatMoney(item.LineTotalCents, order.CurrencyCode))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatMoney(order.SubtotalCents, order.CurrencyCode))
	fmt.Fprintf(&b, "Shipping: %s\n", FormatMoney(order.ShippingTotalCents, order.CurrencyCode))
	if order.TaxTotalCents > 0 {
		fmt.Fprintf(&b, "Tax: %s\n", FormatMoney(order.TaxTotalCents, order.CurrencyCode))
	}
	fmt.Fprintf(&b, "Total: %s\n", FormatMoney(order.TotalCents, order.CurrencyCode))

	if addr := order.ShippingAddress; addr != nil {
		fmt.Fprintf(&b, "\nShipping to:\n  %s %s\n  %s\n", addr.FirstName, addr.LastName, addr.AddressLine1)
		if addr.AddressLine2 != "" {
			fmt.Fprintf(&b, "  %s\n", addr.AddressLine2)
		}
		fmt.Fprintf(&b, "  %s, %s %s\n", addr.City, strings.ToUpper(addr.Province), addr.PostalCode)
	}

	return b.String()
}

// currencySymbols maps the currencies the storefront sells in.
var currencySymbols = map[string]string{
	"usd": "$",
	"cad": "$",
	"aud": "$",
	"eur": "€",
	"gbp": "£",
}

// FormatMoney renders cents as a human amount, e.g. 10527 usd -> "$105.27".
// Unknown currencies fall back to "105.27 XXX".
func FormatMoney(cents int64, currency string) string {
	amount := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
	if symbol, ok := currencySymbols[strings.ToLower(currency)]; ok {
		return symbol + amount
	}
	return amount + " " + strings.ToUpper(currency)
}
