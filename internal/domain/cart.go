package domain

import "time"

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrCartCompleted    = &Error{Code: ECONFLICT, Message: "Cart has already been completed"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// Cart is the platform-held pre-order aggregate, mirrored locally as a
// read-only snapshot. All totals are computed remotely after each mutation;
// this process never computes authoritative amounts.
type Cart struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	RegionID     string `json:"region_id"`
	CurrencyCode string `json:"currency_code"`

	Items             []LineItem         `json:"items"`
	ShippingAddress   *Address           `json:"shipping_address,omitempty"`
	ShippingMethods   []ShippingMethod   `json:"shipping_methods,omitempty"`
	PaymentCollection *PaymentCollection `json:"-"`

	SubtotalCents      int64 `json:"subtotal_cents"`
	ShippingTotalCents int64 `json:"shipping_total_cents"`
	TaxTotalCents      int64 `json:"tax_total_cents"`
	TotalCents         int64 `json:"total_cents"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the cart has been converted to an order.
func (c *Cart) Completed() bool {
	return c.CompletedAt != nil
}

// ClientSecret returns the client-side confirmation secret of the first
// payment session, or "" when no session has been initiated yet.
func (c *Cart) ClientSecret() string {
	if c.PaymentCollection == nil {
		return ""
	}
	for _, s := range c.PaymentCollection.Sessions {
		if s.ClientSecret != "" {
			return s.ClientSecret
		}
	}
	return ""
}

// LineItem is one product/variant + quantity entry within a cart or order.
type LineItem struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id"`
	Title          string `json:"title"`
	VariantTitle   string `json:"variant_title,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// Address is a shipping or billing address as the platform stores it.
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province,omitempty"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
	Phone        string `json:"phone,omitempty"`
}

// ShippingOption is one selectable fulfillment option priced for a cart.
type ShippingOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// ShippingMethod is a shipping option that has been attached to a cart.
type ShippingMethod struct {
	ID               string `json:"id"`
	ShippingOptionID string `json:"shipping_option_id"`
	Name             string `json:"name"`
	AmountCents      int64  `json:"amount_cents"`
}

// PaymentCollection is the set of payment sessions attached to a cart,
// one per attempted provider.
type PaymentCollection struct {
	ID       string
	Sessions []PaymentSession
}

// PaymentSession holds provider-specific state needed to confirm a charge,
// including the client-side confirmation secret. It becomes invalid once the
// cart completes or is abandoned.
type PaymentSession struct {
	ID           string
	ProviderID   string
	Status       string
	ClientSecret string
}

// PaymentProvider identifies a payment provider available in a region.
type PaymentProvider struct {
	ID string
}
