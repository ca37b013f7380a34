package domain

import "time"

// Order-related domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}

	// ErrChargedNotOrdered is the partial-failure outcome: the processor
	// captured a charge but the platform failed to create the order. It is
	// never retryable from the client (risk of double charge) and must be
	// surfaced as a support-contact instruction.
	ErrChargedNotOrdered = &Error{
		Code:    ESUPPORT,
		Message: "Your payment was received but the order could not be created. Please contact support before retrying.",
	}
)

// FulfillmentStatus is the enumerated lifecycle stage of an order's
// physical delivery.
type FulfillmentStatus string

const (
	FulfillmentPending        FulfillmentStatus = "pending"
	FulfillmentFulfilled      FulfillmentStatus = "fulfilled"
	FulfillmentShipped        FulfillmentStatus = "shipped"
	FulfillmentCanceled       FulfillmentStatus = "canceled"
	FulfillmentRequiresAction FulfillmentStatus = "requires_action"
	FulfillmentOther          FulfillmentStatus = "other"
)

// ParseFulfillmentStatus maps a platform status string onto the known set,
// folding unknown values into FulfillmentOther.
func ParseFulfillmentStatus(s string) FulfillmentStatus {
	switch FulfillmentStatus(s) {
	case FulfillmentPending, FulfillmentFulfilled, FulfillmentShipped,
		FulfillmentCanceled, FulfillmentRequiresAction:
		return FulfillmentStatus(s)
	default:
		return FulfillmentOther
	}
}

// Order is the immutable terminal artifact created from a successfully
// completed cart. Only status transitions driven by fulfillment and returns
// change after creation, and those are owned by the platform.
type Order struct {
	ID           string `json:"id"`
	DisplayID    int    `json:"display_id"`
	Email        string `json:"email"`
	CurrencyCode string `json:"currency_code"`

	Status            string            `json:"status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`

	Items           []LineItem `json:"items"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`

	SubtotalCents      int64 `json:"subtotal_cents"`
	ShippingTotalCents int64 `json:"shipping_total_cents"`
	TaxTotalCents      int64 `json:"tax_total_cents"`
	TotalCents         int64 `json:"total_cents"`

	CreatedAt time.Time `json:"created_at"`
}

// ReturnReason is a platform-defined reason a shopper may select when
// requesting a return.
type ReturnReason struct {
	ID          string `json:"id"`
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ReturnItem is one order line included in a return request. Quantity must
// never exceed the line's returnable remainder; the platform enforces this
// and the client surfaces its rejection.
type ReturnItem struct {
	LineItemID string `json:"line_item_id"`
	Quantity   int    `json:"quantity"`
	ReasonID   string `json:"reason_id"`
	Note       string `json:"note,omitempty"`
}

// Return is a created return request.
type Return struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	RefundCents int64     `json:"refund_cents"`
	CreatedAt   time.Time `json:"created_at"`
}
