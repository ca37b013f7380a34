// Package commerce is the typed client for the remote commerce platform's
// store API. Carts, orders, catalog, customers, and returns all live on the
// platform; this package only shuttles documented JSON shapes and maps
// platform failures onto domain error codes.
package commerce

import (
	"context"

	"github.com/strandluxe/storefront/internal/domain"
)

// Client defines every platform operation the storefront depends on.
// Implementations must treat all returned snapshots as authoritative:
// totals are recomputed remotely after each mutation and never locally.
type Client interface {
	// CreateCart creates a new cart in the given region. Carts are created
	// lazily, on the first mutating action of a browser session.
	CreateCart(ctx context.Context, params CreateCartParams) (*domain.Cart, error)

	// RetrieveCart fetches the current cart snapshot.
	RetrieveCart(ctx context.Context, cartID string) (*domain.Cart, error)

	// UpdateCart sets the cart's email and/or shipping address.
	UpdateCart(ctx context.Context, cartID string, params UpdateCartParams) (*domain.Cart, error)

	// AddLineItem adds a variant to the cart. The platform merges duplicate
	// variants into a single line.
	AddLineItem(ctx context.Context, cartID string, params AddLineItemParams) (*domain.Cart, error)

	// UpdateLineItem sets a line item's quantity exactly.
	UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domain.Cart, error)

	// RemoveLineItem deletes a line item from the cart.
	RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*domain.Cart, error)

	// ListShippingOptions returns the fulfillment options valid for the
	// cart's current shipping address, priced for the cart.
	ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error)

	// AddShippingMethod attaches the chosen option to the cart.
	AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error)

	// ListPaymentProviders returns the payment providers enabled for a region.
	ListPaymentProviders(ctx context.Context, regionID string) ([]domain.PaymentProvider, error)

	// InitiatePaymentSession creates (or refreshes) the cart's payment
	// collection and starts a session with the given provider.
	InitiatePaymentSession(ctx context.Context, cart *domain.Cart, providerID string) (*domain.PaymentCollection, error)

	// CompleteCart finalizes the cart. The platform answers with an order
	// XOR a cart-with-error; the latter is the charged-but-not-ordered
	// partial failure when payment had already been captured.
	CompleteCart(ctx context.Context, cartID string) (*CompleteCartResult, error)

	// RetrieveOrder fetches an order snapshot by id.
	RetrieveOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders returns the authenticated customer's order history.
	ListOrders(ctx context.Context, token string, params ListParams) ([]domain.Order, error)

	// ListProducts returns catalog products priced for a region.
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error)

	// RetrieveProductByHandle fetches one product by its URL handle.
	RetrieveProductByHandle(ctx context.Context, handle, regionID string) (*domain.Product, error)

	// ListCollections returns merchandising collections.
	ListCollections(ctx context.Context, params ListParams) ([]domain.Collection, error)

	// RetrieveCollectionByHandle fetches one collection by its URL handle.
	RetrieveCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, error)

	// ListRegions returns the platform's pricing regions.
	ListRegions(ctx context.Context) ([]domain.Region, error)

	// RegisterCustomer creates a customer account and returns an auth token.
	RegisterCustomer(ctx context.Context, params RegisterParams) (string, *domain.Customer, error)

	// LoginCustomer exchanges credentials for an auth token.
	LoginCustomer(ctx context.Context, email, password string) (string, error)

	// RetrieveCustomer fetches the customer owning the token.
	RetrieveCustomer(ctx context.Context, token string) (*domain.Customer, error)

	// ListReturnReasons returns the platform's configured return reasons.
	ListReturnReasons(ctx context.Context) ([]domain.ReturnReason, error)

	// CreateReturn submits a return request for order items.
	CreateReturn(ctx context.Context, params CreateReturnParams) (*domain.Return, error)
}

// CreateCartParams contains parameters for creating a cart.
type CreateCartParams struct {
	RegionID string
	Email    string
}

// UpdateCartParams contains the mutable cart fields.
// Nil fields are left untouched.
type UpdateCartParams struct {
	Email           string
	ShippingAddress *domain.Address
}

// AddLineItemParams contains parameters for adding a line item.
type AddLineItemParams struct {
	VariantID string
	Quantity  int
}

// CompleteCartResult is the two-armed completion response. Exactly one of
// Order or Cart is set; when Cart is set, Message carries the platform's
// explanation for why order creation failed.
type CompleteCartResult struct {
	Order   *domain.Order
	Cart    *domain.Cart
	Message string
}

// ListParams contains common pagination parameters.
type ListParams struct {
	Limit  int
	Offset int
}

// ListProductsParams contains catalog listing filters.
type ListProductsParams struct {
	RegionID     string
	CollectionID string
	Query        string
	Limit        int
	Offset       int
}

// RegisterParams contains customer registration fields.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// CreateReturnParams contains a return request.
type CreateReturnParams struct {
	Token   string
	OrderID string
	Items   []domain.ReturnItem
}
