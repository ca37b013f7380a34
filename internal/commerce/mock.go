package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strandluxe/storefront/internal/domain"
)

// MockClient is a mock commerce platform client for testing.
// Simulates cart, checkout, and catalog flows without a running platform.
type MockClient struct {
	// Func fields allow customizing behavior per test. When nil, the
	// default in-memory behavior runs.
	CreateCartFunc              func(ctx context.Context, params CreateCartParams) (*domain.Cart, error)
	RetrieveCartFunc            func(ctx context.Context, cartID string) (*domain.Cart, error)
	UpdateCartFunc              func(ctx context.Context, cartID string, params UpdateCartParams) (*domain.Cart, error)
	AddLineItemFunc             func(ctx context.Context, cartID string, params AddLineItemParams) (*domain.Cart, error)
	UpdateLineItemFunc          func(ctx context.Context, cartID, lineItemID string, quantity int) (*domain.Cart, error)
	RemoveLineItemFunc          func(ctx context.Context, cartID, lineItemID string) (*domain.Cart, error)
	ListShippingOptionsFunc     func(ctx context.Context, cartID string) ([]domain.ShippingOption, error)
	AddShippingMethodFunc       func(ctx context.Context, cartID, optionID string) (*domain.Cart, error)
	ListPaymentProvidersFunc    func(ctx context.Context, regionID string) ([]domain.PaymentProvider, error)
	InitiatePaymentSessionFunc  func(ctx context.Context, cart *domain.Cart, providerID string) (*domain.PaymentCollection, error)
	CompleteCartFunc            func(ctx context.Context, cartID string) (*CompleteCartResult, error)
	RetrieveOrderFunc           func(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersFunc              func(ctx context.Context, token string, params ListParams) ([]domain.Order, error)
	ListProductsFunc            func(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error)
	RetrieveProductByHandleFunc func(ctx context.Context, handle, regionID string) (*domain.Product, error)
	ListCollectionsFunc         func(ctx context.Context, params ListParams) ([]domain.Collection, error)
	RetrieveCollectionByHandleFunc func(ctx context.Context, handle string) (*domain.Collection, error)
	ListRegionsFunc             func(ctx context.Context) ([]domain.Region, error)
	RegisterCustomerFunc        func(ctx context.Context, params RegisterParams) (string, *domain.Customer, error)
	LoginCustomerFunc           func(ctx context.Context, email, password string) (string, error)
	RetrieveCustomerFunc        func(ctx context.Context, token string) (*domain.Customer, error)
	ListReturnReasonsFunc       func(ctx context.Context) ([]domain.ReturnReason, error)
	CreateReturnFunc            func(ctx context.Context, params CreateReturnParams) (*domain.Return, error)

	// Carts stores created carts for retrieval
	Carts map[string]*domain.Cart

	// Customers stores registered customers keyed by email
	Customers map[string]*domain.Customer

	// Orders stores completed orders for retrieval
	Orders map[string]*domain.Order

	// Products seeds the catalog; AddLineItem prices items from here
	Products []domain.Product

	// ShippingOptions seeds the options returned for any cart
	ShippingOptions []domain.ShippingOption

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockClient creates a mock client with one region, one payment
// provider, and one shipping option seeded.
func NewMockClient() *MockClient {
	return &MockClient{
		Carts:     make(map[string]*domain.Cart),
		Customers: make(map[string]*domain.Customer),
		Orders:    make(map[string]*domain.Order),
		ShippingOptions: []domain.ShippingOption{
			{ID: "so_standard", Name: "Standard Shipping", AmountCents: 500},
		},
		CallLog: []string{},
	}
}

func (m *MockClient) log(format string, args ...interface{}) {
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

// recompute refreshes the cart's derived totals after a mutation.
func recompute(cart *domain.Cart) {
	var subtotal int64
	for i := range cart.Items {
		cart.Items[i].LineTotalCents = cart.Items[i].UnitPriceCents * int64(cart.Items[i].Quantity)
		subtotal += cart.Items[i].LineTotalCents
	}
	var shipping int64
	for _, m := range cart.ShippingMethods {
		shipping += m.AmountCents
	}
	cart.SubtotalCents = subtotal
	cart.ShippingTotalCents = shipping
	cart.TotalCents = subtotal + shipping + cart.TaxTotalCents
	cart.UpdatedAt = time.Now()
}

func (m *MockClient) cart(cartID string) (*domain.Cart, error) {
	cart, ok := m.Carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

// CreateCart creates a mock cart.
func (m *MockClient) CreateCart(ctx context.Context, params CreateCartParams) (*domain.Cart, error) {
	m.log("CreateCart(%s)", params.RegionID)

	if m.CreateCartFunc != nil {
		return m.CreateCartFunc(ctx, params)
	}

	cart := &domain.Cart{
		ID:           "cart_" + uuid.New().String(),
		Email:        params.Email,
		RegionID:     params.RegionID,
		CurrencyCode: "usd",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.Carts[cart.ID] = cart
	return cart, nil
}

// RetrieveCart returns a stored cart.
func (m *MockClient) RetrieveCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	m.log("RetrieveCart(%s)", cartID)

	if m.RetrieveCartFunc != nil {
		return m.RetrieveCartFunc(ctx, cartID)
	}
	return m.cart(cartID)
}

// UpdateCart applies email and address changes to a stored cart.
func (m *MockClient) UpdateCart(ctx context.Context, cartID string, params UpdateCartParams) (*domain.Cart, error) {
	m.log("UpdateCart(%s)", cartID)

	if m.UpdateCartFunc != nil {
		return m.UpdateCartFunc(ctx, cartID, params)
	}

	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	if params.Email != "" {
		cart.Email = params.Email
	}
	if params.ShippingAddress != nil {
		addr := *params.ShippingAddress
		cart.ShippingAddress = &addr
	}
	recompute(cart)
	return cart, nil
}

// AddLineItem adds a variant to a stored cart, priced from Products.
func (m *MockClient) AddLineItem(ctx context.Context, cartID string, params AddLineItemParams) (*domain.Cart, error) {
	m.log("AddLineItem(%s, %s, %d)", cartID, params.VariantID, params.Quantity)

	if m.AddLineItemFunc != nil {
		return m.AddLineItemFunc(ctx, cartID, params)
	}

	if params.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	if cart.Completed() {
		return nil, domain.ErrCartCompleted
	}

	item := domain.LineItem{
		ID:        "item_" + uuid.New().String(),
		VariantID: params.VariantID,
		Quantity:  params.Quantity,
	}
	for _, p := range m.Products {
		for _, v := range p.Variants {
			if v.ID == params.VariantID {
				item.ProductID = p.ID
				item.Title = p.Title
				item.VariantTitle = v.Title
				item.Thumbnail = p.Thumbnail
				item.UnitPriceCents = v.CalculatedPriceCents
			}
		}
	}

	// Platform behavior: adding an existing variant bumps its quantity.
	merged := false
	for i := range cart.Items {
		if cart.Items[i].VariantID == params.VariantID {
			cart.Items[i].Quantity += params.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}
	recompute(cart)
	return cart, nil
}

// UpdateLineItem sets a stored line item's quantity.
func (m *MockClient) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domain.Cart, error) {
	m.log("UpdateLineItem(%s, %s, %d)", cartID, lineItemID, quantity)

	if m.UpdateLineItemFunc != nil {
		return m.UpdateLineItemFunc(ctx, cartID, lineItemID, quantity)
	}

	if quantity <= 0 {
		return m.RemoveLineItem(ctx, cartID, lineItemID)
	}
	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].ID == lineItemID {
			cart.Items[i].Quantity = quantity
			recompute(cart)
			return cart, nil
		}
	}
	return nil, domain.ErrCartItemNotFound
}

// RemoveLineItem deletes a stored line item.
func (m *MockClient) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*domain.Cart, error) {
	m.log("RemoveLineItem(%s, %s)", cartID, lineItemID)

	if m.RemoveLineItemFunc != nil {
		return m.RemoveLineItemFunc(ctx, cartID, lineItemID)
	}

	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].ID == lineItemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			recompute(cart)
			return cart, nil
		}
	}
	return nil, domain.ErrCartItemNotFound
}

// ListShippingOptions returns the seeded options.
func (m *MockClient) ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error) {
	m.log("ListShippingOptions(%s)", cartID)

	if m.ListShippingOptionsFunc != nil {
		return m.ListShippingOptionsFunc(ctx, cartID)
	}
	return m.ShippingOptions, nil
}

// AddShippingMethod attaches a seeded option to the cart.
func (m *MockClient) AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error) {
	m.log("AddShippingMethod(%s, %s)", cartID, optionID)

	if m.AddShippingMethodFunc != nil {
		return m.AddShippingMethodFunc(ctx, cartID, optionID)
	}

	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	for _, o := range m.ShippingOptions {
		if o.ID == optionID {
			cart.ShippingMethods = []domain.ShippingMethod{{
				ID:               "sm_" + uuid.New().String(),
				ShippingOptionID: o.ID,
				Name:             o.Name,
				AmountCents:      o.AmountCents,
			}}
			recompute(cart)
			return cart, nil
		}
	}
	return nil, domain.NotFound("commerce.shipping.attach", "shipping option", optionID)
}

// ListPaymentProviders returns a single card provider.
func (m *MockClient) ListPaymentProviders(ctx context.Context, regionID string) ([]domain.PaymentProvider, error) {
	m.log("ListPaymentProviders(%s)", regionID)

	if m.ListPaymentProvidersFunc != nil {
		return m.ListPaymentProvidersFunc(ctx, regionID)
	}
	return []domain.PaymentProvider{{ID: "pp_stripe_stripe"}}, nil
}

// InitiatePaymentSession attaches a payment collection with one ready session.
func (m *MockClient) InitiatePaymentSession(ctx context.Context, cart *domain.Cart, providerID string) (*domain.PaymentCollection, error) {
	m.log("InitiatePaymentSession(%s, %s)", cart.ID, providerID)

	if m.InitiatePaymentSessionFunc != nil {
		return m.InitiatePaymentSessionFunc(ctx, cart, providerID)
	}

	stored, err := m.cart(cart.ID)
	if err != nil {
		return nil, err
	}
	intentID := "pi_" + uuid.New().String()
	pc := &domain.PaymentCollection{
		ID: "paycol_" + uuid.New().String(),
		Sessions: []domain.PaymentSession{{
			ID:           "payses_" + uuid.New().String(),
			ProviderID:   providerID,
			Status:       "pending",
			ClientSecret: intentID + "_secret_" + uuid.New().String(),
		}},
	}
	stored.PaymentCollection = pc
	return pc, nil
}

// CompleteCart converts a stored cart into an order.
func (m *MockClient) CompleteCart(ctx context.Context, cartID string) (*CompleteCartResult, error) {
	m.log("CompleteCart(%s)", cartID)

	if m.CompleteCartFunc != nil {
		return m.CompleteCartFunc(ctx, cartID)
	}

	cart, err := m.cart(cartID)
	if err != nil {
		return nil, err
	}
	if cart.Completed() {
		return nil, domain.ErrCartCompleted
	}
	now := time.Now()
	cart.CompletedAt = &now

	order := &domain.Order{
		ID:                 "order_" + uuid.New().String(),
		DisplayID:          len(m.Orders) + 1,
		Email:              cart.Email,
		CurrencyCode:       cart.CurrencyCode,
		Status:             "pending",
		FulfillmentStatus:  domain.FulfillmentPending,
		Items:              cart.Items,
		ShippingAddress:    cart.ShippingAddress,
		SubtotalCents:      cart.SubtotalCents,
		ShippingTotalCents: cart.ShippingTotalCents,
		TaxTotalCents:      cart.TaxTotalCents,
		TotalCents:         cart.TotalCents,
		CreatedAt:          now,
	}
	m.Orders[order.ID] = order
	return &CompleteCartResult{Order: order}, nil
}

// RetrieveOrder returns a stored order.
func (m *MockClient) RetrieveOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.log("RetrieveOrder(%s)", orderID)

	if m.RetrieveOrderFunc != nil {
		return m.RetrieveOrderFunc(ctx, orderID)
	}
	order, ok := m.Orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns all stored orders.
func (m *MockClient) ListOrders(ctx context.Context, token string, params ListParams) ([]domain.Order, error) {
	m.log("ListOrders(%s)", token)

	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, token, params)
	}
	orders := make([]domain.Order, 0, len(m.Orders))
	for _, o := range m.Orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

// ListProducts returns the seeded catalog.
func (m *MockClient) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error) {
	m.log("ListProducts(%s)", params.RegionID)

	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, params)
	}
	return m.Products, len(m.Products), nil
}

// RetrieveProductByHandle returns a seeded product by handle.
func (m *MockClient) RetrieveProductByHandle(ctx context.Context, handle, regionID string) (*domain.Product, error) {
	m.log("RetrieveProductByHandle(%s)", handle)

	if m.RetrieveProductByHandleFunc != nil {
		return m.RetrieveProductByHandleFunc(ctx, handle, regionID)
	}
	for i := range m.Products {
		if m.Products[i].Handle == handle {
			return &m.Products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// ListCollections returns no collections by default.
func (m *MockClient) ListCollections(ctx context.Context, params ListParams) ([]domain.Collection, error) {
	m.log("ListCollections()")

	if m.ListCollectionsFunc != nil {
		return m.ListCollectionsFunc(ctx, params)
	}
	return nil, nil
}

// RetrieveCollectionByHandle reports not found by default.
func (m *MockClient) RetrieveCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, error) {
	m.log("RetrieveCollectionByHandle(%s)", handle)

	if m.RetrieveCollectionByHandleFunc != nil {
		return m.RetrieveCollectionByHandleFunc(ctx, handle)
	}
	return nil, domain.ErrCollectionNotFound
}

// ListRegions returns a single US region.
func (m *MockClient) ListRegions(ctx context.Context) ([]domain.Region, error) {
	m.log("ListRegions()")

	if m.ListRegionsFunc != nil {
		return m.ListRegionsFunc(ctx)
	}
	return []domain.Region{{ID: "reg_us", Name: "United States", CurrencyCode: "usd", Countries: []string{"us"}}}, nil
}

// RegisterCustomer returns a fixed token and echo customer.
func (m *MockClient) RegisterCustomer(ctx context.Context, params RegisterParams) (string, *domain.Customer, error) {
	m.log("RegisterCustomer(%s)", params.Email)

	if m.RegisterCustomerFunc != nil {
		return m.RegisterCustomerFunc(ctx, params)
	}
	if _, taken := m.Customers[params.Email]; taken {
		return "", nil, domain.ErrEmailTaken
	}
	customer := &domain.Customer{
		ID:        "cus_" + uuid.New().String(),
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
		CreatedAt: time.Now(),
	}
	m.Customers[params.Email] = customer
	return "tok_" + uuid.New().String(), customer, nil
}

// LoginCustomer returns a fixed token.
func (m *MockClient) LoginCustomer(ctx context.Context, email, password string) (string, error) {
	m.log("LoginCustomer(%s)", email)

	if m.LoginCustomerFunc != nil {
		return m.LoginCustomerFunc(ctx, email, password)
	}
	return "tok_" + uuid.New().String(), nil
}

// RetrieveCustomer returns a stub customer for any token.
func (m *MockClient) RetrieveCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	m.log("RetrieveCustomer(%s)", token)

	if m.RetrieveCustomerFunc != nil {
		return m.RetrieveCustomerFunc(ctx, token)
	}
	return &domain.Customer{ID: "cus_mock", Email: "shopper@example.com"}, nil
}

// ListReturnReasons returns one seeded reason.
func (m *MockClient) ListReturnReasons(ctx context.Context) ([]domain.ReturnReason, error) {
	m.log("ListReturnReasons()")

	if m.ListReturnReasonsFunc != nil {
		return m.ListReturnReasonsFunc(ctx)
	}
	return []domain.ReturnReason{{ID: "rr_damaged", Value: "damaged", Label: "Damaged in transit"}}, nil
}

// CreateReturn records a return against a stored order.
func (m *MockClient) CreateReturn(ctx context.Context, params CreateReturnParams) (*domain.Return, error) {
	m.log("CreateReturn(%s)", params.OrderID)

	if m.CreateReturnFunc != nil {
		return m.CreateReturnFunc(ctx, params)
	}
	if _, ok := m.Orders[params.OrderID]; !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &domain.Return{
		ID:        "ret_" + uuid.New().String(),
		OrderID:   params.OrderID,
		Status:    "requested",
		CreatedAt: time.Now(),
	}, nil
}

// Compile-time interface check.
var _ Client = (*MockClient)(nil)
