package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strandluxe/storefront/internal/domain"
)

// Config holds connection parameters for the commerce platform.
type Config struct {
	// BaseURL is the platform's store API root, e.g. "https://api.example.com".
	BaseURL string

	// PublishableKey scopes store API requests to a sales channel.
	PublishableKey string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds platform calls when Config.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// HTTPClient implements Client over the platform's REST store API.
type HTTPClient struct {
	baseURL        string
	publishableKey string
	client         *http.Client
	logger         *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a platform client.
func NewHTTPClient(cfg Config, logger *slog.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("commerce: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		baseURL:        cfg.BaseURL,
		publishableKey: cfg.PublishableKey,
		client:         &http.Client{Timeout: timeout},
		logger:         logger,
	}, nil
}

// do performs one platform request and decodes the JSON response into out.
// token, query, and body may be zero values.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, token string, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return domain.Internal(err, op, "failed to encode request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return domain.Internal(err, op, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.publishableKey != "" {
		req.Header.Set("x-publishable-api-key", c.publishableKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Internal(err, op, "commerce platform unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		c.logger.Warn("commerce call failed",
			"op", op,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return mapStatusError(op, resp.StatusCode, apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Internal(err, op, "failed to decode response")
	}
	return nil
}

// =============================================================================
// Wire shapes (the platform's documented JSON) and converters
// =============================================================================

// Amounts arrive as decimal currency units (e.g. 49.99). toCents converts
// them exactly; float arithmetic alone would drift on values like 0.29.
func toCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type wireAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province,omitempty"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone,omitempty"`
}

func toWireAddress(a *domain.Address) *wireAddress {
	if a == nil {
		return nil
	}
	return &wireAddress{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Company:     a.Company,
		Address1:    a.AddressLine1,
		Address2:    a.AddressLine2,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
		Phone:       a.Phone,
	}
}

func fromWireAddress(a *wireAddress) *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		AddressLine1: a.Address1,
		AddressLine2: a.Address2,
		City:         a.City,
		Province:     a.Province,
		PostalCode:   a.PostalCode,
		CountryCode:  a.CountryCode,
		Phone:        a.Phone,
	}
}

type wireLineItem struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	VariantID    string  `json:"variant_id"`
	ProductTitle string  `json:"product_title"`
	Title        string  `json:"title"`
	Thumbnail    string  `json:"thumbnail"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Total        float64 `json:"total"`
}

func fromWireLineItems(items []wireLineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		title := it.ProductTitle
		if title == "" {
			title = it.Title
		}
		out = append(out, domain.LineItem{
			ID:             it.ID,
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Title:          title,
			VariantTitle:   it.Title,
			Thumbnail:      it.Thumbnail,
			Quantity:       it.Quantity,
			UnitPriceCents: toCents(it.UnitPrice),
			LineTotalCents: toCents(it.Total),
		})
	}
	return out
}

type wirePaymentSession struct {
	ID         string                 `json:"id"`
	ProviderID string                 `json:"provider_id"`
	Status     string                 `json:"status"`
	Data       map[string]interface{} `json:"data"`
}

type wirePaymentCollection struct {
	ID       string               `json:"id"`
	Sessions []wirePaymentSession `json:"payment_sessions"`
}

func fromWirePaymentCollection(pc *wirePaymentCollection) *domain.PaymentCollection {
	if pc == nil {
		return nil
	}
	out := &domain.PaymentCollection{ID: pc.ID}
	for _, s := range pc.Sessions {
		secret := ""
		if v, ok := s.Data["client_secret"].(string); ok {
			secret = v
		}
		out.Sessions = append(out.Sessions, domain.PaymentSession{
			ID:           s.ID,
			ProviderID:   s.ProviderID,
			Status:       s.Status,
			ClientSecret: secret,
		})
	}
	return out
}

type wireShippingMethod struct {
	ID               string  `json:"id"`
	ShippingOptionID string  `json:"shipping_option_id"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
}

type wireCart struct {
	ID                string                 `json:"id"`
	Email             string                 `json:"email"`
	RegionID          string                 `json:"region_id"`
	CurrencyCode      string                 `json:"currency_code"`
	Items             []wireLineItem         `json:"items"`
	ShippingAddress   *wireAddress           `json:"shipping_address"`
	ShippingMethods   []wireShippingMethod   `json:"shipping_methods"`
	PaymentCollection *wirePaymentCollection `json:"payment_collection"`
	Subtotal          float64                `json:"item_subtotal"`
	ShippingTotal     float64                `json:"shipping_total"`
	TaxTotal          float64                `json:"tax_total"`
	Total             float64                `json:"total"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	CompletedAt       *time.Time             `json:"completed_at"`
}

func fromWireCart(w *wireCart) *domain.Cart {
	if w == nil {
		return nil
	}
	cart := &domain.Cart{
		ID:                 w.ID,
		Email:              w.Email,
		RegionID:           w.RegionID,
		CurrencyCode:       w.CurrencyCode,
		Items:              fromWireLineItems(w.Items),
		ShippingAddress:    fromWireAddress(w.ShippingAddress),
		PaymentCollection:  fromWirePaymentCollection(w.PaymentCollection),
		SubtotalCents:      toCents(w.Subtotal),
		ShippingTotalCents: toCents(w.ShippingTotal),
		TaxTotalCents:      toCents(w.TaxTotal),
		TotalCents:         toCents(w.Total),
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
		CompletedAt:        w.CompletedAt,
	}
	for _, m := range w.ShippingMethods {
		cart.ShippingMethods = append(cart.ShippingMethods, domain.ShippingMethod{
			ID:               m.ID,
			ShippingOptionID: m.ShippingOptionID,
			Name:             m.Name,
			AmountCents:      toCents(m.Amount),
		})
	}
	return cart
}

type wireOrder struct {
	ID                string         `json:"id"`
	DisplayID         int            `json:"display_id"`
	Email             string         `json:"email"`
	CurrencyCode      string         `json:"currency_code"`
	Status            string         `json:"status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	Items             []wireLineItem `json:"items"`
	ShippingAddress   *wireAddress   `json:"shipping_address"`
	Subtotal          float64        `json:"item_subtotal"`
	ShippingTotal     float64        `json:"shipping_total"`
	TaxTotal          float64        `json:"tax_total"`
	Total             float64        `json:"total"`
	CreatedAt         time.Time      `json:"created_at"`
}

func fromWireOrder(w *wireOrder) *domain.Order {
	if w == nil {
		return nil
	}
	return &domain.Order{
		ID:                 w.ID,
		DisplayID:          w.DisplayID,
		Email:              w.Email,
		CurrencyCode:       w.CurrencyCode,
		Status:             w.Status,
		FulfillmentStatus:  domain.ParseFulfillmentStatus(w.FulfillmentStatus),
		Items:              fromWireLineItems(w.Items),
		ShippingAddress:    fromWireAddress(w.ShippingAddress),
		SubtotalCents:      toCents(w.Subtotal),
		ShippingTotalCents: toCents(w.ShippingTotal),
		TaxTotalCents:      toCents(w.TaxTotal),
		TotalCents:         toCents(w.Total),
		CreatedAt:          w.CreatedAt,
	}
}

type wireVariant struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SKU             string `json:"sku"`
	CalculatedPrice *struct {
		CalculatedAmount float64 `json:"calculated_amount"`
	} `json:"calculated_price"`
	InventoryQuantity int `json:"inventory_quantity"`
}

type wireProduct struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	Handle       string        `json:"handle"`
	Description  string        `json:"description"`
	Thumbnail    string        `json:"thumbnail"`
	CollectionID string        `json:"collection_id"`
	Variants     []wireVariant `json:"variants"`
}

func fromWireProduct(w wireProduct) domain.Product {
	p := domain.Product{
		ID:           w.ID,
		Title:        w.Title,
		Subtitle:     w.Subtitle,
		Handle:       w.Handle,
		Description:  w.Description,
		Thumbnail:    w.Thumbnail,
		CollectionID: w.CollectionID,
	}
	for _, v := range w.Variants {
		variant := domain.Variant{
			ID:      v.ID,
			Title:   v.Title,
			SKU:     v.SKU,
			InStock: v.InventoryQuantity > 0,
		}
		if v.CalculatedPrice != nil {
			variant.CalculatedPriceCents = toCents(v.CalculatedPrice.CalculatedAmount)
		}
		p.Variants = append(p.Variants, variant)
	}
	return p
}

// =============================================================================
// Cart operations
// =============================================================================

type cartEnvelope struct {
	Cart *wireCart `json:"cart"`
}

// CreateCart creates a new cart in the given region.
func (c *HTTPClient) CreateCart(ctx context.Context, params CreateCartParams) (*domain.Cart, error) {
	body := map[string]string{"region_id": params.RegionID}
	if params.Email != "" {
		body["email"] = params.Email
	}

	var env cartEnvelope
	if err := c.do(ctx, "commerce.cart.create", http.MethodPost, "/store/carts", nil, "", body, &env); err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.ErrRegionNotFound
		}
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// RetrieveCart fetches the current cart snapshot.
func (c *HTTPClient) RetrieveCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, "commerce.cart.get", http.MethodGet, "/store/carts/"+cartID, nil, "", nil, &env)
	if err != nil {
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// UpdateCart sets the cart's email and/or shipping address.
func (c *HTTPClient) UpdateCart(ctx context.Context, cartID string, params UpdateCartParams) (*domain.Cart, error) {
	body := map[string]interface{}{}
	if params.Email != "" {
		body["email"] = params.Email
	}
	if params.ShippingAddress != nil {
		body["shipping_address"] = toWireAddress(params.ShippingAddress)
	}

	var env cartEnvelope
	err := c.do(ctx, "commerce.cart.update", http.MethodPost, "/store/carts/"+cartID, nil, "", body, &env)
	if err != nil {
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// AddLineItem adds a variant to the cart.
func (c *HTTPClient) AddLineItem(ctx context.Context, cartID string, params AddLineItemParams) (*domain.Cart, error) {
	if params.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	body := map[string]interface{}{
		"variant_id": params.VariantID,
		"quantity":   params.Quantity,
	}

	var env cartEnvelope
	err := c.do(ctx, "commerce.cart.add_item", http.MethodPost, "/store/carts/"+cartID+"/line-items", nil, "", body, &env)
	if err != nil {
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// UpdateLineItem sets a line item's quantity exactly.
func (c *HTTPClient) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return c.RemoveLineItem(ctx, cartID, lineItemID)
	}
	body := map[string]int{"quantity": quantity}

	var env cartEnvelope
	err := c.do(ctx, "commerce.cart.update_item", http.MethodPost, "/store/carts/"+cartID+"/line-items/"+lineItemID, nil, "", body, &env)
	if err != nil {
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// RemoveLineItem deletes a line item and returns the refreshed cart.
func (c *HTTPClient) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*domain.Cart, error) {
	err := c.do(ctx, "commerce.cart.remove_item", http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+lineItemID, nil, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return c.RetrieveCart(ctx, cartID)
}

// =============================================================================
// Checkout operations
// =============================================================================

// ListShippingOptions returns the options valid for the cart's address.
func (c *HTTPClient) ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error) {
	query := url.Values{"cart_id": {cartID}}

	var env struct {
		ShippingOptions []struct {
			ID     string  `json:"id"`
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"shipping_options"`
	}
	err := c.do(ctx, "commerce.shipping.options", http.MethodGet, "/store/shipping-options", query, "", nil, &env)
	if err != nil {
		return nil, err
	}

	options := make([]domain.ShippingOption, 0, len(env.ShippingOptions))
	for _, o := range env.ShippingOptions {
		options = append(options, domain.ShippingOption{
			ID:          o.ID,
			Name:        o.Name,
			AmountCents: toCents(o.Amount),
		})
	}
	return options, nil
}

// AddShippingMethod attaches the chosen option to the cart.
func (c *HTTPClient) AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error) {
	body := map[string]string{"option_id": optionID}

	var env cartEnvelope
	err := c.do(ctx, "commerce.shipping.attach", http.MethodPost, "/store/carts/"+cartID+"/shipping-methods", nil, "", body, &env)
	if err != nil {
		return nil, err
	}
	return fromWireCart(env.Cart), nil
}

// ListPaymentProviders returns the providers enabled for a region.
func (c *HTTPClient) ListPaymentProviders(ctx context.Context, regionID string) ([]domain.PaymentProvider, error) {
	query := url.Values{"region_id": {regionID}}

	var env struct {
		PaymentProviders []struct {
			ID string `json:"id"`
		} `json:"payment_providers"`
	}
	err := c.do(ctx, "commerce.payment.providers", http.MethodGet, "/store/payment-providers", query, "", nil, &env)
	if err != nil {
		return nil, err
	}

	providers := make([]domain.PaymentProvider, 0, len(env.PaymentProviders))
	for _, p := range env.PaymentProviders {
		providers = append(providers, domain.PaymentProvider{ID: p.ID})
	}
	return providers, nil
}

// InitiatePaymentSession creates the cart's payment collection (if missing)
// and starts a session with the given provider.
func (c *HTTPClient) InitiatePaymentSession(ctx context.Context, cart *domain.Cart, providerID string) (*domain.PaymentCollection, error) {
	collectionID := ""
	if cart.PaymentCollection != nil {
		collectionID = cart.PaymentCollection.ID
	}

	var env struct {
		PaymentCollection *wirePaymentCollection `json:"payment_collection"`
	}

	if collectionID == "" {
		body := map[string]string{"cart_id": cart.ID}
		err := c.do(ctx, "commerce.payment.collection", http.MethodPost, "/store/payment-collections", nil, "", body, &env)
		if err != nil {
			return nil, err
		}
		collectionID = env.PaymentCollection.ID
	}

	body := map[string]string{"provider_id": providerID}
	err := c.do(ctx, "commerce.payment.session", http.MethodPost, "/store/payment-collections/"+collectionID+"/payment-sessions", nil, "", body, &env)
	if err != nil {
		return nil, err
	}
	return fromWirePaymentCollection(env.PaymentCollection), nil
}

// CompleteCart finalizes the cart into an order, or reports the
// charged-but-not-ordered partial failure.
func (c *HTTPClient) CompleteCart(ctx context.Context, cartID string) (*CompleteCartResult, error) {
	var env struct {
		Type  string     `json:"type"`
		Order *wireOrder `json:"order"`
		Cart  *wireCart  `json:"cart"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := c.do(ctx, "commerce.cart.complete", http.MethodPost, "/store/carts/"+cartID+"/complete", nil, "", struct{}{}, &env)
	if err != nil {
		return nil, err
	}

	result := &CompleteCartResult{
		Order: fromWireOrder(env.Order),
		Cart:  fromWireCart(env.Cart),
	}
	if env.Error != nil {
		result.Message = env.Error.Message
	}
	return result, nil
}

// =============================================================================
// Order operations
// =============================================================================

// RetrieveOrder fetches an order snapshot by id.
func (c *HTTPClient) RetrieveOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var env struct {
		Order *wireOrder `json:"order"`
	}
	err := c.do(ctx, "commerce.order.get", http.MethodGet, "/store/orders/"+orderID, nil, "", nil, &env)
	if err != nil {
		return nil, err
	}
	return fromWireOrder(env.Order), nil
}

// ListOrders returns the authenticated customer's order history.
func (c *HTTPClient) ListOrders(ctx context.Context, token string, params ListParams) ([]domain.Order, error) {
	query := listQuery(params)

	var env struct {
		Orders []wireOrder `json:"orders"`
	}
	err := c.do(ctx, "commerce.order.list", http.MethodGet, "/store/orders", query, token, nil, &env)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(env.Orders))
	for i := range env.Orders {
		orders = append(orders, *fromWireOrder(&env.Orders[i]))
	}
	return orders, nil
}

// =============================================================================
// Catalog operations
// =============================================================================

func listQuery(params ListParams) url.Values {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	return query
}

type productsEnvelope struct {
	Products []wireProduct `json:"products"`
	Count    int           `json:"count"`
}

// ListProducts returns catalog products priced for a region.
func (c *HTTPClient) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error) {
	query := listQuery(ListParams{Limit: params.Limit, Offset: params.Offset})
	if params.RegionID != "" {
		query.Set("region_id", params.RegionID)
	}
	if params.CollectionID != "" {
		query.Set("collection_id", params.CollectionID)
	}
	if params.Query != "" {
		query.Set("q", params.Query)
	}

	var env productsEnvelope
	err := c.do(ctx, "commerce.product.list", http.MethodGet, "/store/products", query, "", nil, &env)
	if err != nil {
		return nil, 0, err
	}

	products := make([]domain.Product, 0, len(env.Products))
	for _, p := range env.Products {
		products = append(products, fromWireProduct(p))
	}
	return products, env.Count, nil
}

// RetrieveProductByHandle fetches one product by its URL handle.
func (c *HTTPClient) RetrieveProductByHandle(ctx context.Context, handle, regionID string) (*domain.Product, error) {
	query := url.Values{"handle": {handle}}
	if regionID != "" {
		query.Set("region_id", regionID)
	}

	var env productsEnvelope
	err := c.do(ctx, "commerce.product.get", http.MethodGet, "/store/products", query, "", nil, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Products) == 0 {
		return nil, domain.NotFound("commerce.product.get", "product", handle)
	}
	product := fromWireProduct(env.Products[0])
	return &product, nil
}

// ListCollections returns merchandising collections.
func (c *HTTPClient) ListCollections(ctx context.Context, params ListParams) ([]domain.Collection, error) {
	var env struct {
		Collections []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Handle string `json:"handle"`
		} `json:"collections"`
	}
	err := c.do(ctx, "commerce.collection.list", http.MethodGet, "/store/collections", listQuery(params), "", nil, &env)
	if err != nil {
		return nil, err
	}

	collections := make([]domain.Collection, 0, len(env.Collections))
	for _, col := range env.Collections {
		collections = append(collections, domain.Collection{ID: col.ID, Title: col.Title, Handle: col.Handle})
	}
	return collections, nil
}

// RetrieveCollectionByHandle fetches one collection by its URL handle.
func (c *HTTPClient) RetrieveCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, error) {
	query := url.Values{"handle": {handle}}

	var env struct {
		Collections []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Handle string `json:"handle"`
		} `json:"collections"`
	}
	err := c.do(ctx, "commerce.collection.get", http.MethodGet, "/store/collections", query, "", nil, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Collections) == 0 {
		return nil, domain.NotFound("commerce.collection.get", "collection", handle)
	}
	col := env.Collections[0]
	return &domain.Collection{ID: col.ID, Title: col.Title, Handle: col.Handle}, nil
}

// ListRegions returns the platform's pricing regions.
func (c *HTTPClient) ListRegions(ctx context.Context) ([]domain.Region, error) {
	var env struct {
		Regions []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			CurrencyCode string `json:"currency_code"`
			Countries    []struct {
				ISO2 string `json:"iso_2"`
			} `json:"countries"`
		} `json:"regions"`
	}
	err := c.do(ctx, "commerce.region.list", http.MethodGet, "/store/regions", nil, "", nil, &env)
	if err != nil {
		return nil, err
	}

	regions := make([]domain.Region, 0, len(env.Regions))
	for _, r := range env.Regions {
		region := domain.Region{ID: r.ID, Name: r.Name, CurrencyCode: r.CurrencyCode}
		for _, country := range r.Countries {
			region.Countries = append(region.Countries, country.ISO2)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// =============================================================================
// Customer operations
// =============================================================================

type wireCustomer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func fromWireCustomer(w *wireCustomer) *domain.Customer {
	if w == nil {
		return nil
	}
	return &domain.Customer{
		ID:        w.ID,
		Email:     w.Email,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Phone:     w.Phone,
		CreatedAt: w.CreatedAt,
	}
}

// RegisterCustomer creates a customer account and returns an auth token.
// Registration is two platform calls: mint an identity token, then create
// the customer record under that token.
func (c *HTTPClient) RegisterCustomer(ctx context.Context, params RegisterParams) (string, *domain.Customer, error) {
	var tokenEnv struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": params.Email, "password": params.Password}
	err := c.do(ctx, "commerce.auth.register", http.MethodPost, "/auth/customer/emailpass/register", nil, "", body, &tokenEnv)
	if err != nil {
		return "", nil, err
	}

	var custEnv struct {
		Customer *wireCustomer `json:"customer"`
	}
	createBody := map[string]string{
		"email":      params.Email,
		"first_name": params.FirstName,
		"last_name":  params.LastName,
		"phone":      params.Phone,
	}
	err = c.do(ctx, "commerce.customer.create", http.MethodPost, "/store/customers", nil, tokenEnv.Token, createBody, &custEnv)
	if err != nil {
		return "", nil, err
	}

	return tokenEnv.Token, fromWireCustomer(custEnv.Customer), nil
}

// LoginCustomer exchanges credentials for an auth token.
func (c *HTTPClient) LoginCustomer(ctx context.Context, email, password string) (string, error) {
	var env struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, "commerce.auth.login", http.MethodPost, "/auth/customer/emailpass", nil, "", body, &env)
	if err != nil {
		if domain.IsCode(err, domain.EUNAUTHORIZED) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	return env.Token, nil
}

// RetrieveCustomer fetches the customer owning the token.
func (c *HTTPClient) RetrieveCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	var env struct {
		Customer *wireCustomer `json:"customer"`
	}
	err := c.do(ctx, "commerce.customer.me", http.MethodGet, "/store/customers/me", nil, token, nil, &env)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return fromWireCustomer(env.Customer), nil
}

// =============================================================================
// Return operations
// =============================================================================

// ListReturnReasons returns the platform's configured return reasons.
func (c *HTTPClient) ListReturnReasons(ctx context.Context) ([]domain.ReturnReason, error) {
	var env struct {
		ReturnReasons []struct {
			ID          string `json:"id"`
			Value       string `json:"value"`
			Label       string `json:"label"`
			Description string `json:"description"`
		} `json:"return_reasons"`
	}
	err := c.do(ctx, "commerce.return.reasons", http.MethodGet, "/store/return-reasons", nil, "", nil, &env)
	if err != nil {
		return nil, err
	}

	reasons := make([]domain.ReturnReason, 0, len(env.ReturnReasons))
	for _, r := range env.ReturnReasons {
		reasons = append(reasons, domain.ReturnReason{
			ID:          r.ID,
			Value:       r.Value,
			Label:       r.Label,
			Description: r.Description,
		})
	}
	return reasons, nil
}

// CreateReturn submits a return request for order items.
func (c *HTTPClient) CreateReturn(ctx context.Context, params CreateReturnParams) (*domain.Return, error) {
	type wireReturnItem struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
		ReasonID string `json:"reason_id,omitempty"`
		Note     string `json:"note,omitempty"`
	}
	items := make([]wireReturnItem, 0, len(params.Items))
	for _, it := range params.Items {
		items = append(items, wireReturnItem{
			ID:       it.LineItemID,
			Quantity: it.Quantity,
			ReasonID: it.ReasonID,
			Note:     it.Note,
		})
	}
	body := map[string]interface{}{
		"order_id": params.OrderID,
		"items":    items,
	}

	var env struct {
		Return *struct {
			ID           string    `json:"id"`
			OrderID      string    `json:"order_id"`
			Status       string    `json:"status"`
			RefundAmount float64   `json:"refund_amount"`
			CreatedAt    time.Time `json:"created_at"`
		} `json:"return"`
	}
	err := c.do(ctx, "commerce.return.create", http.MethodPost, "/store/returns", nil, params.Token, body, &env)
	if err != nil {
		return nil, err
	}
	if env.Return == nil {
		return nil, domain.Internal(nil, "commerce.return.create", "platform returned no return record")
	}

	return &domain.Return{
		ID:          env.Return.ID,
		OrderID:     env.Return.OrderID,
		Status:      env.Return.Status,
		RefundCents: toCents(env.Return.RefundAmount),
		CreatedAt:   env.Return.CreatedAt,
	}, nil
}
