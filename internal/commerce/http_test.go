package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strandluxe/storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Config{
		BaseURL:        srv.URL,
		PublishableKey: "pk_test_123",
	}, nil)
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return client
}

func TestHTTPClient_SendsPlatformHeaders(t *testing.T) {
	var gotKey, gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-publishable-api-key")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders": []}`))
	}))

	_, err := client.ListOrders(context.Background(), "tok_abc", ListParams{})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if gotKey != "pk_test_123" {
		t.Errorf("publishable key header = %q, want %q", gotKey, "pk_test_123")
	}
	if gotAuth != "Bearer tok_abc" {
		t.Errorf("authorization header = %q, want %q", gotAuth, "Bearer tok_abc")
	}
}

func TestHTTPClient_RetrieveCart_ConvertsAmountsToCents(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/carts/cart_123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cart": {
			"id": "cart_123",
			"currency_code": "usd",
			"items": [
				{"id": "item_1", "product_id": "prod_1", "variant_id": "var_1",
				 "product_title": "Silk Repair Serum", "title": "50ml",
				 "quantity": 2, "unit_price": 49.99, "total": 99.98}
			],
			"item_subtotal": 99.98,
			"shipping_total": 5.00,
			"tax_total": 0.29,
			"total": 105.27
		}}`))
	}))

	cart, err := client.RetrieveCart(context.Background(), "cart_123")
	if err != nil {
		t.Fatalf("RetrieveCart() error = %v", err)
	}
	if cart.ID != "cart_123" {
		t.Errorf("cart.ID = %q", cart.ID)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("len(cart.Items) = %d, want 1", len(cart.Items))
	}
	item := cart.Items[0]
	if item.UnitPriceCents != 4999 {
		t.Errorf("UnitPriceCents = %d, want 4999", item.UnitPriceCents)
	}
	if item.LineTotalCents != 9998 {
		t.Errorf("LineTotalCents = %d, want 9998", item.LineTotalCents)
	}
	if item.Title != "Silk Repair Serum" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.VariantTitle != "50ml" {
		t.Errorf("VariantTitle = %q", item.VariantTitle)
	}
	if cart.TaxTotalCents != 29 {
		t.Errorf("TaxTotalCents = %d, want 29", cart.TaxTotalCents)
	}
	if cart.TotalCents != 10527 {
		t.Errorf("TotalCents = %d, want 10527", cart.TotalCents)
	}
}

func TestHTTPClient_MapsStatusToDomainCode(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"not found", http.StatusNotFound, `{"message": "Cart not found"}`, domain.ENOTFOUND},
		{"validation", http.StatusBadRequest, `{"message": "quantity must be positive"}`, domain.EINVALID},
		{"unauthorized", http.StatusUnauthorized, `{"message": "Invalid token"}`, domain.EUNAUTHORIZED},
		{"rate limited", http.StatusTooManyRequests, ``, domain.ERATELIMIT},
		{"server error", http.StatusBadGateway, `{"message": "upstream exploded"}`, domain.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.RetrieveCart(context.Background(), "cart_123")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := domain.ErrorCode(err); got != tt.wantCode {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestHTTPClient_ServerErrorHidesDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "pg: connection refused at 10.0.0.4"}`))
	}))

	_, err := client.RetrieveCart(context.Background(), "cart_123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := domain.ErrorMessage(err)
	if msg != "An internal error occurred. Please try again later." {
		t.Errorf("ErrorMessage() = %q, leaked upstream detail", msg)
	}
}

func TestHTTPClient_CompleteCart_OrderArm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/store/carts/cart_123/complete" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type": "order", "order": {
			"id": "order_1", "display_id": 42, "email": "a@b.com",
			"currency_code": "usd", "status": "pending",
			"fulfillment_status": "not_fulfilled", "total": 105.27
		}}`))
	}))

	result, err := client.CompleteCart(context.Background(), "cart_123")
	if err != nil {
		t.Fatalf("CompleteCart() error = %v", err)
	}
	if result.Order == nil {
		t.Fatal("result.Order = nil, want order")
	}
	if result.Cart != nil {
		t.Error("result.Cart set on order arm")
	}
	if result.Order.DisplayID != 42 {
		t.Errorf("DisplayID = %d, want 42", result.Order.DisplayID)
	}
	if result.Order.TotalCents != 10527 {
		t.Errorf("TotalCents = %d, want 10527", result.Order.TotalCents)
	}
	if result.Order.FulfillmentStatus != domain.FulfillmentOther {
		t.Errorf("FulfillmentStatus = %q, want folded to other", result.Order.FulfillmentStatus)
	}
}

func TestHTTPClient_CompleteCart_CartArm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type": "cart",
			"cart": {"id": "cart_123", "total": 105.27},
			"error": {"message": "inventory reservation failed"}}`))
	}))

	result, err := client.CompleteCart(context.Background(), "cart_123")
	if err != nil {
		t.Fatalf("CompleteCart() error = %v", err)
	}
	if result.Order != nil {
		t.Error("result.Order set on cart arm")
	}
	if result.Cart == nil {
		t.Fatal("result.Cart = nil, want cart")
	}
	if result.Message != "inventory reservation failed" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestHTTPClient_LoginCustomer_MapsUnauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Invalid email or password"}`))
	}))

	_, err := client.LoginCustomer(context.Background(), "a@b.com", "wrong")
	if err != domain.ErrInvalidCredentials {
		t.Errorf("LoginCustomer() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestHTTPClient_RetrieveProductByHandle_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [], "count": 0}`))
	}))

	_, err := client.RetrieveProductByHandle(context.Background(), "no-such", "reg_us")
	if got := domain.ErrorCode(err); got != domain.ENOTFOUND {
		t.Errorf("ErrorCode() = %q, want %q", got, domain.ENOTFOUND)
	}
}

func TestToCents_ExactOnDecimalFractions(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.29, 29},
		{49.99, 4999},
		{105.27, 10527},
		{1234567.89, 123456789},
	}
	for _, tt := range tests {
		if got := toCents(tt.in); got != tt.want {
			t.Errorf("toCents(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
