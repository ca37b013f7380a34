package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
)

func TestListReturnReasons(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewReturnHandler(client, nil, nil)

	rec := httptest.NewRecorder()
	h.ListReasons(rec, httptest.NewRequest(http.MethodGet, "/api/return-reasons", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "return_reasons") {
		t.Error("expected return_reasons in response")
	}
}

func TestCreateReturn(t *testing.T) {
	client := commerce.NewMockClient()

	var gotToken string
	client.CreateReturnFunc = func(ctx context.Context, params commerce.CreateReturnParams) (*domain.Return, error) {
		gotToken = params.Token
		return &domain.Return{ID: "ret_1", OrderID: params.OrderID, Status: "requested", RefundCents: 4900}, nil
	}

	h := NewReturnHandler(client, nil, nil)

	body := strings.NewReader(`{
		"order_id": "order_1",
		"items": [{"line_item_id": "li_1", "quantity": 1, "reason_id": "rr_damaged"}]
	}`)
	req := withToken(httptest.NewRequest(http.MethodPost, "/api/returns", body), "tok_abc")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if gotToken != "tok_abc" {
		t.Errorf("token = %q, want tok_abc", gotToken)
	}
	if !strings.Contains(rec.Body.String(), "ret_1") {
		t.Error("expected created return in response")
	}
}

func TestCreateReturnValidation(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewReturnHandler(client, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"no items", `{"order_id":"order_1","items":[]}`},
		{"zero quantity", `{"order_id":"order_1","items":[{"line_item_id":"li_1","quantity":0,"reason_id":"rr_x"}]}`},
		{"missing reason", `{"order_id":"order_1","items":[{"line_item_id":"li_1","quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withToken(httptest.NewRequest(http.MethodPost, "/api/returns", strings.NewReader(tt.body)), "tok_abc")
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBundleList(t *testing.T) {
	client := seedCatalog()
	h := NewBundleHandler(client, NewRegionCache(client, "reg_us"), nil, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/bundles", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Serum plus mask satisfy the repair ritual's two slots.
	if !strings.Contains(rec.Body.String(), "repair-ritual") {
		t.Errorf("body = %s, want a repair-ritual bundle", rec.Body.String())
	}
}
