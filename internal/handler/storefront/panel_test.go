package storefront

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/domain"
)

func newPanelHandler(t *testing.T) (*PanelHandler, *cart.Registry) {
	t.Helper()
	client := seedCatalog()
	carts := cart.NewRegistry(cart.DefaultMaxIdle)
	return NewPanelHandler(carts, client, NewRegionCache(client, "reg_us"), nil), carts
}

func TestPanelGetEmpty(t *testing.T) {
	h, _ := newPanelHandler(t)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/panel", nil), "sess_1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var state panelState
	decodeBody(t, rec, &state)
	if state.Open || state.Count != 0 || state.TotalCents != 0 {
		t.Errorf("empty panel state = %+v", state)
	}
}

func TestPanelAddItemOpensPanel(t *testing.T) {
	h, _ := newPanelHandler(t)

	body := strings.NewReader(`{"product_handle":"silk-repair-serum","variant_id":"var_serum_50"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/panel/items", body), "sess_1")
	rec := httptest.NewRecorder()
	h.AddItem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var state panelState
	decodeBody(t, rec, &state)

	if !state.Open {
		t.Error("adding an item should open the panel")
	}
	if state.Count != 1 || state.TotalCents != 4900 {
		t.Errorf("state = %+v, want count 1 total 4900", state)
	}
	if state.Items[0].VariantTitle != "50ml" {
		t.Errorf("variant title = %q, want 50ml", state.Items[0].VariantTitle)
	}
}

func TestPanelAddItemDefaultVariant(t *testing.T) {
	h, _ := newPanelHandler(t)

	body := strings.NewReader(`{"product_handle":"overnight-hair-mask"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/panel/items", body), "sess_1")
	rec := httptest.NewRecorder()
	h.AddItem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var state panelState
	decodeBody(t, rec, &state)
	if state.Items[0].VariantID != "var_mask" {
		t.Errorf("variant = %q, want the product's first variant", state.Items[0].VariantID)
	}
}

func TestPanelAddItemForeignVariant(t *testing.T) {
	h, _ := newPanelHandler(t)

	body := strings.NewReader(`{"product_handle":"silk-repair-serum","variant_id":"var_mask"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/panel/items", body), "sess_1")
	rec := httptest.NewRecorder()
	h.AddItem(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != domain.EINVALID {
		t.Errorf("code = %q, want %q", code, domain.EINVALID)
	}
}

func TestPanelSetQuantityZeroRemoves(t *testing.T) {
	h, carts := newPanelHandler(t)

	add := strings.NewReader(`{"product_handle":"silk-repair-serum"}`)
	h.AddItem(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodPost, "/api/panel/items", add), "sess_1"))

	req := withSession(httptest.NewRequest(http.MethodPut, "/api/panel/items/prod_serum", strings.NewReader(`{"quantity":0}`)), "sess_1")
	req.SetPathValue("id", "prod_serum")
	rec := httptest.NewRecorder()
	h.SetQuantity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if carts.For("sess_1").Count() != 0 {
		t.Error("zero quantity should remove the line")
	}
}

func TestPanelSessionsAreIsolated(t *testing.T) {
	h, carts := newPanelHandler(t)

	add := strings.NewReader(`{"product_handle":"silk-repair-serum"}`)
	h.AddItem(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodPost, "/api/panel/items", add), "sess_a"))

	if carts.For("sess_b").Count() != 0 {
		t.Error("another session's panel should be empty")
	}
}

func TestPanelOpenClose(t *testing.T) {
	h, carts := newPanelHandler(t)

	h.Open(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodPost, "/api/panel/open", nil), "sess_1"))
	if !carts.For("sess_1").IsOpen() {
		t.Fatal("panel should be open")
	}

	h.Close(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodPost, "/api/panel/close", nil), "sess_1"))
	if carts.For("sess_1").IsOpen() {
		t.Fatal("panel should be closed")
	}
}
