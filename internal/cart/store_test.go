package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/strandluxe/storefront/internal/domain"
)

func product(id string) domain.Product {
	return domain.Product{
		ID:     id,
		Title:  "Product " + id,
		Handle: "product-" + id,
	}
}

func variant(id string, priceCents int64) domain.Variant {
	return domain.Variant{ID: id, Title: id, CalculatedPriceCents: priceCents, InStock: true}
}

func TestStore_Add_NewEntry(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_1"), variant("18in", 4900))

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "prod_1", items[0].ProductID)
	assert.Equal(t, "18in", items[0].VariantID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, s.IsOpen(), "adding must open the panel")
}

func TestStore_Add_RepeatKeepsOriginalVariant(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_1"), variant("18in", 4900))
	s.Add(product("prod_1"), variant("24in", 6900))

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "18in", items[0].VariantID, "repeat add keeps the first chosen variant")
	assert.Equal(t, int64(4900), items[0].UnitPriceCents)
}

func TestStore_Add_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_b"), variant("v1", 100))
	s.Add(product("prod_a"), variant("v2", 200))
	s.Add(product("prod_b"), variant("v1", 100))

	items := s.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "prod_b", items[0].ProductID)
	assert.Equal(t, "prod_a", items[1].ProductID)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_1"), variant("v1", 100))

	s.Remove("prod_1")
	assert.Empty(t, s.Items())

	// absent id is a no-op, not an error
	s.Remove("prod_missing")
	assert.Empty(t, s.Items())
}

func TestStore_SetQuantity(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_1"), variant("v1", 100))

	s.SetQuantity("prod_1", 5)
	assert.Equal(t, 5, s.Items()[0].Quantity)

	// exact set, not incremental
	s.SetQuantity("prod_1", 2)
	assert.Equal(t, 2, s.Items()[0].Quantity)

	// unknown product is a no-op
	s.SetQuantity("prod_missing", 3)
	assert.Len(t, s.Items(), 1)
}

func TestStore_SetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		s := NewStore()
		s.Add(product("prod_1"), variant("v1", 100))
		s.SetQuantity("prod_1", qty)
		assert.Empty(t, s.Items(), "quantity %d must remove", qty)
	}
}

func TestStore_OpenClose_Idempotent(t *testing.T) {
	s := NewStore()
	assert.False(t, s.IsOpen())

	s.Open()
	s.Open()
	assert.True(t, s.IsOpen())

	s.Close()
	s.Close()
	assert.False(t, s.IsOpen())
}

func TestStore_CountAndTotal(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, int64(0), s.TotalCents())

	s.Add(product("prod_1"), variant("v1", 49))
	s.SetQuantity("prod_1", 2)
	s.Add(product("prod_2"), variant("v2", 15))

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, int64(113), s.TotalCents())
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Add(product("prod_1"), variant("v1", 100))

	s.Clear()
	assert.Empty(t, s.Items())
	assert.False(t, s.IsOpen())
	assert.Equal(t, int64(0), s.TotalCents())
}

func TestStore_ConcurrentMutation(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(product("prod_1"), variant("v1", 100))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Count())
	assert.Len(t, s.Items(), 1)
}

func TestRegistry_ForIsolatesSessions(t *testing.T) {
	r := NewRegistry(0)

	a := r.For("sess_a")
	b := r.For("sess_b")
	a.Add(product("prod_1"), variant("v1", 100))

	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 0, b.Count())
	assert.Same(t, a, r.For("sess_a"), "same session gets the same store")
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(0)
	r.For("sess_a").Add(product("prod_1"), variant("v1", 100))

	r.Remove("sess_a")
	assert.Equal(t, 0, r.For("sess_a").Count(), "removed session starts fresh")
}

func TestRegistry_PruneDropsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Hour)
	current := time.Now()
	r.now = func() time.Time { return current }

	r.For("sess_old")
	current = current.Add(2 * time.Hour)
	r.For("sess_new")

	removed := r.Prune()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
}
