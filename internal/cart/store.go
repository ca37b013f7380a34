// Package cart holds the in-memory state behind the slide-out cart panel.
// It mirrors what the shopper sees, not what the platform has: the remote
// cart is the authoritative order of record, this store only drives the
// panel's line list, badge count, and visibility.
package cart

import (
	"sync"

	"github.com/strandluxe/storefront/internal/domain"
)

// Item is one line in the cart panel.
type Item struct {
	ProductID      string `json:"product_id"`
	Title          string `json:"title"`
	Handle         string `json:"handle"`
	Thumbnail      string `json:"thumbnail"`
	VariantID      string `json:"variant_id"`
	VariantTitle   string `json:"variant_title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Store is one browser session's panel state. Handlers run concurrently,
// so every method takes the store's lock.
type Store struct {
	mu    sync.Mutex
	items []Item
	open  bool
}

// NewStore creates an empty, closed panel store.
func NewStore() *Store {
	return &Store{}
}

// Add puts a product in the panel and opens it. A repeat add of the same
// product increments the existing entry's quantity and keeps that entry's
// originally chosen variant, even if a different one is passed.
func (s *Store) Add(product domain.Product, chosen domain.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity++
			s.open = true
			return
		}
	}

	s.items = append(s.items, Item{
		ProductID:      product.ID,
		Title:          product.Title,
		Handle:         product.Handle,
		Thumbnail:      product.Thumbnail,
		VariantID:      chosen.ID,
		VariantTitle:   chosen.Title,
		UnitPriceCents: chosen.CalculatedPriceCents,
		Quantity:       1,
	})
	s.open = true
}

// Remove drops the entry for productID. Absent entries are a no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets an entry's quantity exactly. Quantities at or below
// zero remove the entry instead.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Open shows the panel. Idempotent.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close hides the panel. Idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports the panel's visibility flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Items returns a copy of the panel lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the badge number: the sum of all quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalCents is the panel subtotal: unit price times quantity, summed.
func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// Clear empties the panel and hides it. Called after a completed checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.open = false
}
