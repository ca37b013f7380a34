// Package bundle composes merchandising bundles from the live catalog.
// Composition is pure list processing: no remote calls, no stored state.
package bundle

import (
	"strings"

	"github.com/strandluxe/storefront/internal/domain"
)

// Definition describes a desired bundle as keyword slots. Each slot is
// filled by the first catalog product whose title or handle contains any
// of the slot's keywords.
type Definition struct {
	ID          string
	Name        string
	Description string

	// Slots holds one keyword set per bundle position.
	Slots [][]string
}

// Bundle is an assembled bundle priced from its products' first variants.
type Bundle struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Products    []domain.Product `json:"products"`
	TotalCents  int64            `json:"total_cents"`

	// Generic marks the fallback bundle assembled when no keyword
	// definition could be completed.
	Generic bool `json:"generic,omitempty"`
}

// DefaultDefinitions are the storefront's standing bundles.
var DefaultDefinitions = []Definition{
	{
		ID:          "repair-ritual",
		Name:        "Repair Ritual",
		Description: "Serum and mask, the full restoration routine.",
		Slots: [][]string{
			{"serum", "repair"},
			{"mask", "treatment"},
		},
	},
	{
		ID:          "length-and-shine",
		Name:        "Length & Shine",
		Description: "Extensions with a finishing oil.",
		Slots: [][]string{
			{"extension", "clip-in", "weft"},
			{"oil", "shine", "gloss"},
		},
	},
}

// Compose assembles each definition against the catalog in order. A
// definition is included only when every slot matched a distinct product.
// When no definition completes, a single generic bundle of the first two
// catalog products is returned instead; fewer than two products yield
// nothing.
func Compose(defs []Definition, catalog []domain.Product) []Bundle {
	var bundles []Bundle

	for _, def := range defs {
		if b, ok := assemble(def, catalog); ok {
			bundles = append(bundles, b)
		}
	}
	if len(bundles) > 0 {
		return bundles
	}

	if len(catalog) < 2 {
		return nil
	}
	pair := []domain.Product{catalog[0], catalog[1]}
	return []Bundle{{
		ID:          "duo",
		Name:        "The Duo",
		Description: "Two of our favorites, together.",
		Products:    pair,
		TotalCents:  pair[0].FirstVariantPriceCents() + pair[1].FirstVariantPriceCents(),
		Generic:     true,
	}}
}

func assemble(def Definition, catalog []domain.Product) (Bundle, bool) {
	used := make(map[string]bool, len(def.Slots))
	products := make([]domain.Product, 0, len(def.Slots))
	var total int64

	for _, keywords := range def.Slots {
		matched := false
		for _, p := range catalog {
			if used[p.ID] || !matchAny(p, keywords) {
				continue
			}
			used[p.ID] = true
			products = append(products, p)
			total += p.FirstVariantPriceCents()
			matched = true
			break
		}
		if !matched {
			return Bundle{}, false
		}
	}

	return Bundle{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Products:    products,
		TotalCents:  total,
	}, true
}

func matchAny(p domain.Product, keywords []string) bool {
	title := strings.ToLower(p.Title)
	handle := strings.ToLower(p.Handle)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(title, kw) || strings.Contains(handle, kw) {
			return true
		}
	}
	return false
}
