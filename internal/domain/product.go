package domain

// Catalog domain errors.
var (
	ErrProductNotFound    = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCollectionNotFound = &Error{Code: ENOTFOUND, Message: "Collection not found"}
	ErrRegionNotFound     = &Error{Code: ENOTFOUND, Message: "Region not found"}
)

// Product is a catalog product as priced for a region.
type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Handle       string    `json:"handle"`
	Description  string    `json:"description,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	CollectionID string    `json:"collection_id,omitempty"`
	Variants     []Variant `json:"variants"`
}

// FirstVariantPriceCents returns the calculated price of the first variant,
// or 0 when the product has no priced variant. Bundle composition and the
// panel cart both price products this way.
func (p *Product) FirstVariantPriceCents() int64 {
	if len(p.Variants) == 0 {
		return 0
	}
	return p.Variants[0].CalculatedPriceCents
}

// Variant is a purchasable variation of a product (for hair products,
// typically a length).
type Variant struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	SKU                  string `json:"sku,omitempty"`
	CalculatedPriceCents int64  `json:"calculated_price_cents"`
	InStock              bool   `json:"in_stock"`
}

// Collection groups products for merchandising.
type Collection struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// Region is the platform's geography/currency/tax context used to price a
// cart or product listing.
type Region struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CurrencyCode string   `json:"currency_code"`
	Countries    []string `json:"countries,omitempty"`
}
