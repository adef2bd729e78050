package models

// Product is a catalog item. ImageURLs grows as images are uploaded.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	OfferPrice  *float64 `json:"offer_price,omitempty"`
	Category    string   `json:"category"`
	ImageURLs   []string `json:"image_url"`
	Brand       string   `json:"brand"`
}

// EffectivePrice is the offer price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	return p.Price
}

// ProductFilter holds optional case-insensitive substring criteria.
// Empty fields match everything.
type ProductFilter struct {
	Title    string
	Brand    string
	Category string
}
