package models

// CartItem is one line of a cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart holds every line item of a single user.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Products   []CartItem `json:"products"`
	TotalPrice *float64   `json:"total_price,omitempty"`
}

// Merge adds quantity of productID, incrementing an existing line or
// appending a new one.
func (c *Cart) Merge(productID string, quantity int) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity += quantity
			return
		}
	}
	c.Products = append(c.Products, CartItem{ProductID: productID, Quantity: quantity})
}
