// Package carts persists one shopping cart per user.
package carts

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// Repository is implemented by every storage backend.
//
// AddItem merges quantity of productID into the user's cart, creating the
// cart on first use, and returns the updated cart. GetByUser returns
// common.ErrorNotFound when the user has no cart.
type Repository interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	SetTotal(ctx context.Context, userID string, total float64) error
}
