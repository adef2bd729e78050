package carts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu     sync.Mutex
	byUser map[string]*models.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string]*models.Cart)}
}

func (r *MemoryRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.byUser[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.NewString(), UserID: userID, Products: []models.CartItem{}}
		r.byUser[userID] = cart
	}
	cart.Merge(productID, quantity)

	return clone(cart), nil
}

func (r *MemoryRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(cart), nil
}

func (r *MemoryRepository) SetTotal(ctx context.Context, userID string, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.byUser[userID]
	if !ok {
		return common.ErrorNotFound
	}
	cart.TotalPrice = &total
	return nil
}

func clone(c *models.Cart) *models.Cart {
	out := *c
	out.Products = append([]models.CartItem{}, c.Products...)
	if c.TotalPrice != nil {
		v := *c.TotalPrice
		out.TotalPrice = &v
	}
	return &out
}
