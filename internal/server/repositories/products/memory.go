package products

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// MemoryRepository keeps products in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Product)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.byID[p.ID] = clone(p)
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			result = append(result, clone(p))
		}
	}
	return result, nil
}

func (r *MemoryRepository) AppendImage(ctx context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.ImageURLs = append(p.ImageURLs, url)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Product, 0, limit)
	for i := offset; i < len(r.order) && len(result) < limit; i++ {
		result = append(result, clone(r.byID[r.order[i]]))
	}
	return result, nil
}

func (r *MemoryRepository) Filter(ctx context.Context, f models.ProductFilter, limit int) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Product, 0, limit)
	for _, id := range r.order {
		if len(result) == limit {
			break
		}
		if p := r.byID[id]; Matches(p, f) {
			result = append(result, clone(p))
		}
	}
	return result, nil
}

func clone(p *models.Product) *models.Product {
	c := *p
	c.ImageURLs = append([]string{}, p.ImageURLs...)
	if p.OfferPrice != nil {
		v := *p.OfferPrice
		c.OfferPrice = &v
	}
	return &c
}
