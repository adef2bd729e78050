package pendings

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.Mutex
	pending map[string]models.PendingRegistration
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pending: make(map[string]models.PendingRegistration)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[p.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.pending[p.ID] = *p
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.pending, id)
	return nil
}
