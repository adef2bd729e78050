package repomanager

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/repositories/carts"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/pendings"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/products"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Used for
// local runs and tests.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	pendings *pendings.MemoryRepository
	products *products.MemoryRepository
	carts    *carts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		pendings: pendings.NewMemoryRepository(),
		products: products.NewMemoryRepository(),
		carts:    carts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository                   { return m.users }
func (m *MemoryRepositoryManager) PendingRegistrations() pendings.Repository { return m.pendings }
func (m *MemoryRepositoryManager) Products() products.Repository             { return m.products }
func (m *MemoryRepositoryManager) Carts() carts.Repository                   { return m.carts }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, rm RepositoryManager) error) error {
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(ctx context.Context) error { return nil }
