// Package repomanager vends the repositories of one storage backend and
// groups their calls into units of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/repositories/carts"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/pendings"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/products"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/users"
)

// RepositoryManager is implemented by the Postgres, Mongo and memory
// backends.
//
// WithTx runs fn with a manager whose repositories share one unit of work.
// Postgres commits or rolls back atomically; Mongo and memory run fn
// directly against the live store. Ping reports whether the backing store
// answers.
type RepositoryManager interface {
	Users() users.Repository
	PendingRegistrations() pendings.Repository
	Products() products.Repository
	Carts() carts.Repository
	WithTx(ctx context.Context, fn func(ctx context.Context, rm RepositoryManager) error) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
