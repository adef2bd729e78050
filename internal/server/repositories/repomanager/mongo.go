package repomanager

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/repositories/carts"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/pendings"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/products"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoRepositoryManager wraps a connected database. client may be nil,
// in which case Close is a no-op.
func NewMongoRepositoryManager(client *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: db}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) PendingRegistrations() pendings.Repository {
	return pendings.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Products() products.Repository {
	return products.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Carts() carts.Repository {
	return carts.NewMongoRepository(m.db)
}

// WithTx runs fn directly; the steps are not atomic across documents.
func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, rm RepositoryManager) error) error {
	return fn(ctx, m)
}

// RunMigrations creates the unique indexes on users.email and cart.user_id
// and the products paging index.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := users.NewMongoRepository(m.db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := carts.NewMongoRepository(m.db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return products.NewMongoRepository(m.db).EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
