package pendings

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/mongox"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "temp-user"

type pendingDocument struct {
	ID        string    `bson:"_id"`
	OTP       string    `bson:"otp"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Name      string    `bson:"name"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, p *models.PendingRegistration) error {
	doc := pendingDocument{
		ID:        p.ID,
		OTP:       p.OTP,
		Email:     p.Email,
		Password:  p.PasswordHash,
		Name:      p.Name,
		ExpiresAt: p.ExpiresAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.PendingRegistration, error) {
	var doc pendingDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if mongox.IsNoDocuments(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &models.PendingRegistration{
		ID:           doc.ID,
		OTP:          doc.OTP,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		Name:         doc.Name,
		ExpiresAt:    doc.ExpiresAt,
	}, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
