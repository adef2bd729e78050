package carts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/mongox"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "cart"

type itemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type cartDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Products   []itemDocument     `bson:"products"`
	TotalPrice *float64           `bson:"total_price,omitempty"`
}

func (d *cartDocument) toModel() *models.Cart {
	items := make([]models.CartItem, 0, len(d.Products))
	for _, it := range d.Products {
		items = append(items, models.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &models.Cart{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Products:   items,
		TotalPrice: d.TotalPrice,
	}
}

// MongoRepository merges line items with single-document atomic updates:
// $inc on an existing line, otherwise $push with upsert. A unique index on
// user_id turns a lost upsert race into a duplicate key, which is retried
// as an increment.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	const attempts = 2

	for i := 0; i < attempts; i++ {
		done, err := r.increment(ctx, userID, productID, quantity)
		if err != nil {
			return nil, err
		}
		if done {
			return r.GetByUser(ctx, userID)
		}

		_, err = r.coll.UpdateOne(ctx,
			bson.M{"user_id": userID, "products.product_id": bson.M{"$ne": productID}},
			bson.M{"$push": bson.M{"products": itemDocument{ProductID: productID, Quantity: quantity}}},
			options.Update().SetUpsert(true),
		)
		if err == nil {
			return r.GetByUser(ctx, userID)
		}
		if !mongox.IsDuplicateKey(err) {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return nil, fmt.Errorf("db error: cart update for user %s kept conflicting", userID)
}

func (r *MongoRepository) increment(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID, "products.product_id": productID},
		bson.M{"$inc": bson.M{"products.$.quantity": quantity}},
	)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var doc cartDocument
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if mongox.IsNoDocuments(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) SetTotal(ctx context.Context, userID string, total float64) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{"total_price": total}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
