package products

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/mongox"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "products"

var now = time.Now

type productDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	OfferPrice  *float64  `bson:"offer_price,omitempty"`
	Category    string    `bson:"category"`
	ImageURLs   []string  `bson:"image_url"`
	Brand       string    `bson:"brand"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d *productDocument) toModel() *models.Product {
	images := d.ImageURLs
	if images == nil {
		images = []string{}
	}
	return &models.Product{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		OfferPrice:  d.OfferPrice,
		Category:    d.Category,
		ImageURLs:   images,
		Brand:       d.Brand,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the index List pages over.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("created_at_id"),
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	doc := productDocument{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		OfferPrice:  p.OfferPrice,
		Category:    p.Category,
		ImageURLs:   nonNil(p.ImageURLs),
		Brand:       p.Brand,
		CreatedAt:   now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if mongox.IsNoDocuments(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoRepository) AppendImage(ctx context.Context, id, url string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"image_url": url}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) Filter(ctx context.Context, f models.ProductFilter, limit int) ([]*models.Product, error) {
	filter := bson.M{}
	for field, value := range map[string]string{"title": f.Title, "brand": f.Brand, "category": f.Category} {
		if value != "" {
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
		}
	}
	return r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Product, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Product, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, nil
}
