// Package mongox holds the small pieces shared by the MongoDB repositories:
// connecting with a bounded retry, id parsing and error classification.
package mongox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectAttempts = 5
	connectBackoff  = 200 * time.Millisecond
)

// Connect opens a client for uri and pings the primary, retrying the ping
// with exponential backoff. It returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := pingWithRetry(ctx, ping, connectAttempts, connectBackoff); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(database), nil
}

func pingWithRetry(ctx context.Context, ping func(context.Context) error, attempts uint64, base time.Duration) error {
	b := retry.WithMaxRetries(attempts, retry.NewExponential(base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// ObjectIDFromHex parses a hex object id, mapping failures to
// common.ErrorInvalidID.
func ObjectIDFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", common.ErrorInvalidID, id)
	}
	return oid, nil
}

// IsDuplicateKey reports whether err is a duplicate key write error.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNoDocuments reports whether err signals an empty single-document result.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
