package persist

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCollection adapts a live *mongo.Collection to the Collection
// interface, retrying transient failures with exponential backoff.
type MongoCollection struct {
	coll     *mongo.Collection
	retryMax time.Duration
}

// NewMongoCollection wraps a driver collection. retryMax bounds the total
// time spent retrying a transient write failure; zero disables retries.
func NewMongoCollection(coll *mongo.Collection, retryMax time.Duration) *MongoCollection {
	if retryMax < 0 {
		retryMax = 0
	}
	return &MongoCollection{coll: coll, retryMax: retryMax}
}

// UpdateOne implements Collection.
func (m *MongoCollection) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (int64, error) {
	var matched int64
	op := func() error {
		result, err := m.coll.UpdateOne(ctx, filter, update)
		if err != nil {
			if retryableWriteError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		matched = result.MatchedCount
		return nil
	}

	if m.retryMax == 0 {
		if err := op(); err != nil {
			return 0, unwrapPermanent(err)
		}
		return matched, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = m.retryMax
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return 0, unwrapPermanent(err)
	}
	return matched, nil
}

// retryableWriteError reports whether the driver error is worth retrying:
// network interruptions, timeouts, and errors the server labels retryable.
func retryableWriteError(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	if labeled, ok := err.(interface{ HasErrorLabel(string) bool }); ok {
		return labeled.HasErrorLabel("RetryableWriteError")
	}
	return false
}

func unwrapPermanent(err error) error {
	if pe, ok := err.(*backoff.PermanentError); ok {
		return pe.Err
	}
	return err
}
