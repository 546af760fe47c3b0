// Package mongodb implements the document store behind the catalog, order,
// feedback, expense and user collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
)

// Collection names.
const (
	collItems    = "items"
	collOrders   = "orders"
	collFeedback = "feedbacks"
	collExpenses = "expenses"
	collUsers    = "users"
	collCounters = "counters"
)

// Store is the MongoDB-backed repository shared by all services.
type Store struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewStore connects to MongoDB, verifies the connection and returns a Store.
func NewStore(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName, logger: logger}, nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// order numbers, usernames, and the one-feedback-per-order constraint.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.coll(collOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderNumber", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create orderNumber index: %w", err)
	}

	if _, err := s.coll(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create username index: %w", err)
	}

	if _, err := s.coll(collFeedback).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create feedback order index: %w", err)
	}

	return nil
}

// WithTransaction runs fn inside a multi-document transaction. Repository
// calls made with the context passed to fn join the transaction. When the
// deployment does not support transactions the returned error wraps
// errs.ErrTxUnsupported so callers can choose a fallback path; all other
// errors from fn are returned unchanged after the transaction aborts.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		if txUnsupported(err) {
			return fmt.Errorf("start session: %v: %w", err, errs.ErrTxUnsupported)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && txUnsupported(err) {
		return fmt.Errorf("transaction: %v: %w", err, errs.ErrTxUnsupported)
	}
	return err
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// txUnsupported recognizes the server errors a standalone (non-replica-set)
// deployment raises when asked for a transaction.
func txUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 20 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "transactions are not supported")
}
