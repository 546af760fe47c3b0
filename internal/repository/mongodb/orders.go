package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status     string
	CustomerID *primitive.ObjectID
	From       *time.Time
	To         *time.Time // exclusive when Today-style windows are built by callers
	Limit      int64
}

func (f OrderFilter) query() bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.CustomerID != nil {
		query["customer.id"] = *f.CustomerID
	}
	dateRange := bson.M{}
	if f.From != nil {
		dateRange["$gte"] = *f.From
	}
	if f.To != nil {
		dateRange["$lt"] = *f.To
	}
	if len(dateRange) > 0 {
		query["orderDate"] = dateRange
	}
	return query
}

// NextOrderNumber reserves the next order number for the given day. The
// per-day sequence lives in a counter document bumped with an atomic upsert,
// so concurrent same-day creations always get distinct, increasing numbers.
// Format: ORD + yymmdd + 3-digit sequence, e.g. ORD240115003.
func (s *Store) NextOrderNumber(ctx context.Context, t time.Time) (string, error) {
	day := t.Format("060102")

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.coll(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": "order-" + day},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", errs.Storage("next order number", err)
	}

	return fmt.Sprintf("ORD%s%03d", day, counter.Seq), nil
}

// InsertOrder persists a new order document.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := s.coll(collOrders).InsertOne(ctx, order); err != nil {
		return errs.Storage("insert order", err)
	}
	return nil
}

// OrderByID fetches one order by its object id.
func (s *Store) OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.coll(collOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Order", id.Hex())
		}
		return nil, errs.Storage("find order", err)
	}
	return &order, nil
}

// Orders lists orders matching the filter, most recent first.
func (s *Store) Orders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.coll(collOrders).Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, errs.Storage("list orders", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errs.Storage("decode orders", err)
	}
	return orders, nil
}

// CountOrders counts orders matching the filter.
func (s *Store) CountOrders(ctx context.Context, filter OrderFilter) (int64, error) {
	n, err := s.coll(collOrders).CountDocuments(ctx, filter.query())
	if err != nil {
		return 0, errs.Storage("count orders", err)
	}
	return n, nil
}

// CountActiveOrders counts a customer's orders still pending or processing.
func (s *Store) CountActiveOrders(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	n, err := s.coll(collOrders).CountDocuments(ctx, bson.M{
		"customer.id": customerID,
		"status":      bson.M{"$in": bson.A{models.OrderStatusPending, models.OrderStatusProcessing}},
	})
	if err != nil {
		return 0, errs.Storage("count active orders", err)
	}
	return n, nil
}

// PendingOrders returns open orders oldest first, for the dashboard.
func (s *Store) PendingOrders(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.coll(collOrders).Find(ctx, bson.M{
		"status": bson.M{"$in": bson.A{models.OrderStatusPending, models.OrderStatusProcessing}},
	}, opts)
	if err != nil {
		return nil, errs.Storage("list pending orders", err)
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errs.Storage("decode pending orders", err)
	}
	return orders, nil
}

// UpdateOrderFields applies the given field set to an existing order and
// returns the updated document.
func (s *Store) UpdateOrderFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error) {
	var order models.Order
	err := s.coll(collOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Order", id.Hex())
		}
		return nil, errs.Storage("update order", err)
	}
	return &order, nil
}

// SetOrderFeedback points an order at its feedback record.
func (s *Store) SetOrderFeedback(ctx context.Context, orderID, feedbackID primitive.ObjectID) error {
	res, err := s.coll(collOrders).UpdateByID(ctx, orderID, bson.M{"$set": bson.M{"feedback": feedbackID}})
	if err != nil {
		return errs.Storage("set order feedback", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Order", orderID.Hex())
	}
	return nil
}

// DeleteOrder removes an order document.
func (s *Store) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll(collOrders).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Storage("delete order", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("Order", id.Hex())
	}
	return nil
}
