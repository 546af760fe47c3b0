package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Category string
	Active   *bool
	Search   string
}

// InsertItem persists a new catalog item.
func (s *Store) InsertItem(ctx context.Context, item *models.Item) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.coll(collItems).InsertOne(ctx, item); err != nil {
		return errs.Storage("insert item", err)
	}
	return nil
}

// ItemByID fetches one item by its object id.
func (s *Store) ItemByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	err := s.coll(collItems).FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Item", id.Hex())
		}
		return nil, errs.Storage("find item", err)
	}
	return &item, nil
}

// Items lists catalog items matching the filter, sorted by name.
func (s *Store) Items(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Active != nil {
		query["isActive"] = *filter.Active
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	cursor, err := s.coll(collItems).Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errs.Storage("list items", err)
	}

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errs.Storage("decode items", err)
	}
	return items, nil
}

// UpdateItem applies the given field set to an existing item.
func (s *Store) UpdateItem(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Item, error) {
	fields["updatedAt"] = time.Now()

	var item models.Item
	err := s.coll(collItems).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Item", id.Hex())
		}
		return nil, errs.Storage("update item", err)
	}
	return &item, nil
}

// DeleteItem removes an item from the catalog.
func (s *Store) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll(collItems).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Storage("delete item", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("Item", id.Hex())
	}
	return nil
}

// AdjustItemStock applies a signed delta to an item's stock quantity as one
// atomic operation. For negative deltas the update is guarded so the
// quantity can never go below zero: concurrent orders for the last unit
// cannot both succeed.
func (s *Store) AdjustItemStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Item, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stockQuantity"] = bson.M{"$gte": -delta}
	}

	var item models.Item
	err := s.coll(collItems).FindOneAndUpdate(ctx,
		filter,
		bson.M{
			"$inc": bson.M{"stockQuantity": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.Storage("adjust stock", err)
	}

	// The guard rejected the update or the item is gone; look again to tell
	// the two apart.
	current, lookupErr := s.ItemByID(ctx, id)
	if lookupErr != nil {
		return nil, lookupErr
	}
	return nil, errs.InsufficientStock(current.Name, current.StockQuantity)
}

// LowStockItems returns items at or below their minimum stock level, most
// depleted first.
func (s *Store) LowStockItems(ctx context.Context, limit int64) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stockQuantity", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.coll(collItems).Find(ctx,
		bson.M{"$expr": bson.M{"$lte": bson.A{"$stockQuantity", "$minStockLevel"}}},
		opts,
	)
	if err != nil {
		return nil, errs.Storage("list low stock items", err)
	}

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errs.Storage("decode low stock items", err)
	}
	return items, nil
}

// ItemsSorted lists every item ordered by category then name, for the
// inventory report.
func (s *Store) ItemsSorted(ctx context.Context) ([]models.Item, error) {
	cursor, err := s.coll(collItems).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, errs.Storage("list items", err)
	}

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errs.Storage("decode items", err)
	}
	return items, nil
}
