package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

type fakeStore struct {
	items map[primitive.ObjectID]*models.Item
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[primitive.ObjectID]*models.Item{}}
}

func (f *fakeStore) InsertItem(_ context.Context, item *models.Item) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeStore) ItemByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errs.NotFound("Item", id.Hex())
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) Items(_ context.Context, filter mongodb.ItemFilter) ([]models.Item, error) {
	list := []models.Item{}
	for _, item := range f.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Active != nil && item.IsActive != *filter.Active {
			continue
		}
		list = append(list, *item)
	}
	return list, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errs.NotFound("Item", id.Hex())
	}
	for key, value := range fields {
		switch key {
		case "name":
			item.Name = value.(string)
		case "category":
			item.Category = value.(string)
		case "price":
			item.Price = value.(float64)
		case "cost":
			item.Cost = value.(float64)
		case "stockQuantity":
			item.StockQuantity = value.(int)
		case "isActive":
			item.IsActive = value.(bool)
		}
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return errs.NotFound("Item", id.Hex())
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) AdjustItemStock(_ context.Context, id primitive.ObjectID, delta int) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errs.NotFound("Item", id.Hex())
	}
	if delta < 0 && item.StockQuantity < -delta {
		return nil, errs.InsufficientStock(item.Name, item.StockQuantity)
	}
	item.StockQuantity += delta
	copied := *item
	return &copied, nil
}

func validInput() CreateItemInput {
	return CreateItemInput{
		Name:          "Sourdough Loaf",
		Category:      "Bread",
		Price:         120,
		Cost:          40,
		StockQuantity: 20,
		Unit:          "piece",
	}
}

func TestCreateDefaults(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	item, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 5, item.MinStockLevel)
	assert.True(t, item.IsActive)
	assert.False(t, item.ID.IsZero())
}

func TestCreateCollectsAllViolations(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), CreateItemInput{
		Name:          "",
		Category:      "Sandwich",
		Price:         -1,
		StockQuantity: -5,
		Unit:          "bag",
	})
	require.Error(t, err)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "Please provide an item name")
	assert.Contains(t, err.Error(), "Invalid category: Sandwich")
	assert.Contains(t, err.Error(), "Price cannot be negative")
	assert.Contains(t, err.Error(), "Stock quantity cannot be negative")
	assert.Contains(t, err.Error(), "Invalid unit: bag")
	assert.Empty(t, store.items)
}

func TestUpdatePartial(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	item, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	price := 150.0
	updated, err := svc.Update(context.Background(), item.ID, UpdateItemInput{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, "Sourdough Loaf", updated.Name, "untouched fields keep their values")
}

func TestUpdateNoFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	item, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), item.ID, UpdateItemInput{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "No fields to update")
}

func TestAdjustStock(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	item, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	adjusted, err := svc.AdjustStock(context.Background(), item.ID, -15)
	require.NoError(t, err)
	assert.Equal(t, 5, adjusted.StockQuantity)

	adjusted, err = svc.AdjustStock(context.Background(), item.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 35, adjusted.StockQuantity)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	item, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.AdjustStock(context.Background(), item.ID, -21)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Stock cannot be negative")

	current, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, current.StockQuantity, "rejected adjustment must not mutate stock")
}

func TestAdjustStockUnknownItem(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.AdjustStock(context.Background(), primitive.NewObjectID(), 1)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
