// Package catalog implements item management and the stock-adjustment
// primitive shared with the order workflow.
package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

// Store is the persistence surface the catalog service needs.
type Store interface {
	InsertItem(ctx context.Context, item *models.Item) error
	ItemByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	Items(ctx context.Context, filter mongodb.ItemFilter) ([]models.Item, error)
	UpdateItem(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Item, error)
	DeleteItem(ctx context.Context, id primitive.ObjectID) error
	AdjustItemStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Item, error)
}

// Service exposes catalog operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService builds the catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// CreateItemInput carries a new item's fields. MinStockLevel defaults to 5
// and IsActive to true when omitted.
type CreateItemInput struct {
	Name          string
	Description   string
	Category      string
	Price         float64
	Cost          float64
	StockQuantity int
	Unit          string
	MinStockLevel *int
	IsActive      *bool
	Image         string
}

func (in CreateItemInput) validate() error {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "Please provide an item name")
	}
	if len(in.Name) > 100 {
		violations = append(violations, "Item name cannot exceed 100 characters")
	}
	if len(in.Description) > 500 {
		violations = append(violations, "Description cannot exceed 500 characters")
	}
	if !models.ValidCategory(in.Category) {
		violations = append(violations, fmt.Sprintf("Invalid category: %s", in.Category))
	}
	if in.Price < 0 {
		violations = append(violations, "Price cannot be negative")
	}
	if in.Cost < 0 {
		violations = append(violations, "Cost cannot be negative")
	}
	if in.StockQuantity < 0 {
		violations = append(violations, "Stock quantity cannot be negative")
	}
	if !models.ValidUnit(in.Unit) {
		violations = append(violations, fmt.Sprintf("Invalid unit: %s", in.Unit))
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		violations = append(violations, "Minimum stock level cannot be negative")
	}
	if len(violations) > 0 {
		return errs.Validation(violations...)
	}
	return nil
}

// Create validates and persists a new catalog item.
func (s *Service) Create(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	minStock := 5
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	item := &models.Item{
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Price:         in.Price,
		Cost:          in.Cost,
		StockQuantity: in.StockQuantity,
		Unit:          in.Unit,
		MinStockLevel: minStock,
		IsActive:      active,
		Image:         in.Image,
	}
	if err := s.store.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.String("item", item.Name), zap.String("category", item.Category))
	return item, nil
}

// Get fetches one item.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	return s.store.ItemByID(ctx, id)
}

// List returns items matching the filter.
func (s *Service) List(ctx context.Context, filter mongodb.ItemFilter) ([]models.Item, error) {
	return s.store.Items(ctx, filter)
}

// UpdateItemInput carries a partial item update; nil fields are untouched.
type UpdateItemInput struct {
	Name          *string
	Description   *string
	Category      *string
	Price         *float64
	Cost          *float64
	StockQuantity *int
	Unit          *string
	MinStockLevel *int
	IsActive      *bool
	Image         *string
}

func (in UpdateItemInput) validate() error {
	var violations []string
	if in.Name != nil && (*in.Name == "" || len(*in.Name) > 100) {
		violations = append(violations, "Item name must be between 1 and 100 characters")
	}
	if in.Description != nil && len(*in.Description) > 500 {
		violations = append(violations, "Description cannot exceed 500 characters")
	}
	if in.Category != nil && !models.ValidCategory(*in.Category) {
		violations = append(violations, fmt.Sprintf("Invalid category: %s", *in.Category))
	}
	if in.Price != nil && *in.Price < 0 {
		violations = append(violations, "Price cannot be negative")
	}
	if in.Cost != nil && *in.Cost < 0 {
		violations = append(violations, "Cost cannot be negative")
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		violations = append(violations, "Stock quantity cannot be negative")
	}
	if in.Unit != nil && !models.ValidUnit(*in.Unit) {
		violations = append(violations, fmt.Sprintf("Invalid unit: %s", *in.Unit))
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		violations = append(violations, "Minimum stock level cannot be negative")
	}
	if len(violations) > 0 {
		return errs.Validation(violations...)
	}
	return nil
}

// Update applies a partial update to an existing item.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fields := bson.M{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Cost != nil {
		fields["cost"] = *in.Cost
	}
	if in.StockQuantity != nil {
		fields["stockQuantity"] = *in.StockQuantity
	}
	if in.Unit != nil {
		fields["unit"] = *in.Unit
	}
	if in.MinStockLevel != nil {
		fields["minStockLevel"] = *in.MinStockLevel
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if len(fields) == 0 {
		return nil, errs.Validationf("No fields to update")
	}

	return s.store.UpdateItem(ctx, id, fields)
}

// Delete removes an item from the catalog.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", zap.String("id", id.Hex()))
	return nil
}

// AdjustStock applies a signed delta to an item's stock quantity. The
// adjustment is atomic at the storage layer; a result that would go negative
// is rejected without mutating anything.
func (s *Service) AdjustStock(ctx context.Context, id primitive.ObjectID, adjustment int) (*models.Item, error) {
	item, err := s.store.AdjustItemStock(ctx, id, adjustment)
	if err != nil {
		if errs.IsInsufficientStock(err) {
			return nil, errs.Validationf("Stock cannot be negative")
		}
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("item", item.Name),
		zap.Int("adjustment", adjustment),
		zap.Int("stockQuantity", item.StockQuantity))
	return item, nil
}
