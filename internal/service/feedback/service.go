// Package feedback attaches post-delivery ratings to orders.
package feedback

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// Store is the persistence surface the feedback service needs.
type Store interface {
	OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	InsertFeedback(ctx context.Context, fb *models.Feedback) error
	SetOrderFeedback(ctx context.Context, orderID, feedbackID primitive.ObjectID) error
}

// Service exposes feedback submission.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService builds the feedback service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Submit attaches a rating and optional comment to an order. The order must
// exist, be delivered, belong to the submitting customer, and not already
// carry feedback; the unique index on the order reference backstops the
// once-only rule.
func (s *Service) Submit(ctx context.Context, customerID, orderID primitive.ObjectID, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, errs.Validationf("Rating must be between 1 and 5")
	}
	if len(comment) > 500 {
		return nil, errs.Validationf("Comment cannot exceed 500 characters")
	}

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Customer.ID != customerID {
		return nil, errs.Unauthorized("Not authorized to provide feedback for this order")
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, errs.Validationf("Feedback can only be submitted for delivered orders")
	}
	if order.Feedback != nil {
		return nil, errs.Validationf("Feedback already submitted for this order")
	}

	fb := &models.Feedback{
		ID:       primitive.NewObjectID(),
		Order:    orderID,
		Customer: customerID,
		Rating:   rating,
		Comment:  comment,
		Date:     time.Now(),
	}
	if err := s.store.InsertFeedback(ctx, fb); err != nil {
		return nil, err
	}
	if err := s.store.SetOrderFeedback(ctx, orderID, fb.ID); err != nil {
		return nil, err
	}

	s.logger.Info("feedback submitted",
		zap.String("orderNumber", order.OrderNumber),
		zap.Int("rating", rating))
	return fb, nil
}
