// Package orders implements the order workflow: line validation against the
// catalog, price and subtotal computation, atomic-or-fallback persistence
// with stock decrement, and stock restoration on cancellation and deletion.
package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

// Store is the persistence surface the order workflow needs. WithTransaction
// must wrap errs.ErrTxUnsupported when the deployment cannot run
// multi-document transactions.
type Store interface {
	ItemByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	AdjustItemStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Item, error)
	NextOrderNumber(ctx context.Context, t time.Time) (string, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Orders(ctx context.Context, filter mongodb.OrderFilter) ([]models.Order, error)
	CountOrders(ctx context.Context, filter mongodb.OrderFilter) (int64, error)
	CountActiveOrders(ctx context.Context, customerID primitive.ObjectID) (int64, error)
	UpdateOrderFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service exposes order operations.
type Service struct {
	store  Store
	txMode string
	logger *zap.Logger
}

// NewService builds the order service. txMode is config.TxModeRequired or
// config.TxModeBestEffort.
func NewService(store Store, txMode string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, txMode: txMode, logger: logger}
}

// LineInput is one requested order line. When Price is nil the item's
// current catalog price applies.
type LineInput struct {
	ItemID   primitive.ObjectID
	Quantity int
	Price    *float64
}

// CreateOrderInput carries everything needed to place an order. Customer is
// the contact snapshot embedded in the order document.
type CreateOrderInput struct {
	Customer      models.OrderCustomer
	Items         []LineInput
	Notes         string
	PaymentMethod string
	CreatedBy     primitive.ObjectID
}

// Create validates the requested lines, computes totals, and persists the
// order together with the per-item stock decrements. The atomic path runs
// both as one transaction; in best-effort mode a deployment without
// transaction support degrades to sequential non-atomic writes, logged on
// every occurrence. On failure before persistence no stock is mutated.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, errs.Validationf("Please add at least one item to the order")
	}
	if in.PaymentMethod != "" && !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, errs.Validationf("Invalid payment method: %s", in.PaymentMethod)
	}

	lines, total, err := s.buildLines(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	number, err := s.store.NextOrderNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = "Cash"
	}

	order := &models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   number,
		Customer:      in.Customer,
		Items:         lines,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: method,
		OrderDate:     now,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
	}

	persist := func(ctx context.Context) error {
		if err := s.store.InsertOrder(ctx, order); err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := s.store.AdjustItemStock(ctx, line.Item, -line.Quantity); err != nil {
				return err
			}
		}
		return nil
	}

	err = s.store.WithTransaction(ctx, persist)
	if err == nil {
		s.logger.Info("order created",
			zap.String("orderNumber", order.OrderNumber),
			zap.Float64("totalAmount", order.TotalAmount))
		return order, nil
	}

	if s.txMode == config.TxModeBestEffort && errors.Is(err, errs.ErrTxUnsupported) {
		s.logger.Warn("transactions unavailable, falling back to non-atomic order creation",
			zap.String("orderNumber", order.OrderNumber),
			zap.Error(err))
		if err := persist(ctx); err != nil {
			return nil, err
		}
		s.logger.Info("order created via fallback path", zap.String("orderNumber", order.OrderNumber))
		return order, nil
	}

	return nil, err
}

// buildLines resolves each requested line against the catalog, rejecting
// unknown items and lines exceeding available stock, and returns the
// snapshot lines plus the order total.
func (s *Service) buildLines(ctx context.Context, reqs []LineInput) ([]models.OrderLine, float64, error) {
	lines := make([]models.OrderLine, 0, len(reqs))
	var total float64

	for _, req := range reqs {
		if req.Quantity < 1 {
			return nil, 0, errs.Validationf("Quantity must be at least 1")
		}
		if req.Price != nil && *req.Price < 0 {
			return nil, 0, errs.Validationf("Price cannot be negative")
		}

		item, err := s.store.ItemByID(ctx, req.ItemID)
		if err != nil {
			return nil, 0, err
		}
		if item.StockQuantity < req.Quantity {
			return nil, 0, errs.InsufficientStock(item.Name, item.StockQuantity)
		}

		price := item.Price
		if req.Price != nil {
			price = *req.Price
		}
		subtotal := price * float64(req.Quantity)
		total += subtotal

		lines = append(lines, models.OrderLine{
			Item:     item.ID,
			Name:     item.Name,
			Quantity: req.Quantity,
			Price:    price,
			Subtotal: subtotal,
		})
	}

	return lines, total, nil
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.store.OrderByID(ctx, id)
}

// List returns orders matching the filter, most recent first.
func (s *Service) List(ctx context.Context, filter mongodb.OrderFilter) ([]models.Order, error) {
	return s.store.Orders(ctx, filter)
}

// Count counts orders matching the filter.
func (s *Service) Count(ctx context.Context, filter mongodb.OrderFilter) (int64, error) {
	return s.store.CountOrders(ctx, filter)
}

// CountActive counts a customer's orders still pending or processing.
func (s *Service) CountActive(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	return s.store.CountActiveOrders(ctx, customerID)
}

// UpdateStatus moves an order through its lifecycle. Entering Cancelled
// restores the exact quantities the order had decremented; leaving Cancelled
// re-validates and re-decrements, so stock sold in the meantime blocks
// reactivation.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, errs.Validationf("Invalid order status: %s", status)
	}

	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	switch {
	case status == models.OrderStatusCancelled:
		if err := s.restoreStock(ctx, order.Items); err != nil {
			return nil, err
		}
	case order.Status == models.OrderStatusCancelled:
		if err := s.decrementStock(ctx, order.Items); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateOrderFields(ctx, id, bson.M{"status": status})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderNumber", updated.OrderNumber),
		zap.String("from", order.Status),
		zap.String("to", status))
	return updated, nil
}

// UpdateOrderInput carries a partial administrative order update; nil fields
// are untouched. Replacing Items restores the previous lines' stock before
// validating and applying the new ones.
type UpdateOrderInput struct {
	Items         []LineInput
	Status        *string
	PaymentStatus *string
	PaymentMethod *string
	DeliveryDate  *time.Time
	Notes         *string
}

// Update applies an administrative update to an order.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateOrderInput) (*models.Order, error) {
	if in.Status != nil && !models.ValidOrderStatus(*in.Status) {
		return nil, errs.Validationf("Invalid order status: %s", *in.Status)
	}
	if in.PaymentStatus != nil && !models.ValidPaymentStatus(*in.PaymentStatus) {
		return nil, errs.Validationf("Invalid payment status: %s", *in.PaymentStatus)
	}
	if in.PaymentMethod != nil && !models.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, errs.Validationf("Invalid payment method: %s", *in.PaymentMethod)
	}

	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}

	if len(in.Items) > 0 {
		// Give the old lines back before the new ones are checked against
		// the catalog, otherwise an order could not be reduced to fewer
		// units of an out-of-stock item.
		if err := s.restoreStock(ctx, order.Items); err != nil {
			return nil, err
		}

		lines, total, err := s.buildLines(ctx, in.Items)
		if err != nil {
			// Put the restored quantities back so a rejected update leaves
			// stock exactly as it was.
			if rerr := s.decrementStock(ctx, order.Items); rerr != nil {
				s.logger.Error("failed to re-apply stock after rejected order update",
					zap.String("orderNumber", order.OrderNumber), zap.Error(rerr))
			}
			return nil, err
		}
		if err := s.decrementStock(ctx, lines); err != nil {
			if rerr := s.decrementStock(ctx, order.Items); rerr != nil {
				s.logger.Error("failed to re-apply stock after rejected order update",
					zap.String("orderNumber", order.OrderNumber), zap.Error(rerr))
			}
			return nil, err
		}

		fields["items"] = lines
		fields["totalAmount"] = total
	}

	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.PaymentStatus != nil {
		fields["paymentStatus"] = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		fields["paymentMethod"] = *in.PaymentMethod
	}
	if in.DeliveryDate != nil {
		fields["deliveryDate"] = *in.DeliveryDate
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	if len(fields) == 0 {
		return nil, errs.Validationf("No fields to update")
	}

	return s.store.UpdateOrderFields(ctx, id, fields)
}

// Delete removes an order, restoring the exact quantities it had
// decremented. A cancelled order already gave its stock back, so deleting
// one restores nothing.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return err
	}

	if order.Status != models.OrderStatusCancelled {
		if err := s.restoreStock(ctx, order.Items); err != nil {
			return err
		}
	}

	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.String("orderNumber", order.OrderNumber))
	return nil
}

func (s *Service) restoreStock(ctx context.Context, lines []models.OrderLine) error {
	for _, line := range lines {
		if _, err := s.store.AdjustItemStock(ctx, line.Item, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// decrementStock re-applies line decrements sequentially. On failure the
// already-applied decrements are rolled back so stock is left untouched.
func (s *Service) decrementStock(ctx context.Context, lines []models.OrderLine) error {
	for i, line := range lines {
		if _, err := s.store.AdjustItemStock(ctx, line.Item, -line.Quantity); err != nil {
			for _, applied := range lines[:i] {
				if _, rerr := s.store.AdjustItemStock(ctx, applied.Item, applied.Quantity); rerr != nil {
					s.logger.Error("failed rolling back stock decrement", zap.Error(rerr))
				}
			}
			return err
		}
	}
	return nil
}
