// Package expenses implements operating-expense bookkeeping.
package expenses

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

// Store is the persistence surface the expense service needs.
type Store interface {
	InsertExpense(ctx context.Context, exp *models.Expense) error
	ExpenseByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	Expenses(ctx context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id primitive.ObjectID) error
}

// Service exposes expense operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService builds the expense service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// CreateExpenseInput carries a new expense's fields. Date defaults to now
// and PaymentMethod to Cash when omitted.
type CreateExpenseInput struct {
	Title         string
	Description   string
	Amount        float64
	Category      string
	Date          *time.Time
	PaidTo        string
	PaymentMethod string
	Receipt       string
	CreatedBy     primitive.ObjectID
}

func (in CreateExpenseInput) validate() error {
	var violations []string
	if in.Title == "" {
		violations = append(violations, "Please provide an expense title")
	}
	if len(in.Description) > 500 {
		violations = append(violations, "Description cannot exceed 500 characters")
	}
	if in.Amount < 0 {
		violations = append(violations, "Amount cannot be negative")
	}
	if !models.ValidExpenseCategory(in.Category) {
		violations = append(violations, fmt.Sprintf("Invalid category: %s", in.Category))
	}
	if in.PaymentMethod != "" && !models.ValidExpensePaymentMethod(in.PaymentMethod) {
		violations = append(violations, fmt.Sprintf("Invalid payment method: %s", in.PaymentMethod))
	}
	if len(violations) > 0 {
		return errs.Validation(violations...)
	}
	return nil
}

// Create validates and persists a new expense.
func (s *Service) Create(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	method := in.PaymentMethod
	if method == "" {
		method = "Cash"
	}

	exp := &models.Expense{
		Title:         in.Title,
		Description:   in.Description,
		Amount:        in.Amount,
		Category:      in.Category,
		Date:          date,
		PaidTo:        in.PaidTo,
		PaymentMethod: method,
		Receipt:       in.Receipt,
		CreatedBy:     in.CreatedBy,
	}
	if err := s.store.InsertExpense(ctx, exp); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("title", exp.Title),
		zap.Float64("amount", exp.Amount),
		zap.String("category", exp.Category))
	return exp, nil
}

// Get fetches one expense.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	return s.store.ExpenseByID(ctx, id)
}

// List returns expenses matching the filter.
func (s *Service) List(ctx context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error) {
	return s.store.Expenses(ctx, filter)
}

// UpdateExpenseInput carries a partial expense update; nil fields are
// untouched.
type UpdateExpenseInput struct {
	Title         *string
	Description   *string
	Amount        *float64
	Category      *string
	Date          *time.Time
	PaidTo        *string
	PaymentMethod *string
	Receipt       *string
}

// Update applies a partial update to an existing expense.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateExpenseInput) (*models.Expense, error) {
	var violations []string
	if in.Title != nil && *in.Title == "" {
		violations = append(violations, "Please provide an expense title")
	}
	if in.Description != nil && len(*in.Description) > 500 {
		violations = append(violations, "Description cannot exceed 500 characters")
	}
	if in.Amount != nil && *in.Amount < 0 {
		violations = append(violations, "Amount cannot be negative")
	}
	if in.Category != nil && !models.ValidExpenseCategory(*in.Category) {
		violations = append(violations, fmt.Sprintf("Invalid category: %s", *in.Category))
	}
	if in.PaymentMethod != nil && !models.ValidExpensePaymentMethod(*in.PaymentMethod) {
		violations = append(violations, fmt.Sprintf("Invalid payment method: %s", *in.PaymentMethod))
	}
	if len(violations) > 0 {
		return nil, errs.Validation(violations...)
	}

	fields := bson.M{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if in.PaidTo != nil {
		fields["paidTo"] = *in.PaidTo
	}
	if in.PaymentMethod != nil {
		fields["paymentMethod"] = *in.PaymentMethod
	}
	if in.Receipt != nil {
		fields["receipt"] = *in.Receipt
	}
	if len(fields) == 0 {
		return nil, errs.Validationf("No fields to update")
	}

	return s.store.UpdateExpense(ctx, id, fields)
}

// Delete removes an expense record.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteExpense(ctx, id)
}
