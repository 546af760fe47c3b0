package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

type fakeStore struct {
	expenses map[primitive.ObjectID]*models.Expense
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: map[primitive.ObjectID]*models.Expense{}}
}

func (f *fakeStore) InsertExpense(_ context.Context, exp *models.Expense) error {
	if exp.ID.IsZero() {
		exp.ID = primitive.NewObjectID()
	}
	copied := *exp
	f.expenses[exp.ID] = &copied
	return nil
}

func (f *fakeStore) ExpenseByID(_ context.Context, id primitive.ObjectID) (*models.Expense, error) {
	exp, ok := f.expenses[id]
	if !ok {
		return nil, errs.NotFound("Expense", id.Hex())
	}
	copied := *exp
	return &copied, nil
}

func (f *fakeStore) Expenses(_ context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error) {
	list := []models.Expense{}
	for _, exp := range f.expenses {
		if filter.Category != "" && exp.Category != filter.Category {
			continue
		}
		list = append(list, *exp)
	}
	return list, nil
}

func (f *fakeStore) UpdateExpense(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Expense, error) {
	exp, ok := f.expenses[id]
	if !ok {
		return nil, errs.NotFound("Expense", id.Hex())
	}
	for key, value := range fields {
		switch key {
		case "title":
			exp.Title = value.(string)
		case "amount":
			exp.Amount = value.(float64)
		case "category":
			exp.Category = value.(string)
		case "paymentMethod":
			exp.PaymentMethod = value.(string)
		}
	}
	copied := *exp
	return &copied, nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.expenses[id]; !ok {
		return errs.NotFound("Expense", id.Hex())
	}
	delete(f.expenses, id)
	return nil
}

func TestCreateDefaults(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	exp, err := svc.Create(context.Background(), CreateExpenseInput{
		Title:    "Flour restock",
		Amount:   2500,
		Category: "Ingredients",
	})
	require.NoError(t, err)

	assert.Equal(t, "Cash", exp.PaymentMethod)
	assert.WithinDuration(t, time.Now(), exp.Date, time.Minute)
	assert.False(t, exp.ID.IsZero())
}

func TestCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), CreateExpenseInput{
		Amount:        -10,
		Category:      "Snacks",
		PaymentMethod: "Barter",
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Please provide an expense title")
	assert.Contains(t, err.Error(), "Amount cannot be negative")
	assert.Contains(t, err.Error(), "Invalid category: Snacks")
	assert.Contains(t, err.Error(), "Invalid payment method: Barter")
	assert.Empty(t, store.expenses)
}

func TestCreateExplicitDate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	exp, err := svc.Create(context.Background(), CreateExpenseInput{
		Title:         "August rent",
		Amount:        30000,
		Category:      "Rent",
		Date:          &date,
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, date, exp.Date)
	assert.Equal(t, "Bank Transfer", exp.PaymentMethod)
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	exp, err := svc.Create(context.Background(), CreateExpenseInput{
		Title:    "Flour restock",
		Amount:   2500,
		Category: "Ingredients",
	})
	require.NoError(t, err)

	amount := 2750.0
	updated, err := svc.Update(context.Background(), exp.ID, UpdateExpenseInput{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 2750.0, updated.Amount)
	assert.Equal(t, "Flour restock", updated.Title)

	badCategory := "Snacks"
	_, err = svc.Update(context.Background(), exp.ID, UpdateExpenseInput{Category: &badCategory})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Update(context.Background(), exp.ID, UpdateExpenseInput{})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	exp, err := svc.Create(context.Background(), CreateExpenseInput{
		Title:    "Flour restock",
		Amount:   2500,
		Category: "Ingredients",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), exp.ID))
	_, err = svc.Get(context.Background(), exp.ID)
	assert.True(t, errs.IsNotFound(err))

	err = svc.Delete(context.Background(), exp.ID)
	assert.True(t, errs.IsNotFound(err))
}
