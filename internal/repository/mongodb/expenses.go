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

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

// InsertExpense persists a new expense record.
func (s *Store) InsertExpense(ctx context.Context, exp *models.Expense) error {
	if exp.ID.IsZero() {
		exp.ID = primitive.NewObjectID()
	}
	exp.CreatedAt = time.Now()
	if _, err := s.coll(collExpenses).InsertOne(ctx, exp); err != nil {
		return errs.Storage("insert expense", err)
	}
	return nil
}

// ExpenseByID fetches one expense by its object id.
func (s *Store) ExpenseByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var exp models.Expense
	err := s.coll(collExpenses).FindOne(ctx, bson.M{"_id": id}).Decode(&exp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Expense", id.Hex())
		}
		return nil, errs.Storage("find expense", err)
	}
	return &exp, nil
}

// Expenses lists expenses matching the filter, newest first.
func (s *Store) Expenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lt"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	cursor, err := s.coll(collExpenses).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, errs.Storage("list expenses", err)
	}

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, errs.Storage("decode expenses", err)
	}
	return expenses, nil
}

// UpdateExpense applies the given field set to an existing expense.
func (s *Store) UpdateExpense(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Expense, error) {
	var exp models.Expense
	err := s.coll(collExpenses).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&exp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Expense", id.Hex())
		}
		return nil, errs.Storage("update expense", err)
	}
	return &exp, nil
}

// DeleteExpense removes an expense record.
func (s *Store) DeleteExpense(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll(collExpenses).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Storage("delete expense", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("Expense", id.Hex())
	}
	return nil
}
