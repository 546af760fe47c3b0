package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// FeedbackFilter narrows feedback listings for the feedback report.
type FeedbackFilter struct {
	From      *time.Time
	To        *time.Time
	MinRating int
	MaxRating int
}

// InsertFeedback persists a new feedback record. The unique index on the
// order reference enforces at most one feedback per order.
func (s *Store) InsertFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	if _, err := s.coll(collFeedback).InsertOne(ctx, fb); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Validationf("Feedback already submitted for this order")
		}
		return errs.Storage("insert feedback", err)
	}
	return nil
}

// Feedbacks lists feedback records matching the filter, newest first.
func (s *Store) Feedbacks(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, error) {
	query := bson.M{}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lte"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	rating := bson.M{}
	if filter.MinRating > 0 {
		rating["$gte"] = filter.MinRating
	}
	if filter.MaxRating > 0 {
		rating["$lte"] = filter.MaxRating
	}
	if len(rating) > 0 {
		query["rating"] = rating
	}

	cursor, err := s.coll(collFeedback).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, errs.Storage("list feedback", err)
	}

	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, errs.Storage("decode feedback", err)
	}
	return feedbacks, nil
}
