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

// InsertUser persists a new account. Duplicate usernames are rejected by the
// unique index.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	if _, err := s.coll(collUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Validationf("User already exists")
		}
		return errs.Storage("insert user", err)
	}
	return nil
}

// UserByUsername fetches an account by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.coll(collUsers).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("User", username)
		}
		return nil, errs.Storage("find user", err)
	}
	return &user, nil
}

// UserByID fetches an account by its object id.
func (s *Store) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("User", id.Hex())
		}
		return nil, errs.Storage("find user", err)
	}
	return &user, nil
}

// UpdateUserProfile applies contact fields to an account and returns the
// updated document.
func (s *Store) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	var user models.User
	err := s.coll(collUsers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("User", id.Hex())
		}
		return nil, errs.Storage("update user", err)
	}
	return &user, nil
}
