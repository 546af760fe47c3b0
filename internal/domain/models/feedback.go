package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a customer's post-delivery rating and comment tied to exactly
// one order. Records are write-once.
type Feedback struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Order    primitive.ObjectID `bson:"order" json:"order"`
	Customer primitive.ObjectID `bson:"customer" json:"customer"`
	Rating   int                `bson:"rating" json:"rating"`
	Comment  string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Date     time.Time          `bson:"date" json:"date"`
}
