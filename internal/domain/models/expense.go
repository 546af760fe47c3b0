package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseCategories is the closed set of operating expense categories.
var ExpenseCategories = []string{
	"Ingredients", "Utilities", "Rent", "Salaries", "Equipment",
	"Marketing", "Maintenance", "Transport", "Miscellaneous",
}

// ExpensePaymentMethods is the closed set of expense payment methods.
var ExpensePaymentMethods = []string{"Cash", "Card", "Bank Transfer", "UPI", "Other"}

// Expense is an operating expense, independent of orders and consumed only
// by reporting.
type Expense struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Category      string             `bson:"category" json:"category"`
	Date          time.Time          `bson:"date" json:"date"`
	PaidTo        string             `bson:"paidTo,omitempty" json:"paidTo,omitempty"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Receipt       string             `bson:"receipt,omitempty" json:"receipt,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidExpenseCategory reports whether c belongs to the closed category set.
func ValidExpenseCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidExpensePaymentMethod reports whether m belongs to the closed method set.
func ValidExpensePaymentMethod(m string) bool {
	for _, v := range ExpensePaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
