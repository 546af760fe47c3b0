package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses form a closed set.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Payment statuses form a closed set.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusPartial = "Partial"
)

// PaymentMethods is the closed set of accepted payment methods.
var PaymentMethods = []string{"Cash", "Card", "UPI", "Other"}

// OrderStatuses lists the valid order lifecycle states.
var OrderStatuses = []string{OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled}

// PaymentStatuses lists the valid payment states.
var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusPartial}

// OrderCustomer is the contact snapshot embedded in an order at placement
// time. It is not live-linked to the user document.
type OrderCustomer struct {
	ID      primitive.ObjectID `bson:"id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
}

// OrderLine is one ordered item with name and price captured at order time.
type OrderLine struct {
	Item     primitive.ObjectID `bson:"item" json:"item"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Subtotal float64            `bson:"subtotal" json:"subtotal"`
}

// Order is a customer's purchase request: a snapshot of items and prices at
// the time of placement. The line snapshots never update when the catalog
// changes afterwards.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	OrderNumber   string              `bson:"orderNumber" json:"orderNumber"`
	Customer      OrderCustomer       `bson:"customer" json:"customer"`
	Items         []OrderLine         `bson:"items" json:"items"`
	TotalAmount   float64             `bson:"totalAmount" json:"totalAmount"`
	Status        string              `bson:"status" json:"status"`
	PaymentStatus string              `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod"`
	OrderDate     time.Time           `bson:"orderDate" json:"orderDate"`
	DeliveryDate  *time.Time          `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Feedback      *primitive.ObjectID `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedBy     primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// ValidOrderStatus reports whether s belongs to the closed status set.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentStatus reports whether s belongs to the closed payment-status set.
func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m belongs to the closed method set.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
