package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item categories form a closed set; anything else is rejected at validation.
var ItemCategories = []string{"Bread", "Cake", "Pastry", "Cookie", "Ingredient", "Other"}

// ItemUnits is the closed set of measurement units an item can be sold in.
var ItemUnits = []string{"piece", "dozen", "kg", "g", "lb", "oz", "l", "ml", "other"}

// Item is a catalog product or ingredient with trackable stock.
// Item is the single source of truth for current stock; order lines only
// carry historical snapshots.
type Item struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	Cost          float64            `bson:"cost" json:"cost"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	Unit          string             `bson:"unit" json:"unit"`
	MinStockLevel int                `bson:"minStockLevel" json:"minStockLevel"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LowStock reports whether the item has fallen to or below its reorder level.
func (i Item) LowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c string) bool {
	for _, v := range ItemCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u belongs to the closed unit set.
func ValidUnit(u string) bool {
	for _, v := range ItemUnits {
		if v == u {
			return true
		}
	}
	return false
}
