package models

import "time"

// ItemSales aggregates quantity and revenue for one catalog item over a
// reporting window.
type ItemSales struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}

// DailyReport is the aggregated trading summary for one calendar day. It is
// what the nightly job exports to the spreadsheet.
type DailyReport struct {
	Date          time.Time   `bson:"date" json:"date"`
	TotalSales    float64     `bson:"total_sales" json:"totalSales"`
	TotalExpenses float64     `bson:"total_expenses" json:"totalExpenses"`
	Profit        float64     `bson:"profit" json:"profit"`
	OrderCount    int         `bson:"order_count" json:"orderCount"`
	Completed     int         `bson:"completed" json:"completed"`
	Pending       int         `bson:"pending" json:"pending"`
	Processing    int         `bson:"processing" json:"processing"`
	TopItems      []ItemSales `bson:"top_items" json:"topItems"`
	CreatedAt     time.Time   `bson:"created_at" json:"createdAt"`
}
