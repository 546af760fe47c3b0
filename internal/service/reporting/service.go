// Package reporting aggregates orders, expenses, inventory and feedback into
// the report shapes the dashboard consumes, and builds the daily summary the
// nightly export job ships out.
package reporting

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

// Store is the persistence surface the reporting service needs.
type Store interface {
	Orders(ctx context.Context, filter mongodb.OrderFilter) ([]models.Order, error)
	PendingOrders(ctx context.Context, limit int64) ([]models.Order, error)
	Expenses(ctx context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error)
	ItemsSorted(ctx context.Context) ([]models.Item, error)
	LowStockItems(ctx context.Context, limit int64) ([]models.Item, error)
	Feedbacks(ctx context.Context, filter mongodb.FeedbackFilter) ([]models.Feedback, error)
}

// Service exposes report aggregation.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService builds the reporting service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// StatusBreakdown counts orders per lifecycle state.
type StatusBreakdown struct {
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
}

// DailySummary is the daily sales and expense report.
type DailySummary struct {
	Date          time.Time          `json:"date"`
	TotalSales    float64            `json:"totalSales"`
	TotalExpenses float64            `json:"totalExpenses"`
	Profit        float64            `json:"profit"`
	OrderCount    int                `json:"orderCount"`
	OrderStatus   StatusBreakdown    `json:"orderStatus"`
	TopItems      []models.ItemSales `json:"topItems"`
	Orders        []models.Order     `json:"orders"`
	Expenses      []models.Expense   `json:"expenses"`
}

// Daily aggregates orders and expenses for one calendar day.
func (s *Service) Daily(ctx context.Context, date time.Time) (*DailySummary, error) {
	day := startOfDay(date)
	next := day.AddDate(0, 0, 1)

	orders, err := s.store.Orders(ctx, mongodb.OrderFilter{From: &day, To: &next})
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses(ctx, mongodb.ExpenseFilter{From: &day, To: &next})
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:       day,
		OrderCount: len(orders),
		Orders:     orders,
		Expenses:   expenses,
		TopItems:   topItems(orders, 5),
	}
	for _, order := range orders {
		summary.TotalSales += order.TotalAmount
		switch order.Status {
		case models.OrderStatusDelivered:
			summary.OrderStatus.Completed++
		case models.OrderStatusPending:
			summary.OrderStatus.Pending++
		case models.OrderStatusProcessing:
			summary.OrderStatus.Processing++
		}
	}
	for _, exp := range expenses {
		summary.TotalExpenses += exp.Amount
	}
	summary.Profit = summary.TotalSales - summary.TotalExpenses

	return summary, nil
}

// DayBucket is one day's totals inside a range report.
type DayBucket struct {
	Date       string  `json:"date"`
	Sales      float64 `json:"sales"`
	Expenses   float64 `json:"expenses"`
	Profit     float64 `json:"profit"`
	OrderCount int     `json:"orderCount"`
}

// RangeTotals summarizes a whole range report.
type RangeTotals struct {
	TotalSales    float64 `json:"totalSales"`
	TotalExpenses float64 `json:"totalExpenses"`
	Profit        float64 `json:"profit"`
	OrderCount    int     `json:"orderCount"`
	ExpenseCount  int     `json:"expenseCount"`
}

// RangeSummary is the date-range report.
type RangeSummary struct {
	StartDate          time.Time          `json:"startDate"`
	EndDate            time.Time          `json:"endDate"`
	Days               int                `json:"days"`
	Summary            RangeTotals        `json:"summary"`
	DailyData          []DayBucket        `json:"dailyData"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
	TopItems           []models.ItemSales `json:"topItems"`
}

// Range aggregates orders and expenses per day over [start, end].
func (s *Service) Range(ctx context.Context, start, end time.Time) (*RangeSummary, error) {
	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1)

	orders, err := s.store.Orders(ctx, mongodb.OrderFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses(ctx, mongodb.ExpenseFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	days := int(to.Sub(from).Hours() / 24)
	buckets := make([]DayBucket, days)
	index := map[string]int{}
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		buckets[i] = DayBucket{Date: key}
		index[key] = i
	}

	summary := &RangeSummary{
		StartDate:          from,
		EndDate:            to.Add(-time.Millisecond),
		Days:               days,
		ExpensesByCategory: map[string]float64{},
		TopItems:           topItems(orders, 10),
	}

	for _, order := range orders {
		summary.Summary.TotalSales += order.TotalAmount
		if i, ok := index[order.OrderDate.Format("2006-01-02")]; ok {
			buckets[i].Sales += order.TotalAmount
			buckets[i].OrderCount++
		}
	}
	for _, exp := range expenses {
		summary.Summary.TotalExpenses += exp.Amount
		summary.ExpensesByCategory[exp.Category] += exp.Amount
		if i, ok := index[exp.Date.Format("2006-01-02")]; ok {
			buckets[i].Expenses += exp.Amount
		}
	}
	for i := range buckets {
		buckets[i].Profit = buckets[i].Sales - buckets[i].Expenses
	}

	summary.Summary.Profit = summary.Summary.TotalSales - summary.Summary.TotalExpenses
	summary.Summary.OrderCount = len(orders)
	summary.Summary.ExpenseCount = len(expenses)
	summary.DailyData = buckets

	return summary, nil
}

// InventorySummary is the inventory status report.
type InventorySummary struct {
	TotalItems          int                      `json:"totalItems"`
	LowStockCount       int                      `json:"lowStockCount"`
	TotalInventoryValue float64                  `json:"totalInventoryValue"`
	ItemsByCategory     map[string][]models.Item `json:"itemsByCategory"`
	LowStockItems       []models.Item            `json:"lowStockItems"`
}

// Inventory reports stock levels, valuation and low-stock items.
func (s *Service) Inventory(ctx context.Context) (*InventorySummary, error) {
	items, err := s.store.ItemsSorted(ctx)
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{
		TotalItems:      len(items),
		ItemsByCategory: map[string][]models.Item{},
		LowStockItems:   []models.Item{},
	}
	for _, item := range items {
		summary.ItemsByCategory[item.Category] = append(summary.ItemsByCategory[item.Category], item)
		summary.TotalInventoryValue += item.Cost * float64(item.StockQuantity)
		if item.LowStock() {
			summary.LowStockItems = append(summary.LowStockItems, item)
		}
	}
	summary.LowStockCount = len(summary.LowStockItems)

	return summary, nil
}

// DashboardSummary is the staff landing-page report.
type DashboardSummary struct {
	TodaySales        float64          `json:"todaySales"`
	TodayExpenses     float64          `json:"todayExpenses"`
	TodayProfit       float64          `json:"todayProfit"`
	TodayOrderCount   int              `json:"todayOrderCount"`
	SalesGrowth       float64          `json:"salesGrowth"`
	PendingOrders     []models.Order   `json:"pendingOrders"`
	LowStockItems     []models.Item    `json:"lowStockItems"`
	TodayOrders       []models.Order   `json:"todayOrders"`
	TodayExpensesList []models.Expense `json:"todayExpensesList"`
}

// Dashboard aggregates today's trading, growth versus yesterday, open
// orders and low stock.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	todayOrders, err := s.store.Orders(ctx, mongodb.OrderFilter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, err
	}
	todayExpenses, err := s.store.Expenses(ctx, mongodb.ExpenseFilter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, err
	}
	yesterdayOrders, err := s.store.Orders(ctx, mongodb.OrderFilter{From: &yesterday, To: &today})
	if err != nil {
		return nil, err
	}
	pending, err := s.store.PendingOrders(ctx, 10)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.store.LowStockItems(ctx, 10)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TodayOrderCount:   len(todayOrders),
		PendingOrders:     pending,
		LowStockItems:     lowStock,
		TodayOrders:       limitOrders(todayOrders, 10),
		TodayExpensesList: limitExpenses(todayExpenses, 10),
	}
	for _, order := range todayOrders {
		summary.TodaySales += order.TotalAmount
	}
	for _, exp := range todayExpenses {
		summary.TodayExpenses += exp.Amount
	}
	summary.TodayProfit = summary.TodaySales - summary.TodayExpenses

	var yesterdaySales float64
	for _, order := range yesterdayOrders {
		yesterdaySales += order.TotalAmount
	}
	if yesterdaySales == 0 {
		summary.SalesGrowth = 100
	} else {
		summary.SalesGrowth = (summary.TodaySales - yesterdaySales) / yesterdaySales * 100
	}

	return summary, nil
}

// FeedbackSummary is the customer-feedback report.
type FeedbackSummary struct {
	TotalFeedback     int               `json:"totalFeedback"`
	AverageRating     float64           `json:"averageRating"`
	RatingCounts      map[int]int       `json:"ratingCounts"`
	RatingPercentages map[int]float64   `json:"ratingPercentages"`
	RecentFeedback    []models.Feedback `json:"recentFeedback"`
}

// Feedback aggregates ratings into counts, percentages and an average.
func (s *Service) Feedback(ctx context.Context, filter mongodb.FeedbackFilter) (*FeedbackSummary, error) {
	feedbacks, err := s.store.Feedbacks(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &FeedbackSummary{
		TotalFeedback:     len(feedbacks),
		RatingCounts:      map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		RatingPercentages: map[int]float64{},
		RecentFeedback:    feedbacks,
	}

	var total int
	for _, fb := range feedbacks {
		summary.RatingCounts[fb.Rating]++
		total += fb.Rating
	}
	if len(feedbacks) > 0 {
		summary.AverageRating = float64(total) / float64(len(feedbacks))
	}
	for rating, count := range summary.RatingCounts {
		if len(feedbacks) > 0 {
			summary.RatingPercentages[rating] = float64(count) / float64(len(feedbacks)) * 100
		} else {
			summary.RatingPercentages[rating] = 0
		}
	}

	return summary, nil
}

// BuildDailyReport condenses one day into the export payload for the
// nightly spreadsheet job.
func (s *Service) BuildDailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	daily, err := s.Daily(ctx, date)
	if err != nil {
		return nil, err
	}

	return &models.DailyReport{
		Date:          daily.Date,
		TotalSales:    daily.TotalSales,
		TotalExpenses: daily.TotalExpenses,
		Profit:        daily.Profit,
		OrderCount:    daily.OrderCount,
		Completed:     daily.OrderStatus.Completed,
		Pending:       daily.OrderStatus.Pending,
		Processing:    daily.OrderStatus.Processing,
		TopItems:      daily.TopItems,
		CreatedAt:     time.Now(),
	}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// topItems ranks ordered items by quantity sold across the given orders.
func topItems(orders []models.Order, limit int) []models.ItemSales {
	byName := map[string]*models.ItemSales{}
	for _, order := range orders {
		for _, line := range order.Items {
			sales, ok := byName[line.Name]
			if !ok {
				sales = &models.ItemSales{Name: line.Name}
				byName[line.Name] = sales
			}
			sales.Quantity += line.Quantity
			sales.Revenue += line.Subtotal
		}
	}

	ranked := make([]models.ItemSales, 0, len(byName))
	for _, sales := range byName {
		ranked = append(ranked, *sales)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Quantity > ranked[j].Quantity })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func limitOrders(orders []models.Order, n int) []models.Order {
	if len(orders) > n {
		return orders[:n]
	}
	return orders
}

func limitExpenses(expenses []models.Expense, n int) []models.Expense {
	if len(expenses) > n {
		return expenses[:n]
	}
	return expenses
}
