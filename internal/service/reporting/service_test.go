package reporting

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
)

type fakeStore struct {
	orders    []models.Order
	expenses  []models.Expense
	items     []models.Item
	feedbacks []models.Feedback
}

func (f *fakeStore) Orders(_ context.Context, filter mongodb.OrderFilter) ([]models.Order, error) {
	list := []models.Order{}
	for _, order := range f.orders {
		if filter.From != nil && order.OrderDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !order.OrderDate.Before(*filter.To) {
			continue
		}
		list = append(list, order)
	}
	return list, nil
}

func (f *fakeStore) PendingOrders(_ context.Context, limit int64) ([]models.Order, error) {
	list := []models.Order{}
	for _, order := range f.orders {
		if order.Status == models.OrderStatusPending && int64(len(list)) < limit {
			list = append(list, order)
		}
	}
	return list, nil
}

func (f *fakeStore) Expenses(_ context.Context, filter mongodb.ExpenseFilter) ([]models.Expense, error) {
	list := []models.Expense{}
	for _, exp := range f.expenses {
		if filter.From != nil && exp.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !exp.Date.Before(*filter.To) {
			continue
		}
		list = append(list, exp)
	}
	return list, nil
}

func (f *fakeStore) ItemsSorted(_ context.Context) ([]models.Item, error) {
	items := append([]models.Item{}, f.items...)
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (f *fakeStore) LowStockItems(_ context.Context, limit int64) ([]models.Item, error) {
	list := []models.Item{}
	for _, item := range f.items {
		if item.LowStock() && int64(len(list)) < limit {
			list = append(list, item)
		}
	}
	return list, nil
}

func (f *fakeStore) Feedbacks(_ context.Context, filter mongodb.FeedbackFilter) ([]models.Feedback, error) {
	list := []models.Feedback{}
	for _, fb := range f.feedbacks {
		if filter.MinRating > 0 && fb.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating > 0 && fb.Rating > filter.MaxRating {
			continue
		}
		list = append(list, fb)
	}
	return list, nil
}

func orderOn(date time.Time, status string, lines ...models.OrderLine) models.Order {
	var total float64
	for _, line := range lines {
		total += line.Subtotal
	}
	return models.Order{
		ID:          primitive.NewObjectID(),
		Status:      status,
		Items:       lines,
		TotalAmount: total,
		OrderDate:   date,
	}
}

func line(name string, qty int, price float64) models.OrderLine {
	return models.OrderLine{
		Item:     primitive.NewObjectID(),
		Name:     name,
		Quantity: qty,
		Price:    price,
		Subtotal: price * float64(qty),
	}
}

var testDay = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func TestDaily(t *testing.T) {
	store := &fakeStore{
		orders: []models.Order{
			orderOn(testDay.Add(9*time.Hour), models.OrderStatusDelivered, line("Bread", 3, 50)),
			orderOn(testDay.Add(15*time.Hour), models.OrderStatusPending, line("Cake", 1, 200)),
			// Previous day, must not count.
			orderOn(testDay.Add(-2*time.Hour), models.OrderStatusDelivered, line("Bread", 10, 50)),
		},
		expenses: []models.Expense{
			{Amount: 100, Category: "Ingredients", Date: testDay.Add(8 * time.Hour)},
			{Amount: 999, Category: "Rent", Date: testDay.AddDate(0, 0, 1)},
		},
	}
	svc := NewService(store, nil)

	daily, err := svc.Daily(context.Background(), testDay.Add(12*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 350.0, daily.TotalSales)
	assert.Equal(t, 100.0, daily.TotalExpenses)
	assert.Equal(t, 250.0, daily.Profit)
	assert.Equal(t, 2, daily.OrderCount)
	assert.Equal(t, 1, daily.OrderStatus.Completed)
	assert.Equal(t, 1, daily.OrderStatus.Pending)
	assert.Equal(t, 0, daily.OrderStatus.Processing)

	require.NotEmpty(t, daily.TopItems)
	assert.Equal(t, "Bread", daily.TopItems[0].Name)
	assert.Equal(t, 3, daily.TopItems[0].Quantity)
	assert.Equal(t, 150.0, daily.TopItems[0].Revenue)
}

func TestRange(t *testing.T) {
	store := &fakeStore{
		orders: []models.Order{
			orderOn(testDay.Add(10*time.Hour), models.OrderStatusDelivered, line("Bread", 2, 50)),
			orderOn(testDay.AddDate(0, 0, 1).Add(10*time.Hour), models.OrderStatusDelivered, line("Cake", 1, 200)),
			orderOn(testDay.AddDate(0, 0, 1).Add(11*time.Hour), models.OrderStatusPending, line("Bread", 4, 50)),
		},
		expenses: []models.Expense{
			{Amount: 80, Category: "Ingredients", Date: testDay.Add(9 * time.Hour)},
			{Amount: 120, Category: "Ingredients", Date: testDay.AddDate(0, 0, 2).Add(9 * time.Hour)},
		},
	}
	svc := NewService(store, nil)

	summary, err := svc.Range(context.Background(), testDay, testDay.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Days)
	require.Len(t, summary.DailyData, 3)

	assert.Equal(t, "2026-08-29", summary.DailyData[0].Date)
	assert.Equal(t, 100.0, summary.DailyData[0].Sales)
	assert.Equal(t, 80.0, summary.DailyData[0].Expenses)
	assert.Equal(t, 20.0, summary.DailyData[0].Profit)
	assert.Equal(t, 1, summary.DailyData[0].OrderCount)

	assert.Equal(t, 400.0, summary.DailyData[1].Sales)
	assert.Equal(t, 2, summary.DailyData[1].OrderCount)

	assert.Equal(t, 0.0, summary.DailyData[2].Sales)
	assert.Equal(t, 120.0, summary.DailyData[2].Expenses)

	assert.Equal(t, 500.0, summary.Summary.TotalSales)
	assert.Equal(t, 200.0, summary.Summary.TotalExpenses)
	assert.Equal(t, 300.0, summary.Summary.Profit)
	assert.Equal(t, 3, summary.Summary.OrderCount)
	assert.Equal(t, 2, summary.Summary.ExpenseCount)
	assert.Equal(t, 200.0, summary.ExpensesByCategory["Ingredients"])

	require.NotEmpty(t, summary.TopItems)
	assert.Equal(t, "Bread", summary.TopItems[0].Name)
	assert.Equal(t, 6, summary.TopItems[0].Quantity)
}

func TestInventory(t *testing.T) {
	store := &fakeStore{
		items: []models.Item{
			{Name: "Bread", Category: "Bread", Cost: 20, StockQuantity: 10, MinStockLevel: 5},
			{Name: "Cake", Category: "Cake", Cost: 80, StockQuantity: 2, MinStockLevel: 3},
			{Name: "Flour", Category: "Ingredient", Cost: 1, StockQuantity: 500, MinStockLevel: 100},
		},
	}
	svc := NewService(store, nil)

	summary, err := svc.Inventory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.LowStockCount)
	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "Cake", summary.LowStockItems[0].Name)
	// 20*10 + 80*2 + 1*500
	assert.Equal(t, 860.0, summary.TotalInventoryValue)
	assert.Len(t, summary.ItemsByCategory, 3)
	assert.Len(t, summary.ItemsByCategory["Bread"], 1)
}

func TestDashboard(t *testing.T) {
	now := testDay.Add(14 * time.Hour)
	store := &fakeStore{
		orders: []models.Order{
			orderOn(testDay.Add(9*time.Hour), models.OrderStatusDelivered, line("Bread", 4, 50)),
			orderOn(testDay.Add(11*time.Hour), models.OrderStatusPending, line("Cake", 1, 200)),
			orderOn(testDay.AddDate(0, 0, -1).Add(10*time.Hour), models.OrderStatusDelivered, line("Bread", 4, 50)),
		},
		expenses: []models.Expense{
			{Amount: 150, Category: "Ingredients", Date: testDay.Add(8 * time.Hour)},
		},
		items: []models.Item{
			{Name: "Cake", Category: "Cake", StockQuantity: 1, MinStockLevel: 3},
		},
	}
	svc := NewService(store, nil)

	summary, err := svc.Dashboard(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 400.0, summary.TodaySales)
	assert.Equal(t, 150.0, summary.TodayExpenses)
	assert.Equal(t, 250.0, summary.TodayProfit)
	assert.Equal(t, 2, summary.TodayOrderCount)
	// yesterday 200, today 400
	assert.Equal(t, 100.0, summary.SalesGrowth)
	require.Len(t, summary.PendingOrders, 1)
	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "Cake", summary.LowStockItems[0].Name)
}

func TestDashboardGrowthWithoutYesterdaySales(t *testing.T) {
	store := &fakeStore{
		orders: []models.Order{
			orderOn(testDay.Add(9*time.Hour), models.OrderStatusDelivered, line("Bread", 1, 50)),
		},
	}
	svc := NewService(store, nil)

	summary, err := svc.Dashboard(context.Background(), testDay.Add(14*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.SalesGrowth)
}

func TestFeedback(t *testing.T) {
	store := &fakeStore{
		feedbacks: []models.Feedback{
			{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 2},
		},
	}
	svc := NewService(store, nil)

	summary, err := svc.Feedback(context.Background(), mongodb.FeedbackFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalFeedback)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 2, summary.RatingCounts[5])
	assert.Equal(t, 1, summary.RatingCounts[4])
	assert.Equal(t, 0, summary.RatingCounts[3])
	assert.Equal(t, 1, summary.RatingCounts[2])
	assert.Equal(t, 50.0, summary.RatingPercentages[5])
	assert.Equal(t, 25.0, summary.RatingPercentages[4])
}

func TestFeedbackEmpty(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	summary, err := svc.Feedback(context.Background(), mongodb.FeedbackFilter{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalFeedback)
	assert.Equal(t, 0.0, summary.AverageRating)
	for rating := 1; rating <= 5; rating++ {
		assert.Equal(t, 0.0, summary.RatingPercentages[rating])
	}
}

func TestBuildDailyReport(t *testing.T) {
	store := &fakeStore{
		orders: []models.Order{
			orderOn(testDay.Add(9*time.Hour), models.OrderStatusDelivered, line("Bread", 3, 50)),
			orderOn(testDay.Add(10*time.Hour), models.OrderStatusProcessing, line("Cake", 1, 200)),
		},
		expenses: []models.Expense{
			{Amount: 50, Category: "Transport", Date: testDay.Add(7 * time.Hour)},
		},
	}
	svc := NewService(store, nil)

	report, err := svc.BuildDailyReport(context.Background(), testDay.Add(20*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, testDay, report.Date)
	assert.Equal(t, 350.0, report.TotalSales)
	assert.Equal(t, 50.0, report.TotalExpenses)
	assert.Equal(t, 300.0, report.Profit)
	assert.Equal(t, 2, report.OrderCount)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 0, report.Pending)
	assert.Equal(t, 1, report.Processing)
	assert.False(t, report.CreatedAt.IsZero())
}
