package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/server/middleware"
	"github.com/mamadbah2/bakehouse/internal/service/expenses"
)

// ExpensesHandler serves the expense bookkeeping endpoints.
type ExpensesHandler struct {
	svc        *expenses.Service
	production bool
	logger     *zap.Logger
}

// NewExpensesHandler constructs the expenses HTTP adapter.
func NewExpensesHandler(svc *expenses.Service, production bool, logger *zap.Logger) *ExpensesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpensesHandler{svc: svc, production: production, logger: logger}
}

// List returns expenses, filterable by category and date range.
func (h *ExpensesHandler) List(c *gin.Context) {
	filter := mongodb.ExpenseFilter{Category: c.Query("category")}
	if start := c.Query("startDate"); start != "" {
		if t, ok := parseDate(start); ok {
			filter.From = &t
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, ok := parseDate(end); ok {
			next := t.AddDate(0, 0, 1)
			filter.To = &next
		}
	}

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondList(c, list, len(list))
}

// Get returns one expense.
func (h *ExpensesHandler) Get(c *gin.Context) {
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	exp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, exp)
}

type createExpenseRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Amount        *float64   `json:"amount" binding:"required"`
	Category      string     `json:"category" binding:"required"`
	Date          *time.Time `json:"date"`
	PaidTo        string     `json:"paidTo"`
	PaymentMethod string     `json:"paymentMethod"`
	Receipt       string     `json:"receipt"`
}

// Create records a new expense.
func (h *ExpensesHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var createdBy primitive.ObjectID
	if user := middleware.CurrentUser(c); user != nil {
		createdBy = user.ID
	}

	exp, err := h.svc.Create(c.Request.Context(), expenses.CreateExpenseInput{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        *req.Amount,
		Category:      req.Category,
		Date:          req.Date,
		PaidTo:        req.PaidTo,
		PaymentMethod: req.PaymentMethod,
		Receipt:       req.Receipt,
		CreatedBy:     createdBy,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, exp)
}

type updateExpenseRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Amount        *float64   `json:"amount"`
	Category      *string    `json:"category"`
	Date          *time.Time `json:"date"`
	PaidTo        *string    `json:"paidTo"`
	PaymentMethod *string    `json:"paymentMethod"`
	Receipt       *string    `json:"receipt"`
}

// Update applies a partial update to an expense.
func (h *ExpensesHandler) Update(c *gin.Context) {
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	exp, err := h.svc.Update(c.Request.Context(), id, expenses.UpdateExpenseInput{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          req.Date,
		PaidTo:        req.PaidTo,
		PaymentMethod: req.PaymentMethod,
		Receipt:       req.Receipt,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, exp)
}

// Delete removes an expense.
func (h *ExpensesHandler) Delete(c *gin.Context) {
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

func (h *ExpensesHandler) expenseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid expense ID"), h.production)
		return primitive.NilObjectID, false
	}
	return id, true
}
