package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/server/middleware"
	"github.com/mamadbah2/bakehouse/internal/service/auth"
	"github.com/mamadbah2/bakehouse/internal/service/feedback"
	"github.com/mamadbah2/bakehouse/internal/service/orders"
)

// CustomerHandler serves the customer-facing endpoints.
type CustomerHandler struct {
	orderSvc    *orders.Service
	feedbackSvc *feedback.Service
	authSvc     *auth.Service
	production  bool
	logger      *zap.Logger
}

// NewCustomerHandler constructs the customer HTTP adapter.
func NewCustomerHandler(orderSvc *orders.Service, feedbackSvc *feedback.Service, authSvc *auth.Service, production bool, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{
		orderSvc:    orderSvc,
		feedbackSvc: feedbackSvc,
		authSvc:     authSvc,
		production:  production,
		logger:      logger,
	}
}

// Dashboard returns the customer's profile, order stats and recent orders.
func (h *CustomerHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	recent, err := h.orderSvc.List(ctx, mongodb.OrderFilter{CustomerID: &user.ID, Limit: 5})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	total, err := h.orderSvc.Count(ctx, mongodb.OrderFilter{CustomerID: &user.ID})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	active, err := h.orderSvc.CountActive(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"customer": gin.H{
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"address": user.Address,
		},
		"stats": gin.H{
			"totalOrders":  total,
			"activeOrders": active,
		},
		"recentOrders": recent,
	})
}

// Orders lists the customer's own orders, filterable by status and dates.
func (h *CustomerHandler) Orders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	filter := mongodb.OrderFilter{CustomerID: &user.ID, Status: c.Query("status")}
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

	list, err := h.orderSvc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondList(c, list, len(list))
}

// OrderDetails returns one of the customer's own orders.
func (h *CustomerHandler) OrderDetails(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid order ID"), h.production)
		return
	}

	order, err := h.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	if order.Customer.ID != user.ID {
		respondError(c, h.logger, errs.Unauthorized("Not authorized to access this order"), h.production)
		return
	}
	respondData(c, http.StatusOK, order)
}

type customerOrderRequest struct {
	Items []orderLineRequest `json:"items" binding:"required,dive"`
	Notes string             `json:"notes"`
}

// CreateOrder places an order for the authenticated customer. The contact
// snapshot is taken from the account at this moment and never updates.
func (h *CustomerHandler) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req customerOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lines, err := parseLines(req.Items)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}

	order, err := h.orderSvc.Create(c.Request.Context(), orders.CreateOrderInput{
		Customer: models.OrderCustomer{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Phone:   user.Phone,
			Address: user.Address,
		},
		Items:     lines,
		Notes:     req.Notes,
		CreatedBy: user.ID,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, order)
}

type feedbackRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Rating  *int   `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitFeedback attaches a rating to one of the customer's delivered orders.
func (h *CustomerHandler) SubmitFeedback(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid order ID"), h.production)
		return
	}

	fb, err := h.feedbackSvc.Submit(c.Request.Context(), user.ID, orderID, *req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, fb)
}

// Profile returns the customer's account details.
func (h *CustomerHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	respondData(c, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProfile updates the customer's contact details.
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.authSvc.UpdateProfile(c.Request.Context(), user.ID, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, updated)
}
