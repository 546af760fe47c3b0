package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/server/middleware"
	"github.com/mamadbah2/bakehouse/internal/service/orders"
)

// OrdersHandler serves the staff-facing order endpoints.
type OrdersHandler struct {
	svc        *orders.Service
	production bool
	logger     *zap.Logger
}

// NewOrdersHandler constructs the orders HTTP adapter.
func NewOrdersHandler(svc *orders.Service, production bool, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{svc: svc, production: production, logger: logger}
}

// orderLineRequest is one requested line in an order body.
type orderLineRequest struct {
	Item     string   `json:"item" binding:"required"`
	Quantity int      `json:"quantity" binding:"required,min=1"`
	Price    *float64 `json:"price"`
}

func parseLines(reqs []orderLineRequest) ([]orders.LineInput, error) {
	lines := make([]orders.LineInput, 0, len(reqs))
	for _, req := range reqs {
		id, err := primitive.ObjectIDFromHex(req.Item)
		if err != nil {
			return nil, errs.Validationf("Invalid item ID: %s", req.Item)
		}
		lines = append(lines, orders.LineInput{ItemID: id, Quantity: req.Quantity, Price: req.Price})
	}
	return lines, nil
}

// List returns orders, filterable by status, date range, or today only.
func (h *OrdersHandler) List(c *gin.Context) {
	filter := mongodb.OrderFilter{Status: c.Query("status")}

	if start := c.Query("startDate"); start != "" {
		if t, ok := parseDate(start); ok {
			filter.From = &t
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, ok := parseDate(end); ok {
			// Inclusive end date: extend to the start of the next day.
			next := t.AddDate(0, 0, 1)
			filter.To = &next
		}
	}
	if c.Query("today") == "true" {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		tomorrow := today.AddDate(0, 0, 1)
		filter.From = &today
		filter.To = &tomorrow
	}

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondList(c, list, len(list))
}

// Get returns one order.
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, order)
}

type createOrderRequest struct {
	Customer struct {
		ID      string `json:"id" binding:"required"`
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"customer" binding:"required"`
	Items         []orderLineRequest `json:"items" binding:"required,dive"`
	Notes         string             `json:"notes"`
	PaymentMethod string             `json:"paymentMethod"`
}

// Create places an order on a customer's behalf (staff flow).
func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customerID, err := primitive.ObjectIDFromHex(req.Customer.ID)
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid customer ID"), h.production)
		return
	}
	lines, err := parseLines(req.Items)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}

	var createdBy primitive.ObjectID
	if user := middleware.CurrentUser(c); user != nil {
		createdBy = user.ID
	}

	order, err := h.svc.Create(c.Request.Context(), orders.CreateOrderInput{
		Customer: models.OrderCustomer{
			ID:      customerID,
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Items:         lines,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		CreatedBy:     createdBy,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, order)
}

type updateOrderRequest struct {
	Items         []orderLineRequest `json:"items"`
	Status        *string            `json:"status"`
	PaymentStatus *string            `json:"paymentStatus"`
	PaymentMethod *string            `json:"paymentMethod"`
	DeliveryDate  *time.Time         `json:"deliveryDate"`
	Notes         *string            `json:"notes"`
}

// Update applies an administrative update, replacing lines when provided.
func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	in := orders.UpdateOrderInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
		DeliveryDate:  req.DeliveryDate,
		Notes:         req.Notes,
	}
	if len(req.Items) > 0 {
		lines, err := parseLines(req.Items)
		if err != nil {
			respondError(c, h.logger, err, h.production)
			return
		}
		in.Items = lines
	}

	order, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an order through its lifecycle.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, order)
}

// Delete removes an order, restoring its stock.
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

func (h *OrdersHandler) orderID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid order ID"), h.production)
		return primitive.NilObjectID, false
	}
	return id, true
}
