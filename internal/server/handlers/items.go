package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/service/catalog"
)

// ItemsHandler serves the catalog endpoints.
type ItemsHandler struct {
	svc        *catalog.Service
	production bool
	logger     *zap.Logger
}

// NewItemsHandler constructs the catalog HTTP adapter.
func NewItemsHandler(svc *catalog.Service, production bool, logger *zap.Logger) *ItemsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemsHandler{svc: svc, production: production, logger: logger}
}

// List returns catalog items, filterable by category, active flag and a
// case-insensitive name search.
func (h *ItemsHandler) List(c *gin.Context) {
	filter := mongodb.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if isActive := c.Query("isActive"); isActive != "" {
		active := isActive == "true"
		filter.Active = &active
	}

	items, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondList(c, items, len(items))
}

// Get returns one item.
func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, item)
}

type createItemRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Price         *float64 `json:"price" binding:"required"`
	Cost          *float64 `json:"cost" binding:"required"`
	StockQuantity int      `json:"stockQuantity"`
	Unit          string   `json:"unit" binding:"required"`
	MinStockLevel *int     `json:"minStockLevel"`
	IsActive      *bool    `json:"isActive"`
	Image         string   `json:"image"`
}

// Create adds a catalog item.
func (h *ItemsHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), catalog.CreateItemInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         *req.Price,
		Cost:          *req.Cost,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
		IsActive:      req.IsActive,
		Image:         req.Image,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusCreated, item)
}

type updateItemRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	Cost          *float64 `json:"cost"`
	StockQuantity *int     `json:"stockQuantity"`
	Unit          *string  `json:"unit"`
	MinStockLevel *int     `json:"minStockLevel"`
	IsActive      *bool    `json:"isActive"`
	Image         *string  `json:"image"`
}

// Update applies a partial update to an item.
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.svc.Update(c.Request.Context(), id, catalog.UpdateItemInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		Cost:          req.Cost,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
		IsActive:      req.IsActive,
		Image:         req.Image,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, item)
}

// Delete removes an item.
func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

type stockAdjustmentRequest struct {
	Adjustment *int `json:"adjustment" binding:"required"`
}

// UpdateStock applies a signed stock adjustment to an item.
func (h *ItemsHandler) UpdateStock(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var req stockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.svc.AdjustStock(c.Request.Context(), id, *req.Adjustment)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, item)
}

func (h *ItemsHandler) itemID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errs.Validationf("Invalid item ID"), h.production)
		return primitive.NilObjectID, false
	}
	return id, true
}
