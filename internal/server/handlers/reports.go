package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/service/reporting"
)

// ReportsHandler serves the read-and-aggregate reporting endpoints.
type ReportsHandler struct {
	svc        *reporting.Service
	production bool
	logger     *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter.
func NewReportsHandler(svc *reporting.Service, production bool, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, production: production, logger: logger}
}

// Daily returns the sales and expense summary for one day (today when the
// date query is absent).
func (h *ReportsHandler) Daily(c *gin.Context) {
	date := time.Now()
	if value := c.Query("date"); value != "" {
		parsed, ok := parseDate(value)
		if !ok {
			respondError(c, h.logger, errs.Validationf("Invalid date"), h.production)
			return
		}
		date = parsed
	}

	summary, err := h.svc.Daily(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, summary)
}

// Range returns per-day sales and expense totals over a date range.
func (h *ReportsHandler) Range(c *gin.Context) {
	startValue, endValue := c.Query("startDate"), c.Query("endDate")
	if startValue == "" || endValue == "" {
		respondError(c, h.logger, errs.Validationf("Please provide start and end dates"), h.production)
		return
	}

	start, ok := parseDate(startValue)
	if !ok {
		respondError(c, h.logger, errs.Validationf("Invalid start date"), h.production)
		return
	}
	end, ok := parseDate(endValue)
	if !ok {
		respondError(c, h.logger, errs.Validationf("Invalid end date"), h.production)
		return
	}
	if end.Before(start) {
		respondError(c, h.logger, errs.Validationf("End date must not be before start date"), h.production)
		return
	}

	summary, err := h.svc.Range(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, summary)
}

// Inventory returns the stock status report.
func (h *ReportsHandler) Inventory(c *gin.Context) {
	summary, err := h.svc.Inventory(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, summary)
}

// Dashboard returns the staff landing-page summary.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, summary)
}

// Feedback returns the customer-rating summary, filterable by date range
// and rating bounds.
func (h *ReportsHandler) Feedback(c *gin.Context) {
	filter := mongodb.FeedbackFilter{}
	if start := c.Query("startDate"); start != "" {
		if t, ok := parseDate(start); ok {
			filter.From = &t
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, ok := parseDate(end); ok {
			filter.To = &t
		}
	}
	if min := c.Query("minRating"); min != "" {
		if n, err := strconv.Atoi(min); err == nil {
			filter.MinRating = n
		}
	}
	if max := c.Query("maxRating"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			filter.MaxRating = n
		}
	}

	summary, err := h.svc.Feedback(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}
	respondData(c, http.StatusOK, summary)
}
