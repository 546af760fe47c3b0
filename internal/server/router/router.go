package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/server/handlers"
	"github.com/mamadbah2/bakehouse/internal/server/middleware"
	"github.com/mamadbah2/bakehouse/internal/service/auth"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Items    *handlers.ItemsHandler
	Orders   *handlers.OrdersHandler
	Customer *handlers.CustomerHandler
	Expenses *handlers.ExpensesHandler
	Reports  *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(zapLoggerMiddleware(logger))

	protect := middleware.RequireAuth(authSvc, logger)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	customerOnly := middleware.RequireRoles(models.RoleCustomer)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/logout", h.Auth.Logout)
		authGroup.GET("/me", protect, h.Auth.Me)
	}

	items := api.Group("/items", protect)
	{
		items.GET("", h.Items.List)
		items.POST("", adminOnly, h.Items.Create)
		items.GET("/:id", h.Items.Get)
		items.PUT("/:id", adminOnly, h.Items.Update)
		items.DELETE("/:id", adminOnly, h.Items.Delete)
		items.PATCH("/:id/stock", h.Items.UpdateStock)
	}

	orders := api.Group("/orders", protect)
	{
		orders.GET("", h.Orders.List)
		orders.POST("", h.Orders.Create)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id", adminOnly, h.Orders.Update)
		orders.DELETE("/:id", adminOnly, h.Orders.Delete)
		orders.PATCH("/:id/status", h.Orders.UpdateStatus)
	}

	expenses := api.Group("/expenses", protect)
	{
		expenses.GET("", h.Expenses.List)
		expenses.POST("", h.Expenses.Create)
		expenses.GET("/:id", h.Expenses.Get)
		expenses.PUT("/:id", h.Expenses.Update)
		expenses.DELETE("/:id", h.Expenses.Delete)
	}

	reports := api.Group("/reports", protect)
	{
		reports.GET("/daily", h.Reports.Daily)
		reports.GET("/range", h.Reports.Range)
		reports.GET("/inventory", h.Reports.Inventory)
		reports.GET("/dashboard", h.Reports.Dashboard)
		reports.GET("/feedback", h.Reports.Feedback)
	}

	customer := api.Group("/customer", protect, customerOnly)
	{
		customer.GET("/dashboard", h.Customer.Dashboard)
		customer.GET("/orders", h.Customer.Orders)
		customer.GET("/orders/:id", h.Customer.OrderDetails)
		customer.POST("/orders", h.Customer.CreateOrder)
		customer.POST("/feedback", h.Customer.SubmitFeedback)
		customer.GET("/profile", h.Customer.Profile)
		customer.PUT("/profile", h.Customer.UpdateProfile)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("client_ip", c.ClientIP()))
	}
}
