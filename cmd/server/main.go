package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/repository/mongodb"
	"github.com/mamadbah2/bakehouse/internal/repository/sheets"
	"github.com/mamadbah2/bakehouse/internal/scheduler"
	"github.com/mamadbah2/bakehouse/internal/server/handlers"
	"github.com/mamadbah2/bakehouse/internal/server/router"
	authsvc "github.com/mamadbah2/bakehouse/internal/service/auth"
	catalogsvc "github.com/mamadbah2/bakehouse/internal/service/catalog"
	expensesvc "github.com/mamadbah2/bakehouse/internal/service/expenses"
	feedbacksvc "github.com/mamadbah2/bakehouse/internal/service/feedback"
	ordersvc "github.com/mamadbah2/bakehouse/internal/service/orders"
	reportingsvc "github.com/mamadbah2/bakehouse/internal/service/reporting"
	"github.com/mamadbah2/bakehouse/pkg/clients/notify"
	"github.com/mamadbah2/bakehouse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongo"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	authService := authsvc.NewService(store, cfg.Auth, baseLogger.Named("svc.auth"))
	catalogService := catalogsvc.NewService(store, baseLogger.Named("svc.catalog"))
	orderService := ordersvc.NewService(store, cfg.Orders.TxMode, baseLogger.Named("svc.orders"))
	feedbackService := feedbacksvc.NewService(store, baseLogger.Named("svc.feedback"))
	expenseService := expensesvc.NewService(store, baseLogger.Named("svc.expenses"))
	reportingService := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"))

	// Spreadsheet export and webhook alerts are both optional.
	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("daily report export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, daily report export disabled")
	}

	var notifier notify.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookClient(cfg.Notify)
		baseLogger.Info("low stock alerts enabled")
	} else {
		baseLogger.Warn("alert webhook missing, low stock alerts disabled")
	}

	production := cfg.Server.Production()
	cookieMaxAge := cfg.Auth.TokenTTL * 3600

	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cookieMaxAge, production, baseLogger.Named("handlers.auth")),
		Items:    handlers.NewItemsHandler(catalogService, production, baseLogger.Named("handlers.items")),
		Orders:   handlers.NewOrdersHandler(orderService, production, baseLogger.Named("handlers.orders")),
		Customer: handlers.NewCustomerHandler(orderService, feedbackService, authService, production, baseLogger.Named("handlers.customer")),
		Expenses: handlers.NewExpensesHandler(expenseService, production, baseLogger.Named("handlers.expenses")),
		Reports:  handlers.NewReportsHandler(reportingService, production, baseLogger.Named("handlers.reports")),
	}, authService, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingService, exporter, notifier, store, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
