package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/repository/sheets"
	"github.com/mamadbah2/bakehouse/internal/service/reporting"
	"github.com/mamadbah2/bakehouse/pkg/clients/notify"
)

// Scheduler manages the nightly reporting job: export the day's trading
// summary to the spreadsheet and alert on items running low.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	exporter     sheets.Exporter // nil when export is unconfigured
	notifier     notify.Notifier // nil when alerts are unconfigured
	lowStock     LowStockLister
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// LowStockLister yields items at or below their reorder level.
type LowStockLister interface {
	LowStockItems(ctx context.Context, limit int64) ([]models.Item, error)
}

// NewScheduler creates a new scheduler instance. Location falls back to the
// server's local time when the configured timezone cannot be loaded.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, exporter sheets.Exporter, notifier notify.Notifier, lowStock LowStockLister, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		exporter:     exporter,
		notifier:     notifier,
		lowStock:     lowStock,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers and starts the nightly job.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runNightly)
	if err != nil {
		s.logger.Error("failed to schedule nightly report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.exportDailyReport(ctx)
	s.alertLowStock(ctx)
}

func (s *Scheduler) exportDailyReport(ctx context.Context) {
	if s.exporter == nil {
		return
	}

	s.logger.Info("exporting daily report")
	report, err := s.reportingSvc.BuildDailyReport(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to build daily report", zap.Error(err))
		return
	}

	if err := s.exporter.AppendDailyReport(ctx, *report); err != nil {
		s.logger.Error("failed to export daily report", zap.Error(err))
		return
	}

	s.logger.Info("daily report exported",
		zap.Float64("totalSales", report.TotalSales),
		zap.Int("orderCount", report.OrderCount))
}

func (s *Scheduler) alertLowStock(ctx context.Context) {
	if s.notifier == nil {
		return
	}

	items, err := s.lowStock.LowStockItems(ctx, 0)
	if err != nil {
		s.logger.Error("failed to list low stock items", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s left (minimum %d)\n", item.Name, item.StockQuantity, item.Unit, item.MinStockLevel)
	}

	subject := fmt.Sprintf("%d item(s) low on stock", len(items))
	if err := s.notifier.SendAlert(ctx, subject, b.String()); err != nil {
		s.logger.Error("failed to send low stock alert", zap.Error(err))
		return
	}

	s.logger.Info("low stock alert sent", zap.Int("items", len(items)))
}
