// Package sheets exports daily trading summaries to a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// Exporter appends daily report rows to an external spreadsheet.
type Exporter interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
}

// dailyReportRange targets the sheet tab holding one row per trading day.
const dailyReportRange = "DailyReports!A:H"

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailyReport appends one summary row for the report's day.
func (e *GoogleSheetExporter) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	values := []interface{}{
		report.Date.Format("2006-01-02"),
		report.OrderCount,
		report.TotalSales,
		report.TotalExpenses,
		report.Profit,
		report.Completed,
		report.Pending,
		report.Processing,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, dailyReportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append daily report row: %w", err)
	}

	e.logger.Debug("daily report row appended", zap.Time("date", report.Date))
	return nil
}
