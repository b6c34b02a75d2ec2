package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"retailcli/internal/errors"
	"retailcli/internal/infrastructure"
	"retailcli/pkg/contracts/domain"
)

// CleanerConfig holds the cleaning policy knobs.
type CleanerConfig struct {
	// CancellationMarker is the invoice prefix marking a reversal.
	CancellationMarker string

	// MaxErrorRate is the tolerated fraction of rows failing to parse.
	// Above it the whole load is rejected.
	MaxErrorRate float64

	// DateFormats are tried in order when parsing invoice timestamps.
	DateFormats []string
}

// DefaultCleanerConfig returns the cleaning defaults.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		CancellationMarker: domain.DefaultCancellationMarker,
		MaxErrorRate:       0.05,
		DateFormats: []string{
			"2006-01-02 15:04:05",
			"1/2/2006 15:04",
			time.RFC3339,
		},
	}
}

// Cleaner turns a RawTable into the cleaned, immutable record set. It never
// mutates its input; every run over the same table yields the same output.
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default.
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.CancellationMarker == "" {
		config.CancellationMarker = domain.DefaultCancellationMarker
	}
	if len(config.DateFormats) == 0 {
		config.DateFormats = DefaultCleanerConfig().DateFormats
	}
	return &Cleaner{logger: logger, config: config}
}

// Clean parses and filters the raw table. Row parse failures are collected
// in the report rather than aborting the run, unless their rate exceeds
// MaxErrorRate, in which case a data quality error is returned. The report
// is produced on success and on data quality failure.
func (c *Cleaner) Clean(ctx context.Context, table *RawTable) ([]domain.Transaction, *domain.CleaningReport, error) {
	report := newReport(ctx, table.Source)
	started := time.Now()

	cleaned := make([]domain.Transaction, 0, len(table.Rows))

	for i, row := range table.Rows {
		report.RowsRead++

		tx, rowErr := c.parseRow(table, row, i+2) // +2: 1-based plus header row
		if rowErr != nil {
			report.Dropped[domain.DropParseFailure]++
			report.ParseErrors = append(report.ParseErrors, *rowErr)
			continue
		}

		if reason, drop := c.filter(tx); drop {
			report.Dropped[reason]++
			continue
		}

		tx.Revenue = float64(tx.Quantity) * tx.Price
		if !tx.HasCustomer() {
			report.AnonymousRows++
		}
		cleaned = append(cleaned, tx)
	}

	report.RowsKept = len(cleaned)
	report.Duration = time.Since(started)

	if report.RowsRead > 0 && report.ErrorRate() > c.config.MaxErrorRate {
		c.logger.ErrorContext(ctx, "parse error rate above threshold",
			slog.Int("failed_rows", len(report.ParseErrors)),
			slog.Int("rows_read", report.RowsRead),
			slog.Float64("max_error_rate", c.config.MaxErrorRate))
		return nil, report, errors.NewDataQualityError(
			fmt.Sprintf("parse error rate %.4f exceeds threshold %.4f",
				report.ErrorRate(), c.config.MaxErrorRate),
			len(report.ParseErrors))
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_kept", report.RowsKept),
		slog.Int("rows_dropped", report.RowsDropped()),
		slog.Int("anonymous_rows", report.AnonymousRows))

	return cleaned, report, nil
}

// Apply re-runs the validation filters over an already-parsed record set.
// Cleaning a cleaned set returns it unchanged apart from slice identity.
func (c *Cleaner) Apply(ctx context.Context, records []domain.Transaction) ([]domain.Transaction, *domain.CleaningReport) {
	report := newReport(ctx, "")
	started := time.Now()

	cleaned := make([]domain.Transaction, 0, len(records))
	for _, tx := range records {
		report.RowsRead++
		if reason, drop := c.filter(tx); drop {
			report.Dropped[reason]++
			continue
		}
		tx.Revenue = float64(tx.Quantity) * tx.Price
		if !tx.HasCustomer() {
			report.AnonymousRows++
		}
		cleaned = append(cleaned, tx)
	}

	report.RowsKept = len(cleaned)
	report.Duration = time.Since(started)
	return cleaned, report
}

// filter applies the validation rules. Order matters only for reporting:
// a cancelled invoice with negative quantity counts as cancelled.
func (c *Cleaner) filter(tx domain.Transaction) (domain.DropReason, bool) {
	switch {
	case tx.IsCancellation(c.config.CancellationMarker):
		return domain.DropCancelledInvoice, true
	case tx.Quantity <= 0:
		return domain.DropNonPositiveQuantity, true
	case tx.Price <= 0:
		return domain.DropNonPositivePrice, true
	case tx.Invoice == "" || tx.StockCode == "" || tx.Country == "":
		return domain.DropMissingField, true
	}
	return "", false
}

// parseRow converts one raw row into a Transaction. The returned RowError
// describes the first malformed cell found.
func (c *Cleaner) parseRow(table *RawTable, row []string, rowNum int) (domain.Transaction, *domain.RowError) {
	cell := func(column string) string {
		idx, ok := table.Columns[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	tx := domain.Transaction{
		Invoice:   cell(domain.ColumnInvoice),
		StockCode: cell(domain.ColumnStockCode),
		Country:   cell(domain.ColumnCountry),
	}
	if table.HasDescription {
		tx.Description = cell(domain.ColumnDescription)
	}
	if table.HasCustomerID {
		tx.CustomerID = normalizeCustomerID(cell(domain.ColumnCustomerID))
	}

	quantityRaw := cell(domain.ColumnQuantity)
	quantity, err := strconv.ParseInt(strings.ReplaceAll(quantityRaw, ",", ""), 10, 64)
	if err != nil {
		return tx, &domain.RowError{
			Row:    rowNum,
			Column: domain.ColumnQuantity,
			Value:  quantityRaw,
			Reason: "not an integer",
		}
	}
	tx.Quantity = quantity

	priceRaw := cell(domain.ColumnPrice)
	price, err := strconv.ParseFloat(strings.ReplaceAll(priceRaw, ",", ""), 64)
	if err != nil {
		return tx, &domain.RowError{
			Row:    rowNum,
			Column: domain.ColumnPrice,
			Value:  priceRaw,
			Reason: "not a number",
		}
	}
	tx.Price = price

	dateRaw := cell(domain.ColumnInvoiceDate)
	date, err := c.parseDate(dateRaw)
	if err != nil {
		return tx, &domain.RowError{
			Row:    rowNum,
			Column: domain.ColumnInvoiceDate,
			Value:  dateRaw,
			Reason: "unrecognized timestamp",
		}
	}
	tx.InvoiceDate = date

	return tx, nil
}

// parseDate tries the configured formats in order.
func (c *Cleaner) parseDate(value string) (time.Time, error) {
	for _, format := range c.config.DateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no date format matched %q", value)
}

// normalizeCustomerID strips the ".0" float suffix spreadsheet exports put
// on numeric customer identifiers.
func normalizeCustomerID(id string) string {
	return strings.TrimSuffix(id, ".0")
}

// newReport initializes a CleaningReport bound to the context's run ID.
func newReport(ctx context.Context, source string) *domain.CleaningReport {
	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		runID = infrastructure.NewRunID()
	}
	return &domain.CleaningReport{
		RunID:     runID,
		Source:    source,
		Dropped:   make(map[domain.DropReason]int),
		StartedAt: time.Now(),
	}
}
