package exporter

import (
	"fmt"
	"strconv"

	"retailcli/internal/config"
	"retailcli/pkg/contracts/domain"
)

// TableExporter writes the cleaned transaction set and the aggregate
// summary tables as CSV files. Inputs arrive pre-sorted from the
// aggregator; row order is preserved.
type TableExporter struct {
	csvWriter *CSVWriter
}

// NewTableExporter creates a new table exporter
func NewTableExporter(paths *config.Paths) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportTransactions streams the cleaned transaction set to a CSV file.
// The output uses the same column names as the input format, plus the
// derived Revenue column, so a cleaned file can feed a later run.
func (t *TableExporter) ExportTransactions(filePath string, records []domain.Transaction) error {
	headers := []string{
		domain.ColumnInvoice, domain.ColumnStockCode, domain.ColumnDescription,
		domain.ColumnQuantity, domain.ColumnInvoiceDate, domain.ColumnPrice,
		domain.ColumnCustomerID, domain.ColumnCountry, "Revenue",
	}

	stream, err := t.csvWriter.CreateStreamWriter(filePath, headers)
	if err != nil {
		return fmt.Errorf("failed to create transaction stream: %w", err)
	}

	for i, tx := range records {
		row := []string{
			tx.Invoice,
			tx.StockCode,
			tx.Description,
			formatInt(tx.Quantity),
			formatTime(tx.InvoiceDate),
			formatFloat(tx.Price),
			tx.CustomerID,
			tx.Country,
			formatFloat(tx.Revenue),
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write transaction %d: %w", i, err)
		}
	}

	return stream.Close()
}

// ExportCustomerSummary writes the per-customer aggregate table
func (t *TableExporter) ExportCustomerSummary(filePath string, summaries []domain.CustomerSummary) error {
	headers := []string{"CustomerID", "TotalSpend", "Orders", "Transactions", "LastPurchase"}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.CustomerID,
			formatFloat(s.TotalSpend),
			strconv.Itoa(s.Orders),
			strconv.Itoa(s.Transactions),
			formatTime(s.LastPurchase),
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportCountrySummary writes the per-country aggregate table
func (t *TableExporter) ExportCountrySummary(filePath string, summaries []domain.CountrySummary) error {
	headers := []string{"Country", "Revenue", "Orders", "Transactions"}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Country,
			formatFloat(s.Revenue),
			strconv.Itoa(s.Orders),
			strconv.Itoa(s.Transactions),
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportProductSummary writes the per-product aggregate table
func (t *TableExporter) ExportProductSummary(filePath string, summaries []domain.ProductSummary) error {
	headers := []string{"StockCode", "Description", "QuantitySold", "Revenue"}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.StockCode,
			s.Description,
			formatInt(s.QuantitySold),
			formatFloat(s.Revenue),
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportTimeBuckets writes a time-bucketed revenue table
func (t *TableExporter) ExportTimeBuckets(filePath string, buckets []domain.TimeBucketSummary) error {
	headers := []string{"Bucket", "Revenue", "Transactions"}

	records := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, []string{
			b.Bucket,
			formatFloat(b.Revenue),
			strconv.Itoa(b.Transactions),
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportRFMScores writes the per-customer RFM score table
func (t *TableExporter) ExportRFMScores(filePath string, scores []domain.RFMScore) error {
	headers := []string{
		"CustomerID", "RecencyDays", "Frequency", "Monetary",
		"RecencyScore", "FrequencyScore", "MonetaryScore", "Segment",
	}

	records := make([][]string, 0, len(scores))
	for _, s := range scores {
		records = append(records, []string{
			s.CustomerID,
			strconv.Itoa(s.RecencyDays),
			strconv.Itoa(s.Frequency),
			formatFloat(s.Monetary),
			strconv.Itoa(s.RecencyScore),
			strconv.Itoa(s.FrequencyScore),
			strconv.Itoa(s.MonetaryScore),
			s.Segment,
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportBaskets writes the per-invoice basket table
func (t *TableExporter) ExportBaskets(filePath string, baskets []domain.BasketSummary) error {
	headers := []string{"Invoice", "Units", "Value"}

	records := make([][]string, 0, len(baskets))
	for _, b := range baskets {
		records = append(records, []string{
			b.Invoice,
			formatInt(b.Units),
			formatFloat(b.Value),
		})
	}

	return t.csvWriter.WriteSimpleCSV(filePath, headers, records)
}
