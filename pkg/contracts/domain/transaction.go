package domain

import (
	"strings"
	"time"
)

// Column names expected in the raw input, matched case-sensitively.
const (
	ColumnInvoice     = "Invoice"
	ColumnStockCode   = "StockCode"
	ColumnDescription = "Description"
	ColumnQuantity    = "Quantity"
	ColumnInvoiceDate = "InvoiceDate"
	ColumnPrice       = "Price"
	ColumnCustomerID  = "Customer ID"
	ColumnCountry     = "Country"
)

// RequiredColumns must all be present in the input header or the load fails.
var RequiredColumns = []string{
	ColumnInvoice,
	ColumnStockCode,
	ColumnQuantity,
	ColumnInvoiceDate,
	ColumnPrice,
	ColumnCountry,
}

// OptionalColumns are tolerated when absent; the corresponding fields stay empty.
var OptionalColumns = []string{
	ColumnDescription,
	ColumnCustomerID,
}

// DefaultCancellationMarker is the invoice prefix that marks a reversal.
const DefaultCancellationMarker = "C"

// Transaction represents a single line of a retail invoice.
// Quantity may be negative in raw data (returns/cancellations); after
// cleaning both Quantity and Price are strictly positive.
type Transaction struct {
	Invoice     string    `json:"invoice" csv:"Invoice" validate:"required"`
	StockCode   string    `json:"stock_code" csv:"StockCode" validate:"required"`
	Description string    `json:"description,omitempty" csv:"Description"`
	Quantity    int64     `json:"quantity" csv:"Quantity"`
	InvoiceDate time.Time `json:"invoice_date" csv:"InvoiceDate"`
	Price       float64   `json:"price" csv:"Price"`
	CustomerID  string    `json:"customer_id,omitempty" csv:"Customer ID"`
	Country     string    `json:"country" csv:"Country"`

	// Revenue is the derived line revenue, Quantity × Price. Set by the cleaner.
	Revenue float64 `json:"revenue" csv:"Revenue"`
}

// HasCustomer reports whether the transaction carries a customer identifier.
func (t Transaction) HasCustomer() bool {
	return strings.TrimSpace(t.CustomerID) != ""
}

// IsCancellation reports whether the invoice identifier carries the given
// cancellation marker prefix.
func (t Transaction) IsCancellation(marker string) bool {
	return marker != "" && strings.HasPrefix(t.Invoice, marker)
}

// Month returns the invoice date truncated to a "2006-01" month bucket.
func (t Transaction) Month() string {
	return t.InvoiceDate.Format("2006-01")
}

// Day returns the invoice date truncated to a "2006-01-02" day bucket.
func (t Transaction) Day() string {
	return t.InvoiceDate.Format("2006-01-02")
}

// Hour returns the hour-of-day bucket of the invoice timestamp.
func (t Transaction) Hour() int {
	return t.InvoiceDate.Hour()
}

// Weekday returns the day-of-week bucket of the invoice timestamp.
func (t Transaction) Weekday() time.Weekday {
	return t.InvoiceDate.Weekday()
}

// RowError records a single raw row that failed to parse.
type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// DropReason identifies why a raw row was excluded from the cleaned set.
type DropReason string

const (
	DropMissingField        DropReason = "missing_field"
	DropNonPositiveQuantity DropReason = "non_positive_quantity"
	DropNonPositivePrice    DropReason = "non_positive_price"
	DropCancelledInvoice    DropReason = "cancelled_invoice"
	DropParseFailure        DropReason = "parse_failure"
)

// CleaningReport summarizes one cleaning run: rows read, rows kept, and
// per-reason drop counts. It is always produced on (partial) success.
type CleaningReport struct {
	RunID         string             `json:"run_id"`
	Source        string             `json:"source,omitempty"`
	RowsRead      int                `json:"rows_read"`
	RowsKept      int                `json:"rows_kept"`
	Dropped       map[DropReason]int `json:"dropped"`
	AnonymousRows int                `json:"anonymous_rows"`
	ParseErrors   []RowError         `json:"parse_errors,omitempty"`
	StartedAt     time.Time          `json:"started_at"`
	Duration      time.Duration      `json:"duration"`
}

// RowsDropped returns the total number of dropped rows across all reasons.
func (r CleaningReport) RowsDropped() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// ErrorRate returns the fraction of read rows that failed to parse.
func (r CleaningReport) ErrorRate() float64 {
	if r.RowsRead == 0 {
		return 0
	}
	return float64(len(r.ParseErrors)) / float64(r.RowsRead)
}
