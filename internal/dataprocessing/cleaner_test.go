package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

func testTable(rows [][]string) *RawTable {
	return &RawTable{
		Source: "test.csv",
		Columns: map[string]int{
			domain.ColumnInvoice:     0,
			domain.ColumnStockCode:   1,
			domain.ColumnDescription: 2,
			domain.ColumnQuantity:    3,
			domain.ColumnInvoiceDate: 4,
			domain.ColumnPrice:       5,
			domain.ColumnCustomerID:  6,
			domain.ColumnCountry:     7,
		},
		Rows:           rows,
		HasDescription: true,
		HasCustomerID:  true,
	}
}

func row(invoice, stock, desc, qty, date, price, customer, country string) []string {
	return []string{invoice, stock, desc, qty, date, price, customer, country}
}

func TestCleaner_Clean_KeepsValidRows(t *testing.T) {
	ctx := context.Background()
	cleaner := NewCleaner(nil, DefaultCleanerConfig())

	table := testTable([][]string{
		row("536365", "85123A", "WHITE HANGING HEART", "6", "2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"),
		row("536366", "71053", "WHITE METAL LANTERN", "8", "2010-12-01 08:28:00", "3.39", "17850", "United Kingdom"),
	})

	cleaned, report, err := cleaner.Clean(ctx, table)
	require.NoError(t, err)
	require.Len(t, cleaned, 2)

	assert.Equal(t, 2, report.RowsRead)
	assert.Equal(t, 2, report.RowsKept)
	assert.Equal(t, 0, report.RowsDropped())

	tx := cleaned[0]
	assert.Equal(t, "536365", tx.Invoice)
	assert.Equal(t, int64(6), tx.Quantity)
	assert.Equal(t, 2.55, tx.Price)
	assert.InDelta(t, 15.30, tx.Revenue, 1e-9)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), tx.InvoiceDate)
}

func TestCleaner_Clean_DropsCancellationRegardlessOfQuantity(t *testing.T) {
	// Positive quantity does not save a cancelled invoice.
	table := testTable([][]string{
		row("C001", "85123A", "CANCELLED", "5", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
	})

	cleaned, report, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Empty(t, cleaned)
	assert.Equal(t, 1, report.Dropped[domain.DropCancelledInvoice])
}

func TestCleaner_Clean_DropsNegativeQuantity(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "RETURN", "-3", "2010-12-01 08:26:00", "5.0", "17850", "United Kingdom"),
	})

	cleaned, report, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Empty(t, cleaned)
	assert.Equal(t, 1, report.Dropped[domain.DropNonPositiveQuantity])
}

func TestCleaner_Clean_DropsNonPositivePrice(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "FREEBIE", "3", "2010-12-01 08:26:00", "0", "17850", "United Kingdom"),
		row("536366", "85123A", "BAD ENTRY", "3", "2010-12-01 08:26:00", "-1.5", "17850", "United Kingdom"),
	})

	cleaned, report, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Empty(t, cleaned)
	assert.Equal(t, 2, report.Dropped[domain.DropNonPositivePrice])
}

func TestCleaner_Clean_FlagsAnonymousRows(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "NO CUSTOMER", "2", "2010-12-01 08:26:00", "2.0", "", "United Kingdom"),
		row("536366", "85123A", "WITH CUSTOMER", "2", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
	})

	cleaned, report, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)

	// Anonymous rows are kept, only flagged.
	assert.Len(t, cleaned, 2)
	assert.Equal(t, 1, report.AnonymousRows)
	assert.False(t, cleaned[0].HasCustomer())
	assert.True(t, cleaned[1].HasCustomer())
}

func TestCleaner_Clean_CollectsParseErrors(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "OK", "2", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
		row("536366", "85123A", "BAD DATE", "2", "not-a-date", "2.0", "17850", "United Kingdom"),
		row("536367", "85123A", "BAD QTY", "six", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
	})

	cfg := DefaultCleanerConfig()
	cfg.MaxErrorRate = 0.9
	cleaned, report, err := NewCleaner(nil, cfg).Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Len(t, cleaned, 1)
	assert.Equal(t, 2, report.Dropped[domain.DropParseFailure])
	require.Len(t, report.ParseErrors, 2)
	assert.Equal(t, 3, report.ParseErrors[0].Row)
	assert.Equal(t, domain.ColumnInvoiceDate, report.ParseErrors[0].Column)
	assert.Equal(t, domain.ColumnQuantity, report.ParseErrors[1].Column)
}

func TestCleaner_Clean_DataQualityThreshold(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "OK", "2", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
		row("536366", "85123A", "BAD", "2", "garbage", "2.0", "17850", "United Kingdom"),
	})

	cfg := DefaultCleanerConfig()
	cfg.MaxErrorRate = 0.25 // 1 of 2 rows failing is above this
	_, report, err := NewCleaner(nil, cfg).Clean(context.Background(), table)

	require.Error(t, err)
	assert.True(t, apperrors.IsDataQuality(err))
	// The cause chain names the parse failures behind the breach.
	assert.True(t, apperrors.IsParse(err))
	// The report still travels with the failure.
	require.NotNil(t, report)
	assert.Equal(t, 2, report.RowsRead)
}

func TestCleaner_Clean_EmptyInput(t *testing.T) {
	cleaned, report, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), testTable(nil))
	require.NoError(t, err)

	assert.Empty(t, cleaned)
	assert.Equal(t, 0, report.RowsRead)
	assert.Equal(t, 0, report.RowsKept)
}

func TestCleaner_Clean_NormalizesNumericCustomerID(t *testing.T) {
	table := testTable([][]string{
		row("536365", "85123A", "X", "2", "2010-12-01 08:26:00", "2.0", "17850.0", "United Kingdom"),
	})

	cleaned, _, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "17850", cleaned[0].CustomerID)
}

func TestCleaner_Apply_Idempotent(t *testing.T) {
	ctx := context.Background()
	cleaner := NewCleaner(nil, DefaultCleanerConfig())

	table := testTable([][]string{
		row("536365", "85123A", "KEEP", "6", "2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"),
		row("C002", "85123A", "DROP", "6", "2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"),
		row("536366", "85123A", "DROP", "-1", "2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"),
	})

	cleaned, _, err := cleaner.Clean(ctx, table)
	require.NoError(t, err)

	again, report := cleaner.Apply(ctx, cleaned)
	assert.Equal(t, cleaned, again)
	assert.Equal(t, 0, report.RowsDropped())
}

func TestCleaner_Clean_CustomCancellationMarker(t *testing.T) {
	cfg := DefaultCleanerConfig()
	cfg.CancellationMarker = "X"

	table := testTable([][]string{
		row("X100", "85123A", "CANCELLED", "2", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
		row("C100", "85123A", "KEPT", "2", "2010-12-01 08:26:00", "2.0", "17850", "United Kingdom"),
	})

	cleaned, report, err := NewCleaner(nil, cfg).Clean(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, cleaned, 1)
	assert.Equal(t, "C100", cleaned[0].Invoice)
	assert.Equal(t, 1, report.Dropped[domain.DropCancelledInvoice])
}

func TestCleaner_Clean_InvariantHolds(t *testing.T) {
	// Every retained record has quantity > 0 and price > 0.
	table := testTable([][]string{
		row("536365", "A", "", "6", "2010-12-01 08:26:00", "2.55", "1", "UK"),
		row("536366", "B", "", "0", "2010-12-01 08:26:00", "2.55", "1", "UK"),
		row("536367", "C", "", "-2", "2010-12-01 08:26:00", "2.55", "1", "UK"),
		row("536368", "D", "", "3", "2010-12-01 08:26:00", "0", "1", "UK"),
		row("C536369", "E", "", "3", "2010-12-01 08:26:00", "2.55", "1", "UK"),
	})

	cleaned, _, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(context.Background(), table)
	require.NoError(t, err)

	for _, tx := range cleaned {
		assert.Greater(t, tx.Quantity, int64(0))
		assert.Greater(t, tx.Price, 0.0)
		assert.InDelta(t, float64(tx.Quantity)*tx.Price, tx.Revenue, 1e-9)
	}
}
