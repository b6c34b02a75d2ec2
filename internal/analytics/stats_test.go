package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailcli/pkg/contracts/domain"
)

func TestStats(t *testing.T) {
	records := []domain.Transaction{
		tx("I1", "A", "1", "UK", 1, 10.0, dec(1, 9)),
		tx("I1", "B", "1", "UK", 1, 20.0, dec(1, 9)),
		tx("I2", "A", "2", "France", 1, 30.0, dec(5, 9)),
		tx("I3", "C", "", "UK", 1, 40.0, dec(10, 9)),
	}

	stats := NewAggregator(nil, true).Stats(context.Background(), records)

	assert.Equal(t, 4, stats.Transactions)
	assert.Equal(t, 2, stats.UniqueCustomers) // anonymous row not counted
	assert.Equal(t, 3, stats.UniqueProducts)
	assert.Equal(t, 3, stats.UniqueInvoices)
	assert.Equal(t, dec(1, 9), stats.FirstInvoice)
	assert.Equal(t, dec(10, 9), stats.LastInvoice)
	assert.InDelta(t, 100.0, stats.TotalRevenue, 1e-9)
	assert.InDelta(t, 25.0, stats.MeanRevenue, 1e-9)
	assert.InDelta(t, 25.0, stats.MedianRevenue, 1e-9)
}

func TestStats_Empty(t *testing.T) {
	stats := NewAggregator(nil, true).Stats(context.Background(), nil)

	assert.Equal(t, 0, stats.Transactions)
	assert.Zero(t, stats.TotalRevenue)
	assert.True(t, stats.FirstInvoice.IsZero())
	assert.True(t, stats.LastInvoice.IsZero())
}

func TestStats_CoversAnonymousRegardlessOfPolicy(t *testing.T) {
	records := []domain.Transaction{
		tx("I1", "A", "1", "UK", 1, 10.0, dec(1, 9)),
		tx("I2", "B", "", "UK", 1, 90.0, dec(2, 9)),
	}

	stats := NewAggregator(nil, false).Stats(context.Background(), records)
	assert.Equal(t, 2, stats.Transactions)
	assert.InDelta(t, 100.0, stats.TotalRevenue, 1e-9)
}

func TestTopProductsByRevenue(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(nil, true)

	records := []domain.Transaction{
		tx("I1", "A", "1", "UK", 1, 5.0, dec(1, 9)),
		tx("I2", "B", "1", "UK", 1, 50.0, dec(1, 9)),
		tx("I3", "C", "1", "UK", 1, 20.0, dec(1, 9)),
	}

	top := agg.TopProductsByRevenue(ctx, records, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].StockCode)
	assert.Equal(t, "C", top[1].StockCode)

	t.Run("n larger than set", func(t *testing.T) {
		assert.Len(t, agg.TopProductsByRevenue(ctx, records, 10), 3)
	})

	t.Run("zero n returns all", func(t *testing.T) {
		assert.Len(t, agg.TopProductsByRevenue(ctx, records, 0), 3)
	})

	t.Run("revenue ties break on stock code", func(t *testing.T) {
		tied := []domain.Transaction{
			tx("I1", "Z", "1", "UK", 1, 5.0, dec(1, 9)),
			tx("I2", "A", "1", "UK", 1, 5.0, dec(1, 9)),
		}
		top := agg.TopProductsByRevenue(ctx, tied, 2)
		require.Len(t, top, 2)
		assert.Equal(t, "A", top[0].StockCode)
	})
}

func TestTopProductsByQuantity(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(nil, true)

	records := []domain.Transaction{
		tx("I1", "A", "1", "UK", 2, 5.0, dec(1, 9)),
		tx("I2", "B", "1", "UK", 10, 1.0, dec(1, 9)),
		tx("I3", "C", "1", "UK", 5, 20.0, dec(1, 9)),
	}

	top := agg.TopProductsByQuantity(ctx, records, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].StockCode)
	assert.Equal(t, "C", top[1].StockCode)
}

func TestTopCountriesByTransactions(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(nil, true)

	records := []domain.Transaction{
		tx("I1", "A", "1", "France", 1, 1.0, dec(1, 9)),
		tx("I2", "A", "1", "France", 1, 1.0, dec(1, 9)),
		tx("I3", "A", "1", "Spain", 1, 1.0, dec(1, 9)),
	}

	top := agg.TopCountriesByTransactions(ctx, records, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "France", top[0].Country)
	assert.Equal(t, 2, top[0].Transactions)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
