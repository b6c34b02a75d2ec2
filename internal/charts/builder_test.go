package charts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailcli/pkg/contracts/domain"
)

func TestMonthlyRevenueTrend(t *testing.T) {
	buckets := []domain.TimeBucketSummary{
		{Bucket: "2010-11", Revenue: 100.456, Transactions: 10},
		{Bucket: "2010-12", Revenue: 250.0, Transactions: 20},
	}

	cfg := MonthlyRevenueTrend(buckets)
	require.NotNil(t, cfg)

	assert.Equal(t, "line", cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Data, 2)
	assert.Equal(t, "2010-11", cfg.Series[0].Data[0].Label)
	assert.Equal(t, 100.46, cfg.Series[0].Data[0].Value)
}

func TestMonthlyRevenueTrend_Empty(t *testing.T) {
	assert.Nil(t, MonthlyRevenueTrend(nil))
}

func TestWeekdayRevenue(t *testing.T) {
	buckets := []domain.TimeBucketSummary{
		{Bucket: "Monday", Revenue: 10},
		{Bucket: "Tuesday", Revenue: 20},
	}

	cfg := WeekdayRevenue(buckets)
	require.NotNil(t, cfg)
	assert.Equal(t, "bar", cfg.ChartType)
	assert.Equal(t, "Day of Week", cfg.XAxis)
}

func TestHourlyTransactions(t *testing.T) {
	buckets := []domain.TimeBucketSummary{
		{Bucket: "08", Revenue: 10, Transactions: 3},
		{Bucket: "14", Revenue: 20, Transactions: 7},
	}

	cfg := HourlyTransactions(buckets)
	require.NotNil(t, cfg)
	assert.Equal(t, 3.0, cfg.Series[0].Data[0].Value)
	assert.Equal(t, 7.0, cfg.Series[0].Data[1].Value)
}

func TestHourWeekdayHeatmap(t *testing.T) {
	cells := []domain.HeatmapCell{
		{Weekday: time.Monday, Hour: 9, Revenue: 10},
		{Weekday: time.Wednesday, Hour: 9, Revenue: 20},
		{Weekday: time.Monday, Hour: 15, Revenue: 30},
	}

	cfg := HourWeekdayHeatmap(cells)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"09", "15"}, cfg.Columns)
	require.Len(t, cfg.Rows, 7)
	assert.Equal(t, "Monday", cfg.Rows[0])
	assert.Equal(t, "Sunday", cfg.Rows[6])

	// Row 0 is Monday, row 2 is Wednesday.
	assert.Equal(t, 10.0, cfg.Values[0][0])
	assert.Equal(t, 30.0, cfg.Values[0][1])
	assert.Equal(t, 20.0, cfg.Values[2][0])
	// Untouched cell stays zero.
	assert.Equal(t, 0.0, cfg.Values[2][1])
}

func TestHourWeekdayHeatmap_Empty(t *testing.T) {
	assert.Nil(t, HourWeekdayHeatmap(nil))
}

func TestRFMScatter(t *testing.T) {
	scores := []domain.RFMScore{
		{CustomerID: "123", RecencyDays: 5, Frequency: 3, Monetary: 35.0, Segment: "loyal"},
	}

	cfg := RFMScatter(scores)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Points, 1)

	p := cfg.Points[0]
	assert.Equal(t, "123", p.Label)
	assert.Equal(t, 5.0, p.X)
	assert.InDelta(t, math.Log1p(3), p.Y, 0.01)
	assert.InDelta(t, math.Log1p(35.0), p.Z, 0.01)
	assert.Equal(t, "loyal", p.Group)
}

func TestTopProducts(t *testing.T) {
	products := []domain.ProductSummary{
		{StockCode: "A1", Description: "WIDGET", Revenue: 50.0},
		{StockCode: "B2", Description: "", Revenue: 20.0},
	}

	cfg := TopProducts(products)
	require.NotNil(t, cfg)
	assert.Equal(t, "horizontalBar", cfg.ChartType)
	assert.Equal(t, "WIDGET", cfg.Series[0].Data[0].Label)
	// Missing description falls back to stock code.
	assert.Equal(t, "B2", cfg.Series[0].Data[1].Label)
}

func TestCountryRevenue(t *testing.T) {
	countries := []domain.CountrySummary{
		{Country: "France", Revenue: 10.006},
	}

	cfg := CountryRevenue(countries)
	require.NotNil(t, cfg)
	assert.Equal(t, "France", cfg.Series[0].Data[0].Label)
	assert.Equal(t, 10.01, cfg.Series[0].Data[0].Value)
}

func TestCountryOrders(t *testing.T) {
	countries := []domain.CountrySummary{
		{Country: "Spain", Revenue: 99.0, Orders: 4, Transactions: 9},
	}

	cfg := CountryOrders(countries)
	require.NotNil(t, cfg)
	assert.Equal(t, "Orders by Country", cfg.Title)
	assert.Equal(t, 4.0, cfg.Series[0].Data[0].Value)
}

func TestHourlyBasketValue(t *testing.T) {
	buckets := []domain.TimeBucketSummary{
		{Bucket: "08", Revenue: 35.456, Transactions: 2},
	}

	cfg := HourlyBasketValue(buckets)
	require.NotNil(t, cfg)
	assert.Equal(t, "line", cfg.ChartType)
	assert.Equal(t, 35.46, cfg.Series[0].Data[0].Value)
}

func TestBasketSizeHistogram(t *testing.T) {
	baskets := []domain.BasketSummary{
		{Invoice: "I1", Units: 1},
		{Invoice: "I2", Units: 2},
		{Invoice: "I3", Units: 3},
		{Invoice: "I4", Units: 500},
	}

	cfg := BasketSizeHistogram(baskets)
	require.NotNil(t, cfg)

	labels := make(map[string]float64)
	for _, p := range cfg.Series[0].Data {
		labels[p.Label] = p.Value
	}
	assert.Equal(t, 1.0, labels["≤1"])
	assert.Equal(t, 1.0, labels["2-2"])
	assert.Equal(t, 1.0, labels["3-4"])
	assert.Equal(t, 1.0, labels[">256"])
}

func TestBucketIndex(t *testing.T) {
	edges := []int64{1, 2, 4}

	tests := []struct {
		units int64
		want  int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketIndex(edges, tt.units), "units %d", tt.units)
	}
}

func TestAssignColors_CyclesPalette(t *testing.T) {
	colors := assignColors(len(defaultColors) + 2)
	assert.Equal(t, colors[0], colors[len(defaultColors)])
	assert.Equal(t, colors[1], colors[len(defaultColors)+1])
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 1.23, roundTo2(1.2345))
	assert.Equal(t, 1.24, roundTo2(1.236))
}
