package charts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"retailcli/pkg/contracts/domain"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// weekdayNames in Monday-first display order.
var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MonthlyRevenueTrend builds a line chart of revenue per month. Buckets
// arrive already sorted, so the series reads left to right in time order.
func MonthlyRevenueTrend(buckets []domain.TimeBucketSummary) *ChartConfig {
	if len(buckets) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ChartPoint{Label: b.Bucket, Value: roundTo2(b.Revenue)})
	}
	return &ChartConfig{
		ChartType:  "line",
		Title:      "Monthly Revenue",
		XAxis:      "Month",
		YAxis:      "Revenue",
		Series:     []ChartSeries{{Name: "Revenue", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// WeekdayRevenue builds a bar chart of revenue per day of week.
func WeekdayRevenue(buckets []domain.TimeBucketSummary) *ChartConfig {
	if len(buckets) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ChartPoint{Label: b.Bucket, Value: roundTo2(b.Revenue)})
	}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Revenue by Day of Week",
		XAxis:      "Day of Week",
		YAxis:      "Revenue",
		Series:     []ChartSeries{{Name: "Revenue", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// HourlyTransactions builds a bar chart of transaction counts per hour.
func HourlyTransactions(buckets []domain.TimeBucketSummary) *ChartConfig {
	if len(buckets) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ChartPoint{Label: b.Bucket, Value: float64(b.Transactions)})
	}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Transactions by Hour",
		XAxis:      "Hour",
		YAxis:      "Transactions",
		Series:     []ChartSeries{{Name: "Transactions", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// HourWeekdayHeatmap builds the weekday × hour revenue matrix. Rows are
// Monday..Sunday, columns only the hours that appear in the cells. Cells
// absent from the input stay zero.
func HourWeekdayHeatmap(cells []domain.HeatmapCell) *HeatmapConfig {
	if len(cells) == 0 {
		return nil
	}

	hourSet := make(map[int]struct{})
	for _, c := range cells {
		hourSet[c.Hour] = struct{}{}
	}
	hours := make([]int, 0, len(hourSet))
	for h := range hourSet {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	columns := make([]string, len(hours))
	columnIndex := make(map[int]int, len(hours))
	for i, h := range hours {
		columns[i] = fmt.Sprintf("%02d", h)
		columnIndex[h] = i
	}

	rowIndex := make(map[time.Weekday]int, len(weekdayNames))
	values := make([][]float64, len(weekdayNames))
	for i, name := range weekdayNames {
		values[i] = make([]float64, len(hours))
		rowIndex[weekdayFromName(name)] = i
	}

	for _, c := range cells {
		values[rowIndex[c.Weekday]][columnIndex[c.Hour]] = roundTo2(c.Revenue)
	}

	return &HeatmapConfig{
		Title:   "Revenue by Day of Week and Hour",
		XAxis:   "Hour",
		YAxis:   "Day of Week",
		Rows:    weekdayNames,
		Columns: columns,
		Values:  values,
	}
}

// RFMScatter builds a 3D scatter of customer RFM metrics. Frequency and
// monetary axes are log1p-scaled so the long tail stays readable; recency
// is plotted in plain days.
func RFMScatter(scores []domain.RFMScore) *ScatterConfig {
	if len(scores) == 0 {
		return nil
	}
	points := make([]ScatterPoint, 0, len(scores))
	for _, s := range scores {
		points = append(points, ScatterPoint{
			Label: s.CustomerID,
			X:     float64(s.RecencyDays),
			Y:     roundTo2(math.Log1p(float64(s.Frequency))),
			Z:     roundTo2(math.Log1p(s.Monetary)),
			Group: s.Segment,
		})
	}
	return &ScatterConfig{
		Title:  "Customer RFM Segments",
		XAxis:  "Recency (days)",
		YAxis:  "log(1 + Frequency)",
		ZAxis:  "log(1 + Monetary)",
		Points: points,
	}
}

// TopProducts builds a horizontal bar chart of the highest-revenue
// products. Products arrive pre-ranked; labels prefer the description and
// fall back to the stock code.
func TopProducts(products []domain.ProductSummary) *ChartConfig {
	if len(products) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(products))
	for _, p := range products {
		label := p.Description
		if label == "" {
			label = p.StockCode
		}
		points = append(points, ChartPoint{Label: label, Value: roundTo2(p.Revenue)})
	}
	return &ChartConfig{
		ChartType:  "horizontalBar",
		Title:      "Top Products by Revenue",
		XAxis:      "Revenue",
		YAxis:      "Product",
		Series:     []ChartSeries{{Name: "Revenue", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// CountryRevenue builds a bar chart of revenue per country.
func CountryRevenue(countries []domain.CountrySummary) *ChartConfig {
	if len(countries) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(countries))
	for _, c := range countries {
		points = append(points, ChartPoint{Label: c.Country, Value: roundTo2(c.Revenue)})
	}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Revenue by Country",
		XAxis:      "Country",
		YAxis:      "Revenue",
		Series:     []ChartSeries{{Name: "Revenue", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// CountryOrders builds a bar chart of distinct orders per country.
func CountryOrders(countries []domain.CountrySummary) *ChartConfig {
	if len(countries) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(countries))
	for _, c := range countries {
		points = append(points, ChartPoint{Label: c.Country, Value: float64(c.Orders)})
	}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Orders by Country",
		XAxis:      "Country",
		YAxis:      "Orders",
		Series:     []ChartSeries{{Name: "Orders", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// HourlyBasketValue builds a line chart of the average basket value per
// hour of day. Buckets arrive hour-labeled and pre-sorted.
func HourlyBasketValue(buckets []domain.TimeBucketSummary) *ChartConfig {
	if len(buckets) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ChartPoint{Label: b.Bucket, Value: roundTo2(b.Revenue)})
	}
	return &ChartConfig{
		ChartType:  "line",
		Title:      "Average Basket Value by Hour",
		XAxis:      "Hour",
		YAxis:      "Average Basket Value",
		Series:     []ChartSeries{{Name: "Average Basket Value", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// BasketSizeHistogram buckets invoices by line-item units and builds a bar
// chart of the distribution. Bucket edges grow by powers of two.
func BasketSizeHistogram(baskets []domain.BasketSummary) *ChartConfig {
	if len(baskets) == 0 {
		return nil
	}

	edges := []int64{1, 2, 4, 8, 16, 32, 64, 128, 256}
	counts := make([]int, len(edges)+1)
	for _, b := range baskets {
		counts[bucketIndex(edges, b.Units)]++
	}

	points := make([]ChartPoint, 0, len(counts))
	for i, count := range counts {
		if count == 0 {
			continue
		}
		points = append(points, ChartPoint{Label: bucketLabel(edges, i), Value: float64(count)})
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Basket Size Distribution",
		XAxis:      "Units per Basket",
		YAxis:      "Baskets",
		Series:     []ChartSeries{{Name: "Baskets", Data: points}},
		Colors:     assignColors(1),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

func bucketIndex(edges []int64, units int64) int {
	for i, edge := range edges {
		if units <= edge {
			return i
		}
	}
	return len(edges)
}

func bucketLabel(edges []int64, i int) string {
	if i == 0 {
		return fmt.Sprintf("≤%d", edges[0])
	}
	if i == len(edges) {
		return fmt.Sprintf(">%d", edges[len(edges)-1])
	}
	return fmt.Sprintf("%d-%d", edges[i-1]+1, edges[i])
}

func weekdayFromName(name string) time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d
		}
	}
	return time.Sunday
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// roundTo2 rounds to 2 decimal places.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
