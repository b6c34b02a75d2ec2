package domain

import (
	"time"
)

// GroupKind selects which aggregation the analyzer produces.
type GroupKind string

const (
	GroupByCustomer GroupKind = "customer"
	GroupByCountry  GroupKind = "country"
	GroupByProduct  GroupKind = "product"
	GroupByTime     GroupKind = "time"
	GroupByRFM      GroupKind = "rfm"
)

// TimeGranularity selects the time bucket for GroupByTime.
type TimeGranularity string

const (
	GranularityMonth   TimeGranularity = "month"
	GranularityDay     TimeGranularity = "day"
	GranularityHour    TimeGranularity = "hour"
	GranularityWeekday TimeGranularity = "weekday"
)

// GroupSpec describes a single aggregation request over the cleaned set.
type GroupSpec struct {
	Kind        GroupKind       `json:"kind" validate:"required,oneof=customer country product time rfm"`
	Granularity TimeGranularity `json:"granularity,omitempty" validate:"omitempty,oneof=month day hour weekday"`

	// ReferenceDate anchors RFM recency. Zero means "most recent invoice
	// date in the cleaned set".
	ReferenceDate time.Time `json:"reference_date,omitempty"`

	// IncludeAnonymous controls whether rows without a customer identifier
	// participate in country/product/time aggregates. Customer-level tables
	// always exclude them.
	IncludeAnonymous bool `json:"include_anonymous"`
}

// CustomerSummary aggregates all activity of one customer.
type CustomerSummary struct {
	CustomerID   string    `json:"customer_id" csv:"CustomerID"`
	TotalSpend   float64   `json:"total_spend" csv:"TotalSpend"`
	Orders       int       `json:"orders" csv:"Orders"`
	Transactions int       `json:"transactions" csv:"Transactions"`
	LastPurchase time.Time `json:"last_purchase" csv:"LastPurchase"`
}

// CountrySummary aggregates revenue and order activity for one country.
type CountrySummary struct {
	Country      string  `json:"country" csv:"Country"`
	Revenue      float64 `json:"revenue" csv:"Revenue"`
	Orders       int     `json:"orders" csv:"Orders"`
	Transactions int     `json:"transactions" csv:"Transactions"`
}

// ProductSummary aggregates sales of one stock code.
type ProductSummary struct {
	StockCode    string  `json:"stock_code" csv:"StockCode"`
	Description  string  `json:"description,omitempty" csv:"Description"`
	QuantitySold int64   `json:"quantity_sold" csv:"QuantitySold"`
	Revenue      float64 `json:"revenue" csv:"Revenue"`
}

// TimeBucketSummary aggregates revenue within one time bucket. The bucket
// label depends on granularity: "2006-01" months, "2006-01-02" days,
// "00".."23" hours, weekday names.
type TimeBucketSummary struct {
	Bucket       string  `json:"bucket" csv:"Bucket"`
	Revenue      float64 `json:"revenue" csv:"Revenue"`
	Transactions int     `json:"transactions" csv:"Transactions"`
}

// RFMScore holds recency/frequency/monetary metrics for one customer plus
// quintile band scores (1 worst .. 5 best). Clustering beyond band scoring
// is delegated to external numeric routines.
type RFMScore struct {
	CustomerID  string  `json:"customer_id" csv:"CustomerID"`
	RecencyDays int     `json:"recency_days" csv:"RecencyDays"`
	Frequency   int     `json:"frequency" csv:"Frequency"`
	Monetary    float64 `json:"monetary" csv:"Monetary"`

	RecencyScore   int    `json:"recency_score" csv:"RecencyScore"`
	FrequencyScore int    `json:"frequency_score" csv:"FrequencyScore"`
	MonetaryScore  int    `json:"monetary_score" csv:"MonetaryScore"`
	Segment        string `json:"segment" csv:"Segment"`
}

// HeatmapCell is one hour×weekday revenue cell.
type HeatmapCell struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Revenue float64      `json:"revenue"`
}

// BasketSummary aggregates per-invoice basket metrics.
type BasketSummary struct {
	Invoice string  `json:"invoice" csv:"Invoice"`
	Units   int64   `json:"units" csv:"Units"`
	Value   float64 `json:"value" csv:"Value"`
}

// DatasetStats captures the descriptive statistics of a cleaned set.
type DatasetStats struct {
	Transactions    int       `json:"transactions"`
	UniqueCustomers int       `json:"unique_customers"`
	UniqueProducts  int       `json:"unique_products"`
	UniqueInvoices  int       `json:"unique_invoices"`
	FirstInvoice    time.Time `json:"first_invoice"`
	LastInvoice     time.Time `json:"last_invoice"`
	TotalRevenue    float64   `json:"total_revenue"`
	MeanRevenue     float64   `json:"mean_revenue"`
	MedianRevenue   float64   `json:"median_revenue"`
}
