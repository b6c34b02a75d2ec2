package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

// Aggregator groups a cleaned record set into summary tables. The cleaned
// set is read-only input; the aggregator never mutates it.
type Aggregator struct {
	logger   *slog.Logger
	validate *validator.Validate

	// includeAnonymous controls whether rows without a customer identifier
	// feed country/product/time aggregates. Customer-level tables always
	// exclude them.
	includeAnonymous bool
}

// NewAggregator creates an aggregator. A nil logger falls back to
// slog.Default.
func NewAggregator(logger *slog.Logger, includeAnonymous bool) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:           logger,
		validate:         validator.New(),
		includeAnonymous: includeAnonymous,
	}
}

// ValidateSpec checks a grouping specification before any table is built.
func (a *Aggregator) ValidateSpec(spec domain.GroupSpec) error {
	if err := a.validate.Struct(spec); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid group spec: %v", err))
	}
	if spec.Kind == domain.GroupByTime && spec.Granularity == "" {
		return errors.NewValidationError("time grouping requires a granularity")
	}
	return nil
}

// GroupResult carries the table built by Aggregate. Only the field matching
// the requested group kind is populated.
type GroupResult struct {
	Customers []domain.CustomerSummary   `json:"customers,omitempty"`
	Countries []domain.CountrySummary    `json:"countries,omitempty"`
	Products  []domain.ProductSummary    `json:"products,omitempty"`
	Buckets   []domain.TimeBucketSummary `json:"buckets,omitempty"`
	Scores    []domain.RFMScore          `json:"scores,omitempty"`
}

// Aggregate validates the grouping specification and routes it to the
// matching table builder. The spec's anonymous-row policy overrides the
// aggregator default, and its reference date anchors RFM recency.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.Transaction, spec domain.GroupSpec) (*GroupResult, error) {
	if err := a.ValidateSpec(spec); err != nil {
		return nil, err
	}

	scoped := a.withPolicy(spec.IncludeAnonymous)
	switch spec.Kind {
	case domain.GroupByCustomer:
		return &GroupResult{Customers: scoped.ByCustomer(ctx, records)}, nil
	case domain.GroupByCountry:
		return &GroupResult{Countries: scoped.ByCountry(ctx, records)}, nil
	case domain.GroupByProduct:
		return &GroupResult{Products: scoped.ByProduct(ctx, records)}, nil
	case domain.GroupByTime:
		buckets, err := scoped.ByTimeBucket(ctx, records, spec.Granularity)
		if err != nil {
			return nil, err
		}
		return &GroupResult{Buckets: buckets}, nil
	case domain.GroupByRFM:
		return &GroupResult{Scores: scoped.RFM(ctx, records, spec.ReferenceDate)}, nil
	}
	return nil, errors.NewValidationError(fmt.Sprintf("unknown group kind: %s", spec.Kind))
}

// withPolicy returns an aggregator with the given anonymous-row policy,
// sharing the logger and validator.
func (a *Aggregator) withPolicy(includeAnonymous bool) *Aggregator {
	if includeAnonymous == a.includeAnonymous {
		return a
	}
	clone := *a
	clone.includeAnonymous = includeAnonymous
	return &clone
}

// scope returns the records participating in non-customer aggregates.
func (a *Aggregator) scope(records []domain.Transaction) []domain.Transaction {
	if a.includeAnonymous {
		return records
	}
	scoped := make([]domain.Transaction, 0, len(records))
	for _, tx := range records {
		if tx.HasCustomer() {
			scoped = append(scoped, tx)
		}
	}
	return scoped
}

// ByCustomer aggregates spend, distinct orders, and last purchase date per
// customer. Anonymous rows never participate. Output is sorted by customer
// identifier.
func (a *Aggregator) ByCustomer(ctx context.Context, records []domain.Transaction) []domain.CustomerSummary {
	type acc struct {
		spend    float64
		invoices map[string]struct{}
		count    int
		last     time.Time
	}
	byCustomer := make(map[string]*acc)

	for _, tx := range records {
		if !tx.HasCustomer() {
			continue
		}
		entry := byCustomer[tx.CustomerID]
		if entry == nil {
			entry = &acc{invoices: make(map[string]struct{})}
			byCustomer[tx.CustomerID] = entry
		}
		entry.spend += tx.Revenue
		entry.invoices[tx.Invoice] = struct{}{}
		entry.count++
		if tx.InvoiceDate.After(entry.last) {
			entry.last = tx.InvoiceDate
		}
	}

	summaries := make([]domain.CustomerSummary, 0, len(byCustomer))
	for id, entry := range byCustomer {
		summaries = append(summaries, domain.CustomerSummary{
			CustomerID:   id,
			TotalSpend:   entry.spend,
			Orders:       len(entry.invoices),
			Transactions: entry.count,
			LastPurchase: entry.last,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CustomerID < summaries[j].CustomerID
	})

	a.logger.InfoContext(ctx, "customer aggregation complete",
		slog.Int("customers", len(summaries)))
	return summaries
}

// ByCountry aggregates revenue and order activity per country, sorted by
// country name.
func (a *Aggregator) ByCountry(ctx context.Context, records []domain.Transaction) []domain.CountrySummary {
	type acc struct {
		revenue  float64
		invoices map[string]struct{}
		count    int
	}
	byCountry := make(map[string]*acc)

	for _, tx := range a.scope(records) {
		entry := byCountry[tx.Country]
		if entry == nil {
			entry = &acc{invoices: make(map[string]struct{})}
			byCountry[tx.Country] = entry
		}
		entry.revenue += tx.Revenue
		entry.invoices[tx.Invoice] = struct{}{}
		entry.count++
	}

	summaries := make([]domain.CountrySummary, 0, len(byCountry))
	for country, entry := range byCountry {
		summaries = append(summaries, domain.CountrySummary{
			Country:      country,
			Revenue:      entry.revenue,
			Orders:       len(entry.invoices),
			Transactions: entry.count,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Country < summaries[j].Country
	})

	a.logger.InfoContext(ctx, "country aggregation complete",
		slog.Int("countries", len(summaries)))
	return summaries
}

// ByProduct aggregates quantity sold and revenue per stock code, sorted by
// stock code. The first non-empty description wins.
func (a *Aggregator) ByProduct(ctx context.Context, records []domain.Transaction) []domain.ProductSummary {
	byProduct := make(map[string]*domain.ProductSummary)

	for _, tx := range a.scope(records) {
		entry := byProduct[tx.StockCode]
		if entry == nil {
			entry = &domain.ProductSummary{StockCode: tx.StockCode}
			byProduct[tx.StockCode] = entry
		}
		if entry.Description == "" {
			entry.Description = tx.Description
		}
		entry.QuantitySold += tx.Quantity
		entry.Revenue += tx.Revenue
	}

	summaries := make([]domain.ProductSummary, 0, len(byProduct))
	for _, entry := range byProduct {
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StockCode < summaries[j].StockCode
	})

	a.logger.InfoContext(ctx, "product aggregation complete",
		slog.Int("products", len(summaries)))
	return summaries
}

// ByTimeBucket aggregates revenue per time bucket at the given granularity.
// Hour buckets are zero-padded ("08"), weekday buckets use English day
// names in Monday-first order.
func (a *Aggregator) ByTimeBucket(ctx context.Context, records []domain.Transaction, granularity domain.TimeGranularity) ([]domain.TimeBucketSummary, error) {
	bucketOf, err := bucketFunc(granularity)
	if err != nil {
		return nil, err
	}

	type acc struct {
		revenue float64
		count   int
	}
	buckets := make(map[string]*acc)

	for _, tx := range a.scope(records) {
		key := bucketOf(tx)
		entry := buckets[key]
		if entry == nil {
			entry = &acc{}
			buckets[key] = entry
		}
		entry.revenue += tx.Revenue
		entry.count++
	}

	summaries := make([]domain.TimeBucketSummary, 0, len(buckets))
	for bucket, entry := range buckets {
		summaries = append(summaries, domain.TimeBucketSummary{
			Bucket:       bucket,
			Revenue:      entry.revenue,
			Transactions: entry.count,
		})
	}

	if granularity == domain.GranularityWeekday {
		sort.Slice(summaries, func(i, j int) bool {
			return weekdayOrder(summaries[i].Bucket) < weekdayOrder(summaries[j].Bucket)
		})
	} else {
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].Bucket < summaries[j].Bucket
		})
	}

	a.logger.InfoContext(ctx, "time aggregation complete",
		slog.String("granularity", string(granularity)),
		slog.Int("buckets", len(summaries)))
	return summaries, nil
}

// HourWeekdayHeatmap builds the hour-of-day × day-of-week revenue matrix.
// Cells are ordered Monday..Sunday then hour, and only non-empty cells are
// returned.
func (a *Aggregator) HourWeekdayHeatmap(ctx context.Context, records []domain.Transaction) []domain.HeatmapCell {
	type key struct {
		weekday time.Weekday
		hour    int
	}
	cells := make(map[key]float64)

	for _, tx := range a.scope(records) {
		cells[key{tx.Weekday(), tx.Hour()}] += tx.Revenue
	}

	out := make([]domain.HeatmapCell, 0, len(cells))
	for k, revenue := range cells {
		out = append(out, domain.HeatmapCell{Weekday: k.weekday, Hour: k.hour, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := weekdayOrder(out[i].Weekday.String()), weekdayOrder(out[j].Weekday.String())
		if wi != wj {
			return wi < wj
		}
		return out[i].Hour < out[j].Hour
	})

	a.logger.InfoContext(ctx, "heatmap aggregation complete", slog.Int("cells", len(out)))
	return out
}

// Baskets aggregates units and value per invoice, sorted by invoice.
func (a *Aggregator) Baskets(ctx context.Context, records []domain.Transaction) []domain.BasketSummary {
	byInvoice := make(map[string]*domain.BasketSummary)

	for _, tx := range a.scope(records) {
		entry := byInvoice[tx.Invoice]
		if entry == nil {
			entry = &domain.BasketSummary{Invoice: tx.Invoice}
			byInvoice[tx.Invoice] = entry
		}
		entry.Units += tx.Quantity
		entry.Value += tx.Revenue
	}

	baskets := make([]domain.BasketSummary, 0, len(byInvoice))
	for _, entry := range byInvoice {
		baskets = append(baskets, *entry)
	}
	sort.Slice(baskets, func(i, j int) bool {
		return baskets[i].Invoice < baskets[j].Invoice
	})
	return baskets
}

// AvgBasketValueByHour averages the basket value per hour of day. A basket
// is pinned to the hour of its first line item; bucket labels match the
// hour granularity ("08"). Revenue carries the average, Transactions the
// basket count.
func (a *Aggregator) AvgBasketValueByHour(ctx context.Context, records []domain.Transaction) []domain.TimeBucketSummary {
	type basket struct {
		hour  int
		value float64
	}
	byInvoice := make(map[string]*basket)

	for _, tx := range a.scope(records) {
		entry := byInvoice[tx.Invoice]
		if entry == nil {
			entry = &basket{hour: tx.Hour()}
			byInvoice[tx.Invoice] = entry
		}
		entry.value += tx.Revenue
	}

	type acc struct {
		total float64
		count int
	}
	byHour := make(map[int]*acc)
	for _, b := range byInvoice {
		entry := byHour[b.hour]
		if entry == nil {
			entry = &acc{}
			byHour[b.hour] = entry
		}
		entry.total += b.value
		entry.count++
	}

	summaries := make([]domain.TimeBucketSummary, 0, len(byHour))
	for hour, entry := range byHour {
		summaries = append(summaries, domain.TimeBucketSummary{
			Bucket:       fmt.Sprintf("%02d", hour),
			Revenue:      entry.total / float64(entry.count),
			Transactions: entry.count,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Bucket < summaries[j].Bucket
	})

	a.logger.InfoContext(ctx, "basket value aggregation complete",
		slog.Int("hours", len(summaries)))
	return summaries
}

// bucketFunc maps a granularity to its bucket label function.
func bucketFunc(granularity domain.TimeGranularity) (func(domain.Transaction) string, error) {
	switch granularity {
	case domain.GranularityMonth:
		return domain.Transaction.Month, nil
	case domain.GranularityDay:
		return domain.Transaction.Day, nil
	case domain.GranularityHour:
		return func(tx domain.Transaction) string {
			return fmt.Sprintf("%02d", tx.Hour())
		}, nil
	case domain.GranularityWeekday:
		return func(tx domain.Transaction) string {
			return tx.Weekday().String()
		}, nil
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown time granularity: %s", granularity))
	}
}

// weekdayOrder sorts weekday names Monday-first, matching how the heatmap
// is read.
func weekdayOrder(name string) int {
	switch name {
	case "Monday":
		return 0
	case "Tuesday":
		return 1
	case "Wednesday":
		return 2
	case "Thursday":
		return 3
	case "Friday":
		return 4
	case "Saturday":
		return 5
	case "Sunday":
		return 6
	}
	return 7
}
