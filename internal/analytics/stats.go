package analytics

import (
	"context"
	"log/slog"
	"sort"

	"retailcli/pkg/contracts/domain"
)

// Stats computes descriptive statistics over the whole cleaned set. Unlike
// the grouped tables, stats always cover every record, anonymous or not.
func (a *Aggregator) Stats(ctx context.Context, records []domain.Transaction) domain.DatasetStats {
	stats := domain.DatasetStats{Transactions: len(records)}
	if len(records) == 0 {
		return stats
	}

	customers := make(map[string]struct{})
	products := make(map[string]struct{})
	invoices := make(map[string]struct{})
	revenues := make([]float64, 0, len(records))

	stats.FirstInvoice = records[0].InvoiceDate
	stats.LastInvoice = records[0].InvoiceDate

	for _, tx := range records {
		if tx.HasCustomer() {
			customers[tx.CustomerID] = struct{}{}
		}
		products[tx.StockCode] = struct{}{}
		invoices[tx.Invoice] = struct{}{}
		revenues = append(revenues, tx.Revenue)
		stats.TotalRevenue += tx.Revenue

		if tx.InvoiceDate.Before(stats.FirstInvoice) {
			stats.FirstInvoice = tx.InvoiceDate
		}
		if tx.InvoiceDate.After(stats.LastInvoice) {
			stats.LastInvoice = tx.InvoiceDate
		}
	}

	stats.UniqueCustomers = len(customers)
	stats.UniqueProducts = len(products)
	stats.UniqueInvoices = len(invoices)
	stats.MeanRevenue = stats.TotalRevenue / float64(len(records))
	stats.MedianRevenue = median(revenues)

	a.logger.InfoContext(ctx, "dataset statistics computed",
		slog.Int("transactions", stats.Transactions),
		slog.Int("unique_customers", stats.UniqueCustomers),
		slog.Float64("total_revenue", stats.TotalRevenue))
	return stats
}

// TopProductsByRevenue returns the n highest-revenue products, best first.
// Ties break on stock code so the ranking is stable.
func (a *Aggregator) TopProductsByRevenue(ctx context.Context, records []domain.Transaction, n int) []domain.ProductSummary {
	products := a.ByProduct(ctx, records)
	sort.Slice(products, func(i, j int) bool {
		if products[i].Revenue != products[j].Revenue {
			return products[i].Revenue > products[j].Revenue
		}
		return products[i].StockCode < products[j].StockCode
	})
	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// TopProductsByQuantity returns the n products with the most units sold,
// best first, ties broken on stock code.
func (a *Aggregator) TopProductsByQuantity(ctx context.Context, records []domain.Transaction, n int) []domain.ProductSummary {
	products := a.ByProduct(ctx, records)
	sort.Slice(products, func(i, j int) bool {
		if products[i].QuantitySold != products[j].QuantitySold {
			return products[i].QuantitySold > products[j].QuantitySold
		}
		return products[i].StockCode < products[j].StockCode
	})
	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// TopCountriesByTransactions returns the n countries with the most
// transactions, busiest first, ties broken on country name.
func (a *Aggregator) TopCountriesByTransactions(ctx context.Context, records []domain.Transaction, n int) []domain.CountrySummary {
	countries := a.ByCountry(ctx, records)
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Transactions != countries[j].Transactions {
			return countries[i].Transactions > countries[j].Transactions
		}
		return countries[i].Country < countries[j].Country
	})
	if n > 0 && len(countries) > n {
		countries = countries[:n]
	}
	return countries
}

// median returns the middle revenue value. The input slice is copied
// before sorting; the cleaned set stays untouched.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
