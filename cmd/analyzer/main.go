package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"retailcli/internal/analytics"
	"retailcli/internal/charts"
	"retailcli/internal/config"
	"retailcli/internal/dataprocessing"
	"retailcli/internal/exporter"
	"retailcli/internal/infrastructure"
	"retailcli/internal/validation"
	"retailcli/pkg/contracts"
	"retailcli/pkg/contracts/domain"
)

func main() {
	inFile := flag.String("in", "", "cleaned transaction file (.csv or .xlsx)")
	referenceDate := flag.String("reference", "", "reference date for RFM recency (YYYY-MM-DD, defaults to the latest invoice)")
	withCharts := flag.Bool("charts", true, "write chart specification JSON files")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -in <file> [-reference YYYY-MM-DD] [-charts=false]")
		os.Exit(2)
	}

	// Local .env overrides are optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var reference time.Time
	if *referenceDate != "" {
		reference, err = time.Parse("2006-01-02", *referenceDate)
		if err != nil {
			slog.Error("Invalid reference date", "error", err)
			os.Exit(2)
		}
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("analyzer.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultTimeout)
	defer cancel()
	ctx = infrastructure.WithRunID(ctx, infrastructure.NewRunID())

	logger.InfoContext(ctx, "Starting transaction analysis",
		slog.String("version", contracts.GetVersionString()),
		slog.String("input_file", *inFile),
		slog.Bool("include_anonymous", cfg.Pipeline.IncludeAnonymous))

	if err := validation.NewFileValidator(logger).ValidateInputFile(*inFile); err != nil {
		logger.ErrorContext(ctx, "Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loader := dataprocessing.NewLoader(logger)
	table, err := loader.Load(*inFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.CleanerConfig{
		CancellationMarker: cfg.Pipeline.CancellationMarker,
		MaxErrorRate:       cfg.Pipeline.MaxErrorRate,
		DateFormats:        cfg.Pipeline.DateFormats,
	})
	records, report, err := cleaner.Clean(ctx, table)
	if err != nil {
		logger.ErrorContext(ctx, "Input failed cleaning", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if report.RowsDropped() > 0 {
		logger.WarnContext(ctx, "Input was not fully clean",
			slog.Int("rows_dropped", report.RowsDropped()))
	}

	if err := runAnalysis(ctx, logger, cfg, paths, records, reference, *withCharts); err != nil {
		logger.ErrorContext(ctx, "Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Analysis complete", slog.Int("transactions", len(records)))
}

func runAnalysis(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths, records []domain.Transaction, reference time.Time, withCharts bool) error {
	agg := analytics.NewAggregator(logger, cfg.Pipeline.IncludeAnonymous)
	tables := exporter.NewTableExporter(paths)
	jsonWriter := exporter.NewJSONWriter(paths)

	group := func(spec domain.GroupSpec) (*analytics.GroupResult, error) {
		spec.IncludeAnonymous = cfg.Pipeline.IncludeAnonymous
		return agg.Aggregate(ctx, records, spec)
	}

	customerResult, err := group(domain.GroupSpec{Kind: domain.GroupByCustomer})
	if err != nil {
		return err
	}
	customers := customerResult.Customers
	if err := tables.ExportCustomerSummary("customer_summary.csv", customers); err != nil {
		return err
	}

	countryResult, err := group(domain.GroupSpec{Kind: domain.GroupByCountry})
	if err != nil {
		return err
	}
	countries := countryResult.Countries
	if err := tables.ExportCountrySummary("country_summary.csv", countries); err != nil {
		return err
	}

	productResult, err := group(domain.GroupSpec{Kind: domain.GroupByProduct})
	if err != nil {
		return err
	}
	if err := tables.ExportProductSummary("product_summary.csv", productResult.Products); err != nil {
		return err
	}

	timeTables := map[string]domain.TimeGranularity{
		"revenue_by_month.csv":   domain.GranularityMonth,
		"revenue_by_weekday.csv": domain.GranularityWeekday,
		"revenue_by_hour.csv":    domain.GranularityHour,
	}
	buckets := make(map[domain.TimeGranularity][]domain.TimeBucketSummary, len(timeTables))
	for filename, granularity := range timeTables {
		result, err := group(domain.GroupSpec{Kind: domain.GroupByTime, Granularity: granularity})
		if err != nil {
			return err
		}
		buckets[granularity] = result.Buckets
		if err := tables.ExportTimeBuckets(filename, result.Buckets); err != nil {
			return err
		}
	}

	rfmResult, err := group(domain.GroupSpec{Kind: domain.GroupByRFM, ReferenceDate: reference})
	if err != nil {
		return err
	}
	scores := rfmResult.Scores
	if err := tables.ExportRFMScores("rfm_scores.csv", scores); err != nil {
		return err
	}

	baskets := agg.Baskets(ctx, records)
	if err := tables.ExportBaskets("basket_summary.csv", baskets); err != nil {
		return err
	}

	topN := cfg.Pipeline.TopN
	topProducts := agg.TopProductsByRevenue(ctx, records, topN)
	if err := tables.ExportProductSummary("top_products_by_revenue.csv", topProducts); err != nil {
		return err
	}
	if err := tables.ExportProductSummary("top_products_by_quantity.csv", agg.TopProductsByQuantity(ctx, records, topN)); err != nil {
		return err
	}
	if err := tables.ExportCountrySummary("top_countries.csv", agg.TopCountriesByTransactions(ctx, records, topN)); err != nil {
		return err
	}

	basketByHour := agg.AvgBasketValueByHour(ctx, records)
	if err := tables.ExportTimeBuckets("basket_value_by_hour.csv", basketByHour); err != nil {
		return err
	}

	stats := agg.Stats(ctx, records)
	if err := jsonWriter.WriteStats("dataset_stats.json", stats); err != nil {
		return err
	}

	if !withCharts {
		return nil
	}

	heatmap := agg.HourWeekdayHeatmap(ctx, records)

	chartSpecs := map[string]interface{}{
		"monthly_revenue.json":   charts.MonthlyRevenueTrend(buckets[domain.GranularityMonth]),
		"weekday_revenue.json":   charts.WeekdayRevenue(buckets[domain.GranularityWeekday]),
		"hourly_activity.json":   charts.HourlyTransactions(buckets[domain.GranularityHour]),
		"hour_weekday.json":      charts.HourWeekdayHeatmap(heatmap),
		"rfm_segments.json":      charts.RFMScatter(scores),
		"top_products.json":      charts.TopProducts(topProducts),
		"country_revenue.json":   charts.CountryRevenue(countries),
		"country_orders.json":    charts.CountryOrders(countries),
		"basket_histogram.json":  charts.BasketSizeHistogram(baskets),
		"basket_value_hour.json": charts.HourlyBasketValue(basketByHour),
	}
	for filename, spec := range chartSpecs {
		if isNilChart(spec) {
			continue
		}
		if err := jsonWriter.WriteChart("charts/"+filename, spec); err != nil {
			return err
		}
	}

	return nil
}

// isNilChart reports whether a chart builder returned no chart. Builders
// return typed nil pointers on empty input, which a plain nil check on the
// interface value misses.
func isNilChart(spec interface{}) bool {
	switch v := spec.(type) {
	case *charts.ChartConfig:
		return v == nil
	case *charts.HeatmapConfig:
		return v == nil
	case *charts.ScatterConfig:
		return v == nil
	}
	return spec == nil
}
