// Package exporter writes pipeline outputs to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Writes the cleaned transaction set and the aggregate
// summary tables (customer, country, product, time-bucket, RFM, basket)
// as CSV files.
//
// JSON writers: cleaning reports, dataset statistics, and chart
// specifications, each wrapped with generation metadata.
package exporter
