// Package dataprocessing loads raw retail transaction tables and cleans
// them into the record set consumed by analytics and export.
//
// The Loader reads xlsx or csv sources and verifies the schema before any
// row is processed; the Cleaner parses rows, applies the validation filters
// (positive quantity and price, no cancelled invoices), derives line
// revenue, and produces a CleaningReport with per-reason drop counts.
package dataprocessing
