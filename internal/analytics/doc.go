// Package analytics derives summary tables from the cleaned transaction
// set: per-customer, per-country, per-product, and time-bucketed revenue
// aggregates, RFM customer scores, basket metrics, and descriptive dataset
// statistics. All outputs are sorted by group key so repeated runs over the
// same input produce identical tables.
package analytics
