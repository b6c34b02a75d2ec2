// Package charts builds render-agnostic chart specifications from the
// analytics summary tables: series, axis labels, colors, and chart type,
// serialized as JSON for whichever frontend draws them. No rendering
// happens here.
package charts
