package exporter

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailcli/pkg/contracts/domain"
)

func decodeJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestJSONWriter_WriteCleaningReport(t *testing.T) {
	paths := testPaths(t)
	writer := NewJSONWriter(paths)

	report := &domain.CleaningReport{
		RunID:     "run-1",
		Source:    "input.csv",
		RowsRead:  100,
		RowsKept:  90,
		Dropped:   map[domain.DropReason]int{domain.DropCancelledInvoice: 10},
		StartedAt: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, writer.WriteCleaningReport("cleaning_report.json", report))

	out := decodeJSON(t, paths.GetReportPath("cleaning_report.json"))

	meta := out["metadata"].(map[string]interface{})
	assert.Equal(t, "run-1", meta["run_id"])
	assert.Equal(t, "input.csv", meta["source"])
	assert.NotEmpty(t, meta["generated_at"])

	rep := out["report"].(map[string]interface{})
	assert.Equal(t, float64(100), rep["rows_read"])
	assert.Equal(t, float64(90), rep["rows_kept"])
}

func TestJSONWriter_WriteStats(t *testing.T) {
	paths := testPaths(t)
	writer := NewJSONWriter(paths)

	stats := domain.DatasetStats{Transactions: 42, TotalRevenue: 99.5}

	require.NoError(t, writer.WriteStats("stats.json", stats))

	out := decodeJSON(t, paths.GetReportPath("stats.json"))
	meta := out["metadata"].(map[string]interface{})
	assert.Equal(t, float64(42), meta["transactions"])
}

func TestJSONWriter_WriteChart(t *testing.T) {
	paths := testPaths(t)
	writer := NewJSONWriter(paths)

	chart := map[string]string{"chartType": "line", "title": "Monthly Revenue"}

	require.NoError(t, writer.WriteChart("charts/monthly.json", chart))

	out := decodeJSON(t, paths.GetChartPath("monthly.json"))
	c := out["chart"].(map[string]interface{})
	assert.Equal(t, "line", c["chartType"])
}
