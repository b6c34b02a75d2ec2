package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"retailcli/internal/config"
	"retailcli/pkg/contracts/domain"
)

// JSONWriter writes structured pipeline outputs as pretty-printed JSON,
// each wrapped with generation metadata.
type JSONWriter struct {
	paths *config.Paths
}

// NewJSONWriter creates a new JSON writer instance
func NewJSONWriter(paths *config.Paths) *JSONWriter {
	return &JSONWriter{paths: paths}
}

// WriteCleaningReport saves a cleaning report to a JSON file
func (w *JSONWriter) WriteCleaningReport(filePath string, report *domain.CleaningReport) error {
	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at": time.Now().Format(time.RFC3339),
			"run_id":       report.RunID,
			"source":       report.Source,
		},
		"report": report,
	}
	return w.writeJSON(filePath, output)
}

// WriteStats saves dataset statistics to a JSON file
func (w *JSONWriter) WriteStats(filePath string, stats domain.DatasetStats) error {
	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at": time.Now().Format(time.RFC3339),
			"transactions": stats.Transactions,
		},
		"stats": stats,
	}
	return w.writeJSON(filePath, output)
}

// WriteChart saves a chart specification to a JSON file. Any of the chart
// config shapes is accepted; they all serialize as-is.
func (w *JSONWriter) WriteChart(filePath string, chart interface{}) error {
	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at": time.Now().Format(time.RFC3339),
		},
		"chart": chart,
	}
	return w.writeJSON(filePath, output)
}

func (w *JSONWriter) writeJSON(filePath string, output interface{}) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}

func (w *JSONWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	if dir, name := filepath.Split(filePath); dir == "charts/" {
		return w.paths.GetChartPath(name)
	}
	return w.paths.GetReportPath(filePath)
}
