package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

// RawTable is an unparsed tabular source: a verified header plus data rows.
type RawTable struct {
	Source  string
	Columns map[string]int
	Rows    [][]string

	// HasDescription / HasCustomerID record which optional columns the
	// source carries.
	HasDescription bool
	HasCustomerID  bool
}

// Loader reads a transaction table from an xlsx or csv file.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the file at path and verifies its schema. The whole load fails
// with a schema error if any required column is absent; no row is processed
// in that case. Rows themselves are parsed later by the Cleaner.
func (l *Loader) Load(path string) (*RawTable, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = l.readExcel(path)
	case ".csv":
		rows, err = l.readCSV(path)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported input format: %s", filepath.Ext(path)))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		// Empty file: no header at all means no schema to satisfy.
		return nil, errors.NewSchemaError("input contains no header row", nil).
			WithContext("source", path)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	table := &RawTable{
		Source:  path,
		Columns: columns,
		Rows:    rows[1:],
	}
	_, table.HasDescription = columns[domain.ColumnDescription]
	_, table.HasCustomerID = columns[domain.ColumnCustomerID]

	l.logger.Info("loaded raw table",
		slog.String("source", path),
		slog.Int("rows", len(table.Rows)),
		slog.Bool("has_customer_id", table.HasCustomerID))

	return table, nil
}

// readExcel extracts rows from the first sheet whose header satisfies the
// required schema. Spreadsheets sometimes carry extra sheets (notes,
// pivots); those are skipped.
func (l *Loader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open xlsx file", err).
			WithContext("source", path)
	}
	defer f.Close()

	var firstErr error
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := mapColumns(rows[0]); err == nil {
			l.logger.Debug("found transaction sheet", slog.String("sheet", name))
			return rows, nil
		}
	}

	// No sheet matched; fall back to the active sheet so the schema error
	// reports which columns were actually missing.
	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		if firstErr != nil {
			err = firstErr
		}
		return nil, errors.NewStorageError("failed to read xlsx rows", err).
			WithContext("source", path)
	}
	return rows, nil
}

// readCSV extracts all rows from a csv file.
func (l *Loader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open csv file", err).
			WithContext("source", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewStorageError("failed to read csv rows", err).
			WithContext("source", path)
	}
	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// mapColumns maps column names to positions. Names match exactly and
// case-sensitively. Every required column must be present.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range domain.RequiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("required columns absent: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing_columns", missing)
	}

	return columns, nil
}
