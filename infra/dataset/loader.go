package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/enginetwin/enginetwin/core/degradation"
)

// ErrNotFound is returned when the dataset path does not exist.
var ErrNotFound = errors.New("dataset file not found")

// Load reads a sensor dataset from disk. Dispatch is by file extension only:
// .xlsx/.xls are spreadsheets, .txt is whitespace-delimited, anything else is
// comma-delimited. Files carry no header row.
func Load(path string) (degradation.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return degradation.Dataset{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return degradation.Dataset{}, fmt.Errorf("stat dataset: %w", err)
	}

	var (
		rows [][]float64
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		rows, err = readSpreadsheet(path)
	case ".txt":
		rows, err = readDelimited(path, splitWhitespace)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return degradation.Dataset{}, err
	}
	ds, err := degradation.NewDataset(rows)
	if err != nil {
		return degradation.Dataset{}, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Summarize loads the dataset at path and computes its degradation summary.
// Failures are captured in the Result instead of being returned, so the
// summary endpoint always has a well-formed payload to serve.
func Summarize(path string) degradation.Result {
	ds, err := Load(path)
	if err != nil {
		return degradation.Fail(fmt.Sprintf("Failed to load dataset: %v", err))
	}
	sum, err := degradation.Analyze(ds, degradation.Options{})
	if err != nil {
		return degradation.Fail(fmt.Sprintf("Failed to compute metrics: %v", err))
	}
	return degradation.Succeed(sum)
}

func readSpreadsheet(path string) ([][]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	// excelize trims trailing empty cells, so pad to the widest row; blank
	// cells become NaN (missing sensor reading), matching CSV semantics.
	width := 0
	for _, r := range raw {
		if len(r) > width {
			width = len(r)
		}
	}
	rows := make([][]float64, 0, len(raw))
	for i, r := range raw {
		row := make([]float64, width)
		for c := 0; c < width; c++ {
			cell := ""
			if c < len(r) {
				cell = strings.TrimSpace(r[c])
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, c, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rectangularity is validated after parsing
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	rows := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for c, cell := range rec {
			v, err := parseCell(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, c, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readDelimited(path string, split func(string) []string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := split(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for c, cell := range fields {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d col %d: %w", line, c, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return rows, nil
}

func splitWhitespace(s string) []string {
	return strings.Fields(s)
}

// parseCell turns one cell into a float64. Blank cells and NA markers read
// as NaN so the analyzer can skip them.
func parseCell(cell string) (float64, error) {
	if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", cell, err)
	}
	return v, nil
}
