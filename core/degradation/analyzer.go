package degradation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Column layout of a CMAPSS-style dataset: unit id, cycle, then sensors.
const (
	UnitColumn  = 0
	CycleColumn = 1
	// MinMetaColumns is the number of leading non-sensor columns.
	MinMetaColumns = 2
)

// ErrEmptyDataset is returned when the dataset holds no rows.
var ErrEmptyDataset = errors.New("degradation: dataset has no rows")

// Dataset is a rectangular numeric matrix of sensor rows. Loaders validate
// rectangularity before handing it to Analyze; missing sensor readings are
// represented as NaN.
type Dataset struct {
	rows [][]float64
	cols int
}

// NewDataset validates that all rows share the same column count and carry
// at least the unit and cycle columns.
func NewDataset(rows [][]float64) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, ErrEmptyDataset
	}
	cols := len(rows[0])
	if cols < MinMetaColumns {
		return Dataset{}, fmt.Errorf("degradation: rows need at least %d columns, got %d", MinMetaColumns, cols)
	}
	for i, r := range rows {
		if len(r) != cols {
			return Dataset{}, fmt.Errorf("degradation: row %d has %d columns, want %d", i, len(r), cols)
		}
	}
	return Dataset{rows: rows, cols: cols}, nil
}

// Rows returns the number of rows.
func (d Dataset) Rows() int { return len(d.rows) }

// Columns returns the uniform column count.
func (d Dataset) Columns() int { return d.cols }

// Summary aggregates the degradation metrics of a dataset.
type Summary struct {
	Rows  int `json:"rows"`
	Units int `json:"units"`
	// RUL is the synthetic remaining-useful-life proxy: a unit's max
	// observed cycle minus the row's cycle.
	MeanRUL float64 `json:"mean_rul"`
	MaxRUL  float64 `json:"max_rul"`
	MinRUL  float64 `json:"min_rul"`
	// MeanSlope averages the per-unit, per-sensor OLS trend slopes. It is
	// nil when no (unit, sensor) pair had two valid points to fit.
	MeanSlope *float64 `json:"mean_sensor_degradation_slope"`
	Sensors   int      `json:"num_sensors"`
}

// Options selects the columns Analyze works on. The zero value uses the
// CMAPSS layout with every column after the first two treated as a sensor.
type Options struct {
	UnitColumn  int
	CycleColumn int
	// SensorColumns lists the column indices to fit trends over. Empty
	// means all columns past the meta columns.
	SensorColumns []int
}

// Analyze computes the degradation summary: per-row RUL against the unit's
// last observed cycle, and a linear trend slope per (unit, sensor) pair.
// Pairs with fewer than two non-NaN readings are skipped, not errors.
func Analyze(ds Dataset, opts Options) (Summary, error) {
	if ds.Rows() == 0 {
		return Summary{}, ErrEmptyDataset
	}
	unitCol, cycleCol := opts.UnitColumn, opts.CycleColumn
	if unitCol == 0 && cycleCol == 0 {
		unitCol, cycleCol = UnitColumn, CycleColumn
	}
	if unitCol >= ds.cols || cycleCol >= ds.cols {
		return Summary{}, fmt.Errorf("degradation: unit/cycle column out of range for %d columns", ds.cols)
	}
	sensors := opts.SensorColumns
	if len(sensors) == 0 {
		for c := MinMetaColumns; c < ds.cols; c++ {
			sensors = append(sensors, c)
		}
	}
	for _, c := range sensors {
		if c < 0 || c >= ds.cols {
			return Summary{}, fmt.Errorf("degradation: sensor column %d out of range", c)
		}
	}

	// Group rows per unit, preserving file order within each unit.
	maxCycle := make(map[float64]float64)
	unitRows := make(map[float64][][]float64)
	var units []float64
	for _, r := range ds.rows {
		unit, cycle := r[unitCol], r[cycleCol]
		if _, seen := maxCycle[unit]; !seen {
			units = append(units, unit)
		}
		if cycle > maxCycle[unit] {
			maxCycle[unit] = cycle
		}
		unitRows[unit] = append(unitRows[unit], r)
	}

	ruls := make([]float64, 0, ds.Rows())
	for _, r := range ds.rows {
		ruls = append(ruls, maxCycle[r[unitCol]]-r[cycleCol])
	}

	var slopes []float64
	for _, unit := range units {
		rows := unitRows[unit]
		for _, sc := range sensors {
			var xs, ys []float64
			for _, r := range rows {
				if math.IsNaN(r[sc]) {
					continue
				}
				xs = append(xs, r[cycleCol])
				ys = append(ys, r[sc])
			}
			if len(xs) < 2 {
				continue
			}
			_, slope := stat.LinearRegression(xs, ys, nil, false)
			slopes = append(slopes, slope)
		}
	}

	sum := Summary{
		Rows:    ds.Rows(),
		Units:   len(units),
		MeanRUL: stat.Mean(ruls, nil),
		MaxRUL:  maxFloat(ruls),
		MinRUL:  minFloat(ruls),
		Sensors: len(sensors),
	}
	if len(slopes) > 0 {
		m := stat.Mean(slopes, nil)
		sum.MeanSlope = &m
	}
	return sum, nil
}

func maxFloat(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minFloat(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
