package models

import "strconv"

// Value is a numeric cell that may be missing. The zero Value is missing,
// which keeps "no data" distinct from a real 0.
type Value struct {
	Amount float64
	Valid  bool
}

// Some returns a present value.
func Some(v float64) Value {
	return Value{Amount: v, Valid: true}
}

// String renders the amount, or an empty string when missing.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Amount, 'f', -1, 64)
}

// YearSeries is a year-indexed level series, e.g. one country's GDP row or
// the yearly CPI means. Years are ascending and parallel to Values.
type YearSeries struct {
	Name   string
	Years  []int
	Values []Value
}

// Len returns the number of points.
func (s YearSeries) Len() int {
	return len(s.Years)
}

// FirstYear returns the earliest year, or 0 for an empty series.
func (s YearSeries) FirstYear() int {
	if len(s.Years) == 0 {
		return 0
	}
	return s.Years[0]
}

// LastYear returns the latest year, or 0 for an empty series.
func (s YearSeries) LastYear() int {
	if len(s.Years) == 0 {
		return 0
	}
	return s.Years[len(s.Years)-1]
}

// Slice returns a copy holding only the points with year in [from, to].
func (s YearSeries) Slice(from, to int) YearSeries {
	out := YearSeries{Name: s.Name}
	for i, y := range s.Years {
		if y < from || y > to {
			continue
		}
		out.Years = append(out.Years, y)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}
