// Package widetable loads World Bank style "year-as-column" tables and
// narrows them by entity code and year bounds.
//
// A table keeps its two identity columns (entity name and code) on the left
// and its integer year columns, ascending, on the right. Filtering always
// returns a new Table; a Table handed out by this package is never modified.
package widetable

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rewired-gh/eventwindow/internal/models"
)

// Identity column headers of a World Bank export.
const (
	NameColumn = "Country Name"
	CodeColumn = "Country Code"
)

// Row is one entity of a wide table. Values is parallel to Table.Years.
type Row struct {
	Name   string
	Code   string
	Values []models.Value
}

// Table is a normalized wide table.
type Table struct {
	Years []int
	Rows  []Row
}

// Filter narrows a table. Zero fields leave that dimension untouched.
type Filter struct {
	Years     models.YearRange
	Countries []string
	// Report, when set, receives requested codes that matched no row.
	Report *models.DropReport
}

var upper = cases.Upper(language.Und)

// Columns returns the header of the table: identity columns, then years.
func (t *Table) Columns() []string {
	cols := make([]string, 0, 2+len(t.Years))
	cols = append(cols, NameColumn, CodeColumn)
	for _, y := range t.Years {
		cols = append(cols, strconv.Itoa(y))
	}
	return cols
}

// YearIndex returns the column position of year among the year columns.
func (t *Table) YearIndex(year int) (int, error) {
	for i, y := range t.Years {
		if y == year {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: year %d", models.ErrColumnNotFound, year)
}

// Series returns the row with the given entity code as a year series.
// Codes compare case-insensitively; the series is named by the row's code
// as written in the source.
func (t *Table) Series(code string) (models.YearSeries, bool) {
	code = upper.String(code)
	for _, r := range t.Rows {
		if upper.String(r.Code) == code {
			return models.YearSeries{
				Name:   r.Code,
				Years:  append([]int(nil), t.Years...),
				Values: append([]models.Value(nil), r.Values...),
			}, true
		}
	}
	return models.YearSeries{}, false
}

// Filter returns a new table holding the rows whose code is in f.Countries
// and the year columns inside f.Years. Requested codes absent from the
// table are dropped silently (and recorded in f.Report if set). A year
// bound that is not itself a column fails with models.ErrColumnNotFound.
func (t *Table) Filter(f Filter) (*Table, error) {
	lo, hi := 0, len(t.Years)
	if f.Years.HasMax() {
		pos, err := t.YearIndex(f.Years.Max)
		if err != nil {
			return nil, err
		}
		hi = pos + 1
	}
	if f.Years.HasMin() {
		pos, err := t.YearIndex(f.Years.Min)
		if err != nil {
			return nil, err
		}
		if pos >= hi {
			return nil, fmt.Errorf("%w: year %d after maximum %d", models.ErrColumnNotFound, f.Years.Min, f.Years.Max)
		}
		lo = pos
	}

	keep := func(Row) bool { return true }
	if len(f.Countries) > 0 {
		wanted := make(map[string]bool, len(f.Countries))
		for _, c := range f.Countries {
			wanted[upper.String(c)] = false
		}
		for _, r := range t.Rows {
			code := upper.String(r.Code)
			if _, ok := wanted[code]; ok {
				wanted[code] = true
			}
		}
		for _, c := range f.Countries {
			code := upper.String(c)
			if !wanted[code] {
				f.Report.Add(models.DropUnmatchedCode, code, "no row with country code %s", code)
			}
		}
		keep = func(r Row) bool { return wanted[upper.String(r.Code)] }
	}

	out := &Table{Years: append([]int(nil), t.Years[lo:hi]...)}
	for _, r := range t.Rows {
		if !keep(r) {
			continue
		}
		out.Rows = append(out.Rows, Row{
			Name:   r.Name,
			Code:   r.Code,
			Values: append([]models.Value(nil), r.Values[lo:hi]...),
		})
	}
	return out, nil
}
