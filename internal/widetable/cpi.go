package widetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// CPI table columns.
const (
	CPIYearColumn  = "Year"
	CPIValueColumn = "Value"
)

// LoadCPI reads a monthly CPI table and returns one arithmetic mean per
// year, restricted to years. CPI has no lower possible bound; the upper
// possible bound is asOf.
func LoadCPI(path string, years models.YearRange, asOf int) (models.YearSeries, error) {
	if err := years.Validate(models.YearBounds{}, asOf); err != nil {
		return models.YearSeries{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return models.YearSeries{}, err
	}
	defer file.Close()

	s, err := parseCPI(file, years)
	if err != nil {
		return models.YearSeries{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Loaded CPI %s: %d yearly means", path, s.Len())
	return s, nil
}

func parseCPI(r io.Reader, years models.YearRange) (models.YearSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.YearSeries{}, err
	}
	yearIdx, valueIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case CPIYearColumn:
			yearIdx = i
		case CPIValueColumn:
			valueIdx = i
		}
	}
	if yearIdx < 0 || valueIdx < 0 {
		return models.YearSeries{}, fmt.Errorf("%w: need %q and %q", models.ErrMissingColumn, CPIYearColumn, CPIValueColumn)
	}

	type acc struct {
		sum float64
		n   int
	}
	byYear := make(map[int]*acc)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.YearSeries{}, err
		}
		year, err := strconv.Atoi(field(record, yearIdx))
		if err != nil {
			return models.YearSeries{}, fmt.Errorf("invalid year %q", field(record, yearIdx))
		}
		v, err := parseCell(field(record, valueIdx))
		if err != nil {
			return models.YearSeries{}, fmt.Errorf("year %d: %w", year, err)
		}
		a := byYear[year]
		if a == nil {
			a = &acc{}
			byYear[year] = a
		}
		if v.Valid {
			a.sum += v.Amount
			a.n++
		}
	}

	out := models.YearSeries{Name: "CPI"}
	for year := range byYear {
		if years.Contains(year) {
			out.Years = append(out.Years, year)
		}
	}
	sort.Ints(out.Years)
	out.Values = make([]models.Value, len(out.Years))
	for i, year := range out.Years {
		if a := byYear[year]; a.n > 0 {
			out.Values[i] = models.Some(a.sum / float64(a.n))
		}
	}
	return out, nil
}
