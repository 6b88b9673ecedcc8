package widetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rewired-gh/eventwindow/internal/models"
)

// LoadYearRow reads a single-row table of year-keyed columns, such as an
// aggregate GDP-by-year export. Non-year columns are ignored; the first
// non-empty non-year cell, if any, names the series.
func LoadYearRow(path string) (models.YearSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.YearSeries{}, err
	}
	defer file.Close()

	s, err := parseYearRow(file)
	if err != nil {
		return models.YearSeries{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

func parseYearRow(r io.Reader) (models.YearSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.YearSeries{}, err
	}
	record, err := reader.Read()
	if err == io.EOF {
		return models.YearSeries{}, fmt.Errorf("%w: no data row", models.ErrMissingColumn)
	}
	if err != nil {
		return models.YearSeries{}, err
	}

	var s models.YearSeries
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		m := yearHeader.FindStringSubmatch(h)
		if m == nil {
			if s.Name == "" && field(record, i) != "" {
				s.Name = field(record, i)
			}
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if n := len(s.Years); n > 0 && year <= s.Years[n-1] {
			return models.YearSeries{}, fmt.Errorf("year columns not ascending: %d after %d", year, s.Years[n-1])
		}
		v, err := parseCell(field(record, i))
		if err != nil {
			return models.YearSeries{}, fmt.Errorf("year %d: %w", year, err)
		}
		s.Years = append(s.Years, year)
		s.Values = append(s.Values, v)
	}
	if len(s.Years) == 0 {
		return models.YearSeries{}, fmt.Errorf("%w: no year columns", models.ErrMissingColumn)
	}
	return s, nil
}
