package widetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rewired-gh/eventwindow/internal/logger"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// MissingToken is the World Bank placeholder for "no data".
const MissingToken = ".."

// Metadata columns dropped on load.
var droppedColumns = map[string]bool{
	"Series Name": true,
	"Series Code": true,
}

// yearHeader matches "2020 [YR2020]" as well as a bare "2020".
var yearHeader = regexp.MustCompile(`^(\d{4})(\s*\[[^\]]*\])?$`)

// Options configures Load.
type Options struct {
	Filter
	// Bounds are the years the source can possibly cover.
	Bounds models.YearBounds
	// AsOf is the reference "current year" used by bound validation.
	AsOf int
}

// GDPBounds returns the possible year bounds of the World Bank GDP series:
// data starts in minYear and no year after the last completed one exists.
func GDPBounds(minYear, asOf int) models.YearBounds {
	return models.YearBounds{Min: minYear, Max: asOf - 1}
}

// Load reads a wide table from path and applies opts. Year bounds are
// validated before the file is opened; a missing file is returned as the
// unwrapped *fs.PathError from os.Open.
func Load(path string, opts Options) (*Table, error) {
	if err := opts.Years.Validate(opts.Bounds, opts.AsOf); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Loaded wide table %s: %d rows, %d year columns", path, len(t.Rows), len(t.Years))

	return t.Filter(opts.Filter)
}

// LoadFromReader is Load over an already open source.
func LoadFromReader(r io.Reader, opts Options) (*Table, error) {
	if err := opts.Years.Validate(opts.Bounds, opts.AsOf); err != nil {
		return nil, err
	}
	t, err := parse(r)
	if err != nil {
		return nil, err
	}
	return t.Filter(opts.Filter)
}

func parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // World Bank exports end with short footer lines
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty table", models.ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	nameIdx, codeIdx := -1, -1
	var yearIdx []int
	t := &Table{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case droppedColumns[h]:
		case h == NameColumn:
			nameIdx = i
		case h == CodeColumn:
			codeIdx = i
		default:
			m := yearHeader.FindStringSubmatch(h)
			if m == nil {
				continue
			}
			year, _ := strconv.Atoi(m[1])
			t.Years = append(t.Years, year)
			yearIdx = append(yearIdx, i)
		}
	}
	if nameIdx < 0 || codeIdx < 0 {
		return nil, fmt.Errorf("%w: need %q and %q", models.ErrMissingColumn, NameColumn, CodeColumn)
	}
	for i := 1; i < len(t.Years); i++ {
		if t.Years[i] <= t.Years[i-1] {
			return nil, fmt.Errorf("year columns not ascending: %d after %d", t.Years[i], t.Years[i-1])
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		code := field(record, codeIdx)
		if code == "" {
			continue
		}
		row := Row{
			Name:   field(record, nameIdx),
			Code:   code,
			Values: make([]models.Value, len(yearIdx)),
		}
		for j, idx := range yearIdx {
			v, err := parseCell(field(record, idx))
			if err != nil {
				return nil, fmt.Errorf("line %d, year %d: %w", line, t.Years[j], err)
			}
			row.Values[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseCell(s string) (models.Value, error) {
	if s == "" || s == MissingToken {
		return models.Value{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Value{}, fmt.Errorf("invalid value %q", s)
	}
	return models.Some(f), nil
}
