// Package export renders result tables to files for the plotting side:
// comparison tables, wide tables, level series, and event windows.
//
// Files are written atomically: data goes to a temporary file in the
// target directory which is then renamed over the destination.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/eventwindow/internal/logger"
)

// Formats understood by Writer.Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// maxSheetName is the Excel limit on worksheet names.
const maxSheetName = 31

// illegalNameChars replaces the characters Excel rejects in sheet names.
// The set includes both path separators, so replaced names are also safe
// as file names.
var illegalNameChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// Sheet is a rectangular table ready to be written. A nil cell is a
// missing value; float64, int, and string cells are supported.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Writer writes sheets below a directory.
type Writer struct {
	dir             string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// New creates a Writer rooted at dir. Zero permissions default to 0644/0755.
func New(dir string, filePermissions, dirPermissions os.FileMode) *Writer {
	if filePermissions == 0 {
		filePermissions = 0644
	}
	if dirPermissions == 0 {
		dirPermissions = 0755
	}
	return &Writer{dir: dir, filePermissions: filePermissions, dirPermissions: dirPermissions}
}

// Write writes sheets in format under base name name and returns the paths
// written. CSV produces one file per sheet; XLSX one workbook.
func (w *Writer) Write(format, name string, sheets ...Sheet) ([]string, error) {
	switch format {
	case FormatCSV:
		var paths []string
		names := sheetNames(sheets)
		for i, s := range sheets {
			file := name
			if len(sheets) > 1 {
				file = name + "_" + names[i]
			}
			p, err := w.WriteCSV(file, s)
			if err != nil {
				return paths, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	case FormatXLSX:
		p, err := w.WriteXLSX(name, sheets...)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// WriteCSV writes s to <dir>/<name>.csv.
func (w *Writer) WriteCSV(name string, s Sheet) (string, error) {
	path := filepath.Join(w.dir, illegalNameChars.Replace(name)+".csv")
	err := w.atomicWrite(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(s.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		record := make([]string, len(s.Header))
		for i, row := range s.Rows {
			record = record[:0]
			for _, cell := range row {
				record = append(record, formatCell(cell))
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", err
	}
	logger.Debug("Wrote %d rows to %s", len(s.Rows), path)
	return path, nil
}

// WriteXLSX writes sheets as worksheets of <dir>/<name>.xlsx.
func (w *Writer) WriteXLSX(name string, sheets ...Sheet) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	names := sheetNames(sheets)
	for i, s := range sheets {
		sheetName := names[i]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", sheetName, err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}

		header := make([]interface{}, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return "", fmt.Errorf("failed to write header of %s: %w", sheetName, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return "", err
			}
			if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
				return "", fmt.Errorf("failed to write row %d of %s: %w", r, sheetName, err)
			}
		}
	}

	path := filepath.Join(w.dir, illegalNameChars.Replace(name)+".xlsx")
	if err := w.atomicWrite(path, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	}); err != nil {
		return "", err
	}
	logger.Debug("Wrote %d sheets to %s", len(sheets), path)
	return path, nil
}

// SheetName maps name onto a valid worksheet name: characters Excel
// rejects become '_', edge apostrophes are dropped, and the result is cut
// to the 31-rune limit.
func SheetName(name string) string {
	name = strings.Trim(illegalNameChars.Replace(name), "'")
	if name == "" {
		return "Sheet1"
	}
	return truncateRunes(name, maxSheetName)
}

// sheetNames returns a distinct SheetName for each sheet. Excel compares
// sheet names case-insensitively; a name already taken gets a "_2", "_3",
// ... suffix, cutting the base so the result stays within the limit.
func sheetNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	taken := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		base := SheetName(s.Name)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := "_" + strconv.Itoa(n)
			name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func (w *Writer) atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, w.dirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, w.filePermissions); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func formatCell(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
