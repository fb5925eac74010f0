// Package ingest reads evaluation records from CSV and XLSX tables.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lemon6243/customer-center-dashboard/internal/discovery"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// ErrNoInputs is returned when no input file matches the given patterns.
var ErrNoInputs = errors.New("no input files found")

// Options controls how tables are read.
type Options struct {
	// Sheet selects the worksheet of an XLSX file. Empty means the first sheet.
	Sheet string
}

// Discover expands files, directories and doublestar globs into input files.
func Discover(patterns []string) ([]discovery.File, error) {
	files, err := discovery.NewFileDiscovery("").DiscoverFiles(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %v", ErrNoInputs, patterns)
	}
	return files, nil
}

// LoadFiles reads every file and concatenates the records in file order.
func LoadFiles(files []discovery.File, opts Options) ([]types.Record, []types.Issue, error) {
	var (
		records []types.Record
		issues  []types.Issue
	)
	for _, f := range files {
		recs, iss, err := Load(f.Path, opts)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, recs...)
		issues = append(issues, iss...)
	}
	return records, issues, nil
}

// Load reads a single CSV or XLSX file.
func Load(path string, opts Options) ([]types.Record, []types.Issue, error) {
	abs, err := discovery.ValidateFilePath(path)
	if err != nil {
		return nil, nil, err
	}
	ft, err := discovery.DetectFileType(abs)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	switch ft {
	case discovery.FileTypeCSV:
		rows, err = ReadCSV(abs)
	case discovery.FileTypeXLSX:
		rows, err = ReadXLSX(abs, opts.Sheet)
	}
	if err != nil {
		return nil, nil, err
	}
	return ParseTable(rows, filepath.Base(abs))
}

// ReadCSV returns every row of a CSV file. Ragged rows are allowed.
func ReadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()
	return readCSV(f, path)
}

func readCSV(r io.Reader, name string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return rows, nil
}

// ReadXLSX returns the raw cell values of one worksheet. Dates come back as
// Excel serial numbers, which types.ParseMonth understands.
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%s: sheet %q not found", path, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q of %s: %w", sheet, path, err)
	}
	return rows, nil
}
