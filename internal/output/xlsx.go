package output

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

// ErrOutputRequired is returned when a binary format has nowhere to go.
var ErrOutputRequired = errors.New("xlsx output requires an output file")

// XLSXFormatter writes one worksheet per report section.
type XLSXFormatter struct {
	outputFile string
}

// NewXLSXFormatter creates a new XLSXFormatter
func NewXLSXFormatter(outputFile string) *XLSXFormatter {
	return &XLSXFormatter{outputFile: outputFile}
}

// Format builds the workbook and saves it to the output file.
func (f *XLSXFormatter) Format(report *pipeline.Report) error {
	if f.outputFile == "" {
		return ErrOutputRequired
	}

	wb, err := Workbook(report)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := wb.SaveAs(f.outputFile); err != nil {
		return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
	}
	return nil
}

// Workbook renders the report into a new workbook. The first sheet
// describes the data; the rest follow the section order.
func Workbook(report *pipeline.Report) (*excelize.File, error) {
	wb := excelize.NewFile()

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		wb.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	tables := append([]Table{DataTable(report)}, Tables(report)...)
	for i, t := range tables {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", t.Name); err != nil {
				wb.Close()
				return nil, fmt.Errorf("naming sheet %s: %w", t.Name, err)
			}
		} else if _, err := wb.NewSheet(t.Name); err != nil {
			wb.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(wb, t, headerStyle); err != nil {
			wb.Close()
			return nil, fmt.Errorf("writing sheet %s: %w", t.Name, err)
		}
	}
	return wb, nil
}

func writeSheet(wb *excelize.File, t Table, headerStyle int) error {
	sheet := t.Name
	for i, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.SetColWidth(sheet, col, col, columnWidth(h)); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func columnWidth(header string) float64 {
	return float64(max(10, len([]rune(header))+4))
}
