package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheetName = "Raport"

// WriteSpreadsheet renders the report rows as an xlsx workbook.
func WriteSpreadsheet(title string, rows []ReportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheetName); err != nil {
		return nil, err
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	f.SetCellValue(reportSheetName, "A1", title)
	f.SetCellStyle(reportSheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range ReportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(reportSheetName, cell, h)
		f.SetCellStyle(reportSheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(reportSheetName, "A", "A", 6)
	f.SetColWidth(reportSheetName, "B", "E", 16)

	for i, r := range rows {
		row := i + 4
		values := []any{i + 1, r.Code, placeholder(r.Material), placeholder(r.Thickness), r.Quantity}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(reportSheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
