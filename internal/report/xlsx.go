package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shipper-lite/backend/internal/entity"
)

// WriteXLSX renders the report as a single-sheet workbook: a summary block,
// the user-visible extracted fields, then one row per validation. Internal
// fields are filtered out.
func WriteXLSX(rep entity.ComplianceReport) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Compliance Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on the report
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	setRow := func(row int, values ...any) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	row := 1
	summary := [][]any{
		{"Document ID", rep.DocumentID.String()},
		{"Overall Status", rep.OverallStatus},
		{"Created At", rep.CreatedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	for _, line := range summary {
		if err := setRow(row, line...); err != nil {
			return nil, err
		}
		row++
	}
	row++

	if err := setRow(row, "Field", "Value", "Confidence"); err != nil {
		return nil, err
	}
	row++
	for _, fld := range entity.VisibleFields(rep.ExtractedFields) {
		if err := setRow(row, fld.Name, fld.Value, fld.Confidence); err != nil {
			return nil, err
		}
		row++
	}
	row++

	if err := setRow(row, "Check", "Result", "Error"); err != nil {
		return nil, err
	}
	row++
	for _, v := range rep.Validations {
		result := "PASS"
		if !v.Passed {
			result = "FAIL"
		}
		if err := setRow(row, v.FieldName, result, v.ErrorMessage); err != nil {
			return nil, err
		}
		row++
	}

	if len(rep.FixInstructions) > 0 {
		row++
		if err := setRow(row, "Fix Instructions"); err != nil {
			return nil, err
		}
		row++
		for _, ins := range rep.FixInstructions {
			if err := setRow(row, ins); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
