package salaryrecord

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Salary Sheet"

// RenderXLSX writes the sheet as a single worksheet workbook. Amounts are
// stored as numbers so the file stays usable for further calculation.
func RenderXLSX(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := f.SetCellValue(xlsxSheetName, "A1", s.Title()); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheetName, "A1", "A1", bold); err != nil {
		return nil, err
	}

	const headerRow = 3
	if err := setRow(f, headerRow, toAny(sheetColumns)); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(sheetColumns))
	if err := f.SetCellStyle(xlsxSheetName, "A3", fmt.Sprintf("%s%d", lastCol, headerRow), bold); err != nil {
		return nil, err
	}

	rowNum := headerRow
	for _, row := range s.Rows {
		rowNum++
		err := setRow(f, rowNum, []any{
			row.EmployeeCode,
			row.Name,
			row.Designation,
			row.BaseSalary.InexactFloat64(),
			row.AttendanceDays,
			row.LeaveUnpaid,
			row.Bonus.InexactFloat64(),
			row.IncrementAdjustment.InexactFloat64(),
			row.AdvanceTaken.InexactFloat64(),
			row.Penalty.InexactFloat64(),
			row.Total.InexactFloat64(),
			row.Status,
			strings.Join(row.LeaveDates, ", "),
		})
		if err != nil {
			return nil, err
		}
	}

	rowNum += 2
	t := s.Totals
	err = setRow(f, rowNum, []any{
		"Total", "", "",
		t.BaseSalary.InexactFloat64(),
		"", "",
		t.Bonus.InexactFloat64(),
		t.IncrementAdjustment.InexactFloat64(),
		t.AdvanceTaken.InexactFloat64(),
		t.Penalty.InexactFloat64(),
		t.Total.InexactFloat64(),
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), bold); err != nil {
		return nil, err
	}
	if err := setRow(f, rowNum+1, []any{"Paid", "", "", "", "", "", "", "", "", "", t.Paid.InexactFloat64()}); err != nil {
		return nil, err
	}
	if err := setRow(f, rowNum+2, []any{"Pending", "", "", "", "", "", "", "", "", "", t.Pending.InexactFloat64()}); err != nil {
		return nil, err
	}

	// D and G..K hold amounts
	first, last := headerRow+1, rowNum+2
	if err := f.SetCellStyle(xlsxSheetName, fmt.Sprintf("D%d", first), fmt.Sprintf("D%d", last), money); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheetName, fmt.Sprintf("G%d", first), fmt.Sprintf("K%d", last), money); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheetName, "A", "C", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheetName, "D", "L", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheetName, "M", "M", 30); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(xlsxSheetName, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
