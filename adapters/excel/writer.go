package excel

import (
	"fmt"

	"gobioact/adapters/export"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is created by excelize.NewFile and removed once real sheets exist
const defaultSheet = "Sheet1"

// WriteWorkbook saves one worksheet per table to path. Sheets keep the table
// order; the first one is active.
func WriteWorkbook(path string, tables ...export.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("workbook %s: no tables to write", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		idx, err := f.NewSheet(t.Name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeRow(f, t.Name, 1, t.Header); err != nil {
			return err
		}
		for r, row := range t.Rows {
			if err := writeRow(f, t.Name, r+2, row); err != nil {
				return err
			}
		}
	}

	if tables[0].Name != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
