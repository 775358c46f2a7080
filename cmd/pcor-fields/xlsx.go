package main

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	fieldsSheet    = "Fields"
	suggestedSheet = "Suggested"
)

// exportXLSX renders the catalog as a workbook with one row per field and a
// second sheet holding the suggested mapping.
func exportXLSX(d *fieldDump) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(suggestedSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(fieldsSheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Kind", "Index", "Name", "Value", "Read Only"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(fieldsSheet, cell, h)
	}

	row := 2
	for _, g := range d.Groups {
		for _, fld := range g.Fields {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(fieldsSheet, cell, v)
			}
			write(1, g.Kind.String())
			write(2, fld.Index)
			write(3, fld.Name)
			write(4, fld.Value)
			write(5, fld.ReadOnly)
			row++
		}
	}

	_ = f.SetColWidth(fieldsSheet, "A", "A", 12) // kind
	_ = f.SetColWidth(fieldsSheet, "B", "B", 8)  // index
	_ = f.SetColWidth(fieldsSheet, "C", "C", 48) // name
	_ = f.SetColWidth(fieldsSheet, "D", "D", 24) // value

	_ = f.SetCellValue(suggestedSheet, "A1", "Concept")
	_ = f.SetCellValue(suggestedSheet, "B1", "Field")
	keys := make([]string, 0, len(d.Suggested))
	for k := range d.Suggested {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		_ = f.SetCellValue(suggestedSheet, fmt.Sprintf("A%d", i+2), k)
		_ = f.SetCellValue(suggestedSheet, fmt.Sprintf("B%d", i+2), d.Suggested[k])
	}
	_ = f.SetColWidth(suggestedSheet, "A", "B", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
