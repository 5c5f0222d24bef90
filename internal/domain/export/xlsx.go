package export

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/okian/pldash/internal/domain/aggregate"
)

// SheetName is the single worksheet of an xlsx export.
const SheetName = "Analytics"

// WriteXLSX writes the scored rows of view into a one-sheet workbook with
// the CSV columns. Numbers are stored as numeric cells.
func WriteXLSX(w io.Writer, view aggregate.View) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	perf := withPerformance(view.Rows, view.HasPerformanceData)
	cols := columnsFor(perf)

	header := lo.Map(Header(perf), func(h string, _ int) any { return h })
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range view.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		values := lo.Map(cols, func(c column, _ int) any { return c.value(row) })
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %s: %w", row.Team, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
