package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/model"
)

// WriteCSV writes the scored rows of view with a header line. Floats use the
// shortest form that parses back to the same value.
func WriteCSV(w io.Writer, view aggregate.View) error {
	perf := withPerformance(view.Rows, view.HasPerformanceData)
	cols := columnsFor(perf)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(perf)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range view.Rows {
		for i, c := range cols {
			record[i] = formatCell(c.value(row))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Team, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// ReadCSV parses a file written by WriteCSV. It reports whether the file
// carries performance columns.
func ReadCSV(r io.Reader) ([]model.ScoredTeamRow, bool, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}

	var hasPerf bool
	switch {
	case slices.Equal(header, Header(true)):
		hasPerf = true
	case slices.Equal(header, Header(false)):
	default:
		return nil, false, fmt.Errorf("%w: unexpected header %v", ErrMalformedCSV, header)
	}
	cols := columnsFor(hasPerf)

	var rows []model.ScoredTeamRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: line %d: %w", ErrMalformedCSV, line, err)
		}

		var (
			row  model.ScoredTeamRow
			perf model.TeamPerformanceRecord
		)
		for i, c := range cols {
			if err := c.parse(&row, &perf, record[i]); err != nil {
				return nil, false, fmt.Errorf("%w: line %d: %w", ErrMalformedCSV, line, err)
			}
		}

		var perfRef *model.TeamPerformanceRecord
		if hasPerf {
			perf.Team = row.Team
			perfRef = &perf
		}
		scored := model.NewScoredRow(row.TeamFinancialRecord, perfRef)
		scored.FEI = row.FEI
		rows = append(rows, scored)
	}
	return rows, hasPerf, nil
}
