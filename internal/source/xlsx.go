package source

import (
	"context"
	"fmt"

	"acadplot/internal/config"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads two columns of a worksheet. An empty Sheet selects the
// first sheet of the workbook.
func LoadXLSX(_ context.Context, src config.SourceConfig) ([]float64, []float64, error) {
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx source: %w", err)
	}
	defer f.Close()

	sheet := src.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("xlsx %s: %w", src.Path, ErrNoData)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, src.Path, err)
	}

	x, y, err := fromTable(rows, src.XColumn, src.YColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx %s sheet %q: %w", src.Path, sheet, err)
	}
	return x, y, nil
}
