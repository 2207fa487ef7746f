package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"acadplot/internal/config"
)

// LoadCSV reads two columns of a comma separated file.
func LoadCSV(_ context.Context, src config.SourceConfig) ([]float64, []float64, error) {
	file, err := os.Open(src.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv %s: %w", src.Path, err)
	}

	x, y, err := fromTable(rows, src.XColumn, src.YColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("csv %s: %w", src.Path, err)
	}
	return x, y, nil
}
