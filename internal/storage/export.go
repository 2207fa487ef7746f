package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"acadplot/internal/logging"

	"github.com/sirupsen/logrus"
)

// SeriesRecord is one plotted series as it appears in the export.
type SeriesRecord struct {
	Panel  string
	Label  string
	Color  string
	Marker string
	X, Y   []float64
}

var exportHeader = []string{"panel", "label", "color", "marker", "index", "x", "y"}

// DataPath returns where the data of an image is exported: next to the
// image, with the extension replaced by ".data.csv".
func DataPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".data.csv"
}

// ExportSeries writes every point of every series as one CSV row, in
// drawing order.
func ExportSeries(filename string, series []SeriesRecord) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	rows := 0
	for _, s := range series {
		n := min(len(s.X), len(s.Y))
		for i := 0; i < n; i++ {
			row := []string{
				s.Panel,
				s.Label,
				s.Color,
				s.Marker,
				strconv.Itoa(i),
				strconv.FormatFloat(s.X[i], 'g', -1, 64),
				strconv.FormatFloat(s.Y[i], 'g', -1, 64),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	logging.GetLogger().WithFields(logrus.Fields{
		"export_path": filename,
		"series":      len(series),
		"rows":        rows,
	}).Debug("Exported plotted data")
	return nil
}
