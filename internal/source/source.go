package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"acadplot/internal/config"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownSource is returned for a source type without a loader.
	ErrUnknownSource = errors.New("unknown source type")
	// ErrNoData is returned when a source yields no points.
	ErrNoData = errors.New("source returned no data")
)

// Loader reads the x and y values described by a source configuration.
type Loader interface {
	Load(ctx context.Context, src config.SourceConfig) (x, y []float64, err error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src config.SourceConfig) ([]float64, []float64, error)

func (f LoaderFunc) Load(ctx context.Context, src config.SourceConfig) ([]float64, []float64, error) {
	return f(ctx, src)
}

// Registry maps source types to loaders.
type Registry struct {
	loaders map[string]Loader
	influx  *InfluxLoader
	logger  *logrus.Logger
}

// NewRegistry returns a registry with the csv, xlsx and influxdb loaders.
func NewRegistry(logger *logrus.Logger) *Registry {
	r := &Registry{
		loaders: make(map[string]Loader),
		influx:  NewInfluxLoader(logger),
		logger:  logger,
	}
	r.Register("csv", LoaderFunc(LoadCSV))
	r.Register("xlsx", LoaderFunc(LoadXLSX))
	r.Register("influxdb", r.influx)
	return r
}

// Register adds or replaces the loader for a source type.
func (r *Registry) Register(name string, l Loader) {
	r.loaders[strings.ToLower(name)] = l
}

// Types returns the registered source types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Close releases connections held by loaders.
func (r *Registry) Close() {
	if r.influx != nil {
		r.influx.Close()
	}
}

// Load runs the loader registered for src.Type.
func (r *Registry) Load(ctx context.Context, src config.SourceConfig) ([]float64, []float64, error) {
	l, ok := r.loaders[strings.ToLower(src.Type)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSource, src.Type, strings.Join(r.Types(), ", "))
	}

	x, y, err := l.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("%s source: %w", src.Type, ErrNoData)
	}

	r.logger.WithFields(logrus.Fields{
		"type":   src.Type,
		"path":   src.Path,
		"points": len(x),
	}).Debug("Loaded series data")
	return x, y, nil
}

// Values returns the inline values of s, or loads them from its source.
func (r *Registry) Values(ctx context.Context, s config.SeriesConfig) ([]float64, []float64, error) {
	if s.Source == nil {
		return s.X, s.Y, nil
	}
	return r.Load(ctx, *s.Source)
}

// fromTable extracts two numeric columns from rows of cells. Columns are
// given by header name or zero-based index and default to 0 and 1. The
// first row is a header unless every cell in it is a number, in which case
// references are indices only. Rows with an empty cell in either column are
// skipped.
func fromTable(rows [][]string, xCol, yCol string) ([]float64, []float64, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoData
	}
	if xCol == "" {
		xCol = "0"
	}
	if yCol == "" {
		yCol = "1"
	}

	var header []string
	body := rows
	if !numericRow(rows[0]) {
		header = rows[0]
		body = rows[1:]
	}
	xi := columnIndex(header, xCol)
	yi := columnIndex(header, yCol)
	if xi < 0 {
		return nil, nil, fmt.Errorf("column %q not found", xCol)
	}
	if yi < 0 {
		return nil, nil, fmt.Errorf("column %q not found", yCol)
	}

	var xs, ys []float64
	for n, row := range body {
		if xi >= len(row) || yi >= len(row) {
			continue
		}
		xText, yText := strings.TrimSpace(row[xi]), strings.TrimSpace(row[yi])
		if xText == "" || yText == "" {
			continue
		}
		x, err := strconv.ParseFloat(xText, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: x value %q: %w", n+1, xText, err)
		}
		y, err := strconv.ParseFloat(yText, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: y value %q: %w", n+1, yText, err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// columnIndex resolves a column reference against header names first and
// then as an index. A nil header resolves indices only.
func columnIndex(header []string, ref string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == ref {
			return i
		}
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 {
		return i
	}
	return -1
}

// numericRow reports whether every non-empty cell of row is a number.
func numericRow(row []string) bool {
	seen := false
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
