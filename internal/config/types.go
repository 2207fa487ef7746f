package config

import (
	"fmt"
	"math"
	"strconv"

	"acadplot/internal/palette"
)

// Config describes one figure: its page, where it is written and the
// panels drawn on it. A single-plot file may use the top-level plot and
// series keys instead of panels.
type Config struct {
	Figure FigureInfo     `yaml:"figure" toml:"figure" json:"figure"`
	Plot   PlotConfig     `yaml:"plot" toml:"plot" json:"plot"`
	Series []SeriesConfig `yaml:"series" toml:"series" json:"series"`
	Panels []PanelConfig  `yaml:"panels" toml:"panels" json:"panels"`

	// Dir is the directory of the loaded file; relative source paths are
	// resolved against it.
	Dir string `yaml:"-" toml:"-" json:"-"`
}

type FigureInfo struct {
	Name    string `yaml:"name" toml:"name" json:"name"`
	Caption string `yaml:"caption" toml:"caption" json:"caption"`
	Output  string `yaml:"output" toml:"output" json:"output"`
	Wrapper *bool  `yaml:"wrapper" toml:"wrapper" json:"wrapper"`
	// ExportData writes the plotted points to a CSV next to the image.
	ExportData bool    `yaml:"export_data" toml:"export_data" json:"export_data"`
	LogLevel   string  `yaml:"log_level" toml:"log_level" json:"log_level"`
	Latex      *bool   `yaml:"latex" toml:"latex" json:"latex"`
	DPI        int     `yaml:"dpi" toml:"dpi" json:"dpi"`
	Width      float64 `yaml:"width" toml:"width" json:"width"`
	Height     float64 `yaml:"height" toml:"height" json:"height"`
	Rows       int     `yaml:"rows" toml:"rows" json:"rows"`
	Cols       int     `yaml:"cols" toml:"cols" json:"cols"`
}

// PlotConfig holds the axis and legend settings of one plot area.
type PlotConfig struct {
	XLabel        *string   `yaml:"x_label" toml:"x_label" json:"x_label"`
	YLabel        *string   `yaml:"y_label" toml:"y_label" json:"y_label"`
	XTicks        []float64 `yaml:"x_ticks" toml:"x_ticks" json:"x_ticks"`
	YTicks        []float64 `yaml:"y_ticks" toml:"y_ticks" json:"y_ticks"`
	XStart        *float64  `yaml:"x_start" toml:"x_start" json:"x_start"`
	YStart        *float64  `yaml:"y_start" toml:"y_start" json:"y_start"`
	FontSize      float64   `yaml:"font_size" toml:"font_size" json:"font_size"`
	Legend        string    `yaml:"legend" toml:"legend" json:"legend"`
	LegendColumns int       `yaml:"legend_columns" toml:"legend_columns" json:"legend_columns"`
	ColumnSpacing float64   `yaml:"column_spacing" toml:"column_spacing" json:"column_spacing"`
}

type PanelConfig struct {
	Row    int            `yaml:"row" toml:"row" json:"row"`
	Col    int            `yaml:"col" toml:"col" json:"col"`
	Plot   PlotConfig     `yaml:"plot" toml:"plot" json:"plot"`
	Series []SeriesConfig `yaml:"series" toml:"series" json:"series"`
}

// SeriesConfig is one line. Color and Marker accept a registry name or a
// zero-based index. Values come either inline (X, Y) or from Source.
type SeriesConfig struct {
	Label  string        `yaml:"label" toml:"label" json:"label"`
	Color  any           `yaml:"color" toml:"color" json:"color"`
	Marker any           `yaml:"marker" toml:"marker" json:"marker"`
	X      []float64     `yaml:"x" toml:"x" json:"x"`
	Y      []float64     `yaml:"y" toml:"y" json:"y"`
	Source *SourceConfig `yaml:"source" toml:"source" json:"source"`
}

// SourceConfig selects a loader and its parameters. Column fields accept a
// header name or a zero-based column index.
type SourceConfig struct {
	Type    string `yaml:"type" toml:"type" json:"type"`
	Path    string `yaml:"path" toml:"path" json:"path"`
	Sheet   string `yaml:"sheet" toml:"sheet" json:"sheet"`
	XColumn string `yaml:"x_column" toml:"x_column" json:"x_column"`
	YColumn string `yaml:"y_column" toml:"y_column" json:"y_column"`

	// InfluxDB
	Host        string `yaml:"host" toml:"host" json:"host"`
	Token       string `yaml:"token" toml:"token" json:"token"`
	Org         string `yaml:"org" toml:"org" json:"org"`
	Bucket      string `yaml:"bucket" toml:"bucket" json:"bucket"`
	Measurement string `yaml:"measurement" toml:"measurement" json:"measurement"`
	Query       string `yaml:"query" toml:"query" json:"query"`
}

func (f FigureInfo) WrapperEnabled() bool {
	return f.Wrapper == nil || *f.Wrapper
}

// ColorSelector converts the configured color into a palette selector.
func (s SeriesConfig) ColorSelector() (palette.Selector, error) {
	return selectorFrom("color", s.Color)
}

func (s SeriesConfig) MarkerSelector() (palette.Selector, error) {
	return selectorFrom("marker", s.Marker)
}

// selectorFrom accepts the scalar types produced by the YAML and TOML
// decoders. Strings holding an integer select by index.
func selectorFrom(field string, v any) (palette.Selector, error) {
	switch t := v.(type) {
	case nil:
		return palette.ByIndex(0), nil
	case string:
		return palette.ParseSelector(t), nil
	case int:
		return palette.ByIndex(t), nil
	case int64:
		return palette.ByIndex(int(t)), nil
	case uint64:
		return palette.ByIndex(int(t)), nil
	case float64:
		if t != math.Trunc(t) {
			return palette.Selector{}, fmt.Errorf("%w: %s index %s is not an integer", ErrInvalidConfig, field, strconv.FormatFloat(t, 'g', -1, 64))
		}
		return palette.ByIndex(int(t)), nil
	default:
		return palette.Selector{}, fmt.Errorf("%w: %s must be a name or an index, got %T", ErrInvalidConfig, field, v)
	}
}
