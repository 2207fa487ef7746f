package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"acadplot/internal/logging"
	"acadplot/internal/palette"
	"acadplot/internal/render"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for files that parse but describe an
// impossible figure.
var ErrInvalidConfig = errors.New("invalid config")

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func LoadConfig(path string) (*Config, error) {
	config, _, err := LoadConfigWithContent(path)
	return config, err
}

// LoadConfigWithContent loads, normalizes and validates the file at path
// and also returns its raw content.
func LoadConfigWithContent(path string) (*Config, string, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)

	config, err := Parse([]byte(expandEnvVars(originalContent)), FormatOf(path))
	if err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to parse config file")
		return nil, "", err
	}
	config.Dir = filepath.Dir(path)

	if err := config.normalize(); err != nil {
		return nil, "", err
	}
	if err := validateConfig(config); err != nil {
		return nil, "", err
	}

	return config, originalContent, nil
}

// FormatOf returns "toml" for .toml files and "yaml" otherwise.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// Parse decodes a figure description without normalizing it.
func Parse(data []byte, format string) (*Config, error) {
	var config Config
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}
	return &config, nil
}

func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

// normalize folds the single-plot shorthand into Panels and fills
// defaults.
func (c *Config) normalize() error {
	if len(c.Series) > 0 {
		if len(c.Panels) > 0 {
			return fmt.Errorf("%w: use either series or panels, not both", ErrInvalidConfig)
		}
		c.Panels = []PanelConfig{{Plot: c.Plot, Series: c.Series}}
		c.Series = nil
	}

	f := &c.Figure
	if f.Name == "" {
		f.Name = "figure"
	}
	if f.Output == "" {
		f.Output = render.DefaultOutput
	}
	out, err := homedir.Expand(f.Output)
	if err != nil {
		return fmt.Errorf("%w: output %q: %v", ErrInvalidConfig, f.Output, err)
	}
	f.Output = out
	if f.Rows == 0 {
		f.Rows = 1
	}
	if f.Cols == 0 {
		f.Cols = 1
	}
	if f.Width == 0 {
		f.Width = render.DefaultWidth * float64(f.Cols)
	}
	if f.Height == 0 {
		f.Height = render.DefaultHeight * float64(f.Rows)
	}

	for i := range c.Panels {
		for j := range c.Panels[i].Series {
			s := &c.Panels[i].Series[j]
			if s.Color == nil {
				s.Color = j % palette.NumColors()
			}
			if s.Marker == nil {
				s.Marker = j % palette.NumMarkers()
			}
			if s.Source != nil && s.Source.Path != "" {
				p, err := homedir.Expand(s.Source.Path)
				if err != nil {
					return fmt.Errorf("%w: source path %q: %v", ErrInvalidConfig, s.Source.Path, err)
				}
				if !filepath.IsAbs(p) {
					p = filepath.Join(c.Dir, p)
				}
				s.Source.Path = p
			}
		}
	}
	return nil
}

func validateConfig(config *Config) error {
	if err := validate(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func validate(config *Config) error {
	f := config.Figure
	if f.Rows < 1 || f.Cols < 1 {
		return fmt.Errorf("rows and cols must be positive")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if !slices.Contains(render.Formats, render.FormatOf(f.Output)) {
		return fmt.Errorf("output %s: unsupported format, use one of %s", f.Output, strings.Join(render.Formats, ", "))
	}
	if f.LogLevel != "" {
		if err := logging.ValidLevel(f.LogLevel); err != nil {
			return fmt.Errorf("log_level: %v", err)
		}
	}
	if len(config.Panels) == 0 {
		return fmt.Errorf("at least one series or panel must be defined")
	}
	if len(config.Panels) > f.Rows*f.Cols {
		return fmt.Errorf("%d panels do not fit a %dx%d grid", len(config.Panels), f.Rows, f.Cols)
	}

	cells := make(map[[2]int]bool)
	for i, p := range config.Panels {
		if p.Row < 0 || p.Row >= f.Rows || p.Col < 0 || p.Col >= f.Cols {
			return fmt.Errorf("panel %d: position (%d,%d) outside %dx%d grid", i, p.Row, p.Col, f.Rows, f.Cols)
		}
		cell := [2]int{p.Row, p.Col}
		if cells[cell] {
			return fmt.Errorf("panel %d: position (%d,%d) is already used", i, p.Row, p.Col)
		}
		cells[cell] = true

		if p.Plot.Legend != "" && !render.ValidLocation(p.Plot.Legend) {
			return fmt.Errorf("panel %d: unknown legend location %q", i, p.Plot.Legend)
		}
		if p.Plot.LegendColumns < 0 {
			return fmt.Errorf("panel %d: legend_columns must not be negative", i)
		}
		if len(p.Series) == 0 {
			return fmt.Errorf("panel %d: at least one series must be defined", i)
		}
		for j, s := range p.Series {
			if err := validateSeries(s); err != nil {
				return fmt.Errorf("panel %d series %d (%s): %v", i, j, s.Label, err)
			}
		}
	}
	return nil
}

func validateSeries(s SeriesConfig) error {
	color, err := s.ColorSelector()
	if err != nil {
		return err
	}
	if _, err := palette.ResolveColor(color); err != nil {
		return err
	}
	marker, err := s.MarkerSelector()
	if err != nil {
		return err
	}
	if _, err := palette.ResolveMarker(marker); err != nil {
		return err
	}

	if s.Source == nil {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("x has %d values, y has %d", len(s.X), len(s.Y))
		}
		return nil
	}
	if len(s.X) > 0 || len(s.Y) > 0 {
		return fmt.Errorf("inline values and source are exclusive")
	}
	if s.Source.Type == "" {
		return fmt.Errorf("source type is required")
	}
	return nil
}

// Checksum returns a short, stable checksum of the effective figure
// description: the first 6 hex characters of an MD5 over its canonical
// JSON form.
func Checksum(config *Config) (string, error) {
	if config == nil {
		return "", nil
	}
	b, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])[:6], nil
}
