package figure

import (
	"context"
	"fmt"
	"os"

	"acadplot/internal/config"
	"acadplot/internal/latex"
	"acadplot/internal/logging"
	"acadplot/internal/palette"
	"acadplot/internal/render"
	"acadplot/internal/source"
	"acadplot/internal/storage"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
)

// Options adjust a single render run.
type Options struct {
	// Output replaces the configured output path when set.
	Output string
	// NoWrapper suppresses the LaTeX wrapper snippet.
	NoWrapper bool
	// DryRun draws everything in memory and writes nothing.
	DryRun bool
}

// Result describes what a render run produced.
type Result struct {
	Output   string
	Wrapper  string
	Data     string
	Checksum string
	Series   int
}

// Manager turns figure configurations into files.
type Manager struct {
	sources *source.Registry
	logger  *logrus.Logger
}

func NewManager() *Manager {
	logger := logging.GetLogger()
	return &Manager{
		sources: source.NewRegistry(logger),
		logger:  logger,
	}
}

// Sources exposes the loader registry so callers can add source types.
func (m *Manager) Sources() *source.Registry {
	return m.sources
}

func (m *Manager) Close() {
	if m.sources != nil {
		m.sources.Close()
	}
}

// Style returns the drawing style for cfg: the process default with the
// file's overrides applied.
func Style(cfg *config.Config) render.Style {
	style := render.CurrentStyle()
	if cfg.Figure.Latex != nil {
		style.Latex = *cfg.Figure.Latex
	}
	if cfg.Figure.DPI > 0 {
		style.DPI = cfg.Figure.DPI
	}
	return style
}

// Requests loads every series of every panel and returns one render
// request per panel, in configuration order.
func (m *Manager) Requests(ctx context.Context, cfg *config.Config) ([]render.Request, error) {
	requests := make([]render.Request, 0, len(cfg.Panels))
	for i, p := range cfg.Panels {
		req := render.DefaultRequest()
		req.Output = ""
		applyPlot(&req, p.Plot)

		for j, s := range p.Series {
			x, y, err := m.sources.Values(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("failed to load panel %d series %d (%s): %w", i, j, s.Label, err)
			}
			color, err := s.ColorSelector()
			if err != nil {
				return nil, err
			}
			marker, err := s.MarkerSelector()
			if err != nil {
				return nil, err
			}
			req.Series = append(req.Series, render.Series{
				X:      x,
				Y:      y,
				Color:  color,
				Marker: marker,
				Label:  s.Label,
			})
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func applyPlot(req *render.Request, p config.PlotConfig) {
	if p.XLabel != nil {
		req.XLabel = *p.XLabel
	}
	if p.YLabel != nil {
		req.YLabel = *p.YLabel
	}
	req.XTicks = p.XTicks
	req.YTicks = p.YTicks
	req.XStart = p.XStart
	req.YStart = p.YStart
	if p.FontSize > 0 {
		req.FontSize = p.FontSize
	}
	if p.Legend != "" {
		req.Legend = p.Legend
	}
	if p.LegendColumns > 0 {
		req.LegendColumns = p.LegendColumns
	}
	if p.ColumnSpacing > 0 {
		req.ColumnSpacing = p.ColumnSpacing
	}
}

// Render draws the figure described by cfg and writes the image and,
// unless disabled, the LaTeX wrapper next to it.
func (m *Manager) Render(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	checksum, err := config.Checksum(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute config checksum: %w", err)
	}

	output := cfg.Figure.Output
	if opts.Output != "" {
		output = opts.Output
	}
	result := &Result{Output: output, Checksum: checksum}

	m.logger.WithFields(logrus.Fields{
		"figure":   cfg.Figure.Name,
		"panels":   len(cfg.Panels),
		"output":   output,
		"checksum": checksum,
	}).Info("Rendering figure")

	requests, err := m.Requests(ctx, cfg)
	if err != nil {
		return nil, err
	}

	style := Style(cfg)
	width := vg.Length(cfg.Figure.Width) * vg.Inch
	height := vg.Length(cfg.Figure.Height) * vg.Inch

	var (
		encode func(string) ([]byte, error)
		save   func(string) error
	)
	if cfg.Figure.Rows == 1 && cfg.Figure.Cols == 1 {
		fig := render.NewFigure(style, width, height)
		req := requests[0]
		req.Figure = fig
		if _, err := render.RenderPlot(req); err != nil {
			return nil, fmt.Errorf("failed to render figure %s: %w", cfg.Figure.Name, err)
		}
		result.Series = len(req.Series)
		encode, save = fig.Encode, fig.Save
	} else {
		grid, err := render.NewGrid(style, cfg.Figure.Rows, cfg.Figure.Cols, width, height)
		if err != nil {
			return nil, err
		}
		for i, req := range requests {
			p := cfg.Panels[i]
			req.Figure = grid.Panel(p.Row, p.Col)
			if _, err := render.RenderPlot(req); err != nil {
				return nil, fmt.Errorf("failed to render panel (%d,%d) of %s: %w", p.Row, p.Col, cfg.Figure.Name, err)
			}
			result.Series += len(req.Series)
		}
		encode, save = grid.Encode, grid.Save
	}

	if opts.DryRun {
		// Drawing is where text labels are parsed and laid out.
		if _, err := encode(render.FormatOf(output)); err != nil {
			return nil, fmt.Errorf("failed to render figure %s: %w", cfg.Figure.Name, err)
		}
		m.logger.WithField("figure", cfg.Figure.Name).Debug("Dry run, nothing written")
		return result, nil
	}

	if err := save(output); err != nil {
		return nil, err
	}
	m.logger.WithFields(logrus.Fields{
		"figure": cfg.Figure.Name,
		"output": output,
		"series": result.Series,
	}).Info("Figure written")

	if cfg.Figure.ExportData {
		path := storage.DataPath(output)
		if err := storage.ExportSeries(path, exportRecords(cfg, requests)); err != nil {
			return nil, err
		}
		result.Data = path
	}

	if opts.NoWrapper || !cfg.Figure.WrapperEnabled() {
		return result, nil
	}
	wrapper, err := m.writeWrapper(cfg, requests, output)
	if err != nil {
		return nil, err
	}
	result.Wrapper = wrapper
	return result, nil
}

func (m *Manager) writeWrapper(cfg *config.Config, requests []render.Request, output string) (string, error) {
	var labels []string
	for _, req := range requests {
		for _, s := range req.Series {
			labels = append(labels, s.Label)
		}
	}

	tex, err := latex.GenerateWrapper(latex.NewWrapperData(cfg.Figure.Name, output, cfg.Figure.Caption, labels))
	if err != nil {
		return "", err
	}

	path := latex.WrapperPath(output)
	if err := os.WriteFile(path, []byte(tex), 0o644); err != nil {
		return "", &render.IOError{Op: "write", Path: path, Err: err}
	}
	m.logger.WithField("wrapper", path).Debug("Wrapper written")
	return path, nil
}

func exportRecords(cfg *config.Config, requests []render.Request) []storage.SeriesRecord {
	var records []storage.SeriesRecord
	for i, req := range requests {
		panel := fmt.Sprintf("%d,%d", cfg.Panels[i].Row, cfg.Panels[i].Col)
		for _, s := range req.Series {
			rec := storage.SeriesRecord{Panel: panel, Label: s.Label, X: s.X, Y: s.Y}
			if c, err := palette.ResolveColor(s.Color); err == nil {
				rec.Color = c.Name
			}
			if mk, err := palette.ResolveMarker(s.Marker); err == nil {
				rec.Marker = mk.Name
			}
			records = append(records, rec)
		}
	}
	return records
}
