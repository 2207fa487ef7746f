package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"acadplot/internal/config"
	"acadplot/internal/figure"
	"acadplot/internal/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var configFile, output string
	var noWrapper bool
	var debounce time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render a figure whenever its configuration or data changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &figureWatcher{
				configFile: configFile,
				opts:       figure.Options{Output: output, NoWrapper: noWrapper},
				debounce:   debounce,
			}
			return w.run(ctx)
		},
	}

	watchCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to figure configuration file")
	watchCmd.Flags().StringVarP(&output, "output", "o", "", "Override the output path")
	watchCmd.Flags().BoolVar(&noWrapper, "no-wrapper", false, "Do not write the LaTeX wrapper")
	watchCmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Wait this long after the last change before rendering")
	watchCmd.MarkFlagRequired("config")
	return watchCmd
}

// figureWatcher renders a figure once and again after every change to its
// configuration file or to a file-based data source. Render failures are
// logged and the watch continues.
type figureWatcher struct {
	configFile string
	opts       figure.Options
	debounce   time.Duration
	// rendered is called after every render attempt.
	rendered func(*figure.Result, error)

	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	checksum string
}

func (w *figureWatcher) run(ctx context.Context) error {
	logger := logging.GetLogger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	w.watcher = watcher
	w.files = make(map[string]bool)
	w.dirs = make(map[string]bool)

	mgr := figure.NewManager()
	defer mgr.Close()

	w.watchFile(w.configFile)
	w.render(ctx, mgr, true)

	logger.WithField("config", w.configFile).Info("Watching for changes")

	var (
		fire    <-chan time.Time
		changes changeSet
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.WithFields(logrus.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("File changed")
			changes.add(event.Name, w.configFile)
			fire = time.After(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("File watcher error")
		case <-fire:
			fire = nil
			w.render(ctx, mgr, changes.force())
			changes = changeSet{}
		}
	}
}

// changeSet collects the files changed within one debounce window.
type changeSet struct {
	config bool
	data   bool
}

func (c *changeSet) add(path, configFile string) {
	if filepath.Clean(path) == filepath.Clean(configFile) {
		c.config = true
	} else {
		c.data = true
	}
}

// force reports whether the render must happen even when the config
// checksum is unchanged. Only a config-only change may be skipped.
func (c changeSet) force() bool {
	return c.data || !c.config
}

// render loads the configuration and renders it. When only the config
// file changed and its checksum did not, nothing is redrawn.
func (w *figureWatcher) render(ctx context.Context, mgr *figure.Manager, force bool) {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(w.configFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load config")
		w.report(nil, err)
		return
	}
	applyLogLevel(cfg, explicitLogLevel)
	w.watchSources(cfg)

	sum, err := config.Checksum(cfg)
	if err == nil && !force && sum == w.checksum {
		logger.WithField("checksum", sum).Debug("Configuration unchanged")
		return
	}

	res, err := mgr.Render(ctx, cfg, w.opts)
	if err != nil {
		logger.WithError(err).Error("Failed to render figure")
		w.report(nil, err)
		return
	}
	w.checksum = res.Checksum
	w.report(res, nil)
}

func (w *figureWatcher) report(res *figure.Result, err error) {
	if w.rendered != nil {
		w.rendered(res, err)
	}
}

func (w *figureWatcher) watchSources(cfg *config.Config) {
	for _, p := range cfg.Panels {
		for _, s := range p.Series {
			if s.Source != nil && s.Source.Path != "" {
				w.watchFile(s.Source.Path)
			}
		}
	}
}

// watchFile adds path to the watched files. The watch is placed on its
// directory so replaced files are seen too.
func (w *figureWatcher) watchFile(path string) {
	path = filepath.Clean(path)
	w.files[path] = true

	dir := filepath.Dir(path)
	if w.dirs[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		logging.GetLogger().WithField("dir", dir).WithError(err).Warn("Failed to watch directory")
		return
	}
	w.dirs[dir] = true
}
