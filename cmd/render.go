package cmd

import (
	"context"
	"fmt"

	"acadplot/internal/config"
	"acadplot/internal/figure"
	"acadplot/internal/logging"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var configFile, output string
	var noWrapper bool

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a figure",
		Long:  "Render the figure described by a YAML or TOML file and write a LaTeX wrapper next to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := renderFigure(cmd.Context(), configFile, figure.Options{Output: output, NoWrapper: noWrapper})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			if res.Wrapper != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Wrapper)
			}
			return nil
		},
	}

	renderCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to figure configuration file")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "Override the output path")
	renderCmd.Flags().BoolVar(&noWrapper, "no-wrapper", false, "Do not write the LaTeX wrapper")
	renderCmd.MarkFlagRequired("config")
	return renderCmd
}

func newValidateCmd() *cobra.Command {
	var configFile string

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a figure configuration",
		Long:  "Load the configuration and its data sources and draw the figure in memory without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := renderFigure(cmd.Context(), configFile, figure.Options{DryRun: true})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d series, checksum %s)\n", configFile, res.Series, res.Checksum)
			return nil
		},
	}

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to figure configuration file")
	validateCmd.MarkFlagRequired("config")
	return validateCmd
}

// applyLogLevel uses the level from the configuration unless one was set
// on the command line or in the environment.
func applyLogLevel(cfg *config.Config, explicit bool) {
	if explicit || cfg.Figure.LogLevel == "" {
		return
	}
	logger := logging.GetLogger()
	if err := logging.SetLogLevel(cfg.Figure.LogLevel); err != nil {
		logger.WithField("log_level", cfg.Figure.LogLevel).WithError(err).Warn("Invalid log level in config, keeping current level")
		return
	}
	logger.WithField("log_level", cfg.Figure.LogLevel).Debug("Log level set from configuration")
}

func renderFigure(ctx context.Context, configFile string, opts figure.Options) (*figure.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyLogLevel(cfg, explicitLogLevel)

	mgr := figure.NewManager()
	defer mgr.Close()

	res, err := mgr.Render(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", configFile, err)
	}
	return res, nil
}
