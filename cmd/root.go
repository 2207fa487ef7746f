package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"acadplot/internal/logging"
	"acadplot/internal/render"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Execute runs the acadplot command line.
func Execute() error {
	// stdout carries the written paths
	logging.SetOutput(os.Stderr)
	loadEnvironment()
	render.ConfigureStyle(render.DefaultStyle())
	return newRootCmd().Execute()
}

func loadEnvironment() {
	logger := logging.GetLogger()

	// Try to load .env file from current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); err != nil {
		// Try to load from the application directory
		execPath, err := os.Executable()
		if err != nil {
			return
		}
		envFile = filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(envFile); err != nil {
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		return
	}
	logger.WithField("file", envFile).Debug("Loaded environment variables")
}

// explicitLogLevel is set when the level came from the flag or the
// environment; it then takes precedence over the configuration file.
var explicitLogLevel bool

func newRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool

	rootCmd := &cobra.Command{
		Use:           "acadplot",
		Short:         "Academic line plots",
		Long:          "Render publication-ready line plots with a fixed palette, serif LaTeX text and LaTeX figure wrappers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logJSON {
				logging.SetFormatter(&logrus.JSONFormatter{})
			}
			if logLevel == "" {
				logLevel = os.Getenv("ACADPLOT_LOG_LEVEL")
			}
			explicitLogLevel = logLevel != ""
			if explicitLogLevel {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPaletteCmd())
	rootCmd.AddCommand(newWatchCmd())
	return rootCmd
}
