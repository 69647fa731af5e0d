package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/editable/internal/config"
	"github.com/marcus/editable/internal/workdir"
)

var (
	version string
	baseDir string

	logFile  string
	logLevel string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "editable",
	Short: "Click-to-edit fields for terminal UIs",
	Long: `editable - click-to-edit fields for Bubble Tea programs.

Run 'editable demo' for an interactive page of editable fields, and
'editable list' to print the values it saved.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	baseDir = workdir.ResolveBaseDir(baseDir)
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// loadConfig reads the project config and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getBaseDir())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}
