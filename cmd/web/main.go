// Command interviewcheck-web serves the interview scoring API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"interviewcheck/internal/app"
	"interviewcheck/internal/config"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/infrastructure"
	"interviewcheck/pkg/contracts"
)

type serveOptions struct {
	configFile string
	baseDir    string
	host       string
	port       int
	roster     string
	outputDir  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:           app.Executable,
		Short:         "Serve the interview scoring API",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, paths, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(cfg, paths, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yaml (default: search config.yaml, configs/config.yaml)")
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", "", "Directory relative paths are resolved against (default: working directory)")
	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Listen port")
	cmd.Flags().StringVar(&opts.roster, "roster", "", "Candidate roster workbook")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory receiving result workbooks")

	return cmd
}

// loadConfig loads the configuration and applies the flags that were set on cmd.
func loadConfig(cmd *cobra.Command, opts serveOptions) (*config.Config, *config.Paths, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		if opts.port <= 0 || opts.port > 65535 {
			return nil, nil, apperrors.NewConfigError(fmt.Sprintf("invalid --port %d", opts.port), nil)
		}
		cfg.Server.Port = opts.port
	}
	if flags.Changed("roster") {
		cfg.Interview.RosterFile = opts.roster
	}
	if flags.Changed("output-dir") {
		cfg.Interview.OutputDir = opts.outputDir
	}

	paths, err := config.ResolvePaths(cfg, opts.baseDir)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)
	return cfg, paths, nil
}
