package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/hannajonsd/npd-analysis/analyzer"
	"github.com/hannajonsd/npd-analysis/config"
	"github.com/hannajonsd/npd-analysis/oracle"
	"github.com/hannajonsd/npd-analysis/report"
)

type scanOptions struct {
	configFile string
	outputDir  string
	formats    []string
	model      string
	maxRetries int
	timeout    int
	verbose    bool
}

func NewScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:          "scan <path>",
		SilenceUsage: true,
		Short:        "Scan a source file or directory for null pointer dereferences",
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "directory for report files")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "report formats: json, sarif, text")
	cmd.Flags().StringVar(&opts.model, "model", "", "judgment model tier (qwen-max, qwen-plus, qwen-turbo)")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 0, "retries per judgment call")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "judgment request timeout in seconds")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runScan(cmd *cobra.Command, opts *scanOptions, target string) error {
	logger := newLogger(opts.verbose)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = opts.outputDir
	}
	if cmd.Flags().Changed("format") {
		cfg.Formats = opts.formats
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = opts.model
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = opts.maxRetries
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := oracle.NewClient(oracle.ClientOptions{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:     logger.Named("oracle"),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := analyzer.New(client, logger).AnalyzeTarget(ctx, target)
	if err != nil {
		return err
	}

	rep := report.Build(results)
	if err := writeReports(rep, cfg, logger); err != nil {
		return err
	}

	if rep.TotalFindings > 0 {
		return errFindingsPresent
	}
	return nil
}

func writeReports(rep *report.Report, cfg *config.Config, logger hclog.Logger) error {
	for _, format := range cfg.Formats {
		if format == "text" {
			if err := rep.WriteText(os.Stdout); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
		}
		path := filepath.Join(cfg.OutputDir, "npd_report."+format)
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file %s: %w", path, err)
		}

		switch format {
		case "json":
			err = rep.WriteJSON(file)
		case "sarif":
			err = rep.WriteSARIF(file)
		}
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s report: %w", format, err)
		}
		logger.Info("report written", "format", format, "path", path)
	}
	return nil
}
