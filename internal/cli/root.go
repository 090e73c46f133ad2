// Package cli wires the lookup engine, sinks, and servers into the
// hydradig command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jroosing/hydradig/internal/config"
	"github.com/jroosing/hydradig/internal/export"
	"github.com/jroosing/hydradig/internal/history"
	"github.com/jroosing/hydradig/internal/logging"
	"github.com/jroosing/hydradig/internal/lookup"
	"github.com/jroosing/hydradig/internal/render"
	"github.com/jroosing/hydradig/internal/tui"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath  string
	records     []string
	exportJSON  string
	exportCSV   string
	nameserver  string
	timeout     int
	retries     int
	interactive bool
	quiet       bool
	noColor     bool
	noHistory   bool
}

// NewRootCmd builds the command tree. Exposed for CLI tests.
func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "hydradig [domain]",
		Short: "DNS record lookup tool",
		Long: "hydradig looks up the common DNS record types for a domain,\n" +
			"tolerating per-type failures, and can render, export, or serve the results.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(&flags)
			if err != nil {
				return err
			}

			if flags.interactive || len(args) == 0 {
				return runInteractive(cfg, logger, &flags)
			}
			return runLookup(cmd, cfg, logger, &flags, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to JSON configuration file (or set HYDRADIG_CONFIG)")
	cmd.Flags().StringSliceVarP(&flags.records, "records", "r", nil, "Record types to query (e.g. A,MX,TXT); default is all supported types")
	cmd.Flags().StringVarP(&flags.exportJSON, "export-json", "j", "", "Write the result document to a JSON file")
	cmd.Flags().StringVarP(&flags.exportCSV, "export-csv", "c", "", "Write the result rows to a CSV file")
	cmd.Flags().StringVar(&flags.nameserver, "nameserver", "", "Resolver to query (host or host:port); default is the system resolver")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 0, "Per-query timeout in seconds")
	cmd.Flags().IntVar(&flags.retries, "retries", -1, "Additional attempts after a timeout")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Start the interactive TUI")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress log output")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this lookup in the history store")

	cmd.AddCommand(newServeCmd(&flags))
	cmd.AddCommand(newHistoryCmd(&flags))
	return cmd
}

// setup loads the configuration, applies flag overrides, and configures
// logging. Shared by the root command and its subcommands.
func setup(flags *rootFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.ResolveConfigPath(flags.configPath))
	if err != nil {
		return nil, nil, err
	}

	if flags.nameserver != "" {
		cfg.DNS.Nameserver = flags.nameserver
	}
	if flags.timeout > 0 {
		cfg.DNS.TimeoutSeconds = flags.timeout
	}
	if flags.retries >= 0 {
		cfg.DNS.Retries = flags.retries
	}
	if flags.noColor {
		cfg.Display.UseColors = false
	}
	if flags.noHistory {
		cfg.History.Enabled = false
	}

	var logger *slog.Logger
	if flags.quiet && cfg.Logging.File == "" {
		logger = logging.Discard()
	} else {
		logger = logging.Configure(logging.Config{
			Level:            cfg.Logging.Level,
			Structured:       cfg.Logging.Structured,
			StructuredFormat: cfg.Logging.StructuredFormat,
			ExtraFields:      cfg.Logging.ExtraFields,
			File:             cfg.Logging.File,
			MaxSizeMB:        cfg.Logging.MaxSizeMB,
			BackupCount:      cfg.Logging.BackupCount,
		})
	}
	return cfg, logger, nil
}

func newOrchestrator(cfg *config.Config, logger *slog.Logger) *lookup.Orchestrator {
	fetcher := lookup.NewFetcher(
		cfg.DNS.Nameserver,
		time.Duration(cfg.DNS.TimeoutSeconds)*time.Second,
		cfg.DNS.Retries,
		logger,
	)
	return lookup.NewOrchestrator(fetcher, logger)
}

func newRenderer(cfg *config.Config) *render.Renderer {
	styles := render.DefaultStyles()
	if !cfg.Display.UseColors {
		styles = render.PlainStyles()
	}
	return render.New(styles, cfg.Display.MaxTXTLength)
}

func requestedTypes(cfg *config.Config, flags *rootFlags) ([]lookup.RecordType, error) {
	if len(flags.records) > 0 {
		return lookup.ParseRecordTypes(flags.records)
	}
	return cfg.DefaultTypes(), nil
}

func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history store unavailable", "path", cfg.History.Path, "error", err)
		return nil
	}
	return store
}

func runLookup(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, flags *rootFlags, raw string) error {
	domain, err := lookup.Validate(raw)
	if err != nil {
		return err
	}

	types, err := requestedTypes(cfg, flags)
	if err != nil {
		return err
	}

	orch := newOrchestrator(cfg, logger)
	if cfg.Display.ShowProgress && !flags.quiet {
		errOut := cmd.ErrOrStderr()
		orch.OnProgress = func(rtype lookup.RecordType, outcome lookup.Outcome, done, total int) {
			fmt.Fprintf(errOut, "[%d/%d] %s: %s\n", done, total, rtype, outcome.Status)
		}
	}
	res := orch.Lookup(cmd.Context(), domain, types)

	fmt.Fprintln(cmd.OutOrStdout(), newRenderer(cfg).Render(res))

	opts := exportOptions(cfg)
	if flags.exportJSON != "" {
		if err := export.SaveJSON(flags.exportJSON, res, opts); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		logger.Info("exported result", "format", "json", "path", flags.exportJSON)
	}
	if flags.exportCSV != "" {
		if err := export.SaveCSV(flags.exportCSV, res, opts); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("exported result", "format", "csv", "path", flags.exportCSV)
	}

	if store := openHistory(cfg, logger); store != nil {
		defer store.Close()
		if err := store.Save(res); err != nil {
			logger.Warn("failed to record lookup history", "error", err)
		}
	}

	if res.DomainMissing() {
		return fmt.Errorf("domain %s does not exist", domain)
	}
	return nil
}

func runInteractive(cfg *config.Config, logger *slog.Logger, flags *rootFlags) error {
	types, err := requestedTypes(cfg, flags)
	if err != nil {
		return err
	}

	// Console logging would corrupt the alt-screen UI; without a log
	// file configured the interactive session runs silent.
	if cfg.Logging.File == "" {
		logger = logging.Discard()
	}

	orch := newOrchestrator(cfg, logger)
	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Deps{
		RunLookup: func(ctx context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result {
			res := orch.Lookup(ctx, domain, types)
			if store != nil {
				if err := store.Save(res); err != nil {
					logger.Warn("failed to record lookup history", "error", err)
				}
			}
			return res
		},
		Renderer: newRenderer(cfg),
		Types:    types,
	})
}

func exportOptions(cfg *config.Config) export.Options {
	opts := export.DefaultOptions()
	opts.JSONIndent = cfg.Export.JSONIndent
	opts.IncludeTimestamp = cfg.Export.IncludeTimestamp
	if cfg.Export.CSVDelimiter != "" {
		opts.CSVDelimiter = rune(cfg.Export.CSVDelimiter[0])
	}
	return opts
}
