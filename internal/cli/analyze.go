package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/davemt/seqprobe/internal/analysis"
	"github.com/davemt/seqprobe/internal/config"
	"github.com/davemt/seqprobe/internal/report"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Circuit  string
	Config   string
	Database string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Discover register dependencies and feedback loops",
		Long: `Analyze a circuit under simulation: discover its state registers per clock
domain, build the dependency graph by perturb-and-observe, and report the
graph's strongly connected components.

Without --config, the circuit's builtin default configuration is used.

Example:
  seqprobe analyze --circuit demo-cpu
  seqprobe analyze --circuit swap-pair --format json
  seqprobe analyze --circuit demo-cpu --config run.yaml --db results.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Circuit, "circuit", "demo-cpu",
		fmt.Sprintf("builtin circuit to analyze (%s)", strings.Join(FixtureNames(), "|")))
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML run configuration")
	cmd.Flags().StringVar(&opts.Database, "db", "", "optional SQLite result database")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	entry, err := lookupFixture(opts.Circuit)
	if err != nil {
		return WrapExitError(ExitCommandError, "fixture lookup failed", err)
	}

	var cfg *config.Config
	if opts.Config != "" {
		cfg, err = config.Load(opts.Config)
	} else {
		cfg, err = config.Parse([]byte(entry.DefaultConfig))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	runToken := uuid.Must(uuid.NewV7()).String()
	logger.Info("analysis starting",
		"circuit", opts.Circuit, "domains", len(cfg.Clocks), "policy", cfg.Perturb.Policy, "run", runToken)

	sessionOpts := []analysis.SessionOption{
		analysis.WithLogger(logger),
		analysis.WithRunToken(runToken),
		analysis.WithSettleEdges(cfg.SettleEdges),
		analysis.WithPreEdgeAdvance(cfg.PreEdgeAdvance),
	}
	outcomes := analysis.AnalyzeDomains(entry.Build, cfg.Domains(), cfg.WarmupEdges, cfg.NewPolicy, sessionOpts...)
	result := report.FromOutcomes(runToken, outcomes)

	for _, o := range outcomes {
		if o.Err != nil {
			logger.Error("domain failed", "domain", o.Domain.Clock, "error", o.Err)
		}
	}

	if opts.Database != "" {
		store, err := report.OpenStore(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open result database", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				logger.Error("error closing result database", "error", closeErr)
			}
		}()
		if err := store.SaveResult(cmd.Context(), result); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist result", err)
		}
		logger.Info("result persisted", "path", opts.Database, "run", runToken)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: out}
		if err := f.Success(result); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode result", err)
		}
	} else {
		if err := report.WriteText(out, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	}

	if result.Failed() {
		return NewExitError(ExitFailure, "analysis failed for every domain")
	}
	return nil
}
