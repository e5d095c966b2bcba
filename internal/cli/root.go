// Package cli implements the handicap command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/handicap/internal/config"
	"github.com/mmynk/handicap/internal/metrics"
	"github.com/mmynk/handicap/internal/service"
	"github.com/mmynk/handicap/internal/storage"
	"github.com/mmynk/handicap/internal/storage/sqlstore"
	"github.com/mmynk/handicap/pkg/logging"
)

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	start := time.Now()
	executed, err := cmd.ExecuteC()
	if cerr := a.close(); err == nil {
		err = cerr
	}

	duration := time.Since(start).Milliseconds()
	if err != nil {
		slog.Warn("Command failed", "command", executed.CommandPath(), "error", err, "duration_ms", duration)
		return err
	}
	slog.Debug("Command finished", "command", executed.CommandPath(), "duration_ms", duration)
	return nil
}

// app holds the state shared by subcommands. The store is opened on first use.
type app struct {
	configPath  string
	debug       bool
	metricsFile string

	cfg      *config.Config
	store    storage.Store
	registry *prometheus.Registry
	svc      *service.ScoringService
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "handicap",
		Short:        "Track golf rounds and compute a handicap index",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg
			logging.SetupWith(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Path to the YAML configuration file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		playerCmd(a),
		roundCmd(a),
		roundsCmd(a),
		indexCmd(a),
		countingCmd(a),
	)
	return cmd
}

// service opens the configured store and returns the scoring service.
func (a *app) service() (*service.ScoringService, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	store, err := sqlstore.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.registry = prometheus.NewRegistry()
	a.svc = service.NewScoringService(store,
		service.WithMetrics(metrics.New(a.registry)),
		service.WithPerPage(a.cfg.Pagination.PerPage),
	)
	return a.svc, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	if a.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	err := a.store.Close()
	a.store, a.svc = nil, nil
	return err
}
