// Command server runs the nlpurify HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/config"
	"github.com/baditaflorin/go_nlpurify/internal/httpapi"
	"github.com/spf13/cobra"
)

func main() {
	if err := newServerCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newServerCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		logFile    string
		jsonLogs   bool
		warmUp     bool
	)

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve text normalization and fuzzy matching over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, exists, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("log-file") {
				cfg.Logging.File = logFile
			}
			if flags.Changed("json-logs") {
				cfg.Logging.JSON = jsonLogs
			}
			if flags.Changed("warm-up") {
				cfg.Server.Warmup = warmUp
			}

			lg, err := logger.Open(cfg.Logging.File, cfg.Logging.JSON)
			if err != nil {
				return err
			}
			defer lg.Close()

			lg.Info("Starting nlpurify HTTP server",
				"address", cfg.Server.Addr,
				"config_file", configPath,
				"config_loaded", exists,
				"metric", cfg.Matcher.Metric.String(),
				"threshold", cfg.Matcher.Threshold,
				"cpus", runtime.NumCPU(),
			)

			srv, err := httpapi.New(cfg, lg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Server.Warmup {
				srv.WarmUp(ctx)
			}
			if err := srv.ListenAndServe(ctx); err != nil {
				lg.Error("Server error", "error", err)
				return err
			}
			lg.Info("Server stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Configuration file path (TOML)")
	flags.StringVar(&addr, "addr", "", "Listen address, e.g. :8080")
	flags.StringVar(&logFile, "log-file", "", "Log file path (empty = stderr)")
	flags.BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.BoolVar(&warmUp, "warm-up", false, "Warm up before accepting requests")
	return cmd
}
