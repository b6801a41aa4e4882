package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/baditaflorin/go_nlpurify/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var warmUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("warm-up") {
				cfg.Server.Warmup = warmUp
			}
			lg, err := ctx.openLogger()
			if err != nil {
				return err
			}
			defer lg.Close()

			srv, err := httpapi.New(cfg, lg)
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.Server.Warmup {
				srv.WarmUp(runCtx)
			}
			return srv.ListenAndServe(runCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides [server] addr)")
	cmd.Flags().BoolVar(&warmUp, "warm-up", false, "Warm up before serving")
	return cmd
}
