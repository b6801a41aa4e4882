package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/baditaflorin/go_nlpurify/pkg/normalize"
	"github.com/baditaflorin/go_nlpurify/pkg/streaming"
	"github.com/spf13/cobra"
)

func newStreamCommand(ctx *commandContext) *cobra.Command {
	var flags normalizeFlags
	var inputPath, outputPath, charset string
	var workers int
	var skipEmpty, stats bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Normalize a file or stdin line by line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCharset(charset); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd.Flags(), cfg.Normalize)
			if err != nil {
				return err
			}
			// Resolve the flags into one validated configuration.
			n, err := normalize.New(opts...)
			if err != nil {
				return err
			}
			lg, err := ctx.openLogger()
			if err != nil {
				return err
			}
			defer lg.Close()

			if !cmd.Flags().Changed("workers") {
				workers = cfg.Stream.Workers
			}
			if !cmd.Flags().Changed("skip-empty") {
				skipEmpty = cfg.Stream.SkipEmpty
			}
			s, err := streaming.NewStreamingNormalizer(
				streaming.WithStreamingNormalization(n.Config()),
				streaming.WithStreamingBatchSize(cfg.Stream.BatchSize),
				streaming.WithStreamingMaxLineSize(cfg.Stream.MaxLineSize),
				streaming.WithStreamingWorkers(workers),
				streaming.WithStreamingSkipEmpty(skipEmpty),
				streaming.WithStreamingCharset(charset),
				streaming.WithStreamingLogger(lg),
			)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if inputPath != "" && inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" && outputPath != "-" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			runCtx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			res, err := s.NormalizeLines(runCtx, in, out)
			if err != nil {
				return err
			}
			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "lines=%d changed=%d bytes_in=%d bytes_out=%d duration=%s\n",
					res.Lines, res.ChangedLines, res.BytesProcessed, res.BytesWritten, res.ProcessingTime)
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file (default stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset of the input (default utf-8)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Goroutines per batch")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Drop lines that normalize to nothing")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print statistics to stderr")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
