package main

import (
	"fmt"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/config"
	"github.com/baditaflorin/go_nlpurify/pkg/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type matchFlags struct {
	metric      string
	threshold   float64
	noNormalize bool
	jsonOutput  bool
}

func (f *matchFlags) register(fs *pflag.FlagSet, withThreshold bool) {
	fs.StringVarP(&f.metric, "metric", "m", "", "Metric: ratio, token_sort, lcs or partial")
	if withThreshold {
		fs.Float64VarP(&f.threshold, "threshold", "t", 0, "Minimum score in [0,1]")
	}
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "Compare the raw strings")
	fs.BoolVar(&f.jsonOutput, "json", false, "Print JSON")
}

// matcher builds a Matcher from the [matcher] section with flag overrides.
func (f *matchFlags) matcher(fs *pflag.FlagSet, cfg config.Config) (*fuzzy.Matcher, error) {
	metric := cfg.Matcher.Metric
	if fs.Changed("metric") {
		m, err := fuzzy.ParseMetric(f.metric)
		if err != nil {
			return nil, err
		}
		metric = m
	}
	threshold := cfg.Matcher.Threshold
	if fs.Changed("threshold") {
		threshold = f.threshold
	}
	opts := []fuzzy.Option{
		fuzzy.WithMetric(metric),
		fuzzy.WithThreshold(threshold),
		fuzzy.WithParallelism(cfg.Matcher.Parallelism),
	}
	if cfg.Matcher.NormalizeFirst && !f.noNormalize {
		opts = append(opts, fuzzy.WithNormalization(cfg.Normalize))
	}
	return fuzzy.NewMatcher(opts...)
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags
	cmd := &cobra.Command{
		Use:   "score <a> <b>",
		Short: "Score the similarity of two strings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := flags.matcher(cmd.Flags(), cfg)
			if err != nil {
				return err
			}
			res, err := m.Score(args[0], args[1])
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, res)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", res.Score)
			return err
		},
	}
	flags.register(cmd.Flags(), false)
	return cmd
}

// parseChoice reads "label=text"; without '=' the text is its own label.
func parseChoice(arg string) fuzzy.Choice {
	if label, text, ok := strings.Cut(arg, "="); ok {
		return fuzzy.Choice{Text: text, Label: label}
	}
	return fuzzy.Choice{Text: arg, Label: arg}
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags
	cmd := &cobra.Command{
		Use:   "classify <candidate> <label=choice>...",
		Short: "Pick the choice most similar to the candidate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := flags.matcher(cmd.Flags(), cfg)
			if err != nil {
				return err
			}
			choices := make([]fuzzy.Choice, 0, len(args)-1)
			for _, arg := range args[1:] {
				choices = append(choices, parseChoice(arg))
			}

			res, ok, err := m.Classify(args[0], choices)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, map[string]any{"matched": ok, "result": res})
			}
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%v\t%.4f\n", res.Label, res.Score)
			return err
		},
	}
	flags.register(cmd.Flags(), true)
	return cmd
}

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags
	var logicFlag, opFlag string
	cmd := &cobra.Command{
		Use:   "evaluate <statement> <reference>...",
		Short: "Check a statement against references with any/all logic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logic, err := fuzzy.ParseLogic(logicFlag)
			if err != nil {
				return err
			}
			op, err := fuzzy.ParseOperator(opFlag)
			if err != nil {
				return err
			}
			m, err := flags.matcher(cmd.Flags(), cfg)
			if err != nil {
				return err
			}
			ok, err := m.Evaluate(args[0], args[1:], logic, op)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, map[string]any{"result": ok})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}
	flags.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&logicFlag, "logic", "any", "Combine comparisons with any or all")
	cmd.Flags().StringVar(&opFlag, "operator", ">=", "Comparison: >=, <=, >, < or ==")
	return cmd
}
