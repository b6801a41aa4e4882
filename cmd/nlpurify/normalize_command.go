package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/decoder"
	"github.com/baditaflorin/go_nlpurify/pkg/normalize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// normalizeFlags overrides [normalize] settings for a single invocation.
type normalizeFlags struct {
	preset       string
	form         string
	stripChars   string
	lowercase    bool
	uppercase    bool
	sentenceCase bool
	stopWords    bool
	keepBreaks   bool
	trimLines    bool
}

func (f *normalizeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "Start from a preset: identity, whitespace, matching or strict")
	fs.StringVar(&f.form, "form", "", "Unicode form: none, nfc, nfd, nfkc or nfkd")
	fs.StringVar(&f.stripChars, "strip-chars", "", "Characters to remove")
	fs.BoolVar(&f.lowercase, "lowercase", false, "Lowercase the text")
	fs.BoolVar(&f.uppercase, "uppercase", false, "Uppercase the text")
	fs.BoolVar(&f.sentenceCase, "sentence-case", false, "Capitalize the first letter of each sentence")
	fs.BoolVar(&f.stopWords, "stop-words", false, "Remove english stop words")
	fs.BoolVar(&f.keepBreaks, "keep-linebreaks", false, "Do not collapse line breaks")
	fs.BoolVar(&f.trimLines, "trim-lines", false, "Trim whitespace around every line")
}

// options turns the flags that were set into normalize options applied over base.
func (f *normalizeFlags) options(fs *pflag.FlagSet, base normalize.Config) ([]normalize.Option, error) {
	opts := []normalize.Option{normalize.WithConfig(base)}
	if fs.Changed("preset") {
		opts = append(opts, normalize.WithPreset(f.preset))
	}
	if fs.Changed("form") {
		form, err := normalize.ParseUnicodeForm(f.form)
		if err != nil {
			return nil, err
		}
		opts = append(opts, normalize.WithUnicodeForm(form))
	}
	if fs.Changed("strip-chars") {
		opts = append(opts, normalize.WithStripChars(f.stripChars))
	}
	// An explicit case flag replaces whatever case mode the config selected.
	if fs.Changed("lowercase") || fs.Changed("uppercase") || fs.Changed("sentence-case") {
		opts = append(opts,
			normalize.WithLowercase(f.lowercase),
			normalize.WithUppercase(f.uppercase),
			normalize.WithSentenceCase(f.sentenceCase),
		)
	}
	if fs.Changed("stop-words") && f.stopWords {
		opts = append(opts, normalize.WithStopWords("english"))
	}
	if fs.Changed("trim-lines") {
		opts = append(opts, normalize.WithTrimLines(f.trimLines))
	}
	if fs.Changed("keep-linebreaks") {
		opts = append(opts, normalize.WithStripLinebreaks(!f.keepBreaks))
	}
	return opts, nil
}

// checkCharset rejects an unknown --charset before any input is read.
func checkCharset(charset string) error {
	if !decoder.Supported(charset) {
		return fmt.Errorf("unknown charset %q", charset)
	}
	return nil
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var flags normalizeFlags
	var trace bool
	var charset string

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Normalize text given as arguments or read from stdin",
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
			n, err := normalize.New(opts...)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if text, err = decoder.Decode(data, charset); err != nil {
					return err
				}
			}

			out, err := n.Trace(text)
			if err != nil {
				return err
			}
			if trace {
				return writeJSON(cmd, out)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return err
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&trace, "trace", false, "Print JSON with the stages that changed the text")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset of stdin (default utf-8)")
	return cmd
}
