package main

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spicyzboss/prisma-client-go/prisma/annotations"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

type loggerKey struct{}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "prisma-values",
		Short: "Inspect and resolve typed query result values",
		Long: `prisma-values loads canonical query result trees from YAML fixtures,
resolves shared sub-trees and prints the typed result as untagged JSON or as
a markdown table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := loadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if cfg.Color == colorNever {
				color.NoColor = true
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./prisma-values.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (json|table)")
	rootCmd.PersistentFlags().Int("indent", 0, "Indent JSON output by this many spaces")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print resolution events to stderr")
	rootCmd.PersistentFlags().String("color", "", "Colorize events (auto|always|never)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputJSON, outputTable}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{colorAuto, colorAlways, colorNever}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newDecodeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func configFrom(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{Output: outputJSON, Color: colorAuto}
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventHandler returns the annotation handler for verbose runs, or nil.
// Resolutions run concurrently, so writes to w are serialized.
func eventHandler(cfg *Config, w io.Writer) annotations.Handler {
	if !cfg.Verbose {
		return nil
	}

	var formatter *annotations.OutputFormatter
	switch cfg.Color {
	case colorAlways:
		formatter = annotations.NewOutputFormatterWithColor(w, true)
	case colorNever:
		formatter = annotations.NewOutputFormatterWithColor(w, false)
	default:
		formatter = annotations.NewOutputFormatter(w)
	}

	var mu sync.Mutex
	return func(event annotations.Event) {
		mu.Lock()
		defer mu.Unlock()
		formatter.Handle(event)
	}
}
