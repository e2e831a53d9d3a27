package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spicyzboss/prisma-client-go/prisma"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
	"github.com/spicyzboss/prisma-client-go/prisma/fixture"
	"golang.org/x/sync/errgroup"
)

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Resolve YAML result fixtures to typed values",
		Long: `Load each fixture, resolve its shared sub-trees and print the result.

Files are resolved concurrently and printed in argument order. YAML anchors
in a fixture mark shared sub-trees; with --verbose every reclaimed or copied
sub-tree is reported on stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return runResolve(ctx, configFrom(ctx), loggerFrom(ctx), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
}

func runResolve(ctx context.Context, cfg *Config, logger *slog.Logger, out, errOut io.Writer, paths []string) error {
	stats := prisma.NewStats()
	resolver := prisma.NewResolver(
		prisma.WithStats(stats),
		prisma.WithHandler(eventHandler(cfg, errOut)),
	)
	results := make([]prisma.Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tree, err := fixture.LoadFile(path)
			if err != nil {
				return err
			}
			item, err := resolveTree(resolver, tree)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = item
			logger.Debug("resolved fixture", "path", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	snap := stats.Snapshot()
	logger.Debug("resolution done",
		"files", len(paths),
		"values", snap.Values,
		"reclaimed", snap.Reclaimed,
		"cloned", snap.Cloned)

	return writeItems(out, cfg, paths, results)
}

// resolveTree reports a fault in a fixture as an error, ending the command
// rather than crashing every resolution running alongside it.
func resolveTree(r *prisma.Resolver, tree core.Item) (item prisma.Item, err error) {
	defer func() {
		if p := recover(); p != nil {
			fe, ok := p.(*prisma.FaultError)
			if !ok {
				panic(p)
			}
			err = fe
		}
	}()
	return r.Resolve(tree), nil
}

func writeItems(w io.Writer, cfg *Config, paths []string, items []prisma.Item) error {
	if cfg.Output == outputTable {
		tf := prisma.NewTableFormatter()
		for i, item := range items {
			if len(items) > 1 {
				fmt.Fprintf(w, "### %s\n\n", paths[i])
			}
			fmt.Fprintln(w, tf.FormatItem(item))
		}
		return nil
	}

	for i, item := range items {
		data, err := encodeJSON(item, cfg.Indent)
		if err != nil {
			return fmt.Errorf("%s: encode result: %w", paths[i], err)
		}
		fmt.Fprintf(w, "%s\n", data)
	}
	return nil
}

func encodeJSON(v any, indent int) ([]byte, error) {
	if indent > 0 {
		return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	}
	return json.Marshal(v)
}
