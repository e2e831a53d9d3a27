package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spicyzboss/prisma-client-go/prisma"
	"github.com/spicyzboss/prisma-client-go/prisma/fixture"
)

func newDecodeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Infer the typed value of an untagged JSON document",
		Long: `Read a JSON document from FILE (or stdin) and print the value it decodes
to. The variant is inferred from the shape of the document, so text always
decodes as String and whole numbers as Int or BigInt.

With --format yaml the value is written as a fixture that "resolve" can load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return runDecode(configFrom(cmd.Context()), cmd.OutOrStdout(), data, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format for the decoded value (json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runDecode(cfg *Config, w io.Writer, data []byte, format string) error {
	v, err := prisma.Decode(data)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		out, err := encodeJSON(v, cfg.Indent)
		if err != nil {
			return fmt.Errorf("encode value: %w", err)
		}
		fmt.Fprintf(w, "%s\n%s\n", v.Kind(), out)
	case "yaml":
		c, err := prisma.ToCore(v)
		if err != nil {
			return err
		}
		out, err := fixture.Dump(c)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("invalid format %q (want json or yaml)", format)
	}
	return nil
}
