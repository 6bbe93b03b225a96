package cmd

import (
	"fmt"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/output"
	"github.com/spf13/cobra"
)

// addConfigCommands registers `warmer config get|set`, adapted from the
// teacher's internal/cmd/config.go — operating on the persisted defaults
// file (~/.warmer/config.toml) rather than a per-run Config.
func addConfigCommands(parent *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set persisted option defaults",
		Long:  "Read or write values in ~/.warmer/config.toml, the defaults layer flags and env vars override at runtime.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := config.LoadDefaults()
			if err != nil {
				return reportFailure(cmd, "option_error", err)
			}
			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", config.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "read_size_kb = %d\n", d.ReadSizeKB)
			fmt.Fprintf(cmd.OutOrStdout(), "stride_kb = %d\n", d.StrideKB)
			fmt.Fprintf(cmd.OutOrStdout(), "queue_depth = %d\n", d.QueueDepth)
			fmt.Fprintf(cmd.OutOrStdout(), "threads = %d\n", d.Threads)
			fmt.Fprintf(cmd.OutOrStdout(), "throttle = %d\n", d.Throttle)
			fmt.Fprintf(cmd.OutOrStdout(), "io_backend = %s\n", d.IOBackend)
			fmt.Fprintf(cmd.OutOrStdout(), "ignore_file = %s\n", d.IgnoreFileName())
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one persisted default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := config.Get(args[0])
			if err != nil {
				return reportFailure(cmd, "option_error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}

	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist one default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Set(args[0], args[1]); err != nil {
				return reportFailure(cmd, "option_error", err)
			}
			if !output.IsSilent() {
				fmt.Fprintf(cmd.OutOrStdout(), "set %s = %s\n", args[0], args[1])
			}
			return nil
		},
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return nil
		},
	}

	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	parent.AddCommand(configCmd)
}
