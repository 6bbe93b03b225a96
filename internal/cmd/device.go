package cmd

import (
	"fmt"
	"os"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/observer"
	"github.com/pastelsky/ebs-warmer/internal/orchestrator"
	"github.com/pastelsky/ebs-warmer/internal/output"
	"github.com/spf13/cobra"
)

func addDeviceCommand(parent *cobra.Command) {
	var flags commonFlags

	deviceCmd := &cobra.Command{
		Use:   "device [OPTIONS] <dir1> [<dir2> ...] <device>",
		Short: "Warm a block device by extent (Core A)",
		Long: `Discover the physical extents backing files under the given
directories, sort them into device order, and issue strided asynchronous
reads directly against the raw device. With --full-disk, follows with a
second pass over the rest of the device, skipping strides already warmed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, device := args[:len(args)-1], args[len(args)-1]
			return runDeviceCmd(cmd, &flags, dirs, device)
		},
	}
	registerCommonFlags(deviceCmd, &flags)
	parent.AddCommand(deviceCmd)
}

func runDeviceCmd(cmd *cobra.Command, flags *commonFlags, dirs []string, device string) error {
	opts, err := buildOptions(cmd, flags)
	if err != nil {
		return reportFailure(cmd, "option_error", err)
	}
	if !cmd.Flags().Changed("direct-io") {
		opts = append(opts, config.WithDirectIO(true)) // device mode default per SPEC_FULL.md §6
	}

	cfg, err := config.Build(config.ModeDevice, dirs, device, opts...)
	if err != nil {
		return reportFailure(cmd, "option_error", &orchestrator.OptionError{Err: err})
	}

	obs := observer.New(cmd.ErrOrStderr(), cfg.Silent, cfg.Debug)
	res, err := orchestrator.Run(cfg, obs)
	if err != nil {
		return reportFailure(cmd, errorCode(err), err)
	}
	return reportResult(cmd, res)
}

func errorCode(err error) string {
	switch err.(type) {
	case *orchestrator.OptionError:
		return "option_error"
	case *orchestrator.ProbeError:
		return "probe_error"
	case *orchestrator.EngineError:
		return "engine_error"
	default:
		return "error"
	}
}

// reportFailure prints a JSON error envelope when in JSON mode (so
// scripted callers get parseable failure output) and always returns err
// so main can pick an exit code — SilenceErrors keeps cobra itself from
// printing a second, plain-text copy.
func reportFailure(cmd *cobra.Command, code string, err error) error {
	if output.IsJSON() {
		output.PrintError(cmd.OutOrStdout(), code, err.Error())
	}
	return err
}

func reportResult(cmd *cobra.Command, res *orchestrator.Result) error {
	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), res)
	}
	if !output.IsSilent() {
		fmt.Fprintf(cmd.OutOrStdout(), "backend=%s warmed=%d/%d\n", res.Backend, res.ItemsDone, res.ItemsTotal)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	return nil
}
