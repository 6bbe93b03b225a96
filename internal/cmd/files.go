package cmd

import (
	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/observer"
	"github.com/pastelsky/ebs-warmer/internal/orchestrator"
	"github.com/spf13/cobra"
)

func addFilesCommand(parent *cobra.Command) {
	var flags commonFlags

	filesCmd := &cobra.Command{
		Use:   "files [OPTIONS] <dir1> [<dir2> ...]",
		Short: "Warm file contents into the page cache (Core B)",
		Long: `Walk the given directory trees and warm each regular file
through the strategy selected for it: an OS-native residency hint, a full
async read of the file, or sparse sampling for very large files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilesCmd(cmd, &flags, args)
		},
	}
	registerCommonFlags(filesCmd, &flags)
	parent.AddCommand(filesCmd)
}

func runFilesCmd(cmd *cobra.Command, flags *commonFlags, dirs []string) error {
	opts, err := buildOptions(cmd, flags)
	if err != nil {
		return reportFailure(cmd, "option_error", err)
	}

	cfg, err := config.Build(config.ModeFiles, dirs, "", opts...)
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
