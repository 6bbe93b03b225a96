// Package cmd wires warmer's cobra command tree: a root command plus
// addDeviceCommand/addFilesCommand/addConfigCommands, matching the
// teacher's addXCommands(parent *cobra.Command) registration idiom in
// go_src/internal/cmd/root.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/pastelsky/ebs-warmer/internal/config"
	"github.com/pastelsky/ebs-warmer/internal/logging"
	"github.com/pastelsky/ebs-warmer/internal/output"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags, the same pattern the
// teacher uses for its own Version var.
var Version = "dev"

var (
	jsonFlag      bool
	silentFlag    bool
	debugFlag     bool
	syslogFlag    bool
	configDirFlag string
)

// NewRootCmd assembles the full command tree.
func NewRootCmd() *cobra.Command {
	root := newRootCmd()
	addDeviceCommand(root)
	addFilesCommand(root)
	addConfigCommands(root)
	return root
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "warmer",
		Short:         "Pre-fetch block device or file cache contents ahead of workload reads",
		Long:          "warmer forces every block behind a chosen set of files, or an entire device, to be fetched from its backing store before an application needs it.",
		Version:       fmt.Sprintf("warmer v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetDir(configDirFlag)
			output.SetFlags(jsonFlag, silentFlag, debugFlag)
			logging.Init(debugFlag, syslogFlag)
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pflags := root.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "output machine-readable JSON")
	pflags.BoolVar(&silentFlag, "silent", false, "suppress progress output")
	pflags.BoolVar(&debugFlag, "debug", false, "verbose structured debug events")
	pflags.BoolVar(&syslogFlag, "syslog", false, "mirror logs to the system logger")
	pflags.StringVar(&configDirFlag, "config-dir", "", "override config directory (default: ~/.warmer)")

	if v := os.Getenv("WARMER_HOME"); v != "" && configDirFlag == "" {
		configDirFlag = v
	}

	return root
}

// Execute runs the command tree and returns any error for main to report.
func Execute() error {
	return NewRootCmd().Execute()
}
