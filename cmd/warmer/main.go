// Command warmer pre-fetches block device extents or file contents into
// the page cache ahead of a workload's own reads.
package main

import (
	"fmt"
	"os"

	"github.com/pastelsky/ebs-warmer/internal/cmd"
	"github.com/pastelsky/ebs-warmer/internal/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// internal/cmd already printed a JSON error envelope when in JSON
		// mode, so only add a plain-text line here in the non-JSON case.
		if !output.IsJSON() {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(output.ExitError)
	}
}
