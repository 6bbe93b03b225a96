// Package output is warmer's presentation layer: exit codes, the
// --json/--silent/--debug mode flags, and the JSON result envelope.
// Adapted from the teacher's internal/output/output.go (go_src tree) —
// same SetFlags/IsX/PrintJSON/PrintError shape, retargeted at warmer's
// own exit codes and envelope.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exit codes, per spec.md §6: "0 success; 1 option/validation error,
// device unstattable, or engine-unstartable; help/version exits 0."
const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagJSON   bool
	flagSilent bool
	flagDebug  bool
)

// SetFlags propagates the root command's global flags to every component
// that needs to branch on output mode without threading it through every
// call site.
func SetFlags(jsonMode, silent, debug bool) {
	flagJSON = jsonMode
	flagSilent = silent
	flagDebug = debug
}

func IsJSON() bool   { return flagJSON }
func IsSilent() bool { return flagSilent }
func IsDebug() bool  { return flagDebug }

// PrintJSON marshals v as indented JSON to w.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintError writes a JSON error envelope to w; used when IsJSON() so
// scripted callers get a parseable failure instead of free text.
func PrintError(w io.Writer, code, message string) error {
	return PrintJSON(w, map[string]string{
		"error":   code,
		"message": message,
	})
}
