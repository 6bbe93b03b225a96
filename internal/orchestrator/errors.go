package orchestrator

import "fmt"

// OptionError wraps an invalid or inconsistent configuration discovered at
// startup (spec.md §7: fatal, exit code 1).
type OptionError struct{ Err error }

func (e *OptionError) Error() string { return fmt.Sprintf("option error: %v", e.Err) }
func (e *OptionError) Unwrap() error { return e.Err }

// ProbeError wraps a device that could not be opened or sized (fatal).
type ProbeError struct{ Err error }

func (e *ProbeError) Error() string { return fmt.Sprintf("probe error: %v", e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// EngineError wraps a SubmissionEngine that could not be started after
// exhausting every fallback backend (fatal).
type EngineError struct{ Err error }

func (e *EngineError) Error() string { return fmt.Sprintf("engine error: %v", e.Err) }
func (e *EngineError) Unwrap() error { return e.Err }
