package main

import "fmt"

// Exit codes for the modgraph CLI.
const (
	ExitOK             = 0 // Query answered.
	ExitInvalidArgs    = 1 // Invalid arguments, bad path or bad config.
	ExitFindings       = 2 // A --fail-on check found something.
	ExitPartialFailure = 3 // Diagnostics were not clean under --strict.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitFindings:
			msg = "modgraph: check failed"
		case ExitPartialFailure:
			msg = "modgraph: some files could not be read or resolved"
		default:
			msg = "modgraph: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
