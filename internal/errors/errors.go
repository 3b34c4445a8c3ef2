package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/keptword/internal/logger"
)

// Exit statuses returned by the keptword binary
const (
	ExitFailure = 1
	ExitInvalid = 2 // the request was rejected before anything was written
)

var (
	stderr   io.Writer = os.Stderr
	exitFunc           = os.Exit
)

// Format renders err for the terminal with a consistent "Error: " prefix.
// A failed write also says which slot missed the change.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)

	var pe *PersistenceWriteError
	if stderrors.As(err, &pe) {
		msg += fmt.Sprintf("\nThe change to %q was not saved. Run 'keptword doctor' to check storage.", pe.Key)
	}
	return msg
}

// ExitCode maps err to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsValidation(err):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// Fatal logs err, prints it and exits. It does nothing when err is nil.
func Fatal(err error) {
	if err == nil {
		return
	}
	code := ExitCode(err)
	logger.Error("Command execution failed", "error", err, "exit", code)
	fmt.Fprintln(stderr, Format(err))
	exitFunc(code)
}
