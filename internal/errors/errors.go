package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/carddelivery/internal/logger"
)

// ErrInvalidForm is returned by commands whose form input failed validation.
// The report has already been printed; only the exit status is left to set.
var ErrInvalidForm = stderrors.New("form did not pass validation")

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidForm = 2
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, ErrInvalidForm):
		return ExitInvalidForm
	default:
		return ExitFailure
	}
}

// Report writes err to w unless it only signals an invalid form, and returns the exit status.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if code == ExitFailure {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(w, Format(err))
	}
	return code
}

// Fatal reports err on stderr and exits with its status. A nil error is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	os.Exit(Report(os.Stderr, err))
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
