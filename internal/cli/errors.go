package cli

import (
	"errors"

	"formctl/internal/model"
)

const (
	exitFailure  = 1
	exitInvalid  = 2
	exitNotFound = 3
	exitRemote   = 4
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrInvalidArgument):
		return exitInvalid
	case errors.Is(err, model.ErrNotFound):
		return exitNotFound
	case errors.Is(err, model.ErrRemoteFailure):
		return exitRemote
	default:
		return exitFailure
	}
}
