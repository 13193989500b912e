package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrRemoteFailure   = errors.New("remote failure")
)

// InvalidArgumentError is raised before any network call.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	if e.Field == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func InvalidArgument(field, format string, args ...any) error {
	return InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a coordinate that does not exist in the snapshot.
// Available is how many of Kind actually exist in the scope searched.
type NotFoundError struct {
	Kind      string
	Number    int
	Section   int
	Available int
}

func (e NotFoundError) Error() string {
	if e.Kind == "question" && e.Section > 0 {
		return fmt.Sprintf("question %d not found in section %d (only %d questions exist)", e.Number, e.Section, e.Available)
	}
	return fmt.Sprintf("%s %d not found (only %d %ss exist)", e.Kind, e.Number, e.Available, e.Kind)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// RemoteFailureError wraps a rejected batch. OpIndex is -1 when the service
// did not say which operation failed.
type RemoteFailureError struct {
	OpIndex int
	Status  int
	Message string
	Err     error
}

func (e *RemoteFailureError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.OpIndex >= 0 {
		return fmt.Sprintf("remote rejected operation %d: %s", e.OpIndex, msg)
	}
	return "remote request failed: " + msg
}

func (e *RemoteFailureError) Unwrap() error { return e.Err }

func (e *RemoteFailureError) Is(target error) bool { return target == ErrRemoteFailure }
