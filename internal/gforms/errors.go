package gforms

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"google.golang.org/api/googleapi"

	"formctl/internal/model"
)

// The API names the failing request in its message, e.g.
// "Invalid requests[2].moveItem: ...".
var failingRequest = regexp.MustCompile(`requests\[(\d+)\]`)

func remoteError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	rf := &model.RemoteFailureError{OpIndex: -1, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		rf.Status = gerr.Code
		rf.Message = gerr.Message
		if m := failingRequest.FindStringSubmatch(gerr.Message); m != nil {
			if n, convErr := strconv.Atoi(m[1]); convErr == nil {
				rf.OpIndex = n
			}
		}
	}
	return rf
}
