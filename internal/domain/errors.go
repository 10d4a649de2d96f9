package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors.
var (
	ErrConfiguration        = errors.New("configuration error")
	ErrConfigExists         = errors.New("config file already exists")
	ErrNoValidTransition    = errors.New("no valid status transition")
	ErrUserNotFound         = errors.New("user not found")
	ErrRemoteService        = errors.New("remote service error")
	ErrUnsupportedOperation = errors.New("operation not supported by provider")
	ErrHookNotFound         = errors.New("hook script not found")
	ErrHookExecutionFailed  = errors.New("hook script failed")
	ErrHookPermissionDenied = errors.New("failed to execute hook script")
	ErrUnsupportedHookType  = errors.New("unsupported hook script type")
	ErrEmptyTicket          = errors.New("current ticket script printed nothing")
	ErrTicketResolution     = errors.New("failed to resolve current ticket")
	ErrInvalidTicket        = errors.New("invalid ticket id")
	ErrMissingReviewer      = errors.New("reviewer is required")
	ErrNotGitRepository     = errors.New("not a git repository (or any of the parent directories)")
	ErrDetachedHead         = errors.New("HEAD is detached, check out a branch first")
)

// RemoteError is returned when a remote service rejects a request.
// It carries the service's own messages so they can be shown to the user.
type RemoteError struct {
	FieldErrors map[string]string
	Service     string
	Messages    []string
	StatusCode  int
}

func (e *RemoteError) Error() string {
	parts := append([]string{}, e.Messages...)
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.FieldErrors[k]))
	}
	msg := fmt.Sprintf("%s request failed (HTTP %d)", e.Service, e.StatusCode)
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

// Unwrap lets errors.Is match ErrRemoteService.
func (e *RemoteError) Unwrap() error {
	return ErrRemoteService
}

// NewNoValidTransitionError reports that none of the candidates is reachable.
func NewNoValidTransitionError(current, ticket string) error {
	return fmt.Errorf("%w: invalid status transition from current status '%s' for issue '%s'",
		ErrNoValidTransition, current, ticket)
}
