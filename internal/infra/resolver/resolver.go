// Package resolver determines the current ticket by running the user's
// current-ticket shell command.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/runoshun/gitask/internal/domain"
)

// ShellResolver runs a shell command and reads the ticket id from its stdout.
// The first result is memoized so every step of one invocation sees the same id.
type ShellResolver struct {
	executor domain.CommandExecutor
	err      error
	script   string
	dir      string
	ticket   string
	mu       sync.Mutex
	resolved bool
}

// Ensure ShellResolver implements domain.TicketResolver interface.
var _ domain.TicketResolver = (*ShellResolver)(nil)

// New creates a resolver for script, run in dir.
func New(executor domain.CommandExecutor, script, dir string) *ShellResolver {
	return &ShellResolver{
		executor: executor,
		script:   script,
		dir:      dir,
	}
}

// Resolve returns the current ticket id.
func (r *ShellResolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.ticket, r.err
	}
	ticket, err := r.run(ctx)
	if ctx.Err() == nil {
		r.ticket, r.err, r.resolved = ticket, err, true
	}
	return ticket, err
}

func (r *ShellResolver) run(ctx context.Context) (string, error) {
	if strings.TrimSpace(r.script) == "" {
		return "", fmt.Errorf("%w: no current ticket script defined", domain.ErrConfiguration)
	}

	out, err := r.executor.Execute(ctx, domain.NewShellCommand(r.script, r.dir))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return "", fmt.Errorf("%w: %s: %s", domain.ErrTicketResolution, stderr, err)
			}
		}
		return "", fmt.Errorf("%w: %w", domain.ErrTicketResolution, err)
	}

	ticket := strings.TrimSpace(string(out))
	if ticket == "" {
		return "", domain.ErrEmptyTicket
	}
	if strings.ContainsAny(ticket, "\n\r") {
		return "", fmt.Errorf("%w: %q spans multiple lines", domain.ErrInvalidTicket, ticket)
	}
	return ticket, nil
}
