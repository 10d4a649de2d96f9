package domain

import (
	"context"
	"io"
)

// TicketProvider moves tickets through statuses in a project-management tool.
type TicketProvider interface {
	// Name returns the provider tag (e.g. "jira").
	Name() string

	// Supports reports whether the provider implements an optional capability.
	Supports(capability Capability) bool

	// CurrentStatus returns the ticket's current status name.
	CurrentStatus(ctx context.Context, ticket string) (string, error)

	// FindValidTransition returns the first candidate, in the given order,
	// reachable from the ticket's current status.
	// Returns ErrNoValidTransition if none is reachable.
	FindValidTransition(ctx context.Context, ticket string, candidates []string) (string, error)

	// UpdateStatus moves the ticket to status.
	UpdateStatus(ctx context.Context, ticket, status string) error

	// LookupUser resolves a username to a provider user handle.
	// Returns ErrUserNotFound if there is no match.
	LookupUser(ctx context.Context, username string) (*UserHandle, error)

	// SetCustomField writes value into a custom field of the ticket.
	SetCustomField(ctx context.Context, ticket, field string, value any) error
}

// RepoHost opens pull/merge requests on a version-control host.
type RepoHost interface {
	// Name returns the host tag (e.g. "gitlab").
	Name() string

	// OpenPullRequest creates a request for pr, or returns the open one
	// already associated with its source branch.
	// A non-nil result may accompany an error when the request was created
	// but a follow-up step failed.
	OpenPullRequest(ctx context.Context, pr PullRequest) (*PullRequestResult, error)
}

// TicketResolver yields the ticket id the user is currently working on.
type TicketResolver interface {
	// Resolve returns the current ticket id.
	Resolve(ctx context.Context) (string, error)
}

// Git provides the git operations needed by the workflow.
type Git interface {
	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch() (string, error)
}

// HookRunner executes user-configured hook scripts.
type HookRunner interface {
	// Run executes the hook synchronously.
	Run(ctx context.Context, inv HookInvocation) error
}

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Execute runs the command and returns its standard output.
	// On a non-zero exit the returned error carries standard error.
	Execute(ctx context.Context, cmd *ExecCommand) ([]byte, error)

	// ExecuteWithContext runs a command with custom stdout/stderr writers.
	ExecuteWithContext(ctx context.Context, cmd *ExecCommand, stdout, stderr io.Writer) error
}

// ConfigLoader loads the configuration snapshot.
type ConfigLoader interface {
	// Load reads and validates the configuration.
	Load() (*Config, error)

	// Path returns the configuration file location.
	Path() string
}

// ConfigWriter writes configuration templates.
type ConfigWriter interface {
	// InitConfig writes a template config file.
	// Returns ErrConfigExists unless force is set.
	InitConfig(force bool) error

	// Path returns the configuration file location.
	Path() string
}

// Logger provides logging functionality.
type Logger interface {
	// Info logs an info message.
	Info(ticket, category, msg string)

	// Debug logs a debug message.
	Debug(ticket, category, msg string)

	// Warn logs a warning message.
	Warn(ticket, category, msg string)

	// Error logs an error message.
	Error(ticket, category, msg string)
}

// NopLogger discards every log entry.
type NopLogger struct{}

func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}
