// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"io"

	"github.com/runoshun/gitask/internal/domain"
)

// Recorder collects the names of calls made across several mocks,
// so tests can assert ordering between them.
type Recorder struct {
	Calls []string
}

func (r *Recorder) add(format string, args ...any) {
	if r == nil {
		return
	}
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// MockTicketProvider is a test double for domain.TicketProvider.
// Fields are ordered to minimize memory padding.
type MockTicketProvider struct {
	Capabilities     map[domain.Capability]bool
	Fields           map[string]any
	FieldErrs        map[string]error
	User             *domain.UserHandle
	Recorder         *Recorder
	CurrentErr       error
	FindErr          error
	UpdateErr        error
	LookupErr        error
	NameV            string
	Current          string
	UpdatedStatus    string
	UpdatedTicket    string
	LookedUpUsername string
	Reachable        []string
	UpdateCount      int
}

// NewMockTicketProvider creates a provider supporting every capability.
func NewMockTicketProvider() *MockTicketProvider {
	return &MockTicketProvider{
		NameV: "mock",
		Capabilities: map[domain.Capability]bool{
			domain.CapabilityCustomFields: true,
			domain.CapabilityUserLookup:   true,
		},
		Fields:    make(map[string]any),
		FieldErrs: make(map[string]error),
	}
}

// Name returns the configured name.
func (m *MockTicketProvider) Name() string { return m.NameV }

// Supports reports the configured capabilities.
func (m *MockTicketProvider) Supports(c domain.Capability) bool { return m.Capabilities[c] }

// CurrentStatus returns the configured status.
func (m *MockTicketProvider) CurrentStatus(_ context.Context, ticket string) (string, error) {
	m.Recorder.add("current:%s", ticket)
	if m.CurrentErr != nil {
		return "", m.CurrentErr
	}
	return m.Current, nil
}

// FindValidTransition picks from Reachable.
func (m *MockTicketProvider) FindValidTransition(_ context.Context, ticket string, candidates []string) (string, error) {
	m.Recorder.add("find:%s", ticket)
	if m.FindErr != nil {
		return "", m.FindErr
	}
	if s, ok := domain.FirstReachable(candidates, m.Reachable); ok {
		return s, nil
	}
	return "", domain.NewNoValidTransitionError(m.Current, ticket)
}

// UpdateStatus records the update.
func (m *MockTicketProvider) UpdateStatus(_ context.Context, ticket, status string) error {
	m.Recorder.add("update:%s:%s", ticket, status)
	m.UpdateCount++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedTicket = ticket
	m.UpdatedStatus = status
	return nil
}

// LookupUser returns the configured user.
func (m *MockTicketProvider) LookupUser(_ context.Context, username string) (*domain.UserHandle, error) {
	m.Recorder.add("lookup:%s", username)
	m.LookedUpUsername = username
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if m.User != nil {
		return m.User, nil
	}
	return &domain.UserHandle{Username: username}, nil
}

// SetCustomField records the field value.
func (m *MockTicketProvider) SetCustomField(_ context.Context, ticket, field string, value any) error {
	m.Recorder.add("field:%s:%s", ticket, field)
	if err := m.FieldErrs[field]; err != nil {
		return err
	}
	m.Fields[field] = value
	return nil
}

// MockRepoHost is a test double for domain.RepoHost.
type MockRepoHost struct {
	Result   *domain.PullRequestResult
	Err      error
	Recorder *Recorder
	Opened   *domain.PullRequest
	NameV    string
	Count    int
}

// Name returns the configured name.
func (m *MockRepoHost) Name() string { return m.NameV }

// OpenPullRequest records pr and returns the configured result.
func (m *MockRepoHost) OpenPullRequest(_ context.Context, pr domain.PullRequest) (*domain.PullRequestResult, error) {
	m.Recorder.add("pr:%s->%s", pr.SourceBranch, pr.TargetBranch)
	m.Count++
	m.Opened = &pr
	if m.Result == nil && m.Err == nil {
		return &domain.PullRequestResult{URL: "https://example.com/pr/1", Number: 1}, nil
	}
	return m.Result, m.Err
}

// MockTicketResolver is a test double for domain.TicketResolver.
type MockTicketResolver struct {
	Err      error
	Recorder *Recorder
	Ticket   string
	Count    int
}

// Resolve returns the configured ticket.
func (m *MockTicketResolver) Resolve(_ context.Context) (string, error) {
	m.Recorder.add("resolve")
	m.Count++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Ticket, nil
}

// MockGit is a test double for domain.Git.
type MockGit struct {
	CurrentBranchErr error
	CurrentBranchV   string
}

// CurrentBranch returns the configured branch.
func (m *MockGit) CurrentBranch() (string, error) {
	if m.CurrentBranchErr != nil {
		return "", m.CurrentBranchErr
	}
	return m.CurrentBranchV, nil
}

// MockHookRunner is a test double for domain.HookRunner.
type MockHookRunner struct {
	Errs     map[string]error // keyed by "action:phase"
	Recorder *Recorder
	Runs     []domain.HookInvocation
}

// Run records the invocation.
func (m *MockHookRunner) Run(_ context.Context, inv domain.HookInvocation) error {
	m.Recorder.add("hook:%s:%s", inv.Action, inv.Phase)
	m.Runs = append(m.Runs, inv)
	return m.Errs[inv.Action+":"+inv.Phase]
}

// MockCommandExecutor is a test double for domain.CommandExecutor.
// Fields are ordered to minimize memory padding.
type MockCommandExecutor struct {
	ExecuteErr   error
	ExecutedCmd  *domain.ExecCommand
	Output       []byte
	Stdout       string
	ExecuteCount int
}

// Execute records the command and returns the configured output.
func (m *MockCommandExecutor) Execute(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	m.ExecutedCmd = cmd
	m.ExecuteCount++
	if m.ExecuteErr != nil {
		return nil, m.ExecuteErr
	}
	return m.Output, nil
}

// ExecuteWithContext records the command and writes Stdout.
func (m *MockCommandExecutor) ExecuteWithContext(_ context.Context, cmd *domain.ExecCommand, stdout, _ io.Writer) error {
	m.ExecutedCmd = cmd
	m.ExecuteCount++
	if m.ExecuteErr != nil {
		return m.ExecuteErr
	}
	if stdout != nil && m.Stdout != "" {
		_, _ = io.WriteString(stdout, m.Stdout)
	}
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
	PathV   string
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// Path returns the configured path.
func (m *MockConfigLoader) Path() string { return m.PathV }

// MockConfigWriter is a test double for domain.ConfigWriter.
type MockConfigWriter struct {
	InitErr    error
	PathV      string
	InitCalled bool
	Force      bool
}

// InitConfig records the call.
func (m *MockConfigWriter) InitConfig(force bool) error {
	m.InitCalled = true
	m.Force = force
	return m.InitErr
}

// Path returns the configured path.
func (m *MockConfigWriter) Path() string { return m.PathV }

// NewTestConfig returns a config with one candidate per phase.
func NewTestConfig() *domain.Config {
	return &domain.Config{
		PMTType:       "jira",
		VCSType:       "gitlab",
		GitProject:    "team/service",
		CurrentTicket: "echo PROJ-1",
		DefaultBranch: domain.DefaultTargetBranch,
		LogLevel:      domain.DefaultLogLevel,
		Statuses: domain.Statuses{
			ToDo:       []string{"To Do"},
			InProgress: []string{"In Progress"},
			InReview:   []string{"In Review", "Code Review"},
			Done:       []string{"Done"},
		},
		Hooks: map[string]domain.HookConfig{},
	}
}
