package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v61/github"

	"github.com/runoshun/gitask/internal/domain"
)

// Issue states.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// stateTransitions lists the states reachable from each issue state.
var stateTransitions = map[string][]string{
	StateOpen:   {StateClosed},
	StateClosed: {StateOpen},
}

// IssuesProvider implements domain.TicketProvider on GitHub Issues.
// Issues only have the open and closed states and no custom fields.
type IssuesProvider struct {
	client *github.Client
	owner  string
	repo   string
}

// Ensure IssuesProvider implements domain.TicketProvider interface.
var _ domain.TicketProvider = (*IssuesProvider)(nil)

// NewIssuesProvider creates a provider for owner/repo.
func NewIssuesProvider(client *github.Client, owner, repo string) *IssuesProvider {
	return &IssuesProvider{client: client, owner: owner, repo: repo}
}

// Name returns "github".
func (p *IssuesProvider) Name() string { return "github" }

// Supports reports user lookup only.
func (p *IssuesProvider) Supports(c domain.Capability) bool {
	return c == domain.CapabilityUserLookup
}

// CurrentStatus returns "open" or "closed".
func (p *IssuesProvider) CurrentStatus(ctx context.Context, ticket string) (string, error) {
	n, err := ParseIssueNumber(ticket)
	if err != nil {
		return "", err
	}
	issue, _, err := p.client.Issues.Get(ctx, p.owner, p.repo, n)
	if err != nil {
		return "", fmt.Errorf("fetch issue #%d: %w", n, toDomainError(err))
	}
	return issue.GetState(), nil
}

// FindValidTransition returns the first candidate reachable from the issue state.
func (p *IssuesProvider) FindValidTransition(ctx context.Context, ticket string, candidates []string) (string, error) {
	current, err := p.CurrentStatus(ctx, ticket)
	if err != nil {
		return "", err
	}
	if status, ok := domain.FirstReachable(candidates, stateTransitions[current]); ok {
		return status, nil
	}
	return "", domain.NewNoValidTransitionError(current, ticket)
}

// UpdateStatus sets the issue state.
func (p *IssuesProvider) UpdateStatus(ctx context.Context, ticket, status string) error {
	n, err := ParseIssueNumber(ticket)
	if err != nil {
		return err
	}
	if _, ok := stateTransitions[status]; !ok {
		return fmt.Errorf("%w: github issues have no state %q", domain.ErrNoValidTransition, status)
	}
	_, _, err = p.client.Issues.Edit(ctx, p.owner, p.repo, n, &github.IssueRequest{State: github.String(status)})
	if err != nil {
		return fmt.Errorf("update issue #%d: %w", n, toDomainError(err))
	}
	return nil
}

// LookupUser resolves a login.
func (p *IssuesProvider) LookupUser(ctx context.Context, username string) (*domain.UserHandle, error) {
	return lookupUser(ctx, p.client, username)
}

// SetCustomField is not available on GitHub Issues.
func (p *IssuesProvider) SetCustomField(_ context.Context, _, field string, _ any) error {
	return fmt.Errorf("%w: github issues have no custom field %q", domain.ErrUnsupportedOperation, field)
}

func lookupUser(ctx context.Context, client *github.Client, username string) (*domain.UserHandle, error) {
	user, _, err := client.Users.Get(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user with name '%s' not found", domain.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("lookup user %s: %w", username, toDomainError(err))
	}
	return &domain.UserHandle{
		ID:          user.GetID(),
		Username:    user.GetLogin(),
		DisplayName: user.GetName(),
	}, nil
}
