package jira

import (
	"context"
	"fmt"
	"strings"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/runoshun/gitask/internal/domain"
)

// Provider implements domain.TicketProvider for Jira.
type Provider struct {
	client *Client
}

// Ensure Provider implements domain.TicketProvider interface.
var _ domain.TicketProvider = (*Provider)(nil)

// NewProvider creates a Provider backed by client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns "jira".
func (p *Provider) Name() string { return "jira" }

// Supports reports that Jira has custom fields and user lookup.
func (p *Provider) Supports(c domain.Capability) bool {
	switch c {
	case domain.CapabilityCustomFields, domain.CapabilityUserLookup:
		return true
	}
	return false
}

// CurrentStatus returns the issue's status name.
func (p *Provider) CurrentStatus(ctx context.Context, ticket string) (string, error) {
	return p.client.GetStatus(ctx, ticket)
}

// reachable lists names a candidate may match: the transition name and its target status.
func reachable(transitions []gojira.Transition) []string {
	names := make([]string, 0, len(transitions)*2)
	for _, t := range transitions {
		names = append(names, t.Name)
	}
	for _, t := range transitions {
		if t.To.Name != "" {
			names = append(names, t.To.Name)
		}
	}
	return names
}

// FindValidTransition returns the first candidate matching an available transition.
func (p *Provider) FindValidTransition(ctx context.Context, ticket string, candidates []string) (string, error) {
	transitions, err := p.client.GetTransitions(ctx, ticket)
	if err != nil {
		return "", err
	}
	if status, ok := domain.FirstReachable(candidates, reachable(transitions)); ok {
		return status, nil
	}
	current, err := p.client.GetStatus(ctx, ticket)
	if err != nil {
		current = "unknown"
	}
	return "", domain.NewNoValidTransitionError(current, ticket)
}

// UpdateStatus applies the transition whose name (or target status) is status.
func (p *Provider) UpdateStatus(ctx context.Context, ticket, status string) error {
	transitions, err := p.client.GetTransitions(ctx, ticket)
	if err != nil {
		return err
	}
	id := findTransitionID(transitions, status)
	if id == "" {
		current, err := p.client.GetStatus(ctx, ticket)
		if err != nil {
			current = "unknown"
		}
		return domain.NewNoValidTransitionError(current, ticket)
	}
	return p.client.DoTransition(ctx, ticket, id)
}

func findTransitionID(transitions []gojira.Transition, status string) string {
	want := strings.ToLower(strings.TrimSpace(status))
	for _, t := range transitions {
		if strings.ToLower(strings.TrimSpace(t.Name)) == want {
			return t.ID
		}
	}
	for _, t := range transitions {
		if strings.ToLower(strings.TrimSpace(t.To.Name)) == want {
			return t.ID
		}
	}
	return ""
}

// LookupUser searches users and prefers an exact username match.
func (p *Provider) LookupUser(ctx context.Context, username string) (*domain.UserHandle, error) {
	users, err := p.client.SearchUsers(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user with name '%s' not found", domain.ErrUserNotFound, username)
	}
	chosen := users[0]
	for _, u := range users {
		if strings.EqualFold(u.Name, username) {
			chosen = u
			break
		}
	}
	name := chosen.Name
	if name == "" {
		name = username
	}
	return &domain.UserHandle{
		Username:    name,
		DisplayName: chosen.DisplayName,
		AccountID:   chosen.AccountID,
	}, nil
}

// SetCustomField writes a field value. User handles are rendered as
// {"accountId": ...} or {"name": ...}.
func (p *Provider) SetCustomField(ctx context.Context, ticket, field string, value any) error {
	switch v := value.(type) {
	case *domain.UserHandle:
		if v.AccountID != "" {
			value = map[string]string{"accountId": v.AccountID}
		} else {
			value = map[string]string{"name": v.Username}
		}
	case domain.UserHandle:
		return p.SetCustomField(ctx, ticket, field, &v)
	}
	return p.client.UpdateIssue(ctx, ticket, map[string]any{field: value})
}
