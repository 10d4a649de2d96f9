// Package jira implements domain.TicketProvider on the Jira REST API v2.
package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/runoshun/gitask/internal/domain"
)

// Client wraps a go-jira client with the calls the provider needs.
type Client struct {
	api *gojira.Client
}

// NewClient creates a Jira client for baseURL.
// With an empty username the token is sent as a Bearer personal access token.
func NewClient(baseURL, username, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: jira requires %s", domain.ErrConfiguration, domain.EnvPMTURL)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: jira requires %s", domain.ErrConfiguration, domain.EnvPMTToken)
	}
	api, err := gojira.NewClient(HTTPClient(username, token, nil), baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid jira url %q: %w", domain.ErrConfiguration, baseURL, err)
	}
	return Wrap(api), nil
}

// HTTPClient returns an http.Client that authenticates every request,
// with basic auth when username is set and a personal access token otherwise.
// A nil base uses http.DefaultTransport.
func HTTPClient(username, token string, base http.RoundTripper) *http.Client {
	if username != "" {
		tp := gojira.BasicAuthTransport{Username: username, Password: token, Transport: base}
		return tp.Client()
	}
	tp := gojira.PATAuthTransport{Token: token, Transport: base}
	return tp.Client()
}

// Wrap uses an already configured go-jira client.
func Wrap(api *gojira.Client) *Client {
	return &Client{api: api}
}

// GetStatus returns the issue's current status name.
func (c *Client) GetStatus(ctx context.Context, key string) (string, error) {
	issue, resp, err := c.api.Issue.GetWithContext(ctx, key, &gojira.GetQueryOptions{Fields: "status"})
	if err != nil {
		return "", fmt.Errorf("fetch issue %s: %w", key, toDomainError(resp, err))
	}
	if issue.Fields == nil || issue.Fields.Status == nil {
		return "", nil
	}
	return issue.Fields.Status.Name, nil
}

// GetTransitions lists transitions available from the issue's current status.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]gojira.Transition, error) {
	transitions, resp, err := c.api.Issue.GetTransitionsWithContext(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch transitions of %s: %w", key, toDomainError(resp, err))
	}
	return transitions, nil
}

// DoTransition applies the transition with the given id.
func (c *Client) DoTransition(ctx context.Context, key, transitionID string) error {
	resp, err := c.api.Issue.DoTransitionWithContext(ctx, key, transitionID)
	if err != nil {
		return fmt.Errorf("transition issue %s: %w", key, toDomainError(resp, err))
	}
	closeBody(resp)
	return nil
}

// UpdateIssue updates fields on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	resp, err := c.api.Issue.UpdateIssueWithContext(ctx, key, map[string]any{"fields": fields})
	if err != nil {
		// UpdateIssue leaves the error body unread.
		if resp != nil {
			err = gojira.NewJiraError(resp, err)
		}
		return fmt.Errorf("update issue %s: %w", key, toDomainError(resp, err))
	}
	closeBody(resp)
	return nil
}

// SearchUsers finds users matching username.
func (c *Client) SearchUsers(ctx context.Context, username string) ([]gojira.User, error) {
	// go-jira concatenates search parameters without escaping them.
	q := url.QueryEscape(username)
	users, resp, err := c.api.User.FindWithContext(ctx, q, gojira.WithUsername(q))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", toDomainError(resp, err))
	}
	return users, nil
}

func closeBody(resp *gojira.Response) {
	if resp != nil && resp.Response != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

// toDomainError converts a failed go-jira call into domain.RemoteError.
// Errors without an HTTP response (network, context) are returned unchanged.
func toDomainError(resp *gojira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}
	remote := &domain.RemoteError{Service: "jira", StatusCode: resp.StatusCode}
	var jerr *gojira.Error
	if errors.As(err, &jerr) {
		remote.Messages = jerr.ErrorMessages
		if len(jerr.Errors) > 0 {
			remote.FieldErrors = jerr.Errors
		}
	}
	if len(remote.Messages) == 0 && len(remote.FieldErrors) == 0 {
		if text := plainBody(resp, err); text != "" {
			remote.Messages = []string{text}
		}
	}
	return remote
}

// plainBody recovers a non-JSON error body from go-jira's
// "<status>: <body>: request failed..." error text.
func plainBody(resp *gojira.Response, err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": request failed."); i >= 0 {
		msg = msg[:i]
	} else if strings.HasPrefix(msg, "request failed.") {
		return ""
	}
	msg = strings.TrimPrefix(msg, resp.Status+":")
	return strings.TrimSpace(msg)
}
