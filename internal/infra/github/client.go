// Package github implements GitHub Issues as a domain.TicketProvider and
// GitHub pull requests as a domain.RepoHost.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/go-github/v61/github"
	"golang.org/x/oauth2"

	"github.com/runoshun/gitask/internal/domain"
)

// NewClient creates an authenticated go-github client.
// A baseURL other than github.com selects GitHub Enterprise endpoints.
func NewClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: github token not configured", domain.ErrConfiguration)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if isPublicGitHub(baseURL) {
		return client, nil
	}
	enterprise, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid github url %q: %w", domain.ErrConfiguration, baseURL, err)
	}
	return enterprise, nil
}

func isPublicGitHub(baseURL string) bool {
	switch strings.TrimSuffix(strings.ToLower(baseURL), "/") {
	case "", "https://github.com", "https://api.github.com":
		return true
	}
	return false
}

// SplitProject splits "owner/repo".
func SplitProject(project string) (owner, repo string, err error) {
	parts := strings.Split(strings.Trim(project, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: git-project must be owner/repo, got %q", domain.ErrConfiguration, project)
	}
	return parts[0], parts[1], nil
}

// ParseIssueNumber accepts "12", "#12" or "owner/repo#12".
func ParseIssueNumber(ticket string) (int, error) {
	s := strings.TrimSpace(ticket)
	if i := strings.LastIndex(s, "#"); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q is not a GitHub issue number", domain.ErrInvalidTicket, ticket)
	}
	return n, nil
}

// toDomainError converts go-github errors into domain.RemoteError.
func toDomainError(err error) error {
	if err == nil {
		return nil
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		remote := &domain.RemoteError{Service: "github"}
		if ghErr.Response != nil {
			remote.StatusCode = ghErr.Response.StatusCode
		}
		if ghErr.Message != "" {
			remote.Messages = append(remote.Messages, ghErr.Message)
		}
		for _, e := range ghErr.Errors {
			if e.Message != "" {
				remote.Messages = append(remote.Messages, e.Message)
				continue
			}
			if e.Field != "" {
				if remote.FieldErrors == nil {
					remote.FieldErrors = make(map[string]string)
				}
				remote.FieldErrors[e.Field] = e.Code
			}
		}
		return remote
	}
	return err
}

func isStatus(err error, code int) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == code
}

func isNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}
