package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/runoshun/gitask/internal/domain"
)

// Host implements domain.RepoHost for GitLab merge requests.
type Host struct {
	client  *gl.Client
	project string // Numeric id or "group/project" path
}

// Ensure Host implements domain.RepoHost interface.
var _ domain.RepoHost = (*Host)(nil)

// NewHost creates a Host for one project.
func NewHost(client *gl.Client, project string) *Host {
	return &Host{client: client, project: project}
}

// Name returns "gitlab".
func (h *Host) Name() string { return "gitlab" }

// OpenPullRequest returns the open merge request for the source branch,
// or creates one assigned to the token owner with the reviewer attached.
func (h *Host) OpenPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequestResult, error) {
	if existing, err := h.findOpen(ctx, pr.SourceBranch); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	reviewer, err := h.lookupUser(ctx, pr.Reviewer)
	if err != nil {
		return nil, err
	}
	me, resp, err := h.client.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", toDomainError(resp, err))
	}

	mr, resp, err := h.client.MergeRequests.CreateMergeRequest(h.project, &gl.CreateMergeRequestOptions{
		SourceBranch: gl.Ptr(pr.SourceBranch),
		TargetBranch: gl.Ptr(pr.TargetBranch),
		Title:        gl.Ptr(pr.Title),
		ReviewerIDs:  &[]int{reviewer.ID},
		AssigneeID:   gl.Ptr(me.ID),
	}, gl.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			if existing, findErr := h.findOpen(ctx, pr.SourceBranch); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create merge request: %w", toDomainError(resp, err))
	}
	return &domain.PullRequestResult{URL: mr.WebURL, Number: mr.IID}, nil
}

func (h *Host) findOpen(ctx context.Context, branch string) (*domain.PullRequestResult, error) {
	mrs, resp, err := h.client.MergeRequests.ListProjectMergeRequests(h.project, &gl.ListProjectMergeRequestsOptions{
		State:        gl.Ptr("opened"),
		SourceBranch: gl.Ptr(branch),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list merge requests: %w", toDomainError(resp, err))
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	return &domain.PullRequestResult{URL: mrs[0].WebURL, Number: mrs[0].IID, Existing: true}, nil
}

func (h *Host) lookupUser(ctx context.Context, name string) (*gl.User, error) {
	users, resp, err := h.client.Users.ListUsers(&gl.ListUsersOptions{Search: gl.Ptr(name)}, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", toDomainError(resp, err))
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user with name '%s' not found", domain.ErrUserNotFound, name)
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, name) {
			return u, nil
		}
	}
	return users[0], nil
}
