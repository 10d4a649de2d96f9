package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v61/github"

	"github.com/runoshun/gitask/internal/domain"
)

// PullsHost implements domain.RepoHost with GitHub pull requests.
type PullsHost struct {
	client *github.Client
	owner  string
	repo   string
}

// Ensure PullsHost implements domain.RepoHost interface.
var _ domain.RepoHost = (*PullsHost)(nil)

// NewPullsHost creates a host for owner/repo.
func NewPullsHost(client *github.Client, owner, repo string) *PullsHost {
	return &PullsHost{client: client, owner: owner, repo: repo}
}

// Name returns "github".
func (h *PullsHost) Name() string { return "github" }

// OpenPullRequest returns the open pull request for the head branch, or
// creates one, assigns the token owner and requests review.
// When a follow-up step fails the created result is returned with the error.
func (h *PullsHost) OpenPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequestResult, error) {
	if existing, err := h.findOpen(ctx, pr.SourceBranch); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	reviewer, err := lookupUser(ctx, h.client, pr.Reviewer)
	if err != nil {
		return nil, err
	}

	created, _, err := h.client.PullRequests.Create(ctx, h.owner, h.repo, &github.NewPullRequest{
		Title: github.String(pr.Title),
		Head:  github.String(pr.SourceBranch),
		Base:  github.String(pr.TargetBranch),
	})
	if err != nil {
		if isStatus(err, http.StatusUnprocessableEntity) && strings.Contains(strings.ToLower(err.Error()), "already exists") {
			if existing, findErr := h.findOpen(ctx, pr.SourceBranch); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create pull request: %w", toDomainError(err))
	}
	result := &domain.PullRequestResult{URL: created.GetHTMLURL(), Number: created.GetNumber()}

	me, _, err := h.client.Users.Get(ctx, "")
	if err != nil {
		return result, fmt.Errorf("fetch authenticated user: %w", toDomainError(err))
	}
	if _, _, err := h.client.Issues.AddAssignees(ctx, h.owner, h.repo, result.Number, []string{me.GetLogin()}); err != nil {
		return result, fmt.Errorf("assign pull request: %w", toDomainError(err))
	}
	if _, _, err := h.client.PullRequests.RequestReviewers(ctx, h.owner, h.repo, result.Number, github.ReviewersRequest{
		Reviewers: []string{reviewer.Username},
	}); err != nil {
		return result, fmt.Errorf("request review from %s: %w", reviewer.Username, toDomainError(err))
	}
	return result, nil
}

func (h *PullsHost) findOpen(ctx context.Context, branch string) (*domain.PullRequestResult, error) {
	pulls, _, err := h.client.PullRequests.List(ctx, h.owner, h.repo, &github.PullRequestListOptions{
		State: "open",
		Head:  h.owner + ":" + branch,
	})
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", toDomainError(err))
	}
	if len(pulls) == 0 {
		return nil, nil
	}
	return &domain.PullRequestResult{URL: pulls[0].GetHTMLURL(), Number: pulls[0].GetNumber(), Existing: true}, nil
}
