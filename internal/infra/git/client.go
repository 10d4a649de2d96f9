// Package git provides git operations.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/gitask/internal/domain"
)

// Client provides git operations.
type Client struct {
	repo *git.Repository
}

// Ensure Client implements domain.Git interface.
var _ domain.Git = (*Client)(nil)

// NewClient opens the repository containing dir.
// Parent directories are searched and linked worktrees are supported.
func NewClient(dir string) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return &Client{repo: repo}, nil
}

// NewWithRepo creates a Client around an already opened repository.
func NewWithRepo(repo *git.Repository) *Client {
	return &Client{repo: repo}
}

// CurrentBranch returns the name of the current branch.
// A repository without commits still reports the branch HEAD points to.
func (c *Client) CurrentBranch() (string, error) {
	head, err := c.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", domain.ErrDetachedHead
	}
	target := head.Target()
	if !target.IsBranch() {
		return "", fmt.Errorf("failed to get current branch: HEAD points to %s", target)
	}
	return target.Short(), nil
}
