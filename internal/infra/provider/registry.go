// Package provider resolves configured pmt-type / vcs-type tags to adapters.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/infra/github"
	"github.com/runoshun/gitask/internal/infra/gitlab"
	"github.com/runoshun/gitask/internal/infra/jira"
)

// Factory builds an adapter from the configuration.
type Factory[T any] func(ctx context.Context, cfg *domain.Config) (T, error)

// Registry maps lowercase tags to factories.
type Registry[T any] struct {
	factories map[string]Factory[T]
	kind      string // Config key named in errors, e.g. "pmt-type"
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry for the given config key.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, factories: make(map[string]Factory[T])}
}

// Register adds a factory under name.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// List returns the registered names, sorted.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the adapter registered under tag.
func (r *Registry[T]) New(ctx context.Context, tag string, cfg *domain.Config) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(strings.TrimSpace(tag))]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: unsupported %s %q (supported: %s)",
			domain.ErrConfiguration, r.kind, tag, strings.Join(r.List(), ", "))
	}
	return f(ctx, cfg)
}

// TicketProviders returns the registry of built-in ticket providers.
func TicketProviders() *Registry[domain.TicketProvider] {
	r := NewRegistry[domain.TicketProvider](domain.KeyPMTType)
	r.Register("jira", newJira)
	r.Register("github", newGitHubIssues)
	return r
}

// RepoHosts returns the registry of built-in repository hosts.
func RepoHosts() *Registry[domain.RepoHost] {
	r := NewRegistry[domain.RepoHost](domain.KeyVCSType)
	r.Register("gitlab", newGitLab)
	r.Register("github", newGitHubPulls)
	return r
}

// NewTicketProvider builds the provider named by cfg.PMTType.
func NewTicketProvider(ctx context.Context, cfg *domain.Config) (domain.TicketProvider, error) {
	return TicketProviders().New(ctx, cfg.PMTType, cfg)
}

// NewRepoHost builds the host named by cfg.VCSType.
func NewRepoHost(ctx context.Context, cfg *domain.Config) (domain.RepoHost, error) {
	return RepoHosts().New(ctx, cfg.VCSType, cfg)
}

func newJira(_ context.Context, cfg *domain.Config) (domain.TicketProvider, error) {
	client, err := jira.NewClient(cfg.PMT.URL, cfg.PMT.User, cfg.PMT.Token)
	if err != nil {
		return nil, err
	}
	return jira.NewProvider(client), nil
}

func newGitHubIssues(ctx context.Context, cfg *domain.Config) (domain.TicketProvider, error) {
	owner, repo, err := github.SplitProject(cfg.GitProject)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClient(ctx, cfg.PMT.Token, cfg.PMT.URL)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s)", err, domain.EnvPMTToken)
	}
	return github.NewIssuesProvider(client, owner, repo), nil
}

func newGitLab(_ context.Context, cfg *domain.Config) (domain.RepoHost, error) {
	if cfg.Git.Token == "" {
		return nil, fmt.Errorf("%w: gitlab requires %s", domain.ErrConfiguration, domain.EnvGitToken)
	}
	if strings.TrimSpace(cfg.GitProject) == "" {
		return nil, fmt.Errorf("%w: gitlab requires %s", domain.ErrConfiguration, domain.KeyGitProject)
	}
	client, err := gitlab.NewClient(cfg.Git.Token, cfg.Git.URL)
	if err != nil {
		return nil, err
	}
	return gitlab.NewHost(client, cfg.GitProject), nil
}

func newGitHubPulls(ctx context.Context, cfg *domain.Config) (domain.RepoHost, error) {
	owner, repo, err := github.SplitProject(cfg.GitProject)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClient(ctx, cfg.Git.Token, cfg.Git.URL)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s)", err, domain.EnvGitToken)
	}
	return github.NewPullsHost(client, owner, repo), nil
}
