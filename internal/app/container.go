// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/infra/config"
	"github.com/runoshun/gitask/internal/infra/executor"
	"github.com/runoshun/gitask/internal/infra/git"
	"github.com/runoshun/gitask/internal/infra/hooks"
	"github.com/runoshun/gitask/internal/infra/logging"
	"github.com/runoshun/gitask/internal/infra/provider"
	"github.com/runoshun/gitask/internal/infra/resolver"
	"github.com/runoshun/gitask/internal/usecase"
)

// Options controls how the container is built.
type Options struct {
	Stdout io.Writer // Hook script output
	Stderr io.Writer // Hook script errors and --debug log mirror
	Dir    string    // Working directory for git and the ticket script
	Debug  bool      // Force debug logging mirrored to Stderr
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tickets      domain.TicketProvider
	Host         domain.RepoHost
	Resolver     domain.TicketResolver
	Git          domain.Git
	Hooks        domain.HookRunner
	Logger       domain.Logger
	ConfigLoader domain.ConfigLoader
	ConfigWriter domain.ConfigWriter

	// ConfigErr is set when the container was built without a usable config.
	ConfigErr error

	// Configuration snapshot, nil when ConfigErr is set
	Config *domain.Config

	closer io.Closer
}

// New loads the configuration and wires every adapter it names.
// Any configuration error is returned wrapped in domain.ErrConfiguration.
func New(ctx context.Context, opts Options) (*Container, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	loader := config.NewLoader()
	writer := config.NewManager(loader.Path())

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(domain.LogDir(loader.Path()), level)
	if opts.Debug {
		logger.WithMirror(opts.Stderr)
	}

	tickets, err := provider.NewTicketProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	host, err := provider.NewRepoHost(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gitClient, err := newGit(opts.Dir)
	if err != nil {
		return nil, err
	}

	exec := executor.NewClient()

	logger.Debug("", "app", "using "+tickets.Name()+" and "+host.Name()+" with config "+loader.Path())

	return &Container{
		Tickets:      tickets,
		Host:         host,
		Resolver:     resolver.New(exec, cfg.CurrentTicket, opts.Dir),
		Git:          gitClient,
		Hooks:        hooks.NewRunner(exec, cfg.PMT, cfg.Git, opts.Stdout, opts.Stderr),
		Logger:       logger,
		ConfigLoader: loader,
		ConfigWriter: writer,
		Config:       cfg,
		closer:       logger,
	}, nil
}

// NewConfigOnly creates a container that can only write and show configuration.
// configErr is reported by every workflow command.
func NewConfigOnly(configErr error) *Container {
	loader := config.NewLoader()
	return &Container{
		ConfigLoader: loader,
		ConfigWriter: config.NewManager(loader.Path()),
		Logger:       domain.NopLogger{},
		ConfigErr:    configErr,
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(
	cfg *domain.Config,
	tickets domain.TicketProvider,
	host domain.RepoHost,
	resolver domain.TicketResolver,
	gitClient domain.Git,
	hookRunner domain.HookRunner,
	logger domain.Logger,
) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Config:   cfg,
		Tickets:  tickets,
		Host:     host,
		Resolver: resolver,
		Git:      gitClient,
		Hooks:    hookRunner,
		Logger:   logger,
	}
}

// Close releases open log files.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Ready reports whether workflow commands can run.
func (c *Container) Ready() error {
	if c == nil {
		return domain.ErrConfiguration
	}
	if c.ConfigErr != nil {
		return c.ConfigErr
	}
	if c.Config == nil {
		return domain.ErrConfiguration
	}
	return nil
}

// newGit opens the repository at dir. Outside a repository the returned
// client reports domain.ErrNotGitRepository on use, so ticket-only commands still work.
func newGit(dir string) (domain.Git, error) {
	client, err := git.NewClient(dir)
	if errors.Is(err, domain.ErrNotGitRepository) {
		return unavailableGit{err: err}, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

type unavailableGit struct {
	err error
}

func (g unavailableGit) CurrentBranch() (string, error) {
	return "", g.err
}

// UseCase factory methods

// TransitionTicketUseCase returns a new TransitionTicket use case.
func (c *Container) TransitionTicketUseCase() *usecase.TransitionTicket {
	return usecase.NewTransitionTicket(c.Config, c.Tickets, c.Resolver, c.Logger)
}

// SubmitToReviewUseCase returns a new SubmitToReview use case.
func (c *Container) SubmitToReviewUseCase() *usecase.SubmitToReview {
	return usecase.NewSubmitToReview(c.Config, c.Tickets, c.Host, c.Resolver, c.Git, c.Logger)
}

// HookChain returns the hook chain wrapping workflow commands.
func (c *Container) HookChain() *usecase.HookChain {
	return usecase.NewHookChain(c.Config, c.Hooks, c.Resolver, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigWriter)
}
