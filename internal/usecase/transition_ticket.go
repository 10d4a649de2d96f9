// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/gitask/internal/domain"
)

// TransitionTicketInput contains the input for the TransitionTicket use case.
type TransitionTicketInput struct {
	Phase domain.Phase // Target workflow phase
}

// TransitionTicketOutput contains the output of the TransitionTicket use case.
type TransitionTicketOutput struct {
	TicketID string // Ticket that was moved
	Status   string // Status the ticket was moved to
}

// TransitionTicket moves the current ticket to the first reachable status of a phase.
type TransitionTicket struct {
	provider domain.TicketProvider
	resolver domain.TicketResolver
	logger   domain.Logger
	config   *domain.Config
}

// NewTransitionTicket creates a new TransitionTicket use case.
func NewTransitionTicket(cfg *domain.Config, provider domain.TicketProvider, resolver domain.TicketResolver, logger domain.Logger) *TransitionTicket {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &TransitionTicket{
		config:   cfg,
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// Execute resolves the ticket and applies the transition.
func (uc *TransitionTicket) Execute(ctx context.Context, in TransitionTicketInput) (*TransitionTicketOutput, error) {
	candidates, err := requireCandidates(uc.config, in.Phase)
	if err != nil {
		return nil, err
	}

	ticket, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	status, err := moveTicket(ctx, uc.provider, uc.logger, ticket, candidates)
	if err != nil {
		return nil, err
	}

	return &TransitionTicketOutput{TicketID: ticket, Status: status}, nil
}

// requireCandidates returns the phase's candidates or a configuration error.
func requireCandidates(cfg *domain.Config, phase domain.Phase) ([]string, error) {
	candidates := cfg.Candidates(phase)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no statuses configured for %q", domain.ErrConfiguration, string(phase))
	}
	return candidates, nil
}

// moveTicket finds the first reachable candidate and applies it.
func moveTicket(ctx context.Context, provider domain.TicketProvider, logger domain.Logger, ticket string, candidates []string) (string, error) {
	status, err := provider.FindValidTransition(ctx, ticket, candidates)
	if err != nil {
		logger.Warn(ticket, "transition", err.Error())
		return "", err
	}
	if err := provider.UpdateStatus(ctx, ticket, status); err != nil {
		logger.Error(ticket, "transition", fmt.Sprintf("update to %q failed: %v", status, err))
		return "", err
	}
	logger.Info(ticket, "transition", fmt.Sprintf("moved to %q via %s", status, provider.Name()))
	return status, nil
}
