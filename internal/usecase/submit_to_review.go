package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/gitask/internal/domain"
)

// SubmitToReviewInput contains the input for the SubmitToReview use case.
type SubmitToReviewInput struct {
	Title        string // Pull request title; empty means "Merge <source> into <target>"
	Reviewer     string // Reviewer username (required)
	TargetBranch string // Target branch; empty means the configured default
	PROnly       bool   // Skip every ticket step
}

// SubmitToReviewOutput contains the output of the SubmitToReview use case.
// It may be returned alongside an error to report what already happened.
type SubmitToReviewOutput struct {
	PullRequest  *domain.PullRequestResult
	TicketID     string
	Status       string // Empty when the ticket was not moved
	SourceBranch string
	TargetBranch string
}

// SubmitToReview moves the ticket to review and opens a pull request.
type SubmitToReview struct {
	provider domain.TicketProvider
	host     domain.RepoHost
	resolver domain.TicketResolver
	git      domain.Git
	logger   domain.Logger
	config   *domain.Config
}

// NewSubmitToReview creates a new SubmitToReview use case.
func NewSubmitToReview(
	cfg *domain.Config,
	provider domain.TicketProvider,
	host domain.RepoHost,
	resolver domain.TicketResolver,
	git domain.Git,
	logger domain.Logger,
) *SubmitToReview {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &SubmitToReview{
		config:   cfg,
		provider: provider,
		host:     host,
		resolver: resolver,
		git:      git,
		logger:   logger,
	}
}

// Execute runs the ticket steps (unless PROnly) and then opens the pull request.
// A ticket moved before a pull request failure stays moved.
func (uc *SubmitToReview) Execute(ctx context.Context, in SubmitToReviewInput) (*SubmitToReviewOutput, error) {
	reviewer := strings.TrimSpace(in.Reviewer)
	if reviewer == "" {
		return nil, domain.ErrMissingReviewer
	}

	source, err := uc.git.CurrentBranch()
	if err != nil {
		return nil, err
	}
	out := &SubmitToReviewOutput{
		SourceBranch: source,
		TargetBranch: uc.config.TargetBranch(in.TargetBranch),
	}

	if !in.PROnly {
		if err := uc.updateTicket(ctx, out, reviewer); err != nil {
			return out, err
		}
	}

	pr := domain.PullRequest{
		SourceBranch: out.SourceBranch,
		TargetBranch: out.TargetBranch,
		Title:        in.Title,
		Reviewer:     reviewer,
	}.WithDefaults()

	result, err := uc.host.OpenPullRequest(ctx, pr)
	out.PullRequest = result
	if err != nil {
		uc.logger.Error(out.TicketID, "review", fmt.Sprintf("open pull request on %s failed: %v", uc.host.Name(), err))
		return out, err
	}
	uc.logger.Info(out.TicketID, "review", fmt.Sprintf("pull request %s (existing=%t)", result.URL, result.Existing))
	return out, nil
}

// updateTicket writes the branch and reviewer fields and moves the ticket to review.
func (uc *SubmitToReview) updateTicket(ctx context.Context, out *SubmitToReviewOutput, reviewer string) error {
	candidates, err := requireCandidates(uc.config, domain.PhaseInReview)
	if err != nil {
		return err
	}

	ticket, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	out.TicketID = ticket

	var reviewerValue any = reviewer
	if uc.provider.Supports(domain.CapabilityUserLookup) {
		handle, err := uc.provider.LookupUser(ctx, reviewer)
		if err != nil {
			return err
		}
		reviewerValue = handle
	}

	if err := uc.setField(ctx, ticket, uc.config.GitBranchField, out.SourceBranch); err != nil {
		return err
	}
	if err := uc.setField(ctx, ticket, uc.config.ReviewerField, reviewerValue); err != nil {
		return err
	}

	status, err := moveTicket(ctx, uc.provider, uc.logger, ticket, candidates)
	if err != nil {
		return err
	}
	out.Status = status
	return nil
}

// setField writes a custom field. An unconfigured field is skipped.
func (uc *SubmitToReview) setField(ctx context.Context, ticket, field string, value any) error {
	if field == "" {
		return nil
	}
	if !uc.provider.Supports(domain.CapabilityCustomFields) {
		return fmt.Errorf("%w: %s cannot set field %q", domain.ErrUnsupportedOperation, uc.provider.Name(), field)
	}
	if err := uc.provider.SetCustomField(ctx, ticket, field, value); err != nil {
		return fmt.Errorf("set field %s: %w", field, err)
	}
	uc.logger.Debug(ticket, "review", fmt.Sprintf("set %s", field))
	return nil
}
